package monitoring

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// Collector gathers host and database statistics for the admin
// system-status endpoint.
type Collector struct {
	db        *pgxpool.Pool
	startedAt time.Time
}

type SystemStats struct {
	DatabaseStatus    string  `json:"database_status"`
	DBResponseTimeMs  int64   `json:"db_response_time_ms"`
	ActiveConnections int     `json:"active_connections"`
	PoolTotalConns    int32   `json:"pool_total_conns"`
	PoolIdleConns     int32   `json:"pool_idle_conns"`
	DBSize            string  `json:"db_size"`
	DBUptime          string  `json:"db_uptime"`
	CPUPercent        float64 `json:"cpu_percent"`
	MemoryPercent     float64 `json:"memory_percent"`
	MemoryUsed        string  `json:"memory_used"`
	MemoryTotal       string  `json:"memory_total"`
	DiskPercent       float64 `json:"disk_percent"`
	DiskUsed          string  `json:"disk_used"`
	DiskTotal         string  `json:"disk_total"`
	AppUptime         string  `json:"app_uptime"`
	CollectedAt       string  `json:"collected_at"`
}

func NewCollector(db *pgxpool.Pool) *Collector {
	return &Collector{db: db, startedAt: time.Now()}
}

func (c *Collector) Collect(ctx context.Context) SystemStats {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := c.db.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	dbStatus := "healthy"
	if err != nil {
		dbStatus = "unhealthy"
	}

	var activeConns int
	c.db.QueryRow(ctx, "SELECT count(*) FROM pg_stat_activity").Scan(&activeConns)

	var dbSizeBytes int64
	c.db.QueryRow(ctx, "SELECT pg_database_size(current_database())").Scan(&dbSizeBytes)

	var uptimeSec int
	c.db.QueryRow(ctx, "SELECT EXTRACT(EPOCH FROM (NOW() - pg_postmaster_start_time()))::int").Scan(&uptimeSec)

	stat := c.db.Stat()

	cpuPercents, _ := cpu.Percent(0, false)
	cpuPercent := 0.0
	if len(cpuPercents) > 0 {
		cpuPercent = cpuPercents[0]
	}

	memStats, _ := mem.VirtualMemory()
	diskStats, _ := disk.Usage("/")

	stats := SystemStats{
		DatabaseStatus:    dbStatus,
		DBResponseTimeMs:  responseTime,
		ActiveConnections: activeConns,
		PoolTotalConns:    stat.TotalConns(),
		PoolIdleConns:     stat.IdleConns(),
		DBSize:            formatBytes(uint64(dbSizeBytes)),
		DBUptime:          formatUptime(uptimeSec),
		CPUPercent:        cpuPercent,
		AppUptime:         formatUptime(int(time.Since(c.startedAt).Seconds())),
		CollectedAt:       time.Now().UTC().Format(time.RFC3339),
	}

	if memStats != nil {
		stats.MemoryPercent = memStats.UsedPercent
		stats.MemoryUsed = formatBytes(memStats.Used)
		stats.MemoryTotal = formatBytes(memStats.Total)
	}
	if diskStats != nil {
		stats.DiskPercent = diskStats.UsedPercent
		stats.DiskUsed = formatBytes(diskStats.Used)
		stats.DiskTotal = formatBytes(diskStats.Total)
	}

	return stats
}

func formatBytes(bytes uint64) string {
	gb := float64(bytes) / (1024 * 1024 * 1024)
	if gb < 1 {
		mb := float64(bytes) / (1024 * 1024)
		return fmt.Sprintf("%.1f MB", mb)
	}
	return fmt.Sprintf("%.1f GB", gb)
}

func formatUptime(seconds int) string {
	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
