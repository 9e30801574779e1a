package handlers

import (
	"net/http"

	"stockflow-backend/internal/monitoring"
	"stockflow-backend/pkg/utils"
)

type MonitoringHandler struct {
	Collector *monitoring.Collector
}

func NewMonitoringHandler(c *monitoring.Collector) *MonitoringHandler {
	return &MonitoringHandler{Collector: c}
}

// SystemStats returns host and database statistics for the admin panel.
func (h *MonitoringHandler) SystemStats(w http.ResponseWriter, r *http.Request) {
	stats := h.Collector.Collect(r.Context())
	utils.JSON(w, http.StatusOK, stats)
}
