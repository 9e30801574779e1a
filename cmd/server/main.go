package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockflow-backend/internal/auth"
	"stockflow-backend/internal/cache"
	"stockflow-backend/internal/config"
	"stockflow-backend/internal/database"
	"stockflow-backend/internal/db"
	"stockflow-backend/internal/handlers"
	"stockflow-backend/internal/health"
	h "stockflow-backend/internal/http"
	"stockflow-backend/internal/middleware"
	"stockflow-backend/internal/monitoring"
	"stockflow-backend/internal/repositories"
	"stockflow-backend/internal/services"
	"stockflow-backend/internal/storage"
	"stockflow-backend/internal/ws"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	pool := db.Connect(cfg)
	defer pool.Close()

	// Redis is optional; dashboard and report caching degrade to
	// direct database reads when it is unavailable.
	if err := cache.Init(cfg); err != nil {
		log.Printf("[Redis] Cache unavailable: %v", err)
	}
	defer cache.Close()

	log.Println("Running database migrations...")
	migrator := database.NewMigrator(pool)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := migrator.RunMigrations(ctx); err != nil {
		cancel()
		log.Fatalf("Failed to run migrations: %v", err)
	}
	cancel()

	healthChecker := health.NewHealthChecker(pool)
	collector := monitoring.NewCollector(pool)
	jwtManager := auth.NewJWTManager(cfg)

	photoStore, err := storage.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to configure object storage: %v", err)
	}

	hub := ws.NewHub()
	go hub.Run()

	// Repositories
	store := repositories.NewTxStore(pool)
	userRepo := repositories.NewUserRepository(pool)
	roleRepo := repositories.NewRoleRepository(pool)
	branchRepo := repositories.NewBranchRepository(pool)
	categoryRepo := repositories.NewCategoryRepository(pool)
	itemRepo := repositories.NewItemRepository(pool)
	inventoryRepo := repositories.NewInventoryRepository(pool)
	movementRepo := repositories.NewMovementRepository(pool)
	transferRepo := repositories.NewTransferRepository(pool)
	dispatchRepo := repositories.NewDispatchRepository(pool)
	receivingRepo := repositories.NewReceivingRepository(pool)
	discrepancyRepo := repositories.NewDiscrepancyRepository(pool)
	dashboardRepo := repositories.NewDashboardRepository(pool)
	reportRepo := repositories.NewReportRepository(pool)

	// Services
	userService := services.NewUserService(userRepo, jwtManager)
	ledgerService := services.NewLedgerService(store)
	transferService := services.NewTransferService(store)
	discrepancyService := services.NewDiscrepancyService(store)
	dashboardService := services.NewDashboardService(dashboardRepo)
	reportService := services.NewReportService(reportRepo)
	batchService := services.NewBatchService(ledgerService, itemRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService, userRepo)
	roleHandler := handlers.NewRoleHandler(roleRepo)
	branchHandler := handlers.NewBranchHandler(branchRepo)
	categoryHandler := handlers.NewCategoryHandler(categoryRepo)
	itemHandler := handlers.NewItemHandler(itemRepo)
	inventoryHandler := handlers.NewInventoryHandler(inventoryRepo, movementRepo, ledgerService, hub)
	transferHandler := handlers.NewTransferHandler(transferService, transferRepo, hub)
	dispatchHandler := handlers.NewDispatchHandler(transferService, dispatchRepo, hub)
	receivingHandler := handlers.NewReceivingHandler(transferService, receivingRepo, photoStore, hub)
	discrepancyHandler := handlers.NewDiscrepancyHandler(discrepancyService, discrepancyRepo, hub)
	reportHandler := handlers.NewReportHandler(reportService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	batchHandler := handlers.NewBatchHandler(batchService)
	healthHandler := handlers.NewHealthHandler(healthChecker)
	monitoringHandler := handlers.NewMonitoringHandler(collector)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)
	corsMiddleware := middleware.NewCORS(cfg)

	router := h.NewRouter(
		authHandler,
		userHandler,
		roleHandler,
		branchHandler,
		categoryHandler,
		itemHandler,
		inventoryHandler,
		transferHandler,
		dispatchHandler,
		receivingHandler,
		discrepancyHandler,
		reportHandler,
		dashboardHandler,
		batchHandler,
		healthHandler,
		monitoringHandler,
		hub,
		authMiddleware,
	)

	handler := middleware.PanicRecovery(corsMiddleware(router))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server running on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
