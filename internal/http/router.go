package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stockflow-backend/internal/handlers"
	"stockflow-backend/internal/middleware"
	"stockflow-backend/internal/models"
	"stockflow-backend/internal/ws"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	roleHandler *handlers.RoleHandler,
	branchHandler *handlers.BranchHandler,
	categoryHandler *handlers.CategoryHandler,
	itemHandler *handlers.ItemHandler,
	inventoryHandler *handlers.InventoryHandler,
	transferHandler *handlers.TransferHandler,
	dispatchHandler *handlers.DispatchHandler,
	receivingHandler *handlers.ReceivingHandler,
	discrepancyHandler *handlers.DiscrepancyHandler,
	reportHandler *handlers.ReportHandler,
	dashboardHandler *handlers.DashboardHandler,
	batchHandler *handlers.BatchHandler,
	healthHandler *handlers.HealthHandler,
	monitoringHandler *handlers.MonitoringHandler,
	hub *ws.Hub,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)

	adminOnly := authMiddleware.RequireRole(models.RoleAdmin)
	managers := authMiddleware.RequireRole(models.RoleAdmin, models.RoleBranchManager)
	staff := authMiddleware.RequireRole(models.RoleAdmin, models.RoleBranchManager, models.RoleWarehouse)

	// Public API routes - Authentication
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected API routes - Account
	accountAPI := r.PathPrefix("/api/account").Subrouter()
	accountAPI.Use(authMiddleware.Authenticate)
	accountAPI.HandleFunc("/password", authHandler.ChangePassword).Methods("PUT")
	accountAPI.HandleFunc("/totp/enable", authHandler.EnableTOTP).Methods("POST")
	accountAPI.HandleFunc("/totp/confirm", authHandler.ConfirmTOTP).Methods("POST")
	accountAPI.HandleFunc("/totp/disable", authHandler.DisableTOTP).Methods("POST")

	// Protected API routes - Users (admin only)
	usersAPI := r.PathPrefix("/api/users").Subrouter()
	usersAPI.Use(adminOnly)
	usersAPI.HandleFunc("", userHandler.ListUsers).Methods("GET")
	usersAPI.HandleFunc("", userHandler.CreateUser).Methods("POST")
	usersAPI.HandleFunc("/{id}", userHandler.GetUser).Methods("GET")
	usersAPI.HandleFunc("/{id}", userHandler.UpdateUser).Methods("PUT")

	// Protected API routes - Roles (admin only)
	rolesAPI := r.PathPrefix("/api/roles").Subrouter()
	rolesAPI.Use(adminOnly)
	rolesAPI.HandleFunc("", roleHandler.ListRoles).Methods("GET")
	rolesAPI.HandleFunc("", roleHandler.CreateRole).Methods("POST")
	rolesAPI.HandleFunc("/{id}", roleHandler.GetRole).Methods("GET")

	// Protected API routes - Branches
	branchesAPI := r.PathPrefix("/api/branches").Subrouter()
	branchesAPI.Use(authMiddleware.Authenticate)
	branchesAPI.HandleFunc("", branchHandler.ListBranches).Methods("GET")
	branchesAPI.HandleFunc("", adminOnly(http.HandlerFunc(branchHandler.CreateBranch)).ServeHTTP).Methods("POST")
	branchesAPI.HandleFunc("/summaries", branchHandler.BranchSummaries).Methods("GET")
	branchesAPI.HandleFunc("/{id}", branchHandler.GetBranch).Methods("GET")
	branchesAPI.HandleFunc("/{id}", adminOnly(http.HandlerFunc(branchHandler.UpdateBranch)).ServeHTTP).Methods("PUT")
	branchesAPI.HandleFunc("/{id}", adminOnly(http.HandlerFunc(branchHandler.DeactivateBranch)).ServeHTTP).Methods("DELETE")

	// Protected API routes - Categories
	categoriesAPI := r.PathPrefix("/api/categories").Subrouter()
	categoriesAPI.Use(authMiddleware.Authenticate)
	categoriesAPI.HandleFunc("", categoryHandler.ListCategories).Methods("GET")
	categoriesAPI.HandleFunc("", managers(http.HandlerFunc(categoryHandler.CreateCategory)).ServeHTTP).Methods("POST")
	categoriesAPI.HandleFunc("/{id}", categoryHandler.GetCategory).Methods("GET")
	categoriesAPI.HandleFunc("/{id}", adminOnly(http.HandlerFunc(categoryHandler.DeactivateCategory)).ServeHTTP).Methods("DELETE")

	// Protected API routes - Items
	itemsAPI := r.PathPrefix("/api/items").Subrouter()
	itemsAPI.Use(authMiddleware.Authenticate)
	itemsAPI.HandleFunc("", itemHandler.ListItems).Methods("GET")
	itemsAPI.HandleFunc("", managers(http.HandlerFunc(itemHandler.CreateItem)).ServeHTTP).Methods("POST")
	itemsAPI.HandleFunc("/by-code", itemHandler.GetItemByCode).Methods("GET")
	itemsAPI.HandleFunc("/{id}", itemHandler.GetItem).Methods("GET")
	itemsAPI.HandleFunc("/{id}", managers(http.HandlerFunc(itemHandler.UpdateItem)).ServeHTTP).Methods("PUT")
	itemsAPI.HandleFunc("/{id}", adminOnly(http.HandlerFunc(itemHandler.DeactivateItem)).ServeHTTP).Methods("DELETE")

	// Protected API routes - Inventory and stock ledger
	inventoryAPI := r.PathPrefix("/api/inventory").Subrouter()
	inventoryAPI.Use(authMiddleware.Authenticate)
	inventoryAPI.HandleFunc("/availability", inventoryHandler.CheckAvailability).Methods("GET")
	inventoryAPI.HandleFunc("/branch/{branchId}", inventoryHandler.BranchStock).Methods("GET")
	inventoryAPI.HandleFunc("/branch/{branchId}/low-stock", inventoryHandler.LowStock).Methods("GET")
	inventoryAPI.HandleFunc("/item/{itemId}", inventoryHandler.ItemStock).Methods("GET")
	inventoryAPI.HandleFunc("/item/{itemId}/branch/{branchId}", inventoryHandler.GetStock).Methods("GET")
	inventoryAPI.HandleFunc("/item/{itemId}/branch/{branchId}/reconcile", adminOnly(http.HandlerFunc(inventoryHandler.Reconcile)).ServeHTTP).Methods("POST")
	inventoryAPI.HandleFunc("/movements", inventoryHandler.ListMovements).Methods("GET")
	inventoryAPI.HandleFunc("/movements", staff(http.HandlerFunc(inventoryHandler.PostMovement)).ServeHTTP).Methods("POST")
	inventoryAPI.HandleFunc("/reserve", staff(http.HandlerFunc(inventoryHandler.ReserveStock)).ServeHTTP).Methods("POST")
	inventoryAPI.HandleFunc("/release", staff(http.HandlerFunc(inventoryHandler.ReleaseStock)).ServeHTTP).Methods("POST")

	// Protected API routes - Transfers
	transfersAPI := r.PathPrefix("/api/transfers").Subrouter()
	transfersAPI.Use(authMiddleware.Authenticate)
	transfersAPI.HandleFunc("", transferHandler.ListTransfers).Methods("GET")
	transfersAPI.HandleFunc("", staff(http.HandlerFunc(transferHandler.CreateTransfer)).ServeHTTP).Methods("POST")
	transfersAPI.HandleFunc("/next-number", transferHandler.NextTransferNumber).Methods("GET")
	transfersAPI.HandleFunc("/{id}", transferHandler.GetTransfer).Methods("GET")
	transfersAPI.HandleFunc("/{id}/approve", managers(http.HandlerFunc(transferHandler.ApproveTransfer)).ServeHTTP).Methods("POST")
	transfersAPI.HandleFunc("/{id}/reject", managers(http.HandlerFunc(transferHandler.RejectTransfer)).ServeHTTP).Methods("POST")
	transfersAPI.HandleFunc("/{id}/cancel", staff(http.HandlerFunc(transferHandler.CancelTransfer)).ServeHTTP).Methods("POST")
	transfersAPI.HandleFunc("/{transferId}/dispatch-slip", dispatchHandler.GetDispatchByTransfer).Methods("GET")

	// Protected API routes - Dispatches
	dispatchesAPI := r.PathPrefix("/api/dispatches").Subrouter()
	dispatchesAPI.Use(authMiddleware.Authenticate)
	dispatchesAPI.HandleFunc("", dispatchHandler.ListDispatches).Methods("GET")
	dispatchesAPI.HandleFunc("", staff(http.HandlerFunc(dispatchHandler.CreateDispatch)).ServeHTTP).Methods("POST")
	dispatchesAPI.HandleFunc("/{id}", dispatchHandler.GetDispatch).Methods("GET")
	dispatchesAPI.HandleFunc("/{id}/items", dispatchHandler.DispatchItems).Methods("GET")
	dispatchesAPI.HandleFunc("/{id}/note.pdf", dispatchHandler.DispatchNote).Methods("GET")

	// Protected API routes - Receivings
	receivingsAPI := r.PathPrefix("/api/receivings").Subrouter()
	receivingsAPI.Use(authMiddleware.Authenticate)
	receivingsAPI.HandleFunc("", receivingHandler.ListReceivings).Methods("GET")
	receivingsAPI.HandleFunc("", staff(http.HandlerFunc(receivingHandler.CreateReceiving)).ServeHTTP).Methods("POST")
	receivingsAPI.HandleFunc("/{id}", receivingHandler.GetReceiving).Methods("GET")
	receivingsAPI.HandleFunc("/{id}/photo", staff(http.HandlerFunc(receivingHandler.UploadPhoto)).ServeHTTP).Methods("POST")
	receivingsAPI.HandleFunc("/{id}/photo", receivingHandler.GetPhoto).Methods("GET")

	// Protected API routes - Discrepancies
	discrepanciesAPI := r.PathPrefix("/api/discrepancies").Subrouter()
	discrepanciesAPI.Use(authMiddleware.Authenticate)
	discrepanciesAPI.HandleFunc("", discrepancyHandler.ListDiscrepancies).Methods("GET")
	discrepanciesAPI.HandleFunc("", staff(http.HandlerFunc(discrepancyHandler.ReportDiscrepancy)).ServeHTTP).Methods("POST")
	discrepanciesAPI.HandleFunc("/{id}", discrepancyHandler.GetDiscrepancy).Methods("GET")
	discrepanciesAPI.HandleFunc("/{id}/investigate", managers(http.HandlerFunc(discrepancyHandler.InvestigateDiscrepancy)).ServeHTTP).Methods("POST")
	discrepanciesAPI.HandleFunc("/{id}/resolve", managers(http.HandlerFunc(discrepancyHandler.ResolveDiscrepancy)).ServeHTTP).Methods("POST")

	// Protected API routes - Reports (managers and admins)
	reportsAPI := r.PathPrefix("/api/reports").Subrouter()
	reportsAPI.Use(managers)
	reportsAPI.HandleFunc("/stock-valuation", reportHandler.StockValuation).Methods("GET")
	reportsAPI.HandleFunc("/stock-aging", reportHandler.StockAging).Methods("GET")
	reportsAPI.HandleFunc("/transfers-by-day", reportHandler.TransfersByDay).Methods("GET")
	reportsAPI.HandleFunc("/most-requested-items", reportHandler.MostRequestedItems).Methods("GET")
	reportsAPI.HandleFunc("/transfer-performance", reportHandler.TransferPerformance).Methods("GET")
	reportsAPI.HandleFunc("/monthly-movements", reportHandler.MonthlyMovements).Methods("GET")
	reportsAPI.HandleFunc("/branch-performance", reportHandler.BranchPerformance).Methods("GET")
	reportsAPI.HandleFunc("/reorder-alerts", reportHandler.ReorderAlerts).Methods("GET")
	reportsAPI.HandleFunc("/user-activity", adminOnly(http.HandlerFunc(reportHandler.UserActivity)).ServeHTTP).Methods("GET")

	// Protected API routes - Dashboard
	dashboardAPI := r.PathPrefix("/api/dashboard").Subrouter()
	dashboardAPI.Use(authMiddleware.Authenticate)
	dashboardAPI.HandleFunc("/summary", dashboardHandler.Summary).Methods("GET")
	dashboardAPI.HandleFunc("/activity", dashboardHandler.RecentActivity).Methods("GET")

	// Protected API routes - Batch operations (admin only)
	batchAPI := r.PathPrefix("/api/batch").Subrouter()
	batchAPI.Use(adminOnly)
	batchAPI.HandleFunc("/stock", batchHandler.BatchUpdateStock).Methods("POST")
	batchAPI.HandleFunc("/items", batchHandler.BatchCreateItems).Methods("POST")
	batchAPI.HandleFunc("/min-stock", batchHandler.BatchUpdateMinStock).Methods("POST")
	batchAPI.HandleFunc("/prices", batchHandler.BatchUpdatePrices).Methods("POST")

	// Protected API routes - System monitoring (admin only)
	systemAPI := r.PathPrefix("/api/system").Subrouter()
	systemAPI.Use(adminOnly)
	systemAPI.HandleFunc("/stats", monitoringHandler.SystemStats).Methods("GET")

	// WebSocket event stream
	r.Handle("/ws", hub)

	// Health endpoints (no auth required - for Kubernetes probes)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
