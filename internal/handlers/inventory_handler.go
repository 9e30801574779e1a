package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"stockflow-backend/internal/cache"
	"stockflow-backend/internal/middleware"
	"stockflow-backend/internal/models"
	"stockflow-backend/internal/repositories"
	"stockflow-backend/internal/services"
	"stockflow-backend/internal/timeutil"
	"stockflow-backend/internal/ws"
	"stockflow-backend/pkg/utils"
	"stockflow-backend/pkg/validator"
)

type InventoryHandler struct {
	Repo      *repositories.InventoryRepository
	Movements *repositories.MovementRepository
	Ledger    *services.LedgerService
	Hub       *ws.Hub
}

func NewInventoryHandler(repo *repositories.InventoryRepository, movements *repositories.MovementRepository, ledger *services.LedgerService, hub *ws.Hub) *InventoryHandler {
	return &InventoryHandler{Repo: repo, Movements: movements, Ledger: ledger, Hub: hub}
}

func (h *InventoryHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	itemID, _ := strconv.Atoi(vars["itemId"])
	branchID, _ := strconv.Atoi(vars["branchId"])

	inv, err := h.Repo.Get(r.Context(), itemID, branchID)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, inv)
}

func (h *InventoryHandler) BranchStock(w http.ResponseWriter, r *http.Request) {
	branchID, _ := strconv.Atoi(mux.Vars(r)["branchId"])

	stock, err := h.Repo.BranchStock(r.Context(), branchID)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, stock)
}

func (h *InventoryHandler) ItemStock(w http.ResponseWriter, r *http.Request) {
	itemID, _ := strconv.Atoi(mux.Vars(r)["itemId"])

	stock, err := h.Repo.ItemStock(r.Context(), itemID)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, stock)
}

func (h *InventoryHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	branchID, _ := strconv.Atoi(mux.Vars(r)["branchId"])

	items, err := h.Repo.LowStock(r.Context(), branchID)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, items)
}

// CheckAvailability answers whether a branch can fulfil a requested
// quantity right now.
func (h *InventoryHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	itemID, _ := strconv.Atoi(r.URL.Query().Get("item_id"))
	branchID, _ := strconv.Atoi(r.URL.Query().Get("branch_id"))
	quantity, _ := strconv.Atoi(r.URL.Query().Get("quantity"))
	if itemID <= 0 || branchID <= 0 || quantity <= 0 {
		utils.Error(w, http.StatusBadRequest, "item_id, branch_id and quantity are required")
		return
	}

	availability, err := h.Repo.Availability(r.Context(), itemID, branchID, quantity)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, availability)
}

func (h *InventoryHandler) PostMovement(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req models.PostMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validator.ValidateStruct(req); errs != nil {
		utils.Error(w, http.StatusBadRequest, validator.Describe(errs))
		return
	}

	movement, err := h.Ledger.PostMovement(r.Context(), &req, userID)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	cache.InvalidateDashboard(r.Context())
	h.Hub.Publish("stock.movement", movement)

	utils.JSON(w, http.StatusCreated, movement)
}

func (h *InventoryHandler) ReserveStock(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req models.StockReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validator.ValidateStruct(req); errs != nil {
		utils.Error(w, http.StatusBadRequest, validator.Describe(errs))
		return
	}

	inv, err := h.Ledger.Reserve(r.Context(), &req, userID)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, inv)
}

func (h *InventoryHandler) ReleaseStock(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req models.StockReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validator.ValidateStruct(req); errs != nil {
		utils.Error(w, http.StatusBadRequest, validator.Describe(errs))
		return
	}

	inv, err := h.Ledger.Release(r.Context(), &req, userID)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, inv)
}

// Reconcile replays the movement ledger for one balance row and
// rewrites it when the materialized value drifted.
func (h *InventoryHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	vars := mux.Vars(r)
	itemID, _ := strconv.Atoi(vars["itemId"])
	branchID, _ := strconv.Atoi(vars["branchId"])

	result, err := h.Ledger.ReconcileFromHistory(r.Context(), itemID, branchID, userID)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	if result.Corrected {
		cache.InvalidateDashboard(r.Context())
	}

	utils.JSON(w, http.StatusOK, result)
}

func (h *InventoryHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	filter := models.MovementFilter{}
	q := r.URL.Query()

	filter.ItemID, _ = strconv.Atoi(q.Get("item_id"))
	filter.BranchID, _ = strconv.Atoi(q.Get("branch_id"))
	filter.MovementType = models.MovementType(q.Get("movement_type"))
	filter.ReferenceType = models.ReferenceType(q.Get("reference_type"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	filter.Offset, _ = strconv.Atoi(q.Get("offset"))
	filter.StartDate = parseDateParam(q.Get("start_date"))
	filter.EndDate = parseDateParam(q.Get("end_date"))

	movements, err := h.Movements.List(r.Context(), filter)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, movements)
}

// parseDateParam turns a YYYY-MM-DD query value into a time pointer,
// interpreted in the deployment timezone. Empty or malformed values
// are treated as absent.
func parseDateParam(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.ParseInLocation(timeutil.DateLayout, value, timeutil.Loc)
	if err != nil {
		return nil
	}
	return &t
}
