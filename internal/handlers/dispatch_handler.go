package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"stockflow-backend/internal/cache"
	"stockflow-backend/internal/middleware"
	"stockflow-backend/internal/models"
	"stockflow-backend/internal/pdf"
	"stockflow-backend/internal/repositories"
	"stockflow-backend/internal/services"
	"stockflow-backend/internal/ws"
	"stockflow-backend/pkg/utils"
	"stockflow-backend/pkg/validator"
)

type DispatchHandler struct {
	Service *services.TransferService
	Repo    *repositories.DispatchRepository
	Hub     *ws.Hub
}

func NewDispatchHandler(s *services.TransferService, repo *repositories.DispatchRepository, hub *ws.Hub) *DispatchHandler {
	return &DispatchHandler{Service: s, Repo: repo, Hub: hub}
}

func (h *DispatchHandler) CreateDispatch(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req models.CreateDispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validator.ValidateStruct(req); errs != nil {
		utils.Error(w, http.StatusBadRequest, validator.Describe(errs))
		return
	}

	slip, err := h.Service.Dispatch(r.Context(), &req, userID)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	cache.InvalidateDashboard(r.Context())
	h.Hub.Publish("transfer.dispatched", slip)

	utils.JSON(w, http.StatusCreated, slip)
}

func (h *DispatchHandler) GetDispatch(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	slip, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, slip)
}

func (h *DispatchHandler) GetDispatchByTransfer(w http.ResponseWriter, r *http.Request) {
	transferID, _ := strconv.Atoi(mux.Vars(r)["transferId"])

	slip, err := h.Repo.GetByTransfer(r.Context(), transferID)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, slip)
}

func (h *DispatchHandler) ListDispatches(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	slips, err := h.Repo.List(r.Context(), limit, offset)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, slips)
}

func (h *DispatchHandler) DispatchItems(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	items, err := h.Repo.Items(r.Context(), id)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, items)
}

// DispatchNote streams a printable PDF of the dispatch slip.
func (h *DispatchHandler) DispatchNote(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	slip, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	items, err := h.Repo.Items(r.Context(), id)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	data, err := pdf.DispatchNote(slip, items)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%s.pdf", slip.DispatchNumber))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
