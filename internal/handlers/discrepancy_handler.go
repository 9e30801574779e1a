package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"stockflow-backend/internal/cache"
	"stockflow-backend/internal/middleware"
	"stockflow-backend/internal/models"
	"stockflow-backend/internal/repositories"
	"stockflow-backend/internal/services"
	"stockflow-backend/internal/ws"
	"stockflow-backend/pkg/utils"
	"stockflow-backend/pkg/validator"
)

type DiscrepancyHandler struct {
	Service *services.DiscrepancyService
	Repo    *repositories.DiscrepancyRepository
	Hub     *ws.Hub
}

func NewDiscrepancyHandler(s *services.DiscrepancyService, repo *repositories.DiscrepancyRepository, hub *ws.Hub) *DiscrepancyHandler {
	return &DiscrepancyHandler{Service: s, Repo: repo, Hub: hub}
}

func (h *DiscrepancyHandler) ReportDiscrepancy(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req models.ReportDiscrepancyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validator.ValidateStruct(req); errs != nil {
		utils.Error(w, http.StatusBadRequest, validator.Describe(errs))
		return
	}
	if !req.Type.Valid() {
		utils.Error(w, http.StatusBadRequest, "invalid discrepancy_type")
		return
	}

	discrepancy, err := h.Service.Report(r.Context(), &req, userID)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	cache.InvalidateDashboard(r.Context())
	h.Hub.Publish("discrepancy.reported", discrepancy)

	utils.JSON(w, http.StatusCreated, discrepancy)
}

func (h *DiscrepancyHandler) GetDiscrepancy(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	discrepancy, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, discrepancy)
}

func (h *DiscrepancyHandler) ListDiscrepancies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.DiscrepancyFilter{
		Status: models.DiscrepancyStatus(q.Get("status")),
		Type:   models.DiscrepancyType(q.Get("discrepancy_type")),
	}
	filter.BranchID, _ = strconv.Atoi(q.Get("branch_id"))
	filter.ItemID, _ = strconv.Atoi(q.Get("item_id"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	filter.Offset, _ = strconv.Atoi(q.Get("offset"))

	discrepancies, err := h.Repo.List(r.Context(), filter)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, discrepancies)
}

func (h *DiscrepancyHandler) InvestigateDiscrepancy(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.InvestigateDiscrepancyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.Service.Investigate(r.Context(), id, &req, userID); err != nil {
		utils.ServiceError(w, err)
		return
	}

	discrepancy, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, discrepancy)
}

func (h *DiscrepancyHandler) ResolveDiscrepancy(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.ResolveDiscrepancyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validator.ValidateStruct(req); errs != nil {
		utils.Error(w, http.StatusBadRequest, validator.Describe(errs))
		return
	}

	if err := h.Service.Resolve(r.Context(), id, &req, userID); err != nil {
		utils.ServiceError(w, err)
		return
	}

	cache.InvalidateDashboard(r.Context())
	h.Hub.Publish("discrepancy.resolved", map[string]int{"discrepancy_id": id})

	discrepancy, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, discrepancy)
}
