package handlers

import (
	"encoding/json"
	"net/http"

	"stockflow-backend/internal/cache"
	"stockflow-backend/internal/middleware"
	"stockflow-backend/internal/models"
	"stockflow-backend/internal/services"
	"stockflow-backend/pkg/utils"
	"stockflow-backend/pkg/validator"
)

type BatchHandler struct {
	Service *services.BatchService
}

func NewBatchHandler(s *services.BatchService) *BatchHandler {
	return &BatchHandler{Service: s}
}

// BatchUpdateStock posts a list of stock movements. Partial failure is
// allowed; the response reports per-entry outcomes.
func (h *BatchHandler) BatchUpdateStock(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req models.BatchStockUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validator.ValidateStruct(req); errs != nil {
		utils.Error(w, http.StatusBadRequest, validator.Describe(errs))
		return
	}

	resp := h.Service.UpdateStock(r.Context(), &req, userID)

	if resp.Succeeded > 0 {
		cache.InvalidateDashboard(r.Context())
	}

	status := http.StatusOK
	if resp.Failed > 0 && resp.Succeeded > 0 {
		status = http.StatusMultiStatus
	} else if resp.Failed > 0 {
		status = http.StatusBadRequest
	}
	utils.JSON(w, status, resp)
}

func (h *BatchHandler) BatchCreateItems(w http.ResponseWriter, r *http.Request) {
	var req models.BatchItemCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validator.ValidateStruct(req); errs != nil {
		utils.Error(w, http.StatusBadRequest, validator.Describe(errs))
		return
	}

	resp := h.Service.CreateItems(r.Context(), &req)

	status := http.StatusOK
	if resp.Failed > 0 && resp.Succeeded > 0 {
		status = http.StatusMultiStatus
	} else if resp.Failed > 0 {
		status = http.StatusBadRequest
	}
	utils.JSON(w, status, resp)
}

// BatchUpdateMinStock rewrites the reorder threshold for a whole category.
func (h *BatchHandler) BatchUpdateMinStock(w http.ResponseWriter, r *http.Request) {
	var req models.BatchMinStockUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validator.ValidateStruct(req); errs != nil {
		utils.Error(w, http.StatusBadRequest, validator.Describe(errs))
		return
	}

	resp, err := h.Service.UpdateMinimumStock(r.Context(), &req)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}

// BatchUpdatePrices scales unit prices for a whole category by a percentage.
func (h *BatchHandler) BatchUpdatePrices(w http.ResponseWriter, r *http.Request) {
	var req models.BatchPriceUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validator.ValidateStruct(req); errs != nil {
		utils.Error(w, http.StatusBadRequest, validator.Describe(errs))
		return
	}

	resp, err := h.Service.UpdatePrices(r.Context(), &req)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, resp)
}
