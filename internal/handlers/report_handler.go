package handlers

import (
	"net/http"
	"strconv"

	"stockflow-backend/internal/models"
	"stockflow-backend/internal/services"
	"stockflow-backend/pkg/utils"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(s *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: s}
}

func reportFilterFromQuery(r *http.Request) models.ReportFilter {
	q := r.URL.Query()
	filter := models.ReportFilter{}
	filter.BranchID, _ = strconv.Atoi(q.Get("branch_id"))
	filter.CategoryID, _ = strconv.Atoi(q.Get("category_id"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	filter.StartDate = parseDateParam(q.Get("start_date"))
	filter.EndDate = parseDateParam(q.Get("end_date"))
	return filter
}

func (h *ReportHandler) StockValuation(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.StockValuation(r.Context(), reportFilterFromQuery(r))
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, rows)
}

func (h *ReportHandler) StockAging(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.StockAging(r.Context(), reportFilterFromQuery(r))
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, rows)
}

func (h *ReportHandler) TransfersByDay(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.TransfersByDay(r.Context(), reportFilterFromQuery(r))
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, rows)
}

func (h *ReportHandler) MostRequestedItems(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.MostRequestedItems(r.Context(), reportFilterFromQuery(r))
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, rows)
}

func (h *ReportHandler) TransferPerformance(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.TransferPerformance(r.Context(), reportFilterFromQuery(r))
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, rows)
}

func (h *ReportHandler) MonthlyMovements(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.MonthlyMovements(r.Context(), reportFilterFromQuery(r))
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, rows)
}

func (h *ReportHandler) BranchPerformance(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.BranchPerformance(r.Context(), reportFilterFromQuery(r))
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, rows)
}

func (h *ReportHandler) ReorderAlerts(w http.ResponseWriter, r *http.Request) {
	branchID, _ := strconv.Atoi(r.URL.Query().Get("branch_id"))

	rows, err := h.Service.ReorderAlerts(r.Context(), branchID)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, rows)
}

func (h *ReportHandler) UserActivity(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Service.UserActivity(r.Context(), reportFilterFromQuery(r))
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, rows)
}
