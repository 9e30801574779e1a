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
	"stockflow-backend/internal/timeutil"
	"stockflow-backend/internal/ws"
	"stockflow-backend/pkg/utils"
	"stockflow-backend/pkg/validator"
)

type TransferHandler struct {
	Service *services.TransferService
	Repo    *repositories.TransferRepository
	Hub     *ws.Hub
}

func NewTransferHandler(s *services.TransferService, repo *repositories.TransferRepository, hub *ws.Hub) *TransferHandler {
	return &TransferHandler{Service: s, Repo: repo, Hub: hub}
}

func (h *TransferHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req models.CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validator.ValidateStruct(req); errs != nil {
		utils.Error(w, http.StatusBadRequest, validator.Describe(errs))
		return
	}

	transfer, err := h.Service.Create(r.Context(), &req, userID)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	cache.InvalidateDashboard(r.Context())
	h.Hub.Publish("transfer.created", transfer)

	utils.JSON(w, http.StatusCreated, transfer)
}

func (h *TransferHandler) GetTransfer(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	transfer, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, transfer)
}

func (h *TransferHandler) ListTransfers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.TransferFilter{
		Status:   models.TransferStatus(q.Get("status")),
		Priority: models.TransferPriority(q.Get("priority")),
	}
	filter.FromBranchID, _ = strconv.Atoi(q.Get("from_branch_id"))
	filter.ToBranchID, _ = strconv.Atoi(q.Get("to_branch_id"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	filter.Offset, _ = strconv.Atoi(q.Get("offset"))
	filter.StartDate = parseDateParam(q.Get("start_date"))
	filter.EndDate = parseDateParam(q.Get("end_date"))

	transfers, err := h.Repo.List(r.Context(), filter)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, transfers)
}

func (h *TransferHandler) ApproveTransfer(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.ApproveTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validator.ValidateStruct(req); errs != nil {
		utils.Error(w, http.StatusBadRequest, validator.Describe(errs))
		return
	}

	if err := h.Service.Approve(r.Context(), id, &req, userID); err != nil {
		utils.ServiceError(w, err)
		return
	}

	cache.InvalidateDashboard(r.Context())
	h.Hub.Publish("transfer.approved", map[string]int{"transfer_id": id})

	transfer, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, transfer)
}

func (h *TransferHandler) RejectTransfer(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.RejectTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validator.ValidateStruct(req); errs != nil {
		utils.Error(w, http.StatusBadRequest, validator.Describe(errs))
		return
	}

	if err := h.Service.Reject(r.Context(), id, &req, userID); err != nil {
		utils.ServiceError(w, err)
		return
	}

	cache.InvalidateDashboard(r.Context())
	h.Hub.Publish("transfer.rejected", map[string]int{"transfer_id": id})

	utils.JSON(w, http.StatusOK, map[string]string{"message": "transfer rejected"})
}

func (h *TransferHandler) CancelTransfer(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	if err := h.Service.Cancel(r.Context(), id, userID); err != nil {
		utils.ServiceError(w, err)
		return
	}

	cache.InvalidateDashboard(r.Context())
	h.Hub.Publish("transfer.cancelled", map[string]int{"transfer_id": id})

	utils.JSON(w, http.StatusOK, map[string]string{"message": "transfer cancelled"})
}

// NextTransferNumber previews today's next TR number. Advisory only; the
// committed number is assigned inside the create transaction.
func (h *TransferHandler) NextTransferNumber(w http.ResponseWriter, r *http.Request) {
	seq, err := h.Repo.NextSequencePreview(r.Context(), services.DocTypeTransfer, timeutil.Today())
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{
		"transfer_number": services.FormatDocumentNumber(services.DocTypeTransfer, timeutil.Now(), seq),
	})
}
