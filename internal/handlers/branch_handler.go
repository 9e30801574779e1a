package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"stockflow-backend/internal/models"
	"stockflow-backend/internal/repositories"
	"stockflow-backend/pkg/utils"
	"stockflow-backend/pkg/validator"
)

type BranchHandler struct {
	Repo *repositories.BranchRepository
}

func NewBranchHandler(repo *repositories.BranchRepository) *BranchHandler {
	return &BranchHandler{Repo: repo}
}

func (h *BranchHandler) ListBranches(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("include_inactive") == "true"

	branches, err := h.Repo.List(r.Context(), includeInactive)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, branches)
}

func (h *BranchHandler) GetBranch(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	branch, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, branch)
}

func (h *BranchHandler) CreateBranch(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBranchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validator.ValidateStruct(req); errs != nil {
		utils.Error(w, http.StatusBadRequest, validator.Describe(errs))
		return
	}

	branch, err := h.Repo.Create(r.Context(), &req)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, branch)
}

func (h *BranchHandler) UpdateBranch(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.UpdateBranchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validator.ValidateStruct(req); errs != nil {
		utils.Error(w, http.StatusBadRequest, validator.Describe(errs))
		return
	}

	branch, err := h.Repo.Update(r.Context(), id, &req)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, branch)
}

func (h *BranchHandler) DeactivateBranch(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	if err := h.Repo.Deactivate(r.Context(), id); err != nil {
		utils.ServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *BranchHandler) BranchSummaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.Repo.Summaries(r.Context())
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, summaries)
}
