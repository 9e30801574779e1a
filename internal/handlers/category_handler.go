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

type CategoryHandler struct {
	Repo *repositories.CategoryRepository
}

func NewCategoryHandler(repo *repositories.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{Repo: repo}
}

func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Repo.List(r.Context())
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	category, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validator.ValidateStruct(req); errs != nil {
		utils.Error(w, http.StatusBadRequest, validator.Describe(errs))
		return
	}

	category, err := h.Repo.Create(r.Context(), &req)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) DeactivateCategory(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	if err := h.Repo.Deactivate(r.Context(), id); err != nil {
		utils.ServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
