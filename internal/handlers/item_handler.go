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

type ItemHandler struct {
	Repo *repositories.ItemRepository
}

func NewItemHandler(repo *repositories.ItemRepository) *ItemHandler {
	return &ItemHandler{Repo: repo}
}

func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	categoryID, _ := strconv.Atoi(r.URL.Query().Get("category_id"))
	search := r.URL.Query().Get("search")

	items, err := h.Repo.List(r.Context(), categoryID, search)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, items)
}

func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	item, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, item)
}

func (h *ItemHandler) GetItemByCode(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		utils.Error(w, http.StatusBadRequest, "code parameter is required")
		return
	}

	item, err := h.Repo.GetByCode(r.Context(), code)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, item)
}

func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req models.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validator.ValidateStruct(req); errs != nil {
		utils.Error(w, http.StatusBadRequest, validator.Describe(errs))
		return
	}

	item, err := h.Repo.Create(r.Context(), &req)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusCreated, item)
}

func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	var req models.UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validator.ValidateStruct(req); errs != nil {
		utils.Error(w, http.StatusBadRequest, validator.Describe(errs))
		return
	}

	item, err := h.Repo.Update(r.Context(), id, &req)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, item)
}

func (h *ItemHandler) DeactivateItem(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	if err := h.Repo.Deactivate(r.Context(), id); err != nil {
		utils.ServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
