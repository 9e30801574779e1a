package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"stockflow-backend/internal/cache"
	"stockflow-backend/internal/middleware"
	"stockflow-backend/internal/models"
	"stockflow-backend/internal/repositories"
	"stockflow-backend/internal/services"
	"stockflow-backend/internal/storage"
	"stockflow-backend/internal/ws"
	"stockflow-backend/pkg/utils"
	"stockflow-backend/pkg/validator"
)

// maxPhotoBytes caps arrival photo uploads at 10 MB.
const maxPhotoBytes = 10 << 20

type ReceivingHandler struct {
	Service *services.TransferService
	Repo    *repositories.ReceivingRepository
	Photos  *storage.ObjectStore
	Hub     *ws.Hub
}

func NewReceivingHandler(s *services.TransferService, repo *repositories.ReceivingRepository, photos *storage.ObjectStore, hub *ws.Hub) *ReceivingHandler {
	return &ReceivingHandler{Service: s, Repo: repo, Photos: photos, Hub: hub}
}

func (h *ReceivingHandler) CreateReceiving(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req models.CreateReceivingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validator.ValidateStruct(req); errs != nil {
		utils.Error(w, http.StatusBadRequest, validator.Describe(errs))
		return
	}
	if !req.ConditionOnArrival.Valid() {
		utils.Error(w, http.StatusBadRequest, "invalid condition_on_arrival")
		return
	}

	slip, err := h.Service.Receive(r.Context(), &req, userID)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	cache.InvalidateDashboard(r.Context())
	h.Hub.Publish("transfer.received", slip)

	utils.JSON(w, http.StatusCreated, slip)
}

func (h *ReceivingHandler) GetReceiving(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	slip, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, slip)
}

func (h *ReceivingHandler) ListReceivings(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	slips, err := h.Repo.List(r.Context(), limit, offset)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, slips)
}

// UploadPhoto attaches an arrival condition photo to a receiving slip.
// Accepts multipart form data with a "photo" field.
func (h *ReceivingHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	slip, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "photo field is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	key, err := h.Photos.UploadArrivalPhoto(r.Context(), slip.ReceivingNumber, contentType, file)
	if err != nil {
		utils.Error(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	if err := h.Repo.SetPhotoPath(r.Context(), id, key); err != nil {
		utils.ServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"photo_path": key})
}

// GetPhoto streams the stored arrival photo.
func (h *ReceivingHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	slip, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	if slip.PhotoPath == "" {
		utils.Error(w, http.StatusNotFound, "no photo attached")
		return
	}

	body, contentType, err := h.Photos.GetArrivalPhoto(r.Context(), slip.PhotoPath)
	if err != nil {
		utils.Error(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	io.Copy(w, body)
}
