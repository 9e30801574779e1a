package handlers

import (
	"encoding/json"
	"net/http"

	"stockflow-backend/internal/middleware"
	"stockflow-backend/internal/models"
	"stockflow-backend/internal/services"
	"stockflow-backend/pkg/utils"
	"stockflow-backend/pkg/validator"
)

type AuthHandler struct {
	Service *services.UserService
}

func NewAuthHandler(s *services.UserService) *AuthHandler {
	return &AuthHandler{Service: s}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validator.ValidateStruct(req); errs != nil {
		utils.Error(w, http.StatusBadRequest, validator.Describe(errs))
		return
	}

	resp, err := h.Service.Login(r.Context(), &req)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, err.Error())
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req models.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validator.ValidateStruct(req); errs != nil {
		utils.Error(w, http.StatusBadRequest, validator.Describe(errs))
		return
	}

	if err := h.Service.ChangePassword(r.Context(), userID, &req); err != nil {
		utils.ServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}

func (h *AuthHandler) EnableTOTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	resp, err := h.Service.EnableTOTP(r.Context(), userID)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) ConfirmTOTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req struct {
		Code string `json:"code" validate:"required,len=6"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validator.ValidateStruct(req); errs != nil {
		utils.Error(w, http.StatusBadRequest, validator.Describe(errs))
		return
	}

	if err := h.Service.ConfirmTOTP(r.Context(), userID, req.Code); err != nil {
		utils.ServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": "two-factor authentication enabled"})
}

func (h *AuthHandler) DisableTOTP(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if err := h.Service.DisableTOTP(r.Context(), userID); err != nil {
		utils.ServiceError(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{"message": "two-factor authentication disabled"})
}
