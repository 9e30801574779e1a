package services

import (
	"context"
	"fmt"
	"log"

	"stockflow-backend/internal/apperrors"
	"stockflow-backend/internal/auth"
	"stockflow-backend/internal/models"
	"stockflow-backend/internal/repositories"
	"stockflow-backend/internal/timeutil"
)

type UserService struct {
	userRepo *repositories.UserRepository
	jwt      *auth.JWTManager
}

func NewUserService(userRepo *repositories.UserRepository, jwt *auth.JWTManager) *UserService {
	return &UserService{userRepo: userRepo, jwt: jwt}
}

// Login authenticates a user and issues a JWT. Accounts with TOTP enabled
// must supply the current code in the same request.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrValidation)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is disabled", apperrors.ErrValidation)
	}
	if !auth.VerifyPassword(user.Password, req.Password) {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrValidation)
	}

	if user.TOTPEnabled {
		secret, err := s.userRepo.GetTOTPSecret(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if req.TOTPCode == "" || !auth.ValidateTOTPCode(req.TOTPCode, secret) {
			return nil, fmt.Errorf("%w: invalid two-factor code", apperrors.ErrValidation)
		}
	}

	token, expiresAt, err := s.jwt.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID, timeutil.Now()); err != nil {
		// Login still succeeds; the timestamp is advisory.
		log.Printf("[Auth] failed to record last login for user %d: %v", user.ID, err)
	}

	user.Password = ""
	return &models.LoginResponse{Token: token, ExpiresAt: expiresAt, User: *user}, nil
}

func (s *UserService) Create(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	return s.userRepo.Create(ctx, req, hash)
}

func (s *UserService) ChangePassword(ctx context.Context, userID int, req *models.ChangePasswordRequest) error {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.VerifyPassword(user.Password, req.CurrentPassword) {
		return fmt.Errorf("%w: current password is incorrect", apperrors.ErrValidation)
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.userRepo.SetPassword(ctx, userID, hash)
}

// EnableTOTP generates and stores a fresh secret for the user. The secret
// only takes effect after ConfirmTOTP verifies a code against it.
func (s *UserService) EnableTOTP(ctx context.Context, userID int) (*models.EnableTOTPResponse, error) {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	secret, url, err := auth.GenerateTOTPSecret(user.Username)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.SetTOTPSecret(ctx, userID, secret); err != nil {
		return nil, err
	}
	return &models.EnableTOTPResponse{Secret: secret, URL: url}, nil
}

func (s *UserService) ConfirmTOTP(ctx context.Context, userID int, code string) error {
	secret, err := s.userRepo.GetTOTPSecret(ctx, userID)
	if err != nil {
		return err
	}
	if secret == "" {
		return fmt.Errorf("%w: no pending two-factor setup", apperrors.ErrValidation)
	}
	if !auth.ValidateTOTPCode(code, secret) {
		return fmt.Errorf("%w: invalid two-factor code", apperrors.ErrValidation)
	}
	return s.userRepo.SetTOTPEnabled(ctx, userID, true)
}

func (s *UserService) DisableTOTP(ctx context.Context, userID int) error {
	return s.userRepo.SetTOTPEnabled(ctx, userID, false)
}
