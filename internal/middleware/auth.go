package middleware

import (
	"context"
	"net/http"
	"strings"

	"stockflow-backend/internal/auth"
	"stockflow-backend/internal/repositories"
)

type contextKey string

const UserIDKey contextKey = "user_id"
const UsernameKey contextKey = "username"
const RoleKey contextKey = "role"
const BranchIDKey contextKey = "branch_id"

type AuthMiddleware struct {
	jwtManager *auth.JWTManager
	userRepo   *repositories.UserRepository
}

func NewAuthMiddleware(jwtManager *auth.JWTManager, userRepo *repositories.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		userRepo:   userRepo,
	}
}

// Authenticate validates the bearer token and loads the current user
// state from the database so deactivations apply immediately.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := m.authenticate(w, r)
		if !ok {
			return
		}
		next.ServeHTTP(w, r.WithContext(m.withUser(r.Context(), user)))
	})
}

// RequireRole ensures the authenticated user has one of the allowed roles.
func (m *AuthMiddleware) RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := m.authenticate(w, r)
			if !ok {
				return
			}

			hasRole := false
			for _, role := range allowedRoles {
				if user.Role == role {
					hasRole = true
					break
				}
			}
			if !hasRole {
				http.Error(w, "Forbidden: Insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(m.withUser(r.Context(), user)))
		})
	}
}

func (m *AuthMiddleware) authenticate(w http.ResponseWriter, r *http.Request) (*authUser, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		http.Error(w, "Authorization header required", http.StatusUnauthorized)
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		http.Error(w, "Invalid authorization format", http.StatusUnauthorized)
		return nil, false
	}

	claims, err := m.jwtManager.ValidateToken(parts[1])
	if err != nil {
		http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
		return nil, false
	}

	// Database state wins over token claims so suspensions and role
	// changes take effect without waiting for expiry.
	user, err := m.userRepo.Get(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "User not found", http.StatusUnauthorized)
		return nil, false
	}
	if !user.IsActive {
		http.Error(w, "Account suspended. Please contact administrator.", http.StatusForbidden)
		return nil, false
	}

	return &authUser{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.RoleName,
		BranchID: user.BranchID,
	}, true
}

type authUser struct {
	ID       int
	Username string
	Role     string
	BranchID *int
}

func (m *AuthMiddleware) withUser(ctx context.Context, u *authUser) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, u.ID)
	ctx = context.WithValue(ctx, UsernameKey, u.Username)
	ctx = context.WithValue(ctx, RoleKey, u.Role)
	if u.BranchID != nil {
		ctx = context.WithValue(ctx, BranchIDKey, *u.BranchID)
	}
	return ctx
}

// GetUserIDFromContext extracts the authenticated user ID.
func GetUserIDFromContext(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(UserIDKey).(int)
	return userID, ok
}

// GetRoleFromContext extracts the authenticated user's role name.
func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}

// GetBranchIDFromContext extracts the user's home branch, if assigned.
func GetBranchIDFromContext(ctx context.Context) (int, bool) {
	branchID, ok := ctx.Value(BranchIDKey).(int)
	return branchID, ok
}
