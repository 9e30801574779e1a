package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockflow-backend/internal/config"
	"stockflow-backend/internal/models"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "stockflow-backend"
	return cfg
}

func TestGenerateAndValidateToken(t *testing.T) {
	mgr := NewJWTManager(testConfig())
	branch := 3
	user := &models.User{
		ID:       42,
		Username: "mlopez",
		RoleName: models.RoleBranchManager,
		BranchID: &branch,
		IsActive: true,
	}

	token, expiresAt, err := mgr.GenerateToken(user)
	require.NoError(t, err)
	assert.False(t, expiresAt.IsZero())

	claims, err := mgr.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "mlopez", claims.Username)
	assert.Equal(t, models.RoleBranchManager, claims.Role)
	require.NotNil(t, claims.BranchID)
	assert.Equal(t, 3, *claims.BranchID)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	mgr := NewJWTManager(testConfig())
	user := &models.User{ID: 1, Username: "x", IsActive: true}

	token, _, err := mgr.GenerateToken(user)
	require.NoError(t, err)

	other := testConfig()
	other.JWT.Secret = "different-secret"
	_, err = NewJWTManager(other).ValidateToken(token)
	require.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	mgr := NewJWTManager(testConfig())

	_, err := mgr.ValidateToken("not.a.token")
	require.Error(t, err)
}

func TestTempTokenIsNotAFullToken(t *testing.T) {
	mgr := NewJWTManager(testConfig())
	user := &models.User{ID: 7, Username: "staff1"}

	temp, err := mgr.GenerateTempToken(user)
	require.NoError(t, err)

	claims, err := mgr.ValidateTempToken(temp)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pw")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pw", hash)

	assert.True(t, VerifyPassword(hash, "s3cret-pw"))
	assert.False(t, VerifyPassword(hash, "wrong-pw"))
}
