package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockflow-backend/internal/apperrors"
)

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, map[string]int{"id": 5})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":5}`, rec.Body.String())
}

func TestJSONNilBody(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusNoContent, nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestServiceErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperrors.ErrNotFound, http.StatusNotFound},
		{apperrors.ErrInvalidStateTransition, http.StatusConflict},
		{apperrors.ErrDuplicateReference, http.StatusConflict},
		{apperrors.ErrInsufficientStock, http.StatusBadRequest},
		{apperrors.ErrInsufficientAvailableStock, http.StatusBadRequest},
		{apperrors.ErrInvalidApprovalQuantity, http.StatusBadRequest},
		{apperrors.ErrValidation, http.StatusBadRequest},
		{apperrors.ErrStoreUnavailable, http.StatusServiceUnavailable},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		ServiceError(rec, fmt.Errorf("wrapped: %w", c.err))
		assert.Equal(t, c.want, rec.Code, "error %v", c.err)
	}
}

func TestServiceErrorHidesInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	ServiceError(rec, errors.New("pq: relation stock_movements does not exist"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body.Error)
}
