package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"not found", ErrReservationNotFound, http.StatusNotFound, "NOT_FOUND", "reservation not found"},
		{"wrapped not found", fmt.Errorf("get: %w", ErrRestaurantNotFound), http.StatusNotFound, "NOT_FOUND", "restaurant not found"},
		{"validation", ErrDateInPast, http.StatusBadRequest, "VALIDATION_FAILED", ErrDateInPast.Message},
		{"invalid state", ErrReservationAlreadyCancelled, http.StatusBadRequest, "INVALID_STATE", ErrReservationAlreadyCancelled.Message},
		{"conflict", ErrEmailTaken, http.StatusConflict, "CONFLICT", ErrEmailTaken.Message},
		{"unauthorized", ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED", ErrInvalidCredentials.Message},
		{"internal", errors.New("dial tcp: connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCode, httpErr.Code)
			assert.Equal(t, tt.wantMsg, httpErr.Message)
		})
	}
}

func TestMapErrorToHTTP_FieldErrors(t *testing.T) {
	err := fmt.Errorf("bind: %w", FieldErrors{"email": "must be a valid email", "name": "is required"})

	httpErr := MapErrorToHTTP(err)
	resp := httpErr.ToErrorResponse()

	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
	assert.False(t, resp.Success)
	assert.Equal(t, "VALIDATION_FAILED", resp.Code)
	assert.Equal(t, "is required", resp.Errors["name"])
	assert.Equal(t, "validation failed: email: must be a valid email; name: is required", err.(interface{ Unwrap() error }).Unwrap().Error())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindInvalidState, KindOf(fmt.Errorf("x: %w", ErrReservationNotModifiable)))
	assert.Equal(t, KindValidation, KindOf(FieldErrors{"a": "b"}))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.True(t, errors.Is(fmt.Errorf("x: %w", ErrInvalidToken), ErrInvalidToken))
}

func TestCodeForStatus(t *testing.T) {
	assert.Equal(t, "NOT_FOUND", CodeForStatus(http.StatusNotFound))
	assert.Equal(t, "NOT_FOUND", CodeForStatus(http.StatusMethodNotAllowed))
	assert.Equal(t, "UNAUTHORIZED", CodeForStatus(http.StatusUnauthorized))
	assert.Equal(t, "VALIDATION_FAILED", CodeForStatus(http.StatusRequestEntityTooLarge))
	assert.Equal(t, "INTERNAL_ERROR", CodeForStatus(http.StatusServiceUnavailable))
}
