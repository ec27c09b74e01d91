package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedEcho(svc *JWTService, tokens TokenStoreInterface) *echo.Echo {
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		id, ok := IdentityFromContext(c.Request().Context())
		if !ok {
			return c.NoContent(http.StatusTeapot)
		}
		return c.JSON(http.StatusOK, echo.Map{"user_id": id.UserID, "email": id.Email})
	}, Middleware(svc, tokens))
	return e
}

func doGet(e *echo.Echo, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestMiddleware_AttachesIdentity(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	e := newProtectedEcho(svc, NewMemoryTokenStore())

	issued, err := svc.GenerateAccessToken(9, "bo@example.com")
	require.NoError(t, err)

	rec := doGet(e, "Bearer "+issued.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":9`)
}

func TestMiddleware_Rejects(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	tokens := NewMemoryTokenStore()
	e := newProtectedEcho(svc, tokens)

	issued, err := svc.GenerateAccessToken(9, "bo@example.com")
	require.NoError(t, err)
	require.NoError(t, tokens.RevokeAccessToken(context.Background(), issued.ID, time.Hour))
	refresh, err := svc.GenerateRefreshToken(9, "bo@example.com")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic " + issued.Token},
		{"garbage token", "Bearer abc.def.ghi"},
		{"revoked token", "Bearer " + issued.Token},
		{"refresh token", "Bearer " + refresh.Token},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doGet(e, tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), `"code":"UNAUTHORIZED"`)
		})
	}
}

func TestIdentityFromContext_Empty(t *testing.T) {
	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)
}
