package auth

import (
	"context"
	"errors"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "tablebook/internal/errors"
)

const claimsContextKey = "auth_claims"

// ErrTokenRevoked is returned for access tokens that were logged out.
var ErrTokenRevoked = errors.New("token has been revoked")

// Identity is the authenticated caller attached to a request context.
type Identity struct {
	UserID    uint
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity stored by the auth middleware.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok && id.UserID != 0
}

// Middleware verifies the bearer token on every request and attaches the
// caller identity to the request context. Missing, malformed, expired and
// revoked tokens are all rejected with 401, as are refresh tokens.
func Middleware(jwtService *JWTService, tokens TokenStoreInterface) echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		ContextKey:  claimsContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := jwtService.ValidateAccessToken(token)
			if err != nil {
				return nil, err
			}
			revoked, err := tokens.IsAccessTokenRevoked(c.Request().Context(), claims.ID)
			if err == nil && revoked {
				return nil, ErrTokenRevoked
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return unauthorized()
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(func(c echo.Context) error {
			claims, ok := c.Get(claimsContextKey).(*Claims)
			if !ok {
				return unauthorized()
			}
			id := Identity{
				UserID:  claims.UserID,
				Email:   claims.Email,
				TokenID: claims.ID,
			}
			if claims.ExpiresAt != nil {
				id.ExpiresAt = claims.ExpiresAt.Time
			}
			req := c.Request()
			c.SetRequest(req.WithContext(WithIdentity(req.Context(), id)))
			return next(c)
		})
	}
}

func unauthorized() error {
	httpErr := apperrors.MapErrorToHTTP(apperrors.ErrInvalidToken)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
