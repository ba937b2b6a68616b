package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "aiiabox/internal/errors"
)

const userIDContextKey = "userID"

// APITokenResolver resolves an opaque API token key to its owner.
type APITokenResolver interface {
	ResolveAPIToken(ctx context.Context, key string) (uint, error)
}

// RequireUser authenticates API requests. Two credential forms are accepted:
// "Authorization: Token <key>" with an opaque API token, or
// "Authorization: Bearer <jwt>" with an access token. The resolved user ID is
// stored on the request context for handlers.
func RequireUser(jwtService *JWTService, resolver APITokenResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			scheme, credentials, found := strings.Cut(header, " ")
			if !found || credentials == "" {
				return unauthorized("missing credentials")
			}

			switch strings.ToLower(scheme) {
			case "token":
				userID, err := resolver.ResolveAPIToken(c.Request().Context(), credentials)
				if err != nil {
					return unauthorized("invalid token")
				}
				c.Set(userIDContextKey, userID)
			case "bearer":
				claims, err := jwtService.ValidateToken(credentials)
				if err != nil {
					return unauthorized("invalid or expired access token")
				}
				c.Set(userIDContextKey, claims.UserID)
			default:
				return unauthorized("unsupported authorization scheme")
			}

			return next(c)
		}
	}
}

// CurrentUserID returns the authenticated user for the request, 0 when
// unauthenticated.
func CurrentUserID(c echo.Context) uint {
	userID, _ := c.Get(userIDContextKey).(uint)
	return userID
}

// SetCurrentUserID stores the authenticated user on the context. Used by the
// cookie-based web middleware and by handler tests.
func SetCurrentUserID(c echo.Context, userID uint) {
	c.Set(userIDContextKey, userID)
}

func unauthorized(message string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
		Error: message,
		Code:  "UNAUTHENTICATED",
	})
}
