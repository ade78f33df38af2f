package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/communityboard/board/internal/core/domain"
)

const claimsKey = "claims"

// Authenticator verifies a raw bearer token.
type Authenticator interface {
	RequireAuthenticated(token string) (domain.Claims, error)
}

// Auth validates the bearer token and injects its claims into the context.
// Every failure, including a missing header, is domain.ErrUnauthenticated.
func Auth(authn Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return domain.ErrUnauthenticated
			}

			claims, err := authn.RequireAuthenticated(token)
			if err != nil {
				return domain.ErrUnauthenticated
			}

			SetClaims(c, claims)
			return next(c)
		}
	}
}

// SetClaims stores verified claims on the request context.
func SetClaims(c echo.Context, claims domain.Claims) {
	c.Set(claimsKey, claims)
}

// ClaimsFrom returns the claims injected by Auth.
func ClaimsFrom(c echo.Context) (domain.Claims, bool) {
	claims, ok := c.Get(claimsKey).(domain.Claims)
	return claims, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
