package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/communityboard/board/internal/core/domain"
)

// RBAC enforces role-based access control. It must run after Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFrom(c)
			if !ok {
				return domain.ErrUnauthenticated
			}
			if _, ok := allowed[claims.Role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// Policy returns the middleware chain enforcing the authorization policy of
// action: nothing for public actions, Auth for authenticated ones, Auth plus
// RBAC when a specific role is required.
func Policy(authn Authenticator, action domain.Action) []echo.MiddlewareFunc {
	req := action.Requirement()
	if !req.Authenticated {
		return nil
	}
	chain := []echo.MiddlewareFunc{Auth(authn)}
	if req.Role != 0 {
		chain = append(chain, RBAC(req.Role))
	}
	return chain
}
