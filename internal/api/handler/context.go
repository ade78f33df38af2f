package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/communityboard/board/internal/api/middleware"
	"github.com/communityboard/board/internal/core/domain"
)

// ctxClaims extracts the claims injected by the Auth middleware. Their
// absence means the route was mounted without Auth; the request is treated
// as unauthenticated rather than trusted.
func ctxClaims(c echo.Context) (domain.Claims, error) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok || claims.UserID == "" {
		return domain.Claims{}, domain.ErrUnauthenticated
	}
	return claims, nil
}
