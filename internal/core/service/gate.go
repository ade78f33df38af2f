package service

import (
	"github.com/communityboard/board/internal/core/domain"
	"github.com/communityboard/board/internal/core/ports"
)

// Gate makes the per-request authorization decision.
type Gate struct {
	tokens ports.TokenService
}

func NewGate(tokens ports.TokenService) *Gate {
	return &Gate{tokens: tokens}
}

// RequireAuthenticated verifies a bearer token. An empty token and an
// invalid one fail identically with domain.ErrUnauthenticated.
func (g *Gate) RequireAuthenticated(token string) (domain.Claims, error) {
	if token == "" {
		return domain.Claims{}, domain.ErrUnauthenticated
	}
	return g.tokens.Verify(token)
}

// RequireRole fails with domain.ErrForbidden unless claims carry role.
func RequireRole(claims domain.Claims, role domain.Role) error {
	if claims.Role != role {
		return domain.ErrForbidden
	}
	return nil
}

// Authorize applies the policy for action to the presented token. For
// actions open to anonymous callers it returns zero claims and no error,
// even when the token is bad.
func (g *Gate) Authorize(action domain.Action, token string) (domain.Claims, error) {
	if !action.Requirement().Authenticated {
		return domain.Claims{}, nil
	}
	claims, err := g.RequireAuthenticated(token)
	if err != nil {
		return domain.Claims{}, err
	}
	if err := Permit(action, claims); err != nil {
		return domain.Claims{}, err
	}
	return claims, nil
}

// Permit checks already-verified claims against the policy for action.
func Permit(action domain.Action, claims domain.Claims) error {
	req := action.Requirement()
	if !req.Authenticated {
		return nil
	}
	if claims.UserID == "" || !claims.Role.Valid() {
		return domain.ErrUnauthenticated
	}
	if req.Role != 0 {
		return RequireRole(claims, req.Role)
	}
	return nil
}
