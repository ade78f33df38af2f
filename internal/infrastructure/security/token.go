package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/communityboard/board/internal/core/domain"
)

// TokenTTL is the lifetime of every issued access token.
const TokenTTL = time.Hour

// FallbackSecret signs tokens when no JWT secret is configured. It is public
// knowledge; ResolveSecret reports its use so the caller can warn.
const FallbackSecret = "fallback_secret_for_development"

// ResolveSecret returns the signing key to use and whether the fallback was
// substituted for an empty secret.
func ResolveSecret(secret string) (string, bool) {
	if secret == "" {
		return FallbackSecret, true
	}
	return secret, false
}

type tokenClaims struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService implements ports.TokenService with HS256-signed JWTs.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption customises a JWTService.
type TokenOption func(*JWTService)

// WithClock overrides the time source used for issuing and verifying.
func WithClock(now func() time.Time) TokenOption {
	return func(s *JWTService) { s.now = now }
}

// NewJWTService builds a token service around the given secret. The secret
// is fixed for the lifetime of the service.
func NewJWTService(secret string, opts ...TokenOption) *JWTService {
	s := &JWTService{
		secret: []byte(secret),
		ttl:    TokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue signs a token binding the user's id, username and role, valid for
// TokenTTL from now.
func (s *JWTService) Issue(userID, username string, role domain.Role) (string, time.Time, error) {
	if !role.Valid() {
		return "", time.Time{}, errors.New("issue token: invalid role")
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := tokenClaims{
		UserID:   userID,
		Username: username,
		Role:     role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt.Truncate(time.Second), nil
}

// Verify checks signature and expiry. Any failure, whatever its cause, is
// reported as domain.ErrUnauthenticated with zero claims.
func (s *JWTService) Verify(token string) (domain.Claims, error) {
	if token == "" {
		return domain.Claims{}, domain.ErrUnauthenticated
	}

	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return domain.Claims{}, domain.ErrUnauthenticated
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil || claims.UserID == "" {
		return domain.Claims{}, domain.ErrUnauthenticated
	}

	return domain.Claims{
		UserID:    claims.UserID,
		Username:  claims.Username,
		Role:      role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
