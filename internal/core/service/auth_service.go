package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/communityboard/board/internal/core/domain"
	"github.com/communityboard/board/internal/core/ports"
	"github.com/communityboard/board/internal/pkg/metrics"
)

const (
	DefaultAdminID   = "admin-001"
	DefaultAdminName = "Default Administrator"
)

// dummyPassword is hashed once and compared against when a login names an
// unknown user, so that path costs the same as a wrong password.
const dummyPassword = "dummy-password-for-timing"

// AuthService implements registration, login and admin seeding.
type AuthService struct {
	users    ports.UserRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenService
	throttle ports.LoginThrottle
	log      zerolog.Logger
	newID    func() string

	dummyMu   sync.Mutex
	dummyHash string
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithLoginThrottle enables failed-login throttling.
func WithLoginThrottle(t ports.LoginThrottle) AuthOption {
	return func(s *AuthService) { s.throttle = t }
}

// WithUserIDGenerator overrides how new user ids are assigned.
func WithUserIDGenerator(fn func() string) AuthOption {
	return func(s *AuthService) { s.newID = fn }
}

func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenService,
	log zerolog.Logger,
	opts ...AuthOption,
) *AuthService {
	s := &AuthService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		throttle: noThrottle{},
		log:      log,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a member account. The username must be unused.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if in.Username == "" || in.Password == "" {
		metrics.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrInvalidInput)
	}

	name := in.Name
	if name == "" {
		name = domain.DefaultMemberName
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(resultLabel(err)).Inc()
		return nil, err
	}

	created, err := s.users.Create(ctx, domain.User{
		ID:           s.newID(),
		Name:         name,
		Username:     in.Username,
		PasswordHash: hash,
		Role:         domain.RoleMember,
	})
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(resultLabel(err)).Inc()
		if !errors.Is(err, domain.ErrDuplicateUsername) {
			s.log.Error().Err(err).Str("username", in.Username).Msg("failed to register user")
		}
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

// Login checks credentials and issues an access token. Unknown usernames and
// wrong passwords both return domain.ErrUnauthenticated.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if username == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return nil, domain.ErrUnauthenticated
	}

	allowed, err := s.throttle.Allow(ctx, username)
	if err != nil {
		s.log.Warn().Err(err).Msg("login throttle unavailable, allowing attempt")
	} else if !allowed {
		metrics.LoginsTotal.WithLabelValues("throttled").Inc()
		return nil, domain.ErrTooManyAttempts
	}

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		s.hasher.Verify(password, s.dummy())
		return nil, s.rejectLogin(ctx, username)
	}
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, s.rejectLogin(ctx, username)
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: issue token: %w", err)
	}

	if err := s.throttle.Reset(ctx, username); err != nil {
		s.log.Warn().Err(err).Msg("failed to reset login throttle")
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("user_id", user.ID).Str("role", user.Role.String()).Msg("user logged in")
	return &ports.LoginResult{AccessToken: token, ExpiresAt: expiresAt, User: *user}, nil
}

// SeedAdminIfAbsent creates the configured administrator when the document
// has none. Without seed credentials and without an admin it returns
// domain.ErrAdminSeedMissing, which callers treat as fatal.
func (s *AuthService) SeedAdminIfAbsent(ctx context.Context, seed ports.AdminSeed) error {
	hasAdmin, err := s.users.HasAdmin(ctx)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if hasAdmin {
		s.log.Debug().Msg("admin present, seeding skipped")
		return nil
	}

	if seed.Username == "" || seed.Password == "" {
		return domain.ErrAdminSeedMissing
	}
	if seed.ID == "" {
		seed.ID = DefaultAdminID
	}
	if seed.Name == "" {
		seed.Name = DefaultAdminName
	}

	hash, err := s.hasher.Hash(seed.Password)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	inserted, err := s.users.CreateAdminIfAbsent(ctx, domain.User{
		ID:           seed.ID,
		Name:         seed.Name,
		Username:     seed.Username,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("seed admin %q: %w", seed.Username, err)
	}
	if inserted {
		s.log.Info().Str("username", seed.Username).Str("user_id", seed.ID).Msg("default admin user created")
	}
	return nil
}

func (s *AuthService) rejectLogin(ctx context.Context, username string) error {
	metrics.LoginsTotal.WithLabelValues("rejected").Inc()
	if err := s.throttle.RecordFailure(ctx, username); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
	return domain.ErrUnauthenticated
}

// dummy returns the hash compared against for unknown users. A failed build
// is logged and retried on the next call.
func (s *AuthService) dummy() string {
	s.dummyMu.Lock()
	defer s.dummyMu.Unlock()
	if s.dummyHash != "" {
		return s.dummyHash
	}
	hash, err := s.hasher.Hash(dummyPassword)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to build dummy password hash, unknown-user logins skip the bcrypt comparison")
		return ""
	}
	s.dummyHash = hash
	return hash
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrDuplicateUsername):
		return "duplicate"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	default:
		return "error"
	}
}

// noThrottle allows every attempt; used when no LoginThrottle is configured.
type noThrottle struct{}

func (noThrottle) Allow(context.Context, string) (bool, error) { return true, nil }
func (noThrottle) RecordFailure(context.Context, string) error { return nil }
func (noThrottle) Reset(context.Context, string) error         { return nil }
