package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/communityboard/board/internal/api/handler"
	"github.com/communityboard/board/internal/core/domain"
	"github.com/communityboard/board/internal/core/ports"
	"github.com/communityboard/board/internal/core/service"
	"github.com/communityboard/board/internal/infrastructure/db/docstore"
	mongodb "github.com/communityboard/board/internal/infrastructure/db/mongo"
	redisdb "github.com/communityboard/board/internal/infrastructure/db/redis"
	"github.com/communityboard/board/internal/infrastructure/security"
	"github.com/communityboard/board/internal/pkg/config"
	"github.com/communityboard/board/pkg/logger"
)

// app holds the wired dependencies shared by the commands.
type app struct {
	cfg    *config.Config
	log    zerolog.Logger
	store  *docstore.Store
	auth   *service.AuthService
	posts  *service.PostService
	gate   *service.Gate
	checks map[string]handler.Checker

	closers []func(context.Context) error
}

func loadApp(ctx context.Context) (_ *app, err error) {
	cfg, ok := ctx.Value(configKey{}).(*config.Config)
	if !ok {
		return nil, errors.New("configuration was not loaded")
	}

	a := &app{
		cfg:    cfg,
		log:    logger.Get(),
		checks: make(map[string]handler.Checker),
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, a.Close(context.WithoutCancel(ctx)))
		}
	}()

	backend, err := a.openBackend(ctx)
	if err != nil {
		return nil, err
	}
	a.store, err = docstore.Open(ctx, backend, logger.Component("docstore"))
	if err != nil {
		return nil, err
	}
	a.checks["store"] = a.store.Ping

	secret, fallback := security.ResolveSecret(cfg.JWTSecret)
	if fallback {
		a.log.Warn().Msg("JWT_SECRET is not set; signing tokens with the built-in development secret")
	}
	tokens := security.NewJWTService(secret)
	hasher := security.NewBcryptHasher(cfg.BcryptCost)

	var opts []service.AuthOption
	if rc := (redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB}); rc.Enabled() {
		client, err := redisdb.Connect(ctx, rc)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return client.Close() })
		a.checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		throttle := redisdb.NewLoginThrottle(client, cfg.Redis.MaxLoginFailures, cfg.Redis.LoginFailureWindow)
		opts = append(opts, service.WithLoginThrottle(throttle))
		a.log.Info().Str("addr", rc.Addr).Msg("login throttle enabled")
	}

	a.auth = service.NewAuthService(docstore.NewUserRepository(a.store), hasher, tokens, logger.Component("auth"), opts...)
	a.posts = service.NewPostService(docstore.NewPostRepository(a.store), logger.Component("posts"))
	a.gate = service.NewGate(tokens)
	return a, nil
}

func (a *app) openBackend(ctx context.Context) (ports.DocumentBackend, error) {
	switch a.cfg.Store.Backend {
	case config.BackendFile:
		fb, err := docstore.OpenFile(a.cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return fb.Close() })
		a.log.Info().Str("path", fb.Path()).Msg("using file document store")
		return fb, nil
	case config.BackendMemory:
		a.log.Warn().Msg("using in-memory document store; data is lost on exit")
		return docstore.NewMemoryBackend(), nil
	case config.BackendMongo:
		mb, disconnect, err := mongodb.Open(ctx, mongodb.Config{
			URI:        a.cfg.Mongo.URI,
			Database:   a.cfg.Mongo.Database,
			Collection: a.cfg.Mongo.Collection,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, disconnect)
		a.log.Info().Str("database", a.cfg.Mongo.Database).Msg("using mongo document store")
		return mb, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", a.cfg.Store.Backend)
}

// seedAdmin ensures an administrator exists. A missing seed is fatal.
func (a *app) seedAdmin(ctx context.Context) error {
	err := a.auth.SeedAdminIfAbsent(ctx, ports.AdminSeed{
		ID:       a.cfg.Admin.ID,
		Name:     a.cfg.Admin.Name,
		Username: a.cfg.Admin.Username,
		Password: a.cfg.Admin.Password,
	})
	if errors.Is(err, domain.ErrAdminSeedMissing) {
		return fmt.Errorf("%w: set ADMIN_USERNAME and ADMIN_PASSWORD", err)
	}
	return err
}

// Close releases backend connections and locks in reverse order.
func (a *app) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](ctx))
	}
	a.closers = nil
	return errors.Join(errs...)
}
