package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendMongo  = "mongo"
)

type Config struct {
	Port       string `env:"PORT,        default=5000"`
	Env        string `env:"ENV,         default=development"`
	LogLevel   string `env:"LOG_LEVEL,   default=info"`
	JWTSecret  string `env:"JWT_SECRET"`
	BcryptCost int    `env:"BCRYPT_COST, default=10"`

	CORSAllowOrigins []string `env:"CORS_ALLOW_ORIGINS, default=*"`

	Store StoreConfig
	Mongo MongoConfig
	Redis RedisConfig
	Admin AdminConfig
}

type StoreConfig struct {
	Backend string `env:"STORE_BACKEND, default=file"`
	Path    string `env:"STORE_PATH,    default=data/db.json"`
}

type MongoConfig struct {
	URI        string `env:"MONGO_URI,        default=mongodb://localhost:27017"`
	Database   string `env:"MONGO_DB,         default=community_board"`
	Collection string `env:"MONGO_COLLECTION, default=documents"`
}

// RedisConfig backs the login throttle. An empty Addr disables it.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`

	MaxLoginFailures   int           `env:"LOGIN_MAX_FAILURES,   default=5"`
	LoginFailureWindow time.Duration `env:"LOGIN_FAILURE_WINDOW, default=15m"`
}

// AdminConfig seeds the first administrator when none exists.
type AdminConfig struct {
	ID       string `env:"ADMIN_ID,   default=admin-001"`
	Name     string `env:"ADMIN_NAME, default=Default Administrator"`
	Username string `env:"ADMIN_USERNAME"`
	Password string `env:"ADMIN_PASSWORD"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through l instead of the process environment.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings that would only fail later at startup.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendFile:
		if strings.TrimSpace(c.Store.Path) == "" {
			return fmt.Errorf("config: STORE_PATH is required for the %s backend", BackendFile)
		}
	case BackendMemory, BackendMongo:
	default:
		return fmt.Errorf("config: unknown STORE_BACKEND %q", c.Store.Backend)
	}
	if c.Redis.Addr != "" && c.Redis.MaxLoginFailures < 1 {
		return fmt.Errorf("config: LOGIN_MAX_FAILURES must be positive, got %d", c.Redis.MaxLoginFailures)
	}
	return nil
}

// IsDevelopment reports whether human-friendly logging should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "" || strings.EqualFold(c.Env, "development")
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}
