package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/communityboard/board/docs"
	"github.com/communityboard/board/internal/api/handler"
	"github.com/communityboard/board/internal/api/middleware"
	"github.com/communityboard/board/internal/core/domain"
	"github.com/communityboard/board/internal/core/ports"
)

const bodyLimit = "1M"

// Deps carries everything the router needs. Services are built by the
// caller so tests can swap any of them.
type Deps struct {
	Auth   ports.AuthService
	Posts  ports.PostService
	Authn  middleware.Authenticator
	Checks map[string]handler.Checker
	Logger zerolog.Logger

	// Registry receives the HTTP metrics. Nil gets a private registry.
	Registry     *prometheus.Registry
	AllowOrigins []string
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	reg := d.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	origins := d.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:                 "board_http",
		Registerer:                reg,
		DoNotUseRequestPathFor404: true,
	}))

	// --- Operational endpoints (no auth required) ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{prometheus.DefaultGatherer, reg},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	healthHandler := handler.NewHealthHandler(d.Checks)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)

	// --- Board routes ---
	// Mounted at the root and again under /api, where the browser UI
	// expects them.
	authHandler := handler.NewAuthHandler(d.Auth)
	postHandler := handler.NewPostHandler(d.Posts)
	for _, g := range []*echo.Group{e.Group(""), e.Group("/api")} {
		g.POST("/register", authHandler.Register, middleware.Policy(d.Authn, domain.ActionRegister)...)
		g.POST("/login", authHandler.Login, middleware.Policy(d.Authn, domain.ActionLogin)...)
		g.GET("/posts", postHandler.List, middleware.Policy(d.Authn, domain.ActionListPosts)...)
		g.POST("/posts", postHandler.Create, middleware.Policy(d.Authn, domain.ActionCreatePost)...)
		g.DELETE("/posts/:id", postHandler.Delete, middleware.Policy(d.Authn, domain.ActionDeletePost)...)
	}

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("path", v.URIPath).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
