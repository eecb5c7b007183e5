package http

import (
	"log/slog"
	"net/http"

	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// RouterOptions configures NewRouter. Idempotency and Metrics are optional.
type RouterOptions struct {
	Auth        Authenticator
	Idempotency ports.IdempotencyStore
	Metrics     *metrics.ServerMetrics
	Logger      *slog.Logger
}

// NewRouter serves the API under /api/v1 and an unauthenticated /health.
func NewRouter(s *Server, opts RouterOptions) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = ErrorHandler(opts.Logger)
	e.Use(middleware.Recover())
	if opts.Metrics != nil {
		e.Use(opts.Metrics.Middleware())
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	api := e.Group("/api/v1", Authenticate(opts.Auth))
	if opts.Idempotency != nil {
		api.Use(Idempotency(opts.Idempotency, opts.Logger))
	}
	s.Register(api)
	return e
}
