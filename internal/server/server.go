package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/inkpress/inkpress/internal/apperr"
	mw "github.com/inkpress/inkpress/pkg/middleware"
	pkgserver "github.com/inkpress/inkpress/pkg/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"
)

const (
	GracefulShutdownTimeout = 10 * time.Second

	rateLimitWindow   = 15 * time.Minute
	prodRateLimit     = 100
	devRateLimit      = 1000
	rateLimitBurstCap = 30
)

type Server struct {
	Echo *echo.Echo

	cfg *Config
}

func NewServer(e *echo.Echo, cfg *Config) *Server {
	e.HideBanner = true
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()

	s := &Server{
		Echo: e,
		cfg:  cfg,
	}

	s.setupMiddlewares()

	return s
}

func (s *Server) setupMiddlewares() {
	s.Echo.Use(mw.Logger())
	s.Echo.Use(middleware.Recover())
	s.Echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.cfg.CorsOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodPatch, http.MethodDelete},
	}))
	s.Echo.Use(s.rateLimiter())
}

// skipRateLimit exempts the chatty endpoints from throttling: reading
// progress saves, analytics beacons, the realtime dashboard poll and the
// health probes.
func skipRateLimit(path string) bool {
	return strings.Contains(path, "/progress") ||
		strings.Contains(path, "/analytics/track") ||
		strings.Contains(path, "/analytics/realtime") ||
		strings.HasPrefix(path, "/healthz")
}

// rateLimiter throttles per client IP over a 15 minute window.
func (s *Server) rateLimiter() echo.MiddlewareFunc {
	limit := devRateLimit
	if s.cfg.IsProduction() {
		limit = prodRateLimit
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			return skipRateLimit(c.Request().URL.Path)
		},
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(float64(limit) / rateLimitWindow.Seconds()),
			Burst:     rateLimitBurstCap,
			ExpiresIn: rateLimitWindow,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "could not identify client")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
		},
	})
}

// BindHealth exposes liveness and readiness probes.
func (s *Server) BindHealth(checker pkgserver.HealthChecker) {
	s.Echo.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	s.Echo.GET("/healthz/ready", func(c echo.Context) error {
		if !checker.Healthy(c.Request().Context()) {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
	})
}

// SetupOpenApi serves the generated OpenAPI UI.
func (s *Server) SetupOpenApi(path string) {
	s.Echo.GET(path, echoSwagger.WrapHandler)
}

func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		if err := s.Echo.Start(":" + s.cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Echo.Logger.Fatal("shutting down the server")
		}
	}()

	<-ctx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), GracefulShutdownTimeout)
	defer cancel()

	if err := s.Echo.Shutdown(ctx); err != nil {
		s.Echo.Logger.Fatal(err)
		return err
	}
	return nil
}
