package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"shopease/internal/config"
	"shopease/internal/handler"
	"shopease/internal/validator"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	slogecho "github.com/samber/slog-echo"
)

const shutdownTimeout = 10 * time.Second

// the request body may hold this many max-size files plus 1 MiB of form fields
const maxDocumentsPerRequest = 5

type Server struct {
	cfg    config.Config
	logger *slog.Logger
	echo   *echo.Echo
}

func New(cfg config.Config, logger *slog.Logger, h Handlers, g handler.Guards) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validator.New()
	e.HTTPErrorHandler = NewErrorHandler(logger, cfg.IsProduction())

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(slogecho.NewWithConfig(logger, slogecho.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
		WithRequestID:    true,
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendOrigin},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAccept, "X-Idempotency-Key"},
		AllowCredentials: true,
	}))
	e.Use(middleware.BodyLimit(bodyLimit(cfg.MaxUploadBytes)))

	RegisterRoutes(e, h, g)

	return &Server{cfg: cfg, logger: logger, echo: e}
}

func bodyLimit(maxUpload int64) string {
	kib := (maxUpload*maxDocumentsPerRequest)/1024 + 1024
	return fmt.Sprintf("%dK", kib)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	addr := net.JoinHostPort("", s.cfg.Port)
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("starting HTTP server", slog.String("addr", addr))
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- errors.Wrap(err, "failed to serve http")
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down HTTP server")
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown failed")
	}
	return <-errCh
}
