// Package server exposes document rendering over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"schematic/config"
	"schematic/export"
	"schematic/font"
)

// Server is the render HTTP server.
type Server struct {
	cfg     *config.Config
	log     *slog.Logger
	metrics font.Provider
	echo    *echo.Echo
}

// New creates a server with its routes registered.
func New(cfg *config.Config, metrics font.Provider, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:     cfg,
		log:     logger,
		metrics: metrics,
		echo:    echo.New(),
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health"
		},
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				s.log.Warn("request failed", append(attrs, "err", v.Error)...)
				return nil
			}
			s.log.Info("request", attrs...)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	e.GET("/health", s.HandleHealth)
	api := e.Group("/api")
	api.GET("/formats", s.HandleFormats)
	api.GET("/example", s.HandleExample)
	api.POST("/render", s.HandleRender)
	api.POST("/validate", s.HandleValidate)

	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Address,
		Handler:      s.echo,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("render server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("shutting down render server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// exporter returns an exporter honouring the request's format and strict
// parameters, falling back to the configuration.
func (s *Server) exporter(format string, strict bool) (export.Exporter, error) {
	if format == "" {
		format = s.cfg.Render.Format
	}
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, NewValidationError("format", err)
	}
	e, err := export.NewExporter(f, export.Options{
		Metrics:     s.metrics,
		Strict:      strict,
		Logger:      s.log,
		PNGScale:    s.cfg.Render.PNGScale,
		CellWidth:   s.cfg.Render.CellWidth,
		CellHeight:  s.cfg.Render.CellHeight,
		MaxPageSize: s.cfg.Render.MaxPageSize,
	})
	if err != nil {
		return nil, NewInternalError("failed to create exporter", err)
	}
	return e, nil
}
