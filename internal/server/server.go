// Package server is the HTTP façade in front of the translation capability.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/valpere/transerve/internal/store"
	"github.com/valpere/transerve/internal/translator"
)

const (
	VariantMultilingual = "multilingual"
	VariantFixed        = "fixed"
)

const (
	defaultMessage      = "Translation API is running."
	defaultMaxBodyBytes = 1 << 20
)

// RequestLog records every translation attempt. *store.Store satisfies it.
type RequestLog interface {
	SaveRequest(ctx context.Context, rec store.RequestRecord) error
}

type Options struct {
	// Variant selects the required request fields: VariantMultilingual needs
	// text, source_lang and target_lang; VariantFixed needs text only.
	Variant         string
	Addr            string
	Message         string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
	MaxBodyBytes    int64
	RequestLog      RequestLog
	Logger          *slog.Logger
}

type Server struct {
	engine     *gin.Engine
	translator translator.Service
	opts       Options
	required   []string
	logger     *slog.Logger
}

// New wires the routes. svc must already be loaded: the façade never
// initializes it lazily.
func New(svc translator.Service, opts Options) (*Server, error) {
	if svc == nil {
		return nil, errors.New("server: nil translation service")
	}

	var required []string
	switch opts.Variant {
	case VariantMultilingual, "":
		opts.Variant = VariantMultilingual
		required = []string{fieldText, fieldSourceLang, fieldTargetLang}
	case VariantFixed:
		required = []string{fieldText}
	default:
		return nil, fmt.Errorf("server: unknown variant %q", opts.Variant)
	}

	if opts.Message == "" {
		opts.Message = defaultMessage
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		engine:     gin.New(),
		translator: svc,
		opts:       opts,
		required:   required,
		logger:     logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupMiddleware() {
	s.engine.Use(requestIDMiddleware())
	s.engine.Use(requestLogMiddleware(s.logger))
	s.engine.Use(recoveryMiddleware(s.logger))
	if len(s.opts.CORSOrigins) > 0 {
		s.engine.Use(corsMiddleware(s.opts.CORSOrigins))
	}
}

func (s *Server) setupRoutes() {
	s.engine.HandleMethodNotAllowed = true
	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
	})
	s.engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, ErrorResponse{Error: "Method not allowed"})
	})

	s.engine.GET("/", s.handleIndex)
	s.engine.POST("/translate", s.handleTranslate)
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests for up to
// the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.opts.Addr, "variant", s.opts.Variant, "engine", s.translator.Name())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
