// Package web hosts the browser-facing community events service.
package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gettogethercomm/gettogether/internal/platform/mail"
	"github.com/gettogethercomm/gettogether/internal/platform/timeouts"
	webapp "github.com/gettogethercomm/gettogether/internal/services/web/app"
	"github.com/gettogethercomm/gettogether/internal/services/web/auth"
	module "github.com/gettogethercomm/gettogether/internal/services/web/module"
	"github.com/gettogethercomm/gettogether/internal/services/web/modules"
	"github.com/gettogethercomm/gettogether/internal/services/web/platform/httpx"
	"github.com/gettogethercomm/gettogether/internal/services/web/platform/observability"
	"github.com/gettogethercomm/gettogether/internal/services/web/routepath"
	webstatic "github.com/gettogethercomm/gettogether/internal/services/web/static"
	webstorage "github.com/gettogethercomm/gettogether/internal/services/web/storage"
)

// Config defines startup inputs for the web service.
type Config struct {
	HTTPAddr string
	BaseURL  string
	Store    webstorage.Store
	Sender   mail.Sender
	Auth     auth.Config
	Logger   *log.Logger
}

// Server hosts the web HTTP surface and lifecycle.
type Server struct {
	httpAddr   string
	httpServer *http.Server
}

// NewHandler builds a root handler from the default module registry
// groups.
func NewHandler(cfg Config) (http.Handler, error) {
	if cfg.Store == nil {
		return nil, errors.New("store is required")
	}
	if cfg.Sender == nil {
		return nil, errors.New("mail sender is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	authService, err := auth.NewService(cfg.Auth, cfg.Store, cfg.Sender)
	if err != nil {
		return nil, fmt.Errorf("configure auth: %w", err)
	}
	principal := newPrincipalResolver(authService)
	deps := module.Dependencies{
		Store:          cfg.Store,
		Auth:           authService,
		Sender:         cfg.Sender,
		Logger:         logger,
		BaseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		ResolveViewer:  principal.resolveViewer,
		ResolveProfile: principal.resolveProfile,
	}

	h, err := webapp.Composer{}.Compose(webapp.ComposeInput{
		Dependencies:     deps,
		AuthRequired:     principal.authRequired(),
		PublicModules:    modules.DefaultPublicModules(),
		ProtectedModules: modules.DefaultProtectedModules(),
	})
	if err != nil {
		return nil, err
	}

	rootMux := http.NewServeMux()
	rootMux.Handle(routepath.StaticPrefix, http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.FS(webstatic.FS))))
	rootMux.Handle("/", h)
	return httpx.Chain(rootMux,
		httpx.RecoverPanic(),
		httpx.RequestID(),
		withRequestPrincipalState(),
		observability.RequestLogger(logger),
	), nil
}

// NewServer validates config and constructs a web server.
func NewServer(_ context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, fmt.Errorf("compose web handler: %w", err)
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
	}, nil
}

// ListenAndServe serves HTTP traffic until context cancellation or
// server stop.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown web http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve web http: %w", err)
	}
}

// Close closes open server resources.
func (s *Server) Close() {
	if s == nil || s.httpServer == nil {
		return
	}
	_ = s.httpServer.Close()
}
