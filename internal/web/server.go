// Package web serves the catalog as server-rendered HTML pages plus the small
// JSON API used by the page scripts.
package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/mizunime/mizunime/internal/catalog"
	"github.com/mizunime/mizunime/internal/config"
)

const shutdownTimeout = 10 * time.Second

// Catalog is the subset of the catalog client the server needs
type Catalog interface {
	Home(ctx context.Context, page int) (*catalog.PagedResult, error)
	Search(ctx context.Context, q string, page int) (*catalog.PagedResult, error)
	Batch(ctx context.Context, page int) (*catalog.PagedResult, error)
	Schedule(ctx context.Context) (catalog.ScheduleMap, error)
	Detail(ctx context.Context, slug string) (*catalog.Detail, error)
	Watch(ctx context.Context, slug string) (*catalog.Watch, error)
	Raw(ctx context.Context, endpoint string, params url.Values) ([]byte, error)
}

// Server renders catalog pages. It keeps no per-visitor state; every request
// builds its own controllers.
type Server struct {
	catalog   Catalog
	cfg       *config.Config
	logger    *slog.Logger
	metrics   *Metrics
	limiter   *rate.Limiter
	templates map[string]*template.Template
	static    fs.FS
	location  *time.Location
	now       func() time.Time
	started   time.Time
}

type Option func(*Server)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithMetrics shares a collector set, typically the one the catalog client
// reports upstream requests to
func WithMetrics(m *Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithClock overrides the time source used for "today" and relative dates
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func NewServer(cat Catalog, cfg *config.Config, opts ...Option) (*Server, error) {
	if cat == nil {
		return nil, errors.New("catalog is required")
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	s := &Server{
		catalog:  cat,
		cfg:      cfg,
		logger:   slog.Default(),
		limiter:  newLimiter(cfg.Web.APIRate, cfg.Web.APIBurst),
		location: loc,
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.metrics == nil && cfg.Web.Metrics {
		s.metrics = NewMetrics()
	}

	s.templates, err = parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	s.static, err = fs.Sub(assets, "static")
	if err != nil {
		return nil, err
	}
	s.started = s.now()
	return s, nil
}

// Handler returns the fully wired handler chain
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /schedule", s.handleSchedule)
	mux.HandleFunc("GET /search", s.handleSearch)
	mux.HandleFunc("GET /batch", s.handleBatch)
	mux.HandleFunc("GET /anime/{slug}", s.handleAnime)
	mux.HandleFunc("GET /watch/{slug}", s.handleWatch)
	mux.HandleFunc("GET /api/home", s.rateLimited(s.handleAPIHome))
	mux.HandleFunc("GET /api/search", s.rateLimited(s.handleAPISearch))
	mux.HandleFunc("GET /api/suggest", s.rateLimited(s.handleAPISuggest))
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(s.static)))
	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
	mux.HandleFunc("/", s.handleNotFound)

	var h http.Handler = metricsMiddleware(s.metrics, mux)
	h = securityHeadersMiddleware(h)
	h = loggingMiddleware(s.logger, h)
	h = requestIDMiddleware(h)
	return recoveryMiddleware(s.logger, h)
}

// Metrics returns the server's collectors, nil when disabled
func (s *Server) Metrics() *Metrics { return s.metrics }

// ListenAndServe serves on web.addr until ctx is cancelled, then drains
// in-flight requests. ready, when non-nil, receives the bound address.
func (s *Server) ListenAndServe(ctx context.Context, ready func(addr string)) error {
	ln, err := net.Listen("tcp", s.cfg.Web.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Web.Addr, err)
	}
	return s.Serve(ctx, ln, ready)
}

// Serve is ListenAndServe on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener, ready func(addr string)) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       s.cfg.Web.ReadTimeout,
		ReadHeaderTimeout: s.cfg.Web.ReadTimeout,
		WriteTimeout:      s.cfg.Web.WriteTimeout,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	s.logger.Info("web server started", "addr", ln.Addr().String(), "site", s.cfg.Web.SiteName)
	if ready != nil {
		ready(ln.Addr().String())
	}

	select {
	case err := <-errCh:
		return fmt.Errorf("web server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return <-errCh
}
