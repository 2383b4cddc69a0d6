// Package server assembles the usersapi HTTP surface: the contract
// dispatcher for the user endpoints, the document endpoints, health and
// metrics, behind the shared middleware stack.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/bjaus/usersapi/contract"
	"github.com/bjaus/usersapi/dispatch"
	"github.com/bjaus/usersapi/internal/config"
	"github.com/bjaus/usersapi/internal/users"
)

// Server is the assembled application.
type Server struct {
	cfg     config.Config
	logger  zerolog.Logger
	binder  *contract.Binder
	store   *users.Store
	metrics *Metrics
	handler http.Handler
}

// New binds the user contracts and builds the router. Binding errors wrap
// the contract sentinels.
func New(cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	var seed []users.User
	if cfg.Store.Seed {
		seed = users.DefaultSeed()
	}

	s := &Server{
		cfg:    *cfg,
		logger: logger,
		binder: contract.NewBinder(
			contract.WithTitle(cfg.Docs.Title),
			contract.WithVersion(cfg.Docs.Version),
			contract.WithDocDescription(cfg.Docs.Description),
		),
		store:   users.NewStore(users.WithSeed(seed...)),
		metrics: NewMetrics(),
	}

	d := dispatch.New(s.binder, s.store,
		dispatch.WithLogger(logger),
		dispatch.WithObserver(s.metrics.Observe),
	)
	if err := users.Register(d); err != nil {
		return nil, fmt.Errorf("register users: %w", err)
	}
	if err := d.Verify(); err != nil {
		return nil, err
	}

	s.handler = s.routes(d)
	return s, nil
}

func (s *Server) routes(d http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(
		RequestID(s.logger),
		Recovery(s.logger),
		AccessLog(s.logger),
		Secure(),
	)
	if len(s.cfg.CORS.AllowOrigins) > 0 {
		r.Use(CORS(s.cfg.CORS.AllowOrigins))
	}
	if s.cfg.RateLimit.Enabled {
		r.Use(RateLimit(RateLimitConfig{
			Rate:  s.cfg.RateLimit.RPS,
			Burst: s.cfg.RateLimit.Burst,
		}))
	}

	r.Get("/", s.greeting)
	r.Get("/healthz", health)
	r.Get("/doc", s.docJSON)
	r.Get("/doc.yaml", s.docYAML)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	if s.cfg.Docs.UI {
		r.Get("/ui", func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, "/ui/index.html", http.StatusMovedPermanently)
		})
		r.Get("/ui/*", httpSwagger.Handler(httpSwagger.URL("/doc")))
	}

	r.With(BodyLimit(s.cfg.Server.BodyLimit)).Handle("/*", d)
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.handler }

// Binder returns the binder holding every served contract.
func (s *Server) Binder() *contract.Binder { return s.binder }

// Store returns the user store.
func (s *Server) Store() *users.Store { return s.store }

// ListenAndServe listens on the configured address and serves until ctx is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Server.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully,
// waiting at most the configured shutdown timeout for open requests.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.cfg.Server.ReadHeaderTimeout,
	}

	s.logger.Info().Str("addr", ln.Addr().String()).Msg("listening")

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) greeting(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	//nolint:errcheck,gosec // best-effort write
	io.WriteString(w, "Hello "+s.cfg.Docs.Title+"!")
}

func health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) docJSON(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.binder.Export())
}

func (s *Server) docYAML(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", contract.ContentTypeYAML)
	if err := s.binder.WriteYAML(w); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("write yaml document")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contract.ContentTypeJSON)
	w.WriteHeader(status)
	//nolint:errcheck,gosec // best-effort after WriteHeader
	json.NewEncoder(w).Encode(v)
}
