// Package api serves the declutter engine over HTTP using the chi router.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/blackwell-systems/closetprune/internal/analyzer"
	"github.com/blackwell-systems/closetprune/internal/auth"
	"github.com/blackwell-systems/closetprune/internal/lifecycle"
	"github.com/blackwell-systems/closetprune/internal/usage"
)

// Pinger reports whether the backing store is usable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the handlers call.
type Deps struct {
	Analyzer *analyzer.Analyzer
	Machine  *lifecycle.Machine
	Recorder *usage.Recorder
	Health   Pinger
	Auth     *auth.Authenticator
}

// Options tune the HTTP layer.
type Options struct {
	CORSOrigins       []string
	RateLimitRequests int // 0 disables rate limiting
	RateLimitWindow   time.Duration
	// Location is the calendar used for day counts and seasons.
	Location *time.Location
	// Now defaults to time.Now.
	Now func() time.Time
}

// Server holds the handlers and their dependencies.
type Server struct {
	deps Deps
	opts Options
}

// New creates a Server.
func New(deps Deps, opts Options) *Server {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Server{deps: deps, opts: opts}
}

// now returns the reference time for a request in the configured location.
func (s *Server) now() time.Time {
	return s.opts.Now().In(s.opts.Location)
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID())
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger())
	r.Use(chimiddleware.Recoverer)
	r.Use(CORS(s.opts.CORSOrigins))

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(RateLimit(s.opts.RateLimitRequests, s.opts.RateLimitWindow))
		r.Use(Metrics())
		r.Use(Authenticate(s.deps.Auth))

		r.Get("/items/declutter_candidates/", s.handleCandidates)
		r.Post("/items/declutter_action/", s.handleAction)
		r.Get("/items/{itemID}/declutter_explain/", s.handleExplain)
		r.Post("/usage_history/", s.handleUsage)
	})

	return r
}
