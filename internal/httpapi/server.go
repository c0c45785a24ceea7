// Package httpapi exposes the arena service as JSON over HTTP.
package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/cory-johannsen/binary-boxer/internal/arena"
	"github.com/cory-johannsen/binary-boxer/internal/observability"
)

// IdentityHeader carries the caller's username.
const IdentityHeader = "X-Arena-User"

// maxOwnerLen bounds the identity header value.
const maxOwnerLen = 64

// Server routes HTTP requests to the arena service.
type Server struct {
	svc       *arena.Service
	feed      *arena.Broadcaster
	logger    *zap.Logger
	started   time.Time
	keepAlive time.Duration
}

// NewServer creates a Server. feed may be nil, in which case the community
// stream endpoint is not mounted.
//
// Precondition: svc and logger must be non-nil.
func NewServer(svc *arena.Service, feed *arena.Broadcaster, logger *zap.Logger) *Server {
	if svc == nil || logger == nil {
		panic("httpapi.NewServer: precondition violated: svc and logger must be non-nil")
	}
	return &Server{svc: svc, feed: feed, logger: logger, started: time.Now()}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.RequestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/leaderboard/{metric}", s.handleLeaderboard)
		r.Get("/community", s.handleCommunity)
		if s.feed != nil {
			r.Get("/community/stream", s.handleCommunityStream)
		}

		r.Group(func(r chi.Router) {
			r.Use(s.requireIdentity)

			r.Get("/init", s.handleInit)
			r.Get("/dynasty", s.handleDynasty)

			r.Route("/robot", func(r chi.Router) {
				r.Post("/create", s.handleCreate)
				r.Get("/stats", s.handleStats)
				r.Post("/retire", s.handleRetire)
			})
			r.Route("/fight", func(r chi.Router) {
				r.Post("/start", s.handleFightStart)
				r.Post("/turn", s.handleFightTurn)
				r.Post("/resolve", s.handleFightResolve)
				r.Post("/complete", s.handleFightComplete)
			})
			r.Route("/corner", func(r chi.Router) {
				r.Post("/repair", s.handleRepair)
				r.Post("/full-repair", s.handleFullRepair)
				r.Post("/train", s.handleTrain)
				r.Post("/swap-language", s.handleSwapLanguage)
			})
		})
	})
	return r
}

type ownerKey struct{}

// identity returns the trimmed identity header value, or "" when absent or
// malformed.
func identity(r *http.Request) string {
	owner := strings.TrimSpace(r.Header.Get(IdentityHeader))
	if len(owner) > maxOwnerLen {
		return ""
	}
	return owner
}

// requireIdentity rejects requests without a usable identity header and stores
// the owner in the request context.
func (s *Server) requireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner := identity(r)
		if owner == "" {
			s.writeError(w, r, errUnauthenticated)
			return
		}
		ctx := context.WithValue(r.Context(), ownerKey{}, owner)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func ownerFrom(ctx context.Context) string {
	owner, _ := ctx.Value(ownerKey{}).(string)
	return owner
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}
