// Package http exposes the budget engine as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"pots/internal/cache"
	applog "pots/internal/log"
	"pots/internal/middleware/ratelimit"
	"pots/internal/middleware/security"
	"pots/internal/middleware/trace"
	"pots/internal/services"
)

type Server struct {
	http.Server
	svc       *services.BudgetService
	limiter   *ratelimit.Limiter
	snapshots *cache.SnapshotCache

	// generation counts applied mutations and keys the snapshot cache,
	// so a cached view can never outlive the state it was derived from.
	generation   atomic.Int64
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, svc *services.BudgetService) *Server {
	mux := http.NewServeMux()

	s := &Server{
		svc:       svc,
		limiter:   ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		snapshots: cache.NewSnapshotCache(64, 30*time.Second, 5*time.Minute),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/v1/budget", s.handleGetBudget)
	mux.HandleFunc("GET /api/v1/state", s.handleGetState)
	mux.HandleFunc("POST /api/v1/assign", s.handleAssign)
	mux.HandleFunc("POST /api/v1/auto-assign", s.handleAutoAssign)

	mux.HandleFunc("POST /api/v1/accounts", s.handleAddAccount)
	mux.HandleFunc("PUT /api/v1/accounts/{id}", s.handleUpdateAccount)
	mux.HandleFunc("DELETE /api/v1/accounts/{id}", s.handleRemoveAccount)

	mux.HandleFunc("POST /api/v1/goals", s.handleAddGoal)
	mux.HandleFunc("PUT /api/v1/goals/{id}", s.handleRenameGoal)
	mux.HandleFunc("DELETE /api/v1/goals/{id}", s.handleRemoveGoal)
	mux.HandleFunc("POST /api/v1/goals/{id}/subgoals", s.handleAddSubGoal)
	mux.HandleFunc("PUT /api/v1/goals/{id}/subgoals/{subGoalID}", s.handleUpdateSubGoal)
	mux.HandleFunc("DELETE /api/v1/goals/{id}/subgoals/{subGoalID}", s.handleRemoveSubGoal)

	mux.HandleFunc("PUT /api/v1/allocations/{id}", s.handleSetAllocation)
	mux.HandleFunc("DELETE /api/v1/allocations/{id}", s.handleRemoveAllocation)

	mux.HandleFunc("PUT /api/v1/reports", s.handleUpsertReport)

	httpLogger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentHTTP)
	handler := trace.Middleware(ratelimit.ClientIP)(
		applog.Middleware(httpLogger)(
			security.Headers(security.DefaultHeadersConfig())(
				s.withRateLimit(mux))))

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// withRateLimit throttles mutating requests per client IP.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			if !s.limiter.Allow(ratelimit.ClientIP(r)) {
				w.Header().Set("Retry-After", "60")
				writeErr(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Shutdown stops the background helpers and then the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		s.snapshots.Close()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady verifies the state store answers before reporting ready.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	if _, err := s.svc.State(ctx); err != nil {
		writeErr(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
