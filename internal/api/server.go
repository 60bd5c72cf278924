// Package api exposes the ledger over a small JSON HTTP interface.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/PDA080442/personal-finance-app/internal/cache"
	"github.com/PDA080442/personal-finance-app/internal/middleware/ratelimit"
	"github.com/PDA080442/personal-finance-app/internal/services"
)

// Server wraps http.Server with the ledger services the handlers need.
type Server struct {
	http.Server

	ledger    *services.LedgerService
	scheduler *services.Scheduler

	limiter *ratelimit.Limiter

	// reportCache holds rendered report responses keyed by query string.
	// Every record write clears it.
	reportCache      *cache.LRU[reportResponse]
	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, ledger *services.LedgerService, scheduler *services.Scheduler) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		ledger:           ledger,
		scheduler:        scheduler,
		limiter:          ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		reportCache:      cache.NewLRU[reportResponse](100, 5*time.Minute),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/records", s.protect(s.handleRecords))
	mux.HandleFunc("/records/search", s.protect(s.handleSearchRecords))
	mux.HandleFunc("/categories", s.protect(s.handleCategories))
	mux.HandleFunc("/recurring", s.protect(s.handleRecurring))
	mux.HandleFunc("/recurring/process", s.protect(s.handleProcessDue))
	mux.HandleFunc("/report", s.protect(s.handleReport))

	return s
}

// protect adds rate limiting and request logging to handlers.
func (s *Server) protect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow(ratelimit.ClientIP(r)) {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}

		start := time.Now()
		next(w, r)
		slog.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCacheCleanup:
			return
		case <-ticker.C:
			if cleaned := s.reportCache.CleanExpired(); cleaned > 0 {
				slog.Debug("Cleaned expired report cache entries", "count", cleaned)
			}
		}
	}
}

// Shutdown stops the background goroutines before closing the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		close(s.stopCacheCleanup)
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady verifies the ledger store is reachable before reporting ready.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if _, err := s.ledger.ListCategories(ctx); err != nil {
		http.Error(w, "store not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
