// Package http exposes the JSON API: transactions, dashboard aggregates,
// budgets, reminders and the category/payer reference lists.
package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"kharcha/internal/cache"
	"kharcha/internal/clock"
	"kharcha/internal/core"
	"kharcha/internal/middleware/ratelimit"
	"kharcha/internal/middleware/trace"
	"kharcha/internal/services"
	"kharcha/internal/storage"
)

type Server struct {
	http.Server

	repo         *storage.Repository
	transactions *services.TransactionService
	reports      *services.ReportService
	budgets      *services.BudgetService
	reminders    *services.ReminderService
	taxonomy     *services.TaxonomyService

	tracer  *trace.Middleware
	limiter *ratelimit.Limiter

	// Dashboard reads are cached per owner; the generation counter in the
	// key invalidates everything for an owner on any write.
	statsCache    *cache.LRUCache[core.SummaryStats]
	categoryCache *cache.LRUCache[[]core.CategoryTotal]
	trendCache    *cache.LRUCache[[]core.MonthlyTotal]
	generations   sync.Map // owner -> *int64

	startedAt        time.Time
	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// Deps carries everything the server needs. Publisher may be nil, which
// disables eventing.
type Deps struct {
	Repo      *storage.Repository
	Clock     clock.Clock
	Publisher services.EventPublisher
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, d Deps) *Server {
	mux := http.NewServeMux()

	s := &Server{
		repo:             d.Repo,
		transactions:     services.NewTransactionService(d.Repo, d.Publisher),
		reports:          services.NewReportService(d.Repo, d.Clock),
		budgets:          services.NewBudgetService(d.Repo, d.Clock),
		reminders:        services.NewReminderService(d.Repo, d.Clock, d.Publisher),
		taxonomy:         services.NewTaxonomyService(d.Repo),
		tracer:           trace.NewMiddleware(),
		limiter:          ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		statsCache:       cache.NewLRU[core.SummaryStats](100, 5*time.Minute),
		categoryCache:    cache.NewLRU[[]core.CategoryTotal](200, 5*time.Minute),
		trendCache:       cache.NewLRU[[]core.MonthlyTotal](100, 5*time.Minute),
		startedAt:        time.Now(),
		stopCacheCleanup: make(chan struct{}),
	}
	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.tracer.Wrap(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.startCacheCleanup()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	api := func(h http.HandlerFunc) http.HandlerFunc {
		return s.withSecurityHeaders(s.withAuth(h))
	}

	mux.HandleFunc("GET /api/auth/me", api(s.handleMe))
	mux.HandleFunc("POST /api/auth/logout", api(s.handleLogout))

	mux.HandleFunc("POST /api/transactions", api(s.handleCreateTransaction))
	mux.HandleFunc("GET /api/transactions", api(s.handleListTransactions))
	mux.HandleFunc("GET /api/transactions/summary/stats", api(s.handleSummaryStats))
	mux.HandleFunc("GET /api/transactions/summary/by-category", api(s.handleByCategory))
	mux.HandleFunc("GET /api/transactions/summary/monthly-trend", api(s.handleMonthlyTrend))
	mux.HandleFunc("GET /api/transactions/{id}", api(s.handleGetTransaction))
	mux.HandleFunc("PUT /api/transactions/{id}", api(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", api(s.handleDeleteTransaction))

	mux.HandleFunc("POST /api/budgets", api(s.handleCreateBudget))
	mux.HandleFunc("GET /api/budgets", api(s.handleListBudgets))
	mux.HandleFunc("GET /api/budgets/alerts", api(s.handleBudgetAlerts))
	mux.HandleFunc("PUT /api/budgets/{id}", api(s.handleUpdateBudget))
	mux.HandleFunc("DELETE /api/budgets/{id}", api(s.handleDeleteBudget))

	mux.HandleFunc("GET /api/categories", api(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", api(s.handleCreateCategory))
	mux.HandleFunc("DELETE /api/categories/{name}", api(s.handleDeleteCategory))

	mux.HandleFunc("GET /api/payers", api(s.handleListPayers))
	mux.HandleFunc("POST /api/payers", api(s.handleCreatePayer))
	mux.HandleFunc("DELETE /api/payers/{id}", api(s.handleDeletePayer))

	mux.HandleFunc("POST /api/reminders", api(s.handleCreateReminder))
	mux.HandleFunc("GET /api/reminders", api(s.handleListReminders))
	mux.HandleFunc("GET /api/reminders/active", api(s.handleActiveReminders))
	mux.HandleFunc("GET /api/reminders/{id}", api(s.handleGetReminder))
	mux.HandleFunc("PUT /api/reminders/{id}", api(s.handleUpdateReminder))
	mux.HandleFunc("DELETE /api/reminders/{id}", api(s.handleDeleteReminder))
	mux.HandleFunc("POST /api/reminders/{id}/execute", api(s.handleExecuteReminder))

	return s
}

// withSecurityHeaders adds security headers and rate limiting on mutating
// requests.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && !s.limiter.Allow(trace.ClientIP(r)) {
			w.Header().Set("Retry-After", "60")
			respondJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next(w, r)
	}
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.statsCache.CleanExpired()
			s.categoryCache.CleanExpired()
			s.trendCache.CleanExpired()
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown stops the background goroutines along with the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		close(s.stopCacheCleanup)
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// generation returns the owner's cache generation counter.
func (s *Server) generation(owner string) *int64 {
	v, _ := s.generations.LoadOrStore(owner, new(int64))
	return v.(*int64)
}

// cacheKey embeds the generation so invalidateOwner drops every cached read
// for the owner without enumerating keys.
func (s *Server) cacheKey(owner, suffix string) string {
	return fmt.Sprintf("%s#%d|%s", owner, atomic.LoadInt64(s.generation(owner)), suffix)
}

func (s *Server) invalidateOwner(owner string) {
	atomic.AddInt64(s.generation(owner), 1)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).String(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := map[string]any{}
	status, httpStatus := "ready", http.StatusOK

	if err := s.repo.Ping(r.Context()); err != nil {
		checks["storage"] = fmt.Sprintf("failed: %v", err)
		status, httpStatus = "not_ready", http.StatusServiceUnavailable
	} else {
		checks["storage"] = "ok"
	}
	checks["cache"] = map[string]any{
		"stats_entries":    s.statsCache.Size(),
		"category_entries": s.categoryCache.Size(),
		"trend_entries":    s.trendCache.Size(),
	}
	checks["rate_limiter"] = map[string]any{
		"active_clients": s.limiter.ActiveClients(),
	}

	respondJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "# HELP http_requests_total Total number of HTTP requests\n")
	fmt.Fprintf(w, "# TYPE http_requests_total counter\n")
	fmt.Fprintf(w, "http_requests_total %d\n\n", s.tracer.TotalRequests())

	fmt.Fprintf(w, "# HELP cache_entries Current cache entries\n")
	fmt.Fprintf(w, "# TYPE cache_entries gauge\n")
	fmt.Fprintf(w, "cache_entries{type=\"stats\"} %d\n", s.statsCache.Size())
	fmt.Fprintf(w, "cache_entries{type=\"by_category\"} %d\n", s.categoryCache.Size())
	fmt.Fprintf(w, "cache_entries{type=\"trend\"} %d\n\n", s.trendCache.Size())

	fmt.Fprintf(w, "# HELP rate_limit_hits_total Total rate limit hits\n")
	fmt.Fprintf(w, "# TYPE rate_limit_hits_total counter\n")
	fmt.Fprintf(w, "rate_limit_hits_total %d\n\n", s.limiter.TotalHits())

	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n", time.Since(s.startedAt).Seconds())
}
