// Package http exposes the tracker as a JSON API.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"tally/internal/backend"
	"tally/internal/ledger"
	"tally/internal/log"
	"tally/internal/services"
	"tally/internal/stats"
	"tally/internal/store"
)

type Server struct {
	http.Server

	transactions *store.TransactionStore
	categories   *store.CategoryStore
	recurring    *store.RecurringStore
	budgets      *store.BudgetStore

	txService   *services.TransactionService
	catalog     *services.CatalogService
	importer    *services.ImportService
	clock       ledger.Clock
	rateLimiter *rateLimiter
	logger      *log.Logger

	// Aggregations are recomputed from the full record list; a short-TTL
	// cache absorbs dashboard polling bursts.
	summaryCache *lruCache[stats.Totals]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, b *backend.Result, clock ledger.Clock, cacheTTL time.Duration) *Server {
	if clock == nil {
		clock = ledger.SystemClock{}
	}
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}

	mux := http.NewServeMux()

	logCfg := log.DefaultConfig()
	logCfg.Component = log.ComponentHTTP

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		transactions:     b.Transactions,
		categories:       b.Categories,
		recurring:        b.Recurring,
		budgets:          b.Budgets,
		txService:        b.TransactionService,
		catalog:          b.CatalogService,
		importer:         b.ImportService,
		clock:            clock,
		rateLimiter:      newRateLimiter(),
		logger:           log.New(logCfg),
		summaryCache:     newLRUCache[stats.Totals](64, cacheTTL),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/transactions", s.guard(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.guard(s.handleCreateTransaction))
	mux.HandleFunc("GET /api/transactions/{id}", s.guard(s.handleGetTransaction))
	mux.HandleFunc("PUT /api/transactions/{id}", s.guard(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.guard(s.handleDeleteTransaction))
	mux.HandleFunc("POST /api/transactions/bulk-delete", s.guard(s.handleBulkDelete))

	mux.HandleFunc("GET /api/categories", s.guard(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.guard(s.handleCreateCategory))
	mux.HandleFunc("PUT /api/categories/{id}", s.guard(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", s.guard(s.handleDeleteCategory))
	mux.HandleFunc("POST /api/categories/reset", s.guard(s.handleResetCategories))

	mux.HandleFunc("GET /api/recurring", s.guard(s.handleListRecurring))
	mux.HandleFunc("POST /api/recurring", s.guard(s.handleCreateRecurring))
	mux.HandleFunc("PUT /api/recurring/{id}", s.guard(s.handleUpdateRecurring))
	mux.HandleFunc("DELETE /api/recurring/{id}", s.guard(s.handleDeleteRecurring))
	mux.HandleFunc("POST /api/recurring/{id}/toggle", s.guard(s.handleToggleRecurring))
	mux.HandleFunc("POST /api/recurring/reset", s.guard(s.handleResetRecurring))

	mux.HandleFunc("GET /api/budgets", s.guard(s.handleListBudgets))
	mux.HandleFunc("PUT /api/budgets/{category}", s.guard(s.handleSetBudget))
	mux.HandleFunc("DELETE /api/budgets/{category}", s.guard(s.handleRemoveBudget))
	mux.HandleFunc("GET /api/budgets/report", s.guard(s.handleBudgetReport))

	mux.HandleFunc("GET /api/stats/summary", s.guard(s.handleSummary))
	mux.HandleFunc("GET /api/stats/categories", s.guard(s.handleCategoryBreakdown))
	mux.HandleFunc("GET /api/stats/daily", s.guard(s.handleDailySeries))
	mux.HandleFunc("GET /api/stats/monthly", s.guard(s.handleMonthlySeries))
	mux.HandleFunc("GET /api/stats/insights", s.guard(s.handleInsights))
	mux.HandleFunc("GET /api/stats/health", s.guard(s.handleHealthScore))

	mux.HandleFunc("GET /api/export", s.guard(s.handleExport))
	mux.HandleFunc("POST /api/import", s.guard(s.handleImport))
	mux.HandleFunc("DELETE /api/data", s.guard(s.handleWipe))

	return s
}

// guard wraps a handler with security headers, per-IP rate limiting on
// mutations, and request logging.
func (s *Server) guard(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)
		requestID := generateRequestID()
		reqLogger := s.logger.With(log.FieldRequestID, requestID)

		ctx := context.WithValue(r.Context(), log.LoggerContextKey, reqLogger)
		r = r.WithContext(ctx)

		reqLogger.InfoContext(ctx, "Request started",
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldClientIP, clientIP)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			reqLogger.WarnContext(ctx, "Rate limit exceeded",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		setSecurityHeaders(w)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		reqLogger.InfoContext(ctx, "Request completed",
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, time.Since(start).Milliseconds())
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.summaryCache.CleanExpired(); cleaned > 0 {
				s.logger.Debug("Cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// InvalidateStats drops cached aggregates after out-of-band mutations,
// such as recurring materialization outside the request path.
func (s *Server) InvalidateStats() {
	s.summaryCache.Purge()
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		close(s.stopCacheCleanup)
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
