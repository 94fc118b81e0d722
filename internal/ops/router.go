// Package ops exposes the operational read surface: health, last-run
// summaries and data-quality counters. The consumer-facing dashboard reads
// the database directly; this surface exists for operators and probes.
package ops

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/exportlens/backend/internal/contracts"
	"github.com/exportlens/backend/pkg/database"
	"github.com/exportlens/backend/pkg/logger"
)

// NewRouter configures the ops routes.
// SSOT: route layout lives in this function only.
func NewRouter(db *database.DB, store contracts.OutputStore, log *logger.Logger) http.Handler {
	h := &handler{db: db, store: store, logger: log}

	r := mux.NewRouter()
	r.HandleFunc("/health", h.health).Methods("GET")

	api := r.PathPrefix("/ops").Subrouter()
	api.HandleFunc("/runs/{year:[0-9]+}", h.lastRun).Methods("GET")
	api.HandleFunc("/runs/{year:[0-9]+}/exclusions", h.exclusions).Methods("GET")

	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

type handler struct {
	db     *database.DB
	store  contracts.OutputStore
	logger *logger.Logger
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	status, err := h.db.HealthCheck(r.Context())
	code := http.StatusOK
	if err != nil || !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

func (h *handler) lastRun(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.loadSummary(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// exclusions surfaces the ingestion data-quality counters of the last run,
// the number operators watch when an upstream snapshot degrades.
func (h *handler) exclusions(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.loadSummary(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"year":             summary.Year,
		"records_read":     summary.RecordsRead,
		"records_excluded": summary.RecordsExcluded,
		"excluded_share":   summary.ExcludedShare,
	})
}

func (h *handler) loadSummary(w http.ResponseWriter, r *http.Request) (*contracts.RunSummary, bool) {
	year, err := strconv.Atoi(mux.Vars(r)["year"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid year"})
		return nil, false
	}

	summary, err := h.store.LastRun(r.Context(), year)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load run summary")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return nil, false
	}
	if summary == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no run for year"})
		return nil, false
	}
	return summary, true
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")
					writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
