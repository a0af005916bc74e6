package http

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/Callhook/callhook/pkg/logger"
)

// healthPingTimeout bounds the DB ping so a stalled pool cannot hang the
// health check.
const healthPingTimeout = 2 * time.Second

// RootHandler serves the API root and the health endpoint. The health
// endpoint is also mounted on the metrics listener so probes work without
// touching the public port.
type RootHandler struct {
	db      *sql.DB
	logger  logger.Logger
	version string
}

// NewRootHandler creates a new root handler
func NewRootHandler(db *sql.DB, logger logger.Logger, version string) *RootHandler {
	return &RootHandler{
		db:      db,
		logger:  logger,
		version: version,
	}
}

// RegisterRoutes registers the root and health endpoints
func (h *RootHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.HandleHealth)
	// catch all route
	mux.HandleFunc("/", h.handleRoot)
}

func (h *RootHandler) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		WriteJSONError(w, "Not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"service": "callhook",
		"version": h.version,
		"status":  "running",
	})
}

// HandleHealth reports liveness plus database reachability. Exported so the
// metrics listener can mount the same check.
func (h *RootHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.WithField("error", err.Error()).Error("Health check database ping failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "degraded",
			"database": "unreachable",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"database": "ok",
	})
}
