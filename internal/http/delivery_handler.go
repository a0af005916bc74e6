package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Callhook/callhook/internal/domain"
	"github.com/Callhook/callhook/internal/http/middleware"
	"github.com/Callhook/callhook/pkg/logger"
)

// deliveryListMaxLimit caps a single page of queue rows.
const deliveryListMaxLimit = 100

// DeliveryHandler exposes the delivery queue inspection and replay API.
type DeliveryHandler struct {
	service   domain.DeliveryService
	auth      *middleware.AuthMiddleware
	rateLimit *middleware.RateLimitMiddleware
	logger    logger.Logger
}

// NewDeliveryHandler creates a new delivery handler
func NewDeliveryHandler(
	service domain.DeliveryService,
	auth *middleware.AuthMiddleware,
	rateLimit *middleware.RateLimitMiddleware,
	logger logger.Logger,
) *DeliveryHandler {
	return &DeliveryHandler{
		service:   service,
		auth:      auth,
		rateLimit: rateLimit,
		logger:    logger,
	}
}

type replayDeliveryRequest struct {
	ID string `json:"id"`
}

// RegisterRoutes registers the delivery queue endpoints
func (h *DeliveryHandler) RegisterRoutes(mux *http.ServeMux) {
	requireAuth := h.auth.RequireAuth()
	limit := h.rateLimit.Limit("api")
	secure := func(handler http.HandlerFunc) http.Handler {
		return requireAuth(limit(handler))
	}

	mux.Handle("/api/deliveries.list", secure(h.handleList))
	mux.Handle("/api/deliveries.get", secure(h.handleGet))
	mux.Handle("/api/deliveries.attempts", secure(h.handleAttempts))
	mux.Handle("/api/deliveries.replay", secure(h.handleReplay))
	mux.Handle("/api/deliveries.stats", secure(h.handleStats))
}

func (h *DeliveryHandler) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tenantID, ok := middleware.TenantFromContext(r.Context())
	if !ok {
		WriteJSONError(w, "Tenant not found in context", http.StatusUnauthorized)
		return
	}

	query := r.URL.Query()
	params := domain.DeliveryListParams{
		TenantID:         tenantID,
		Status:           query.Get("status"),
		PartnerWebhookID: query.Get("partner_webhook_id"),
		EventType:        query.Get("event_type"),
		Limit:            20,
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			WriteJSONError(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		if limit > deliveryListMaxLimit {
			limit = deliveryListMaxLimit
		}
		params.Limit = limit
	}
	if raw := query.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			WriteJSONError(w, "Invalid offset", http.StatusBadRequest)
			return
		}
		params.Offset = offset
	}

	deliveries, total, err := h.service.List(r.Context(), params)
	if err != nil {
		var validation domain.ValidationError
		if errors.As(err, &validation) {
			WriteJSONError(w, validation.Message, http.StatusBadRequest)
			return
		}
		h.logger.WithField("error", err.Error()).Error("Failed to list deliveries")
		WriteJSONError(w, "Failed to list deliveries", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"deliveries": deliveries,
		"total":      total,
		"limit":      params.Limit,
		"offset":     params.Offset,
	})
}

func (h *DeliveryHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tenantID, ok := middleware.TenantFromContext(r.Context())
	if !ok {
		WriteJSONError(w, "Tenant not found in context", http.StatusUnauthorized)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		WriteJSONError(w, "Missing delivery ID", http.StatusBadRequest)
		return
	}

	delivery, err := h.service.Get(r.Context(), tenantID, id)
	if err != nil {
		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			WriteJSONError(w, "Delivery not found", http.StatusNotFound)
			return
		}
		h.logger.WithField("error", err.Error()).Error("Failed to get delivery")
		WriteJSONError(w, "Failed to get delivery", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"delivery": delivery,
	})
}

func (h *DeliveryHandler) handleAttempts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tenantID, ok := middleware.TenantFromContext(r.Context())
	if !ok {
		WriteJSONError(w, "Tenant not found in context", http.StatusUnauthorized)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		WriteJSONError(w, "Missing delivery ID", http.StatusBadRequest)
		return
	}

	attempts, err := h.service.Attempts(r.Context(), tenantID, id)
	if err != nil {
		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			WriteJSONError(w, "Delivery not found", http.StatusNotFound)
			return
		}
		h.logger.WithField("error", err.Error()).Error("Failed to list delivery attempts")
		WriteJSONError(w, "Failed to list delivery attempts", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"attempts": attempts,
	})
}

// handleReplay clones a dead-lettered delivery into a fresh pending row.
func (h *DeliveryHandler) handleReplay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tenantID, ok := middleware.TenantFromContext(r.Context())
	if !ok {
		WriteJSONError(w, "Tenant not found in context", http.StatusUnauthorized)
		return
	}

	var req replayDeliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		WriteJSONError(w, "Missing delivery ID", http.StatusBadRequest)
		return
	}

	clone, err := h.service.Replay(r.Context(), tenantID, req.ID)
	if err != nil {
		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			WriteJSONError(w, "Delivery not found", http.StatusNotFound)
			return
		}
		var validation domain.ValidationError
		if errors.As(err, &validation) {
			WriteJSONError(w, validation.Message, http.StatusBadRequest)
			return
		}
		h.logger.WithField("error", err.Error()).Error("Failed to replay delivery")
		WriteJSONError(w, "Failed to replay delivery", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"delivery": clone,
	})
}

func (h *DeliveryHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tenantID, ok := middleware.TenantFromContext(r.Context())
	if !ok {
		WriteJSONError(w, "Tenant not found in context", http.StatusUnauthorized)
		return
	}

	stats, err := h.service.Stats(r.Context(), tenantID)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to get queue stats")
		WriteJSONError(w, "Failed to get queue stats", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stats": stats,
	})
}
