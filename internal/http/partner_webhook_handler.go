package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Callhook/callhook/internal/domain"
	"github.com/Callhook/callhook/internal/http/middleware"
	"github.com/Callhook/callhook/pkg/logger"
)

// PartnerWebhookHandler exposes the partner webhook management API. Every
// endpoint is tenant-scoped through the bearer token.
type PartnerWebhookHandler struct {
	service   domain.PartnerWebhookService
	auth      *middleware.AuthMiddleware
	rateLimit *middleware.RateLimitMiddleware
	logger    logger.Logger
}

// NewPartnerWebhookHandler creates a new partner webhook handler
func NewPartnerWebhookHandler(
	service domain.PartnerWebhookService,
	auth *middleware.AuthMiddleware,
	rateLimit *middleware.RateLimitMiddleware,
	logger logger.Logger,
) *PartnerWebhookHandler {
	return &PartnerWebhookHandler{
		service:   service,
		auth:      auth,
		rateLimit: rateLimit,
		logger:    logger,
	}
}

type deletePartnerWebhookRequest struct {
	ID string `json:"id"`
}

type togglePartnerWebhookRequest struct {
	ID      string `json:"id"`
	Enabled bool   `json:"enabled"`
}

type testPartnerWebhookRequest struct {
	ID string `json:"id"`
}

// RegisterRoutes registers the partner webhook management endpoints
func (h *PartnerWebhookHandler) RegisterRoutes(mux *http.ServeMux) {
	requireAuth := h.auth.RequireAuth()
	limit := h.rateLimit.Limit("api")
	secure := func(handler http.HandlerFunc) http.Handler {
		// Auth runs first so the rate limit keys on the tenant.
		return requireAuth(limit(handler))
	}

	mux.Handle("/api/partnerWebhooks.list", secure(h.handleList))
	mux.Handle("/api/partnerWebhooks.get", secure(h.handleGet))
	mux.Handle("/api/partnerWebhooks.create", secure(h.handleCreate))
	mux.Handle("/api/partnerWebhooks.update", secure(h.handleUpdate))
	mux.Handle("/api/partnerWebhooks.delete", secure(h.handleDelete))
	mux.Handle("/api/partnerWebhooks.toggle", secure(h.handleToggle))
	mux.Handle("/api/partnerWebhooks.test", secure(h.handleTest))
}

func (h *PartnerWebhookHandler) handleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tenantID, ok := middleware.TenantFromContext(r.Context())
	if !ok {
		WriteJSONError(w, "Tenant not found in context", http.StatusUnauthorized)
		return
	}

	webhooks, err := h.service.List(r.Context(), tenantID)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to list partner webhooks")
		WriteJSONError(w, "Failed to list partner webhooks", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"webhooks": webhooks,
	})
}

func (h *PartnerWebhookHandler) handleGet(w http.ResponseWriter, r *http.Request) {
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
		WriteJSONError(w, "Missing webhook ID", http.StatusBadRequest)
		return
	}

	webhook, err := h.service.Get(r.Context(), tenantID, id)
	if err != nil {
		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			WriteJSONError(w, "Webhook not found", http.StatusNotFound)
			return
		}
		h.logger.WithField("error", err.Error()).Error("Failed to get partner webhook")
		WriteJSONError(w, "Failed to get partner webhook", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"webhook": webhook,
	})
}

func (h *PartnerWebhookHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tenantID, ok := middleware.TenantFromContext(r.Context())
	if !ok {
		WriteJSONError(w, "Tenant not found in context", http.StatusUnauthorized)
		return
	}

	var req domain.CreatePartnerWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	webhook, err := h.service.Create(r.Context(), tenantID, &req)
	if err != nil {
		var validation domain.ValidationError
		if errors.As(err, &validation) {
			WriteJSONError(w, validation.Message, http.StatusBadRequest)
			return
		}
		h.logger.WithField("error", err.Error()).Error("Failed to create partner webhook")
		WriteJSONError(w, "Failed to create partner webhook", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"webhook": webhook,
	})
}

func (h *PartnerWebhookHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tenantID, ok := middleware.TenantFromContext(r.Context())
	if !ok {
		WriteJSONError(w, "Tenant not found in context", http.StatusUnauthorized)
		return
	}

	var req domain.UpdatePartnerWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	webhook, err := h.service.Update(r.Context(), tenantID, &req)
	if err != nil {
		var validation domain.ValidationError
		if errors.As(err, &validation) {
			WriteJSONError(w, validation.Message, http.StatusBadRequest)
			return
		}
		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			WriteJSONError(w, "Webhook not found", http.StatusNotFound)
			return
		}
		h.logger.WithField("error", err.Error()).Error("Failed to update partner webhook")
		WriteJSONError(w, "Failed to update partner webhook", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"webhook": webhook,
	})
}

func (h *PartnerWebhookHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tenantID, ok := middleware.TenantFromContext(r.Context())
	if !ok {
		WriteJSONError(w, "Tenant not found in context", http.StatusUnauthorized)
		return
	}

	var req deletePartnerWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		WriteJSONError(w, "Missing webhook ID", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(r.Context(), tenantID, req.ID); err != nil {
		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			WriteJSONError(w, "Webhook not found", http.StatusNotFound)
			return
		}
		h.logger.WithField("error", err.Error()).Error("Failed to delete partner webhook")
		WriteJSONError(w, "Failed to delete partner webhook", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

func (h *PartnerWebhookHandler) handleToggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tenantID, ok := middleware.TenantFromContext(r.Context())
	if !ok {
		WriteJSONError(w, "Tenant not found in context", http.StatusUnauthorized)
		return
	}

	var req togglePartnerWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		WriteJSONError(w, "Missing webhook ID", http.StatusBadRequest)
		return
	}

	webhook, err := h.service.Toggle(r.Context(), tenantID, req.ID, req.Enabled)
	if err != nil {
		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			WriteJSONError(w, "Webhook not found", http.StatusNotFound)
			return
		}
		h.logger.WithField("error", err.Error()).Error("Failed to toggle partner webhook")
		WriteJSONError(w, "Failed to toggle partner webhook", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"webhook": webhook,
	})
}

// handleTest synchronously posts a signed test event to the endpoint. A
// failing endpoint is a 200 with the failure in the body; only lookup or
// infrastructure problems are HTTP errors.
func (h *PartnerWebhookHandler) handleTest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tenantID, ok := middleware.TenantFromContext(r.Context())
	if !ok {
		WriteJSONError(w, "Tenant not found in context", http.StatusUnauthorized)
		return
	}

	var req testPartnerWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		WriteJSONError(w, "Missing webhook ID", http.StatusBadRequest)
		return
	}

	result, err := h.service.SendTest(r.Context(), tenantID, req.ID)
	if err != nil {
		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			WriteJSONError(w, "Webhook not found", http.StatusNotFound)
			return
		}
		h.logger.WithField("error", err.Error()).Error("Failed to send test webhook")
		WriteJSONError(w, "Failed to send test webhook", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"result": result,
	})
}
