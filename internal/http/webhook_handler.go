package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/Callhook/callhook/internal/domain"
	"github.com/Callhook/callhook/internal/http/middleware"
	"github.com/Callhook/callhook/pkg/logger"
)

// SignatureHeader carries the upstream raw-body HMAC signature.
const SignatureHeader = "X-Signature"

// UpstreamWebhookHandler receives call events from the upstream media
// platform. The endpoint is public; authentication is the HMAC signature
// verified by the ingest service.
type UpstreamWebhookHandler struct {
	service   domain.IngestService
	rateLimit *middleware.RateLimitMiddleware
	logger    logger.Logger
}

// NewUpstreamWebhookHandler creates a new upstream webhook handler
func NewUpstreamWebhookHandler(service domain.IngestService, rateLimit *middleware.RateLimitMiddleware, logger logger.Logger) *UpstreamWebhookHandler {
	return &UpstreamWebhookHandler{
		service:   service,
		rateLimit: rateLimit,
		logger:    logger,
	}
}

// RegisterRoutes registers the upstream webhook HTTP endpoints
func (h *UpstreamWebhookHandler) RegisterRoutes(mux *http.ServeMux) {
	limit := h.rateLimit.Limit("webhooks")
	mux.Handle("/webhooks/call_completed", limit(http.HandlerFunc(h.handleCallCompleted)))
}

// handleCallCompleted ingests one upstream event. Every acknowledged outcome
// (processed, ignored, duplicate, no call context) is a 200 so the upstream
// only retries on real failures.
func (h *UpstreamWebhookHandler) handleCallCompleted(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rawBody, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.WithField("error", err.Error()).Error("Failed to read webhook request body")
		WriteJSONError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.ProcessUpstreamWebhook(r.Context(), rawBody, r.Header.Get(SignatureHeader))
	if err != nil {
		var unauthorized *domain.ErrUnauthorized
		if errors.As(err, &unauthorized) {
			WriteJSONError(w, unauthorized.Message, http.StatusUnauthorized)
			return
		}

		var validation domain.ValidationError
		if errors.As(err, &validation) {
			WriteJSONError(w, validation.Message, http.StatusBadRequest)
			return
		}

		h.logger.WithField("error", err.Error()).Error("Failed to process upstream webhook")
		WriteJSONError(w, "Failed to process webhook", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
