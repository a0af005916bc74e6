package domain

//go:generate mockgen -destination mocks/mock_partner_webhook_repository.go -package mocks github.com/Callhook/callhook/internal/domain PartnerWebhookRepository
//go:generate mockgen -destination mocks/mock_partner_webhook_service.go -package mocks github.com/Callhook/callhook/internal/domain PartnerWebhookService

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/asaskevich/govalidator"
)

// Outbound event types partners can subscribe to
const (
	EventCallCompleted      = "call.completed"
	EventCallRecordingReady = "call.recording_ready"
	EventWebhookTest        = "webhook.test"
)

// PartnerEventTypes lists every outbound event type a partner may enable.
var PartnerEventTypes = []string{
	EventCallCompleted,
	EventCallRecordingReady,
	EventWebhookTest,
}

var slugRegexp = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// PartnerWebhook is a tenant-configured delivery target for outbound
// webhooks. The queue snapshots url and secret at enqueue time, so edits
// here never mutate in-flight deliveries.
type PartnerWebhook struct {
	ID                  string      `json:"id"`
	TenantID            string      `json:"tenant_id"`
	Name                string      `json:"name"`
	Slug                string      `json:"slug"`
	URL                 string      `json:"url"`
	Secret              string      `json:"secret,omitempty"`
	EnabledEvents       StringSlice `json:"enabled_events"`
	CustomPayloadFields MapOfAny    `json:"custom_payload_fields,omitempty"`
	Enabled             bool        `json:"enabled"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

// Validate checks the webhook configuration before create or update.
func (w *PartnerWebhook) Validate() error {
	if w.TenantID == "" {
		return NewValidationError("tenant_id is required")
	}
	if w.Name == "" {
		return NewValidationError("name is required")
	}
	if w.Slug == "" {
		return NewValidationError("slug is required")
	}
	if !slugRegexp.MatchString(w.Slug) {
		return NewValidationError("slug must contain only lowercase letters, digits and hyphens")
	}
	if w.URL == "" {
		return NewValidationError("url is required")
	}
	if !govalidator.IsRequestURL(w.URL) {
		return NewValidationError(fmt.Sprintf("invalid url: %s", w.URL))
	}
	if w.Secret == "" {
		return NewValidationError("secret is required")
	}
	if len(w.EnabledEvents) == 0 {
		return NewValidationError("enabled_events must not be empty")
	}
	for _, eventType := range w.EnabledEvents {
		if !isKnownEventType(eventType) {
			return NewValidationError(fmt.Sprintf("unknown event type: %s", eventType))
		}
	}
	return nil
}

func isKnownEventType(eventType string) bool {
	for _, known := range PartnerEventTypes {
		if known == eventType {
			return true
		}
	}
	return false
}

// WantsEvent reports whether the partner should receive the given event
// type. Disabled partners never receive events.
func (w *PartnerWebhook) WantsEvent(eventType string) bool {
	return w.Enabled && w.EnabledEvents.Contains(eventType)
}

// CreatePartnerWebhookRequest is the payload for partnerWebhooks.create
type CreatePartnerWebhookRequest struct {
	Name                string      `json:"name"`
	Slug                string      `json:"slug"`
	URL                 string      `json:"url"`
	Secret              string      `json:"secret"`
	EnabledEvents       StringSlice `json:"enabled_events"`
	CustomPayloadFields MapOfAny    `json:"custom_payload_fields,omitempty"`
	Enabled             *bool       `json:"enabled,omitempty"`
}

// UpdatePartnerWebhookRequest is the payload for partnerWebhooks.update.
// Nil pointer fields are left unchanged.
type UpdatePartnerWebhookRequest struct {
	ID                  string       `json:"id"`
	Name                *string      `json:"name,omitempty"`
	Slug                *string      `json:"slug,omitempty"`
	URL                 *string      `json:"url,omitempty"`
	Secret              *string      `json:"secret,omitempty"`
	EnabledEvents       *StringSlice `json:"enabled_events,omitempty"`
	CustomPayloadFields *MapOfAny    `json:"custom_payload_fields,omitempty"`
	Enabled             *bool        `json:"enabled,omitempty"`
}

// PartnerWebhookRepository defines the interface for partner webhook data access
type PartnerWebhookRepository interface {
	Create(ctx context.Context, webhook *PartnerWebhook) error
	GetByID(ctx context.Context, tenantID, id string) (*PartnerWebhook, error)
	GetBySlug(ctx context.Context, tenantID, slug string) (*PartnerWebhook, error)
	List(ctx context.Context, tenantID string) ([]*PartnerWebhook, error)

	// ListEnabledForEvent returns enabled webhooks subscribed to eventType.
	// Used by the enqueue fan-out, which is the only place event filters
	// and custom-field merges are consulted.
	ListEnabledForEvent(ctx context.Context, tenantID, eventType string) ([]*PartnerWebhook, error)

	Update(ctx context.Context, webhook *PartnerWebhook) error

	// Delete removes the webhook and cascades to its queued deliveries.
	Delete(ctx context.Context, tenantID, id string) error

	SetEnabled(ctx context.Context, tenantID, id string, enabled bool) error
}

// PartnerWebhookService defines the management operations on partner webhooks
type PartnerWebhookService interface {
	Create(ctx context.Context, tenantID string, req *CreatePartnerWebhookRequest) (*PartnerWebhook, error)
	Get(ctx context.Context, tenantID, id string) (*PartnerWebhook, error)
	List(ctx context.Context, tenantID string) ([]*PartnerWebhook, error)
	Update(ctx context.Context, tenantID string, req *UpdatePartnerWebhookRequest) (*PartnerWebhook, error)
	Delete(ctx context.Context, tenantID, id string) error
	Toggle(ctx context.Context, tenantID, id string, enabled bool) (*PartnerWebhook, error)

	// SendTest synchronously posts a signed test event to the webhook URL
	// and reports the response without touching the queue.
	SendTest(ctx context.Context, tenantID, id string) (*TestWebhookResult, error)
}

// TestWebhookResult reports the outcome of a synchronous test delivery.
type TestWebhookResult struct {
	Success        bool   `json:"success"`
	ResponseStatus int    `json:"response_status,omitempty"`
	ResponseBody   string `json:"response_body,omitempty"`
	Error          string `json:"error,omitempty"`
	LatencyMs      int64  `json:"latency_ms"`
}
