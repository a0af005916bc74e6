package domain

//go:generate mockgen -destination mocks/mock_delivery_queue_repository.go -package mocks github.com/Callhook/callhook/internal/domain DeliveryQueueRepository
//go:generate mockgen -destination mocks/mock_delivery_attempt_repository.go -package mocks github.com/Callhook/callhook/internal/domain DeliveryAttemptRepository
//go:generate mockgen -destination mocks/mock_delivery_service.go -package mocks github.com/Callhook/callhook/internal/domain DeliveryService

import (
	"context"
	"database/sql"
	"time"
)

// WebhookDelivery status values
const (
	DeliveryStatusPending    = "pending"
	DeliveryStatusInFlight   = "in_flight"
	DeliveryStatusDelivered  = "delivered"
	DeliveryStatusFailed     = "failed"
	DeliveryStatusDeadLetter = "dead_letter"
)

// WebhookDelivery is one row of the outbound delivery queue. The url and
// secret are frozen snapshots taken at enqueue time so a partner edit or
// secret rotation never invalidates in-flight signatures.
type WebhookDelivery struct {
	ID                 string     `json:"id"`
	TenantID           string     `json:"tenant_id"`
	PartnerWebhookID   *string    `json:"partner_webhook_id,omitempty"`
	URL                string     `json:"url"`
	Secret             string     `json:"-"`
	EventType          string     `json:"event_type"`
	Payload            MapOfAny   `json:"payload"`
	Status             string     `json:"status"`
	AttemptCount       int        `json:"attempt_count"`
	MaxAttempts        int        `json:"max_attempts"`
	NextRetryAt        time.Time  `json:"next_retry_at"`
	LastAttemptAt      *time.Time `json:"last_attempt_at,omitempty"`
	LastResponseStatus *int       `json:"last_response_status,omitempty"`
	LastError          *string    `json:"last_error,omitempty"`
	ClaimedBy          *string    `json:"claimed_by,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	ScheduledAt        time.Time  `json:"scheduled_at"`
	DeliveredAt        *time.Time `json:"delivered_at,omitempty"`
}

// IsTerminal reports whether the row reached an immutable state.
func (d *WebhookDelivery) IsTerminal() bool {
	return d.Status == DeliveryStatusDelivered || d.Status == DeliveryStatusDeadLetter
}

// DeliveryAttempt is one append-only audit row per physical HTTP attempt.
// Rows are never updated; retention cleanup is the only deletion path.
type DeliveryAttempt struct {
	ID               string    `json:"id"`
	DeliveryID       *string   `json:"delivery_id,omitempty"`
	TenantID         string    `json:"tenant_id"`
	AttemptNumber    int       `json:"attempt_number"`
	AttemptTimestamp time.Time `json:"attempt_timestamp"`
	TargetURL        string    `json:"target_url"`
	RequestHeaders   MapOfAny  `json:"request_headers,omitempty"`
	RequestBody      *string   `json:"request_body,omitempty"`
	ResponseStatus   *int      `json:"response_status,omitempty"`
	ResponseHeaders  MapOfAny  `json:"response_headers,omitempty"`
	ResponseBody     *string   `json:"response_body,omitempty"`
	ResponseTimeMs   int64     `json:"response_time_ms"`
	ErrorMessage     *string   `json:"error_message,omitempty"`
	NetworkError     bool      `json:"network_error"`
	Success          bool      `json:"success"`
}

// DeliveryListParams filters and paginates queue listings.
type DeliveryListParams struct {
	TenantID         string
	Status           string
	PartnerWebhookID string
	EventType        string
	Limit            int
	Offset           int
}

// QueueStats aggregates queue rows by status. OldestPendingAgeSeconds is the
// age of the oldest due row still waiting, zero when the queue is drained.
type QueueStats struct {
	Pending                 int64   `json:"pending"`
	InFlight                int64   `json:"in_flight"`
	Delivered               int64   `json:"delivered"`
	Failed                  int64   `json:"failed"`
	DeadLetter              int64   `json:"dead_letter"`
	OldestPendingAgeSeconds float64 `json:"oldest_pending_age_seconds"`
}

// DeliveryQueueRepository defines the interface for delivery queue data access.
//
// MarkDelivered, ScheduleRetry and MarkDeadLetter update the queue row and
// insert the audit row within one transaction; a nil attempt skips the audit
// insert (audit logging disabled).
type DeliveryQueueRepository interface {
	// Enqueue inserts a single row in state pending.
	Enqueue(ctx context.Context, delivery *WebhookDelivery) error

	// EnqueueTx batch-inserts rows as part of the ingestion transaction.
	EnqueueTx(ctx context.Context, tx *sql.Tx, deliveries []*WebhookDelivery) error

	// ClaimBatch atomically flips up to limit due rows to in_flight, stamps
	// claimed_by and last_attempt_at, and returns them oldest-due first.
	// Concurrent workers never receive the same row.
	ClaimBatch(ctx context.Context, workerID string, limit int) ([]*WebhookDelivery, error)

	// MarkDelivered finalizes a successful delivery.
	MarkDelivered(ctx context.Context, delivery *WebhookDelivery, responseStatus *int, attempt *DeliveryAttempt) error

	// ScheduleRetry records a retryable failure: status failed,
	// attempt_count+1, next_retry_at advanced per the retry policy.
	ScheduleRetry(ctx context.Context, delivery *WebhookDelivery, nextRetryAt time.Time, responseStatus *int, lastError string, attempt *DeliveryAttempt) error

	// MarkDeadLetter finalizes a delivery after a non-retryable failure or
	// attempt exhaustion.
	MarkDeadLetter(ctx context.Context, delivery *WebhookDelivery, responseStatus *int, lastError string, attempt *DeliveryAttempt) error

	// RequeueAbandoned returns in_flight rows whose last attempt is older
	// than the cutoff back to pending without touching attempt_count. Run by
	// every worker on startup to recover rows orphaned by a hard exit.
	RequeueAbandoned(ctx context.Context, olderThan time.Duration) (int64, error)

	GetByID(ctx context.Context, tenantID, id string) (*WebhookDelivery, error)
	List(ctx context.Context, params DeliveryListParams) ([]*WebhookDelivery, int, error)

	// CountPendingForTenant backs the enqueue soft-cap check.
	CountPendingForTenant(ctx context.Context, tenantID string) (int64, error)

	// CountDeadLettersSince backs the operator alert threshold.
	CountDeadLettersSince(ctx context.Context, tenantID string, since time.Time) (int64, error)

	// GetStats aggregates row counts by status. Empty tenantID means all
	// tenants (used for the worker gauges).
	GetStats(ctx context.Context, tenantID string) (*QueueStats, error)

	// DeleteOlderThan purges terminal rows older than the cutoff and
	// returns the number removed.
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// DeliveryAttemptRepository defines the interface for audit log data access
type DeliveryAttemptRepository interface {
	Create(ctx context.Context, attempt *DeliveryAttempt) error
	ListByDelivery(ctx context.Context, tenantID, deliveryID string) ([]*DeliveryAttempt, error)
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// DeliveryService defines enqueue fan-out and the management API operations
// on the delivery queue.
type DeliveryService interface {
	// EnqueueForAllPartners fans an event out to every enabled partner
	// webhook subscribed to eventType, inside the caller's transaction.
	// This is the sole place event filters and custom-field merges are
	// consulted; queued rows are immutable snapshots. Returns the number of
	// rows enqueued.
	EnqueueForAllPartners(ctx context.Context, tx *sql.Tx, tenantID, eventType string, payload MapOfAny) (int, error)

	List(ctx context.Context, params DeliveryListParams) ([]*WebhookDelivery, int, error)
	Get(ctx context.Context, tenantID, id string) (*WebhookDelivery, error)
	Attempts(ctx context.Context, tenantID, deliveryID string) ([]*DeliveryAttempt, error)

	// Replay clones a dead-lettered delivery into a fresh pending row with
	// the same frozen snapshot. The original row stays immutable.
	Replay(ctx context.Context, tenantID, id string) (*WebhookDelivery, error)

	Stats(ctx context.Context, tenantID string) (*QueueStats, error)
}
