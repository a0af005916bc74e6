package domain

//go:generate mockgen -destination mocks/mock_upstream_call_event_repository.go -package mocks github.com/Callhook/callhook/internal/domain UpstreamCallEventRepository

import (
	"context"
	"database/sql"
	"time"
)

// Upstream event types this service processes. Anything else is
// acknowledged and dropped.
const (
	UpstreamEventParticipantLeft = "participant_left"
	UpstreamEventRoomFinished    = "room_finished"
	UpstreamEventEgressEnded     = "egress_ended"
)

// ProcessableUpstreamEvents is the set of upstream event types that result
// in database writes.
var ProcessableUpstreamEvents = map[string]bool{
	UpstreamEventParticipantLeft: true,
	UpstreamEventRoomFinished:    true,
	UpstreamEventEgressEnded:     true,
}

// UpstreamCallEvent is one processed upstream webhook event. The upstream
// event_id carries a global unique constraint which serves as the
// idempotency key: redelivery of the same event never produces a second row.
type UpstreamCallEvent struct {
	ID                  string     `json:"id"`
	TenantID            string     `json:"tenant_id"`
	CallLogID           *string    `json:"call_log_id,omitempty"`
	EventID             string     `json:"event_id"`
	EventType           string     `json:"event_type"`
	RoomName            string     `json:"room_name"`
	RoomSID             string     `json:"room_sid,omitempty"`
	ParticipantIdentity *string    `json:"participant_identity,omitempty"`
	ParticipantSID      *string    `json:"participant_sid,omitempty"`
	EventTimestamp      int64      `json:"event_timestamp"`
	Payload             MapOfAny   `json:"payload"`
	Processed           bool       `json:"processed"`
	ProcessedAt         *time.Time `json:"processed_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

// UpstreamCallEventRepository defines the interface for upstream event data access
type UpstreamCallEventRepository interface {
	// CreateTx inserts the event row inside the ingestion transaction. The
	// caller wraps it in a savepoint and inspects the returned error with
	// IsDuplicateKeyError to detect redelivery.
	CreateTx(ctx context.Context, tx *sql.Tx, event *UpstreamCallEvent) error

	// GetByEventID retrieves an event by its upstream identifier.
	GetByEventID(ctx context.Context, eventID string) (*UpstreamCallEvent, error)

	// ListByCallLog returns the events recorded against a call log.
	ListByCallLog(ctx context.Context, tenantID, callLogID string) ([]*UpstreamCallEvent, error)
}
