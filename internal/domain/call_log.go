package domain

//go:generate mockgen -destination mocks/mock_call_log_repository.go -package mocks github.com/Callhook/callhook/internal/domain CallLogRepository

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// CallDirection values
const (
	CallDirectionInbound  = "inbound"
	CallDirectionOutbound = "outbound"
)

// CallStatus values
const (
	CallStatusActive = "active"
	CallStatusEnded  = "ended"
)

// CallOutcome values
const (
	CallOutcomeCompleted = "completed"
	CallOutcomeNoAnswer  = "no_answer"
	CallOutcomeBusy      = "busy"
	CallOutcomeFailed    = "failed"
	CallOutcomeVoicemail = "voicemail"
	CallOutcomeUnknown   = "unknown"
)

// CallLog is the row-of-record for a single call. It is created in state
// "active" by the call-setup path and transitions exactly once to "ended"
// when the ingestion flow classifies its outcome.
type CallLog struct {
	ID              string     `json:"id"`
	TenantID        string     `json:"tenant_id"`
	AgentID         *string    `json:"agent_id,omitempty"`
	RoomName        string     `json:"room_name"`
	RoomSID         *string    `json:"room_sid,omitempty"`
	Direction       string     `json:"direction"`
	PhoneNumber     string     `json:"phone_number"`
	Status          string     `json:"status"`
	Outcome         *string    `json:"outcome,omitempty"`
	DurationSeconds *int       `json:"duration_seconds,omitempty"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	RecordingURL    *string    `json:"recording_url,omitempty"`
	Metadata        MapOfAny   `json:"metadata,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// CallCompletion carries the fields written when a call transitions to ended.
type CallCompletion struct {
	Outcome         string
	DurationSeconds int
	EndedAt         time.Time
	RecordingURL    *string

	// MetadataPatch is merged into the existing metadata JSON. Used for
	// disconnect_reason and participant_sid from the upstream event.
	MetadataPatch MapOfAny
}

// ClassifyOutcome derives a call outcome from the upstream disconnect reason
// and the duration between room creation and the event. Reason keywords
// dominate duration buckets, so a BUSY disconnect at 45s still counts as
// busy. durationKnown is false when the upstream payload lacked a room
// creation time, in which case classification falls back to no_answer.
func ClassifyOutcome(disconnectReason string, durationSeconds int, durationKnown bool) string {
	reason := strings.ToLower(disconnectReason)

	switch {
	case strings.Contains(reason, "busy"):
		return CallOutcomeBusy
	case strings.Contains(reason, "no_answer") || strings.Contains(reason, "no answer"):
		return CallOutcomeNoAnswer
	case strings.Contains(reason, "failed") || strings.Contains(reason, "error"):
		return CallOutcomeFailed
	case !durationKnown:
		return CallOutcomeNoAnswer
	case durationSeconds < 3:
		return CallOutcomeFailed
	case durationSeconds < 10:
		return CallOutcomeNoAnswer
	default:
		return CallOutcomeCompleted
	}
}

// CallLogRepository defines the interface for call log data access
type CallLogRepository interface {
	// Create inserts a new call log in state active.
	Create(ctx context.Context, call *CallLog) error

	// GetByID retrieves a call log scoped to a tenant.
	GetByID(ctx context.Context, tenantID, id string) (*CallLog, error)

	// GetByRoomTx resolves the call context for an upstream event within the
	// ingestion transaction. It prefers room_sid when non-empty and falls
	// back to room_name. Returns *ErrNotFound when no row matches.
	GetByRoomTx(ctx context.Context, tx *sql.Tx, roomSID, roomName string) (*CallLog, error)

	// CompleteTx transitions the call to ended within the ingestion
	// transaction. Returns *ErrNotFound if the row vanished between lookup
	// and update.
	CompleteTx(ctx context.Context, tx *sql.Tx, tenantID, id string, completion CallCompletion) error

	// UpdateRecordingURLTx backfills a recording URL within the ingestion
	// transaction, so the backfill commits together with its fan-out.
	UpdateRecordingURLTx(ctx context.Context, tx *sql.Tx, tenantID, id, recordingURL string) error
}
