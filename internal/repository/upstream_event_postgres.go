package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Callhook/callhook/internal/domain"
	"github.com/google/uuid"
)

// UpstreamCallEventRepository implements domain.UpstreamCallEventRepository for PostgreSQL
type UpstreamCallEventRepository struct {
	db *sql.DB
}

// NewUpstreamCallEventRepository creates a new UpstreamCallEventRepository
func NewUpstreamCallEventRepository(db *sql.DB) domain.UpstreamCallEventRepository {
	return &UpstreamCallEventRepository{
		db: db,
	}
}

const upstreamEventColumns = `id, tenant_id, call_log_id, event_id, event_type, room_name, room_sid,
	       participant_identity, participant_sid, event_timestamp, payload,
	       processed, processed_at, created_at`

// CreateTx inserts the event row inside the ingestion transaction. The
// event_id unique constraint makes this the idempotency gate: the error is
// returned raw so the caller can check it with domain.IsDuplicateKeyError.
func (r *UpstreamCallEventRepository) CreateTx(ctx context.Context, tx *sql.Tx, event *domain.UpstreamCallEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	event.CreatedAt = time.Now().UTC()

	payloadJSON, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal raw payload: %w", err)
	}

	query := `
		INSERT INTO upstream_call_events (
			id, tenant_id, call_log_id, event_id, event_type, room_name, room_sid,
			participant_identity, participant_sid, event_timestamp, payload,
			processed, processed_at, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)
	`

	_, err = tx.ExecContext(ctx, query,
		event.ID,
		event.TenantID,
		event.CallLogID,
		event.EventID,
		event.EventType,
		event.RoomName,
		event.RoomSID,
		event.ParticipantIdentity,
		event.ParticipantSID,
		event.EventTimestamp,
		payloadJSON,
		event.Processed,
		event.ProcessedAt,
		event.CreatedAt,
	)
	return err
}

// GetByEventID retrieves an event by its upstream identifier
func (r *UpstreamCallEventRepository) GetByEventID(ctx context.Context, eventID string) (*domain.UpstreamCallEvent, error) {
	query := `
		SELECT ` + upstreamEventColumns + `
		FROM upstream_call_events
		WHERE event_id = $1
	`

	event, err := scanUpstreamCallEvent(r.db.QueryRowContext(ctx, query, eventID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &domain.ErrNotFound{Entity: "upstream event", ID: eventID}
		}
		return nil, fmt.Errorf("failed to get upstream event: %w", err)
	}

	return event, nil
}

// ListByCallLog returns the events recorded against a call log
func (r *UpstreamCallEventRepository) ListByCallLog(ctx context.Context, tenantID, callLogID string) ([]*domain.UpstreamCallEvent, error) {
	query := `
		SELECT ` + upstreamEventColumns + `
		FROM upstream_call_events
		WHERE tenant_id = $1 AND call_log_id = $2
		ORDER BY event_timestamp ASC
	`

	rows, err := r.db.QueryContext(ctx, query, tenantID, callLogID)
	if err != nil {
		return nil, fmt.Errorf("failed to list upstream events: %w", err)
	}
	defer rows.Close()

	var events []*domain.UpstreamCallEvent
	for rows.Next() {
		event, err := scanUpstreamCallEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan upstream event: %w", err)
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

// scanUpstreamCallEvent scans a row into an UpstreamCallEvent
func scanUpstreamCallEvent(row scanner) (*domain.UpstreamCallEvent, error) {
	var event domain.UpstreamCallEvent
	var callLogID, participantIdentity, participantSID sql.NullString
	var processedAt sql.NullTime
	var payloadJSON []byte

	err := row.Scan(
		&event.ID, &event.TenantID, &callLogID, &event.EventID, &event.EventType,
		&event.RoomName, &event.RoomSID, &participantIdentity, &participantSID,
		&event.EventTimestamp, &payloadJSON, &event.Processed, &processedAt,
		&event.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if callLogID.Valid {
		event.CallLogID = &callLogID.String
	}
	if participantIdentity.Valid {
		event.ParticipantIdentity = &participantIdentity.String
	}
	if participantSID.Valid {
		event.ParticipantSID = &participantSID.String
	}
	if processedAt.Valid {
		event.ProcessedAt = &processedAt.Time
	}

	if len(payloadJSON) > 0 {
		if err := json.Unmarshal(payloadJSON, &event.Payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal raw payload: %w", err)
		}
	}

	return &event, nil
}
