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

// CallLogRepository implements domain.CallLogRepository for PostgreSQL
type CallLogRepository struct {
	db *sql.DB
}

// NewCallLogRepository creates a new CallLogRepository
func NewCallLogRepository(db *sql.DB) domain.CallLogRepository {
	return &CallLogRepository{
		db: db,
	}
}

const callLogColumns = `id, tenant_id, agent_id, room_name, room_sid, direction, phone_number,
	       status, outcome, duration_seconds, started_at, ended_at, recording_url,
	       metadata, created_at, updated_at`

// Create inserts a new call log in state active
func (r *CallLogRepository) Create(ctx context.Context, call *domain.CallLog) error {
	if call.ID == "" {
		call.ID = uuid.New().String()
	}
	if call.Status == "" {
		call.Status = domain.CallStatusActive
	}

	now := time.Now().UTC()
	call.CreatedAt = now
	call.UpdatedAt = now
	if call.StartedAt.IsZero() {
		call.StartedAt = now
	}

	metadataJSON, err := json.Marshal(call.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := `
		INSERT INTO call_logs (
			id, tenant_id, agent_id, room_name, room_sid, direction, phone_number,
			status, outcome, duration_seconds, started_at, ended_at, recording_url,
			metadata, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16
		)
	`

	_, err = r.db.ExecContext(ctx, query,
		call.ID,
		call.TenantID,
		call.AgentID,
		call.RoomName,
		call.RoomSID,
		call.Direction,
		call.PhoneNumber,
		call.Status,
		call.Outcome,
		call.DurationSeconds,
		call.StartedAt,
		call.EndedAt,
		call.RecordingURL,
		metadataJSON,
		call.CreatedAt,
		call.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create call log: %w", err)
	}

	return nil
}

// GetByID retrieves a call log scoped to a tenant
func (r *CallLogRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.CallLog, error) {
	query := `
		SELECT ` + callLogColumns + `
		FROM call_logs
		WHERE tenant_id = $1 AND id = $2
	`

	row := r.db.QueryRowContext(ctx, query, tenantID, id)
	call, err := scanCallLog(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &domain.ErrNotFound{Entity: "call log", ID: id}
		}
		return nil, fmt.Errorf("failed to get call log: %w", err)
	}

	return call, nil
}

// GetByRoomTx resolves the call context for an upstream event within the
// ingestion transaction. room_sid is authoritative when the event carries
// one; room_name covers events emitted before the SID was recorded.
func (r *CallLogRepository) GetByRoomTx(ctx context.Context, tx *sql.Tx, roomSID, roomName string) (*domain.CallLog, error) {
	if roomSID != "" {
		query := `
			SELECT ` + callLogColumns + `
			FROM call_logs
			WHERE room_sid = $1
			ORDER BY created_at DESC
			LIMIT 1
		`
		call, err := scanCallLog(tx.QueryRowContext(ctx, query, roomSID))
		if err == nil {
			return call, nil
		}
		if err != sql.ErrNoRows {
			return nil, fmt.Errorf("failed to get call log by room sid: %w", err)
		}
	}

	if roomName == "" {
		return nil, &domain.ErrNotFound{Entity: "call log", ID: roomSID}
	}

	query := `
		SELECT ` + callLogColumns + `
		FROM call_logs
		WHERE room_name = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	call, err := scanCallLog(tx.QueryRowContext(ctx, query, roomName))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &domain.ErrNotFound{Entity: "call log", ID: roomName}
		}
		return nil, fmt.Errorf("failed to get call log by room name: %w", err)
	}

	return call, nil
}

// CompleteTx transitions the call to ended within the ingestion transaction.
// The metadata patch is merged over the existing JSON so call-setup fields
// survive the update.
func (r *CallLogRepository) CompleteTx(ctx context.Context, tx *sql.Tx, tenantID, id string, completion domain.CallCompletion) error {
	patchJSON, err := json.Marshal(completion.MetadataPatch)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata patch: %w", err)
	}

	query := `
		UPDATE call_logs
		SET status = $3,
		    outcome = $4,
		    duration_seconds = $5,
		    ended_at = $6,
		    recording_url = COALESCE($7, recording_url),
		    metadata = COALESCE(metadata, '{}'::jsonb) || $8::jsonb,
		    updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2
	`

	result, err := tx.ExecContext(ctx, query,
		tenantID,
		id,
		domain.CallStatusEnded,
		completion.Outcome,
		completion.DurationSeconds,
		completion.EndedAt,
		completion.RecordingURL,
		patchJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to complete call log: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return &domain.ErrNotFound{Entity: "call log", ID: id}
	}

	return nil
}

// UpdateRecordingURLTx backfills a recording URL on an ended call
func (r *CallLogRepository) UpdateRecordingURLTx(ctx context.Context, tx *sql.Tx, tenantID, id, recordingURL string) error {
	query := `
		UPDATE call_logs
		SET recording_url = $3, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2
	`

	result, err := tx.ExecContext(ctx, query, tenantID, id, recordingURL)
	if err != nil {
		return fmt.Errorf("failed to update recording url: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return &domain.ErrNotFound{Entity: "call log", ID: id}
	}

	return nil
}

// scanner abstracts sql.Row and sql.Rows for the scan helpers
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanCallLog scans a row into a CallLog
func scanCallLog(row scanner) (*domain.CallLog, error) {
	var call domain.CallLog
	var agentID, roomSID, outcome, recordingURL sql.NullString
	var durationSeconds sql.NullInt64
	var endedAt sql.NullTime
	var metadataJSON []byte

	err := row.Scan(
		&call.ID, &call.TenantID, &agentID, &call.RoomName, &roomSID,
		&call.Direction, &call.PhoneNumber, &call.Status, &outcome,
		&durationSeconds, &call.StartedAt, &endedAt, &recordingURL,
		&metadataJSON, &call.CreatedAt, &call.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if agentID.Valid {
		call.AgentID = &agentID.String
	}
	if roomSID.Valid {
		call.RoomSID = &roomSID.String
	}
	if outcome.Valid {
		call.Outcome = &outcome.String
	}
	if recordingURL.Valid {
		call.RecordingURL = &recordingURL.String
	}
	if durationSeconds.Valid {
		duration := int(durationSeconds.Int64)
		call.DurationSeconds = &duration
	}
	if endedAt.Valid {
		call.EndedAt = &endedAt.Time
	}

	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &call.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	return &call, nil
}
