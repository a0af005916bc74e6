package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Callhook/callhook/internal/domain"
	"github.com/google/uuid"
)

// DeliveryAttemptRepository implements domain.DeliveryAttemptRepository for PostgreSQL
type DeliveryAttemptRepository struct {
	db *sql.DB
}

// NewDeliveryAttemptRepository creates a new DeliveryAttemptRepository
func NewDeliveryAttemptRepository(db *sql.DB) domain.DeliveryAttemptRepository {
	return &DeliveryAttemptRepository{
		db: db,
	}
}

// execer is satisfied by *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// insertDeliveryAttempt writes one audit row. Shared with the queue
// repository so result recording can bundle the insert into its transaction.
func insertDeliveryAttempt(ctx context.Context, e execer, attempt *domain.DeliveryAttempt) error {
	if attempt.ID == "" {
		attempt.ID = uuid.New().String()
	}
	if attempt.AttemptTimestamp.IsZero() {
		attempt.AttemptTimestamp = time.Now().UTC()
	}

	query := `
		INSERT INTO delivery_attempt_logs (
			id, delivery_id, tenant_id, attempt_number, attempt_timestamp,
			url, request_headers, request_body, response_status,
			response_headers, response_body, response_time_ms, error_message,
			network_error, success
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		)
	`

	_, err := e.ExecContext(ctx, query,
		attempt.ID,
		attempt.DeliveryID,
		attempt.TenantID,
		attempt.AttemptNumber,
		attempt.AttemptTimestamp,
		attempt.TargetURL,
		attempt.RequestHeaders,
		attempt.RequestBody,
		attempt.ResponseStatus,
		attempt.ResponseHeaders,
		attempt.ResponseBody,
		attempt.ResponseTimeMs,
		attempt.ErrorMessage,
		attempt.NetworkError,
		attempt.Success,
	)
	if err != nil {
		return fmt.Errorf("failed to insert delivery attempt: %w", err)
	}

	return nil
}

// Create writes one audit row outside any queue transaction
func (r *DeliveryAttemptRepository) Create(ctx context.Context, attempt *domain.DeliveryAttempt) error {
	return insertDeliveryAttempt(ctx, r.db, attempt)
}

// ListByDelivery returns the audit rows for a delivery, oldest first
func (r *DeliveryAttemptRepository) ListByDelivery(ctx context.Context, tenantID, deliveryID string) ([]*domain.DeliveryAttempt, error) {
	query := `
		SELECT id, delivery_id, tenant_id, attempt_number, attempt_timestamp,
		       url, request_headers, request_body, response_status,
		       response_headers, response_body, response_time_ms, error_message,
		       network_error, success
		FROM delivery_attempt_logs
		WHERE tenant_id = $1 AND delivery_id = $2
		ORDER BY attempt_number ASC
	`

	rows, err := r.db.QueryContext(ctx, query, tenantID, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list delivery attempts: %w", err)
	}
	defer rows.Close()

	var attempts []*domain.DeliveryAttempt
	for rows.Next() {
		attempt, err := scanDeliveryAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan delivery attempt: %w", err)
		}
		attempts = append(attempts, attempt)
	}

	return attempts, rows.Err()
}

// DeleteOlderThan purges audit rows older than the retention cutoff
func (r *DeliveryAttemptRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM delivery_attempt_logs WHERE attempt_timestamp < $1`

	result, err := r.db.ExecContext(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old delivery attempts: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// scanDeliveryAttempt scans a row into a DeliveryAttempt
func scanDeliveryAttempt(row scanner) (*domain.DeliveryAttempt, error) {
	var attempt domain.DeliveryAttempt
	var deliveryID, requestBody, responseBody, errorMessage sql.NullString
	var responseStatus sql.NullInt64

	err := row.Scan(
		&attempt.ID, &deliveryID, &attempt.TenantID, &attempt.AttemptNumber,
		&attempt.AttemptTimestamp, &attempt.TargetURL, &attempt.RequestHeaders,
		&requestBody, &responseStatus, &attempt.ResponseHeaders, &responseBody,
		&attempt.ResponseTimeMs, &errorMessage, &attempt.NetworkError,
		&attempt.Success,
	)
	if err != nil {
		return nil, err
	}

	if deliveryID.Valid {
		attempt.DeliveryID = &deliveryID.String
	}
	if requestBody.Valid {
		attempt.RequestBody = &requestBody.String
	}
	if responseStatus.Valid {
		status := int(responseStatus.Int64)
		attempt.ResponseStatus = &status
	}
	if responseBody.Valid {
		attempt.ResponseBody = &responseBody.String
	}
	if errorMessage.Valid {
		attempt.ErrorMessage = &errorMessage.String
	}

	return &attempt, nil
}
