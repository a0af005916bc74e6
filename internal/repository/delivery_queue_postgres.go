package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/Callhook/callhook/internal/domain"
	"github.com/google/uuid"
)

// psql is a Squirrel StatementBuilder configured for PostgreSQL
var deliveryPsql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var deliveryColumns = []string{
	"id", "tenant_id", "partner_webhook_id", "url", "secret", "event_type",
	"payload", "status", "attempt_count", "max_attempts", "next_retry_at",
	"last_attempt_at", "last_response_status", "last_error", "claimed_by",
	"created_at", "scheduled_at", "delivered_at",
}

const deliveryColumnList = `id, tenant_id, partner_webhook_id, url, secret, event_type,
	       payload, status, attempt_count, max_attempts, next_retry_at,
	       last_attempt_at, last_response_status, last_error, claimed_by,
	       created_at, scheduled_at, delivered_at`

// DeliveryQueueRepository implements domain.DeliveryQueueRepository for PostgreSQL
type DeliveryQueueRepository struct {
	db *sql.DB
}

// NewDeliveryQueueRepository creates a new DeliveryQueueRepository
func NewDeliveryQueueRepository(db *sql.DB) domain.DeliveryQueueRepository {
	return &DeliveryQueueRepository{
		db: db,
	}
}

// Enqueue inserts a single delivery in state pending
func (r *DeliveryQueueRepository) Enqueue(ctx context.Context, delivery *domain.WebhookDelivery) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := r.EnqueueTx(ctx, tx, []*domain.WebhookDelivery{delivery}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// EnqueueTx batch-inserts deliveries as part of the ingestion transaction
func (r *DeliveryQueueRepository) EnqueueTx(ctx context.Context, tx *sql.Tx, deliveries []*domain.WebhookDelivery) error {
	if len(deliveries) == 0 {
		return nil
	}

	now := time.Now().UTC()

	insertBuilder := deliveryPsql.
		Insert("webhook_delivery_queue").
		Columns(
			"id", "tenant_id", "partner_webhook_id", "url", "secret",
			"event_type", "payload", "status", "attempt_count", "max_attempts",
			"next_retry_at", "created_at", "scheduled_at",
		)

	for _, delivery := range deliveries {
		if delivery.ID == "" {
			delivery.ID = uuid.New().String()
		}
		if delivery.Status == "" {
			delivery.Status = domain.DeliveryStatusPending
		}
		if delivery.MaxAttempts == 0 {
			delivery.MaxAttempts = 5
		}

		delivery.CreatedAt = now
		delivery.ScheduledAt = now
		if delivery.NextRetryAt.IsZero() {
			delivery.NextRetryAt = now
		}

		insertBuilder = insertBuilder.Values(
			delivery.ID, delivery.TenantID, delivery.PartnerWebhookID,
			delivery.URL, delivery.Secret, delivery.EventType, delivery.Payload,
			delivery.Status, delivery.AttemptCount, delivery.MaxAttempts,
			delivery.NextRetryAt, delivery.CreatedAt, delivery.ScheduledAt,
		)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	_, err = tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert deliveries: %w", err)
	}

	return nil
}

// ClaimBatch atomically flips up to limit due rows to in_flight and returns
// them oldest-due first. FOR UPDATE SKIP LOCKED keeps concurrent workers from
// claiming the same row; the inner select re-checks eligibility under lock.
func (r *DeliveryQueueRepository) ClaimBatch(ctx context.Context, workerID string, limit int) ([]*domain.WebhookDelivery, error) {
	query := `
		UPDATE webhook_delivery_queue
		SET status = 'in_flight', claimed_by = $1, last_attempt_at = NOW()
		WHERE id IN (
			SELECT id
			FROM webhook_delivery_queue
			WHERE status IN ('pending', 'failed')
			  AND attempt_count < max_attempts
			  AND next_retry_at <= NOW()
			ORDER BY next_retry_at ASC
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + deliveryColumnList + `
	`

	rows, err := r.db.QueryContext(ctx, query, workerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to claim deliveries: %w", err)
	}
	defer rows.Close()

	var deliveries []*domain.WebhookDelivery
	for rows.Next() {
		delivery, err := scanWebhookDelivery(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan claimed delivery: %w", err)
		}
		deliveries = append(deliveries, delivery)
	}

	return deliveries, rows.Err()
}

// MarkDelivered finalizes a successful delivery and records the audit row in
// the same transaction.
func (r *DeliveryQueueRepository) MarkDelivered(ctx context.Context, delivery *domain.WebhookDelivery, responseStatus *int, attempt *domain.DeliveryAttempt) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE webhook_delivery_queue
		SET status = 'delivered',
		    attempt_count = attempt_count + 1,
		    last_attempt_at = NOW(),
		    last_response_status = $2,
		    last_error = NULL,
		    delivered_at = NOW()
		WHERE id = $1
	`

	if _, err := tx.ExecContext(ctx, query, delivery.ID, responseStatus); err != nil {
		return fmt.Errorf("failed to mark delivery as delivered: %w", err)
	}

	if attempt != nil {
		if err := insertDeliveryAttempt(ctx, tx, attempt); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ScheduleRetry records a retryable failure. The row goes to status failed
// with next_retry_at advanced per the retry policy; it becomes claimable
// again once the backoff elapses.
func (r *DeliveryQueueRepository) ScheduleRetry(ctx context.Context, delivery *domain.WebhookDelivery, nextRetryAt time.Time, responseStatus *int, lastError string, attempt *domain.DeliveryAttempt) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE webhook_delivery_queue
		SET status = 'failed',
		    attempt_count = attempt_count + 1,
		    last_attempt_at = NOW(),
		    last_response_status = $2,
		    last_error = $3,
		    next_retry_at = $4,
		    claimed_by = NULL
		WHERE id = $1
	`

	if _, err := tx.ExecContext(ctx, query, delivery.ID, responseStatus, lastError, nextRetryAt); err != nil {
		return fmt.Errorf("failed to schedule retry: %w", err)
	}

	if attempt != nil {
		if err := insertDeliveryAttempt(ctx, tx, attempt); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// MarkDeadLetter finalizes a delivery after a non-retryable failure or
// attempt exhaustion.
func (r *DeliveryQueueRepository) MarkDeadLetter(ctx context.Context, delivery *domain.WebhookDelivery, responseStatus *int, lastError string, attempt *domain.DeliveryAttempt) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE webhook_delivery_queue
		SET status = 'dead_letter',
		    attempt_count = attempt_count + 1,
		    last_attempt_at = NOW(),
		    last_response_status = $2,
		    last_error = $3,
		    claimed_by = NULL
		WHERE id = $1
	`

	if _, err := tx.ExecContext(ctx, query, delivery.ID, responseStatus, lastError); err != nil {
		return fmt.Errorf("failed to mark delivery as dead letter: %w", err)
	}

	if attempt != nil {
		if err := insertDeliveryAttempt(ctx, tx, attempt); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// RequeueAbandoned returns in_flight rows whose last attempt is older than
// the cutoff back to pending. attempt_count stays untouched: the interrupted
// attempt never completed, so it does not count against max_attempts.
func (r *DeliveryQueueRepository) RequeueAbandoned(ctx context.Context, olderThan time.Duration) (int64, error) {
	query := `
		UPDATE webhook_delivery_queue
		SET status = 'pending', claimed_by = NULL, next_retry_at = NOW()
		WHERE status = 'in_flight'
		  AND last_attempt_at < NOW() - ($1 * INTERVAL '1 second')
	`

	result, err := r.db.ExecContext(ctx, query, olderThan.Seconds())
	if err != nil {
		return 0, fmt.Errorf("failed to requeue abandoned deliveries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// GetByID retrieves a delivery scoped to a tenant
func (r *DeliveryQueueRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.WebhookDelivery, error) {
	query := `
		SELECT ` + deliveryColumnList + `
		FROM webhook_delivery_queue
		WHERE tenant_id = $1 AND id = $2
	`

	delivery, err := scanWebhookDelivery(r.db.QueryRowContext(ctx, query, tenantID, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &domain.ErrNotFound{Entity: "delivery", ID: id}
		}
		return nil, fmt.Errorf("failed to get delivery: %w", err)
	}

	return delivery, nil
}

// List retrieves deliveries matching the filter params plus the total count
func (r *DeliveryQueueRepository) List(ctx context.Context, params domain.DeliveryListParams) ([]*domain.WebhookDelivery, int, error) {
	if params.Limit <= 0 {
		params.Limit = 50
	}
	if params.Limit > 100 {
		params.Limit = 100
	}

	filter := sq.And{}
	if params.TenantID != "" {
		filter = append(filter, sq.Eq{"tenant_id": params.TenantID})
	}
	if params.Status != "" {
		filter = append(filter, sq.Eq{"status": params.Status})
	}
	if params.PartnerWebhookID != "" {
		filter = append(filter, sq.Eq{"partner_webhook_id": params.PartnerWebhookID})
	}
	if params.EventType != "" {
		filter = append(filter, sq.Eq{"event_type": params.EventType})
	}

	countQuery, countArgs, err := deliveryPsql.
		Select("COUNT(*)").
		From("webhook_delivery_queue").
		Where(filter).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count deliveries: %w", err)
	}

	query, args, err := deliveryPsql.
		Select(deliveryColumns...).
		From("webhook_delivery_queue").
		Where(filter).
		OrderBy("created_at DESC").
		Limit(uint64(params.Limit)).
		Offset(uint64(params.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list deliveries: %w", err)
	}
	defer rows.Close()

	var deliveries []*domain.WebhookDelivery
	for rows.Next() {
		delivery, err := scanWebhookDelivery(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan delivery: %w", err)
		}
		deliveries = append(deliveries, delivery)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating deliveries: %w", err)
	}

	return deliveries, total, nil
}

// CountPendingForTenant backs the enqueue soft-cap check
func (r *DeliveryQueueRepository) CountPendingForTenant(ctx context.Context, tenantID string) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM webhook_delivery_queue
		WHERE tenant_id = $1 AND status IN ('pending', 'failed')
	`

	var count int64
	if err := r.db.QueryRowContext(ctx, query, tenantID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count pending deliveries: %w", err)
	}

	return count, nil
}

// CountDeadLettersSince backs the operator alert threshold
func (r *DeliveryQueueRepository) CountDeadLettersSince(ctx context.Context, tenantID string, since time.Time) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM webhook_delivery_queue
		WHERE tenant_id = $1 AND status = 'dead_letter' AND last_attempt_at >= $2
	`

	var count int64
	if err := r.db.QueryRowContext(ctx, query, tenantID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count dead letters: %w", err)
	}

	return count, nil
}

// GetStats aggregates queue rows by status. Empty tenantID means all tenants.
func (r *DeliveryQueueRepository) GetStats(ctx context.Context, tenantID string) (*domain.QueueStats, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0) AS pending,
			COALESCE(SUM(CASE WHEN status = 'in_flight' THEN 1 ELSE 0 END), 0) AS in_flight,
			COALESCE(SUM(CASE WHEN status = 'delivered' THEN 1 ELSE 0 END), 0) AS delivered,
			COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0) AS failed,
			COALESCE(SUM(CASE WHEN status = 'dead_letter' THEN 1 ELSE 0 END), 0) AS dead_letter,
			COALESCE(EXTRACT(EPOCH FROM (NOW() - MIN(
				CASE WHEN status IN ('pending', 'failed') AND next_retry_at <= NOW()
				THEN next_retry_at END
			))), 0) AS oldest_pending_age_seconds
		FROM webhook_delivery_queue
	`

	args := []interface{}{}
	if tenantID != "" {
		query += ` WHERE tenant_id = $1`
		args = append(args, tenantID)
	}

	var stats domain.QueueStats
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&stats.Pending, &stats.InFlight, &stats.Delivered,
		&stats.Failed, &stats.DeadLetter, &stats.OldestPendingAgeSeconds,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get queue stats: %w", err)
	}

	return &stats, nil
}

// DeleteOlderThan purges terminal rows older than the cutoff. Pending and
// in-flight rows are never touched by retention.
func (r *DeliveryQueueRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	query := `
		DELETE FROM webhook_delivery_queue
		WHERE status IN ('delivered', 'dead_letter') AND created_at < $1
	`

	result, err := r.db.ExecContext(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old deliveries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// scanWebhookDelivery scans a row into a WebhookDelivery
func scanWebhookDelivery(row scanner) (*domain.WebhookDelivery, error) {
	var delivery domain.WebhookDelivery
	var partnerWebhookID, lastError, claimedBy sql.NullString
	var lastResponseStatus sql.NullInt64
	var lastAttemptAt, deliveredAt sql.NullTime

	err := row.Scan(
		&delivery.ID, &delivery.TenantID, &partnerWebhookID, &delivery.URL,
		&delivery.Secret, &delivery.EventType, &delivery.Payload,
		&delivery.Status, &delivery.AttemptCount, &delivery.MaxAttempts,
		&delivery.NextRetryAt, &lastAttemptAt, &lastResponseStatus,
		&lastError, &claimedBy, &delivery.CreatedAt, &delivery.ScheduledAt,
		&deliveredAt,
	)
	if err != nil {
		return nil, err
	}

	if partnerWebhookID.Valid {
		delivery.PartnerWebhookID = &partnerWebhookID.String
	}
	if lastAttemptAt.Valid {
		delivery.LastAttemptAt = &lastAttemptAt.Time
	}
	if lastResponseStatus.Valid {
		status := int(lastResponseStatus.Int64)
		delivery.LastResponseStatus = &status
	}
	if lastError.Valid {
		delivery.LastError = &lastError.String
	}
	if claimedBy.Valid {
		delivery.ClaimedBy = &claimedBy.String
	}
	if deliveredAt.Valid {
		delivery.DeliveredAt = &deliveredAt.Time
	}

	return &delivery, nil
}
