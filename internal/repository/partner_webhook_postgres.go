package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Callhook/callhook/internal/domain"
	"github.com/google/uuid"
)

// PartnerWebhookRepository implements domain.PartnerWebhookRepository for PostgreSQL
type PartnerWebhookRepository struct {
	db *sql.DB
}

// NewPartnerWebhookRepository creates a new PartnerWebhookRepository
func NewPartnerWebhookRepository(db *sql.DB) domain.PartnerWebhookRepository {
	return &PartnerWebhookRepository{
		db: db,
	}
}

const partnerWebhookColumns = `id, tenant_id, name, slug, url, secret, enabled_events,
	       custom_payload_fields, enabled, created_at, updated_at`

// Create creates a new partner webhook
func (r *PartnerWebhookRepository) Create(ctx context.Context, webhook *domain.PartnerWebhook) error {
	if webhook.ID == "" {
		webhook.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	webhook.CreatedAt = now
	webhook.UpdatedAt = now

	query := `
		INSERT INTO partner_webhooks (
			id, tenant_id, name, slug, url, secret, enabled_events,
			custom_payload_fields, enabled, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
		)
	`

	_, err := r.db.ExecContext(ctx, query,
		webhook.ID,
		webhook.TenantID,
		webhook.Name,
		webhook.Slug,
		webhook.URL,
		webhook.Secret,
		webhook.EnabledEvents,
		webhook.CustomPayloadFields,
		webhook.Enabled,
		webhook.CreatedAt,
		webhook.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create partner webhook: %w", err)
	}

	return nil
}

// GetByID retrieves a partner webhook by ID
func (r *PartnerWebhookRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.PartnerWebhook, error) {
	query := `
		SELECT ` + partnerWebhookColumns + `
		FROM partner_webhooks
		WHERE tenant_id = $1 AND id = $2
	`

	webhook, err := scanPartnerWebhook(r.db.QueryRowContext(ctx, query, tenantID, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &domain.ErrNotFound{Entity: "partner webhook", ID: id}
		}
		return nil, fmt.Errorf("failed to get partner webhook: %w", err)
	}

	return webhook, nil
}

// GetBySlug retrieves a partner webhook by its tenant-unique slug
func (r *PartnerWebhookRepository) GetBySlug(ctx context.Context, tenantID, slug string) (*domain.PartnerWebhook, error) {
	query := `
		SELECT ` + partnerWebhookColumns + `
		FROM partner_webhooks
		WHERE tenant_id = $1 AND slug = $2
	`

	webhook, err := scanPartnerWebhook(r.db.QueryRowContext(ctx, query, tenantID, slug))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &domain.ErrNotFound{Entity: "partner webhook", ID: slug}
		}
		return nil, fmt.Errorf("failed to get partner webhook by slug: %w", err)
	}

	return webhook, nil
}

// List retrieves all partner webhooks for a tenant
func (r *PartnerWebhookRepository) List(ctx context.Context, tenantID string) ([]*domain.PartnerWebhook, error) {
	query := `
		SELECT ` + partnerWebhookColumns + `
		FROM partner_webhooks
		WHERE tenant_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list partner webhooks: %w", err)
	}
	defer rows.Close()

	return collectPartnerWebhooks(rows)
}

// ListEnabledForEvent returns enabled webhooks subscribed to eventType. The
// enabled_events column is a JSONB array, so subscription is a containment
// check on the scalar event type.
func (r *PartnerWebhookRepository) ListEnabledForEvent(ctx context.Context, tenantID, eventType string) ([]*domain.PartnerWebhook, error) {
	query := `
		SELECT ` + partnerWebhookColumns + `
		FROM partner_webhooks
		WHERE tenant_id = $1 AND enabled = TRUE AND enabled_events @> to_jsonb($2::text)
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, tenantID, eventType)
	if err != nil {
		return nil, fmt.Errorf("failed to list webhooks for event: %w", err)
	}
	defer rows.Close()

	return collectPartnerWebhooks(rows)
}

// Update updates an existing partner webhook
func (r *PartnerWebhookRepository) Update(ctx context.Context, webhook *domain.PartnerWebhook) error {
	webhook.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE partner_webhooks
		SET name = $3, slug = $4, url = $5, secret = $6, enabled_events = $7,
			custom_payload_fields = $8, enabled = $9, updated_at = $10
		WHERE tenant_id = $1 AND id = $2
	`

	result, err := r.db.ExecContext(ctx, query,
		webhook.TenantID,
		webhook.ID,
		webhook.Name,
		webhook.Slug,
		webhook.URL,
		webhook.Secret,
		webhook.EnabledEvents,
		webhook.CustomPayloadFields,
		webhook.Enabled,
		webhook.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update partner webhook: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return &domain.ErrNotFound{Entity: "partner webhook", ID: webhook.ID}
	}

	return nil
}

// Delete deletes a partner webhook. The queue's foreign key cascades, so
// undelivered entries for it are dropped; attempt logs are unreferenced and
// keep the audit trail.
func (r *PartnerWebhookRepository) Delete(ctx context.Context, tenantID, id string) error {
	query := `DELETE FROM partner_webhooks WHERE tenant_id = $1 AND id = $2`

	result, err := r.db.ExecContext(ctx, query, tenantID, id)
	if err != nil {
		return fmt.Errorf("failed to delete partner webhook: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return &domain.ErrNotFound{Entity: "partner webhook", ID: id}
	}

	return nil
}

// SetEnabled flips the enabled flag
func (r *PartnerWebhookRepository) SetEnabled(ctx context.Context, tenantID, id string, enabled bool) error {
	query := `
		UPDATE partner_webhooks
		SET enabled = $3, updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2
	`

	result, err := r.db.ExecContext(ctx, query, tenantID, id, enabled)
	if err != nil {
		return fmt.Errorf("failed to set enabled: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return &domain.ErrNotFound{Entity: "partner webhook", ID: id}
	}

	return nil
}

func collectPartnerWebhooks(rows *sql.Rows) ([]*domain.PartnerWebhook, error) {
	var webhooks []*domain.PartnerWebhook
	for rows.Next() {
		webhook, err := scanPartnerWebhook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan partner webhook: %w", err)
		}
		webhooks = append(webhooks, webhook)
	}

	return webhooks, rows.Err()
}

// scanPartnerWebhook scans a row into a PartnerWebhook
func scanPartnerWebhook(row scanner) (*domain.PartnerWebhook, error) {
	var webhook domain.PartnerWebhook

	err := row.Scan(
		&webhook.ID, &webhook.TenantID, &webhook.Name, &webhook.Slug,
		&webhook.URL, &webhook.Secret, &webhook.EnabledEvents,
		&webhook.CustomPayloadFields, &webhook.Enabled,
		&webhook.CreatedAt, &webhook.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &webhook, nil
}
