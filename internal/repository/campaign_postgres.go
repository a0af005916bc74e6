package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Callhook/callhook/internal/domain"
)

// CampaignRepository implements domain.CampaignRepository for PostgreSQL
type CampaignRepository struct {
	db *sql.DB
}

// NewCampaignRepository creates a new CampaignRepository
func NewCampaignRepository(db *sql.DB) domain.CampaignRepository {
	return &CampaignRepository{
		db: db,
	}
}

// CompleteCallTx marks the campaign call keyed by callLogID completed and
// returns it. *ErrNotFound means the call is not part of a campaign, which
// most calls are not.
func (r *CampaignRepository) CompleteCallTx(ctx context.Context, tx *sql.Tx, tenantID, callLogID string, completion domain.CampaignCallCompletion) (*domain.CampaignCall, error) {
	query := `
		UPDATE campaign_calls
		SET status = $3, outcome = $4, duration_seconds = $5, completed_at = $6, updated_at = NOW()
		WHERE tenant_id = $1 AND call_log_id = $2
		RETURNING id, tenant_id, campaign_id, call_log_id, lead_id, status,
		          outcome, duration_seconds, completed_at, created_at, updated_at
	`

	row := tx.QueryRowContext(ctx, query,
		tenantID,
		callLogID,
		domain.CampaignCallStatusCompleted,
		completion.Outcome,
		completion.DurationSeconds,
		completion.CompletedAt,
	)

	call, err := scanCampaignCall(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, &domain.ErrNotFound{Entity: "campaign call", ID: callLogID}
		}
		return nil, fmt.Errorf("failed to complete campaign call: %w", err)
	}

	return call, nil
}

// TouchLeadTx refreshes the lead's call history after a completed call
func (r *CampaignRepository) TouchLeadTx(ctx context.Context, tx *sql.Tx, tenantID, leadID string, completion domain.CampaignCallCompletion) error {
	query := `
		UPDATE leads
		SET times_called = times_called + 1,
		    last_called_at = $3,
		    last_call_status = $4,
		    last_call_duration = $5,
		    updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2
	`

	result, err := tx.ExecContext(ctx, query,
		tenantID,
		leadID,
		completion.CompletedAt,
		completion.Outcome,
		completion.DurationSeconds,
	)
	if err != nil {
		return fmt.Errorf("failed to update lead: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return &domain.ErrNotFound{Entity: "lead", ID: leadID}
	}

	return nil
}

// scanCampaignCall scans a row into a CampaignCall
func scanCampaignCall(row scanner) (*domain.CampaignCall, error) {
	var call domain.CampaignCall
	var callLogID, leadID, outcome sql.NullString
	var durationSeconds sql.NullInt64
	var completedAt sql.NullTime

	err := row.Scan(
		&call.ID, &call.TenantID, &call.CampaignID, &callLogID, &leadID,
		&call.Status, &outcome, &durationSeconds, &completedAt,
		&call.CreatedAt, &call.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if callLogID.Valid {
		call.CallLogID = &callLogID.String
	}
	if leadID.Valid {
		call.LeadID = &leadID.String
	}
	if outcome.Valid {
		call.Outcome = &outcome.String
	}
	if durationSeconds.Valid {
		duration := int(durationSeconds.Int64)
		call.DurationSeconds = &duration
	}
	if completedAt.Valid {
		call.CompletedAt = &completedAt.Time
	}

	return &call, nil
}
