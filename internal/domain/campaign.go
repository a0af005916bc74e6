package domain

//go:generate mockgen -destination mocks/mock_campaign_repository.go -package mocks github.com/Callhook/callhook/internal/domain CampaignRepository

import (
	"context"
	"database/sql"
	"time"
)

// CampaignCall status values
const (
	CampaignCallStatusScheduled = "scheduled"
	CampaignCallStatusDialing   = "dialing"
	CampaignCallStatusCompleted = "completed"
)

// CampaignCall links an outbound dialing campaign to a call log. The
// ingestion flow marks it completed when the call ends.
type CampaignCall struct {
	ID              string     `json:"id"`
	TenantID        string     `json:"tenant_id"`
	CampaignID      string     `json:"campaign_id"`
	CallLogID       *string    `json:"call_log_id,omitempty"`
	LeadID          *string    `json:"lead_id,omitempty"`
	Status          string     `json:"status"`
	Outcome         *string    `json:"outcome,omitempty"`
	DurationSeconds *int       `json:"duration_seconds,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// CampaignCallCompletion carries the call-result fields written into the
// downstream campaign tables when a call ends.
type CampaignCallCompletion struct {
	Outcome         string
	DurationSeconds int
	CompletedAt     time.Time
}

// CampaignRepository defines the interface for downstream campaign data
// access. Both completion methods run inside the ingestion transaction and
// are wrapped in savepoints by the caller: these tables are best-effort and
// a failure here must not poison the main transaction.
type CampaignRepository interface {
	// CompleteCallTx marks the campaign call keyed by callLogID completed
	// and returns it, or *ErrNotFound when the call is not part of a
	// campaign.
	CompleteCallTx(ctx context.Context, tx *sql.Tx, tenantID, callLogID string, completion CampaignCallCompletion) (*CampaignCall, error)

	// TouchLeadTx refreshes the lead's call history: times_called+1,
	// last_called_at, last_call_status, last_call_duration.
	TouchLeadTx(ctx context.Context, tx *sql.Tx, tenantID, leadID string, completion CampaignCallCompletion) error
}
