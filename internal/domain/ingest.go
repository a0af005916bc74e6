package domain

//go:generate mockgen -destination mocks/mock_ingest_service.go -package mocks github.com/Callhook/callhook/internal/domain IngestService

import (
	"context"
)

// Ingest result statuses returned to the upstream caller. All of them map
// to HTTP 200: upstream retry behavior only depends on 4xx/5xx.
const (
	IngestStatusProcessed        = "processed"
	IngestStatusIgnored          = "ignored"
	IngestStatusAlreadyProcessed = "already_processed"
	IngestStatusNoCallContext    = "call_context_not_found"
)

// IngestResult summarizes what a single upstream event did.
type IngestResult struct {
	Status    string `json:"status"`
	EventID   string `json:"event_id,omitempty"`
	EventType string `json:"event_type,omitempty"`
	CallLogID string `json:"call_log_id,omitempty"`
	Outcome   string `json:"outcome,omitempty"`

	// Enqueued is the number of partner deliveries fanned out.
	Enqueued int `json:"enqueued,omitempty"`
}

// IngestService consumes authenticated upstream call events and drives them
// to a durable state: event recorded exactly once, call log ended with a
// classified outcome, downstream rows updated, partner fan-out enqueued.
type IngestService interface {
	// ProcessUpstreamWebhook verifies the raw-body HMAC signature, parses
	// the payload and runs the ingestion transaction. Signature failures
	// return *ErrUnauthorized; malformed payloads return ValidationError.
	ProcessUpstreamWebhook(ctx context.Context, rawBody []byte, signature string) (*IngestResult, error)
}
