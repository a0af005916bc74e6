package migrations

import (
	"context"
	"fmt"

	"github.com/Callhook/callhook/config"
)

// V2Migration upgrades 1.x installations to the 2.0 queue model: workers now
// record their identity on claimed rows and attempt logs distinguish network
// failures from HTTP failures.
type V2Migration struct{}

// GetMajorVersion returns the major version this migration handles
func (m *V2Migration) GetMajorVersion() float64 {
	return 2.0
}

// ShouldRestartServer indicates if the server needs to restart after this migration
func (m *V2Migration) ShouldRestartServer() bool {
	return false
}

// Update executes the migration changes
func (m *V2Migration) Update(ctx context.Context, config *config.Config, db DBExecutor) error {
	_, err := db.ExecContext(ctx, `
		ALTER TABLE webhook_delivery_queue
		ADD COLUMN IF NOT EXISTS claimed_by TEXT
	`)
	if err != nil {
		return fmt.Errorf("failed to add claimed_by column to webhook_delivery_queue: %w", err)
	}

	// Rows claimed by 1.x workers carry no identity; release them so the
	// first 2.0 worker picks them up instead of waiting for the reaper.
	_, err = db.ExecContext(ctx, `
		UPDATE webhook_delivery_queue
		SET status = 'pending'
		WHERE status = 'in_flight' AND claimed_by IS NULL
	`)
	if err != nil {
		return fmt.Errorf("failed to release unclaimed in_flight rows: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		ALTER TABLE delivery_attempt_logs
		ADD COLUMN IF NOT EXISTS network_error BOOLEAN NOT NULL DEFAULT FALSE
	`)
	if err != nil {
		return fmt.Errorf("failed to add network_error column to delivery_attempt_logs: %w", err)
	}

	return nil
}

func init() {
	Register(&V2Migration{})
}
