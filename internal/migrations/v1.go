package migrations

import (
	"context"
	"fmt"

	"github.com/Callhook/callhook/config"
)

// V1Migration upgrades pre-1.0 installations: early deployments retried
// deliveries forever and claimed rows with a bare status flip, so the queue
// lacked a retry cap and the partial claim index.
type V1Migration struct{}

// GetMajorVersion returns the major version this migration handles
func (m *V1Migration) GetMajorVersion() float64 {
	return 1.0
}

// ShouldRestartServer indicates if the server needs to restart after this migration
func (m *V1Migration) ShouldRestartServer() bool {
	return false
}

// Update executes the migration changes
func (m *V1Migration) Update(ctx context.Context, config *config.Config, db DBExecutor) error {
	_, err := db.ExecContext(ctx, `
		ALTER TABLE webhook_delivery_queue
		ADD COLUMN IF NOT EXISTS max_attempts INTEGER NOT NULL DEFAULT 5
	`)
	if err != nil {
		return fmt.Errorf("failed to add max_attempts column to webhook_delivery_queue: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_delivery_queue_claim
		ON webhook_delivery_queue (next_retry_at)
		WHERE status IN ('pending', 'failed')
	`)
	if err != nil {
		return fmt.Errorf("failed to create claim index on webhook_delivery_queue: %w", err)
	}

	return nil
}

func init() {
	Register(&V1Migration{})
}
