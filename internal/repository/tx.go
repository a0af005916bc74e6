package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// WithSavepoint runs fn inside a savepoint on an open transaction. When fn
// fails, the savepoint is rolled back and the transaction stays usable; the
// error from fn is returned unchanged so callers can inspect it. PostgreSQL
// aborts the whole transaction on any statement error otherwise, so every
// best-effort statement inside a shared transaction must go through here.
func WithSavepoint(ctx context.Context, tx *sql.Tx, name string, fn func() error) error {
	if _, err := tx.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return fmt.Errorf("failed to create savepoint %s: %w", name, err)
	}

	if err := fn(); err != nil {
		if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name); rbErr != nil {
			return fmt.Errorf("failed to rollback to savepoint %s: %w", name, rbErr)
		}
		return err
	}

	if _, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+name); err != nil {
		return fmt.Errorf("failed to release savepoint %s: %w", name, err)
	}

	return nil
}
