package migrations

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Callhook/callhook/config"
)

func TestV2Migration_GetMajorVersion(t *testing.T) {
	migration := &V2Migration{}
	assert.Equal(t, 2.0, migration.GetMajorVersion())
}

func TestV2Migration_ShouldRestartServer(t *testing.T) {
	migration := &V2Migration{}
	assert.False(t, migration.ShouldRestartServer())
}

func TestV2Migration_Update(t *testing.T) {
	migration := &V2Migration{}
	cfg := &config.Config{}
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("ALTER TABLE webhook_delivery_queue").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("UPDATE webhook_delivery_queue").
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec("ALTER TABLE delivery_attempt_logs").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err = migration.Update(ctx, cfg, db)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ClaimedByError", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("ALTER TABLE webhook_delivery_queue").
			WillReturnError(errors.New("database error"))

		err = migration.Update(ctx, cfg, db)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to add claimed_by column")
	})

	t.Run("ReleaseError", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("ALTER TABLE webhook_delivery_queue").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("UPDATE webhook_delivery_queue").
			WillReturnError(errors.New("database error"))

		err = migration.Update(ctx, cfg, db)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to release unclaimed in_flight rows")
	})

	t.Run("NetworkErrorColumnError", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("ALTER TABLE webhook_delivery_queue").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("UPDATE webhook_delivery_queue").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("ALTER TABLE delivery_attempt_logs").
			WillReturnError(errors.New("database error"))

		err = migration.Update(ctx, cfg, db)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to add network_error column")
	})
}
