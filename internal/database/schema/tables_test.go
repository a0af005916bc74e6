package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableDefinitions(t *testing.T) {
	t.Run("All statements are non-empty", func(t *testing.T) {
		assert.Greater(t, len(TableDefinitions), 0, "Should have at least one table definition")

		for i, statement := range TableDefinitions {
			assert.NotEmpty(t, strings.TrimSpace(statement), "Statement at index %d should not be just whitespace", i)
		}
	})

	t.Run("Every table in TableNames has a CREATE TABLE statement", func(t *testing.T) {
		allStatements := strings.Join(TableDefinitions, " ")

		for _, tableName := range TableNames {
			assert.Contains(t, allStatements, "CREATE TABLE IF NOT EXISTS "+tableName,
				"TableDefinitions should create table %s", tableName)
		}
	})

	t.Run("All statements are idempotent", func(t *testing.T) {
		for i, statement := range TableDefinitions {
			assert.Contains(t, statement, "IF NOT EXISTS",
				"Statement at index %d should be idempotent", i)
		}
	})

	t.Run("Event idempotency key is globally unique", func(t *testing.T) {
		allStatements := strings.Join(TableDefinitions, " ")

		assert.Contains(t, allStatements,
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_upstream_events_event_id ON upstream_call_events (event_id)",
			"upstream event_id must carry a global unique index")
	})

	t.Run("Claim index covers retryable statuses", func(t *testing.T) {
		allStatements := strings.Join(TableDefinitions, " ")

		assert.Contains(t, allStatements, `WHERE status IN ('pending', 'failed')`,
			"the claim index must cover both pending and failed rows")
	})

	t.Run("Webhook slug is unique per tenant", func(t *testing.T) {
		allStatements := strings.Join(TableDefinitions, " ")

		assert.Contains(t, allStatements,
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_partner_webhooks_tenant_slug ON partner_webhooks (tenant_id, slug)")
	})
}

func TestTableNames(t *testing.T) {
	t.Run("Settings table is created last", func(t *testing.T) {
		assert.Equal(t, "settings", TableNames[len(TableNames)-1])
	})

	t.Run("Queue is created after partner webhooks", func(t *testing.T) {
		webhookIdx, queueIdx := -1, -1
		for i, name := range TableNames {
			switch name {
			case "partner_webhooks":
				webhookIdx = i
			case "webhook_delivery_queue":
				queueIdx = i
			}
		}

		assert.GreaterOrEqual(t, webhookIdx, 0)
		assert.Greater(t, queueIdx, webhookIdx, "queue references partner_webhooks and must be created after it")
	})
}
