// Package schema defines the database schema applied on first run.
// Structural changes to an existing installation belong in
// internal/migrations, not here.
package schema

// TableDefinitions contains all the SQL statements to create the database
// tables. Statements are idempotent and run in order, tables before indexes.
// Don't put CHECK constraints in the CREATE TABLE statements.
var TableDefinitions = []string{
	`CREATE TABLE IF NOT EXISTS call_logs (
		id UUID PRIMARY KEY,
		tenant_id VARCHAR(64) NOT NULL,
		agent_id VARCHAR(64),
		room_name VARCHAR(255) NOT NULL,
		room_sid VARCHAR(64),
		direction VARCHAR(10) NOT NULL,
		phone_number VARCHAR(50) NOT NULL,
		status VARCHAR(10) NOT NULL DEFAULT 'active',
		outcome VARCHAR(20),
		duration_seconds INTEGER,
		started_at TIMESTAMP NOT NULL,
		ended_at TIMESTAMP,
		recording_url TEXT,
		metadata JSONB,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS upstream_call_events (
		id UUID PRIMARY KEY,
		tenant_id VARCHAR(64) NOT NULL,
		call_log_id UUID,
		event_id VARCHAR(255) NOT NULL,
		event_type VARCHAR(50) NOT NULL,
		room_name VARCHAR(255) NOT NULL,
		room_sid VARCHAR(64),
		participant_identity VARCHAR(255),
		participant_sid VARCHAR(64),
		event_timestamp BIGINT NOT NULL,
		payload JSONB NOT NULL,
		processed BOOLEAN NOT NULL DEFAULT FALSE,
		processed_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS partner_webhooks (
		id UUID PRIMARY KEY,
		tenant_id VARCHAR(64) NOT NULL,
		name VARCHAR(255) NOT NULL,
		slug VARCHAR(100) NOT NULL,
		url TEXT NOT NULL,
		secret TEXT NOT NULL,
		enabled_events JSONB NOT NULL DEFAULT '[]',
		custom_payload_fields JSONB,
		enabled BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS webhook_delivery_queue (
		id UUID PRIMARY KEY,
		tenant_id VARCHAR(64) NOT NULL,
		partner_webhook_id UUID REFERENCES partner_webhooks(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		secret TEXT NOT NULL,
		event_type VARCHAR(50) NOT NULL,
		payload JSONB NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		attempt_count INTEGER NOT NULL DEFAULT 0,
		max_attempts INTEGER NOT NULL DEFAULT 5,
		next_retry_at TIMESTAMP NOT NULL,
		last_attempt_at TIMESTAMP,
		last_response_status INTEGER,
		last_error TEXT,
		claimed_by TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		scheduled_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		delivered_at TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS delivery_attempt_logs (
		id UUID PRIMARY KEY,
		delivery_id UUID,
		tenant_id VARCHAR(64) NOT NULL,
		attempt_number INTEGER NOT NULL,
		attempt_timestamp TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		url TEXT NOT NULL,
		request_headers JSONB,
		request_body JSONB,
		response_status INTEGER,
		response_headers JSONB,
		response_body TEXT,
		response_time_ms INTEGER NOT NULL DEFAULT 0,
		error_message TEXT,
		network_error BOOLEAN NOT NULL DEFAULT FALSE,
		success BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS campaign_calls (
		id UUID PRIMARY KEY,
		tenant_id VARCHAR(64) NOT NULL,
		campaign_id UUID NOT NULL,
		call_log_id UUID NOT NULL,
		lead_id UUID,
		status VARCHAR(20) NOT NULL,
		outcome VARCHAR(20),
		duration_seconds INTEGER,
		completed_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS leads (
		id UUID PRIMARY KEY,
		tenant_id VARCHAR(64) NOT NULL,
		phone_number VARCHAR(50) NOT NULL,
		times_called INTEGER NOT NULL DEFAULT 0,
		last_called_at TIMESTAMP,
		last_call_status VARCHAR(20),
		last_call_duration INTEGER,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		key VARCHAR(255) PRIMARY KEY,
		value TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (key)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_call_logs_tenant_room_name ON call_logs (tenant_id, room_name)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_call_logs_tenant_room_sid ON call_logs (tenant_id, room_sid) WHERE room_sid IS NOT NULL`,
	`CREATE INDEX IF NOT EXISTS idx_call_logs_tenant_status ON call_logs (tenant_id, status)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_upstream_events_event_id ON upstream_call_events (event_id)`,
	`CREATE INDEX IF NOT EXISTS idx_upstream_events_tenant_call ON upstream_call_events (tenant_id, call_log_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_partner_webhooks_tenant_slug ON partner_webhooks (tenant_id, slug)`,
	`CREATE INDEX IF NOT EXISTS idx_partner_webhooks_tenant_enabled ON partner_webhooks (tenant_id, enabled)`,
	`CREATE INDEX IF NOT EXISTS idx_delivery_queue_tenant_status ON webhook_delivery_queue (tenant_id, status, next_retry_at)`,
	`CREATE INDEX IF NOT EXISTS idx_delivery_queue_claim ON webhook_delivery_queue (next_retry_at) WHERE status IN ('pending', 'failed')`,
	`CREATE INDEX IF NOT EXISTS idx_delivery_queue_webhook ON webhook_delivery_queue (partner_webhook_id)`,
	`CREATE INDEX IF NOT EXISTS idx_attempt_logs_delivery ON delivery_attempt_logs (delivery_id)`,
	`CREATE INDEX IF NOT EXISTS idx_attempt_logs_tenant_timestamp ON delivery_attempt_logs (tenant_id, attempt_timestamp)`,
	`CREATE INDEX IF NOT EXISTS idx_campaign_calls_tenant_campaign ON campaign_calls (tenant_id, campaign_id)`,
	`CREATE INDEX IF NOT EXISTS idx_campaign_calls_call_log ON campaign_calls (call_log_id)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_tenant_phone ON leads (tenant_id, phone_number)`,
}

// TableNames returns a list of all table names in creation order
var TableNames = []string{
	"call_logs",
	"upstream_call_events",
	"partner_webhooks",
	"webhook_delivery_queue",
	"delivery_attempt_logs",
	"campaign_calls",
	"leads",
	"settings",
}
