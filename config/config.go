package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const VERSION = "2.4"

// Merge order values for WEBHOOK_MERGE_ORDER.
const (
	MergeOrderPayloadWins = "payload_wins"
	MergeOrderPartnerWins = "partner_wins"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Security    SecurityConfig
	Webhook     WebhookConfig
	Worker      WorkerConfig
	Retry       RetryConfig
	RateLimit   RateLimitConfig
	Alert       AlertConfig
	Tracing     TracingConfig
	Environment string
	LogLevel    string
	Version     string
}

type ServerConfig struct {
	Port int
	Host string

	// MetricsPort is the dedicated listener for /metrics and /health.
	MetricsPort int
}

type DatabaseConfig struct {
	// URL takes precedence over the discrete fields when set.
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type SecurityConfig struct {
	// APIJWTSecret signs and verifies bearer tokens on the management API.
	APIJWTSecret string
}

// WebhookConfig covers both directions of webhook traffic: verification of
// the upstream call-events endpoint and composition of outbound payloads.
type WebhookConfig struct {
	// UpstreamSecret is the shared HMAC secret for inbound call events.
	UpstreamSecret string

	// SignatureTolerance bounds the age of inbound signature timestamps.
	SignatureTolerance time.Duration

	// MergeOrder decides whether event payload fields or partner
	// custom_payload_fields win on key collision.
	MergeOrder string
}

type WorkerConfig struct {
	PollInterval            time.Duration
	BatchSize               int
	ShutdownTimeout         time.Duration
	MaxConcurrentDeliveries int
	HTTPTimeout             time.Duration
	HTTPPoolSize            int
	PendingSoftCap          int
	AuditLogEnabled         bool
	RetentionDays           int
	CleanupInterval         time.Duration
}

type RetryConfig struct {
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	MaxAttempts int
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type AlertConfig struct {
	// DeadLetterThreshold is the number of dead-lettered deliveries per
	// tenant per 24h that triggers an operator email. Zero disables alerts.
	DeadLetterThreshold int
	Email               string
	SMTP                SMTPConfig
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

type TracingConfig struct {
	Enabled             bool
	ServiceName         string
	SamplingProbability float64

	// Trace exporter configuration
	TraceExporter string // "jaeger", "stackdriver", "zipkin", "datadog", "xray", "none"

	// Jaeger settings
	JaegerEndpoint string

	// Zipkin settings
	ZipkinEndpoint string

	// Stackdriver settings
	StackdriverProjectID string

	// Datadog settings
	DatadogAgentAddress string
	DatadogAPIKey       string

	// AWS X-Ray settings
	XRayRegion string

	// General agent endpoint (for exporters that support a common agent)
	AgentEndpoint string

	// Metrics exporter configuration
	MetricsExporter string // "prometheus", "stackdriver", "datadog", "none" or comma-separated list
}

// LoadOptions contains options for loading configuration
type LoadOptions struct {
	EnvFile string // Optional environment file to load (e.g., ".env", ".env.test")
}

// parseDuration reads a duration key. Bare numbers are interpreted as
// seconds, which is how the worker env vars are documented; values with a
// unit suffix go through time.ParseDuration.
func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return 0, nil
	}
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q", key, raw)
	}
	return d, nil
}

// Load loads the configuration with default options
func Load() (*Config, error) {
	// Try to load .env file but don't require it
	return LoadWithOptions(LoadOptions{EnvFile: ".env"})
}

// LoadWithOptions loads the configuration with the specified options
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("METRICS_PORT", 9090)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "callhook")
	v.SetDefault("DB_SSLMODE", "require")
	v.SetDefault("ENVIRONMENT", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("VERSION", VERSION)

	// Delivery worker defaults
	v.SetDefault("WORKER_POLL_INTERVAL", "5s")
	v.SetDefault("WORKER_BATCH_SIZE", 10)
	v.SetDefault("WORKER_TIMEOUT", "30s")
	v.SetDefault("MAX_CONCURRENT_DELIVERIES", 10)
	v.SetDefault("HTTP_TIMEOUT", "30s")
	v.SetDefault("HTTP_POOL_SIZE", 10)
	v.SetDefault("PENDING_SOFT_CAP", 10000)
	v.SetDefault("AUDIT_LOG_ENABLED", true)
	v.SetDefault("DELIVERY_RETENTION_DAYS", 30)
	v.SetDefault("CLEANUP_INTERVAL", "1h")

	// Retry policy defaults
	v.SetDefault("RETRY_BASE_DELAY", "30s")
	v.SetDefault("RETRY_MAX_DELAY", "1h")
	v.SetDefault("RETRY_MAX_ATTEMPTS", 5)

	// Inbound signature defaults
	v.SetDefault("SIGNATURE_TOLERANCE", "5m")
	v.SetDefault("WEBHOOK_MERGE_ORDER", MergeOrderPayloadWins)

	// Management API rate limit defaults
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_WINDOW", "1m")

	// Operator alert defaults
	v.SetDefault("DEAD_LETTER_ALERT_THRESHOLD", 10)
	v.SetDefault("ALERT_SMTP_PORT", 587)
	v.SetDefault("ALERT_SMTP_FROM_NAME", "Callhook Alerts")

	// Default tracing config
	v.SetDefault("TRACING_ENABLED", false)
	v.SetDefault("TRACING_SERVICE_NAME", "callhook-api")
	v.SetDefault("TRACING_SAMPLING_PROBABILITY", 0.1)

	// Default trace exporter config
	v.SetDefault("TRACING_TRACE_EXPORTER", "none")

	// Jaeger settings
	v.SetDefault("TRACING_JAEGER_ENDPOINT", "http://localhost:14268/api/traces")

	// Zipkin settings
	v.SetDefault("TRACING_ZIPKIN_ENDPOINT", "http://localhost:9411/api/v2/spans")

	// Stackdriver settings
	v.SetDefault("TRACING_STACKDRIVER_PROJECT_ID", "")

	// Datadog settings
	v.SetDefault("TRACING_DATADOG_AGENT_ADDRESS", "localhost:8126")
	v.SetDefault("TRACING_DATADOG_API_KEY", "")

	// AWS X-Ray settings
	v.SetDefault("TRACING_XRAY_REGION", "us-west-2")

	// General agent endpoint (for exporters that support a common agent)
	v.SetDefault("TRACING_AGENT_ENDPOINT", "localhost:8126")

	// Default metrics exporter config
	v.SetDefault("TRACING_METRICS_EXPORTER", "none")

	// Load environment file if specified
	if opts.EnvFile != "" {
		v.SetConfigName(opts.EnvFile)
		v.SetConfigType("env")

		currentPath, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("error getting current directory: %w", err)
		}

		v.AddConfigPath(currentPath)

		if err := v.ReadInConfig(); err != nil {
			// It's okay if config file doesn't exist
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	// Read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Validate required configuration
	upstreamSecret := v.GetString("UPSTREAM_WEBHOOK_SECRET")
	if upstreamSecret == "" {
		return nil, fmt.Errorf("UPSTREAM_WEBHOOK_SECRET is required")
	}

	apiJWTSecret := v.GetString("API_JWT_SECRET")
	if apiJWTSecret == "" {
		return nil, fmt.Errorf("API_JWT_SECRET is required")
	}

	mergeOrder := v.GetString("WEBHOOK_MERGE_ORDER")
	if mergeOrder != MergeOrderPayloadWins && mergeOrder != MergeOrderPartnerWins {
		return nil, fmt.Errorf("WEBHOOK_MERGE_ORDER must be %q or %q, got %q",
			MergeOrderPayloadWins, MergeOrderPartnerWins, mergeOrder)
	}

	if maxAttempts := v.GetInt("RETRY_MAX_ATTEMPTS"); maxAttempts < 1 {
		return nil, fmt.Errorf("RETRY_MAX_ATTEMPTS must be at least 1, got %d", maxAttempts)
	}

	if batchSize := v.GetInt("WORKER_BATCH_SIZE"); batchSize < 1 {
		return nil, fmt.Errorf("WORKER_BATCH_SIZE must be at least 1, got %d", batchSize)
	}

	if maxConcurrent := v.GetInt("MAX_CONCURRENT_DELIVERIES"); maxConcurrent < 1 {
		return nil, fmt.Errorf("MAX_CONCURRENT_DELIVERIES must be at least 1, got %d", maxConcurrent)
	}

	pollInterval, err := parseDuration(v, "WORKER_POLL_INTERVAL")
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := parseDuration(v, "WORKER_TIMEOUT")
	if err != nil {
		return nil, err
	}
	httpTimeout, err := parseDuration(v, "HTTP_TIMEOUT")
	if err != nil {
		return nil, err
	}
	cleanupInterval, err := parseDuration(v, "CLEANUP_INTERVAL")
	if err != nil {
		return nil, err
	}
	retryBaseDelay, err := parseDuration(v, "RETRY_BASE_DELAY")
	if err != nil {
		return nil, err
	}
	retryMaxDelay, err := parseDuration(v, "RETRY_MAX_DELAY")
	if err != nil {
		return nil, err
	}
	signatureTolerance, err := parseDuration(v, "SIGNATURE_TOLERANCE")
	if err != nil {
		return nil, err
	}
	rateLimitWindow, err := parseDuration(v, "RATE_LIMIT_WINDOW")
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port:        v.GetInt("SERVER_PORT"),
			Host:        v.GetString("SERVER_HOST"),
			MetricsPort: v.GetInt("METRICS_PORT"),
		},
		Database: DatabaseConfig{
			URL:      v.GetString("DATABASE_URL"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Security: SecurityConfig{
			APIJWTSecret: apiJWTSecret,
		},
		Webhook: WebhookConfig{
			UpstreamSecret:     upstreamSecret,
			SignatureTolerance: signatureTolerance,
			MergeOrder:         mergeOrder,
		},
		Worker: WorkerConfig{
			PollInterval:            pollInterval,
			BatchSize:               v.GetInt("WORKER_BATCH_SIZE"),
			ShutdownTimeout:         shutdownTimeout,
			MaxConcurrentDeliveries: v.GetInt("MAX_CONCURRENT_DELIVERIES"),
			HTTPTimeout:             httpTimeout,
			HTTPPoolSize:            v.GetInt("HTTP_POOL_SIZE"),
			PendingSoftCap:          v.GetInt("PENDING_SOFT_CAP"),
			AuditLogEnabled:         v.GetBool("AUDIT_LOG_ENABLED"),
			RetentionDays:           v.GetInt("DELIVERY_RETENTION_DAYS"),
			CleanupInterval:         cleanupInterval,
		},
		Retry: RetryConfig{
			BaseDelay:   retryBaseDelay,
			MaxDelay:    retryMaxDelay,
			MaxAttempts: v.GetInt("RETRY_MAX_ATTEMPTS"),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   rateLimitWindow,
		},
		Alert: AlertConfig{
			DeadLetterThreshold: v.GetInt("DEAD_LETTER_ALERT_THRESHOLD"),
			Email:               v.GetString("ALERT_EMAIL"),
			SMTP: SMTPConfig{
				Host:      v.GetString("ALERT_SMTP_HOST"),
				Port:      v.GetInt("ALERT_SMTP_PORT"),
				Username:  v.GetString("ALERT_SMTP_USERNAME"),
				Password:  v.GetString("ALERT_SMTP_PASSWORD"),
				FromEmail: v.GetString("ALERT_SMTP_FROM_EMAIL"),
				FromName:  v.GetString("ALERT_SMTP_FROM_NAME"),
			},
		},
		Tracing: TracingConfig{
			Enabled:             v.GetBool("TRACING_ENABLED"),
			ServiceName:         v.GetString("TRACING_SERVICE_NAME"),
			SamplingProbability: v.GetFloat64("TRACING_SAMPLING_PROBABILITY"),

			// Trace exporter configuration
			TraceExporter: v.GetString("TRACING_TRACE_EXPORTER"),

			// Jaeger settings
			JaegerEndpoint: v.GetString("TRACING_JAEGER_ENDPOINT"),

			// Zipkin settings
			ZipkinEndpoint: v.GetString("TRACING_ZIPKIN_ENDPOINT"),

			// Stackdriver settings
			StackdriverProjectID: v.GetString("TRACING_STACKDRIVER_PROJECT_ID"),

			// Datadog settings
			DatadogAgentAddress: v.GetString("TRACING_DATADOG_AGENT_ADDRESS"),
			DatadogAPIKey:       v.GetString("TRACING_DATADOG_API_KEY"),

			// AWS X-Ray settings
			XRayRegion: v.GetString("TRACING_XRAY_REGION"),

			// General agent endpoint (for exporters that support a common agent)
			AgentEndpoint: v.GetString("TRACING_AGENT_ENDPOINT"),

			// Metrics exporter configuration
			MetricsExporter: v.GetString("TRACING_METRICS_EXPORTER"),
		},

		Environment: v.GetString("ENVIRONMENT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		Version:     v.GetString("VERSION"),
	}

	return config, nil
}

// IsDevelopment returns true if the environment is set to development
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
