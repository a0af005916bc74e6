package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Callhook/callhook/config"
	"github.com/Callhook/callhook/internal/database"
	"github.com/Callhook/callhook/internal/domain"
	httpHandler "github.com/Callhook/callhook/internal/http"
	"github.com/Callhook/callhook/internal/http/middleware"
	"github.com/Callhook/callhook/internal/metrics"
	"github.com/Callhook/callhook/internal/migrations"
	"github.com/Callhook/callhook/internal/repository"
	"github.com/Callhook/callhook/internal/service"
	"github.com/Callhook/callhook/pkg/logger"
	"github.com/Callhook/callhook/pkg/mailer"
	"github.com/Callhook/callhook/pkg/ratelimiter"
	"github.com/Callhook/callhook/pkg/tracing"

	"contrib.go.opencensus.io/integrations/ocsql"
)

// ErrDatabaseUnavailable marks connection-level database failures, as
// opposed to schema or migration errors. main exits with a distinct code on
// this error so supervisors can tell a lost database from a bad config.
var ErrDatabaseUnavailable = errors.New("database unavailable")

// AppInterface defines the interface for the App
type AppInterface interface {
	Initialize() error
	Start() error
	Shutdown(ctx context.Context) error

	// Getters for app components accessed in tests
	GetConfig() *config.Config
	GetLogger() logger.Logger
	GetMux() *http.ServeMux
	GetDB() *sql.DB
	GetMailer() mailer.Mailer
	GetMetrics() *metrics.Metrics

	// Repository getters for testing
	GetCallLogRepository() domain.CallLogRepository
	GetUpstreamCallEventRepository() domain.UpstreamCallEventRepository
	GetCampaignRepository() domain.CampaignRepository
	GetPartnerWebhookRepository() domain.PartnerWebhookRepository
	GetDeliveryQueueRepository() domain.DeliveryQueueRepository
	GetDeliveryAttemptRepository() domain.DeliveryAttemptRepository
	GetSettingRepository() domain.SettingRepository

	// Server status methods
	IsServerCreated() bool
	WaitForServerStart(ctx context.Context) bool

	// Methods for initialization steps
	InitDB() error
	InitMailer() error
	InitTracing() error
	InitRepositories() error
	InitServices() error
	InitHandlers() error

	// Graceful shutdown methods
	SetShutdownTimeout(timeout time.Duration)
	GetActiveRequestCount() int64
	GetShutdownContext() context.Context
}

// App encapsulates the application dependencies and configuration
type App struct {
	config  *config.Config
	logger  logger.Logger
	db      *sql.DB
	mailer  mailer.Mailer
	metrics *metrics.Metrics
	limiter *ratelimiter.RateLimiter

	// Repositories
	callLogRepo  domain.CallLogRepository
	eventRepo    domain.UpstreamCallEventRepository
	campaignRepo domain.CampaignRepository
	webhookRepo  domain.PartnerWebhookRepository
	queueRepo    domain.DeliveryQueueRepository
	attemptRepo  domain.DeliveryAttemptRepository
	settingRepo  domain.SettingRepository

	// Services
	ingestService   *service.IngestService
	deliveryService *service.DeliveryService
	partnerService  *service.PartnerWebhookService
	alertService    *service.AlertService
	worker          *service.DeliveryWorker

	// HTTP handlers
	mux           *http.ServeMux
	rootHandler   *httpHandler.RootHandler
	server        *http.Server
	metricsServer *http.Server

	// Server synchronization
	serverMu      sync.RWMutex
	serverStarted chan struct{}

	// Delivery worker lifecycle
	workerCancel context.CancelFunc
	workerDone   chan struct{}

	// Graceful shutdown management
	shutdownCtx     context.Context
	shutdownCancel  context.CancelFunc
	activeRequests  int64          // atomic counter for active HTTP requests
	requestWg       sync.WaitGroup // wait group for active requests
	shutdownTimeout time.Duration  // configurable shutdown timeout

	// ocsqlStop halts periodic driver stats recording, set when tracing is on
	ocsqlStop func()
}

// AppOption defines a functional option for configuring the App
type AppOption func(*App)

// WithMockDB configures the app to use a mock database
func WithMockDB(db *sql.DB) AppOption {
	return func(a *App) {
		a.db = db
	}
}

// WithMockMailer configures the app to use a mock mailer
func WithMockMailer(m mailer.Mailer) AppOption {
	return func(a *App) {
		a.mailer = m
	}
}

// WithLogger sets a custom logger
func WithLogger(logger logger.Logger) AppOption {
	return func(a *App) {
		a.logger = logger
	}
}

// NewApp creates a new application instance
func NewApp(cfg *config.Config, opts ...AppOption) AppInterface {
	// Create shutdown context
	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())

	app := &App{
		config:          cfg,
		logger:          logger.NewLoggerWithLevel(cfg.LogLevel), // Use configured log level
		metrics:         metrics.New(),
		mux:             http.NewServeMux(),
		serverStarted:   make(chan struct{}),
		shutdownCtx:     shutdownCtx,
		shutdownCancel:  shutdownCancel,
		shutdownTimeout: 60 * time.Second, // Default 60 seconds shutdown timeout
	}

	// Apply options
	for _, opt := range opts {
		opt(app)
	}

	return app
}

// InitTracing initializes OpenCensus tracing
func (a *App) InitTracing() error {
	tracingConfig := &a.config.Tracing

	if err := tracing.InitTracing(tracingConfig, a.metrics.Registry()); err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if tracingConfig.Enabled {
		exporter := tracingConfig.TraceExporter
		if exporter == "" {
			exporter = "jaeger" // Default
		}

		metricsExporter := tracingConfig.MetricsExporter
		if metricsExporter == "" {
			metricsExporter = "prometheus" // Default
		}

		a.logger.WithField("trace_exporter", exporter).
			WithField("metrics_exporter", metricsExporter).
			WithField("sampling_rate", tracingConfig.SamplingProbability).
			Info("Tracing initialized successfully")
	}

	return nil
}

// InitDB initializes the database connection
func (a *App) InitDB() error {
	// A database injected via WithMockDB wins; schema and migrations are
	// the caller's responsibility.
	if a.db != nil {
		return nil
	}

	password := a.config.Database.Password
	maskedPassword := ""
	if len(password) > 0 {
		maskedPassword = fmt.Sprintf("%c...%c", password[0], password[len(password)-1])
	}
	a.logger.Info(fmt.Sprintf("Connecting to database %s:%d, user %s, sslmode %s, password: %s, dbname: %s", a.config.Database.Host, a.config.Database.Port, a.config.Database.User, a.config.Database.SSLMode, maskedPassword, a.config.Database.DBName))

	// A full DATABASE_URL implies the database already exists; only the
	// discrete-field form gets the existence check.
	if a.config.Database.URL == "" {
		if err := database.EnsureSystemDatabaseExists(database.GetPostgresDSN(&a.config.Database), a.config.Database.DBName); err != nil {
			a.logger.Error(err.Error())
			return fmt.Errorf("failed to ensure database exists: %w: %w", ErrDatabaseUnavailable, err)
		}
		a.logger.Info("Database existence check completed")
	}

	// If tracing is enabled, wrap the postgres driver
	driverName := "postgres"
	if a.config.Tracing.Enabled {
		var err error
		driverName, err = ocsql.Register(driverName, ocsql.WithAllTraceOptions())
		if err != nil {
			return fmt.Errorf("failed to register opencensus sql driver: %w", err)
		}
		a.logger.Info("Database driver wrapped with OpenCensus tracing")
	}

	// Connect to the database
	db, err := sql.Open(driverName, database.GetSystemDSN(&a.config.Database))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test database connection
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w: %w", ErrDatabaseUnavailable, err)
	}

	// Initialize database schema if needed
	if err := database.InitializeDatabase(db); err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	// Run migrations separately
	migrationManager := migrations.NewManager(a.logger)
	ctx := context.Background()
	if err := migrationManager.RunMigrations(ctx, a.config, db); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Set connection pool settings based on environment
	maxOpen, maxIdle, maxLifetime := database.GetConnectionPoolSettings()
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(maxLifetime)

	if a.config.Tracing.Enabled {
		a.ocsqlStop = ocsql.RecordStats(db, 5*time.Second)
	}

	a.db = db
	return nil
}

// InitMailer initializes the mailer used for dead-letter alert emails
func (a *App) InitMailer() error {
	// Skip if mailer already set (e.g., by mock)
	if a.mailer != nil {
		return nil
	}

	if a.config.IsDevelopment() || a.config.Alert.SMTP.Host == "" {
		// Use console mailer in development or when SMTP is not configured
		a.mailer = mailer.NewConsoleMailer()
		a.logger.Info("Using console mailer for dead-letter alerts")
	} else {
		// Use SMTP mailer in production
		a.mailer = mailer.NewSMTPMailer(&mailer.Config{
			SMTPHost:     a.config.Alert.SMTP.Host,
			SMTPPort:     a.config.Alert.SMTP.Port,
			SMTPUsername: a.config.Alert.SMTP.Username,
			SMTPPassword: a.config.Alert.SMTP.Password,
			FromEmail:    a.config.Alert.SMTP.FromEmail,
			FromName:     a.config.Alert.SMTP.FromName,
		})
		a.logger.Info("Using SMTP mailer for dead-letter alerts")
	}

	return nil
}

// InitRepositories initializes all repositories
func (a *App) InitRepositories() error {
	if a.db == nil {
		return fmt.Errorf("database must be initialized before repositories")
	}

	a.callLogRepo = repository.NewCallLogRepository(a.db)
	a.eventRepo = repository.NewUpstreamCallEventRepository(a.db)
	a.campaignRepo = repository.NewCampaignRepository(a.db)
	a.webhookRepo = repository.NewPartnerWebhookRepository(a.db)
	a.queueRepo = repository.NewDeliveryQueueRepository(a.db)
	a.attemptRepo = repository.NewDeliveryAttemptRepository(a.db)
	a.settingRepo = repository.NewSQLSettingRepository(a.db)

	return nil
}

// InitServices initializes all application services
func (a *App) InitServices() error {
	a.deliveryService = service.NewDeliveryService(
		a.queueRepo,
		a.attemptRepo,
		a.webhookRepo,
		a.metrics,
		a.logger,
		a.config.Webhook.MergeOrder,
		a.config.Retry.MaxAttempts,
		a.config.Worker.PendingSoftCap,
	)

	a.ingestService = service.NewIngestService(
		a.db,
		a.callLogRepo,
		a.eventRepo,
		a.campaignRepo,
		a.deliveryService,
		a.metrics,
		a.logger,
		a.config.Webhook.UpstreamSecret,
	)

	// Test sends from the management API share the worker's timeout.
	testClient := &http.Client{Timeout: a.config.Worker.HTTPTimeout}
	if a.config.Tracing.Enabled {
		testClient = tracing.WrapHTTPClient(testClient)
	}
	a.partnerService = service.NewPartnerWebhookService(a.webhookRepo, a.logger, testClient)

	a.alertService = service.NewAlertService(
		a.queueRepo,
		a.mailer,
		a.logger,
		a.config.Alert.DeadLetterThreshold,
		a.config.Alert.Email,
	)

	retryPolicy := service.NewRetryPolicy(
		a.config.Retry.BaseDelay,
		a.config.Retry.MaxDelay,
		a.config.Retry.MaxAttempts,
	)

	// The worker keeps its own client: delivery targets are partner-owned
	// endpoints, so the pool is bounded per host rather than in total.
	workerClient := &http.Client{
		Timeout: a.config.Worker.HTTPTimeout,
		Transport: &http.Transport{
			MaxIdleConnsPerHost: a.config.Worker.HTTPPoolSize,
		},
	}
	if a.config.Tracing.Enabled {
		workerClient = tracing.WrapHTTPClient(workerClient)
	}

	a.worker = service.NewDeliveryWorker(service.DeliveryWorkerConfig{
		QueueRepo:   a.queueRepo,
		AttemptRepo: a.attemptRepo,
		SettingRepo: a.settingRepo,
		RetryPolicy: retryPolicy,
		Notifier:    a.alertService,
		Metrics:     a.metrics,
		Logger:      a.logger,
		HTTPClient:  workerClient,

		PollInterval:            a.config.Worker.PollInterval,
		BatchSize:               a.config.Worker.BatchSize,
		ShutdownTimeout:         a.config.Worker.ShutdownTimeout,
		MaxConcurrentDeliveries: a.config.Worker.MaxConcurrentDeliveries,
		HTTPTimeout:             a.config.Worker.HTTPTimeout,
		AuditLogEnabled:         a.config.Worker.AuditLogEnabled,
		RetentionDays:           a.config.Worker.RetentionDays,
		CleanupInterval:         a.config.Worker.CleanupInterval,
	})

	// Rate limit policies: the public ingestion endpoint and the
	// token-authenticated management API.
	a.limiter = ratelimiter.NewRateLimiter()
	a.limiter.SetPolicy("webhooks", a.config.RateLimit.Requests, a.config.RateLimit.Window)
	a.limiter.SetPolicy("api", a.config.RateLimit.Requests, a.config.RateLimit.Window)

	return nil
}

// InitHandlers initializes the HTTP handlers and registers routes
func (a *App) InitHandlers() error {
	// Create a new ServeMux to avoid route conflicts on restart
	a.mux = http.NewServeMux()

	authMiddleware := middleware.NewAuthMiddleware([]byte(a.config.Security.APIJWTSecret), a.logger)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(a.limiter, a.logger)

	// Initialize handlers
	upstreamHandler := httpHandler.NewUpstreamWebhookHandler(a.ingestService, rateLimitMiddleware, a.logger)
	partnerHandler := httpHandler.NewPartnerWebhookHandler(a.partnerService, authMiddleware, rateLimitMiddleware, a.logger)
	deliveryHandler := httpHandler.NewDeliveryHandler(a.deliveryService, authMiddleware, rateLimitMiddleware, a.logger)
	a.rootHandler = httpHandler.NewRootHandler(a.db, a.logger, a.config.Version)

	// Register routes
	upstreamHandler.RegisterRoutes(a.mux)
	partnerHandler.RegisterRoutes(a.mux)
	deliveryHandler.RegisterRoutes(a.mux)
	a.rootHandler.RegisterRoutes(a.mux)

	return nil
}

// Start starts the HTTP server, the metrics listener and the delivery worker
func (a *App) Start() error {
	// Create server with wrapped handler for CORS and tracing
	var handler http.Handler = a.mux

	// Apply graceful shutdown middleware first (outermost)
	handler = a.gracefulShutdownMiddleware(handler)
	a.logger.Info("Graceful shutdown middleware enabled")

	// Apply tracing middleware if enabled
	if a.config.Tracing.Enabled {
		handler = middleware.TracingMiddleware(handler)
		a.logger.Info("OpenCensus tracing middleware enabled")
	}

	// Apply CORS middleware
	handler = middleware.CORSMiddleware(handler)

	addr := fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port)
	a.logger.WithField("address", addr).
		WithField("port", a.config.Server.Port).
		Info(fmt.Sprintf("Server starting on %s", addr))

	// Create a fresh notification channel and update the server
	a.serverMu.Lock()
	// Close the existing channel if it exists
	if a.serverStarted != nil {
		close(a.serverStarted)
	}
	a.serverStarted = make(chan struct{})

	// Create the server
	a.server = &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Get a reference to the channel before unlocking
	serverStarted := a.serverStarted
	a.serverMu.Unlock()

	// Signal that the server has been created and is about to start
	close(serverStarted)

	// Start the delivery worker and the metrics listener
	a.startWorker()
	a.startMetricsServer()
	a.startLimiterGaugeLoop()

	return a.server.ListenAndServe()
}

// startLimiterGaugeLoop samples the rate limiter's live bucket count into
// the tracked-identities gauge until shutdown.
func (a *App) startLimiterGaugeLoop() {
	if a.limiter == nil {
		return
	}

	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				a.metrics.RateLimitTrackedIdentities.Set(float64(a.limiter.TrackedIdentities()))
			case <-a.shutdownCtx.Done():
				return
			}
		}
	}()
}

// startWorker launches the delivery worker loop in its own goroutine. The
// worker gets a context independent of request handling so shutdown can
// cancel it first and wait for in-flight deliveries.
func (a *App) startWorker() {
	if a.worker == nil {
		return
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	a.workerCancel = workerCancel
	done := make(chan struct{})
	a.workerDone = done

	go func() {
		defer close(done)
		a.worker.Start(workerCtx)
	}()

	a.logger.WithField("worker_id", a.worker.WorkerID()).Info("Delivery worker started")
}

// startMetricsServer exposes /metrics and /health on a dedicated port so
// operational endpoints never share the partner-facing listener. A port of
// zero disables the listener.
func (a *App) startMetricsServer() {
	if a.config.Server.MetricsPort <= 0 {
		return
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", a.metrics.Handler())
	if a.rootHandler != nil {
		metricsMux.HandleFunc("/health", a.rootHandler.HandleHealth)
	}

	addr := fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.MetricsPort)
	a.metricsServer = &http.Server{
		Addr:    addr,
		Handler: metricsMux,
	}

	go func() {
		a.logger.WithField("address", addr).Info("Metrics server starting")
		if err := a.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.WithField("error", err.Error()).Error("Metrics server stopped with error")
		}
	}()
}

// stopWorker cancels the delivery worker and waits for it to finish its
// in-flight deliveries, bounded by the worker's own shutdown timeout plus
// slack for the poll loop to wake up.
func (a *App) stopWorker() {
	if a.workerCancel == nil {
		return
	}

	a.logger.Info("Stopping delivery worker...")
	a.workerCancel()

	grace := a.config.Worker.ShutdownTimeout
	if grace <= 0 {
		grace = 30 * time.Second
	}
	grace += 5 * time.Second

	select {
	case <-a.workerDone:
		a.logger.Info("Delivery worker stopped")
	case <-time.After(grace):
		a.logger.Warn("Delivery worker did not stop within grace period")
	}
}

// Shutdown gracefully shuts down the server
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Starting graceful shutdown...")

	// Signal shutdown to all components
	a.shutdownCancel()

	// Stop the worker before anything else: it holds claimed queue rows
	// and needs the database to record their final state.
	a.stopWorker()

	// Get server reference
	a.serverMu.RLock()
	server := a.server
	a.serverMu.RUnlock()

	if server == nil {
		a.logger.Info("No server to shutdown")
		return a.cleanupResources(ctx)
	}

	// Log current active requests
	activeCount := a.getActiveRequestCount()
	a.logger.WithField("active_requests", activeCount).Info("Active requests at shutdown start")

	// Create a timeout context for shutdown operations
	shutdownTimeout := a.shutdownTimeout
	if deadline, ok := ctx.Deadline(); ok {
		// Use the provided context deadline if it's sooner than our default timeout
		if remaining := time.Until(deadline); remaining < shutdownTimeout {
			shutdownTimeout = remaining - time.Second // Leave 1 second buffer
			if shutdownTimeout < 0 {
				shutdownTimeout = 0
			}
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	// Start HTTP server shutdown in a goroutine
	serverShutdownDone := make(chan error, 1)
	go func() {
		a.logger.WithField("timeout", shutdownTimeout).Info("Starting HTTP server shutdown")
		serverShutdownDone <- server.Shutdown(shutdownCtx)
	}()

	// Wait for active requests to complete in another goroutine
	requestsDone := make(chan struct{}, 1)
	go func() {
		defer close(requestsDone)

		// Wait for all active requests to complete
		a.logger.Info("Waiting for active requests to complete...")
		done := make(chan struct{})

		go func() {
			a.requestWg.Wait()
			close(done)
		}()

		// Monitor progress
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				a.logger.Info("All requests completed")
				return
			case <-ticker.C:
				activeCount := a.getActiveRequestCount()
				a.logger.WithField("active_requests", activeCount).Info("Still waiting for requests to complete...")
			case <-shutdownCtx.Done():
				activeCount := a.getActiveRequestCount()
				a.logger.WithField("active_requests", activeCount).Warn("Shutdown timeout reached, forcing shutdown")
				return
			}
		}
	}()

	// Wait for both server shutdown and requests to complete
	var shutdownErr error

	select {
	case err := <-serverShutdownDone:
		shutdownErr = err
		a.logger.Info("HTTP server shutdown completed")
	case <-shutdownCtx.Done():
		a.logger.Warn("Shutdown timeout reached")
		shutdownErr = fmt.Errorf("shutdown timeout exceeded")
	}

	// Wait a bit more for requests to finish if server shutdown completed quickly
	if shutdownErr == nil {
		select {
		case <-requestsDone:
			// All requests completed
		case <-time.After(2 * time.Second):
			// Give up after 2 more seconds
			activeCount := a.getActiveRequestCount()
			if activeCount > 0 {
				a.logger.WithField("active_requests", activeCount).Warn("Some requests still active, proceeding with shutdown")
			}
		}
	}

	// Cleanup resources
	if cleanupErr := a.cleanupResources(ctx); cleanupErr != nil {
		a.logger.WithField("error", cleanupErr).Error("Error during resource cleanup")
		if shutdownErr == nil {
			shutdownErr = cleanupErr
		}
	}

	if shutdownErr != nil {
		a.logger.WithField("error", shutdownErr).Error("Graceful shutdown completed with errors")
	} else {
		a.logger.Info("Graceful shutdown completed successfully")
	}

	return shutdownErr
}

// cleanupResources handles cleanup of the metrics listener, rate limiter
// and database connection
func (a *App) cleanupResources(ctx context.Context) error {
	a.logger.Info("Cleaning up resources...")

	// Stop the metrics listener
	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			a.logger.WithField("error", err).Error("Error shutting down metrics server")
		}
	}

	// Stop the rate limiter sweeper
	if a.limiter != nil {
		a.limiter.Stop()
	}

	// Close database connection if it exists
	if a.db != nil {
		// Stop periodic driver stats recording before closing
		if a.ocsqlStop != nil {
			a.ocsqlStop()
		}

		a.logger.Info("Closing database connection")
		if err := a.db.Close(); err != nil {
			a.logger.WithField("error", err).Error("Error closing database connection")
			return err
		}
	}

	a.logger.Info("Resource cleanup completed")
	return nil
}

// IsServerCreated safely checks if the server has been created
func (a *App) IsServerCreated() bool {
	a.serverMu.RLock()
	defer a.serverMu.RUnlock()
	return a.server != nil
}

// WaitForServerStart waits for the server to be created and initialized
// Returns true if the server started successfully, false if context expired
func (a *App) WaitForServerStart(ctx context.Context) bool {
	// Get the current channel under lock
	a.serverMu.RLock()
	started := a.serverStarted
	a.serverMu.RUnlock()

	// If the channel is nil, that's a logic error - just wait on the context
	if started == nil {
		a.logger.Error("serverStarted channel is nil - server initialization error")
		<-ctx.Done()
		return false
	}

	// Wait for signal or timeout
	select {
	case <-started:
		return a.IsServerCreated() // Double-check server was created
	case <-ctx.Done():
		return false
	}
}

// Initialize sets up all components of the application
func (a *App) Initialize() error {
	a.logger.WithField("version", a.config.Version).Info("Starting Callhook application")

	if err := a.InitTracing(); err != nil {
		return err
	}

	if err := a.InitDB(); err != nil {
		return err
	}

	if err := a.InitMailer(); err != nil {
		return err
	}

	if err := a.InitRepositories(); err != nil {
		return err
	}

	if err := a.InitServices(); err != nil {
		return err
	}

	if err := a.InitHandlers(); err != nil {
		return err
	}

	a.logger.Info("Application successfully initialized")

	return nil
}

// GetConfig returns the app's configuration
func (a *App) GetConfig() *config.Config {
	return a.config
}

// GetLogger returns the app's logger
func (a *App) GetLogger() logger.Logger {
	return a.logger
}

// GetMux returns the app's HTTP multiplexer
func (a *App) GetMux() *http.ServeMux {
	return a.mux
}

// GetDB returns the app's database connection
func (a *App) GetDB() *sql.DB {
	return a.db
}

// GetMailer returns the app's mailer
func (a *App) GetMailer() mailer.Mailer {
	return a.mailer
}

// GetMetrics returns the app's metrics registry
func (a *App) GetMetrics() *metrics.Metrics {
	return a.metrics
}

// Repository getters for testing
func (a *App) GetCallLogRepository() domain.CallLogRepository {
	return a.callLogRepo
}

func (a *App) GetUpstreamCallEventRepository() domain.UpstreamCallEventRepository {
	return a.eventRepo
}

func (a *App) GetCampaignRepository() domain.CampaignRepository {
	return a.campaignRepo
}

func (a *App) GetPartnerWebhookRepository() domain.PartnerWebhookRepository {
	return a.webhookRepo
}

func (a *App) GetDeliveryQueueRepository() domain.DeliveryQueueRepository {
	return a.queueRepo
}

func (a *App) GetDeliveryAttemptRepository() domain.DeliveryAttemptRepository {
	return a.attemptRepo
}

func (a *App) GetSettingRepository() domain.SettingRepository {
	return a.settingRepo
}

// SetHandler allows setting a custom HTTP handler
func (a *App) SetHandler(handler http.Handler) {
	a.mux = handler.(*http.ServeMux)
}

// incrementActiveRequests atomically increments the active request counter
func (a *App) incrementActiveRequests() {
	atomic.AddInt64(&a.activeRequests, 1)
	a.requestWg.Add(1)
}

// decrementActiveRequests atomically decrements the active request counter
func (a *App) decrementActiveRequests() {
	atomic.AddInt64(&a.activeRequests, -1)
	a.requestWg.Done()
}

// getActiveRequestCount returns the current number of active requests
func (a *App) getActiveRequestCount() int64 {
	return atomic.LoadInt64(&a.activeRequests)
}

// GetActiveRequestCount returns the current number of active requests (public interface method)
func (a *App) GetActiveRequestCount() int64 {
	return a.getActiveRequestCount()
}

// SetShutdownTimeout sets the timeout for graceful shutdown
func (a *App) SetShutdownTimeout(timeout time.Duration) {
	a.shutdownTimeout = timeout
	a.logger.WithField("shutdown_timeout", timeout).Info("Shutdown timeout configured")
}

// GetShutdownContext returns the shutdown context for components that need to watch for shutdown
func (a *App) GetShutdownContext() context.Context {
	return a.shutdownCtx
}

// isShuttingDown returns true if the application is in shutdown mode
func (a *App) isShuttingDown() bool {
	select {
	case <-a.shutdownCtx.Done():
		return true
	default:
		return false
	}
}

// gracefulShutdownMiddleware wraps HTTP handlers to track active requests
func (a *App) gracefulShutdownMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Check if we're shutting down
		if a.isShuttingDown() {
			// Return 503 Service Unavailable if we're shutting down
			http.Error(w, "Server is shutting down", http.StatusServiceUnavailable)
			return
		}

		// Track this request
		a.incrementActiveRequests()
		defer a.decrementActiveRequests()

		// Add shutdown context to request context
		ctx := r.Context()
		ctx = context.WithValue(ctx, "shutdown_ctx", a.shutdownCtx)
		r = r.WithContext(ctx)

		// Call the next handler
		next.ServeHTTP(w, r)
	})
}

// Ensure App implements AppInterface
var _ AppInterface = (*App)(nil)
