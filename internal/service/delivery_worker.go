package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/Callhook/callhook/internal/domain"
	"github.com/Callhook/callhook/internal/metrics"
	"github.com/Callhook/callhook/pkg/logger"
	"github.com/Callhook/callhook/pkg/signer"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// maxStoredResponseBytes caps the response body persisted per attempt.
const maxStoredResponseBytes = 1024

// maxStoredErrorLen caps last_error and error_message columns.
const maxStoredErrorLen = 512

// queueGaugeInterval is how often the worker refreshes the queue_size and
// queue_oldest_age_seconds gauges.
const queueGaugeInterval = 30 * time.Second

// recordTimeout bounds the status-update transaction after an attempt.
const recordTimeout = 30 * time.Second

// DeliveryWorkerConfig contains the dependencies and knobs for one worker loop.
type DeliveryWorkerConfig struct {
	QueueRepo   domain.DeliveryQueueRepository
	AttemptRepo domain.DeliveryAttemptRepository
	SettingRepo domain.SettingRepository
	RetryPolicy *RetryPolicy
	Notifier    DeadLetterNotifier
	Metrics     *metrics.Metrics
	Logger      logger.Logger
	HTTPClient  *http.Client

	PollInterval            time.Duration
	BatchSize               int
	ShutdownTimeout         time.Duration
	MaxConcurrentDeliveries int
	HTTPTimeout             time.Duration
	AuditLogEnabled         bool
	RetentionDays           int
	CleanupInterval         time.Duration
}

// DeliveryWorker drains the webhook delivery queue: claim a batch, POST each
// row concurrently with its frozen signature, classify the result through the
// retry policy and record exactly one audit row per physical attempt. Safe to
// run as multiple replicas; the claim query is the only coordination point.
type DeliveryWorker struct {
	queueRepo   domain.DeliveryQueueRepository
	attemptRepo domain.DeliveryAttemptRepository
	settingRepo domain.SettingRepository
	retryPolicy *RetryPolicy
	notifier    DeadLetterNotifier
	metrics     *metrics.Metrics
	logger      logger.Logger
	httpClient  *http.Client
	workerID    string

	pollInterval    time.Duration
	batchSize       int
	shutdownTimeout time.Duration
	sem             *semaphore.Weighted
	httpTimeout     time.Duration
	auditEnabled    bool
	retentionDays   int
	cleanupInterval time.Duration

	lastCleanupTime time.Time
	lastGaugeTime   time.Time
}

// NewDeliveryWorker creates a new delivery worker with its own identity.
// Zero-valued knobs fall back to the documented defaults.
func NewDeliveryWorker(config DeliveryWorkerConfig) *DeliveryWorker {
	if config.PollInterval <= 0 {
		config.PollInterval = 5 * time.Second
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 10
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 30 * time.Second
	}
	if config.MaxConcurrentDeliveries <= 0 {
		config.MaxConcurrentDeliveries = 10
	}
	if config.HTTPTimeout <= 0 {
		config.HTTPTimeout = 30 * time.Second
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 1 * time.Hour
	}
	if config.RetryPolicy == nil {
		config.RetryPolicy = NewRetryPolicy(0, 0, 0)
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{
			Timeout: config.HTTPTimeout,
		}
	}

	return &DeliveryWorker{
		queueRepo:       config.QueueRepo,
		attemptRepo:     config.AttemptRepo,
		settingRepo:     config.SettingRepo,
		retryPolicy:     config.RetryPolicy,
		notifier:        config.Notifier,
		metrics:         config.Metrics,
		logger:          config.Logger,
		httpClient:      config.HTTPClient,
		workerID:        workerIdentity(),
		pollInterval:    config.PollInterval,
		batchSize:       config.BatchSize,
		shutdownTimeout: config.ShutdownTimeout,
		sem:             semaphore.NewWeighted(int64(config.MaxConcurrentDeliveries)),
		httpTimeout:     config.HTTPTimeout,
		auditEnabled:    config.AuditLogEnabled,
		retentionDays:   config.RetentionDays,
		cleanupInterval: config.CleanupInterval,
	}
}

// workerIdentity builds the claimed_by value. Host and pid identify the
// process for operators; the uuid disambiguates restarts within one second.
func workerIdentity() string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return fmt.Sprintf("%s-%d-%s", host, os.Getpid(), uuid.New().String())
}

// WorkerID returns the claimed_by identity of this worker.
func (w *DeliveryWorker) WorkerID() string {
	return w.workerID
}

// Start runs the worker loop until ctx is canceled. It blocks; run it in a
// goroutine. On cancel the loop stops claiming and waits up to the shutdown
// grace period for in-flight deliveries before returning.
func (w *DeliveryWorker) Start(ctx context.Context) {
	w.logger.WithFields(map[string]interface{}{
		"worker_id":  w.workerID,
		"batch_size": w.batchSize,
	}).Info("Delivery worker started")

	w.reapAbandoned(ctx)

	for {
		if ctx.Err() != nil {
			w.logger.WithField("worker_id", w.workerID).Info("Delivery worker stopping")
			return
		}

		w.refreshQueueGauges(ctx)
		w.cleanupOldDeliveries(ctx)

		processed := w.processBatch(ctx)
		if processed > 0 {
			// A full queue is drained back to back; only an empty claim sleeps.
			continue
		}

		select {
		case <-ctx.Done():
			w.logger.WithField("worker_id", w.workerID).Info("Delivery worker stopping")
			return
		case <-time.After(w.pollInterval):
		}
	}
}

// reapAbandoned returns in_flight rows orphaned by a hard exit to pending.
// Runs once per worker startup; the cutoff of twice the request timeout
// guarantees the claiming process cannot still be mid-POST.
func (w *DeliveryWorker) reapAbandoned(ctx context.Context) {
	requeued, err := w.queueRepo.RequeueAbandoned(ctx, 2*w.httpTimeout)
	if err != nil {
		w.logger.WithField("error", err.Error()).Error("Failed to requeue abandoned deliveries")
		return
	}
	if requeued > 0 {
		w.logger.WithFields(map[string]interface{}{
			"worker_id": w.workerID,
			"requeued":  requeued,
		}).Info("Requeued abandoned deliveries")
	}
}

// processBatch claims up to batchSize due rows and delivers them concurrently,
// bounded by the semaphore. It joins the batch before returning so a claimed
// row is always resolved or left for the reaper, never silently dropped.
// Returns the number of rows claimed.
func (w *DeliveryWorker) processBatch(ctx context.Context) int {
	deliveries, err := w.queueRepo.ClaimBatch(ctx, w.workerID, w.batchSize)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.WithField("error", err.Error()).Error("Failed to claim deliveries")
		}
		return 0
	}
	if len(deliveries) == 0 {
		return 0
	}

	w.logger.WithFields(map[string]interface{}{
		"worker_id": w.workerID,
		"count":     len(deliveries),
	}).Debug("Processing claimed deliveries")

	var wg sync.WaitGroup
	for _, delivery := range deliveries {
		if err := w.sem.Acquire(ctx, 1); err != nil {
			// Shutdown mid-batch. Unstarted rows stay in_flight and are
			// recovered by the next startup reaper.
			break
		}
		wg.Add(1)
		w.metrics.ActiveWorkers.Inc()
		go func(delivery *domain.WebhookDelivery) {
			defer wg.Done()
			defer w.sem.Release(1)
			defer w.metrics.ActiveWorkers.Dec()
			w.processDelivery(delivery)
		}(delivery)
	}

	w.waitBatch(ctx, &wg)
	return len(deliveries)
}

// waitBatch joins the in-flight goroutines. Under normal operation it waits
// for the whole batch; once ctx is canceled the wait is capped by the
// shutdown grace period and abandoned rows are left to the reaper.
func (w *DeliveryWorker) waitBatch(ctx context.Context, wg *sync.WaitGroup) {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		select {
		case <-done:
		case <-time.After(w.shutdownTimeout):
			w.logger.WithField("worker_id", w.workerID).Warn("Shutdown grace period expired with deliveries still in flight")
		}
	}
}

// attemptResult captures everything observed during one physical attempt.
type attemptResult struct {
	requestHeaders  domain.MapOfAny
	requestBody     *string
	responseStatus  *int
	responseHeaders domain.MapOfAny
	responseBody    *string
	latency         time.Duration
	errorMessage    *string
	networkError    bool

	// permanent marks failures no retry can fix: unparseable URL, payload
	// that cannot be serialized, missing secret.
	permanent bool
}

func (r *attemptResult) success() bool {
	return r.responseStatus != nil && *r.responseStatus >= 200 && *r.responseStatus < 300
}

// processDelivery performs one physical attempt and records its outcome. The
// attempt runs on its own deadline, detached from the loop context, so that
// shutdown never aborts a POST that already went out before its result is
// written back.
func (w *DeliveryWorker) processDelivery(delivery *domain.WebhookDelivery) {
	started := time.Now()
	result := w.attempt(delivery)
	w.record(delivery, result)
	w.metrics.ProcessingDuration.Observe(time.Since(started).Seconds())
}

// attempt signs the frozen payload and POSTs it to the frozen URL. Filtering
// and custom-field merging happened at enqueue time; the row snapshot is
// trusted as is.
func (w *DeliveryWorker) attempt(delivery *domain.WebhookDelivery) *attemptResult {
	result := &attemptResult{}

	payloadBytes, err := json.Marshal(delivery.Payload)
	if err != nil {
		result.permanent = true
		result.errorMessage = truncateError(fmt.Sprintf("marshal payload: %v", err))
		return result
	}

	if err := validateTargetURL(delivery.URL); err != nil {
		result.permanent = true
		result.errorMessage = truncateError(err.Error())
		return result
	}

	signature, timestamp, body, err := signer.Sign(payloadBytes, delivery.Secret, time.Now().UTC())
	if err != nil {
		result.permanent = true
		result.errorMessage = truncateError(fmt.Sprintf("sign payload: %v", err))
		return result
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.httpTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, delivery.URL, bytes.NewReader(body))
	if err != nil {
		result.permanent = true
		result.errorMessage = truncateError(fmt.Sprintf("build request: %v", err))
		return result
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(signer.HeaderSignature, signature)
	req.Header.Set(signer.HeaderTimestamp, timestamp)
	req.Header.Set("User-Agent", signer.UserAgent)

	if w.auditEnabled {
		requestBody := string(body)
		result.requestBody = &requestBody
		result.requestHeaders = domain.MapOfAny{
			"Content-Type":         "application/json",
			signer.HeaderSignature: signature,
			signer.HeaderTimestamp: timestamp,
			"User-Agent":           signer.UserAgent,
		}
	}

	sent := time.Now()
	resp, err := w.httpClient.Do(req)
	result.latency = time.Since(sent)
	if err != nil {
		result.networkError = true
		result.errorMessage = truncateError(err.Error())
		return result
	}
	defer resp.Body.Close()

	status := resp.StatusCode
	result.responseStatus = &status

	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxStoredResponseBytes))
	responseBody := string(bodyBytes)
	result.responseBody = &responseBody

	if w.auditEnabled {
		result.responseHeaders = flattenHeaders(resp.Header)
	}
	if !result.success() {
		result.errorMessage = truncateError(fmt.Sprintf("HTTP %d", status))
	}

	return result
}

// record classifies the attempt through the retry policy and persists the
// queue-row transition together with the audit row in one transaction.
func (w *DeliveryWorker) record(delivery *domain.WebhookDelivery, result *attemptResult) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	attempt := w.buildAttempt(delivery, result)
	attemptNumber := delivery.AttemptCount + 1

	if result.success() {
		if err := w.queueRepo.MarkDelivered(ctx, delivery, result.responseStatus, attempt); err != nil {
			w.logger.WithFields(map[string]interface{}{
				"delivery_id": delivery.ID,
				"error":       err.Error(),
			}).Error("Failed to mark delivery as delivered")
			return
		}
		w.metrics.WebhooksDelivered.WithLabelValues(delivery.EventType).Inc()
		w.observeLatency(delivery, result)
		w.logger.WithFields(map[string]interface{}{
			"delivery_id": delivery.ID,
			"tenant_id":   delivery.TenantID,
			"status_code": *result.responseStatus,
			"attempt":     attemptNumber,
		}).Debug("Webhook delivered")
		return
	}

	errorMsg := "delivery failed"
	if result.errorMessage != nil {
		errorMsg = *result.errorMessage
	}
	w.metrics.WebhooksFailed.WithLabelValues(delivery.EventType, statusLabel(result.responseStatus)).Inc()
	w.observeLatency(delivery, result)

	retryable := !result.permanent && w.retryPolicy.Retryable(result.responseStatus)
	exhausted := w.retryPolicy.Exhausted(attemptNumber, delivery.MaxAttempts)

	if !retryable || exhausted {
		if err := w.queueRepo.MarkDeadLetter(ctx, delivery, result.responseStatus, errorMsg, attempt); err != nil {
			w.logger.WithFields(map[string]interface{}{
				"delivery_id": delivery.ID,
				"error":       err.Error(),
			}).Error("Failed to mark delivery as dead letter")
			return
		}
		w.metrics.WebhooksDeadLetter.Inc()
		w.logger.WithFields(map[string]interface{}{
			"delivery_id": delivery.ID,
			"tenant_id":   delivery.TenantID,
			"attempts":    attemptNumber,
			"retryable":   retryable,
			"error":       errorMsg,
		}).Warn("Webhook delivery dead lettered")
		if w.notifier != nil {
			w.notifier.NotifyDeadLetter(ctx, delivery)
		}
		return
	}

	nextRetryAt := time.Now().UTC().Add(w.retryPolicy.NextDelay(delivery.AttemptCount))
	if err := w.queueRepo.ScheduleRetry(ctx, delivery, nextRetryAt, result.responseStatus, errorMsg, attempt); err != nil {
		w.logger.WithFields(map[string]interface{}{
			"delivery_id": delivery.ID,
			"error":       err.Error(),
		}).Error("Failed to schedule delivery retry")
		return
	}
	w.metrics.RetryAttempts.WithLabelValues(strconv.Itoa(attemptNumber)).Inc()
	w.logger.WithFields(map[string]interface{}{
		"delivery_id":   delivery.ID,
		"tenant_id":     delivery.TenantID,
		"attempt":       attemptNumber,
		"next_retry_at": nextRetryAt.Format(time.RFC3339),
		"error":         errorMsg,
	}).Debug("Webhook delivery failed, retry scheduled")
}

// buildAttempt assembles the audit row, or nil when audit logging is off.
func (w *DeliveryWorker) buildAttempt(delivery *domain.WebhookDelivery, result *attemptResult) *domain.DeliveryAttempt {
	if !w.auditEnabled {
		return nil
	}
	return &domain.DeliveryAttempt{
		DeliveryID:       &delivery.ID,
		TenantID:         delivery.TenantID,
		AttemptNumber:    delivery.AttemptCount + 1,
		AttemptTimestamp: time.Now().UTC(),
		TargetURL:        delivery.URL,
		RequestHeaders:   result.requestHeaders,
		RequestBody:      result.requestBody,
		ResponseStatus:   result.responseStatus,
		ResponseHeaders:  result.responseHeaders,
		ResponseBody:     result.responseBody,
		ResponseTimeMs:   result.latency.Milliseconds(),
		ErrorMessage:     result.errorMessage,
		NetworkError:     result.networkError,
		Success:          result.success(),
	}
}

// observeLatency records the round trip time for completed requests. Attempts
// that never reached the wire carry no meaningful latency.
func (w *DeliveryWorker) observeLatency(delivery *domain.WebhookDelivery, result *attemptResult) {
	if result.responseStatus == nil {
		return
	}
	partner := ""
	if delivery.PartnerWebhookID != nil {
		partner = *delivery.PartnerWebhookID
	}
	w.metrics.DeliveryLatency.WithLabelValues(partner).Observe(result.latency.Seconds())
}

// refreshQueueGauges updates the queue_size and oldest-age gauges from a
// cross-tenant aggregate, at most once per interval.
func (w *DeliveryWorker) refreshQueueGauges(ctx context.Context) {
	if time.Since(w.lastGaugeTime) < queueGaugeInterval {
		return
	}
	w.lastGaugeTime = time.Now()

	stats, err := w.queueRepo.GetStats(ctx, "")
	if err != nil {
		if ctx.Err() == nil {
			w.logger.WithField("error", err.Error()).Error("Failed to read queue stats")
		}
		return
	}

	w.metrics.QueueSize.WithLabelValues(domain.DeliveryStatusPending).Set(float64(stats.Pending))
	w.metrics.QueueSize.WithLabelValues(domain.DeliveryStatusInFlight).Set(float64(stats.InFlight))
	w.metrics.QueueSize.WithLabelValues(domain.DeliveryStatusDelivered).Set(float64(stats.Delivered))
	w.metrics.QueueSize.WithLabelValues(domain.DeliveryStatusFailed).Set(float64(stats.Failed))
	w.metrics.QueueSize.WithLabelValues(domain.DeliveryStatusDeadLetter).Set(float64(stats.DeadLetter))
	w.metrics.QueueOldestAge.Set(stats.OldestPendingAgeSeconds)
}

// cleanupOldDeliveries purges terminal queue rows and audit rows past the
// retention window, at most once per cleanup interval. Retention of zero or
// less disables the purge. The last run timestamp is persisted in settings so
// restarts do not trigger an immediate purge.
func (w *DeliveryWorker) cleanupOldDeliveries(ctx context.Context) {
	if w.retentionDays <= 0 {
		return
	}
	if w.lastCleanupTime.IsZero() && w.settingRepo != nil {
		if last, err := w.settingRepo.GetLastCleanupRun(ctx); err != nil {
			w.logger.WithField("error", err.Error()).Error("Failed to read last cleanup run")
		} else if last != nil {
			w.lastCleanupTime = *last
		}
	}
	if time.Since(w.lastCleanupTime) < w.cleanupInterval {
		return
	}
	w.lastCleanupTime = time.Now()

	cutoff := time.Now().UTC().AddDate(0, 0, -w.retentionDays)

	deleted, err := w.queueRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		w.logger.WithField("error", err.Error()).Error("Failed to cleanup old deliveries")
		return
	}

	var deletedAttempts int64
	if w.attemptRepo != nil {
		deletedAttempts, err = w.attemptRepo.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			w.logger.WithField("error", err.Error()).Error("Failed to cleanup old delivery attempts")
		}
	}

	if w.settingRepo != nil {
		if err := w.settingRepo.SetLastCleanupRun(ctx, w.lastCleanupTime); err != nil {
			w.logger.WithField("error", err.Error()).Error("Failed to persist last cleanup run")
		}
	}

	if deleted > 0 || deletedAttempts > 0 {
		w.logger.WithFields(map[string]interface{}{
			"deliveries": deleted,
			"attempts":   deletedAttempts,
		}).Info("Cleaned up deliveries past retention")
	}
}

// validateTargetURL rejects rows whose frozen URL cannot be dispatched at
// all. These go straight to dead_letter without an HTTP call.
func validateTargetURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid url: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid url: missing host")
	}
	return nil
}

// statusLabel renders a response status for the failure counter; attempts
// that never completed are labeled network.
func statusLabel(status *int) string {
	if status == nil {
		return "network"
	}
	return strconv.Itoa(*status)
}

// flattenHeaders keeps the first value per header for the audit row.
func flattenHeaders(h http.Header) domain.MapOfAny {
	out := make(domain.MapOfAny, len(h))
	for key := range h {
		out[key] = h.Get(key)
	}
	return out
}

// truncateError bounds operator-facing error strings for storage.
func truncateError(msg string) *string {
	if len(msg) > maxStoredErrorLen {
		msg = msg[:maxStoredErrorLen]
	}
	return &msg
}
