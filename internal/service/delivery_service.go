package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Callhook/callhook/config"
	"github.com/Callhook/callhook/internal/domain"
	"github.com/Callhook/callhook/internal/metrics"
	"github.com/Callhook/callhook/pkg/logger"
)

// DeliveryService owns enqueue fan-out and the management API operations on
// the delivery queue. Event-type filtering and custom-field merging happen
// here and nowhere else: queued rows are immutable snapshots.
type DeliveryService struct {
	queueRepo      domain.DeliveryQueueRepository
	attemptRepo    domain.DeliveryAttemptRepository
	webhookRepo    domain.PartnerWebhookRepository
	metrics        *metrics.Metrics
	logger         logger.Logger
	mergeOrder     string
	maxAttempts    int
	pendingSoftCap int
}

// NewDeliveryService creates a new DeliveryService
func NewDeliveryService(
	queueRepo domain.DeliveryQueueRepository,
	attemptRepo domain.DeliveryAttemptRepository,
	webhookRepo domain.PartnerWebhookRepository,
	metrics *metrics.Metrics,
	logger logger.Logger,
	mergeOrder string,
	maxAttempts int,
	pendingSoftCap int,
) *DeliveryService {
	if mergeOrder == "" {
		mergeOrder = config.MergeOrderPayloadWins
	}
	return &DeliveryService{
		queueRepo:      queueRepo,
		attemptRepo:    attemptRepo,
		webhookRepo:    webhookRepo,
		metrics:        metrics,
		logger:         logger,
		mergeOrder:     mergeOrder,
		maxAttempts:    maxAttempts,
		pendingSoftCap: pendingSoftCap,
	}
}

// EnqueueForAllPartners fans an event out to every enabled partner webhook
// subscribed to eventType, inside the caller's transaction. The url and
// secret are frozen onto each row so later partner edits never touch
// in-flight deliveries. Enqueue always succeeds when storage does; a tenant
// backlog over the soft cap only increments the overflow counter.
func (s *DeliveryService) EnqueueForAllPartners(ctx context.Context, tx *sql.Tx, tenantID, eventType string, payload domain.MapOfAny) (int, error) {
	webhooks, err := s.webhookRepo.ListEnabledForEvent(ctx, tenantID, eventType)
	if err != nil {
		return 0, fmt.Errorf("failed to list partner webhooks: %w", err)
	}
	if len(webhooks) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	deliveries := make([]*domain.WebhookDelivery, 0, len(webhooks))
	for _, webhook := range webhooks {
		deliveries = append(deliveries, &domain.WebhookDelivery{
			TenantID:         tenantID,
			PartnerWebhookID: &webhook.ID,
			URL:              webhook.URL,
			Secret:           webhook.Secret,
			EventType:        eventType,
			Payload:          mergePayload(payload, webhook.CustomPayloadFields, s.mergeOrder),
			Status:           domain.DeliveryStatusPending,
			MaxAttempts:      s.maxAttempts,
			NextRetryAt:      now,
			ScheduledAt:      now,
		})
	}

	if err := s.queueRepo.EnqueueTx(ctx, tx, deliveries); err != nil {
		return 0, fmt.Errorf("failed to enqueue deliveries: %w", err)
	}

	s.metrics.WebhooksQueued.WithLabelValues(eventType).Add(float64(len(deliveries)))
	s.checkSoftCap(ctx, tenantID, len(deliveries))

	return len(deliveries), nil
}

// checkSoftCap bumps the overflow counter when a tenant backlog exceeds the
// soft cap. Advisory only: enqueue never blocks or fails on backlog.
func (s *DeliveryService) checkSoftCap(ctx context.Context, tenantID string, added int) {
	if s.pendingSoftCap <= 0 {
		return
	}

	pending, err := s.queueRepo.CountPendingForTenant(ctx, tenantID)
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"tenant_id": tenantID,
			"error":     err.Error(),
		}).Warn("Failed to count pending deliveries for soft cap check")
		return
	}

	if pending+int64(added) > int64(s.pendingSoftCap) {
		s.metrics.WebhooksQueuedOverflow.WithLabelValues(tenantID).Add(float64(added))
		s.logger.WithFields(map[string]interface{}{
			"tenant_id": tenantID,
			"pending":   pending,
			"soft_cap":  s.pendingSoftCap,
		}).Warn("Tenant delivery backlog exceeds soft cap")
	}
}

// List returns queue rows matching the filter parameters.
func (s *DeliveryService) List(ctx context.Context, params domain.DeliveryListParams) ([]*domain.WebhookDelivery, int, error) {
	if params.TenantID == "" {
		return nil, 0, domain.NewValidationError("tenant_id is required")
	}
	return s.queueRepo.List(ctx, params)
}

// Get returns a single queue row scoped to the tenant.
func (s *DeliveryService) Get(ctx context.Context, tenantID, id string) (*domain.WebhookDelivery, error) {
	return s.queueRepo.GetByID(ctx, tenantID, id)
}

// Attempts returns the audit trail for a delivery, oldest attempt first.
func (s *DeliveryService) Attempts(ctx context.Context, tenantID, deliveryID string) ([]*domain.DeliveryAttempt, error) {
	if _, err := s.queueRepo.GetByID(ctx, tenantID, deliveryID); err != nil {
		return nil, err
	}
	return s.attemptRepo.ListByDelivery(ctx, tenantID, deliveryID)
}

// Replay clones a dead-lettered delivery into a fresh pending row carrying
// the same frozen url, secret and payload. The original row stays untouched:
// terminal states are immutable.
func (s *DeliveryService) Replay(ctx context.Context, tenantID, id string) (*domain.WebhookDelivery, error) {
	original, err := s.queueRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if original.Status != domain.DeliveryStatusDeadLetter {
		return nil, domain.NewValidationError("only dead-lettered deliveries can be replayed")
	}

	now := time.Now().UTC()
	clone := &domain.WebhookDelivery{
		TenantID:         original.TenantID,
		PartnerWebhookID: original.PartnerWebhookID,
		URL:              original.URL,
		Secret:           original.Secret,
		EventType:        original.EventType,
		Payload:          original.Payload,
		Status:           domain.DeliveryStatusPending,
		MaxAttempts:      original.MaxAttempts,
		NextRetryAt:      now,
		ScheduledAt:      now,
	}

	if err := s.queueRepo.Enqueue(ctx, clone); err != nil {
		return nil, fmt.Errorf("failed to enqueue replay: %w", err)
	}

	s.metrics.WebhooksQueued.WithLabelValues(clone.EventType).Inc()
	s.logger.WithFields(map[string]interface{}{
		"tenant_id":   tenantID,
		"original_id": original.ID,
		"replay_id":   clone.ID,
	}).Info("Replayed dead-lettered delivery")

	return clone, nil
}

// Stats aggregates the tenant's queue rows by status.
func (s *DeliveryService) Stats(ctx context.Context, tenantID string) (*domain.QueueStats, error) {
	if tenantID == "" {
		return nil, domain.NewValidationError("tenant_id is required")
	}
	return s.queueRepo.GetStats(ctx, tenantID)
}

// mergePayload combines the event payload with the partner's configured
// custom fields. The merge order decides which side wins a key collision;
// the result is always a fresh map so rows never share payload storage.
func mergePayload(payload, custom domain.MapOfAny, mergeOrder string) domain.MapOfAny {
	merged := make(domain.MapOfAny, len(payload)+len(custom))
	if mergeOrder == config.MergeOrderPartnerWins {
		for k, v := range payload {
			merged[k] = v
		}
		for k, v := range custom {
			merged[k] = v
		}
		return merged
	}

	for k, v := range custom {
		merged[k] = v
	}
	for k, v := range payload {
		merged[k] = v
	}
	return merged
}
