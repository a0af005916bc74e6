package service

import (
	"context"
	"sync"
	"time"

	"github.com/Callhook/callhook/internal/domain"
	"github.com/Callhook/callhook/pkg/logger"
	"github.com/Callhook/callhook/pkg/mailer"
)

// alertWindow is the sliding window the dead-letter threshold applies to.
const alertWindow = 24 * time.Hour

// DeadLetterNotifier is told about every delivery the worker dead-letters.
type DeadLetterNotifier interface {
	NotifyDeadLetter(ctx context.Context, delivery *domain.WebhookDelivery)
}

// AlertService emails an operator when a tenant accumulates too many
// dead-lettered deliveries, at most once per tenant per window.
type AlertService struct {
	queueRepo  domain.DeliveryQueueRepository
	mailer     mailer.Mailer
	logger     logger.Logger
	threshold  int
	alertEmail string

	mu          sync.Mutex
	lastAlerted map[string]time.Time
}

// NewAlertService creates a new alert service. A threshold of zero (or less)
// disables alerting entirely.
func NewAlertService(
	queueRepo domain.DeliveryQueueRepository,
	mailer mailer.Mailer,
	logger logger.Logger,
	threshold int,
	alertEmail string,
) *AlertService {
	return &AlertService{
		queueRepo:   queueRepo,
		mailer:      mailer,
		logger:      logger,
		threshold:   threshold,
		alertEmail:  alertEmail,
		lastAlerted: make(map[string]time.Time),
	}
}

// NotifyDeadLetter compares the tenant's dead-letter count over the window
// against the threshold and raises the alert when crossed. The alert is a
// structured error log plus, when SMTP alerting is configured, an operator
// email. Alert failures never propagate to the delivery path.
func (s *AlertService) NotifyDeadLetter(ctx context.Context, delivery *domain.WebhookDelivery) {
	if s.threshold <= 0 {
		return
	}
	if s.alertedRecently(delivery.TenantID) {
		return
	}

	count, err := s.queueRepo.CountDeadLettersSince(ctx, delivery.TenantID, time.Now().Add(-alertWindow))
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"tenant_id": delivery.TenantID,
			"error":     err.Error(),
		}).Warn("Failed to count dead-lettered deliveries")
		return
	}
	if count < int64(s.threshold) {
		return
	}

	s.markAlerted(delivery.TenantID)

	s.logger.WithFields(map[string]interface{}{
		"tenant_id":    delivery.TenantID,
		"dead_letters": count,
		"threshold":    s.threshold,
		"delivery_id":  delivery.ID,
	}).Error("Dead-letter threshold crossed")

	if s.mailer == nil || s.alertEmail == "" {
		return
	}
	if err := s.mailer.SendDeadLetterAlert(s.alertEmail, delivery.TenantID, count, s.threshold); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"tenant_id": delivery.TenantID,
			"error":     err.Error(),
		}).Error("Failed to send dead-letter alert email")
	}
}

func (s *AlertService) alertedRecently(tenantID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	last, ok := s.lastAlerted[tenantID]
	return ok && time.Since(last) < alertWindow
}

func (s *AlertService) markAlerted(tenantID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAlerted[tenantID] = time.Now()
}
