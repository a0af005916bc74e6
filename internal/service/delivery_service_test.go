package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/Callhook/callhook/config"
	"github.com/Callhook/callhook/internal/domain"
	"github.com/Callhook/callhook/internal/domain/mocks"
	"github.com/Callhook/callhook/internal/metrics"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type deliveryFixture struct {
	svc         *DeliveryService
	queueRepo   *mocks.MockDeliveryQueueRepository
	attemptRepo *mocks.MockDeliveryAttemptRepository
	webhookRepo *mocks.MockPartnerWebhookRepository
	logger      *mocks.MockLogger
}

func newDeliveryFixture(t *testing.T, ctrl *gomock.Controller, mergeOrder string, softCap int) *deliveryFixture {
	t.Helper()

	f := &deliveryFixture{
		queueRepo:   mocks.NewMockDeliveryQueueRepository(ctrl),
		attemptRepo: mocks.NewMockDeliveryAttemptRepository(ctrl),
		webhookRepo: mocks.NewMockPartnerWebhookRepository(ctrl),
		logger:      mocks.NewMockLogger(ctrl),
	}
	f.logger.EXPECT().WithField(gomock.Any(), gomock.Any()).Return(f.logger).AnyTimes()
	f.logger.EXPECT().WithFields(gomock.Any()).Return(f.logger).AnyTimes()
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	f.svc = NewDeliveryService(
		f.queueRepo,
		f.attemptRepo,
		f.webhookRepo,
		metrics.New(),
		f.logger,
		mergeOrder,
		5,
		softCap,
	)
	return f
}

func enabledWebhook(id, url string) *domain.PartnerWebhook {
	return &domain.PartnerWebhook{
		ID:            id,
		TenantID:      "tenant-1",
		Name:          "Partner " + id,
		Slug:          "partner-" + id,
		URL:           url,
		Secret:        "secret-" + id,
		EnabledEvents: domain.StringSlice{domain.EventCallCompleted},
		Enabled:       true,
	}
}

func TestDeliveryService_EnqueueForAllPartners(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	payload := domain.MapOfAny{"call_id": "call-1", "outcome": "completed"}

	t.Run("freezes the webhook url and secret onto each row", func(t *testing.T) {
		f := newDeliveryFixture(t, ctrl, "", 0)

		f.webhookRepo.EXPECT().
			ListEnabledForEvent(ctx, "tenant-1", domain.EventCallCompleted).
			Return([]*domain.PartnerWebhook{
				enabledWebhook("wh-1", "https://one.example.com/hook"),
				enabledWebhook("wh-2", "https://two.example.com/hook"),
			}, nil)

		var enqueued []*domain.WebhookDelivery
		f.queueRepo.EXPECT().
			EnqueueTx(ctx, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sql.Tx, deliveries []*domain.WebhookDelivery) error {
				enqueued = deliveries
				return nil
			})

		count, err := f.svc.EnqueueForAllPartners(ctx, nil, "tenant-1", domain.EventCallCompleted, payload)

		require.NoError(t, err)
		assert.Equal(t, 2, count)
		require.Len(t, enqueued, 2)

		first := enqueued[0]
		assert.Equal(t, "tenant-1", first.TenantID)
		require.NotNil(t, first.PartnerWebhookID)
		assert.Equal(t, "wh-1", *first.PartnerWebhookID)
		assert.Equal(t, "https://one.example.com/hook", first.URL)
		assert.Equal(t, "secret-wh-1", first.Secret)
		assert.Equal(t, domain.EventCallCompleted, first.EventType)
		assert.Equal(t, domain.DeliveryStatusPending, first.Status)
		assert.Equal(t, 5, first.MaxAttempts)
		assert.WithinDuration(t, time.Now().UTC(), first.NextRetryAt, time.Second)

		second := enqueued[1]
		assert.Equal(t, "https://two.example.com/hook", second.URL)
		assert.Equal(t, "secret-wh-2", second.Secret)
	})

	t.Run("event payload wins key collisions by default", func(t *testing.T) {
		f := newDeliveryFixture(t, ctrl, "", 0)

		webhook := enabledWebhook("wh-1", "https://one.example.com/hook")
		webhook.CustomPayloadFields = domain.MapOfAny{
			"source":     "partner-crm",
			"account_id": "acct-9",
			"call_id":    "overridden",
		}
		f.webhookRepo.EXPECT().
			ListEnabledForEvent(ctx, "tenant-1", domain.EventCallCompleted).
			Return([]*domain.PartnerWebhook{webhook}, nil)

		var enqueued []*domain.WebhookDelivery
		f.queueRepo.EXPECT().
			EnqueueTx(ctx, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sql.Tx, deliveries []*domain.WebhookDelivery) error {
				enqueued = deliveries
				return nil
			})

		_, err := f.svc.EnqueueForAllPartners(ctx, nil, "tenant-1", domain.EventCallCompleted, payload)

		require.NoError(t, err)
		require.Len(t, enqueued, 1)
		merged := enqueued[0].Payload
		assert.Equal(t, "call-1", merged["call_id"])
		assert.Equal(t, "completed", merged["outcome"])
		assert.Equal(t, "partner-crm", merged["source"])
		assert.Equal(t, "acct-9", merged["account_id"])
	})

	t.Run("partner fields win when configured", func(t *testing.T) {
		f := newDeliveryFixture(t, ctrl, config.MergeOrderPartnerWins, 0)

		webhook := enabledWebhook("wh-1", "https://one.example.com/hook")
		webhook.CustomPayloadFields = domain.MapOfAny{"call_id": "overridden"}
		f.webhookRepo.EXPECT().
			ListEnabledForEvent(ctx, "tenant-1", domain.EventCallCompleted).
			Return([]*domain.PartnerWebhook{webhook}, nil)

		var enqueued []*domain.WebhookDelivery
		f.queueRepo.EXPECT().
			EnqueueTx(ctx, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *sql.Tx, deliveries []*domain.WebhookDelivery) error {
				enqueued = deliveries
				return nil
			})

		_, err := f.svc.EnqueueForAllPartners(ctx, nil, "tenant-1", domain.EventCallCompleted, payload)

		require.NoError(t, err)
		require.Len(t, enqueued, 1)
		assert.Equal(t, "overridden", enqueued[0].Payload["call_id"])
		assert.Equal(t, "completed", enqueued[0].Payload["outcome"])
	})

	t.Run("merging never mutates the shared event payload", func(t *testing.T) {
		f := newDeliveryFixture(t, ctrl, "", 0)

		webhook := enabledWebhook("wh-1", "https://one.example.com/hook")
		webhook.CustomPayloadFields = domain.MapOfAny{"extra": "field"}
		f.webhookRepo.EXPECT().
			ListEnabledForEvent(ctx, "tenant-1", domain.EventCallCompleted).
			Return([]*domain.PartnerWebhook{webhook}, nil)
		f.queueRepo.EXPECT().EnqueueTx(ctx, gomock.Any(), gomock.Any()).Return(nil)

		shared := domain.MapOfAny{"call_id": "call-1"}
		_, err := f.svc.EnqueueForAllPartners(ctx, nil, "tenant-1", domain.EventCallCompleted, shared)

		require.NoError(t, err)
		assert.Equal(t, domain.MapOfAny{"call_id": "call-1"}, shared)
	})

	t.Run("returns zero when no webhook subscribes to the event", func(t *testing.T) {
		f := newDeliveryFixture(t, ctrl, "", 0)

		f.webhookRepo.EXPECT().
			ListEnabledForEvent(ctx, "tenant-1", domain.EventCallRecordingReady).
			Return(nil, nil)

		count, err := f.svc.EnqueueForAllPartners(ctx, nil, "tenant-1", domain.EventCallRecordingReady, payload)

		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("warns when the tenant backlog exceeds the soft cap", func(t *testing.T) {
		f := newDeliveryFixture(t, ctrl, "", 10)

		f.webhookRepo.EXPECT().
			ListEnabledForEvent(ctx, "tenant-1", domain.EventCallCompleted).
			Return([]*domain.PartnerWebhook{enabledWebhook("wh-1", "https://one.example.com/hook")}, nil)
		f.queueRepo.EXPECT().EnqueueTx(ctx, gomock.Any(), gomock.Any()).Return(nil)
		f.queueRepo.EXPECT().CountPendingForTenant(ctx, "tenant-1").Return(int64(12), nil)
		f.logger.EXPECT().Warn("Tenant delivery backlog exceeds soft cap")

		count, err := f.svc.EnqueueForAllPartners(ctx, nil, "tenant-1", domain.EventCallCompleted, payload)

		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("a failing soft cap count does not fail the enqueue", func(t *testing.T) {
		f := newDeliveryFixture(t, ctrl, "", 10)

		f.webhookRepo.EXPECT().
			ListEnabledForEvent(ctx, "tenant-1", domain.EventCallCompleted).
			Return([]*domain.PartnerWebhook{enabledWebhook("wh-1", "https://one.example.com/hook")}, nil)
		f.queueRepo.EXPECT().EnqueueTx(ctx, gomock.Any(), gomock.Any()).Return(nil)
		f.queueRepo.EXPECT().
			CountPendingForTenant(ctx, "tenant-1").
			Return(int64(0), errors.New("connection reset"))
		f.logger.EXPECT().Warn("Failed to count pending deliveries for soft cap check")

		count, err := f.svc.EnqueueForAllPartners(ctx, nil, "tenant-1", domain.EventCallCompleted, payload)

		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("propagates enqueue failures", func(t *testing.T) {
		f := newDeliveryFixture(t, ctrl, "", 0)

		f.webhookRepo.EXPECT().
			ListEnabledForEvent(ctx, "tenant-1", domain.EventCallCompleted).
			Return([]*domain.PartnerWebhook{enabledWebhook("wh-1", "https://one.example.com/hook")}, nil)
		f.queueRepo.EXPECT().
			EnqueueTx(ctx, gomock.Any(), gomock.Any()).
			Return(errors.New("insert failed"))

		count, err := f.svc.EnqueueForAllPartners(ctx, nil, "tenant-1", domain.EventCallCompleted, payload)

		assert.Equal(t, 0, count)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to enqueue deliveries")
	})
}

func TestDeliveryService_Replay(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()
	webhookID := "wh-1"

	deadLettered := &domain.WebhookDelivery{
		ID:               "del-1",
		TenantID:         "tenant-1",
		PartnerWebhookID: &webhookID,
		URL:              "https://partner.example.com/hook",
		Secret:           "frozen-secret",
		EventType:        domain.EventCallCompleted,
		Payload:          domain.MapOfAny{"call_id": "call-1"},
		Status:           domain.DeliveryStatusDeadLetter,
		AttemptCount:     5,
		MaxAttempts:      5,
	}

	t.Run("clones a dead-lettered row into a fresh pending delivery", func(t *testing.T) {
		f := newDeliveryFixture(t, ctrl, "", 0)

		f.queueRepo.EXPECT().GetByID(ctx, "tenant-1", "del-1").Return(deadLettered, nil)

		var enqueued *domain.WebhookDelivery
		f.queueRepo.EXPECT().
			Enqueue(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, delivery *domain.WebhookDelivery) error {
				enqueued = delivery
				return nil
			})

		clone, err := f.svc.Replay(ctx, "tenant-1", "del-1")

		require.NoError(t, err)
		require.NotNil(t, enqueued)
		assert.Same(t, enqueued, clone)
		assert.Empty(t, clone.ID)
		assert.Equal(t, domain.DeliveryStatusPending, clone.Status)
		assert.Equal(t, 0, clone.AttemptCount)
		assert.Equal(t, deadLettered.URL, clone.URL)
		assert.Equal(t, deadLettered.Secret, clone.Secret)
		assert.Equal(t, deadLettered.Payload, clone.Payload)
		assert.Equal(t, deadLettered.PartnerWebhookID, clone.PartnerWebhookID)
		assert.Equal(t, deadLettered.MaxAttempts, clone.MaxAttempts)
		assert.WithinDuration(t, time.Now().UTC(), clone.NextRetryAt, time.Second)
	})

	t.Run("rejects deliveries that are not dead-lettered", func(t *testing.T) {
		f := newDeliveryFixture(t, ctrl, "", 0)

		delivered := &domain.WebhookDelivery{
			ID:       "del-2",
			TenantID: "tenant-1",
			Status:   domain.DeliveryStatusDelivered,
		}
		f.queueRepo.EXPECT().GetByID(ctx, "tenant-1", "del-2").Return(delivered, nil)

		clone, err := f.svc.Replay(ctx, "tenant-1", "del-2")

		assert.Nil(t, clone)
		var validation domain.ValidationError
		require.ErrorAs(t, err, &validation)
	})

	t.Run("propagates not found", func(t *testing.T) {
		f := newDeliveryFixture(t, ctrl, "", 0)

		f.queueRepo.EXPECT().
			GetByID(ctx, "tenant-1", "missing").
			Return(nil, &domain.ErrNotFound{Entity: "webhook_delivery", ID: "missing"})

		_, err := f.svc.Replay(ctx, "tenant-1", "missing")

		var notFound *domain.ErrNotFound
		require.ErrorAs(t, err, &notFound)
	})
}

func TestDeliveryService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	t.Run("requires a tenant", func(t *testing.T) {
		f := newDeliveryFixture(t, ctrl, "", 0)

		_, _, err := f.svc.List(ctx, domain.DeliveryListParams{Status: domain.DeliveryStatusPending})

		var validation domain.ValidationError
		require.ErrorAs(t, err, &validation)
	})

	t.Run("passes filters through to the repository", func(t *testing.T) {
		f := newDeliveryFixture(t, ctrl, "", 0)

		params := domain.DeliveryListParams{
			TenantID:  "tenant-1",
			Status:    domain.DeliveryStatusDeadLetter,
			EventType: domain.EventCallCompleted,
			Limit:     25,
		}
		expected := []*domain.WebhookDelivery{{ID: "del-1"}}
		f.queueRepo.EXPECT().List(ctx, params).Return(expected, 1, nil)

		deliveries, total, err := f.svc.List(ctx, params)

		require.NoError(t, err)
		assert.Equal(t, expected, deliveries)
		assert.Equal(t, 1, total)
	})
}

func TestDeliveryService_Attempts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	t.Run("scopes the delivery to the tenant before listing", func(t *testing.T) {
		f := newDeliveryFixture(t, ctrl, "", 0)

		f.queueRepo.EXPECT().
			GetByID(ctx, "tenant-1", "del-1").
			Return(&domain.WebhookDelivery{ID: "del-1", TenantID: "tenant-1"}, nil)
		deliveryID := "del-1"
		expected := []*domain.DeliveryAttempt{{ID: "att-1", DeliveryID: &deliveryID}}
		f.attemptRepo.EXPECT().ListByDelivery(ctx, "tenant-1", "del-1").Return(expected, nil)

		attempts, err := f.svc.Attempts(ctx, "tenant-1", "del-1")

		require.NoError(t, err)
		assert.Equal(t, expected, attempts)
	})

	t.Run("does not list attempts for another tenant's delivery", func(t *testing.T) {
		f := newDeliveryFixture(t, ctrl, "", 0)

		f.queueRepo.EXPECT().
			GetByID(ctx, "tenant-2", "del-1").
			Return(nil, &domain.ErrNotFound{Entity: "webhook_delivery", ID: "del-1"})

		_, err := f.svc.Attempts(ctx, "tenant-2", "del-1")

		var notFound *domain.ErrNotFound
		require.ErrorAs(t, err, &notFound)
	})
}

func TestDeliveryService_Stats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	t.Run("requires a tenant", func(t *testing.T) {
		f := newDeliveryFixture(t, ctrl, "", 0)

		_, err := f.svc.Stats(ctx, "")

		var validation domain.ValidationError
		require.ErrorAs(t, err, &validation)
	})

	t.Run("returns the tenant's aggregates", func(t *testing.T) {
		f := newDeliveryFixture(t, ctrl, "", 0)

		expected := &domain.QueueStats{Pending: 3, Delivered: 40, DeadLetter: 1}
		f.queueRepo.EXPECT().GetStats(ctx, "tenant-1").Return(expected, nil)

		stats, err := f.svc.Stats(ctx, "tenant-1")

		require.NoError(t, err)
		assert.Equal(t, expected, stats)
	})
}
