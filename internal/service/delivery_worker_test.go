package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Callhook/callhook/internal/domain"
	"github.com/Callhook/callhook/internal/domain/mocks"
	"github.com/Callhook/callhook/internal/metrics"
	"github.com/Callhook/callhook/pkg/signer"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureNotifier struct {
	mu       sync.Mutex
	notified []*domain.WebhookDelivery
}

func (n *captureNotifier) NotifyDeadLetter(_ context.Context, delivery *domain.WebhookDelivery) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notified = append(n.notified, delivery)
}

func (n *captureNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.notified)
}

func newMockWorkerLogger(ctrl *gomock.Controller) *mocks.MockLogger {
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().WithField(gomock.Any(), gomock.Any()).Return(mockLogger).AnyTimes()
	mockLogger.EXPECT().WithFields(gomock.Any()).Return(mockLogger).AnyTimes()
	mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Error(gomock.Any()).AnyTimes()
	return mockLogger
}

func newTestWorker(t *testing.T, ctrl *gomock.Controller, config DeliveryWorkerConfig) (*DeliveryWorker, *mocks.MockDeliveryQueueRepository) {
	t.Helper()

	queueRepo := mocks.NewMockDeliveryQueueRepository(ctrl)
	config.QueueRepo = queueRepo
	if config.Logger == nil {
		config.Logger = newMockWorkerLogger(ctrl)
	}
	if config.Metrics == nil {
		config.Metrics = metrics.New()
	}
	return NewDeliveryWorker(config), queueRepo
}

func TestNewDeliveryWorker(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("applies defaults for zero-valued knobs", func(t *testing.T) {
		worker, _ := newTestWorker(t, ctrl, DeliveryWorkerConfig{})

		assert.Equal(t, 5*time.Second, worker.pollInterval)
		assert.Equal(t, 10, worker.batchSize)
		assert.Equal(t, 30*time.Second, worker.shutdownTimeout)
		assert.Equal(t, 30*time.Second, worker.httpTimeout)
		assert.Equal(t, 1*time.Hour, worker.cleanupInterval)
		assert.NotNil(t, worker.httpClient)
		assert.Equal(t, 30*time.Second, worker.httpClient.Timeout)
		assert.NotNil(t, worker.retryPolicy)
	})

	t.Run("keeps the provided HTTP client", func(t *testing.T) {
		customClient := &http.Client{Timeout: 45 * time.Second}
		worker, _ := newTestWorker(t, ctrl, DeliveryWorkerConfig{HTTPClient: customClient})

		assert.Equal(t, customClient, worker.httpClient)
	})

	t.Run("worker identity is host-pid-uuid shaped", func(t *testing.T) {
		worker, _ := newTestWorker(t, ctrl, DeliveryWorkerConfig{})
		other, _ := newTestWorker(t, ctrl, DeliveryWorkerConfig{})

		assert.NotEmpty(t, worker.WorkerID())
		assert.GreaterOrEqual(t, strings.Count(worker.WorkerID(), "-"), 2)
		assert.NotEqual(t, worker.WorkerID(), other.WorkerID())
	})
}

func TestDeliveryWorker_Start(t *testing.T) {
	t.Run("reaps abandoned rows on startup and stops on cancel", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		worker, queueRepo := newTestWorker(t, ctrl, DeliveryWorkerConfig{
			PollInterval: 20 * time.Millisecond,
			HTTPTimeout:  10 * time.Second,
		})

		queueRepo.EXPECT().RequeueAbandoned(gomock.Any(), 20*time.Second).Return(int64(3), nil).Times(1)
		queueRepo.EXPECT().GetStats(gomock.Any(), "").Return(&domain.QueueStats{}, nil).AnyTimes()
		queueRepo.EXPECT().ClaimBatch(gomock.Any(), worker.WorkerID(), 10).Return(nil, nil).AnyTimes()

		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan struct{})
		go func() {
			worker.Start(ctx)
			close(done)
		}()

		time.Sleep(60 * time.Millisecond)
		cancel()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("worker did not stop in time")
		}
	})

	t.Run("keeps claiming without sleeping while the queue is non-empty", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		worker, queueRepo := newTestWorker(t, ctrl, DeliveryWorkerConfig{
			// Long enough that draining three batches before the deadline
			// proves the loop did not sleep between non-empty claims.
			PollInterval: 10 * time.Second,
		})

		queueRepo.EXPECT().RequeueAbandoned(gomock.Any(), gomock.Any()).Return(int64(0), nil)
		queueRepo.EXPECT().GetStats(gomock.Any(), "").Return(&domain.QueueStats{}, nil).AnyTimes()

		var claims atomic.Int32
		queueRepo.EXPECT().ClaimBatch(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, workerID string, limit int) ([]*domain.WebhookDelivery, error) {
				n := claims.Add(1)
				if n > 3 {
					return nil, nil
				}
				return []*domain.WebhookDelivery{{
					ID:       fmt.Sprintf("delivery-%d", n),
					TenantID: "tenant-1",
					URL:      server.URL,
					Secret:   "secret",
					Payload:  domain.MapOfAny{"n": n},
				}}, nil
			}).AnyTimes()
		queueRepo.EXPECT().MarkDelivered(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(3)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			worker.Start(ctx)
			close(done)
		}()

		deadline := time.After(3 * time.Second)
		for claims.Load() <= 3 {
			select {
			case <-deadline:
				t.Fatal("worker never drained the queue")
			case <-time.After(10 * time.Millisecond):
			}
		}
		cancel()
		<-done
	})
}

func TestDeliveryWorker_processBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	t.Run("returns zero when claim fails", func(t *testing.T) {
		worker, queueRepo := newTestWorker(t, ctrl, DeliveryWorkerConfig{})

		queueRepo.EXPECT().ClaimBatch(gomock.Any(), worker.WorkerID(), 10).
			Return(nil, errors.New("database error"))

		assert.Equal(t, 0, worker.processBatch(ctx))
	})

	t.Run("returns zero on empty claim", func(t *testing.T) {
		worker, queueRepo := newTestWorker(t, ctrl, DeliveryWorkerConfig{})

		queueRepo.EXPECT().ClaimBatch(gomock.Any(), worker.WorkerID(), 10).Return(nil, nil)

		assert.Equal(t, 0, worker.processBatch(ctx))
	})

	t.Run("delivers every claimed row before returning", func(t *testing.T) {
		received := 0
		var mu sync.Mutex
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			received++
			mu.Unlock()
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		worker, queueRepo := newTestWorker(t, ctrl, DeliveryWorkerConfig{
			MaxConcurrentDeliveries: 2,
		})

		deliveries := []*domain.WebhookDelivery{
			{ID: "d1", TenantID: "tenant-1", URL: server.URL, Secret: "s1", EventType: "call.completed", Payload: domain.MapOfAny{"a": 1}},
			{ID: "d2", TenantID: "tenant-1", URL: server.URL, Secret: "s2", EventType: "call.completed", Payload: domain.MapOfAny{"a": 2}},
			{ID: "d3", TenantID: "tenant-2", URL: server.URL, Secret: "s3", EventType: "call.completed", Payload: domain.MapOfAny{"a": 3}},
		}

		queueRepo.EXPECT().ClaimBatch(gomock.Any(), worker.WorkerID(), 10).Return(deliveries, nil)
		queueRepo.EXPECT().MarkDelivered(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(3)

		assert.Equal(t, 3, worker.processBatch(ctx))

		mu.Lock()
		defer mu.Unlock()
		assert.EqualValues(t, 3, received)
	})
}

func TestDeliveryWorker_processDelivery(t *testing.T) {
	newDelivery := func(url string) *domain.WebhookDelivery {
		return &domain.WebhookDelivery{
			ID:          "delivery-1",
			TenantID:    "tenant-1",
			URL:         url,
			Secret:      "webhook-secret",
			EventType:   "call.completed",
			Payload:     domain.MapOfAny{"call_id": "call-1", "outcome": "completed"},
			Status:      domain.DeliveryStatusInFlight,
			MaxAttempts: 5,
		}
	}

	t.Run("2xx marks delivered with a verifiable signature", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		var gotSignature, gotTimestamp string
		var gotBody []byte
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Equal(t, signer.UserAgent, r.Header.Get("User-Agent"))
			gotSignature = r.Header.Get(signer.HeaderSignature)
			gotTimestamp = r.Header.Get(signer.HeaderTimestamp)
			gotBody, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"received":true}`))
		}))
		defer server.Close()

		worker, queueRepo := newTestWorker(t, ctrl, DeliveryWorkerConfig{AuditLogEnabled: true})
		delivery := newDelivery(server.URL)

		var gotStatus *int
		var gotAttempt *domain.DeliveryAttempt
		queueRepo.EXPECT().MarkDelivered(gomock.Any(), delivery, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *domain.WebhookDelivery, responseStatus *int, attempt *domain.DeliveryAttempt) error {
				gotStatus = responseStatus
				gotAttempt = attempt
				return nil
			})

		worker.processDelivery(delivery)

		require.NotNil(t, gotStatus)
		assert.Equal(t, http.StatusOK, *gotStatus)

		require.NotNil(t, gotAttempt)
		assert.Equal(t, 1, gotAttempt.AttemptNumber)
		assert.Equal(t, server.URL, gotAttempt.TargetURL)
		assert.True(t, gotAttempt.Success)
		assert.False(t, gotAttempt.NetworkError)
		require.NotNil(t, gotAttempt.ResponseBody)
		assert.Equal(t, `{"received":true}`, *gotAttempt.ResponseBody)
		require.NotNil(t, gotAttempt.RequestBody)
		assert.JSONEq(t, `{"call_id":"call-1","outcome":"completed"}`, *gotAttempt.RequestBody)

		// The signature must verify against the exact bytes on the wire.
		assert.NoError(t, signer.Verify(gotBody, delivery.Secret, gotSignature, gotTimestamp, 0, time.Now()))
	})

	t.Run("retryable status schedules a retry with backoff", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("maintenance"))
		}))
		defer server.Close()

		worker, queueRepo := newTestWorker(t, ctrl, DeliveryWorkerConfig{AuditLogEnabled: true})
		delivery := newDelivery(server.URL)

		before := time.Now().UTC()
		queueRepo.EXPECT().ScheduleRetry(gomock.Any(), delivery, gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *domain.WebhookDelivery, nextRetryAt time.Time, responseStatus *int, lastError string, attempt *domain.DeliveryAttempt) error {
				require.NotNil(t, responseStatus)
				assert.Equal(t, http.StatusServiceUnavailable, *responseStatus)
				assert.Equal(t, "HTTP 503", lastError)

				// First failure backs off ~30s with 10% jitter.
				delay := nextRetryAt.Sub(before)
				assert.Greater(t, delay, 26*time.Second)
				assert.Less(t, delay, 34*time.Second)

				require.NotNil(t, attempt)
				assert.False(t, attempt.Success)
				assert.False(t, attempt.NetworkError)
				require.NotNil(t, attempt.ResponseBody)
				assert.Equal(t, "maintenance", *attempt.ResponseBody)
				return nil
			})

		worker.processDelivery(delivery)
	})

	t.Run("non-retryable 4xx goes straight to dead letter", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer server.Close()

		notifier := &captureNotifier{}
		worker, queueRepo := newTestWorker(t, ctrl, DeliveryWorkerConfig{Notifier: notifier})
		delivery := newDelivery(server.URL)

		status := http.StatusBadRequest
		queueRepo.EXPECT().MarkDeadLetter(gomock.Any(), delivery, &status, "HTTP 400", gomock.Nil()).Return(nil)

		worker.processDelivery(delivery)

		assert.Equal(t, 1, notifier.count())
	})

	t.Run("network error is retryable with nil status", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close() // connection refused

		worker, queueRepo := newTestWorker(t, ctrl, DeliveryWorkerConfig{AuditLogEnabled: true})
		delivery := newDelivery(server.URL)

		queueRepo.EXPECT().ScheduleRetry(gomock.Any(), delivery, gomock.Any(), gomock.Nil(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *domain.WebhookDelivery, _ time.Time, _ *int, lastError string, attempt *domain.DeliveryAttempt) error {
				assert.NotEmpty(t, lastError)
				require.NotNil(t, attempt)
				assert.True(t, attempt.NetworkError)
				assert.Nil(t, attempt.ResponseStatus)
				return nil
			})

		worker.processDelivery(delivery)
	})

	t.Run("exhausted attempts dead-letter even on retryable status", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		notifier := &captureNotifier{}
		worker, queueRepo := newTestWorker(t, ctrl, DeliveryWorkerConfig{Notifier: notifier})
		delivery := newDelivery(server.URL)
		delivery.AttemptCount = 4 // the fifth attempt is the last

		status := http.StatusInternalServerError
		queueRepo.EXPECT().MarkDeadLetter(gomock.Any(), delivery, &status, "HTTP 500", gomock.Nil()).Return(nil)

		worker.processDelivery(delivery)

		assert.Equal(t, 1, notifier.count())
	})

	t.Run("invalid URL dead-letters without an HTTP call", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		worker, queueRepo := newTestWorker(t, ctrl, DeliveryWorkerConfig{})
		delivery := newDelivery("not a url at all://")

		queueRepo.EXPECT().MarkDeadLetter(gomock.Any(), delivery, gomock.Nil(), gomock.Any(), gomock.Nil()).
			DoAndReturn(func(_ context.Context, _ *domain.WebhookDelivery, _ *int, lastError string, _ *domain.DeliveryAttempt) error {
				assert.Contains(t, lastError, "invalid url")
				return nil
			})

		worker.processDelivery(delivery)
	})

	t.Run("missing scheme dead-letters without an HTTP call", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		worker, queueRepo := newTestWorker(t, ctrl, DeliveryWorkerConfig{})
		delivery := newDelivery("partner.example.com/hook")

		queueRepo.EXPECT().MarkDeadLetter(gomock.Any(), delivery, gomock.Nil(), gomock.Any(), gomock.Nil()).Return(nil)

		worker.processDelivery(delivery)
	})

	t.Run("audit disabled passes a nil attempt", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		worker, queueRepo := newTestWorker(t, ctrl, DeliveryWorkerConfig{AuditLogEnabled: false})
		delivery := newDelivery(server.URL)

		status := http.StatusNoContent
		queueRepo.EXPECT().MarkDelivered(gomock.Any(), delivery, &status, gomock.Nil()).Return(nil)

		worker.processDelivery(delivery)
	})

	t.Run("truncates oversized response bodies", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(strings.Repeat("x", 4096)))
		}))
		defer server.Close()

		worker, queueRepo := newTestWorker(t, ctrl, DeliveryWorkerConfig{AuditLogEnabled: true})
		delivery := newDelivery(server.URL)

		queueRepo.EXPECT().MarkDelivered(gomock.Any(), delivery, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *domain.WebhookDelivery, _ *int, attempt *domain.DeliveryAttempt) error {
				require.NotNil(t, attempt)
				require.NotNil(t, attempt.ResponseBody)
				assert.Len(t, *attempt.ResponseBody, maxStoredResponseBytes)
				return nil
			})

		worker.processDelivery(delivery)
	})
}

func TestDeliveryWorker_reapAbandoned(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	t.Run("cutoff is twice the request timeout", func(t *testing.T) {
		worker, queueRepo := newTestWorker(t, ctrl, DeliveryWorkerConfig{
			HTTPTimeout: 15 * time.Second,
		})

		queueRepo.EXPECT().RequeueAbandoned(ctx, 30*time.Second).Return(int64(2), nil)

		worker.reapAbandoned(ctx)
	})

	t.Run("reaper errors are logged, not fatal", func(t *testing.T) {
		worker, queueRepo := newTestWorker(t, ctrl, DeliveryWorkerConfig{})

		queueRepo.EXPECT().RequeueAbandoned(ctx, gomock.Any()).Return(int64(0), errors.New("database error"))

		worker.reapAbandoned(ctx)
	})
}

func TestDeliveryWorker_cleanupOldDeliveries(t *testing.T) {
	ctx := context.Background()

	t.Run("purges queue rows and audit rows past retention", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		attemptRepo := mocks.NewMockDeliveryAttemptRepository(ctrl)
		worker, queueRepo := newTestWorker(t, ctrl, DeliveryWorkerConfig{
			AttemptRepo:   attemptRepo,
			RetentionDays: 30,
		})

		queueRepo.EXPECT().DeleteOlderThan(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, before time.Time) (int64, error) {
				expected := time.Now().UTC().AddDate(0, 0, -30)
				assert.WithinDuration(t, expected, before, time.Minute)
				return 12, nil
			})
		attemptRepo.EXPECT().DeleteOlderThan(ctx, gomock.Any()).Return(int64(40), nil)

		worker.cleanupOldDeliveries(ctx)
	})

	t.Run("runs at most once per interval", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		worker, queueRepo := newTestWorker(t, ctrl, DeliveryWorkerConfig{
			RetentionDays:   7,
			CleanupInterval: 1 * time.Hour,
		})

		queueRepo.EXPECT().DeleteOlderThan(ctx, gomock.Any()).Return(int64(0), nil).Times(1)

		worker.cleanupOldDeliveries(ctx)
		worker.cleanupOldDeliveries(ctx)
	})

	t.Run("zero retention disables the purge", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		worker, _ := newTestWorker(t, ctrl, DeliveryWorkerConfig{RetentionDays: 0})

		worker.cleanupOldDeliveries(ctx)
	})

	t.Run("restores last run from settings so restarts do not purge early", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		settingRepo := mocks.NewMockSettingRepository(ctrl)
		worker, _ := newTestWorker(t, ctrl, DeliveryWorkerConfig{
			SettingRepo:     settingRepo,
			RetentionDays:   30,
			CleanupInterval: 1 * time.Hour,
		})

		recent := time.Now().Add(-10 * time.Minute)
		settingRepo.EXPECT().GetLastCleanupRun(ctx).Return(&recent, nil)

		// No DeleteOlderThan expectations: the restored timestamp is
		// inside the interval, so the purge must not run.
		worker.cleanupOldDeliveries(ctx)
	})

	t.Run("persists the run timestamp after a purge", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		settingRepo := mocks.NewMockSettingRepository(ctrl)
		worker, queueRepo := newTestWorker(t, ctrl, DeliveryWorkerConfig{
			SettingRepo:   settingRepo,
			RetentionDays: 30,
		})

		settingRepo.EXPECT().GetLastCleanupRun(ctx).Return(nil, nil)
		queueRepo.EXPECT().DeleteOlderThan(ctx, gomock.Any()).Return(int64(3), nil)
		settingRepo.EXPECT().SetLastCleanupRun(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, at time.Time) error {
				assert.WithinDuration(t, time.Now(), at, time.Minute)
				return nil
			})

		worker.cleanupOldDeliveries(ctx)
	})
}

func TestDeliveryWorker_refreshQueueGauges(t *testing.T) {
	ctx := context.Background()

	t.Run("reads cross-tenant stats at most once per interval", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		worker, queueRepo := newTestWorker(t, ctrl, DeliveryWorkerConfig{})

		queueRepo.EXPECT().GetStats(ctx, "").Return(&domain.QueueStats{
			Pending:                 5,
			InFlight:                2,
			OldestPendingAgeSeconds: 42.5,
		}, nil).Times(1)

		worker.refreshQueueGauges(ctx)
		worker.refreshQueueGauges(ctx)
	})

	t.Run("stats errors are logged, not fatal", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		worker, queueRepo := newTestWorker(t, ctrl, DeliveryWorkerConfig{})

		queueRepo.EXPECT().GetStats(ctx, "").Return(nil, errors.New("database error"))

		worker.refreshQueueGauges(ctx)
	})
}
