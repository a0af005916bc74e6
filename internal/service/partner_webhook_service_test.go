package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Callhook/callhook/internal/domain"
	"github.com/Callhook/callhook/internal/domain/mocks"
	"github.com/Callhook/callhook/pkg/signer"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPartnerWebhookFixture(t *testing.T, ctrl *gomock.Controller) (*PartnerWebhookService, *mocks.MockPartnerWebhookRepository) {
	t.Helper()

	repo := mocks.NewMockPartnerWebhookRepository(ctrl)
	return NewPartnerWebhookService(repo, newMockWorkerLogger(ctrl), nil), repo
}

func validCreateRequest() *domain.CreatePartnerWebhookRequest {
	return &domain.CreatePartnerWebhookRequest{
		Name:          "Acme CRM",
		Slug:          "acme-crm",
		URL:           "https://crm.acme.example.com/hooks/calls",
		Secret:        "partner-secret",
		EnabledEvents: domain.StringSlice{domain.EventCallCompleted},
	}
}

func TestPartnerWebhookService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	t.Run("creates an enabled webhook with a generated id", func(t *testing.T) {
		svc, repo := newPartnerWebhookFixture(t, ctrl)

		repo.EXPECT().
			GetBySlug(ctx, "tenant-1", "acme-crm").
			Return(nil, &domain.ErrNotFound{Entity: "partner_webhook", ID: "acme-crm"})

		var created *domain.PartnerWebhook
		repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, webhook *domain.PartnerWebhook) error {
				created = webhook
				return nil
			})

		webhook, err := svc.Create(ctx, "tenant-1", validCreateRequest())

		require.NoError(t, err)
		require.NotNil(t, created)
		assert.NotEmpty(t, webhook.ID)
		assert.Equal(t, "tenant-1", webhook.TenantID)
		assert.Equal(t, "acme-crm", webhook.Slug)
		assert.True(t, webhook.Enabled)
	})

	t.Run("honours an explicit enabled=false", func(t *testing.T) {
		svc, repo := newPartnerWebhookFixture(t, ctrl)

		repo.EXPECT().
			GetBySlug(ctx, "tenant-1", "acme-crm").
			Return(nil, &domain.ErrNotFound{Entity: "partner_webhook", ID: "acme-crm"})
		repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

		req := validCreateRequest()
		disabled := false
		req.Enabled = &disabled

		webhook, err := svc.Create(ctx, "tenant-1", req)

		require.NoError(t, err)
		assert.False(t, webhook.Enabled)
	})

	t.Run("rejects a slug already used by the tenant", func(t *testing.T) {
		svc, repo := newPartnerWebhookFixture(t, ctrl)

		repo.EXPECT().
			GetBySlug(ctx, "tenant-1", "acme-crm").
			Return(&domain.PartnerWebhook{ID: "other", Slug: "acme-crm"}, nil)

		webhook, err := svc.Create(ctx, "tenant-1", validCreateRequest())

		assert.Nil(t, webhook)
		var validation domain.ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Contains(t, validation.Message, "slug already in use")
	})

	t.Run("rejects invalid configuration before storage", func(t *testing.T) {
		svc, _ := newPartnerWebhookFixture(t, ctrl)

		cases := []struct {
			name    string
			mutate  func(req *domain.CreatePartnerWebhookRequest)
			message string
		}{
			{
				name:    "bad slug",
				mutate:  func(req *domain.CreatePartnerWebhookRequest) { req.Slug = "Has Spaces" },
				message: "slug must contain",
			},
			{
				name:    "bad url",
				mutate:  func(req *domain.CreatePartnerWebhookRequest) { req.URL = "not a url" },
				message: "invalid url",
			},
			{
				name:    "missing secret",
				mutate:  func(req *domain.CreatePartnerWebhookRequest) { req.Secret = "" },
				message: "secret is required",
			},
			{
				name:    "no events",
				mutate:  func(req *domain.CreatePartnerWebhookRequest) { req.EnabledEvents = nil },
				message: "enabled_events must not be empty",
			},
			{
				name: "unknown event",
				mutate: func(req *domain.CreatePartnerWebhookRequest) {
					req.EnabledEvents = domain.StringSlice{"call.rang"}
				},
				message: "unknown event type",
			},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				req := validCreateRequest()
				tc.mutate(req)

				_, err := svc.Create(ctx, "tenant-1", req)

				var validation domain.ValidationError
				require.ErrorAs(t, err, &validation)
				assert.Contains(t, validation.Message, tc.message)
			})
		}
	})
}

func TestPartnerWebhookService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	existing := func() *domain.PartnerWebhook {
		return &domain.PartnerWebhook{
			ID:            "wh-1",
			TenantID:      "tenant-1",
			Name:          "Acme CRM",
			Slug:          "acme-crm",
			URL:           "https://crm.acme.example.com/hooks/calls",
			Secret:        "partner-secret",
			EnabledEvents: domain.StringSlice{domain.EventCallCompleted},
			Enabled:       true,
		}
	}

	t.Run("applies only the provided fields", func(t *testing.T) {
		svc, repo := newPartnerWebhookFixture(t, ctrl)

		repo.EXPECT().GetByID(ctx, "tenant-1", "wh-1").Return(existing(), nil)

		var updated *domain.PartnerWebhook
		repo.EXPECT().
			Update(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, webhook *domain.PartnerWebhook) error {
				updated = webhook
				return nil
			})

		newURL := "https://crm.acme.example.com/hooks/v2"
		webhook, err := svc.Update(ctx, "tenant-1", &domain.UpdatePartnerWebhookRequest{
			ID:  "wh-1",
			URL: &newURL,
		})

		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, newURL, webhook.URL)
		assert.Equal(t, "Acme CRM", webhook.Name)
		assert.Equal(t, "acme-crm", webhook.Slug)
	})

	t.Run("checks slug uniqueness only when the slug changes", func(t *testing.T) {
		svc, repo := newPartnerWebhookFixture(t, ctrl)

		repo.EXPECT().GetByID(ctx, "tenant-1", "wh-1").Return(existing(), nil)
		repo.EXPECT().
			GetBySlug(ctx, "tenant-1", "acme-crm-v2").
			Return(&domain.PartnerWebhook{ID: "wh-2", Slug: "acme-crm-v2"}, nil)

		newSlug := "acme-crm-v2"
		_, err := svc.Update(ctx, "tenant-1", &domain.UpdatePartnerWebhookRequest{
			ID:   "wh-1",
			Slug: &newSlug,
		})

		var validation domain.ValidationError
		require.ErrorAs(t, err, &validation)
	})

	t.Run("keeping the same slug skips the uniqueness check", func(t *testing.T) {
		svc, repo := newPartnerWebhookFixture(t, ctrl)

		repo.EXPECT().GetByID(ctx, "tenant-1", "wh-1").Return(existing(), nil)
		repo.EXPECT().Update(ctx, gomock.Any()).Return(nil)

		sameSlug := "acme-crm"
		_, err := svc.Update(ctx, "tenant-1", &domain.UpdatePartnerWebhookRequest{
			ID:   "wh-1",
			Slug: &sameSlug,
		})

		require.NoError(t, err)
	})

	t.Run("requires an id", func(t *testing.T) {
		svc, _ := newPartnerWebhookFixture(t, ctrl)

		_, err := svc.Update(ctx, "tenant-1", &domain.UpdatePartnerWebhookRequest{})

		var validation domain.ValidationError
		require.ErrorAs(t, err, &validation)
	})
}

func TestPartnerWebhookService_Toggle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	t.Run("disables and returns the webhook", func(t *testing.T) {
		svc, repo := newPartnerWebhookFixture(t, ctrl)

		repo.EXPECT().SetEnabled(ctx, "tenant-1", "wh-1", false).Return(nil)
		repo.EXPECT().
			GetByID(ctx, "tenant-1", "wh-1").
			Return(&domain.PartnerWebhook{ID: "wh-1", Enabled: false}, nil)

		webhook, err := svc.Toggle(ctx, "tenant-1", "wh-1", false)

		require.NoError(t, err)
		assert.False(t, webhook.Enabled)
	})

	t.Run("propagates not found", func(t *testing.T) {
		svc, repo := newPartnerWebhookFixture(t, ctrl)

		repo.EXPECT().
			SetEnabled(ctx, "tenant-1", "missing", true).
			Return(&domain.ErrNotFound{Entity: "partner_webhook", ID: "missing"})

		_, err := svc.Toggle(ctx, "tenant-1", "missing", true)

		var notFound *domain.ErrNotFound
		require.ErrorAs(t, err, &notFound)
	})
}

func TestPartnerWebhookService_SendTest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	t.Run("posts a signed test event and reports success", func(t *testing.T) {
		var (
			gotSignature string
			gotTimestamp string
			gotBody      []byte
		)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotSignature = r.Header.Get(signer.HeaderSignature)
			gotTimestamp = r.Header.Get(signer.HeaderTimestamp)
			gotBody, _ = io.ReadAll(r.Body)
			assert.Equal(t, signer.UserAgent, r.Header.Get("User-Agent"))
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"received":true}`))
		}))
		defer server.Close()

		repo := mocks.NewMockPartnerWebhookRepository(ctrl)
		svc := NewPartnerWebhookService(repo, newMockWorkerLogger(ctrl), server.Client())

		repo.EXPECT().
			GetByID(ctx, "tenant-1", "wh-1").
			Return(&domain.PartnerWebhook{
				ID:       "wh-1",
				TenantID: "tenant-1",
				URL:      server.URL,
				Secret:   "test-secret",
			}, nil)

		result, err := svc.SendTest(ctx, "tenant-1", "wh-1")

		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, http.StatusOK, result.ResponseStatus)
		assert.Equal(t, `{"received":true}`, result.ResponseBody)
		assert.GreaterOrEqual(t, result.LatencyMs, int64(0))

		require.NoError(t, signer.Verify(gotBody, "test-secret", gotSignature, gotTimestamp, 0, time.Now()))

		var payload map[string]interface{}
		require.NoError(t, json.Unmarshal(gotBody, &payload))
		assert.Equal(t, domain.EventWebhookTest, payload["event_type"])
		assert.Equal(t, "wh-1", payload["webhook_id"])
		assert.Equal(t, true, payload["test"])
	})

	t.Run("a 500 response is a failed test, not an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer server.Close()

		repo := mocks.NewMockPartnerWebhookRepository(ctrl)
		svc := NewPartnerWebhookService(repo, newMockWorkerLogger(ctrl), server.Client())

		repo.EXPECT().
			GetByID(ctx, "tenant-1", "wh-1").
			Return(&domain.PartnerWebhook{ID: "wh-1", URL: server.URL, Secret: "test-secret"}, nil)

		result, err := svc.SendTest(ctx, "tenant-1", "wh-1")

		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, http.StatusInternalServerError, result.ResponseStatus)
	})

	t.Run("a connection failure is reported in the result", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		serverURL := server.URL
		server.Close()

		repo := mocks.NewMockPartnerWebhookRepository(ctrl)
		svc := NewPartnerWebhookService(repo, newMockWorkerLogger(ctrl), nil)

		repo.EXPECT().
			GetByID(ctx, "tenant-1", "wh-1").
			Return(&domain.PartnerWebhook{ID: "wh-1", URL: serverURL, Secret: "test-secret"}, nil)

		result, err := svc.SendTest(ctx, "tenant-1", "wh-1")

		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.NotEmpty(t, result.Error)
	})

	t.Run("propagates not found", func(t *testing.T) {
		repo := mocks.NewMockPartnerWebhookRepository(ctrl)
		svc := NewPartnerWebhookService(repo, newMockWorkerLogger(ctrl), nil)

		repo.EXPECT().
			GetByID(ctx, "tenant-1", "missing").
			Return(nil, &domain.ErrNotFound{Entity: "partner_webhook", ID: "missing"})

		_, err := svc.SendTest(ctx, "tenant-1", "missing")

		var notFound *domain.ErrNotFound
		require.ErrorAs(t, err, &notFound)
	})
}

func TestPartnerWebhookService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.Background()

	t.Run("deletes and logs", func(t *testing.T) {
		svc, repo := newPartnerWebhookFixture(t, ctrl)

		repo.EXPECT().Delete(ctx, "tenant-1", "wh-1").Return(nil)

		require.NoError(t, svc.Delete(ctx, "tenant-1", "wh-1"))
	})

	t.Run("propagates not found", func(t *testing.T) {
		svc, repo := newPartnerWebhookFixture(t, ctrl)

		repo.EXPECT().
			Delete(ctx, "tenant-1", "missing").
			Return(&domain.ErrNotFound{Entity: "partner_webhook", ID: "missing"})

		err := svc.Delete(ctx, "tenant-1", "missing")

		var notFound *domain.ErrNotFound
		require.ErrorAs(t, err, &notFound)
	})
}
