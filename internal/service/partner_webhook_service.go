package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Callhook/callhook/internal/domain"
	"github.com/Callhook/callhook/pkg/logger"
	"github.com/Callhook/callhook/pkg/signer"
)

// PartnerWebhookService manages tenant webhook endpoints. Edits here never
// touch queued deliveries, which carry their own url and secret snapshots.
type PartnerWebhookService struct {
	repo       domain.PartnerWebhookRepository
	logger     logger.Logger
	httpClient *http.Client
}

// NewPartnerWebhookService creates a new PartnerWebhookService
func NewPartnerWebhookService(repo domain.PartnerWebhookRepository, logger logger.Logger, httpClient *http.Client) *PartnerWebhookService {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 30 * time.Second,
		}
	}
	return &PartnerWebhookService{
		repo:       repo,
		logger:     logger,
		httpClient: httpClient,
	}
}

// Create validates and stores a new partner webhook. Slugs are unique per
// tenant so partners can be referenced by a stable handle.
func (s *PartnerWebhookService) Create(ctx context.Context, tenantID string, req *domain.CreatePartnerWebhookRequest) (*domain.PartnerWebhook, error) {
	webhook := &domain.PartnerWebhook{
		ID:                  uuid.New().String(),
		TenantID:            tenantID,
		Name:                req.Name,
		Slug:                req.Slug,
		URL:                 req.URL,
		Secret:              req.Secret,
		EnabledEvents:       req.EnabledEvents,
		CustomPayloadFields: req.CustomPayloadFields,
		Enabled:             true,
	}
	if req.Enabled != nil {
		webhook.Enabled = *req.Enabled
	}

	if err := webhook.Validate(); err != nil {
		return nil, err
	}

	if err := s.checkSlugAvailable(ctx, tenantID, webhook.Slug, ""); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, webhook); err != nil {
		return nil, fmt.Errorf("failed to create partner webhook: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"tenant_id":  tenantID,
		"webhook_id": webhook.ID,
		"slug":       webhook.Slug,
	}).Info("Created partner webhook")

	return webhook, nil
}

// Get returns a partner webhook scoped to the tenant.
func (s *PartnerWebhookService) Get(ctx context.Context, tenantID, id string) (*domain.PartnerWebhook, error) {
	return s.repo.GetByID(ctx, tenantID, id)
}

// List returns the tenant's partner webhooks, newest first.
func (s *PartnerWebhookService) List(ctx context.Context, tenantID string) ([]*domain.PartnerWebhook, error) {
	return s.repo.List(ctx, tenantID)
}

// Update applies the non-nil fields of the request to an existing webhook.
func (s *PartnerWebhookService) Update(ctx context.Context, tenantID string, req *domain.UpdatePartnerWebhookRequest) (*domain.PartnerWebhook, error) {
	if req.ID == "" {
		return nil, domain.NewValidationError("id is required")
	}

	webhook, err := s.repo.GetByID(ctx, tenantID, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		webhook.Name = *req.Name
	}
	if req.Slug != nil && *req.Slug != webhook.Slug {
		if err := s.checkSlugAvailable(ctx, tenantID, *req.Slug, webhook.ID); err != nil {
			return nil, err
		}
		webhook.Slug = *req.Slug
	}
	if req.URL != nil {
		webhook.URL = *req.URL
	}
	if req.Secret != nil {
		webhook.Secret = *req.Secret
	}
	if req.EnabledEvents != nil {
		webhook.EnabledEvents = *req.EnabledEvents
	}
	if req.CustomPayloadFields != nil {
		webhook.CustomPayloadFields = *req.CustomPayloadFields
	}
	if req.Enabled != nil {
		webhook.Enabled = *req.Enabled
	}

	if err := webhook.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, webhook); err != nil {
		return nil, fmt.Errorf("failed to update partner webhook: %w", err)
	}

	return webhook, nil
}

// Delete removes a partner webhook. Pending queue rows cascade away;
// delivered and dead-lettered history keeps its snapshot with the reference
// nulled out.
func (s *PartnerWebhookService) Delete(ctx context.Context, tenantID, id string) error {
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"tenant_id":  tenantID,
		"webhook_id": id,
	}).Info("Deleted partner webhook")

	return nil
}

// Toggle flips the enabled flag and returns the updated webhook.
func (s *PartnerWebhookService) Toggle(ctx context.Context, tenantID, id string, enabled bool) (*domain.PartnerWebhook, error) {
	if err := s.repo.SetEnabled(ctx, tenantID, id, enabled); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, tenantID, id)
}

// SendTest synchronously posts a signed webhook.test event to the endpoint
// and reports the response. The queue is not involved: the caller wants an
// immediate answer about the endpoint's health.
func (s *PartnerWebhookService) SendTest(ctx context.Context, tenantID, id string) (*domain.TestWebhookResult, error) {
	webhook, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	payload := domain.MapOfAny{
		"event_type": domain.EventWebhookTest,
		"webhook_id": webhook.ID,
		"test":       true,
		"sent_at":    time.Now().UTC().Format(time.RFC3339),
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal test payload: %w", err)
	}

	signature, timestamp, body, err := signer.Sign(payloadBytes, webhook.Secret, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to sign test payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhook.URL, bytes.NewReader(body))
	if err != nil {
		return &domain.TestWebhookResult{Error: err.Error()}, nil
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", signer.UserAgent)
	req.Header.Set(signer.HeaderSignature, signature)
	req.Header.Set(signer.HeaderTimestamp, timestamp)

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	latency := time.Since(start)
	if err != nil {
		return &domain.TestWebhookResult{
			Error:     err.Error(),
			LatencyMs: latency.Milliseconds(),
		}, nil
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

	return &domain.TestWebhookResult{
		Success:        resp.StatusCode >= 200 && resp.StatusCode < 300,
		ResponseStatus: resp.StatusCode,
		ResponseBody:   string(bodyBytes),
		LatencyMs:      latency.Milliseconds(),
	}, nil
}

// checkSlugAvailable returns a validation error when another webhook of the
// tenant already uses the slug.
func (s *PartnerWebhookService) checkSlugAvailable(ctx context.Context, tenantID, slug, selfID string) error {
	existing, err := s.repo.GetBySlug(ctx, tenantID, slug)
	if err != nil {
		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to check slug: %w", err)
	}
	if existing.ID != selfID {
		return domain.NewValidationError(fmt.Sprintf("slug already in use: %s", slug))
	}
	return nil
}
