package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Callhook/callhook/internal/domain"
	"github.com/Callhook/callhook/internal/metrics"
	"github.com/Callhook/callhook/internal/repository"
	"github.com/Callhook/callhook/pkg/logger"
	"github.com/Callhook/callhook/pkg/signer"
)

// IngestService consumes upstream call events: verify, record exactly once,
// end the call with a classified outcome, update downstream campaign rows
// and fan the result out to partner webhooks. Everything after signature
// verification runs in one transaction.
type IngestService struct {
	db             *sql.DB
	callLogRepo    domain.CallLogRepository
	eventRepo      domain.UpstreamCallEventRepository
	campaignRepo   domain.CampaignRepository
	deliverySvc    domain.DeliveryService
	metrics        *metrics.Metrics
	logger         logger.Logger
	upstreamSecret string
}

// NewIngestService creates a new IngestService
func NewIngestService(
	db *sql.DB,
	callLogRepo domain.CallLogRepository,
	eventRepo domain.UpstreamCallEventRepository,
	campaignRepo domain.CampaignRepository,
	deliverySvc domain.DeliveryService,
	metrics *metrics.Metrics,
	logger logger.Logger,
	upstreamSecret string,
) *IngestService {
	return &IngestService{
		db:             db,
		callLogRepo:    callLogRepo,
		eventRepo:      eventRepo,
		campaignRepo:   campaignRepo,
		deliverySvc:    deliverySvc,
		metrics:        metrics,
		logger:         logger,
		upstreamSecret: upstreamSecret,
	}
}

// ProcessUpstreamWebhook verifies the raw-body signature, parses the payload
// and runs the ingestion transaction. Unprocessable event types and events
// without a matching call log are acknowledged without writes; duplicate
// event IDs are acknowledged as already processed.
func (s *IngestService) ProcessUpstreamWebhook(ctx context.Context, rawBody []byte, signature string) (*domain.IngestResult, error) {
	start := time.Now()
	defer func() {
		s.metrics.IngestionDuration.Observe(time.Since(start).Seconds())
	}()

	if err := signer.VerifyRaw(rawBody, s.upstreamSecret, signature); err != nil {
		return nil, &domain.ErrUnauthorized{Message: "invalid webhook signature"}
	}

	event, err := parseUpstreamEvent(rawBody)
	if err != nil {
		return nil, err
	}

	if !domain.ProcessableUpstreamEvents[event.EventType] {
		s.logger.WithField("event_type", event.EventType).Debug("Ignoring unprocessable upstream event")
		s.metrics.EventsIngested.WithLabelValues(event.EventType, "ignored").Inc()
		return &domain.IngestResult{
			Status:    domain.IngestStatusIgnored,
			EventID:   event.EventID,
			EventType: event.EventType,
		}, nil
	}

	if event.EventID == "" {
		return nil, domain.NewValidationError("id is required")
	}
	if event.RoomName == "" {
		return nil, domain.NewValidationError("room.name is required")
	}

	var rawPayload domain.MapOfAny
	if err := json.Unmarshal(rawBody, &rawPayload); err != nil {
		return nil, domain.NewValidationError("payload must be a JSON object")
	}

	result, err := s.ingest(ctx, event, rawPayload)
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"event_id":   event.EventID,
			"event_type": event.EventType,
			"error":      err.Error(),
		}).Error("Failed to ingest upstream event")
		return nil, err
	}

	return result, nil
}

// ingest runs steps 3 through 8 of the flow in one transaction: resolve the
// call, insert the event row behind the idempotency constraint, transition
// the call, update downstream tables and enqueue the partner fan-out.
func (s *IngestService) ingest(ctx context.Context, event *upstreamEvent, rawPayload domain.MapOfAny) (*domain.IngestResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	call, err := s.callLogRepo.GetByRoomTx(ctx, tx, event.RoomSID, event.RoomName)
	if err != nil {
		var notFound *domain.ErrNotFound
		if errors.As(err, &notFound) {
			s.logger.WithFields(map[string]interface{}{
				"event_id":  event.EventID,
				"room_name": event.RoomName,
				"room_sid":  event.RoomSID,
			}).Info("No call context for upstream event")
			s.metrics.EventsIngested.WithLabelValues(event.EventType, "no_context").Inc()
			return &domain.IngestResult{
				Status:    domain.IngestStatusNoCallContext,
				EventID:   event.EventID,
				EventType: event.EventType,
			}, nil
		}
		return nil, fmt.Errorf("failed to resolve call context: %w", err)
	}

	// The unique constraint on event_id is the only idempotency gate. The
	// savepoint contains the constraint violation so the transaction stays
	// usable and still commits on the duplicate path.
	now := time.Now().UTC()
	eventRow := &domain.UpstreamCallEvent{
		TenantID:       call.TenantID,
		CallLogID:      &call.ID,
		EventID:        event.EventID,
		EventType:      event.EventType,
		RoomName:       event.RoomName,
		RoomSID:        event.RoomSID,
		EventTimestamp: event.CreatedAt.Unix(),
		Payload:     rawPayload,
		Processed:      true,
		ProcessedAt:    &now,
	}
	if event.ParticipantIdentity != "" {
		eventRow.ParticipantIdentity = &event.ParticipantIdentity
	}
	if event.ParticipantSID != "" {
		eventRow.ParticipantSID = &event.ParticipantSID
	}

	err = repository.WithSavepoint(ctx, tx, "event_insert", func() error {
		return s.eventRepo.CreateTx(ctx, tx, eventRow)
	})
	if err != nil {
		if !domain.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("failed to record upstream event: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		s.logger.WithField("event_id", event.EventID).Debug("Upstream event already processed")
		s.metrics.EventsDuplicate.Inc()
		return &domain.IngestResult{
			Status:    domain.IngestStatusAlreadyProcessed,
			EventID:   event.EventID,
			EventType: event.EventType,
			CallLogID: call.ID,
		}, nil
	}

	result := &domain.IngestResult{
		Status:    domain.IngestStatusProcessed,
		EventID:   event.EventID,
		EventType: event.EventType,
		CallLogID: call.ID,
	}
	outcomeLabel := "recorded"

	switch event.EventType {
	case domain.UpstreamEventParticipantLeft, domain.UpstreamEventRoomFinished:
		if call.Status == domain.CallStatusEnded {
			// Late duplicate lifecycle event on a closed call: keep the
			// event row, never re-end the call or fan out a second
			// call.completed.
			outcomeLabel = "already_ended"
			break
		}

		outcome, enqueued, err := s.completeCall(ctx, tx, call, event)
		if err != nil {
			return nil, err
		}
		result.Outcome = outcome
		result.Enqueued = enqueued
		outcomeLabel = outcome

	case domain.UpstreamEventEgressEnded:
		if event.RecordingURL == "" {
			break
		}

		enqueued, err := s.attachRecording(ctx, tx, call, event)
		if err != nil {
			return nil, err
		}
		result.Enqueued = enqueued
		outcomeLabel = "recording_ready"
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.metrics.EventsIngested.WithLabelValues(event.EventType, outcomeLabel).Inc()
	s.logger.WithFields(map[string]interface{}{
		"event_id":    event.EventID,
		"event_type":  event.EventType,
		"call_log_id": call.ID,
		"outcome":     outcomeLabel,
		"enqueued":    result.Enqueued,
	}).Info("Processed upstream event")

	return result, nil
}

// completeCall transitions an active call to ended and fans call.completed
// out to subscribed partners. Returns the classified outcome and the number
// of deliveries enqueued.
func (s *IngestService) completeCall(ctx context.Context, tx *sql.Tx, call *domain.CallLog, event *upstreamEvent) (string, int, error) {
	roomStart := call.StartedAt
	if event.RoomCreatedAtKnown {
		roomStart = event.RoomCreatedAt
	}
	duration := int(event.CreatedAt.Sub(roomStart).Seconds())
	if duration < 0 {
		duration = 0
	}

	outcome := domain.ClassifyOutcome(event.DisconnectReason, duration, true)

	completion := domain.CallCompletion{
		Outcome:         outcome,
		DurationSeconds: duration,
		EndedAt:         event.CreatedAt,
		MetadataPatch:   domain.MapOfAny{},
	}
	if event.DisconnectReason != "" {
		completion.MetadataPatch["disconnect_reason"] = event.DisconnectReason
	}
	if event.ParticipantSID != "" {
		completion.MetadataPatch["participant_sid"] = event.ParticipantSID
	}
	if event.RecordingURL != "" {
		completion.RecordingURL = &event.RecordingURL
	}

	if err := s.callLogRepo.CompleteTx(ctx, tx, call.TenantID, call.ID, completion); err != nil {
		return "", 0, fmt.Errorf("failed to complete call log: %w", err)
	}

	s.updateDownstream(ctx, tx, call, domain.CampaignCallCompletion{
		Outcome:         outcome,
		DurationSeconds: duration,
		CompletedAt:     event.CreatedAt,
	})

	recordingURL := completion.RecordingURL
	if recordingURL == nil {
		recordingURL = call.RecordingURL
	}
	payload := outboundCallPayload(call, outcome, duration, recordingURL, &event.CreatedAt, event.CreatedAt)

	enqueued, err := s.deliverySvc.EnqueueForAllPartners(ctx, tx, call.TenantID, domain.EventCallCompleted, payload)
	if err != nil {
		return "", 0, fmt.Errorf("failed to enqueue partner deliveries: %w", err)
	}

	return outcome, enqueued, nil
}

// attachRecording backfills the recording URL onto the call and fans
// call.recording_ready out to subscribed partners.
func (s *IngestService) attachRecording(ctx context.Context, tx *sql.Tx, call *domain.CallLog, event *upstreamEvent) (int, error) {
	if err := s.callLogRepo.UpdateRecordingURLTx(ctx, tx, call.TenantID, call.ID, event.RecordingURL); err != nil {
		return 0, fmt.Errorf("failed to backfill recording url: %w", err)
	}

	outcome := ""
	if call.Outcome != nil {
		outcome = *call.Outcome
	}
	duration := 0
	if call.DurationSeconds != nil {
		duration = *call.DurationSeconds
	}

	payload := outboundCallPayload(call, outcome, duration, &event.RecordingURL, call.EndedAt, event.CreatedAt)

	enqueued, err := s.deliverySvc.EnqueueForAllPartners(ctx, tx, call.TenantID, domain.EventCallRecordingReady, payload)
	if err != nil {
		return 0, fmt.Errorf("failed to enqueue partner deliveries: %w", err)
	}

	return enqueued, nil
}

// updateDownstream refreshes the campaign call and lead rows tied to this
// call. Both run in their own savepoints: these tables are best-effort and a
// failure here must not poison the ingestion transaction.
func (s *IngestService) updateDownstream(ctx context.Context, tx *sql.Tx, call *domain.CallLog, completion domain.CampaignCallCompletion) {
	var campaignCall *domain.CampaignCall
	err := repository.WithSavepoint(ctx, tx, "campaign_call_update", func() error {
		var err error
		campaignCall, err = s.campaignRepo.CompleteCallTx(ctx, tx, call.TenantID, call.ID, completion)
		return err
	})
	if err != nil {
		var notFound *domain.ErrNotFound
		if !errors.As(err, &notFound) {
			s.logger.WithFields(map[string]interface{}{
				"call_log_id": call.ID,
				"error":       err.Error(),
			}).Warn("Failed to update campaign call")
		}
		return
	}

	if campaignCall.LeadID == nil {
		return
	}

	err = repository.WithSavepoint(ctx, tx, "lead_touch", func() error {
		return s.campaignRepo.TouchLeadTx(ctx, tx, call.TenantID, *campaignCall.LeadID, completion)
	})
	if err != nil {
		s.logger.WithFields(map[string]interface{}{
			"call_log_id": call.ID,
			"lead_id":     *campaignCall.LeadID,
			"error":       err.Error(),
		}).Warn("Failed to update lead call history")
	}
}

// outboundCallPayload builds the partner-facing payload. The shape is stable
// across event types; absent fields are explicit nulls.
func outboundCallPayload(call *domain.CallLog, outcome string, durationSeconds int, recordingURL *string, endedAt *time.Time, occurredAt time.Time) domain.MapOfAny {
	payload := domain.MapOfAny{
		"call_id":          call.ID,
		"room_name":        call.RoomName,
		"direction":        call.Direction,
		"phone_number":     call.PhoneNumber,
		"agent_id":         nil,
		"outcome":          outcome,
		"duration_seconds": durationSeconds,
		"recording_url":    nil,
		"ended_at":         nil,
		"occurred_at":      occurredAt.UTC().Format(time.RFC3339),
	}
	if call.AgentID != nil {
		payload["agent_id"] = *call.AgentID
	}
	if recordingURL != nil && *recordingURL != "" {
		payload["recording_url"] = *recordingURL
	}
	if endedAt != nil {
		payload["ended_at"] = endedAt.UTC().Format(time.RFC3339)
	}
	return payload
}
