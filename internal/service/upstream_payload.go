package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"github.com/Callhook/callhook/internal/domain"
)

// upstreamEvent is the parsed form of an upstream webhook body. Only the
// fields the ingestion flow consumes are extracted; the full raw body is
// persisted separately on the event row.
type upstreamEvent struct {
	EventID             string
	EventType           string
	CreatedAt           time.Time
	RoomName            string
	RoomSID             string
	RoomCreatedAt       time.Time
	RoomCreatedAtKnown  bool
	ParticipantIdentity string
	ParticipantSID      string
	DisconnectReason    string
	RecordingURL        string
}

// parseUpstreamEvent extracts the ingestion fields from an upstream webhook
// body. It is deliberately lenient: field requirements depend on the event
// type, so the caller validates after the processable-type gate.
func parseUpstreamEvent(raw []byte) (*upstreamEvent, error) {
	result := gjson.ParseBytes(raw)
	if !result.IsObject() {
		return nil, domain.NewValidationError("payload must be a JSON object")
	}

	event := &upstreamEvent{
		EventID:             result.Get("id").String(),
		EventType:           result.Get("event").String(),
		RoomName:            result.Get("room.name").String(),
		RoomSID:             result.Get("room.sid").String(),
		ParticipantIdentity: result.Get("participant.identity").String(),
		ParticipantSID:      result.Get("participant.sid").String(),
		DisconnectReason:    result.Get("participant.disconnectReason").String(),
	}

	// createdAt arrives as RFC3339 or unix seconds depending on the upstream
	// SDK version.
	if created := result.Get("createdAt"); created.Exists() {
		switch created.Type {
		case gjson.String:
			t, err := time.Parse(time.RFC3339, created.String())
			if err != nil {
				return nil, domain.NewValidationError(fmt.Sprintf("invalid createdAt: %q", created.String()))
			}
			event.CreatedAt = t.UTC()
		case gjson.Number:
			event.CreatedAt = time.Unix(created.Int(), 0).UTC()
		}
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	// room.creationTime is unix seconds, sometimes string-encoded.
	if creation := result.Get("room.creationTime"); creation.Exists() {
		switch creation.Type {
		case gjson.Number:
			event.RoomCreatedAt = time.Unix(creation.Int(), 0).UTC()
			event.RoomCreatedAtKnown = true
		case gjson.String:
			if secs, err := strconv.ParseInt(creation.String(), 10, 64); err == nil {
				event.RoomCreatedAt = time.Unix(secs, 0).UTC()
				event.RoomCreatedAtKnown = true
			}
		}
	}

	for _, file := range result.Get("egressInfo.fileResults").Array() {
		if url := file.Get("download_url").String(); url != "" {
			event.RecordingURL = url
			break
		}
	}

	return event, nil
}
