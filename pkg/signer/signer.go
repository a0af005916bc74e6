package signer

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Headers carried on every outbound delivery.
const (
	HeaderSignature = "X-Webhook-Signature"
	HeaderTimestamp = "X-Webhook-Timestamp"
	UserAgent       = "EventDelivery/1.0"
)

// DefaultTolerance is the maximum accepted clock skew between the
// timestamp header and the verifier's clock.
const DefaultTolerance = 5 * time.Minute

// ErrInvalidSignature is returned for every verification failure: missing
// secret, stale timestamp and signature mismatch are indistinguishable to
// the caller.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// ComputeHMAC256 returns the hex-encoded HMAC-SHA256 of toSign.
func ComputeHMAC256(toSign []byte, secretKey string) string {
	h := hmac.New(sha256.New, []byte(secretKey))
	h.Write(toSign)
	return hex.EncodeToString(h.Sum(nil))
}

// Canonicalize re-serializes a JSON document with object keys sorted and no
// insignificant whitespace, so that signer and verifier agree on the exact
// bytes regardless of how the payload was produced. Numbers pass through
// verbatim via json.Number.
func Canonicalize(payload []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}
	return out, nil
}

// Sign canonicalizes the payload and computes the hex HMAC-SHA256 of
// "{timestamp}.{payload_json}". It returns the signature, the timestamp
// header value and the canonical body that must be sent on the wire.
func Sign(payload []byte, secret string, now time.Time) (signature string, timestamp string, body []byte, err error) {
	if secret == "" {
		return "", "", nil, ErrInvalidSignature
	}
	body, err = Canonicalize(payload)
	if err != nil {
		return "", "", nil, err
	}
	timestamp = strconv.FormatInt(now.Unix(), 10)
	signature = ComputeHMAC256(signedMessage(timestamp, body), secret)
	return signature, timestamp, body, nil
}

// Verify checks the timestamp tolerance and the signature in constant time.
// All failure modes return ErrInvalidSignature.
func Verify(payload []byte, secret, providedSignature, providedTimestamp string, tolerance time.Duration, now time.Time) error {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	failed := secret == ""

	ts, err := strconv.ParseInt(providedTimestamp, 10, 64)
	if err != nil {
		failed = true
		ts = now.Unix()
	}
	skew := now.Unix() - ts
	if skew < 0 {
		skew = -skew
	}
	if skew > int64(tolerance.Seconds()) {
		failed = true
	}

	body, err := Canonicalize(payload)
	if err != nil {
		failed = true
		body = payload
	}

	// The MAC is always computed and compared so that failure paths do not
	// differ in timing.
	expected := ComputeHMAC256(signedMessage(providedTimestamp, body), secret)
	if !hmac.Equal([]byte(expected), []byte(providedSignature)) {
		failed = true
	}

	if failed {
		return ErrInvalidSignature
	}
	return nil
}

// VerifyRaw checks a hex HMAC-SHA256 computed directly over the raw body,
// the scheme used by the upstream media service (no timestamp prefix).
func VerifyRaw(body []byte, secret, providedSignature string) error {
	failed := secret == ""
	expected := ComputeHMAC256(body, secret)
	if !hmac.Equal([]byte(expected), []byte(providedSignature)) {
		failed = true
	}
	if failed {
		return ErrInvalidSignature
	}
	return nil
}

func signedMessage(timestamp string, body []byte) []byte {
	msg := make([]byte, 0, len(timestamp)+1+len(body))
	msg = append(msg, timestamp...)
	msg = append(msg, '.')
	msg = append(msg, body...)
	return msg
}
