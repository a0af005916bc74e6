package signer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize(t *testing.T) {
	t.Run("SortsKeysAndStripsWhitespace", func(t *testing.T) {
		out, err := Canonicalize([]byte(`{ "b": 1,  "a": "x" }`))
		require.NoError(t, err)
		assert.Equal(t, `{"a":"x","b":1}`, string(out))
	})

	t.Run("KeyOrderIndependent", func(t *testing.T) {
		a, err := Canonicalize([]byte(`{"b":1,"a":2}`))
		require.NoError(t, err)
		b, err := Canonicalize([]byte(`{"a":2,"b":1}`))
		require.NoError(t, err)
		assert.Equal(t, string(a), string(b))
	})

	t.Run("PreservesLargeNumbers", func(t *testing.T) {
		out, err := Canonicalize([]byte(`{"ts":1730000000123456789}`))
		require.NoError(t, err)
		assert.Equal(t, `{"ts":1730000000123456789}`, string(out))
	})

	t.Run("NestedObjects", func(t *testing.T) {
		out, err := Canonicalize([]byte(`{"z":{"b":1,"a":[1,2]},"a":null}`))
		require.NoError(t, err)
		assert.Equal(t, `{"a":null,"z":{"a":[1,2],"b":1}}`, string(out))
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		_, err := Canonicalize([]byte(`{not json`))
		assert.Error(t, err)
	})
}

func TestSignVerifyRoundTrip(t *testing.T) {
	now := time.Unix(1730000000, 0)
	payload := []byte(`{"call_id":"c1","outcome":"completed"}`)

	sig, ts, body, err := Sign(payload, "secret-key", now)
	require.NoError(t, err)
	assert.Equal(t, "1730000000", ts)
	assert.JSONEq(t, string(payload), string(body))

	t.Run("Valid", func(t *testing.T) {
		err := Verify(body, "secret-key", sig, ts, DefaultTolerance, now)
		assert.NoError(t, err)
	})

	t.Run("ValidWithinTolerance", func(t *testing.T) {
		err := Verify(body, "secret-key", sig, ts, DefaultTolerance, now.Add(299*time.Second))
		assert.NoError(t, err)
	})

	t.Run("MutatedPayload", func(t *testing.T) {
		err := Verify([]byte(`{"call_id":"c2","outcome":"completed"}`), "secret-key", sig, ts, DefaultTolerance, now)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		err := Verify(body, "other-key", sig, ts, DefaultTolerance, now)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("MutatedSignature", func(t *testing.T) {
		mutated := "0" + sig[1:]
		if mutated == sig {
			mutated = "1" + sig[1:]
		}
		err := Verify(body, "secret-key", mutated, ts, DefaultTolerance, now)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("StaleTimestamp", func(t *testing.T) {
		err := Verify(body, "secret-key", sig, ts, DefaultTolerance, now.Add(301*time.Second))
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("FutureTimestamp", func(t *testing.T) {
		err := Verify(body, "secret-key", sig, ts, DefaultTolerance, now.Add(-301*time.Second))
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("GarbageTimestamp", func(t *testing.T) {
		err := Verify(body, "secret-key", sig, "not-a-number", DefaultTolerance, now)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("MissingSecret", func(t *testing.T) {
		err := Verify(body, "", sig, ts, DefaultTolerance, now)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})
}

func TestSignKeyOrderIndependent(t *testing.T) {
	now := time.Unix(1730000000, 0)

	sigA, _, _, err := Sign([]byte(`{"b":1,"a":2}`), "k", now)
	require.NoError(t, err)
	sigB, _, _, err := Sign([]byte(`{"a":2, "b": 1}`), "k", now)
	require.NoError(t, err)

	assert.Equal(t, sigA, sigB)
}

func TestSignErrors(t *testing.T) {
	now := time.Unix(1730000000, 0)

	t.Run("EmptySecret", func(t *testing.T) {
		_, _, _, err := Sign([]byte(`{}`), "", now)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("InvalidPayload", func(t *testing.T) {
		_, _, _, err := Sign([]byte(`nope{`), "k", now)
		assert.Error(t, err)
	})
}

func TestVerifyRaw(t *testing.T) {
	body := []byte(`{"id":"evt_1","event":"participant_left"}`)
	sig := ComputeHMAC256(body, "upstream-secret")

	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, VerifyRaw(body, "upstream-secret", sig))
	})

	t.Run("MutatedBody", func(t *testing.T) {
		assert.ErrorIs(t, VerifyRaw([]byte(`{"id":"evt_2"}`), "upstream-secret", sig), ErrInvalidSignature)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		assert.ErrorIs(t, VerifyRaw(body, "wrong", sig), ErrInvalidSignature)
	})

	t.Run("EmptySignature", func(t *testing.T) {
		assert.ErrorIs(t, VerifyRaw(body, "upstream-secret", ""), ErrInvalidSignature)
	})

	t.Run("MissingSecret", func(t *testing.T) {
		assert.ErrorIs(t, VerifyRaw(body, "", sig), ErrInvalidSignature)
	})
}
