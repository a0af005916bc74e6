package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestErrNotFound_Error(t *testing.T) {
	err := &ErrNotFound{
		Entity: "delivery",
		ID:     "12345",
	}

	expected := "delivery not found with ID: 12345"
	if err.Error() != expected {
		t.Errorf("Expected error message '%s', got '%s'", expected, err.Error())
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("url is required")
	assert.Equal(t, "validation error: url is required", err.Error())

	var vErr ValidationError
	assert.True(t, errors.As(err, &vErr))
}

func TestIsDuplicateKeyError(t *testing.T) {
	t.Run("unique violation", func(t *testing.T) {
		err := &pq.Error{Code: "23505", Constraint: "upstream_call_events_event_id_key"}
		assert.True(t, IsDuplicateKeyError(err))
	})

	t.Run("wrapped unique violation", func(t *testing.T) {
		err := fmt.Errorf("failed to insert event: %w", &pq.Error{Code: "23505"})
		assert.True(t, IsDuplicateKeyError(err))
	})

	t.Run("other pq error", func(t *testing.T) {
		err := &pq.Error{Code: "23503"} // foreign key violation
		assert.False(t, IsDuplicateKeyError(err))
	})

	t.Run("plain error", func(t *testing.T) {
		assert.False(t, IsDuplicateKeyError(errors.New("boom")))
	})

	t.Run("nil", func(t *testing.T) {
		assert.False(t, IsDuplicateKeyError(nil))
	})
}
