package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldError(t *testing.T) {
	tests := []struct {
		name    string
		rank    int
		field   string
		err     error
		wantMsg string
	}{
		{
			name:    "missing redshift",
			rank:    3,
			field:   FieldZ,
			err:     ErrMissingField,
			wantMsg: "field error: rank=3, field=z, err=missing field",
		},
		{
			name:    "missing rlap on first record",
			rank:    0,
			field:   FieldRLap,
			err:     ErrMissingField,
			wantMsg: "field error: rank=0, field=rlap, err=missing field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewFieldError(tt.rank, tt.field, tt.err)

			assert.Equal(t, tt.wantMsg, err.Error(), "Error message mismatch")
			assert.Equal(t, tt.rank, err.Rank, "Rank mismatch")
			assert.Equal(t, tt.field, err.Field, "Field mismatch")

			assert.True(t, errors.Is(err, tt.err), "Should unwrap to underlying error")
		})
	}
}

func TestValidationError(t *testing.T) {
	t.Run("single error", func(t *testing.T) {
		err := NewValidationError("taxonomy")
		err.AddError("category \"Ia\" has no subtypes")

		assert.Equal(t, "validation error for taxonomy: category \"Ia\" has no subtypes", err.Error())
		assert.True(t, err.HasErrors(), "Should have errors")
		assert.Len(t, err.Errors, 1, "Should have one error")
	})

	t.Run("multiple errors", func(t *testing.T) {
		err := NewValidationError("taxonomy")
		err.AddError("a")
		err.AddError("b")

		assert.Equal(t, "validation errors for taxonomy: [a b]", err.Error())
		assert.Len(t, err.Errors, 2)
	})

	t.Run("no errors", func(t *testing.T) {
		err := NewValidationError("taxonomy")
		assert.False(t, err.HasErrors(), "Should not have errors")
		assert.Empty(t, err.Errors)
	})

	t.Run("matches invalid configuration", func(t *testing.T) {
		err := NewValidationError("taxonomy")
		err.AddError("x")
		assert.ErrorIs(t, err, ErrInvalidConfiguration)
	})
}
