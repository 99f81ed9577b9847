package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodes(t *testing.T) {
	t.Run("HasCode finds wrapped code", func(t *testing.T) {
		base := New(CodeValidation, "bad")
		wrapped := Wrap(base, CodeBadRequest, "invalid step")

		assert.True(t, HasCode(wrapped, CodeBadRequest))
		assert.True(t, HasCode(wrapped, CodeValidation))
		assert.False(t, HasCode(wrapped, CodeInternal))
	})

	t.Run("HasCode survives fmt wrapping", func(t *testing.T) {
		err := fmt.Errorf("context: %w", New(CodeNotFound, "missing"))
		assert.True(t, Is(err, CodeNotFound))
	})

	t.Run("plain errors carry no code", func(t *testing.T) {
		err := errors.New("boom")
		assert.False(t, HasCode(err, CodeInternal))
		assert.Equal(t, CodeInternal, CodeOf(err))
	})

	t.Run("Wrap of nil is nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeInternal, "x"))
	})
}

func TestFieldOf(t *testing.T) {
	err := Wrap(NewField(CodeValidation, "spouse", "spouse is required"), CodeBadRequest, "submission rejected")

	require.Error(t, err)
	assert.Equal(t, "spouse", FieldOf(err))
	assert.Contains(t, err.Error(), "spouse: spouse is required")
	assert.Empty(t, FieldOf(New(CodeInternal, "x")))
}
