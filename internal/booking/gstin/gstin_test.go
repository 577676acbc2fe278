package gstin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sample = "18AABCU9603R1ZM"

func TestFormat(t *testing.T) {
	t.Run("uppercases and strips separators", func(t *testing.T) {
		assert.Equal(t, sample, Format("18-aabcu 9603r1zm"))
	})

	t.Run("accepts a complete valid value unchanged", func(t *testing.T) {
		assert.Equal(t, sample, Format(sample))
	})

	t.Run("drops characters that break the positional template", func(t *testing.T) {
		// Letters are not allowed in the first two positions.
		assert.Equal(t, "18", Format("A1B8"))
	})

	t.Run("truncates input beyond fifteen characters", func(t *testing.T) {
		got := Format(sample + "EXTRA99")
		assert.Equal(t, sample, got)
		assert.LessOrEqual(t, len(got), Length)
	})

	t.Run("empty input stays empty", func(t *testing.T) {
		assert.Equal(t, "", Format(""))
		assert.Equal(t, "", Format("--- ..."))
	})
}

func TestFormat_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"18",
		"18aabcu",
		sample,
		"zz18AABCU9603R1ZMzz",
		"18-AABCU-9603-R1ZM",
	}
	for _, in := range inputs {
		once := Format(in)
		assert.Equal(t, once, Format(once), "Format not idempotent for %q", in)
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(""))
	assert.NoError(t, Validate(sample))
	assert.ErrorIs(t, Validate("18AABCU"), ErrPartial)
	assert.ErrorIs(t, Validate("1"), ErrPartial)
}

func TestStateOfGSTIN(t *testing.T) {
	assert.Equal(t, "18", StateOfGSTIN(sample))
	assert.Equal(t, "", StateOfGSTIN("1"))
}
