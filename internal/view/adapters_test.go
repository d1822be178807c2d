package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayColor(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "sentinel black maps to gray", input: "000000", expected: "6B7280"},
		{name: "sentinel with hash prefix", input: "#000000", expected: "6B7280"},
		{name: "branded color passes through", input: "CC0000", expected: "CC0000"},
		{name: "hash-prefixed branded color passes through", input: "#CC0000", expected: "#CC0000"},
		{name: "near-black is not the sentinel", input: "000001", expected: "000001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DisplayColor(tt.input))
		})
	}
}

func TestKmhToMph(t *testing.T) {
	assert.Equal(t, 0, KmhToMph(0))
	assert.Equal(t, 25, KmhToMph(40))
	assert.Equal(t, 6, KmhToMph(10))
}

func TestStyleForIndex(t *testing.T) {
	// The table wraps after five entries
	assert.Equal(t, StyleForIndex(0), StyleForIndex(5))
	assert.Equal(t, StyleForIndex(2), StyleForIndex(7))

	// First style draws a solid line with no offset
	first := StyleForIndex(0)
	assert.Empty(t, first.DashPattern)
	assert.Zero(t, first.OffsetMeters)

	// Later styles carry distinct offsets so overlapping paths separate
	assert.NotEqual(t, StyleForIndex(1).OffsetMeters, StyleForIndex(2).OffsetMeters)

	// Negative indexes do not panic
	assert.NotPanics(t, func() { StyleForIndex(-3) })
}

func TestGlyphForStop(t *testing.T) {
	t.Run("single route produces one fully rounded segment", func(t *testing.T) {
		segments := GlyphForStop([]string{"CC0000"})
		require.Len(t, segments, 1)
		assert.Equal(t, "CC0000", segments[0].Color)
		assert.True(t, segments[0].RoundedLeft)
		assert.True(t, segments[0].RoundedRight)
	})

	t.Run("shared stop splits into ordered segments", func(t *testing.T) {
		segments := GlyphForStop([]string{"CC0000", "FFFFFF", "000000"})
		require.Len(t, segments, 3)

		assert.True(t, segments[0].RoundedLeft)
		assert.False(t, segments[0].RoundedRight)
		assert.False(t, segments[1].RoundedLeft)
		assert.False(t, segments[1].RoundedRight)
		assert.False(t, segments[2].RoundedLeft)
		assert.True(t, segments[2].RoundedRight)

		// Sentinel substitution applies per segment
		assert.Equal(t, "6B7280", segments[2].Color)
	})
}
