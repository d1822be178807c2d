package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(year int, month time.Month, d, hour, min int) time.Time {
	return time.Date(year, month, d, hour, min, 0, 0, time.Local)
}

func TestIsRouteInService(t *testing.T) {
	tests := []struct {
		name     string
		routeTag string
		now      time.Time
		expected bool
	}{
		{
			name:     "saturday is out of service at any time",
			routeTag: "red",
			now:      at(2025, time.February, 8, 12, 0), // Saturday
			expected: false,
		},
		{
			name:     "sunday is out of service",
			routeTag: "red",
			now:      at(2025, time.February, 9, 12, 0), // Sunday
			expected: false,
		},
		{
			name:     "one minute before the window opens",
			routeTag: "red",
			now:      at(2025, time.February, 4, 7, 29), // Tuesday
			expected: false,
		},
		{
			name:     "window opening minute",
			routeTag: "red",
			now:      at(2025, time.February, 4, 7, 30),
			expected: true,
		},
		{
			name:     "window closing minute",
			routeTag: "red",
			now:      at(2025, time.February, 4, 17, 30),
			expected: true,
		},
		{
			name:     "one minute after the window closes",
			routeTag: "red",
			now:      at(2025, time.February, 4, 17, 31),
			expected: false,
		},
		{
			name:     "unknown route defaults to in service",
			routeTag: "mystery",
			now:      at(2025, time.February, 4, 3, 0),
			expected: true,
		},
		{
			name:     "unknown route still gated by weekend",
			routeTag: "mystery",
			now:      at(2025, time.February, 8, 12, 0),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsRouteInService(tt.routeTag, tt.now))
		})
	}
}

func TestCurrentBreakPeriod(t *testing.T) {
	winter := CurrentBreakPeriod(at(2024, time.December, 25, 15, 30))
	require.NotNil(t, winter)
	assert.Equal(t, "Winter Break", winter.Name)

	// Inclusive boundaries
	first := CurrentBreakPeriod(at(2024, time.December, 12, 0, 1))
	require.NotNil(t, first)
	assert.Equal(t, "Winter Break", first.Name)

	last := CurrentBreakPeriod(at(2025, time.January, 20, 23, 59))
	require.NotNil(t, last)
	assert.Equal(t, "Winter Break", last.Name)

	assert.Nil(t, CurrentBreakPeriod(at(2025, time.February, 1, 12, 0)))
}

func TestNextBreakPeriod(t *testing.T) {
	next := NextBreakPeriod(at(2025, time.February, 1, 12, 0))
	require.NotNil(t, next)
	assert.Equal(t, "Spring Break", next.Name)

	// A date inside a break still reports the following one
	next = NextBreakPeriod(at(2024, time.December, 25, 12, 0))
	require.NotNil(t, next)
	assert.Equal(t, "Spring Break", next.Name)

	assert.Nil(t, NextBreakPeriod(at(2025, time.September, 1, 0, 0)))
}

func TestStatusMessagePriority(t *testing.T) {
	// Dec 14 2024 is a Saturday inside Winter Break: the break message
	// supersedes the weekend message.
	inService, message := StatusMessage("red", at(2024, time.December, 14, 12, 0))
	assert.False(t, inService)
	assert.Contains(t, message, "Winter Break")

	// A plain weekend outside any break
	inService, message = StatusMessage("red", at(2025, time.February, 8, 12, 0))
	assert.False(t, inService)
	assert.Contains(t, message, "weekend")

	// A weekday outside the route's hours
	inService, message = StatusMessage("red", at(2025, time.February, 4, 22, 0))
	assert.False(t, inService)
	assert.Contains(t, message, "service hours")

	// In service: no message
	inService, message = StatusMessage("red", at(2025, time.February, 4, 12, 0))
	assert.True(t, inService)
	assert.Empty(t, message)
}
