package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceMeters(t *testing.T) {
	// One degree of latitude is roughly 111.2 km
	d := DistanceMeters(37.0, -122.0, 38.0, -122.0)
	assert.InDelta(t, 111195, d, 50)

	// Zero distance for identical points
	assert.Equal(t, 0.0, DistanceMeters(36.9856, -86.4552, 36.9856, -86.4552))
}

func TestDistanceMetersIsSymmetric(t *testing.T) {
	a := DistanceMeters(36.9856, -86.4552, 36.9880, -86.4600)
	b := DistanceMeters(36.9880, -86.4600, 36.9856, -86.4552)
	assert.InDelta(t, a, b, 1e-9)
}

func TestBearingDegrees(t *testing.T) {
	tests := []struct {
		name     string
		from, to Point
		expected float64
	}{
		{
			name:     "due north",
			from:     Point{Lat: 36.0, Lon: -86.0},
			to:       Point{Lat: 37.0, Lon: -86.0},
			expected: 0,
		},
		{
			name:     "due south",
			from:     Point{Lat: 37.0, Lon: -86.0},
			to:       Point{Lat: 36.0, Lon: -86.0},
			expected: 180,
		},
		{
			name:     "due east at equator",
			from:     Point{Lat: 0, Lon: 0},
			to:       Point{Lat: 0, Lon: 1},
			expected: 90,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, BearingDegrees(tt.from, tt.to), 0.01)
		})
	}
}

func TestOffsetPoint(t *testing.T) {
	start := Point{Lat: 36.9856, Lon: -86.4552}
	dest := OffsetPoint(start, 90, 100)

	// Destination should be ~100m away on an eastward bearing
	d := DistanceMeters(start.Lat, start.Lon, dest.Lat, dest.Lon)
	assert.InDelta(t, 100, d, 0.1)
	assert.Greater(t, dest.Lon, start.Lon)
	assert.InDelta(t, start.Lat, dest.Lat, 0.0001)
}

func TestOffsetPolylineShortInputsUnchanged(t *testing.T) {
	assert.Nil(t, OffsetPolyline(nil, 5))

	single := []Point{{Lat: 36.9, Lon: -86.4}}
	assert.Equal(t, single, OffsetPolyline(single, 5))
}

func TestOffsetPolylineZeroOffsetIsIdentity(t *testing.T) {
	line := []Point{{Lat: 36.98, Lon: -86.46}, {Lat: 36.99, Lon: -86.45}}
	assert.Equal(t, line, OffsetPolyline(line, 0))
}

func TestOffsetPolylineDisplacesEachPoint(t *testing.T) {
	line := []Point{
		{Lat: 36.980, Lon: -86.460},
		{Lat: 36.985, Lon: -86.460},
		{Lat: 36.990, Lon: -86.460},
	}

	offset := OffsetPolyline(line, 10)
	require.Len(t, offset, len(line))

	for i := range line {
		d := DistanceMeters(line[i].Lat, line[i].Lon, offset[i].Lat, offset[i].Lon)
		assert.InDelta(t, 10, d, 0.5, "point %d should be displaced by ~10m", i)
	}

	// A northbound line offset positively should shift east
	for i := range line {
		assert.Greater(t, offset[i].Lon, line[i].Lon)
	}
}

func TestAverageBearingWrapsAroundNorth(t *testing.T) {
	assert.InDelta(t, 0, averageBearing(350, 10), 0.01)
	assert.InDelta(t, 90, averageBearing(80, 100), 0.01)
}

func TestKeyFor(t *testing.T) {
	// Coordinates rounding to the same 4th decimal share a key
	a := KeyFor(36.98561, -86.45522)
	b := KeyFor(36.98563, -86.45518)
	assert.Equal(t, a, b)

	// ~11m apart in the 4th decimal place get distinct keys
	c := KeyFor(36.9857, -86.4552)
	assert.NotEqual(t, a, c)
}
