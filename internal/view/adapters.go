// Package view holds pure presentation transforms: no I/O, no state. The
// map-rendering surface consumes these values directly.
package view

import (
	"math"
	"strings"
)

// The feed reports unbranded routes with a color of 000000. That sentinel is
// substituted with a neutral gray at every render site rather than being
// rewritten into the data model, so a full refresh can never leak the
// sentinel into the UI.
const (
	sentinelColor = "000000"
	fallbackGray  = "6B7280"
)

// DisplayColor resolves a route or stop color for rendering. The sentinel
// "black means unset" value maps to a fixed neutral gray; everything else
// passes through unchanged.
func DisplayColor(hexColor string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(hexColor), "#")
	if strings.EqualFold(normalized, sentinelColor) {
		return fallbackGray
	}
	return hexColor
}

// KmhToMph converts a feed speed to display mph, rounded to the nearest
// integer.
func KmhToMph(kmh float64) int {
	return int(math.Round(kmh * 0.621371))
}

// RouteStyle describes how one route's polylines are drawn when several
// routes are displayed at once.
type RouteStyle struct {
	DashPattern  string
	StrokeWeight int
	OffsetMeters float64
}

// routeStyles is the fixed rotation of polyline styles. Offsets keep
// overlapping paths visually separated; dash patterns disambiguate them for
// color-blind riders.
var routeStyles = [5]RouteStyle{
	{DashPattern: "", StrokeWeight: 4, OffsetMeters: 0},
	{DashPattern: "10 6", StrokeWeight: 4, OffsetMeters: 4},
	{DashPattern: "2 8", StrokeWeight: 5, OffsetMeters: -4},
	{DashPattern: "14 6 2 6", StrokeWeight: 4, OffsetMeters: 8},
	{DashPattern: "6 6", StrokeWeight: 3, OffsetMeters: -8},
}

// StyleForIndex picks the visual style for the route at the given display
// index. The table wraps, so a sixth route reuses the first style.
func StyleForIndex(index int) RouteStyle {
	if index < 0 {
		index = -index
	}
	return routeStyles[index%len(routeStyles)]
}

// GlyphSegment is one colored segment of a stop marker.
type GlyphSegment struct {
	Color        string
	RoundedLeft  bool
	RoundedRight bool
}

// GlyphForStop builds the marker glyph for a stop location: a single
// solid-color glyph when one route serves it, a split multi-segment glyph
// (rounded outer caps, flat inner dividers) when several routes share it.
// Colors are given in the order the routes were first encountered, and the
// sentinel substitution is applied per segment.
func GlyphForStop(routeColors []string) []GlyphSegment {
	segments := make([]GlyphSegment, 0, len(routeColors))
	for i, color := range routeColors {
		segments = append(segments, GlyphSegment{
			Color:        DisplayColor(color),
			RoundedLeft:  i == 0,
			RoundedRight: i == len(routeColors)-1,
		})
	}
	return segments
}
