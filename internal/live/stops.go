package live

import (
	"github.com/Pa-nts/topperbus/internal/geo"
	"github.com/Pa-nts/topperbus/internal/nextbus"
)

// MergedStop is one physical stop location with the set of routes serving
// it. Different routes carry their own Stop records for the same curb;
// records whose coordinates quantize to the same key are merged.
type MergedStop struct {
	Stop nextbus.Stop
	// RouteTags lists the serving routes in the order they were first
	// encountered; marker glyphs render their segments in this order.
	RouteTags []string
}

// DedupeStops merges each route's stop list by quantized coordinate key.
// The first record encountered for a location supplies the display fields;
// later duplicates only contribute their route tag. Output preserves
// first-encounter order.
func DedupeStops(routes []nextbus.Route) []MergedStop {
	index := make(map[geo.CoordKey]int)
	var merged []MergedStop

	for _, route := range routes {
		for _, stop := range route.Stops {
			key := geo.KeyFor(stop.Lat, stop.Lon)

			i, seen := index[key]
			if !seen {
				index[key] = len(merged)
				merged = append(merged, MergedStop{Stop: stop, RouteTags: []string{route.Tag}})
				continue
			}

			if !containsTag(merged[i].RouteTags, route.Tag) {
				merged[i].RouteTags = append(merged[i].RouteTags, route.Tag)
			}
		}
	}
	return merged
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
