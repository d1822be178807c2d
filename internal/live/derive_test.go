package live

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pa-nts/topperbus/internal/geo"
	"github.com/Pa-nts/topperbus/internal/nextbus"
)

var campusCenter = geo.Point{Lat: 36.9856, Lon: -86.4552}

// stopAt places a stop the given distance north of the campus center.
func stopAt(tag string, meters float64) nextbus.Stop {
	p := geo.OffsetPoint(campusCenter, 0, meters)
	return nextbus.Stop{Tag: tag, Title: tag, Lat: p.Lat, Lon: p.Lon}
}

func vehicleAtCenter(dirTag string) nextbus.VehicleLocation {
	return nextbus.VehicleLocation{
		ID:       "301",
		RouteTag: "red",
		DirTag:   dirTag,
		Lat:      campusCenter.Lat,
		Lon:      campusCenter.Lon,
	}
}

func TestNearestStop(t *testing.T) {
	t.Run("closest stop within threshold wins", func(t *testing.T) {
		stops := []nextbus.Stop{stopAt("far", 480), stopAt("near", 120)}

		nearest, found := NearestStop(vehicleAtCenter(""), stops)
		require.True(t, found)
		assert.Equal(t, "near", nearest.Tag)
	})

	t.Run("vehicle between stops reports none", func(t *testing.T) {
		stops := []nextbus.Stop{stopAt("a", 620), stopAt("b", 900)}

		_, found := NearestStop(vehicleAtCenter(""), stops)
		assert.False(t, found)
	})

	t.Run("no stops reports none", func(t *testing.T) {
		_, found := NearestStop(vehicleAtCenter(""), nil)
		assert.False(t, found)
	})
}

func loopRoute() nextbus.Route {
	return nextbus.Route{
		Tag:   "red",
		Title: "Red Line",
		Stops: []nextbus.Stop{
			stopAt("first", 0),
			stopAt("second", 400),
			stopAt("third", 800),
		},
		Directions: []nextbus.Direction{
			{
				Tag:      "red_loop",
				Title:    "Campus Loop",
				UseForUI: true,
				StopTags: []string{"first", "second", "third"},
			},
		},
	}
}

func TestNextStopInDirection(t *testing.T) {
	route := loopRoute()

	t.Run("advances to the following stop", func(t *testing.T) {
		next, ok := NextStopInDirection(vehicleAtCenter("red_loop"), &route)
		require.True(t, ok)
		assert.Equal(t, "second", next.Tag)
	})

	t.Run("holds at the last stop instead of wrapping", func(t *testing.T) {
		v := vehicleAtCenter("red_loop")
		end := geo.OffsetPoint(campusCenter, 0, 800)
		v.Lat, v.Lon = end.Lat, end.Lon

		next, ok := NextStopInDirection(v, &route)
		require.True(t, ok)
		assert.Equal(t, "third", next.Tag)
	})

	t.Run("unknown direction reports none", func(t *testing.T) {
		_, ok := NextStopInDirection(vehicleAtCenter("missing_dir"), &route)
		assert.False(t, ok)
	})

	t.Run("direction tags absent from the stop list are skipped", func(t *testing.T) {
		withGhost := loopRoute()
		withGhost.Directions[0].StopTags = []string{"first", "garage", "second", "third"}

		next, ok := NextStopInDirection(vehicleAtCenter("red_loop"), &withGhost)
		require.True(t, ok)
		assert.Equal(t, "second", next.Tag)
	})
}

func TestJourneyProjection(t *testing.T) {
	route := loopRoute()

	v := vehicleAtCenter("red_loop")
	mid := geo.OffsetPoint(campusCenter, 0, 400)
	v.Lat, v.Lon = mid.Lat, mid.Lon

	journey := JourneyProjection(v, &route)
	require.Len(t, journey, 3)

	// Rotated so the closest stop leads, estimates stepping by 2.5
	assert.Equal(t, "second", journey[0].Stop.Tag)
	assert.Equal(t, 0.0, journey[0].EstimatedMinutes)
	assert.Equal(t, "third", journey[1].Stop.Tag)
	assert.Equal(t, 2.5, journey[1].EstimatedMinutes)
	assert.Equal(t, "first", journey[2].Stop.Tag)
	assert.Equal(t, 5.0, journey[2].EstimatedMinutes)
}

func TestDedupeStops(t *testing.T) {
	shared := stopAt("main", 0)
	sharedCopy := shared
	sharedCopy.Tag = "main_bl"
	sharedCopy.Title = "Main Street (blue)"
	// Nudge the duplicate by less than the 4th decimal place
	sharedCopy.Lat += 0.00002

	routes := []nextbus.Route{
		{Tag: "red", Stops: []nextbus.Stop{shared, stopAt("union", 400)}},
		{Tag: "blue", Stops: []nextbus.Stop{sharedCopy, stopAt("library", 800)}},
	}

	merged := DedupeStops(routes)
	require.Len(t, merged, 3)

	// First-encounter record supplies display fields; duplicate contributes
	// only its route tag.
	assert.Equal(t, "main", merged[0].Stop.Tag)
	assert.Equal(t, []string{"red", "blue"}, merged[0].RouteTags)

	assert.Equal(t, "union", merged[1].Stop.Tag)
	assert.Equal(t, []string{"red"}, merged[1].RouteTags)

	assert.Equal(t, "library", merged[2].Stop.Tag)
	assert.Equal(t, []string{"blue"}, merged[2].RouteTags)
}
