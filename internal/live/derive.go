package live

import (
	"github.com/Pa-nts/topperbus/internal/geo"
	"github.com/Pa-nts/topperbus/internal/nextbus"
)

// NearestStopThresholdMeters bounds the "currently at <stop>" derivation: a
// vehicle farther than this from every stop is between stops, and no nearest
// stop is reported.
const NearestStopThresholdMeters = 500.0

// EstimatedMinutesPerStop is the fixed heuristic used by the journey
// projection. It is a display-only approximation with no relation to live
// prediction data and is deliberately not reconciled with predictions shown
// elsewhere for the same vehicle.
const EstimatedMinutesPerStop = 2.5

// NearestStop returns the route stop closest to the vehicle, provided it is
// strictly within the threshold. Ties go to the first stop encountered in
// iteration order.
func NearestStop(vehicle nextbus.VehicleLocation, stops []nextbus.Stop) (nextbus.Stop, bool) {
	var nearest nextbus.Stop
	best := NearestStopThresholdMeters

	found := false
	for _, stop := range stops {
		d := geo.DistanceMeters(vehicle.Lat, vehicle.Lon, stop.Lat, stop.Lon)
		if d < best {
			best = d
			nearest = stop
			found = true
		}
	}
	return nearest, found
}

// directionStops resolves a direction's ordered stop tags against the
// route's stop list. Tags absent from the stop list are skipped; the feed
// occasionally references bookkeeping stops that are not in routeConfig.
func directionStops(route *nextbus.Route, dirTag string) []nextbus.Stop {
	dir, ok := route.DirectionByTag(dirTag)
	if !ok {
		return nil
	}

	stops := make([]nextbus.Stop, 0, len(dir.StopTags))
	for _, tag := range dir.StopTags {
		if stop, ok := route.StopByTag(tag); ok {
			stops = append(stops, stop)
		}
	}
	return stops
}

// closestStopIndex finds the index of the stop closest to the vehicle within
// an ordered stop list. Unlike NearestStop there is no distance threshold:
// this locates the vehicle within the route's sequence, however far off it
// is.
func closestStopIndex(vehicle nextbus.VehicleLocation, stops []nextbus.Stop) int {
	best := -1
	var bestDist float64

	for i, stop := range stops {
		d := geo.DistanceMeters(vehicle.Lat, vehicle.Lon, stop.Lat, stop.Lon)
		if best == -1 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// NextStopInDirection returns the stop the vehicle will serve next along its
// current direction: the one after the closest stop in sequence, or the last
// stop itself when the vehicle is already at the end. It never wraps to the
// start of the list.
func NextStopInDirection(vehicle nextbus.VehicleLocation, route *nextbus.Route) (nextbus.Stop, bool) {
	stops := directionStops(route, vehicle.DirTag)
	if len(stops) == 0 {
		return nextbus.Stop{}, false
	}

	idx := closestStopIndex(vehicle, stops)
	next := idx + 1
	if next > len(stops)-1 {
		next = len(stops) - 1
	}
	return stops[next], true
}

// JourneyStop is one entry of a vehicle's projected journey.
type JourneyStop struct {
	Stop nextbus.Stop
	// EstimatedMinutes is index * EstimatedMinutesPerStop; the first entry
	// is always 0 ("now").
	EstimatedMinutes float64
}

// JourneyProjection orders a vehicle's remaining journey for the schedule
// view: the direction's stop list rotated so the closest stop comes first,
// each subsequent stop offset by the fixed per-stop estimate.
func JourneyProjection(vehicle nextbus.VehicleLocation, route *nextbus.Route) []JourneyStop {
	stops := directionStops(route, vehicle.DirTag)
	if len(stops) == 0 {
		return nil
	}

	start := closestStopIndex(vehicle, stops)
	journey := make([]JourneyStop, 0, len(stops))
	for i := range stops {
		stop := stops[(start+i)%len(stops)]
		journey = append(journey, JourneyStop{
			Stop:             stop,
			EstimatedMinutes: float64(i) * EstimatedMinutesPerStop,
		})
	}
	return journey
}
