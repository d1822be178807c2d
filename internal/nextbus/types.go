package nextbus

import (
	"sort"

	"github.com/Pa-nts/topperbus/internal/geo"
)

// Route is one transit route from the routeConfig command, replaced
// wholesale on every full refresh.
type Route struct {
	Tag           string
	Title         string
	Color         string
	OppositeColor string
	LatMin        float64
	LatMax        float64
	LonMin        float64
	LonMax        float64
	Stops         []Stop
	Directions    []Direction
	Paths         [][]geo.Point
}

// StopByTag looks up a stop in the route's stop list. Directions may
// reference tags that are missing from the stop list; callers are expected
// to skip those.
func (r *Route) StopByTag(tag string) (Stop, bool) {
	for _, s := range r.Stops {
		if s.Tag == tag {
			return s, true
		}
	}
	return Stop{}, false
}

// DirectionByTag looks up a direction by its tag.
func (r *Route) DirectionByTag(tag string) (Direction, bool) {
	for _, d := range r.Directions {
		if d.Tag == tag {
			return d, true
		}
	}
	return Direction{}, false
}

// Stop is a single stop on a route. Tag is the feed-internal identifier used
// in direction and prediction lookups; StopID is the externally-facing
// identifier embedded in QR codes and shareable URLs.
type Stop struct {
	Tag        string
	Title      string
	ShortTitle string
	Lat        float64
	Lon        float64
	StopID     string
}

// Direction is one traversal order of a route's stops. Directions with
// UseForUI false exist in the feed purely for prediction bookkeeping and
// should not appear in direction-oriented views.
type Direction struct {
	Tag      string
	Title    string
	Name     string
	UseForUI bool
	StopTags []string
}

// VehicleLocation is one vehicle position report, replaced wholesale on
// every poll cycle.
type VehicleLocation struct {
	ID              string
	RouteTag        string
	DirTag          string
	Lat             float64
	Lon             float64
	Heading         int
	SpeedKmHr       float64
	SecsSinceReport int
	Predictable     bool
}

// StopPredictions is the set of predicted arrivals for one stop+route pair.
type StopPredictions struct {
	AgencyTitle string
	RouteTag    string
	RouteTitle  string
	StopTag     string
	StopTitle   string
	Directions  []PredictionDirection
	Messages    []string
}

// PredictionDirection groups the predictions heading the same way.
type PredictionDirection struct {
	Title       string
	Predictions []Prediction
}

// Prediction is a single upstream-estimated arrival or departure event for
// one vehicle at one stop.
type Prediction struct {
	Minutes           int
	Seconds           int
	EpochTime         int64
	VehicleID         string
	Block             string
	DirTag            string
	IsDeparture       bool
	AffectedByLayover bool
}

// Flattened returns every prediction across all directions, re-sorted by
// minutes ascending for display.
func (sp *StopPredictions) Flattened() []Prediction {
	var all []Prediction
	for _, dir := range sp.Directions {
		all = append(all, dir.Predictions...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Minutes < all[j].Minutes
	})
	return all
}

// HasPredictions reports whether any direction carries at least one
// prediction. An empty result renders as "no upcoming arrivals", not as an
// error.
func (sp *StopPredictions) HasPredictions() bool {
	for _, dir := range sp.Directions {
		if len(dir.Predictions) > 0 {
			return true
		}
	}
	return false
}
