package schedule

import "time"

// Window is a route's daily service window, in minutes since midnight,
// inclusive on both ends. Service runs Monday through Friday only.
type Window struct {
	StartMinutes int
	EndMinutes   int
}

// DefaultWindows is the per-route service window table. Route tags absent
// from the table default to "in service" rather than failing closed, so a
// missing row never blanks the UI.
var DefaultWindows = map[string]Window{
	"red":    {StartMinutes: 7*60 + 30, EndMinutes: 17*60 + 30},
	"white":  {StartMinutes: 7*60 + 30, EndMinutes: 17*60 + 30},
	"blue":   {StartMinutes: 7 * 60, EndMinutes: 19 * 60},
	"green":  {StartMinutes: 7 * 60, EndMinutes: 19 * 60},
	"purple": {StartMinutes: 17 * 60, EndMinutes: 22 * 60},
}

// IsRouteInService reports whether a route is inside its scheduled service
// window at the given time. Weekends are out of service for every route.
func IsRouteInService(routeTag string, now time.Time) bool {
	if now.Weekday() == time.Saturday || now.Weekday() == time.Sunday {
		return false
	}

	window, ok := DefaultWindows[routeTag]
	if !ok {
		return true
	}

	minutes := now.Hour()*60 + now.Minute()
	return minutes >= window.StartMinutes && minutes <= window.EndMinutes
}
