package schedule

import "time"

// BreakPeriod is an academic-calendar date range during which no transit
// service runs. Start and End are inclusive, at day granularity.
type BreakPeriod struct {
	Name  string
	Start time.Time
	End   time.Time
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.Local)
}

// DefaultBreaks is the static academic-calendar break table, sorted by start
// date. At most one period should be active for any given date; the first
// match wins.
var DefaultBreaks = []BreakPeriod{
	{Name: "Fall Break", Start: day(2024, time.October, 10), End: day(2024, time.October, 11)},
	{Name: "Thanksgiving Break", Start: day(2024, time.November, 27), End: day(2024, time.December, 1)},
	{Name: "Winter Break", Start: day(2024, time.December, 12), End: day(2025, time.January, 20)},
	{Name: "Spring Break", Start: day(2025, time.March, 15), End: day(2025, time.March, 23)},
	{Name: "Summer Break", Start: day(2025, time.May, 17), End: day(2025, time.August, 24)},
}

// CurrentBreakPeriod returns the break period containing the given date, or
// nil when classes are in session. Only the calendar date matters; time of
// day is ignored.
func CurrentBreakPeriod(date time.Time) *BreakPeriod {
	d := day(date.Year(), date.Month(), date.Day())
	for i := range DefaultBreaks {
		b := &DefaultBreaks[i]
		if !d.Before(b.Start) && !d.After(b.End) {
			return b
		}
	}
	return nil
}

// NextBreakPeriod returns the first break period starting strictly after the
// given date, or nil when none remains in the table.
func NextBreakPeriod(date time.Time) *BreakPeriod {
	d := day(date.Year(), date.Month(), date.Day())
	for i := range DefaultBreaks {
		b := &DefaultBreaks[i]
		if b.Start.After(d) {
			return b
		}
	}
	return nil
}

// StatusMessage reports whether a route is in service at the given time,
// with a user-facing explanation when it is not. Break messaging supersedes
// the weekend message, which supersedes the hours message.
func StatusMessage(routeTag string, now time.Time) (bool, string) {
	if b := CurrentBreakPeriod(now); b != nil {
		return false, "Buses are not running during " + b.Name
	}
	if now.Weekday() == time.Saturday || now.Weekday() == time.Sunday {
		return false, "Buses do not run on weekends"
	}
	if !IsRouteInService(routeTag, now) {
		return false, "This route is outside its service hours"
	}
	return true, ""
}
