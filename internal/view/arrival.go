package view

import (
	"fmt"
	"time"
)

// ArrivalRange is a prediction's arrival window rendered two ways: as a
// clock-time range and as a relative-minutes range.
type ArrivalRange struct {
	Clock    string
	Relative string
}

// arrivalWindowMinutes is the slack applied on each side of an upstream
// prediction. Predictions are estimates; the UI shows a window, not a
// promise.
const arrivalWindowMinutes = 2

// FormatArrivalRange turns minutes-until-arrival into its display window:
// [max(0, minutes-2), minutes+2]. Zero minutes collapses to the literal
// "Now" in both representations, regardless of wall time.
func FormatArrivalRange(minutes int, now time.Time) ArrivalRange {
	if minutes == 0 {
		return ArrivalRange{Clock: "Now", Relative: "Now"}
	}

	lower := minutes - arrivalWindowMinutes
	if lower < 0 {
		lower = 0
	}
	upper := minutes + arrivalWindowMinutes

	return ArrivalRange{
		Clock: fmt.Sprintf("%s - %s",
			now.Add(time.Duration(lower)*time.Minute).Format("3:04 PM"),
			now.Add(time.Duration(upper)*time.Minute).Format("3:04 PM")),
		Relative: fmt.Sprintf("%d-%d min", lower, upper),
	}
}
