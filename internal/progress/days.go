package progress

import (
	"math"
	"time"
)

const dateLayout = "2006-01-02"

// brokenGap is returned for dates that cannot be parsed.
const brokenGap = 2

// DateKey formats t as a UTC calendar date.
func DateKey(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// DaysBetween returns the whole number of calendar days from last to today.
// An unparsable date counts as a broken streak.
func DaysBetween(last, today string) int {
	from, err := time.Parse(dateLayout, last)
	if err != nil {
		return brokenGap
	}
	to, err := time.Parse(dateLayout, today)
	if err != nil {
		return brokenGap
	}
	return int(math.Floor(to.Sub(from).Hours() / 24))
}
