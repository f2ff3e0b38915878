package util

import (
	"math"
	"time"
)

// Datetime related utility functions.
// General convention - suffix Z if utc based, no suffix if localTime.
const (
	DATETIME_FORMAT_YYYYMMDD_HYPHEN string = "2006-01-02"
	DATETIME_FORMAT_MONTH_PERIOD    string = "2006-01"
	DATETIME_FORMAT_DB              string = "2006-01-02 15:04:05"
)

// TimeNowZ Return current time in UTC. Should be used everywhere to avoid local timezone.
func TimeNowZ() time.Time {
	return time.Now().UTC()
}

// DaysBetween returns whole days elapsed from `from` to `to`, truncated
// towards zero. Negative when `to` precedes `from`.
func DaysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

// DayOfWeekMondayFirst returns the weekday index with Monday as 0 and
// Sunday as 6.
func DayOfWeekMondayFirst(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func RoundFloat(value float64, precision int) float64 {
	multiplier := math.Pow(10, float64(precision))
	return math.Round(value*multiplier) / multiplier
}
