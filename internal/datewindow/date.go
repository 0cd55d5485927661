package datewindow

import "time"

const secondsPerDay = 24 * 60 * 60

// Day strips the time of day from t. The calendar day is read in t's own
// location and returned as midnight UTC so that day arithmetic never crosses
// a DST transition.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from a to b. It counts in
// Unix seconds since a time.Duration saturates about 292 years out.
func DaysBetween(a, b time.Time) int {
	return int((Day(b).Unix() - Day(a).Unix()) / secondsPerDay)
}

func sameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

func span(start time.Time, n int) []time.Time {
	start = Day(start)
	days := make([]time.Time, n)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

func roundUp(n, k int) int {
	if k <= 0 {
		return n
	}
	return (n + k - 1) / k * k
}
