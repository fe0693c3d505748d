package calculator

import (
	"math"
	"time"

	"DCABacktest/internal/model"
)

// RunningHigh fills LastATH with the highest close seen so far, in place.
// Bars must be in chronological order.
func RunningHigh(bars []model.OHLCV) {
	high := math.Inf(-1)
	for i := range bars {
		if bars[i].Close > high {
			high = bars[i].Close
		}
		bars[i].LastATH = high
	}
}

// FilterRange returns the bars whose time falls on a calendar day between
// start and end, both days inclusive (UTC).
func FilterRange(bars []model.OHLCV, start, end time.Time) []model.OHLCV {
	from := DayStart(start)
	to := DayStart(end).AddDate(0, 0, 1)
	var out []model.OHLCV
	for _, b := range bars {
		if b.Time.Before(from) || !b.Time.Before(to) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// DayStart truncates t to midnight UTC of its calendar day.
func DayStart(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
