package calculator

import (
	"DCABacktest/internal/model"
)

// ResampleDaily collapses intraday bars into one close per UTC calendar day,
// keeping the last observation of each day. A day without any bar between the
// first and last day repeats the previous day's close, so the result has no
// gaps. Bars must be in chronological order.
func ResampleDaily(bars []model.OHLCV) []model.PricePoint {
	if len(bars) == 0 {
		return nil
	}
	var out []model.PricePoint
	for _, b := range bars {
		day := DayStart(b.Time)
		n := len(out)
		if n > 0 && out[n-1].Time.Equal(day) {
			out[n-1].Close = b.Close
			continue
		}
		if n > 0 {
			for d := out[n-1].Time.AddDate(0, 0, 1); d.Before(day); d = d.AddDate(0, 0, 1) {
				out = append(out, model.PricePoint{Time: d, Close: out[len(out)-1].Close})
			}
		}
		out = append(out, model.PricePoint{Time: day, Close: b.Close})
	}
	return out
}
