package report

import (
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// USD formats v as dollars, rounded half away from zero to the cent.
func USD(v float64) string {
	cents := decimal.NewFromFloat(v).Round(2).Shift(2).IntPart()
	return money.New(cents, money.USD).Display()
}

// Percent formats v with two decimals and an explicit sign.
func Percent(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	if d.IsPositive() {
		return "+" + d.StringFixed(2) + "%"
	}
	return d.StringFixed(2) + "%"
}

// Units formats an asset quantity with three decimals.
func Units(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(3)
}

// FeePercent formats a fee rate such as 0.0007 as "0.07%".
func FeePercent(rate float64) string {
	return decimal.NewFromFloat(rate).Shift(2).String() + "%"
}

func day(t time.Time) string {
	return t.Format(time.DateOnly)
}
