package strategy

import (
	"fmt"
	"math"

	"DCABacktest/internal/model"
)

// Simulate replays a fixed periodic purchase over the series.
//
// The fee is a proportional haircut on the units bought. Each day's portfolio
// value is the units held so far priced at that day's close. The buy-and-hold
// baseline only looks at the first and last close.
func Simulate(series model.PriceSeries, params model.StrategyParameters) (*model.SimulationResult, error) {
	if series.Len() == 0 {
		return nil, fmt.Errorf("%w: empty price series", model.ErrInvalidInput)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	res := &model.SimulationResult{
		PortfolioValues: make([]model.ValuePoint, 0, series.Len()),
	}

	var invested, units float64
	for i, p := range series.Points {
		if !validPrice(p.Close) {
			return nil, fmt.Errorf("%w: bad close %v on %s (row %d)",
				model.ErrInvalidInput, p.Close, p.Time.Format("2006-01-02"), i)
		}
		if params.Schedule == nil || params.Schedule.Buys(p.Time) {
			invested += params.PeriodicInvestment
			bought := params.PeriodicInvestment / p.Close
			units += bought * (1 - params.FeeRate)
			res.PurchaseCount++
		}
		res.PortfolioValues = append(res.PortfolioValues, model.ValuePoint{
			Time:  p.Time,
			Value: units * p.Close,
		})
	}

	if res.PurchaseCount == 0 {
		return nil, fmt.Errorf("%w: schedule %q selects no purchase day in %s..%s",
			model.ErrInvalidInput, params.Frequency(),
			series.First().Time.Format("2006-01-02"), series.Last().Time.Format("2006-01-02"))
	}

	first, last := series.First(), series.Last()
	res.TotalInvested = invested
	res.FinalHoldings = units
	res.FinalValue = units * last.Close
	res.StrategyReturnPct = (res.FinalValue - invested) / invested * 100
	res.BuyAndHoldReturnPct = (last.Close - first.Close) / first.Close * 100
	res.FirstPrice = first.Close
	res.LastPrice = last.Close
	res.Start = first.Time
	res.End = last.Time
	return res, nil
}

func validPrice(p float64) bool {
	return p > 0 && !math.IsInf(p, 0) && !math.IsNaN(p)
}
