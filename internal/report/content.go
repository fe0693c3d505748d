package report

import (
	"fmt"
	"time"

	"DCABacktest/internal/model"
)

const (
	strategyText = "The Dollar-Cost Averaging (DCA) strategy involves investing a fixed amount " +
		"of money into %s at regular intervals. This method aims to reduce the impact " +
		"of volatility by spreading out purchases over time, potentially leading to a " +
		"more stable average entry price."
	conclusionText = "This backtest demonstrates the potential of DCA as a long-term investment " +
		"strategy. While short-term fluctuations are inevitable, disciplined investing " +
		"over time can provide stable growth in a volatile market."
)

// Meta carries the run details that are not part of the simulation result.
type Meta struct {
	Asset       string // display name, e.g. "Bitcoin"
	Symbol      string
	Start       time.Time // requested period
	End         time.Time
	ChartPath   string
	GeneratedAt time.Time
}

// Content is everything a report shows. Build it once with NewContent and
// hand it to the writers; none of them modify it.
type Content struct {
	Title              string
	Asset              string
	Symbol             string
	Start              time.Time
	End                time.Time
	FirstDay           time.Time
	LastDay            time.Time
	PeriodicInvestment float64
	Frequency          string
	FeeRate            float64
	PurchaseCount      int
	TotalInvested      float64
	FinalHoldings      float64
	FinalValue         float64
	Profit             float64
	StrategyReturnPct  float64
	BuyAndHoldPct      float64
	FirstPrice         float64
	LastPrice          float64
	ChartPath          string
	StrategyText       string
	ConclusionText     string
	GeneratedAt        time.Time
}

// NewContent assembles report content from a finished simulation.
func NewContent(res *model.SimulationResult, params model.StrategyParameters, meta Meta) Content {
	asset := meta.Asset
	if asset == "" {
		asset = "Bitcoin"
	}
	return Content{
		Title:              asset + " DCA Backtest Report",
		Asset:              asset,
		Symbol:             meta.Symbol,
		Start:              meta.Start,
		End:                meta.End,
		FirstDay:           res.Start,
		LastDay:            res.End,
		PeriodicInvestment: params.PeriodicInvestment,
		Frequency:          params.Frequency(),
		FeeRate:            params.FeeRate,
		PurchaseCount:      res.PurchaseCount,
		TotalInvested:      res.TotalInvested,
		FinalHoldings:      res.FinalHoldings,
		FinalValue:         res.FinalValue,
		Profit:             res.Profit(),
		StrategyReturnPct:  res.StrategyReturnPct,
		BuyAndHoldPct:      res.BuyAndHoldReturnPct,
		FirstPrice:         res.FirstPrice,
		LastPrice:          res.LastPrice,
		ChartPath:          meta.ChartPath,
		StrategyText:       fmt.Sprintf(strategyText, asset),
		ConclusionText:     conclusionText,
		GeneratedAt:        meta.GeneratedAt,
	}
}

// InvestmentLabel names the per-purchase amount after the frequency,
// e.g. "Daily Investment".
func (c Content) InvestmentLabel() string {
	switch c.Frequency {
	case "Daily", "Weekly", "Monthly", "Yearly":
		return c.Frequency + " Investment"
	}
	return "Investment per Purchase"
}
