package model

import (
	"fmt"
	"time"
)

// PurchaseCalendar decides on which days a purchase is made.
type PurchaseCalendar interface {
	Buys(day time.Time) bool
	Describe() string
}

// StrategyParameters configures a DCA simulation.
type StrategyParameters struct {
	PeriodicInvestment float64
	FeeRate            float64          // taker fee, charged in purchased units
	Schedule           PurchaseCalendar // nil buys every day
}

// Validate checks the investment amount and fee range.
func (p StrategyParameters) Validate() error {
	if !(p.PeriodicInvestment > 0) {
		return fmt.Errorf("%w: periodic investment must be positive, got %v", ErrInvalidInput, p.PeriodicInvestment)
	}
	if !(p.FeeRate >= 0 && p.FeeRate < 1) {
		return fmt.Errorf("%w: fee rate must be in [0,1), got %v", ErrInvalidInput, p.FeeRate)
	}
	return nil
}

// Frequency returns a human label for the purchase schedule.
func (p StrategyParameters) Frequency() string {
	if p.Schedule == nil {
		return "Daily"
	}
	return p.Schedule.Describe()
}

// ValuePoint is the mark-to-market portfolio value on one day.
type ValuePoint struct {
	Time  time.Time
	Value float64
}

// SimulationResult is the outcome of one simulation run.
type SimulationResult struct {
	PortfolioValues     []ValuePoint
	TotalInvested       float64
	FinalHoldings       float64 // asset units
	FinalValue          float64
	StrategyReturnPct   float64
	BuyAndHoldReturnPct float64
	PurchaseCount       int
	FirstPrice          float64
	LastPrice           float64
	Start               time.Time
	End                 time.Time
}

// Profit is the final value minus everything invested.
func (r *SimulationResult) Profit() float64 {
	return r.FinalValue - r.TotalInvested
}
