package collector

import (
	"context"
	"fmt"
	"time"

	"DCABacktest/internal/calculator"
	"DCABacktest/internal/model"

	"github.com/rs/zerolog/log"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars  []model.OHLCV
	Err   error
	Calls int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(_ context.Context, _, _ string, start, end time.Time) ([]model.OHLCV, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	var out []model.OHLCV
	for _, b := range m.Bars {
		if !b.Time.Before(start) && !b.Time.After(end) {
			out = append(out, b)
		}
	}
	return out, nil
}

// Collector turns a bar Source into daily price series.
type Collector struct {
	Source Source
	Symbol string
}

// NewCollector creates a new Collector.
func NewCollector(source Source, symbol string) *Collector {
	return &Collector{Source: source, Symbol: symbol}
}

// Series returns one close per day between start and end inclusive.
func (c *Collector) Series(ctx context.Context, start, end time.Time) (model.PriceSeries, error) {
	bars, err := c.Source.Bars(ctx)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("load bars: %w", err)
	}

	inRange := calculator.FilterRange(bars, start, end)
	if len(inRange) == 0 {
		return model.PriceSeries{}, fmt.Errorf("%w: %s to %s", model.ErrNoData,
			start.Format(time.DateOnly), end.Format(time.DateOnly))
	}

	points := calculator.ResampleDaily(inRange)
	log.Debug().Int("bars", len(inRange)).Int("days", len(points)).Msg("resampled to daily closes")
	return model.PriceSeries{Symbol: c.Symbol, Points: points}, nil
}
