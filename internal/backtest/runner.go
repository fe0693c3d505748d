// Package backtest wires the price provider, simulation, chart and report
// into one run.
package backtest

import (
	"context"
	"fmt"
	"os"
	"time"

	"DCABacktest/internal/chart"
	"DCABacktest/internal/model"
	"DCABacktest/internal/report"
	"DCABacktest/internal/strategy"

	"github.com/rs/zerolog/log"
)

// SeriesProvider supplies the daily close series for a period.
type SeriesProvider interface {
	Series(ctx context.Context, start, end time.Time) (model.PriceSeries, error)
}

// Runner executes a backtest and writes its artifacts.
type Runner struct {
	Provider   SeriesProvider
	ChartPath  string
	ReportPath string
	Asset      string
	Now        func() time.Time
}

// Request selects the period and strategy for one run.
type Request struct {
	Start  time.Time
	End    time.Time
	Params model.StrategyParameters
}

// Outcome is what a successful run produced.
type Outcome struct {
	Result     *model.SimulationResult
	Content    report.Content
	ChartPath  string
	ReportPath string
}

// NewRunner creates a Runner that stamps reports with the wall clock.
func NewRunner(provider SeriesProvider, chartPath, reportPath, asset string) *Runner {
	return &Runner{
		Provider:   provider,
		ChartPath:  chartPath,
		ReportPath: reportPath,
		Asset:      asset,
		Now:        time.Now,
	}
}

// Run loads prices, simulates, renders the chart and writes the report.
// Either both artifacts exist afterwards or neither was left behind.
func (r *Runner) Run(ctx context.Context, req Request) (*Outcome, error) {
	if req.End.Before(req.Start) {
		return nil, fmt.Errorf("%w: end date %s is before start date %s", model.ErrInvalidInput,
			req.End.Format(time.DateOnly), req.Start.Format(time.DateOnly))
	}
	if err := req.Params.Validate(); err != nil {
		return nil, err
	}

	series, err := r.Provider.Series(ctx, req.Start, req.End)
	if err != nil {
		return nil, err
	}
	log.Info().Str("symbol", series.Symbol).Int("days", series.Len()).Msg("price series ready")

	res, err := strategy.Simulate(series, req.Params)
	if err != nil {
		return nil, fmt.Errorf("simulate: %w", err)
	}
	log.Info().Int("purchases", res.PurchaseCount).Float64("invested", res.TotalInvested).
		Float64("final_value", res.FinalValue).Msg("simulation complete")

	if err := chart.RenderFile(r.ChartPath, chart.PortfolioSpec(res.PortfolioValues)); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	log.Info().Str("file", r.ChartPath).Msg("chart saved")

	content := report.NewContent(res, req.Params, report.Meta{
		Asset:       r.Asset,
		Symbol:      series.Symbol,
		Start:       req.Start,
		End:         req.End,
		ChartPath:   r.ChartPath,
		GeneratedAt: r.now(),
	})
	if err := report.WritePDFFile(r.ReportPath, content); err != nil {
		if rmErr := os.Remove(r.ChartPath); rmErr != nil && !os.IsNotExist(rmErr) {
			log.Warn().Err(rmErr).Str("file", r.ChartPath).Msg("remove chart after report failure")
		}
		return nil, fmt.Errorf("write report: %w", err)
	}
	log.Info().Str("file", r.ReportPath).Msg("report saved")

	return &Outcome{
		Result:     res,
		Content:    content,
		ChartPath:  r.ChartPath,
		ReportPath: r.ReportPath,
	}, nil
}

func (r *Runner) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}
