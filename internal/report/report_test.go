package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DCABacktest/internal/chart"
	"DCABacktest/internal/model"
)

func sampleContent(t *testing.T, chartPath string) Content {
	t.Helper()
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	res := &model.SimulationResult{
		PortfolioValues: []model.ValuePoint{
			{Time: start, Value: 10},
			{Time: start.AddDate(0, 0, 1), Value: 30},
		},
		TotalInvested:       20,
		FinalHoldings:       0.15,
		FinalValue:          30,
		StrategyReturnPct:   50,
		BuyAndHoldReturnPct: 100,
		PurchaseCount:       2,
		FirstPrice:          100,
		LastPrice:           200,
		Start:               start,
		End:                 start.AddDate(0, 0, 1),
	}
	params := model.StrategyParameters{PeriodicInvestment: 10, FeeRate: 0.0007}
	return NewContent(res, params, Meta{
		Asset:       "Bitcoin",
		Symbol:      "BTCUSDT",
		Start:       start,
		End:         start.AddDate(0, 0, 1),
		ChartPath:   chartPath,
		GeneratedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	})
}

func TestNewContent(t *testing.T) {
	c := sampleContent(t, "")
	assert.Equal(t, "Bitcoin DCA Backtest Report", c.Title)
	assert.Equal(t, "Daily", c.Frequency)
	assert.Equal(t, "Daily Investment", c.InvestmentLabel())
	assert.Equal(t, 10.0, c.Profit)
	assert.Contains(t, c.StrategyText, "into Bitcoin at regular intervals")
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "$1,234.57", USD(1234.567))
	assert.Equal(t, "-$12.30", USD(-12.3))
	assert.Equal(t, "$0.00", USD(0.004))
	assert.Equal(t, "+50.00%", Percent(50))
	assert.Equal(t, "-0.07%", Percent(-0.07))
	assert.Equal(t, "0.00%", Percent(0))
	assert.Equal(t, "0.150", Units(0.15))
	assert.Equal(t, "0.07%", FeePercent(0.0007))
}

func TestMarkdown(t *testing.T) {
	out := Markdown(sampleContent(t, ""))
	for _, want := range []string{
		"# Bitcoin DCA Backtest Report",
		"## Financial Results",
		"Total Invested",
		"$20.00",
		"+50.00%",
		"+100.00%",
		"0.150 Bitcoin",
		"2020-01-01 to 2020-01-02",
	} {
		assert.Contains(t, out, want)
	}
}

func TestTerminal(t *testing.T) {
	assert.NotEmpty(t, strings.TrimSpace(Terminal(sampleContent(t, ""), 80)))
}

func TestWritePDF_WithChart(t *testing.T) {
	dir := t.TempDir()
	chartPath := filepath.Join(dir, "performance.png")
	c := sampleContent(t, chartPath)
	require.NoError(t, chart.RenderFile(chartPath, chart.PortfolioSpec([]model.ValuePoint{
		{Time: c.FirstDay, Value: 10},
		{Time: c.LastDay, Value: 30},
	})))

	var withChart bytes.Buffer
	require.NoError(t, WritePDF(&withChart, c))
	assert.True(t, bytes.HasPrefix(withChart.Bytes(), []byte("%PDF-")))

	var without bytes.Buffer
	require.NoError(t, WritePDF(&without, sampleContent(t, filepath.Join(dir, "missing.png"))))
	assert.Greater(t, withChart.Len(), without.Len(), "embedded image adds to the document")
}

func TestWritePDFFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "DCA_Backtest_Report.pdf")
	require.NoError(t, WritePDFFile(path, sampleContent(t, "")))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF-")))
}
