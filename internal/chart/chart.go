package chart

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"DCABacktest/internal/model"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Spec describes one line chart.
type Spec struct {
	Title  string
	XLabel string
	YLabel string
	Points []model.ValuePoint
}

// PortfolioSpec returns the default portfolio-value chart for points.
func PortfolioSpec(points []model.ValuePoint) Spec {
	return Spec{
		Title:  "Portfolio Value Over Time",
		XLabel: "Date",
		YLabel: "Portfolio Value (USD)",
		Points: points,
	}
}

var (
	lineColor = drawing.ColorFromHex("1e90ff")
	gridColor = drawing.ColorFromHex("d9d9d9")
)

// Render draws spec as a PNG line chart.
func Render(w io.Writer, spec Spec) error {
	if len(spec.Points) == 0 {
		return fmt.Errorf("%w: nothing to chart", model.ErrInvalidInput)
	}

	xs := make([]time.Time, 0, len(spec.Points)+1)
	ys := make([]float64, 0, len(spec.Points)+1)
	lo, hi := spec.Points[0].Value, spec.Points[0].Value
	for _, p := range spec.Points {
		xs = append(xs, p.Time)
		ys = append(ys, p.Value)
		lo = min(lo, p.Value)
		hi = max(hi, p.Value)
	}
	// go-chart rejects a zero-width x range
	if len(xs) == 1 {
		xs = append(xs, xs[0].AddDate(0, 0, 1))
		ys = append(ys, ys[0])
	}

	grid := gochart.Style{StrokeColor: gridColor, StrokeWidth: 1}
	yAxis := gochart.YAxis{
		Name:           spec.YLabel,
		GridMajorStyle: grid,
		ValueFormatter: func(v interface{}) string {
			if f, ok := v.(float64); ok {
				return fmt.Sprintf("%.0f", f)
			}
			return ""
		},
	}
	if lo == hi {
		pad := max(1, hi*0.1)
		yAxis.Range = &gochart.ContinuousRange{Min: lo - pad, Max: hi + pad}
	}

	graph := gochart.Chart{
		Title:  spec.Title,
		Width:  1000,
		Height: 600,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: gochart.XAxis{
			Name:           spec.XLabel,
			ValueFormatter: gochart.TimeDateValueFormatter,
			GridMajorStyle: grid,
		},
		YAxis: yAxis,
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name:    "Portfolio",
				XValues: xs,
				YValues: ys,
				Style: gochart.Style{
					StrokeColor: lineColor,
					StrokeWidth: 2,
					DotColor:    lineColor,
					DotWidth:    dotWidth(len(xs)),
				},
			},
		},
	}
	if err := graph.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// dotWidth shrinks the point markers as the series gets denser.
func dotWidth(n int) float64 {
	switch {
	case n <= 60:
		return 3
	case n <= 400:
		return 1.5
	default:
		return 0
	}
}

// RenderFile renders spec into path, creating parent directories.
func RenderFile(path string, spec Spec) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	if err := Render(f, spec); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
