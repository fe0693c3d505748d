package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
)

type textStyle struct {
	family  string
	style   string
	size    float64
	r, g, b int
}

var (
	styleTitle   = textStyle{"Arial", "B", 16, 30, 144, 255} // dodger blue
	styleSection = textStyle{"Arial", "B", 14, 0, 0, 0}
	styleLabel   = textStyle{"Arial", "B", 12, 0, 0, 0}
	styleBody    = textStyle{"Arial", "", 12, 0, 0, 0}
	styleGain    = textStyle{"Arial", "", 12, 0, 128, 0}
	styleLoss    = textStyle{"Arial", "", 12, 255, 0, 0}
	styleFooter  = textStyle{"Arial", "I", 10, 128, 128, 128}
)

func apply(pdf *fpdf.Fpdf, s textStyle) {
	pdf.SetFont(s.family, s.style, s.size)
	pdf.SetTextColor(s.r, s.g, s.b)
}

// WritePDF renders c as an A4 PDF document into w.
func WritePDF(w io.Writer, c Content) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(c.Title, false)
	pdf.SetCreator("dcabacktest", false)
	if !c.GeneratedAt.IsZero() {
		pdf.SetCreationDate(c.GeneratedAt)
		pdf.SetModificationDate(c.GeneratedAt)
	}
	pdf.SetHeaderFunc(func() {
		apply(pdf, styleTitle)
		pdf.CellFormat(0, 10, c.Title, "", 1, "C", false, 0, "")
		pdf.Ln(10)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		apply(pdf, styleFooter)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	line := func(s textStyle, text string) {
		apply(pdf, s)
		pdf.CellFormat(0, 10, text, "", 1, "", false, 0, "")
	}
	section := func(title string) {
		line(styleSection, title)
		pdf.Ln(5)
	}
	paragraph := func(text string) {
		apply(pdf, styleBody)
		pdf.MultiCell(0, 8, text, "", "", false)
	}

	section("Backtest Summary")
	line(styleBody, fmt.Sprintf("Backtest Period: %s to %s", day(c.Start), day(c.End)))
	line(styleBody, fmt.Sprintf("%s: %s", c.InvestmentLabel(), USD(c.PeriodicInvestment)))
	line(styleBody, fmt.Sprintf("Investment Frequency: %s", c.Frequency))
	line(styleBody, fmt.Sprintf("Taker Fee: %s", FeePercent(c.FeeRate)))
	line(styleBody, fmt.Sprintf("Purchases: %d (%s to %s)", c.PurchaseCount, day(c.FirstDay), day(c.LastDay)))

	pdf.Ln(5)
	line(styleLabel, "Financial Results")
	line(styleBody, fmt.Sprintf("Total Invested: %s", USD(c.TotalInvested)))
	line(styleBody, fmt.Sprintf("Final Holdings: %s %s", Units(c.FinalHoldings), c.Asset))
	line(styleBody, fmt.Sprintf("Final Portfolio Value: %s", USD(c.FinalValue)))
	profitStyle := styleGain
	if c.Profit < 0 {
		profitStyle = styleLoss
	}
	line(profitStyle, fmt.Sprintf("Total Profit: %s", USD(c.Profit)))
	line(styleBody, fmt.Sprintf("Strategy Performance: %s", Percent(c.StrategyReturnPct)))
	line(styleBody, fmt.Sprintf("Buy and Hold Performance: %s", Percent(c.BuyAndHoldPct)))
	pdf.Ln(10)

	section("Investment Strategy")
	paragraph(c.StrategyText)
	pdf.Ln(10)

	section("Performance Chart")
	if chartExists(c.ChartPath) {
		pageW, _ := pdf.GetPageSize()
		pdf.ImageOptions(c.ChartPath, 10, pdf.GetY(), pageW-20, 0, true,
			fpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}, 0, "")
	} else {
		line(styleBody, "Performance chart not found.")
	}

	pdf.Ln(10)
	section("Conclusion")
	paragraph(c.ConclusionText)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// WritePDFFile renders c into path, creating parent directories.
func WritePDFFile(path string, c Content) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	if err := WritePDF(f, c); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

func chartExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
