package report

import (
	"bytes"
	"fmt"

	"github.com/charmbracelet/glamour"
	md "github.com/nao1215/markdown"
	"github.com/rs/zerolog/log"
)

// Markdown renders the run summary as a markdown document.
func Markdown(c Content) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(c.Title)
	doc.PlainText(fmt.Sprintf("Backtest period %s to %s, %d purchases of %s (%s, taker fee %s).",
		day(c.Start), day(c.End), c.PurchaseCount, USD(c.PeriodicInvestment),
		c.Frequency, FeePercent(c.FeeRate)))

	doc.H2("Financial Results")
	doc.Table(md.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total Invested", USD(c.TotalInvested)},
			{"Final Holdings", Units(c.FinalHoldings) + " " + c.Asset},
			{"Final Portfolio Value", USD(c.FinalValue)},
			{"Total Profit", USD(c.Profit)},
			{"Strategy Performance", Percent(c.StrategyReturnPct)},
			{"Buy and Hold Performance", Percent(c.BuyAndHoldPct)},
		},
	})

	doc.H2("Prices")
	doc.BulletList(
		fmt.Sprintf("First close (%s): %s", day(c.FirstDay), USD(c.FirstPrice)),
		fmt.Sprintf("Last close (%s): %s", day(c.LastDay), USD(c.LastPrice)),
	)

	return doc.String()
}

// Terminal renders the markdown summary for a terminal of the given width.
// It falls back to the raw markdown when styling fails.
func Terminal(c Content, width int) string {
	raw := Markdown(c)
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		log.Debug().Err(err).Msg("terminal renderer unavailable")
		return raw
	}
	out, err := r.Render(raw)
	if err != nil {
		log.Debug().Err(err).Msg("terminal render failed")
		return raw
	}
	return out
}
