package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/lotbook"
	md "github.com/nao1215/markdown"
)

// PositionMarkdown renders the detailed position of a single holding.
func PositionMarkdown(h lotbook.Holding, currency string) string {
	m := func(v float64) lotbook.Money { return lotbook.M(v, currency) }

	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(fmt.Sprintf("Position in %s", h.Symbol))

	price := m(h.Quote.Price).String()
	switch {
	case h.Stale && h.Quote.Price == 0:
		price = "unavailable"
	case h.Stale:
		price += " (stale)"
	}
	if !h.Quote.AsOf.IsZero() {
		doc.PlainTextf("Quote as of %s.\n", h.Quote.AsOf.Format("2006-01-02 15:04 MST"))
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Quantity", quantity(h.Quantity)},
			{"Average Cost", m(h.AvgCost).String()},
			{"Cost Basis", m(h.CostBasis()).String()},
			{"Price", price},
			{"Market Value", m(h.MarketValue()).String()},
			{"Unrealized Gain", m(h.Unrealized).SignedString()},
			{"Realized Gain", m(h.Realized).SignedString()},
		},
	}
	if h.Quote.Change != 0 {
		table.Rows = append(table.Rows, []string{
			"Day's Change",
			fmt.Sprintf("%s (%+.2f%%)", m(h.DayChange()).SignedString(), h.Quote.ChangePercent),
		})
	}
	table.Rows = append(table.Rows, []string{"Method", h.Method.String()})
	doc.Table(table)

	warnings(doc, h.Warnings)
	return doc.String()
}
