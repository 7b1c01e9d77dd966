package renderer

import (
	"bytes"

	"github.com/etnz/lotbook"
	md "github.com/nao1215/markdown"
)

// HoldingsMarkdown renders a table of holdings followed by their totals.
func HoldingsMarkdown(holdings []lotbook.Holding, currency string) string {
	m := func(v float64) lotbook.Money { return lotbook.M(v, currency) }

	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Holdings")
	if len(holdings) == 0 {
		doc.PlainText("No open position.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Symbol", "Quantity", "Avg. Cost", "Price", "Market Value", "Unrealized", "Realized"},
	}
	var stale bool
	var ws []lotbook.Warning
	for _, h := range holdings {
		price := m(h.Quote.Price).String()
		if h.Stale {
			price += " *"
			stale = true
		}
		table.Rows = append(table.Rows, []string{
			escape(h.Symbol),
			quantity(h.Quantity),
			m(h.AvgCost).String(),
			price,
			m(h.MarketValue()).String(),
			m(h.Unrealized).SignedString(),
			m(h.Realized).SignedString(),
		})
		ws = append(ws, h.Warnings...)
	}
	total := lotbook.Total(holdings)
	table.Rows = append(table.Rows, []string{
		md.Bold("Total"), "", "", "",
		md.Bold(m(total.MarketValue).String()),
		md.Bold(m(total.Unrealized).SignedString()),
		md.Bold(m(total.Realized).SignedString()),
	})
	doc.Table(table)

	if stale {
		doc.PlainText(`\* quote could not be refreshed.` + "\n")
	}
	if dc := m(total.DayChange); !dc.IsZero() {
		doc.PlainTextf("Day's change: %s\n", dc.SignedString())
	}
	warnings(doc, ws)
	return doc.String()
}
