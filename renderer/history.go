package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/lotbook"
	md "github.com/nao1215/markdown"
)

// HistoryMarkdown renders the running history of a symbol, one row per lot.
func HistoryMarkdown(symbol string, steps []lotbook.Step, currency string) string {
	m := func(v float64) lotbook.Money { return lotbook.M(v, currency) }

	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(fmt.Sprintf("History for %s", symbol))
	if len(steps) == 0 {
		doc.PlainText("No lot recorded.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Date", "Side", "Quantity", "Price", "Position", "Avg. Cost", "Realized", "Total Realized"},
	}
	var ws []lotbook.Warning
	for _, s := range steps {
		table.Rows = append(table.Rows, []string{
			s.Lot.Time.Format("2006-01-02"),
			s.Lot.Side.String(),
			quantity(s.Lot.Quantity),
			m(s.Lot.Price).String(),
			quantity(s.Summary.Quantity),
			m(s.Summary.AvgCost).String(),
			m(s.Realized).SignedString(),
			m(s.Summary.Realized).SignedString(),
		})
		ws = append(ws, s.Warnings...)
	}
	doc.Table(table)
	warnings(doc, ws)
	return doc.String()
}
