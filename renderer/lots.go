package renderer

import (
	"bytes"

	"github.com/etnz/lotbook"
	md "github.com/nao1215/markdown"
)

// LotsMarkdown renders lots as a table, in the given order.
func LotsMarkdown(lots []lotbook.Lot, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Lots")
	if len(lots) == 0 {
		doc.PlainText("No lot recorded.")
		return doc.String()
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
		},
		Header: []string{"Date", "Side", "Symbol", "Quantity", "Price", "Fee", "Amount", "Portfolio", "Memo", "ID"},
	}
	for _, l := range lots {
		table.Rows = append(table.Rows, []string{
			l.Time.Format("2006-01-02"),
			l.Side.String(),
			escape(l.Symbol),
			quantity(l.Quantity),
			lotbook.M(l.Price, currency).String(),
			lotbook.M(l.Fee, currency).String(),
			lotbook.M(l.Amount(), currency).String(),
			escape(l.Portfolio),
			escape(l.Memo),
			escape(l.ID),
		})
	}
	doc.Table(table)
	return doc.String()
}
