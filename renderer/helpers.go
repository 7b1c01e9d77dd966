// Package renderer turns lotbook values into markdown documents.
//
// Amounts are converted to lotbook.Money here, the only place where they get
// rounded.
package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/lotbook"
	md "github.com/nao1215/markdown"
)

// escape makes s safe inside a table cell.
func escape(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func quantity(q float64) string {
	return fmt.Sprintf("%g", q)
}

// warnings appends a section listing ws, if any.
func warnings(doc *md.Markdown, ws []lotbook.Warning) {
	if len(ws) == 0 {
		return
	}
	doc.H2("Warnings")
	items := make([]string, 0, len(ws))
	for _, w := range ws {
		items = append(items, w.String())
	}
	doc.BulletList(items...)
}
