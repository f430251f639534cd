package main

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/investigator-sheets/pkg/sheet"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const exportWidth = 72

var upper = cases.Upper(language.Spanish)

// exportSheet renders a character as plain text for pasting into notes or chat
func exportSheet(name string, state sheet.FormState) string {
	var b strings.Builder
	title := upper.String(name)
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len([]rune(title))) + "\n")

	for _, g := range sheet.Groups() {
		heading := upper.String(g.Name)
		b.WriteString("\n" + heading + "\n")
		b.WriteString(strings.Repeat("-", len([]rune(heading))) + "\n")
		for _, f := range g.Fields {
			v := state[f.ID].String()
			if f.IsNumeric() {
				if v == "" {
					v = "0"
				}
				fmt.Fprintf(&b, "%s: %s\n", f.Label, v)
				continue
			}
			b.WriteString(f.Label + ":\n")
			if strings.TrimSpace(v) == "" {
				b.WriteString("  -\n")
				continue
			}
			b.WriteString(indent.String(wordwrap.String(v, exportWidth-2), 2) + "\n")
		}
	}
	return b.String()
}
