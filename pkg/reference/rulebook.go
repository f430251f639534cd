package reference

import _ "embed"

const RulebookTitle = "Manual de Campo del Investigador"

//go:embed rulebook.md
var rulebook string

// Rulebook returns the field manual as Markdown
func Rulebook() string {
	return rulebook
}
