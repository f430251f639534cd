package sheet

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName trims a character name and puts it in Unicode NFC so that
// composed and decomposed spellings address the same row.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// ReservedNameChars may not appear in a character name
const ReservedNameChars = "/?"
