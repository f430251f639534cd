package sheetclient

import (
	"strings"

	"github.com/jwebster45206/investigator-sheets/pkg/sheet"
)

// HiddenMarker prefixes names that the roster must not show
const HiddenMarker = "*"

// ValidateName checks a name before creation and returns its normalized form.
// Slashes and question marks would corrupt the identifier in some transports.
func ValidateName(name string) (string, error) {
	n := sheet.NormalizeName(name)
	switch {
	case n == "":
		return "", &ValidationError{Name: name, Reason: "el nombre es obligatorio"}
	case strings.ContainsAny(n, sheet.ReservedNameChars):
		return "", &ValidationError{Name: name, Reason: `el nombre no puede contener "/" ni "?"`}
	}
	return n, nil
}

// visibleNames drops blank names and names carrying the hidden marker, keeping order
func visibleNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" || strings.HasPrefix(name, HiddenMarker) {
			continue
		}
		out = append(out, name)
	}
	return out
}
