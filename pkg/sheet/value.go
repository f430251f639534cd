package sheet

import (
	"math"
	"strconv"
	"strings"
)

type valueKind uint8

const (
	valueEmpty valueKind = iota
	valueNumber
	valueText
)

// Value is a typed form value: Empty, Number or Text.
// Empty only ever appears in numeric fields while the user is clearing an input.
// The zero Value is Empty.
type Value struct {
	kind valueKind
	num  float64
	text string
}

// Empty returns the transient empty-number value
func Empty() Value {
	return Value{kind: valueEmpty}
}

// Number returns a numeric value
func Number(n float64) Value {
	return Value{kind: valueNumber, num: n}
}

// Text returns a text value
func Text(s string) Value {
	return Value{kind: valueText, text: s}
}

func (v Value) IsEmpty() bool  { return v.kind == valueEmpty }
func (v Value) IsNumber() bool { return v.kind == valueNumber }
func (v Value) IsText() bool   { return v.kind == valueText }

// Float returns the numeric value. ok is false for Empty and Text values.
func (v Value) Float() (n float64, ok bool) {
	if v.kind != valueNumber {
		return 0, false
	}
	return v.num, true
}

// Int returns the numeric value truncated toward zero, or 0 when not a number
func (v Value) Int() int {
	n, _ := v.Float()
	return int(n)
}

// String renders the value the way an input box shows it: numbers in decimal, Empty as "".
func (v Value) String() string {
	switch v.kind {
	case valueNumber:
		return formatNumber(v.num)
	case valueText:
		return v.text
	default:
		return ""
	}
}

// Equal compares kind and payload
func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && v.num == o.num && v.text == o.text
}

// parseNumber is lenient: surrounding whitespace is ignored and anything that
// is not a finite decimal number becomes 0.
func parseNumber(raw string) float64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
