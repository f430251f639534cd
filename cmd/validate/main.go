// Command validate checks character record files, as returned by the sheet
// endpoint for a single character, against the field schema and the rules.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/jwebster45206/investigator-sheets/pkg/rules"
	"github.com/jwebster45206/investigator-sheets/pkg/sheet"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <character.json> [more.json...]\n", os.Args[0])
		os.Exit(1)
	}

	failed := false
	for _, filename := range os.Args[1:] {
		validator := &RecordValidator{}
		if err := validator.validateFile(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			failed = true
			continue
		}
		for _, w := range validator.warnings {
			fmt.Println(w)
		}
		fmt.Printf("%s is valid!\n", filename)
	}
	if failed {
		os.Exit(1)
	}
}

type RecordValidator struct {
	errors   []string
	warnings []string
}

func (v *RecordValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	if filepath.Ext(filename) != ".json" {
		return fmt.Errorf("character file must have .json extension: %s", filepath.Base(filename))
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return v.validateData(filename, data)
}

func (v *RecordValidator) validateData(filename string, data []byte) error {
	v.errors = nil
	v.warnings = nil

	if !json.Valid(data) {
		return fmt.Errorf("file %s contains invalid JSON", filename)
	}

	var rec sheet.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("file %s is not a character record: %w", filename, err)
	}

	v.validateRecord(rec)

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}
	return nil
}

func (v *RecordValidator) validateRecord(rec sheet.Record) {
	var unknown []string
	for col := range rec {
		if _, ok := sheet.Lookup(col); !ok {
			unknown = append(unknown, col)
		}
	}
	slices.Sort(unknown)
	for _, col := range unknown {
		v.addWarning(fmt.Sprintf("column %q is not part of the sheet and will be ignored", col))
	}

	for _, f := range sheet.Fields() {
		raw, ok := rec[f.ID]
		if !ok {
			v.addWarning(fmt.Sprintf("column %q is missing and will default to %q", f.ID, f.Default().String()))
			continue
		}
		if f.IsNumeric() {
			v.validateNumber(f, raw)
		}
	}

	state := sheet.Hydrate(rec, sheet.Fields())
	for _, w := range rules.Summarize(state).Warnings {
		v.addWarning(w)
	}
}

func (v *RecordValidator) validateNumber(f sheet.Field, raw string) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return
	}
	if _, err := strconv.ParseFloat(s, 64); err != nil {
		v.addError(fmt.Sprintf("%s: %q is not a number", f.ID, raw))
	}
}

func (v *RecordValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

func (v *RecordValidator) addWarning(msg string) {
	v.warnings = append(v.warnings, "  ! "+msg)
}
