package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/jwebster45206/investigator-sheets/pkg/sheet"
)

var (
	ErrCharacterNotFound = errors.New("character not found")
	ErrCharacterExists   = errors.New("character already exists")
	ErrInvalidName       = errors.New("invalid character name")
)

// Storage defines the character persistence behind the stand-in sheet endpoint
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// ListCharacters returns every stored name in creation order, hidden ones included
	ListCharacters(ctx context.Context) ([]string, error)
	GetCharacter(ctx context.Context, name string) (sheet.Record, error)
	// CreateCharacter stores a new character with every schema field at its default
	CreateCharacter(ctx context.Context, name string) error
	// UpdateCharacter writes the schema fields present in data and ignores other keys
	UpdateCharacter(ctx context.Context, name string, data sheet.Record) error
}

// DefaultRecord is the serialized form of a freshly created character
func DefaultRecord() sheet.Record {
	return sheet.Serialize(sheet.DefaultState(), sheet.Fields())
}

// schemaColumns keeps only the keys of data that name a schema field
func schemaColumns(data sheet.Record) sheet.Record {
	out := make(sheet.Record, len(data))
	for k, v := range data {
		if _, ok := sheet.Lookup(k); ok {
			out[k] = v
		}
	}
	return out
}

// cleanName normalizes a name and rejects blank names and reserved characters
func cleanName(name string) (string, error) {
	n := sheet.NormalizeName(name)
	if n == "" || strings.ContainsAny(n, sheet.ReservedNameChars) {
		return "", ErrInvalidName
	}
	return n, nil
}
