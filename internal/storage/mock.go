package storage

import (
	"context"
	"slices"
	"sync"

	"github.com/jwebster45206/investigator-sheets/pkg/sheet"
)

// MockStorage is an in-memory implementation of Storage for testing
type MockStorage struct {
	mu        sync.RWMutex
	order     []string
	records   map[string]sheet.Record
	pingError error
	failWith  error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		records: make(map[string]sheet.Record),
	}
}

// SetPingSuccess configures the mock to succeed on ping
func (m *MockStorage) SetPingSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = nil
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetFailure makes every character operation return err until cleared with nil
func (m *MockStorage) SetFailure(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

// AddCharacter stores a record directly, bypassing name checks (for testing)
func (m *MockStorage) AddCharacter(name string, rec sheet.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[name]; !ok {
		m.order = append(m.order, name)
	}
	m.records[name] = rec.Clone()
}

// Ping mocks storage ping
func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

// Close mocks storage close
func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) ListCharacters(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	return slices.Clone(m.order), nil
}

func (m *MockStorage) GetCharacter(ctx context.Context, name string) (sheet.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	rec, ok := m.records[sheet.NormalizeName(name)]
	if !ok {
		return nil, ErrCharacterNotFound
	}
	return rec.Clone(), nil
}

func (m *MockStorage) CreateCharacter(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	if _, ok := m.records[name]; ok {
		return ErrCharacterExists
	}
	m.order = append(m.order, name)
	m.records[name] = DefaultRecord()
	return nil
}

func (m *MockStorage) UpdateCharacter(ctx context.Context, name string, data sheet.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	rec, ok := m.records[sheet.NormalizeName(name)]
	if !ok {
		return ErrCharacterNotFound
	}
	for k, v := range schemaColumns(data) {
		rec[k] = v
	}
	return nil
}
