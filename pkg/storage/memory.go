package storage

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// MemoryStore is an in-process Store. It is the default adapter when the
// integrator supplies none, and the workhorse for tests. Values survive only
// for the lifetime of the process.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryStore) set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// GetInt returns the integer stored under key, or def if absent.
func (m *MemoryStore) GetInt(_ context.Context, key string, def int64) (int64, error) {
	raw, ok := m.get(key)
	if !ok {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return v, nil
}

// SetInt stores an integer under key.
func (m *MemoryStore) SetInt(_ context.Context, key string, value int64) error {
	m.set(key, strconv.FormatInt(value, 10))
	return nil
}

// GetBool returns the boolean stored under key, or def if absent.
func (m *MemoryStore) GetBool(_ context.Context, key string, def bool) (bool, error) {
	raw, ok := m.get(key)
	if !ok {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, err
	}
	return v, nil
}

// SetBool stores a boolean under key.
func (m *MemoryStore) SetBool(_ context.Context, key string, value bool) error {
	m.set(key, strconv.FormatBool(value))
	return nil
}

// GetTime returns the timestamp stored under key. ok is false if the key was
// never written.
func (m *MemoryStore) GetTime(_ context.Context, key string) (time.Time, bool, error) {
	raw, ok := m.get(key)
	if !ok {
		return time.Time{}, false, nil
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false, err
	}
	return time.UnixMilli(millis), true, nil
}

// SetTime stores a timestamp under key as epoch milliseconds.
func (m *MemoryStore) SetTime(_ context.Context, key string, value time.Time) error {
	m.set(key, strconv.FormatInt(value.UnixMilli(), 10))
	return nil
}

// GetString returns the string stored under key. ok is false if absent.
func (m *MemoryStore) GetString(_ context.Context, key string) (string, bool, error) {
	v, ok := m.get(key)
	return v, ok, nil
}

// SetString stores a string under key.
func (m *MemoryStore) SetString(_ context.Context, key, value string) error {
	m.set(key, value)
	return nil
}

// ClearAll drops every stored value.
func (m *MemoryStore) ClearAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = make(map[string]string)
	return nil
}
