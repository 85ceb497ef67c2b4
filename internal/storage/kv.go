// Package storage persists graphs and the project catalog in a key-value
// store. Values are JSON documents; keys follow the nodes_<graphId> and
// connections_<graphId> convention of the canvas.
package storage

import (
	"io"
	"sort"
	"strings"
)

// KV is a string key-value store.
type KV interface {
	// Get returns the value for key; ok is false when the key is absent.
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
	// Keys returns every key with the given prefix, sorted.
	Keys(prefix string) ([]string, error)
}

// Store is a KV that holds a connection or file open.
type Store interface {
	KV
	io.Closer
}

// MemoryKV is an in-memory KV for tests and throwaway sessions.
type MemoryKV struct {
	data map[string]string
}

// NewMemoryKV returns an empty store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (m *MemoryKV) Get(key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(key, value string) error {
	m.data[key] = value
	return nil
}

func (m *MemoryKV) Delete(key string) error {
	delete(m.data, key)
	return nil
}

func (m *MemoryKV) Keys(prefix string) ([]string, error) {
	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
