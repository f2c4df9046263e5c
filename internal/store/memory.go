// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package store

import (
	"strings"
	"sync"
)

// Memory is an in-memory store.
type Memory struct {
	mu      sync.RWMutex
	records []Record // oldest first
	ids     map[string]int
}

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{
		ids: make(map[string]int),
	}
}

// Append adds a record.
func (m *Memory) Append(r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.ids[r.ID]; ok {
		return nil
	}
	m.ids[r.ID] = len(m.records)
	m.records = append(m.records, r)
	return nil
}

// Get retrieves a record by ID.
func (m *Memory) Get(id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i, ok := m.ids[id]
	if !ok {
		return nil, nil
	}
	r := m.records[i]
	return &r, nil
}

// List returns records newest first.
func (m *Memory) List(limit int) ([]Record, error) {
	return m.collect(func(Record) bool { return true }, limit), nil
}

// Search returns records whose expression contains substr.
func (m *Memory) Search(substr string, limit int) ([]Record, error) {
	return m.collect(func(r Record) bool {
		return strings.Contains(r.Expression, substr)
	}, limit), nil
}

func (m *Memory) collect(match func(Record) bool, limit int) []Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Record
	for i := len(m.records) - 1; i >= 0; i-- {
		if !match(m.records[i]) {
			continue
		}
		out = append(out, m.records[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Clear removes all records.
func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = nil
	m.ids = make(map[string]int)
	return nil
}

// Close is a no-op for memory store.
func (m *Memory) Close() error {
	return nil
}
