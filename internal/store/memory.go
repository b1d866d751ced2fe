// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package store

import (
	"context"
	"sort"
	"sync"

	"github.com/sirseerhq/discussions-loader/internal/content"
)

// Memory is an in-process store.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]content.Entry
	writes  int
}

// NewMemory creates an empty memory store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]content.Entry)}
}

// Set implements Store.
func (m *Memory) Set(_ context.Context, entry content.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = entry
	m.writes++
	return nil
}

// Delete implements Store.
func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

// Replace implements Store.
func (m *Memory) Replace(_ context.Context, entries []content.Entry) error {
	next := make(map[string]content.Entry, len(entries))
	for _, e := range entries {
		next[e.ID] = e
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = next
	m.writes += len(entries)
	return nil
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, id string) (content.Entry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[id]
	return e, ok, nil
}

// Entries implements Store.
func (m *Memory) Entries(_ context.Context) ([]content.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]content.Entry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// IDs returns the ids held by the store, sorted.
func (m *Memory) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.entries))
	for id := range m.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Writes returns the number of Set calls so far.
func (m *Memory) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

// Close implements Store.
func (m *Memory) Close() error {
	return nil
}
