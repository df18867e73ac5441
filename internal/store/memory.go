package store

import (
	"context"
	"fmt"

	"github.com/morthond/wotr-ladder/internal/schema"
)

// MemStore is an in-memory Store used by tests and dry runs. Batches are
// single-threaded, so there is no locking.
type MemStore struct {
	sheets map[string][]schema.Row
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{sheets: make(map[string][]schema.Row)}
}

// Seed replaces the contents of sheet.
func (m *MemStore) Seed(sheet string, rows []schema.Row) {
	cp := make([]schema.Row, len(rows))
	for i, r := range rows {
		cp[i] = r.Clone()
	}
	m.sheets[sheet] = cp
}

// Rows returns the current contents of sheet.
func (m *MemStore) Rows(sheet string) []schema.Row {
	return m.sheets[sheet]
}

// RowCount implements Store.
func (m *MemStore) RowCount(_ context.Context, sheet string) (int, error) {
	return len(m.sheets[sheet]), nil
}

// ReadRows implements Store.
func (m *MemStore) ReadRows(_ context.Context, sheet string, start, count int) ([]schema.Row, error) {
	all := m.sheets[sheet]
	if start < 0 || start > len(all) {
		return nil, fmt.Errorf("sheet %s: read at %d outside 0..%d", sheet, start, len(all))
	}
	rest := all[start:]
	if count >= 0 && count < len(rest) {
		rest = rest[:count]
	}
	out := make([]schema.Row, len(rest))
	for i, r := range rest {
		out[i] = r.Clone()
	}
	return out, nil
}

// WriteRows implements Store.
func (m *MemStore) WriteRows(_ context.Context, sheet string, start int, rows []schema.Row) error {
	all := m.sheets[sheet]
	for len(all) < start+len(rows) {
		all = append(all, schema.Row{})
	}
	for i, r := range rows {
		all[start+i] = r.Clone()
	}
	m.sheets[sheet] = all
	return nil
}

// InsertRows implements Store.
func (m *MemStore) InsertRows(_ context.Context, sheet string, start int, rows []schema.Row) error {
	all := m.sheets[sheet]
	if start < 0 || start > len(all) {
		return fmt.Errorf("sheet %s: insert at %d outside 0..%d", sheet, start, len(all))
	}
	out := make([]schema.Row, 0, len(all)+len(rows))
	out = append(out, all[:start]...)
	for _, r := range rows {
		out = append(out, r.Clone())
	}
	out = append(out, all[start:]...)
	m.sheets[sheet] = out
	return nil
}

// DeleteRows implements Store.
func (m *MemStore) DeleteRows(_ context.Context, sheet string, start, count int) error {
	all := m.sheets[sheet]
	if start < 0 || start+count > len(all) {
		return fmt.Errorf("sheet %s: delete %d..%d outside 0..%d", sheet, start, start+count, len(all))
	}
	m.sheets[sheet] = append(all[:start:start], all[start+count:]...)
	return nil
}

// SortRange implements Store.
func (m *MemStore) SortRange(_ context.Context, sheet string, start, count, col int, desc bool) error {
	all := m.sheets[sheet]
	if start < 0 || start+count > len(all) {
		return fmt.Errorf("sheet %s: sort %d..%d outside 0..%d", sheet, start, start+count, len(all))
	}
	sortRows(all[start:start+count], col, desc)
	return nil
}

// Close implements Store.
func (m *MemStore) Close() error { return nil }
