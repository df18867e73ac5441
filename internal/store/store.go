// Package store provides the tabular backing store for ladders and report
// sheets: named sheets of positional rows with range read/write/insert/
// delete/sort primitives.
package store

import (
	"context"
	"sort"
	"strings"

	"github.com/araddon/dateparse"

	"github.com/morthond/wotr-ladder/internal/schema"
)

// Store is the tabular collaborator the reconciler reads and writes. Row
// indices are 0-based and include header rows; callers offset past headers
// themselves. A negative count to ReadRows means "through the end".
type Store interface {
	RowCount(ctx context.Context, sheet string) (int, error)
	ReadRows(ctx context.Context, sheet string, start, count int) ([]schema.Row, error)
	WriteRows(ctx context.Context, sheet string, start int, rows []schema.Row) error
	InsertRows(ctx context.Context, sheet string, start int, rows []schema.Row) error
	DeleteRows(ctx context.Context, sheet string, start, count int) error
	SortRange(ctx context.Context, sheet string, start, count, col int, desc bool) error

	Close() error
}

// Less orders two cells for SortRange: numbers first, then parseable
// timestamps, then plain string comparison. Intake timestamps arrive as
// free-form strings, so string order alone would shuffle report history.
func Less(a, b any) bool {
	an, aok := cellNumber(a)
	bn, bok := cellNumber(b)
	if aok && bok {
		return an < bn
	}
	if aok != bok {
		return aok // numbers sort before everything else
	}

	as, _ := a.(string)
	bs, _ := b.(string)
	at, aerr := dateparse.ParseAny(strings.TrimSpace(as))
	bt, berr := dateparse.ParseAny(strings.TrimSpace(bs))
	if aerr == nil && berr == nil {
		return at.Before(bt)
	}
	return as < bs
}

func cellNumber(cell any) (float64, bool) {
	switch n := cell.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func sortRows(rows []schema.Row, col int, desc bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if col >= len(a) || col >= len(b) {
			return false
		}
		if desc {
			return Less(b[col], a[col])
		}
		return Less(a[col], b[col])
	})
}
