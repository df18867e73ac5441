// Package schema validates raw spreadsheet rows against fixed positional
// rule tables and reports mismatches with field-level diagnostics.
package schema

import (
	"fmt"
	"strings"

	"github.com/araddon/dateparse"
)

// Row is one raw row from the tabular store. Cells are untyped because the
// store hands back whatever the intake form or a sheet formula produced.
type Row []any

// Kind describes what a cell at a given position must hold.
type Kind int

const (
	// String is a non-empty string; surrounding whitespace is stripped.
	String Kind = iota
	// OptionalString allows an empty cell; non-empty values are stripped.
	OptionalString
	// Number is a numeric cell (float64 or int from the store).
	Number
	// OptionalNumber allows an empty cell in place of a number.
	OptionalNumber
	// Timestamp is a string cell that parses as a date.
	Timestamp
	// Enum is a string cell restricted to a fixed value set.
	Enum
	// Any accepts the cell untouched (comments, store formulas).
	Any
)

// Rule is one entry of a positional rule table.
type Rule struct {
	Field  string
	Kind   Kind
	Values []string // Enum only
}

// ValidationError names the offending field of a rejected row.
type ValidationError struct {
	Sheet    string
	RowIndex int
	Field    string
	Pos      int
	Expected string
	Got      any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s row %d: field %q (col %d): expected %s, got %T(%v)",
		e.Sheet, e.RowIndex, e.Field, e.Pos, e.Expected, e.Got, e.Got)
}

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case OptionalString:
		return "optional string"
	case Number:
		return "number"
	case OptionalNumber:
		return "optional number"
	case Timestamp:
		return "timestamp"
	case Enum:
		return "enum"
	default:
		return "any"
	}
}

// Validate checks row against rules and returns a normalized copy: name and
// enum cells are whitespace-trimmed, numbers are coerced to float64. The
// input row is left untouched.
func Validate(sheet string, rowIndex int, row Row, rules []Rule) (Row, error) {
	if len(row) != len(rules) {
		return nil, &ValidationError{
			Sheet:    sheet,
			RowIndex: rowIndex,
			Field:    "(row width)",
			Pos:      -1,
			Expected: fmt.Sprintf("%d cells", len(rules)),
			Got:      len(row),
		}
	}

	out := make(Row, len(row))
	for i, rule := range rules {
		cell, err := validateCell(row[i], rule)
		if err != nil {
			return nil, &ValidationError{
				Sheet:    sheet,
				RowIndex: rowIndex,
				Field:    rule.Field,
				Pos:      i,
				Expected: expected(rule),
				Got:      row[i],
			}
		}
		out[i] = cell
	}
	return out, nil
}

func expected(rule Rule) string {
	if rule.Kind == Enum {
		return "one of [" + strings.Join(rule.Values, ", ") + "]"
	}
	return rule.Kind.String()
}

func validateCell(cell any, rule Rule) (any, error) {
	switch rule.Kind {
	case Any:
		return cell, nil

	case String, OptionalString:
		s, ok := cell.(string)
		if !ok {
			return nil, fmt.Errorf("not a string")
		}
		s = strings.TrimSpace(s)
		if s == "" && rule.Kind == String {
			return nil, fmt.Errorf("empty")
		}
		return s, nil

	case Number, OptionalNumber:
		if n, ok := asNumber(cell); ok {
			return n, nil
		}
		if rule.Kind == OptionalNumber {
			if s, ok := cell.(string); ok && strings.TrimSpace(s) == "" {
				return "", nil
			}
		}
		return nil, fmt.Errorf("not a number")

	case Timestamp:
		s, ok := cell.(string)
		if !ok {
			return nil, fmt.Errorf("not a string")
		}
		s = strings.TrimSpace(s)
		if _, err := dateparse.ParseAny(s); err != nil {
			return nil, err
		}
		return s, nil

	case Enum:
		s, ok := cell.(string)
		if !ok {
			return nil, fmt.Errorf("not a string")
		}
		s = strings.TrimSpace(s)
		for _, v := range rule.Values {
			if s == v {
				return s, nil
			}
		}
		return nil, fmt.Errorf("not a member")
	}
	return nil, fmt.Errorf("unknown rule kind %d", rule.Kind)
}

func asNumber(cell any) (float64, bool) {
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

// Str returns the cell at pos as a string. Valid only on validated rows.
func (r Row) Str(pos int) string {
	s, _ := r[pos].(string)
	return s
}

// Num returns the cell at pos as a float64. Valid only on validated rows.
func (r Row) Num(pos int) float64 {
	n, _ := asNumber(r[pos])
	return n
}

// Clone returns a copy of the row sharing no cell slice storage.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	copy(out, r)
	return out
}
