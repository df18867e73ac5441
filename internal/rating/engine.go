// Package rating computes the ladder's bucketed, zero-sum rating
// adjustment. The curve is table-driven rather than a continuous ELO
// formula: the community tuned the steps by hand years ago and the ladder
// must keep reproducing them exactly.
package rating

import "fmt"

// Tables holds the adjustment curve. Bounds is an ascending list of
// inclusive upper bounds on the rating gap; the final bound is a sentinel
// covering every larger gap. Favored applies when the winner entered with
// the higher rating, Underdog when the winner entered with the lower one.
type Tables struct {
	Bounds   []int
	Favored  []int
	Underdog []int
}

// Unbounded is the sentinel upper bound of the last bucket.
const Unbounded = int(^uint(0) >> 1)

// Default returns the ladder's standard curve. An underdog win pays out
// 16..31 as the gap widens; a favored win pays 16..1.
func Default() Tables {
	return Tables{
		Bounds:   []int{10, 33, 56, 79, 102, 126, 151, 178, 207, 236, 270, 308, 352, 409, 499, Unbounded},
		Favored:  []int{16, 16, 15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 1},
		Underdog: []int{16, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 31},
	}
}

// Engine resolves rating deltas against a fixed set of Tables.
type Engine struct {
	tables Tables
}

// NewEngine validates the tables and returns an Engine. Mismatched table
// lengths are a configuration fault, not a runtime input error.
func NewEngine(t Tables) (*Engine, error) {
	if len(t.Bounds) == 0 {
		return nil, fmt.Errorf("rating: empty bucket bounds")
	}
	if len(t.Favored) != len(t.Bounds) || len(t.Underdog) != len(t.Bounds) {
		return nil, fmt.Errorf("rating: table lengths mismatch: %d bounds, %d favored, %d underdog",
			len(t.Bounds), len(t.Favored), len(t.Underdog))
	}
	for i := 1; i < len(t.Bounds); i++ {
		if t.Bounds[i] <= t.Bounds[i-1] {
			return nil, fmt.Errorf("rating: bucket bounds not ascending at index %d", i)
		}
	}
	if t.Bounds[len(t.Bounds)-1] != Unbounded {
		return nil, fmt.Errorf("rating: last bucket bound must be unbounded")
	}
	return &Engine{tables: t}, nil
}

// Delta returns the points to add to the winner and subtract from the
// loser, given both pre-game ratings. Always >= 0.
func (e *Engine) Delta(winner, loser int) int {
	diff := winner - loser
	table := e.tables.Favored
	if diff < 0 {
		diff = -diff
		table = e.tables.Underdog
	}
	for i, bound := range e.tables.Bounds {
		if diff <= bound {
			return table[i]
		}
	}
	// Unreachable: the last bound is the sentinel.
	return table[len(table)-1]
}
