// Package reconcile drives one batch: it reads pending reports and the
// ladder from the store, applies rating adjustments in report order, and
// writes the updated ladder and annotated report history back.
package reconcile

import (
	"github.com/morthond/wotr-ladder/internal/ladder"
	"github.com/morthond/wotr-ladder/internal/schema"
)

// Ledger is the player ledger both game variants share: two-sided rated
// entries keyed by normalized name.
type Ledger = ladder.Ladder[*ladder.Player]

// NewLedger returns an empty ledger with default-rated entry creation.
func NewLedger() *Ledger {
	return ladder.New(ladder.NewPlayer)
}

// Annotation is the per-report audit record: games played, rank and
// side rating before the game, and the side rating after, for each
// participant in report column order. Head-to-head reports carry 8
// values, team reports 16. A nil Annotation means "not processed" and
// serializes as all zeros.
type Annotation []int

// SheetSpec names one sheet and the header rows preceding its data.
type SheetSpec struct {
	Name       string
	HeaderRows int
}

// Report is one decoded intake row. Each variant supplies its own
// participant-resolution policy through Process.
type Report interface {
	// LadderEligible reports whether the game counts toward ranked play.
	LadderEligible() bool
	// HasStats reports whether the row carries remembered game statistics.
	HasStats() bool
	// Process resolves participants (creating unseen players) and applies
	// the rating adjustment, returning the audit annotation.
	Process(proc *Processor, led *Ledger) (Annotation, error)
	// HistoryRow renders the validated cells plus the annotation for the
	// report-history sheet. A nil annotation renders as zeros.
	HistoryRow(a Annotation) schema.Row
}

// Game is one ladder variant: its sheet layout and row codecs.
type Game interface {
	Name() string

	Pending() SheetSpec
	History() SheetSpec
	NoStats() SheetSpec
	Ladder() SheetSpec

	// LadderSortCol is the rank-relevant rating column the stored active
	// range is sorted by after write-back.
	LadderSortCol() int
	// TimestampCol orders report-history sheets, most recent first.
	TimestampCol() int

	// DecodeReport validates one pending row. rowIndex is the sheet row,
	// for diagnostics.
	DecodeReport(rowIndex int, row schema.Row) (Report, error)
	// DecodeLadderRow validates one ladder row. The divider return is true
	// for the inactive-players sentinel row, which carries no entry.
	DecodeLadderRow(rowIndex int, row schema.Row) (entry *ladder.Player, divider bool, err error)
	// UpdateLadderRow writes an entry's current state into a copy of its
	// original row, leaving opaque store cells untouched.
	UpdateLadderRow(orig schema.Row, p *ladder.Player) schema.Row
	// NewLadderRow renders a row for a player discovered this batch.
	NewLadderRow(p *ladder.Player) schema.Row
}
