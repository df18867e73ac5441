// Package cardgame is the team ladder variant: two role slots per side,
// 14-cell intake rows, 8-cell ladder rows. Participant resolution differs
// from the head-to-head variant; the rated entry shape is the same.
package cardgame

import (
	"strings"

	"github.com/morthond/wotr-ladder/internal/ladder"
	"github.com/morthond/wotr-ladder/internal/reconcile"
	"github.com/morthond/wotr-ladder/internal/schema"
)

// Sheet names in the backing store.
const (
	PendingSheet = "Card Game Reports (pending)"
	HistorySheet = "Card Game Reports"
	NoStatsSheet = "Card Game Reports (no stats)"
	LadderSheet  = "Card Game Ladder"
)

// Report row positions. Winners come before losers, lead slot before
// support slot on each side.
const (
	colTimestamp     = 0
	colWinnerLead    = 1
	colWinnerSupport = 2
	colLoserLead     = 3
	colLoserSupport  = 4
	colVictory       = 5
	colCompetitive   = 6
	colComment       = 13
)

// ReportWidth is the fixed intake row width.
const ReportWidth = 14

// AnnotationWidth is the number of audit cells appended to history rows:
// four per role slot.
const AnnotationWidth = 16

var reportRules = []schema.Rule{
	{Field: "timestamp", Kind: schema.Timestamp},
	{Field: "winnerLead", Kind: schema.String},
	{Field: "winnerSupport", Kind: schema.String},
	{Field: "loserLead", Kind: schema.String},
	{Field: "loserSupport", Kind: schema.String},
	{Field: "victory", Kind: schema.Enum, Values: reconcile.VictoryValues},
	{Field: "competitive", Kind: schema.Enum, Values: reconcile.CompetitiveValues},
	{Field: "gameTurns", Kind: schema.OptionalNumber},
	{Field: "fpVictoryPoints", Kind: schema.OptionalNumber},
	{Field: "spVictoryPoints", Kind: schema.OptionalNumber},
	{Field: "corruption", Kind: schema.OptionalNumber},
	{Field: "tournamentName", Kind: schema.OptionalString},
	{Field: "format", Kind: schema.OptionalString},
	{Field: "comment", Kind: schema.Any},
}

// Ladder row positions. Cells 0, 6 and 7 belong to the store.
const (
	ladderColRank    = 0
	ladderColName    = 1
	ladderColAverage = 2
	ladderColShadow  = 3
	ladderColFree    = 4
	ladderColGames   = 5
)

// LadderWidth is the fixed ladder row width.
const LadderWidth = 8

var ladderRules = []schema.Rule{
	{Field: "rankCell", Kind: schema.Any},
	{Field: "name", Kind: schema.String},
	{Field: "average", Kind: schema.Number},
	{Field: "shadowRating", Kind: schema.Number},
	{Field: "freeRating", Kind: schema.Number},
	{Field: "gamesPlayed", Kind: schema.Number},
	{Field: "formula1", Kind: schema.Any},
	{Field: "formula2", Kind: schema.Any},
}

// Game implements reconcile.Game for the team ladder.
type Game struct{}

// New returns the team variant.
func New() Game { return Game{} }

// Name identifies the variant in logs and trigger URLs.
func (Game) Name() string { return "cardgame" }

// Pending is the intake sheet the batch consumes from.
func (Game) Pending() reconcile.SheetSpec {
	return reconcile.SheetSpec{Name: PendingSheet, HeaderRows: 1}
}

// History is the destination for reports with remembered stats.
func (Game) History() reconcile.SheetSpec {
	return reconcile.SheetSpec{Name: HistorySheet, HeaderRows: 1}
}

// NoStats is the destination for reports without remembered stats.
func (Game) NoStats() reconcile.SheetSpec {
	return reconcile.SheetSpec{Name: NoStatsSheet, HeaderRows: 1}
}

// Ladder is the stored ladder sheet.
func (Game) Ladder() reconcile.SheetSpec {
	return reconcile.SheetSpec{Name: LadderSheet, HeaderRows: 2}
}

// LadderSortCol implements reconcile.Game.
func (Game) LadderSortCol() int { return ladderColAverage }

// TimestampCol implements reconcile.Game.
func (Game) TimestampCol() int { return colTimestamp }

// DecodeReport implements reconcile.Game. A player may hold both slots of
// one side; a player on both sides is rejected.
func (Game) DecodeReport(rowIndex int, row schema.Row) (reconcile.Report, error) {
	valid, err := schema.Validate(PendingSheet, rowIndex, row, reportRules)
	if err != nil {
		return nil, err
	}
	rep := &Report{
		row:         valid,
		Winners:     [2]string{valid.Str(colWinnerLead), valid.Str(colWinnerSupport)},
		Losers:      [2]string{valid.Str(colLoserLead), valid.Str(colLoserSupport)},
		Victory:     valid.Str(colVictory),
		Competitive: valid.Str(colCompetitive),
	}
	for _, w := range rep.Winners {
		for _, l := range rep.Losers {
			if ladder.Normalize(w) == ladder.Normalize(l) {
				return nil, &schema.ValidationError{
					Sheet:    PendingSheet,
					RowIndex: rowIndex,
					Field:    "loserLead",
					Pos:      colLoserLead,
					Expected: "players distinct from the winning side",
					Got:      l,
				}
			}
		}
	}
	return rep, nil
}

// DecodeLadderRow implements reconcile.Game.
func (Game) DecodeLadderRow(rowIndex int, row schema.Row) (*ladder.Player, bool, error) {
	if len(row) == LadderWidth {
		if name, ok := row[ladderColName].(string); ok && strings.TrimSpace(name) == reconcile.DividerName {
			return nil, true, nil
		}
	}
	valid, err := schema.Validate(LadderSheet, rowIndex, row, ladderRules)
	if err != nil {
		return nil, false, err
	}
	p := ladder.LoadPlayer(
		valid.Str(ladderColName),
		int(valid.Num(ladderColShadow)),
		int(valid.Num(ladderColFree)),
		int(valid.Num(ladderColGames)),
	)
	return p, false, nil
}

// UpdateLadderRow implements reconcile.Game.
func (Game) UpdateLadderRow(orig schema.Row, p *ladder.Player) schema.Row {
	row := orig.Clone()
	row[ladderColName] = p.Name()
	row[ladderColAverage] = p.Average()
	row[ladderColShadow] = float64(p.Rating(ladder.Shadow))
	row[ladderColFree] = float64(p.Rating(ladder.Free))
	row[ladderColGames] = float64(p.GamesPlayed())
	return row
}

// NewLadderRow implements reconcile.Game.
func (Game) NewLadderRow(p *ladder.Player) schema.Row {
	row := make(schema.Row, LadderWidth)
	for i := range row {
		row[i] = ""
	}
	return Game{}.UpdateLadderRow(row, p)
}

// Report is one decoded team intake row.
type Report struct {
	row         schema.Row
	Winners     [2]string
	Losers      [2]string
	Victory     string
	Competitive string
}

// LadderEligible implements reconcile.Report.
func (r *Report) LadderEligible() bool {
	return reconcile.LadderEligible(r.Competitive)
}

// HasStats implements reconcile.Report.
func (r *Report) HasStats() bool {
	return reconcile.HasStats(r.Competitive)
}

// WinnerSide derives the winning side from the victory outcome.
func (r *Report) WinnerSide() ladder.Side {
	return reconcile.VictorySide(r.Victory)
}

// Process implements reconcile.Report.
func (r *Report) Process(proc *reconcile.Processor, led *reconcile.Ledger) (reconcile.Annotation, error) {
	return proc.ProcessTeam(led, r.Winners, r.Losers, r.WinnerSide())
}

// HistoryRow implements reconcile.Report: the validated cells plus the
// sixteen audit cells.
func (r *Report) HistoryRow(a reconcile.Annotation) schema.Row {
	row := r.row.Clone()
	if a == nil {
		a = make(reconcile.Annotation, AnnotationWidth)
	}
	for _, v := range a {
		row = append(row, float64(v))
	}
	return row
}
