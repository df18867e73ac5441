// Package wotr is the head-to-head ladder variant: one player per side,
// 47-cell intake rows, 10-cell ladder rows.
package wotr

import (
	"strings"

	"github.com/morthond/wotr-ladder/internal/ladder"
	"github.com/morthond/wotr-ladder/internal/reconcile"
	"github.com/morthond/wotr-ladder/internal/schema"
)

// Sheet names in the backing store.
const (
	PendingSheet = "Game Reports (pending)"
	HistorySheet = "Game Reports"
	NoStatsSheet = "Game Reports (no stats)"
	LadderSheet  = "Ladder"
)

// Report row positions the engine reads. The remaining cells are game
// statistics the form collects; they are type checked and carried through
// to history untouched.
const (
	colTimestamp   = 0
	colWinner      = 1
	colLoser       = 2
	colVictory     = 3
	colCompetitive = 4
	colComment     = 46
)

// ReportWidth is the fixed intake row width.
const ReportWidth = 47

// AnnotationWidth is the number of audit cells appended to history rows.
const AnnotationWidth = 8

var reportRules = buildReportRules()

func buildReportRules() []schema.Rule {
	rules := make([]schema.Rule, ReportWidth)
	rules[colTimestamp] = schema.Rule{Field: "timestamp", Kind: schema.Timestamp}
	rules[colWinner] = schema.Rule{Field: "winner", Kind: schema.String}
	rules[colLoser] = schema.Rule{Field: "loser", Kind: schema.String}
	rules[colVictory] = schema.Rule{Field: "victory", Kind: schema.Enum, Values: reconcile.VictoryValues}
	rules[colCompetitive] = schema.Rule{Field: "competitive", Kind: schema.Enum, Values: reconcile.CompetitiveValues}

	// Game-statistics section of the form, in form order.
	stats := []schema.Rule{
		{Field: "gameType", Kind: schema.OptionalString},
		{Field: "expansionsUsed", Kind: schema.OptionalString},
		{Field: "expansions", Kind: schema.OptionalString},
		{Field: "treebeardUsed", Kind: schema.OptionalString},
		{Field: "handicap", Kind: schema.OptionalString},
		{Field: "tournamentName", Kind: schema.OptionalString},
		{Field: "gameTurns", Kind: schema.OptionalNumber},
		{Field: "corruption", Kind: schema.OptionalNumber},
		{Field: "fellowshipProgress", Kind: schema.OptionalNumber},
		{Field: "mordorTrack", Kind: schema.OptionalNumber},
		{Field: "aragornTurn", Kind: schema.OptionalNumber},
		{Field: "treebeardTurn", Kind: schema.OptionalNumber},
		{Field: "initialEyes", Kind: schema.OptionalNumber},
		{Field: "spVictoryPoints", Kind: schema.OptionalNumber},
		{Field: "fpVictoryPoints", Kind: schema.OptionalNumber},
		{Field: "strongholdsCaptured", Kind: schema.OptionalString},
		{Field: "interestRating", Kind: schema.OptionalNumber},
		{Field: "actionTokens", Kind: schema.OptionalString},
		{Field: "dwarvenRings", Kind: schema.OptionalString},
		{Field: "huntedFellowship", Kind: schema.OptionalNumber},
		{Field: "corruptionGained", Kind: schema.OptionalNumber},
		{Field: "gandalfTheWhite", Kind: schema.OptionalString},
		{Field: "saurumanLevel", Kind: schema.OptionalString},
		{Field: "witchKingLevel", Kind: schema.OptionalString},
		{Field: "mouthOfSauron", Kind: schema.OptionalString},
		{Field: "fpCardsPlayed", Kind: schema.OptionalNumber},
		{Field: "spCardsPlayed", Kind: schema.OptionalNumber},
		{Field: "fpCombatCards", Kind: schema.OptionalNumber},
		{Field: "spCombatCards", Kind: schema.OptionalNumber},
		{Field: "musterDice", Kind: schema.OptionalNumber},
		{Field: "armyDice", Kind: schema.OptionalNumber},
		{Field: "eventDice", Kind: schema.OptionalNumber},
		{Field: "characterDice", Kind: schema.OptionalNumber},
		{Field: "willOfTheWest", Kind: schema.OptionalNumber},
		{Field: "eyeResults", Kind: schema.OptionalNumber},
		{Field: "huntTilesDrawn", Kind: schema.OptionalNumber},
		{Field: "erebosCaptured", Kind: schema.OptionalString},
		{Field: "minasTirithHeld", Kind: schema.OptionalString},
		{Field: "helmsDeepHeld", Kind: schema.OptionalString},
		{Field: "lorienHeld", Kind: schema.OptionalString},
		{Field: "gameLength", Kind: schema.OptionalString},
	}
	for i, r := range stats {
		rules[colCompetitive+1+i] = r
	}
	rules[colComment] = schema.Rule{Field: "comment", Kind: schema.Any}
	return rules
}

// Ladder row positions. Cells 0 and 6..9 belong to the store (rank and
// win-percentage formulas) and round-trip untouched.
const (
	ladderColRank    = 0
	ladderColName    = 1
	ladderColAverage = 2
	ladderColShadow  = 3
	ladderColFree    = 4
	ladderColGames   = 5
)

// LadderWidth is the fixed ladder row width.
const LadderWidth = 10

var ladderRules = []schema.Rule{
	{Field: "rankCell", Kind: schema.Any},
	{Field: "name", Kind: schema.String},
	{Field: "average", Kind: schema.Number},
	{Field: "shadowRating", Kind: schema.Number},
	{Field: "freeRating", Kind: schema.Number},
	{Field: "gamesPlayed", Kind: schema.Number},
	{Field: "formula1", Kind: schema.Any},
	{Field: "formula2", Kind: schema.Any},
	{Field: "formula3", Kind: schema.Any},
	{Field: "formula4", Kind: schema.Any},
}

// Game implements reconcile.Game for the head-to-head ladder.
type Game struct{}

// New returns the head-to-head variant.
func New() Game { return Game{} }

// Name identifies the variant in logs and trigger URLs.
func (Game) Name() string { return "wotr" }

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

// DecodeReport implements reconcile.Game.
func (Game) DecodeReport(rowIndex int, row schema.Row) (reconcile.Report, error) {
	valid, err := schema.Validate(PendingSheet, rowIndex, row, reportRules)
	if err != nil {
		return nil, err
	}
	rep := &Report{
		row:         valid,
		Winner:      valid.Str(colWinner),
		Loser:       valid.Str(colLoser),
		Victory:     valid.Str(colVictory),
		Competitive: valid.Str(colCompetitive),
	}
	if ladder.Normalize(rep.Winner) == ladder.Normalize(rep.Loser) {
		return nil, &schema.ValidationError{
			Sheet:    PendingSheet,
			RowIndex: rowIndex,
			Field:    "loser",
			Pos:      colLoser,
			Expected: "a different player than the winner",
			Got:      rep.Loser,
		}
	}
	return rep, nil
}

// DecodeLadderRow implements reconcile.Game. The divider row is keyed on
// its name cell; its numeric cells may be blank and are not type checked.
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

// Report is one decoded head-to-head intake row.
type Report struct {
	row         schema.Row
	Winner      string
	Loser       string
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

// WinnerSide derives the winner's side from the victory outcome.
func (r *Report) WinnerSide() ladder.Side {
	return reconcile.VictorySide(r.Victory)
}

// Process implements reconcile.Report.
func (r *Report) Process(proc *reconcile.Processor, led *reconcile.Ledger) (reconcile.Annotation, error) {
	return proc.ProcessPair(led, r.Winner, r.Loser, r.WinnerSide())
}

// HistoryRow implements reconcile.Report: the validated cells plus the
// eight audit cells.
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
