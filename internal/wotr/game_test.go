package wotr

import (
	"errors"
	"testing"

	"github.com/morthond/wotr-ladder/internal/ladder"
	"github.com/morthond/wotr-ladder/internal/reconcile"
	"github.com/morthond/wotr-ladder/internal/schema"
)

func reportRow(ts, winner, loser, victory, competitive string) schema.Row {
	row := make(schema.Row, ReportWidth)
	for i := range row {
		row[i] = ""
	}
	row[colTimestamp] = ts
	row[colWinner] = winner
	row[colLoser] = loser
	row[colVictory] = victory
	row[colCompetitive] = competitive
	return row
}

func ladderRow(name string, shadow, free, games float64) schema.Row {
	return schema.Row{"=RANK()", name, (shadow + free) / 2, shadow, free, games, "=A", "=B", "=C", "=D"}
}

func TestDecodeReport(t *testing.T) {
	g := New()
	row := reportRow("2024-03-09 18:00:00", "  Alice  ", "Bob", reconcile.VictorySPRing, reconcile.CompetitiveLadder)

	rep, err := g.DecodeReport(1, row)
	if err != nil {
		t.Fatalf("DecodeReport: %v", err)
	}
	r := rep.(*Report)
	if r.Winner != "Alice" {
		t.Errorf("Winner = %q; want trimmed %q", r.Winner, "Alice")
	}
	if !r.LadderEligible() {
		t.Error("ladder game not eligible")
	}
	if !r.HasStats() {
		t.Error("ladder game reported no stats")
	}
	if r.WinnerSide() != ladder.Shadow {
		t.Errorf("WinnerSide = %v; want Shadow", r.WinnerSide())
	}
}

func TestDecodeReportClassifications(t *testing.T) {
	cases := []struct {
		name         string
		competitive  string
		wantEligible bool
		wantStats    bool
	}{
		{name: "friendly", competitive: reconcile.CompetitiveFriendly, wantEligible: false, wantStats: true},
		{name: "ladder", competitive: reconcile.CompetitiveLadder, wantEligible: true, wantStats: true},
		{name: "tournament", competitive: reconcile.CompetitiveTournament, wantEligible: true, wantStats: true},
		{name: "league", competitive: reconcile.CompetitiveLeague, wantEligible: true, wantStats: true},
		{name: "no stats", competitive: reconcile.CompetitiveNoStats, wantEligible: true, wantStats: false},
	}
	g := New()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			row := reportRow("2024-03-09 18:00:00", "Alice", "Bob", reconcile.VictoryFPRing, c.competitive)
			rep, err := g.DecodeReport(1, row)
			if err != nil {
				t.Fatalf("DecodeReport: %v", err)
			}
			if rep.LadderEligible() != c.wantEligible {
				t.Errorf("LadderEligible = %v; want %v", rep.LadderEligible(), c.wantEligible)
			}
			if rep.HasStats() != c.wantStats {
				t.Errorf("HasStats = %v; want %v", rep.HasStats(), c.wantStats)
			}
		})
	}
}

func TestDecodeReportRejectsSelfGame(t *testing.T) {
	g := New()
	row := reportRow("2024-03-09 18:00:00", "Alice", " alice ", reconcile.VictorySPRing, reconcile.CompetitiveLadder)
	_, err := g.DecodeReport(3, row)
	var verr *schema.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v; want a validation error", err)
	}
	if verr.Field != "loser" {
		t.Errorf("Field = %q; want loser", verr.Field)
	}
}

func TestWinnerSide(t *testing.T) {
	cases := []struct {
		victory string
		want    ladder.Side
	}{
		{victory: reconcile.VictoryFPRing, want: ladder.Free},
		{victory: reconcile.VictoryFPMilitary, want: ladder.Free},
		{victory: reconcile.VictoryConcededFP, want: ladder.Free},
		{victory: reconcile.VictorySPRing, want: ladder.Shadow},
		{victory: reconcile.VictorySPMilitary, want: ladder.Shadow},
		{victory: reconcile.VictoryConcededSP, want: ladder.Shadow},
	}
	for _, c := range cases {
		t.Run(c.victory, func(t *testing.T) {
			r := &Report{Victory: c.victory}
			if got := r.WinnerSide(); got != c.want {
				t.Errorf("WinnerSide(%q) = %v; want %v", c.victory, got, c.want)
			}
		})
	}
}

func TestDecodeLadderRow(t *testing.T) {
	g := New()

	p, divider, err := g.DecodeLadderRow(2, ladderRow(" Alice ", 520, 480, 3))
	if err != nil {
		t.Fatalf("DecodeLadderRow: %v", err)
	}
	if divider {
		t.Fatal("player row decoded as divider")
	}
	if p.Name() != "Alice" || p.Rating(ladder.Shadow) != 520 || p.Rating(ladder.Free) != 480 || p.GamesPlayed() != 3 {
		t.Errorf("decoded %s %d/%d games %d; want Alice 520/480 games 3",
			p.Name(), p.Rating(ladder.Shadow), p.Rating(ladder.Free), p.GamesPlayed())
	}
}

func TestDecodeLadderDivider(t *testing.T) {
	g := New()
	// The divider row carries blank numeric cells, which must not trip
	// the type checks applied to genuine player rows.
	row := schema.Row{"", reconcile.DividerName, "", "", "", "", "", "", "", ""}
	_, divider, err := g.DecodeLadderRow(5, row)
	if err != nil {
		t.Fatalf("DecodeLadderRow: %v", err)
	}
	if !divider {
		t.Fatal("divider row not recognized")
	}
}

func TestLadderRowRoundTrip(t *testing.T) {
	g := New()
	orig := ladderRow("Alice", 520, 480, 3)
	p, _, err := g.DecodeLadderRow(2, orig)
	if err != nil {
		t.Fatal(err)
	}

	row := g.UpdateLadderRow(orig, p)
	if row.Str(1) != "Alice" || row.Num(3) != 520 || row.Num(4) != 480 || row.Num(5) != 3 {
		t.Errorf("round trip changed player cells: %v", row)
	}
	// Opaque store cells must come through untouched.
	if row[0] != "=RANK()" || row[6] != "=A" || row[9] != "=D" {
		t.Errorf("round trip disturbed formula cells: %v", row)
	}
}

func TestHistoryRow(t *testing.T) {
	g := New()
	rep, err := g.DecodeReport(1, reportRow("2024-03-09 18:00:00", "Alice", "Bob", reconcile.VictorySPRing, reconcile.CompetitiveFriendly))
	if err != nil {
		t.Fatal(err)
	}

	row := rep.HistoryRow(nil)
	if len(row) != ReportWidth+AnnotationWidth {
		t.Fatalf("history row width = %d; want %d", len(row), ReportWidth+AnnotationWidth)
	}
	for i := ReportWidth; i < len(row); i++ {
		if row[i] != float64(0) {
			t.Fatalf("unprocessed annotation cell %d = %v; want 0", i, row[i])
		}
	}

	row = rep.HistoryRow(reconcile.Annotation{3, 1, 520, 535, 3, 2, 480, 465})
	if row[ReportWidth] != float64(3) || row[ReportWidth+3] != float64(535) {
		t.Errorf("annotation cells not written: %v", row[ReportWidth:])
	}
}
