package reconcile

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/morthond/wotr-ladder/internal/ladder"
	"github.com/morthond/wotr-ladder/internal/rating"
)

func newTestProcessor(t *testing.T) *Processor {
	t.Helper()
	engine, err := rating.NewEngine(rating.Default())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewProcessor(engine, logrus.NewEntry(logger))
}

func loadPlayer(t *testing.T, led *Ledger, name string, shadow, free, games int) {
	t.Helper()
	if err := led.Load(ladder.LoadPlayer(name, shadow, free, games), true); err != nil {
		t.Fatal(err)
	}
}

func TestProcessPair(t *testing.T) {
	proc := newTestProcessor(t)
	led := NewLedger()
	loadPlayer(t, led, "Alice", 520, 480, 3) // avg 500, rank 1
	loadPlayer(t, led, "Bob", 500, 480, 3)   // avg 490, rank 2

	// Alice on Shadow (520) beats Bob on Free (480): gap 40 pays 15.
	ann, err := proc.ProcessPair(led, "Alice", "Bob", ladder.Shadow)
	if err != nil {
		t.Fatalf("ProcessPair: %v", err)
	}

	alice, _ := led.Lookup("Alice")
	bob, _ := led.Lookup("Bob")
	if got := alice.Rating(ladder.Shadow); got != 535 {
		t.Errorf("Alice Shadow = %d; want 535", got)
	}
	if got := bob.Rating(ladder.Free); got != 465 {
		t.Errorf("Bob Free = %d; want 465", got)
	}
	if alice.GamesPlayed() != 4 || bob.GamesPlayed() != 4 {
		t.Errorf("games played = %d/%d; want 4/4", alice.GamesPlayed(), bob.GamesPlayed())
	}

	want := Annotation{3, 1, 520, 535, 3, 2, 480, 465}
	if len(ann) != len(want) {
		t.Fatalf("annotation size = %d; want %d", len(ann), len(want))
	}
	for i := range want {
		if ann[i] != want[i] {
			t.Errorf("annotation[%d] = %d; want %d", i, ann[i], want[i])
		}
	}

	// Untouched sides stay put.
	if alice.Rating(ladder.Free) != 480 || bob.Rating(ladder.Shadow) != 500 {
		t.Error("ratings moved on sides that did not play")
	}
}

// The adjustment is zero-sum: the winner gains exactly what the loser
// loses.
func TestProcessPairZeroSum(t *testing.T) {
	proc := newTestProcessor(t)
	led := NewLedger()
	loadPlayer(t, led, "Alice", 700, 500, 0)
	loadPlayer(t, led, "Bob", 500, 450, 0)

	before := 700 + 450
	if _, err := proc.ProcessPair(led, "Alice", "Bob", ladder.Shadow); err != nil {
		t.Fatal(err)
	}
	alice, _ := led.Lookup("Alice")
	bob, _ := led.Lookup("Bob")
	after := alice.Rating(ladder.Shadow) + bob.Rating(ladder.Free)
	if before != after {
		t.Errorf("rating sum changed: %d -> %d", before, after)
	}
}

func TestProcessPairAutoCreates(t *testing.T) {
	proc := newTestProcessor(t)
	led := NewLedger()
	loadPlayer(t, led, "Alice", 520, 480, 3)

	// Carol's first ladder game: she joins at 500/500 before the delta
	// is computed, as the underdog against Alice's 520.
	ann, err := proc.ProcessPair(led, "Carol", "Alice", ladder.Free)
	if err != nil {
		t.Fatalf("ProcessPair: %v", err)
	}

	carol, ok := led.Lookup("Carol")
	if !ok {
		t.Fatal("Carol was not created")
	}
	// Gap 20 pays 16 either way.
	if got := carol.Rating(ladder.Free); got != 516 {
		t.Errorf("Carol Free = %d; want 516", got)
	}
	if carol.GamesPlayed() != 1 {
		t.Errorf("Carol games = %d; want 1", carol.GamesPlayed())
	}
	if ann[0] != 0 || ann[2] != 500 {
		t.Errorf("annotation shows games %d rating %d before; want 0 and 500", ann[0], ann[2])
	}
}

func TestProcessPairRejectsSelf(t *testing.T) {
	proc := newTestProcessor(t)
	led := NewLedger()
	if _, err := proc.ProcessPair(led, "Alice", " alice ", ladder.Shadow); err == nil {
		t.Fatal("processed a player against themselves")
	}
}

func TestProcessTeam(t *testing.T) {
	proc := newTestProcessor(t)
	led := NewLedger()
	loadPlayer(t, led, "Dave", 520, 500, 2)
	loadPlayer(t, led, "Eve", 480, 500, 2)
	loadPlayer(t, led, "Frank", 500, 510, 2)
	loadPlayer(t, led, "Grace", 500, 490, 2)

	// Shadow side (Dave 520, Eve 480: mean 500) beats Free side
	// (Frank 510, Grace 490: mean 500): zero gap pays 16 per slot.
	ann, err := proc.ProcessTeam(led, [2]string{"Dave", "Eve"}, [2]string{"Frank", "Grace"}, ladder.Shadow)
	if err != nil {
		t.Fatalf("ProcessTeam: %v", err)
	}

	dave, _ := led.Lookup("Dave")
	eve, _ := led.Lookup("Eve")
	frank, _ := led.Lookup("Frank")
	grace, _ := led.Lookup("Grace")
	if dave.Rating(ladder.Shadow) != 536 || eve.Rating(ladder.Shadow) != 496 {
		t.Errorf("winner Shadow ratings = %d/%d; want 536/496",
			dave.Rating(ladder.Shadow), eve.Rating(ladder.Shadow))
	}
	if frank.Rating(ladder.Free) != 494 || grace.Rating(ladder.Free) != 474 {
		t.Errorf("loser Free ratings = %d/%d; want 494/474",
			frank.Rating(ladder.Free), grace.Rating(ladder.Free))
	}
	for _, p := range []*ladder.Player{dave, eve, frank, grace} {
		if p.GamesPlayed() != 3 {
			t.Errorf("%s games = %d; want 3", p.Name(), p.GamesPlayed())
		}
	}
	if len(ann) != 16 {
		t.Fatalf("annotation size = %d; want 16", len(ann))
	}
	if ann[2] != 520 || ann[3] != 536 {
		t.Errorf("Dave slot annotation = %d -> %d; want 520 -> 536", ann[2], ann[3])
	}
}

// One person holding both slots of a side takes the delta once per slot
// but only one games-played increment.
func TestProcessTeamDoubleRole(t *testing.T) {
	proc := newTestProcessor(t)
	led := NewLedger()

	ann, err := proc.ProcessTeam(led, [2]string{"Dave", "Dave"}, [2]string{"Eve", "Frank"}, ladder.Shadow)
	if err != nil {
		t.Fatalf("ProcessTeam: %v", err)
	}

	dave, _ := led.Lookup("Dave")
	if got := dave.Rating(ladder.Shadow); got != 532 {
		t.Errorf("Dave Shadow = %d; want 532 (two slots at 16 each)", got)
	}
	if got := dave.GamesPlayed(); got != 1 {
		t.Errorf("Dave games = %d; want 1", got)
	}
	eve, _ := led.Lookup("Eve")
	frank, _ := led.Lookup("Frank")
	if eve.Rating(ladder.Free) != 484 || frank.Rating(ladder.Free) != 484 {
		t.Errorf("loser Free ratings = %d/%d; want 484/484",
			eve.Rating(ladder.Free), frank.Rating(ladder.Free))
	}

	// Both of Dave's slots report the shared pre-game rating and the
	// final rating.
	if ann[2] != 500 || ann[3] != 532 || ann[6] != 500 || ann[7] != 532 {
		t.Errorf("double-role slots = %d->%d, %d->%d; want 500->532 twice",
			ann[2], ann[3], ann[6], ann[7])
	}
}

func TestProcessTeamRejectsCrossSide(t *testing.T) {
	proc := newTestProcessor(t)
	led := NewLedger()
	if _, err := proc.ProcessTeam(led, [2]string{"Dave", "Eve"}, [2]string{"Eve", "Frank"}, ladder.Shadow); err == nil {
		t.Fatal("processed a player on both sides")
	}
}
