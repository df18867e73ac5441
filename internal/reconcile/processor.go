package reconcile

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/morthond/wotr-ladder/internal/ladder"
	"github.com/morthond/wotr-ladder/internal/rating"
)

// Processor applies one report's rating adjustment to the ledger and
// assembles the audit annotation.
type Processor struct {
	engine *rating.Engine
	log    *logrus.Entry
}

// NewProcessor returns a processor backed by the given rating engine.
func NewProcessor(engine *rating.Engine, log *logrus.Entry) *Processor {
	return &Processor{engine: engine, log: log}
}

func other(s ladder.Side) ladder.Side {
	if s == ladder.Shadow {
		return ladder.Free
	}
	return ladder.Shadow
}

// ProcessPair applies a head-to-head result. Unseen players enter the
// ladder automatically on their first game. The returned annotation holds
// games/rank/rating-before/rating-after for the winner, then the loser.
func (p *Processor) ProcessPair(led *Ledger, winner, loser string, winnerSide ladder.Side) (Annotation, error) {
	loserSide := other(winnerSide)

	w, created := led.GetOrAdd(winner)
	if created {
		p.log.WithField("player", w.Name()).Info("New player joins the ladder")
	}
	l, created := led.GetOrAdd(loser)
	if created {
		p.log.WithField("player", l.Name()).Info("New player joins the ladder")
	}
	if w == l {
		return nil, fmt.Errorf("winner and loser are both %q", w.Name())
	}

	wGames, wRank, wBefore := w.GamesPlayed(), led.Rank(winner), w.Rating(winnerSide)
	lGames, lRank, lBefore := l.GamesPlayed(), led.Rank(loser), l.Rating(loserSide)

	delta := p.engine.Delta(wBefore, lBefore)

	led.Update(winner, func(e *ladder.Player) { e.SetRating(winnerSide, wBefore+delta) })
	led.Update(loser, func(e *ladder.Player) { e.SetRating(loserSide, lBefore-delta) })
	w.AddGame()
	l.AddGame()

	p.log.WithFields(logrus.Fields{
		"winner": w.Name(),
		"loser":  l.Name(),
		"side":   winnerSide.String(),
		"delta":  delta,
	}).Debug("Processed report")

	return Annotation{
		wGames, wRank, wBefore, wBefore + delta,
		lGames, lRank, lBefore, lBefore - delta,
	}, nil
}

// ProcessTeam applies a team result with two role slots per side. The
// side rating is the mean of its slot ratings and one delta covers the
// game. A player occupying both slots of a side takes the delta once per
// slot but a single games-played increment; the annotation then shows the
// shared pre-game rating and the final rating for both slots.
func (p *Processor) ProcessTeam(led *Ledger, winners, losers [2]string, winnerSide ladder.Side) (Annotation, error) {
	loserSide := other(winnerSide)

	slots := make([]*ladder.Player, 0, 4)
	for _, name := range []string{winners[0], winners[1], losers[0], losers[1]} {
		e, created := led.GetOrAdd(name)
		if created {
			p.log.WithField("player", e.Name()).Info("New player joins the ladder")
		}
		slots = append(slots, e)
	}
	for _, w := range slots[:2] {
		for _, l := range slots[2:] {
			if w == l {
				return nil, fmt.Errorf("%q appears on both sides", w.Name())
			}
		}
	}

	type snapshot struct {
		games, rank, before int
	}
	sides := []ladder.Side{winnerSide, winnerSide, loserSide, loserSide}
	pre := make([]snapshot, 4)
	for i, e := range slots {
		pre[i] = snapshot{e.GamesPlayed(), led.Rank(e.Name()), e.Rating(sides[i])}
	}

	winRating := (pre[0].before + pre[1].before) / 2
	loseRating := (pre[2].before + pre[3].before) / 2
	delta := p.engine.Delta(winRating, loseRating)

	for i, e := range slots {
		d := delta
		if i >= 2 {
			d = -delta
		}
		side := sides[i]
		led.Update(e.Name(), func(e *ladder.Player) { e.SetRating(side, e.Rating(side)+d) })
	}
	for _, e := range dedupe(slots) {
		e.AddGame()
	}

	p.log.WithFields(logrus.Fields{
		"winners": []string{slots[0].Name(), slots[1].Name()},
		"losers":  []string{slots[2].Name(), slots[3].Name()},
		"side":    winnerSide.String(),
		"delta":   delta,
	}).Debug("Processed team report")

	ann := make(Annotation, 0, 16)
	for i, e := range slots {
		ann = append(ann, pre[i].games, pre[i].rank, pre[i].before, e.Rating(sides[i]))
	}
	return ann, nil
}

func dedupe(slots []*ladder.Player) []*ladder.Player {
	seen := make(map[*ladder.Player]bool, len(slots))
	out := slots[:0:0]
	for _, e := range slots {
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	return out
}
