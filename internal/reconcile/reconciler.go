package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/morthond/wotr-ladder/internal/rating"
	"github.com/morthond/wotr-ladder/internal/schema"
	"github.com/morthond/wotr-ladder/internal/store"
)

// Reconciler merges one batch of pending reports into a game's ladder.
// Stages run strictly in order; a failure before the write-back stage
// leaves the store untouched. Batches are single-threaded: all mutation
// happens on an in-memory snapshot read at batch start.
type Reconciler struct {
	store     store.Store
	engine    *rating.Engine
	batchSize int
	log       *logrus.Logger
}

// Summary describes one completed batch for the audit log.
type Summary struct {
	BatchID    string        `json:"batchId"`
	Game       string        `json:"game"`
	Reports    int           `json:"reports"`
	Processed  int           `json:"processed"`
	NewPlayers []string      `json:"newPlayers,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// New returns a reconciler writing through st.
func New(st store.Store, engine *rating.Engine, batchSize int, log *logrus.Logger) *Reconciler {
	return &Reconciler{store: st, engine: engine, batchSize: batchSize, log: log}
}

// Run executes one batch for the given game. Zero pending reports is a
// no-op: nothing is read further and nothing is written.
func (r *Reconciler) Run(ctx context.Context, g Game) (*Summary, error) {
	started := time.Now()
	batchID := uuid.New().String()
	log := r.log.WithFields(logrus.Fields{"batch": batchID, "game": g.Name()})

	pending := g.Pending()

	// Acquire: clamp the batch to however many reports actually exist.
	total, err := r.store.RowCount(ctx, pending.Name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", pending.Name, err)
	}
	n := total - pending.HeaderRows
	if n <= 0 {
		log.Info("No pending reports")
		return &Summary{BatchID: batchID, Game: g.Name(), Duration: time.Since(started)}, nil
	}
	if n > r.batchSize {
		n = r.batchSize
	}

	reportRows, err := r.store.ReadRows(ctx, pending.Name, pending.HeaderRows, n)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", pending.Name, err)
	}
	ladderSheet := g.Ladder()
	ladderRows, err := r.store.ReadRows(ctx, ladderSheet.Name, ladderSheet.HeaderRows, -1)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", ladderSheet.Name, err)
	}

	// Decode: any validation failure aborts before any mutation.
	reports := make([]Report, len(reportRows))
	for i, row := range reportRows {
		rep, err := g.DecodeReport(pending.HeaderRows+i, row)
		if err != nil {
			return nil, err
		}
		reports[i] = rep
	}
	led, raws, err := r.loadLadder(g, ladderRows)
	if err != nil {
		return nil, err
	}

	// Process in read order, so an earlier report's rating change is
	// visible to a later one naming the same player.
	proc := NewProcessor(r.engine, log)
	annotations := make([]Annotation, len(reports))
	processed := 0
	for i, rep := range reports {
		if !rep.LadderEligible() {
			continue
		}
		ann, err := rep.Process(proc, led)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", pending.Name, pending.HeaderRows+i, err)
		}
		annotations[i] = ann
		processed++
	}

	// Partition by has-stats, preserving relative order.
	var statsRows, noStatsRows []schema.Row
	for i, rep := range reports {
		row := rep.HistoryRow(annotations[i])
		if rep.HasStats() {
			statsRows = append(statsRows, row)
		} else {
			noStatsRows = append(noStatsRows, row)
		}
	}

	// Write-back. A crash between these steps leaves the store partially
	// updated; pending rows are retired last so an interrupted batch loses
	// reports rather than double-applying them on retry.
	if err := r.appendHistory(ctx, g, g.History(), statsRows); err != nil {
		return nil, err
	}
	if err := r.appendHistory(ctx, g, g.NoStats(), noStatsRows); err != nil {
		return nil, err
	}
	if err := r.writeLadder(ctx, g, led, raws); err != nil {
		return nil, err
	}
	if err := r.store.DeleteRows(ctx, pending.Name, pending.HeaderRows, n); err != nil {
		return nil, fmt.Errorf("retiring %s rows: %w", pending.Name, err)
	}

	summary := &Summary{
		BatchID:   batchID,
		Game:      g.Name(),
		Reports:   n,
		Processed: processed,
		Duration:  time.Since(started),
	}
	for _, e := range led.Added() {
		summary.NewPlayers = append(summary.NewPlayers, e.Name())
	}
	log.WithFields(logrus.Fields{
		"reports":    summary.Reports,
		"processed":  summary.Processed,
		"newPlayers": len(summary.NewPlayers),
		"duration":   summary.Duration,
	}).Info("Batch complete")
	return summary, nil
}

// ladderRaws keeps the raw rows each ledger entry was read from, so
// opaque store cells round-trip on write-back.
type ladderRaws struct {
	active   []schema.Row
	divider  schema.Row
	inactive []schema.Row
}

func (r *Reconciler) loadLadder(g Game, rows []schema.Row) (*Ledger, *ladderRaws, error) {
	led := NewLedger()
	raws := &ladderRaws{}
	headerRows := g.Ladder().HeaderRows

	seenDivider := false
	for i, row := range rows {
		entry, divider, err := g.DecodeLadderRow(headerRows+i, row)
		if err != nil {
			return nil, nil, err
		}
		if divider {
			if seenDivider {
				return nil, nil, fmt.Errorf("%s row %d: second inactive-players divider", g.Ladder().Name, headerRows+i)
			}
			seenDivider = true
			raws.divider = row
			continue
		}
		if err := led.Load(entry, !seenDivider); err != nil {
			return nil, nil, fmt.Errorf("%s row %d: %w", g.Ladder().Name, headerRows+i, err)
		}
		if seenDivider {
			raws.inactive = append(raws.inactive, row)
		} else {
			raws.active = append(raws.active, row)
		}
	}
	return led, raws, nil
}

// appendHistory inserts rows at the top of a history sheet and re-sorts
// it most-recent-first by timestamp.
func (r *Reconciler) appendHistory(ctx context.Context, g Game, sheet SheetSpec, rows []schema.Row) error {
	if len(rows) == 0 {
		return nil
	}
	if err := r.store.InsertRows(ctx, sheet.Name, sheet.HeaderRows, rows); err != nil {
		return fmt.Errorf("writing %s: %w", sheet.Name, err)
	}
	total, err := r.store.RowCount(ctx, sheet.Name)
	if err != nil {
		return fmt.Errorf("writing %s: %w", sheet.Name, err)
	}
	if err := r.store.SortRange(ctx, sheet.Name, sheet.HeaderRows, total-sheet.HeaderRows, g.TimestampCol(), true); err != nil {
		return fmt.Errorf("sorting %s: %w", sheet.Name, err)
	}
	return nil
}

// writeLadder writes every entry back in original order (new players at
// the end of the active segment), restores the divider and inactive tail,
// then re-sorts the stored active range to mirror the in-memory ranking.
func (r *Reconciler) writeLadder(ctx context.Context, g Game, led *Ledger, raws *ladderRaws) error {
	sheet := g.Ladder()

	var rows []schema.Row
	for i, e := range led.Active() {
		if i < len(raws.active) {
			rows = append(rows, g.UpdateLadderRow(raws.active[i], e))
		} else {
			rows = append(rows, g.NewLadderRow(e))
		}
	}
	activeLen := len(rows)
	if raws.divider != nil {
		rows = append(rows, raws.divider)
		for i, e := range led.Inactive() {
			rows = append(rows, g.UpdateLadderRow(raws.inactive[i], e))
		}
	}

	if err := r.store.WriteRows(ctx, sheet.Name, sheet.HeaderRows, rows); err != nil {
		return fmt.Errorf("writing %s: %w", sheet.Name, err)
	}
	if err := r.store.SortRange(ctx, sheet.Name, sheet.HeaderRows, activeLen, g.LadderSortCol(), true); err != nil {
		return fmt.Errorf("sorting %s: %w", sheet.Name, err)
	}
	return nil
}
