// Package ladder holds the in-memory player ledger: one allocation per
// player shared by an insertion-ordered view and a rank-ordered view.
package ladder

import (
	"fmt"
	"sort"
	"strings"
)

// Entry is the capability set the ledger needs from a player record. Each
// game variant supplies its own entry shape through the factory passed to
// New.
type Entry interface {
	Name() string
	Average() float64
}

// Normalize derives the lookup key for a display name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Ladder owns the player set for one batch. The active slice preserves
// read/insertion order and is what gets written back to the store; ranked
// is re-sorted by descending average rating after every mutation so rank
// queries taken mid-processing always see a fresh ordering. Inactive
// entries round-trip through the store but never rank.
type Ladder[E Entry] struct {
	active   []E
	inactive []E
	ranked   []E
	byKey    map[string]E
	newEntry func(name string) E
	added    []E
}

// New returns an empty ladder whose unseen players are built by newEntry.
func New[E Entry](newEntry func(name string) E) *Ladder[E] {
	return &Ladder[E]{
		byKey:    make(map[string]E),
		newEntry: newEntry,
	}
}

// Load inserts an entry read from the store. Active entries join the
// ranked view; inactive ones only the insertion-ordered tail. Duplicate
// normalized names are rejected.
func (l *Ladder[E]) Load(e E, active bool) error {
	key := Normalize(e.Name())
	if _, dup := l.byKey[key]; dup {
		return fmt.Errorf("ladder: duplicate player %q", e.Name())
	}
	l.byKey[key] = e
	if active {
		l.active = append(l.active, e)
		l.ranked = append(l.ranked, e)
		l.Resort()
	} else {
		l.inactive = append(l.inactive, e)
	}
	return nil
}

// Lookup resolves a display name to its entry, across both the active and
// inactive segments.
func (l *Ladder[E]) Lookup(name string) (E, bool) {
	e, ok := l.byKey[Normalize(name)]
	return e, ok
}

// Rank returns the 1-based position of name within the ranked view, or 0
// for names that are unknown or inactive. 0 is deliberate: it keeps report
// processing total and shows up as "unranked" in audit annotations.
func (l *Ladder[E]) Rank(name string) int {
	key := Normalize(name)
	for i, e := range l.ranked {
		if Normalize(e.Name()) == key {
			return i + 1
		}
	}
	return 0
}

// Add creates a fresh entry for name, appends it to the end of the active
// segment and re-sorts the ranked view.
func (l *Ladder[E]) Add(name string) E {
	e := l.newEntry(strings.TrimSpace(name))
	l.byKey[Normalize(name)] = e
	l.active = append(l.active, e)
	l.ranked = append(l.ranked, e)
	l.added = append(l.added, e)
	l.Resort()
	return e
}

// GetOrAdd resolves name, creating the entry on first appearance. The
// second return reports whether a new entry was created, so callers can
// log ladder debuts.
func (l *Ladder[E]) GetOrAdd(name string) (E, bool) {
	if e, ok := l.Lookup(name); ok {
		return e, false
	}
	return l.Add(name), true
}

// Update mutates the entry for name and re-sorts the ranked view. Returns
// false if the name is unknown.
func (l *Ladder[E]) Update(name string, mutate func(E)) bool {
	e, ok := l.Lookup(name)
	if !ok {
		return false
	}
	mutate(e)
	l.Resort()
	return true
}

// Resort re-sorts the ranked view by descending average rating. The sort
// is stable, so equal averages keep their prior relative order.
func (l *Ladder[E]) Resort() {
	sort.SliceStable(l.ranked, func(i, j int) bool {
		return l.ranked[i].Average() > l.ranked[j].Average()
	})
}

// Active returns the active segment in insertion order.
func (l *Ladder[E]) Active() []E { return l.active }

// Inactive returns the retained inactive tail in read order.
func (l *Ladder[E]) Inactive() []E { return l.inactive }

// Ranked returns the rank-ordered active view.
func (l *Ladder[E]) Ranked() []E { return l.ranked }

// Added returns the entries created during this batch, in creation order.
func (l *Ladder[E]) Added() []E { return l.added }
