// Package collision tracks field names by their 64-bit hash.
//
// A Tracker maps names to entry positions. Names are keyed by xxHash64; when two
// different names share a hash the later one moves to an overflow map, so
// lookups stay exact.
package collision

import (
	"fmt"

	"github.com/arloliu/metapack/errs"
	"github.com/arloliu/metapack/internal/hash"
)

type slot struct {
	name string
	pos  int
}

// Tracker records the position of the first occurrence of each name.
type Tracker struct {
	slots        map[uint64]slot // Hash → first name with that hash
	overflow     map[string]int  // Names whose hash slot is held by another name
	hashFn       func(string) uint64
	count        int
	hasCollision bool
}

// NewTracker creates a tracker sized for capacity names.
func NewTracker(capacity int) *Tracker {
	return &Tracker{
		slots:  make(map[uint64]slot, capacity),
		hashFn: hash.Name,
	}
}

// Add records name at position pos.
//
// Returns false, without changing the tracker, if name was already added.
// The first position of a name always wins.
func (t *Tracker) Add(name string, pos int) bool {
	h := t.hashFn(name)

	s, exists := t.slots[h]
	if !exists {
		t.slots[h] = slot{name: name, pos: pos}
		t.count++

		return true
	}

	if s.name == name {
		return false
	}

	// Hash collision: different name, same hash
	t.hasCollision = true
	if t.overflow == nil {
		t.overflow = make(map[string]int)
	}
	if _, dup := t.overflow[name]; dup {
		return false
	}
	t.overflow[name] = pos
	t.count++

	return true
}

// Track records name at the next position.
//
// Returns errs.ErrDuplicateField if the name was already tracked.
func (t *Tracker) Track(name string) error {
	if !t.Add(name, t.count) {
		return fmt.Errorf("%w: %q", errs.ErrDuplicateField, name)
	}

	return nil
}

// Lookup returns the position recorded for name.
func (t *Tracker) Lookup(name string) (int, bool) {
	s, exists := t.slots[t.hashFn(name)]
	if !exists {
		return 0, false
	}
	if s.name == name {
		return s.pos, true
	}

	pos, ok := t.overflow[name]

	return pos, ok
}

// HasCollision reports whether two tracked names shared a hash.
func (t *Tracker) HasCollision() bool {
	return t.hasCollision
}

// Count returns the number of distinct names tracked.
func (t *Tracker) Count() int {
	return t.count
}

// Reset clears the tracker, keeping allocated capacity.
func (t *Tracker) Reset() {
	clear(t.slots)
	clear(t.overflow)
	t.count = 0
	t.hasCollision = false
}
