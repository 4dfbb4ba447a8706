// Package gesture turns pointer samples over a rendered list into move intents.
//
// The tracker is headless: callers pass the on-screen boxes of the list items with every
// sample, and the tracker never touches the store. Intents use 1-based positions.
package gesture

import (
	"sync"
	"time"
)

// DefaultArmDelay is how long a drag is held before samples produce intents. It keeps a
// plain click from being read as a drag.
const DefaultArmDelay = 50 * time.Millisecond

// Point is a pointer position.
type Point struct {
	X, Y int
}

// Rect is an item's bounding box. Left and top edges are inclusive, right and bottom exclusive.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// DetectOverlap returns the index of the first box fully containing p.
func DetectOverlap(p Point, boxes []Rect) (int, bool) {
	for i, b := range boxes {
		if b.Contains(p) {
			return i, true
		}
	}
	return -1, false
}

// Intent asks for ID to move to Position.
type Intent struct {
	ID       string
	Position int
}

// Tracker follows one drag at a time.
type Tracker struct {
	mu       sync.Mutex
	armDelay time.Duration
	active   bool
	id       string
	index    int
	started  time.Time
}

// NewTracker creates a [Tracker]. A negative delay is treated as zero.
func NewTracker(armDelay time.Duration) *Tracker {
	if armDelay < 0 {
		armDelay = 0
	}
	return &Tracker{armDelay: armDelay}
}

// Start begins dragging id, currently shown at the zero-based index.
func (t *Tracker) Start(id string, index int, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = true
	t.id = id
	t.index = index
	t.started = at
}

// Move handles one pointer sample. It emits an intent when the pointer is over a box
// other than the one the dragged item currently occupies, then treats that box as the
// item's new index so repeated samples over it stay silent.
func (t *Tracker) Move(p Point, boxes []Rect, at time.Time) (Intent, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.active || at.Sub(t.started) < t.armDelay {
		return Intent{}, false
	}

	idx, ok := DetectOverlap(p, boxes)
	if !ok || idx == t.index {
		return Intent{}, false
	}

	t.index = idx
	return Intent{ID: t.id, Position: idx + 1}, true
}

// End stops the current drag. It never emits.
func (t *Tracker) End() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = false
	t.id = ""
	t.index = -1
}

// Dragging returns the id being dragged, if any.
func (t *Tracker) Dragging() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.id, t.active
}

// Armed reports whether the drag has been held long enough to emit intents.
func (t *Tracker) Armed(at time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active && at.Sub(t.started) >= t.armDelay
}
