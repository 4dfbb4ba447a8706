// Package ordering implements dense 1-based position arithmetic over a sibling group.
//
// A group is the set of items sharing a parent key: hero images on one page, all
// categories, the albums of one category, or the images of one album. Every function
// here is pure. Inputs are never mutated and outputs are fresh slices.
package ordering

import (
	"fmt"
	"sort"

	"github.com/desertthunder/vowfolio/internal/shared"
)

// Item is the ordering view of any positioned entity.
type Item struct {
	ID       string
	Parent   string
	Position int
}

// Reorder moves movedID to newPosition and shifts the siblings in between by one.
//
// Moving later decrements every item in (old, new]; moving earlier increments every item
// in [new, old). When the position is unchanged the group is returned as is. Output keeps
// the input order; use [Sorted] for display order.
func Reorder(group []Item, movedID string, newPosition int) ([]Item, error) {
	idx := indexOf(group, movedID)
	if idx < 0 {
		return nil, &shared.NotFoundError{ID: movedID}
	}
	if newPosition < 1 || newPosition > len(group) {
		return nil, &shared.InvalidPositionError{Position: newPosition, Size: len(group)}
	}

	out := clone(group)
	old := out[idx].Position
	if old == newPosition {
		return out, nil
	}

	for i := range out {
		switch {
		case i == idx:
			out[i].Position = newPosition
		case old < newPosition && out[i].Position > old && out[i].Position <= newPosition:
			out[i].Position--
		case old > newPosition && out[i].Position >= newPosition && out[i].Position < old:
			out[i].Position++
		}
	}
	return out, nil
}

// Compact removes removedID, if present, and renumbers the rest 1..N keeping their relative order.
func Compact(group []Item, removedID string) []Item {
	out := make([]Item, 0, len(group))
	for _, it := range group {
		if it.ID != removedID {
			out = append(out, it)
		}
	}
	return Renumber(out)
}

// Renumber assigns positions 1..N in current position order. Ties keep input order.
func Renumber(group []Item) []Item {
	out := Sorted(group)
	for i := range out {
		out[i].Position = i + 1
	}
	return out
}

// Append returns the position a new item takes at the end of the group.
func Append(group []Item) int {
	return len(group) + 1
}

// Sorted returns a copy of group in ascending position order. The sort is stable.
func Sorted(group []Item) []Item {
	out := clone(group)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	return out
}

// Validate reports whether positions are exactly 1..N with no gaps or duplicates.
func Validate(group []Item) error {
	seen := make([]bool, len(group)+1)
	for _, it := range group {
		if it.Position < 1 || it.Position > len(group) {
			return fmt.Errorf("%w: %s has position %d in a group of %d", shared.ErrNotDense, it.ID, it.Position, len(group))
		}
		if seen[it.Position] {
			return fmt.Errorf("%w: duplicate position %d", shared.ErrNotDense, it.Position)
		}
		seen[it.Position] = true
	}
	return nil
}

// Changed lists the items of after whose position differs from before, in position order.
//
// Items missing from before count as changed.
func Changed(before, after []Item) []Item {
	prev := make(map[string]int, len(before))
	for _, it := range before {
		prev[it.ID] = it.Position
	}

	var out []Item
	for _, it := range Sorted(after) {
		if p, ok := prev[it.ID]; !ok || p != it.Position {
			out = append(out, it)
		}
	}
	return out
}

// Positions maps id to position.
func Positions(group []Item) map[string]int {
	m := make(map[string]int, len(group))
	for _, it := range group {
		m[it.ID] = it.Position
	}
	return m
}

// GroupByParent splits items into sibling groups.
func GroupByParent(items []Item) map[string][]Item {
	groups := make(map[string][]Item)
	for _, it := range items {
		groups[it.Parent] = append(groups[it.Parent], it)
	}
	return groups
}

func indexOf(group []Item, id string) int {
	for i, it := range group {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func clone(group []Item) []Item {
	out := make([]Item, len(group))
	copy(out, group)
	return out
}
