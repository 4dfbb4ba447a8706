package store

import (
	"sort"

	"github.com/desertthunder/vowfolio/internal/models"
	"github.com/desertthunder/vowfolio/internal/ordering"
	"github.com/desertthunder/vowfolio/internal/shared"
)

// accessor adapts one entity type to the ordering engine.
type accessor[T any] struct {
	kind   models.Kind
	id     func(*T) *string
	parent func(*T) string
	order  func(*T) *int
}

var (
	heroes = accessor[models.HeroImage]{
		kind:   models.KindHeroImage,
		id:     func(h *models.HeroImage) *string { return &h.ID },
		parent: func(h *models.HeroImage) string { return h.Page },
		order:  func(h *models.HeroImage) *int { return &h.Order },
	}
	categories = accessor[models.Category]{
		kind:   models.KindCategory,
		id:     func(c *models.Category) *string { return &c.ID },
		parent: func(*models.Category) string { return "" },
		order:  func(c *models.Category) *int { return &c.Order },
	}
	albums = accessor[models.Album]{
		kind:   models.KindAlbum,
		id:     func(a *models.Album) *string { return &a.ID },
		parent: func(a *models.Album) string { return a.CategoryID },
		order:  func(a *models.Album) *int { return &a.Order },
	}
	images = accessor[models.Image]{
		kind:   models.KindImage,
		id:     func(i *models.Image) *string { return &i.ID },
		parent: func(i *models.Image) string { return i.AlbumID },
		order:  func(i *models.Image) *int { return &i.Order },
	}
)

func (a accessor[T]) find(list []T, id string) int {
	for i := range list {
		if *a.id(&list[i]) == id {
			return i
		}
	}
	return -1
}

func (a accessor[T]) notFound(id string) error {
	return &shared.NotFoundError{Kind: a.kind.String(), ID: id}
}

// group returns the ordering view of one sibling group.
func (a accessor[T]) group(list []T, parent string) []ordering.Item {
	var out []ordering.Item
	for i := range list {
		if a.parent(&list[i]) == parent {
			out = append(out, ordering.Item{ID: *a.id(&list[i]), Parent: parent, Position: *a.order(&list[i])})
		}
	}
	return out
}

// parents lists every distinct parent key in first-seen order.
func (a accessor[T]) parents(list []T) []string {
	seen := make(map[string]bool)
	var out []string
	for i := range list {
		p := a.parent(&list[i])
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// apply writes positions from items back onto list, matching by id.
func (a accessor[T]) apply(list []T, items []ordering.Item) {
	pos := ordering.Positions(items)
	for i := range list {
		if p, ok := pos[*a.id(&list[i])]; ok {
			*a.order(&list[i]) = p
		}
	}
}

// reorder moves id within its group and returns the items whose position changed.
func (a accessor[T]) reorder(list []T, id string, position int) ([]ordering.Item, error) {
	idx := a.find(list, id)
	if idx < 0 {
		return nil, a.notFound(id)
	}

	before := a.group(list, a.parent(&list[idx]))
	after, err := ordering.Reorder(before, id, position)
	if err != nil {
		return nil, err
	}
	a.apply(list, after)
	return ordering.Changed(before, after), nil
}

// appendTo adds v at the end of its group.
func (a accessor[T]) appendTo(list []T, v T) ([]T, T) {
	*a.order(&v) = ordering.Append(a.group(list, a.parent(&v)))
	return append(list, v), v
}

// remove drops id from list and closes the gap in its group.
func (a accessor[T]) remove(list []T, id string) ([]T, []ordering.Item, error) {
	idx := a.find(list, id)
	if idx < 0 {
		return nil, nil, a.notFound(id)
	}

	parent := a.parent(&list[idx])
	out := make([]T, 0, len(list)-1)
	out = append(out, list[:idx]...)
	out = append(out, list[idx+1:]...)
	return out, a.compact(out, parent), nil
}

// compact renumbers one group densely and returns the items whose position changed.
func (a accessor[T]) compact(list []T, parent string) []ordering.Item {
	before := a.group(list, parent)
	after := ordering.Renumber(before)
	a.apply(list, after)
	return ordering.Changed(before, after)
}

// filter keeps the entries for which keep returns true.
func (a accessor[T]) filter(list []T, keep func(*T) bool) []T {
	out := make([]T, 0, len(list))
	for i := range list {
		if keep(&list[i]) {
			out = append(out, list[i])
		}
	}
	return out
}

// sorted returns the members of one group in position order.
func (a accessor[T]) sorted(list []T, parent string) []T {
	var out []T
	for i := range list {
		if a.parent(&list[i]) == parent {
			out = append(out, list[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return *a.order(&out[i]) < *a.order(&out[j])
	})
	return out
}

// validate checks density of every group.
func (a accessor[T]) validate(list []T) error {
	for _, p := range a.parents(list) {
		if err := ordering.Validate(a.group(list, p)); err != nil {
			return err
		}
	}
	return nil
}

// renumberAll makes every group dense, keeping relative order. Used for incoming data.
func (a accessor[T]) renumberAll(list []T) {
	for _, p := range a.parents(list) {
		a.compact(list, p)
	}
}

func (a accessor[T]) rekey(list []T, oldID, newID string) error {
	idx := a.find(list, oldID)
	if idx < 0 {
		return a.notFound(oldID)
	}
	*a.id(&list[idx]) = newID
	return nil
}
