package tasks

import (
	"context"
	"errors"

	"github.com/desertthunder/vowfolio/internal/models"
	"github.com/desertthunder/vowfolio/internal/ordering"
)

func heroGroup(page string) group { return group{kind: models.KindHeroImage, parent: page} }

// persistPages writes the current local state of each page to the hero repository.
//
// The pages are captured when the job is built so the written rows match the commit the
// job belongs to, not whatever the store holds when the job runs.
func (a *SyncAdapter) persistPages(op Op, id string, pages ...string) job {
	snapshots := make(map[string][]models.HeroImage, len(pages))
	refresh := make([]group, 0, len(pages))
	for _, page := range pages {
		if _, seen := snapshots[page]; seen {
			continue
		}
		snapshots[page] = a.store.HeroImages(page)
		refresh = append(refresh, heroGroup(page))
	}

	return job{
		op:   op,
		kind: models.KindHeroImage,
		id:   id,
		run: func(ctx context.Context) error {
			var errs []error
			for _, g := range refresh {
				errs = append(errs, a.heroes.ReplacePage(g.parent, snapshots[g.parent]))
			}
			return errors.Join(errs...)
		},
		refresh: refresh,
	}
}

// AddHeroImage appends h to its page and persists the page.
func (a *SyncAdapter) AddHeroImage(h models.HeroImage) (models.HeroImage, error) {
	out, err := a.store.AddHeroImage(h)
	if err != nil {
		return models.HeroImage{}, err
	}
	a.enqueue(heroGroup(out.Page), a.persistPages(OpCreate, out.ID, out.Page))
	return out, nil
}

// UpdateHeroImage applies p. A page change persists both the old and the new page.
func (a *SyncAdapter) UpdateHeroImage(id string, p models.HeroImagePatch) (models.HeroImage, error) {
	before, err := a.store.HeroImage(id)
	if err != nil {
		return models.HeroImage{}, err
	}
	out, _, err := a.store.UpdateHeroImage(id, p)
	if err != nil {
		return models.HeroImage{}, err
	}
	a.enqueueAcross(a.persistPages(OpUpdate, id, before.Page, out.Page), heroGroup(before.Page), heroGroup(out.Page))
	return out, nil
}

// DeleteHeroImage removes a hero image and persists its renumbered page.
func (a *SyncAdapter) DeleteHeroImage(id string) ([]ordering.Item, error) {
	before, err := a.store.HeroImage(id)
	if err != nil {
		return nil, err
	}
	changed, err := a.store.DeleteHeroImage(id)
	if err != nil {
		return nil, err
	}
	a.enqueue(heroGroup(before.Page), a.persistPages(OpDelete, id, before.Page))
	return changed, nil
}

// MoveHeroImage moves a hero image within its page.
func (a *SyncAdapter) MoveHeroImage(id string, position int) ([]ordering.Item, error) {
	h, err := a.store.HeroImage(id)
	if err != nil {
		return nil, err
	}
	changed, err := a.store.ReorderHeroImage(id, position)
	if err != nil || len(changed) == 0 {
		return changed, err
	}
	a.enqueue(heroGroup(h.Page), a.persistPages(OpReorder, id, h.Page))
	return changed, nil
}
