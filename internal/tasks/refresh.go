package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/vowfolio/internal/models"
	"github.com/desertthunder/vowfolio/internal/shared"
	"github.com/desertthunder/vowfolio/internal/store"
	"golang.org/x/sync/errgroup"
)

// fetchConcurrency bounds the parallel album and image fetches of a full refresh.
const fetchConcurrency = 4

// Refresh replaces the local store with the server's categories, albums and images and the
// stored hero images.
//
// Without a remote only hero images are reloaded.
func (a *SyncAdapter) Refresh(ctx context.Context) error {
	heroes, err := a.loadHeroes()
	if err != nil {
		return err
	}

	if a.remote == nil {
		return a.replaceHeroes(heroes)
	}

	d, err := a.fetchDataset(ctx)
	if err != nil {
		return err
	}
	d.HeroImages = heroes

	if err := a.store.Load(d); err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}
	a.logger.Info("refreshed", "categories", len(d.Categories), "albums", len(d.Albums), "images", len(d.Images))
	return nil
}

// loadHeroes reads hero images from the repository, or keeps the store's when there is none.
func (a *SyncAdapter) loadHeroes() ([]models.HeroImage, error) {
	if a.heroes == nil {
		return a.store.Snapshot().HeroImages, nil
	}
	heroes, err := a.heroes.List()
	if err != nil {
		return nil, fmt.Errorf("failed to load hero images: %w", err)
	}
	return heroes, nil
}

func (a *SyncAdapter) replaceHeroes(heroes []models.HeroImage) error {
	byPage := make(map[string][]models.HeroImage)
	for _, page := range a.store.Pages() {
		byPage[page] = nil
	}
	for _, h := range heroes {
		byPage[h.Page] = append(byPage[h.Page], h)
	}
	for page, list := range byPage {
		if err := a.store.ReplaceHeroImages(page, list); err != nil {
			return err
		}
	}
	return nil
}

// fetchDataset reads the whole category tree, fetching albums per category and images per
// album in parallel.
func (a *SyncAdapter) fetchDataset(ctx context.Context) (store.Dataset, error) {
	var d store.Dataset

	if err := a.wait(ctx); err != nil {
		return d, err
	}
	cats, err := a.remote.ListCategories(ctx)
	if err != nil {
		return d, fmt.Errorf("failed to fetch categories: %w", err)
	}
	d.Categories = cats

	albumsByCategory := make([][]models.Album, len(cats))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, c := range cats {
		g.Go(func() error {
			if err := a.wait(gctx); err != nil {
				return err
			}
			list, err := a.remote.ListAlbums(gctx, c.ID)
			if err != nil {
				return fmt.Errorf("failed to fetch albums of %s: %w", c.ID, err)
			}
			albumsByCategory[i] = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return d, err
	}
	for i, list := range albumsByCategory {
		for _, al := range list {
			al.CategoryID = cats[i].ID
			d.Albums = append(d.Albums, al)
		}
	}

	imagesByAlbum := make([][]models.Image, len(d.Albums))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, al := range d.Albums {
		g.Go(func() error {
			if err := a.wait(gctx); err != nil {
				return err
			}
			list, err := a.remote.ListImages(gctx, al.ID)
			if err != nil {
				return fmt.Errorf("failed to fetch images of %s: %w", al.ID, err)
			}
			imagesByAlbum[i] = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return d, err
	}
	for i, list := range imagesByAlbum {
		for _, img := range list {
			img.AlbumID = d.Albums[i].ID
			d.Images = append(d.Images, img)
		}
	}

	return d, nil
}

// Reload refetches one sibling group and replaces it in the store, restoring the server's
// order exactly. parent is empty for categories.
func (a *SyncAdapter) Reload(ctx context.Context, kind models.Kind, parent string) error {
	return a.refetch(ctx, group{kind: kind, parent: parent})
}

func (a *SyncAdapter) refetch(ctx context.Context, g group) error {
	if g.kind == models.KindHeroImage {
		if a.heroes == nil {
			return nil
		}
		list, err := a.heroes.ListByPage(g.parent)
		if err != nil {
			return err
		}
		return a.store.ReplaceHeroImages(g.parent, list)
	}

	if a.remote == nil {
		return nil
	}

	// a parent whose create failed disappears with the refetch of its own group
	parent, ok := a.ids.lookup(g.parent)
	if !ok {
		return nil
	}

	if err := a.wait(ctx); err != nil {
		return err
	}

	var err error
	switch g.kind {
	case models.KindCategory:
		var list []models.Category
		if list, err = a.remote.ListCategories(ctx); err == nil {
			err = a.store.ReplaceCategories(list)
		}
	case models.KindAlbum:
		var list []models.Album
		if list, err = a.remote.ListAlbums(ctx, parent); err == nil {
			err = a.store.ReplaceAlbums(parent, list)
		}
	case models.KindImage:
		var list []models.Image
		if list, err = a.remote.ListImages(ctx, parent); err == nil {
			err = a.store.ReplaceImages(parent, list)
		}
	}

	// the parent was deleted locally in the meantime
	if errors.Is(err, shared.ErrNotFound) && !shared.IsRemote(err) {
		return nil
	}
	return err
}
