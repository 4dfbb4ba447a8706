package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/vowfolio/internal/models"
	"github.com/desertthunder/vowfolio/internal/ordering"
	"github.com/desertthunder/vowfolio/internal/shared"
	"github.com/desertthunder/vowfolio/internal/store"
)

var categoryGroup = group{kind: models.KindCategory}

func albumGroup(categoryID string) group { return group{kind: models.KindAlbum, parent: categoryID} }
func imageGroup(albumID string) group    { return group{kind: models.KindImage, parent: albumID} }

// settleCreate records the outcome of a create job. On success the local id is swapped for
// the server id in the store before waiting jobs are released, and the child queue follows.
func (a *SyncAdapter) settleCreate(kind models.Kind, local, server string, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err == nil {
		if rerr := a.store.Rekey(kind, local, server); rerr != nil && !errors.Is(rerr, shared.ErrNotFound) {
			a.logger.Error("rekey failed", "kind", kind, "local", local, "server", server, "err", rerr)
		}
		switch kind {
		case models.KindCategory:
			a.queues.alias(albumGroup(local), albumGroup(server))
		case models.KindAlbum:
			a.queues.alias(imageGroup(local), imageGroup(server))
		}
	}
	a.ids.settle(local, server, err)
}

// replicateOrder sends the new position of every changed sibling, one request each.
func (a *SyncAdapter) replicateOrder(ctx context.Context, kind models.Kind, changed []ordering.Item) error {
	var errs []error
	for _, it := range changed {
		id, err := a.ids.resolve(ctx, it.ID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		parent, err := a.ids.resolve(ctx, it.Parent)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		err = a.call(ctx, func(ctx context.Context) error {
			switch kind {
			case models.KindCategory:
				return a.remote.ReorderCategory(ctx, id, it.Position)
			case models.KindAlbum:
				return a.remote.ReorderAlbum(ctx, id, parent, it.Position)
			case models.KindImage:
				return a.remote.ReorderImage(ctx, id, parent, it.Position)
			default:
				return fmt.Errorf("cannot reorder %s remotely", kind)
			}
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("%s -> %d: %w", it.ID, it.Position, err))
		}
	}
	return errors.Join(errs...)
}

// AddCategory appends c locally and creates it on the server.
func (a *SyncAdapter) AddCategory(c models.Category) (models.Category, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	local, err := a.store.AddCategory(c)
	if err != nil {
		return models.Category{}, err
	}

	if a.remote != nil {
		a.ids.reserve(local.ID)
	}
	a.enqueue(categoryGroup, job{
		op:   OpCreate,
		kind: models.KindCategory,
		id:   local.ID,
		run: func(ctx context.Context) error {
			var created models.Category
			err := a.call(ctx, func(ctx context.Context) (err error) {
				created, err = a.remote.CreateCategory(ctx, local)
				return err
			})
			a.settleCreate(models.KindCategory, local.ID, created.ID, err)
			return err
		},
		refresh: []group{categoryGroup},
	})
	return local, nil
}

// UpdateCategory applies p locally and on the server.
func (a *SyncAdapter) UpdateCategory(id string, p models.CategoryPatch) (models.Category, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	id = a.canonical(id)

	out, err := a.store.UpdateCategory(id, p)
	if err != nil {
		return models.Category{}, err
	}

	a.enqueue(categoryGroup, job{
		op:   OpUpdate,
		kind: models.KindCategory,
		id:   id,
		run: func(ctx context.Context) error {
			rid, err := a.ids.resolve(ctx, id)
			if err != nil {
				return err
			}
			return a.call(ctx, func(ctx context.Context) error {
				_, err := a.remote.UpdateCategory(ctx, rid, p)
				return err
			})
		},
		refresh: []group{categoryGroup},
	})
	return out, nil
}

// DeleteCategory removes a category with its albums and images. The server cascades on its
// own; the surviving siblings are renumbered remotely one by one.
func (a *SyncAdapter) DeleteCategory(id string) (store.Cascade, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	id = a.canonical(id)

	res, err := a.store.DeleteCategory(id)
	if err != nil {
		return store.Cascade{}, err
	}

	a.enqueue(categoryGroup, job{
		op:   OpDelete,
		kind: models.KindCategory,
		id:   id,
		run: func(ctx context.Context) error {
			rid, err := a.ids.resolve(ctx, id)
			if err != nil {
				return err
			}
			err = a.call(ctx, func(ctx context.Context) error { return a.remote.DeleteCategory(ctx, rid) })
			return errors.Join(err, a.replicateOrder(ctx, models.KindCategory, res.Changed))
		},
		refresh: []group{categoryGroup},
	})
	return res, nil
}

// MoveCategory moves a category to position (1-based). Moving to the current position is a no-op.
func (a *SyncAdapter) MoveCategory(id string, position int) ([]ordering.Item, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	id = a.canonical(id)

	changed, err := a.store.ReorderCategory(id, position)
	if err != nil || len(changed) == 0 {
		return changed, err
	}

	a.enqueue(categoryGroup, a.reorderJob(models.KindCategory, id, changed, categoryGroup))
	return changed, nil
}

func (a *SyncAdapter) reorderJob(kind models.Kind, id string, changed []ordering.Item, g group) job {
	return job{
		op:   OpReorder,
		kind: kind,
		id:   id,
		run: func(ctx context.Context) error {
			return a.replicateOrder(ctx, kind, changed)
		},
		refresh: []group{g},
	}
}

// AddAlbum appends an album to its category locally and creates it on the server.
func (a *SyncAdapter) AddAlbum(al models.Album) (models.Album, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	al.CategoryID = a.canonical(al.CategoryID)

	local, err := a.store.AddAlbum(al)
	if err != nil {
		return models.Album{}, err
	}

	if a.remote != nil {
		a.ids.reserve(local.ID)
	}
	a.enqueue(albumGroup(local.CategoryID), job{
		op:   OpCreate,
		kind: models.KindAlbum,
		id:   local.ID,
		run: func(ctx context.Context) error {
			categoryID, err := a.ids.resolve(ctx, local.CategoryID)
			if err != nil {
				a.settleCreate(models.KindAlbum, local.ID, "", err)
				return err
			}
			body := local
			body.CategoryID = categoryID

			var created models.Album
			err = a.call(ctx, func(ctx context.Context) (err error) {
				created, err = a.remote.CreateAlbum(ctx, body)
				return err
			})
			a.settleCreate(models.KindAlbum, local.ID, created.ID, err)
			return err
		},
		refresh: []group{albumGroup(local.CategoryID)},
	})
	return local, nil
}

// UpdateAlbum applies p locally and on the server. A new category moves the album to the end
// of that category and renumbers the category it left.
func (a *SyncAdapter) UpdateAlbum(id string, p models.AlbumPatch) (models.Album, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	id = a.canonical(id)

	if p.CategoryID != nil {
		p.CategoryID = models.String(a.canonical(*p.CategoryID))
	}
	before, err := a.store.Album(id)
	if err != nil {
		return models.Album{}, err
	}
	out, changed, err := a.store.UpdateAlbum(id, p)
	if err != nil {
		return models.Album{}, err
	}

	refresh := []group{albumGroup(before.CategoryID)}
	if out.CategoryID != before.CategoryID {
		refresh = append(refresh, albumGroup(out.CategoryID))
	}

	a.enqueueAcross(job{
		op:   OpUpdate,
		kind: models.KindAlbum,
		id:   id,
		run: func(ctx context.Context) error {
			rid, err := a.ids.resolve(ctx, id)
			if err != nil {
				return err
			}
			patch := p
			if p.CategoryID != nil {
				categoryID, err := a.ids.resolve(ctx, *p.CategoryID)
				if err != nil {
					return err
				}
				patch.CategoryID = &categoryID
			}
			err = a.call(ctx, func(ctx context.Context) error {
				_, err := a.remote.UpdateAlbum(ctx, rid, patch)
				return err
			})
			if err != nil {
				return err
			}
			return a.replicateOrder(ctx, models.KindAlbum, changed)
		},
		refresh: refresh,
	}, refresh...)
	return out, nil
}

// DeleteAlbum removes an album and its images.
func (a *SyncAdapter) DeleteAlbum(id string) (store.Cascade, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	id = a.canonical(id)

	before, err := a.store.Album(id)
	if err != nil {
		return store.Cascade{}, err
	}
	res, err := a.store.DeleteAlbum(id)
	if err != nil {
		return store.Cascade{}, err
	}

	a.enqueue(albumGroup(before.CategoryID), job{
		op:   OpDelete,
		kind: models.KindAlbum,
		id:   id,
		run: func(ctx context.Context) error {
			rid, err := a.ids.resolve(ctx, id)
			if err != nil {
				return err
			}
			err = a.call(ctx, func(ctx context.Context) error { return a.remote.DeleteAlbum(ctx, rid) })
			return errors.Join(err, a.replicateOrder(ctx, models.KindAlbum, res.Changed))
		},
		refresh: []group{albumGroup(before.CategoryID)},
	})
	return res, nil
}

// MoveAlbum moves an album within its category.
func (a *SyncAdapter) MoveAlbum(id string, position int) ([]ordering.Item, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	id = a.canonical(id)

	al, err := a.store.Album(id)
	if err != nil {
		return nil, err
	}
	changed, err := a.store.ReorderAlbum(id, position)
	if err != nil || len(changed) == 0 {
		return changed, err
	}

	g := albumGroup(al.CategoryID)
	a.enqueue(g, a.reorderJob(models.KindAlbum, id, changed, g))
	return changed, nil
}

// UploadImage creates an image from a file or URL. The server assigns the URL of uploaded
// files, so the image is added locally once the upload succeeds. Without a remote it is
// added directly.
func (a *SyncAdapter) UploadImage(ctx context.Context, u models.ImageUpload) (models.Image, error) {
	if err := u.Validate(); err != nil {
		return models.Image{}, err
	}
	a.mu.RLock()
	u.AlbumID = a.canonical(u.AlbumID)
	_, err := a.store.Album(u.AlbumID)
	a.mu.RUnlock()
	if err != nil {
		return models.Image{}, err
	}

	if a.remote == nil {
		img := models.Image{AlbumID: u.AlbumID, Alt: u.Alt, URL: u.URL}
		if u.File != nil {
			img.URL = "file://" + u.File.Name
			img.Width, img.Height = u.File.Width, u.File.Height
		}
		return a.store.AddImage(img)
	}

	images, err := a.upload(ctx, u.AlbumID, func(ctx context.Context, albumID string) ([]models.Image, error) {
		body := u
		body.AlbumID = albumID
		img, err := a.remote.UploadImage(ctx, body)
		if err != nil {
			return nil, err
		}
		return []models.Image{img}, nil
	})
	if err != nil {
		return models.Image{}, err
	}
	return images[0], nil
}

// BulkUpload uploads files to one album in a single request.
func (a *SyncAdapter) BulkUpload(ctx context.Context, albumID string, files []models.UploadFile) ([]models.Image, error) {
	if len(files) == 0 {
		return nil, &shared.ValidationError{Field: "images", Message: "no files selected"}
	}
	a.mu.RLock()
	albumID = a.canonical(albumID)
	_, err := a.store.Album(albumID)
	a.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	if a.remote == nil {
		out := make([]models.Image, 0, len(files))
		for _, f := range files {
			img, err := a.store.AddImage(models.Image{
				AlbumID: albumID,
				URL:     "file://" + f.Name,
				Width:   f.Width,
				Height:  f.Height,
			})
			if err != nil {
				return out, err
			}
			out = append(out, img)
		}
		return out, nil
	}

	return a.upload(ctx, albumID, func(ctx context.Context, rid string) ([]models.Image, error) {
		return a.remote.BulkUpload(ctx, rid, files)
	})
}

// upload runs send on the album's queue and waits for it, then adds the created images locally.
func (a *SyncAdapter) upload(
	ctx context.Context,
	albumID string,
	send func(ctx context.Context, albumID string) ([]models.Image, error),
) ([]models.Image, error) {
	type result struct {
		images []models.Image
		err    error
	}
	done := make(chan result, 1)

	a.queues.enqueue(job{
		op:    OpUpload,
		kind:  models.KindImage,
		id:    albumID,
		quiet: true,
		run: func(jctx context.Context) error {
			rid, err := a.ids.resolve(jctx, albumID)
			if err != nil {
				done <- result{err: err}
				return err
			}

			var created []models.Image
			err = a.call(jctx, func(jctx context.Context) (err error) {
				created, err = send(jctx, rid)
				return err
			})
			if err != nil {
				done <- result{err: err}
				return err
			}

			out := make([]models.Image, 0, len(created))
			for _, img := range created {
				img.AlbumID = rid
				added, err := a.store.AddImage(img)
				if err != nil {
					a.logger.Warn("uploaded image not added locally", "id", img.ID, "err", err)
					continue
				}
				out = append(out, added)
			}
			done <- result{images: out}
			a.sendNotice(successNotice(OpUpload, models.KindImage, rid))
			return nil
		},
		refresh: []group{imageGroup(albumID)},
	}, imageGroup(albumID))

	select {
	case r := <-done:
		return r.images, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// UpdateImage applies p locally and on the server. A new album moves the image to the end of
// it; the job then waits on the queues of both albums so later edits in either follow it.
func (a *SyncAdapter) UpdateImage(id string, p models.ImagePatch) (models.Image, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	id = a.canonical(id)

	if p.AlbumID != nil {
		p.AlbumID = models.String(a.canonical(*p.AlbumID))
	}
	before, err := a.store.Image(id)
	if err != nil {
		return models.Image{}, err
	}
	out, changed, err := a.store.UpdateImage(id, p)
	if err != nil {
		return models.Image{}, err
	}

	refresh := []group{imageGroup(before.AlbumID)}
	if out.AlbumID != before.AlbumID {
		refresh = append(refresh, imageGroup(out.AlbumID))
	}

	a.enqueueAcross(job{
		op:   OpUpdate,
		kind: models.KindImage,
		id:   id,
		run: func(ctx context.Context) error {
			rid, err := a.ids.resolve(ctx, id)
			if err != nil {
				return err
			}
			patch := p
			if p.AlbumID != nil {
				albumID, err := a.ids.resolve(ctx, *p.AlbumID)
				if err != nil {
					return err
				}
				patch.AlbumID = &albumID
			}
			err = a.call(ctx, func(ctx context.Context) error {
				_, err := a.remote.UpdateImage(ctx, rid, patch)
				return err
			})
			if err != nil {
				return err
			}
			return a.replicateOrder(ctx, models.KindImage, changed)
		},
		refresh: refresh,
	}, refresh...)
	return out, nil
}

// DeleteImage removes an image and closes the gap in its album.
func (a *SyncAdapter) DeleteImage(id string) ([]ordering.Item, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	id = a.canonical(id)

	before, err := a.store.Image(id)
	if err != nil {
		return nil, err
	}
	changed, err := a.store.DeleteImage(id)
	if err != nil {
		return nil, err
	}

	a.enqueue(imageGroup(before.AlbumID), job{
		op:   OpDelete,
		kind: models.KindImage,
		id:   id,
		run: func(ctx context.Context) error {
			rid, err := a.ids.resolve(ctx, id)
			if err != nil {
				return err
			}
			err = a.call(ctx, func(ctx context.Context) error { return a.remote.DeleteImage(ctx, rid) })
			return errors.Join(err, a.replicateOrder(ctx, models.KindImage, changed))
		},
		refresh: []group{imageGroup(before.AlbumID)},
	})
	return changed, nil
}

// MoveImage moves an image within its album.
func (a *SyncAdapter) MoveImage(id string, position int) ([]ordering.Item, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	id = a.canonical(id)

	img, err := a.store.Image(id)
	if err != nil {
		return nil, err
	}
	changed, err := a.store.ReorderImage(id, position)
	if err != nil || len(changed) == 0 {
		return changed, err
	}

	g := imageGroup(img.AlbumID)
	a.enqueue(g, a.reorderJob(models.KindImage, id, changed, g))
	return changed, nil
}
