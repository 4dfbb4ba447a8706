package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/vowfolio/internal/models"
	"github.com/desertthunder/vowfolio/internal/services"
	"github.com/desertthunder/vowfolio/internal/shared"
	"github.com/urfave/cli/v3"
)

// optional returns the flag value when it was given on the command line.
func optional(cmd *cli.Command, name string) *string {
	if !cmd.IsSet(name) {
		return nil
	}
	return models.String(cmd.String(name))
}

func requiredID(cmd *cli.Command) (string, error) {
	id := cmd.StringArg("id")
	if id == "" {
		return "", fmt.Errorf("%w: id", shared.ErrMissingArgument)
	}
	return id, nil
}

// mutate runs fn against a freshly loaded workspace, then waits for replication and prints notices.
func (r *Runner) mutate(ctx context.Context, fn func(ws *workspace) error) error {
	ws, err := r.open(ctx)
	if err != nil {
		return err
	}
	if err := fn(ws); err != nil {
		return err
	}
	if err := r.finish(ctx, ws); err != nil {
		return err
	}
	if r.mock {
		r.writePlain("(mock dataset: changes are not saved)\n")
	}
	return nil
}

// CategoriesList prints every category in position order.
func (r *Runner) CategoriesList(ctx context.Context, cmd *cli.Command) error {
	ws, err := r.open(ctx)
	if err != nil {
		return err
	}
	categories := ws.adapter.Store().Categories()

	if cmd.Bool("json") {
		return r.writeJSON(categories, true)
	}

	r.writePlain("Found %d categories:\n\n", len(categories))
	for _, c := range categories {
		r.writePlain("%d. %s\n", c.Order, c.Name)
		r.writePlain("   ID: %s\n", c.ID)
		r.writePlain("   Slug: %s\n", c.Slug)
		if c.Description != "" {
			r.writePlain("   Description: %s\n", c.Description)
		}
		r.writePlain("   Albums: %d\n\n", len(c.Albums))
	}
	return nil
}

// CategoriesAdd appends a category.
func (r *Runner) CategoriesAdd(ctx context.Context, cmd *cli.Command) error {
	return r.mutate(ctx, func(ws *workspace) error {
		c, err := ws.adapter.AddCategory(models.Category{
			Name:         cmd.String("name"),
			Slug:         cmd.String("slug"),
			Description:  cmd.String("description"),
			ThumbnailURL: cmd.String("thumbnail"),
		})
		if err != nil {
			return err
		}
		return r.writePlain("Added category %q at position %d\n", c.Name, c.Order)
	})
}

// CategoriesUpdate changes the fields given as flags.
func (r *Runner) CategoriesUpdate(ctx context.Context, cmd *cli.Command) error {
	id, err := requiredID(cmd)
	if err != nil {
		return err
	}
	return r.mutate(ctx, func(ws *workspace) error {
		c, err := ws.adapter.UpdateCategory(id, models.CategoryPatch{
			Name:         optional(cmd, "name"),
			Slug:         optional(cmd, "slug"),
			Description:  optional(cmd, "description"),
			ThumbnailURL: optional(cmd, "thumbnail"),
		})
		if err != nil {
			return err
		}
		return r.writePlain("Updated category %s (%s)\n", c.ID, c.Name)
	})
}

// CategoriesDelete deletes a category together with its albums and their images.
func (r *Runner) CategoriesDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := requiredID(cmd)
	if err != nil {
		return err
	}
	return r.mutate(ctx, func(ws *workspace) error {
		cascade, err := ws.adapter.DeleteCategory(id)
		if err != nil {
			return err
		}
		return r.writePlain("Deleted category %s with %d albums and %d images\n", id, len(cascade.Albums), len(cascade.Images))
	})
}

// CategoriesMove moves a category to --position.
func (r *Runner) CategoriesMove(ctx context.Context, cmd *cli.Command) error {
	id, err := requiredID(cmd)
	if err != nil {
		return err
	}
	return r.mutate(ctx, func(ws *workspace) error {
		changed, err := ws.adapter.MoveCategory(id, cmd.Int("position"))
		if err != nil {
			return err
		}
		r.writePlain("Moved category %s to position %d (%d renumbered)\n", id, cmd.Int("position"), len(changed))
		for _, c := range ws.adapter.Store().Categories() {
			r.writePlain("%d. %s\n", c.Order, c.Name)
		}
		return nil
	})
}

// AlbumsList prints the albums of one category, or of every category in category order.
func (r *Runner) AlbumsList(ctx context.Context, cmd *cli.Command) error {
	ws, err := r.open(ctx)
	if err != nil {
		return err
	}
	s := ws.adapter.Store()

	var categories []models.Category
	if id := cmd.String("category"); id != "" {
		c, err := s.Category(id)
		if err != nil {
			return err
		}
		categories = []models.Category{c}
	} else {
		categories = s.Categories()
	}

	if cmd.Bool("json") {
		var albums []models.Album
		for _, c := range categories {
			albums = append(albums, c.Albums...)
		}
		return r.writeJSON(albums, true)
	}

	for _, c := range categories {
		r.writePlain("%s (%d albums)\n", c.Name, len(c.Albums))
		for _, a := range c.Albums {
			r.writePlain("  %d. %s\n", a.Order, a.Name)
			r.writePlain("     ID: %s\n", a.ID)
			r.writePlain("     Images: %d\n", len(a.Images))
		}
		r.writePlain("\n")
	}
	return nil
}

// AlbumsAdd appends an album to a category.
func (r *Runner) AlbumsAdd(ctx context.Context, cmd *cli.Command) error {
	return r.mutate(ctx, func(ws *workspace) error {
		a, err := ws.adapter.AddAlbum(models.Album{
			CategoryID:   cmd.String("category"),
			Name:         cmd.String("name"),
			Slug:         cmd.String("slug"),
			Description:  cmd.String("description"),
			ThumbnailURL: cmd.String("cover"),
		})
		if err != nil {
			return err
		}
		return r.writePlain("Added album %q at position %d\n", a.Name, a.Order)
	})
}

// AlbumsUpdate changes the fields given as flags. A new category moves the album to its end.
func (r *Runner) AlbumsUpdate(ctx context.Context, cmd *cli.Command) error {
	id, err := requiredID(cmd)
	if err != nil {
		return err
	}
	return r.mutate(ctx, func(ws *workspace) error {
		a, err := ws.adapter.UpdateAlbum(id, models.AlbumPatch{
			Name:         optional(cmd, "name"),
			Slug:         optional(cmd, "slug"),
			Description:  optional(cmd, "description"),
			ThumbnailURL: optional(cmd, "cover"),
			CategoryID:   optional(cmd, "category"),
		})
		if err != nil {
			return err
		}
		return r.writePlain("Updated album %s (%s), position %d in category %s\n", a.ID, a.Name, a.Order, a.CategoryID)
	})
}

// AlbumsDelete deletes an album together with its images.
func (r *Runner) AlbumsDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := requiredID(cmd)
	if err != nil {
		return err
	}
	return r.mutate(ctx, func(ws *workspace) error {
		cascade, err := ws.adapter.DeleteAlbum(id)
		if err != nil {
			return err
		}
		return r.writePlain("Deleted album %s with %d images\n", id, len(cascade.Images))
	})
}

// AlbumsMove moves an album to --position within its category.
func (r *Runner) AlbumsMove(ctx context.Context, cmd *cli.Command) error {
	id, err := requiredID(cmd)
	if err != nil {
		return err
	}
	return r.mutate(ctx, func(ws *workspace) error {
		a, err := ws.adapter.Store().Album(id)
		if err != nil {
			return err
		}
		if _, err := ws.adapter.MoveAlbum(id, cmd.Int("position")); err != nil {
			return err
		}
		r.writePlain("Moved album %s to position %d\n", id, cmd.Int("position"))
		for _, sibling := range ws.adapter.Store().AlbumsByCategory(a.CategoryID) {
			r.writePlain("%d. %s\n", sibling.Order, sibling.Name)
		}
		return nil
	})
}

// ImagesList prints the images of an album.
func (r *Runner) ImagesList(ctx context.Context, cmd *cli.Command) error {
	ws, err := r.open(ctx)
	if err != nil {
		return err
	}
	s := ws.adapter.Store()

	album, err := s.Album(cmd.String("album"))
	if err != nil {
		return err
	}
	images := s.ImagesByAlbum(album.ID)

	if cmd.Bool("json") {
		return r.writeJSON(images, true)
	}

	r.writePlain("%s (%d images)\n\n", album.Name, len(images))
	for _, img := range images {
		r.writePlain("%d. %s\n", img.Order, img.Alt)
		r.writePlain("   ID: %s\n", img.ID)
		r.writePlain("   URL: %s\n", img.URL)
		if img.Width > 0 {
			r.writePlain("   Size: %dx%d\n", img.Width, img.Height)
		}
	}
	return nil
}

// ImagesUpload creates an image from a local file or an existing URL.
func (r *Runner) ImagesUpload(ctx context.Context, cmd *cli.Command) error {
	u := models.ImageUpload{
		AlbumID: cmd.String("album"),
		Alt:     cmd.String("alt"),
		URL:     cmd.String("url"),
	}
	if path := cmd.String("file"); path != "" {
		f, err := services.LoadUploadFile(path)
		if err != nil {
			return err
		}
		u.File = f
	}
	if err := u.Validate(); err != nil {
		return err
	}

	return r.mutate(ctx, func(ws *workspace) error {
		img, err := ws.adapter.UploadImage(ctx, u)
		if err != nil {
			return err
		}
		return r.writePlain("Uploaded image %s at position %d: %s\n", img.ID, img.Order, img.URL)
	})
}

// ImagesBulk uploads every file argument to one album.
func (r *Runner) ImagesBulk(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("%w: at least one file", shared.ErrMissingArgument)
	}

	files := make([]models.UploadFile, 0, len(paths))
	for _, path := range paths {
		f, err := services.LoadUploadFile(path)
		if err != nil {
			return err
		}
		files = append(files, *f)
	}

	return r.mutate(ctx, func(ws *workspace) error {
		images, err := ws.adapter.BulkUpload(ctx, cmd.String("album"), files)
		if err != nil {
			return err
		}
		r.writePlain("Uploaded %d images\n", len(images))
		for _, img := range images {
			r.writePlain("%d. %s %s\n", img.Order, img.ID, img.URL)
		}
		return nil
	})
}

// ImagesUpdate changes the fields given as flags. A new album moves the image to its end.
func (r *Runner) ImagesUpdate(ctx context.Context, cmd *cli.Command) error {
	id, err := requiredID(cmd)
	if err != nil {
		return err
	}
	return r.mutate(ctx, func(ws *workspace) error {
		img, err := ws.adapter.UpdateImage(id, models.ImagePatch{
			Alt:     optional(cmd, "alt"),
			URL:     optional(cmd, "url"),
			AlbumID: optional(cmd, "album"),
		})
		if err != nil {
			return err
		}
		return r.writePlain("Updated image %s, position %d in album %s\n", img.ID, img.Order, img.AlbumID)
	})
}

// ImagesDelete deletes an image.
func (r *Runner) ImagesDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := requiredID(cmd)
	if err != nil {
		return err
	}
	return r.mutate(ctx, func(ws *workspace) error {
		if _, err := ws.adapter.DeleteImage(id); err != nil {
			return err
		}
		return r.writePlain("Deleted image %s\n", id)
	})
}

// ImagesMove moves an image to --position within its album.
func (r *Runner) ImagesMove(ctx context.Context, cmd *cli.Command) error {
	id, err := requiredID(cmd)
	if err != nil {
		return err
	}
	return r.mutate(ctx, func(ws *workspace) error {
		if _, err := ws.adapter.MoveImage(id, cmd.Int("position")); err != nil {
			return err
		}
		return r.writePlain("Moved image %s to position %d\n", id, cmd.Int("position"))
	})
}

// HeroList prints hero images of one page, or of every page.
func (r *Runner) HeroList(ctx context.Context, cmd *cli.Command) error {
	ws, err := r.open(ctx)
	if err != nil {
		return err
	}
	s := ws.adapter.Store()

	pages := s.Pages()
	if page := cmd.String("page"); page != "" {
		pages = []string{page}
	}

	var heroes []models.HeroImage
	for _, page := range pages {
		heroes = append(heroes, s.HeroImages(page)...)
	}
	if cmd.Bool("json") {
		return r.writeJSON(heroes, true)
	}

	page := ""
	for _, h := range heroes {
		if h.Page != page {
			page = h.Page
			r.writePlain("%s\n", page)
		}
		r.writePlain("  %d. %s\n", h.Order, h.Alt)
		r.writePlain("     ID: %s\n", h.ID)
		r.writePlain("     URL: %s\n", h.URL)
	}
	return nil
}

// HeroAdd appends a hero image to a page.
func (r *Runner) HeroAdd(ctx context.Context, cmd *cli.Command) error {
	return r.mutate(ctx, func(ws *workspace) error {
		h, err := ws.adapter.AddHeroImage(models.HeroImage{
			URL:  cmd.String("url"),
			Alt:  cmd.String("alt"),
			Page: cmd.String("page"),
		})
		if err != nil {
			return err
		}
		return r.writePlain("Added hero image %s to %s at position %d\n", h.ID, h.Page, h.Order)
	})
}

// HeroUpdate changes the fields given as flags. A new page moves the image to its end.
func (r *Runner) HeroUpdate(ctx context.Context, cmd *cli.Command) error {
	id, err := requiredID(cmd)
	if err != nil {
		return err
	}
	return r.mutate(ctx, func(ws *workspace) error {
		h, err := ws.adapter.UpdateHeroImage(id, models.HeroImagePatch{
			URL:  optional(cmd, "url"),
			Alt:  optional(cmd, "alt"),
			Page: optional(cmd, "page"),
		})
		if err != nil {
			return err
		}
		return r.writePlain("Updated hero image %s, position %d on %s\n", h.ID, h.Order, h.Page)
	})
}

// HeroDelete deletes a hero image.
func (r *Runner) HeroDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := requiredID(cmd)
	if err != nil {
		return err
	}
	return r.mutate(ctx, func(ws *workspace) error {
		if _, err := ws.adapter.DeleteHeroImage(id); err != nil {
			return err
		}
		return r.writePlain("Deleted hero image %s\n", id)
	})
}

// HeroMove moves a hero image to --position within its page.
func (r *Runner) HeroMove(ctx context.Context, cmd *cli.Command) error {
	id, err := requiredID(cmd)
	if err != nil {
		return err
	}
	return r.mutate(ctx, func(ws *workspace) error {
		if _, err := ws.adapter.MoveHeroImage(id, cmd.Int("position")); err != nil {
			return err
		}
		return r.writePlain("Moved hero image %s to position %d\n", id, cmd.Int("position"))
	})
}
