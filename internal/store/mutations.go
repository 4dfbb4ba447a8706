package store

import (
	"github.com/desertthunder/vowfolio/internal/models"
	"github.com/desertthunder/vowfolio/internal/ordering"
	"github.com/desertthunder/vowfolio/internal/shared"
)

// Cascade describes everything removed by a delete, plus the surviving siblings
// whose position changed when the gap was closed.
type Cascade struct {
	Albums  []string
	Images  []string
	Changed []ordering.Item
}

// AddHeroImage appends h to the end of its page. An empty ID is generated.
func (s *Store) AddHeroImage(h models.HeroImage) (models.HeroImage, error) {
	if err := h.Validate(); err != nil {
		return models.HeroImage{}, err
	}
	if h.ID == "" {
		h.ID = shared.GenerateID()
	}

	err := s.mutate("add hero image", func(st *state) error {
		if heroes.find(st.heroes, h.ID) >= 0 {
			return &shared.ValidationError{Field: "id", Message: "already exists"}
		}
		st.heroes, h = heroes.appendTo(st.heroes, h)
		return nil
	})
	return h, err
}

// UpdateHeroImage applies p. Changing the page moves the image to the end of the new page.
//
// The returned items are the siblings repositioned on the old page and, for a move,
// the image itself on its new page.
func (s *Store) UpdateHeroImage(id string, p models.HeroImagePatch) (models.HeroImage, []ordering.Item, error) {
	var (
		out     models.HeroImage
		changed []ordering.Item
	)
	err := s.mutate("update hero image", func(st *state) error {
		i := heroes.find(st.heroes, id)
		if i < 0 {
			return heroes.notFound(id)
		}

		h := st.heroes[i]
		if p.URL != nil {
			h.URL = *p.URL
		}
		if p.Alt != nil {
			h.Alt = *p.Alt
		}
		if p.Page != nil {
			h.Page = *p.Page
		}
		if err := h.Validate(); err != nil {
			return err
		}

		if h.Page == st.heroes[i].Page {
			st.heroes[i] = h
			out = h
			return nil
		}

		var err error
		st.heroes, changed, err = heroes.remove(st.heroes, id)
		if err != nil {
			return err
		}
		st.heroes, out = heroes.appendTo(st.heroes, h)
		changed = append(changed, ordering.Item{ID: out.ID, Parent: out.Page, Position: out.Order})
		return nil
	})
	return out, changed, err
}

// DeleteHeroImage removes a hero image and closes the gap on its page.
func (s *Store) DeleteHeroImage(id string) ([]ordering.Item, error) {
	var changed []ordering.Item
	err := s.mutate("delete hero image", func(st *state) error {
		var err error
		st.heroes, changed, err = heroes.remove(st.heroes, id)
		return err
	})
	return changed, err
}

// ReorderHeroImage moves a hero image within its page.
func (s *Store) ReorderHeroImage(id string, position int) ([]ordering.Item, error) {
	var changed []ordering.Item
	err := s.mutate("reorder hero image", func(st *state) error {
		var err error
		changed, err = heroes.reorder(st.heroes, id, position)
		return err
	})
	return changed, err
}

// AddCategory appends c to the category list. The slug defaults to the slugified name.
func (s *Store) AddCategory(c models.Category) (models.Category, error) {
	if err := c.Validate(); err != nil {
		return models.Category{}, err
	}
	if c.ID == "" {
		c.ID = shared.GenerateID()
	}
	if c.Slug == "" {
		c.Slug = shared.Slugify(c.Name)
	}
	c.Albums = nil

	err := s.mutate("add category", func(st *state) error {
		if categories.find(st.categories, c.ID) >= 0 {
			return &shared.ValidationError{Field: "id", Message: "already exists"}
		}
		st.categories, c = categories.appendTo(st.categories, c)
		return nil
	})
	if err != nil {
		return models.Category{}, err
	}
	return s.Category(c.ID)
}

// UpdateCategory applies p to a category.
func (s *Store) UpdateCategory(id string, p models.CategoryPatch) (models.Category, error) {
	err := s.mutate("update category", func(st *state) error {
		i := categories.find(st.categories, id)
		if i < 0 {
			return categories.notFound(id)
		}

		c := st.categories[i]
		if p.Name != nil {
			c.Name = *p.Name
		}
		if p.Slug != nil {
			c.Slug = *p.Slug
		}
		if p.Description != nil {
			c.Description = *p.Description
		}
		if p.ThumbnailURL != nil {
			c.ThumbnailURL = *p.ThumbnailURL
		}
		if c.Slug == "" {
			c.Slug = shared.Slugify(c.Name)
		}
		if err := c.Validate(); err != nil {
			return err
		}
		st.categories[i] = c
		return nil
	})
	if err != nil {
		return models.Category{}, err
	}
	return s.Category(id)
}

// DeleteCategory removes a category together with its albums and their images.
func (s *Store) DeleteCategory(id string) (Cascade, error) {
	var res Cascade
	err := s.mutate("delete category", func(st *state) error {
		if categories.find(st.categories, id) < 0 {
			return categories.notFound(id)
		}

		gone := make(map[string]bool)
		for _, a := range st.albums {
			if a.CategoryID == id {
				gone[a.ID] = true
				res.Albums = append(res.Albums, a.ID)
			}
		}
		for _, img := range st.images {
			if gone[img.AlbumID] {
				res.Images = append(res.Images, img.ID)
			}
		}

		st.images = images.filter(st.images, func(i *models.Image) bool { return !gone[i.AlbumID] })
		st.albums = albums.filter(st.albums, func(a *models.Album) bool { return a.CategoryID != id })

		var err error
		st.categories, res.Changed, err = categories.remove(st.categories, id)
		return err
	})
	return res, err
}

// ReorderCategory moves a category within the global list.
func (s *Store) ReorderCategory(id string, position int) ([]ordering.Item, error) {
	var changed []ordering.Item
	err := s.mutate("reorder category", func(st *state) error {
		var err error
		changed, err = categories.reorder(st.categories, id, position)
		return err
	})
	return changed, err
}

// AddAlbum appends a to the end of its category.
func (s *Store) AddAlbum(a models.Album) (models.Album, error) {
	if err := a.Validate(); err != nil {
		return models.Album{}, err
	}
	if a.ID == "" {
		a.ID = shared.GenerateID()
	}
	if a.Slug == "" {
		a.Slug = shared.Slugify(a.Name)
	}
	a.Images = nil

	err := s.mutate("add album", func(st *state) error {
		if categories.find(st.categories, a.CategoryID) < 0 {
			return categories.notFound(a.CategoryID)
		}
		if albums.find(st.albums, a.ID) >= 0 {
			return &shared.ValidationError{Field: "id", Message: "already exists"}
		}
		st.albums, a = albums.appendTo(st.albums, a)
		return nil
	})
	if err != nil {
		return models.Album{}, err
	}
	return s.Album(a.ID)
}

// UpdateAlbum applies p. A new CategoryID moves the album to the end of that category.
func (s *Store) UpdateAlbum(id string, p models.AlbumPatch) (models.Album, []ordering.Item, error) {
	var changed []ordering.Item
	err := s.mutate("update album", func(st *state) error {
		i := albums.find(st.albums, id)
		if i < 0 {
			return albums.notFound(id)
		}

		a := st.albums[i]
		if p.Name != nil {
			a.Name = *p.Name
		}
		if p.Slug != nil {
			a.Slug = *p.Slug
		}
		if p.Description != nil {
			a.Description = *p.Description
		}
		if p.ThumbnailURL != nil {
			a.ThumbnailURL = *p.ThumbnailURL
		}
		if p.CategoryID != nil {
			a.CategoryID = *p.CategoryID
		}
		if a.Slug == "" {
			a.Slug = shared.Slugify(a.Name)
		}
		if err := a.Validate(); err != nil {
			return err
		}

		if a.CategoryID == st.albums[i].CategoryID {
			st.albums[i] = a
			return nil
		}
		if categories.find(st.categories, a.CategoryID) < 0 {
			return categories.notFound(a.CategoryID)
		}

		var err error
		st.albums, changed, err = albums.remove(st.albums, id)
		if err != nil {
			return err
		}
		st.albums, a = albums.appendTo(st.albums, a)
		changed = append(changed, ordering.Item{ID: a.ID, Parent: a.CategoryID, Position: a.Order})
		return nil
	})
	if err != nil {
		return models.Album{}, nil, err
	}
	out, err := s.Album(id)
	return out, changed, err
}

// DeleteAlbum removes an album and its images, closing the gap in its category.
func (s *Store) DeleteAlbum(id string) (Cascade, error) {
	var res Cascade
	err := s.mutate("delete album", func(st *state) error {
		var err error
		st.albums, res.Changed, err = albums.remove(st.albums, id)
		if err != nil {
			return err
		}

		for _, img := range st.images {
			if img.AlbumID == id {
				res.Images = append(res.Images, img.ID)
			}
		}
		st.images = images.filter(st.images, func(i *models.Image) bool { return i.AlbumID != id })
		res.Albums = []string{id}
		return nil
	})
	return res, err
}

// ReorderAlbum moves an album within its category.
func (s *Store) ReorderAlbum(id string, position int) ([]ordering.Item, error) {
	var changed []ordering.Item
	err := s.mutate("reorder album", func(st *state) error {
		var err error
		changed, err = albums.reorder(st.albums, id, position)
		return err
	})
	return changed, err
}

// AddImage appends img to the end of its album.
func (s *Store) AddImage(img models.Image) (models.Image, error) {
	if err := img.Validate(); err != nil {
		return models.Image{}, err
	}
	if img.ID == "" {
		img.ID = shared.GenerateID()
	}

	err := s.mutate("add image", func(st *state) error {
		if albums.find(st.albums, img.AlbumID) < 0 {
			return albums.notFound(img.AlbumID)
		}
		if images.find(st.images, img.ID) >= 0 {
			return &shared.ValidationError{Field: "id", Message: "already exists"}
		}
		st.images, img = images.appendTo(st.images, img)
		return nil
	})
	return img, err
}

// UpdateImage applies p. A new AlbumID moves the image to the end of that album.
func (s *Store) UpdateImage(id string, p models.ImagePatch) (models.Image, []ordering.Item, error) {
	var (
		out     models.Image
		changed []ordering.Item
	)
	err := s.mutate("update image", func(st *state) error {
		i := images.find(st.images, id)
		if i < 0 {
			return images.notFound(id)
		}

		img := st.images[i]
		if p.URL != nil {
			img.URL = *p.URL
		}
		if p.Alt != nil {
			img.Alt = *p.Alt
		}
		if p.ThumbnailURL != nil {
			img.ThumbnailURL = *p.ThumbnailURL
		}
		if p.AlbumID != nil {
			img.AlbumID = *p.AlbumID
		}
		if err := img.Validate(); err != nil {
			return err
		}

		if img.AlbumID == st.images[i].AlbumID {
			st.images[i] = img
			out = img
			return nil
		}
		if albums.find(st.albums, img.AlbumID) < 0 {
			return albums.notFound(img.AlbumID)
		}

		var err error
		st.images, changed, err = images.remove(st.images, id)
		if err != nil {
			return err
		}
		st.images, out = images.appendTo(st.images, img)
		changed = append(changed, ordering.Item{ID: out.ID, Parent: out.AlbumID, Position: out.Order})
		return nil
	})
	return out, changed, err
}

// DeleteImage removes an image and closes the gap in its album.
func (s *Store) DeleteImage(id string) ([]ordering.Item, error) {
	var changed []ordering.Item
	err := s.mutate("delete image", func(st *state) error {
		var err error
		st.images, changed, err = images.remove(st.images, id)
		return err
	})
	return changed, err
}

// ReorderImage moves an image within its album.
func (s *Store) ReorderImage(id string, position int) ([]ordering.Item, error) {
	var changed []ordering.Item
	err := s.mutate("reorder image", func(st *state) error {
		var err error
		changed, err = images.reorder(st.images, id, position)
		return err
	})
	return changed, err
}
