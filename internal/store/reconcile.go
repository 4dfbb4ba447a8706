package store

import (
	"github.com/desertthunder/vowfolio/internal/models"
)

// ReplaceHeroImages swaps the contents of one page for list, renumbered by Order.
func (s *Store) ReplaceHeroImages(page string, list []models.HeroImage) error {
	incoming := cloneSlice(list)
	for i := range incoming {
		incoming[i].Page = page
	}
	return s.mutate("replace hero images", func(st *state) error {
		st.heroes = heroes.filter(st.heroes, func(h *models.HeroImage) bool { return h.Page != page })
		st.heroes = append(st.heroes, incoming...)
		heroes.compact(st.heroes, page)
		return nil
	})
}

// ReplaceCategories swaps the category list for list, renumbered by Order. Gaps in the
// incoming orders are closed.
//
// Albums of categories that no longer exist are dropped along with their images. The
// albums of surviving categories are kept; fetch them separately with [Store.ReplaceAlbums].
func (s *Store) ReplaceCategories(list []models.Category) error {
	incoming := cloneSlice(list)
	for i := range incoming {
		incoming[i].Albums = nil
	}
	return s.mutate("replace categories", func(st *state) error {
		st.categories = incoming
		categories.compact(st.categories, "")
		st.dropOrphans()
		return nil
	})
}

// ReplaceAlbums swaps the albums of one category for list, renumbered by Order.
//
// Images of albums that disappeared are dropped.
func (s *Store) ReplaceAlbums(categoryID string, list []models.Album) error {
	incoming := cloneSlice(list)
	for i := range incoming {
		incoming[i].CategoryID = categoryID
		incoming[i].Images = nil
	}
	return s.mutate("replace albums", func(st *state) error {
		if categories.find(st.categories, categoryID) < 0 {
			return categories.notFound(categoryID)
		}
		st.albums = albums.filter(st.albums, func(a *models.Album) bool { return a.CategoryID != categoryID })
		st.albums = append(st.albums, incoming...)
		albums.compact(st.albums, categoryID)
		st.dropOrphans()
		return nil
	})
}

// ReplaceImages swaps the images of one album for list, renumbered by Order.
func (s *Store) ReplaceImages(albumID string, list []models.Image) error {
	incoming := cloneSlice(list)
	for i := range incoming {
		incoming[i].AlbumID = albumID
	}
	return s.mutate("replace images", func(st *state) error {
		if albums.find(st.albums, albumID) < 0 {
			return albums.notFound(albumID)
		}
		st.images = images.filter(st.images, func(i *models.Image) bool { return i.AlbumID != albumID })
		st.images = append(st.images, incoming...)
		images.compact(st.images, albumID)
		return nil
	})
}

// Rekey replaces a locally assigned id with the id issued by the server. Children
// referencing the old id follow.
func (s *Store) Rekey(kind models.Kind, oldID, newID string) error {
	if oldID == newID {
		return nil
	}
	return s.mutate("rekey", func(st *state) error {
		switch kind {
		case models.KindHeroImage:
			return heroes.rekey(st.heroes, oldID, newID)
		case models.KindCategory:
			if err := categories.rekey(st.categories, oldID, newID); err != nil {
				return err
			}
			for i := range st.albums {
				if st.albums[i].CategoryID == oldID {
					st.albums[i].CategoryID = newID
				}
			}
		case models.KindAlbum:
			if err := albums.rekey(st.albums, oldID, newID); err != nil {
				return err
			}
			for i := range st.images {
				if st.images[i].AlbumID == oldID {
					st.images[i].AlbumID = newID
				}
			}
		case models.KindImage:
			return images.rekey(st.images, oldID, newID)
		}
		return nil
	})
}
