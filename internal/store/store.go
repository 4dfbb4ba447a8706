// Package store holds the in-memory gallery collections and applies ordering changes to them.
//
// A [Store] is the single owner of hero images, categories, albums and images. Every
// mutation runs under one lock against a private copy of the state; the copy is
// committed only when the whole operation succeeded and every sibling group is
// dense again. Readers always receive deep copies.
package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vowfolio/internal/models"
	"github.com/desertthunder/vowfolio/internal/ordering"
	"github.com/desertthunder/vowfolio/internal/shared"
)

// Dataset is a full copy of the store contents.
type Dataset struct {
	HeroImages []models.HeroImage `json:"heroImages"`
	Categories []models.Category  `json:"categories"`
	Albums     []models.Album     `json:"albums"`
	Images     []models.Image     `json:"images"`
}

// Store owns the gallery collections.
type Store struct {
	mu       sync.RWMutex
	state    state
	revision uint64
	logger   *log.Logger
}

type state struct {
	heroes     []models.HeroImage
	categories []models.Category
	albums     []models.Album
	images     []models.Image
}

// New creates an empty [Store].
func New(logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Store{logger: shared.WithLogger(logger, "component", "store")}
}

// NewWithDataset creates a [Store] seeded with d.
func NewWithDataset(logger *log.Logger, d Dataset) (*Store, error) {
	s := New(logger)
	if err := s.Load(d); err != nil {
		return nil, err
	}
	return s, nil
}

// Load replaces all contents with d. Positions are renumbered densely per group and
// entries whose parent is missing are dropped.
func (s *Store) Load(d Dataset) error {
	return s.mutate("load", func(st *state) error {
		st.heroes = cloneSlice(d.HeroImages)
		st.categories = cloneSlice(d.Categories)
		st.albums = cloneSlice(d.Albums)
		st.images = cloneSlice(d.Images)
		st.dropOrphans()
		heroes.renumberAll(st.heroes)
		categories.renumberAll(st.categories)
		albums.renumberAll(st.albums)
		images.renumberAll(st.images)
		return nil
	})
}

// Revision increases by one with every committed mutation.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// mutate applies fn to a copy of the state and commits it when fn succeeds.
func (s *Store) mutate(op string, fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.clone()
	if err := fn(&next); err != nil {
		s.logger.Debug("mutation rejected", "op", op, "error", err)
		return err
	}

	next.resync()
	if err := next.validate(); err != nil {
		s.logger.Error("mutation left groups inconsistent", "op", op, "error", err)
		return fmt.Errorf("%s: %w", op, err)
	}

	s.state = next
	s.revision++
	s.logger.Debug("mutation committed", "op", op, "revision", s.revision)
	return nil
}

func (s *Store) read(fn func(st *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.state)
}

// clone copies the flat collections. Embedded slices are rebuilt by resync before commit.
func (st state) clone() state {
	return state{
		heroes:     cloneSlice(st.heroes),
		categories: cloneSlice(st.categories),
		albums:     cloneSlice(st.albums),
		images:     cloneSlice(st.images),
	}
}

// resync rebuilds Album.Images and Category.Albums from the flat collections.
func (st *state) resync() {
	byAlbum := make(map[string][]models.Image)
	for _, img := range st.images {
		byAlbum[img.AlbumID] = append(byAlbum[img.AlbumID], img)
	}
	for id, list := range byAlbum {
		sortImages(list)
		byAlbum[id] = list
	}

	for i := range st.albums {
		st.albums[i].Images = cloneSlice(byAlbum[st.albums[i].ID])
		if st.albums[i].Images == nil {
			st.albums[i].Images = []models.Image{}
		}
	}

	byCategory := make(map[string][]models.Album)
	for _, a := range st.albums {
		byCategory[a.CategoryID] = append(byCategory[a.CategoryID], copyAlbum(a))
	}
	for i := range st.categories {
		list := byCategory[st.categories[i].ID]
		sortAlbums(list)
		if list == nil {
			list = []models.Album{}
		}
		st.categories[i].Albums = list
	}
}

func (st *state) validate() error {
	if err := heroes.validate(st.heroes); err != nil {
		return err
	}
	if err := categories.validate(st.categories); err != nil {
		return err
	}
	if err := albums.validate(st.albums); err != nil {
		return err
	}
	return images.validate(st.images)
}

// dropOrphans removes albums without a category and images without an album.
func (st *state) dropOrphans() {
	cats := make(map[string]bool, len(st.categories))
	for _, c := range st.categories {
		cats[c.ID] = true
	}
	st.albums = albums.filter(st.albums, func(a *models.Album) bool { return cats[a.CategoryID] })

	alb := make(map[string]bool, len(st.albums))
	for _, a := range st.albums {
		alb[a.ID] = true
	}
	st.images = images.filter(st.images, func(i *models.Image) bool { return alb[i.AlbumID] })
}

// HeroImages returns the hero images of page in position order.
func (s *Store) HeroImages(page string) []models.HeroImage {
	var out []models.HeroImage
	s.read(func(st *state) { out = heroes.sorted(st.heroes, page) })
	return out
}

// Pages lists every page that has hero images, sorted by name.
func (s *Store) Pages() []string {
	var out []string
	s.read(func(st *state) { out = heroes.parents(st.heroes) })
	sort.Strings(out)
	return out
}

// HeroImage returns one hero image.
func (s *Store) HeroImage(id string) (models.HeroImage, error) {
	var (
		out models.HeroImage
		err error
	)
	s.read(func(st *state) {
		if i := heroes.find(st.heroes, id); i >= 0 {
			out = st.heroes[i]
		} else {
			err = heroes.notFound(id)
		}
	})
	return out, err
}

// Categories returns every category, with embedded albums and images, in position order.
func (s *Store) Categories() []models.Category {
	var out []models.Category
	s.read(func(st *state) {
		for _, c := range categories.sorted(st.categories, "") {
			out = append(out, copyCategory(c))
		}
	})
	return out
}

// Category returns one category with its embedded albums.
func (s *Store) Category(id string) (models.Category, error) {
	var (
		out models.Category
		err error
	)
	s.read(func(st *state) {
		if i := categories.find(st.categories, id); i >= 0 {
			out = copyCategory(st.categories[i])
		} else {
			err = categories.notFound(id)
		}
	})
	return out, err
}

// AlbumsByCategory returns the albums of one category in position order.
func (s *Store) AlbumsByCategory(categoryID string) []models.Album {
	var out []models.Album
	s.read(func(st *state) {
		for _, a := range albums.sorted(st.albums, categoryID) {
			out = append(out, copyAlbum(a))
		}
	})
	return out
}

// Album returns one album with its embedded images.
func (s *Store) Album(id string) (models.Album, error) {
	var (
		out models.Album
		err error
	)
	s.read(func(st *state) {
		if i := albums.find(st.albums, id); i >= 0 {
			out = copyAlbum(st.albums[i])
		} else {
			err = albums.notFound(id)
		}
	})
	return out, err
}

// ImagesByAlbum returns the images of one album in position order.
func (s *Store) ImagesByAlbum(albumID string) []models.Image {
	var out []models.Image
	s.read(func(st *state) { out = images.sorted(st.images, albumID) })
	return out
}

// Image returns one image.
func (s *Store) Image(id string) (models.Image, error) {
	var (
		out models.Image
		err error
	)
	s.read(func(st *state) {
		if i := images.find(st.images, id); i >= 0 {
			out = st.images[i]
		} else {
			err = images.notFound(id)
		}
	})
	return out, err
}

// Group returns the ordering view of one sibling group, in position order.
//
// The parent is ignored for categories.
func (s *Store) Group(kind models.Kind, parent string) []ordering.Item {
	var out []ordering.Item
	s.read(func(st *state) {
		switch kind {
		case models.KindHeroImage:
			out = heroes.group(st.heroes, parent)
		case models.KindCategory:
			out = categories.group(st.categories, "")
		case models.KindAlbum:
			out = albums.group(st.albums, parent)
		case models.KindImage:
			out = images.group(st.images, parent)
		}
	})
	return ordering.Sorted(out)
}

// Snapshot returns a deep copy of every collection.
func (s *Store) Snapshot() Dataset {
	var d Dataset
	s.read(func(st *state) {
		d.HeroImages = cloneSlice(st.heroes)
		for _, c := range st.categories {
			d.Categories = append(d.Categories, copyCategory(c))
		}
		for _, a := range st.albums {
			d.Albums = append(d.Albums, copyAlbum(a))
		}
		d.Images = cloneSlice(st.images)
	})
	return d
}

func copyAlbum(a models.Album) models.Album {
	a.Images = cloneSlice(a.Images)
	return a
}

func copyCategory(c models.Category) models.Category {
	list := make([]models.Album, len(c.Albums))
	for i, a := range c.Albums {
		list[i] = copyAlbum(a)
	}
	c.Albums = list
	return c
}

func sortImages(list []models.Image) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].Order < list[j].Order })
}

func sortAlbums(list []models.Album) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].Order < list[j].Order })
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
