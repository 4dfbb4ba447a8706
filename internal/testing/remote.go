package testing

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/desertthunder/vowfolio/internal/models"
	"github.com/desertthunder/vowfolio/internal/shared"
)

// Call records one request made against a [FakeRemote].
type Call struct {
	Method string
	ID     string
	Parent string
	Order  int
}

func (c Call) String() string {
	return fmt.Sprintf("%s %s:%d", c.Method, c.ID, c.Order)
}

// FakeRemote is an in-memory gallery API with failure injection.
//
// Failures registered with Fail are returned by every call to the named method until cleared;
// FailNext fails only the next call.
type FakeRemote struct {
	mu         sync.Mutex
	categories []models.Category
	albums     []models.Album
	images     []models.Image
	calls      []Call
	sticky     map[string]error
	once       map[string]error
	seq        int
	gate       chan struct{}
}

// NewFakeRemote returns a fake holding copies of the given documents.
func NewFakeRemote(categories []models.Category, albums []models.Album, images []models.Image) *FakeRemote {
	f := &FakeRemote{sticky: map[string]error{}, once: map[string]error{}}
	for _, c := range categories {
		c.Albums = nil
		f.categories = append(f.categories, c)
	}
	for _, a := range albums {
		a.Images = nil
		f.albums = append(f.albums, a)
	}
	f.images = append(f.images, images...)
	return f
}

func (f *FakeRemote) Fail(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.sticky, method)
		return
	}
	f.sticky[method] = err
}

func (f *FakeRemote) FailNext(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.once[method] = err
}

// Hold blocks every API call until the returned release func is called.
func (f *FakeRemote) Hold() (release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	gate := make(chan struct{})
	f.gate = gate
	return func() {
		f.mu.Lock()
		f.gate = nil
		f.mu.Unlock()
		close(gate)
	}
}

// enter waits for any gate and then locks f.mu.
func (f *FakeRemote) enter() {
	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
}

// Calls returns the requests made so far, in order.
func (f *FakeRemote) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// CallsTo filters Calls by method.
func (f *FakeRemote) CallsTo(method string) []Call {
	var out []Call
	for _, c := range f.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// record logs the call and returns any injected failure. Callers hold f.mu.
func (f *FakeRemote) record(c Call) error {
	f.calls = append(f.calls, c)
	if err, ok := f.once[c.Method]; ok {
		delete(f.once, c.Method)
		return err
	}
	if err, ok := f.sticky[c.Method]; ok {
		return err
	}
	return nil
}

func (f *FakeRemote) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-srv-%d", prefix, f.seq)
}

func notFound(kind, id string) error {
	return &shared.RemoteRequestError{Method: "GET", Path: "/" + kind + "/" + id, Status: 404, Message: kind + " not found"}
}

func byOrder[T any](items []T, order func(T) int) []T {
	out := slices.Clone(items)
	sort.SliceStable(out, func(i, j int) bool { return order(out[i]) < order(out[j]) })
	return out
}

func (f *FakeRemote) ListCategories(ctx context.Context) ([]models.Category, error) {
	f.enter()
	defer f.mu.Unlock()
	if err := f.record(Call{Method: "ListCategories"}); err != nil {
		return nil, err
	}
	return byOrder(f.categories, func(c models.Category) int { return c.Order }), nil
}

func (f *FakeRemote) CreateCategory(ctx context.Context, c models.Category) (models.Category, error) {
	f.enter()
	defer f.mu.Unlock()
	if err := f.record(Call{Method: "CreateCategory", ID: c.ID, Order: c.Order}); err != nil {
		return models.Category{}, err
	}
	c.ID = f.nextID("cat")
	c.Albums = nil
	f.categories = append(f.categories, c)
	return c, nil
}

func (f *FakeRemote) UpdateCategory(ctx context.Context, id string, p models.CategoryPatch) (models.Category, error) {
	f.enter()
	defer f.mu.Unlock()
	if err := f.record(Call{Method: "UpdateCategory", ID: id}); err != nil {
		return models.Category{}, err
	}
	i := slices.IndexFunc(f.categories, func(c models.Category) bool { return c.ID == id })
	if i < 0 {
		return models.Category{}, notFound("categories", id)
	}
	c := &f.categories[i]
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
	return *c, nil
}

func (f *FakeRemote) DeleteCategory(ctx context.Context, id string) error {
	f.enter()
	defer f.mu.Unlock()
	if err := f.record(Call{Method: "DeleteCategory", ID: id}); err != nil {
		return err
	}
	var albumIDs []string
	for _, a := range f.albums {
		if a.CategoryID == id {
			albumIDs = append(albumIDs, a.ID)
		}
	}
	f.categories = slices.DeleteFunc(f.categories, func(c models.Category) bool { return c.ID == id })
	f.albums = slices.DeleteFunc(f.albums, func(a models.Album) bool { return a.CategoryID == id })
	f.images = slices.DeleteFunc(f.images, func(im models.Image) bool { return slices.Contains(albumIDs, im.AlbumID) })
	return nil
}

func (f *FakeRemote) ReorderCategory(ctx context.Context, id string, order int) error {
	f.enter()
	defer f.mu.Unlock()
	if err := f.record(Call{Method: "ReorderCategory", ID: id, Order: order}); err != nil {
		return err
	}
	i := slices.IndexFunc(f.categories, func(c models.Category) bool { return c.ID == id })
	if i < 0 {
		return notFound("categories", id)
	}
	f.categories[i].Order = order
	return nil
}

func (f *FakeRemote) ListAlbums(ctx context.Context, categoryID string) ([]models.Album, error) {
	f.enter()
	defer f.mu.Unlock()
	if err := f.record(Call{Method: "ListAlbums", Parent: categoryID}); err != nil {
		return nil, err
	}
	var out []models.Album
	for _, a := range f.albums {
		if categoryID == "" || a.CategoryID == categoryID {
			out = append(out, a)
		}
	}
	return byOrder(out, func(a models.Album) int { return a.Order }), nil
}

func (f *FakeRemote) CreateAlbum(ctx context.Context, a models.Album) (models.Album, error) {
	f.enter()
	defer f.mu.Unlock()
	if err := f.record(Call{Method: "CreateAlbum", ID: a.ID, Parent: a.CategoryID, Order: a.Order}); err != nil {
		return models.Album{}, err
	}
	a.ID = f.nextID("alb")
	a.Images = nil
	f.albums = append(f.albums, a)
	return a, nil
}

func (f *FakeRemote) UpdateAlbum(ctx context.Context, id string, p models.AlbumPatch) (models.Album, error) {
	f.enter()
	defer f.mu.Unlock()
	if err := f.record(Call{Method: "UpdateAlbum", ID: id}); err != nil {
		return models.Album{}, err
	}
	i := slices.IndexFunc(f.albums, func(a models.Album) bool { return a.ID == id })
	if i < 0 {
		return models.Album{}, notFound("albums", id)
	}
	a := &f.albums[i]
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
	return *a, nil
}

func (f *FakeRemote) DeleteAlbum(ctx context.Context, id string) error {
	f.enter()
	defer f.mu.Unlock()
	if err := f.record(Call{Method: "DeleteAlbum", ID: id}); err != nil {
		return err
	}
	f.albums = slices.DeleteFunc(f.albums, func(a models.Album) bool { return a.ID == id })
	f.images = slices.DeleteFunc(f.images, func(im models.Image) bool { return im.AlbumID == id })
	return nil
}

func (f *FakeRemote) ReorderAlbum(ctx context.Context, id, categoryID string, order int) error {
	f.enter()
	defer f.mu.Unlock()
	if err := f.record(Call{Method: "ReorderAlbum", ID: id, Parent: categoryID, Order: order}); err != nil {
		return err
	}
	i := slices.IndexFunc(f.albums, func(a models.Album) bool { return a.ID == id })
	if i < 0 {
		return notFound("albums", id)
	}
	f.albums[i].Order = order
	f.albums[i].CategoryID = categoryID
	return nil
}

func (f *FakeRemote) ListImages(ctx context.Context, albumID string) ([]models.Image, error) {
	f.enter()
	defer f.mu.Unlock()
	if err := f.record(Call{Method: "ListImages", Parent: albumID}); err != nil {
		return nil, err
	}
	var out []models.Image
	for _, im := range f.images {
		if im.AlbumID == albumID {
			out = append(out, im)
		}
	}
	return byOrder(out, func(im models.Image) int { return im.Order }), nil
}

func (f *FakeRemote) UploadImage(ctx context.Context, u models.ImageUpload) (models.Image, error) {
	f.enter()
	defer f.mu.Unlock()
	if err := f.record(Call{Method: "UploadImage", Parent: u.AlbumID}); err != nil {
		return models.Image{}, err
	}
	if err := u.Validate(); err != nil {
		return models.Image{}, err
	}
	return f.addImage(u.AlbumID, u.Alt, u.URL, u.File), nil
}

func (f *FakeRemote) BulkUpload(ctx context.Context, albumID string, files []models.UploadFile) ([]models.Image, error) {
	f.enter()
	defer f.mu.Unlock()
	if err := f.record(Call{Method: "BulkUpload", Parent: albumID}); err != nil {
		return nil, err
	}
	out := make([]models.Image, 0, len(files))
	for i := range files {
		out = append(out, f.addImage(albumID, "", "", &files[i]))
	}
	return out, nil
}

// addImage appends an image at the end of its album. Callers hold f.mu.
func (f *FakeRemote) addImage(albumID, alt, url string, file *models.UploadFile) models.Image {
	id := f.nextID("img")
	if file != nil {
		url = "https://cdn.example.com/" + id + "/" + file.Name
	}
	order := 1
	for _, im := range f.images {
		if im.AlbumID == albumID && im.Order >= order {
			order = im.Order + 1
		}
	}
	im := models.Image{ID: id, URL: url, Alt: alt, AlbumID: albumID, Order: order}
	if file != nil {
		im.Width, im.Height = file.Width, file.Height
	}
	f.images = append(f.images, im)
	return im
}

func (f *FakeRemote) UpdateImage(ctx context.Context, id string, p models.ImagePatch) (models.Image, error) {
	f.enter()
	defer f.mu.Unlock()
	if err := f.record(Call{Method: "UpdateImage", ID: id}); err != nil {
		return models.Image{}, err
	}
	i := slices.IndexFunc(f.images, func(im models.Image) bool { return im.ID == id })
	if i < 0 {
		return models.Image{}, notFound("images", id)
	}
	im := &f.images[i]
	if p.URL != nil {
		im.URL = *p.URL
	}
	if p.Alt != nil {
		im.Alt = *p.Alt
	}
	if p.AlbumID != nil {
		im.AlbumID = *p.AlbumID
	}
	if p.ThumbnailURL != nil {
		im.ThumbnailURL = *p.ThumbnailURL
	}
	return *im, nil
}

func (f *FakeRemote) DeleteImage(ctx context.Context, id string) error {
	f.enter()
	defer f.mu.Unlock()
	if err := f.record(Call{Method: "DeleteImage", ID: id}); err != nil {
		return err
	}
	f.images = slices.DeleteFunc(f.images, func(im models.Image) bool { return im.ID == id })
	return nil
}

func (f *FakeRemote) ReorderImage(ctx context.Context, id, albumID string, order int) error {
	f.enter()
	defer f.mu.Unlock()
	if err := f.record(Call{Method: "ReorderImage", ID: id, Parent: albumID, Order: order}); err != nil {
		return err
	}
	i := slices.IndexFunc(f.images, func(im models.Image) bool { return im.ID == id })
	if i < 0 {
		return notFound("images", id)
	}
	f.images[i].Order = order
	if albumID != "" {
		f.images[i].AlbumID = albumID
	}
	return nil
}

// SetOrder overwrites the stored order of id, simulating a concurrent edit on the server.
func (f *FakeRemote) SetOrder(id string, order int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.categories {
		if f.categories[i].ID == id {
			f.categories[i].Order = order
		}
	}
	for i := range f.albums {
		if f.albums[i].ID == id {
			f.albums[i].Order = order
		}
	}
	for i := range f.images {
		if f.images[i].ID == id {
			f.images[i].Order = order
		}
	}
}
