package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vowfolio/internal/models"
	"github.com/desertthunder/vowfolio/internal/services"
	"github.com/desertthunder/vowfolio/internal/shared"
	"github.com/desertthunder/vowfolio/internal/store"
)

const maxUploadMemory = 32 << 20

type upload struct {
	contentType string
	data        []byte
}

// GalleryHandler serves categories, albums and images from a [store.Store].
type GalleryHandler struct {
	store  *store.Store
	logger *log.Logger
	mux    *http.ServeMux
	routes []string

	mu      sync.RWMutex
	uploads map[string]upload
}

// NewGalleryHandler creates a [GalleryHandler]. Mutating routes are wrapped with auth.
func NewGalleryHandler(s *store.Store, auth Middleware, logger *log.Logger) *GalleryHandler {
	h := &GalleryHandler{
		store:   s,
		logger:  logger,
		mux:     http.NewServeMux(),
		uploads: make(map[string]upload),
	}

	public := map[string]http.HandlerFunc{
		"GET /api/categories":             h.listCategories,
		"GET /api/categories/{id}":        h.getCategory,
		"GET /api/albums":                 h.listAlbums,
		"GET /api/albums/{id}":            h.getAlbum,
		"GET /api/images/album/{albumId}": h.listImages,
		"GET /uploads/{id}":               h.serveUpload,
	}
	protected := map[string]http.HandlerFunc{
		"POST /api/categories":             h.createCategory,
		"PUT /api/categories/{id}":         h.updateCategory,
		"DELETE /api/categories/{id}":      h.deleteCategory,
		"PUT /api/categories/{id}/reorder": h.reorderCategory,
		"POST /api/albums":                 h.createAlbum,
		"PUT /api/albums/{id}":             h.updateAlbum,
		"DELETE /api/albums/{id}":          h.deleteAlbum,
		"PUT /api/albums/{id}/reorder":     h.reorderAlbum,
		"POST /api/images":                 h.createImage,
		"POST /api/images/bulk":            h.bulkUpload,
		"PUT /api/images/{id}":             h.updateImage,
		"DELETE /api/images/{id}":          h.deleteImage,
	}

	for pattern, fn := range public {
		h.mux.Handle(pattern, fn)
		h.routes = append(h.routes, pattern)
	}
	for pattern, fn := range protected {
		var next http.Handler = fn
		if auth != nil {
			next = auth(next)
		}
		h.mux.Handle(pattern, next)
		h.routes = append(h.routes, pattern)
	}
	return h
}

// Routes returns the HTTP routes this handler serves.
func (h *GalleryHandler) Routes() []string {
	return h.routes
}

func (h *GalleryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// orderUpdate is the optional "order" field accepted next to a patch.
type orderUpdate struct {
	Order *int `json:"order,omitempty"`
}

func (h *GalleryHandler) listCategories(w http.ResponseWriter, _ *http.Request) {
	docs := make([]services.CategoryDoc, 0)
	for _, c := range h.store.Categories() {
		docs = append(docs, services.NewCategoryDoc(c))
	}
	writeJSON(w, http.StatusOK, docs)
}

func (h *GalleryHandler) getCategory(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.Category(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, services.NewCategoryDoc(c))
}

func (h *GalleryHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	var doc services.CategoryDoc
	if err := decodeJSON(w, r, &doc); err != nil {
		writeError(w, err)
		return
	}

	c := doc.Model()
	c.ID = shared.GenerateID()
	created, err := h.store.AddCategory(c)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.placeAt(models.KindCategory, created.ID, created.Order, doc.Order); err != nil {
		writeError(w, err)
		return
	}
	h.getCategoryStatus(w, created.ID, http.StatusCreated)
}

func (h *GalleryHandler) getCategoryStatus(w http.ResponseWriter, id string, status int) {
	c, err := h.store.Category(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, services.NewCategoryDoc(c))
}

func (h *GalleryHandler) updateCategory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		models.CategoryPatch
		orderUpdate
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, err)
		return
	}

	id := r.PathValue("id")
	if _, err := h.store.UpdateCategory(id, body.CategoryPatch); err != nil {
		writeError(w, err)
		return
	}
	if body.Order != nil {
		if _, err := h.store.ReorderCategory(id, *body.Order); err != nil {
			writeError(w, err)
			return
		}
	}
	h.getCategoryStatus(w, id, http.StatusOK)
}

func (h *GalleryHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	res, err := h.store.DeleteCategory(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	h.dropUploads(res.Images)
	writeMessage(w, http.StatusOK, "Category deleted")
}

func (h *GalleryHandler) reorderCategory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Order int `json:"order"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, err)
		return
	}

	id := r.PathValue("id")
	if _, err := h.store.ReorderCategory(id, body.Order); err != nil {
		writeError(w, err)
		return
	}
	h.getCategoryStatus(w, id, http.StatusOK)
}

// listAlbums returns one category's albums, or every album in category order.
func (h *GalleryHandler) listAlbums(w http.ResponseWriter, r *http.Request) {
	docs := make([]services.AlbumDoc, 0)
	if id := r.URL.Query().Get("categoryId"); id != "" {
		for _, a := range h.store.AlbumsByCategory(id) {
			docs = append(docs, services.NewAlbumDoc(a))
		}
	} else {
		for _, c := range h.store.Categories() {
			for _, a := range c.Albums {
				docs = append(docs, services.NewAlbumDoc(a))
			}
		}
	}
	writeJSON(w, http.StatusOK, docs)
}

func (h *GalleryHandler) getAlbum(w http.ResponseWriter, r *http.Request) {
	h.getAlbumStatus(w, r.PathValue("id"), http.StatusOK)
}

func (h *GalleryHandler) getAlbumStatus(w http.ResponseWriter, id string, status int) {
	a, err := h.store.Album(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, services.NewAlbumDoc(a))
}

func (h *GalleryHandler) createAlbum(w http.ResponseWriter, r *http.Request) {
	var doc services.AlbumDoc
	if err := decodeJSON(w, r, &doc); err != nil {
		writeError(w, err)
		return
	}

	a := doc.Model()
	a.ID = shared.GenerateID()
	created, err := h.store.AddAlbum(a)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.placeAt(models.KindAlbum, created.ID, created.Order, doc.Order); err != nil {
		writeError(w, err)
		return
	}
	h.getAlbumStatus(w, created.ID, http.StatusCreated)
}

func (h *GalleryHandler) updateAlbum(w http.ResponseWriter, r *http.Request) {
	var body struct {
		models.AlbumPatch
		orderUpdate
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, err)
		return
	}

	id := r.PathValue("id")
	if _, _, err := h.store.UpdateAlbum(id, body.AlbumPatch); err != nil {
		writeError(w, err)
		return
	}
	if body.Order != nil {
		if _, err := h.store.ReorderAlbum(id, *body.Order); err != nil {
			writeError(w, err)
			return
		}
	}
	h.getAlbumStatus(w, id, http.StatusOK)
}

func (h *GalleryHandler) deleteAlbum(w http.ResponseWriter, r *http.Request) {
	res, err := h.store.DeleteAlbum(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	h.dropUploads(res.Images)
	writeMessage(w, http.StatusOK, "Album deleted")
}

// reorderAlbum moves the album into categoryId first when it differs from the current one.
func (h *GalleryHandler) reorderAlbum(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CategoryID string `json:"categoryId"`
		Order      int    `json:"order"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, err)
		return
	}

	id := r.PathValue("id")
	if body.CategoryID != "" {
		if _, _, err := h.store.UpdateAlbum(id, models.AlbumPatch{CategoryID: &body.CategoryID}); err != nil {
			writeError(w, err)
			return
		}
	}
	if _, err := h.store.ReorderAlbum(id, body.Order); err != nil {
		writeError(w, err)
		return
	}
	h.getAlbumStatus(w, id, http.StatusOK)
}

func (h *GalleryHandler) listImages(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("albumId")
	if _, err := h.store.Album(id); err != nil {
		writeError(w, err)
		return
	}

	docs := make([]services.ImageDoc, 0)
	for _, img := range h.store.ImagesByAlbum(id) {
		docs = append(docs, services.NewImageDoc(img))
	}
	writeJSON(w, http.StatusOK, docs)
}

func (h *GalleryHandler) createImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeMessage(w, http.StatusBadRequest, fmt.Sprintf("invalid multipart body: %v", err))
		return
	}

	img := models.Image{
		ID:      shared.GenerateID(),
		Alt:     r.FormValue("alt"),
		AlbumID: r.FormValue("albumId"),
		URL:     r.FormValue("url"),
	}
	img.Width, _ = strconv.Atoi(r.FormValue("width"))
	img.Height, _ = strconv.Atoi(r.FormValue("height"))

	files := r.MultipartForm.File["image"]
	switch {
	case len(files) > 0:
		if err := h.attach(r, &img, files[0]); err != nil {
			writeError(w, err)
			return
		}
	case img.URL == "":
		writeMessage(w, http.StatusBadRequest, "No image file or URL provided")
		return
	default:
		img.ThumbnailURL = img.URL
	}

	created, err := h.store.AddImage(img)
	if err != nil {
		h.dropUploads([]string{img.ID})
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, services.NewImageDoc(created))
}

func (h *GalleryHandler) bulkUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeMessage(w, http.StatusBadRequest, fmt.Sprintf("invalid multipart body: %v", err))
		return
	}

	albumID := r.FormValue("albumId")
	if _, err := h.store.Album(albumID); err != nil {
		writeError(w, err)
		return
	}
	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		writeMessage(w, http.StatusBadRequest, "No images provided")
		return
	}

	docs := make([]services.ImageDoc, 0, len(files))
	for _, fh := range files {
		img := models.Image{ID: shared.GenerateID(), AlbumID: albumID, Alt: fh.Filename}
		if err := h.attach(r, &img, fh); err != nil {
			writeError(w, err)
			return
		}
		created, err := h.store.AddImage(img)
		if err != nil {
			h.dropUploads([]string{img.ID})
			writeError(w, err)
			return
		}
		docs = append(docs, services.NewImageDoc(created))
	}
	writeJSON(w, http.StatusCreated, map[string]any{"images": docs})
}

// attach stores an uploaded file and points img at it. Missing dimensions are probed.
func (h *GalleryHandler) attach(r *http.Request, img *models.Image, fh *multipart.FileHeader) error {
	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("failed to read upload: %w", err)
	}
	info, err := services.ProbeImage(data)
	if err != nil {
		return err
	}
	if img.Width == 0 || img.Height == 0 {
		img.Width, img.Height = info.Width, info.Height
	}

	h.mu.Lock()
	h.uploads[img.ID] = upload{contentType: info.ContentType, data: data}
	h.mu.Unlock()

	img.URL = fmt.Sprintf("http://%s/uploads/%s", r.Host, img.ID)
	img.ThumbnailURL = img.URL
	h.logger.Debug("stored upload", "id", img.ID, "name", fh.Filename, "type", info.ContentType, "bytes", len(data))
	return nil
}

func (h *GalleryHandler) updateImage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		models.ImagePatch
		orderUpdate
	}
	if err := decodeJSON(w, r, &body); err != nil {
		writeError(w, err)
		return
	}

	id := r.PathValue("id")
	updated, _, err := h.store.UpdateImage(id, body.ImagePatch)
	if err != nil {
		writeError(w, err)
		return
	}
	if body.Order != nil {
		if _, err := h.store.ReorderImage(id, *body.Order); err != nil {
			writeError(w, err)
			return
		}
		if updated, err = h.store.Image(id); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, services.NewImageDoc(updated))
}

func (h *GalleryHandler) deleteImage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.store.DeleteImage(id); err != nil {
		writeError(w, err)
		return
	}
	h.dropUploads([]string{id})
	writeMessage(w, http.StatusOK, "Image deleted")
}

func (h *GalleryHandler) serveUpload(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	u, ok := h.uploads[r.PathValue("id")]
	h.mu.RUnlock()
	if !ok {
		writeMessage(w, http.StatusNotFound, "upload not found")
		return
	}
	w.Header().Set("Content-Type", u.contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(u.data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(u.data)
}

func (h *GalleryHandler) dropUploads(ids []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, id := range ids {
		delete(h.uploads, id)
	}
}

// placeAt moves a freshly appended item to the requested order. Out of range orders leave it last.
func (h *GalleryHandler) placeAt(kind models.Kind, id string, current, requested int) error {
	if requested <= 0 || requested == current {
		return nil
	}
	var err error
	switch kind {
	case models.KindCategory:
		_, err = h.store.ReorderCategory(id, requested)
	case models.KindAlbum:
		_, err = h.store.ReorderAlbum(id, requested)
	}
	if errors.Is(err, shared.ErrInvalidPosition) {
		return nil
	}
	return err
}
