package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/vowfolio/internal/models"
	"github.com/desertthunder/vowfolio/internal/shared"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// GalleryService implements the category, album and image endpoints of the gallery API.
type GalleryService struct {
	api *APIService
}

// NewGalleryService wraps api with typed gallery endpoints.
func NewGalleryService(api *APIService) *GalleryService {
	return &GalleryService{api: api}
}

// doJSON encodes body (if any), performs the request and decodes a 2xx response into result.
func (g *GalleryService) doJSON(ctx context.Context, method, path string, body, result any) error {
	var (
		resp *APIResponse
		data []byte
		err  error
	)

	if body != nil {
		data, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	switch method {
	case http.MethodGet:
		resp, err = g.api.Get(ctx, path)
	case http.MethodPost:
		resp, err = g.api.Post(ctx, path, data)
	case http.MethodPut:
		resp, err = g.api.Put(ctx, path, data)
	case http.MethodDelete:
		resp, err = g.api.Delete(ctx, path)
	default:
		return fmt.Errorf("unsupported method %s", method)
	}
	return decodeResponse(resp, err, method, path, result)
}

func decodeResponse(resp *APIResponse, err error, method, path string, result any) error {
	if err != nil {
		return remoteErr(method, path, err)
	}
	if err := resp.Err(method, path); err != nil {
		return err
	}
	if result == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, result); err != nil {
		return remoteErr(method, path, fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

func (g *GalleryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	var docs []CategoryDoc
	if err := g.doJSON(ctx, http.MethodGet, "/categories", nil, &docs); err != nil {
		return nil, err
	}
	return docsToModels[CategoryDoc, models.Category](docs), nil
}

func (g *GalleryService) GetCategory(ctx context.Context, id string) (models.Category, error) {
	var doc CategoryDoc
	if err := g.doJSON(ctx, http.MethodGet, "/categories/"+url.PathEscape(id), nil, &doc); err != nil {
		return models.Category{}, err
	}
	return doc.Model(), nil
}

// CreateCategory posts c and returns the server copy carrying the server id.
func (g *GalleryService) CreateCategory(ctx context.Context, c models.Category) (models.Category, error) {
	req := NewCategoryDoc(c)
	req.ID = ""
	var doc CategoryDoc
	if err := g.doJSON(ctx, http.MethodPost, "/categories", req, &doc); err != nil {
		return models.Category{}, err
	}
	return doc.Model(), nil
}

func (g *GalleryService) UpdateCategory(ctx context.Context, id string, p models.CategoryPatch) (models.Category, error) {
	var doc CategoryDoc
	if err := g.doJSON(ctx, http.MethodPut, "/categories/"+url.PathEscape(id), p, &doc); err != nil {
		return models.Category{}, err
	}
	return doc.Model(), nil
}

func (g *GalleryService) DeleteCategory(ctx context.Context, id string) error {
	return g.doJSON(ctx, http.MethodDelete, "/categories/"+url.PathEscape(id), nil, nil)
}

func (g *GalleryService) ReorderCategory(ctx context.Context, id string, order int) error {
	body := map[string]int{"order": order}
	return g.doJSON(ctx, http.MethodPut, "/categories/"+url.PathEscape(id)+"/reorder", body, nil)
}

// ListAlbums returns the albums of one category, or all albums when categoryID is empty.
func (g *GalleryService) ListAlbums(ctx context.Context, categoryID string) ([]models.Album, error) {
	path := "/albums"
	if categoryID != "" {
		path += "?" + url.Values{"categoryId": {categoryID}}.Encode()
	}
	var docs []AlbumDoc
	if err := g.doJSON(ctx, http.MethodGet, path, nil, &docs); err != nil {
		return nil, err
	}
	return docsToModels[AlbumDoc, models.Album](docs), nil
}

func (g *GalleryService) GetAlbum(ctx context.Context, id string) (models.Album, error) {
	var doc AlbumDoc
	if err := g.doJSON(ctx, http.MethodGet, "/albums/"+url.PathEscape(id), nil, &doc); err != nil {
		return models.Album{}, err
	}
	return doc.Model(), nil
}

func (g *GalleryService) CreateAlbum(ctx context.Context, a models.Album) (models.Album, error) {
	req := NewAlbumDoc(a)
	req.ID = ""
	var doc AlbumDoc
	if err := g.doJSON(ctx, http.MethodPost, "/albums", req, &doc); err != nil {
		return models.Album{}, err
	}
	return doc.Model(), nil
}

func (g *GalleryService) UpdateAlbum(ctx context.Context, id string, p models.AlbumPatch) (models.Album, error) {
	var doc AlbumDoc
	if err := g.doJSON(ctx, http.MethodPut, "/albums/"+url.PathEscape(id), p, &doc); err != nil {
		return models.Album{}, err
	}
	return doc.Model(), nil
}

func (g *GalleryService) DeleteAlbum(ctx context.Context, id string) error {
	return g.doJSON(ctx, http.MethodDelete, "/albums/"+url.PathEscape(id), nil, nil)
}

func (g *GalleryService) ReorderAlbum(ctx context.Context, id, categoryID string, order int) error {
	body := struct {
		CategoryID string `json:"categoryId"`
		Order      int    `json:"order"`
	}{categoryID, order}
	return g.doJSON(ctx, http.MethodPut, "/albums/"+url.PathEscape(id)+"/reorder", body, nil)
}

func (g *GalleryService) ListImages(ctx context.Context, albumID string) ([]models.Image, error) {
	var docs []ImageDoc
	if err := g.doJSON(ctx, http.MethodGet, "/images/album/"+url.PathEscape(albumID), nil, &docs); err != nil {
		return nil, err
	}
	return docsToModels[ImageDoc, models.Image](docs), nil
}

// UploadImage creates an image from an attached file or from an existing URL.
func (g *GalleryService) UploadImage(ctx context.Context, u models.ImageUpload) (models.Image, error) {
	if err := u.Validate(); err != nil {
		return models.Image{}, err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := writeUploadForm(mw, u); err != nil {
		return models.Image{}, err
	}
	if err := mw.Close(); err != nil {
		return models.Image{}, fmt.Errorf("failed to encode upload: %w", err)
	}

	resp, err := g.api.PostMultipart(ctx, "/images", mw.FormDataContentType(), &buf)
	var doc ImageDoc
	if err := decodeResponse(resp, err, http.MethodPost, "/images", &doc); err != nil {
		return models.Image{}, err
	}
	return doc.Model(), nil
}

// BulkUpload sends files as repeated "images" parts and returns the created images.
func (g *GalleryService) BulkUpload(ctx context.Context, albumID string, files []models.UploadFile) ([]models.Image, error) {
	if albumID == "" {
		return nil, shared.Required("albumId", albumID)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		if err := writeFilePart(mw, "images", f); err != nil {
			return nil, err
		}
	}
	if err := mw.WriteField("albumId", albumID); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode upload: %w", err)
	}

	resp, err := g.api.PostMultipart(ctx, "/images/bulk", mw.FormDataContentType(), &buf)
	var result struct {
		Images []ImageDoc `json:"images"`
	}
	if err := decodeResponse(resp, err, http.MethodPost, "/images/bulk", &result); err != nil {
		return nil, err
	}
	return docsToModels[ImageDoc, models.Image](result.Images), nil
}

func (g *GalleryService) UpdateImage(ctx context.Context, id string, p models.ImagePatch) (models.Image, error) {
	var doc ImageDoc
	if err := g.doJSON(ctx, http.MethodPut, "/images/"+url.PathEscape(id), p, &doc); err != nil {
		return models.Image{}, err
	}
	return doc.Model(), nil
}

// ReorderImage has no dedicated endpoint; order goes through the image update.
func (g *GalleryService) ReorderImage(ctx context.Context, id, albumID string, order int) error {
	body := struct {
		Order   int    `json:"order"`
		AlbumID string `json:"albumId,omitempty"`
	}{order, albumID}
	return g.doJSON(ctx, http.MethodPut, "/images/"+url.PathEscape(id), body, nil)
}

func (g *GalleryService) DeleteImage(ctx context.Context, id string) error {
	return g.doJSON(ctx, http.MethodDelete, "/images/"+url.PathEscape(id), nil, nil)
}

// writeUploadForm writes the parts of a single image upload.
func writeUploadForm(mw *multipart.Writer, u models.ImageUpload) error {
	if u.File != nil {
		if err := writeFilePart(mw, "image", *u.File); err != nil {
			return err
		}
	} else if err := mw.WriteField("url", u.URL); err != nil {
		return fmt.Errorf("failed to write url: %w", err)
	}
	if u.Alt != "" {
		if err := mw.WriteField("alt", u.Alt); err != nil {
			return fmt.Errorf("failed to write alt: %w", err)
		}
	}
	if u.File != nil && u.File.Width > 0 {
		if err := mw.WriteField("width", strconv.Itoa(u.File.Width)); err != nil {
			return fmt.Errorf("failed to write width: %w", err)
		}
		if err := mw.WriteField("height", strconv.Itoa(u.File.Height)); err != nil {
			return fmt.Errorf("failed to write height: %w", err)
		}
	}
	if err := mw.WriteField("albumId", u.AlbumID); err != nil {
		return fmt.Errorf("failed to write albumId: %w", err)
	}
	return nil
}

func writeFilePart(mw *multipart.Writer, field string, f models.UploadFile) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(f.Name)))
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("failed to create part for %s: %w", f.Name, err)
	}
	if _, err := part.Write(f.Data); err != nil {
		return fmt.Errorf("failed to write part for %s: %w", f.Name, err)
	}
	return nil
}

func remoteErr(method, path string, err error) error {
	return &shared.RemoteRequestError{Method: method, Path: path, Err: err}
}
