// package services defines the [Gallery] interface for the remote gallery API and implements it over HTTP
package services

import (
	"context"

	"github.com/desertthunder/vowfolio/internal/models"
)

// Gallery defines the category, album and image operations of the remote gallery API.
type Gallery interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, c models.Category) (models.Category, error)
	UpdateCategory(ctx context.Context, id string, p models.CategoryPatch) (models.Category, error)
	DeleteCategory(ctx context.Context, id string) error
	ReorderCategory(ctx context.Context, id string, order int) error

	// ListAlbums returns the albums of categoryID, or every album when it is empty.
	ListAlbums(ctx context.Context, categoryID string) ([]models.Album, error)
	CreateAlbum(ctx context.Context, a models.Album) (models.Album, error)
	UpdateAlbum(ctx context.Context, id string, p models.AlbumPatch) (models.Album, error)
	DeleteAlbum(ctx context.Context, id string) error
	ReorderAlbum(ctx context.Context, id, categoryID string, order int) error

	ListImages(ctx context.Context, albumID string) ([]models.Image, error)
	UploadImage(ctx context.Context, u models.ImageUpload) (models.Image, error)
	BulkUpload(ctx context.Context, albumID string, files []models.UploadFile) ([]models.Image, error)
	UpdateImage(ctx context.Context, id string, p models.ImagePatch) (models.Image, error)
	DeleteImage(ctx context.Context, id string) error
	ReorderImage(ctx context.Context, id, albumID string, order int) error
}

var _ Gallery = (*GalleryService)(nil)
