package models

import (
	"time"

	"github.com/desertthunder/vowfolio/internal/shared"
)

// Kind identifies an ordered entity type.
type Kind int

const (
	KindHeroImage Kind = iota
	KindCategory
	KindAlbum
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindHeroImage:
		return "hero image"
	case KindCategory:
		return "category"
	case KindAlbum:
		return "album"
	case KindImage:
		return "image"
	default:
		return ""
	}
}

// HeroImage is a banner image shown at the top of a site page.
type HeroImage struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Alt   string `json:"alt"`
	Page  string `json:"page"`
	Order int    `json:"order"`
}

func (h HeroImage) Validate() error {
	if err := shared.Required("url", h.URL); err != nil {
		return err
	}
	return shared.Required("page", h.Page)
}

// Category is a top level grouping of albums.
type Category struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	Description  string  `json:"description,omitempty"`
	ThumbnailURL string  `json:"thumbnailUrl,omitempty"`
	Order        int     `json:"order"`
	Albums       []Album `json:"albums"`
}

func (c Category) Validate() error {
	return shared.Required("name", c.Name)
}

// Album groups images within a category.
type Album struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	Description  string  `json:"description,omitempty"`
	ThumbnailURL string  `json:"thumbnailUrl,omitempty"`
	CategoryID   string  `json:"categoryId"`
	Order        int     `json:"order"`
	Images       []Image `json:"images"`
}

func (a Album) Validate() error {
	if err := shared.Required("name", a.Name); err != nil {
		return err
	}
	return shared.Required("categoryId", a.CategoryID)
}

// Image is a single photo within an album.
type Image struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	Alt          string `json:"alt,omitempty"`
	AlbumID      string `json:"albumId"`
	Order        int    `json:"order"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
}

func (i Image) Validate() error {
	if err := shared.Required("url", i.URL); err != nil {
		return err
	}
	return shared.Required("albumId", i.AlbumID)
}

// HeroImagePatch holds optional hero image changes. Nil fields are left untouched.
type HeroImagePatch struct {
	URL  *string `json:"url,omitempty"`
	Alt  *string `json:"alt,omitempty"`
	Page *string `json:"page,omitempty"`
}

// CategoryPatch holds optional category changes.
type CategoryPatch struct {
	Name         *string `json:"name,omitempty"`
	Slug         *string `json:"slug,omitempty"`
	Description  *string `json:"description,omitempty"`
	ThumbnailURL *string `json:"thumbnailUrl,omitempty"`
}

// AlbumPatch holds optional album changes. A new CategoryID moves the album.
type AlbumPatch struct {
	Name         *string `json:"name,omitempty"`
	Slug         *string `json:"slug,omitempty"`
	Description  *string `json:"description,omitempty"`
	ThumbnailURL *string `json:"coverImage,omitempty"`
	CategoryID   *string `json:"categoryId,omitempty"`
}

// ImagePatch holds optional image changes. A new AlbumID moves the image.
type ImagePatch struct {
	URL          *string `json:"url,omitempty"`
	Alt          *string `json:"alt,omitempty"`
	AlbumID      *string `json:"albumId,omitempty"`
	ThumbnailURL *string `json:"thumbnailUrl,omitempty"`
}

// UploadFile is a file to send as a multipart part.
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
	Width       int
	Height      int
}

// ImageUpload creates an image from either a file or an existing URL.
type ImageUpload struct {
	AlbumID string
	Alt     string
	URL     string
	File    *UploadFile
}

func (u ImageUpload) Validate() error {
	if err := shared.Required("albumId", u.AlbumID); err != nil {
		return err
	}
	if u.File == nil && u.URL == "" {
		return &shared.ValidationError{Message: "No image file or URL provided"}
	}
	return nil
}

// User is the identity carried in the API bearer token.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Session is a stored bearer token together with its decoded user.
type Session struct {
	ID        string
	Token     string
	User      User
	CreatedAt time.Time
}

// String returns a pointer to s, for building patches.
func String(s string) *string { return &s }
