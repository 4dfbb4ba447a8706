package services

import "github.com/desertthunder/vowfolio/internal/models"

// CategoryDoc is the wire form of a category.
type CategoryDoc struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Slug         string `json:"slug,omitempty"`
	Description  string `json:"description,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Order        int    `json:"order"`
}

// AlbumDoc is the wire form of an album. The API calls the thumbnail coverImage.
type AlbumDoc struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Slug        string `json:"slug,omitempty"`
	Description string `json:"description,omitempty"`
	CoverImage  string `json:"coverImage,omitempty"`
	CategoryID  string `json:"categoryId"`
	Order       int    `json:"order"`
}

// ImageDoc is the wire form of an image.
type ImageDoc struct {
	ID           string `json:"_id"`
	URL          string `json:"url"`
	Alt          string `json:"alt,omitempty"`
	AlbumID      string `json:"albumId"`
	Order        int    `json:"order"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
}

func (d CategoryDoc) Model() models.Category {
	return models.Category{
		ID:           d.ID,
		Name:         d.Name,
		Slug:         d.Slug,
		Description:  d.Description,
		ThumbnailURL: d.ThumbnailURL,
		Order:        d.Order,
	}
}

func (d AlbumDoc) Model() models.Album {
	return models.Album{
		ID:           d.ID,
		Name:         d.Name,
		Slug:         d.Slug,
		Description:  d.Description,
		ThumbnailURL: d.CoverImage,
		CategoryID:   d.CategoryID,
		Order:        d.Order,
	}
}

func (d ImageDoc) Model() models.Image {
	return models.Image{
		ID:           d.ID,
		URL:          d.URL,
		Alt:          d.Alt,
		AlbumID:      d.AlbumID,
		Order:        d.Order,
		ThumbnailURL: d.ThumbnailURL,
		Width:        d.Width,
		Height:       d.Height,
	}
}

// NewCategoryDoc converts a category to its wire form.
func NewCategoryDoc(c models.Category) CategoryDoc {
	return CategoryDoc{
		ID:           c.ID,
		Name:         c.Name,
		Slug:         c.Slug,
		Description:  c.Description,
		ThumbnailURL: c.ThumbnailURL,
		Order:        c.Order,
	}
}

// NewAlbumDoc converts an album to its wire form.
func NewAlbumDoc(a models.Album) AlbumDoc {
	return AlbumDoc{
		ID:          a.ID,
		Name:        a.Name,
		Slug:        a.Slug,
		Description: a.Description,
		CoverImage:  a.ThumbnailURL,
		CategoryID:  a.CategoryID,
		Order:       a.Order,
	}
}

// NewImageDoc converts an image to its wire form.
func NewImageDoc(i models.Image) ImageDoc {
	return ImageDoc{
		ID:           i.ID,
		URL:          i.URL,
		Alt:          i.Alt,
		AlbumID:      i.AlbumID,
		Order:        i.Order,
		ThumbnailURL: i.ThumbnailURL,
		Width:        i.Width,
		Height:       i.Height,
	}
}

func docsToModels[D interface{ Model() M }, M any](docs []D) []M {
	out := make([]M, len(docs))
	for i, d := range docs {
		out[i] = d.Model()
	}
	return out
}
