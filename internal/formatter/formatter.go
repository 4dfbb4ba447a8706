// package formatter exports the gallery tree to various formats (JSON, CSV, Markdown)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/vowfolio/internal/models"
	"github.com/desertthunder/vowfolio/internal/shared"
	"github.com/desertthunder/vowfolio/internal/store"
)

// Format names an export encoding.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// ParseFormat accepts a format name or a common alias ("md").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", &shared.ValidationError{Field: "format", Message: fmt.Sprintf("unsupported format %q", s)}
	}
}

// Extension returns the file extension used for f, without the dot.
func (f Format) Extension() string {
	if f == FormatMarkdown {
		return "md"
	}
	return string(f)
}

// GalleryExport is the full tree: categories with embedded albums and images, plus hero images.
type GalleryExport struct {
	ExportedAt time.Time          `json:"exportedAt"`
	Categories []models.Category  `json:"categories"`
	HeroImages []models.HeroImage `json:"heroImages"`
}

// NewGalleryExport snapshots s. Hero images are grouped by page, pages sorted by name.
func NewGalleryExport(s *store.Store, at time.Time) *GalleryExport {
	e := &GalleryExport{ExportedAt: at.UTC(), Categories: s.Categories()}
	for _, page := range s.Pages() {
		e.HeroImages = append(e.HeroImages, s.HeroImages(page)...)
	}
	return e
}

// Counts returns the number of albums and images in the tree.
func (e *GalleryExport) Counts() (albums, images int) {
	for _, c := range e.Categories {
		albums += len(c.Albums)
		for _, a := range c.Albums {
			images += len(a.Images)
		}
	}
	return albums, images
}

// Export encodes e in format f.
func Export(e *GalleryExport, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return ExportToJSON(e)
	case FormatCSV:
		return ExportToCSV(e)
	case FormatMarkdown:
		return ExportToMarkdown(e)
	default:
		return nil, &shared.ValidationError{Field: "format", Message: fmt.Sprintf("unsupported format %q", f)}
	}
}

// ExportToJSON renders the tree as indented JSON.
func ExportToJSON(e *GalleryExport) ([]byte, error) {
	return shared.MarshalJSON(e, true)
}

// ExportToCSV flattens the tree with columns: Kind, ID, Parent, Order, Name, Slug, URL
//
// Rows are emitted depth first in position order, hero images last.
func ExportToCSV(e *GalleryExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Kind", "ID", "Parent", "Order", "Name", "Slug", "URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	var records [][]string
	for _, c := range e.Categories {
		records = append(records, []string{
			models.KindCategory.String(), c.ID, "", strconv.Itoa(c.Order), c.Name, c.Slug, c.ThumbnailURL,
		})
		for _, a := range c.Albums {
			records = append(records, []string{
				models.KindAlbum.String(), a.ID, a.CategoryID, strconv.Itoa(a.Order), a.Name, a.Slug, a.ThumbnailURL,
			})
			for _, img := range a.Images {
				records = append(records, []string{
					models.KindImage.String(), img.ID, img.AlbumID, strconv.Itoa(img.Order), img.Alt, "", img.URL,
				})
			}
		}
	}
	for _, h := range e.HeroImages {
		records = append(records, []string{
			models.KindHeroImage.String(), h.ID, h.Page, strconv.Itoa(h.Order), h.Alt, "", h.URL,
		})
	}

	if err := writer.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to write CSV record: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportToMarkdown renders the tree as nested Markdown lists under per-category headings.
func ExportToMarkdown(e *GalleryExport) ([]byte, error) {
	var buf bytes.Buffer

	albums, images := e.Counts()
	buf.WriteString("# Gallery\n\n")
	if !e.ExportedAt.IsZero() {
		buf.WriteString(fmt.Sprintf("**Exported**: %s\n", e.ExportedAt.Format(time.RFC3339)))
	}
	buf.WriteString(fmt.Sprintf("**Categories**: %d\n", len(e.Categories)))
	buf.WriteString(fmt.Sprintf("**Albums**: %d\n", albums))
	buf.WriteString(fmt.Sprintf("**Images**: %d\n\n", images))

	for _, c := range e.Categories {
		buf.WriteString(fmt.Sprintf("## %d. %s\n\n", c.Order, c.Name))
		if c.Description != "" {
			buf.WriteString(c.Description + "\n\n")
		}
		if len(c.Albums) == 0 {
			buf.WriteString("_No albums_\n\n")
			continue
		}
		for _, a := range c.Albums {
			buf.WriteString(fmt.Sprintf("%d. **%s** (`%s`, %d images)\n", a.Order, a.Name, a.Slug, len(a.Images)))
			for _, img := range a.Images {
				alt := img.Alt
				if alt == "" {
					alt = img.ID
				}
				buf.WriteString(fmt.Sprintf("    %d. [%s](%s)\n", img.Order, alt, img.URL))
			}
		}
		buf.WriteString("\n")
	}

	if len(e.HeroImages) > 0 {
		buf.WriteString("## Hero Images\n\n")
		page := ""
		for _, h := range e.HeroImages {
			if h.Page != page {
				page = h.Page
				buf.WriteString(fmt.Sprintf("### %s\n\n", page))
			}
			buf.WriteString(fmt.Sprintf("%d. ![%s](%s)\n", h.Order, h.Alt, h.URL))
		}
	}

	return buf.Bytes(), nil
}

// WriteExport encodes e and writes it to path.
//
// An empty path defaults to gallery.{ext} in the working directory. Missing parent
// directories are created.
func WriteExport(e *GalleryExport, f Format, path string) (string, error) {
	if path == "" {
		path = "gallery." + f.Extension()
	}

	data, err := Export(e, f)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", f, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}
