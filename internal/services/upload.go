package services

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/vowfolio/internal/models"
	"github.com/desertthunder/vowfolio/internal/shared"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp"
)

// ImageInfo is what [ProbeImage] learns about an upload.
type ImageInfo struct {
	ContentType string
	Width       int
	Height      int
}

// ProbeImage detects the content type of data and, for decodable formats, its pixel size.
//
// Non-image data is rejected. Images whose header cannot be decoded report zero dimensions.
func ProbeImage(data []byte) (ImageInfo, error) {
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return ImageInfo{}, &shared.ValidationError{
			Field:   "image",
			Message: fmt.Sprintf("unsupported file type %s", mt.String()),
		}
	}

	info := ImageInfo{ContentType: mt.String()}
	if i := strings.IndexByte(info.ContentType, ';'); i >= 0 {
		info.ContentType = info.ContentType[:i]
	}

	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		info.Width = cfg.Width
		info.Height = cfg.Height
	}
	return info, nil
}

// NewUploadFile probes data and wraps it as a multipart upload.
func NewUploadFile(name string, data []byte) (*models.UploadFile, error) {
	info, err := ProbeImage(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &models.UploadFile{
		Name:        name,
		ContentType: info.ContentType,
		Data:        data,
		Width:       info.Width,
		Height:      info.Height,
	}, nil
}

// LoadUploadFile reads and probes the file at path.
func LoadUploadFile(path string) (*models.UploadFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return NewUploadFile(filepath.Base(path), data)
}
