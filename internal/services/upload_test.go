package services

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/vowfolio/internal/shared"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func TestProbeImage(t *testing.T) {
	t.Run("PNG", func(t *testing.T) {
		info, err := ProbeImage(pngBytes(t, 12, 7))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if info.ContentType != "image/png" || info.Width != 12 || info.Height != 7 {
			t.Errorf("unexpected info %+v", info)
		}
	})

	t.Run("Truncated Image Has No Dimensions", func(t *testing.T) {
		data := pngBytes(t, 2, 2)[:12]
		info, err := ProbeImage(data)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if info.ContentType != "image/png" || info.Width != 0 {
			t.Errorf("unexpected info %+v", info)
		}
	})

	t.Run("Rejects Non-Image", func(t *testing.T) {
		_, err := ProbeImage([]byte("just some text"))
		if !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})
}

func TestLoadUploadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "first-dance.png")
	if err := os.WriteFile(path, pngBytes(t, 3, 5), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := LoadUploadFile(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if f.Name != "first-dance.png" || f.Width != 3 || f.Height != 5 {
		t.Errorf("unexpected upload file %+v", f)
	}

	if _, err := LoadUploadFile(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
}
