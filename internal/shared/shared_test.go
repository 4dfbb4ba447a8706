package shared

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestSlugify(t *testing.T) {
	tc := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple", in: "Wedding", want: "wedding"},
		{name: "spaces", in: "Pre Wedding Shoots", want: "pre-wedding-shoots"},
		{name: "existing dash", in: "Pre-wedding", want: "pre-wedding"},
		{name: "punctuation", in: "Priya & Arjun's Haldi!", want: "priya-arjuns-haldi"},
		{name: "surrounding whitespace", in: "  Portraits  ", want: "portraits"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLogging(t *testing.T) {
	t.Run("NewLogger writes to buffer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		WithLogger(logger, "component", "store").Info("hello")

		if !strings.Contains(buf.String(), "component=store") {
			t.Errorf("expected child logger fields, got %q", buf.String())
		}
	})

	t.Run("SetLogLevel filters", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		SetLogLevel(logger, log.WarnLevel)
		logger.Info("hidden")

		if buf.Len() != 0 {
			t.Errorf("expected info to be filtered, got %q", buf.String())
		}
	})

	t.Run("ParseLogLevel", func(t *testing.T) {
		if ParseLogLevel("debug") != log.DebugLevel {
			t.Error("expected debug level")
		}
		if ParseLogLevel("nonsense") != log.InfoLevel {
			t.Error("expected info fallback")
		}
		if ParseLogLevel("") != log.InfoLevel {
			t.Error("expected info for empty")
		}
	})

	t.Run("NewFileLogger creates parent dirs", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "tui.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("failed to create file logger: %v", err)
		}
		logger.Info("written")
		if !strings.Contains(mustRead(t, path), "written") {
			t.Error("expected log line in file")
		}
	})
}

func TestErrors(t *testing.T) {
	t.Run("typed errors unwrap to sentinels", func(t *testing.T) {
		cases := []struct {
			err  error
			want error
		}{
			{&NotFoundError{Kind: "album", ID: "a1"}, ErrNotFound},
			{&InvalidPositionError{Position: 9, Size: 3}, ErrInvalidPosition},
			{&RemoteRequestError{Method: "GET", Path: "/categories", Status: 500}, ErrRemoteRequest},
			{&ValidationError{Field: "name", Message: "is required"}, ErrValidation},
		}
		for _, c := range cases {
			wrapped := fmt.Errorf("context: %w", c.err)
			if !errors.Is(wrapped, c.want) {
				t.Errorf("expected %v to match %v", c.err, c.want)
			}
		}
	})

	t.Run("RemoteRequestError keeps transport error", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := &RemoteRequestError{Method: "PUT", Path: "/images/1", Err: cause}
		if !errors.Is(err, cause) || !IsRemote(err) {
			t.Error("expected both cause and sentinel to match")
		}
		if !strings.Contains(err.Error(), "connection refused") {
			t.Errorf("unexpected message %q", err.Error())
		}
	})

	t.Run("errors.As recovers position details", func(t *testing.T) {
		var pe *InvalidPositionError
		err := fmt.Errorf("reorder: %w", &InvalidPositionError{Position: 0, Size: 4})
		if !errors.As(err, &pe) || pe.Size != 4 {
			t.Errorf("expected InvalidPositionError with size 4, got %v", err)
		}
	})

	t.Run("Required", func(t *testing.T) {
		if Required("name", "x") != nil {
			t.Error("expected nil for non-empty")
		}
		if err := Required("name", ""); err == nil || err.Error() != "name: is required" {
			t.Errorf("unexpected error %v", err)
		}
	})
}

func mustRead(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(b)
}
