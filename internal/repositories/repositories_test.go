package repositories

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/vowfolio/internal/models"
	"github.com/desertthunder/vowfolio/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	shared.ConfigureDatabase(db, 1, 1)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func TestSessionRepository(t *testing.T) {
	t.Run("Current Without Session", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		if _, err := repo.Current(); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("Save And Current", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))
		s := &models.Session{Token: "tok-1", User: models.User{ID: "u1", Email: "ana@example.com", Name: "Ana"}}

		if err := repo.Save(s); err != nil {
			t.Fatalf("failed to save session: %v", err)
		}
		if s.ID == "" {
			t.Error("session ID should be set after save")
		}

		current, err := repo.Current()
		if err != nil {
			t.Fatalf("failed to get session: %v", err)
		}
		if current.Token != "tok-1" || current.User != s.User {
			t.Errorf("unexpected session %+v", current)
		}
	})

	t.Run("Save Replaces Previous", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSessionRepository(db)

		repo.Save(&models.Session{Token: "old", CreatedAt: time.Now().Add(-time.Hour)})
		repo.Save(&models.Session{Token: "new"})

		var count int
		db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&count)
		if count != 1 {
			t.Errorf("expected 1 session row, got %d", count)
		}
		current, _ := repo.Current()
		if current == nil || current.Token != "new" {
			t.Errorf("expected newest token, got %+v", current)
		}
	})

	t.Run("Save Requires Token", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))
		if err := repo.Save(&models.Session{}); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))
		repo.Save(&models.Session{Token: "tok"})

		if err := repo.Clear(); err != nil {
			t.Fatalf("failed to clear: %v", err)
		}
		if _, err := repo.Current(); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated after clear, got %v", err)
		}
	})
}

func heroPage(page string, ids ...string) []models.HeroImage {
	heroes := make([]models.HeroImage, len(ids))
	for i, id := range ids {
		heroes[i] = models.HeroImage{ID: id, Page: page, URL: "https://x/" + id + ".jpg", Order: i + 1}
	}
	return heroes
}

func TestHeroImageRepository(t *testing.T) {
	t.Run("ReplacePage And ListByPage", func(t *testing.T) {
		repo := NewHeroImageRepository(setupTestDB(t))

		if err := repo.ReplacePage("home", heroPage("home", "h1", "h2", "h3")); err != nil {
			t.Fatalf("failed to replace page: %v", err)
		}
		if err := repo.ReplacePage("about", heroPage("about", "h4")); err != nil {
			t.Fatalf("failed to replace page: %v", err)
		}

		home, err := repo.ListByPage("home")
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(home) != 3 || home[0].ID != "h1" || home[2].Order != 3 {
			t.Errorf("unexpected home page %+v", home)
		}

		all, _ := repo.List()
		pages := HeroPages(all)
		if len(pages) != 2 || len(pages["about"]) != 1 {
			t.Errorf("unexpected pages %v", pages)
		}
	})

	t.Run("ReplacePage Reorders", func(t *testing.T) {
		repo := NewHeroImageRepository(setupTestDB(t))
		repo.ReplacePage("home", heroPage("home", "h1", "h2", "h3"))

		if err := repo.ReplacePage("home", heroPage("home", "h3", "h1", "h2")); err != nil {
			t.Fatalf("failed to replace page: %v", err)
		}

		home, _ := repo.ListByPage("home")
		got := ""
		for _, h := range home {
			got += h.ID
		}
		if got != "h3h1h2" {
			t.Errorf("expected h3h1h2, got %s", got)
		}
	})

	t.Run("ReplacePage Moves Between Pages", func(t *testing.T) {
		repo := NewHeroImageRepository(setupTestDB(t))
		repo.ReplacePage("home", heroPage("home", "h1", "h2"))

		if err := repo.ReplacePage("about", heroPage("about", "h2")); err != nil {
			t.Fatalf("failed to move: %v", err)
		}
		home, _ := repo.ListByPage("home")
		if len(home) != 1 || home[0].ID != "h1" {
			t.Errorf("expected h2 to leave home, got %+v", home)
		}
	})

	t.Run("ReplacePage Rejects Foreign Page", func(t *testing.T) {
		repo := NewHeroImageRepository(setupTestDB(t))
		if err := repo.ReplacePage("home", heroPage("about", "h1")); err == nil {
			t.Error("expected error for mismatched page")
		}
	})

	t.Run("ReplacePage Rolls Back On Invalid Image", func(t *testing.T) {
		repo := NewHeroImageRepository(setupTestDB(t))
		repo.ReplacePage("home", heroPage("home", "h1"))

		bad := heroPage("home", "h2")
		bad[0].URL = ""
		if err := repo.ReplacePage("home", bad); !errors.Is(err, shared.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
		home, _ := repo.ListByPage("home")
		if len(home) != 1 || home[0].ID != "h1" {
			t.Errorf("expected page to be unchanged, got %+v", home)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewHeroImageRepository(setupTestDB(t))
		repo.ReplacePage("home", heroPage("home", "h1"))

		if err := repo.Delete("h1"); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}
		if err := repo.Delete("h1"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
