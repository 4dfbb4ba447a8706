// package repositories provides persistence layer implementations for locally stored data.
package repositories

import (
	"database/sql"

	"github.com/desertthunder/vowfolio/internal/models"
)

// Repositories groups every repository over one database connection.
type Repositories struct {
	Sessions *SessionRepository
	Heroes   *HeroImageRepository
}

// New creates the repositories for db.
func New(db *sql.DB) *Repositories {
	return &Repositories{
		Sessions: NewSessionRepository(db),
		Heroes:   NewHeroImageRepository(db),
	}
}

// HeroPages groups stored hero images by page.
func HeroPages(heroes []models.HeroImage) map[string][]models.HeroImage {
	pages := make(map[string][]models.HeroImage)
	for _, h := range heroes {
		pages[h.Page] = append(pages[h.Page], h)
	}
	return pages
}
