package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/vowfolio/internal/models"
	"github.com/desertthunder/vowfolio/internal/shared"
)

// HeroImageRepository persists hero images per page.
//
// The gallery API has no hero endpoint, so this table is the system of record for them.
type HeroImageRepository struct {
	db *sql.DB
}

// NewHeroImageRepository creates a new [HeroImageRepository] with the given database connection
func NewHeroImageRepository(db *sql.DB) *HeroImageRepository {
	return &HeroImageRepository{db: db}
}

// List returns every hero image ordered by page then position.
func (r *HeroImageRepository) List() ([]models.HeroImage, error) {
	return r.query(`
		SELECT id, page, url, alt, position FROM hero_images ORDER BY page, position
	`)
}

// ListByPage returns the hero images of one page in position order.
func (r *HeroImageRepository) ListByPage(page string) ([]models.HeroImage, error) {
	return r.query(`
		SELECT id, page, url, alt, position FROM hero_images WHERE page = ? ORDER BY position
	`, page)
}

func (r *HeroImageRepository) query(query string, args ...any) ([]models.HeroImage, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query hero images: %w", err)
	}
	defer rows.Close()

	var heroes []models.HeroImage
	for rows.Next() {
		var h models.HeroImage
		if err := rows.Scan(&h.ID, &h.Page, &h.URL, &h.Alt, &h.Order); err != nil {
			return nil, fmt.Errorf("failed to scan hero image: %w", err)
		}
		heroes = append(heroes, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate hero images: %w", err)
	}
	return heroes, nil
}

// ReplacePage atomically overwrites the stored images of page with heroes.
//
// Positions are written as given; callers pass a dense sibling group.
func (r *HeroImageRepository) ReplacePage(page string, heroes []models.HeroImage) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM hero_images WHERE page = ?", page); err != nil {
		return fmt.Errorf("failed to clear page %s: %w", page, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO hero_images (id, page, url, alt, position, updated_at) VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, h := range heroes {
		if h.Page != page {
			return fmt.Errorf("hero image %s belongs to page %q, not %q", h.ID, h.Page, page)
		}
		if err := h.Validate(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		// a page move leaves the old row behind under the previous page
		if _, err := tx.Exec("DELETE FROM hero_images WHERE id = ?", h.ID); err != nil {
			return fmt.Errorf("failed to clear hero image %s: %w", h.ID, err)
		}
		if _, err := stmt.Exec(h.ID, h.Page, h.URL, h.Alt, h.Order, now); err != nil {
			return fmt.Errorf("failed to insert hero image %s: %w", h.ID, err)
		}
	}

	return tx.Commit()
}

// Delete removes one hero image. Sibling positions are not touched.
func (r *HeroImageRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM hero_images WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete hero image: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &shared.NotFoundError{Kind: models.KindHeroImage.String(), ID: id}
	}
	return nil
}
