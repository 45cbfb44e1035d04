package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/edumirror/mirror-api/internal/models"
)

// TabRepository handles persistence of mirrored course tabs. Tab ids are
// server-issued strings unique within a course, so rows key on (id, course_id).
type TabRepository struct {
	db *sqlx.DB
}

// NewTabRepository constructs the repository.
func NewTabRepository(db *sqlx.DB) *TabRepository {
	return &TabRepository{db: db}
}

// Upsert inserts or replaces a tab by its composite key.
func (r *TabRepository) Upsert(ctx context.Context, ext sqlx.ExtContext, tab *models.Tab) error {
	const query = `INSERT INTO tabs (id, course_id, label, position, hidden, is_external)
        VALUES (:id, :course_id, :label, :position, :hidden, :is_external)
        ON CONFLICT (id, course_id) DO UPDATE SET
            label = excluded.label,
            position = excluded.position,
            hidden = excluded.hidden,
            is_external = excluded.is_external`
	if _, err := sqlx.NamedExecContext(ctx, ext, query, tab); err != nil {
		return fmt.Errorf("upsert tab: %w", err)
	}
	return nil
}

// FindByCourseID returns the mirrored tabs of a course in display order.
func (r *TabRepository) FindByCourseID(ctx context.Context, courseID int64) ([]models.Tab, error) {
	query := r.db.Rebind(`SELECT id, course_id, label, position, hidden, is_external FROM tabs WHERE course_id = ? ORDER BY position`)
	var tabs []models.Tab
	if err := r.db.SelectContext(ctx, &tabs, query, courseID); err != nil {
		return nil, fmt.Errorf("list course tabs: %w", err)
	}
	return tabs, nil
}
