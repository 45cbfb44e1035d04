package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/edumirror/mirror-api/internal/models"
)

// SectionRepository handles persistence of mirrored course sections.
type SectionRepository struct {
	db *sqlx.DB
}

// NewSectionRepository constructs the repository.
func NewSectionRepository(db *sqlx.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

// Upsert inserts or replaces a section by primary key.
func (r *SectionRepository) Upsert(ctx context.Context, ext sqlx.ExtContext, section *models.Section) error {
	const query = `INSERT INTO sections (id, course_id, name)
        VALUES (:id, :course_id, :name)
        ON CONFLICT (id) DO UPDATE SET course_id = excluded.course_id, name = excluded.name`
	if _, err := sqlx.NamedExecContext(ctx, ext, query, section); err != nil {
		return fmt.Errorf("upsert section: %w", err)
	}
	return nil
}

// FindByCourseID returns the mirrored sections of a course.
func (r *SectionRepository) FindByCourseID(ctx context.Context, courseID int64) ([]models.Section, error) {
	query := r.db.Rebind(`SELECT id, course_id, name FROM sections WHERE course_id = ?`)
	var sections []models.Section
	if err := r.db.SelectContext(ctx, &sections, query, courseID); err != nil {
		return nil, fmt.Errorf("list course sections: %w", err)
	}
	return sections, nil
}
