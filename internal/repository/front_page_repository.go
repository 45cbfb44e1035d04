package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/edumirror/mirror-api/internal/models"
)

// FrontPageRepository handles persistence of mirrored course front pages.
type FrontPageRepository struct {
	db *sqlx.DB
}

// NewFrontPageRepository constructs the repository.
func NewFrontPageRepository(db *sqlx.DB) *FrontPageRepository {
	return &FrontPageRepository{db: db}
}

// Upsert inserts or replaces a course's front page.
func (r *FrontPageRepository) Upsert(ctx context.Context, ext sqlx.ExtContext, page *models.FrontPage) error {
	const query = `INSERT INTO front_pages (course_id, url, title, body, updated_at)
        VALUES (:course_id, :url, :title, :body, :updated_at)
        ON CONFLICT (course_id) DO UPDATE SET
            url = excluded.url,
            title = excluded.title,
            body = excluded.body,
            updated_at = excluded.updated_at`
	if _, err := sqlx.NamedExecContext(ctx, ext, query, page); err != nil {
		return fmt.Errorf("upsert front page: %w", err)
	}
	return nil
}

// FindByCourseID loads the front page mirrored for a course.
func (r *FrontPageRepository) FindByCourseID(ctx context.Context, courseID int64) (*models.FrontPage, error) {
	query := r.db.Rebind(`SELECT course_id, url, title, body, updated_at FROM front_pages WHERE course_id = ?`)
	var page models.FrontPage
	if err := r.db.GetContext(ctx, &page, query, courseID); err != nil {
		return nil, err
	}
	return &page, nil
}
