package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edumirror/mirror-api/internal/models"
)

// CourseRepository handles persistence of mirrored courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// Upsert inserts or replaces a course by primary key, stamping synced_at.
func (r *CourseRepository) Upsert(ctx context.Context, ext sqlx.ExtContext, course *models.Course) error {
	now := time.Now().UTC()
	course.SyncedAt = &now

	const query = `INSERT INTO courses (id, name, course_code, term_id, restrict_enrollments_to_course_dates, access_restricted_by_date, synced_at)
        VALUES (:id, :name, :course_code, :term_id, :restrict_enrollments_to_course_dates, :access_restricted_by_date, :synced_at)
        ON CONFLICT (id) DO UPDATE SET
            name = excluded.name,
            course_code = excluded.course_code,
            term_id = excluded.term_id,
            restrict_enrollments_to_course_dates = excluded.restrict_enrollments_to_course_dates,
            access_restricted_by_date = excluded.access_restricted_by_date,
            synced_at = excluded.synced_at`
	if _, err := sqlx.NamedExecContext(ctx, ext, query, course); err != nil {
		return fmt.Errorf("upsert course: %w", err)
	}
	return nil
}

// FindByID loads a course by identifier.
func (r *CourseRepository) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	query := r.db.Rebind(`SELECT id, name, course_code, term_id, restrict_enrollments_to_course_dates, access_restricted_by_date, synced_at FROM courses WHERE id = ?`)
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}
