package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/edumirror/mirror-api/internal/models"
)

// GradingPeriodRepository handles persistence of mirrored grading periods and
// their course join rows.
type GradingPeriodRepository struct {
	db *sqlx.DB
}

// NewGradingPeriodRepository constructs the repository.
func NewGradingPeriodRepository(db *sqlx.DB) *GradingPeriodRepository {
	return &GradingPeriodRepository{db: db}
}

// Upsert inserts or replaces a grading period by primary key.
func (r *GradingPeriodRepository) Upsert(ctx context.Context, ext sqlx.ExtContext, period *models.GradingPeriod) error {
	const query = `INSERT INTO grading_periods (id, title, start_date, end_date)
        VALUES (:id, :title, :start_date, :end_date)
        ON CONFLICT (id) DO UPDATE SET
            title = excluded.title,
            start_date = excluded.start_date,
            end_date = excluded.end_date`
	if _, err := sqlx.NamedExecContext(ctx, ext, query, period); err != nil {
		return fmt.Errorf("upsert grading period: %w", err)
	}
	return nil
}

// UpsertCourseLink inserts or replaces a (course, grading period) join row.
func (r *GradingPeriodRepository) UpsertCourseLink(ctx context.Context, ext sqlx.ExtContext, link models.CourseGradingPeriod) error {
	const query = `INSERT INTO course_grading_periods (course_id, grading_period_id)
        VALUES (:course_id, :grading_period_id)
        ON CONFLICT (course_id, grading_period_id) DO NOTHING`
	if _, err := sqlx.NamedExecContext(ctx, ext, query, link); err != nil {
		return fmt.Errorf("upsert course grading period: %w", err)
	}
	return nil
}

// FindByCourseID returns the grading periods linked to a course.
func (r *GradingPeriodRepository) FindByCourseID(ctx context.Context, courseID int64) ([]models.GradingPeriod, error) {
	query := r.db.Rebind(`SELECT gp.id, gp.title, gp.start_date, gp.end_date
        FROM grading_periods gp
        JOIN course_grading_periods cgp ON cgp.grading_period_id = gp.id
        WHERE cgp.course_id = ?`)
	var periods []models.GradingPeriod
	if err := r.db.SelectContext(ctx, &periods, query, courseID); err != nil {
		return nil, fmt.Errorf("list course grading periods: %w", err)
	}
	return periods, nil
}
