package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/edumirror/mirror-api/internal/models"
)

// EnrollmentRepository handles persistence of mirrored enrollments and their
// grade snapshots.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Upsert inserts or replaces an enrollment by primary key. The referenced
// course and user rows must already exist or be written in the same
// transaction.
func (r *EnrollmentRepository) Upsert(ctx context.Context, ext sqlx.ExtContext, enrollment *models.Enrollment) error {
	const query = `INSERT INTO enrollments (id, course_id, user_id, associated_user_id, observed_user_id, role, enrollment_state)
        VALUES (:id, :course_id, :user_id, :associated_user_id, :observed_user_id, :role, :enrollment_state)
        ON CONFLICT (id) DO UPDATE SET
            course_id = excluded.course_id,
            user_id = excluded.user_id,
            associated_user_id = excluded.associated_user_id,
            observed_user_id = excluded.observed_user_id,
            role = excluded.role,
            enrollment_state = excluded.enrollment_state`
	if _, err := sqlx.NamedExecContext(ctx, ext, query, enrollment); err != nil {
		return fmt.Errorf("upsert enrollment: %w", err)
	}
	return nil
}

// UpsertGrades inserts or replaces a grade snapshot keyed by enrollment id.
func (r *EnrollmentRepository) UpsertGrades(ctx context.Context, ext sqlx.ExtContext, grades *models.Grades) error {
	const query = `INSERT INTO enrollment_grades (enrollment_id, current_score, final_score, current_grade, final_grade)
        VALUES (:enrollment_id, :current_score, :final_score, :current_grade, :final_grade)
        ON CONFLICT (enrollment_id) DO UPDATE SET
            current_score = excluded.current_score,
            final_score = excluded.final_score,
            current_grade = excluded.current_grade,
            final_grade = excluded.final_grade`
	if _, err := sqlx.NamedExecContext(ctx, ext, query, grades); err != nil {
		return fmt.Errorf("upsert enrollment grades: %w", err)
	}
	return nil
}

// FindByCourseID returns the mirrored enrollments of a course.
func (r *EnrollmentRepository) FindByCourseID(ctx context.Context, courseID int64) ([]models.Enrollment, error) {
	query := r.db.Rebind(`SELECT id, course_id, user_id, associated_user_id, observed_user_id, role, enrollment_state FROM enrollments WHERE course_id = ?`)
	var enrollments []models.Enrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, courseID); err != nil {
		return nil, fmt.Errorf("list course enrollments: %w", err)
	}
	return enrollments, nil
}
