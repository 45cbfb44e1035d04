package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/edumirror/mirror-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestTermRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTermRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO terms")).
		WithArgs(int64(9), "Fall 2026", nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), db, &models.Term{ID: 9, Name: "Fall 2026"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTermRepositoryUpsertIsReplaceByPrimaryKey(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTermRepository(db)

	// Re-upserting the same id replaces the row instead of inserting a new one.
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (id) DO UPDATE")).
		WithArgs(int64(9), "Fall 2026", nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), db, &models.Term{ID: 9, Name: "Fall 2026"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO enrollments")).
		WithArgs(int64(10), int64(44), int64(1), nil, nil, "StudentEnrollment", models.EnrollmentStateActive).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Upsert(context.Background(), db, &models.Enrollment{
		ID:       10,
		CourseID: 44,
		UserID:   1,
		Role:     "StudentEnrollment",
		State:    models.EnrollmentStateActive,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryFindByCourseID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "course_id", "user_id", "associated_user_id", "observed_user_id", "role", "enrollment_state"}).
		AddRow(int64(10), int64(44), int64(1), nil, nil, "StudentEnrollment", "active").
		AddRow(int64(11), int64(44), int64(2), nil, nil, "TeacherEnrollment", "active")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, course_id, user_id, associated_user_id, observed_user_id, role, enrollment_state FROM enrollments WHERE course_id = ?")).
		WithArgs(int64(44)).
		WillReturnRows(rows)

	enrollments, err := repo.FindByCourseID(context.Background(), 44)
	require.NoError(t, err)
	require.Len(t, enrollments, 2)
	require.EqualValues(t, 1, enrollments[0].UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradingPeriodRepositoryUpsertCourseLink(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGradingPeriodRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO course_grading_periods")).
		WithArgs(int64(44), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpsertCourseLink(context.Background(), db, models.CourseGradingPeriod{CourseID: 44, GradingPeriodID: 3})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTabRepositoryFindByCourseIDOrdersByPosition(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTabRepository(db)

	rows := sqlmock.NewRows([]string{"id", "course_id", "label", "position", "hidden", "is_external"}).
		AddRow("home", int64(44), "Home", 0, false, false).
		AddRow("grades", int64(44), "Grades", 1, false, false)
	mock.ExpectQuery(regexp.QuoteMeta("FROM tabs WHERE course_id = ? ORDER BY position")).
		WithArgs(int64(44)).
		WillReturnRows(rows)

	tabs, err := repo.FindByCourseID(context.Background(), 44)
	require.NoError(t, err)
	require.Len(t, tabs, 2)
	require.Equal(t, "home", tabs[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryUpsertStampsSyncedAt(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO courses")).
		WithArgs(int64(44), "Biology 101", "BIO-101", nil, false, false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	course := &models.Course{ID: 44, Name: "Biology 101", CourseCode: "BIO-101"}
	before := time.Now().UTC()
	err := repo.Upsert(context.Background(), db, course)
	require.NoError(t, err)
	require.NotNil(t, course.SyncedAt)
	require.False(t, course.SyncedAt.Before(before))
	require.NoError(t, mock.ExpectationsWereMet())
}
