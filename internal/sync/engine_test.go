package sync

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/edumirror/mirror-api/internal/models"
	"github.com/edumirror/mirror-api/internal/repository"
	appErrors "github.com/edumirror/mirror-api/pkg/errors"
)

type fakeAPI struct {
	mu          sync.Mutex
	courses     map[int64]*models.Course
	courseErrs  map[int64]error
	users       map[int64]*models.User
	userErr     error
	tabs        map[int64][]models.Tab
	frontPages  map[int64]*models.FrontPage
	block       chan struct{}
	courseCalls int
}

func (f *fakeAPI) GetCourse(_ context.Context, courseID int64) (*models.Course, error) {
	f.mu.Lock()
	f.courseCalls++
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
	if err := f.courseErrs[courseID]; err != nil {
		return nil, err
	}
	course, ok := f.courses[courseID]
	if !ok {
		return nil, errors.New("course not found")
	}
	return course, nil
}

func (f *fakeAPI) GetUser(_ context.Context, userID int64) (*models.User, error) {
	if f.userErr != nil {
		return nil, f.userErr
	}
	user, ok := f.users[userID]
	if !ok {
		return nil, errors.New("user not found")
	}
	return user, nil
}

func (f *fakeAPI) ListTabs(_ context.Context, courseID int64) ([]models.Tab, error) {
	return f.tabs[courseID], nil
}

func (f *fakeAPI) GetFrontPage(_ context.Context, courseID int64) (*models.FrontPage, error) {
	return f.frontPages[courseID], nil
}

func (f *fakeAPI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.courseCalls
}

func newEngineMock(t *testing.T, api *fakeAPI) (*Engine, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	stores := Stores{
		Terms:          repository.NewTermRepository(sqlxDB),
		Courses:        repository.NewCourseRepository(sqlxDB),
		Users:          repository.NewUserRepository(sqlxDB),
		Enrollments:    repository.NewEnrollmentRepository(sqlxDB),
		GradingPeriods: repository.NewGradingPeriodRepository(sqlxDB),
		Sections:       repository.NewSectionRepository(sqlxDB),
		Tabs:           repository.NewTabRepository(sqlxDB),
		FrontPages:     repository.NewFrontPageRepository(sqlxDB),
	}
	return NewEngine(api, sqlxDB, stores, nil), mock, func() { db.Close() }
}

func exec(mock sqlmock.Sqlmock, fragment string) *sqlmock.ExpectedExec {
	return mock.ExpectExec(regexp.QuoteMeta(fragment))
}

func TestSyncCourseWritesSnapshotInDependencyOrder(t *testing.T) {
	score := 91.5
	grade := "A-"
	course := &models.Course{
		ID:         44,
		Name:       "Biology 101",
		CourseCode: "BIO-101",
		Term:       &models.Term{ID: 9, Name: "Fall 2026"},
		Enrollments: []models.Enrollment{
			{
				ID:     10,
				UserID: 1,
				Role:   "StudentEnrollment",
				State:  models.EnrollmentStateActive,
				User:   &models.User{ID: 1, Name: "Ada Lovelace"},
				Grades: &models.Grades{CurrentScore: &score, CurrentGrade: &grade},
			},
			{
				ID:     11,
				UserID: 2,
				Role:   "TeacherEnrollment",
				State:  models.EnrollmentStateActive,
			},
		},
		GradingPeriods: []models.GradingPeriod{{ID: 3, Title: "Q1"}},
		Sections:       []models.Section{{ID: 500, Name: "Section A"}},
	}
	api := &fakeAPI{
		courses: map[int64]*models.Course{44: course},
		users:   map[int64]*models.User{2: {ID: 2, Name: "Grace Hopper"}},
		tabs: map[int64][]models.Tab{44: {
			{ID: "home", Label: "Home", Position: 0},
			{ID: "grades", Label: "Grades", Position: 1},
		}},
		frontPages: map[int64]*models.FrontPage{44: {URL: "front-page", Title: "Welcome", Body: "<p>hi</p>"}},
	}
	engine, mock, cleanup := newEngineMock(t, api)
	defer cleanup()

	ok := sqlmock.NewResult(0, 1)
	mock.ExpectBegin()
	exec(mock, "INSERT INTO terms").WithArgs(int64(9), "Fall 2026", nil, nil).WillReturnResult(ok)
	exec(mock, "INSERT INTO courses").
		WithArgs(int64(44), "Biology 101", "BIO-101", int64(9), false, false, sqlmock.AnyArg()).
		WillReturnResult(ok)
	exec(mock, "INSERT INTO users").WithArgs(int64(1), "Ada Lovelace", "", "", "").WillReturnResult(ok)
	exec(mock, "INSERT INTO enrollments").
		WithArgs(int64(10), int64(44), int64(1), nil, nil, "StudentEnrollment", "active").
		WillReturnResult(ok)
	exec(mock, "INSERT INTO enrollment_grades").
		WithArgs(int64(10), 91.5, nil, "A-", nil).
		WillReturnResult(ok)
	exec(mock, "INSERT INTO users").WithArgs(int64(2), "Grace Hopper", "", "", "").WillReturnResult(ok)
	exec(mock, "INSERT INTO enrollments").
		WithArgs(int64(11), int64(44), int64(2), nil, nil, "TeacherEnrollment", "active").
		WillReturnResult(ok)
	exec(mock, "INSERT INTO grading_periods").WithArgs(int64(3), "Q1", nil, nil).WillReturnResult(ok)
	exec(mock, "INSERT INTO course_grading_periods").WithArgs(int64(44), int64(3)).WillReturnResult(ok)
	exec(mock, "INSERT INTO sections").WithArgs(int64(500), int64(44), "Section A").WillReturnResult(ok)
	exec(mock, "INSERT INTO tabs").WithArgs("home", int64(44), "Home", 0, false, false).WillReturnResult(ok)
	exec(mock, "INSERT INTO tabs").WithArgs("grades", int64(44), "Grades", 1, false, false).WillReturnResult(ok)
	exec(mock, "INSERT INTO front_pages").
		WithArgs(int64(44), "front-page", "Welcome", "<p>hi</p>", nil).
		WillReturnResult(ok)
	mock.ExpectCommit()

	err := engine.SyncCourse(context.Background(), 44)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncCourseTwiceReplaysIdenticalUpserts(t *testing.T) {
	score := 88.0
	course := &models.Course{
		ID:         44,
		Name:       "Biology 101",
		CourseCode: "BIO-101",
		Term:       &models.Term{ID: 9, Name: "Fall 2026"},
		Enrollments: []models.Enrollment{
			{
				ID:     10,
				UserID: 1,
				Role:   "StudentEnrollment",
				State:  models.EnrollmentStateActive,
				User:   &models.User{ID: 1, Name: "Ada Lovelace"},
				Grades: &models.Grades{CurrentScore: &score},
			},
		},
	}
	api := &fakeAPI{
		courses: map[int64]*models.Course{44: course},
		tabs:    map[int64][]models.Tab{44: {{ID: "home", Label: "Home", Position: 0}}},
	}
	engine, mock, cleanup := newEngineMock(t, api)
	defer cleanup()

	// Every write is an insert-or-replace keyed by primary key, so a second
	// run over identical remote data lands the exact same statement sequence
	// and leaves the row count per table unchanged.
	ok := sqlmock.NewResult(0, 1)
	expectRun := func() {
		mock.ExpectBegin()
		exec(mock, "INSERT INTO terms").WithArgs(int64(9), "Fall 2026", nil, nil).WillReturnResult(ok)
		exec(mock, "INSERT INTO courses").
			WithArgs(int64(44), "Biology 101", "BIO-101", int64(9), false, false, sqlmock.AnyArg()).
			WillReturnResult(ok)
		exec(mock, "INSERT INTO users").WithArgs(int64(1), "Ada Lovelace", "", "", "").WillReturnResult(ok)
		exec(mock, "INSERT INTO enrollments").
			WithArgs(int64(10), int64(44), int64(1), nil, nil, "StudentEnrollment", "active").
			WillReturnResult(ok)
		exec(mock, "INSERT INTO enrollment_grades").
			WithArgs(int64(10), 88.0, nil, nil, nil).
			WillReturnResult(ok)
		exec(mock, "INSERT INTO tabs").WithArgs("home", int64(44), "Home", 0, false, false).WillReturnResult(ok)
		mock.ExpectCommit()
	}
	expectRun()
	expectRun()

	require.NoError(t, engine.SyncCourse(context.Background(), 44))
	require.NoError(t, engine.SyncCourse(context.Background(), 44))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncCourseFetchFailureLeavesMirrorUntouched(t *testing.T) {
	course := &models.Course{
		ID:   44,
		Name: "Biology 101",
		Enrollments: []models.Enrollment{
			{ID: 10, UserID: 7, Role: "StudentEnrollment", State: models.EnrollmentStateActive},
		},
	}
	api := &fakeAPI{
		courses: map[int64]*models.Course{44: course},
		userErr: errors.New("lms unreachable"),
	}
	engine, mock, cleanup := newEngineMock(t, api)
	defer cleanup()

	// No expectations registered: a failure during fetch must never reach
	// the database.
	err := engine.SyncCourse(context.Background(), 44)
	require.Error(t, err)
	require.Equal(t, appErrors.ErrSyncFailed.Code, appErrors.FromError(err).Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncCourseRollsBackOnWriteFailure(t *testing.T) {
	course := &models.Course{
		ID:   44,
		Name: "Biology 101",
		Term: &models.Term{ID: 9, Name: "Fall 2026"},
	}
	api := &fakeAPI{courses: map[int64]*models.Course{44: course}}
	engine, mock, cleanup := newEngineMock(t, api)
	defer cleanup()

	mock.ExpectBegin()
	exec(mock, "INSERT INTO terms").
		WithArgs(int64(9), "Fall 2026", nil, nil).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := engine.SyncCourse(context.Background(), 44)
	require.Error(t, err)
	require.Equal(t, appErrors.ErrSyncFailed.Code, appErrors.FromError(err).Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncCourseCoalescesConcurrentRuns(t *testing.T) {
	api := &fakeAPI{
		courseErrs: map[int64]error{44: errors.New("lms unreachable")},
		block:      make(chan struct{}),
	}
	engine, _, cleanup := newEngineMock(t, api)
	defer cleanup()

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = engine.SyncCourse(context.Background(), 44)
		}()
	}

	require.Eventually(t, func() bool { return api.calls() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(api.block)
	wg.Wait()

	require.Equal(t, 1, api.calls())
	require.Error(t, results[0])
	require.Error(t, results[1])
}

func TestSyncCoursesFailsIndependently(t *testing.T) {
	api := &fakeAPI{
		courses:    map[int64]*models.Course{1: {ID: 1, Name: "Intro"}},
		courseErrs: map[int64]error{2: errors.New("lms unreachable")},
	}
	engine, mock, cleanup := newEngineMock(t, api)
	defer cleanup()

	mock.ExpectBegin()
	exec(mock, "INSERT INTO courses").
		WithArgs(int64(1), "Intro", "", nil, false, false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	failed := engine.SyncCourses(context.Background(), []int64{1, 2})
	require.Len(t, failed, 1)
	require.Contains(t, failed, int64(2))
	require.Equal(t, appErrors.ErrSyncFailed.Code, appErrors.FromError(failed[2]).Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
