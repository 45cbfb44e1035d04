// Package sync pulls one course's full content graph from the LMS and
// persists it into the local mirror as a single snapshot.
package sync

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/edumirror/mirror-api/internal/models"
	appErrors "github.com/edumirror/mirror-api/pkg/errors"
)

type lmsAPI interface {
	GetCourse(ctx context.Context, courseID int64) (*models.Course, error)
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	ListTabs(ctx context.Context, courseID int64) ([]models.Tab, error)
	GetFrontPage(ctx context.Context, courseID int64) (*models.FrontPage, error)
}

type termStore interface {
	Upsert(ctx context.Context, ext sqlx.ExtContext, term *models.Term) error
}

type courseStore interface {
	Upsert(ctx context.Context, ext sqlx.ExtContext, course *models.Course) error
}

type userStore interface {
	Upsert(ctx context.Context, ext sqlx.ExtContext, user *models.User) error
}

type enrollmentStore interface {
	Upsert(ctx context.Context, ext sqlx.ExtContext, enrollment *models.Enrollment) error
	UpsertGrades(ctx context.Context, ext sqlx.ExtContext, grades *models.Grades) error
}

type gradingPeriodStore interface {
	Upsert(ctx context.Context, ext sqlx.ExtContext, period *models.GradingPeriod) error
	UpsertCourseLink(ctx context.Context, ext sqlx.ExtContext, link models.CourseGradingPeriod) error
}

type sectionStore interface {
	Upsert(ctx context.Context, ext sqlx.ExtContext, section *models.Section) error
}

type tabStore interface {
	Upsert(ctx context.Context, ext sqlx.ExtContext, tab *models.Tab) error
}

type frontPageStore interface {
	Upsert(ctx context.Context, ext sqlx.ExtContext, page *models.FrontPage) error
}

// Stores groups the mirror DAOs the engine writes through.
type Stores struct {
	Terms          termStore
	Courses        courseStore
	Users          userStore
	Enrollments    enrollmentStore
	GradingPeriods gradingPeriodStore
	Sections       sectionStore
	Tabs           tabStore
	FrontPages     frontPageStore
}

// Engine syncs course snapshots. Concurrent syncs of the same course are
// coalesced into one in-flight run; different courses run independently.
type Engine struct {
	api    lmsAPI
	db     *sqlx.DB
	stores Stores
	group  singleflight.Group
	logger *zap.Logger
}

// NewEngine constructs the engine.
func NewEngine(api lmsAPI, db *sqlx.DB, stores Stores, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{api: api, db: db, stores: stores, logger: logger}
}

// SyncCourse mirrors one course. The snapshot write is all-or-nothing: every
// remote lookup happens before the transaction opens, and any failure leaves
// the mirror exactly as it was. The engine never retries; that belongs to the
// caller's job layer.
func (e *Engine) SyncCourse(ctx context.Context, courseID int64) error {
	_, err, shared := e.group.Do(strconv.FormatInt(courseID, 10), func() (interface{}, error) {
		return nil, e.syncCourse(ctx, courseID)
	})
	if shared {
		e.logger.Sugar().Debugw("course sync coalesced", "course_id", courseID)
	}
	return err
}

// SyncCourses mirrors several courses in parallel. Courses fail
// independently; the result maps each failed course id to its error.
func (e *Engine) SyncCourses(ctx context.Context, courseIDs []int64) map[int64]error {
	var (
		mu     sync.Mutex
		failed = make(map[int64]error)
	)

	var g errgroup.Group
	for _, id := range courseIDs {
		id := id
		g.Go(func() error {
			if err := e.SyncCourse(ctx, id); err != nil {
				mu.Lock()
				failed[id] = err
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(failed) == 0 {
		return nil
	}
	return failed
}

func (e *Engine) syncCourse(ctx context.Context, courseID int64) error {
	snapshot, err := e.fetchSnapshot(ctx, courseID)
	if err != nil {
		return e.failure(courseID, err)
	}

	tx, err := e.db.BeginTxx(ctx, nil)
	if err != nil {
		return e.failure(courseID, fmt.Errorf("begin snapshot tx: %w", err))
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = e.writeSnapshot(ctx, tx, snapshot); err != nil {
		return e.failure(courseID, err)
	}
	if err = tx.Commit(); err != nil {
		return e.failure(courseID, fmt.Errorf("commit snapshot tx: %w", err))
	}

	e.logger.Sugar().Infow("course synced",
		"course_id", courseID,
		"enrollments", len(snapshot.course.Enrollments),
		"sections", len(snapshot.course.Sections),
		"tabs", len(snapshot.tabs),
	)
	return nil
}

// snapshot is the fully resolved content graph of one course, assembled
// before any write happens.
type snapshot struct {
	course    *models.Course
	users     map[int64]*models.User
	tabs      []models.Tab
	frontPage *models.FrontPage
}

// fetchSnapshot pulls the course graph and resolves every referenced user.
// All network I/O for the sync happens here.
func (e *Engine) fetchSnapshot(ctx context.Context, courseID int64) (*snapshot, error) {
	course, err := e.api.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	tabs, err := e.api.ListTabs(ctx, courseID)
	if err != nil {
		return nil, err
	}

	frontPage, err := e.api.GetFrontPage(ctx, courseID)
	if err != nil {
		return nil, err
	}

	users := make(map[int64]*models.User)
	for i := range course.Enrollments {
		enrollment := &course.Enrollments[i]

		if err := e.resolveUser(ctx, users, enrollment.UserID, enrollment.User); err != nil {
			return nil, err
		}

		if enrollment.ObservedUser != nil {
			enrollment.ObservedUserID = &enrollment.ObservedUser.ID
			if err := e.resolveUser(ctx, users, enrollment.ObservedUser.ID, enrollment.ObservedUser); err != nil {
				return nil, err
			}
		}
		if enrollment.AssociatedUserID != nil {
			if err := e.resolveUser(ctx, users, *enrollment.AssociatedUserID, nil); err != nil {
				return nil, err
			}
		}
	}

	return &snapshot{course: course, users: users, tabs: tabs, frontPage: frontPage}, nil
}

// resolveUser records the embedded user, or fetches it by id when the payload
// did not carry one. Already-resolved ids are not fetched twice.
func (e *Engine) resolveUser(ctx context.Context, users map[int64]*models.User, userID int64, embedded *models.User) error {
	if _, ok := users[userID]; ok {
		return nil
	}
	if embedded != nil {
		users[userID] = embedded
		return nil
	}
	user, err := e.api.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	users[user.ID] = user
	return nil
}

// writeSnapshot lands the snapshot in dependency order so every foreign key
// is satisfiable when its row is inserted: term, course, then per enrollment
// its users before the enrollment and its grades, then grading periods with
// their join rows, sections, tabs, and the front page.
func (e *Engine) writeSnapshot(ctx context.Context, tx *sqlx.Tx, snap *snapshot) error {
	course := snap.course

	if course.Term != nil {
		termID := course.Term.ID
		course.TermID = &termID
		if err := e.stores.Terms.Upsert(ctx, tx, course.Term); err != nil {
			return err
		}
	}

	if err := e.stores.Courses.Upsert(ctx, tx, course); err != nil {
		return err
	}

	written := make(map[int64]bool, len(snap.users))
	for i := range course.Enrollments {
		enrollment := &course.Enrollments[i]

		for _, userID := range enrollmentUserIDs(enrollment) {
			if written[userID] {
				continue
			}
			user, ok := snap.users[userID]
			if !ok {
				return fmt.Errorf("unresolved user %d on enrollment %d", userID, enrollment.ID)
			}
			if err := e.stores.Users.Upsert(ctx, tx, user); err != nil {
				return err
			}
			written[userID] = true
		}

		enrollment.CourseID = course.ID
		if err := e.stores.Enrollments.Upsert(ctx, tx, enrollment); err != nil {
			return err
		}

		if enrollment.Grades != nil {
			enrollment.Grades.EnrollmentID = enrollment.ID
			if err := e.stores.Enrollments.UpsertGrades(ctx, tx, enrollment.Grades); err != nil {
				return err
			}
		}
	}

	for i := range course.GradingPeriods {
		period := &course.GradingPeriods[i]
		if err := e.stores.GradingPeriods.Upsert(ctx, tx, period); err != nil {
			return err
		}
		link := models.CourseGradingPeriod{CourseID: course.ID, GradingPeriodID: period.ID}
		if err := e.stores.GradingPeriods.UpsertCourseLink(ctx, tx, link); err != nil {
			return err
		}
	}

	for i := range course.Sections {
		section := &course.Sections[i]
		section.CourseID = course.ID
		if err := e.stores.Sections.Upsert(ctx, tx, section); err != nil {
			return err
		}
	}

	for i := range snap.tabs {
		tab := &snap.tabs[i]
		tab.CourseID = course.ID
		if err := e.stores.Tabs.Upsert(ctx, tx, tab); err != nil {
			return err
		}
	}

	if snap.frontPage != nil {
		snap.frontPage.CourseID = course.ID
		if err := e.stores.FrontPages.Upsert(ctx, tx, snap.frontPage); err != nil {
			return err
		}
	}

	return nil
}

func enrollmentUserIDs(enrollment *models.Enrollment) []int64 {
	ids := []int64{enrollment.UserID}
	if enrollment.ObservedUserID != nil && *enrollment.ObservedUserID != enrollment.UserID {
		ids = append(ids, *enrollment.ObservedUserID)
	}
	if enrollment.AssociatedUserID != nil && *enrollment.AssociatedUserID != enrollment.UserID {
		ids = append(ids, *enrollment.AssociatedUserID)
	}
	return ids
}

func (e *Engine) failure(courseID int64, err error) error {
	e.logger.Sugar().Errorw("course sync failed", "course_id", courseID, "error", err)
	return appErrors.Wrap(err, appErrors.ErrSyncFailed.Code, appErrors.ErrSyncFailed.Status,
		fmt.Sprintf("sync course %d", courseID))
}
