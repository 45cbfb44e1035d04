package datasource

import (
	"context"
	"database/sql"
	"errors"

	"github.com/edumirror/mirror-api/internal/models"
	appErrors "github.com/edumirror/mirror-api/pkg/errors"
)

// CourseDataSource reads a single course.
type CourseDataSource interface {
	GetCourse(ctx context.Context, courseID int64) (*models.Course, error)
}

type courseAPI interface {
	GetCourse(ctx context.Context, courseID int64) (*models.Course, error)
}

type courseStore interface {
	FindByID(ctx context.Context, id int64) (*models.Course, error)
}

// CourseNetworkDataSource serves courses from the LMS API.
type CourseNetworkDataSource struct {
	api courseAPI
}

// NewCourseNetworkDataSource constructs the network source.
func NewCourseNetworkDataSource(api courseAPI) *CourseNetworkDataSource {
	return &CourseNetworkDataSource{api: api}
}

// GetCourse implements CourseDataSource.
func (s *CourseNetworkDataSource) GetCourse(ctx context.Context, courseID int64) (*models.Course, error) {
	return s.api.GetCourse(ctx, courseID)
}

// CourseLocalDataSource serves courses from the mirror.
type CourseLocalDataSource struct {
	courses courseStore
}

// NewCourseLocalDataSource constructs the local source.
func NewCourseLocalDataSource(courses courseStore) *CourseLocalDataSource {
	return &CourseLocalDataSource{courses: courses}
}

// GetCourse implements CourseDataSource.
func (s *CourseLocalDataSource) GetCourse(ctx context.Context, courseID int64) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not mirrored")
		}
		return nil, err
	}
	return course, nil
}
