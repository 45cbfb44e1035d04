package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/edumirror/mirror-api/internal/datasource"
	"github.com/edumirror/mirror-api/internal/models"
)

// CourseService serves single-course reads through the capability router, so
// whether the answer comes from the LMS or the mirror follows the offline
// policy, not this code.
type CourseService struct {
	router *datasource.Router[datasource.CourseDataSource]
	logger *zap.Logger
}

// NewCourseService creates a new course service instance.
func NewCourseService(router *datasource.Router[datasource.CourseDataSource], logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{router: router, logger: logger}
}

// Get returns one course from whichever source the policy selects.
func (s *CourseService) Get(ctx context.Context, courseID int64) (*models.Course, error) {
	return s.router.DataSource(ctx).GetCourse(ctx, courseID)
}
