package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/edumirror/mirror-api/internal/datasource"
	"github.com/edumirror/mirror-api/internal/models"
	appErrors "github.com/edumirror/mirror-api/pkg/errors"
)

// FrontPageService serves course front-page reads through the capability
// router.
type FrontPageService struct {
	router *datasource.Router[datasource.FrontPageDataSource]
	logger *zap.Logger
}

// NewFrontPageService creates a new front page service instance.
func NewFrontPageService(router *datasource.Router[datasource.FrontPageDataSource], logger *zap.Logger) *FrontPageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FrontPageService{router: router, logger: logger}
}

// Get returns a course's front page, or NOT_FOUND when the course has none.
func (s *FrontPageService) Get(ctx context.Context, courseID int64) (*models.FrontPage, error) {
	page, err := s.router.DataSource(ctx).GetFrontPage(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course has no front page")
	}
	return page, nil
}
