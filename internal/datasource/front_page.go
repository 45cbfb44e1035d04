package datasource

import (
	"context"
	"database/sql"
	"errors"

	"github.com/edumirror/mirror-api/internal/models"
)

// FrontPageDataSource reads the course home page. A course without a front
// page yields (nil, nil) from either source.
type FrontPageDataSource interface {
	GetFrontPage(ctx context.Context, courseID int64) (*models.FrontPage, error)
}

type frontPageAPI interface {
	GetFrontPage(ctx context.Context, courseID int64) (*models.FrontPage, error)
}

type frontPageStore interface {
	FindByCourseID(ctx context.Context, courseID int64) (*models.FrontPage, error)
}

// FrontPageNetworkDataSource serves front pages from the LMS API.
type FrontPageNetworkDataSource struct {
	api frontPageAPI
}

// NewFrontPageNetworkDataSource constructs the network source.
func NewFrontPageNetworkDataSource(api frontPageAPI) *FrontPageNetworkDataSource {
	return &FrontPageNetworkDataSource{api: api}
}

// GetFrontPage implements FrontPageDataSource.
func (s *FrontPageNetworkDataSource) GetFrontPage(ctx context.Context, courseID int64) (*models.FrontPage, error) {
	return s.api.GetFrontPage(ctx, courseID)
}

// FrontPageLocalDataSource serves front pages from the mirror.
type FrontPageLocalDataSource struct {
	pages frontPageStore
}

// NewFrontPageLocalDataSource constructs the local source.
func NewFrontPageLocalDataSource(pages frontPageStore) *FrontPageLocalDataSource {
	return &FrontPageLocalDataSource{pages: pages}
}

// GetFrontPage implements FrontPageDataSource.
func (s *FrontPageLocalDataSource) GetFrontPage(ctx context.Context, courseID int64) (*models.FrontPage, error) {
	page, err := s.pages.FindByCourseID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return page, nil
}
