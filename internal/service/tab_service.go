package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/edumirror/mirror-api/internal/datasource"
	"github.com/edumirror/mirror-api/internal/models"
)

// TabService serves course tab reads through the capability router.
type TabService struct {
	router *datasource.Router[datasource.TabsDataSource]
	logger *zap.Logger
}

// NewTabService creates a new tab service instance.
func NewTabService(router *datasource.Router[datasource.TabsDataSource], logger *zap.Logger) *TabService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TabService{router: router, logger: logger}
}

// List returns a course's tabs from whichever source the policy selects.
func (s *TabService) List(ctx context.Context, courseID int64) ([]models.Tab, error) {
	return s.router.DataSource(ctx).GetTabs(ctx, courseID)
}
