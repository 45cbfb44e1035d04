package datasource

import (
	"context"

	"github.com/edumirror/mirror-api/internal/models"
)

// TabsDataSource reads the navigation tabs of a course.
type TabsDataSource interface {
	GetTabs(ctx context.Context, courseID int64) ([]models.Tab, error)
}

type tabsAPI interface {
	ListTabs(ctx context.Context, courseID int64) ([]models.Tab, error)
}

type tabsStore interface {
	FindByCourseID(ctx context.Context, courseID int64) ([]models.Tab, error)
}

// TabsNetworkDataSource serves tabs from the LMS API.
type TabsNetworkDataSource struct {
	api tabsAPI
}

// NewTabsNetworkDataSource constructs the network source.
func NewTabsNetworkDataSource(api tabsAPI) *TabsNetworkDataSource {
	return &TabsNetworkDataSource{api: api}
}

// GetTabs implements TabsDataSource.
func (s *TabsNetworkDataSource) GetTabs(ctx context.Context, courseID int64) ([]models.Tab, error) {
	return s.api.ListTabs(ctx, courseID)
}

// TabsLocalDataSource serves tabs from the mirror.
type TabsLocalDataSource struct {
	tabs tabsStore
}

// NewTabsLocalDataSource constructs the local source.
func NewTabsLocalDataSource(tabs tabsStore) *TabsLocalDataSource {
	return &TabsLocalDataSource{tabs: tabs}
}

// GetTabs implements TabsDataSource.
func (s *TabsLocalDataSource) GetTabs(ctx context.Context, courseID int64) ([]models.Tab, error) {
	return s.tabs.FindByCourseID(ctx, courseID)
}
