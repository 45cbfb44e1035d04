package lms

import (
	"context"
	"fmt"

	"github.com/edumirror/mirror-api/internal/models"
)

// ListTabs returns every navigation tab of a course, walking the paginated
// listing to exhaustion.
func (c *Client) ListTabs(ctx context.Context, courseID int64) ([]models.Tab, error) {
	path := fmt.Sprintf("/courses/%d/tabs", courseID)

	first := func(ctx context.Context) ([]models.Tab, string, error) {
		var page []models.Tab
		next, err := c.get(ctx, path, c.pageQuery(), &page)
		return page, next, err
	}
	next := func(ctx context.Context, token string) ([]models.Tab, string, error) {
		var page []models.Tab
		// The continuation token is the absolute rel="next" URL; it already
		// carries the paging parameters.
		nextToken, err := c.get(ctx, token, nil, &page)
		return page, nextToken, err
	}

	tabs, err := FetchAll(ctx, first, next)
	if err != nil {
		return nil, err
	}
	for i := range tabs {
		tabs[i].CourseID = courseID
	}
	return tabs, nil
}
