package lms

import (
	"context"
	"errors"
	"fmt"

	"github.com/edumirror/mirror-api/internal/models"
	appErrors "github.com/edumirror/mirror-api/pkg/errors"
)

// GetFrontPage fetches the course home wiki page. Courses without a front
// page yield (nil, nil); only transport problems are errors.
func (c *Client) GetFrontPage(ctx context.Context, courseID int64) (*models.FrontPage, error) {
	var page models.FrontPage
	if _, err := c.get(ctx, fmt.Sprintf("/courses/%d/front_page", courseID), nil, &page); err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) && appErr.Code == appErrors.ErrNotFound.Code {
			return nil, nil
		}
		return nil, err
	}
	page.CourseID = courseID
	return &page, nil
}
