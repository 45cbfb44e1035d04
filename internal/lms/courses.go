package lms

import (
	"context"
	"fmt"
	"net/url"

	"github.com/edumirror/mirror-api/internal/models"
)

// GetCourse fetches the full course object with its embedded term,
// enrollments, grading periods and sections in one request.
func (c *Client) GetCourse(ctx context.Context, courseID int64) (*models.Course, error) {
	query := url.Values{}
	query["include[]"] = []string{"term", "enrollments", "grading_periods", "sections", "observed_users", "total_scores"}

	var course models.Course
	if _, err := c.get(ctx, fmt.Sprintf("/courses/%d", courseID), query, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// GetAccountSettings fetches the account-level flags, in particular whether
// offline mode is enabled for this account.
func (c *Client) GetAccountSettings(ctx context.Context) (*models.AccountSettings, error) {
	var settings models.AccountSettings
	if _, err := c.get(ctx, "/accounts/self/settings", nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}
