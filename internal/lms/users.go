package lms

import (
	"context"
	"fmt"

	"github.com/edumirror/mirror-api/internal/models"
)

// GetUser fetches a single user by id. Used during sync when an enrollment
// payload does not embed its user.
func (c *Client) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	if _, err := c.get(ctx, fmt.Sprintf("/users/%d", userID), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
