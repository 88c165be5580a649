package api

import (
	"fmt"

	"github.com/JoseMokeni/lecoursier-mobile-app-user/internal/models"
)

// ListTasks fetches the authoritative task list for the logged-in user.
func (c *Client) ListTasks() ([]models.Task, error) {
	var resp models.TasksResponse
	if err := c.Get("/tasks", &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// StartTask moves a task into progress server-side.
func (c *Client) StartTask(id int) (*models.Task, error) {
	var resp struct {
		Data models.Task `json:"data"`
	}
	if err := c.Post(fmt.Sprintf("/tasks/%d/start", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// CompleteTask marks a task completed server-side.
func (c *Client) CompleteTask(id int) (*models.Task, error) {
	var resp struct {
		Data models.Task `json:"data"`
	}
	if err := c.Post(fmt.Sprintf("/tasks/%d/complete", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// DeleteTask removes a task server-side.
func (c *Client) DeleteTask(id int) error {
	return c.Delete(fmt.Sprintf("/tasks/%d", id))
}

// GetBadges fetches every badge definition with the caller's progress.
func (c *Client) GetBadges() (*models.BadgesResponse, error) {
	var resp models.BadgesResponse
	if err := c.Get("/badges", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetEarnedBadges fetches only the badges the caller has earned.
func (c *Client) GetEarnedBadges() (*models.EarnedBadgesResponse, error) {
	var resp models.EarnedBadgesResponse
	if err := c.Get("/badges/earned", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateDeviceToken uploads the push-notification device token. One-shot
// side effect; callers log and move on when it fails.
func (c *Client) UpdateDeviceToken(token string) error {
	return c.Put("/update-device-token", map[string]string{"token": token}, nil)
}
