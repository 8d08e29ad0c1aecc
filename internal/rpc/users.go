package rpc

import (
	"context"
	"net/http"
	"time"

	"github.com/organize/tasktracker/internal/models"
)

// UserClient resolves the caller's profile from the user service.
type UserClient struct {
	c *Client
}

func NewUserClient(baseURL string, timeout time.Duration, retry RetryPolicy) *UserClient {
	return &UserClient{c: NewClient("user-service", baseURL, timeout, retry)}
}

// Profile returns the user the credential belongs to.
func (u *UserClient) Profile(ctx context.Context, credential string) (*models.User, error) {
	var out models.User
	if err := u.c.Do(ctx, http.MethodGet, "/api/users/profile", credential, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
