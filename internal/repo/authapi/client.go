// Package authapi is the client for the authentication provider's admin API.
package authapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/nguyentranbao-ct/community-worker/internal/config"
	"github.com/nguyentranbao-ct/community-worker/internal/models"
	"github.com/nguyentranbao-ct/community-worker/pkg/util"
)

type Client interface {
	// GetUser returns the identity record for a user id, or
	// models.ErrNotFound when the provider does not know the id.
	GetUser(ctx context.Context, userID string) (*models.AuthUser, error)
}

type client struct {
	http    *resty.Client
	baseURL string
	apiKey  string
}

func NewClient(conf *config.Config) Client {
	return &client{
		http:    util.NewRestyClient(),
		baseURL: strings.TrimSuffix(conf.Auth.BaseURL, "/"),
		apiKey:  conf.Auth.APIKey,
	}
}

func (c *client) GetUser(ctx context.Context, userID string) (*models.AuthUser, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var user models.AuthUser
	resp, err := c.http.R().
		SetContext(timeoutCtx).
		SetHeader("Authorization", "Bearer "+c.apiKey).
		SetResult(&user).
		Get(fmt.Sprintf("%s/v1/users/%s", c.baseURL, userID))
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", userID, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, models.ErrNotFound
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("get user %s: unexpected status %d", userID, resp.StatusCode())
	}
	return &user, nil
}
