// Package firebase talks to the hosted realtime database over its REST
// surface: every store path maps to <base><path>.json.
package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/nguyentranbao-ct/community-worker/internal/config"
	"github.com/nguyentranbao-ct/community-worker/internal/models"
	"github.com/nguyentranbao-ct/community-worker/internal/store"
	"github.com/nguyentranbao-ct/community-worker/pkg/util"
)

type Client struct {
	http      *resty.Client
	baseURL   string
	authToken string
}

var _ store.Store = (*Client)(nil)

func NewClient(cfg config.StoreConfig) *Client {
	return &Client{
		http:      util.NewRestyClient(),
		baseURL:   strings.TrimSuffix(cfg.BaseURL, "/"),
		authToken: cfg.AuthToken,
	}
}

func (c *Client) Get(ctx context.Context, path string, into any) error {
	resp, err := c.request(ctx).Get(c.url(path))
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}

	body := resp.Body()
	if isNull(body) {
		return models.ErrNotFound
	}
	if err := json.Unmarshal(body, into); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) Set(ctx context.Context, path string, value any) error {
	resp, err := c.request(ctx).SetBody(value).Put(c.url(path))
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}

func (c *Client) Update(ctx context.Context, path string, patch map[string]any) error {
	resp, err := c.request(ctx).SetBody(patch).Patch(c.url(path))
	if err != nil {
		return fmt.Errorf("update %s: %w", path, err)
	}
	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("update %s: %w", path, err)
	}
	return nil
}

func (c *Client) Push(ctx context.Context, path string, value any) (string, error) {
	resp, err := c.request(ctx).SetBody(value).Post(c.url(path))
	if err != nil {
		return "", fmt.Errorf("push %s: %w", path, err)
	}
	if err := checkStatus(resp); err != nil {
		return "", fmt.Errorf("push %s: %w", path, err)
	}

	var result struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("decode push key for %s: %w", path, err)
	}
	return result.Name, nil
}

func (c *Client) Delete(ctx context.Context, path string) error {
	resp, err := c.request(ctx).Delete(c.url(path))
	if err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if c.authToken != "" {
		req.SetQueryParam("auth", c.authToken)
	}
	return req
}

func (c *Client) url(path string) string {
	return c.baseURL + store.Join(path) + ".json"
}

func checkStatus(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	return fmt.Errorf("unexpected status %d: %s", resp.StatusCode(), resp.String())
}

func isNull(body []byte) bool {
	body = bytes.TrimSpace(body)
	return len(body) == 0 || bytes.Equal(body, []byte("null"))
}
