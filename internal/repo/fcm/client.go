// Package fcm is the client for the push-notification gateway.
package fcm

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/nguyentranbao-ct/community-worker/internal/config"
	"github.com/nguyentranbao-ct/community-worker/internal/models"
	"github.com/nguyentranbao-ct/community-worker/pkg/util"
)

type Client interface {
	// Send delivers a payload to one device token. Delivery failures show
	// up in the response counts; an error means the gateway itself could
	// not be reached.
	Send(ctx context.Context, token string, payload models.Payload) (*models.SendResponse, error)
}

type client struct {
	http      *resty.Client
	endpoint  string
	serverKey string
}

func NewClient(conf *config.Config) Client {
	return &client{
		http:      util.NewRestyClient(),
		endpoint:  conf.FCM.Endpoint,
		serverKey: conf.FCM.ServerKey,
	}
}

type sendRequest struct {
	To           string              `json:"to"`
	Notification models.Notification `json:"notification"`
	Data         map[string]string   `json:"data,omitempty"`
}

func (c *client) Send(ctx context.Context, token string, payload models.Payload) (*models.SendResponse, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var result models.SendResponse
	resp, err := c.http.R().
		SetContext(timeoutCtx).
		SetHeader("Authorization", "key="+c.serverKey).
		SetBody(sendRequest{
			To:           token,
			Notification: payload.Notification,
			Data:         payload.Data,
		}).
		SetResult(&result).
		Post(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("send to device: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("send to device: unexpected status %d: %s", resp.StatusCode(), resp.String())
	}
	return &result, nil
}
