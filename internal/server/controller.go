package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nguyentranbao-ct/community-worker/internal/models"
	"github.com/nguyentranbao-ct/community-worker/internal/trigger"
)

// Controller receives change events over the webhook and feeds them into the
// same registry the Kafka consumer uses.
type Controller struct {
	registry *trigger.Registry
}

func NewController(registry *trigger.Registry) *Controller {
	return &Controller{registry: registry}
}

// HandleEvent accepts one change envelope. Handler failures never surface
// here: the invocation is acknowledged as long as the envelope is valid, so
// the sender does not retry into a storm.
func (h *Controller) HandleEvent(c echo.Context) error {
	var msg models.ChangeMessage
	if err := c.Bind(&msg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(msg.Data); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if msg.Pattern != models.PatternStoreChanged {
		return c.JSON(http.StatusOK, map[string]string{"status": "ignored"})
	}

	ctx := c.Request().Context()
	h.registry.Dispatch(ctx, msg.Data.Path, msg.Data.Before, msg.Data.After)

	return c.JSON(http.StatusOK, map[string]string{"status": "accepted"})
}

func (h *Controller) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "community-worker",
	})
}
