package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/carousell/ct-go/pkg/logger"
	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"

	"github.com/nguyentranbao-ct/community-worker/internal/config"
	pkgmdw "github.com/nguyentranbao-ct/community-worker/internal/server/middleware"
)

func StartServer(
	lc fx.Lifecycle,
	sd fx.Shutdowner,
	conf *config.Config,
	controller *Controller,
) {
	e := echo.New()
	e.Validator = pkgmdw.NewValidator()
	e.HTTPErrorHandler = pkgmdw.ErrorHandler(logger.MustNamed("http"))

	logConfig := pkgmdw.LogRequestConfig{
		Logger: logger.MustNamed("http"),
		Enabled: func(c echo.Context) bool {
			uri := c.Request().RequestURI
			return uri != "/health" && uri != "/metrics"
		},
	}

	e.Use(pkgmdw.Metrics())
	e.Use(pkgmdw.RequestID())
	e.Use(pkgmdw.LogRequest(logConfig))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.Errorw(c.Request().Context(), "PANIC RECOVER", "error", err, "stack", string(stack))
			return nil
		},
	}))
	e.Use(validateHeaders())

	e.GET("/health", controller.Health)

	api := e.Group("/api/v1")
	api.POST("/events", controller.HandleEvent)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Infow(ctx, "starting HTTP server", "addr", conf.Server.Addr)
				if err := e.Start(conf.Server.Addr); !errors.Is(err, http.ErrServerClosed) {
					sd.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
}

// validateHeaders keeps strangers off the webhook. The change feed and the
// replay tooling both send these headers.
func validateHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			uri := c.Request().URL.Path
			if uri == "/health" || uri == "/metrics" {
				return next(c)
			}

			if c.Request().Header.Get("x-project-uuid") == "" {
				return echo.NewHTTPError(http.StatusBadRequest, "missing x-project-uuid header")
			}
			if c.Request().Header.Get("Service") == "" {
				return echo.NewHTTPError(http.StatusBadRequest, "missing Service header")
			}

			return next(c)
		}
	}
}
