package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

type (
	// LogRequestConfig store middleware configuration
	LogRequestConfig struct {
		Logger       Logger
		Enabled      func(c echo.Context) bool
		RequestID    func(c echo.Context) string
		RequestBody  func(c echo.Context) bool
		KeyAndValues func(c echo.Context) []interface{}
	}
)

// LogRequest logs one line per request with status, latency and, for JSON
// requests, the request body.
func LogRequest(config LogRequestConfig) echo.MiddlewareFunc {
	defFunc := func(c echo.Context) bool {
		return true
	}
	if config.Logger == nil {
		panic("Logger is required to use LogRequest")
	}
	if config.Enabled == nil {
		config.Enabled = defFunc
	}
	if config.RequestBody == nil {
		config.RequestBody = defFunc
	}
	if config.RequestID == nil {
		config.RequestID = GetRequestID
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !config.Enabled(c) {
				return next(c)
			}

			start := time.Now()
			req := c.Request()
			res := c.Response()

			var reqBody json.RawMessage
			if config.RequestBody(c) {
				contentType := req.Header.Get(echo.HeaderContentType)
				if strings.HasPrefix(contentType, echo.MIMEApplicationJSON) {
					reqBody, _ = io.ReadAll(req.Body)
					if len(reqBody) == 0 {
						reqBody = nil
					}
					req.Body = io.NopCloser(bytes.NewBuffer(reqBody))
				}
			}

			err := next(c)
			if err != nil {
				c.Error(err)
			}
			end := time.Since(start)

			message := ""
			args := make([]interface{}, 0, 16)
			args = append(args,
				"status", res.Status,
				"method", req.Method,
				"uri", req.RequestURI,
				"latency_ms", end.Milliseconds(),
				"real_ip", c.RealIP(),
				"user_agent", req.UserAgent(),
			)

			service := req.Header.Get("service")
			if service != "" {
				args = append(args, "service", service)
			}
			if config.RequestID != nil {
				args = append(args, "request_id", config.RequestID(c))
			}
			if config.KeyAndValues != nil {
				args = append(args, config.KeyAndValues(c)...)
			}
			if reqBody != nil {
				args = append(args, "request_body", reqBody)
			}

			switch {
			case res.Status >= 500:
				if err != nil {
					args = append(args, "error", err.Error())
				}
				config.Logger.Errorw(message, args...)
			case res.Status >= 400:
				config.Logger.Warnw(message, args...)
			default:
				config.Logger.Infow(message, args...)
			}

			return err
		}
	}
}
