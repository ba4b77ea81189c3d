package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
)

// LogRequestConfig configures the request logging middleware.
type LogRequestConfig struct {
	Logger Logger
	// Enabled filters which requests get logged; nil logs everything.
	Enabled func(c echo.Context) bool
	// KeyAndValues appends extra structured fields per request.
	KeyAndValues func(c echo.Context) []any
}

// LogRequest logs one structured line per request with status, latency
// and request id, at a level matching the response class.
func LogRequest(config LogRequestConfig) echo.MiddlewareFunc {
	if config.Logger == nil {
		panic("Logger is required to use LogRequest")
	}
	if config.Enabled == nil {
		config.Enabled = func(echo.Context) bool { return true }
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !config.Enabled(c) {
				return next(c)
			}

			start := time.Now()
			req := c.Request()
			res := c.Response()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			args := make([]any, 0, 16)
			args = append(args,
				"status", res.Status,
				"method", req.Method,
				"uri", req.RequestURI,
				"latency_ms", time.Since(start).Milliseconds(),
				"real_ip", c.RealIP(),
				"request_id", GetRequestID(c),
			)
			if err != nil {
				args = append(args, "error", err.Error())
			}
			if config.KeyAndValues != nil {
				args = append(args, config.KeyAndValues(c)...)
			}

			message := "http request"
			switch {
			case res.Status >= 500:
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
