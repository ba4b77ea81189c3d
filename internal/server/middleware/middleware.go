package middleware

import "github.com/labstack/echo/v4"

// Skipper decides whether a middleware should pass a request through
// untouched.
type Skipper func(c echo.Context) bool

// DefaultSkipper never skips.
func DefaultSkipper(echo.Context) bool {
	return false
}

// Logger is the logging surface middleware needs; the service's named
// loggers satisfy it.
type Logger interface {
	Infow(msg string, keysAndValues ...any)
	Warnw(msg string, keysAndValues ...any)
	Errorw(msg string, keysAndValues ...any)
}
