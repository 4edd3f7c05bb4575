package middleware

import (
	"time"

	xlogger "BankBrain/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RequestLogging logs HTTP requests. Health probes are logged at debug.
func RequestLogging(l *xlogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			fields := []xlogger.Field{
				xlogger.String("method", req.Method),
				xlogger.String("path", req.URL.Path),
				xlogger.String("remote", c.RealIP()),
				xlogger.Int("status", res.Status),
				xlogger.Duration("latency_ms", time.Since(start)),
				xlogger.String("request_id", res.Header().Get(echo.HeaderXRequestID)),
			}

			switch {
			case res.Status >= 500:
				l.Error("http request", fields...)
			case req.URL.Path == "/healthz" || req.URL.Path == "/metrics":
				l.Debug("http request", fields...)
			default:
				l.Info("http request", fields...)
			}

			return nil
		}
	}
}
