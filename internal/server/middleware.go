package server

import (
	"bytes"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hcnaf/Logging-MentoringProgram/internal/logpipe"
)

// RequestLogger logs one event per request: 5xx as Error, 4xx as Warning,
// everything else as Information. The logger's source is subject to the
// pipeline's overrides, so the default "gin" override keeps successful
// requests out of the sinks.
func RequestLogger(logger *logpipe.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start).Round(time.Microsecond).String(),
			"client", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			args = append(args, "error", c.Errors.Last().Err)
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("request failed", args...)
		case status >= http.StatusBadRequest:
			logger.Warn("request rejected", args...)
		default:
			logger.Info("request handled", args...)
		}
	}
}

// errorLogWriter forwards net/http's internal error log into the pipeline.
type errorLogWriter struct {
	logger *logpipe.Logger
}

func (w errorLogWriter) Write(p []byte) (int, error) {
	w.logger.Error(string(bytes.TrimRight(p, "\n")))
	return len(p), nil
}

// NewErrorLog returns a *log.Logger for http.Server.ErrorLog that writes
// Error events under the given logger's source.
func NewErrorLog(logger *logpipe.Logger) *log.Logger {
	return log.New(errorLogWriter{logger: logger}, "", 0)
}
