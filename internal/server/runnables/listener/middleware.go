package listener

import (
	"log/slog"
	"time"

	"github.com/robbyt/go-supervisor/runnables/httpserver"
)

// accessLog logs one line per control request once the handler has returned.
// Streaming requests are logged when their stream closes.
func accessLog(logger *slog.Logger) httpserver.HandlerFunc {
	return func(rp *httpserver.RequestProcessor) {
		r := rp.Request()
		start := time.Now()

		rp.Next()

		attrs := []slog.Attr{
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rp.Writer().Status()),
			slog.Duration("duration", time.Since(start)),
		}
		if sid := r.Header.Get("Mcp-Session-Id"); sid != "" {
			attrs = append(attrs, slog.String("session", sid))
		}
		logger.LogAttrs(r.Context(), slog.LevelDebug, "Control request", attrs...)
	}
}
