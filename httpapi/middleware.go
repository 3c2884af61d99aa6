package httpapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.uber.org/atomic"
)

// statusCapturingWriter wraps http.ResponseWriter to capture the status
// code written, so request logging can report it after the handler
// returns.
type statusCapturingWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (w *statusCapturingWriter) WriteHeader(code int) {
	if !w.written {
		w.statusCode = code
		w.written = true
		w.ResponseWriter.WriteHeader(code)
	}
}

func (w *statusCapturingWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.statusCode = http.StatusOK
		w.written = true
	}
	return w.ResponseWriter.Write(b)
}

var requestSeq atomic.Int64

func nextRequestID() string {
	return fmt.Sprintf("%d-%d", time.Now().UnixNano(), requestSeq.Inc())
}

// WithRequestLogging wraps next with structured, key=value request
// logging at info level, and warn level for 4xx responses, per the
// service's logging contract (§7). Every request that isn't otherwise
// logged by a handler's own success/failure log line still gets one
// summary line here.
func WithRequestLogging(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = nextRequestID()
		}

		lrw := &statusCapturingWriter{ResponseWriter: w, statusCode: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(lrw, r)
		duration := time.Since(start)

		fields := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", lrw.statusCode,
			"durationMs", duration.Milliseconds(),
			"requestId", requestID,
		}
		switch {
		case lrw.statusCode >= 500:
			log.Error("request completed", fields...)
		case lrw.statusCode >= 400:
			log.Warn("request completed", fields...)
		default:
			log.Info("request completed", fields...)
		}
	})
}
