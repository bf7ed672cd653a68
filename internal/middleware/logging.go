package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/utilgate/utilgate/internal/accesslog"
)

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func wrapResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, status: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.status = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Logger returns middleware that logs every completed request twice:
// a structured slog line for operations, and a fire-and-forget entry in
// the daily access log. It installs the access-log tag that the
// service-auth middleware fills in with the caller's identity.
func Logger(logger *slog.Logger, access *accesslog.Writer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrapResponseWriter(w)

			tag := &accesslog.Tag{}
			ctx := accesslog.ContextWithTag(r.Context(), tag)

			next.ServeHTTP(wrapped, r.WithContext(ctx))

			duration := time.Since(start)
			ip := ClientIP(r)

			level := slog.LevelInfo
			if wrapped.status >= 500 {
				level = slog.LevelError
			} else if wrapped.status >= 400 {
				level = slog.LevelWarn
			}

			logger.LogAttrs(r.Context(), level, "http request",
				slog.String("request_id", GetRequestID(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status_code", wrapped.status),
				slog.Float64("duration_ms", float64(duration.Microseconds())/1000),
				slog.String("ip", ip),
			)

			if access != nil {
				email, apiKey := tag.User()
				entry := accesslog.Entry{
					IP:         ip,
					Method:     r.Method,
					Path:       r.URL.RequestURI(),
					Status:     wrapped.status,
					DurationMS: duration.Milliseconds(),
					UserEmail:  email,
					APIKey:     apiKey,
				}
				entry.Stamp(time.Now())
				access.Record(entry)
			}
		})
	}
}
