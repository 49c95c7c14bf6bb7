package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"revboard/internal/log"
	"revboard/internal/metrics"
)

// instrument wraps a handler with the full request pipeline: request id,
// structured access logging, rate limiting, security headers and Prometheus
// counters. handlerName is the bounded label used for metrics.
func (s *Server) instrument(handlerName string, next http.HandlerFunc) http.Handler {
	pipeline := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		ip := clientIP(r)

		reqLog := s.log.With(
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
		)
		ctx := log.IntoContext(r.Context(), reqLog)
		r = r.WithContext(ctx)

		if !s.rateLimiter.allow(ip) {
			reqLog.WarnContext(ctx, "rate limit exceeded", "client_ip", ip)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate_limited", "Too many requests, slow down")
			return
		}

		w.Header().Set("X-Request-ID", requestID)
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		reqLog.InfoContext(ctx, "request completed",
			log.FieldStatusCode, rw.statusCode,
			log.FieldDurationMS, time.Since(start).Milliseconds(),
			"client_ip", ip,
		)
	})

	return metrics.Middleware(s.metrics, handlerName)(pipeline)
}

// statusWriter captures the status code for access logging.
type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}
