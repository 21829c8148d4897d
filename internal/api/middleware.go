package api

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"autorent/internal/auth"
	"autorent/internal/metrics"
	"autorent/internal/models"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

type contextKey string

const identityKey contextKey = "identity"

// identityFrom returns the authenticated identity, if any.
func identityFrom(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(models.Identity)
	return identity, ok
}

// withSession resolves the session cookie into an identity. Requests without
// a valid cookie pass through anonymous; handlers decide whether to require
// one.
func (s *HTTPServer) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(auth.SessionCookie)
		if err == nil {
			if identity, verr := s.sessions.Verify(cookie.Value); verr == nil {
				r = r.WithContext(context.WithValue(r.Context(), identityKey, identity))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// requireUser rejects anonymous requests.
func (s *HTTPServer) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := identityFrom(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next(w, r)
	}
}

// requireAdmin rejects requests whose identity lacks the ADMIN role.
func (s *HTTPServer) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := identityFrom(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !identity.IsAdmin() {
			writeError(w, http.StatusUnauthorized, "admin role required")
			return
		}
		next(w, r)
	}
}

// accessLog records one structured line per request and feeds the request
// counter.
func (s *HTTPServer) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		recorder.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(recorder, r)

		s.logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")

		// Label by the matched route pattern, not the raw path, so ID-bearing
		// URLs do not explode the counter's cardinality.
		endpoint := recorder.pattern
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.IncHTTP(endpoint, http.StatusText(recorder.status))
	})
}

// recordPattern stashes the mux's matched route pattern on the status
// recorder. The session middleware copies the request, so the outer access
// logger cannot read r.Pattern directly.
func recordPattern(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		if recorder, ok := w.(*statusRecorder); ok {
			recorder.pattern = r.Pattern
		}
	})
}

// rateLimit applies a per-client token bucket keyed by the session identity
// or, for anonymous callers, the remote host.
type rateLimiter struct {
	rps      float64
	burst    int
	limiters sync.Map
}

func newRateLimiter(rps float64, burst int) *rateLimiter {
	if burst <= 0 {
		burst = 5
	}
	return &rateLimiter{rps: rps, burst: burst}
}

func (l *rateLimiter) get(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}
	lim := rate.NewLimiter(rate.Limit(l.rps), l.burst)
	actual, loaded := l.limiters.LoadOrStore(key, lim)
	if loaded {
		return actual.(*rate.Limiter)
	}
	return lim
}

func (s *HTTPServer) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil || s.limiter.rps <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		key := "unknown"
		if identity, ok := identityFrom(r.Context()); ok {
			key = identity.ID
		} else if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
			key = host
		}

		if !s.limiter.get(key).Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}
