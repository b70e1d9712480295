package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// RequestIDHeader carries the id assigned by [RequestLogger].
const RequestIDHeader = "X-Request-Id"

// Gate keeps signed-out visitors on /login and signed-in visitors off it.
//
// API routes, static assets, the favicon, PNGs and /healthz are passed through untouched; API handlers answer
// unauthenticated calls themselves.
func Gate() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if gateExempt(path) {
				next.ServeHTTP(w, r)
				return
			}

			authenticated := SessionFromRequest(r).Authenticated()
			switch {
			case !authenticated && path != "/login":
				http.Redirect(w, r, "/login", http.StatusFound)
			case authenticated && path == "/login":
				http.Redirect(w, r, "/", http.StatusFound)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func gateExempt(path string) bool {
	return strings.HasPrefix(path, "/api/") ||
		strings.HasPrefix(path, "/static/") ||
		path == "/favicon.ico" ||
		path == "/healthz" ||
		strings.HasSuffix(path, ".png")
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(status int) {
	sw.status = status
	sw.ResponseWriter.WriteHeader(status)
}

func (sw *statusWriter) Status() int {
	if sw.status == 0 {
		return http.StatusOK
	}
	return sw.status
}

// RequestLogger logs one line per request and recovers handler panics as 500s.
func RequestLogger(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := uuid.NewString()
			w.Header().Set(RequestIDHeader, requestID)

			reqLogger := logger.With("request_id", requestID, "method", r.Method, "path", r.URL.Path)
			wrapped := &statusWriter{ResponseWriter: w}

			defer func() {
				if rec := recover(); rec != nil {
					reqLogger.Error("panic recovered", "panic", rec)
					http.Error(wrapped, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				}
				reqLogger.Info("request completed", "status", wrapped.Status(), "duration", time.Since(start))
			}()

			next.ServeHTTP(wrapped, r)
		})
	}
}

// RateLimiter decides whether the caller identified by key may proceed.
type RateLimiter interface {
	Allow(key string) bool
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter is a token bucket per client address. Idle entries are dropped after ttl.
type IPRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	now      func() time.Time
}

// NewIPRateLimiter allows perSecond requests per second per address with the given burst.
func NewIPRateLimiter(perSecond float64, burst int, ttl time.Duration) *IPRateLimiter {
	if perSecond <= 0 {
		perSecond = 1
	}
	if burst <= 0 {
		burst = 1
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &IPRateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(perSecond),
		burst:    burst,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (l *IPRateLimiter) Allow(key string) bool {
	if key == "" {
		key = "unknown"
	}

	now := l.now()

	l.mu.Lock()
	v, ok := l.visitors[key]
	if ok {
		v.lastSeen = now
	} else {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst), lastSeen: now}
		l.visitors[key] = v
	}
	for k, other := range l.visitors {
		if now.Sub(other.lastSeen) > l.ttl {
			delete(l.visitors, k)
		}
	}
	l.mu.Unlock()

	return v.limiter.AllowN(now, 1)
}

// RateLimit rejects /api/ requests over the limiter's budget with 429.
func RateLimit(limiter RateLimiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/api/") && !limiter.Allow(clientIP(r)) {
				w.Header().Set("Retry-After", "1")
				writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "Too many requests"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
