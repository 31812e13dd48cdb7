package app

import (
	"context"
	"crypto/subtle"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	csrfCookieName = "phishaware_csrf"
	csrfHeaderName = "X-CSRF-Token"
	csrfFormField  = "csrf_token"
)

// rejectFunc writes a refusal in whatever format suits the request (HTML page or JSON).
type rejectFunc func(w http.ResponseWriter, r *http.Request, status int, msg string)

type rateBucket struct {
	Count      int
	WindowEnds time.Time
}

type IPRateLimiter struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	store  map[string]rateBucket
	now    func() time.Time
}

func NewIPRateLimiter(max int, window time.Duration) *IPRateLimiter {
	if max <= 0 {
		max = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	return &IPRateLimiter{
		max:    max,
		window: window,
		store:  make(map[string]rateBucket),
		now:    time.Now,
	}
}

func (l *IPRateLimiter) Allow(key string) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.store[key]
	if now.After(b.WindowEnds) {
		b = rateBucket{Count: 0, WindowEnds: now.Add(l.window)}
		l.pruneLocked(now)
	}
	if b.Count >= l.max {
		l.store[key] = b
		return false
	}
	b.Count++
	l.store[key] = b
	return true
}

// pruneLocked drops buckets whose window has ended. Caller holds l.mu.
func (l *IPRateLimiter) pruneLocked(now time.Time) {
	for k, b := range l.store {
		if now.After(b.WindowEnds) {
			delete(l.store, k)
		}
	}
}

func RateLimitMiddleware(l *IPRateLimiter, reject rejectFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r) + "|" + r.Method + "|" + r.URL.Path
			if !l.Allow(key) {
				reject(w, r, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP drops the port so every connection from one address shares a bucket.
// RealIP may already have replaced RemoteAddr with a bare address.
func clientIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

type csrfCtxKey struct{}

// CSRFToken returns the double-submit token for the current request, or "" when not enforced.
func CSRFToken(r *http.Request) string {
	v, _ := r.Context().Value(csrfCtxKey{}).(string)
	return v
}

// CSRFMiddleware issues a token cookie on safe requests and, for unsafe ones, requires the
// same value in the X-CSRF-Token header or the csrf_token form field.
func CSRFMiddleware(enforced bool, reject rejectFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enforced {
				next.ServeHTTP(w, r)
				return
			}

			cookieValue := ""
			if c, err := r.Cookie(csrfCookieName); err == nil {
				cookieValue = strings.TrimSpace(c.Value)
			}

			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				if cookieValue == "" {
					cookieValue = uuid.NewString()
					http.SetCookie(w, &http.Cookie{
						Name:     csrfCookieName,
						Value:    cookieValue,
						Path:     "/",
						HttpOnly: true,
						SameSite: http.SameSiteLaxMode,
					})
				}
				ctx := context.WithValue(r.Context(), csrfCtxKey{}, cookieValue)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if cookieValue == "" {
				reject(w, r, http.StatusForbidden, "csrf token missing")
				return
			}
			submitted := strings.TrimSpace(r.Header.Get(csrfHeaderName))
			if submitted == "" {
				submitted = strings.TrimSpace(r.PostFormValue(csrfFormField))
			}
			if submitted == "" || subtle.ConstantTimeCompare([]byte(submitted), []byte(cookieValue)) != 1 {
				reject(w, r, http.StatusForbidden, "csrf token invalid")
				return
			}
			ctx := context.WithValue(r.Context(), csrfCtxKey{}, cookieValue)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
