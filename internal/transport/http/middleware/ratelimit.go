package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"laportal/internal/transport/http/api"
)

// loginPeekLimit caps how much of a login body is buffered to find the email.
const loginPeekLimit = 16 << 10

type keyFunc func(r *http.Request) string

type bucket struct {
	hits    int
	resetAt time.Time
}

type decision struct {
	limit     int
	remaining int
	resetIn   time.Duration
	allowed   bool
}

// fixedWindow counts hits per key inside a fixed window. Expired buckets are
// swept at most once per window.
type fixedWindow struct {
	mu        sync.Mutex
	limit     int
	window    time.Duration
	key       keyFunc
	buckets   map[string]*bucket
	lastSweep time.Time
}

func newFixedWindow(limit int, window time.Duration, key keyFunc) *fixedWindow {
	return &fixedWindow{
		limit:   limit,
		window:  window,
		key:     key,
		buckets: make(map[string]*bucket),
	}
}

func (fw *fixedWindow) take(key string, now time.Time) decision {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if now.Sub(fw.lastSweep) >= fw.window {
		for k, b := range fw.buckets {
			if now.After(b.resetAt) {
				delete(fw.buckets, k)
			}
		}
		fw.lastSweep = now
	}

	b, ok := fw.buckets[key]
	if !ok || now.After(b.resetAt) {
		b = &bucket{resetAt: now.Add(fw.window)}
		fw.buckets[key] = b
	}
	b.hits++
	return decision{
		limit:     fw.limit,
		remaining: max(fw.limit-b.hits, 0),
		resetIn:   b.resetAt.Sub(now),
		allowed:   b.hits <= fw.limit,
	}
}

// admit applies the limiter to r. On rejection the 429 is already written.
func (fw *fixedWindow) admit(w http.ResponseWriter, r *http.Request) bool {
	if fw.limit <= 0 {
		return true
	}
	key := fw.key(r)
	if key == "" {
		key = clientIPKey(r)
	}
	d := fw.take(key, time.Now())

	resetSec := ceilSeconds(d.resetIn)
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.Itoa(resetSec))
	if d.allowed {
		return true
	}

	w.Header().Set("Retry-After", strconv.Itoa(max(resetSec, 1)))
	slog.Warn("rate limit exceeded", "key", key, "method", r.Method, "path", r.URL.Path, "limit", d.limit)
	api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", GetRequestID(r.Context()))
	return false
}

// RateLimit throttles every request per signed-in user, or per client IP for
// anonymous callers.
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	fw := newFixedWindow(limit, window, actorOrIPKey)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if fw.admit(w, r) {
				next.ServeHTTP(w, r)
			}
		})
	}
}

type routePolicy int

const (
	policyNone routePolicy = iota
	policyLogin
	policyBulk
)

// sensitiveRoutes are routes that get a tighter budget on top of RateLimit.
// Login is limited by IP and by the submitted email; bulk routes by actor.
var sensitiveRoutes = map[string]routePolicy{
	http.MethodPost + " /auth/login":        policyLogin,
	http.MethodPost + " /auth/register":     policyBulk,
	http.MethodPost + " /audits/import/spx": policyBulk,
	http.MethodPost + " /sellers/apply":     policyBulk,
}

// SensitiveMutationRateLimit gives login a quarter of baseLimit and bulk
// mutations half of it. Other routes pass through untouched.
func SensitiveMutationRateLimit(baseLimit int, window time.Duration) func(http.Handler) http.Handler {
	loginLimit := max(baseLimit/4, 1)
	loginByIP := newFixedWindow(loginLimit, window, clientIPKey)
	loginByEmail := newFixedWindow(loginLimit, window, loginEmailKey)
	bulkByActor := newFixedWindow(max(baseLimit/2, 1), window, actorOrIPKey)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch policyFor(r) {
			case policyLogin:
				if !loginByIP.admit(w, r) || !loginByEmail.admit(w, r) {
					return
				}
			case policyBulk:
				if !bulkByActor.admit(w, r) {
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func policyFor(r *http.Request) routePolicy {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1")
	if path == "" {
		path = "/"
	}
	return sensitiveRoutes[strings.ToUpper(r.Method)+" "+strings.TrimSuffix(path, "/")]
}

func actorOrIPKey(r *http.Request) string {
	if user, ok := GetUser(r.Context()); ok && user.UserID != "" {
		return "user:" + user.UserID
	}
	return clientIPKey(r)
}

// clientIPKey prefers the first X-Forwarded-For hop, then RemoteAddr.
func clientIPKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil && host != "" {
		return host
	}
	return addr
}

// loginEmailKey reads the email from a JSON login body and restores the body
// for the handler. Without one it falls back to the client IP.
func loginEmailKey(r *http.Request) string {
	if r.Body == nil || !strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
		return clientIPKey(r)
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, loginPeekLimit))
	r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(raw), r.Body))
	if err != nil {
		return clientIPKey(r)
	}
	var body struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(raw, &body) != nil || strings.TrimSpace(body.Email) == "" {
		return clientIPKey(r)
	}
	return "email:" + strings.ToLower(strings.TrimSpace(body.Email))
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}
