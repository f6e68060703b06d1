package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"laportal/internal/domain/auth"
)

func noContent() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func hit(h http.Handler, method, path, remote, body string, user *auth.UserContext) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.RemoteAddr = remote
	if user != nil {
		req = req.WithContext(WithUser(context.Background(), *user))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitKeys(t *testing.T) {
	user := &auth.UserContext{UserID: "user-1", RoleName: auth.RoleEmployee}

	t.Run("signed in user is keyed by id across addresses", func(t *testing.T) {
		h := RateLimit(1, time.Minute)(noContent())
		require.Equal(t, http.StatusNoContent, hit(h, http.MethodPost, "/api/v1/audits", "198.51.100.11:2222", "", user).Code)
		require.Equal(t, http.StatusTooManyRequests, hit(h, http.MethodPost, "/api/v1/audits", "198.51.100.12:3333", "", user).Code)
	})

	t.Run("anonymous callers are keyed by ip", func(t *testing.T) {
		h := RateLimit(1, time.Minute)(noContent())
		require.Equal(t, http.StatusNoContent, hit(h, http.MethodGet, "/healthz", "203.0.113.10:4444", "", nil).Code)
		require.Equal(t, http.StatusTooManyRequests, hit(h, http.MethodGet, "/healthz", "203.0.113.10:5555", "", nil).Code)
		require.Equal(t, http.StatusNoContent, hit(h, http.MethodGet, "/healthz", "203.0.113.99:5555", "", nil).Code)
	})
}

func TestRateLimitWindowResetAndHeaders(t *testing.T) {
	h := RateLimit(1, 40*time.Millisecond)(noContent())

	first := hit(h, http.MethodGet, "/api/v1/sellers", "192.0.2.20:1111", "", nil)
	require.Equal(t, http.StatusNoContent, first.Code)
	require.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	second := hit(h, http.MethodGet, "/api/v1/sellers", "192.0.2.20:1111", "", nil)
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	require.Equal(t, "1", second.Header().Get("Retry-After"))
	require.NotEmpty(t, second.Header().Get("X-RateLimit-Reset"))

	time.Sleep(50 * time.Millisecond)
	require.Equal(t, http.StatusNoContent, hit(h, http.MethodGet, "/api/v1/sellers", "192.0.2.20:1111", "", nil).Code)
}

func TestSensitiveMutationRateLimit(t *testing.T) {
	admin := &auth.UserContext{UserID: "admin-1", RoleName: auth.RoleAdmin}

	t.Run("read routes bypass", func(t *testing.T) {
		h := SensitiveMutationRateLimit(4, time.Minute)(noContent())
		for i := 0; i < 6; i++ {
			require.Equal(t, http.StatusNoContent, hit(h, http.MethodGet, "/api/v1/dashboard", "198.51.100.40:8888", "", nil).Code)
		}
	})

	t.Run("bulk routes get half the budget", func(t *testing.T) {
		h := SensitiveMutationRateLimit(4, time.Minute)(noContent())
		for i := 0; i < 2; i++ {
			require.Equal(t, http.StatusNoContent, hit(h, http.MethodPost, "/api/v1/audits/import/spx", "198.51.100.41:9999", "", admin).Code)
		}
		require.Equal(t, http.StatusTooManyRequests, hit(h, http.MethodPost, "/api/v1/audits/import/spx", "198.51.100.41:9999", "", admin).Code)
		require.Equal(t, http.StatusNoContent, hit(h, http.MethodPost, "/api/v1/audits", "198.51.100.41:9999", "", admin).Code)
	})

	t.Run("login is limited per email and keeps the body readable", func(t *testing.T) {
		var seen string
		h := SensitiveMutationRateLimit(4, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, _ := io.ReadAll(r.Body)
			seen = string(raw)
			w.WriteHeader(http.StatusNoContent)
		}))

		body := `{"email":"Ops@Example.com","password":"x"}`
		require.Equal(t, http.StatusNoContent, hit(h, http.MethodPost, "/api/v1/auth/login", "192.0.2.30:1234", body, nil).Code)
		require.Equal(t, body, seen)
		rec := hit(h, http.MethodPost, "/api/v1/auth/login", "192.0.2.31:1234", `{"email":"ops@example.com"}`, nil)
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
	})
}

func TestClientIPKeyPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	require.Equal(t, "10.0.0.1", clientIPKey(req))

	req.Header.Set("X-Forwarded-For", " 203.0.113.7 , 10.0.0.1")
	require.Equal(t, "203.0.113.7", clientIPKey(req))
}
