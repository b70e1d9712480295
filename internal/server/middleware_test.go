package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/ponyseeo/internal/shared"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestGate(t *testing.T) {
	gated := Gate()(okHandler)

	tests := []struct {
		name          string
		path          string
		authenticated bool
		wantStatus    int
		wantLocation  string
	}{
		{"signed out root", "/", false, http.StatusFound, "/login"},
		{"signed out unknown page", "/anything", false, http.StatusFound, "/login"},
		{"signed out login", "/login", false, http.StatusOK, ""},
		{"signed in login", "/login", true, http.StatusFound, "/"},
		{"signed in root", "/", true, http.StatusOK, ""},
		{"api exempt", "/api/google-photos", false, http.StatusOK, ""},
		{"api auth exempt", "/api/auth/callback", false, http.StatusOK, ""},
		{"static exempt", "/static/app.css", false, http.StatusOK, ""},
		{"favicon exempt", "/favicon.ico", false, http.StatusOK, ""},
		{"png exempt", "/images/logo.png", false, http.StatusOK, ""},
		{"healthz exempt", "/healthz", false, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.authenticated {
				req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "tok"})
			}

			rec := httptest.NewRecorder()
			gated.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if got := rec.Header().Get("Location"); got != tt.wantLocation {
				t.Errorf("expected location %q, got %q", tt.wantLocation, got)
			}
		})
	}

	t.Run("email cookie alone is not a session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: UserEmailCookie, Value: "pony@example.com"})

		rec := httptest.NewRecorder()
		gated.ServeHTTP(rec, req)

		if rec.Code != http.StatusFound {
			t.Errorf("expected redirect, got %d", rec.Code)
		}
	})
}

func TestRequestLogger(t *testing.T) {
	t.Run("logs request with id", func(t *testing.T) {
		var buf bytes.Buffer
		h := RequestLogger(shared.NewLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		id := rec.Header().Get(RequestIDHeader)
		if id == "" {
			t.Fatal("expected request id header")
		}

		out := buf.String()
		for _, want := range []string{"request completed", id, "/healthz", "418"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected log to contain %q, got %s", want, out)
			}
		}
	})

	t.Run("recovers panics", func(t *testing.T) {
		var buf bytes.Buffer
		h := RequestLogger(shared.NewLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("kaboom")
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
		if !strings.Contains(buf.String(), "panic recovered") {
			t.Errorf("expected panic to be logged, got %s", buf.String())
		}
	})
}

func TestRateLimit(t *testing.T) {
	t.Run("IPRateLimiter", func(t *testing.T) {
		t.Run("enforces burst per key", func(t *testing.T) {
			l := NewIPRateLimiter(1, 2, time.Minute)
			frozen := time.Now()
			l.now = func() time.Time { return frozen }

			if !l.Allow("a") || !l.Allow("a") {
				t.Fatal("expected burst of 2 to be allowed")
			}
			if l.Allow("a") {
				t.Error("expected third request to be limited")
			}
			if !l.Allow("b") {
				t.Error("expected other key to have its own bucket")
			}
		})

		t.Run("refills over time", func(t *testing.T) {
			l := NewIPRateLimiter(1, 1, time.Minute)
			now := time.Now()
			l.now = func() time.Time { return now }

			if !l.Allow("a") {
				t.Fatal("expected first request to pass")
			}
			if l.Allow("a") {
				t.Fatal("expected second request to be limited")
			}

			now = now.Add(1100 * time.Millisecond)
			if !l.Allow("a") {
				t.Error("expected request after refill to pass")
			}
		})

		t.Run("drops idle visitors", func(t *testing.T) {
			l := NewIPRateLimiter(1, 1, time.Second)
			now := time.Now()
			l.now = func() time.Time { return now }

			l.Allow("a")
			now = now.Add(2 * time.Second)
			l.Allow("b")

			if _, ok := l.visitors["a"]; ok {
				t.Error("expected idle visitor to be removed")
			}
		})
	})

	t.Run("middleware only limits api routes", func(t *testing.T) {
		l := NewIPRateLimiter(1, 1, time.Minute)
		frozen := time.Now()
		l.now = func() time.Time { return frozen }
		h := RateLimit(l)(okHandler)

		do := func(path string) int {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, path, nil)
			req.RemoteAddr = "10.0.0.1:5555"
			h.ServeHTTP(rec, req)
			return rec.Code
		}

		if code := do("/api/google-photos"); code != http.StatusOK {
			t.Fatalf("expected first api call to pass, got %d", code)
		}
		if code := do("/api/google-photos"); code != http.StatusTooManyRequests {
			t.Errorf("expected 429, got %d", code)
		}
		if code := do("/"); code != http.StatusOK {
			t.Errorf("expected pages to be unlimited, got %d", code)
		}
	})

	t.Run("clientIP", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.7:1234"
		if got := clientIP(req); got != "192.0.2.7" {
			t.Errorf("expected host only, got %q", got)
		}

		req.RemoteAddr = "garbage"
		if got := clientIP(req); got != "garbage" {
			t.Errorf("expected raw address, got %q", got)
		}
	})
}
