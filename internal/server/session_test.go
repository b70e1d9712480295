package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func cookiesByName(resp *http.Response) map[string]*http.Cookie {
	out := make(map[string]*http.Cookie)
	for _, c := range resp.Cookies() {
		out[c.Name] = c
	}
	return out
}

func TestSession(t *testing.T) {
	t.Run("SetSessionCookies", func(t *testing.T) {
		t.Run("writes three cookies with a refresh token", func(t *testing.T) {
			rec := httptest.NewRecorder()
			token := (&oauth2.Token{AccessToken: "at", RefreshToken: "rt"}).WithExtra(map[string]any{"expires_in": float64(1800)})

			SetSessionCookies(rec, token, "pony@example.com", false)

			cookies := cookiesByName(rec.Result())
			if len(cookies) != 3 {
				t.Fatalf("expected 3 cookies, got %d", len(cookies))
			}

			if c := cookies[AccessTokenCookie]; c.Value != "at" || c.MaxAge != 1800 {
				t.Errorf("unexpected access cookie: %+v", c)
			}
			if c := cookies[RefreshTokenCookie]; c.Value != "rt" || c.MaxAge != longLivedMaxAge {
				t.Errorf("unexpected refresh cookie: %+v", c)
			}
			if c := cookies[UserEmailCookie]; c.Value != "pony@example.com" || c.MaxAge != longLivedMaxAge {
				t.Errorf("unexpected email cookie: %+v", c)
			}
		})

		t.Run("omits refresh cookie when none was issued", func(t *testing.T) {
			rec := httptest.NewRecorder()
			SetSessionCookies(rec, &oauth2.Token{AccessToken: "at"}, "pony@example.com", false)

			cookies := cookiesByName(rec.Result())
			if len(cookies) != 2 {
				t.Fatalf("expected 2 cookies, got %d", len(cookies))
			}
			if _, ok := cookies[RefreshTokenCookie]; ok {
				t.Error("expected no refresh cookie")
			}
		})

		t.Run("cookie attributes", func(t *testing.T) {
			for _, secure := range []bool{true, false} {
				rec := httptest.NewRecorder()
				SetSessionCookies(rec, &oauth2.Token{AccessToken: "at", RefreshToken: "rt"}, "e@example.com", secure)

				for _, c := range rec.Result().Cookies() {
					if !c.HttpOnly {
						t.Errorf("%s: expected HttpOnly", c.Name)
					}
					if c.SameSite != http.SameSiteLaxMode {
						t.Errorf("%s: expected SameSite=Lax", c.Name)
					}
					if c.Secure != secure {
						t.Errorf("%s: expected Secure=%v", c.Name, secure)
					}
					if c.Path != "/" {
						t.Errorf("%s: expected path /, got %q", c.Name, c.Path)
					}
				}
			}
		})
	})

	t.Run("accessMaxAge", func(t *testing.T) {
		tests := []struct {
			name  string
			token *oauth2.Token
			min   int
			max   int
		}{
			{"expires_in float", (&oauth2.Token{}).WithExtra(map[string]any{"expires_in": float64(120)}), 120, 120},
			{"expires_in int", (&oauth2.Token{}).WithExtra(map[string]any{"expires_in": 60}), 60, 60},
			{"expiry fallback", &oauth2.Token{Expiry: time.Now().Add(10 * time.Minute)}, 590, 600},
			{"past expiry uses default", &oauth2.Token{Expiry: time.Now().Add(-time.Minute)}, 3600, 3600},
			{"nothing uses default", &oauth2.Token{}, 3600, 3600},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got := accessMaxAge(tt.token)
				if got < tt.min || got > tt.max {
					t.Errorf("expected %d..%d, got %d", tt.min, tt.max, got)
				}
			})
		}
	})

	t.Run("ClearSessionCookies expires all three", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ClearSessionCookies(rec, false)

		cookies := cookiesByName(rec.Result())
		for _, name := range []string{AccessTokenCookie, RefreshTokenCookie, UserEmailCookie} {
			c, ok := cookies[name]
			if !ok {
				t.Errorf("expected %s to be cleared", name)
				continue
			}
			if c.MaxAge >= 0 || c.Value != "" {
				t.Errorf("expected %s to be expired, got %+v", name, c)
			}
		}
	})

	t.Run("SessionFromRequest", func(t *testing.T) {
		t.Run("reads cookies", func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "at"})
			req.AddCookie(&http.Cookie{Name: UserEmailCookie, Value: "pony@example.com"})

			s := SessionFromRequest(req)
			if !s.Authenticated() || s.AccessToken != "at" || s.Email != "pony@example.com" || s.RefreshToken != "" {
				t.Errorf("unexpected session: %+v", s)
			}

			token, err := s.TokenSource().Token()
			if err != nil || token.AccessToken != "at" {
				t.Errorf("expected token source to yield access token, got %v, %v", token, err)
			}
		})

		t.Run("empty without cookies", func(t *testing.T) {
			s := SessionFromRequest(httptest.NewRequest(http.MethodGet, "/", nil))
			if s.Authenticated() {
				t.Error("expected unauthenticated session")
			}
			if s.TokenSource() != nil {
				t.Error("expected nil token source")
			}
		})
	})
}
