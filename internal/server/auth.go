package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ponyseeo/internal/models"
	"github.com/desertthunder/ponyseeo/internal/services"
)

// Paths served by [AuthHandler].
const (
	LoginPath    = "/api/auth/login"
	CallbackPath = "/api/auth/callback"
	LogoutPath   = "/api/auth/logout"
)

// Error codes appended to /login when sign-in fails.
const (
	ErrCodeAccessDenied        = "access_denied"
	ErrCodeNoCode              = "no_code"
	ErrCodeTokenExchangeFailed = "token_exchange_failed"
)

// LoginRecorder notes a successful sign-in.
type LoginRecorder interface {
	RecordLogin(ctx context.Context, email string) (*models.User, error)
}

// AuthOptions configures an [AuthHandler].
type AuthOptions struct {
	OAuth    services.OAuthService
	BaseURL  string // public origin; derived from each request when empty
	Secure   bool   // mark session cookies Secure
	Logger   *log.Logger
	Recorder LoginRecorder // optional
}

// AuthHandler serves the browser sign-in flow: the redirect to Google, the callback and logout.
type AuthHandler struct {
	oauth    services.OAuthService
	baseURL  string
	secure   bool
	logger   *log.Logger
	recorder LoginRecorder
}

// NewAuthHandler creates an [AuthHandler].
func NewAuthHandler(opts AuthOptions) *AuthHandler {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &AuthHandler{
		oauth:    opts.OAuth,
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		secure:   opts.Secure,
		logger:   logger.WithPrefix("auth"),
		recorder: opts.Recorder,
	}
}

func (h *AuthHandler) Routes() []string {
	return []string{LoginPath, CallbackPath, LogoutPath}
}

func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == LoginPath && isGet(r):
		h.login(w, r)
	case r.URL.Path == CallbackPath && isGet(r):
		h.callback(w, r)
	case r.URL.Path == LogoutPath && isGet(r):
		ClearSessionCookies(w, h.secure)
		http.Redirect(w, r, "/login", http.StatusFound)
	case r.URL.Path == LogoutPath && r.Method == http.MethodPost:
		ClearSessionCookies(w, h.secure)
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	case r.URL.Path == LoginPath || r.URL.Path == CallbackPath || r.URL.Path == LogoutPath:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	default:
		http.NotFound(w, r)
	}
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.oauth.AuthURL("", h.redirectURI(r)), http.StatusFound)
}

// callback completes the authorization code flow. Every failure ends in a redirect to /login with an error code and
// no cookies set.
func (h *AuthHandler) callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if errParam := q.Get("error"); errParam != "" {
		h.logger.Warn("authorization denied", "error", errParam, "description", q.Get("error_description"))
		redirectToLogin(w, r, ErrCodeAccessDenied)
		return
	}

	code := q.Get("code")
	if code == "" {
		redirectToLogin(w, r, ErrCodeNoCode)
		return
	}

	ctx := r.Context()

	token, err := h.oauth.Exchange(ctx, code, h.redirectURI(r))
	if err != nil {
		h.logger.Error("token exchange failed", "error", err)
		redirectToLogin(w, r, ErrCodeTokenExchangeFailed)
		return
	}

	user, err := h.oauth.UserProfile(ctx, token)
	if err != nil {
		h.logger.Error("failed to fetch user profile", "error", err)
		redirectToLogin(w, r, ErrCodeTokenExchangeFailed)
		return
	}

	if h.recorder != nil {
		if _, err := h.recorder.RecordLogin(ctx, user.Email); err != nil {
			h.logger.Warn("failed to record sign-in", "email", user.Email, "error", err)
		}
	}

	SetSessionCookies(w, token, user.Email, h.secure)
	h.logger.Info("signed in", "email", user.Email, "refresh_token", token.RefreshToken != "")
	http.Redirect(w, r, "/", http.StatusFound)
}

// redirectURI is the callback URL registered with Google for this deployment.
func (h *AuthHandler) redirectURI(r *http.Request) string {
	origin := h.baseURL
	if origin == "" {
		origin = RequestOrigin(r)
	}
	return origin + CallbackPath
}

// RequestOrigin returns scheme://host for r, honoring X-Forwarded-Proto and X-Forwarded-Host from a proxy.
func RequestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}

	host := r.Host
	if fwd := r.Header.Get("X-Forwarded-Host"); fwd != "" {
		host = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}

	return scheme + "://" + host
}

func redirectToLogin(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, "/login?error="+url.QueryEscape(code), http.StatusFound)
}

func isGet(r *http.Request) bool {
	return r.Method == http.MethodGet || r.Method == http.MethodHead
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
