package server

import (
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// Cookie names making up a browser session.
const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
	UserEmailCookie    = "user_email"
)

const (
	defaultAccessMaxAge = 3600
	longLivedMaxAge     = 30 * 24 * 60 * 60
)

// Session is the per-request view of the session cookies.
//
// It is read once at the start of a request and passed to whatever needs it; nothing holds it between requests.
type Session struct {
	AccessToken  string
	RefreshToken string
	Email        string
}

// SessionFromRequest reads the session cookies from r. Missing cookies leave their fields empty.
func SessionFromRequest(r *http.Request) Session {
	return Session{
		AccessToken:  cookieValue(r, AccessTokenCookie),
		RefreshToken: cookieValue(r, RefreshTokenCookie),
		Email:        cookieValue(r, UserEmailCookie),
	}
}

// Authenticated reports whether the session carries an access token.
func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}

// TokenSource returns a source yielding the session's access token, or nil when there is none.
func (s Session) TokenSource() oauth2.TokenSource {
	if !s.Authenticated() {
		return nil
	}
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: s.AccessToken, TokenType: "Bearer"})
}

// SetSessionCookies writes the session for token and email.
//
// The refresh token cookie is only written when the provider issued one.
func SetSessionCookies(w http.ResponseWriter, token *oauth2.Token, email string, secure bool) {
	http.SetCookie(w, sessionCookie(AccessTokenCookie, token.AccessToken, accessMaxAge(token), secure))
	if token.RefreshToken != "" {
		http.SetCookie(w, sessionCookie(RefreshTokenCookie, token.RefreshToken, longLivedMaxAge, secure))
	}
	http.SetCookie(w, sessionCookie(UserEmailCookie, email, longLivedMaxAge, secure))
}

// ClearSessionCookies expires all three session cookies.
func ClearSessionCookies(w http.ResponseWriter, secure bool) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie, UserEmailCookie} {
		http.SetCookie(w, sessionCookie(name, "", -1, secure))
	}
}

func sessionCookie(name, value string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// accessMaxAge is the token's expires_in, falling back to its expiry and then to one hour.
func accessMaxAge(token *oauth2.Token) int {
	switch v := token.Extra("expires_in").(type) {
	case float64:
		if v > 0 {
			return int(v)
		}
	case int:
		if v > 0 {
			return v
		}
	}

	if !token.Expiry.IsZero() {
		if remaining := int(time.Until(token.Expiry).Seconds()); remaining > 0 {
			return remaining
		}
	}

	return defaultAccessMaxAge
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
