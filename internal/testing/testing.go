// package testing contains shared testing utilities
package testing

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/ponyseeo/internal/models"
	"golang.org/x/oauth2"
)

// MockMediaService returns canned videos or an error and counts calls.
type MockMediaService struct {
	mu     sync.Mutex
	Result []models.Video
	Err    error
	Calls  int
	Tokens []*oauth2.Token
}

func (m *MockMediaService) Videos(ctx context.Context, ts oauth2.TokenSource) ([]models.Video, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if ts != nil {
		if tok, err := ts.Token(); err == nil {
			m.Tokens = append(m.Tokens, tok)
		}
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}

func (m *MockMediaService) Name() string {
	return "mock"
}

// SampleVideos returns n playable videos with ids v1..vn.
func SampleVideos(n int) []models.Video {
	videos := make([]models.Video, 0, n)
	for i := 1; i <= n; i++ {
		id := "v" + strconv.Itoa(i)
		videos = append(videos, models.Video{
			ID:        id,
			Title:     "clip-" + id + ".mp4",
			Thumbnail: "https://lh3.googleusercontent.com/" + id + "=w640-h360",
			VideoURL:  "https://lh3.googleusercontent.com/" + id + "=dv",
			Width:     1920,
			Height:    1080,
			MimeType:  "video/mp4",
		})
	}
	return videos
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
	Requests []*http.Request
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.Requests = append(m.Requests, req)
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// SearchCall records one request received by the fake mediaItems:search endpoint.
type SearchCall struct {
	Authorization string
	Body          map[string]any
}

// FakeProvider is an httptest server standing in for Google's token, userinfo and Photos Library endpoints.
//
// Status and payload fields may be changed between requests; the zero values set by [NewFakeProvider] describe a
// provider that accepts everything.
type FakeProvider struct {
	*httptest.Server

	mu             sync.Mutex
	TokenStatus    int
	TokenResponse  map[string]any
	UserInfoStatus int
	Email          string
	SearchStatus   int
	MediaItems     []map[string]any

	tokenRequests    []url.Values
	userInfoRequests []string
	searchCalls      []SearchCall
}

// NewFakeProvider starts a [FakeProvider] that is closed when the test ends.
func NewFakeProvider(t *testing.T) *FakeProvider {
	t.Helper()

	f := &FakeProvider{
		TokenStatus: http.StatusOK,
		TokenResponse: map[string]any{
			"access_token":  "fake-access-token",
			"refresh_token": "fake-refresh-token",
			"expires_in":    1800,
			"token_type":    "Bearer",
		},
		UserInfoStatus: http.StatusOK,
		Email:          "pony@example.com",
		SearchStatus:   http.StatusOK,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/token", f.handleToken)
	mux.HandleFunc("/userinfo", f.handleUserInfo)
	mux.HandleFunc("/v1/mediaItems:search", f.handleSearch)

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)
	return f
}

func (f *FakeProvider) TokenURL() string    { return f.URL + "/token" }
func (f *FakeProvider) UserInfoURL() string { return f.URL + "/userinfo" }
func (f *FakeProvider) PhotosURL() string   { return f.URL + "/v1" }

// Credentials returns a credentials map pointing a Google service at this provider.
func (f *FakeProvider) Credentials() map[string]string {
	return map[string]string{
		"client_id":     "test_client_id",
		"client_secret": "test_client_secret",
		"auth_url":      f.URL + "/auth",
		"token_url":     f.TokenURL(),
		"userinfo_url":  f.UserInfoURL(),
	}
}

// Configure changes the provider's canned behavior under its lock.
func (f *FakeProvider) Configure(fn func(*FakeProvider)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

// TokenRequests returns the form bodies posted to the token endpoint.
func (f *FakeProvider) TokenRequests() []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]url.Values(nil), f.tokenRequests...)
}

// UserInfoRequests returns the Authorization headers sent to the userinfo endpoint.
func (f *FakeProvider) UserInfoRequests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.userInfoRequests...)
}

// SearchCalls returns the requests received by the search endpoint.
func (f *FakeProvider) SearchCalls() []SearchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]SearchCall(nil), f.searchCalls...)
}

func (f *FakeProvider) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.tokenRequests = append(f.tokenRequests, r.PostForm)
	status, body := f.TokenStatus, f.TokenResponse
	f.mu.Unlock()

	if status != http.StatusOK {
		writeJSON(w, status, map[string]any{"error": "invalid_grant"})
		return
	}
	writeJSON(w, status, body)
}

func (f *FakeProvider) handleUserInfo(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.userInfoRequests = append(f.userInfoRequests, r.Header.Get("Authorization"))
	status, email := f.UserInfoStatus, f.Email
	f.mu.Unlock()

	if status != http.StatusOK {
		writeJSON(w, status, map[string]any{"error": "unauthorized"})
		return
	}
	writeJSON(w, status, map[string]any{"id": "123", "email": email, "verified_email": true, "name": "Pony"})
}

func (f *FakeProvider) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)

	f.mu.Lock()
	f.searchCalls = append(f.searchCalls, SearchCall{Authorization: r.Header.Get("Authorization"), Body: body})
	status, items := f.SearchStatus, f.MediaItems
	f.mu.Unlock()

	if status != http.StatusOK {
		writeJSON(w, status, map[string]any{"error": map[string]any{"code": status, "message": "upstream failure"}})
		return
	}
	writeJSON(w, status, map[string]any{"mediaItems": items})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// VideoItem returns a mediaItems entry carrying video metadata.
func VideoItem(id, filename, baseURL string) map[string]any {
	return map[string]any{
		"id":       id,
		"filename": filename,
		"baseUrl":  baseURL,
		"mimeType": "video/mp4",
		"mediaMetadata": map[string]any{
			"width":  "1920",
			"height": "1080",
			"video":  map[string]any{"fps": 30, "status": "READY"},
		},
	}
}

// PhotoItem returns a mediaItems entry without video metadata.
func PhotoItem(id, baseURL string) map[string]any {
	return map[string]any{
		"id":       id,
		"filename": id + ".jpg",
		"baseUrl":  baseURL,
		"mimeType": "image/jpeg",
		"mediaMetadata": map[string]any{
			"width":  "4032",
			"height": "3024",
			"photo":  map[string]any{},
		},
	}
}

// HasCookie reports whether resp set a cookie called name with a non-negative MaxAge.
func HasCookie(resp *http.Response, name string) bool {
	for _, c := range resp.Cookies() {
		if c.Name == name && c.MaxAge >= 0 && c.Value != "" {
			return true
		}
	}
	return false
}

// MustReadAll reads r or fails the test.
func MustReadAll(t *testing.T, r io.Reader) string {
	t.Helper()
	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return strings.TrimSpace(string(b))
}
