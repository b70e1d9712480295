// Google OAuth2 implementation of [OAuthService]
//
// Endpoints based on https://developers.google.com/identity/protocols/oauth2/web-server
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/desertthunder/ponyseeo/internal/shared"
	"golang.org/x/oauth2"
)

const (
	googleAuthURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

	// PhotosReadonlyScope grants read access to the user's Photos library.
	PhotosReadonlyScope = "https://www.googleapis.com/auth/photoslibrary.readonly"
)

// GoogleUser is the subset of the userinfo response the gallery uses.
type GoogleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// GoogleService implements [OAuthService] for Google accounts.
type GoogleService struct {
	config      *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

// NewGoogleService creates a Google identity service from client credentials.
//
// Recognized keys: client_id, client_secret (both required), redirect_uri, and the endpoint overrides auth_url,
// token_url and userinfo_url.
func NewGoogleService(credentials map[string]string) (*GoogleService, error) {
	clientID := credentials["client_id"]
	if clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret := credentials["client_secret"]
	if clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	endpoint := oauth2.Endpoint{
		AuthURL:   valueOr(credentials["auth_url"], googleAuthURL),
		TokenURL:  valueOr(credentials["token_url"], googleTokenURL),
		AuthStyle: oauth2.AuthStyleInParams,
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  credentials["redirect_uri"],
		Scopes:       []string{"openid", "email", "profile", PhotosReadonlyScope},
		Endpoint:     endpoint,
	}

	return &GoogleService{
		config:      config,
		userInfoURL: valueOr(credentials["userinfo_url"], googleUserInfoURL),
		httpClient:  http.DefaultClient,
	}, nil
}

// WithHTTPClient replaces the client used for token and profile requests.
func (s *GoogleService) WithHTTPClient(client *http.Client) *GoogleService {
	if client != nil {
		s.httpClient = client
	}
	return s
}

func (s *GoogleService) Name() string {
	return "Google"
}

// OAuthConfig returns the underlying OAuth2 configuration.
func (s *GoogleService) OAuthConfig() *oauth2.Config {
	return s.config
}

// AuthURL returns the consent screen URL requesting offline access with forced consent,
// so Google issues a refresh token on every sign-in.
func (s *GoogleService) AuthURL(state, redirectURI string) string {
	opts := []oauth2.AuthCodeOption{oauth2.AccessTypeOffline, oauth2.ApprovalForce}
	if redirectURI != "" {
		opts = append(opts, oauth2.SetAuthURLParam("redirect_uri", redirectURI))
	}
	return s.config.AuthCodeURL(state, opts...)
}

// Exchange trades an authorization code for tokens.
//
// Any non-2xx response from the token endpoint is a failure.
func (s *GoogleService) Exchange(ctx context.Context, code, redirectURI string) (*oauth2.Token, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: empty authorization code", shared.ErrMissingArgument)
	}

	var opts []oauth2.AuthCodeOption
	if redirectURI != "" {
		opts = append(opts, oauth2.SetAuthURLParam("redirect_uri", redirectURI))
	}

	token, err := s.config.Exchange(s.clientContext(ctx), code, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: token exchange: %v", shared.ErrAuthFailed, err)
	}

	return token, nil
}

// UserProfile fetches the profile of the token's owner. A profile without an email is an error.
func (s *GoogleService) UserProfile(ctx context.Context, token *oauth2.Token) (*GoogleUser, error) {
	if token == nil || token.AccessToken == "" {
		return nil, shared.ErrNotAuthenticated
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: userinfo: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: userinfo status %d: %s", shared.ErrAPIRequest, resp.StatusCode, body)
	}

	var user GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if user.Email == "" {
		return nil, fmt.Errorf("%w: profile has no email", shared.ErrAuthFailed)
	}

	return &user, nil
}

// TokenSource returns a source that refreshes token through the token endpoint once it expires.
func (s *GoogleService) TokenSource(ctx context.Context, token *oauth2.Token) oauth2.TokenSource {
	return s.config.TokenSource(s.clientContext(ctx), token)
}

// clientContext carries the service's HTTP client into oauth2 calls.
func (s *GoogleService) clientContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
