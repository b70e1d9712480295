// package services defines interface MediaService for retrieving videos from Google Photos
package services

import (
	"context"

	"github.com/desertthunder/ponyseeo/internal/models"
	"golang.org/x/oauth2"
)

// MediaService retrieves the list of videos visible to a signed-in user.
type MediaService interface {
	// Videos returns every video the strategy can see. Strategies that need no credentials ignore ts.
	Videos(ctx context.Context, ts oauth2.TokenSource) ([]models.Video, error)

	// Name returns a human-readable name for logs.
	Name() string
}

// OAuthService is the identity provider side of the sign-in flow.
type OAuthService interface {
	// AuthURL returns the consent screen URL. redirectURI overrides the configured one when non-empty.
	AuthURL(state, redirectURI string) string

	// Exchange trades an authorization code for tokens. redirectURI must match the one sent to AuthURL.
	Exchange(ctx context.Context, code, redirectURI string) (*oauth2.Token, error)

	// UserProfile fetches the profile of the token's owner.
	UserProfile(ctx context.Context, token *oauth2.Token) (*GoogleUser, error)

	// OAuthConfig exposes the underlying configuration for token refresh.
	OAuthConfig() *oauth2.Config
}
