package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/desertthunder/ponyseeo/internal/server"
	"github.com/desertthunder/ponyseeo/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

const authTimeout = 2 * time.Minute

// AuthLogin performs the OAuth2 flow against a loopback callback server and saves the tokens to the config file.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if r.google == nil {
		return fmt.Errorf("%w: google client_id and client_secret must be set in %s", shared.ErrMissingCredentials, r.configPath)
	}

	token, err := r.doOAuth(ctx, r.config.Credentials.Google.RedirectURI, authTimeout)
	if err != nil {
		return err
	}

	if err := r.saveTokens(token); err != nil {
		return err
	}

	r.writePlainln("✓ Authorization successful")
	if r.configPath != "" {
		r.writePlain("✓ Tokens saved to %s\n\n", r.configPath)
	}
	r.writePlain("You can now use: ponyseeo videos\n")

	return nil
}

// AuthStatus reports which account the stored token belongs to, refreshing it when expired.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	ts, err := r.tokenSource(ctx)
	if err != nil {
		return err
	}

	token, err := ts.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTokenExpired, err)
	}

	user, err := r.google.UserProfile(ctx, token)
	if err != nil {
		return err
	}

	if token.AccessToken != r.config.Credentials.Google.AccessToken {
		r.logger.Info("access token refreshed")
		if err := r.saveTokens(token); err != nil {
			r.logger.Warn("failed to persist refreshed token", "error", err)
		}
	}

	r.writePlain("✓ Signed in as %s\n", user.Email)
	if !token.Expiry.IsZero() {
		r.writePlain("Access token expires %s\n", token.Expiry.Local().Format(time.RFC1123))
	}
	return nil
}

// doOAuth runs one authorization round trip. A redirect URI with port 0 listens on any free port.
func (r *Runner) doOAuth(ctx context.Context, redirectURI string, timeout time.Duration) (*oauth2.Token, error) {
	redirect, err := url.Parse(redirectURI)
	if err != nil || redirect.Host == "" {
		return nil, fmt.Errorf("%w: credentials.google.redirect_uri %q", shared.ErrInvalidConfig, redirectURI)
	}

	listener, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", redirect.Host, err)
	}
	redirect.Host = listener.Addr().String()
	redirectURI = redirect.String()

	state, err := shared.GenerateState()
	if err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	authURL := r.google.AuthURL(state, redirectURI)
	oauthHandler := server.NewOAuthHandler(r.google, state, redirectURI)
	router := server.NewBasicRouter()
	router.Handler(oauthHandler)

	httpServer := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth callback server at %v", listener.Addr())
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("error shutting down server", "error", err)
		}
	}()

	r.writePlain("→ Opening browser for Google sign-in...\n")
	if err := r.open(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (%s timeout)...\n", timeout)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var result server.OAuthResult
	select {
	case result = <-oauthHandler.Result():
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timer.C:
		return nil, fmt.Errorf("%w: authorization timed out after %s", shared.ErrTimeout, timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}

	return result.Token, nil
}
