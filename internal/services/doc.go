// Package services implements the outbound side of the gallery: Google identity and video retrieval.
//
// # Google Identity
//
// [GoogleService] wraps an [oauth2.Config] for Google's authorization-code flow. It builds the consent URL
// (offline access, forced consent), exchanges codes with client credentials in the form body, and fetches the
// signed-in user's profile to learn their email.
//
// # Retrieval Strategies
//
// All strategies implement [MediaService]:
//   - [PhotosService] : authenticated Photos Library API search filtered to videos (the default)
//   - [AlbumScraper] : public shared-album HTML scraping, selected only by photos.strategy = "scrape"
//
// Strategies are alternatives picked at startup, never chained as fallbacks. A failed upstream call is returned
// immediately; nothing here retries.
//
// # Error Handling
//
// Services wrap sentinel errors from the shared package:
//   - [shared.ErrNotAuthenticated] : no token source was supplied
//   - [shared.ErrTokenExpired] : the provider rejected the bearer token
//   - [shared.ErrAPIRequest] : transport failure or non-2xx response
//   - [shared.ErrAuthFailed] : code exchange or profile lookup failed
package services
