// Shared-album scraping implementation of [MediaService]
package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/desertthunder/ponyseeo/internal/models"
	"github.com/desertthunder/ponyseeo/internal/shared"
	"golang.org/x/oauth2"
)

const (
	scraperUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	maxScrapedVideos = 50
	maxAlbumBytes    = 16 << 20
)

var (
	assetURLPattern = regexp.MustCompile(`\["(https://lh3\.googleusercontent\.com[^"]+)"`)
	sizeParam       = regexp.MustCompile(`=m\d+`)
)

// AlbumScraper implements [MediaService] by scanning a public shared album's HTML for asset URLs.
//
// Google does not document this markup; expect it to break whenever the album page changes.
type AlbumScraper struct {
	albumURL   string
	httpClient *http.Client
}

// NewAlbumScraper creates a scraper for the shared album at albumURL (a photos.app.goo.gl link or its target).
func NewAlbumScraper(albumURL string, client *http.Client) *AlbumScraper {
	if client == nil {
		client = http.DefaultClient
	}
	return &AlbumScraper{albumURL: albumURL, httpClient: client}
}

func (a *AlbumScraper) Name() string {
	return "Google Photos shared album"
}

// Videos fetches the album page and extracts up to 50 video URLs. The token source is unused.
func (a *AlbumScraper) Videos(ctx context.Context, _ oauth2.TokenSource) ([]models.Video, error) {
	if a.albumURL == "" {
		return nil, fmt.Errorf("%w: no album URL configured", shared.ErrInvalidConfig)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.albumURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", scraperUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: album status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	html, err := io.ReadAll(io.LimitReader(resp.Body, maxAlbumBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read album page: %w", err)
	}

	return extractVideos(string(html)), nil
}

// extractVideos applies the URL heuristics: an asset is treated as a video when its URL carries a
// "=m" or "=dv" size suffix or mentions "video". Duplicate URLs are skipped.
func extractVideos(html string) []models.Video {
	videos := []models.Video{}
	seen := make(map[string]bool)

	for _, match := range assetURLPattern.FindAllStringSubmatch(html, -1) {
		u := match[1]
		if seen[u] || !looksLikeVideo(u) {
			continue
		}
		seen[u] = true

		n := len(videos)
		videos = append(videos, models.Video{
			ID:        fmt.Sprintf("video-%d", n),
			Title:     fmt.Sprintf("Video %d", n+1),
			Thumbnail: sizeParam.ReplaceAllString(u, "=w400-h300"),
			VideoURL:  u,
			Width:     defaultWidth,
			Height:    defaultHeight,
		})

		if len(videos) >= maxScrapedVideos {
			break
		}
	}

	return videos
}

func looksLikeVideo(u string) bool {
	return strings.Contains(u, "=m") || strings.Contains(u, "=dv") || strings.Contains(u, "video")
}
