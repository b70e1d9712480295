// Google Photos Library API implementation of [MediaService]
//
// Response types based on https://developers.google.com/photos/library/reference/rest/v1/mediaItems/search
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/desertthunder/ponyseeo/internal/models"
	"github.com/desertthunder/ponyseeo/internal/shared"
	"golang.org/x/oauth2"
)

const (
	photosBaseURL   = "https://photoslibrary.googleapis.com/v1"
	defaultPageSize = 100

	// Base URL suffixes understood by Google's image servers.
	thumbnailParam = "=w640-h360"
	downloadParam  = "=dv"

	defaultTitle  = "Untitled Video"
	defaultWidth  = 1280
	defaultHeight = 720
)

type mediaTypeFilter struct {
	MediaTypes []string `json:"mediaTypes"`
}

type searchFilters struct {
	MediaTypeFilter mediaTypeFilter `json:"mediaTypeFilter"`
}

type searchRequest struct {
	PageSize int           `json:"pageSize"`
	Filters  searchFilters `json:"filters"`
}

// VideoMetadata is present on a media item only when it is a video.
type VideoMetadata struct {
	CameraMake  string  `json:"cameraMake,omitempty"`
	CameraModel string  `json:"cameraModel,omitempty"`
	FPS         float64 `json:"fps,omitempty"`
	Status      string  `json:"status,omitempty"`
}

// MediaMetadata carries dimensions as decimal strings, as the API sends them.
type MediaMetadata struct {
	CreationTime string         `json:"creationTime"`
	Width        string         `json:"width"`
	Height       string         `json:"height"`
	Video        *VideoMetadata `json:"video,omitempty"`
}

// MediaItem is a single entry of a mediaItems:search response.
type MediaItem struct {
	ID            string        `json:"id"`
	Filename      string        `json:"filename"`
	BaseURL       string        `json:"baseUrl"`
	ProductURL    string        `json:"productUrl"`
	MimeType      string        `json:"mimeType"`
	MediaMetadata MediaMetadata `json:"mediaMetadata"`
}

// SearchResponse is the body of a mediaItems:search response.
type SearchResponse struct {
	MediaItems    []MediaItem `json:"mediaItems"`
	NextPageToken string      `json:"nextPageToken"`
}

// PhotosService implements [MediaService] against the Photos Library API.
type PhotosService struct {
	baseURL    string
	pageSize   int
	httpClient *http.Client
}

// NewPhotosService creates a Photos Library client. Empty baseURL and non-positive pageSize take the API defaults.
func NewPhotosService(baseURL string, pageSize int, client *http.Client) *PhotosService {
	if baseURL == "" {
		baseURL = photosBaseURL
	}
	if pageSize <= 0 || pageSize > defaultPageSize {
		pageSize = defaultPageSize
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &PhotosService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		pageSize:   pageSize,
		httpClient: client,
	}
}

func (s *PhotosService) Name() string {
	return "Google Photos Library"
}

// Videos runs a single video-filtered search and maps the results.
//
// Only the first page is read. Items the API returns without video metadata are dropped.
func (s *PhotosService) Videos(ctx context.Context, ts oauth2.TokenSource) ([]models.Video, error) {
	if ts == nil {
		return nil, shared.ErrNotAuthenticated
	}

	var response SearchResponse
	if err := s.search(ctx, ts, &response); err != nil {
		return nil, err
	}

	videos := make([]models.Video, 0, len(response.MediaItems))
	for _, item := range response.MediaItems {
		if video, ok := toVideo(item); ok {
			videos = append(videos, video)
		}
	}

	return videos, nil
}

func (s *PhotosService) search(ctx context.Context, ts oauth2.TokenSource, result *SearchResponse) error {
	payload, err := json.Marshal(searchRequest{
		PageSize: s.pageSize,
		Filters:  searchFilters{MediaTypeFilter: mediaTypeFilter{MediaTypes: []string{"VIDEO"}}},
	})
	if err != nil {
		return fmt.Errorf("failed to encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/mediaItems:search", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, s.httpClient), ts)
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: photos library rejected the access token", shared.ErrTokenExpired)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: photos library status %d: %s", shared.ErrAPIRequest, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// toVideo maps a media item to a [models.Video], reporting false for non-video items.
func toVideo(item MediaItem) (models.Video, bool) {
	if item.MediaMetadata.Video == nil || item.BaseURL == "" {
		return models.Video{}, false
	}

	title := item.Filename
	if title == "" {
		title = defaultTitle
	}

	return models.Video{
		ID:        item.ID,
		Title:     title,
		Thumbnail: item.BaseURL + thumbnailParam,
		VideoURL:  item.BaseURL + downloadParam,
		Width:     parseDimension(item.MediaMetadata.Width, defaultWidth),
		Height:    parseDimension(item.MediaMetadata.Height, defaultHeight),
		MimeType:  item.MimeType,
	}, true
}

func parseDimension(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
