package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/desertthunder/ponyseeo/internal/shared"
	th "github.com/desertthunder/ponyseeo/internal/testing"
	"golang.org/x/oauth2"
)

func staticToken(access string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: access})
}

func TestPhotosService(t *testing.T) {
	t.Run("NewPhotosService", func(t *testing.T) {
		t.Run("applies defaults", func(t *testing.T) {
			svc := NewPhotosService("", 0, nil)
			if svc.baseURL != photosBaseURL {
				t.Errorf("expected base URL %s, got %s", photosBaseURL, svc.baseURL)
			}
			if svc.pageSize != defaultPageSize {
				t.Errorf("expected page size %d, got %d", defaultPageSize, svc.pageSize)
			}
			if svc.httpClient == nil {
				t.Error("expected default http client")
			}
		})

		t.Run("clamps page size to the API maximum", func(t *testing.T) {
			if got := NewPhotosService("", 500, nil).pageSize; got != defaultPageSize {
				t.Errorf("expected page size %d, got %d", defaultPageSize, got)
			}
			if got := NewPhotosService("", 25, nil).pageSize; got != 25 {
				t.Errorf("expected page size 25, got %d", got)
			}
		})

		t.Run("trims trailing slash", func(t *testing.T) {
			if got := NewPhotosService("http://example.com/v1/", 0, nil).baseURL; got != "http://example.com/v1" {
				t.Errorf("expected trimmed base URL, got %s", got)
			}
		})
	})

	t.Run("Videos", func(t *testing.T) {
		t.Run("sends video filter with bearer token", func(t *testing.T) {
			provider := th.NewFakeProvider(t)
			svc := NewPhotosService(provider.PhotosURL(), 0, provider.Client())

			if _, err := svc.Videos(context.Background(), staticToken("tok")); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			calls := provider.SearchCalls()
			if len(calls) != 1 {
				t.Fatalf("expected 1 search call, got %d", len(calls))
			}

			call := calls[0]
			if call.Authorization != "Bearer tok" {
				t.Errorf("expected bearer header, got %q", call.Authorization)
			}
			if got, ok := call.Body["pageSize"].(float64); !ok || got != 100 {
				t.Errorf("expected pageSize 100, got %v", call.Body["pageSize"])
			}

			filters, _ := call.Body["filters"].(map[string]any)
			mediaFilter, _ := filters["mediaTypeFilter"].(map[string]any)
			types, _ := mediaFilter["mediaTypes"].([]any)
			if len(types) != 1 || types[0] != "VIDEO" {
				t.Errorf("expected mediaTypes [VIDEO], got %v", mediaFilter["mediaTypes"])
			}
		})

		t.Run("keeps only items with video metadata", func(t *testing.T) {
			provider := th.NewFakeProvider(t)
			provider.Configure(func(f *th.FakeProvider) {
				f.MediaItems = []map[string]any{
					th.VideoItem("a", "first.mp4", "https://lh3.example/a"),
					th.PhotoItem("p", "https://lh3.example/p"),
					th.VideoItem("b", "second.mov", "https://lh3.example/b"),
				}
			})
			svc := NewPhotosService(provider.PhotosURL(), 0, provider.Client())

			videos, err := svc.Videos(context.Background(), staticToken("tok"))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(videos) != 2 {
				t.Fatalf("expected 2 videos, got %d", len(videos))
			}

			first := videos[0]
			if first.ID != "a" || first.Title != "first.mp4" {
				t.Errorf("unexpected first video: %+v", first)
			}
			if first.Thumbnail != "https://lh3.example/a=w640-h360" {
				t.Errorf("unexpected thumbnail %q", first.Thumbnail)
			}
			if first.VideoURL != "https://lh3.example/a=dv" {
				t.Errorf("unexpected video URL %q", first.VideoURL)
			}
			if first.Width != 1920 || first.Height != 1080 {
				t.Errorf("expected 1920x1080, got %dx%d", first.Width, first.Height)
			}
			if first.MimeType != "video/mp4" {
				t.Errorf("expected mime type passthrough, got %q", first.MimeType)
			}
			if videos[1].ID != "b" {
				t.Errorf("expected order to be preserved, got %q", videos[1].ID)
			}
		})

		t.Run("empty library returns an empty list", func(t *testing.T) {
			provider := th.NewFakeProvider(t)
			svc := NewPhotosService(provider.PhotosURL(), 0, provider.Client())

			videos, err := svc.Videos(context.Background(), staticToken("tok"))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if videos == nil || len(videos) != 0 {
				t.Errorf("expected empty non-nil list, got %v", videos)
			}
		})

		t.Run("unauthorized maps to token expired", func(t *testing.T) {
			provider := th.NewFakeProvider(t)
			provider.Configure(func(f *th.FakeProvider) { f.SearchStatus = http.StatusUnauthorized })
			svc := NewPhotosService(provider.PhotosURL(), 0, provider.Client())

			_, err := svc.Videos(context.Background(), staticToken("tok"))
			if !errors.Is(err, shared.ErrTokenExpired) {
				t.Errorf("expected ErrTokenExpired, got %v", err)
			}
		})

		t.Run("server error fails without retry", func(t *testing.T) {
			provider := th.NewFakeProvider(t)
			provider.Configure(func(f *th.FakeProvider) { f.SearchStatus = http.StatusInternalServerError })
			svc := NewPhotosService(provider.PhotosURL(), 0, provider.Client())

			_, err := svc.Videos(context.Background(), staticToken("tok"))
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
			if n := len(provider.SearchCalls()); n != 1 {
				t.Errorf("expected exactly 1 call, got %d", n)
			}
		})

		t.Run("nil token source", func(t *testing.T) {
			svc := NewPhotosService("http://unused", 0, nil)
			if _, err := svc.Videos(context.Background(), nil); !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
		})
	})

	t.Run("toVideo", func(t *testing.T) {
		tests := []struct {
			name       string
			item       MediaItem
			ok         bool
			wantTitle  string
			wantWidth  int
			wantHeight int
		}{
			{
				name: "photo is skipped",
				item: MediaItem{ID: "p", BaseURL: "https://x", MediaMetadata: MediaMetadata{Width: "10", Height: "10"}},
				ok:   false,
			},
			{
				name: "video without base URL is skipped",
				item: MediaItem{ID: "v", MediaMetadata: MediaMetadata{Video: &VideoMetadata{}}},
				ok:   false,
			},
			{
				name:       "missing filename and dimensions fall back",
				item:       MediaItem{ID: "v", BaseURL: "https://x", MediaMetadata: MediaMetadata{Video: &VideoMetadata{}}},
				ok:         true,
				wantTitle:  "Untitled Video",
				wantWidth:  1280,
				wantHeight: 720,
			},
			{
				name: "unparseable dimensions fall back",
				item: MediaItem{
					ID: "v", Filename: "clip.mp4", BaseURL: "https://x",
					MediaMetadata: MediaMetadata{Width: "wide", Height: "-4", Video: &VideoMetadata{}},
				},
				ok:         true,
				wantTitle:  "clip.mp4",
				wantWidth:  1280,
				wantHeight: 720,
			},
			{
				name: "portrait dimensions parse",
				item: MediaItem{
					ID: "v", Filename: "tall.mp4", BaseURL: "https://x",
					MediaMetadata: MediaMetadata{Width: "1080", Height: "1920", Video: &VideoMetadata{}},
				},
				ok:         true,
				wantTitle:  "tall.mp4",
				wantWidth:  1080,
				wantHeight: 1920,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				video, ok := toVideo(tt.item)
				if ok != tt.ok {
					t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
				}
				if !ok {
					return
				}
				if video.Title != tt.wantTitle {
					t.Errorf("expected title %q, got %q", tt.wantTitle, video.Title)
				}
				if video.Width != tt.wantWidth || video.Height != tt.wantHeight {
					t.Errorf("expected %dx%d, got %dx%d", tt.wantWidth, tt.wantHeight, video.Width, video.Height)
				}
				if !video.Playable() {
					t.Error("expected video to be playable")
				}
			})
		}
	})
}
