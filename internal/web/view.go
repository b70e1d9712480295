package web

import (
	"fmt"
	"net/url"

	"github.com/desertthunder/ponyseeo/internal/models"
)

// ViewMode is the gallery layout.
type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

// ParseViewMode returns the mode named by s, defaulting to [ViewGrid].
func ParseViewMode(s string) ViewMode {
	if ViewMode(s) == ViewList {
		return ViewList
	}
	return ViewGrid
}

// Toggle returns the other mode.
func (m ViewMode) Toggle() ViewMode {
	if m == ViewList {
		return ViewGrid
	}
	return ViewList
}

// ViewState is everything the gallery page needs to render.
type ViewState struct {
	Videos   []models.Video
	Selected *models.Video
	Mode     ViewMode
	Error    string
	Email    string
	RetryURL string
}

// NewViewState derives the view from the query string.
//
// The selection is the video whose id matches v, or the first video when v is absent or unknown.
func NewViewState(videos []models.Video, query url.Values) ViewState {
	state := ViewState{
		Videos: videos,
		Mode:   ParseViewMode(query.Get("view")),
	}

	if len(videos) == 0 {
		return state
	}

	state.Selected = &videos[0]
	if id := query.Get("v"); id != "" {
		for i := range videos {
			if videos[i].ID == id {
				state.Selected = &videos[i]
				break
			}
		}
	}

	return state
}

// IsSelected reports whether id is the selected video.
func (s ViewState) IsSelected(id string) bool {
	return s.Selected != nil && s.Selected.ID == id
}

// SelectURL links to the page with id selected in the current mode.
func (s ViewState) SelectURL(id string) string {
	return pageURL(s.Mode, id)
}

// ModeURL links to the page in mode, keeping the selection.
func (s ViewState) ModeURL(mode ViewMode) string {
	id := ""
	if s.Selected != nil {
		id = s.Selected.ID
	}
	return pageURL(mode, id)
}

func pageURL(mode ViewMode, id string) string {
	q := url.Values{}
	q.Set("view", string(mode))
	if id != "" {
		q.Set("v", id)
	}
	return "/?" + q.Encode()
}

// Login error codes understood by [LoginErrorMessage].
const (
	ErrAccessDenied        = "access_denied"
	ErrNoCode              = "no_code"
	ErrTokenExchangeFailed = "token_exchange_failed"
	ErrRedirectURIMismatch = "redirect_uri_mismatch"
)

// LoginErrorMessage maps a /login error code to the banner text. An empty code yields an empty message.
//
// origin is used to spell out the redirect URI that must be registered with Google.
func LoginErrorMessage(code, origin string) string {
	switch code {
	case "":
		return ""
	case ErrAccessDenied:
		return "Access denied. Please grant the required permissions."
	case ErrNoCode:
		return "No authorization code received from Google."
	case ErrTokenExchangeFailed:
		return "Failed to exchange token. This might be a redirect URI mismatch. Check Google Cloud Console."
	case ErrRedirectURIMismatch:
		return fmt.Sprintf("Redirect URI mismatch. Add %s/api/auth/callback to Google Cloud Console authorized redirect URIs.", origin)
	default:
		return "Authentication error: " + code
	}
}
