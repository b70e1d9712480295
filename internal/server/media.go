package server

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ponyseeo/internal/models"
	"github.com/desertthunder/ponyseeo/internal/services"
)

// MediaPath is the JSON video listing endpoint.
const MediaPath = "/api/google-photos"

// MediaResponse is the body of every [MediaPath] response. Videos is never null.
type MediaResponse struct {
	Videos []models.Video `json:"videos"`
	Error  string         `json:"error,omitempty"`
}

// MediaHandler lists the signed-in user's videos as JSON.
type MediaHandler struct {
	media  services.MediaService
	logger *log.Logger
}

// NewMediaHandler creates a [MediaHandler] backed by media.
func NewMediaHandler(media services.MediaService, logger *log.Logger) *MediaHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &MediaHandler{media: media, logger: logger.WithPrefix("media")}
}

func (h *MediaHandler) Routes() []string {
	return []string{MediaPath}
}

func (h *MediaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !isGet(r) {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session := SessionFromRequest(r)
	if !session.Authenticated() {
		writeJSON(w, http.StatusUnauthorized, MediaResponse{Videos: []models.Video{}, Error: "Not authenticated"})
		return
	}

	videos, err := h.media.Videos(r.Context(), session.TokenSource())
	if err != nil {
		h.logger.Error("failed to fetch videos", "service", h.media.Name(), "error", err)
		writeJSON(w, http.StatusInternalServerError, MediaResponse{Videos: []models.Video{}, Error: err.Error()})
		return
	}

	if videos == nil {
		videos = []models.Video{}
	}

	h.logger.Debug("fetched videos", "service", h.media.Name(), "count", len(videos))
	writeJSON(w, http.StatusOK, MediaResponse{Videos: videos})
}

// HealthHandler reports liveness.
type HealthHandler struct{}

func (HealthHandler) Routes() []string {
	return []string{"/healthz"}
}

func (HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
