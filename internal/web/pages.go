package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ponyseeo/internal/server"
	"github.com/desertthunder/ponyseeo/internal/services"
)

//go:embed templates/*.html
var templateFiles embed.FS

var templates = template.Must(template.New("").ParseFS(templateFiles, "templates/*.html"))

// PageHandler serves the gallery and sign-in pages.
type PageHandler struct {
	media   services.MediaService
	baseURL string
	logger  *log.Logger
}

// NewPageHandler creates a [PageHandler] rendering videos from media.
func NewPageHandler(media services.MediaService, baseURL string, logger *log.Logger) *PageHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &PageHandler{
		media:   media,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.WithPrefix("web"),
	}
}

func (h *PageHandler) Routes() []string {
	return []string{"/", "/login"}
}

func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch r.URL.Path {
	case "/":
		h.gallery(w, r)
	case "/login":
		h.login(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *PageHandler) gallery(w http.ResponseWriter, r *http.Request) {
	session := server.SessionFromRequest(r)

	videos, err := h.media.Videos(r.Context(), session.TokenSource())

	state := NewViewState(videos, r.URL.Query())
	state.Email = session.Email
	state.RetryURL = r.URL.RequestURI()
	if err != nil {
		h.logger.Error("failed to load videos", "service", h.media.Name(), "error", err)
		state.Error = "Failed to load videos. " + err.Error()
	}

	h.render(w, "gallery.html", state)
}

type loginPage struct {
	Error       string
	RedirectURI string
}

func (h *PageHandler) login(w http.ResponseWriter, r *http.Request) {
	origin := h.baseURL
	if origin == "" {
		origin = server.RequestOrigin(r)
	}

	h.render(w, "login.html", loginPage{
		Error:       LoginErrorMessage(r.URL.Query().Get("error"), origin),
		RedirectURI: origin + server.CallbackPath,
	})
}

// render executes into a buffer first so a template error still produces a clean 500.
func (h *PageHandler) render(w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.Error("failed to render template", "template", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
