package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/ponyseeo/internal/models"
	"github.com/desertthunder/ponyseeo/internal/services"
	"github.com/desertthunder/ponyseeo/internal/shared"
	"golang.org/x/oauth2"
)

const cardWidth = 28

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	ErrorView
	GalleryView
)

// Layout is the gallery arrangement.
type Layout int

const (
	GridLayout Layout = iota
	ListLayout
)

func (l Layout) String() string {
	if l == ListLayout {
		return "list"
	}
	return "grid"
}

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	view       ViewState
	layout     Layout
	media      services.MediaService
	tokens     oauth2.TokenSource
	open       func(string) error
	width      int
	height     int
	spinner    spinner.Model
	list       list.Model
	videos     []models.Video
	selected   *models.Video
	generation int
	status     string
	err        error
	help       help.Model
	keys       keyMap
}

// NewModel creates a new TUI model listing videos from media with tokens.
func NewModel(ctx context.Context, media services.MediaService, tokens oauth2.TokenSource) *Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Videos"
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	return &Model{
		ctx:     ctx,
		view:    LoadingView,
		media:   media,
		tokens:  tokens,
		open:    shared.OpenBrowser,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.ok)),
		list:    l,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// WithOpener replaces the function used to open video URLs.
func (m *Model) WithOpener(open func(string) error) *Model {
	if open != nil {
		m.open = open
	}
	return m
}

// Init starts the spinner and the first fetch.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width-4, max(msg.Height-14, 5))
		return m, nil

	case spinner.TickMsg:
		if m.view != LoadingView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgVideosFetched:
		data := msg.data.(videosFetched)
		if data.generation != m.generation {
			return m, nil
		}
		if data.err != nil {
			m.err = data.err
			m.view = ErrorView
			return m, nil
		}
		m.setVideos(data.videos)
		m.view = GalleryView
		return m, nil

	case MsgBrowserOpened:
		data := msg.data.(browserOpened)
		if data.err != nil {
			m.status = styles.err.Render(fmt.Sprintf("Could not open browser: %v", data.err))
		} else {
			m.status = styles.help.Render("Opened " + data.url)
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) {
		return m, tea.Quit
	}

	switch m.view {
	case LoadingView:
		return m, nil

	case ErrorView:
		if key.Matches(msg, m.keys.retry) {
			return m, tea.Batch(m.spinner.Tick, m.fetch())
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.retry):
		return m, tea.Batch(m.spinner.Tick, m.fetch())
	case key.Matches(msg, m.keys.toggle):
		if m.layout == GridLayout {
			m.layout = ListLayout
		} else {
			m.layout = GridLayout
		}
		return m, nil
	case key.Matches(msg, m.keys.enter):
		m.selectCurrent()
		return m, nil
	case key.Matches(msg, m.keys.open):
		return m, m.openSelected()
	}

	if m.layout == GridLayout {
		m.moveInGrid(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// fetch starts a new numbered fetch. Results of earlier fetches are ignored once it is issued.
func (m *Model) fetch() tea.Cmd {
	m.generation++
	m.view = LoadingView
	m.err = nil
	m.status = ""

	generation, ctx, media, tokens := m.generation, m.ctx, m.media, m.tokens
	return func() tea.Msg {
		videos, err := media.Videos(ctx, tokens)
		return videosFetchedMsg(generation, videos, err)
	}
}

func (m *Model) setVideos(videos []models.Video) {
	m.videos = videos
	m.list.SetItems(videoItems(videos))
	m.list.Select(0)
	m.selected = nil
	if len(videos) > 0 {
		m.selected = &m.videos[0]
	}
}

func (m *Model) selectCurrent() {
	i := m.list.Index()
	if i >= 0 && i < len(m.videos) {
		m.selected = &m.videos[i]
	}
}

func (m *Model) openSelected() tea.Cmd {
	if m.selected == nil {
		return nil
	}

	url, open := m.selected.VideoURL, m.open
	return func() tea.Msg {
		return browserOpenedMsg(url, open(url))
	}
}

func (m *Model) columns() int {
	if m.width <= 0 {
		return 3
	}
	return max(1, m.width/(cardWidth+4))
}

func (m *Model) moveInGrid(msg tea.KeyMsg) {
	if len(m.videos) == 0 {
		return
	}

	i, cols := m.list.Index(), m.columns()
	switch {
	case key.Matches(msg, m.keys.left):
		i--
	case key.Matches(msg, m.keys.right):
		i++
	case key.Matches(msg, m.keys.up):
		i -= cols
	case key.Matches(msg, m.keys.down):
		i += cols
	default:
		return
	}

	m.list.Select(min(max(i, 0), len(m.videos)-1))
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LoadingView:
		return fmt.Sprintf("\n  %s Loading videos...\n\n  %s", m.spinner.View(), m.help.ShortHelpView([]key.Binding{m.keys.quit}))
	case ErrorView:
		return m.renderError()
	case GalleryView:
		return m.renderGallery()
	default:
		return ""
	}
}

func (m *Model) renderError() string {
	msg := styles.err.Render(fmt.Sprintf("Failed to load videos: %v", m.err))
	return fmt.Sprintf("%s\n\n%s", msg, m.help.ShortHelpView([]key.Binding{m.keys.retry, m.keys.quit}))
}

func (m *Model) renderGallery() string {
	var b strings.Builder

	b.WriteString(styles.title.Render(fmt.Sprintf("Video Library (%d) · %s", len(m.videos), m.layout)))
	b.WriteString("\n")

	if len(m.videos) == 0 {
		b.WriteString(styles.warn.Render("No videos found in your library"))
		b.WriteString("\n\n")
		b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.retry, m.keys.quit}))
		return b.String()
	}

	if m.selected != nil {
		player := fmt.Sprintf("▶ %s\n%dx%d\n%s", m.selected.Title, m.selected.Width, m.selected.Height, m.selected.VideoURL)
		b.WriteString(styles.player.Render(player))
		b.WriteString("\n\n")
	}

	if m.layout == GridLayout {
		b.WriteString(m.renderGrid())
	} else {
		b.WriteString(m.list.View())
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.status)
	}

	b.WriteString("\n\n")
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	return b.String()
}

func (m *Model) renderGrid() string {
	cols, cursor := m.columns(), m.list.Index()

	var rows []string
	for start := 0; start < len(m.videos); start += cols {
		end := min(start+cols, len(m.videos))

		cards := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			v := m.videos[i]
			label := truncate(v.Title, cardWidth-2)
			if m.selected != nil && m.selected.ID == v.ID {
				label = "▶ " + truncate(v.Title, cardWidth-4)
			}

			style := styles.card
			if i == cursor {
				style = styles.selected
			}
			cards = append(cards, style.Render(fmt.Sprintf("%s\n%dx%d", label, v.Width, v.Height)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
