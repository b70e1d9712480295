package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ponyseeo/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgVideosFetched MsgKind = iota
	MsgBrowserOpened
)

type videosFetched struct {
	generation int
	videos     []models.Video
	err        error
}

type browserOpened struct {
	url string
	err error
}

// videosFetchedMsg is the constructor for [MsgVideosFetched]. generation identifies the fetch that produced it.
func videosFetchedMsg(generation int, videos []models.Video, err error) Msg {
	return Msg{kind: MsgVideosFetched, data: videosFetched{generation, videos, err}}
}

// browserOpenedMsg is the constructor for [MsgBrowserOpened]
func browserOpenedMsg(url string, err error) Msg {
	return Msg{kind: MsgBrowserOpened, data: browserOpened{url, err}}
}
