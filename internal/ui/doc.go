// Package ui implements an interactive terminal video gallery using bubbletea's Elm architecture.
//
// The [Model] moves through three views:
//  1. [LoadingView] : spinner while videos are fetched
//  2. [ErrorView] : the failure message, with r to try again
//  3. [GalleryView] : the selected video above a grid or list of all videos
//
// Fetches are numbered. A result from an older fetch than the latest one is dropped, so the last request wins.
//
// Keyboard navigation uses vim-style bindings (h/j/k/l, enter, g, o, r, q) with contextual help displayed via
// charmbracelet/bubbles/help. Terminals cannot play video, so o hands the selected video's URL to the browser.
package ui
