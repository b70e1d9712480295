package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/ponyseeo/internal/models"
)

var _ list.Item = videoItem{}

// videoItem wraps [models.Video] to implement [list.Item].
type videoItem struct {
	video models.Video
}

func (i videoItem) FilterValue() string { return i.video.Title }
func (i videoItem) Title() string       { return i.video.Title }
func (i videoItem) Description() string {
	desc := fmt.Sprintf("%dx%d", i.video.Width, i.video.Height)
	if i.video.MimeType != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.video.MimeType)
	}
	return desc
}

func videoItems(videos []models.Video) []list.Item {
	items := make([]list.Item, len(videos))
	for i, v := range videos {
		items[i] = videoItem{video: v}
	}
	return items
}
