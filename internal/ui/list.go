package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/ytlikes/internal/models"
)

var (
	_ list.Item = trackItem{}
)

// trackItem wraps [models.Track] to implement [list.Item].
type trackItem struct {
	track models.Track
}

func (i trackItem) FilterValue() string { return i.track.Title + " " + i.track.ArtistNames() }
func (i trackItem) Title() string       { return i.track.Title }
func (i trackItem) Description() string {
	parts := []string{i.track.ArtistNames()}
	if album := i.track.AlbumName(); album != "" {
		parts = append(parts, album)
	}
	if i.track.Duration != "" {
		parts = append(parts, i.track.Duration)
	}
	return strings.Join(parts, " • ")
}

func trackItems(tracks []models.Track) []list.Item {
	items := make([]list.Item, len(tracks))
	for i, tr := range tracks {
		items[i] = trackItem{track: tr}
	}
	return items
}

func newTrackList(tracks []models.Track, width, height int) list.Model {
	l := list.New(trackItems(tracks), list.NewDefaultDelegate(), 0, 0)
	l.Title = fmt.Sprintf("Liked songs to add (%d)", len(tracks))
	l.SetShowHelp(false)
	l.SetSize(width, height)
	return l
}
