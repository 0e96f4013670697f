// package models defines the data model shared by the liked-songs source and the database destination
package models

import (
	"fmt"
	"strings"
)

const watchURLFormat = "https://youtube.com/watch?v=%s"

// Artist is a credited artist on a [Track].
type Artist struct {
	Name string `json:"name"`
	ID   string `json:"id,omitempty"`
}

// Album is the (optional) release a [Track] belongs to.
type Album struct {
	Name string `json:"name"`
	ID   string `json:"id,omitempty"`
}

// Thumbnail is a single cover image rendition.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Track is a liked song read from the streaming service.
//
// Thumbnails are ordered from smallest (icon sized) to largest.
type Track struct {
	VideoID         string      `json:"video_id"`
	Title           string      `json:"title"`
	Artists         []Artist    `json:"artists"`
	Album           *Album      `json:"album,omitempty"`
	Duration        string      `json:"duration"`
	DurationSeconds int         `json:"duration_seconds"`
	Thumbnails      []Thumbnail `json:"thumbnails"`
}

// ArtistNames joins artist names with a bare comma.
func (t Track) ArtistNames() string {
	names := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		names[i] = a.Name
	}
	return strings.Join(names, ",")
}

// AlbumName returns the album name or "" when the track has none.
func (t Track) AlbumName() string {
	if t.Album == nil {
		return ""
	}
	return t.Album.Name
}

// IconURL returns the lowest resolution thumbnail URL.
func (t Track) IconURL() string {
	if len(t.Thumbnails) == 0 {
		return ""
	}
	return t.Thumbnails[0].URL
}

// CoverURL returns the highest resolution thumbnail URL.
func (t Track) CoverURL() string {
	if len(t.Thumbnails) == 0 {
		return ""
	}
	return t.Thumbnails[len(t.Thumbnails)-1].URL
}

// WatchURL builds the public watch link for the track.
func (t Track) WatchURL() string {
	return fmt.Sprintf(watchURLFormat, t.VideoID)
}

// Row is an existing record in the destination database.
//
// Text fields hold the plain text mirrored from the row's properties.
// VideoID is empty when the identifier property is absent or blank.
type Row struct {
	PageID          string `json:"page_id"`
	URL             string `json:"url,omitempty"`
	VideoID         string `json:"video_id"`
	Title           string `json:"title"`
	Artist          string `json:"artist"`
	Album           string `json:"album"`
	Duration        string `json:"duration"`
	DurationSeconds int    `json:"duration_seconds"`
	Link            string `json:"link,omitempty"`
	Cover           string `json:"cover,omitempty"`
}
