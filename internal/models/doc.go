// Package models defines the entities that flow through a liked-songs sync.
//
//   - [Track] : a liked song from YouTube Music, transient, read once per run
//   - [Row] : an existing Notion database page mirroring a track, keyed by video ID
//
// A [Track] knows how to render the values written to a new row ([Track.ArtistNames],
// [Track.AlbumName], [Track.IconURL], [Track.CoverURL], [Track.WatchURL]).
// Rows are only ever appended by this tool; they are never updated or deleted.
package models
