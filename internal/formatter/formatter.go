// package formatter provides functions to export liked songs to various formats (JSON, CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/ytlikes/internal/models"
	"github.com/desertthunder/ytlikes/internal/shared"
)

// Format is an export file format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
)

// Formats lists the supported formats in the order shown to users.
var Formats = []Format{FormatJSON, FormatCSV, FormatMarkdown, FormatText}

// ParseFormat resolves a user supplied format name. "md" and "text" are accepted as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (use json, csv, markdown or txt)", shared.ErrInvalidArgument, name)
	}
}

// Extension returns the file extension for the format, without the dot.
func (f Format) Extension() string {
	if f == FormatMarkdown {
		return "md"
	}
	return string(f)
}

// DefaultFilename is liked_songs.{ext}.
func (f Format) DefaultFilename() string {
	return "liked_songs." + f.Extension()
}

// FormatDuration renders seconds as m:ss, or h:mm:ss for an hour or more.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h, m, s := seconds/3600, (seconds%3600)/60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func duration(track models.Track) string {
	if track.Duration != "" {
		return track.Duration
	}
	return FormatDuration(track.DurationSeconds)
}

// ExportToJSON encodes the tracks as an indented JSON array.
func ExportToJSON(tracks []models.Track) ([]byte, error) {
	if tracks == nil {
		tracks = []models.Track{}
	}
	return shared.MarshalJSON(tracks, true)
}

// ExportToCSV converts tracks to CSV format with columns: Video ID, Title, Artist, Album, Duration, Seconds, URL
func ExportToCSV(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Video ID", "Title", "Artist", "Album", "Duration", "Seconds", "URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range tracks {
		record := []string{
			track.VideoID,
			track.Title,
			track.ArtistNames(),
			track.AlbumName(),
			duration(track),
			strconv.Itoa(track.DurationSeconds),
			track.WatchURL(),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts tracks to a numbered Markdown list linking each song.
func ExportToMarkdown(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Liked Songs\n\n")

	if len(tracks) > 0 && tracks[0].CoverURL() != "" {
		buf.WriteString(fmt.Sprintf("![Cover](%s)\n\n", tracks[0].CoverURL()))
	}

	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n\n", len(tracks)))

	buf.WriteString("## Tracks\n\n")
	for i, track := range tracks {
		albumPart := ""
		if album := track.AlbumName(); album != "" {
			albumPart = fmt.Sprintf(" (%s)", album)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - [%s](%s)%s [%s]\n",
			i+1, track.ArtistNames(), track.Title, track.WatchURL(), albumPart, duration(track)))
	}

	return buf.Bytes(), nil
}

// ExportToText converts tracks to plain text format
func ExportToText(tracks []models.Track) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("Liked Songs\n")
	buf.WriteString(fmt.Sprintf("Tracks: %d\n\n", len(tracks)))

	for i, track := range tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, track.ArtistNames(), track.Title))
	}

	return buf.Bytes(), nil
}

// Export renders tracks in the given format.
func Export(tracks []models.Track, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return ExportToJSON(tracks)
	case FormatCSV:
		return ExportToCSV(tracks)
	case FormatMarkdown:
		return ExportToMarkdown(tracks)
	case FormatText:
		return ExportToText(tracks)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// WriteExport writes tracks to filepath in the given format.
//
// Defaults to liked_songs.{ext} in the working directory. Returns the path written.
func WriteExport(tracks []models.Track, format Format, filepath string) (string, error) {
	if filepath == "" {
		filepath = format.DefaultFilename()
	}

	data, err := Export(tracks, format)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}

	return filepath, nil
}
