package tasks

import (
	"fmt"

	"github.com/desertthunder/ytlikes/internal/models"
	"github.com/desertthunder/ytlikes/internal/shared"
)

// MissingIdentifierError reports an existing row whose identifier property is absent or empty.
//
// Such a row cannot take part in the diff, so the run stops instead of guessing.
type MissingIdentifierError struct {
	PageID string // Notion page ID of the offending row
	Index  int    // Position of the row in the query results
}

func (e *MissingIdentifierError) Error() string {
	return fmt.Sprintf("%v: page %s (row %d)", shared.ErrMissingIdentifier, e.PageID, e.Index)
}

func (e *MissingIdentifierError) Unwrap() error {
	return shared.ErrMissingIdentifier
}

// Diff returns the tracks whose video ID is not present in rows, in source order.
//
// Identifiers are compared as exact strings. A track repeated in the source is returned once, at its first
// position. Tracks without a video ID are skipped since they cannot be matched on a later run.
func Diff(tracks []models.Track, rows []models.Row) ([]models.Track, error) {
	existing := make(map[string]struct{}, len(rows))
	for i, row := range rows {
		if row.VideoID == "" {
			return nil, &MissingIdentifierError{PageID: row.PageID, Index: i}
		}
		existing[row.VideoID] = struct{}{}
	}

	pending := make([]models.Track, 0)
	for _, track := range tracks {
		if track.VideoID == "" {
			continue
		}
		if _, ok := existing[track.VideoID]; ok {
			continue
		}

		existing[track.VideoID] = struct{}{}
		pending = append(pending, track)
	}

	return pending, nil
}
