// package services defines the source and destination clients used by a sync
//
// YouTube Music (via proxy), Notion
package services

import (
	"context"

	"github.com/desertthunder/ytlikes/internal/models"
)

// Source provides the liked songs to mirror.
type Source interface {
	// LikedSongs retrieves the full liked-songs playlist in service order.
	LikedSongs(ctx context.Context) ([]models.Track, error)

	// Name returns the name of the service (e.g., "YouTube Music")
	Name() string
}

// Destination is the database that receives one row per liked song.
type Destination interface {
	// QueryRows retrieves every existing row, following continuation cursors until exhausted.
	QueryRows(ctx context.Context) ([]models.Row, error)

	// CreateRow appends a row for track.
	//
	// Errors reported by the destination itself are returned as [*NotionError].
	CreateRow(ctx context.Context, track models.Track) (*models.Row, error)

	// Name returns the name of the service (e.g., "Notion")
	Name() string
}
