package main

import (
	"context"

	"github.com/desertthunder/ytlikes/internal/formatter"
	"github.com/urfave/cli/v3"
)

// LikedList prints the liked-songs playlist.
func (r *Runner) LikedList(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	youtube, err := r.youtubeService(ctx, config)
	if err != nil {
		return err
	}
	youtube.SetLimit(int(cmd.Int("limit")))

	r.logger.Info("fetching liked songs")

	tracks, err := youtube.LikedSongs(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("fetched liked songs", "count", len(tracks))

	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	r.writePlain("Liked songs (%d)\n\n", len(tracks))
	for i, track := range tracks {
		r.writePlain("%d. %s - %s", i+1, track.ArtistNames(), track.Title)
		if album := track.AlbumName(); album != "" {
			r.writePlain(" [%s]", album)
		}
		r.writePlain(" (%s)\n", formatter.FormatDuration(track.DurationSeconds))
		if cmd.Bool("pretty") {
			r.writePlain("   %s\n", track.WatchURL())
		}
	}

	return nil
}

// LikedExport writes the liked-songs playlist to a file.
func (r *Runner) LikedExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	youtube, err := r.youtubeService(ctx, config)
	if err != nil {
		return err
	}

	r.logger.Info("exporting liked songs", "format", format)

	tracks, err := youtube.LikedSongs(ctx)
	if err != nil {
		return err
	}

	path, err := formatter.WriteExport(tracks, format, cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("export complete", "path", path, "count", len(tracks))
	return r.writePlain("✓ Exported %d liked songs to %s\n", len(tracks), path)
}
