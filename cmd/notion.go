package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// NotionRows prints every row of the configured database.
func (r *Runner) NotionRows(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	notion, err := r.notionService(config)
	if err != nil {
		return err
	}

	r.logger.Info("reading database rows", "database", config.Notion.DatabaseID)

	rows, err := notion.QueryRows(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("read database rows", "count", len(rows))

	if cmd.Bool("json") {
		return r.writeJSON(rows, true)
	}

	r.writePlain("Rows (%d)\n\n", len(rows))
	for i, row := range rows {
		id := row.VideoID
		if id == "" {
			id = "missing video_id"
		}
		r.writePlain("%d. %s - %s (%s)\n", i+1, row.Artist, row.Title, id)
	}

	return nil
}
