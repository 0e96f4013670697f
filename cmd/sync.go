package main

import (
	"context"

	"github.com/desertthunder/ytlikes/internal/models"
	"github.com/desertthunder/ytlikes/internal/tasks"
	"github.com/urfave/cli/v3"
)

// syncReport is the --json shape of a sync run.
type syncReport struct {
	RunID    string         `json:"run_id"`
	Liked    int            `json:"liked"`
	Existing int            `json:"existing"`
	Pending  int            `json:"pending"`
	Created  []models.Row   `json:"created"`
	Failed   []failedReport `json:"failed"`
	DryRun   bool           `json:"dry_run,omitempty"`
	Tracks   []models.Track `json:"tracks,omitempty"`
}

type failedReport struct {
	VideoID string `json:"video_id"`
	Title   string `json:"title"`
	Error   string `json:"error"`
}

// printProgress drains the progress channel until it is closed, then closes done.
func (r *Runner) printProgress(progress <-chan tasks.ProgressUpdate, done chan<- struct{}) {
	defer close(done)
	for update := range progress {
		switch update.Phase {
		case tasks.FetchSource, tasks.FetchDest:
			r.writePlain("📥 %s\n", update.Message)
		case tasks.Compare:
			r.writePlain("\n🔍 %s\n", update.Message)
		case tasks.WriteRows:
			if update.Step == 0 {
				r.writePlain("\n📝 %s\n", update.Message)
			} else {
				r.writePlain("   %s\n", update.Message)
			}
		}
	}
}

// SyncRun adds a row for every liked song missing from the database.
func (r *Runner) SyncRun(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("dry-run") {
		return r.SyncDiff(ctx, cmd)
	}

	engine, notion, err := r.engine(ctx, cmd)
	if err != nil {
		return err
	}

	asJSON := cmd.Bool("json")
	r.logger.Info("sync requested", "source", "YouTube Music", "dest", notion.Name())

	var progressCh chan tasks.ProgressUpdate
	done := make(chan struct{})
	if asJSON {
		close(done)
	} else {
		r.writePlain("Syncing liked songs to Notion...\n\n")
		progressCh = make(chan tasks.ProgressUpdate, 50)
		go r.printProgress(progressCh, done)
	}

	result, err := engine.Run(ctx, progressCh)
	if progressCh != nil {
		close(progressCh)
	}
	<-done

	if err != nil {
		if result != nil && result.Created > 0 {
			r.logger.Warn("sync aborted after partial write", "created", result.Created)
		}
		return err
	}

	if asJSON {
		return r.writeJSON(newSyncReport(result), true)
	}

	r.writePlain("\n")
	r.writePlainHeader("Sync Complete!")
	r.writePlain("Liked songs: %d\n", len(result.Plan.Tracks))
	r.writePlain("Existing rows: %d\n", len(result.Plan.Rows))
	r.writePlain("Created: %d/%d\n", result.Created, len(result.Plan.Pending))

	if result.Failed > 0 {
		r.writePlain("\nFailed to add %d tracks:\n", result.Failed)
		for _, wr := range result.Failures() {
			r.writePlain("  - %s - %s: %v\n", wr.Track.ArtistNames(), wr.Track.Title, wr.Err)
		}
	}

	if cmd.Bool("open") {
		if err := r.openURL(notion.DatabaseURL()); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
			r.writePlain("\nOpen %s\n", notion.DatabaseURL())
		}
	}

	return nil
}

// SyncDiff lists the liked songs that a sync would add without writing anything.
func (r *Runner) SyncDiff(ctx context.Context, cmd *cli.Command) error {
	engine, _, err := r.engine(ctx, cmd)
	if err != nil {
		return err
	}

	asJSON := cmd.Bool("json")

	var progressCh chan tasks.ProgressUpdate
	done := make(chan struct{})
	if asJSON {
		close(done)
	} else {
		r.writePlain("Comparing liked songs with Notion...\n\n")
		progressCh = make(chan tasks.ProgressUpdate, 10)
		go r.printProgress(progressCh, done)
	}

	plan, err := engine.Plan(ctx, progressCh)
	if progressCh != nil {
		close(progressCh)
	}
	<-done

	if err != nil {
		return err
	}

	if asJSON {
		report := syncReport{
			RunID:    plan.RunID,
			Liked:    len(plan.Tracks),
			Existing: len(plan.Rows),
			Pending:  len(plan.Pending),
			Created:  []models.Row{},
			Failed:   []failedReport{},
			DryRun:   true,
			Tracks:   plan.Pending,
		}
		return r.writeJSON(report, true)
	}

	r.writePlain("\n")
	r.writePlainHeader("Diff Results")
	r.writePlain("Liked songs: %d\n", len(plan.Tracks))
	r.writePlain("Existing rows: %d\n", len(plan.Rows))
	r.writePlain("To add: %d\n", len(plan.Pending))

	if len(plan.Pending) == 0 {
		r.writePlain("\n✓ Notion is up to date\n")
		return nil
	}

	r.writePlain("\nTracks to add:\n")
	for i, track := range plan.Pending {
		r.writePlain("  %d. %s - %s (%s)\n", i+1, track.ArtistNames(), track.Title, track.VideoID)
	}

	return nil
}

func newSyncReport(result *tasks.RunResult) syncReport {
	report := syncReport{
		RunID:    result.Plan.RunID,
		Liked:    len(result.Plan.Tracks),
		Existing: len(result.Plan.Rows),
		Pending:  len(result.Plan.Pending),
		Created:  make([]models.Row, 0, result.Created),
		Failed:   make([]failedReport, 0, result.Failed),
	}

	for _, wr := range result.Results {
		if wr.OK() {
			if wr.Row != nil {
				report.Created = append(report.Created, *wr.Row)
			}
			continue
		}
		report.Failed = append(report.Failed, failedReport{
			VideoID: wr.Track.VideoID,
			Title:   wr.Track.Title,
			Error:   wr.Err.Error(),
		})
	}

	return report
}
