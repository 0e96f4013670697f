package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytlikes/internal/models"
	"github.com/desertthunder/ytlikes/internal/services"
	"github.com/desertthunder/ytlikes/internal/shared"
)

// PlanResult is everything read before any write: the liked songs, the existing rows and the songs to add.
type PlanResult struct {
	RunID   string         // Correlation ID shared by every log line of the run
	Tracks  []models.Track // Liked songs in source order
	Rows    []models.Row   // Existing database rows
	Pending []models.Track // Tracks without a row, in source order
}

// WriteResult is the outcome of creating one row.
type WriteResult struct {
	Track models.Track // Track that was submitted
	Row   *models.Row  // Created row (nil on failure)
	Err   error        // Error reported for this track
}

// OK reports whether the row was created.
func (w WriteResult) OK() bool {
	return w.Err == nil
}

// RunResult contains all data from a full sync.
type RunResult struct {
	Plan    *PlanResult
	Results []WriteResult // One entry per submitted track, in submission order
	Created int           // Rows created
	Failed  int           // Rows rejected by the destination
}

// Failures returns the write results that did not create a row.
func (r *RunResult) Failures() []WriteResult {
	failures := make([]WriteResult, 0, r.Failed)
	for _, wr := range r.Results {
		if !wr.OK() {
			failures = append(failures, wr)
		}
	}
	return failures
}

// SyncEngine defines the liked-songs sync operations.
type SyncEngine interface {
	// Plan fetches both sides and computes the tracks to add without writing anything.
	Plan(ctx context.Context, progress chan<- ProgressUpdate) (*PlanResult, error)

	// Run performs Plan and then appends one row per pending track.
	Run(ctx context.Context, progress chan<- ProgressUpdate) (*RunResult, error)
}

// Engine implements [SyncEngine] for a single source and destination.
type Engine struct {
	source services.Source
	dest   services.Destination
	logger *log.Logger
}

// NewEngine creates a new Engine with the provided services.
//
// A nil logger discards output.
func NewEngine(source services.Source, dest services.Destination, logger *log.Logger) *Engine {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Engine{source: source, dest: dest, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func (e *Engine) check() error {
	if e.source == nil {
		return fmt.Errorf("%w: source service not initialized", shared.ErrServiceUnavailable)
	}
	if e.dest == nil {
		return fmt.Errorf("%w: destination service not initialized", shared.ErrServiceUnavailable)
	}
	return nil
}

// Plan reads the liked songs and the existing rows, then diffs them.
func (e *Engine) Plan(ctx context.Context, progress chan<- ProgressUpdate) (*PlanResult, error) {
	if err := e.check(); err != nil {
		return nil, err
	}

	runID := shared.GenerateID()
	return e.plan(ctx, progress, runID, shared.WithLogger(e.logger, "run_id", runID))
}

func (e *Engine) plan(ctx context.Context, progress chan<- ProgressUpdate, runID string, logger *log.Logger) (*PlanResult, error) {
	plan := &PlanResult{RunID: runID}

	e.sendProgress(progress, fetchSourceUpdate(e.source.Name()))
	logger.Info("fetching liked songs", "source", e.source.Name())

	tracks, err := e.source.LikedSongs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch liked songs: %w", err)
	}

	plan.Tracks = tracks
	logger.Info("fetched liked songs", "count", len(tracks))
	e.sendProgress(progress, fetchedSourceUpdate(len(tracks)))

	e.sendProgress(progress, fetchDestUpdate(e.dest.Name()))
	logger.Info("reading existing rows", "destination", e.dest.Name())

	rows, err := e.dest.QueryRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read existing rows: %w", err)
	}

	plan.Rows = rows
	logger.Info("read existing rows", "count", len(rows))
	e.sendProgress(progress, fetchedDestUpdate(len(rows)))

	pending, err := Diff(tracks, rows)
	if err != nil {
		return nil, err
	}

	if skipped := countMissingIDs(tracks); skipped > 0 {
		logger.Warn("skipping liked songs without a video ID", "count", skipped)
	}

	plan.Pending = pending
	logger.Info("computed diff", "pending", len(pending), "existing", len(rows))
	e.sendProgress(progress, compareUpdate(plan))

	return plan, nil
}

// Run plans the sync and writes every pending track.
//
// Rows rejected by the destination are recorded and the run continues. Any other failure stops the run and the
// partial result is returned with the error.
func (e *Engine) Run(ctx context.Context, progress chan<- ProgressUpdate) (*RunResult, error) {
	if err := e.check(); err != nil {
		return nil, err
	}

	runID := shared.GenerateID()
	logger := shared.WithLogger(e.logger, "run_id", runID)
	logger.Info("starting sync", "source", e.source.Name(), "destination", e.dest.Name())

	plan, err := e.plan(ctx, progress, runID, logger)
	if err != nil {
		logger.Error("sync failed", "error", err)
		return nil, err
	}

	result := &RunResult{Plan: plan}
	err = e.write(ctx, progress, logger, plan.Pending, result)

	logger.Info("sync finished", "created", result.Created, "failed", result.Failed)
	e.sendProgress(progress, doneUpdate(result))

	if err != nil {
		logger.Error("sync aborted", "error", err, "remaining", len(plan.Pending)-len(result.Results))
		return result, err
	}
	return result, nil
}

// Write appends a row for each track in order.
func (e *Engine) Write(ctx context.Context, progress chan<- ProgressUpdate, tracks []models.Track) (*RunResult, error) {
	if err := e.check(); err != nil {
		return nil, err
	}

	runID := shared.GenerateID()
	result := &RunResult{Plan: &PlanResult{RunID: runID, Pending: tracks}}
	err := e.write(ctx, progress, shared.WithLogger(e.logger, "run_id", runID), tracks, result)
	e.sendProgress(progress, doneUpdate(result))

	return result, err
}

func (e *Engine) write(ctx context.Context, progress chan<- ProgressUpdate, logger *log.Logger, tracks []models.Track, result *RunResult) error {
	total := len(tracks)
	result.Results = make([]WriteResult, 0, total)

	for i, track := range tracks {
		if err := ctx.Err(); err != nil {
			return err
		}

		e.sendProgress(progress, writeRowUpdate(i+1, total, track))

		row, err := e.dest.CreateRow(ctx, track)
		wr := WriteResult{Track: track, Row: row, Err: err}

		var nerr *services.NotionError
		switch {
		case err == nil:
			result.Created++
			result.Results = append(result.Results, wr)
			logger.Debug("created row", "video_id", track.VideoID, "page_id", row.PageID)
		case errors.As(err, &nerr):
			result.Failed++
			result.Results = append(result.Results, wr)
			logger.Error("destination rejected row",
				"video_id", track.VideoID, "title", track.Title,
				"status", nerr.Status, "code", nerr.Code, "message", nerr.Message)
			e.sendProgress(progress, writeFailedUpdate(i+1, total, wr))
		default:
			result.Failed++
			result.Results = append(result.Results, wr)
			return fmt.Errorf("failed to create row for %s: %w", track.VideoID, err)
		}
	}

	return nil
}

func countMissingIDs(tracks []models.Track) int {
	n := 0
	for _, tr := range tracks {
		if tr.VideoID == "" {
			n++
		}
	}
	return n
}
