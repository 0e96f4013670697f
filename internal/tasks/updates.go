package tasks

import (
	"fmt"

	"github.com/desertthunder/ytlikes/internal/models"
)

// ProgressUpdate represents a progress event during a sync.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchSource Phase = iota
	FetchDest
	Compare
	WriteRows
	Done
)

func (p Phase) String() string {
	switch p {
	case FetchSource:
		return "fetch_source"
	case FetchDest:
		return "fetch_dest"
	case Compare:
		return "compare"
	case WriteRows:
		return "write_rows"
	case Done:
		return "done"
	default:
		return ""
	}
}

func fetchSourceUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    0,
		Total:   1,
		Message: fmt.Sprintf("Fetching liked songs (%s)...", name),
	}
}

func fetchedSourceUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d liked songs", count),
	}
}

func fetchDestUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDest,
		Step:    0,
		Total:   1,
		Message: fmt.Sprintf("Reading existing rows (%s)...", name),
	}
}

func fetchedDestUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d existing rows", count),
	}
}

func compareUpdate(plan *PlanResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Compare,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("%d songs to add", len(plan.Pending)),
		Data:    plan,
	}
}

func writeRowUpdate(step, total int, tr models.Track) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteRows,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, tr.ArtistNames(), tr.Title),
	}
}

func writeFailedUpdate(step, total int, wr WriteResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteRows,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, wr.Track.Title, wr.Err),
		Data:    wr,
	}
}

func doneUpdate(result *RunResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Done,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Added %d songs (%d failed)", result.Created, result.Failed),
		Data:    result,
	}
}
