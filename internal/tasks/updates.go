package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
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
	Queue Phase = iota
	Download
	Record
)

func (p Phase) String() string {
	switch p {
	case Queue:
		return "queue"
	case Download:
		return "download"
	case Record:
		return "record"
	default:
		return ""
	}
}

func queueUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Queue,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Queueing %d tracks for download...", total),
	}
}

func downloadStartUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Download,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Downloading: %s...", step, total, title),
	}
}

func downloadDoneUpdate(step, total int, title, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Download,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, title),
		Data:    path,
	}
}

func downloadFailedUpdate(step, total int, title string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Download,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, title, err),
	}
}

func recordUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Record,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Recorded download: %s", step, total, title),
	}
}
