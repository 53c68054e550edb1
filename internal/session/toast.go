package session

import (
	"sync"
	"time"

	"tunedeck/internal/shared"
)

// Severity classifies a toast for rendering.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// DefaultToastDuration is how long a toast stays visible before auto-dismissal.
const DefaultToastDuration = 5 * time.Second

// Toast is a user-facing notification with a fixed lifetime.
type Toast struct {
	ID        string
	Message   string
	Severity  Severity
	CreatedAt time.Time
	Duration  time.Duration
}

// ToastQueue holds pending notifications. Expired toasts are dropped lazily
// on read; callers never have to dismiss them explicitly.
type ToastQueue struct {
	mu     sync.Mutex
	now    func() time.Time
	toasts []Toast
}

// NewToastQueue creates a queue with the given time source (nil means [time.Now]).
func NewToastQueue(now func() time.Time) *ToastQueue {
	if now == nil {
		now = time.Now
	}
	return &ToastQueue{now: now}
}

// Push appends a toast and returns its id.
func (q *ToastQueue) Push(severity Severity, message string) string {
	q.mu.Lock()
	defer q.mu.Unlock()

	toast := Toast{
		ID:        shared.GenerateID(),
		Message:   message,
		Severity:  severity,
		CreatedAt: q.now(),
		Duration:  DefaultToastDuration,
	}
	q.toasts = append(q.toasts, toast)
	return toast.ID
}

// Dismiss removes the toast with the given id.
func (q *ToastQueue) Dismiss(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	kept := q.toasts[:0]
	for _, t := range q.toasts {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	q.toasts = kept
}

// Active returns the toasts that have not yet expired, pruning the rest.
func (q *ToastQueue) Active() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	kept := q.toasts[:0]
	for _, t := range q.toasts {
		if now.Sub(t.CreatedAt) < t.Duration {
			kept = append(kept, t)
		}
	}
	q.toasts = kept

	out := make([]Toast, len(kept))
	copy(out, kept)
	return out
}
