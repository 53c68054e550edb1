package session

import (
	"testing"
	"time"

	tu "tunedeck/internal/testing"
)

func TestToastQueue(t *testing.T) {
	t.Run("PushAndActive", func(t *testing.T) {
		queue := NewToastQueue(nil)
		id := queue.Push(SeveritySuccess, "saved")

		active := queue.Active()
		if len(active) != 1 {
			t.Fatalf("expected 1 active toast, got %d", len(active))
		}
		if active[0].ID != id || active[0].Message != "saved" {
			t.Errorf("unexpected toast: %+v", active[0])
		}
	})

	t.Run("Dismiss", func(t *testing.T) {
		queue := NewToastQueue(nil)
		id := queue.Push(SeverityInfo, "one")
		queue.Push(SeverityInfo, "two")

		queue.Dismiss(id)
		active := queue.Active()
		if len(active) != 1 || active[0].Message != "two" {
			t.Errorf("expected only the second toast, got %+v", active)
		}
	})

	t.Run("ExpiresAfterDuration", func(t *testing.T) {
		clock := tu.NewFakeClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
		queue := NewToastQueue(clock.Now)

		queue.Push(SeverityWarning, "soon gone")
		clock.Advance(DefaultToastDuration + time.Second)

		if active := queue.Active(); len(active) != 0 {
			t.Errorf("expected toast to expire, got %+v", active)
		}
	})

	t.Run("OrderPreserved", func(t *testing.T) {
		queue := NewToastQueue(nil)
		queue.Push(SeverityInfo, "first")
		queue.Push(SeverityInfo, "second")

		active := queue.Active()
		if len(active) != 2 || active[0].Message != "first" || active[1].Message != "second" {
			t.Errorf("expected insertion order, got %+v", active)
		}
	})
}
