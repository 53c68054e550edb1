package player

import (
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"tunedeck/internal/shared"
)

// ExecHandle plays audio by shelling out to an external player such as mpv.
// Pause and seek are implemented by restarting the process at the remembered
// offset, which keeps the handle dependency-free at the cost of a short gap.
type ExecHandle struct {
	command string
	logger  *log.Logger

	// OnEnded fires when the player process exits cleanly, i.e. the track
	// finished on its own. OnError fires when it exits with a failure.
	OnEnded func()
	OnError func(error)

	mu        sync.Mutex
	url       string
	cmd       *exec.Cmd
	gen       int
	offset    float64
	startedAt time.Time
	playing   bool
	volume    float64
	muted     bool
}

// NewExecHandle creates a handle driving the given player command. An empty
// command falls back to mpv.
func NewExecHandle(command string, logger *log.Logger) *ExecHandle {
	if command == "" {
		command = "mpv"
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &ExecHandle{command: command, logger: logger, volume: DefaultVolume}
}

func (h *ExecHandle) Load(url string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.killLocked()
	h.url = url
	h.offset = 0
	h.playing = false
}

func (h *ExecHandle) Play() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.url == "" {
		return fmt.Errorf("%w: nothing loaded", shared.ErrNotPlayable)
	}
	if h.playing {
		return nil
	}
	return h.spawnLocked()
}

func (h *ExecHandle) Pause() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.playing {
		return
	}
	h.offset = h.positionLocked()
	h.killLocked()
	h.playing = false
}

func (h *ExecHandle) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.killLocked()
	h.url = ""
	h.offset = 0
	h.playing = false
}

func (h *ExecHandle) Seek(seconds float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	wasPlaying := h.playing
	if wasPlaying {
		h.killLocked()
		h.playing = false
	}
	h.offset = seconds
	if wasPlaying {
		if err := h.spawnLocked(); err != nil {
			h.logger.Warn("failed to restart player after seek", "err", err)
		}
	}
}

func (h *ExecHandle) SetVolume(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.volume = v
	h.restartIfPlayingLocked()
}

func (h *ExecHandle) SetMuted(muted bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.muted = muted
	h.restartIfPlayingLocked()
}

func (h *ExecHandle) Position() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.positionLocked()
}

func (h *ExecHandle) positionLocked() float64 {
	if !h.playing {
		return h.offset
	}
	return h.offset + time.Since(h.startedAt).Seconds()
}

func (h *ExecHandle) restartIfPlayingLocked() {
	if !h.playing {
		return
	}
	h.offset = h.positionLocked()
	h.killLocked()
	h.playing = false
	if err := h.spawnLocked(); err != nil {
		h.logger.Warn("failed to restart player", "err", err)
	}
}

// spawnLocked starts the player process at the current offset and watches it
// for completion. The generation counter distinguishes a track finishing on
// its own from a process we killed intentionally.
func (h *ExecHandle) spawnLocked() error {
	args := []string{
		"--no-video",
		"--really-quiet",
		fmt.Sprintf("--start=%.1f", h.offset),
		fmt.Sprintf("--volume=%d", int(h.volume*100)),
	}
	if h.muted {
		args = append(args, "--mute=yes")
	}
	args = append(args, h.url)

	parts := strings.Fields(h.command)
	cmd := exec.Command(parts[0], append(parts[1:], args...)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNotPlayable, err)
	}

	h.cmd = cmd
	h.gen++
	h.startedAt = time.Now()
	h.playing = true

	gen := h.gen
	go func() {
		err := cmd.Wait()

		h.mu.Lock()
		if h.gen != gen {
			// A newer process superseded this one.
			h.mu.Unlock()
			return
		}
		h.playing = false
		h.offset = 0
		h.cmd = nil
		onEnded, onError := h.OnEnded, h.OnError
		h.mu.Unlock()

		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		if onEnded != nil {
			onEnded()
		}
	}()
	return nil
}

func (h *ExecHandle) killLocked() {
	if h.cmd != nil && h.cmd.Process != nil {
		h.gen++
		_ = h.cmd.Process.Kill()
		h.cmd = nil
	}
}
