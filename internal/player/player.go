// Package player owns the single shared playback handle and the state machine
// around it. All features route playback through one Engine, so at most one
// track is ever audible and every view observes the same state.
package player

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"tunedeck/internal/models"
	"tunedeck/internal/shared"
)

// Handle abstracts the process or device that actually produces sound.
// Implementations are not required to be safe for concurrent use; the Engine
// serializes all calls.
type Handle interface {
	Load(url string)
	Play() error
	Pause()
	Stop()
	Seek(seconds float64)
	SetVolume(v float64)
	SetMuted(muted bool)
	Position() float64
}

// Status is the playback lifecycle state.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusPlaying
	StatusPaused
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	default:
		return "idle"
	}
}

// DefaultVolume matches the initial volume the player starts with.
const DefaultVolume = 0.7

// PlaybackState is a point-in-time snapshot of the engine, safe to hand to
// render loops without further locking.
type PlaybackState struct {
	Status   Status
	Track    *models.Track
	Position float64
	Duration float64
	Volume   float64
	Muted    bool

	PlaylistIndex int
	PlaylistLen   int
}

// Engine drives a Handle through the Idle, Loading, Playing and Paused states.
type Engine struct {
	handle Handle
	logger *log.Logger

	mu        sync.Mutex
	status    Status
	current   *models.Track
	loadedURL string
	duration  float64
	volume    float64
	muted     bool
	lastErr   error

	playlist []models.Track
	index    int
}

// NewEngine creates an Engine over the given handle.
func NewEngine(handle Handle, logger *log.Logger) *Engine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	e := &Engine{handle: handle, logger: logger, volume: DefaultVolume}
	handle.SetVolume(DefaultVolume)
	return e
}

// PlayTrack loads and plays the given track, replacing whatever was audible.
// Selecting the currently loaded track resumes it instead of reloading.
func (e *Engine) PlayTrack(track models.Track) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playTrackLocked(track)
}

func (e *Engine) playTrackLocked(track models.Track) error {
	if !track.Playable() {
		return fmt.Errorf("%w: %q has no audio url", shared.ErrNotPlayable, track.Title)
	}

	if e.loadedURL == track.AudioURL && e.current != nil {
		return e.resumeLocked()
	}

	e.status = StatusLoading
	t := track
	e.current = &t
	e.loadedURL = track.AudioURL
	e.duration = track.DurationSeconds
	e.lastErr = nil

	e.handle.Load(track.AudioURL)
	if err := e.handle.Play(); err != nil {
		e.status = StatusIdle
		e.lastErr = err
		e.logger.Warn("playback refused", "track", track.Title, "err", err)
		return fmt.Errorf("%w: %v", shared.ErrNotPlayable, err)
	}

	e.status = StatusPlaying
	e.logger.Debug("playing", "track", track.Title, "artist", track.Artist)
	return nil
}

// TogglePlayForTrack pauses the track if it is the one currently playing,
// otherwise plays it. Toggling the same track twice returns to the original
// audible state.
func (e *Engine) TogglePlayForTrack(track models.Track) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current != nil && e.current.ID == track.ID && e.status == StatusPlaying {
		e.pauseLocked()
		return nil
	}
	return e.playTrackLocked(track)
}

// Play resumes the paused track. With nothing loaded it is a no-op.
func (e *Engine) Play() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return nil
	}
	return e.resumeLocked()
}

func (e *Engine) resumeLocked() error {
	if err := e.handle.Play(); err != nil {
		e.lastErr = err
		return fmt.Errorf("%w: %v", shared.ErrNotPlayable, err)
	}
	e.status = StatusPlaying
	return nil
}

// Pause pauses playback without losing position.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pauseLocked()
}

func (e *Engine) pauseLocked() {
	if e.status != StatusPlaying {
		return
	}
	e.handle.Pause()
	e.status = StatusPaused
}

// TogglePlay flips between Playing and Paused for the loaded track.
func (e *Engine) TogglePlay() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status == StatusPlaying {
		e.pauseLocked()
		return nil
	}
	if e.current == nil {
		return nil
	}
	return e.resumeLocked()
}

// Stop halts playback and unloads the track, returning the engine to Idle.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handle.Stop()
	e.status = StatusIdle
	e.current = nil
	e.loadedURL = ""
	e.duration = 0
}

// Seek moves the playhead, clamped to [0, duration].
func (e *Engine) Seek(seconds float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return
	}
	if seconds < 0 {
		seconds = 0
	}
	if e.duration > 0 && seconds > e.duration {
		seconds = e.duration
	}
	e.handle.Seek(seconds)
}

// SeekBy moves the playhead relative to the current position.
func (e *Engine) SeekBy(delta float64) {
	e.mu.Lock()
	pos := e.handle.Position()
	e.mu.Unlock()
	e.Seek(pos + delta)
}

// SetVolume sets the output volume, clamped to [0, 1].
func (e *Engine) SetVolume(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	e.volume = v
	e.handle.SetVolume(v)
}

// AdjustVolume nudges the volume by delta, clamped to [0, 1].
func (e *Engine) AdjustVolume(delta float64) {
	e.mu.Lock()
	v := e.volume + delta
	e.mu.Unlock()
	e.SetVolume(v)
}

// ToggleMute flips mute without touching the stored volume.
func (e *Engine) ToggleMute() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.muted = !e.muted
	e.handle.SetMuted(e.muted)
}

// SetPlaylist replaces the navigation list and points at index, which is
// clamped into range. It does not start playback.
func (e *Engine) SetPlaylist(tracks []models.Track, index int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.playlist = make([]models.Track, len(tracks))
	copy(e.playlist, tracks)
	if index < 0 {
		index = 0
	}
	if index >= len(e.playlist) {
		index = 0
	}
	e.index = index
}

// Next plays the following playlist entry, wrapping from the last track back
// to the first.
func (e *Engine) Next() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stepLocked(1)
}

// Previous plays the preceding playlist entry, wrapping from the first track
// to the last.
func (e *Engine) Previous() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stepLocked(-1)
}

func (e *Engine) stepLocked(delta int) error {
	n := len(e.playlist)
	if n == 0 {
		return nil
	}
	e.index = ((e.index+delta)%n + n) % n
	return e.playTrackLocked(e.playlist[e.index])
}

// HandleMetadata records the real duration once the handle has learned it.
func (e *Engine) HandleMetadata(duration float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if duration > 0 {
		e.duration = duration
		if e.current != nil {
			e.current.DurationSeconds = duration
		}
	}
	if e.status == StatusLoading {
		e.status = StatusPlaying
	}
}

// HandleEnded advances to the next playlist entry, or goes Idle when there is
// nothing to advance to.
func (e *Engine) HandleEnded() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.playlist) > 1 {
		if err := e.stepLocked(1); err == nil {
			return
		}
	}
	e.handle.Stop()
	e.status = StatusIdle
	e.current = nil
	e.loadedURL = ""
}

// HandleError records a handle failure and returns the engine to Idle.
func (e *Engine) HandleError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastErr = err
	e.status = StatusIdle
	e.logger.Warn("playback error", "err", err)
}

// Err returns the most recent playback error, if any.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// State returns a snapshot of the engine for rendering.
func (e *Engine) State() PlaybackState {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := PlaybackState{
		Status:        e.status,
		Position:      e.handle.Position(),
		Duration:      e.duration,
		Volume:        e.volume,
		Muted:         e.muted,
		PlaylistIndex: e.index,
		PlaylistLen:   len(e.playlist),
	}
	if e.current != nil {
		t := *e.current
		st.Track = &t
	}
	return st
}
