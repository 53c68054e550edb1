// package testing contains shared testing utilities
package testing

import (
	"net/http"
	"sync"
	"time"
)

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// CountingTripper wraps a transport and counts the requests passing through,
// used to assert cache hit/miss behavior.
type CountingTripper struct {
	mu    sync.Mutex
	next  http.RoundTripper
	count int
}

func NewCountingTripper(next http.RoundTripper) *CountingTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &CountingTripper{next: next}
}

func (c *CountingTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	c.mu.Lock()
	c.count++
	c.mu.Unlock()
	return c.next.RoundTrip(r)
}

func (c *CountingTripper) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// MemoryStore is an in-memory double for storage.Store.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string

	// SetErr, when non-nil, is returned by every Set call.
	SetErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (s *MemoryStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(key, value string) error {
	if s.SetErr != nil {
		return s.SetErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// FakeClock provides a controllable time source for cache freshness tests.
type FakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{t: t}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// FakeHandle is a test double for player.Handle. It records transport calls
// and lets tests drive position and playback failures.
type FakeHandle struct {
	mu sync.Mutex

	LoadedURL string
	Playing   bool
	Volume    float64
	Muted     bool

	PlayErr error

	LoadCalls  int
	PlayCalls  int
	PauseCalls int
	StopCalls  int

	pos float64
}

func NewFakeHandle() *FakeHandle { return &FakeHandle{} }

func (h *FakeHandle) Load(url string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.LoadedURL = url
	h.Playing = false
	h.pos = 0
	h.LoadCalls++
}

func (h *FakeHandle) Play() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.PlayCalls++
	if h.PlayErr != nil {
		return h.PlayErr
	}
	h.Playing = true
	return nil
}

func (h *FakeHandle) Pause() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.PauseCalls++
	h.Playing = false
}

func (h *FakeHandle) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.StopCalls++
	h.Playing = false
	h.pos = 0
}

func (h *FakeHandle) Seek(seconds float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pos = seconds
}

func (h *FakeHandle) SetVolume(v float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Volume = v
}

func (h *FakeHandle) SetMuted(muted bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Muted = muted
}

func (h *FakeHandle) Position() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pos
}
