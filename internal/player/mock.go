// internal/player/mock.go
package player

import (
	"context"
	"sync"
	"time"

	"github.com/llehouerou/waveform/internal/playlist"
)

// Mock is a test double for Player. Events are only delivered through Emit,
// which calls subscribers synchronously on the caller's goroutine.
type Mock struct {
	mu        sync.Mutex
	state     State
	track     playlist.Track
	loaded    bool
	position  time.Duration
	duration  time.Duration
	volume    float64
	muted     bool
	rate      float64
	loadErr   error
	playErr   error
	playHook  func(ctx context.Context) error
	loadCalls []playlist.Track
	playCalls int
	pauses    int
	seekCalls []time.Duration
	subs      map[int]func(Event)
	nextSub   int
	samples   []float64
	tapOpen   bool
	tapErr    error
	closed    bool
}

// NewMock creates a new mock player for testing.
func NewMock() *Mock {
	return &Mock{
		state:  Stopped,
		volume: 1,
		rate:   1,
		subs:   make(map[int]func(Event)),
	}
}

func (m *Mock) Load(t playlist.Track) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadCalls = append(m.loadCalls, t)
	if m.loadErr != nil {
		m.loaded = false
		m.state = Stopped
		return m.loadErr
	}
	m.track = t
	m.loaded = true
	m.state = Paused
	m.position = 0
	m.duration = t.Duration
	return nil
}

func (m *Mock) Play(ctx context.Context) error {
	m.mu.Lock()
	m.playCalls++
	hook := m.playHook
	m.mu.Unlock()

	if hook != nil {
		if err := hook(ctx); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.playErr != nil {
		return m.playErr
	}
	if !m.loaded {
		return &PlaybackError{Err: ErrNotLoaded}
	}
	m.state = Playing
	return nil
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauses++
	if m.state == Playing {
		m.state = Paused
	}
}

func (m *Mock) Seek(pos time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seekCalls = append(m.seekCalls, pos)
	if !m.loaded {
		return
	}
	m.position = max(0, min(pos, m.duration))
}

func (m *Mock) SetVolume(level float64) {
	m.mu.Lock()
	m.volume = max(0, min(level, 1))
	m.mu.Unlock()
}

func (m *Mock) SetMuted(muted bool) {
	m.mu.Lock()
	m.muted = muted
	m.mu.Unlock()
}

func (m *Mock) SetRate(rate float64) {
	m.mu.Lock()
	m.rate = ClampRate(rate)
	m.mu.Unlock()
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *Mock) Subscribe(fn func(Event)) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *Mock) Close() error {
	m.mu.Lock()
	m.closed = true
	m.state = Stopped
	m.mu.Unlock()
	return nil
}

// OpenTap returns a tap over the samples set with SetSamples.
func (m *Mock) OpenTap() (Tap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tapErr != nil {
		return nil, m.tapErr
	}
	if m.tapOpen {
		return nil, ErrTapInUse
	}
	m.tapOpen = true
	return &mockTap{m: m}, nil
}

type mockTap struct {
	m *Mock
}

func (t *mockTap) Read(dst []float64) int {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	src := t.m.samples
	if len(src) > len(dst) {
		src = src[len(src)-len(dst):]
	}
	return copy(dst, src)
}

func (t *mockTap) Close() error {
	t.m.mu.Lock()
	t.m.tapOpen = false
	t.m.mu.Unlock()
	return nil
}

// Test helpers

// Emit delivers e to every subscriber on the calling goroutine.
func (m *Mock) Emit(e Event) {
	m.mu.Lock()
	fns := make([]func(Event), 0, len(m.subs))
	for i := range m.nextSub {
		if fn, ok := m.subs[i]; ok {
			fns = append(fns, fn)
		}
	}
	m.mu.Unlock()
	for _, fn := range fns {
		fn(e)
	}
}

func (m *Mock) SetState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

func (m *Mock) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mock) SetLoadError(err error) {
	m.mu.Lock()
	m.loadErr = err
	m.mu.Unlock()
}

func (m *Mock) SetPlayError(err error) {
	m.mu.Lock()
	m.playErr = err
	m.mu.Unlock()
}

// SetPlayHook runs fn at the start of every Play, outside the mock's lock.
func (m *Mock) SetPlayHook(fn func(ctx context.Context) error) {
	m.mu.Lock()
	m.playHook = fn
	m.mu.Unlock()
}

func (m *Mock) SetTapError(err error) {
	m.mu.Lock()
	m.tapErr = err
	m.mu.Unlock()
}

func (m *Mock) SetSamples(s []float64) {
	m.mu.Lock()
	m.samples = append([]float64(nil), s...)
	m.mu.Unlock()
}

func (m *Mock) SetPosition(d time.Duration) {
	m.mu.Lock()
	m.position = d
	m.mu.Unlock()
}

func (m *Mock) SetDuration(d time.Duration) {
	m.mu.Lock()
	m.duration = d
	m.mu.Unlock()
}

func (m *Mock) LoadCalls() []playlist.Track {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]playlist.Track(nil), m.loadCalls...)
}

func (m *Mock) PlayCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playCalls
}

func (m *Mock) PauseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pauses
}

func (m *Mock) SeekCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.seekCalls...)
}

func (m *Mock) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

func (m *Mock) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

func (m *Mock) Rate() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rate
}

func (m *Mock) TapOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tapOpen
}

func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var (
	_ Interface = (*Mock)(nil)
	_ TapSource = (*Mock)(nil)
	_ TapSource = (*Player)(nil)
)
