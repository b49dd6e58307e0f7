// internal/state/mock.go
package state

import (
	"slices"
	"sync"

	"github.com/llehouerou/waveform/internal/playback"
	"github.com/llehouerou/waveform/internal/playlist"
)

// Mock is an in-memory test double for Manager. Saves apply immediately.
type Mock struct {
	mu      sync.Mutex
	prefs   *playback.Prefs
	tracks  []playlist.Track
	saves   int
	closed  bool
	loadErr error
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SavePreferences(p playback.Prefs) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs = &p
	m.saves++
}

func (m *Mock) LoadPreferences() (*playback.Prefs, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.prefs == nil {
		return nil, nil
	}
	p := *m.prefs
	return &p, nil
}

func (m *Mock) LoadPlaylist() ([]playlist.Track, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return slices.Clone(m.tracks), nil
}

func (m *Mock) SavePlaylist(tracks []playlist.Track) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tracks = slices.Clone(tracks)
	return nil
}

func (m *Mock) Flush() error { return nil }

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Test helpers

func (m *Mock) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

func (m *Mock) Prefs() *playback.Prefs {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prefs
}

func (m *Mock) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
