package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/llehouerou/waveform/internal/playback"
	"github.com/llehouerou/waveform/internal/playlist"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := OpenPath(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestLoadPreferences_Empty(t *testing.T) {
	m := newTestManager(t)

	p, err := m.LoadPreferences()
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestSavePreferences_Flush(t *testing.T) {
	m := newTestManager(t)

	want := playback.Prefs{
		Volume:  0.4,
		Muted:   true,
		Shuffle: true,
		Repeat:  playback.RepeatOne,
		Rate:    1.5,
		TrackID: "abc",
	}
	m.SavePreferences(want)
	require.NoError(t, m.Flush())

	got, err := m.LoadPreferences()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)
}

func TestSavePreferences_Overwrites(t *testing.T) {
	m := newTestManager(t)

	m.SavePreferences(playback.Prefs{Volume: 0.2, Rate: 1, TrackID: "a"})
	require.NoError(t, m.Flush())
	m.SavePreferences(playback.Prefs{Volume: 0.9, Rate: 1, Repeat: playback.RepeatAll})
	require.NoError(t, m.Flush())

	got, err := m.LoadPreferences()
	require.NoError(t, err)
	assert.InDelta(t, 0.9, got.Volume, 1e-9)
	assert.Equal(t, playback.RepeatAll, got.Repeat)
	assert.Empty(t, got.TrackID)
}

func TestSavePreferences_Debounced(t *testing.T) {
	m := newTestManager(t)
	m.debounce = 10 * time.Millisecond

	for i := 1; i <= 5; i++ {
		m.SavePreferences(playback.Prefs{Volume: float64(i) / 10, Rate: 1})
	}

	require.Eventually(t, func() bool {
		p, err := m.LoadPreferences()
		return err == nil && p != nil
	}, time.Second, 5*time.Millisecond)

	p, err := m.LoadPreferences()
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p.Volume, 1e-9)
}

func TestFlush_NothingPending(t *testing.T) {
	m := newTestManager(t)
	require.NoError(t, m.Flush())
}

func TestClose_FlushesPending(t *testing.T) {
	path := filepath.Join(t.TempDir(), "waveform.db")

	m, err := OpenPath(path, nil)
	require.NoError(t, err)
	m.SavePreferences(playback.Prefs{Volume: 0.3, Rate: 1, Shuffle: true})
	require.NoError(t, m.Close())

	m, err = OpenPath(path, nil)
	require.NoError(t, err)
	defer m.Close()

	p, err := m.LoadPreferences()
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.InDelta(t, 0.3, p.Volume, 1e-9)
	assert.True(t, p.Shuffle)
}

func TestClose_WaitsForDebouncedSave(t *testing.T) {
	for i := range 20 {
		path := filepath.Join(t.TempDir(), "waveform.db")
		core, logs := observer.New(zap.WarnLevel)

		m, err := OpenPath(path, zap.New(core))
		require.NoError(t, err)
		m.debounce = time.Millisecond
		m.SavePreferences(playback.Prefs{Volume: 0.6, Rate: 1, TrackID: "t"})
		time.Sleep(time.Duration(i%4) * time.Millisecond)
		require.NoError(t, m.Close())
		require.NoError(t, m.Close())
		assert.Zero(t, logs.Len(), "save raced the database close")

		m.SavePreferences(playback.Prefs{Volume: 0.1, Rate: 1})

		m, err = OpenPath(path, nil)
		require.NoError(t, err)
		p, err := m.LoadPreferences()
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.InDelta(t, 0.6, p.Volume, 1e-9)
		require.NoError(t, m.Close())
	}
}

func TestPlaylist_RoundTrip(t *testing.T) {
	m := newTestManager(t)

	tracks := []playlist.Track{
		{
			ID: "1", Title: "Midnight Dreams", Artist: "Luna Eclipse", Album: "Nocturnal Vibes",
			Duration: 245 * time.Second, URL: "/audio/midnight-dreams.mp3",
			Artwork: "/images/covers/midnight-dreams.jpg", Genre: "Electronic", Favorite: true,
		},
		{ID: "2", Title: "Ocean Waves", URL: "/audio/ocean-waves.mp3"},
	}
	require.NoError(t, m.SavePlaylist(tracks))

	got, err := m.LoadPlaylist()
	require.NoError(t, err)
	assert.Equal(t, tracks, got)
}

func TestPlaylist_Replace(t *testing.T) {
	m := newTestManager(t)

	require.NoError(t, m.SavePlaylist([]playlist.Track{
		{ID: "1", Title: "A", URL: "a.mp3"},
		{ID: "2", Title: "B", URL: "b.mp3"},
	}))
	require.NoError(t, m.SavePlaylist([]playlist.Track{{ID: "3", Title: "C", URL: "c.mp3"}}))

	got, err := m.LoadPlaylist()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ID)

	require.NoError(t, m.SavePlaylist(nil))
	got, err = m.LoadPlaylist()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestManager_EngineIntegration(t *testing.T) {
	m := newTestManager(t)
	m.debounce = time.Hour

	var prefs playback.Preferences = m
	prefs.SavePreferences(playback.Prefs{Volume: 0.6, Rate: 2})
	require.NoError(t, m.Flush())

	p, err := m.LoadPreferences()
	require.NoError(t, err)
	assert.InDelta(t, 2.0, p.Rate, 1e-9)
}

func TestMock(t *testing.T) {
	m := NewMock()

	p, err := m.LoadPreferences()
	require.NoError(t, err)
	assert.Nil(t, p)

	m.SavePreferences(playback.Prefs{Volume: 0.1})
	assert.Equal(t, 1, m.Saves())
	assert.InDelta(t, 0.1, m.Prefs().Volume, 1e-9)

	require.NoError(t, m.SavePlaylist([]playlist.Track{{ID: "x"}}))
	tracks, err := m.LoadPlaylist()
	require.NoError(t, err)
	assert.Len(t, tracks, 1)

	require.NoError(t, m.Close())
	assert.True(t, m.IsClosed())
}
