package session

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/llehouerou/waveform/internal/analyzer"
	"github.com/llehouerou/waveform/internal/player"
	"github.com/llehouerou/waveform/internal/playlist"
)

func testTracks() []playlist.Track {
	return []playlist.Track{
		{ID: "1", Title: "Midnight Dreams", URL: "/audio/midnight-dreams.mp3", Duration: 245 * time.Second},
		{ID: "2", Title: "Ocean Waves", URL: "/audio/ocean-waves.mp3", Duration: 198 * time.Second},
	}
}

func newTestSession(t *testing.T, opts Options) (*Session, *player.Mock) {
	t.Helper()
	mock := player.NewMock()
	s, err := New(mock, opts, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, mock
}

func TestNew_NilSource(t *testing.T) {
	_, err := New(nil, DefaultOptions(), nil)
	assert.Error(t, err)
}

func TestNew_AttachesVisualizer(t *testing.T) {
	s, mock := newTestSession(t, DefaultOptions())

	assert.True(t, s.HasVisualizer())
	assert.NotNil(t, s.Sampler())
	assert.True(t, mock.TapOpen())
	assert.False(t, s.Sampler().Running())
}

func TestNew_AnalyzerFailureDisablesVisualizer(t *testing.T) {
	t.Run("tap error", func(t *testing.T) {
		mock := player.NewMock()
		mock.SetTapError(errors.New("no output"))
		s, err := New(mock, DefaultOptions(), nil)
		require.NoError(t, err)
		defer s.Close()

		assert.False(t, s.HasVisualizer())
		assert.False(t, s.ToggleVisualizer())
		s.SetVisualizer(true)
		assert.Nil(t, s.Sampler())
	})

	t.Run("invalid options", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Analyzer.BinCount = 3
		s, mock := newTestSession(t, opts)

		assert.False(t, s.HasVisualizer())
		assert.False(t, mock.TapOpen())
	})

	t.Run("tap already open", func(t *testing.T) {
		mock := player.NewMock()
		tap, err := mock.OpenTap()
		require.NoError(t, err)
		defer tap.Close()

		s, err := New(mock, DefaultOptions(), nil)
		require.NoError(t, err)
		defer s.Close()
		assert.False(t, s.HasVisualizer())
	})
}

func TestSession_PlayingDrivesSampler(t *testing.T) {
	s, _ := newTestSession(t, DefaultOptions())
	eng := s.Engine()

	eng.SetPlaylist(testTracks())
	require.NoError(t, eng.Play(t.Context()))
	require.Eventually(t, s.Sampler().Running, time.Second, time.Millisecond)

	eng.Pause()
	require.Eventually(t, func() bool { return !s.Sampler().Running() }, time.Second, time.Millisecond)
}

func TestSession_VisualizerOff(t *testing.T) {
	opts := DefaultOptions()
	opts.VisualizerOff = true
	s, _ := newTestSession(t, opts)
	eng := s.Engine()

	eng.SetPlaylist(testTracks())
	require.NoError(t, eng.Play(t.Context()))
	require.Eventually(t, func() bool { return eng.State().Playing }, time.Second, time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	assert.False(t, s.Sampler().Running())

	assert.True(t, s.ToggleVisualizer())
	require.Eventually(t, s.Sampler().Running, time.Second, time.Millisecond)

	s.SetVisualizer(false)
	assert.False(t, s.Sampler().Running())
}

func TestSession_Close(t *testing.T) {
	s, mock := newTestSession(t, DefaultOptions())
	sub := s.Engine().Subscribe()

	s.Engine().SetPlaylist(testTracks())
	require.NoError(t, s.Engine().Play(t.Context()))
	require.Eventually(t, s.Sampler().Running, time.Second, time.Millisecond)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.True(t, mock.Closed())
	assert.False(t, mock.TapOpen())
	assert.False(t, s.Sampler().Running())
	select {
	case <-sub.Done:
	default:
		t.Fatal("subscription not closed")
	}
}

func TestDefaultOptions(t *testing.T) {
	assert.Equal(t, analyzer.DefaultOptions(), DefaultOptions().Analyzer)
}
