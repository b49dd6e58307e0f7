//go:build linux

package mpris

import (
	"testing"
	"time"

	"github.com/quarckster/go-mpris-server/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/waveform/internal/playback"
	"github.com/llehouerou/waveform/internal/player"
	"github.com/llehouerou/waveform/internal/playlist"
)

func newTestAdapter(t *testing.T) (*playerAdapter, *playback.Engine, *player.Mock) {
	t.Helper()
	mock := player.NewMock()
	eng := playback.New(mock, playback.Options{})
	t.Cleanup(func() { _ = eng.Close() })
	eng.SetPlaylist([]playlist.Track{
		{ID: "1", Title: "Midnight Dreams", URL: "a.mp3", Duration: 245 * time.Second},
		{ID: "2", Title: "Ocean Waves", URL: "b.mp3", Duration: 198 * time.Second},
	})
	return &playerAdapter{ctx: t.Context(), service: eng}, eng, mock
}

func TestPlayerAdapter_Transport(t *testing.T) {
	p, eng, _ := newTestAdapter(t)

	require.NoError(t, p.Play())
	assert.True(t, eng.State().Playing)
	require.NoError(t, p.Play())
	assert.True(t, eng.State().Playing)

	require.NoError(t, p.PlayPause())
	assert.False(t, eng.State().Playing)

	require.NoError(t, p.Next())
	assert.Equal(t, "2", eng.State().Track.ID)
	require.NoError(t, p.Previous())
	assert.Equal(t, "1", eng.State().Track.ID)

	status, err := p.PlaybackStatus()
	require.NoError(t, err)
	assert.Equal(t, types.PlaybackStatusPaused, status)

	require.NoError(t, p.Stop())
	assert.False(t, eng.State().Playing)
	assert.Zero(t, eng.State().Position)
}

func TestPlayerAdapter_Seek(t *testing.T) {
	p, eng, mock := newTestAdapter(t)

	require.NoError(t, p.SetPosition(string(formatTrackID("1")), types.Microseconds(10_000_000)))
	assert.Equal(t, 10*time.Second, eng.State().Position)

	require.NoError(t, p.Seek(types.Microseconds(5_000_000)))
	assert.Equal(t, 15*time.Second, eng.State().Position)

	require.NoError(t, p.Seek(types.Microseconds(-60_000_000)))
	assert.Zero(t, eng.State().Position)

	calls := len(mock.SeekCalls())
	require.NoError(t, p.SetPosition(string(formatTrackID("2")), types.Microseconds(1_000_000)))
	assert.Len(t, mock.SeekCalls(), calls)
}

func TestPlayerAdapter_Properties(t *testing.T) {
	p, eng, _ := newTestAdapter(t)

	require.NoError(t, p.SetVolume(0.25))
	v, err := p.Volume()
	require.NoError(t, err)
	assert.InDelta(t, 0.25, v, 1e-9)

	eng.ToggleMute()
	v, err = p.Volume()
	require.NoError(t, err)
	assert.Zero(t, v)

	require.NoError(t, p.SetRate(1.5))
	r, err := p.Rate()
	require.NoError(t, err)
	assert.InDelta(t, 1.5, r, 1e-9)

	require.NoError(t, p.SetLoopStatus(types.LoopStatusTrack))
	loop, err := p.LoopStatus()
	require.NoError(t, err)
	assert.Equal(t, types.LoopStatusTrack, loop)
	assert.Equal(t, playback.RepeatOne, eng.State().Repeat)

	require.NoError(t, p.SetShuffle(true))
	shuffle, err := p.Shuffle()
	require.NoError(t, err)
	assert.True(t, shuffle)

	meta, err := p.Metadata()
	require.NoError(t, err)
	assert.Equal(t, "Midnight Dreams", meta.Title)

	canPlay, err := p.CanPlay()
	require.NoError(t, err)
	assert.True(t, canPlay)
}
