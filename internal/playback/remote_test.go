package playback

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/waveform/internal/player"
	"github.com/llehouerou/waveform/internal/playlist"
)

func TestEngine_StalledRemoteTrackDoesNotBlock(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started <- struct{}{}
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	src := player.New(player.Options{PollInterval: 10 * time.Millisecond})
	defer src.Close()
	e := New(src, Options{})

	remote := playlist.Track{ID: "r", Title: "Stream", URL: srv.URL + "/stream.mp3"}
	done := make(chan struct{})
	go func() {
		defer close(done)
		e.SetPlaylist([]playlist.Track{remote})
		<-started

		assert.True(t, e.State().Loading)
		e.Pause()
		e.SetVolume(0.3)
		e.Seek(time.Second)
		assert.InDelta(t, 0.3, e.State().Volume, 1e-9)
		assert.NoError(t, e.Close())
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("engine blocked on a stalled download")
	}
}

func TestEngine_UnreachableRemoteTrack(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	src := player.New(player.Options{PollInterval: 10 * time.Millisecond})
	defer src.Close()
	e := New(src, Options{})
	defer e.Close()
	sub := e.Subscribe()

	e.SetPlaylist([]playlist.Track{{ID: "r", Title: "Gone", URL: srv.URL + "/gone.ogg"}})

	select {
	case ev := <-sub.Error:
		assert.Equal(t, "load", ev.Operation)
		assert.Equal(t, KindLoad, ev.Info.Kind)
		assert.ErrorIs(t, ev.Info.Err, player.ErrHTTPStatus)
	case <-time.After(2 * time.Second):
		t.Fatal("no error event")
	}
	st := e.State()
	assert.False(t, st.Loading)
	assert.Equal(t, StatusError, st.Status())
}

func TestEngine_LoadFailureReportedOnce(t *testing.T) {
	e, m := newTestEngine(t, trackA)
	sub := e.Subscribe()
	loadErr := &player.LoadError{URL: trackA.URL, Err: errors.New("connection refused")}
	m.SetPlayError(&player.PlaybackError{Err: loadErr})

	err := e.Play(t.Context())
	require.ErrorIs(t, err, loadErr)
	m.Emit(player.Error{TrackID: "a", Err: loadErr})

	st := e.State()
	require.NotNil(t, st.Err)
	assert.Equal(t, KindLoad, st.Err.Kind)
	assert.False(t, st.Loading)
	assert.Len(t, sub.Error, 1)
}
