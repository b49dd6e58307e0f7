package player

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/waveform/internal/playlist"
)

// stallServer answers every request only once release is closed. started
// receives each request as it arrives and canceled fires when the client
// gives up on one.
type stallServer struct {
	*httptest.Server
	started  chan struct{}
	canceled chan struct{}
	release  chan struct{}
}

func newStallServer(t *testing.T, status int) *stallServer {
	t.Helper()
	s := &stallServer{
		started:  make(chan struct{}, 8),
		canceled: make(chan struct{}, 8),
		release:  make(chan struct{}),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.started <- struct{}{}
		select {
		case <-r.Context().Done():
			s.canceled <- struct{}{}
		case <-s.release:
			w.WriteHeader(status)
		}
	}))
	t.Cleanup(s.Close)
	t.Cleanup(func() {
		select {
		case <-s.release:
		default:
			close(s.release)
		}
	})
	return s
}

func serveFile(t *testing.T, path string) *httptest.Server {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/song.wav" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func waitEvent(t *testing.T, events <-chan Event) Event {
	t.Helper()
	select {
	case e := <-events:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("no event")
		return nil
	}
}

func waitSignal(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestPlayer_RemoteLoadDecodes(t *testing.T) {
	srv := serveFile(t, writeSilence(t, time.Second))
	p := newTestPlayer(t)
	events := collect(p)

	require.NoError(t, p.Load(playlist.Track{ID: "r1", URL: srv.URL + "/song.wav"}))

	assert.Equal(t, DurationChange{TrackID: "r1", Duration: time.Second}, waitEvent(t, events))
	assert.Equal(t, Paused, p.State())
	assert.Equal(t, time.Second, p.Duration())
	tr, ok := p.Track()
	assert.True(t, ok)
	assert.Equal(t, "r1", tr.ID)
}

func TestPlayer_RemoteLoadFailures(t *testing.T) {
	srv := serveFile(t, writeSilence(t, time.Second))
	stalled := newStallServer(t, http.StatusOK)

	tests := []struct {
		name string
		opts Options
		url  string
		want error
	}{
		{"http status", Options{}, srv.URL + "/missing.wav", ErrHTTPStatus},
		{"too large", Options{MaxRemoteBytes: 16}, srv.URL + "/song.wav", ErrTooLarge},
		{"timeout", Options{HTTPClient: &http.Client{Timeout: 50 * time.Millisecond}}, stalled.URL + "/slow.wav", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.PollInterval = 10 * time.Millisecond
			p := New(tt.opts)
			t.Cleanup(func() { _ = p.Close() })
			events := collect(p)

			require.NoError(t, p.Load(playlist.Track{ID: "r1", URL: tt.url}))

			e, ok := waitEvent(t, events).(Error)
			require.True(t, ok, "want an Error event")
			assert.Equal(t, "r1", e.TrackID)
			var loadErr *LoadError
			require.ErrorAs(t, e.Err, &loadErr)
			assert.Equal(t, tt.url, loadErr.URL)
			if tt.want != nil {
				assert.ErrorIs(t, e.Err, tt.want)
			}
			assert.Equal(t, Stopped, p.State())
			_, loaded := p.Track()
			assert.False(t, loaded)
		})
	}
}

func TestPlayer_StalledRemoteLoadDoesNotBlock(t *testing.T) {
	srv := newStallServer(t, http.StatusOK)
	p := newTestPlayer(t)
	events := collect(p)

	start := time.Now()
	require.NoError(t, p.Load(playlist.Track{ID: "slow", URL: srv.URL + "/slow.mp3"}))
	waitSignal(t, srv.started, "request")

	assert.Equal(t, Loading, p.State())
	p.Pause()
	p.Seek(time.Second)
	p.SetVolume(0.5)
	assert.Equal(t, time.Duration(0), p.Position())
	assert.Less(t, time.Since(start), time.Second)

	// A newer load abandons the download without reporting it.
	require.NoError(t, p.Load(playlist.Track{ID: "local", URL: writeSilence(t, time.Second)}))
	waitSignal(t, srv.canceled, "cancellation")
	assert.Equal(t, DurationChange{TrackID: "local", Duration: time.Second}, waitEvent(t, events))
	assert.Equal(t, Paused, p.State())

	select {
	case e := <-events:
		t.Fatalf("unexpected event %#v", e)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPlayer_CloseAbandonsRemoteLoad(t *testing.T) {
	srv := newStallServer(t, http.StatusOK)
	p := New(Options{PollInterval: 10 * time.Millisecond})

	require.NoError(t, p.Load(playlist.Track{ID: "slow", URL: srv.URL + "/slow.flac"}))
	waitSignal(t, srv.started, "request")

	closed := make(chan struct{})
	go func() {
		_ = p.Close()
		close(closed)
	}()
	waitSignal(t, closed, "Close")
	waitSignal(t, srv.canceled, "cancellation")
}

func TestPlayer_PlayWaitsForRemoteLoad(t *testing.T) {
	t.Run("context done", func(t *testing.T) {
		srv := newStallServer(t, http.StatusOK)
		p := newTestPlayer(t)
		require.NoError(t, p.Load(playlist.Track{ID: "slow", URL: srv.URL + "/slow.ogg"}))

		ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
		defer cancel()
		err := p.Play(ctx)
		var playErr *PlaybackError
		require.ErrorAs(t, err, &playErr)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, Loading, p.State())
	})

	t.Run("load fails", func(t *testing.T) {
		srv := newStallServer(t, http.StatusNotFound)
		p := newTestPlayer(t)
		require.NoError(t, p.Load(playlist.Track{ID: "gone", URL: srv.URL + "/gone.wav"}))
		waitSignal(t, srv.started, "request")

		errc := make(chan error, 1)
		go func() { errc <- p.Play(t.Context()) }()
		time.Sleep(50 * time.Millisecond)
		close(srv.release)

		select {
		case err := <-errc:
			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.ErrorIs(t, err, ErrHTTPStatus)
		case <-time.After(2 * time.Second):
			t.Fatal("Play did not return")
		}
	})
}

func TestPlayer_LandedSeekIsNotReapplied(t *testing.T) {
	p := newTestPlayer(t)
	require.NoError(t, p.Load(playlist.Track{ID: "t1", URL: writeSilence(t, time.Second)}))

	p.Seek(800 * time.Millisecond)
	p.mu.Lock()
	require.NoError(t, p.landSeekLocked())
	req := seekRequest{pos: 800 * time.Millisecond, gen: p.seekIssued, loadGen: p.loadGen}
	// Output advances the streamer by 100ms.
	buf := make([][2]float64, 4410)
	n, ok := p.streamer.Stream(buf)
	p.mu.Unlock()
	require.True(t, ok)
	require.Equal(t, len(buf), n)

	p.doSeek(req)
	assert.Equal(t, 900*time.Millisecond, p.Position())
}
