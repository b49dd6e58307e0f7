// internal/app/app_test.go
package app

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/llehouerou/waveform/internal/playback"
	"github.com/llehouerou/waveform/internal/player"
	"github.com/llehouerou/waveform/internal/playlist"
	"github.com/llehouerou/waveform/internal/session"
	"github.com/llehouerou/waveform/internal/ui/playlistview"
	"github.com/llehouerou/waveform/internal/ui/spectrum"
	"github.com/llehouerou/waveform/internal/visualizer"
)

func testTracks() []playlist.Track {
	return []playlist.Track{
		{ID: "1", Title: "Midnight Dreams", Artist: "Luna Eclipse", URL: "/audio/midnight-dreams.mp3", Duration: 245 * time.Second},
		{ID: "2", Title: "Ocean Waves", Artist: "Coastal Drift", URL: "/audio/ocean-waves.mp3", Duration: 198 * time.Second},
		{ID: "3", Title: "Neon Lights", Artist: "Synthwave Collective", URL: "/audio/neon-lights.mp3", Duration: 220 * time.Second},
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	sess, err := session.New(player.NewMock(), session.DefaultOptions(), zap.NewNop())
	require.NoError(t, err)
	sess.Engine().SetPlaylist(testTracks())

	m := New(t.Context(), sess, Options{})
	t.Cleanup(func() {
		m.Close()
		_ = sess.Close()
	})
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	result, ok := next.(Model)
	require.True(t, ok, "Update should return Model")
	return result, cmd
}

func press(t *testing.T, m Model, k string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch k {
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	return update(t, m, msg)
}

func TestNew_InitialState(t *testing.T) {
	m := newTestModel(t)

	assert.Equal(t, 0, m.State.Index)
	assert.Equal(t, 3, m.playlist.Len())
	assert.True(t, m.VisualizerOn())
	assert.Equal(t, spectrum.Bars, m.Style())
	assert.NotNil(t, m.Init())
}

func TestUpdate_WindowSizeMsg(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Equal(t, 120, m.Width)
	assert.Equal(t, 40, m.Height)
	view := m.View()
	assert.Equal(t, 40, lipgloss.Height(view))
	assert.Contains(t, view, "Midnight Dreams")
}

func TestLayout(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	pl, viz := m.layout()
	assert.Equal(t, 18, pl)
	assert.Equal(t, 17, viz)

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 14})
	pl, viz = m.layout()
	assert.Equal(t, 9, pl, "too short for the visualizer")
	assert.Zero(t, viz)
}

func TestView_BeforeResize(t *testing.T) {
	assert.Empty(t, newTestModel(t).View())
}

func TestKeys_PlayPause(t *testing.T) {
	m := newTestModel(t)

	_, cmd := press(t, m, " ")
	require.NotNil(t, cmd)
	assert.Nil(t, cmd())
	assert.True(t, m.Engine.State().Playing)

	_, cmd = press(t, m, " ")
	require.NotNil(t, cmd)
	cmd()
	assert.False(t, m.Engine.State().Playing)
}

func TestKeys_EngineControls(t *testing.T) {
	m := newTestModel(t)
	e := m.Engine

	press(t, m, "m")
	assert.True(t, e.State().Muted)

	press(t, m, "s")
	assert.True(t, e.State().Shuffle)

	press(t, m, "r")
	assert.Equal(t, playback.RepeatAll, e.State().Repeat)

	press(t, m, "+")
	assert.InDelta(t, 0.75, e.State().Volume, 1e-9)
	press(t, m, "-")
	press(t, m, "-")
	assert.InDelta(t, 0.65, e.State().Volume, 1e-9)

	press(t, m, "]")
	assert.InDelta(t, 1.25, e.State().Rate, 1e-9)
	press(t, m, "\\")
	assert.InDelta(t, 1.0, e.State().Rate, 1e-9)
}

func TestKeys_NextTrack(t *testing.T) {
	m := newTestModel(t)

	_, cmd := press(t, m, "n")
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, 1, m.Engine.State().Index)
}

func TestKeys_Visualizer(t *testing.T) {
	m := newTestModel(t)

	m, _ = press(t, m, "V")
	assert.Equal(t, spectrum.Wave, m.Style())

	m, _ = press(t, m, "v")
	assert.False(t, m.VisualizerOn())
	m, _ = press(t, m, "v")
	assert.True(t, m.VisualizerOn())
}

func TestKeys_Help(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	short := m.View()

	m, _ = press(t, m, "?")
	assert.True(t, m.help.ShowAll)
	assert.NotEqual(t, short, m.View())
	assert.Equal(t, 40, lipgloss.Height(m.View()))
}

func TestKeys_Quit(t *testing.T) {
	m := newTestModel(t)
	_, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestKeys_PlaylistCursorAndPlay(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	m, _ = press(t, m, "j")
	assert.Equal(t, 1, m.playlist.Cursor())

	m, cmd := press(t, m, "enter")
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, playlistview.PlayMsg{Index: 1}, msg)

	_, cmd = update(t, m, msg)
	require.NotNil(t, cmd)
	cmd()
	st := m.Engine.State()
	assert.Equal(t, 1, st.Index)
	assert.True(t, st.Playing)
}

func TestKeys_PlaylistRemoveAndClear(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	m, _ = press(t, m, "j")
	m, cmd := press(t, m, "d")
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, playlistview.RemoveMsg{Index: 1}, msg)
	m, cmd = update(t, m, msg)
	require.NotNil(t, cmd)
	assert.Nil(t, cmd())

	tracks := m.Engine.Playlist()
	require.Len(t, tracks, 2)
	assert.Equal(t, "3", tracks[1].ID)

	m, cmd = press(t, m, "D")
	require.NotNil(t, cmd)
	_, _ = update(t, m, cmd())
	assert.Empty(t, m.Engine.Playlist())
	assert.Nil(t, m.Engine.State().Track)
}

func TestPlayIndex_OutOfRange(t *testing.T) {
	m := newTestModel(t)
	assert.Nil(t, m.playIndex(7))
	assert.Nil(t, m.playIndex(-1))
}

func TestUpdate_StateChangedMsg(t *testing.T) {
	m := newTestModel(t)

	st := m.Engine.State()
	st.Index = 2
	st.Muted = true
	m, cmd := update(t, m, StateChangedMsg{Current: st})

	assert.True(t, m.State.Muted)
	assert.NotNil(t, cmd, "watcher re-armed")
}

func TestUpdate_QueueChangedMsg(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, QueueChangedMsg{Tracks: testTracks()[:1], Index: 0})
	assert.Equal(t, 1, m.playlist.Len())
}

func TestUpdate_ServiceClosedMsg(t *testing.T) {
	m := newTestModel(t)
	_, cmd := update(t, m, ServiceClosedMsg{})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestUpdate_FrameMsg(t *testing.T) {
	m := newTestModel(t)
	f := visualizer.Frame{Bars: []float64{0.5}, Average: 12}

	m, cmd := update(t, m, FrameMsg(f))
	assert.Equal(t, f, m.Frame)
	assert.NotNil(t, cmd)
}

func TestWatchServiceEvents(t *testing.T) {
	m := newTestModel(t)
	m.Engine.ToggleMute()

	msg := m.WatchServiceEvents()()
	assert.Implements(t, (*PlaybackMessage)(nil), msg)
}

func TestWatchServiceEvents_Closed(t *testing.T) {
	m := newTestModel(t)
	require.NoError(t, m.Engine.Close())

	cmd := m.WatchServiceEvents()
	// Drain whatever was buffered before the close.
	for {
		msg := cmd()
		if _, ok := msg.(ServiceClosedMsg); ok {
			return
		}
	}
}

func TestLatest_KeepsNewestFrame(t *testing.T) {
	ch := make(chan visualizer.Frame, 1)
	send := latest(ch)

	for i := range 3 {
		send(visualizer.Frame{Average: float64(i)})
	}

	f := <-ch
	assert.InDelta(t, 2.0, f.Average, 1e-9)
	assert.Empty(t, ch)
}

func TestStepped(t *testing.T) {
	assert.InDelta(t, 0.75, stepped(0.7, 0.05), 1e-12)
	assert.InDelta(t, 1.5, stepped(1.25, 0.25), 1e-12)
	v := 0.0
	for range 10 {
		v = stepped(v, 0.1)
	}
	assert.InDelta(t, 1.0, v, 1e-12)
}
