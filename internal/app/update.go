package app

import (
	"context"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/llehouerou/waveform/internal/app/handler"
	"github.com/llehouerou/waveform/internal/keymap"
	"github.com/llehouerou/waveform/internal/ui/playlistview"
	"github.com/llehouerou/waveform/internal/visualizer"
)

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case PlaybackMessage:
		m = m.handlePlaybackMsg(msg)
		return m, m.WatchServiceEvents()

	case ServiceClosedMsg:
		return m, tea.Quit

	case FrameMsg:
		m.Frame = visualizer.Frame(msg)
		return m, m.WatchFrames()

	case playlistview.PlayMsg:
		return m, m.playIndex(msg.Index)

	case playlistview.RemoveMsg:
		index := msg.Index
		return m, m.engineCmd("remove", func(ctx context.Context) error {
			return m.Engine.RemoveFromPlaylist(ctx, index)
		})

	case playlistview.ClearMsg:
		m.Engine.ClearPlaylist()
		return m, nil

	case CommandErrorMsg:
		m.log.Warn("command failed", zap.String("op", msg.Op), zap.Error(msg.Err))
		return m, nil
	}
	return m, nil
}

func (m Model) handlePlaybackMsg(msg PlaybackMessage) Model {
	switch msg := msg.(type) {
	case StateChangedMsg:
		errShown := m.State.Err != nil
		m.State = msg.Current
		m.playlist.SetCurrent(msg.Current.Index)
		if errShown != (m.State.Err != nil) {
			m.resize()
		}
	case QueueChangedMsg:
		m.playlist.SetTracks(msg.Tracks)
		m.playlist.SetCurrent(msg.Index)
	case TrackChangedMsg:
		m.playlist.SetCurrent(msg.Index)
	case PlaybackErrorMsg:
		m.log.Warn("playback error",
			zap.String("operation", msg.Operation),
			zap.String("message", msg.Info.Message))
	}
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := m.keys.Resolve(msg)
	if a == keymap.ActionQuit {
		return m, tea.Quit
	}

	var plCmd tea.Cmd
	playlistHandler := func(a keymap.Action) handler.Result {
		var ok bool
		m.playlist, plCmd, ok = m.playlist.HandleAction(a)
		if !ok {
			return handler.NotHandled
		}
		return handler.Handled(plCmd)
	}

	_, cmd := handler.Chain(a,
		m.handleGlobal,
		m.handlePlayback,
		m.handleVisualizer,
		playlistHandler,
	)
	return m, cmd
}

// handleGlobal toggles the full help.
func (m *Model) handleGlobal(a keymap.Action) handler.Result {
	if a != keymap.ActionHelp {
		return handler.NotHandled
	}
	m.help.ShowAll = !m.help.ShowAll
	m.resize()
	return handler.HandledNoCmd
}

func (m *Model) handlePlayback(a keymap.Action) handler.Result {
	e := m.Engine
	switch a {
	case keymap.ActionPlayPause:
		return handler.Handled(m.engineCmd("toggle", e.TogglePlayPause))
	case keymap.ActionNextTrack:
		return handler.Handled(m.engineCmd("next", e.Next))
	case keymap.ActionPrevTrack:
		return handler.Handled(m.engineCmd("previous", e.Previous))
	case keymap.ActionStop:
		e.Stop()
	case keymap.ActionSeekForward:
		e.Seek(e.State().Position + seekStep*time.Second)
	case keymap.ActionSeekBack:
		e.Seek(e.State().Position - seekStep*time.Second)
	case keymap.ActionVolumeUp:
		e.SetVolume(stepped(e.State().Volume, volumeStep))
	case keymap.ActionVolumeDown:
		e.SetVolume(stepped(e.State().Volume, -volumeStep))
	case keymap.ActionToggleMute:
		e.ToggleMute()
	case keymap.ActionToggleShuffle:
		e.ToggleShuffle()
	case keymap.ActionCycleRepeat:
		e.CycleRepeat()
	case keymap.ActionRateUp:
		e.SetRate(stepped(e.State().Rate, rateStep))
	case keymap.ActionRateDown:
		e.SetRate(stepped(e.State().Rate, -rateStep))
	case keymap.ActionRateReset:
		e.SetRate(1)
	case keymap.ActionDismissError:
		e.DismissError()
	default:
		return handler.NotHandled
	}
	return handler.HandledNoCmd
}

func (m *Model) handleVisualizer(a keymap.Action) handler.Result {
	switch a {
	case keymap.ActionToggleVisualizer:
		m.Session.ToggleVisualizer()
	case keymap.ActionCycleVisualizer:
		m.style = m.style.Next()
	default:
		return handler.NotHandled
	}
	return handler.HandledNoCmd
}

// playIndex plays the playlist entry at index.
func (m Model) playIndex(index int) tea.Cmd {
	tracks := m.Engine.Playlist()
	if index < 0 || index >= len(tracks) {
		return nil
	}
	t := tracks[index]
	return m.engineCmd("play track", func(ctx context.Context) error {
		return m.Engine.PlayTrack(ctx, t, index)
	})
}

// stepped adds delta to v and rounds to two decimals so repeated steps do
// not drift.
func stepped(v, delta float64) float64 {
	return math.Round((v+delta)*100) / 100
}
