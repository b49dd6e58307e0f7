package app

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/llehouerou/waveform/internal/visualizer"
)

// WatchServiceEvents waits for the next engine event and converts it to a
// message. Update re-arms it after every PlaybackMessage.
func (m Model) WatchServiceEvents() tea.Cmd {
	sub := m.playbackSub
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e := <-sub.StateChanged:
			return StateChangedMsg{Current: e.Current}
		case e := <-sub.TrackChanged:
			return TrackChangedMsg{Index: e.Index, Track: e.Current}
		case e := <-sub.QueueChanged:
			return QueueChangedMsg{Tracks: e.Tracks, Index: e.Index}
		case e := <-sub.Error:
			return PlaybackErrorMsg(e)
		case <-sub.PositionChanged:
			return ServiceEventMsg{}
		case <-sub.ModeChanged:
			return ServiceEventMsg{}
		case <-sub.Done:
			return ServiceClosedMsg{}
		}
	}
}

// WatchFrames waits for the next visualizer frame.
func (m Model) WatchFrames() tea.Cmd {
	return waitForChannel(m.frames, func(f visualizer.Frame, ok bool) tea.Msg {
		if !ok {
			return nil
		}
		return FrameMsg(f)
	})
}

// waitForChannel creates a command that waits for a value from a channel and converts it to a message.
// onResult receives the value and a boolean indicating if the channel is still open (false means channel closed).
func waitForChannel[T any](ch <-chan T, onResult func(T, bool) tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		result, ok := <-ch
		return onResult(result, ok)
	}
}

// engineCmd runs a blocking engine call off the update loop. Failures that
// the engine records in its state are already visible there; only the rest
// come back as CommandErrorMsg.
func (m Model) engineCmd(op string, fn func(context.Context) error) tea.Cmd {
	ctx, log := m.ctx, m.log
	return func() tea.Msg {
		err := fn(ctx)
		switch {
		case err == nil, errors.Is(err, context.Canceled):
			return nil
		default:
			log.Debug("engine call failed", zap.String("op", op), zap.Error(err))
			return CommandErrorMsg{Op: op, Err: err}
		}
	}
}
