package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/waveform/internal/playback"
	"github.com/llehouerou/waveform/internal/playlist"
	"github.com/llehouerou/waveform/internal/visualizer"
)

// PlaybackMessage is implemented by messages coming from the engine
// subscription. Each one re-arms the watcher.
type PlaybackMessage interface {
	tea.Msg
	playbackMessage()
}

// StateChangedMsg carries the engine state after a mutation.
type StateChangedMsg struct {
	Current playback.State
}

func (StateChangedMsg) playbackMessage() {}

// TrackChangedMsg is sent when the selection moves.
type TrackChangedMsg struct {
	Index int
	Track *playlist.Track
}

func (TrackChangedMsg) playbackMessage() {}

// QueueChangedMsg is sent when the playlist is replaced.
type QueueChangedMsg struct {
	Tracks []playlist.Track
	Index  int
}

func (QueueChangedMsg) playbackMessage() {}

// PlaybackErrorMsg is sent when the engine captures a failure.
type PlaybackErrorMsg playback.ErrorEvent

func (PlaybackErrorMsg) playbackMessage() {}

// ServiceEventMsg covers subscription events the model only needs to
// re-arm on (position and mode changes; the state event carries both).
type ServiceEventMsg struct{}

func (ServiceEventMsg) playbackMessage() {}

// ServiceClosedMsg is sent when the engine shuts down.
type ServiceClosedMsg struct{}

// FrameMsg carries a visualizer frame.
type FrameMsg visualizer.Frame

// CommandErrorMsg reports an engine call that failed outside the state
// record, such as a closed engine.
type CommandErrorMsg struct {
	Op  string
	Err error
}
