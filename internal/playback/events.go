package playback

import (
	"time"

	"github.com/llehouerou/waveform/internal/playlist"
)

// StateChange is emitted after every mutation of the engine state.
type StateChange struct {
	Previous State
	Current  State
}

// TrackChange is emitted when the selection moves to a different track.
//
// Emitted by SelectTrack, PlayTrack, Next, Previous (unless it restarts the
// current track), end-of-track auto-advance, and SetPlaylist when it selects
// or drops the current track. Repeat-one replays do not emit it.
type TrackChange struct {
	Previous      *playlist.Track
	Current       *playlist.Track
	PreviousIndex int
	Index         int
}

// QueueChange is emitted when the playlist contents change.
type QueueChange struct {
	Tracks []playlist.Track
	Index  int
}

// ModeChange is emitted when repeat or shuffle mode changes.
type ModeChange struct {
	RepeatMode RepeatMode
	Shuffle    bool
}

// PositionChange is emitted when a seek is issued.
type PositionChange struct {
	Position time.Duration
}

// ErrorEvent is emitted when a load or playback failure is captured.
type ErrorEvent struct {
	Operation string // "load" or "play"
	Track     *playlist.Track
	Info      ErrorInfo
}
