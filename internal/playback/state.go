// internal/playback/state.go
package playback

import (
	"strings"
	"time"

	"github.com/llehouerou/waveform/internal/playlist"
)

// UnknownDuration marks a duration that has not been reported yet.
const UnknownDuration time.Duration = -1

// DefaultVolume is the initial output level.
const DefaultVolume = 0.7

// restartThreshold is how far into a track Previous restarts it instead of
// moving to the previous index.
const restartThreshold = 3 * time.Second

// Status is the coarse state derived from a State record.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusPlaying
	StatusPaused
	StatusEnded
	StatusError
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "Idle"
	case StatusLoading:
		return "Loading"
	case StatusPlaying:
		return "Playing"
	case StatusPaused:
		return "Paused"
	case StatusEnded:
		return "Ended"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// RepeatMode defines the end-of-track behavior.
type RepeatMode int

const (
	RepeatOff RepeatMode = iota
	RepeatAll
	RepeatOne
)

// String returns the repeat mode name.
func (m RepeatMode) String() string {
	switch m {
	case RepeatOff:
		return "Off"
	case RepeatAll:
		return "All"
	case RepeatOne:
		return "One"
	default:
		return "Unknown"
	}
}

// Next returns the mode that follows m in the Off → All → One cycle.
func (m RepeatMode) Next() RepeatMode {
	switch m {
	case RepeatOff:
		return RepeatAll
	case RepeatAll:
		return RepeatOne
	default:
		return RepeatOff
	}
}

// ParseRepeatMode maps "off", "all" and "one" (any case) to a RepeatMode.
func ParseRepeatMode(s string) (RepeatMode, bool) {
	for _, m := range []RepeatMode{RepeatOff, RepeatAll, RepeatOne} {
		if strings.EqualFold(s, m.String()) {
			return m, true
		}
	}
	return RepeatOff, false
}

// State is the observable playback record. Readers get copies; only the
// engine mutates it.
type State struct {
	Track    *playlist.Track
	Index    int
	Playing  bool
	Loading  bool
	Position time.Duration
	Duration time.Duration
	Buffered time.Duration
	Volume   float64
	Muted    bool
	Shuffle  bool
	Repeat   RepeatMode
	Rate     float64
	Ended    bool
	Err      *ErrorInfo
}

func newState() State {
	return State{
		Index:    -1,
		Duration: UnknownDuration,
		Volume:   DefaultVolume,
		Rate:     1,
	}
}

// Status derives the coarse status. Errors take precedence over loading,
// loading over playing.
func (s State) Status() Status {
	switch {
	case s.Track == nil:
		return StatusIdle
	case s.Err != nil:
		return StatusError
	case s.Loading:
		return StatusLoading
	case s.Playing:
		return StatusPlaying
	case s.Ended:
		return StatusEnded
	default:
		return StatusPaused
	}
}

// HasDuration reports whether the duration is known.
func (s State) HasDuration() bool {
	return s.Duration >= 0
}

// Progress returns the played fraction in [0, 1], or 0 with unknown duration.
func (s State) Progress() float64 {
	return fraction(s.Position, s.Duration)
}

// BufferedProgress returns the buffered fraction in [0, 1].
func (s State) BufferedProgress() float64 {
	return fraction(s.Buffered, s.Duration)
}

func fraction(v, total time.Duration) float64 {
	if total <= 0 {
		return 0
	}
	return max(0, min(float64(v)/float64(total), 1))
}

// clone returns a copy that shares no pointers with s.
func (s State) clone() State {
	if s.Track != nil {
		t := *s.Track
		s.Track = &t
	}
	if s.Err != nil {
		e := *s.Err
		s.Err = &e
	}
	return s
}

// clampPosition limits pos to [0, duration] when duration is known.
func clampPosition(pos, duration time.Duration) time.Duration {
	pos = max(pos, 0)
	if duration >= 0 {
		pos = min(pos, duration)
	}
	return pos
}

// FormatTime renders d as m:ss. Unknown or negative durations render as 0:00.
func FormatTime(d time.Duration) string {
	return playlist.FormatDuration(d)
}
