// internal/player/interface.go
package player

import (
	"context"
	"time"

	"github.com/llehouerou/waveform/internal/playlist"
)

// Interface is the media source contract the playback engine drives.
//
// Events are delivered asynchronously to subscribers: an implementation never
// invokes a subscriber from inside one of its own method calls on the
// caller's goroutine.
type Interface interface {
	// Load replaces the current resource. Returns a *LoadError when the
	// locator is invalid or unsupported. Load does not wait on the network:
	// a remote resource that turns out unreachable is reported by an Error
	// event carrying a *LoadError. On success a DurationChange event
	// follows once metadata is known.
	Load(t playlist.Track) error
	// Play starts or resumes output. Returns a *PlaybackError when the
	// resource cannot start. Blocks until a pending load finished and
	// output started, or ctx is done.
	Play(ctx context.Context) error
	// Pause pauses output. No-op when nothing is loaded.
	Pause()
	// Seek moves to pos clamped into [0, Duration()]. Position() reflects
	// the target immediately.
	Seek(pos time.Duration)
	// SetVolume sets the output level clamped into [0, 1].
	SetVolume(level float64)
	// SetMuted silences output without touching the volume level.
	SetMuted(muted bool)
	// SetRate sets the playback speed clamped into [MinRate, MaxRate].
	SetRate(rate float64)
	Position() time.Duration
	Duration() time.Duration
	// Subscribe registers fn for events. The returned func deregisters it
	// and is safe to call more than once.
	Subscribe(fn func(Event)) (unsubscribe func())
	// Close stops output and releases the resource and any goroutines.
	Close() error
}

// Playback rate bounds.
const (
	MinRate = 0.25
	MaxRate = 2.0
)

// Verify Player implements Interface at compile time.
var _ Interface = (*Player)(nil)
