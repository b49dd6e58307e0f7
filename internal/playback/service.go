package playback

import (
	"context"
	"time"

	"github.com/llehouerou/waveform/internal/playlist"
)

// Service defines the playback service contract.
type Service interface {
	// Playlist
	SetPlaylist(tracks []playlist.Track)
	AddToPlaylist(tracks ...playlist.Track)
	RemoveFromPlaylist(ctx context.Context, index int) error
	ClearPlaylist()
	Playlist() []playlist.Track

	// Selection and transport
	SelectTrack(t playlist.Track, index int) error
	PlayTrack(ctx context.Context, t playlist.Track, index int) error
	Play(ctx context.Context) error
	Pause()
	Stop()
	TogglePlayPause(ctx context.Context) error
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
	Seek(pos time.Duration)

	// Output
	SetVolume(v float64)
	ToggleMute()
	SetRate(r float64)

	// Modes
	ToggleShuffle() bool
	SetShuffle(enabled bool)
	CycleRepeat() RepeatMode
	SetRepeatMode(mode RepeatMode)

	DismissError()

	// Queries
	State() State
	Subscribe() *Subscription

	Close() error
}

// Prefs is the persisted subset of the engine state.
type Prefs struct {
	Volume  float64
	Muted   bool
	Shuffle bool
	Repeat  RepeatMode
	Rate    float64
	TrackID string
}

// Preferences stores Prefs. The engine calls it after every change to a
// persisted field; implementations should not block.
type Preferences interface {
	SavePreferences(p Prefs)
}
