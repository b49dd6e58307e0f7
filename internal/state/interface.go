// internal/state/interface.go
package state

import (
	"github.com/llehouerou/waveform/internal/playback"
	"github.com/llehouerou/waveform/internal/playlist"
)

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	playback.Preferences
	LoadPreferences() (*playback.Prefs, error)
	LoadPlaylist() ([]playlist.Track, error)
	SavePlaylist(tracks []playlist.Track) error
	Flush() error
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
