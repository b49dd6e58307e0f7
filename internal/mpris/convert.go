//go:build linux

package mpris

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/waveform/internal/playback"
	"github.com/llehouerou/waveform/internal/playlist"
)

func playbackStatus(st playback.State) types.PlaybackStatus {
	switch st.Status() {
	case playback.StatusPlaying:
		return types.PlaybackStatusPlaying
	case playback.StatusPaused, playback.StatusLoading:
		return types.PlaybackStatusPaused
	default:
		return types.PlaybackStatusStopped
	}
}

func loopStatus(mode playback.RepeatMode) types.LoopStatus {
	switch mode {
	case playback.RepeatOne:
		return types.LoopStatusTrack
	case playback.RepeatAll:
		return types.LoopStatusPlaylist
	case playback.RepeatOff:
		return types.LoopStatusNone
	}
	return types.LoopStatusNone
}

func repeatMode(status types.LoopStatus) playback.RepeatMode {
	switch status {
	case types.LoopStatusTrack:
		return playback.RepeatOne
	case types.LoopStatusPlaylist:
		return playback.RepeatAll
	default:
		return playback.RepeatOff
	}
}

func metadata(track *playlist.Track) types.Metadata {
	if track == nil {
		return types.Metadata{}
	}

	meta := types.Metadata{
		TrackId: formatTrackID(track.ID),
		Length:  types.Microseconds(track.Duration.Microseconds()),
		Title:   track.Title,
		Album:   track.Album,
	}
	if track.Artist != "" {
		meta.Artist = []string{track.Artist}
	}
	meta.ArtUrl = artURL(track)
	return meta
}

// artURL returns the track artwork as a URL. Local paths get a file scheme.
func artURL(track *playlist.Track) string {
	art := track.ArtworkPath()
	if art == "" || strings.Contains(art, "://") {
		return art
	}
	return "file://" + art
}

func formatTrackID(id string) dbus.ObjectPath {
	h := fnv.New64a()
	h.Write([]byte(id))
	return dbus.ObjectPath(fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64()))
}
