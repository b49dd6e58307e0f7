//go:build linux

package mpris

import (
	"context"
	"time"

	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"
	"go.uber.org/zap"

	"github.com/llehouerou/waveform/internal/playback"
	"github.com/llehouerou/waveform/internal/player"
)

const busName = "waveform"

// Adapter connects a playback.Service to MPRIS over D-Bus.
type Adapter struct {
	server *server.Server
	cancel context.CancelFunc
}

// New creates and starts a new MPRIS adapter.
func New(service playback.Service, log *zap.Logger) (*Adapter, error) {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())

	a := &Adapter{cancel: cancel}
	a.server = server.NewServer(busName, &rootAdapter{}, &playerAdapter{ctx: ctx, service: service})

	// Start the server in background
	go func() {
		if err := a.server.Listen(); err != nil {
			log.Warn("mpris server stopped", zap.Error(err))
		}
	}()

	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	a.cancel()
	return a.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // Not supported - app manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "Waveform", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file", "http", "https"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/wav", "audio/ogg"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter and optional interfaces.
type playerAdapter struct {
	ctx     context.Context
	service playback.Service
}

func (p *playerAdapter) Next() error {
	return p.service.Next(p.ctx)
}

func (p *playerAdapter) Previous() error {
	return p.service.Previous(p.ctx)
}

func (p *playerAdapter) Pause() error {
	p.service.Pause()
	return nil
}

func (p *playerAdapter) PlayPause() error {
	return p.service.TogglePlayPause(p.ctx)
}

func (p *playerAdapter) Stop() error {
	p.service.Stop()
	return nil
}

func (p *playerAdapter) Play() error {
	if p.service.State().Playing {
		return nil
	}
	return p.service.Play(p.ctx)
}

// Seek moves relative to the current position.
func (p *playerAdapter) Seek(offset types.Microseconds) error {
	pos := p.service.State().Position + time.Duration(offset)*time.Microsecond
	p.service.Seek(max(pos, 0))
	return nil
}

func (p *playerAdapter) SetPosition(trackID string, position types.Microseconds) error {
	st := p.service.State()
	if st.Track == nil || string(formatTrackID(st.Track.ID)) != trackID {
		return nil // Stale request, ignored per MPRIS
	}
	p.service.Seek(time.Duration(position) * time.Microsecond)
	return nil
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error {
	return nil // Not supported
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	return playbackStatus(p.service.State()), nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return p.service.State().Rate, nil
}

func (p *playerAdapter) SetRate(rate float64) error {
	p.service.SetRate(rate)
	return nil
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	return metadata(p.service.State().Track), nil
}

func (p *playerAdapter) Volume() (float64, error) {
	st := p.service.State()
	if st.Muted {
		return 0, nil
	}
	return st.Volume, nil
}

func (p *playerAdapter) SetVolume(v float64) error {
	p.service.SetVolume(v)
	return nil
}

func (p *playerAdapter) Position() (int64, error) {
	return p.service.State().Position.Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return player.MinRate, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return player.MaxRate, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return len(p.service.Playlist()) > 0, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return len(p.service.Playlist()) > 0, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return len(p.service.Playlist()) > 0, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return p.service.State().HasDuration(), nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

// LoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) LoopStatus() (types.LoopStatus, error) {
	return loopStatus(p.service.State().Repeat), nil
}

// SetLoopStatus implements OrgMprisMediaPlayer2PlayerAdapterLoopStatus.
func (p *playerAdapter) SetLoopStatus(status types.LoopStatus) error {
	p.service.SetRepeatMode(repeatMode(status))
	return nil
}

// Shuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) Shuffle() (bool, error) {
	return p.service.State().Shuffle, nil
}

// SetShuffle implements OrgMprisMediaPlayer2PlayerAdapterShuffle.
func (p *playerAdapter) SetShuffle(shuffle bool) error {
	p.service.SetShuffle(shuffle)
	return nil
}
