// Package notify provides desktop notifications via D-Bus.
package notify

import (
	"strings"

	"go.uber.org/zap"

	"github.com/llehouerou/waveform/internal/playback"
	"github.com/llehouerou/waveform/internal/playlist"
)

// Urgency represents notification priority levels per freedesktop spec.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

const nowPlayingTimeout = 5000

// Notification contains data for a desktop notification.
type Notification struct {
	Title      string  // Summary text (required)
	Body       string  // Body text (optional, supports basic markup)
	Icon       string  // Path to image file or icon name (optional)
	Timeout    int32   // ms, -1 = server default, 0 = never expire
	ReplacesID uint32  // 0 = new notification, >0 = replace existing
	Urgency    Urgency // Low, Normal, Critical
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify sends a notification and returns its ID.
	// Returns 0 and nil error if notifications are disabled or unavailable.
	Notify(n Notification) (uint32, error)
	// Close closes a notification by ID.
	Close(id uint32) error
}

// nopNotifier stands in when no notification service is reachable.
type nopNotifier struct{}

func (nopNotifier) Notify(Notification) (uint32, error) { return 0, nil }

func (nopNotifier) Close(uint32) error { return nil }

// NowPlaying builds the notification shown when a track starts.
func NowPlaying(t playlist.Track) Notification {
	var body []string
	if t.Artist != "" {
		body = append(body, t.Artist)
	}
	if t.Album != "" {
		body = append(body, t.Album)
	}
	return Notification{
		Title:   t.Title,
		Body:    strings.Join(body, " - "),
		Icon:    t.ArtworkPath(),
		Timeout: nowPlayingTimeout,
		Urgency: UrgencyLow,
	}
}

// Failure builds the notification shown for a playback error.
func Failure(info playback.ErrorInfo) Notification {
	return Notification{
		Title:   "Playback error",
		Body:    info.Message,
		Timeout: -1,
		Urgency: UrgencyCritical,
	}
}

// Watch notifies when a track starts playing and when playback fails, until
// sub ends. Each track is announced once per run of plays; track
// notifications replace each other.
func Watch(sub *playback.Subscription, n Notifier, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	var (
		lastID    uint32
		announced string
	)
	for {
		select {
		case <-sub.Done:
			return
		case ev := <-sub.StateChanged:
			cur := ev.Current
			if !cur.Playing || cur.Track == nil || cur.Track.ID == announced {
				continue
			}
			announced = cur.Track.ID
			msg := NowPlaying(*cur.Track)
			msg.ReplacesID = lastID
			id, err := n.Notify(msg)
			if err != nil {
				log.Debug("notification failed", zap.Error(err))
				continue
			}
			lastID = id
		case ev := <-sub.Error:
			if _, err := n.Notify(Failure(ev.Info)); err != nil {
				log.Debug("notification failed", zap.Error(err))
			}
		}
	}
}
