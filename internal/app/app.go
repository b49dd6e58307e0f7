// Package app is the terminal front-end: a bubbletea model that renders the
// playlist, the visualizer and the player bar, and turns key presses into
// engine calls.
package app

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/llehouerou/waveform/internal/keymap"
	"github.com/llehouerou/waveform/internal/playback"
	"github.com/llehouerou/waveform/internal/session"
	"github.com/llehouerou/waveform/internal/ui/playlistview"
	"github.com/llehouerou/waveform/internal/ui/spectrum"
	"github.com/llehouerou/waveform/internal/visualizer"
)

const (
	seekStep   = 10 // seconds
	volumeStep = 0.05
	rateStep   = 0.25
)

// Options configures the front-end.
type Options struct {
	// Style is the initial visualizer style name.
	Style string
	// Autoplay starts playback once the program runs.
	Autoplay bool
	Logger   *zap.Logger
}

// Model is the root bubbletea model.
type Model struct {
	Session *session.Session
	Engine  *playback.Engine
	State   playback.State
	Frame   visualizer.Frame

	Width, Height int

	keys     *keymap.Resolver
	help     help.Model
	playlist playlistview.Model
	style    spectrum.Style
	autoplay bool

	ctx         context.Context
	log         *zap.Logger
	playbackSub *playback.Subscription
	frames      chan visualizer.Frame
	unsubFrames func()
}

// New builds the model around sess. Subscriptions are taken here, not in
// Init, so no event emitted before the program starts is lost.
func New(ctx context.Context, sess *session.Session, opts Options) Model {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	m := Model{
		Session:  sess,
		Engine:   sess.Engine(),
		keys:     keymap.NewResolver(keymap.All),
		help:     help.New(),
		playlist: playlistview.New(),
		style:    spectrum.ParseStyle(opts.Style),
		autoplay: opts.Autoplay,
		ctx:      ctx,
		log:      log,
	}
	m.playbackSub = m.Engine.Subscribe()
	m.State = m.Engine.State()
	m.playlist.SetTracks(m.Engine.Playlist())
	m.playlist.SetCurrent(m.State.Index)

	if sampler := sess.Sampler(); sampler != nil {
		m.frames = make(chan visualizer.Frame, 1)
		m.unsubFrames = sampler.Subscribe(latest(m.frames))
		if f, ok := sampler.Last(); ok {
			m.Frame = f
		}
	}
	return m
}

// latest returns a frame callback that keeps only the newest frame in ch.
// The sampler must never block on a slow UI.
func latest(ch chan visualizer.Frame) func(visualizer.Frame) {
	return func(f visualizer.Frame) {
		for {
			select {
			case ch <- f:
				return
			default:
			}
			select {
			case <-ch:
			default:
			}
		}
	}
}

// Init starts the event watchers.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.WatchServiceEvents(), m.WatchFrames()}
	if m.autoplay {
		cmds = append(cmds, m.engineCmd("play", m.Engine.Play))
	}
	return tea.Batch(cmds...)
}

// Close drops the frame subscription. The session is owned by the caller.
func (m Model) Close() {
	if m.unsubFrames != nil {
		m.unsubFrames()
	}
}

// VisualizerOn reports whether the visualizer panel is live.
func (m Model) VisualizerOn() bool {
	s := m.Session.Sampler()
	return s != nil && s.Enabled()
}

// Style returns the current visualizer style.
func (m Model) Style() spectrum.Style { return m.style }
