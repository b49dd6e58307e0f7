// Package session owns one player surface: a media source, its analyzer, the
// playback engine driving it and the visualizer sampler fed by it.
package session

import (
	"errors"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/llehouerou/waveform/internal/analyzer"
	"github.com/llehouerou/waveform/internal/errmsg"
	"github.com/llehouerou/waveform/internal/playback"
	"github.com/llehouerou/waveform/internal/player"
	"github.com/llehouerou/waveform/internal/visualizer"
)

// Source is a media source that can also feed an analyzer.
type Source interface {
	player.Interface
	player.TapSource
}

// Options configures a Session.
type Options struct {
	Engine     playback.Options
	Analyzer   analyzer.Options
	Visualizer visualizer.Options
	// VisualizerOff starts with the visualizer disabled. It can be turned
	// on later with SetVisualizer.
	VisualizerOff bool
}

// DefaultOptions returns the analyzer and sampler defaults.
func DefaultOptions() Options {
	return Options{Analyzer: analyzer.DefaultOptions()}
}

// Session wires the pieces together and tears them down in order.
type Session struct {
	src     Source
	engine  *playback.Engine
	an      *analyzer.Analyzer
	sampler *visualizer.Sampler
	log     *zap.Logger

	sub     *playback.Subscription
	watchWG sync.WaitGroup

	closeOnce sync.Once
	closeErr  error
}

// New takes ownership of src. The visualizer is optional: when the analyzer
// cannot be set up the session runs without one.
func New(src Source, opts Options, log *zap.Logger) (*Session, error) {
	if src == nil {
		return nil, errors.New("session: nil source")
	}
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Engine.Logger == nil {
		opts.Engine.Logger = log.Named("playback")
	}

	s := &Session{src: src, log: log}
	s.an, s.sampler = s.setupVisualizer(opts)
	s.engine = playback.New(src, opts.Engine)

	s.sub = s.engine.Subscribe()
	s.watchWG.Add(1)
	go s.watch()
	return s, nil
}

func (s *Session) setupVisualizer(opts Options) (*analyzer.Analyzer, *visualizer.Sampler) {
	an, err := analyzer.New(opts.Analyzer)
	if err == nil {
		err = an.Attach(s.src)
	}
	if err != nil {
		s.log.Warn(errmsg.Format(errmsg.OpVisualizerInit, err), zap.Error(err))
		return nil, nil
	}
	sampler := visualizer.New(an, opts.Visualizer, s.log.Named("visualizer"))
	if opts.VisualizerOff {
		sampler.SetEnabled(false)
	}
	return an, sampler
}

// watch keeps the sampler running exactly while the engine is playing.
// It reads the engine state rather than the event payload so a dropped
// event cannot leave the sampler out of step.
func (s *Session) watch() {
	defer s.watchWG.Done()
	for {
		select {
		case <-s.sub.Done:
			return
		case <-s.sub.StateChanged:
			if s.sampler != nil {
				s.sampler.SetPlaying(s.engine.State().Playing)
			}
		}
	}
}

// Engine returns the playback engine.
func (s *Session) Engine() *playback.Engine { return s.engine }

// Sampler returns the visualizer sampler, or nil when the visualizer could
// not be initialized.
func (s *Session) Sampler() *visualizer.Sampler { return s.sampler }

// HasVisualizer reports whether a visualizer is available.
func (s *Session) HasVisualizer() bool { return s.sampler != nil }

// SetVisualizer turns the visualizer on or off. It does nothing when no
// visualizer is available.
func (s *Session) SetVisualizer(on bool) {
	if s.sampler != nil {
		s.sampler.SetEnabled(on)
	}
}

// ToggleVisualizer flips the visualizer and returns whether it is now on.
func (s *Session) ToggleVisualizer() bool {
	if s.sampler == nil {
		return false
	}
	on := !s.sampler.Enabled()
	s.sampler.SetEnabled(on)
	return on
}

// Close stops playback, stops the sampler, detaches the analyzer and closes
// the source. It is safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		var errs error
		errs = multierr.Append(errs, s.engine.Close())
		s.watchWG.Wait()
		if s.sampler != nil {
			errs = multierr.Append(errs, s.sampler.Close())
		}
		errs = multierr.Append(errs, s.src.Close())
		s.closeErr = errs
	})
	return s.closeErr
}
