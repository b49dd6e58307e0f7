// Package visualizer samples an analyzer at a fixed frame rate while audio is
// playing and publishes derived frames to renderers.
package visualizer

import (
	"maps"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/waveform/internal/analyzer"
)

const (
	DefaultFPS          = 60
	DefaultBarCount     = 64
	DefaultCirclePoints = 32
)

// Analyzer is the part of analyzer.Analyzer the sampler reads from.
type Analyzer interface {
	Snapshot() analyzer.Frame
	TimeDomain() []byte
	Attached() bool
	Detach() error
}

// Ticker is a frame clock.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.Ticker.C }

// Options configures a Sampler. Zero fields take defaults.
type Options struct {
	FPS          int
	BarCount     int
	CirclePoints int
	// Ticker builds the frame clock each time the loop starts.
	Ticker func() Ticker
}

func (o Options) withDefaults() Options {
	if o.FPS <= 0 {
		o.FPS = DefaultFPS
	}
	if o.BarCount <= 0 {
		o.BarCount = DefaultBarCount
	}
	if o.CirclePoints <= 0 {
		o.CirclePoints = DefaultCirclePoints
	}
	if o.Ticker == nil {
		interval := time.Second / time.Duration(o.FPS)
		o.Ticker = func() Ticker { return timeTicker{time.NewTicker(interval)} }
	}
	return o
}

// Sampler runs one frame loop at most. The loop runs while playing and
// enabled, or between explicit Start and Stop calls.
type Sampler struct {
	an   Analyzer
	opts Options
	log  *zap.Logger

	// run serializes Start and Stop so Stop can wait for the loop without
	// holding mu.
	run  sync.Mutex
	stop chan struct{}
	done chan struct{}

	mu      sync.Mutex
	playing bool
	enabled bool
	closed  bool
	last    Frame
	hasLast bool
	subs    map[int]func(Frame)
	nextSub int
}

// New returns a stopped, enabled sampler reading from an.
func New(an Analyzer, opts Options, log *zap.Logger) *Sampler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sampler{
		an:      an,
		opts:    opts.withDefaults(),
		log:     log,
		enabled: true,
		subs:    make(map[int]func(Frame)),
	}
}

// Options returns the effective options.
func (s *Sampler) Options() Options { return s.opts }

// Start launches the frame loop if it is not running. It does nothing once
// closed or when the analyzer is detached.
func (s *Sampler) Start() {
	s.run.Lock()
	defer s.run.Unlock()
	s.startLocked()
}

func (s *Sampler) startLocked() {
	if s.stop != nil {
		return
	}
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed || s.an == nil || !s.an.Attached() {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.loop(s.opts.Ticker(), s.stop, s.done)
	s.log.Debug("visualizer started", zap.Int("fps", s.opts.FPS))
}

// Stop halts the frame loop and waits for it to exit. No analyzer read
// happens after Stop returns. Must not be called from a subscriber.
func (s *Sampler) Stop() {
	s.run.Lock()
	defer s.run.Unlock()
	s.stopLocked()
}

func (s *Sampler) stopLocked() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	<-s.done
	s.stop, s.done = nil, nil
	s.log.Debug("visualizer stopped")
}

// Running reports whether the frame loop is active.
func (s *Sampler) Running() bool {
	s.run.Lock()
	defer s.run.Unlock()
	return s.stop != nil
}

// SetPlaying records whether audio is playing and starts or stops the loop.
func (s *Sampler) SetPlaying(playing bool) {
	s.mu.Lock()
	s.playing = playing
	s.mu.Unlock()
	s.reconcile()
}

// SetEnabled turns the visualizer on or off.
func (s *Sampler) SetEnabled(enabled bool) {
	s.mu.Lock()
	s.enabled = enabled
	s.mu.Unlock()
	s.reconcile()
}

// Enabled reports whether the visualizer is on.
func (s *Sampler) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

func (s *Sampler) reconcile() {
	s.run.Lock()
	defer s.run.Unlock()
	s.mu.Lock()
	want := s.playing && s.enabled
	s.mu.Unlock()
	if want {
		s.startLocked()
	} else {
		s.stopLocked()
	}
}

// Subscribe registers fn for every published frame. Callbacks run on the
// loop goroutine in subscription order.
func (s *Sampler) Subscribe(fn func(Frame)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Last returns the most recent frame, if any.
func (s *Sampler) Last() (Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.hasLast
}

// Close stops the loop, detaches the analyzer and drops the last frame.
func (s *Sampler) Close() error {
	s.run.Lock()
	defer s.run.Unlock()
	s.stopLocked()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.last, s.hasLast = Frame{}, false
	clear(s.subs)
	s.mu.Unlock()

	if s.an == nil {
		return nil
	}
	return s.an.Detach()
}

func (s *Sampler) loop(t Ticker, stop, done chan struct{}) {
	defer close(done)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C():
			select {
			case <-stop:
				return
			default:
			}
			s.tick()
		}
	}
}

func (s *Sampler) tick() {
	f := newFrame(s.an.Snapshot(), s.an.TimeDomain(), s.opts.BarCount, s.opts.CirclePoints)

	s.mu.Lock()
	s.last, s.hasLast = f, true
	subs := make([]func(Frame), 0, len(s.subs))
	for _, id := range slices.Sorted(maps.Keys(s.subs)) {
		subs = append(subs, s.subs[id])
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(f)
	}
}
