package player

import (
	"maps"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/llehouerou/waveform/internal/playlist"
)

const (
	DefaultSampleRate   = 44100
	DefaultPollInterval = 250 * time.Millisecond
	DefaultHTTPTimeout  = 30 * time.Second
	// DefaultMaxRemoteBytes caps a downloaded resource.
	DefaultMaxRemoteBytes = 256 << 20

	eventBufferSize = 64
	resampleQuality = 4
)

// Options configures a Player.
type Options struct {
	// SampleRate is the speaker output rate. Tracks are resampled to it.
	SampleRate int
	// PollInterval is the TimeUpdate cadence while playing.
	PollInterval time.Duration
	// TapSize is the number of samples kept for OpenTap readers.
	TapSize int
	// HTTPClient fetches http(s) locators.
	HTTPClient *http.Client
	// MaxRemoteBytes is the largest http(s) body Load accepts.
	MaxRemoteBytes int64
}

// DefaultOptions returns the options used by New when fields are zero.
func DefaultOptions() Options {
	return Options{
		SampleRate:     DefaultSampleRate,
		PollInterval:   DefaultPollInterval,
		TapSize:        DefaultTapSize,
		HTTPClient:     &http.Client{Timeout: DefaultHTTPTimeout},
		MaxRemoteBytes: DefaultMaxRemoteBytes,
	}
}

var (
	speakerMu          sync.Mutex
	speakerInitialized bool
)

// initSpeaker opens the audio device on first use.
func initSpeaker(sr beep.SampleRate) error {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	if speakerInitialized {
		return nil
	}
	if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
		return err
	}
	speakerInitialized = true
	return nil
}

type seekRequest struct {
	pos     time.Duration
	gen     uint64
	loadGen uint64
}

// Player is a MediaSource backed by the beep speaker:
//
//	[Decode] -> [Resample] -> [Rate] -> [Ctrl] -> [Tap] -> [Volume] -> [Speaker]
//
// Lock order is p.mu before speaker.Lock. Code running inside the speaker
// callback never takes p.mu.
type Player struct {
	opts    Options
	outRate beep.SampleRate

	mu       sync.Mutex
	state    State
	track    playlist.Track
	streamer beep.StreamSeekCloser
	format   beep.Format
	speed    *beep.Resampler
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	queued   bool
	loadGen  uint64
	pending  *pendingLoad
	lastPos  time.Duration

	volumeLevel float64
	muted       bool
	rate        float64

	seekIssued  uint64
	seekApplied uint64
	seekTarget  time.Duration
	seekPending bool
	seekChan    chan seekRequest

	ring    *ring
	tapOpen atomic.Bool

	events  chan Event
	endedCh chan uint64
	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int

	closed    atomic.Bool
	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// New creates a Player. The audio device is opened lazily by the first Play.
func New(opts Options) *Player {
	def := DefaultOptions()
	if opts.SampleRate <= 0 {
		opts.SampleRate = def.SampleRate
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = def.PollInterval
	}
	if opts.TapSize <= 0 {
		opts.TapSize = def.TapSize
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = def.HTTPClient
	}
	if opts.MaxRemoteBytes <= 0 {
		opts.MaxRemoteBytes = def.MaxRemoteBytes
	}

	p := &Player{
		opts:        opts,
		outRate:     beep.SampleRate(opts.SampleRate),
		state:       Stopped,
		volumeLevel: 1,
		rate:        1,
		lastPos:     -1,
		seekChan:    make(chan seekRequest, 1),
		ring:        newRing(opts.TapSize),
		events:      make(chan Event, eventBufferSize),
		endedCh:     make(chan uint64, 4),
		subs:        make(map[int]func(Event)),
		done:        make(chan struct{}),
	}

	p.wg.Add(3)
	go p.dispatchLoop()
	go p.seekLoop()
	go p.pollLoop()
	return p
}

// State returns the current output state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Track returns the loaded track.
func (p *Player) Track() (playlist.Track, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.track, p.streamer != nil
}

// Position returns the current position, or the pending seek target while a
// seek is in flight.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.seekPending {
		return p.seekTarget
	}
	return p.positionLocked()
}

func (p *Player) positionLocked() time.Duration {
	if p.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := p.format.SampleRate.D(p.streamer.Position())
	speaker.Unlock()
	return pos
}

// Duration returns the length of the loaded resource, or 0 when nothing is loaded.
func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.durationLocked()
}

func (p *Player) durationLocked() time.Duration {
	if p.streamer == nil {
		return 0
	}
	return p.format.SampleRate.D(p.streamer.Len())
}

// Subscribe registers fn for events.
func (p *Player) Subscribe(fn func(Event)) func() {
	p.subMu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn
	p.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.subMu.Lock()
			delete(p.subs, id)
			p.subMu.Unlock()
		})
	}
}

// emit queues e for delivery. Must not be called with p.mu held.
// TimeUpdate is dropped when the queue is full; other events wait.
func (p *Player) emit(e Event) {
	if _, ok := e.(TimeUpdate); ok {
		select {
		case p.events <- e:
		default:
		}
		return
	}
	select {
	case p.events <- e:
	case <-p.done:
	}
}

func (p *Player) dispatchLoop() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			return
		case e := <-p.events:
			p.subMu.Lock()
			ids := slices.Sorted(maps.Keys(p.subs))
			p.subMu.Unlock()
			for _, id := range ids {
				p.subMu.Lock()
				fn, ok := p.subs[id]
				p.subMu.Unlock()
				if ok {
					fn(e)
				}
			}
		}
	}
}

func (p *Player) pollLoop() {
	defer p.wg.Done()
	ticker := time.NewTicker(p.opts.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-p.done:
			return
		case gen := <-p.endedCh:
			p.handleEnded(gen)
		case <-ticker.C:
			p.poll()
		}
	}
}

func (p *Player) poll() {
	p.mu.Lock()
	if p.state != Playing || p.streamer == nil || p.seekPending {
		p.mu.Unlock()
		return
	}
	pos := p.positionLocked()
	if pos == p.lastPos {
		p.mu.Unlock()
		return
	}
	p.lastPos = pos
	ev := TimeUpdate{
		TrackID:  p.track.ID,
		Position: pos,
		Buffered: p.durationLocked(),
		SeekGen:  p.seekApplied,
	}
	p.mu.Unlock()
	p.emit(ev)
}

func (p *Player) handleEnded(gen uint64) {
	p.mu.Lock()
	if gen != p.loadGen || p.streamer == nil || !p.queued {
		p.mu.Unlock()
		return
	}
	p.queued = false
	p.state = Paused
	dur := p.durationLocked()
	p.lastPos = dur
	last := TimeUpdate{TrackID: p.track.ID, Position: dur, Buffered: dur, SeekGen: p.seekApplied}
	ended := Ended{TrackID: p.track.ID}
	p.mu.Unlock()
	p.emit(last)
	p.emit(ended)
}

// pipelineLocked builds a fresh output chain around the loaded streamer.
func (p *Player) pipelineLocked() beep.Streamer {
	var s beep.Streamer = p.streamer
	if p.format.SampleRate != p.outRate {
		s = beep.Resample(resampleQuality, p.format.SampleRate, p.outRate, s)
	}
	p.speed = beep.ResampleRatio(resampleQuality, p.rate, s)
	p.ctrl = &beep.Ctrl{Streamer: p.speed}
	p.volume = &effects.Volume{
		Streamer: &tapStreamer{s: p.ctrl, ring: p.ring},
		Base:     2,
		Volume:   levelToVolume(p.volumeLevel),
		Silent:   p.muted || p.volumeLevel <= 0,
	}
	gen := p.loadGen
	return beep.Seq(p.volume, beep.Callback(func() {
		select {
		case p.endedCh <- gen:
		default:
		}
	}))
}

// unloadLocked removes the current resource from the speaker and closes it.
// A remote load in flight is abandoned.
func (p *Player) unloadLocked() {
	if p.pending != nil {
		p.pending.cancel()
		p.pending = nil
	}
	if p.queued {
		speaker.Clear()
		p.queued = false
	}
	if p.streamer != nil {
		_ = p.streamer.Close()
		p.streamer = nil
	}
	p.speed = nil
	p.ctrl = nil
	p.volume = nil
	p.track = playlist.Track{}
	p.state = Stopped
	p.seekPending = false
	p.lastPos = -1
}

// Close stops output and releases all resources.
func (p *Player) Close() error {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		p.mu.Lock()
		p.unloadLocked()
		p.mu.Unlock()
		close(p.done)
		p.wg.Wait()
	})
	return nil
}
