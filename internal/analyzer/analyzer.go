// Package analyzer computes byte-scaled frequency and time-domain frames from
// the samples a player is outputting, the way a Web Audio AnalyserNode does.
package analyzer

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"sync"

	"github.com/madelynnblue/go-dsp/fft"

	"github.com/llehouerou/waveform/internal/player"
)

const (
	DefaultBinCount    = 128
	DefaultSmoothing   = 0.8
	DefaultMinDecibels = -90
	DefaultMaxDecibels = -10

	MinBinCount = 16
	MaxBinCount = 16384
)

// ErrAlreadyAttached is returned when an analyzer or a source is attached twice.
var ErrAlreadyAttached = errors.New("analyzer already attached")

// InitError reports that the analysis pipeline could not be set up.
type InitError struct {
	Err error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("analyzer init: %v", e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// Options configures an Analyzer.
type Options struct {
	// BinCount is the frame length. The FFT size is twice this.
	BinCount int
	// Smoothing blends each frame with the previous one, in [0, 1).
	Smoothing   float64
	MinDecibels float64
	MaxDecibels float64
}

func DefaultOptions() Options {
	return Options{
		BinCount:    DefaultBinCount,
		Smoothing:   DefaultSmoothing,
		MinDecibels: DefaultMinDecibels,
		MaxDecibels: DefaultMaxDecibels,
	}
}

func (o Options) validate() error {
	if o.BinCount < MinBinCount || o.BinCount > MaxBinCount || o.BinCount&(o.BinCount-1) != 0 {
		return fmt.Errorf("bin count %d must be a power of two in [%d, %d]", o.BinCount, MinBinCount, MaxBinCount)
	}
	if math.IsNaN(o.Smoothing) || o.Smoothing < 0 || o.Smoothing >= 1 {
		return fmt.Errorf("smoothing %v must be in [0, 1)", o.Smoothing)
	}
	if !(o.MinDecibels < o.MaxDecibels) {
		return fmt.Errorf("min decibels %v must be below max decibels %v", o.MinDecibels, o.MaxDecibels)
	}
	return nil
}

// Frame is one snapshot of frequency-bin magnitudes in [0, 255].
type Frame []byte

// Analyzer turns the latest output samples into frames. Safe for concurrent use.
type Analyzer struct {
	opts Options

	mu       sync.Mutex
	tap      player.Tap
	attached bool
	samples  []float64
	windowed []float64
	window   []float64
	smoothed []float64
	frame    Frame
}

// New validates opts and returns an unattached Analyzer.
func New(opts Options) (*Analyzer, error) {
	if err := opts.validate(); err != nil {
		return nil, &InitError{Err: err}
	}
	size := opts.BinCount * 2
	return &Analyzer{
		opts:     opts,
		samples:  make([]float64, size),
		windowed: make([]float64, size),
		window:   blackman(size),
		smoothed: make([]float64, opts.BinCount),
		frame:    make(Frame, opts.BinCount),
	}, nil
}

// Options returns the analyzer configuration.
func (a *Analyzer) Options() Options { return a.opts }

// BinCount returns the frame length.
func (a *Analyzer) BinCount() int { return a.opts.BinCount }

// Attach connects the analyzer to src. An analyzer attaches at most once over
// its lifetime, and a source feeds at most one analyzer at a time.
func (a *Analyzer) Attach(src player.TapSource) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.attached {
		return ErrAlreadyAttached
	}
	if src == nil {
		return &InitError{Err: errors.New("nil source")}
	}
	tap, err := src.OpenTap()
	if errors.Is(err, player.ErrTapInUse) {
		return fmt.Errorf("%w: %w", ErrAlreadyAttached, err)
	}
	if err != nil {
		return &InitError{Err: err}
	}
	a.tap = tap
	a.attached = true
	return nil
}

// Attached reports whether the analyzer is reading from a source.
func (a *Analyzer) Attached() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tap != nil
}

// Detach releases the source. Later snapshots return zero frames.
func (a *Analyzer) Detach() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.tap == nil {
		return nil
	}
	err := a.tap.Close()
	a.tap = nil
	clear(a.smoothed)
	clear(a.frame)
	return err
}

// Snapshot computes a frame from the latest samples and returns a copy.
// It never waits for new samples.
func (a *Analyzer) Snapshot() Frame {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make(Frame, a.opts.BinCount)
	if a.tap == nil {
		return out
	}
	a.readLocked()

	for i, s := range a.samples {
		a.windowed[i] = s * a.window[i]
	}
	spectrum := fft.FFTReal(a.windowed)

	size := float64(len(a.samples))
	tau := a.opts.Smoothing
	scale := 255 / (a.opts.MaxDecibels - a.opts.MinDecibels)
	for k := range a.smoothed {
		mag := cmplx.Abs(spectrum[k]) / size
		a.smoothed[k] = tau*a.smoothed[k] + (1-tau)*mag
		db := 20 * math.Log10(a.smoothed[k])
		a.frame[k] = toByte(scale * (db - a.opts.MinDecibels))
	}
	copy(out, a.frame)
	return out
}

// TimeDomain returns the latest 2*BinCount samples as bytes, 128 being silence.
func (a *Analyzer) TimeDomain() []byte {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]byte, len(a.samples))
	if a.tap == nil {
		for i := range out {
			out[i] = 128
		}
		return out
	}
	a.readLocked()
	for i, s := range a.samples {
		out[i] = toByte(128 * (1 + s))
	}
	return out
}

// readLocked fills a.samples with the newest samples, right-aligned and
// zero-padded when the source has fewer.
func (a *Analyzer) readLocked() {
	n := a.tap.Read(a.samples)
	if n < len(a.samples) {
		copy(a.samples[len(a.samples)-n:], a.samples[:n])
		clear(a.samples[:len(a.samples)-n])
	}
}

func toByte(v float64) byte {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return byte(v)
}

// blackman returns the Blackman window (alpha 0.16) of the given size.
func blackman(n int) []float64 {
	const (
		a0 = 0.42
		a1 = 0.5
		a2 = 0.08
	)
	w := make([]float64, n)
	for i := range w {
		x := 2 * math.Pi * float64(i) / float64(n)
		w[i] = a0 - a1*math.Cos(x) + a2*math.Cos(2*x)
	}
	return w
}
