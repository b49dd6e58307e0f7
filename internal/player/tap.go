package player

import (
	"sync"

	"github.com/gopxl/beep/v2"
)

// DefaultTapSize is the number of mono samples kept for analysis.
const DefaultTapSize = 4096

// ring holds the most recent mono mix of the output.
type ring struct {
	mu   sync.Mutex
	buf  []float64
	pos  int
	size int
}

func newRing(size int) *ring {
	if size <= 0 {
		size = DefaultTapSize
	}
	return &ring{buf: make([]float64, size), size: size}
}

func (r *ring) write(samples [][2]float64) {
	r.mu.Lock()
	for i := range samples {
		r.buf[r.pos] = (samples[i][0] + samples[i][1]) / 2
		r.pos = (r.pos + 1) % r.size
	}
	r.mu.Unlock()
}

// read fills dst with the last len(dst) samples in chronological order.
func (r *ring) read(dst []float64) int {
	n := min(len(dst), r.size)
	r.mu.Lock()
	start := (r.pos - n + r.size) % r.size
	for i := range n {
		dst[i] = r.buf[(start+i)%r.size]
	}
	r.mu.Unlock()
	return n
}

func (r *ring) reset() {
	r.mu.Lock()
	clear(r.buf)
	r.pos = 0
	r.mu.Unlock()
}

// tapStreamer passes audio through while capturing it into a ring.
type tapStreamer struct {
	s    beep.Streamer
	ring *ring
}

func (t *tapStreamer) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.s.Stream(samples)
	t.ring.write(samples[:n])
	return n, ok
}

func (t *tapStreamer) Err() error {
	return t.s.Err()
}

// Tap gives read access to the samples a player is currently outputting.
type Tap interface {
	// Read fills dst with the most recent mono samples, oldest first,
	// and returns how many were written.
	Read(dst []float64) int
	// Close releases the tap so it can be opened again.
	Close() error
}

// TapSource is implemented by players that expose their output samples.
type TapSource interface {
	// OpenTap returns ErrTapInUse while a previous tap is still open.
	OpenTap() (Tap, error)
}

type playerTap struct {
	p    *Player
	once sync.Once
}

func (t *playerTap) Read(dst []float64) int {
	return t.p.ring.read(dst)
}

func (t *playerTap) Close() error {
	t.once.Do(func() {
		t.p.tapOpen.Store(false)
	})
	return nil
}

// OpenTap attaches a reader to the output. Only one tap may be open at a time.
func (p *Player) OpenTap() (Tap, error) {
	if p.closed.Load() {
		return nil, ErrClosed
	}
	if !p.tapOpen.CompareAndSwap(false, true) {
		return nil, ErrTapInUse
	}
	return &playerTap{p: p}, nil
}
