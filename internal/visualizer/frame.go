package visualizer

import "github.com/samber/lo"

// Band boundaries as fractions of the bin count.
const (
	bassEnd = 0.1
	midEnd  = 0.6
)

// Frame is one published visualizer sample. Frames are shared between
// subscribers and must not be modified.
type Frame struct {
	// Raw is the analyzer frame, bytes in [0, 255].
	Raw []byte
	// Bars and Circle are bucket averages normalized to [0, 1].
	Bars   []float64
	Circle []float64
	// Band levels in byte scale.
	Average float64
	Bass    float64
	Mid     float64
	Treble  float64
	// Waveform is the time-domain signal in [-1, 1].
	Waveform []float64
}

// IsZero reports whether the frame carries no energy.
func (f Frame) IsZero() bool {
	return !lo.SomeBy(f.Raw, func(b byte) bool { return b != 0 })
}

func newFrame(raw, timeDomain []byte, bars, points int) Frame {
	n := len(raw)
	return Frame{
		Raw:      raw,
		Bars:     Buckets(raw, bars),
		Circle:   Buckets(raw, points),
		Average:  mean(raw),
		Bass:     mean(raw[:int(float64(n)*bassEnd)]),
		Mid:      mean(raw[int(float64(n)*bassEnd):int(float64(n)*midEnd)]),
		Treble:   mean(raw[int(float64(n)*midEnd):]),
		Waveform: Waveform(timeDomain),
	}
}

// Buckets splits data into count contiguous buckets of floor(len/count) bins
// and returns each bucket's average scaled to [0, 1]. When there are fewer
// bins than buckets every bin gets its own bucket and the rest stay zero.
func Buckets(data []byte, count int) []float64 {
	if count <= 0 {
		return nil
	}
	out := make([]float64, count)
	size := len(data) / count
	if size == 0 {
		size = 1
	}
	for i := range out {
		start := i * size
		if start >= len(data) {
			break
		}
		out[i] = mean(data[start:min(start+size, len(data))]) / 255
	}
	return out
}

// Waveform maps time-domain bytes to [-1, 1].
func Waveform(data []byte) []float64 {
	return lo.Map(data, func(b byte, _ int) float64 {
		return (float64(b) - 128) / 128
	})
}

func mean(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := lo.SumBy(data, func(b byte) int { return int(b) })
	return float64(sum) / float64(len(data))
}
