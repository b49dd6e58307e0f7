package player

import (
	"math"

	"github.com/gopxl/beep/v2/speaker"
)

// SetVolume sets the volume level (0.0 to 1.0).
func (p *Player) SetVolume(level float64) {
	if math.IsNaN(level) {
		level = 0
	}
	level = max(0, min(level, 1))

	p.mu.Lock()
	defer p.mu.Unlock()
	p.volumeLevel = level
	if p.volume != nil {
		speaker.Lock()
		p.volume.Volume = levelToVolume(level)
		p.volume.Silent = p.muted || level <= 0
		speaker.Unlock()
	}
}

// Volume returns the current volume level (0.0 to 1.0).
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volumeLevel
}

// SetMuted silences output without changing the stored level.
func (p *Player) SetMuted(muted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = muted
	if p.volume != nil {
		speaker.Lock()
		p.volume.Silent = muted || p.volumeLevel <= 0
		speaker.Unlock()
	}
}

// Muted reports whether output is muted.
func (p *Player) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

// SetRate sets the playback speed clamped into [MinRate, MaxRate].
func (p *Player) SetRate(rate float64) {
	rate = ClampRate(rate)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.rate = rate
	if p.speed != nil {
		speaker.Lock()
		p.speed.SetRatio(rate)
		speaker.Unlock()
	}
}

// Rate returns the playback speed.
func (p *Player) Rate() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rate
}

// ClampRate limits rate to [MinRate, MaxRate]. NaN maps to 1.
func ClampRate(rate float64) float64 {
	if math.IsNaN(rate) {
		return 1
	}
	return max(MinRate, min(rate, MaxRate))
}

// levelToVolume converts a 0.0-1.0 level to beep's base-2 Volume value.
// 1.0 -> 0, 0.5 -> -1, 0.25 -> -2, 0 -> -10 (essentially silent).
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}
