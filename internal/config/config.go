package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/llehouerou/waveform/internal/analyzer"
	"github.com/llehouerou/waveform/internal/playback"
	"github.com/llehouerou/waveform/internal/player"
	"github.com/llehouerou/waveform/internal/visualizer"
)

type Config struct {
	DefaultFolder string `koanf:"default_folder"` // scanned when no paths are given
	StateFile     string `koanf:"state_file"`     // empty means $XDG_DATA_HOME/waveform/waveform.db
	LogFile       string `koanf:"log_file"`       // empty disables logging
	Icons         string `koanf:"icons"`          // "nerd", "unicode", "none" (default: "unicode")
	Notifications *bool  `koanf:"notifications"`  // desktop notifications (default: true)

	Playback   PlaybackConfig   `koanf:"playback"`
	Audio      AudioConfig      `koanf:"audio"`
	Visualizer VisualizerConfig `koanf:"visualizer"`
}

// PlaybackConfig holds the initial playback preferences. Saved state wins
// over these once the player has run.
type PlaybackConfig struct {
	Volume  *float64 `koanf:"volume"` // 0.0-1.0 (default: 0.7)
	Muted   bool     `koanf:"muted"`
	Shuffle bool     `koanf:"shuffle"`
	Repeat  string   `koanf:"repeat"` // "off", "all", "one" (default: "off")
	Rate    float64  `koanf:"rate"`   // 0.25-2 (default: 1)
}

// AudioConfig holds output settings.
type AudioConfig struct {
	SampleRate     int `koanf:"sample_rate"`      // Hz (default: 44100)
	PollIntervalMs int `koanf:"poll_interval_ms"` // position updates (default: 250)
	HTTPTimeoutSec int `koanf:"http_timeout_sec"` // remote tracks (default: 30)
}

// VisualizerConfig holds analyzer and sampler settings.
type VisualizerConfig struct {
	Enabled      *bool    `koanf:"enabled"` // default: true
	Style        string   `koanf:"style"`   // "bars", "wave", "circle" (default: "bars")
	FPS          int      `koanf:"fps"`
	BarCount     int      `koanf:"bar_count"`
	CirclePoints int      `koanf:"circle_points"`
	Bins         int      `koanf:"bins"`      // power of two (default: 128)
	Smoothing    *float64 `koanf:"smoothing"` // 0 disables smoothing (default: 0.8)
	MinDecibels  float64  `koanf:"min_decibels"`
	MaxDecibels  float64  `koanf:"max_decibels"`
}

// Visualizer styles.
const (
	StyleBars   = "bars"
	StyleWave   = "wave"
	StyleCircle = "circle"
)

func Load() (*Config, error) {
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom reads the given files in order, later ones overriding earlier
// ones. Missing files are skipped.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.DefaultFolder = expandPath(cfg.DefaultFolder)
	cfg.StateFile = expandPath(cfg.StateFile)
	cfg.LogFile = expandPath(cfg.LogFile)
	cfg.Visualizer.Style = strings.ToLower(strings.TrimSpace(cfg.Visualizer.Style))

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/waveform/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "waveform", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// Prefs returns the configured playback preferences with defaults applied.
func (c *Config) Prefs() playback.Prefs {
	p := playback.Prefs{
		Volume:  playback.DefaultVolume,
		Muted:   c.Playback.Muted,
		Shuffle: c.Playback.Shuffle,
		Rate:    1,
	}
	if v := c.Playback.Volume; v != nil && !math.IsNaN(*v) {
		p.Volume = min(max(*v, 0), 1)
	}
	if mode, ok := playback.ParseRepeatMode(c.Playback.Repeat); ok {
		p.Repeat = mode
	}
	if c.Playback.Rate > 0 {
		p.Rate = player.ClampRate(c.Playback.Rate)
	}
	return p
}

// PlayerOptions returns the audio output options with defaults applied.
func (c *Config) PlayerOptions() player.Options {
	opts := player.DefaultOptions()
	if c.Audio.SampleRate > 0 {
		opts.SampleRate = c.Audio.SampleRate
	}
	if c.Audio.PollIntervalMs > 0 {
		opts.PollInterval = time.Duration(c.Audio.PollIntervalMs) * time.Millisecond
	}
	if c.Audio.HTTPTimeoutSec > 0 {
		opts.HTTPClient.Timeout = time.Duration(c.Audio.HTTPTimeoutSec) * time.Second
	}
	// The tap must hold a full analysis window of two samples per bin.
	if bins := c.AnalyzerOptions().BinCount; bins > 0 && bins <= analyzer.MaxBinCount {
		opts.TapSize = max(opts.TapSize, 2*bins)
	}
	return opts
}

// AnalyzerOptions returns the analyzer options. Invalid values are passed
// through so the analyzer reports them.
func (c *Config) AnalyzerOptions() analyzer.Options {
	opts := analyzer.DefaultOptions()
	v := c.Visualizer
	if v.Bins > 0 {
		opts.BinCount = v.Bins
	}
	if v.Smoothing != nil {
		opts.Smoothing = *v.Smoothing
	}
	if v.MinDecibels != 0 {
		opts.MinDecibels = v.MinDecibels
	}
	if v.MaxDecibels != 0 {
		opts.MaxDecibels = v.MaxDecibels
	}
	return opts
}

// SamplerOptions returns the sampler options. Zero fields take the sampler
// defaults.
func (c *Config) SamplerOptions() visualizer.Options {
	return visualizer.Options{
		FPS:          c.Visualizer.FPS,
		BarCount:     c.Visualizer.BarCount,
		CirclePoints: c.Visualizer.CirclePoints,
	}
}

// VisualizerEnabled reports whether the visualizer starts on.
func (c *Config) VisualizerEnabled() bool {
	return c.Visualizer.Enabled == nil || *c.Visualizer.Enabled
}

// NotificationsEnabled reports whether desktop notifications are sent.
func (c *Config) NotificationsEnabled() bool {
	return c.Notifications == nil || *c.Notifications
}

// VisualizerStyle returns the configured style, defaulting to bars.
func (c *Config) VisualizerStyle() string {
	switch c.Visualizer.Style {
	case StyleWave, StyleCircle:
		return c.Visualizer.Style
	default:
		return StyleBars
	}
}
