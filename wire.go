package main

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/llehouerou/waveform/internal/config"
	"github.com/llehouerou/waveform/internal/errmsg"
	"github.com/llehouerou/waveform/internal/mpris"
	"github.com/llehouerou/waveform/internal/notify"
	"github.com/llehouerou/waveform/internal/playback"
	"github.com/llehouerou/waveform/internal/player"
	"github.com/llehouerou/waveform/internal/playlist"
	"github.com/llehouerou/waveform/internal/session"
	"github.com/llehouerou/waveform/internal/state"
)

// Flags holds the command-line inputs. Unset optional flags stay nil so
// saved state can win over them.
type Flags struct {
	Paths        []string
	Shuffle      *bool
	Volume       *float64
	Repeat       string
	NoVisualizer bool
	Style        string
	Icons        string
	LogFile      string
	Autoplay     bool

	shuffle bool
	volume  float64
}

func (f *Flags) applyChanged(cmd *cobra.Command) {
	if cmd.Flags().Changed("shuffle") {
		f.Shuffle = &f.shuffle
	}
	if cmd.Flags().Changed("volume") {
		f.Volume = &f.volume
	}
}

// AppOptions is the service graph: configuration, logging, persisted state,
// the playback session and the desktop integrations. The caller supplies
// Flags.
var AppOptions = fx.Options(
	fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: log}
	}),
	fx.Provide(
		newConfig,
		newLogger,
		newStore,
		newSource,
		newSession,
	),
	fx.Invoke(
		loadPlaylist,
		startMPRIS,
		startNotifications,
	),
)

func newConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}
	return cfg, nil
}

// newLogger writes JSON logs to the configured file. The terminal belongs to
// the UI, so without a file nothing is logged.
func newLogger(cfg *config.Config, f Flags) (*zap.Logger, error) {
	path := f.LogFile
	if path == "" {
		path = cfg.LogFile
	}
	if path == "" {
		return zap.NewNop(), nil
	}
	zc := zap.NewProductionConfig()
	zc.OutputPaths = []string{path}
	zc.ErrorOutputPaths = []string{path}
	zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	return zc.Build()
}

func newStore(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (state.Interface, error) {
	var (
		m   *state.Manager
		err error
	)
	if cfg.StateFile != "" {
		m, err = state.OpenPath(cfg.StateFile, log.Named("state"))
	} else {
		m, err = state.Open(log.Named("state"))
	}
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(m.Close))
	return m, nil
}

func newSource(cfg *config.Config) session.Source {
	return player.New(cfg.PlayerOptions())
}

// resolvePrefs layers the playback preferences: config, then the saved
// state, then flags.
func resolvePrefs(cfg *config.Config, saved *playback.Prefs, f Flags) playback.Prefs {
	p := cfg.Prefs()
	if saved != nil {
		p = *saved
	}
	if f.Shuffle != nil {
		p.Shuffle = *f.Shuffle
	}
	if f.Volume != nil {
		p.Volume = min(max(*f.Volume, 0), 1)
	}
	if mode, ok := playback.ParseRepeatMode(f.Repeat); ok {
		p.Repeat = mode
	}
	return p
}

func newSession(
	lc fx.Lifecycle,
	cfg *config.Config,
	f Flags,
	src session.Source,
	store state.Interface,
	log *zap.Logger,
) (*session.Session, error) {
	saved, err := store.LoadPreferences()
	if err != nil {
		log.Warn(errmsg.Format(errmsg.OpStateLoad, err), zap.Error(err))
	}
	prefs := resolvePrefs(cfg, saved, f)

	opts := session.DefaultOptions()
	opts.Engine = playback.Options{Restore: &prefs, Preferences: store}
	opts.Analyzer = cfg.AnalyzerOptions()
	opts.Visualizer = cfg.SamplerOptions()
	opts.VisualizerOff = f.NoVisualizer || !cfg.VisualizerEnabled()

	sess, err := session.New(src, opts, log)
	if err != nil {
		return nil, errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	lc.Append(fx.StopHook(sess.Close))
	return sess, nil
}

// loadPlaylist fills the engine from the arguments, the default folder or
// the saved playlist, in that order. A new playlist is saved; a restored
// one reselects the last track.
func loadPlaylist(cfg *config.Config, f Flags, sess *session.Session, store state.Interface, log *zap.Logger) error {
	args := f.Paths
	if len(args) == 0 && cfg.DefaultFolder != "" {
		args = []string{cfg.DefaultFolder}
	}

	if len(args) > 0 {
		tracks, err := playlist.Collect(args...)
		if err != nil {
			return errors.New(errmsg.Format(errmsg.OpPlaylistLoad, err))
		}
		sess.Engine().SetPlaylist(tracks)
		if err := store.SavePlaylist(tracks); err != nil {
			log.Warn(errmsg.Format(errmsg.OpPlaylistSave, err), zap.Error(err))
		}
		return nil
	}

	tracks, err := store.LoadPlaylist()
	if err != nil {
		log.Warn(errmsg.Format(errmsg.OpPlaylistLoad, err), zap.Error(err))
		return nil
	}
	eng := sess.Engine()
	eng.SetPlaylist(tracks)

	saved, err := store.LoadPreferences()
	if err != nil || saved == nil || saved.TrackID == "" {
		return nil //nolint:nilerr // already reported when the session was built
	}
	for i, t := range tracks {
		if t.ID == saved.TrackID {
			if err := eng.SelectTrack(t, i); err != nil {
				log.Debug("restore selection", zap.Error(err))
			}
			break
		}
	}
	return nil
}

func startMPRIS(lc fx.Lifecycle, sess *session.Session, log *zap.Logger) error {
	adapter, err := mpris.New(sess.Engine(), log.Named("mpris"))
	if err != nil {
		log.Info("mpris unavailable", zap.Error(err))
		return nil
	}
	lc.Append(fx.StopHook(adapter.Close))
	return nil
}

func startNotifications(lc fx.Lifecycle, cfg *config.Config, sess *session.Session, log *zap.Logger) error {
	if !cfg.NotificationsEnabled() {
		return nil
	}
	n, err := notify.New(log.Named("notify"))
	if err != nil {
		return err
	}
	sub := sess.Engine().Subscribe()
	// The watcher ends when the session closes the engine.
	lc.Append(fx.StartHook(func() {
		go notify.Watch(sub, n, log.Named("notify"))
	}))
	return nil
}
