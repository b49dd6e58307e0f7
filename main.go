package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/llehouerou/waveform/internal/app"
	"github.com/llehouerou/waveform/internal/config"
	"github.com/llehouerou/waveform/internal/icons"
	"github.com/llehouerou/waveform/internal/session"
	"github.com/llehouerou/waveform/internal/stderr"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f Flags
	cmd := &cobra.Command{
		Use:   "waveform [files|dirs|urls...]",
		Short: "Terminal music player with a live spectrum visualizer",
		Long: `Play local files, directories (walked recursively) and http(s) URLs.

Without arguments the configured default folder is played, or else the
playlist from the last run.

Configuration is read from ~/.config/waveform/config.toml and ./config.toml.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f.Paths = args
			f.applyChanged(cmd)
			return run(cmd.Context(), f)
		},
	}

	fl := cmd.Flags()
	fl.BoolVar(&f.shuffle, "shuffle", false, "start with shuffle on")
	fl.StringVar(&f.Repeat, "repeat", "", "repeat mode: off, all, one")
	fl.Float64Var(&f.volume, "volume", 0, "start volume, 0.0-1.0")
	fl.BoolVar(&f.NoVisualizer, "no-visualizer", false, "start with the visualizer off")
	fl.StringVar(&f.Style, "style", "", "visualizer style: bars, wave, circle")
	fl.StringVar(&f.Icons, "icons", "", "icon set: nerd, unicode, none")
	fl.StringVar(&f.LogFile, "log-file", "", "write logs to this file")
	fl.BoolVar(&f.Autoplay, "play", false, "start playing immediately")
	return cmd
}

// run starts the service graph, runs the terminal UI until it quits and
// shuts the graph down.
func run(ctx context.Context, f Flags) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var (
		sess *session.Session
		cfg  *config.Config
		log  *zap.Logger
	)
	fxApp := fx.New(
		AppOptions,
		fx.Supply(f),
		fx.Populate(&sess, &cfg, &log),
	)
	if err := fxApp.Start(ctx); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	if f.Icons != "" {
		icons.Init(f.Icons)
	} else {
		icons.Init(cfg.Icons)
	}
	style := f.Style
	if style == "" {
		style = cfg.VisualizerStyle()
	}
	model := app.New(ctx, sess, app.Options{
		Style:    style,
		Autoplay: f.Autoplay || len(f.Paths) > 0,
		Logger:   log.Named("ui"),
	})
	defer model.Close()

	// Audio libraries write to fd 2 once the device opens.
	capture, err := stderr.Start(log.Named("stderr"))
	if err != nil {
		log.Warn("stderr capture unavailable", zap.Error(err))
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := p.Run()
	if capture != nil {
		capture.Stop()
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
	defer stopCancel()
	if err := fxApp.Stop(stopCtx); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
	if runErr != nil && ctx.Err() == nil {
		return runErr
	}
	return nil
}
