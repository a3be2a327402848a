// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

// waymark-gallery is a travel-planner page built from the Waymark
// widgets: skip links, a region tab group, a featured carousel, a
// searchable destination picker, an interests multi-select, an
// incrementally loaded stories feed, an accessibility preferences
// panel, and a booking dialog.
//
// Preferences persist to the state file between runs. Reduced motion
// and high contrast also follow the environment and, when configured,
// a watched signal file that can be edited while the gallery runs.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/pflag"

	"github.com/waymark-travel/waymark/lib/announce"
	"github.com/waymark-travel/waymark/lib/clock"
	"github.com/waymark-travel/waymark/lib/config"
	"github.com/waymark-travel/waymark/lib/document"
	"github.com/waymark-travel/waymark/lib/kvstore"
	"github.com/waymark-travel/waymark/lib/preference"
	"github.com/waymark-travel/waymark/lib/schedule"
	"github.com/waymark-travel/waymark/lib/tui"
	"github.com/waymark-travel/waymark/lib/version"
)

// storyLatency is the simulated round trip of the stories feed.
const storyLatency = 600 * time.Millisecond

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type flags struct {
	configPath    string
	themePath     string
	stateDir      string
	signalsPath   string
	logOutput     string
	reducedMotion bool
	highContrast  bool
}

func run() error {
	var options flags
	flagSet := pflag.NewFlagSet("waymark-gallery", pflag.ContinueOnError)
	flagSet.StringVar(&options.configPath, "config", "", "path to waymark.yaml (default: $"+config.EnvironmentVariable+", else built-in defaults)")
	flagSet.StringVar(&options.themePath, "theme", "", "TOML theme override (overrides paths.theme)")
	flagSet.StringVar(&options.stateDir, "state-dir", "", "directory for the persisted settings (overrides paths.state)")
	flagSet.StringVar(&options.signalsPath, "signals-file", "", "watched signal file (overrides paths.signals)")
	flagSet.StringVar(&options.logOutput, "log-output", "", "write JSON log records to this file (in addition to the status line)")
	flagSet.BoolVar(&options.reducedMotion, "reduced-motion", false, "force the reduced motion signal")
	flagSet.BoolVar(&options.highContrast, "high-contrast", false, "force the high contrast signal")
	flagSet.BoolP("help", "h", false, "show help")

	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print(os.Stdout, "waymark-gallery")
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	cfg, err := loadConfig(options)
	if err != nil {
		return err
	}
	if err := cfg.EnsurePaths(); err != nil {
		return err
	}
	policy, err := preference.ParsePolicy(cfg.Preferences.SignalPolicy)
	if err != nil {
		return err
	}

	commandLogger := newCommandLogger(cfg.LogLevel())
	baseTheme := tui.DefaultTheme
	if cfg.Paths.Theme != "" {
		baseTheme, err = tui.LoadThemeFile(cfg.Paths.Theme, tui.DefaultTheme)
		if err != nil {
			return fmt.Errorf("loading theme: %w", err)
		}
		if err := baseTheme.Validate(tui.ContrastAA); err != nil {
			commandLogger.Warn("theme has low contrast text", "theme", cfg.Paths.Theme, "error", err)
		}
	}

	dispatcher := schedule.NewDispatcher()
	tuiHandler := tui.NewLogHandler(slog.LevelWarn, dispatcher.Post)
	var logger *slog.Logger
	if options.logOutput != "" {
		fileHandler, closeFile, err := openFileLogHandler(options.logOutput, cfg.LogLevel())
		if err != nil {
			return fmt.Errorf("cannot open log file %s: %w", options.logOutput, err)
		}
		defer closeFile()
		logger = slog.New(fanoutHandler{tuiHandler, fileHandler})
	} else {
		logger = slog.New(tuiHandler)
	}

	scheduler := schedule.New(clock.Real(), dispatcher.Post)
	doc := document.New(document.NewPresentation(&baseTheme, nil))
	doc.Presentation().SetLocale(os.Getenv("LANG"))

	signals := []preference.Signals{flagSignals(flagSet, options)}
	var signalFile *preference.SignalFile
	if cfg.Paths.Signals != "" {
		signalFile = preference.NewSignalFile(cfg.Paths.Signals, logger)
		signals = append(signals, signalFile)
	}
	signals = append(signals, preference.NewEnvironmentSignals())

	store := preference.New(preference.Options{
		Storage:      kvstore.NewFile(cfg.Paths.State),
		Key:          cfg.Preferences.StorageKey,
		Signals:      preference.Chain(signals...),
		Presentation: doc.Presentation(),
		Policy:       policy,
		Logger:       logger,
	})

	if signalFile != nil {
		stop, err := signalFile.Watch(func(change preference.SignalChange) {
			dispatcher.Post(preference.SignalChangeMsg{Change: change})
		})
		if err != nil {
			commandLogger.Warn("signal file is not watched", "path", cfg.Paths.Signals, "error", err)
		} else {
			defer stop()
		}
	}

	announcer := announce.New(announce.Options{
		Scheduler:    scheduler,
		TTL:          cfg.Timing.AnnouncementTTL.Std(),
		Presentation: doc.Presentation(),
		Logger:       logger,
	})

	zones := zone.New()
	defer zones.Close()

	model := newPage(pageOptions{
		Config:    cfg,
		Store:     store,
		Document:  doc,
		Scheduler: scheduler,
		Announcer: announcer,
		Zones:     zones,
		Logger:    logger,
		Feed:      newStoryFeed(clock.Real(), storyLatency, 3),
	})
	defer model.Close()

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	dispatcher.SetProgram(program)

	logger.Debug("gallery started", "state", cfg.Paths.State, "signals", cfg.Paths.Signals, "policy", policy.String())
	_, err = program.Run()
	return err
}

// loadConfig reads --config, then $WAYMARK_CONFIG, then defaults, and
// applies the path flags.
func loadConfig(options flags) (*config.Config, error) {
	var cfg *config.Config
	var err error
	switch {
	case options.configPath != "":
		cfg, err = config.LoadFile(options.configPath)
	case os.Getenv(config.EnvironmentVariable) != "":
		cfg, err = config.Load()
	default:
		cfg = config.Default()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if options.themePath != "" {
		cfg.Paths.Theme = options.themePath
	}
	if options.stateDir != "" {
		cfg.Paths.State = filepath.Join(options.stateDir, "settings.kv")
	}
	if options.signalsPath != "" {
		cfg.Paths.Signals = options.signalsPath
	}
	return cfg, nil
}

// flagSignals turns explicitly given --reduced-motion and
// --high-contrast flags into signals that outrank every other source.
func flagSignals(flagSet *pflag.FlagSet, options flags) preference.FixedSignals {
	var signals preference.FixedSignals
	if flagSet.Changed("reduced-motion") {
		signals.Motion = &options.reducedMotion
	}
	if flagSet.Changed("high-contrast") {
		signals.Contrast = &options.highContrast
	}
	return signals
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Waymark gallery: an accessible travel planner in the terminal.

Every widget is keyboard operable. Tab and Shift+Tab move between
controls, arrow keys move inside tab lists and option lists, Enter and
Space activate, Escape closes. The mouse works too.

Preferences set in the Accessibility panel persist to the state file.
Reduced motion and high contrast follow the environment
(WAYMARK_REDUCED_MOTION, WAYMARK_HIGH_CONTRAST, NO_COLOR) and the
signal file, whose lines read "prefers-reduced-motion: reduce" and
"prefers-contrast: more".

Usage:
  waymark-gallery [flags]

Examples:
  # Run with built-in defaults
  waymark-gallery

  # Keep state in a scratch directory and watch a signal file
  waymark-gallery --state-dir /tmp/waymark --signals-file /tmp/waymark/signals

  # Start with animations off
  waymark-gallery --reduced-motion

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
