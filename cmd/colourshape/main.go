package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/nowakf/colour-to-shape/internal/app"
	"github.com/nowakf/colour-to-shape/internal/capture"
	"github.com/nowakf/colour-to-shape/internal/config"
	"github.com/nowakf/colour-to-shape/internal/input"
	"github.com/nowakf/colour-to-shape/internal/render"
	"github.com/nowakf/colour-to-shape/internal/store"
	"github.com/nowakf/colour-to-shape/internal/tray"
)

func main() {
	// highgui must be driven from the thread that created the window.
	runtime.LockOSThread()

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "colourshape:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	// Parse once to find the config file, then again so flags override it.
	pre := flag.NewFlagSet("colourshape", flag.ContinueOnError)
	pre.SetOutput(io.Discard)
	configPath := pre.String("config", defaultConfigPath(), "YAML configuration file")
	config.Default().RegisterFlags(pre)
	_ = pre.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("colourshape", flag.ContinueOnError)
	fs.String("config", *configPath, "YAML configuration file")
	cfg.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	policy, _ := cfg.Policy()
	quitKeys, _ := cfg.QuitKeyCodes()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var st *store.Store
	if cfg.DBPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			return err
		}
		if st, err = store.New(cfg.DBPath); err != nil {
			return err
		}
		defer st.Close()
		logger.Info("store opened", "path", st.Path())
	}

	display := render.OpenDisplay(render.WindowName)
	defer display.Close()

	var latch input.Latch
	var onHue func(uint8, int, int)
	if cfg.Tray {
		t := tray.New()
		t.OnNext(latch.RequestAdvance)
		t.OnQuit(latch.RequestQuit)
		onHue = t.SetHue
		go t.Run()
		defer t.Quit()
	}

	a, err := app.New(app.Config{
		Camera:     capture.NewCamera(capture.DefaultDeviceID),
		Display:    display,
		Input:      input.Multi(input.NewKeySource(display, quitKeys...), &latch),
		Discoverer: cfg.Discoverer(),
		Policy:     policy,
		Store:      st,
		Profile:    cfg.Profile,
		Logger:     logger,
		OnHue:      onHue,
	})
	if err != nil {
		return err
	}
	defer a.Close()

	logger.Info("starting",
		"device", capture.DefaultDeviceID,
		"calibration", cfg.Calibration,
		"quit_keys", cfg.QuitKeys,
		"tray", cfg.Tray)
	return a.Run(ctx)
}

// newLogger returns a structured slog.Logger for the configured level and format.
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
}

// defaultConfigPath returns ~/.colourshape/config.yaml, or "" without a home directory.
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".colourshape", "config.yaml")
}
