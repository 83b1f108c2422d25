// Command wasm96 runs a wasm96 guest headless, interactively in a
// terminal, or lists its imports and exports.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zapio"

	"github.com/wippyai/wasm96/config"
	"github.com/wippyai/wasm96/core"
	"github.com/wippyai/wasm96/engine"
	"github.com/wippyai/wasm96/errors"
	"github.com/wippyai/wasm96/state"
	"github.com/wippyai/wasm96/storage"
	"github.com/wippyai/wasm96/telemetry"
)

const usage = `Usage: wasm96 -wasm <guest.wasm> [-frames N] [-screenshot out.png]
       wasm96 -wasm <guest.wasm> -list
       wasm96 -wasm <guest.wasm> -i  (interactive mode)

Flags:
`

type options struct {
	wasm        string
	configFile  string
	list        bool
	interactive bool
	logFile     string

	// overrides; zero values keep the config file
	frames      int
	fps         int
	screenshot  string
	scale       int
	logLevel    string
	storage     string
	storagePath string
	trace       bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if err != flag.ErrHelp {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	var o options
	fs := flag.NewFlagSet("wasm96", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	fs.StringVar(&o.wasm, "wasm", "", "Path to guest wasm file")
	fs.StringVar(&o.configFile, "config", config.DefaultFile, "Configuration file")
	fs.BoolVar(&o.list, "list", false, "List imports and exports and exit")
	fs.BoolVar(&o.interactive, "i", false, "Interactive mode with TUI")
	fs.StringVar(&o.logFile, "log-file", "wasm96.log", "Log file used in interactive mode")
	fs.IntVar(&o.frames, "frames", 0, "Frames to run headless")
	fs.IntVar(&o.fps, "fps", 0, "Frame rate, -1 runs headless frames unpaced")
	fs.StringVar(&o.screenshot, "screenshot", "", "Write the last headless frame as PNG")
	fs.IntVar(&o.scale, "scale", 0, "Screenshot upscale factor")
	fs.StringVar(&o.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&o.storage, "storage", "", "Storage driver (memory, sqlite)")
	fs.StringVar(&o.storagePath, "storage-path", "", "SQLite database path")
	fs.BoolVar(&o.trace, "trace", false, "Export traces to stdout")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.wasm == "" {
		fs.Usage()
		return nil, flag.ErrHelp
	}
	return &o, nil
}

// loadConfig reads the configuration file and applies flag overrides
func loadConfig(o *options) (*config.Config, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, err
	}
	if o.frames > 0 {
		cfg.Frontend.Frames = o.frames
	}
	if o.fps > 0 {
		cfg.Frontend.FPS = o.fps
	}
	if o.screenshot != "" {
		cfg.Frontend.Screenshot = o.screenshot
	}
	if o.scale > 0 {
		cfg.Video.Scale = o.scale
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.storage != "" {
		cfg.Storage.Driver = o.storage
	}
	if o.storagePath != "" {
		cfg.Storage.Path = o.storagePath
	}
	if o.trace {
		cfg.Tracing = config.TracingConfig{Enabled: true, Exporter: "stdout"}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) (err error) {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(o.wasm)
	if err != nil {
		return errors.Wrap(errors.PhaseLoad, errors.KindNotFound, err, "read "+o.wasm)
	}
	if o.list {
		unresolved, err := describe(stdout, filepath.Base(o.wasm), data)
		if err != nil {
			return err
		}
		if unresolved > 0 {
			return errors.New(errors.PhaseValidate, errors.KindMissingImport).
				Detail("%d unresolved imports or exports", unresolved).
				Build()
		}
		return nil
	}

	cfg, err := loadConfig(o)
	if err != nil {
		return err
	}
	logFile := ""
	if o.interactive {
		logFile = o.logFile
	}
	logger, err := newLogger(cfg.Log, logFile)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	core.SetLogger(logger)

	shutdown, err := telemetry.Setup(cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, shutdown(context.Background())) }()

	store, err := storage.Open(cfg.Storage.Driver, cfg.Storage.Path)
	if err != nil {
		return err
	}
	guestOut := &zapio.Writer{Log: logger.Named("guest"), Level: zapcore.InfoLevel}
	guestErr := &zapio.Writer{Log: logger.Named("guest"), Level: zapcore.WarnLevel}
	defer guestOut.Close()
	defer guestErr.Close()

	rt, err := core.New(ctx, core.Options{
		Engine: engine.Config{
			Stdout:             guestOut,
			Stderr:             guestErr,
			MemoryLimitPages:   cfg.Engine.MemoryLimitPages,
			CloseOnContextDone: cfg.Engine.CloseOnContextDone,
			EnableWASI:         cfg.Engine.EnableWASI,
		},
		State: state.Options{
			Storage:    store,
			Width:      cfg.Video.Width,
			Height:     cfg.Video.Height,
			SampleRate: cfg.Audio.SampleRate,
		},
	})
	if err != nil {
		return multierr.Append(err, store.Close())
	}
	defer func() { err = multierr.Append(err, rt.Close(context.Background())) }()

	if err := rt.Load(ctx, data); err != nil {
		return err
	}
	logger.Info("guest loaded",
		zap.String("guest", o.wasm),
		zap.String("session", rt.Session()))

	if o.interactive {
		return runInteractive(rt, filepath.Base(o.wasm), cfg.Frontend.FPS)
	}

	fps := cfg.Frontend.FPS
	if o.fps < 0 {
		fps = 0
	}
	fe, err := runHeadless(ctx, rt, cfg.Frontend.Frames, fps)
	if err != nil {
		return err
	}
	fe.report(stdout)
	if cfg.Frontend.Screenshot != "" && fe.frames > 0 {
		if err := writeScreenshot(cfg.Frontend.Screenshot, fe.last, cfg.Video.Scale); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "screenshot: %s\n", cfg.Frontend.Screenshot)
	}
	return nil
}
