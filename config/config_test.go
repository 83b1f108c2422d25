package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/multierr"

	"github.com/wippyai/wasm96/errors"
)

func TestDefaults_Valid(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if cfg.Video.Width != 320 || cfg.Video.Height != 240 {
		t.Errorf("video = %dx%d", cfg.Video.Width, cfg.Video.Height)
	}
	if cfg.Audio.SampleRate != 44100 {
		t.Errorf("sample rate = %d", cfg.Audio.SampleRate)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Driver != "memory" {
		t.Errorf("driver = %q", cfg.Storage.Driver)
	}
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	data := []byte(`
video:
  width: 160
storage:
  driver: sqlite
  path: /tmp/save.db
log:
  level: debug
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Video.Width != 160 || cfg.Video.Height != 240 {
		t.Errorf("video = %dx%d, want 160x240", cfg.Video.Width, cfg.Video.Height)
	}
	if cfg.Storage.Driver != "sqlite" || cfg.Storage.Path != "/tmp/save.db" {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "console" {
		t.Errorf("log = %+v", cfg.Log)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	if err := os.WriteFile(path, []byte("video: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseConfig, Kind: errors.KindInvalidData}) {
		t.Fatalf("got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errs   int
	}{
		{"zero width", func(c *Config) { c.Video.Width = 0 }, 1},
		{"huge height", func(c *Config) { c.Video.Height = 5000 }, 1},
		{"bad scale", func(c *Config) { c.Video.Scale = 0 }, 1},
		{"low sample rate", func(c *Config) { c.Audio.SampleRate = 100 }, 1},
		{"gpu backend", func(c *Config) { c.Render.Backend = "gl" }, 1},
		{"sqlite without path", func(c *Config) { c.Storage = StorageConfig{Driver: "sqlite"} }, 1},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "redis" }, 1},
		{"log", func(c *Config) { c.Log = LogConfig{Level: "trace", Format: "xml"} }, 2},
		{"exporter", func(c *Config) { c.Tracing.Exporter = "jaeger" }, 1},
		{"frontend", func(c *Config) { c.Frontend = FrontendConfig{FPS: 0, Frames: -1} }, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Defaults()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if n := len(multierr.Errors(err)); n != tc.errs {
				t.Errorf("got %d errors, want %d: %v", n, tc.errs, err)
			}
			if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseConfig, Kind: errors.KindInvalidInput}) {
				t.Errorf("not a config error: %v", err)
			}
		})
	}
}
