package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/wasm96/errors"
)

// DefaultFile is the configuration file name looked up by the CLI
const DefaultFile = "wasm96.yaml"

// Config is the top-level runtime configuration
type Config struct {
	Engine   EngineConfig   `yaml:"engine"`
	Video    VideoConfig    `yaml:"video"`
	Audio    AudioConfig    `yaml:"audio"`
	Render   RenderConfig   `yaml:"render"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
	Tracing  TracingConfig  `yaml:"tracing"`
	Frontend FrontendConfig `yaml:"frontend"`
}

// EngineConfig tunes the wazero runtime
type EngineConfig struct {
	MemoryLimitPages   uint32 `yaml:"memory_limit_pages"` // 0 = wazero default
	CloseOnContextDone bool   `yaml:"close_on_context_done"`
	EnableWASI         bool   `yaml:"enable_wasi"`
}

// VideoConfig sets the initial framebuffer
type VideoConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Scale  int `yaml:"scale"` // screenshot upscale factor
}

type AudioConfig struct {
	SampleRate uint32 `yaml:"sample_rate"`
	TargetFPS  int    `yaml:"target_fps"`
}

type RenderConfig struct {
	Backend string `yaml:"backend"` // "software"
}

type StorageConfig struct {
	Driver string `yaml:"driver"` // memory | sqlite
	Path   string `yaml:"path"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // json | console
}

type TracingConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"` // stdout | noop
}

// FrontendConfig drives the CLI frontends
type FrontendConfig struct {
	FPS        int    `yaml:"fps"`
	Frames     int    `yaml:"frames"`     // headless frame count
	Screenshot string `yaml:"screenshot"` // headless PNG output, empty = none
}

// Defaults returns the built-in configuration
func Defaults() *Config {
	return &Config{
		Video:    VideoConfig{Width: 320, Height: 240, Scale: 1},
		Audio:    AudioConfig{SampleRate: 44100, TargetFPS: 60},
		Render:   RenderConfig{Backend: "software"},
		Storage:  StorageConfig{Driver: "memory", Path: "wasm96.db"},
		Log:      LogConfig{Level: "info", Format: "console"},
		Tracing:  TracingConfig{Exporter: "noop"},
		Frontend: FrontendConfig{FPS: 60, Frames: 60},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, cfg.Validate()
		}
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "read "+path)
	}
	if err := Parse(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse merges YAML data into cfg. Keys absent from data keep their value.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidData, err, "parse yaml")
	}
	return nil
}
