package config

import (
	"go.uber.org/multierr"

	"github.com/wippyai/wasm96/audio"
	"github.com/wippyai/wasm96/errors"
)

// Limits enforced by Validate
const (
	maxDimension = 4096
	maxScale     = 16
)

func invalid(field string, value any, msg string) error {
	return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
		Path(field).
		Value(value).
		Detail("%s", msg).
		Build()
}

// Validate reports every invalid field, combined into one error
func (c *Config) Validate() error {
	var err error
	if c.Video.Width <= 0 || c.Video.Width > maxDimension {
		err = multierr.Append(err, invalid("video.width", c.Video.Width, "must be in 1..4096"))
	}
	if c.Video.Height <= 0 || c.Video.Height > maxDimension {
		err = multierr.Append(err, invalid("video.height", c.Video.Height, "must be in 1..4096"))
	}
	if c.Video.Scale < 1 || c.Video.Scale > maxScale {
		err = multierr.Append(err, invalid("video.scale", c.Video.Scale, "must be in 1..16"))
	}
	if !audio.ValidRate(c.Audio.SampleRate) {
		err = multierr.Append(err, invalid("audio.sample_rate", c.Audio.SampleRate, "must be in 8000..192000"))
	}
	if c.Audio.TargetFPS <= 0 {
		err = multierr.Append(err, invalid("audio.target_fps", c.Audio.TargetFPS, "must be positive"))
	}
	if c.Render.Backend != "software" {
		err = multierr.Append(err, invalid("render.backend", c.Render.Backend, "only software is available"))
	}
	switch c.Storage.Driver {
	case "memory":
	case "sqlite":
		if c.Storage.Path == "" {
			err = multierr.Append(err, invalid("storage.path", c.Storage.Path, "required for sqlite"))
		}
	default:
		err = multierr.Append(err, invalid("storage.driver", c.Storage.Driver, "must be memory or sqlite"))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		err = multierr.Append(err, invalid("log.level", c.Log.Level, "must be debug, info, warn or error"))
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		err = multierr.Append(err, invalid("log.format", c.Log.Format, "must be json or console"))
	}
	if c.Tracing.Exporter != "stdout" && c.Tracing.Exporter != "noop" && c.Tracing.Exporter != "" {
		err = multierr.Append(err, invalid("tracing.exporter", c.Tracing.Exporter, "must be stdout or noop"))
	}
	if c.Frontend.FPS <= 0 {
		err = multierr.Append(err, invalid("frontend.fps", c.Frontend.FPS, "must be positive"))
	}
	if c.Frontend.Frames < 0 {
		err = multierr.Append(err, invalid("frontend.frames", c.Frontend.Frames, "must not be negative"))
	}
	return err
}
