package cli

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/ideagraph/ideagraph/pkg/engine"
	"github.com/ideagraph/ideagraph/pkg/errors"
	"github.com/ideagraph/ideagraph/pkg/geom"
)

// Config is the on-disk CLI configuration, loaded from a TOML file. Every
// field is optional; zero values fall back to the engine defaults.
//
//	[canvas]
//	width = 1280
//	height = 800
//
//	[input]
//	drag_threshold = 5.0
//	click_timeout_ms = 500
//	double_click_timeout_ms = 400
//	wheel_zoom_step = 1.2
//	note_key = "n"
//	mac_modifiers = false
type Config struct {
	Canvas CanvasConfig `toml:"canvas"`
	Input  InputConfig  `toml:"input"`
}

// CanvasConfig sets the canvas pixel size for headless rendering and the
// terminal editor's world mapping.
type CanvasConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// InputConfig tunes the gesture classification thresholds.
type InputConfig struct {
	DragThreshold        float64 `toml:"drag_threshold"`
	ClickTimeoutMs       int     `toml:"click_timeout_ms"`
	DoubleClickTimeoutMs int     `toml:"double_click_timeout_ms"`
	WheelZoomStep        float64 `toml:"wheel_zoom_step"`
	NoteKey              string  `toml:"note_key"`
	MacModifiers         bool    `toml:"mac_modifiers"`
}

// defaultConfig returns the configuration used when no file is given.
func defaultConfig() Config {
	return Config{
		Canvas: CanvasConfig{Width: 1280, Height: 800},
	}
}

// loadConfig reads a TOML configuration file. An empty path returns the
// defaults. Failures carry [errors.ErrCodeInvalidConfig].
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Canvas.Width < 0 || c.Canvas.Height < 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"canvas size %gx%g must not be negative", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Input.DragThreshold < 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"drag_threshold %g must not be negative", c.Input.DragThreshold)
	}
	if c.Input.ClickTimeoutMs < 0 || c.Input.DoubleClickTimeoutMs < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "timeouts must not be negative")
	}
	if c.Input.WheelZoomStep != 0 && c.Input.WheelZoomStep <= 1 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"wheel_zoom_step %g must be greater than 1", c.Input.WheelZoomStep)
	}
	return nil
}

// engineConfig converts the file configuration into the engine's form.
// Zero-valued fields stay zero; the engine substitutes its own defaults.
func (c Config) engineConfig() engine.Config {
	return engine.Config{
		CanvasSize:         geom.Vec{X: c.Canvas.Width, Y: c.Canvas.Height},
		DragThreshold:      c.Input.DragThreshold,
		ClickTimeout:       time.Duration(c.Input.ClickTimeoutMs) * time.Millisecond,
		DoubleClickTimeout: time.Duration(c.Input.DoubleClickTimeoutMs) * time.Millisecond,
		WheelZoomStep:      c.Input.WheelZoomStep,
		NoteKey:            c.Input.NoteKey,
		MacModifiers:       c.Input.MacModifiers,
	}
}
