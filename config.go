package scrollfx

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	defaultSmoothing       = 0.08
	defaultWheelMultiplier = 1.0
	defaultTouchMultiplier = 1.5
	defaultEpsilon         = 0.1
	defaultMaxStepMs       = 100.0
	defaultFrameMs         = 1000.0 / 60.0
)

// Config holds the smooth scroll options recognized by Engine.Start.
type Config struct {
	// Smoothing is the fraction of the remaining distance covered per
	// reference frame. Must be in (0, 1).
	Smoothing float64 `yaml:"smoothing"`
	// WheelMultiplier scales wheel deltas.
	WheelMultiplier float64 `yaml:"wheelMultiplier"`
	// TouchMultiplier scales touch drag deltas.
	TouchMultiplier float64 `yaml:"touchMultiplier"`
	// Orientation selects the scroll axis.
	Orientation Orientation `yaml:"orientation"`
	// Infinite lifts the upper bound on the scroll position.
	Infinite bool `yaml:"infinite"`

	// Epsilon is the distance below which the position snaps to its target.
	Epsilon float64 `yaml:"epsilon"`
	// MaxStepMs caps the delta used for one smoothing step so a tick after a
	// long stall does not jump straight to the target.
	MaxStepMs float64 `yaml:"maxStepMs"`
	// FrameMs is the reference frame duration Smoothing is expressed in.
	FrameMs float64 `yaml:"frameMs"`
}

// DefaultConfig returns the stock settings: smoothing 0.08,
// wheel x1, touch x1.5, vertical, bounded.
func DefaultConfig() Config {
	return Config{
		Smoothing:       defaultSmoothing,
		WheelMultiplier: defaultWheelMultiplier,
		TouchMultiplier: defaultTouchMultiplier,
		Orientation:     OrientationVertical,
		Epsilon:         defaultEpsilon,
		MaxStepMs:       defaultMaxStepMs,
		FrameMs:         defaultFrameMs,
	}
}

// Validate reports the first invalid field as a *ConfigurationError.
func (c Config) Validate() error {
	if math.IsNaN(c.Smoothing) || c.Smoothing <= 0 || c.Smoothing >= 1 {
		return &ConfigurationError{Field: "smoothing", Reason: fmt.Sprintf("%v not in (0, 1)", c.Smoothing)}
	}
	if !finite(c.WheelMultiplier) {
		return &ConfigurationError{Field: "wheelMultiplier", Reason: "must be finite"}
	}
	if !finite(c.TouchMultiplier) {
		return &ConfigurationError{Field: "touchMultiplier", Reason: "must be finite"}
	}
	if c.Orientation > OrientationHorizontal {
		return &ConfigurationError{Field: "orientation", Reason: fmt.Sprintf("unknown value %d", c.Orientation)}
	}
	if !finite(c.Epsilon) || c.Epsilon < 0 {
		return &ConfigurationError{Field: "epsilon", Reason: "must be finite and >= 0"}
	}
	if !finite(c.MaxStepMs) || c.MaxStepMs <= 0 {
		return &ConfigurationError{Field: "maxStepMs", Reason: "must be finite and > 0"}
	}
	if !finite(c.FrameMs) || c.FrameMs <= 0 {
		return &ConfigurationError{Field: "frameMs", Reason: "must be finite and > 0"}
	}
	return nil
}

// LoadConfig parses YAML into a Config. Keys that are absent keep their
// DefaultConfig values. The result is validated.
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads and parses a YAML config file.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return LoadConfig(data)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
