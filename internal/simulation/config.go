// Package simulation provides configuration for the light simulation.
// Settings are loaded from data files so each scene can tune its own lights.
package simulation

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"chosenoffset.com/lightcaster/internal/core/visibility"
)

// ErrInvalidConfig is returned by Validate for out-of-range settings.
var ErrInvalidConfig = errors.New("invalid lighting config")

// Config holds all lighting rules
type Config struct {
	// Ray sampling
	Sampling SamplingConfig `json:"sampling"`

	// Mesh shading
	Mesh MeshConfig `json:"mesh"`

	// Per-tick scheduling
	Schedule ScheduleConfig `json:"schedule"`

	// Debug overlays
	Debug DebugConfig `json:"debug"`
}

// SamplingConfig defines how visibility rays are cast
type SamplingConfig struct {
	RayCount       int     `json:"ray_count"`       // Rays over the full turn
	Range          float64 `json:"range"`           // Maximum ray length in pixels
	SkipFactor     int     `json:"skip_factor"`     // Misses merged into one boundary point
	IterationCount int     `json:"iteration_count"` // Bisection steps per discontinuity
	CurveSamples   int     `json:"curve_samples"`   // Curve vertices per discontinuity (0 = 1)
	Tilt           float64 `json:"tilt"`            // Angular tilt, unused by the scan
}

// MeshConfig defines how the fan mesh is shaded
type MeshConfig struct {
	UVRange float64 `json:"uv_range"` // Distance mapped to UV offset 1.0
}

// ScheduleConfig defines how often lights are recomputed
type ScheduleConfig struct {
	Throttle int `json:"throttle"` // Recompute every N ticks (0 or 1 = every tick)
}

// DebugConfig toggles diagnostic output
type DebugConfig struct {
	TraceRays bool `json:"trace_rays"` // Draw every cast ray
	LogStats  bool `json:"log_stats"`  // Log vertex and cast counts each pass
}

// DefaultConfig returns settings that work for 40px tile scenes
func DefaultConfig() *Config {
	return &Config{
		Sampling: SamplingConfig{
			RayCount:       360,
			Range:          300,
			SkipFactor:     6,
			IterationCount: 6,
			CurveSamples:   0,
			Tilt:           0,
		},
		Mesh: MeshConfig{
			UVRange: 500,
		},
		Schedule: ScheduleConfig{
			Throttle: 1,
		},
		Debug: DebugConfig{
			TraceRays: false,
			LogStats:  false,
		},
	}
}

// LoadConfig loads lighting config from a JSON file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		// Return defaults if file doesn't exist
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read lighting config: %w", err)
	}

	config := DefaultConfig() // Start with defaults
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse lighting config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects settings the sampler or mesher cannot run with
func (c *Config) Validate() error {
	if err := c.Visibility().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if !(c.Mesh.UVRange > 0) {
		return fmt.Errorf("%w: uv range must be positive, got %v", ErrInvalidConfig, c.Mesh.UVRange)
	}
	if c.Schedule.Throttle < 0 {
		return fmt.Errorf("%w: throttle must not be negative, got %d", ErrInvalidConfig, c.Schedule.Throttle)
	}
	return nil
}

// Visibility converts the sampling settings into a sampler config
func (c *Config) Visibility() visibility.Config {
	return visibility.Config{
		RayCount:       c.Sampling.RayCount,
		Range:          c.Sampling.Range,
		SkipFactor:     c.Sampling.SkipFactor,
		IterationCount: c.Sampling.IterationCount,
		CurveSamples:   c.Sampling.CurveSamples,
		Tilt:           c.Sampling.Tilt,
	}
}

// ThrottleTicks returns how many ticks pass between recomputations
func (c *Config) ThrottleTicks() int {
	if c.Schedule.Throttle < 1 {
		return 1
	}
	return c.Schedule.Throttle
}
