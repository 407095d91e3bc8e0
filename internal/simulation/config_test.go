package simulation

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"chosenoffset.com/lightcaster/internal/core/visibility"
)

func TestDefaultConfigIsValid(t *testing.T) {
	config := DefaultConfig()
	if err := config.Validate(); err != nil {
		t.Fatalf("Expected default config to be valid, got %v", err)
	}
	if config.ThrottleTicks() != 1 {
		t.Errorf("Expected throttle 1, got %d", config.ThrottleTicks())
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("Expected defaults for a missing file, got %v", err)
	}
	if config.Sampling.RayCount != DefaultConfig().Sampling.RayCount {
		t.Errorf("Expected default ray count %d, got %d", DefaultConfig().Sampling.RayCount, config.Sampling.RayCount)
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lighting.json")
	data := `{
		"sampling": {"ray_count": 90, "skip_factor": 2},
		"debug": {"trace_rays": true}
	}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.Sampling.RayCount != 90 {
		t.Errorf("Expected ray count 90, got %d", config.Sampling.RayCount)
	}
	if config.Sampling.SkipFactor != 2 {
		t.Errorf("Expected skip factor 2, got %d", config.Sampling.SkipFactor)
	}
	// Unset fields keep their defaults.
	if config.Sampling.Range != DefaultConfig().Sampling.Range {
		t.Errorf("Expected default range %v, got %v", DefaultConfig().Sampling.Range, config.Sampling.Range)
	}
	if !config.Debug.TraceRays {
		t.Error("Expected trace_rays to be enabled")
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"zero rays", `{"sampling": {"ray_count": 0}}`},
		{"negative range", `{"sampling": {"range": -1}}`},
		{"negative skip", `{"sampling": {"skip_factor": -3}}`},
		{"zero uv range", `{"mesh": {"uv_range": 0}}`},
		{"negative throttle", `{"schedule": {"throttle": -2}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "lighting.json")
			if err := os.WriteFile(path, []byte(tt.json), 0o644); err != nil {
				t.Fatalf("Failed to write config: %v", err)
			}
			_, err := LoadConfig(path)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestValidateWrapsSamplerError(t *testing.T) {
	config := DefaultConfig()
	config.Sampling.RayCount = -1
	err := config.Validate()
	if !errors.Is(err, visibility.ErrInvalidConfig) {
		t.Errorf("Expected the sampler error to be wrapped, got %v", err)
	}
}

func TestLoadConfigBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lighting.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected a parse error")
	}
}

func TestVisibilityConversion(t *testing.T) {
	config := DefaultConfig()
	v := config.Visibility()
	if v.RayCount != config.Sampling.RayCount || v.Range != config.Sampling.Range ||
		v.SkipFactor != config.Sampling.SkipFactor || v.IterationCount != config.Sampling.IterationCount {
		t.Errorf("Expected sampler config to mirror sampling settings, got %+v", v)
	}
}
