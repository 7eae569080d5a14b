package config

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/san-kum/testparticle/internal/dynamo"
	"github.com/san-kum/testparticle/internal/field"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Profile != "gyration" {
		t.Errorf("expected profile gyration, got %s", cfg.Profile)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Steps < 1 {
		t.Error("steps should be at least 1")
	}

	p, err := cfg.Params()
	require.NoError(t, err)
	require.Equal(t, dynamo.DefaultParams().Charge, p.Charge)
	require.Equal(t, field.SimpleGyration, p.Profile)
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Dt = 0.02
	cfg.Profile = "exb"
	cfg.Velocity = Vec{0.5, 0.5, 0}
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
	require.Equal(t, 0.5, loaded.InitialState().Velocity.X)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dt: 0.05\nprofile: \"3\"\nposition: [0, 2, 0]\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 0.05, cfg.Dt)
	require.Equal(t, DefaultSteps, cfg.Steps)
	require.Equal(t, Vec{0, 2, 0}, cfg.Position)

	p, err := cfg.Params()
	require.NoError(t, err)
	require.Equal(t, field.GradientDrift, p.Profile)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dt: [oops\n"), 0644))
	_, err = Load(path)
	require.Error(t, err)
}

func TestParamsRejects(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"zero steps", func(c *Config) { c.Steps = 0 }},
		{"unknown profile", func(c *Config) { c.Profile = "dipole" }},
		{"zero mass", func(c *Config) { c.Mass = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			_, err := cfg.Params()
			if !errors.Is(err, dynamo.ErrConfiguration) {
				t.Errorf("expected ErrConfiguration, got %v", err)
			}
		})
	}
}

func TestCustomProfileDefersValidation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Profile = "custom"
	p, err := cfg.Params()
	require.NoError(t, err)
	require.Equal(t, field.Custom, p.Profile)
	require.ErrorIs(t, p.Validate(), dynamo.ErrConfiguration)
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("gyration", "circle")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Velocity != (Vec{0, 1, 0}) {
		t.Errorf("unexpected velocity %v", cfg.Velocity)
	}

	cfg.Dt = 99
	if GetPreset("gyration", "circle").Dt == 99 {
		t.Error("GetPreset must return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("gyration", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "circle") != nil {
		t.Error("expected nil for nonexistent profile")
	}
}

func TestPresetsAreValid(t *testing.T) {
	for profile := range Presets {
		names := ListPresets(profile)
		sort.Strings(names)
		for _, name := range names {
			_, err := GetPreset(profile, name).Params()
			require.NoError(t, err, "%s/%s", profile, name)
		}
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent profile")
	}
}
