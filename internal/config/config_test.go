package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/san-kum/fibersim/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Prime != dynamo.DefaultPrime {
		t.Errorf("expected prime %d, got %d", dynamo.DefaultPrime, cfg.Prime)
	}
	if len(cfg.KValues) != 7 {
		t.Errorf("expected 7 K values, got %v", cfg.KValues)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}

	cfg.KValues[0] = 99
	if DefaultKValues[0] != 2 {
		t.Error("DefaultConfig must not share the K slice")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("theorem")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Steps != 60 {
		t.Errorf("expected 60 steps, got %d", cfg.Steps)
	}

	cfg.KValues[0] = 99
	if Presets["theorem"].KValues[0] != 2 {
		t.Error("GetPreset must return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for _, name := range presets {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fibersim.yaml")

	cfg := DefaultConfig()
	cfg.KValues = []int64{4, 7}
	cfg.Steps = 120
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Steps != 120 || len(loaded.KValues) != 2 || loaded.KValues[1] != 7 {
		t.Errorf("unexpected round trip: %+v", loaded)
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("FIBERSIM_PRIME", "101")
	t.Setenv("FIBERSIM_K_VALUES", "3,4,5")
	t.Setenv("FIBERSIM_STEPS", "30")

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}

	if cfg.Prime != 101 || cfg.Steps != 30 {
		t.Errorf("env not applied: %+v", cfg)
	}
	if len(cfg.KValues) != 3 || cfg.KValues[2] != 5 {
		t.Errorf("expected K values [3 4 5], got %v", cfg.KValues)
	}
	if cfg.Samples != DefaultSamples {
		t.Errorf("unset variable changed samples to %d", cfg.Samples)
	}
}

func TestApplyEnv_Invalid(t *testing.T) {
	t.Setenv("FIBERSIM_SAMPLES", "many")
	if err := DefaultConfig().ApplyEnv(); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		param  bool
	}{
		{"no K", func(c *Config) { c.KValues = nil }, false},
		{"zero samples", func(c *Config) { c.Samples = 0 }, false},
		{"negative steps", func(c *Config) { c.Steps = -1 }, false},
		{"negative workers", func(c *Config) { c.Workers = -2 }, false},
		{"composite prime", func(c *Config) { c.Prime = 1_000_000_011 }, true},
		{"K above prime", func(c *Config) { c.Prime = 7; c.KValues = []int64{4, 8} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.param != errors.Is(err, dynamo.ErrInvalidParameter) {
				t.Errorf("errors.Is(err, ErrInvalidParameter) = %v: %v", !tt.param, err)
			}
		})
	}
}

func TestParams(t *testing.T) {
	cfg := DefaultConfig()
	p := cfg.Params()
	if p.Prime != cfg.Prime || p.Samples != cfg.Samples || len(p.KValues) != len(cfg.KValues) {
		t.Errorf("unexpected params: %+v", p)
	}

	e := cfg.Experiment(5)
	if e.K != 5 || e.Steps != cfg.Steps {
		t.Errorf("unexpected experiment config: %+v", e)
	}
}
