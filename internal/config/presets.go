package config

import (
	"sort"

	"github.com/san-kum/fibersim/internal/dynamo"
)

var Presets = map[string]*Config{
	"theorem": {
		Prime: dynamo.DefaultPrime, KValues: []int64{2, 3, 4, 5, 6, 8, 16},
		Samples: 100_000, Steps: 60, Seed: DefaultSeed,
	},
	"persistence": {
		Prime: dynamo.DefaultPrime, KValues: []int64{2, 3, 4, 5, 6, 8},
		Samples: 100_000, Steps: 200, Seed: DefaultSeed,
	},
	"trajectory": {
		Prime: dynamo.DefaultPrime, KValues: []int64{4, 5},
		Samples: 1000, Steps: 100, Seed: DefaultSeed,
	},
	"deep": {
		Prime: dynamo.DefaultPrime, KValues: []int64{3, 4, 5},
		Samples: 1_000_000, Steps: 600, Seed: DefaultSeed,
	},
	"small-prime": {
		Prime: 7919, KValues: []int64{2, 3, 4, 5, 6, 8},
		Samples: 2000, Steps: 90, Seed: DefaultSeed,
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	cfg.KValues = append([]int64(nil), p.KValues...)
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutput
	}
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
