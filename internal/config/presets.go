package config

import "sort"

// Presets are named starting points covering all three damping regimes.
var Presets = map[string]*Config{
	"gentle": {
		Mass: 1.0, Stiffness: 1.0, Damping: 0.2, X0: 1.0, V0: 0.0,
		Duration: 30, Samples: DefaultSamples, DataDir: DefaultDataDir,
	},
	"ringing": {
		Mass: 1.0, Stiffness: 16.0, Damping: 0.4, X0: 1.0, V0: 0.0,
		Duration: 20, Samples: DefaultSamples, DataDir: DefaultDataDir,
	},
	"kicked": {
		Mass: 1.0, Stiffness: 4.0, Damping: 0.5, X0: 0.0, V0: 5.0,
		Duration: 20, Samples: DefaultSamples, DataDir: DefaultDataDir,
	},
	"critical": {
		Mass: 1.0, Stiffness: 1.0, Damping: 2.0, X0: 1.0, V0: 0.0,
		Duration: 10, Samples: DefaultSamples, DataDir: DefaultDataDir,
	},
	"sluggish": {
		Mass: 1.0, Stiffness: 1.0, Damping: 6.0, X0: 1.0, V0: 0.0,
		Duration: 30, Samples: DefaultSamples, DataDir: DefaultDataDir,
	},
	"heavy": {
		Mass: 8.0, Stiffness: 2.0, Damping: 18.0, X0: 2.0, V0: 0.0,
		Duration: 30, Samples: DefaultSamples, DataDir: DefaultDataDir,
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	out := *cfg
	return &out
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
