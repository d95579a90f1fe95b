package config

import "sort"

func seed(s uint64) *uint64 { return &s }

var Presets = map[string]*Config{
	"quick": {
		Fn: "linsum", Dim: 1, N: 10000, Seed: seed(0), Trials: 1,
	},
	"accurate": {
		Fn: "linsum", Dim: 1, N: 2000000, Seed: seed(0), Trials: 1,
	},
	"ball3": {
		Fn: "ball", Dim: 3, N: 500000, Seed: seed(0), Trials: 1,
	},
	"gauss5": {
		Fn: "gauss", Dim: 5, N: 1000000, Seed: seed(0), Trials: 1,
	},
	"f32": {
		Fn: "prodcos", Dim: 2, N: 100000, Seed: seed(0), DType: "float32", Trials: 1,
	},
	"jit-graph": {
		Fn: "gauss", Dim: 3, N: 200000, Seed: seed(0), Backend: "graph", JIT: true, Trials: 1,
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
