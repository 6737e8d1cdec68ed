package config

import "sort"

// Materials are the fabric presets offered by the simulator.
var Materials = map[string]MaterialConfig{
	"cotton":    {K0: 200000, KV: 20, DotSize: 0.2, Size: 10, Spacing: 0.8},
	"wool":      {K0: 200000, KV: 40, DotSize: 0.4, Size: 8, Spacing: 0.8},
	"silk":      {K0: 20000, KV: 200, DotSize: 0.1, Size: 20, Spacing: 0.4},
	"polyester": {K0: 400000, KV: 20, DotSize: 0.2, Size: 10, Spacing: 0.8},
}

// GetMaterial returns the named preset, falling back to cotton.
func GetMaterial(name string) MaterialConfig {
	if m, ok := Materials[name]; ok {
		return m
	}
	return Materials[DefaultMaterial]
}

// GetPreset returns a default config for the named material, or nil.
func GetPreset(name string) *Config {
	if _, ok := Materials[name]; !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Material = name
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Materials))
	for name := range Materials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
