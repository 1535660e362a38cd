package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/gridsoup/neural"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Grid.Size != 20 {
		t.Errorf("grid size = %d, want 20", cfg.Grid.Size)
	}
	if cfg.Derived.NumInputs != 17 {
		t.Errorf("NumInputs = %d, want 17", cfg.Derived.NumInputs)
	}
	if cfg.Derived.HiddenActivation != neural.ReLU {
		t.Errorf("HiddenActivation = %v, want relu", cfg.Derived.HiddenActivation)
	}
	if cfg.Population.Prey.MaxEnergy != cfg.Population.Prey.InitialEnergy {
		t.Errorf("prey max energy %v should default to initial %v",
			cfg.Population.Prey.MaxEnergy, cfg.Population.Prey.InitialEnergy)
	}
	if cfg.Genetics.MutationRate != 0.01 {
		t.Errorf("mutation rate = %v, want 0.01", cfg.Genetics.MutationRate)
	}
}

func TestDerivedSpawnRegions(t *testing.T) {
	cfg := Default()

	if got, want := cfg.Derived.PredatorSpawn, (Region{MinX: 0, MaxX: 5, MinY: 0, MaxY: 5}); got != want {
		t.Errorf("PredatorSpawn = %+v, want %+v", got, want)
	}
	if got, want := cfg.Derived.PreySpawn, (Region{MinX: 15, MaxX: 19, MinY: 15, MaxY: 19}); got != want {
		t.Errorf("PreySpawn = %+v, want %+v", got, want)
	}
	if !cfg.Derived.PreySpawn.Contains(19, 15) || cfg.Derived.PreySpawn.Contains(14, 15) {
		t.Error("Region.Contains disagrees with inclusive bounds")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(c *Config)
	}{
		{"too many items", func(c *Config) { c.Food.Count = 400 }},
		{"zero grid", func(c *Config) { c.Grid.Size = 0 }},
		{"zero layer", func(c *Config) { c.Neural.HiddenLayers = []int{5, 0} }},
		{"unknown activation", func(c *Config) { c.Neural.HiddenActivation = "softplus" }},
		{"speed above one", func(c *Config) { c.Population.Prey.Speed = 1.5 }},
		{"negative cost", func(c *Config) { c.Population.Predator.MoveCost = -1 }},
		{"max below initial", func(c *Config) { c.Population.Prey.MaxEnergy = 10 }},
		{"zero sectors", func(c *Config) { c.Sensors.NumSectors = 0 }},
		{"three outputs", func(c *Config) { c.Neural.NumOutputs = 3 }},
		{"inverted spawn", func(c *Config) { c.Population.Prey.Spawn.MinX = 0.9; c.Population.Prey.Spawn.MaxX = 0.1 }},
		{"mutation rate", func(c *Config) { c.Genetics.MutationRate = 2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.edit(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("grid:\n  size: 30\npopulation:\n  prey:\n    count: 15\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Grid.Size != 30 || cfg.Population.Prey.Count != 15 {
		t.Errorf("overrides not applied: size=%d prey=%d", cfg.Grid.Size, cfg.Population.Prey.Count)
	}
	if cfg.Population.Predator.Count != 10 {
		t.Errorf("untouched field changed: predators=%d", cfg.Population.Predator.Count)
	}
	if cfg.Derived.PreySpawn.MaxX != 29 {
		t.Errorf("derived regions not recomputed: %+v", cfg.Derived.PreySpawn)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("grid:\n  size: -3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalid) {
		t.Errorf("Load = %v, want ErrInvalid", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load of missing file succeeded")
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg := Default()
	cfg.Population.Predator.Gain = 21
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.Population.Predator.Gain != 21 {
		t.Errorf("gain = %v after roundtrip, want 21", back.Population.Predator.Gain)
	}
}
