// Package main provides CMA-ES optimization for grid simulation parameters.
package main

import (
	"github.com/pthm-cable/gridsoup/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Energy - Prey
			{Name: "prey_initial_energy", Path: "population.prey.initial_energy", Min: 40, Max: 200, Default: 100},
			{Name: "prey_move_cost", Path: "population.prey.move_cost", Min: 0.5, Max: 6, Default: 2},
			{Name: "prey_idle_cost", Path: "population.prey.idle_cost", Min: 0.1, Max: 2, Default: 0.5},
			{Name: "prey_gain", Path: "population.prey.gain", Min: 2, Max: 30, Default: 10},
			// Energy - Predator
			{Name: "pred_initial_energy", Path: "population.predator.initial_energy", Min: 40, Max: 200, Default: 100},
			{Name: "pred_move_cost", Path: "population.predator.move_cost", Min: 0.5, Max: 6, Default: 3},
			{Name: "pred_idle_cost", Path: "population.predator.idle_cost", Min: 0.1, Max: 2, Default: 0.7},
			{Name: "pred_gain", Path: "population.predator.gain", Min: 2, Max: 30, Default: 15},
			// Genetics
			{Name: "mutation_rate", Path: "genetics.mutation_rate", Min: 0, Max: 0.1, Default: 0.01},
			{Name: "mutation_range", Path: "genetics.mutation_range", Min: 0.01, Max: 0.5, Default: 0.1},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// The caller must call cfg.Finalize afterwards.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	// Order must match Specs order
	i := 0
	for _, t := range []*config.TypeConfig{&cfg.Population.Prey, &cfg.Population.Predator} {
		setInitialEnergy(t, clamped[i])
		t.MoveCost = clamped[i+1]
		t.IdleCost = clamped[i+2]
		t.Gain = clamped[i+3]
		i += 4
	}

	cfg.Genetics.MutationRate = clamped[i]
	cfg.Genetics.MutationRange = clamped[i+1]
}

// setInitialEnergy changes the initial energy, letting a cap that only
// mirrored the old initial value follow it.
func setInitialEnergy(t *config.TypeConfig, v float64) {
	if t.MaxEnergy == t.InitialEnergy {
		t.MaxEnergy = 0
	}
	t.InitialEnergy = v
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	prey, pred := cfg.Population.Prey, cfg.Population.Predator
	return []float64{
		prey.InitialEnergy, prey.MoveCost, prey.IdleCost, prey.Gain,
		pred.InitialEnergy, pred.MoveCost, pred.IdleCost, pred.Gain,
		cfg.Genetics.MutationRate, cfg.Genetics.MutationRange,
	}
}
