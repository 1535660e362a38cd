package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/gridsoup/renderer"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayGridLines    OverlayID = "grid_lines"
	OverlayEnergyBars   OverlayID = "energy_bars"
	OverlaySpawnRegions OverlayID = "spawn_regions"
	OverlayPerf         OverlayID = "perf"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID       OverlayID
	Name     string
	Key      int32  // keyboard key to toggle (0 = no key)
	KeyLabel string // key label for display
	Default  bool   // enabled at startup
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{ID: OverlayGridLines, Name: "Grid Lines", Key: rl.KeyG, KeyLabel: "G", Default: true})
	r.Register(OverlayDescriptor{ID: OverlayEnergyBars, Name: "Energy Bars", Key: rl.KeyE, KeyLabel: "E", Default: true})
	r.Register(OverlayDescriptor{ID: OverlaySpawnRegions, Name: "Spawn Regions", Key: rl.KeyR, KeyLabel: "R"})
	r.Register(OverlayDescriptor{ID: OverlayPerf, Name: "Performance", Key: rl.KeyP, KeyLabel: "P"})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = desc.Default
}

// Toggle switches an overlay on/off and returns the new state.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	r.enabled[id] = !r.enabled[id]
	return r.enabled[id]
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	if _, ok := r.byID[id]; ok {
		r.enabled[id] = enabled
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// HandleKeyPress toggles the overlay bound to key.
// Returns the overlay ID, its new state, and whether a toggle occurred.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key == key {
			return desc.ID, r.Toggle(desc.ID), true
		}
	}
	return "", false, false
}

// RenderOptions maps the grid overlays onto renderer options.
func (r *OverlayRegistry) RenderOptions() renderer.Options {
	return renderer.Options{
		GridLines:    r.IsEnabled(OverlayGridLines),
		EnergyBars:   r.IsEnabled(OverlayEnergyBars),
		SpawnRegions: r.IsEnabled(OverlaySpawnRegions),
	}
}
