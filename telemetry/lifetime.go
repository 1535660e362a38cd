package telemetry

import "github.com/pthm-cable/gridsoup/components"

// LifetimeStats tracks per-agent statistics over its lifetime.
type LifetimeStats struct {
	Kind       components.Kind
	BirthTick  int32
	Generation int

	Moves        int
	Kills        int
	TotalForaged float64
	PeakEnergy   float64
}

// LifetimeTracker manages per-agent lifetime statistics keyed by agent ID.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// Register creates lifetime stats for a new agent.
func (lt *LifetimeTracker) Register(agentID uint32, kind components.Kind, birthTick int32, generation int, energy float64) {
	lt.stats[agentID] = &LifetimeStats{
		Kind:       kind,
		BirthTick:  birthTick,
		Generation: generation,
		PeakEnergy: energy,
	}
}

// Get returns the lifetime stats for an agent, or nil if not found.
func (lt *LifetimeTracker) Get(agentID uint32) *LifetimeStats {
	return lt.stats[agentID]
}

// Remove removes an agent's stats and returns them.
func (lt *LifetimeTracker) Remove(agentID uint32) *LifetimeStats {
	stats := lt.stats[agentID]
	delete(lt.stats, agentID)
	return stats
}

// RecordMove increments the relocation count.
func (lt *LifetimeTracker) RecordMove(agentID uint32) {
	if s := lt.stats[agentID]; s != nil {
		s.Moves++
	}
}

// RecordKill increments kill count.
func (lt *LifetimeTracker) RecordKill(agentID uint32) {
	if s := lt.stats[agentID]; s != nil {
		s.Kills++
	}
}

// RecordForage adds foraging gain to cumulative total.
func (lt *LifetimeTracker) RecordForage(agentID uint32, amount float64) {
	if s := lt.stats[agentID]; s != nil {
		s.TotalForaged += amount
	}
}

// UpdateEnergy tracks peak energy.
func (lt *LifetimeTracker) UpdateEnergy(agentID uint32, energy float64) {
	if s := lt.stats[agentID]; s != nil && energy > s.PeakEnergy {
		s.PeakEnergy = energy
	}
}

// Count returns the number of tracked agents.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}
