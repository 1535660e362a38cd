package game

import (
	"log/slog"

	"github.com/pthm-cable/gridsoup/components"
	"github.com/pthm-cable/gridsoup/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.samplePopulation())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
		g.logWorldState()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
	}
}

// samplePopulation collects energies and generations of the living agents.
func (g *Game) samplePopulation() telemetry.PopulationSample {
	var s telemetry.PopulationSample

	query := g.agentFilter.Query()
	for query.Next() {
		_, energy, agent := query.Get()

		if agent.Kind == components.KindPrey {
			s.PreyEnergies = append(s.PreyEnergies, energy.Value)
			s.PreyGenerations = append(s.PreyGenerations, float64(agent.Generation))
		} else {
			s.PredEnergies = append(s.PredEnergies, energy.Value)
			s.PredGenerations = append(s.PredGenerations, float64(agent.Generation))
		}
		s.MaxGeneration = max(s.MaxGeneration, agent.Generation)

		g.lifetimeTracker.UpdateEnergy(agent.ID, energy.Value)
	}

	return s
}
