package game

import (
	"log/slog"

	"github.com/pthm-cable/gridsoup/components"
	"github.com/pthm-cable/gridsoup/systems"
)

// logWorldState logs the current world state.
func (g *Game) logWorldState() {
	var preyEnergy, predEnergy float64
	var oldest int32
	query := g.agentFilter.Query()
	for query.Next() {
		_, energy, agent := query.Get()
		if agent.Kind == components.KindPrey {
			preyEnergy += energy.Value
		} else {
			predEnergy += energy.Value
		}
		oldest = max(oldest, g.tick-agent.BornTick)
	}

	slog.Info("world",
		"tick", g.tick,
		"prey", g.numPrey,
		"predators", g.numPred,
		"prey_energy_total", preyEnergy,
		"pred_energy_total", predEnergy,
		"oldest_age", oldest,
		"food", g.grid.Count(systems.ContentFood),
		"obstacles", len(g.grid.Obstacles()),
		"free_cells", g.grid.FreeCells(),
		"tracked_lifetimes", g.lifetimeTracker.Count(),
	)
}
