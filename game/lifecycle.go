package game

import (
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/gridsoup/components"
	"github.com/pthm-cable/gridsoup/config"
	"github.com/pthm-cable/gridsoup/neural"
	"github.com/pthm-cable/gridsoup/systems"
	"github.com/pthm-cable/gridsoup/telemetry"
)

// spawnInitialPopulation creates the starting agents, predators first.
func (g *Game) spawnInitialPopulation() error {
	for _, kind := range []components.Kind{components.KindPredator, components.KindPrey} {
		for i := 0; i < g.typeConfig(kind).Count; i++ {
			pos, ok := g.freeCell(g.spawnRegion(kind))
			if !ok {
				return fmt.Errorf("spawning %s %d: %w", kind, i, systems.ErrGridFull)
			}
			brain, err := g.newBrain()
			if err != nil {
				return err
			}
			g.addAgent(kind, pos, brain, 0)
		}
	}
	return nil
}

// freeCell picks a random empty cell inside r, falling back to the whole
// grid when r is full.
func (g *Game) freeCell(r config.Region) (components.Position, bool) {
	cells := g.grid.EmptyCellsIn(r)
	if len(cells) == 0 {
		cells = g.grid.EmptyCellsIn(g.grid.Whole())
	}
	if len(cells) == 0 {
		return components.Position{}, false
	}
	return cells[g.rng.Intn(len(cells))], true
}

// addAgent claims the empty cell at pos and creates the agent entity with
// its kind's parameters. The caller guarantees the cell is empty.
func (g *Game) addAgent(kind components.Kind, pos components.Position, brain *neural.Brain, generation int) ecs.Entity {
	tc := g.typeConfig(kind)

	id := g.nextID
	g.nextID++

	energy := components.Energy{Value: tc.InitialEnergy, Max: tc.MaxEnergy, Initial: tc.InitialEnergy}
	agent := components.Agent{
		ID:          id,
		Kind:        kind,
		Speed:       tc.Speed,
		MoveCost:    tc.MoveCost,
		IdleCost:    tc.IdleCost,
		Gain:        tc.Gain,
		DetectRange: tc.DetectRange,
		Generation:  generation,
		BornTick:    g.tick,
	}

	entity := g.agentMapper.NewEntity(&pos, &energy, &agent)
	g.grid.PlaceAt(pos.X, pos.Y, systems.AgentCell(entity, kind))
	g.brains[id] = brain

	g.lifetimeTracker.Register(id, kind, g.tick, generation, energy.Value)
	g.adjustCount(kind, 1)

	return entity
}

// removeAgent clears the agent's cell, emits its death and removes the
// entity and brain. Component pointers obtained before the call are
// invalid afterwards.
func (g *Game) removeAgent(e ecs.Entity, cause telemetry.DeathCause) {
	pos, energy, agent := g.agentMapper.Get(e)
	energy.Value = 0

	g.grid.Clear(pos.X, pos.Y)
	g.emit(telemetry.NewDeathEvent(g.tick, agent.ID, agent.Kind, *pos, cause))

	if stats := g.lifetimeTracker.Remove(agent.ID); stats != nil {
		g.collector.RecordLifespan(agent.Kind, g.tick-stats.BirthTick)
	}
	delete(g.brains, agent.ID)
	g.adjustCount(agent.Kind, -1)

	g.world.RemoveEntity(e)
}

func (g *Game) adjustCount(kind components.Kind, delta int) {
	if kind == components.KindPrey {
		g.numPrey += delta
	} else {
		g.numPred += delta
	}
}

func (g *Game) count(kind components.Kind) int {
	if kind == components.KindPrey {
		return g.numPrey
	}
	return g.numPred
}

// reseed spawns fresh, parentless agents for a kind that died out.
func (g *Game) reseed(kind components.Kind) error {
	n := g.typeConfig(kind).Reseed
	spawned := 0
	for i := 0; i < n; i++ {
		pos, ok := g.freeCell(g.spawnRegion(kind))
		if !ok {
			break
		}
		brain, err := g.newBrain()
		if err != nil {
			return err
		}
		e := g.addAgent(kind, pos, brain, 0)
		g.emit(telemetry.NewBirthEvent(g.tick, g.agentMap.Get(e).ID, kind, pos, 0, 0))
		spawned++
	}
	slog.Info("reseeded extinct population", "kind", kind.String(), "tick", g.tick, "spawned", spawned)
	return nil
}
