package game

import (
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/gridsoup/components"
	"github.com/pthm-cable/gridsoup/neural"
	"github.com/pthm-cable/gridsoup/systems"
	"github.com/pthm-cable/gridsoup/telemetry"
)

// decision is an agent's choice for one tick, computed ahead of the
// update when sensing runs on the worker pool.
type decision struct {
	act    bool
	dx, dy int
	err    error
}

// updateAgent runs one tick of the agent state machine: starvation check,
// act or rest, then the food check. A non-nil d supplies a precomputed
// decision.
func (g *Game) updateAgent(e ecs.Entity, d *decision) error {
	pos, energy, agent := g.agentMapper.Get(e)
	if energy.Value <= 0 {
		g.removeAgent(e, telemetry.CauseStarvation)
		return nil
	}

	var act bool
	if d != nil {
		act = d.act
	} else {
		act = g.rng.Float64() < agent.Speed
	}

	if act {
		var dx, dy int
		if d != nil {
			if d.err != nil {
				return d.err
			}
			dx, dy = d.dx, d.dy
		} else {
			g.perfCollector.StartPhase(telemetry.PhaseSense)
			inputs := g.sense(*pos, *energy, agent.DetectRange)
			g.perfCollector.StartPhase(telemetry.PhaseThink)
			var err error
			dx, dy, err = g.decide(g.brains[agent.ID], agent.ID, inputs)
			if err != nil {
				return err
			}
		}

		g.perfCollector.StartPhase(telemetry.PhaseMove)
		g.collector.RecordAction(true)
		g.move(e, dx, dy)
		pos, energy, agent = g.agentMapper.Get(e) // a kill may have moved storage
	} else {
		energy.Spend(agent.IdleCost)
		g.collector.RecordAction(false)
	}

	g.perfCollector.StartPhase(telemetry.PhaseForage)
	if gained := systems.Forage(g.grid, *pos, agent, energy); gained > 0 {
		g.emit(telemetry.NewForageEvent(g.tick, agent.ID, agent.Kind, *pos, gained))
		g.lifetimeTracker.RecordForage(agent.ID, gained)
	}
	g.lifetimeTracker.UpdateEnergy(agent.ID, energy.Value)
	return nil
}

// sense builds the brain input: the radar scan followed by the energy
// deficit 1 - e/initial.
func (g *Game) sense(pos components.Position, energy components.Energy, detectRange int) []float64 {
	inputs := systems.Scan(g.grid, pos.X, pos.Y, detectRange, g.cfg.Sensors.NumSectors)
	return append(inputs, energyInput(energy))
}

func energyInput(e components.Energy) float64 {
	if e.Initial == 0 {
		return 1
	}
	return 1 - e.Value/e.Initial
}

// decide runs the brain and maps its two outputs to a step.
func (g *Game) decide(brain *neural.Brain, id uint32, inputs []float64) (dx, dy int, err error) {
	if brain == nil {
		return 0, 0, fmt.Errorf("agent %d has no brain", id)
	}
	out, err := brain.Forward(inputs)
	if err != nil {
		return 0, 0, fmt.Errorf("agent %d forward pass: %w", id, err)
	}
	t := g.cfg.Neural.MoveThreshold
	return systems.Delta(out[0], t), systems.Delta(out[1], t), nil
}

// move applies one step for the agent. A predator stepping onto prey kills
// it, regains its initial energy and stays in place.
func (g *Game) move(e ecs.Entity, dx, dy int) {
	pos, energy, agent := g.agentMapper.Get(e)
	result, target := systems.ResolveMove(g.grid, agent.Kind, pos.X, pos.Y, dx, dy)
	tx, ty := pos.X+dx, pos.Y+dy

	switch result {
	case systems.MoveAttack:
		predatorID := agent.ID
		prey := g.agentMap.Get(target.Entity)
		g.emit(telemetry.NewKillEvent(g.tick, predatorID, prey.ID, components.Position{X: tx, Y: ty}))
		g.lifetimeTracker.RecordKill(predatorID)
		g.removeAgent(target.Entity, telemetry.CausePredation)

		energy = g.energyMap.Get(e)
		energy.Value = energy.Initial

	case systems.MoveStep:
		g.grid.Move(pos.X, pos.Y, tx, ty)
		pos.X, pos.Y = tx, ty
		energy.Spend(agent.MoveCost)
		agent.FoodTicks = 0
		g.lifetimeTracker.RecordMove(agent.ID)
	}
}
