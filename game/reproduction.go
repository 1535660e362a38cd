package game

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"

	"github.com/pthm-cable/gridsoup/components"
	"github.com/pthm-cable/gridsoup/neural"
	"github.com/pthm-cable/gridsoup/telemetry"
)

// checkPopulation restores a kind after the agent updates. An extinct kind
// is reseeded when configured; a kind at or below half its target breeds.
func (g *Game) checkPopulation(kind components.Kind) error {
	live := g.count(kind)
	if live == 0 && g.typeConfig(kind).Reseed > 0 {
		return g.reseed(kind)
	}
	if live > g.typeConfig(kind).Count/2 || live < 2 {
		return nil
	}
	return g.reproduce(kind)
}

type parent struct {
	id         uint32
	generation int
	brain      *neural.Brain
}

// survivors returns the live agents of a kind ordered by ID.
func (g *Game) survivors(kind components.Kind) []parent {
	var out []parent
	query := g.agentFilter.Query()
	for query.Next() {
		_, _, agent := query.Get()
		if agent.Kind != kind {
			continue
		}
		out = append(out, parent{id: agent.ID, generation: agent.Generation, brain: g.brains[agent.ID]})
	}
	slices.SortFunc(out, func(a, b parent) int { return cmp.Compare(a.id, b.id) })
	return out
}

// reproduce shuffles the survivors of a kind into pairs and spawns two
// offspring per pair in the kind's spawn region. An odd survivor out
// does not breed.
func (g *Game) reproduce(kind components.Kind) error {
	parents := g.survivors(kind)
	g.rng.Shuffle(len(parents), func(i, j int) {
		parents[i], parents[j] = parents[j], parents[i]
	})

	gen := g.cfg.Genetics
	opts := neural.CrossoverOptions{
		SwapProb:      gen.SwapProb,
		MutationRate:  gen.MutationRate,
		MutationRange: gen.MutationRange,
	}
	region := g.spawnRegion(kind)

	born := 0
	for i := 0; i+1 < len(parents); i += 2 {
		a, b := parents[i], parents[i+1]
		c1, c2, err := neural.Crossover(g.rng, a.brain.Genome(), b.brain.Genome(), opts)
		if err != nil {
			return fmt.Errorf("crossover of %s %d and %d: %w", kind, a.id, b.id, err)
		}
		generation := max(a.generation, b.generation) + 1

		for _, genome := range []neural.Genome{c1, c2} {
			brain, err := g.newBrain()
			if err != nil {
				return err
			}
			if err := brain.SetGenome(genome); err != nil {
				return fmt.Errorf("offspring of %s %d and %d: %w", kind, a.id, b.id, err)
			}

			pos, ok := g.freeCell(region)
			if !ok {
				slog.Warn("no free cell for offspring", "kind", kind.String(), "tick", g.tick,
					"parent_a", a.id, "parent_b", b.id)
				continue
			}
			e := g.addAgent(kind, pos, brain, generation)
			g.emit(telemetry.NewBirthEvent(g.tick, g.agentMap.Get(e).ID, kind, pos, a.id, b.id))
			born++
		}
	}

	g.emit(telemetry.NewReproductionEvent(g.tick, kind, born))
	if g.logStats {
		slog.Info("reproduction",
			"kind", kind.String(),
			"tick", g.tick,
			"survivors", len(parents),
			"offspring", born,
		)
	}
	return nil
}
