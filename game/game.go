// Package game runs the grid simulation: it owns the agent arena, the grid
// and the per-tick update of every agent.
package game

import (
	"cmp"
	"fmt"
	"log/slog"
	"math/rand"
	"slices"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/gridsoup/components"
	"github.com/pthm-cable/gridsoup/config"
	"github.com/pthm-cable/gridsoup/neural"
	"github.com/pthm-cable/gridsoup/systems"
	"github.com/pthm-cable/gridsoup/telemetry"
)

// Options configures a Game beyond the simulation config.
type Options struct {
	Seed          int64                       // RNG seed
	LogStats      bool                        // log window stats and reproduction rounds via slog
	OutputDir     string                      // CSV output directory (empty = disabled)
	StatsCallback func(telemetry.WindowStats) // called after each stats window
}

// Game holds the complete simulation state.
type Game struct {
	cfg  *config.Config
	rng  *rand.Rand
	seed int64

	world       *ecs.World
	agentMapper *ecs.Map3[components.Position, components.Energy, components.Agent]
	agentFilter *ecs.Filter3[components.Position, components.Energy, components.Agent]
	energyMap   *ecs.Map1[components.Energy]
	agentMap    *ecs.Map1[components.Agent]

	// Brain storage (per agent by ID)
	brains map[uint32]*neural.Brain

	grid     *systems.Grid
	parallel *parallelState

	// State
	tick    int32
	nextID  uint32
	numPrey int
	numPred int
	events  []telemetry.Event // events of the tick in progress

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	lifetimeTracker  *telemetry.LifetimeTracker
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	statsCallback    func(telemetry.WindowStats)
	logStats         bool
}

// NewGame builds the world described by cfg: food, then obstacles, then
// predators and prey inside their spawn regions. A nil cfg uses the
// embedded defaults.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	world := ecs.NewWorld()
	g := &Game{
		cfg:  cfg,
		rng:  rand.New(rand.NewSource(opts.Seed)),
		seed: opts.Seed,

		world:       world,
		agentMapper: ecs.NewMap3[components.Position, components.Energy, components.Agent](world),
		agentFilter: ecs.NewFilter3[components.Position, components.Energy, components.Agent](world),
		energyMap:   ecs.NewMap1[components.Energy](world),
		agentMap:    ecs.NewMap1[components.Agent](world),

		brains:   make(map[uint32]*neural.Brain),
		grid:     systems.NewGrid(cfg.Grid.Size),
		parallel: newParallelState(),
		nextID:   1, // 0 means "no parent" in birth events

		collector:        telemetry.NewCollector(cfg.Telemetry.StatsWindow),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		lifetimeTracker:  telemetry.NewLifetimeTracker(),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize, cfg.Bookmarks),
		statsCallback:    opts.StatsCallback,
		logStats:         opts.LogStats,
	}

	if err := g.grid.Place(g.rng, systems.ContentFood, cfg.Food.Count); err != nil {
		return nil, fmt.Errorf("placing food: %w", err)
	}
	if err := g.grid.Place(g.rng, systems.ContentObstacle, cfg.Obstacles.Count); err != nil {
		return nil, fmt.Errorf("placing obstacles: %w", err)
	}
	if err := g.spawnInitialPopulation(); err != nil {
		return nil, err
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	return g, nil
}

// Step advances the simulation by one tick and returns the tick's events.
// Agents are updated in ID order; an agent removed earlier in the tick is
// skipped. Errors are configuration faults and leave the game unusable.
func (g *Game) Step() ([]telemetry.Event, error) {
	g.perfCollector.StartTick()
	g.events = nil

	order := g.agentsByID()

	var decisions []decision
	if g.cfg.Simulation.ParallelSense {
		g.perfCollector.StartPhase(telemetry.PhaseThink)
		decisions = g.decideParallel(order)
	}

	for i, e := range order {
		if !g.world.Alive(e) {
			continue
		}
		var d *decision
		if decisions != nil {
			d = &decisions[i]
		}
		if err := g.updateAgent(e, d); err != nil {
			g.perfCollector.EndTick()
			return nil, err
		}
	}

	g.perfCollector.StartPhase(telemetry.PhaseReproduction)
	for _, kind := range components.Kinds {
		if err := g.checkPopulation(kind); err != nil {
			g.perfCollector.EndTick()
			return nil, err
		}
	}

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	if err := g.outputManager.WriteEvents(g.events); err != nil {
		slog.Error("failed to write events", "error", err)
	}
	g.tick++
	g.flushTelemetry()
	g.perfCollector.EndTick()

	return g.events, nil
}

// Run advances the simulation n ticks, stopping at the first error.
func (g *Game) Run(n int) error {
	for i := 0; i < n; i++ {
		if _, err := g.Step(); err != nil {
			return err
		}
	}
	return nil
}

// agentsByID returns every live agent entity ordered by agent ID.
func (g *Game) agentsByID() []ecs.Entity {
	type entry struct {
		entity ecs.Entity
		id     uint32
	}
	entries := make([]entry, 0, g.numPrey+g.numPred)

	query := g.agentFilter.Query()
	for query.Next() {
		_, _, agent := query.Get()
		entries = append(entries, entry{entity: query.Entity(), id: agent.ID})
	}

	slices.SortFunc(entries, func(a, b entry) int { return cmp.Compare(a.id, b.id) })
	out := make([]ecs.Entity, len(entries))
	for i, en := range entries {
		out[i] = en.entity
	}
	return out
}

func (g *Game) emit(ev telemetry.Event) {
	g.events = append(g.events, ev)
	g.collector.Record(ev)
}

func (g *Game) typeConfig(kind components.Kind) *config.TypeConfig {
	if kind == components.KindPredator {
		return &g.cfg.Population.Predator
	}
	return &g.cfg.Population.Prey
}

func (g *Game) spawnRegion(kind components.Kind) config.Region {
	if kind == components.KindPredator {
		return g.cfg.Derived.PredatorSpawn
	}
	return g.cfg.Derived.PreySpawn
}

func (g *Game) newBrain() (*neural.Brain, error) {
	b, err := neural.NewBrain(g.rng, g.cfg.Derived.NumInputs, g.cfg.Neural.HiddenLayers,
		g.cfg.Neural.NumOutputs, g.cfg.Derived.HiddenActivation)
	if err != nil {
		return nil, fmt.Errorf("building brain: %w", err)
	}
	return b, nil
}

// CellView is a read-only description of one grid cell.
type CellView struct {
	Content   systems.Content
	Kind      components.Kind // set for agents
	AgentID   uint32          // set for agents
	Energy    float64         // set for agents
	MaxEnergy float64         // set for agents
}

// AgentView is a read-only description of one agent.
type AgentView struct {
	ID         uint32          `json:"id"`
	Kind       components.Kind `json:"kind"`
	X          int             `json:"x"`
	Y          int             `json:"y"`
	Energy     float64         `json:"energy"`
	MaxEnergy  float64         `json:"max_energy"`
	Generation int             `json:"generation"`
}

// EnergyRatio returns Energy/MaxEnergy, or 0 when MaxEnergy is zero.
func (a AgentView) EnergyRatio() float64 {
	if a.MaxEnergy == 0 {
		return 0
	}
	return a.Energy / a.MaxEnergy
}

// Cell describes the cell at (x, y). Coordinates off the grid read as empty.
func (g *Game) Cell(x, y int) CellView {
	c := g.grid.At(x, y)
	view := CellView{Content: c.Content}
	if c.Content == systems.ContentAgent {
		energy := g.energyMap.Get(c.Entity)
		view.Kind = c.Kind
		view.AgentID = g.agentMap.Get(c.Entity).ID
		view.Energy = energy.Value
		view.MaxEnergy = energy.Max
	}
	return view
}

// Agents returns every live agent ordered by ID.
func (g *Game) Agents() []AgentView {
	out := make([]AgentView, 0, g.numPrey+g.numPred)
	query := g.agentFilter.Query()
	for query.Next() {
		pos, energy, agent := query.Get()
		out = append(out, AgentView{
			ID:         agent.ID,
			Kind:       agent.Kind,
			X:          pos.X,
			Y:          pos.Y,
			Energy:     energy.Value,
			MaxEnergy:  energy.Max,
			Generation: agent.Generation,
		})
	}
	slices.SortFunc(out, func(a, b AgentView) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

// Counts returns the live prey and predator populations.
func (g *Game) Counts() (prey, pred int) {
	return g.numPrey, g.numPred
}

// MaxEnergy returns the energy cap of the given kind.
func (g *Game) MaxEnergy(kind components.Kind) float64 {
	return g.typeConfig(kind).MaxEnergy
}

// Tick returns the number of completed ticks.
func (g *Game) Tick() int32 {
	return g.tick
}

// Size returns the grid's side length.
func (g *Game) Size() int {
	return g.grid.Size()
}

// Seed returns the RNG seed the game was built with.
func (g *Game) Seed() int64 {
	return g.seed
}

// PerfStats returns timing statistics over the recent ticks.
func (g *Game) PerfStats() telemetry.PerfStats {
	return g.perfCollector.Stats()
}

// RecordFrame records frame timing for the graphical viewer.
func (g *Game) RecordFrame() {
	g.perfCollector.RecordFrame()
}

// Close stops the worker pool and flushes output files.
func (g *Game) Close() error {
	g.stopParallelWorkers()
	return g.outputManager.Close()
}
