// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/gridsoup/neural"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// MovementAxes is the fixed brain output width: one output per grid axis.
const MovementAxes = 2

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Grid       GridConfig       `yaml:"grid"`
	Food       ItemConfig       `yaml:"food"`
	Obstacles  ItemConfig       `yaml:"obstacles"`
	Population PopulationConfig `yaml:"population"`
	Sensors    SensorsConfig    `yaml:"sensors"`
	Neural     NeuralConfig     `yaml:"neural"`
	Genetics   GeneticsConfig   `yaml:"genetics"`
	Simulation SimulationConfig `yaml:"simulation"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Bookmarks  BookmarksConfig  `yaml:"bookmarks"`
	Stream     StreamConfig     `yaml:"stream"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the graphical viewer.
type ScreenConfig struct {
	CellSize   int `yaml:"cell_size"`   // pixels per grid cell
	PanelWidth int `yaml:"panel_width"` // side panel for controls
	TargetFPS  int `yaml:"target_fps"`
}

// GridConfig holds the world dimensions.
type GridConfig struct {
	Size int `yaml:"size"` // cells per side
}

// ItemConfig holds the initial count of a static grid marker.
type ItemConfig struct {
	Count int `yaml:"count"`
}

// PopulationConfig holds per-type agent parameters.
type PopulationConfig struct {
	Predator TypeConfig `yaml:"predator"`
	Prey     TypeConfig `yaml:"prey"`
}

// TypeConfig holds the constants injected into every agent of one type.
type TypeConfig struct {
	Count         int         `yaml:"count"`          // initial and target population
	Speed         float64     `yaml:"speed"`          // probability of acting each tick
	InitialEnergy float64     `yaml:"initial_energy"` // energy at spawn and after a kill
	MaxEnergy     float64     `yaml:"max_energy"`     // energy cap (0 = initial_energy)
	MoveCost      float64     `yaml:"move_cost"`      // paid on successful relocation
	IdleCost      float64     `yaml:"idle_cost"`      // paid when resting
	Gain          float64     `yaml:"gain"`           // regained per tick next to food
	DetectRange   int         `yaml:"detect_range"`   // radar radius in cells
	Spawn         SpawnConfig `yaml:"spawn"`          // spawn region as grid fractions
	Reseed        int         `yaml:"reseed"`         // fresh agents spawned on extinction (0 = off)
}

// SpawnConfig describes a rectangular spawn region as fractions of the grid size.
type SpawnConfig struct {
	MinX float64 `yaml:"min_x"`
	MaxX float64 `yaml:"max_x"`
	MinY float64 `yaml:"min_y"`
	MaxY float64 `yaml:"max_y"`
}

// SensorsConfig holds radar parameters.
type SensorsConfig struct {
	NumSectors int `yaml:"num_sectors"`
}

// NeuralConfig holds brain topology.
type NeuralConfig struct {
	HiddenLayers     []int   `yaml:"hidden_layers"`     // positive = dense, negative = recurrent
	HiddenActivation string  `yaml:"hidden_activation"` // activation for dense hidden layers
	NumOutputs       int     `yaml:"num_outputs"`
	MoveThreshold    float64 `yaml:"move_threshold"` // |output| above this moves one cell
}

// GeneticsConfig holds crossover and mutation parameters.
type GeneticsConfig struct {
	SwapProb      float64 `yaml:"swap_prob"`
	MutationRate  float64 `yaml:"mutation_rate"`
	MutationRange float64 `yaml:"mutation_range"`
}

// SimulationConfig holds tick scheduling options.
type SimulationConfig struct {
	ParallelSense bool `yaml:"parallel_sense"` // scan+forward on a worker pool
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         int `yaml:"stats_window"` // ticks per stats window
	PerfCollectorWindow int `yaml:"perf_collector_window"`
	BookmarkHistorySize int `yaml:"bookmark_history_size"`
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	KillSurge        KillSurgeConfig        `yaml:"kill_surge"`
	PreyCrash        PreyCrashConfig        `yaml:"prey_crash"`
	PredatorRecovery PredatorRecoveryConfig `yaml:"predator_recovery"`
	StableEcosystem  StableEcosystemConfig  `yaml:"stable_ecosystem"`
}

// KillSurgeConfig holds kill surge detection parameters.
type KillSurgeConfig struct {
	Multiplier float64 `yaml:"multiplier"`
	MinKills   int     `yaml:"min_kills"`
}

// PreyCrashConfig holds prey crash detection parameters.
type PreyCrashConfig struct {
	DropPercent float64 `yaml:"drop_percent"`
	MinDrop     int     `yaml:"min_drop"`
}

// PredatorRecoveryConfig holds predator recovery detection parameters.
type PredatorRecoveryConfig struct {
	MaxLow             int `yaml:"max_low"`
	RecoveryMultiplier int `yaml:"recovery_multiplier"`
	MinFinal           int `yaml:"min_final"`
}

// StableEcosystemConfig holds stable ecosystem detection parameters.
type StableEcosystemConfig struct {
	MinPrey       int     `yaml:"min_prey"`
	MinPred       int     `yaml:"min_pred"`
	CVThreshold   float64 `yaml:"cv_threshold"`
	StableWindows int     `yaml:"stable_windows"`
}

// StreamConfig holds websocket viewer parameters.
type StreamConfig struct {
	FrameInterval int `yaml:"frame_interval"` // broadcast every N ticks
}

// Region is an inclusive rectangle of grid cells.
type Region struct {
	MinX, MaxX, MinY, MaxY int
}

// Contains reports whether (x, y) lies inside the region.
func (r Region) Contains(x, y int) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	NumInputs        int               // Sensors.NumSectors*4 + 1
	HiddenActivation neural.Activation // parsed Neural.HiddenActivation
	PredatorSpawn    Region
	PreySpawn        Region
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Finalize applies defaults, computes derived values and validates.
// Callers that edit a loaded Config in place must call it again.
func (c *Config) Finalize() error {
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

func (c *Config) applyDefaults() {
	for _, t := range []*TypeConfig{&c.Population.Predator, &c.Population.Prey} {
		if t.MaxEnergy == 0 {
			t.MaxEnergy = t.InitialEnergy
		}
	}
	if c.Neural.HiddenActivation == "" {
		c.Neural.HiddenActivation = "relu"
	}
	if c.Neural.NumOutputs == 0 {
		c.Neural.NumOutputs = MovementAxes
	}
	if c.Telemetry.StatsWindow < 1 {
		c.Telemetry.StatsWindow = 100
	}
	if c.Telemetry.PerfCollectorWindow < 1 {
		c.Telemetry.PerfCollectorWindow = 100
	}
	if c.Stream.FrameInterval < 1 {
		c.Stream.FrameInterval = 1
	}
}

// Validate rejects configurations the simulation cannot run.
// The item budget check guards placement, which retries until it finds a free cell.
func (c *Config) Validate() error {
	if c.Grid.Size <= 0 {
		return fmt.Errorf("%w: grid.size must be positive, got %d", ErrInvalid, c.Grid.Size)
	}
	if c.Food.Count < 0 || c.Obstacles.Count < 0 {
		return fmt.Errorf("%w: food and obstacle counts must be non-negative", ErrInvalid)
	}
	if err := c.Population.Predator.validate("predator"); err != nil {
		return err
	}
	if err := c.Population.Prey.validate("prey"); err != nil {
		return err
	}

	items := c.Food.Count + c.Obstacles.Count + c.Population.Predator.Count + c.Population.Prey.Count
	if cells := c.Grid.Size * c.Grid.Size; items > cells {
		return fmt.Errorf("%w: %d items requested on %d cells", ErrInvalid, items, cells)
	}

	if c.Sensors.NumSectors <= 0 {
		return fmt.Errorf("%w: sensors.num_sectors must be positive, got %d", ErrInvalid, c.Sensors.NumSectors)
	}
	for i, size := range c.Neural.HiddenLayers {
		if size == 0 {
			return fmt.Errorf("%w: neural.hidden_layers[%d] is zero", ErrInvalid, i)
		}
	}
	if c.Neural.NumOutputs != MovementAxes {
		return fmt.Errorf("%w: neural.num_outputs must be %d, got %d", ErrInvalid, MovementAxes, c.Neural.NumOutputs)
	}
	if _, err := neural.ParseActivation(c.Neural.HiddenActivation); err != nil {
		return fmt.Errorf("%w: neural.hidden_activation: %w", ErrInvalid, err)
	}
	if c.Neural.MoveThreshold < 0 || c.Neural.MoveThreshold >= 1 {
		return fmt.Errorf("%w: neural.move_threshold must be in [0, 1), got %v", ErrInvalid, c.Neural.MoveThreshold)
	}

	g := c.Genetics
	if !unit(g.SwapProb) || !unit(g.MutationRate) {
		return fmt.Errorf("%w: genetics probabilities must be in [0, 1]", ErrInvalid)
	}
	if g.MutationRange < 0 {
		return fmt.Errorf("%w: genetics.mutation_range must be non-negative", ErrInvalid)
	}
	return nil
}

func (t *TypeConfig) validate(name string) error {
	switch {
	case t.Count < 0:
		return fmt.Errorf("%w: %s.count must be non-negative", ErrInvalid, name)
	case !unit(t.Speed):
		return fmt.Errorf("%w: %s.speed must be in [0, 1], got %v", ErrInvalid, name, t.Speed)
	case t.InitialEnergy < 0:
		return fmt.Errorf("%w: %s.initial_energy must be non-negative", ErrInvalid, name)
	case t.MaxEnergy < t.InitialEnergy:
		return fmt.Errorf("%w: %s.max_energy %v below initial_energy %v", ErrInvalid, name, t.MaxEnergy, t.InitialEnergy)
	case t.MoveCost < 0 || t.IdleCost < 0 || t.Gain < 0:
		return fmt.Errorf("%w: %s energy costs and gain must be non-negative", ErrInvalid, name)
	case t.DetectRange < 0:
		return fmt.Errorf("%w: %s.detect_range must be non-negative", ErrInvalid, name)
	case t.Reseed < 0:
		return fmt.Errorf("%w: %s.reseed must be non-negative", ErrInvalid, name)
	}
	s := t.Spawn
	if !unit(s.MinX) || !unit(s.MaxX) || !unit(s.MinY) || !unit(s.MaxY) || s.MinX > s.MaxX || s.MinY > s.MaxY {
		return fmt.Errorf("%w: %s.spawn must be ordered fractions in [0, 1]", ErrInvalid, name)
	}
	return nil
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.NumInputs = c.Sensors.NumSectors*4 + 1 // 4 categories per sector + energy
	c.Derived.HiddenActivation, _ = neural.ParseActivation(c.Neural.HiddenActivation)
	c.Derived.PredatorSpawn = c.Population.Predator.Spawn.region(c.Grid.Size)
	c.Derived.PreySpawn = c.Population.Prey.Spawn.region(c.Grid.Size)
}

// region converts spawn fractions to inclusive cell bounds.
func (s SpawnConfig) region(size int) Region {
	cell := func(f float64) int {
		v := int(f * float64(size))
		if v > size-1 {
			v = size - 1
		}
		return v
	}
	return Region{MinX: cell(s.MinX), MaxX: cell(s.MaxX), MinY: cell(s.MinY), MaxY: cell(s.MaxY)}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
