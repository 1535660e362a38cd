package main

import (
	"math"
	"slices"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/gridsoup/config"
	"github.com/pthm-cable/gridsoup/game"
	"github.com/pthm-cable/gridsoup/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int32
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
	lastErr     error   // most recent simulation error, if any
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// LastError returns the most recent simulation error, if any.
func (fe *FitnessEvaluator) LastError() error {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastErr
}

// A kind with fewer than two live agents can never reproduce again, so the
// run counts as over.
const minViablePop = 2

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int32                   // ticks before a kind dropped below minViablePop
	windowStats   []telemetry.WindowStats // collected via StatsCallback each window
	err           error
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	quality float64
	err     error
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is negative coexistence ticks scaled by up to 20% for quality.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg, err := fe.configFor(x)
	if err != nil {
		fe.mu.Lock()
		fe.lastErr = err
		fe.lastQuality = 0
		fe.mu.Unlock()
		return math.Inf(1)
	}

	// Run all seeds in parallel
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result := fe.runSimulation(cfg, s)
			quality := computeQuality(result.windowStats, cfg)
			results[idx] = seedResult{
				fitness: computeFitness(result.survivalTicks, quality),
				quality: quality,
				err:     result.err,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	var runErr error
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
		if r.err != nil {
			runErr = r.err
		}
	}

	n := float64(len(fe.seeds))
	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.lastErr = runErr
	fe.mu.Unlock()

	if runErr != nil {
		return math.Inf(1)
	}
	return totalFitness / n
}

// configFor builds a finalized config carrying the parameter vector.
func (fe *FitnessEvaluator) configFor(x []float64) (*config.Config, error) {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	// Extinction ends a run, so reseeding stays off.
	cfg.Population.Prey.Reseed = 0
	cfg.Population.Predator.Reseed = 0

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runSimulation executes a single headless simulation run.
// Runs until a kind drops below minViablePop or maxTicks, whichever comes first.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) *runResult {
	result := &runResult{}

	g, err := game.NewGame(cfg, game.Options{
		Seed: seed,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		result.err = err
		return result
	}
	defer g.Close()

	for g.Tick() < fe.maxTicks {
		if _, err := g.Step(); err != nil {
			result.err = err
			break
		}
		prey, pred := g.Counts()
		if prey < minViablePop || pred < minViablePop {
			break
		}
	}

	result.survivalTicks = g.Tick()
	return result
}

// copyConfig creates a deep copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Neural.HiddenLayers = slices.Clone(fe.baseConfig.Neural.HiddenLayers)
	return &cfg
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(survivalTicks × (1.0 + 0.2 × quality))
func computeFitness(survivalTicks int32, quality float64) float64 {
	return -(float64(survivalTicks) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightRatio     = 0.30
	qualityWeightStability = 0.25
	qualityWeightEnergy    = 0.25
	qualityWeightHunting   = 0.20

	qualityWarmupWindows = 1 // skip first N windows (warmup)
)

// computeQuality computes ecosystem quality ∈ [0, 1] from window stats.
func computeQuality(windows []telemetry.WindowStats, cfg *config.Config) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	targetRatio := 1.0
	if c := cfg.Population.Predator.Count; c > 0 {
		targetRatio = float64(cfg.Population.Prey.Count) / float64(c)
	}
	preyMax := cfg.Population.Prey.MaxEnergy
	predMax := cfg.Population.Predator.MaxEnergy

	var ratioSum, energySum, huntSum float64
	preyCounts := make([]float64, 0, len(valid))
	predCounts := make([]float64, 0, len(valid))

	for _, w := range valid {
		if w.PreyCount < minViablePop || w.PredCount < minViablePop {
			continue
		}
		preyCounts = append(preyCounts, float64(w.PreyCount))
		predCounts = append(predCounts, float64(w.PredCount))

		// 1. Population ratio close to the configured targets
		logErr := math.Log(float64(w.PreyCount) / float64(w.PredCount) / targetRatio)
		ratioSum += math.Exp(-logErr * logErr)

		// 2. Median energy near half of the cap
		energySum += (energyHealth(w.PreyEnergyP50, preyMax) + energyHealth(w.PredEnergyP50, predMax)) / 2

		// 3. Hunting activity: kills per predator
		killsPerPred := float64(w.Kills) / float64(w.PredCount)
		huntSum += 1.0 - math.Exp(-killsPerPred/2.0)
	}

	n := float64(len(preyCounts))
	if n == 0 {
		return 0
	}

	stabilityScore := 0.0
	if len(preyCounts) >= 2 {
		cvPrey := cv(preyCounts)
		cvPred := cv(predCounts)
		stabilityScore = math.Exp(-(cvPrey*cvPrey + cvPred*cvPred))
	}

	quality := qualityWeightRatio*ratioSum/n +
		qualityWeightStability*stabilityScore +
		qualityWeightEnergy*energySum/n +
		qualityWeightHunting*huntSum/n

	return min(max(quality, 0), 1)
}

// energyHealth scores a median energy by its distance from half the cap.
func energyHealth(p50, maxEnergy float64) float64 {
	if maxEnergy <= 0 {
		return 0
	}
	return math.Exp(-math.Pow((p50/maxEnergy-0.5)/0.25, 2))
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	mean, std := stat.MeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}
