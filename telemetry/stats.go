package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick int32 `csv:"-"`
	WindowEndTick   int32 `csv:"window_end"`

	// Population counts at window end
	PreyCount int `csv:"prey"`
	PredCount int `csv:"pred"`

	// Events during window
	PreyBirths   int `csv:"prey_births"`
	PredBirths   int `csv:"pred_births"`
	PreyDeaths   int `csv:"prey_deaths"`
	PredDeaths   int `csv:"pred_deaths"`
	PreyStarved  int `csv:"prey_starved"`
	PredStarved  int `csv:"pred_starved"`
	Kills        int `csv:"kills"`
	PreyRounds   int `csv:"prey_rounds"`
	PredRounds   int `csv:"pred_rounds"`
	Moves        int `csv:"moves"`
	Rests        int `csv:"rests"`
	ForageEvents int `csv:"forage_events"`

	ForagedEnergy float64 `csv:"foraged_energy"`
	MoveRate      float64 `csv:"move_rate"` // moves / (moves + rests)

	// Energy distribution (sampled at window end)
	PreyEnergyMean float64 `csv:"prey_energy_mean"`
	PreyEnergyP10  float64 `csv:"prey_energy_p10"`
	PreyEnergyP50  float64 `csv:"prey_energy_p50"`
	PreyEnergyP90  float64 `csv:"prey_energy_p90"`

	PredEnergyMean float64 `csv:"pred_energy_mean"`
	PredEnergyP10  float64 `csv:"pred_energy_p10"`
	PredEnergyP50  float64 `csv:"pred_energy_p50"`
	PredEnergyP90  float64 `csv:"pred_energy_p90"`

	// Lifespans of agents that died during the window
	PreyLifespanMean float64 `csv:"prey_lifespan_mean"`
	PredLifespanMean float64 `csv:"pred_lifespan_mean"`

	// Generations among living agents
	PreyGenerationMean float64 `csv:"prey_generation_mean"`
	PredGenerationMean float64 `csv:"pred_generation_mean"`
	MaxGeneration      int     `csv:"max_generation"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeEnergyStats calculates mean and percentiles from energy values.
func ComputeEnergyStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// CoefficientOfVariation returns stddev/mean of values, or 0 when fewer than
// two values are given or the mean is zero.
func CoefficientOfVariation(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean, variance := stat.PopMeanVariance(values, nil)
	if mean == 0 {
		return 0
	}
	return math.Sqrt(variance) / mean
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Int("prey", s.PreyCount),
		slog.Int("pred", s.PredCount),
		slog.Int("prey_births", s.PreyBirths),
		slog.Int("pred_births", s.PredBirths),
		slog.Int("prey_deaths", s.PreyDeaths),
		slog.Int("pred_deaths", s.PredDeaths),
		slog.Int("prey_starved", s.PreyStarved),
		slog.Int("pred_starved", s.PredStarved),
		slog.Int("kills", s.Kills),
		slog.Int("prey_rounds", s.PreyRounds),
		slog.Int("pred_rounds", s.PredRounds),
		slog.Float64("move_rate", s.MoveRate),
		slog.Float64("foraged_energy", s.ForagedEnergy),
		slog.Float64("prey_energy_mean", s.PreyEnergyMean),
		slog.Float64("prey_energy_p50", s.PreyEnergyP50),
		slog.Float64("pred_energy_mean", s.PredEnergyMean),
		slog.Float64("pred_energy_p50", s.PredEnergyP50),
		slog.Float64("prey_lifespan_mean", s.PreyLifespanMean),
		slog.Float64("pred_lifespan_mean", s.PredLifespanMean),
		slog.Int("max_generation", s.MaxGeneration),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
