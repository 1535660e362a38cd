package telemetry

import "github.com/pthm-cable/gridsoup/components"

// Collector accumulates events within windows of ticks and produces WindowStats.
type Collector struct {
	windowTicks     int32
	windowStartTick int32

	// Event counters for current window
	preyBirths    int
	predBirths    int
	preyDeaths    int
	predDeaths    int
	preyStarved   int
	predStarved   int
	kills         int
	preyRounds    int
	predRounds    int
	moves         int
	rests         int
	forageEvents  int
	foragedEnergy float64

	preyLifespans []float64
	predLifespans []float64
}

// NewCollector creates a collector that flushes every windowTicks ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{windowTicks: int32(windowTicks)}
}

// Record folds one event into the current window.
func (c *Collector) Record(ev Event) {
	prey := ev.Kind == components.KindPrey
	switch ev.Type {
	case EventDeath:
		if prey {
			c.preyDeaths++
		} else {
			c.predDeaths++
		}
		if ev.Cause == CauseStarvation {
			if prey {
				c.preyStarved++
			} else {
				c.predStarved++
			}
		}
	case EventKill:
		c.kills++
	case EventBirth:
		if prey {
			c.preyBirths++
		} else {
			c.predBirths++
		}
	case EventReproduction:
		if prey {
			c.preyRounds++
		} else {
			c.predRounds++
		}
	case EventForage:
		c.forageEvents++
		c.foragedEnergy += ev.Amount
	}
}

// RecordAction records whether an agent acted or rested this tick.
func (c *Collector) RecordAction(acted bool) {
	if acted {
		c.moves++
	} else {
		c.rests++
	}
}

// RecordLifespan records the age in ticks of an agent that died.
func (c *Collector) RecordLifespan(kind components.Kind, ticks int32) {
	if kind == components.KindPrey {
		c.preyLifespans = append(c.preyLifespans, float64(ticks))
	} else {
		c.predLifespans = append(c.predLifespans, float64(ticks))
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// PopulationSample is the living population sampled at the end of a window.
type PopulationSample struct {
	PreyEnergies    []float64
	PredEnergies    []float64
	PreyGenerations []float64
	PredGenerations []float64
	MaxGeneration   int
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, sample PopulationSample) WindowStats {
	var moveRate float64
	if total := c.moves + c.rests; total > 0 {
		moveRate = float64(c.moves) / float64(total)
	}

	preyMean, preyP10, preyP50, preyP90 := ComputeEnergyStats(sample.PreyEnergies)
	predMean, predP10, predP50, predP90 := ComputeEnergyStats(sample.PredEnergies)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,

		PreyCount: len(sample.PreyEnergies),
		PredCount: len(sample.PredEnergies),

		PreyBirths:   c.preyBirths,
		PredBirths:   c.predBirths,
		PreyDeaths:   c.preyDeaths,
		PredDeaths:   c.predDeaths,
		PreyStarved:  c.preyStarved,
		PredStarved:  c.predStarved,
		Kills:        c.kills,
		PreyRounds:   c.preyRounds,
		PredRounds:   c.predRounds,
		Moves:        c.moves,
		Rests:        c.rests,
		ForageEvents: c.forageEvents,

		ForagedEnergy: c.foragedEnergy,
		MoveRate:      moveRate,

		PreyEnergyMean: preyMean,
		PreyEnergyP10:  preyP10,
		PreyEnergyP50:  preyP50,
		PreyEnergyP90:  preyP90,

		PredEnergyMean: predMean,
		PredEnergyP10:  predP10,
		PredEnergyP50:  predP50,
		PredEnergyP90:  predP90,

		PreyLifespanMean: Mean(c.preyLifespans),
		PredLifespanMean: Mean(c.predLifespans),

		PreyGenerationMean: Mean(sample.PreyGenerations),
		PredGenerationMean: Mean(sample.PredGenerations),
		MaxGeneration:      sample.MaxGeneration,
	}

	*c = Collector{windowTicks: c.windowTicks, windowStartTick: currentTick}
	return stats
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() int32 {
	return c.windowTicks
}
