package telemetry

import (
	"log/slog"
	"time"
)

// Phase identifies one timed section of a simulation step.
type Phase uint8

const (
	PhaseSense Phase = iota
	PhaseThink
	PhaseMove
	PhaseForage
	PhaseReproduction
	PhaseTelemetry
	numPhases
)

// Phases lists every phase in execution order.
var Phases = [numPhases]Phase{PhaseSense, PhaseThink, PhaseMove, PhaseForage, PhaseReproduction, PhaseTelemetry}

var phaseIDs = [numPhases]string{"sense", "think", "move", "forage", "reproduction", "telemetry"}

// String returns the phase ID shared with the system registry.
func (p Phase) String() string {
	if p < numPhases {
		return phaseIDs[p]
	}
	return "unknown"
}

// tickTiming is the wall time spent in one step, split by phase.
type tickTiming struct {
	total  time.Duration
	phases [numPhases]time.Duration
}

// PerfCollector keeps step timings in a ring of the last n ticks.
// It is not safe for concurrent use; only the simulation goroutine
// starts and ends phases.
type PerfCollector struct {
	ring   []tickTiming
	next   int
	filled int

	cur        tickTiming
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector returns a collector averaging over window ticks.
// A window below 1 falls back to 60.
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{ring: make([]tickTiming, window)}
}

// StartTick resets the in-progress timing.
func (p *PerfCollector) StartTick() {
	p.cur = tickTiming{}
	p.tickStart = time.Now()
	p.inPhase = false
}

// StartPhase closes the running phase, if any, and opens ph.
func (p *PerfCollector) StartPhase(ph Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phase, p.phaseStart, p.inPhase = ph, now, true
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase && p.phase < numPhases {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
	}
	p.inPhase = false
}

// EndTick closes the running phase and stores the tick in the ring.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.cur.total = now.Sub(p.tickStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	p.filled = min(p.filled+1, len(p.ring))
}

// RecordFrame marks a rendered frame. The gap to the previous call
// becomes the frame duration.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PhaseTiming is the averaged cost of one phase.
type PhaseTiming struct {
	Avg time.Duration
	Pct float64 // share of the average tick, 0..100
}

// PerfStats summarizes the collector's window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	TicksPerSecond  float64

	Phases [numPhases]PhaseTiming

	FrameDuration time.Duration
	FPS           float64
}

// Phase returns the timing recorded for ph.
func (s PerfStats) Phase(ph Phase) PhaseTiming {
	if ph >= numPhases {
		return PhaseTiming{}
	}
	return s.Phases[ph]
}

// Stats averages the ticks currently in the ring. Frame timing is
// reported even before any tick completes.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{FrameDuration: p.frame}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.filled == 0 {
		return s
	}

	var total time.Duration
	var sums [numPhases]time.Duration
	for i, t := range p.ring[:p.filled] {
		total += t.total
		if i == 0 || t.total < s.MinTickDuration {
			s.MinTickDuration = t.total
		}
		s.MaxTickDuration = max(s.MaxTickDuration, t.total)
		for ph, d := range t.phases {
			sums[ph] += d
		}
	}

	n := time.Duration(p.filled)
	s.AvgTickDuration = total / n
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	for ph, sum := range sums {
		avg := sum / n
		s.Phases[ph].Avg = avg
		if s.AvgTickDuration > 0 {
			s.Phases[ph].Pct = 100 * float64(avg) / float64(s.AvgTickDuration)
		}
	}
	return s
}

// LogStats writes one "perf" line. Phases under 0.1% are left out.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, ph := range Phases {
		if pct := s.Phases[ph].Pct; pct > 0.1 {
			attrs = append(attrs, ph.String()+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, ph := range Phases {
		attrs = append(attrs, slog.Float64(ph.String()+"_pct", s.Phases[ph].Pct))
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	WindowEnd       int32   `csv:"window_end"`
	AvgTickUS       int64   `csv:"avg_tick_us"`
	MinTickUS       int64   `csv:"min_tick_us"`
	MaxTickUS       int64   `csv:"max_tick_us"`
	TicksPerSec     float64 `csv:"ticks_per_sec"`
	FPS             float64 `csv:"fps"`
	SensePct        float64 `csv:"sense_pct"`
	ThinkPct        float64 `csv:"think_pct"`
	MovePct         float64 `csv:"move_pct"`
	ForagePct       float64 `csv:"forage_pct"`
	ReproductionPct float64 `csv:"reproduction_pct"`
	TelemetryPct    float64 `csv:"telemetry_pct"`
}

// ToCSV flattens s into a perf.csv row for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:       windowEnd,
		AvgTickUS:       s.AvgTickDuration.Microseconds(),
		MinTickUS:       s.MinTickDuration.Microseconds(),
		MaxTickUS:       s.MaxTickDuration.Microseconds(),
		TicksPerSec:     s.TicksPerSecond,
		FPS:             s.FPS,
		SensePct:        s.Phases[PhaseSense].Pct,
		ThinkPct:        s.Phases[PhaseThink].Pct,
		MovePct:         s.Phases[PhaseMove].Pct,
		ForagePct:       s.Phases[PhaseForage].Pct,
		ReproductionPct: s.Phases[PhaseReproduction].Pct,
		TelemetryPct:    s.Phases[PhaseTelemetry].Pct,
	}
}
