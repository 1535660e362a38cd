package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/gridsoup/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkKillSurge        BookmarkType = "kill_surge"
	BookmarkPredatorRecovery BookmarkType = "predator_recovery"
	BookmarkPreyCrash        BookmarkType = "prey_crash"
	BookmarkStableEcosystem  BookmarkType = "stable_ecosystem"
	BookmarkExtinction       BookmarkType = "extinction"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	cfg config.BookmarksConfig

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	predMin            int  // minimum predator count since last recovery
	predMinSet         bool // predMin holds a sample
	preyPeak           int  // peak prey count since last crash
	stableWindowsCount int  // consecutive windows with stable populations
	last               *WindowStats
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int, cfg config.BookmarksConfig) *BookmarkDetector {
	minHistory := max(cfg.StableEcosystem.StableWindows, 3)
	if historySize < minHistory {
		historySize = minHistory
	}
	return &BookmarkDetector{
		cfg:         cfg,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		for _, check := range []func(WindowStats) *Bookmark{
			bd.checkKillSurge,
			bd.checkPredatorRecovery,
			bd.checkPreyCrash,
			bd.checkStableEcosystem,
		} {
			if b := check(stats); b != nil {
				bookmarks = append(bookmarks, *b)
			}
		}
	}
	bookmarks = append(bookmarks, bd.checkExtinction(stats)...)

	bd.addToHistory(stats)

	if !bd.predMinSet || stats.PredCount < bd.predMin {
		bd.predMin = stats.PredCount
		bd.predMinSet = true
	}
	if stats.PreyCount > bd.preyPeak {
		bd.preyPeak = stats.PreyCount
	}
	bd.last = &stats

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// recent returns up to n most recent windows, oldest first.
func (bd *BookmarkDetector) recent(n int) []WindowStats {
	count := bd.historyIdx
	if bd.historyFull {
		count = bd.historySize
	}
	n = min(n, count)
	out := make([]WindowStats, n)
	for i := 0; i < n; i++ {
		idx := (bd.historyIdx - n + i + bd.historySize) % bd.historySize
		out[i] = bd.history[idx]
	}
	return out
}

func (bd *BookmarkDetector) checkKillSurge(stats WindowStats) *Bookmark {
	history := bd.recent(bd.historySize)
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Kills
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	cfg := bd.cfg.KillSurge
	if float64(stats.Kills) > avg*cfg.Multiplier && stats.Kills >= cfg.MinKills {
		return &Bookmark{
			Type:        BookmarkKillSurge,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d kills is %.1fx average (%.2f)", stats.Kills, float64(stats.Kills)/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkPredatorRecovery(stats WindowStats) *Bookmark {
	cfg := bd.cfg.PredatorRecovery
	if !bd.predMinSet || bd.predMin > cfg.MaxLow {
		return nil
	}

	threshold := max(bd.predMin*cfg.RecoveryMultiplier, cfg.MinFinal)
	if stats.PredCount >= threshold {
		oldMin := bd.predMin
		bd.predMin = stats.PredCount

		return &Bookmark{
			Type:        BookmarkPredatorRecovery,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Predator population recovered from %d to %d", oldMin, stats.PredCount),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkPreyCrash(stats WindowStats) *Bookmark {
	if bd.preyPeak == 0 {
		return nil
	}

	cfg := bd.cfg.PreyCrash
	dropPercent := 1.0 - float64(stats.PreyCount)/float64(bd.preyPeak)
	if dropPercent > cfg.DropPercent && bd.preyPeak-stats.PreyCount >= cfg.MinDrop {
		oldPeak := bd.preyPeak
		bd.preyPeak = stats.PreyCount

		return &Bookmark{
			Type:        BookmarkPreyCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Prey crashed %.0f%% from peak %d to %d", dropPercent*100, oldPeak, stats.PreyCount),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkStableEcosystem(stats WindowStats) *Bookmark {
	cfg := bd.cfg.StableEcosystem
	if stats.PreyCount < cfg.MinPrey || stats.PredCount < cfg.MinPred {
		bd.stableWindowsCount = 0
		return nil
	}

	span := max(cfg.StableWindows-1, 2)
	history := bd.recent(span)
	if len(history) < span {
		return nil
	}

	prey := make([]float64, 0, span+1)
	pred := make([]float64, 0, span+1)
	for _, h := range append(history, stats) {
		prey = append(prey, float64(h.PreyCount))
		pred = append(pred, float64(h.PredCount))
	}

	if CoefficientOfVariation(prey) < cfg.CVThreshold && CoefficientOfVariation(pred) < cfg.CVThreshold {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == cfg.StableWindows {
		return &Bookmark{
			Type:        BookmarkStableEcosystem,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Stable ecosystem with %d prey, %d predators over %d windows", stats.PreyCount, stats.PredCount, cfg.StableWindows),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkExtinction(stats WindowStats) []Bookmark {
	var out []Bookmark
	prevPrey, prevPred := -1, -1
	if bd.last != nil {
		prevPrey, prevPred = bd.last.PreyCount, bd.last.PredCount
	}
	if stats.PreyCount == 0 && prevPrey != 0 {
		out = append(out, Bookmark{Type: BookmarkExtinction, Tick: stats.WindowEndTick, Description: "Prey went extinct"})
	}
	if stats.PredCount == 0 && prevPred != 0 {
		out = append(out, Bookmark{Type: BookmarkExtinction, Tick: stats.WindowEndTick, Description: "Predators went extinct"})
	}
	return out
}
