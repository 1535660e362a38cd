package main

import (
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/pthm-cable/gridsoup/config"
	"github.com/pthm-cable/gridsoup/game"
	"github.com/pthm-cable/gridsoup/stream"
)

type flags struct {
	configPath     string
	headless       bool
	logStats       bool
	outputDir      string
	seed           int64
	maxTicks       int
	stepsPerUpdate int
	streamAddr     string
}

func main() {
	var f flags
	flag.StringVar(&f.configPath, "config", "", "Path to config.yaml (empty = use defaults)")
	flag.BoolVar(&f.headless, "headless", false, "Run without graphics")
	flag.BoolVar(&f.logStats, "log-stats", false, "Output stats via slog")
	flag.StringVar(&f.outputDir, "output-dir", "", "Output directory for CSV logs and config snapshot")
	flag.Int64Var(&f.seed, "seed", 0, "RNG seed (0 = time-based)")
	flag.IntVar(&f.maxTicks, "max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	flag.IntVar(&f.stepsPerUpdate, "steps-per-update", 1, "Simulation ticks per frame in graphical mode")
	flag.StringVar(&f.streamAddr, "stream-addr", "", "Serve websocket frames on this address (e.g. :8080)")
	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(f); err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

func run(f flags) error {
	if err := config.Init(f.configPath); err != nil {
		return err
	}
	cfg := config.Cfg()

	rngSeed := f.seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	g, err := game.NewGame(cfg, game.Options{
		Seed:      rngSeed,
		LogStats:  f.logStats,
		OutputDir: f.outputDir,
	})
	if err != nil {
		return err
	}
	defer g.Close()

	var hub *stream.Hub
	if f.streamAddr != "" {
		hub = stream.NewHub(g.Size(), cfg.Stream.FrameInterval)
		srv := stream.NewServer(f.streamAddr, hub)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("stream server stopped", "error", err)
			}
		}()
		defer srv.Close()
		slog.Info("streaming frames", "addr", f.streamAddr, "interval", cfg.Stream.FrameInterval)
	}

	if f.headless {
		slog.Info("starting headless simulation",
			"seed", rngSeed,
			"max_ticks", f.maxTicks,
			"grid_size", g.Size(),
		)
		return runHeadless(g, hub, f.maxTicks)
	}
	return runWindow(g, cfg, hub, f.maxTicks, f.stepsPerUpdate)
}

// step advances one tick and mirrors it to viewers.
// It reports whether the tick limit has been reached.
func step(g *game.Game, hub *stream.Hub, maxTicks int) (bool, error) {
	if _, err := g.Step(); err != nil {
		return false, err
	}
	if hub != nil {
		hub.Publish(g)
	}
	return maxTicks > 0 && int(g.Tick()) >= maxTicks, nil
}

func runHeadless(g *game.Game, hub *stream.Hub, maxTicks int) error {
	for {
		done, err := step(g, hub, maxTicks)
		if err != nil {
			return err
		}
		if done {
			prey, pred := g.Counts()
			slog.Info("max ticks reached", "tick", g.Tick(), "prey", prey, "predators", pred)
			return nil
		}
	}
}
