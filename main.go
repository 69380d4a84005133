package main

import (
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/nebula/config"
	"github.com/pthm-cable/nebula/engine"
	"github.com/pthm-cable/nebula/shapes"
	"github.com/pthm-cable/nebula/telemetry"
)

// morphCycle is the shape sequence headless runs rotate through.
var morphCycle = []shapes.Descriptor{
	{Kind: shapes.Sphere},
	{Kind: shapes.Ring},
	{Kind: shapes.Star},
	{Kind: shapes.Heart},
	{Kind: shapes.Text, Text: "NEBULA"},
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	initialShape := flag.String("shape", "sphere", "Initial shape (sphere, ring, star, heart, text)")
	text := flag.String("text", "NEBULA", "Text rendered by the text shape")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Build the engine
	rng := rand.New(rand.NewSource(rngSeed))
	gen := shapes.NewGenerator(cfg.Shapes)
	eng := engine.New(cfg.Engine, gen, rng)
	defer eng.Close()

	// Seed shape override
	kind, err := shapes.ParseKind(*initialShape)
	if err != nil {
		slog.Error("invalid shape flag", "error", err)
		os.Exit(1)
	}
	desc := shapes.Descriptor{Kind: kind}
	if kind == shapes.Text {
		desc.Text = *text
	}
	if _, err := eng.MorphTo(desc); err != nil {
		slog.Error("initial morph failed", "error", err)
		os.Exit(1)
	}

	// Output manager (nil when -output-dir is empty)
	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if output.Dir() != "" {
		if err := cfg.WriteYAML(filepath.Join(output.Dir(), "config.yaml")); err != nil {
			slog.Warn("failed to snapshot config", "error", err)
		}
	}

	if *headless {
		slog.Info("starting headless swarm",
			"seed", rngSeed,
			"particles", cfg.Engine.Particles,
			"shape", desc.String(),
			"max_ticks", *maxTicks,
		)
		runHeadless(cfg, eng, output, *maxTicks, *text)
		return
	}

	// Graphical mode
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Nebula")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	v := newViewer(cfg, eng, output, *text)
	for !rl.WindowShouldClose() {
		v.update()
		v.draw()
		if *maxTicks > 0 && v.tick >= *maxTicks {
			break
		}
	}
}

// runHeadless steps the engine at the configured fixed dt, cycling through
// the built-in shapes and flushing telemetry windows to slog and CSV.
func runHeadless(cfg *config.Config, eng *engine.Engine, output *telemetry.OutputManager, maxTicks int, text string) {
	dt := cfg.Derived.DT32
	collector := telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Headless.DT)
	perf := telemetry.NewPerfStats()

	cycle := 0
	for tick := 1; maxTicks == 0 || tick <= maxTicks; tick++ {
		if cfg.Derived.MorphEveryTicks > 0 && tick%cfg.Derived.MorphEveryTicks == 0 {
			cycle++
			next := morphCycle[cycle%len(morphCycle)]
			if next.Kind == shapes.Text {
				next.Text = text
			}
			if morphed, err := eng.MorphTo(next); err == nil && morphed {
				collector.RecordMorph()
				slog.Info("morph", "tick", tick, "shape", next.String())
			}
		}

		start := time.Now()
		eng.Step(dt)
		perf.Record("step", time.Since(start))

		if collector.ShouldFlush(tick) {
			buf := eng.Buffer()
			ws := collector.Flush(tick, eng.Shape().String(),
				buf.Positions(), buf.Targets(), buf.Velocities(),
				float64(perf.Avg("step").Microseconds()))
			slog.Info("window",
				"tick", ws.Tick,
				"shape", ws.Shape,
				"mean_dist", ws.MeanDist,
				"max_dist", ws.MaxDist,
				"mean_speed", ws.MeanSpeed,
				"step_avg_us", ws.StepAvgUs,
			)
			if err := output.WriteTelemetry(ws); err != nil {
				slog.Warn("telemetry write failed", "error", err)
			}
		}
	}
}
