// Package main provides a headless convergence benchmark: for each shape it
// measures how many ticks the swarm needs to settle onto a freshly morphed
// target, across several seeds, and reports per-shape statistics.
//
// Usage: go run ./cmd/bench -seeds 5 -output results.csv
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/nebula/config"
	"github.com/pthm-cable/nebula/engine"
	"github.com/pthm-cable/nebula/shapes"
)

var benchShapes = []shapes.Descriptor{
	{Kind: shapes.Ring},
	{Kind: shapes.Star},
	{Kind: shapes.Heart},
	{Kind: shapes.Text, Text: "NEBULA"},
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	seeds := flag.Int("seeds", 3, "Number of seeds per shape")
	maxTicks := flag.Int("max-ticks", 3600, "Tick cap per run")
	threshold := flag.Float64("threshold", 0.05, "Mean distance-to-target counted as converged")
	output := flag.String("output", "", "CSV output path (empty = no file)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()
	dt := cfg.Derived.DT32

	var writer *csv.Writer
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatalf("failed to create output: %v", err)
		}
		defer f.Close()
		writer = csv.NewWriter(f)
		defer writer.Flush()
		writer.Write([]string{"shape", "seed", "ticks", "converged"})
	}

	for _, desc := range benchShapes {
		ticks := make([]float64, 0, *seeds)
		converged := 0

		for s := 0; s < *seeds; s++ {
			seed := int64(s*1000 + 42)
			t, ok := runOnce(cfg, desc, seed, dt, *maxTicks, *threshold)
			if ok {
				converged++
				ticks = append(ticks, float64(t))
			}
			if writer != nil {
				writer.Write([]string{
					desc.String(),
					strconv.FormatInt(seed, 10),
					strconv.Itoa(t),
					strconv.FormatBool(ok),
				})
			}
		}

		if len(ticks) == 0 {
			fmt.Printf("%-16s did not converge within %d ticks\n", desc, *maxTicks)
			continue
		}
		mean := stat.Mean(ticks, nil)
		sd := stat.StdDev(ticks, nil)
		if math.IsNaN(sd) {
			sd = 0
		}
		fmt.Printf("%-16s converged %d/%d  ticks mean=%.1f sd=%.1f (%.2fs at %.0f Hz)\n",
			desc, converged, *seeds, mean, sd, mean*float64(dt), 1/float64(dt))
	}
}

// runOnce morphs a fresh sphere-seeded engine to desc and steps until the
// swarm settles or the cap is hit. Returns the tick count and whether it
// converged.
func runOnce(cfg *config.Config, desc shapes.Descriptor, seed int64, dt float32, maxTicks int, threshold float64) (int, bool) {
	rng := rand.New(rand.NewSource(seed))
	eng := engine.New(cfg.Engine, shapes.NewGenerator(cfg.Shapes), rng)
	defer eng.Close()

	if _, err := eng.MorphTo(desc); err != nil {
		log.Fatalf("morph to %s failed: %v", desc, err)
	}

	for tick := 1; tick <= maxTicks; tick++ {
		eng.Step(dt)
		if meanDistance(eng.Buffer()) < threshold {
			return tick, true
		}
	}
	return maxTicks, false
}

func meanDistance(buf *engine.ParticleBuffer) float64 {
	pos := buf.Positions()
	tgt := buf.Targets()
	n := buf.Count()
	if n == 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		j := 3 * i
		dx := float64(tgt[j] - pos[j])
		dy := float64(tgt[j+1] - pos[j+1])
		dz := float64(tgt[j+2] - pos[j+2])
		sum += math.Sqrt(dx*dx + dy*dy + dz*dz)
	}
	return sum / float64(n)
}
