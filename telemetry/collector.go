// Package telemetry accumulates swarm statistics over time windows and
// writes them as CSV for offline analysis.
package telemetry

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// WindowStats is one flushed telemetry window. Distances are particle to
// morph-target; speed is velocity magnitude.
type WindowStats struct {
	Tick      int     `csv:"tick"`
	TimeSec   float64 `csv:"time_sec"`
	Shape     string  `csv:"shape"`
	Morphs    int     `csv:"morphs"`
	MeanDist  float64 `csv:"mean_dist"`
	StdDist   float64 `csv:"std_dist"`
	MaxDist   float64 `csv:"max_dist"`
	MeanSpeed float64 `csv:"mean_speed"`
	StepAvgUs float64 `csv:"step_avg_us"`
}

// Collector counts events within a window and computes swarm statistics at
// flush time, so the per-tick cost is a couple of integer bumps.
type Collector struct {
	windowTicks     int
	windowStartTick int
	dt              float64

	morphs int

	// scratch buffers reused across flushes
	dists  []float64
	speeds []float64
}

// NewCollector creates a stats collector.
// windowSec: how long each stats window lasts in simulation seconds.
// dt: seconds per tick.
func NewCollector(windowSec float64, dt float64) *Collector {
	ticks := 1
	if dt > 0 {
		ticks = int(windowSec / dt)
		if ticks < 1 {
			ticks = 1
		}
	}
	return &Collector{windowTicks: ticks, dt: dt}
}

// RecordMorph counts a shape transition in the current window.
func (c *Collector) RecordMorph() {
	c.morphs++
}

// ShouldFlush reports whether enough ticks have passed to close the window.
func (c *Collector) ShouldFlush(currentTick int) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Flush computes window statistics from the live buffers, resets the window
// and returns the record. positions, targets and velocities are the engine's
// co-indexed arrays (length 3N); stepAvgUs is the averaged Step duration in
// microseconds from the perf tracker.
func (c *Collector) Flush(currentTick int, shape string, positions, targets, velocities []float32, stepAvgUs float64) WindowStats {
	n := len(positions) / 3
	c.dists = c.dists[:0]
	c.speeds = c.speeds[:0]

	maxDist := 0.0
	for i := 0; i < n; i++ {
		j := 3 * i
		dx := float64(targets[j] - positions[j])
		dy := float64(targets[j+1] - positions[j+1])
		dz := float64(targets[j+2] - positions[j+2])
		d := math.Sqrt(dx*dx + dy*dy + dz*dz)
		if d > maxDist {
			maxDist = d
		}
		c.dists = append(c.dists, d)

		vx := float64(velocities[j])
		vy := float64(velocities[j+1])
		vz := float64(velocities[j+2])
		c.speeds = append(c.speeds, math.Sqrt(vx*vx+vy*vy+vz*vz))
	}

	ws := WindowStats{
		Tick:      currentTick,
		TimeSec:   float64(currentTick) * c.dt,
		Shape:     shape,
		Morphs:    c.morphs,
		MaxDist:   maxDist,
		StepAvgUs: stepAvgUs,
	}
	if n > 0 {
		ws.MeanDist = stat.Mean(c.dists, nil)
		ws.StdDist = stat.StdDev(c.dists, nil)
		ws.MeanSpeed = stat.Mean(c.speeds, nil)
	}
	if math.IsNaN(ws.StdDist) { // single particle
		ws.StdDist = 0
	}

	c.morphs = 0
	c.windowStartTick = currentTick
	return ws
}
