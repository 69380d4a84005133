// Package engine drives a fixed-capacity swarm of point particles that
// relaxes toward a procedurally generated target shape. Spring-damper
// integration runs once per Step under a clamped timestep; an external
// interaction point injects localized "wind", and morph requests swap the
// target cloud behind an explosion impulse.
//
// The engine is single-threaded and cooperative: Step, MorphTo and
// SetInteraction must be called from one goroutine (or otherwise serialized
// by the host). Step never suspends and returns with the buffers fully
// updated, so a renderer reading Positions between steps never observes a
// torn frame. A concurrent port must queue morph requests between steps; a
// target array swapped mid-integration would yield inconsistent spring
// accelerations.
package engine

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/nebula/shapes"
)

// Params holds the physics constants. Capacity and worker layout are fixed
// per engine instance; the spring and wind constants may be retuned live via
// Tune.
type Params struct {
	// Particles is the swarm capacity N; all shapes generate exactly N
	// points so morphing never resizes buffers.
	Particles int `yaml:"particles"`

	Stiffness float32 `yaml:"stiffness"` // spring constant toward target
	Damping   float32 `yaml:"damping"`   // per-frame velocity decay, in (0,1)
	DTClamp   float32 `yaml:"dt_clamp"`  // timestep ceiling in seconds

	WindRadius          float32 `yaml:"wind_radius"`           // interaction influence radius
	WindForce           float32 `yaml:"wind_force"`            // hand-velocity multiplier
	WindActivationSpeed float32 `yaml:"wind_activation_speed"` // min hand speed for wind
	Turbulence          float32 `yaml:"turbulence"`            // per-axis noise inside the radius

	MorphImpulse float32 `yaml:"morph_impulse"` // explosion range, ± per axis

	// Workers sets the integration worker count (0 = GOMAXPROCS, 1 =
	// single-threaded and fully deterministic).
	Workers int `yaml:"workers"`
	// ParallelThreshold is the minimum particle count to fan out across
	// workers; below it goroutine overhead dominates.
	ParallelThreshold int `yaml:"parallel_threshold"`
}

// DefaultParams returns the stock physics constants.
func DefaultParams() Params {
	return Params{
		Particles:           16000,
		Stiffness:           3.0,
		Damping:             0.92,
		DTClamp:             0.1,
		WindRadius:          4.0,
		WindForce:           15.0,
		WindActivationSpeed: 5.0,
		Turbulence:          0.3,
		MorphImpulse:        10.0,
		Workers:             0,
		ParallelThreshold:   2048,
	}
}

// windEpsilon is the squared wind magnitude below which the wind term is
// dropped for the frame.
const windEpsilon = 1e-6

// Engine is the composition root: it owns the particle buffer outright and
// exposes the four entry points used by external collaborators (scheduler,
// renderer, gesture source).
type Engine struct {
	params Params
	gen    *shapes.Generator
	rng    *rand.Rand

	buf   *ParticleBuffer
	inter interactionState
	shape shapes.Descriptor

	pool *workerPool
}

// New constructs an engine seeded with a sphere: position and target start
// on the same fresh cloud with zero velocity. gen may be nil for default
// shape magnitudes; rng may be nil for a time-seeded source. Tests inject a
// fixed-seed rng to pin numeric outcomes.
func New(params Params, gen *shapes.Generator, rng *rand.Rand) *Engine {
	if gen == nil {
		gen = shapes.NewGenerator(shapes.DefaultParams())
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e := &Engine{
		params: params,
		gen:    gen,
		rng:    rng,
		buf:    newParticleBuffer(params.Particles),
		shape:  shapes.Descriptor{Kind: shapes.Sphere},
	}
	e.buf.seed(gen.Generate(e.shape, e.buf.Count(), rng))
	e.pool = newWorkerPool(e, params.Workers, rng)
	return e
}

// Close stops the integration workers. The engine must not be stepped after
// closing.
func (e *Engine) Close() {
	e.pool.stop()
}

// Buffer exposes the particle arrays for renderers and tests. Callers must
// not write through it.
func (e *Engine) Buffer() *ParticleBuffer {
	return e.buf
}

// Positions returns a read-only view of the current position array, length
// 3N. Valid until the next Step.
func (e *Engine) Positions() []float32 {
	return e.buf.Positions()
}

// CopyPositions appends a snapshot of the position array to dst and returns
// it, for hosts that hold frames across steps.
func (e *Engine) CopyPositions(dst []float32) []float32 {
	return append(dst[:0], e.buf.Positions()...)
}

// Shape returns the currently active target descriptor.
func (e *Engine) Shape() shapes.Descriptor {
	return e.shape
}

// SetInteraction records the external interaction point for the next Step.
// It is a pure state write with no immediate physics effect. Deactivating
// clears the point history so a resumed interaction starts fresh.
func (e *Engine) SetInteraction(active bool, point mgl32.Vec3) {
	e.inter.set(active, point)
}

// Tune adjusts the spring and wind constants on a live engine. The new
// values take effect on the next Step. Zero or negative stiffness and a
// damping outside (0,1] are rejected silently to keep the integrator stable.
func (e *Engine) Tune(stiffness, damping, windForce float32) {
	if stiffness > 0 {
		e.params.Stiffness = stiffness
	}
	if damping > 0 && damping <= 1 {
		e.params.Damping = damping
	}
	if windForce >= 0 {
		e.params.WindForce = windForce
	}
}

// Tuning reports the current spring and wind constants, for UIs that expose
// live controls.
func (e *Engine) Tuning() (stiffness, damping, windForce float32) {
	return e.params.Stiffness, e.params.Damping, e.params.WindForce
}

// MorphTo switches the swarm to a new target shape. A repeated request for
// the active descriptor (text payload included) is a defined no-op: no
// regeneration, no impulse, and it reports false. An unknown kind is a
// configuration error and mutates nothing. A real transition replaces the
// target wholesale and adds a symmetric random impulse to every particle's
// velocity, producing the visible burst before the springs pull the swarm
// into the new shape.
func (e *Engine) MorphTo(d shapes.Descriptor) (bool, error) {
	if !d.Valid() {
		return false, fmt.Errorf("engine: unknown shape kind %d", d.Kind)
	}
	if d == e.shape {
		return false, nil
	}
	e.shape = d
	e.buf.setTarget(e.gen.Generate(d, e.buf.Count(), e.rng))

	impulse := e.params.MorphImpulse
	vel := e.buf.velocity
	for i := range vel {
		vel[i] += impulse * (2*e.rng.Float32() - 1)
	}
	return true, nil
}

// Step advances the simulation by one clamped timestep. Malformed input
// never propagates: a non-finite or negative dt contributes no motion (the
// damping decay still applies), and a malformed dt or non-finite interaction
// point marks the frame inactive, dropping the point history so no velocity
// is ever estimated across the gap. The spring term always runs, so the swarm
// self-heals within a frame or two of bad input.
func (e *Engine) Step(dt float32) {
	if !isFinite(dt) || dt < 0 {
		dt = 0
	}
	if dt > e.params.DTClamp {
		dt = e.params.DTClamp
	}

	wind, haveWind, interactionOK := e.computeWind(dt)
	e.pool.integrate(dt, wind, haveWind)
	e.inter.advance(interactionOK)
}

// computeWind estimates the interaction point's velocity from consecutive
// frames and converts it into a wind vector when it moves fast enough.
// The second return is true when wind applies this frame; the third is
// whether the interaction input was usable at all (drives history updates).
func (e *Engine) computeWind(dt float32) (wind mgl32.Vec3, haveWind, interactionOK bool) {
	s := &e.inter
	if !s.active {
		return mgl32.Vec3{}, false, false
	}
	if !finiteVec(s.point.X(), s.point.Y(), s.point.Z()) {
		// Treat this frame as inactive; the point history is dropped.
		return mgl32.Vec3{}, false, false
	}
	if dt <= 0 {
		// A malformed timestep makes the frame inactive too: a velocity
		// estimated across it would be meaningless, so the history is
		// dropped rather than carried over the gap.
		return mgl32.Vec3{}, false, false
	}
	if !s.hasPrev {
		return mgl32.Vec3{}, false, true
	}

	handVel := s.point.Sub(s.prev).Mul(1 / dt)
	speed := fastSqrt(handVel.LenSqr())
	if speed <= e.params.WindActivationSpeed {
		return mgl32.Vec3{}, false, true
	}
	wind = handVel.Mul(e.params.WindForce)
	if wind.LenSqr() <= windEpsilon {
		return mgl32.Vec3{}, false, true
	}
	return wind, true, true
}
