package engine

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// integrateChunk advances particles [i0, i1) by one timestep. Particles are
// independent, so chunks over disjoint ranges never alias and the pass is
// safe to run across workers. rng feeds only the turbulence noise; each
// worker owns its own source.
//
// Per-particle order matters: spring acceleration first, then wind, then
// damping, then semi-implicit Euler (velocity moves position only after the
// force update), which keeps stiff springs stable where explicit Euler
// diverges.
func (e *Engine) integrateChunk(i0, i1 int, dt float32, wind mgl32.Vec3, haveWind bool, rng *rand.Rand) {
	k := e.params.Stiffness
	damp := e.params.Damping
	radiusSq := e.params.WindRadius * e.params.WindRadius
	turb := e.params.Turbulence

	pos := e.buf.position
	tgt := e.buf.target
	vel := e.buf.velocity

	var px, py, pz, wx, wy, wz float32
	if haveWind {
		px, py, pz = e.inter.point.Elem()
		wx = wind.X() * dt
		wy = wind.Y() * dt
		wz = wind.Z() * dt
	}

	for i := i0; i < i1; i++ {
		j := 3 * i

		// Hooke's law toward the morph target.
		vel[j] += (tgt[j] - pos[j]) * k * dt
		vel[j+1] += (tgt[j+1] - pos[j+1]) * k * dt
		vel[j+2] += (tgt[j+2] - pos[j+2]) * k * dt

		if haveWind {
			dx := pos[j] - px
			dy := pos[j+1] - py
			dz := pos[j+2] - pz
			if dx*dx+dy*dy+dz*dz <= radiusSq {
				// Independent per-axis noise turns the push into
				// localized turbulence rather than uniform drift.
				vel[j] += wx + turb*(2*rng.Float32()-1)
				vel[j+1] += wy + turb*(2*rng.Float32()-1)
				vel[j+2] += wz + turb*(2*rng.Float32()-1)
			}
		}

		// Exponential decay, every frame regardless of forcing.
		vel[j] *= damp
		vel[j+1] *= damp
		vel[j+2] *= damp

		pos[j] += vel[j] * dt
		pos[j+1] += vel[j+1] * dt
		pos[j+2] += vel[j+2] * dt
	}
}
