package engine

// ParticleBuffer owns the three co-indexed per-particle arrays. Each array
// holds 3 contiguous floats (x,y,z) per particle, so all three are exactly
// 3*count long for the buffer's lifetime. Particle i owns slots [3i, 3i+2].
//
// Only two writers exist: the integrator pass mutates position and velocity,
// and the morph path replaces target wholesale and adds impulses to velocity.
// Everything else reads.
type ParticleBuffer struct {
	position []float32
	target   []float32
	velocity []float32
	count    int
}

func newParticleBuffer(n int) *ParticleBuffer {
	if n < 0 {
		n = 0
	}
	return &ParticleBuffer{
		position: make([]float32, 3*n),
		target:   make([]float32, 3*n),
		velocity: make([]float32, 3*n),
		count:    n,
	}
}

// Count returns the particle capacity.
func (b *ParticleBuffer) Count() int {
	return b.count
}

// Positions returns the live position array. Callers must treat it as
// read-only; it is a view, not a copy.
func (b *ParticleBuffer) Positions() []float32 {
	return b.position
}

// Targets returns the live target array. Read-only for callers.
func (b *ParticleBuffer) Targets() []float32 {
	return b.target
}

// Velocities returns the live velocity array. Read-only for callers.
func (b *ParticleBuffer) Velocities() []float32 {
	return b.velocity
}

// setTarget replaces the whole target array from a freshly generated cloud.
// Reserved for the morph path.
func (b *ParticleBuffer) setTarget(pts []float32) {
	copy(b.target, pts)
}

// seed initializes position and target to the same cloud with zero velocity.
// Used once at engine construction.
func (b *ParticleBuffer) seed(pts []float32) {
	copy(b.position, pts)
	copy(b.target, pts)
	for i := range b.velocity {
		b.velocity[i] = 0
	}
}
