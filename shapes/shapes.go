// Package shapes generates dense 3D point clouds for the swarm's morph
// targets. Generation is pure: same descriptor, count and RNG state always
// produce the same cloud, and every input (including n=0 and unrenderable
// text) yields exactly 3n finite values.
package shapes

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
)

// Kind identifies one of the built-in target shapes.
type Kind uint8

const (
	Sphere Kind = iota
	Ring
	Star
	Heart
	Text
)

var kindNames = [...]string{"sphere", "ring", "star", "heart", "text"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Valid reports whether k names a known shape.
func (k Kind) Valid() bool {
	return int(k) < len(kindNames)
}

// ParseKind resolves a shape name from flags or the GUI.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("shapes: unknown shape %q", s)
}

// Descriptor fully identifies a target shape. For Text shapes the string
// payload is part of the identity: two descriptors with the same kind but
// different text are different shapes.
type Descriptor struct {
	Kind Kind
	Text string
}

func (d Descriptor) String() string {
	if d.Kind == Text {
		return fmt.Sprintf("text(%q)", d.Text)
	}
	return d.Kind.String()
}

// Valid reports whether the descriptor names a known shape.
func (d Descriptor) Valid() bool {
	return d.Kind.Valid()
}

// Params holds the tunable magnitudes of each sampler. The per-shape jitter
// values differ on purpose; they are independent knobs, not one rule.
type Params struct {
	SphereRadius float32 `yaml:"sphere_radius"`

	TorusMajor float32 `yaml:"torus_major"`
	TorusMinor float32 `yaml:"torus_minor"`
	RingJitter float32 `yaml:"ring_jitter"`

	StarBase      float32 `yaml:"star_base"`
	StarAmplitude float32 `yaml:"star_amplitude"`
	StarSpikes    int     `yaml:"star_spikes"`

	HeartScale float32 `yaml:"heart_scale"`

	Text TextParams `yaml:"text"`
}

// DefaultParams returns the stock shape magnitudes.
func DefaultParams() Params {
	return Params{
		SphereRadius:  4.0,
		TorusMajor:    3.5,
		TorusMinor:    1.2,
		RingJitter:    0.1,
		StarBase:      2.5,
		StarAmplitude: 2.0,
		StarSpikes:    5,
		HeartScale:    0.25,
		Text:          DefaultTextParams(),
	}
}

// Generator produces point clouds for descriptors. The zero Generator is not
// usable; construct with NewGenerator.
type Generator struct {
	params Params
	raster Rasterizer
}

// NewGenerator builds a generator with the bundled bold font rasterizer for
// Text shapes. A failed font load leaves text generation on its origin
// fallback rather than failing construction.
func NewGenerator(p Params) *Generator {
	raster, err := NewFontRasterizer(p.Text.ImageSize, p.Text.FontSize)
	if err != nil {
		raster = nil
	}
	return &Generator{params: p, raster: raster}
}

// NewGeneratorWithRasterizer substitutes the text rasterizer, used by tests
// and by hosts that bring their own font stack.
func NewGeneratorWithRasterizer(p Params, r Rasterizer) *Generator {
	return &Generator{params: p, raster: r}
}

// Params returns the generator's shape magnitudes.
func (g *Generator) Params() Params {
	return g.params
}

// Generate returns a flat point cloud of exactly 3n floats (x,y,z per
// particle). It never fails: an invalid kind, empty text or n=0 all degrade
// to origin points or an empty slice.
func (g *Generator) Generate(d Descriptor, n int, rng *rand.Rand) []float32 {
	if n <= 0 {
		return []float32{}
	}
	out := make([]float32, 3*n)
	switch d.Kind {
	case Sphere:
		g.sampleSphere(out, rng)
	case Ring:
		g.sampleRing(out, rng)
	case Star:
		g.sampleStar(out, rng)
	case Heart:
		g.sampleHeart(out, rng)
	case Text:
		g.sampleText(out, d.Text, rng)
	}
	// Unknown kinds leave the zero value: n points at the origin.
	return out
}

// sampleSphere draws uniformly on the sphere surface via the inverse CDF:
// theta uniform, phi = acos(2u-1).
func (g *Generator) sampleSphere(out []float32, rng *rand.Rand) {
	r := float64(g.params.SphereRadius)
	for j := 0; j < len(out); j += 3 {
		theta := 2 * math.Pi * rng.Float64()
		phi := math.Acos(2*rng.Float64() - 1)
		sinPhi := math.Sin(phi)
		out[j] = float32(r * sinPhi * math.Cos(theta))
		out[j+1] = float32(r * sinPhi * math.Sin(theta))
		out[j+2] = float32(r * math.Cos(phi))
	}
}

// sampleRing scatters points over a torus surface with a small positional
// jitter so the ring reads as fluid rather than rigid.
func (g *Generator) sampleRing(out []float32, rng *rand.Rand) {
	major := float64(g.params.TorusMajor)
	minor := float64(g.params.TorusMinor)
	jitter := g.params.RingJitter
	for j := 0; j < len(out); j += 3 {
		u := 2 * math.Pi * rng.Float64()
		v := 2 * math.Pi * rng.Float64()
		ring := major + minor*math.Cos(v)
		out[j] = float32(ring*math.Cos(u)) + symmetric(rng, jitter)
		out[j+1] = float32(ring*math.Sin(u)) + symmetric(rng, jitter)
		out[j+2] = float32(minor*math.Sin(v)) + symmetric(rng, jitter)
	}
}

// sampleStar modulates a spherical radius with a squared product of sines,
// producing lobed spikes.
func (g *Generator) sampleStar(out []float32, rng *rand.Rand) {
	base := float64(g.params.StarBase)
	amp := float64(g.params.StarAmplitude)
	spikes := float64(g.params.StarSpikes)
	for j := 0; j < len(out); j += 3 {
		u := 2 * math.Pi * rng.Float64()
		v := math.Pi * rng.Float64()
		s := math.Sin(spikes*u) * math.Sin(spikes*v)
		r := base + amp*s*s
		sinV := math.Sin(v)
		out[j] = float32(r * sinV * math.Cos(u))
		out[j+1] = float32(r * sinV * math.Sin(u))
		out[j+2] = float32(r * math.Cos(v))
	}
}

// sampleHeart sweeps the classic parametric heart curve through a full
// revolution, then rotates the solid 90 degrees about X so it stands upright.
func (g *Generator) sampleHeart(out []float32, rng *rand.Rand) {
	scale := float64(g.params.HeartScale)
	for j := 0; j < len(out); j += 3 {
		t := 2 * math.Pi * rng.Float64()
		rev := 2 * math.Pi * rng.Float64()

		// Heart outline in its own plane.
		hx := 16 * math.Pow(math.Sin(t), 3) * scale
		hy := (13*math.Cos(t) - 5*math.Cos(2*t) - 2*math.Cos(3*t) - math.Cos(4*t)) * scale

		// Revolve about the outline's vertical axis, up along +Z.
		x := hx * math.Cos(rev)
		y := hx * math.Sin(rev)
		z := hy

		// Rotate -90 deg about X: Z-up becomes Y-up.
		out[j] = float32(x)
		out[j+1] = float32(z)
		out[j+2] = float32(-y)
	}
}

// symmetric returns a uniform value in [-mag, mag].
func symmetric(rng *rand.Rand, mag float32) float32 {
	return mag * (2*rng.Float32() - 1)
}
