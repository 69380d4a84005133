package shapes

import (
	"math"
	"math/rand"
	"testing"
)

func testGenerator() *Generator {
	return NewGenerator(DefaultParams())
}

func checkFinite(t *testing.T, pts []float32) {
	t.Helper()
	for i, v := range pts {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			t.Fatalf("non-finite value %f at index %d", v, i)
		}
	}
}

func TestGenerateLengthAndFinite(t *testing.T) {
	descriptors := []Descriptor{
		{Kind: Sphere},
		{Kind: Ring},
		{Kind: Star},
		{Kind: Heart},
		{Kind: Text, Text: "HI"},
		{Kind: Text, Text: ""},
		{Kind: Kind(99)}, // unknown kinds degrade, never fail
	}
	counts := []int{0, 1, 17, 1000}

	g := testGenerator()
	for _, d := range descriptors {
		for _, n := range counts {
			pts := g.Generate(d, n, rand.New(rand.NewSource(1)))
			if len(pts) != 3*n {
				t.Errorf("%s n=%d: expected %d values, got %d", d, n, 3*n, len(pts))
			}
			checkFinite(t, pts)
		}
	}
}

func TestSphereOnSurface(t *testing.T) {
	g := testGenerator()
	r := float64(g.Params().SphereRadius)
	pts := g.Generate(Descriptor{Kind: Sphere}, 500, rand.New(rand.NewSource(7)))

	for j := 0; j < len(pts); j += 3 {
		d := math.Sqrt(float64(pts[j]*pts[j] + pts[j+1]*pts[j+1] + pts[j+2]*pts[j+2]))
		if math.Abs(d-r) > 1e-3 {
			t.Fatalf("point %d at radius %f, expected %f", j/3, d, r)
		}
	}
}

func TestRingWithinTorusBounds(t *testing.T) {
	g := testGenerator()
	p := g.Params()
	// Jitter is per-axis, so allow sqrt(3) of it on the combined distance.
	slack := float64(p.RingJitter) * math.Sqrt(3)
	pts := g.Generate(Descriptor{Kind: Ring}, 500, rand.New(rand.NewSource(7)))

	for j := 0; j < len(pts); j += 3 {
		axisDist := math.Sqrt(float64(pts[j]*pts[j] + pts[j+1]*pts[j+1]))
		lo := float64(p.TorusMajor-p.TorusMinor) - slack
		hi := float64(p.TorusMajor+p.TorusMinor) + slack
		if axisDist < lo || axisDist > hi {
			t.Fatalf("point %d at axis distance %f, outside [%f, %f]", j/3, axisDist, lo, hi)
		}
		if z := math.Abs(float64(pts[j+2])); z > float64(p.TorusMinor)+slack {
			t.Fatalf("point %d at |z|=%f, above tube radius", j/3, z)
		}
	}
}

func TestStarRadiusBounds(t *testing.T) {
	g := testGenerator()
	p := g.Params()
	pts := g.Generate(Descriptor{Kind: Star}, 500, rand.New(rand.NewSource(7)))

	lo := float64(p.StarBase) - 1e-3
	hi := float64(p.StarBase+p.StarAmplitude) + 1e-3
	for j := 0; j < len(pts); j += 3 {
		d := math.Sqrt(float64(pts[j]*pts[j] + pts[j+1]*pts[j+1] + pts[j+2]*pts[j+2]))
		if d < lo || d > hi {
			t.Fatalf("point %d at radius %f, outside [%f, %f]", j/3, d, lo, hi)
		}
	}
}

func TestHeartBoundedAndNotDegenerate(t *testing.T) {
	g := testGenerator()
	pts := g.Generate(Descriptor{Kind: Heart}, 500, rand.New(rand.NewSource(7)))

	spread := float32(0)
	for j := 0; j < len(pts); j += 3 {
		for a := 0; a < 3; a++ {
			v := pts[j+a]
			if v > 20 || v < -20 {
				t.Fatalf("point %d coordinate %f out of plausible bounds", j/3, v)
			}
			if v > spread {
				spread = v
			}
		}
	}
	if spread < 1 {
		t.Errorf("heart cloud collapsed, max coordinate %f", spread)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	g := testGenerator()
	for _, d := range []Descriptor{{Kind: Sphere}, {Kind: Ring}, {Kind: Star}, {Kind: Heart}} {
		a := g.Generate(d, 64, rand.New(rand.NewSource(99)))
		b := g.Generate(d, 64, rand.New(rand.NewSource(99)))
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("%s: same seed diverged at index %d: %f vs %f", d, i, a[i], b[i])
			}
		}
	}
}

func TestUnknownKindFallsBackToOrigin(t *testing.T) {
	g := testGenerator()
	pts := g.Generate(Descriptor{Kind: Kind(42)}, 5, rand.New(rand.NewSource(1)))
	for i, v := range pts {
		if v != 0 {
			t.Fatalf("expected origin fallback, got %f at index %d", v, i)
		}
	}
}

func TestParseKind(t *testing.T) {
	cases := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"sphere", Sphere, false},
		{"RING", Ring, false},
		{" star ", Star, false},
		{"heart", Heart, false},
		{"text", Text, false},
		{"cube", 0, true},
		{"", 0, true},
	}
	for _, c := range cases {
		got, err := ParseKind(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseKind(%q): expected error, got %v", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseKind(%q): unexpected error %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseKind(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestDescriptorIdentity(t *testing.T) {
	a := Descriptor{Kind: Text, Text: "A"}
	b := Descriptor{Kind: Text, Text: "B"}
	if a == b {
		t.Error("text payload should distinguish descriptors")
	}
	if a != (Descriptor{Kind: Text, Text: "A"}) {
		t.Error("equal descriptors should compare equal")
	}
}
