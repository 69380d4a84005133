package engine

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/nebula/shapes"
)

// newTestEngine builds a deterministic single-threaded engine.
func newTestEngine(t *testing.T, n int, mutate func(*Params)) *Engine {
	t.Helper()
	params := DefaultParams()
	params.Particles = n
	params.Workers = 1
	if mutate != nil {
		mutate(&params)
	}
	e := New(params, shapes.NewGenerator(shapes.DefaultParams()), rand.New(rand.NewSource(42)))
	t.Cleanup(e.Close)
	return e
}

func TestBufferLengthsAfterConstruction(t *testing.T) {
	for _, n := range []int{0, 1, 100, 16000} {
		e := newTestEngine(t, n, nil)
		buf := e.Buffer()
		if len(buf.Positions()) != 3*n || len(buf.Targets()) != 3*n || len(buf.Velocities()) != 3*n {
			t.Errorf("n=%d: lengths %d/%d/%d, want %d",
				n, len(buf.Positions()), len(buf.Targets()), len(buf.Velocities()), 3*n)
		}
	}
}

func TestNewSeedsSphere(t *testing.T) {
	e := newTestEngine(t, 50, nil)
	if e.Shape() != (shapes.Descriptor{Kind: shapes.Sphere}) {
		t.Fatalf("expected sphere seed, got %s", e.Shape())
	}
	buf := e.Buffer()
	for i := range buf.Positions() {
		if buf.Positions()[i] != buf.Targets()[i] {
			t.Fatal("position and target should start identical")
		}
		if buf.Velocities()[i] != 0 {
			t.Fatal("velocity should start at zero")
		}
	}
}

func TestMorphIdempotent(t *testing.T) {
	e := newTestEngine(t, 100, nil)

	morphed, err := e.MorphTo(shapes.Descriptor{Kind: shapes.Ring})
	if err != nil || !morphed {
		t.Fatalf("first morph: got (%v, %v), want (true, nil)", morphed, err)
	}

	target := append([]float32(nil), e.Buffer().Targets()...)
	velocity := append([]float32(nil), e.Buffer().Velocities()...)

	morphed, err = e.MorphTo(shapes.Descriptor{Kind: shapes.Ring})
	if err != nil {
		t.Fatalf("repeated morph: unexpected error %v", err)
	}
	if morphed {
		t.Error("repeated morph should report no transition")
	}
	for i, v := range e.Buffer().Targets() {
		if v != target[i] {
			t.Fatalf("repeated morph changed target at index %d", i)
		}
	}
	for i, v := range e.Buffer().Velocities() {
		if v != velocity[i] {
			t.Fatalf("repeated morph added an impulse at index %d", i)
		}
	}
}

func TestMorphTextPayloadIdentity(t *testing.T) {
	e := newTestEngine(t, 20, nil)

	if morphed, _ := e.MorphTo(shapes.Descriptor{Kind: shapes.Text, Text: "A"}); !morphed {
		t.Fatal("morph to text A should transition")
	}
	if morphed, _ := e.MorphTo(shapes.Descriptor{Kind: shapes.Text, Text: "B"}); !morphed {
		t.Fatal("different text payload should transition")
	}
	if morphed, _ := e.MorphTo(shapes.Descriptor{Kind: shapes.Text, Text: "B"}); morphed {
		t.Fatal("same text payload should be a no-op")
	}
}

func TestMorphUnknownKind(t *testing.T) {
	e := newTestEngine(t, 50, nil)
	target := append([]float32(nil), e.Buffer().Targets()...)
	velocity := append([]float32(nil), e.Buffer().Velocities()...)
	shape := e.Shape()

	morphed, err := e.MorphTo(shapes.Descriptor{Kind: shapes.Kind(99)})
	if err == nil {
		t.Fatal("unknown kind should be a configuration error")
	}
	if morphed {
		t.Error("failed morph should report no transition")
	}
	if e.Shape() != shape {
		t.Error("failed morph should leave the active shape authoritative")
	}
	for i, v := range e.Buffer().Targets() {
		if v != target[i] {
			t.Fatalf("failed morph mutated target at index %d", i)
		}
	}
	for i, v := range e.Buffer().Velocities() {
		if v != velocity[i] {
			t.Fatalf("failed morph mutated velocity at index %d", i)
		}
	}
}

func TestMorphAppliesBoundedImpulse(t *testing.T) {
	e := newTestEngine(t, 200, nil)
	if morphed, err := e.MorphTo(shapes.Descriptor{Kind: shapes.Star}); err != nil || !morphed {
		t.Fatalf("morph failed: (%v, %v)", morphed, err)
	}

	impulse := e.params.MorphImpulse
	changed := false
	for _, v := range e.Buffer().Velocities() {
		if v != 0 {
			changed = true
		}
		if v < -impulse || v > impulse {
			t.Fatalf("impulse component %f outside ±%f", v, impulse)
		}
	}
	if !changed {
		t.Error("morph should add an explosion impulse to velocities")
	}
}

func TestTuneRejectsUnstableValues(t *testing.T) {
	e := newTestEngine(t, 10, nil)

	e.Tune(6.0, 0.95, 20.0)
	if s, d, w := e.Tuning(); s != 6.0 || d != 0.95 || w != 20.0 {
		t.Fatalf("tune not applied: got (%f, %f, %f)", s, d, w)
	}

	// Out-of-range values leave the previous tuning in place.
	e.Tune(-1, 1.5, -3)
	if s, d, w := e.Tuning(); s != 6.0 || d != 0.95 || w != 20.0 {
		t.Errorf("unstable values should be rejected: got (%f, %f, %f)", s, d, w)
	}
}

func TestCopyPositionsSnapshot(t *testing.T) {
	e := newTestEngine(t, 30, nil)
	snap := e.CopyPositions(nil)
	if len(snap) != 90 {
		t.Fatalf("expected 90 values, got %d", len(snap))
	}
	snap[0] += 100
	if e.Positions()[0] == snap[0] {
		t.Error("CopyPositions must not alias the live buffer")
	}
}
