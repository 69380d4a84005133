package main

import (
	"fmt"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/nebula/camera"
	"github.com/pthm-cable/nebula/config"
	"github.com/pthm-cable/nebula/engine"
	"github.com/pthm-cable/nebula/shapes"
	"github.com/pthm-cable/nebula/telemetry"
)

const (
	panelWidth   = 168
	orbitSpeed   = 0.005
	zoomSpeed    = 1.2
	pointColorR  = 120
	pointColorG  = 200
	pointColorB  = 255
	initialOrbit = 14.0
)

// viewer is the graphical front end: it drives Step from the frame loop,
// feeds the mouse in as the interaction point and renders Positions as a 3D
// point cloud. Pure glue; all simulation state lives in the engine.
type viewer struct {
	cfg    *config.Config
	eng    *engine.Engine
	orbit  *camera.Orbit
	output *telemetry.OutputManager

	collector *telemetry.Collector
	perf      *telemetry.PerfStats
	lastStats telemetry.WindowStats

	tick     int
	paused   bool
	textBuf  string
	textEdit bool
}

func newViewer(cfg *config.Config, eng *engine.Engine, output *telemetry.OutputManager, text string) *viewer {
	return &viewer{
		cfg:       cfg,
		eng:       eng,
		orbit:     camera.New(initialOrbit),
		output:    output,
		collector: telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Headless.DT),
		perf:      telemetry.NewPerfStats(),
		textBuf:   text,
	}
}

func (v *viewer) update() {
	v.handleInput()
	if v.paused {
		return
	}

	dt := rl.GetFrameTime()
	start := time.Now()
	v.eng.Step(dt)
	v.perf.Record("step", time.Since(start))
	v.tick++

	if v.collector.ShouldFlush(v.tick) {
		buf := v.eng.Buffer()
		ws := v.collector.Flush(v.tick, v.eng.Shape().String(),
			buf.Positions(), buf.Targets(), buf.Velocities(),
			float64(v.perf.Avg("step").Microseconds()))
		v.lastStats = ws
		if v.output != nil {
			_ = v.output.WriteTelemetry(ws)
		}
	}
}

func (v *viewer) handleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		v.paused = !v.paused
	}

	// Number keys are morph shortcuts.
	switch {
	case rl.IsKeyPressed(rl.KeyOne):
		v.morph(shapes.Descriptor{Kind: shapes.Sphere})
	case rl.IsKeyPressed(rl.KeyTwo):
		v.morph(shapes.Descriptor{Kind: shapes.Ring})
	case rl.IsKeyPressed(rl.KeyThree):
		v.morph(shapes.Descriptor{Kind: shapes.Star})
	case rl.IsKeyPressed(rl.KeyFour):
		v.morph(shapes.Descriptor{Kind: shapes.Heart})
	case rl.IsKeyPressed(rl.KeyFive):
		v.morph(shapes.Descriptor{Kind: shapes.Text, Text: v.textBuf})
	}

	// Right-drag orbits, wheel zooms.
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		delta := rl.GetMouseDelta()
		v.orbit.Rotate(-delta.X*orbitSpeed, delta.Y*orbitSpeed)
	}
	v.orbit.Zoom(rl.GetMouseWheelMove() * zoomSpeed)

	// Held left button drives the interaction point: the mouse ray is
	// dropped onto the plane the swarm occupies.
	mouse := rl.GetMousePosition()
	overPanel := mouse.X < panelWidth
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) && !overPanel {
		ray := rl.GetScreenToWorldRay(mouse, v.camera3D())
		hit, ok := v.orbit.PlaneHit(
			mgl32.Vec3{ray.Position.X, ray.Position.Y, ray.Position.Z},
			mgl32.Vec3{ray.Direction.X, ray.Direction.Y, ray.Direction.Z},
		)
		v.eng.SetInteraction(ok, hit)
	} else {
		v.eng.SetInteraction(false, mgl32.Vec3{})
	}
}

func (v *viewer) morph(d shapes.Descriptor) {
	if morphed, err := v.eng.MorphTo(d); err == nil && morphed {
		v.collector.RecordMorph()
	}
}

func (v *viewer) camera3D() rl.Camera3D {
	pos := v.orbit.Position()
	return rl.Camera3D{
		Position:   rl.Vector3{X: pos.X(), Y: pos.Y(), Z: pos.Z()},
		Target:     rl.Vector3{X: v.orbit.Target.X(), Y: v.orbit.Target.Y(), Z: v.orbit.Target.Z()},
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}
}

func (v *viewer) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 8, G: 10, B: 18, A: 255})

	cam := v.camera3D()
	rl.BeginMode3D(cam)
	points := v.eng.Positions()
	color := rl.Color{R: pointColorR, G: pointColorG, B: pointColorB, A: 255}
	for j := 0; j+2 < len(points); j += 3 {
		rl.DrawPoint3D(rl.Vector3{X: points[j], Y: points[j+1], Z: points[j+2]}, color)
	}
	rl.EndMode3D()

	v.drawPanel()
	v.drawStats()
	rl.DrawFPS(int32(v.cfg.Screen.Width)-96, 8)

	rl.EndDrawing()
}

// drawPanel renders the shape controls on the left edge.
func (v *viewer) drawPanel() {
	x := float32(8)
	y := float32(8)
	w := float32(panelWidth - 16)
	h := float32(28)
	step := h + 6

	buttons := []struct {
		label string
		desc  shapes.Descriptor
	}{
		{"Sphere [1]", shapes.Descriptor{Kind: shapes.Sphere}},
		{"Ring [2]", shapes.Descriptor{Kind: shapes.Ring}},
		{"Star [3]", shapes.Descriptor{Kind: shapes.Star}},
		{"Heart [4]", shapes.Descriptor{Kind: shapes.Heart}},
	}
	for _, b := range buttons {
		if gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: h}, b.label) {
			v.morph(b.desc)
		}
		y += step
	}

	if gui.TextBox(rl.Rectangle{X: x, Y: y, Width: w, Height: h}, &v.textBuf, 32, v.textEdit) {
		v.textEdit = !v.textEdit
	}
	y += step
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: h}, "Text [5]") {
		v.morph(shapes.Descriptor{Kind: shapes.Text, Text: v.textBuf})
	}
	y += step + 8

	stiffness, damping, windForce := v.eng.Tuning()

	rl.DrawText("Stiffness", int32(x), int32(y), 10, rl.Gray)
	y += 12
	newStiffness := gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: w - 34, Height: 16},
		"", "", stiffness, 0.5, 12.0,
	)
	rl.DrawText(fmt.Sprintf("%.1f", stiffness), int32(x+w-30), int32(y+2), 10, rl.LightGray)
	y += 22

	rl.DrawText("Damping", int32(x), int32(y), 10, rl.Gray)
	y += 12
	newDamping := gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: w - 34, Height: 16},
		"", "", damping, 0.80, 0.99,
	)
	rl.DrawText(fmt.Sprintf("%.2f", damping), int32(x+w-30), int32(y+2), 10, rl.LightGray)
	y += 22

	rl.DrawText("Wind force", int32(x), int32(y), 10, rl.Gray)
	y += 12
	newWindForce := gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: w - 34, Height: 16},
		"", "", windForce, 0.0, 40.0,
	)
	rl.DrawText(fmt.Sprintf("%.0f", windForce), int32(x+w-30), int32(y+2), 10, rl.LightGray)

	if newStiffness != stiffness || newDamping != damping || newWindForce != windForce {
		v.eng.Tune(newStiffness, newDamping, newWindForce)
	}
}

func (v *viewer) drawStats() {
	y := int32(v.cfg.Screen.Height - 52)
	rl.DrawText(fmt.Sprintf("shape: %s", v.eng.Shape()), 8, y, 10, rl.LightGray)
	rl.DrawText(fmt.Sprintf("mean dist: %.3f  mean speed: %.3f  step: %.0fus",
		v.lastStats.MeanDist, v.lastStats.MeanSpeed, v.lastStats.StepAvgUs), 8, y+14, 10, rl.LightGray)
	rl.DrawText("L-drag: wind   R-drag: orbit   wheel: zoom   space: pause", 8, y+28, 10, rl.Gray)
}
