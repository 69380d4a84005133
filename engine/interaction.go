package engine

import "github.com/go-gl/mathgl/mgl32"

// interactionState tracks the external interaction point. prev holds the
// point seen by the previous Step and is only valid while the interaction
// stays active across consecutive frames; it is dropped the moment the
// interaction deactivates so a resumed interaction never produces a velocity
// estimate from a stale, frames-old point.
type interactionState struct {
	active  bool
	point   mgl32.Vec3
	prev    mgl32.Vec3
	hasPrev bool
}

// set records the host-supplied interaction point for the next Step.
// Deactivating clears the history.
func (s *interactionState) set(active bool, point mgl32.Vec3) {
	if !active {
		*s = interactionState{}
		return
	}
	s.active = true
	s.point = point
}

// advance rolls the current point into history after an integration pass.
// stillActive is false when the frame was treated as inactive (deactivated or
// malformed input), which drops the history.
func (s *interactionState) advance(stillActive bool) {
	if !stillActive {
		s.hasPrev = false
		return
	}
	s.prev = s.point
	s.hasPrev = true
}
