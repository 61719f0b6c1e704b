package body

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/molleindustria/localplay/internal/physics"
)

// SprintThreshold is the trigger value at which sprint counts as held.
const SprintThreshold = 0.5

// Input is one frame of controller state for a character. Jump and Kick are
// edges: true only on the frame the button went down.
type Input struct {
	Left   mgl64.Vec2
	Right  mgl64.Vec2
	Sprint float64
	Jump   bool
	Kick   bool
}

func (in Input) Sticks() physics.Sticks {
	return physics.Sticks{Left: in.Left, Right: in.Right}
}

// normalizeInput clamps stick components into [-1, 1]. Magnitude is left
// alone; the dead zone check is the integrator's job.
func normalizeInput(in Input) Input {
	out := in
	out.Left = clampStick(in.Left)
	out.Right = clampStick(in.Right)
	return out
}

func clampStick(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{mgl64.Clamp(v.X(), -1, 1), mgl64.Clamp(v.Y(), -1, 1)}
}
