package physics

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/molleindustria/localplay/internal/smooth"
)

var ErrNoMover = errors.New("physics: mover is nil")

// Mover applies a displacement with collision and reports whether the result
// rests on walkable ground.
type Mover interface {
	Move(from, displacement mgl64.Vec3) (mgl64.Vec3, bool)
}

// Step is what one frame of integration asked the mover to do.
type Step struct {
	Displacement mgl64.Vec3
	Jumped       bool
}

// JumpVelocity is the launch speed that peaks at height under constant
// gravity (gravity < 0).
func JumpVelocity(height, gravity float64) float64 {
	return math.Sqrt(height * -2 * gravity)
}

// Integrate advances state by one frame of dt seconds and returns the
// displacement to submit to a Mover. Position and Grounded are left for the
// mover to update. PendingJump is always cleared, whether or not it was used.
func Integrate(state *CharacterState, sticks Sticks, scheme Scheme, c Constants, dt float64) Step {
	if state == nil {
		return Step{}
	}

	targetSpeed := c.Speed
	if state.Sprinting && scheme.UsesSprint() {
		targetSpeed = c.SprintSpeed
	}

	var step Step
	state.VerticalVelocity += c.Gravity * dt
	if state.Grounded && state.PendingJump {
		state.VerticalVelocity = JumpVelocity(c.JumpHeight, c.Gravity)
		step.Jumped = true
	}

	var horizontal mgl64.Vec3
	switch scheme {
	case SingleStick:
		horizontal = singleStick(state, sticks, targetSpeed, c)
	case TwinStick:
		horizontal = twinStick(state, sticks, targetSpeed, c)
	case FirstPersonLook:
		horizontal = firstPersonLook(state, sticks, targetSpeed, c, dt)
	case RelativeThrust:
		horizontal = relativeThrust(state, sticks, targetSpeed, c, dt)
	}

	step.Displacement = horizontal.Add(worldUp.Mul(state.VerticalVelocity)).Mul(dt)
	state.PendingJump = false
	return step
}

func singleStick(state *CharacterState, sticks Sticks, speed float64, c Constants) mgl64.Vec3 {
	faceStick(state, sticks.Left, c.DeadZone)
	return worldPlanar(sticks.Left, speed)
}

func twinStick(state *CharacterState, sticks Sticks, speed float64, c Constants) mgl64.Vec3 {
	faceStick(state, sticks.Right, c.DeadZone)
	return worldPlanar(sticks.Left, speed)
}

func firstPersonLook(state *CharacterState, sticks Sticks, speed float64, c Constants, dt float64) mgl64.Vec3 {
	turn(state, sticks.Right.X(), c.RotationSpeed, dt)

	targetPitch := -sticks.Right.Y() * c.LookRange
	pitch, pitchVelocity := smooth.DampAngle(state.Pitch, targetPitch, state.PitchVelocity, c.LookSmoothing, smooth.Unlimited, dt)
	state.Pitch = mgl64.Clamp(pitch, -c.LookRange, c.LookRange)
	state.PitchVelocity = pitchVelocity

	local := mgl64.Vec3{sticks.Left.X() * speed, 0, sticks.Left.Y() * speed}
	return state.Rotation().Rotate(local)
}

func relativeThrust(state *CharacterState, sticks Sticks, speed float64, c Constants, dt float64) mgl64.Vec3 {
	turn(state, sticks.Right.X(), c.RotationSpeed, dt)
	return state.Forward().Mul(sticks.Left.Y() * speed)
}

// faceStick snaps yaw to the stick direction outside the dead zone and leaves
// it untouched otherwise.
func faceStick(state *CharacterState, stick mgl64.Vec2, deadZone float64) {
	if stick.Len() <= deadZone {
		return
	}
	state.Yaw = mgl64.RadToDeg(math.Atan2(stick.X(), stick.Y()))
}

func turn(state *CharacterState, amount, rotationSpeed, dt float64) {
	delta := amount * rotationSpeed * dt
	if delta == 0 {
		return
	}
	state.Yaw = smooth.NormalizeAngle(state.Yaw + delta)
}

func worldPlanar(stick mgl64.Vec2, speed float64) mgl64.Vec3 {
	return mgl64.Vec3{stick.X() * speed, 0, stick.Y() * speed}
}
