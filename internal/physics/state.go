package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var worldUp = mgl64.Vec3{0, 1, 0}

// CharacterState is everything the integrator carries from one frame to the
// next. Yaw is in degrees about +Y with yaw 0 facing +Z. Pitch is the
// first-person look angle, positive looking down.
type CharacterState struct {
	Position         mgl64.Vec3
	Yaw              float64
	Pitch            float64
	PitchVelocity    float64
	VerticalVelocity float64
	Sprinting        bool
	PendingJump      bool
	Grounded         bool
}

func (s CharacterState) Rotation() mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(s.Yaw), worldUp)
}

func (s CharacterState) Forward() mgl64.Vec3 {
	return yawForward(s.Yaw)
}

func (s CharacterState) Right() mgl64.Vec3 {
	yawRad := mgl64.DegToRad(s.Yaw)
	return mgl64.Vec3{math.Cos(yawRad), 0, -math.Sin(yawRad)}
}

// LookRotation combines yaw with the first-person pitch.
func (s CharacterState) LookRotation() mgl64.Quat {
	pitch := mgl64.QuatRotate(mgl64.DegToRad(s.Pitch), mgl64.Vec3{1, 0, 0})
	return s.Rotation().Mul(pitch)
}

func yawForward(yaw float64) mgl64.Vec3 {
	yawRad := mgl64.DegToRad(yaw)
	return mgl64.Vec3{math.Sin(yawRad), 0, math.Cos(yawRad)}
}

// Sticks is one frame of analog input. Components are expected in [-1, 1];
// vectors are not required to be normalized.
type Sticks struct {
	Left  mgl64.Vec2
	Right mgl64.Vec2
}

// Scheme selects how sticks map to movement and facing.
type Scheme int

const (
	// SingleStick moves in world axes with the left stick and faces where it
	// points.
	SingleStick Scheme = iota
	// TwinStick moves with the left stick and faces the right stick.
	TwinStick
	// FirstPersonLook strafes relative to facing, turns and looks with the
	// right stick.
	FirstPersonLook
	// RelativeThrust drives forward/back along facing and turns with the
	// right stick.
	RelativeThrust
)

func (s Scheme) String() string {
	switch s {
	case SingleStick:
		return "single_stick"
	case TwinStick:
		return "twin_stick"
	case FirstPersonLook:
		return "first_person"
	case RelativeThrust:
		return "relative_thrust"
	default:
		return "unknown"
	}
}

// UsesSprint reports whether the sprint flag changes this scheme's speed.
// Only the world-axis stick schemes sprint.
func (s Scheme) UsesSprint() bool {
	return s == SingleStick || s == TwinStick
}

func ParseScheme(name string) (Scheme, error) {
	switch name {
	case "single_stick", "single":
		return SingleStick, nil
	case "twin_stick", "twin":
		return TwinStick, nil
	case "first_person", "fps":
		return FirstPersonLook, nil
	case "relative_thrust", "relative":
		return RelativeThrust, nil
	default:
		return 0, fmt.Errorf("unknown movement scheme %q", name)
	}
}

func (s Scheme) MarshalText() ([]byte, error) {
	if s < SingleStick || s > RelativeThrust {
		return nil, fmt.Errorf("invalid movement scheme %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Scheme) UnmarshalText(text []byte) error {
	parsed, err := ParseScheme(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
