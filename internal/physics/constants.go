package physics

const (
	DefaultSpeed         = 10.0
	DefaultSprintSpeed   = 10.0
	DefaultRotationSpeed = 100.0
	DefaultJumpHeight    = 1.2
	DefaultGravity       = -15.0
	DefaultLookRange     = 60.0
	DefaultLookSmoothing = 0.3
	DefaultDeadZone      = 0.1

	CharacterWidth         = 0.6
	CharacterHeight        = 1.8
	GroundProbeDistance    = 0.001
	CollisionAxisTolerance = 1e-9
)

// Constants tunes one character's movement. Speeds are world units per
// second, RotationSpeed and LookRange are degrees.
type Constants struct {
	Speed         float64
	SprintSpeed   float64
	Gravity       float64
	JumpHeight    float64
	RotationSpeed float64
	LookRange     float64
	LookSmoothing float64
	DeadZone      float64
}

func DefaultConstants() Constants {
	return Constants{
		Speed:         DefaultSpeed,
		SprintSpeed:   DefaultSprintSpeed,
		Gravity:       DefaultGravity,
		JumpHeight:    DefaultJumpHeight,
		RotationSpeed: DefaultRotationSpeed,
		LookRange:     DefaultLookRange,
		LookSmoothing: DefaultLookSmoothing,
		DeadZone:      DefaultDeadZone,
	}
}
