package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/molleindustria/localplay/internal/smooth"
)

const (
	DefaultSmoothTime         = 0.3
	DefaultAnticipateDistance = 1.0
)

var worldUp = mgl64.Vec3{0, 1, 0}

// Target is anything the camera can trail. The camera never owns it.
type Target interface {
	Position() mgl64.Vec3
	Forward() mgl64.Vec3
}

type Config struct {
	// SmoothTime is the position spring's response time in seconds.
	SmoothTime float64
	// AnticipateDistance leads the camera this far along the target's
	// facing.
	AnticipateDistance float64
	LookAtTarget       bool
	// SmoothRotation damps look-at yaw and pitch with RotationSmoothTime
	// instead of snapping every frame.
	SmoothRotation     bool
	RotationSmoothTime float64
	// Parent carries the camera along until Unparent detaches it at start.
	Parent   Target
	Unparent bool
}

func DefaultConfig() Config {
	return Config{
		SmoothTime:         DefaultSmoothTime,
		AnticipateDistance: DefaultAnticipateDistance,
		LookAtTarget:       true,
		RotationSmoothTime: DefaultSmoothTime,
		Unparent:           true,
	}
}

// Follow trails a target at the offset it had when the camera was created.
type Follow struct {
	cfg    Config
	target Target
	parent Target

	position   mgl64.Vec3
	velocity   mgl64.Vec3
	rotation   mgl64.Quat
	offset     mgl64.Vec3
	lastParent mgl64.Vec3

	yaw   smooth.AngleChannel
	pitch smooth.AngleChannel
}

// New places a camera at position and captures its offset from target. A nil
// target yields a camera that holds still until SetTarget.
func New(position mgl64.Vec3, target Target, cfg Config) *Follow {
	f := &Follow{
		cfg:      cfg,
		target:   target,
		position: position,
		rotation: mgl64.QuatIdent(),
		yaw:      smooth.NewAngleChannel(0, cfg.RotationSmoothTime),
		pitch:    smooth.NewAngleChannel(0, cfg.RotationSmoothTime),
	}
	if target != nil {
		f.offset = position.Sub(target.Position())
	}
	if cfg.Parent != nil && !cfg.Unparent {
		f.parent = cfg.Parent
		f.lastParent = cfg.Parent.Position()
	}
	return f
}

// Update advances the camera by dt seconds. It does nothing while the target
// is cleared or dt is not positive.
func (f *Follow) Update(dt float64) {
	if f == nil || f.target == nil || dt <= 0 {
		return
	}

	if f.parent != nil {
		p := f.parent.Position()
		f.position = f.position.Add(p.Sub(f.lastParent))
		f.lastParent = p
	}

	targetPos := f.target.Position()
	desired := targetPos.Add(f.target.Forward().Mul(f.cfg.AnticipateDistance)).Add(f.offset)
	f.position, f.velocity = smooth.DampVec3(f.position, desired, f.velocity, f.cfg.SmoothTime, smooth.Unlimited, dt)

	if !f.cfg.LookAtTarget {
		return
	}
	yaw, pitch, ok := lookAngles(targetPos.Sub(f.position))
	if !ok {
		return
	}
	if f.cfg.SmoothRotation {
		f.yaw.Target, f.pitch.Target = yaw, pitch
		yaw, pitch = f.yaw.Step(dt), f.pitch.Step(dt)
	} else {
		f.yaw.Reset(yaw)
		f.pitch.Reset(pitch)
	}
	f.rotation = rotationFromAngles(yaw, pitch)
}

// SetTarget swaps the trailed target; the original offset is kept.
func (f *Follow) SetTarget(target Target) {
	f.target = target
}

// ClearTarget drops the target; the camera freezes where it is.
func (f *Follow) ClearTarget() {
	f.target = nil
}

func (f *Follow) HasTarget() bool {
	return f.target != nil
}

func (f *Follow) Position() mgl64.Vec3 {
	return f.position
}

func (f *Follow) Velocity() mgl64.Vec3 {
	return f.velocity
}

func (f *Follow) Rotation() mgl64.Quat {
	return f.rotation
}

func (f *Follow) Forward() mgl64.Vec3 {
	return f.rotation.Rotate(mgl64.Vec3{0, 0, 1})
}

func (f *Follow) Offset() mgl64.Vec3 {
	return f.offset
}

func (f *Follow) Config() Config {
	return f.cfg
}

// lookAngles returns the yaw (about +Y, 0 facing +Z) and pitch (positive
// looking down) of dir in degrees.
func lookAngles(dir mgl64.Vec3) (yaw, pitch float64, ok bool) {
	l := dir.Len()
	if l < 1e-9 {
		return 0, 0, false
	}
	yaw = mgl64.RadToDeg(math.Atan2(dir.X(), dir.Z()))
	pitch = mgl64.RadToDeg(-math.Asin(mgl64.Clamp(dir.Y()/l, -1, 1)))
	return yaw, pitch, true
}

func rotationFromAngles(yaw, pitch float64) mgl64.Quat {
	yawQ := mgl64.QuatRotate(mgl64.DegToRad(yaw), worldUp)
	pitchQ := mgl64.QuatRotate(mgl64.DegToRad(pitch), mgl64.Vec3{1, 0, 0})
	return yawQ.Mul(pitchQ)
}
