package smooth

import "github.com/go-gl/mathgl/mgl64"

// Channel keeps the state of one smoothed scalar across frames.
type Channel struct {
	Value      float64
	Velocity   float64
	Target     float64
	SmoothTime float64
	// MaxSpeed <= 0 means unlimited.
	MaxSpeed float64
}

func NewChannel(value, smoothTime float64) Channel {
	return Channel{Value: value, Target: value, SmoothTime: smoothTime}
}

func (c *Channel) Step(dt float64) float64 {
	c.Value, c.Velocity = Damp(c.Value, c.Target, c.Velocity, c.SmoothTime, maxSpeedOf(c.MaxSpeed), dt)
	return c.Value
}

// Reset places the channel at rest on value.
func (c *Channel) Reset(value float64) {
	c.Value = value
	c.Target = value
	c.Velocity = 0
}

// AngleChannel is a Channel whose value is an angle in degrees.
type AngleChannel struct {
	Channel
}

func NewAngleChannel(value, smoothTime float64) AngleChannel {
	return AngleChannel{Channel: NewChannel(value, smoothTime)}
}

func (c *AngleChannel) Step(dt float64) float64 {
	c.Value, c.Velocity = DampAngle(c.Value, c.Target, c.Velocity, c.SmoothTime, maxSpeedOf(c.MaxSpeed), dt)
	return c.Value
}

// Vec3Channel keeps the state of one smoothed vector across frames.
type Vec3Channel struct {
	Value      mgl64.Vec3
	Velocity   mgl64.Vec3
	Target     mgl64.Vec3
	SmoothTime float64
	MaxSpeed   float64
}

func NewVec3Channel(value mgl64.Vec3, smoothTime float64) Vec3Channel {
	return Vec3Channel{Value: value, Target: value, SmoothTime: smoothTime}
}

func (c *Vec3Channel) Step(dt float64) mgl64.Vec3 {
	c.Value, c.Velocity = DampVec3(c.Value, c.Target, c.Velocity, c.SmoothTime, maxSpeedOf(c.MaxSpeed), dt)
	return c.Value
}

func (c *Vec3Channel) Reset(value mgl64.Vec3) {
	c.Value = value
	c.Target = value
	c.Velocity = mgl64.Vec3{}
}

func maxSpeedOf(v float64) float64 {
	if v <= 0 {
		return Unlimited
	}
	return v
}
