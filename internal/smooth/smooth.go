package smooth

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Unlimited disables the max speed clamp.
var Unlimited = math.Inf(1)

// Damp moves current toward target with a critically damped spring whose
// response time is roughly smoothTime. velocity is the caller-persisted rate of
// change from the previous call; the updated rate is returned with the value.
func Damp(current, target, velocity, smoothTime, maxSpeed, dt float64) (float64, float64) {
	if dt <= 0 {
		return current, velocity
	}
	if smoothTime <= 0 {
		return target, 0
	}

	omega := 2.0 / smoothTime
	decay := decayFactor(omega * dt)

	originalTarget := target
	change := current - target
	maxChange := maxSpeed * smoothTime
	change = mgl64.Clamp(change, -maxChange, maxChange)
	target = current - change

	temp := (velocity + omega*change) * dt
	velocity = (velocity - omega*temp) * decay
	out := target + (change+temp)*decay

	if (originalTarget-current > 0) == (out > originalTarget) {
		out = originalTarget
		velocity = 0
	}
	return out, velocity
}

// DampAngle is Damp for angles in degrees. It follows the shortest arc, so a
// move from 170 to -170 travels 20 degrees rather than 340.
func DampAngle(current, target, velocity, smoothTime, maxSpeed, dt float64) (float64, float64) {
	target = current + DeltaAngle(current, target)
	return Damp(current, target, velocity, smoothTime, maxSpeed, dt)
}

// DampVec3 is Damp applied to a vector as a whole: the change is clamped by
// length and the overshoot guard looks at direction rather than per axis.
func DampVec3(current, target, velocity mgl64.Vec3, smoothTime, maxSpeed, dt float64) (mgl64.Vec3, mgl64.Vec3) {
	if dt <= 0 {
		return current, velocity
	}
	if smoothTime <= 0 {
		return target, mgl64.Vec3{}
	}

	omega := 2.0 / smoothTime
	decay := decayFactor(omega * dt)

	originalTarget := target
	change := current.Sub(target)
	maxChange := maxSpeed * smoothTime
	if l := change.Len(); l > maxChange {
		change = change.Mul(maxChange / l)
	}
	target = current.Sub(change)

	temp := velocity.Add(change.Mul(omega)).Mul(dt)
	velocity = velocity.Sub(temp.Mul(omega)).Mul(decay)
	out := target.Add(change.Add(temp).Mul(decay))

	if originalTarget.Sub(current).Dot(out.Sub(originalTarget)) > 0 {
		return originalTarget, mgl64.Vec3{}
	}
	return out, velocity
}

// DeltaAngle returns the signed shortest difference to - from in (-180, 180].
func DeltaAngle(from, to float64) float64 {
	return NormalizeAngle(to - from)
}

// NormalizeAngle wraps v into (-180, 180].
func NormalizeAngle(v float64) float64 {
	v = math.Mod(v, 360)
	if v <= -180 {
		v += 360
	} else if v > 180 {
		v -= 360
	}
	return v
}

// decayFactor approximates exp(-x) with a cubic that stays positive and stable
// for large x.
func decayFactor(x float64) float64 {
	return 1.0 / (1.0 + x + 0.48*x*x + 0.235*x*x*x)
}
