package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

type mockTarget struct {
	pos mgl64.Vec3
	fwd mgl64.Vec3
}

func (m *mockTarget) Position() mgl64.Vec3 { return m.pos }
func (m *mockTarget) Forward() mgl64.Vec3  { return m.fwd }

func newTarget() *mockTarget {
	return &mockTarget{fwd: mgl64.Vec3{0, 0, 1}}
}

func TestFollowCapturesOffsetAtCreation(t *testing.T) {
	target := newTarget()
	target.pos = mgl64.Vec3{2, 0, 3}

	f := New(mgl64.Vec3{2, 5, -7}, target, DefaultConfig())

	if f.Offset() != (mgl64.Vec3{0, 5, -10}) {
		t.Fatalf("offset = %v, want (0, 5, -10)", f.Offset())
	}
}

func TestFollowConvergesOnAnticipatedOffset(t *testing.T) {
	target := newTarget()
	f := New(mgl64.Vec3{0, 5, -10}, target, DefaultConfig())

	target.pos = mgl64.Vec3{4, 0, 6}
	target.fwd = mgl64.Vec3{1, 0, 0}
	for i := 0; i < 300; i++ {
		f.Update(1.0 / 60)
	}

	want := mgl64.Vec3{5, 5, -4}
	if !f.Position().ApproxEqualThreshold(want, 1e-4) {
		t.Fatalf("position = %v, want %v", f.Position(), want)
	}
}

func TestFollowTrailsMovingTarget(t *testing.T) {
	target := newTarget()
	f := New(mgl64.Vec3{0, 5, -10}, target, DefaultConfig())

	for i := 0; i < 30; i++ {
		target.pos = target.pos.Add(mgl64.Vec3{0, 0, 10.0 / 60})
		f.Update(1.0 / 60)
	}

	desiredZ := target.pos.Z() + DefaultAnticipateDistance - 10
	if f.Position().Z() >= desiredZ {
		t.Fatalf("camera z = %.4f, want trailing behind %.4f", f.Position().Z(), desiredZ)
	}
	if f.Velocity().Z() <= 0 {
		t.Fatalf("velocity.z = %.4f, want > 0 while chasing", f.Velocity().Z())
	}
}

func TestFollowLookAtIsUnsmoothedByDefault(t *testing.T) {
	target := newTarget()
	f := New(mgl64.Vec3{3, 4, -6}, target, DefaultConfig())

	target.pos = mgl64.Vec3{-2, 0, 1}
	f.Update(1.0 / 60)

	want := target.pos.Sub(f.Position()).Normalize()
	if !f.Forward().ApproxEqualThreshold(want, 1e-9) {
		t.Fatalf("forward = %v, want %v", f.Forward(), want)
	}
}

func TestFollowSmoothRotationLags(t *testing.T) {
	target := newTarget()
	cfg := DefaultConfig()
	cfg.SmoothRotation = true
	f := New(mgl64.Vec3{10, 0, 0}, target, cfg)

	f.Update(1.0 / 60)
	want := target.pos.Sub(f.Position()).Normalize()
	if f.Forward().ApproxEqualThreshold(want, 1e-3) {
		t.Fatalf("smoothed rotation snapped to target in one frame")
	}

	for i := 0; i < 600; i++ {
		f.Update(1.0 / 60)
	}
	want = target.pos.Sub(f.Position()).Normalize()
	if !f.Forward().ApproxEqualThreshold(want, 1e-3) {
		t.Fatalf("forward = %v, want %v after settling", f.Forward(), want)
	}
}

func TestFollowWithoutLookAtKeepsRotation(t *testing.T) {
	target := newTarget()
	cfg := DefaultConfig()
	cfg.LookAtTarget = false
	f := New(mgl64.Vec3{0, 5, -10}, target, cfg)

	f.Update(1.0 / 60)

	if f.Rotation() != mgl64.QuatIdent() {
		t.Fatalf("rotation = %v, want identity", f.Rotation())
	}
}

func TestFollowFreezesWhenTargetCleared(t *testing.T) {
	target := newTarget()
	f := New(mgl64.Vec3{0, 5, -10}, target, DefaultConfig())
	target.pos = mgl64.Vec3{3, 0, 3}
	f.Update(1.0 / 60)

	pos, rot := f.Position(), f.Rotation()
	f.ClearTarget()
	target.pos = mgl64.Vec3{50, 0, 50}
	for i := 0; i < 10; i++ {
		f.Update(1.0 / 60)
	}

	if f.HasTarget() {
		t.Fatalf("HasTarget = true after ClearTarget")
	}
	if f.Position() != pos || f.Rotation() != rot {
		t.Fatalf("camera moved without a target: %v %v", f.Position(), f.Rotation())
	}
}

func TestFollowNilTargetHoldsStill(t *testing.T) {
	f := New(mgl64.Vec3{1, 2, 3}, nil, DefaultConfig())
	f.Update(1.0 / 60)
	if f.Position() != (mgl64.Vec3{1, 2, 3}) {
		t.Fatalf("position = %v, want unchanged", f.Position())
	}

	var nilFollow *Follow
	nilFollow.Update(1.0 / 60)
}

func TestFollowZeroDeltaTimeIsIdentity(t *testing.T) {
	target := newTarget()
	f := New(mgl64.Vec3{0, 5, -10}, target, DefaultConfig())
	target.pos = mgl64.Vec3{1, 0, 1}
	f.Update(1.0 / 60)

	before := *f
	for i := 0; i < 10; i++ {
		f.Update(0)
	}
	if f.position != before.position || f.velocity != before.velocity || f.rotation != before.rotation {
		t.Fatalf("dt=0 changed camera state")
	}
}

func TestFollowParentCarriesUntilUnparented(t *testing.T) {
	target := newTarget()
	parent := newTarget()

	cfg := DefaultConfig()
	cfg.LookAtTarget = false
	cfg.SmoothTime = 1000
	cfg.Parent = parent

	attachedCfg := cfg
	attachedCfg.Unparent = false
	attached := New(mgl64.Vec3{0, 5, -10}, target, attachedCfg)
	detached := New(mgl64.Vec3{0, 5, -10}, target, cfg)

	parent.pos = mgl64.Vec3{1, 0, 0}
	attached.Update(1.0 / 60)
	detached.Update(1.0 / 60)

	dx := attached.Position().X() - detached.Position().X()
	if dx < 0.99 || dx > 1.01 {
		t.Fatalf("parent carried camera by %.4f, want about 1", dx)
	}
}
