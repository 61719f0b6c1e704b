package body

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/molleindustria/localplay/internal/event"
	"github.com/molleindustria/localplay/internal/physics"
)

// Transform is what rendering and animation read back each frame.
type Transform struct {
	Position     mgl64.Vec3
	Rotation     mgl64.Quat
	LookRotation mgl64.Quat
	Yaw          float64
	Pitch        float64
}

// Character owns one CharacterState and is the only thing that mutates it.
type Character struct {
	mu         sync.Mutex
	name       string
	state      physics.CharacterState
	integrator *physics.Integrator
	bus        *event.Bus
	anim       AnimationConfig
	velocity   mgl64.Vec3
}

func New(name string, spawn mgl64.Vec3, integrator *physics.Integrator, bus *event.Bus) *Character {
	return &Character{
		name:       name,
		state:      physics.CharacterState{Position: spawn},
		integrator: integrator,
		bus:        bus,
		anim:       DefaultAnimationConfig(),
	}
}

// Tick applies one frame of input over dt seconds.
func (c *Character) Tick(in Input, dt float64) error {
	if c == nil {
		return fmt.Errorf("character is nil")
	}
	if c.integrator == nil {
		return fmt.Errorf("character %s has no integrator", c.name)
	}

	in = normalizeInput(in)
	sprinting := in.Sprint >= SprintThreshold

	c.mu.Lock()
	sprintChanged := sprinting != c.state.Sprinting
	c.state.Sprinting = sprinting
	if in.Jump {
		c.state.PendingJump = true
	}
	before := c.state.Position
	step := c.integrator.Step(&c.state, in.Sticks(), dt)
	if dt > 0 {
		c.velocity = c.state.Position.Sub(before).Mul(1 / dt)
	}
	pos := c.state.Position
	facing := c.state.Forward()
	verticalVelocity := c.state.VerticalVelocity
	c.mu.Unlock()

	if sprintChanged {
		c.bus.Publish(event.EventSprint, &event.SprintEvent{Player: c.name, Pressed: sprinting})
	}
	if step.Jumped {
		c.bus.Publish(event.EventJump, &event.JumpEvent{Player: c.name, Position: pos, Velocity: verticalVelocity})
	}
	if in.Kick {
		c.bus.Publish(event.EventKick, &event.KickEvent{Player: c.name, Position: pos, Facing: facing})
	}
	return nil
}

func (c *Character) Name() string {
	return c.name
}

// State returns a copy of the character's simulation state.
func (c *Character) State() physics.CharacterState {
	if c == nil {
		return physics.CharacterState{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Character) Transform() Transform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Transform{
		Position:     c.state.Position,
		Rotation:     c.state.Rotation(),
		LookRotation: c.state.LookRotation(),
		Yaw:          c.state.Yaw,
		Pitch:        c.state.Pitch,
	}
}

func (c *Character) Position() mgl64.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Position
}

func (c *Character) Forward() mgl64.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Forward()
}

// Velocity is the displacement the mover actually applied last frame, per
// second.
func (c *Character) Velocity() mgl64.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.velocity
}

// SetPosition teleports the character without touching its velocities.
func (c *Character) SetPosition(pos mgl64.Vec3) {
	c.mu.Lock()
	c.state.Position = pos
	c.mu.Unlock()
}

func (c *Character) SetYaw(yaw float64) {
	c.mu.Lock()
	c.state.Yaw = yaw
	c.mu.Unlock()
}

func (c *Character) Integrator() *physics.Integrator {
	return c.integrator
}

func (c *Character) SetAnimationConfig(cfg AnimationConfig) {
	c.mu.Lock()
	c.anim = cfg
	c.mu.Unlock()
}
