package physics

import "sync"

// Integrator binds a scheme and tuning to the collision primitive that
// applies each frame's displacement. Scheme and constants may be swapped from
// another goroutine; a frame in flight finishes with the values it started
// with.
type Integrator struct {
	mu        sync.RWMutex
	scheme    Scheme
	constants Constants
	mover     Mover
}

func NewIntegrator(scheme Scheme, constants Constants, mover Mover) (*Integrator, error) {
	if mover == nil {
		return nil, ErrNoMover
	}
	return &Integrator{
		scheme:    scheme,
		constants: constants,
		mover:     mover,
	}, nil
}

// Step integrates one frame and moves the character through the mover.
func (i *Integrator) Step(state *CharacterState, sticks Sticks, dt float64) Step {
	if i == nil || state == nil {
		return Step{}
	}
	i.mu.RLock()
	scheme, constants := i.scheme, i.constants
	i.mu.RUnlock()

	step := Integrate(state, sticks, scheme, constants, dt)
	if dt <= 0 {
		return step
	}
	state.Position, state.Grounded = i.mover.Move(state.Position, step.Displacement)
	return step
}

func (i *Integrator) Scheme() Scheme {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.scheme
}

func (i *Integrator) Constants() Constants {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.constants
}

// SetScheme switches schemes from the next frame on. All schemes share one
// state shape, so no transition is needed.
func (i *Integrator) SetScheme(scheme Scheme) {
	i.mu.Lock()
	i.scheme = scheme
	i.mu.Unlock()
}

func (i *Integrator) SetConstants(constants Constants) {
	i.mu.Lock()
	i.constants = constants
	i.mu.Unlock()
}
