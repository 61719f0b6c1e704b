package body

const (
	ClipIdle = "Idle"
	ClipWalk = "Walk"
)

type AnimationConfig struct {
	Speed       float64
	SprintSpeed float64
	// MoveThreshold is the applied speed above which the character counts as
	// moving.
	MoveThreshold float64
}

func DefaultAnimationConfig() AnimationConfig {
	return AnimationConfig{Speed: 1, SprintSpeed: 2, MoveThreshold: 0.1}
}

// Clip is the animation a character should be playing. Restart asks the
// player to hold the clip at its first frame.
type Clip struct {
	Name    string
	Speed   float64
	Restart bool
}

// SelectClip walks while moving on the ground, freezes the walk at its first
// frame while airborne, and idles otherwise.
func SelectClip(cfg AnimationConfig, speed float64, grounded, sprinting bool) Clip {
	if speed <= cfg.MoveThreshold {
		return Clip{Name: ClipIdle, Speed: 1}
	}
	if !grounded {
		return Clip{Name: ClipWalk, Speed: 0, Restart: true}
	}
	if sprinting {
		return Clip{Name: ClipWalk, Speed: cfg.SprintSpeed}
	}
	return Clip{Name: ClipWalk, Speed: cfg.Speed}
}

// Animation selects the clip for the last frame's movement.
func (c *Character) Animation() Clip {
	c.mu.Lock()
	defer c.mu.Unlock()
	return SelectClip(c.anim, c.velocity.Len(), c.state.Grounded, c.state.Sprinting)
}
