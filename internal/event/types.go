package event

import "github.com/go-gl/mathgl/mgl64"

const (
	EventJump   = "character.jump"
	EventKick   = "character.kick"
	EventSprint = "character.sprint"
	EventJoin   = "session.join"
)

type JumpEvent struct {
	Player   string
	Position mgl64.Vec3
	Velocity float64
}

type KickEvent struct {
	Player   string
	Position mgl64.Vec3
	Facing   mgl64.Vec3
}

type SprintEvent struct {
	Player  string
	Pressed bool
}

type JoinEvent struct {
	Player string
	Index  int
	Team   string
	Color  string
}
