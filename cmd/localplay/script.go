package main

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/molleindustria/localplay/internal/body"
	"github.com/molleindustria/localplay/internal/session"
)

const (
	jumpEvery = 90
	kickEvery = 120
)

// scriptedInputs stands in for controllers in headless runs: each player
// sweeps its left stick around a circle at its own rate, aims the right stick
// against it, sprints every other second and taps jump and kick periodically.
func scriptedInputs(players []*session.Player, frame int, dt float64) map[string]body.Input {
	t := float64(frame) * dt
	inputs := make(map[string]body.Input, len(players))
	for _, p := range players {
		rate := 1 + 0.5*float64(p.Index)
		angle := t * rate
		in := body.Input{
			Left:  mgl64.Vec2{math.Sin(angle), math.Cos(angle)},
			Right: mgl64.Vec2{math.Cos(angle), 0},
			Jump:  (frame+15*p.Index)%jumpEvery == 0,
			Kick:  frame > 0 && (frame+20*p.Index)%kickEvery == 0,
		}
		if int(t)%2 == 1 {
			in.Sprint = 1
		}
		inputs[p.Name()] = in
	}
	return inputs
}
