package movement

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// State is the player's physical state. Only the Resolver mutates Position and
// Velocity; LastInteraction is stamped by the proximity trigger.
type State struct {
	Position        mgl64.Vec3
	Velocity        mgl64.Vec3
	LastInteraction time.Time
}

// NewState places a motionless player at spawn, pinned to eye height.
func NewState(spawn mgl64.Vec3, p Params) State {
	return State{
		Position: mgl64.Vec3{spawn.X(), p.EyeHeight, spawn.Z()},
	}
}
