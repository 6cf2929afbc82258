package movement

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MaxPitch keeps the camera from flipping over the vertical.
const MaxPitch = math.Pi/2 - 0.01

// Intent holds the four held movement keys.
type Intent struct {
	Forward  bool `json:"forward"`
	Backward bool `json:"backward"`
	Left     bool `json:"left"`
	Right    bool `json:"right"`
}

// Any reports whether any movement key is held.
func (i Intent) Any() bool {
	return i.Forward || i.Backward || i.Left || i.Right
}

// Input is the per-frame control state read by the resolver.
type Input struct {
	Intent
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
}

// Normalized wraps yaw into (-pi, pi] and clamps pitch. Angles that are not
// finite become 0.
func (in Input) Normalized() Input {
	out := in
	out.Yaw = math.Remainder(finiteOrZero(in.Yaw), 2*math.Pi)
	out.Pitch = math.Max(-MaxPitch, math.Min(MaxPitch, finiteOrZero(in.Pitch)))
	return out
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func finite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// localDirection is the unit direction of the held keys in camera space,
// where forward is -Z and right is +X. Opposing keys cancel.
func (i Intent) localDirection() mgl64.Vec3 {
	var x, z float64
	if i.Right {
		x++
	}
	if i.Left {
		x--
	}
	if i.Backward {
		z++
	}
	if i.Forward {
		z--
	}

	v := mgl64.Vec3{x, 0, z}
	if v.Len() == 0 {
		return v
	}
	return v.Normalize()
}
