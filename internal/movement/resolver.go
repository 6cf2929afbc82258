// Package movement turns held keys into player motion and resolves it against
// the world's obstacles.
package movement

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pixil98/cryptocity/internal/geom"
)

// StaticSource exposes the immutable obstacle footprints.
type StaticSource interface {
	StaticObstacles() []geom.Box
}

// DynamicSource exposes the current footprints of moving obstacles. The
// resolver only reads them.
type DynamicSource interface {
	DynamicObstacles() []geom.Circle
}

type Resolver struct {
	params     Params
	halfExtent float64
	static     StaticSource
	dynamic    DynamicSource
}

func NewResolver(p Params, halfExtent float64, static StaticSource, dynamic DynamicSource) *Resolver {
	return &Resolver{
		params:     p,
		halfExtent: halfExtent,
		static:     static,
		dynamic:    dynamic,
	}
}

// DesiredVelocity is the horizontal velocity the held keys ask for, rotated by
// the camera yaw. Pitch never affects horizontal movement.
func (r *Resolver) DesiredVelocity(in Input) mgl64.Vec3 {
	dir := in.localDirection()
	if dir.Len() == 0 {
		return mgl64.Vec3{}
	}
	v := mgl64.Rotate3DY(in.Yaw).Mul3x1(dir).Mul(r.params.Speed)
	v[1] = 0
	return v
}

// SmoothingFactor is the fraction of the gap between current and desired
// velocity closed over delta seconds.
func (r *Resolver) SmoothingFactor(delta float64) float64 {
	return 1 - math.Exp(-r.params.Damping*delta)
}

// Step advances st by delta seconds. Each axis is tested on its own so a
// player pressed against a wall keeps sliding along it; a blocked axis loses
// its velocity. A player blocked on both axes stays where it is.
func (r *Resolver) Step(st *State, in Input, delta float64) {
	defer r.pin(st)

	if !(delta > 0) || math.IsInf(delta, 0) {
		return
	}

	r.pushOut(st)

	desired := r.DesiredVelocity(in.Normalized())
	st.Velocity = st.Velocity.Add(desired.Sub(st.Velocity).Mul(r.SmoothingFactor(delta)))
	st.Velocity[1] = 0
	if !finite(st.Velocity) {
		st.Velocity = mgl64.Vec3{}
		return
	}

	nextX := st.Position.X() + st.Velocity.X()*delta
	if r.Blocked(st.Position, nextX, st.Position.Z()) {
		st.Velocity[0] = 0
	} else {
		st.Position[0] = nextX
	}

	nextZ := st.Position.Z() + st.Velocity.Z()*delta
	if r.Blocked(st.Position, st.Position.X(), nextZ) {
		st.Velocity[2] = 0
	} else {
		st.Position[2] = nextZ
	}
}

// Blocked reports whether moving from `from` to (x, z) would put the player
// inside an obstacle. Obstacles the player already overlaps are ignored so a
// player can always walk out of them.
func (r *Resolver) Blocked(from mgl64.Vec3, x, z float64) bool {
	radius := r.params.PlayerRadius

	if r.static != nil {
		for _, b := range r.static.StaticObstacles() {
			box := b.Inflate(radius)
			if box.Contains(x, z) && !box.Contains(from.X(), from.Z()) {
				return true
			}
		}
	}
	if r.dynamic != nil {
		for _, c := range r.dynamic.DynamicObstacles() {
			if c.Overlaps(x, z, radius) && !c.Overlaps(from.X(), from.Z(), radius) {
				return true
			}
		}
	}

	return false
}

// Nudge moves the player dist units horizontally away from anchor, as long
// as the destination is clear. It reports whether the player moved.
func (r *Resolver) Nudge(st *State, anchor mgl64.Vec3, dist float64) bool {
	away := st.Position.Sub(anchor)
	away[1] = 0
	if away.Len() == 0 {
		away = mgl64.Vec3{0, 0, 1}
	}
	target := anchor.Add(away.Normalize().Mul(dist))
	x := geom.Clamp(target.X(), r.limit())
	z := geom.Clamp(target.Z(), r.limit())

	if r.occupied(x, z) {
		return false
	}

	st.Position[0] = x
	st.Position[2] = z
	st.Velocity = mgl64.Vec3{}
	r.pin(st)
	return true
}

// pushOut resolves penetration by moving obstacles: an NPC that walked into
// the player shoves the player out along the line between their centers,
// unless that would push the player into a static obstacle.
func (r *Resolver) pushOut(st *State) {
	if r.dynamic == nil {
		return
	}
	radius := r.params.PlayerRadius
	for _, c := range r.dynamic.DynamicObstacles() {
		if !c.Overlaps(st.Position.X(), st.Position.Z(), radius) {
			continue
		}
		x, z := c.PushOut(st.Position.X(), st.Position.Z(), radius)
		if r.insideStatic(x, z) {
			continue
		}
		st.Position[0] = x
		st.Position[2] = z
	}
}

func (r *Resolver) occupied(x, z float64) bool {
	if r.insideStatic(x, z) {
		return true
	}
	if r.dynamic != nil {
		for _, c := range r.dynamic.DynamicObstacles() {
			if c.Overlaps(x, z, r.params.PlayerRadius) {
				return true
			}
		}
	}
	return false
}

func (r *Resolver) insideStatic(x, z float64) bool {
	if r.static == nil {
		return false
	}
	for _, b := range r.static.StaticObstacles() {
		if b.Inflate(r.params.PlayerRadius).Contains(x, z) {
			return true
		}
	}
	return false
}

func (r *Resolver) limit() float64 {
	return math.Max(r.halfExtent-r.params.BoundsMargin, 0)
}

// pin clamps the player inside the world and fixes it at eye height.
func (r *Resolver) pin(st *State) {
	st.Position[0] = geom.Clamp(st.Position.X(), r.limit())
	st.Position[2] = geom.Clamp(st.Position.Z(), r.limit())
	st.Position[1] = r.params.EyeHeight
}
