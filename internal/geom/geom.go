// Package geom holds the ground-plane shapes used for collision tests.
// Positions are mgl64.Vec3 with Y up; all tests ignore Y.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Box is an axis-aligned rectangle on the XZ plane.
type Box struct {
	MinX, MinZ float64
	MaxX, MaxZ float64
}

// BoxAround returns the box of the given width (X) and depth (Z) centered on (x, z).
func BoxAround(x, z, width, depth float64) Box {
	return Box{
		MinX: x - width/2,
		MinZ: z - depth/2,
		MaxX: x + width/2,
		MaxZ: z + depth/2,
	}
}

// Inflate grows the box by r on every side.
func (b Box) Inflate(r float64) Box {
	return Box{MinX: b.MinX - r, MinZ: b.MinZ - r, MaxX: b.MaxX + r, MaxZ: b.MaxZ + r}
}

// Contains reports whether (x, z) is strictly inside the box. Points on the
// edge are outside so a player can slide along a wall.
func (b Box) Contains(x, z float64) bool {
	return x > b.MinX && x < b.MaxX && z > b.MinZ && z < b.MaxZ
}

// Circle is a round footprint on the XZ plane.
type Circle struct {
	X, Z   float64
	Radius float64
}

// Overlaps reports whether a circle of radius r at (x, z) penetrates c.
func (c Circle) Overlaps(x, z, r float64) bool {
	dx := x - c.X
	dz := z - c.Z
	combined := c.Radius + r
	return dx*dx+dz*dz < combined*combined
}

// PushOut returns the point closest to (x, z) at which a circle of radius r no
// longer penetrates c. Coincident centers are pushed along +X.
func (c Circle) PushOut(x, z, r float64) (float64, float64) {
	dx := x - c.X
	dz := z - c.Z
	dist := math.Hypot(dx, dz)
	combined := c.Radius + r
	if dist >= combined {
		return x, z
	}
	if dist == 0 {
		return c.X + combined, c.Z
	}
	scale := combined / dist
	return c.X + dx*scale, c.Z + dz*scale
}

// DistSqXZ is the squared horizontal distance between a and b.
func DistSqXZ(a, b mgl64.Vec3) float64 {
	dx := a.X() - b.X()
	dz := a.Z() - b.Z()
	return dx*dx + dz*dz
}

// Clamp limits v to [-limit, limit]. NaN clamps to 0.
func Clamp(v, limit float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-limit, math.Min(limit, v))
}
