package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pixil98/go-testutil"
)

func TestBox_Contains(t *testing.T) {
	b := BoxAround(0, 0, 4, 2)

	tests := map[string]struct {
		x, z float64
		exp  bool
	}{
		"center":       {x: 0, z: 0, exp: true},
		"inside":       {x: 1.9, z: -0.9, exp: true},
		"on x edge":    {x: 2, z: 0, exp: false},
		"on z edge":    {x: 0, z: -1, exp: false},
		"outside":      {x: 3, z: 0, exp: false},
		"outside both": {x: -5, z: 5, exp: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "contains", b.Contains(tt.x, tt.z), tt.exp)
		})
	}
}

func TestBox_Inflate(t *testing.T) {
	b := BoxAround(10, -10, 2, 2).Inflate(0.5)

	testutil.AssertEqual(t, "inflated", b, Box{MinX: 8.5, MinZ: -11.5, MaxX: 11.5, MaxZ: -8.5})
}

func TestCircle_Overlaps(t *testing.T) {
	c := Circle{X: 0, Z: 0, Radius: 0.4}

	tests := map[string]struct {
		x, z, r float64
		exp     bool
	}{
		"penetrating": {x: 0.5, z: 0, r: 0.7, exp: true},
		"touching":    {x: 1.1, z: 0, r: 0.7, exp: false},
		"apart":       {x: 3, z: 3, r: 0.7, exp: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "overlaps", c.Overlaps(tt.x, tt.z, tt.r), tt.exp)
		})
	}
}

func TestCircle_PushOut(t *testing.T) {
	c := Circle{X: 0, Z: 0, Radius: 1}

	tests := map[string]struct {
		x, z       float64
		expX, expZ float64
	}{
		"clear":      {x: 5, z: 0, expX: 5, expZ: 0},
		"along x":    {x: 0.5, z: 0, expX: 2, expZ: 0},
		"along -z":   {x: 0, z: -1, expX: 0, expZ: -2},
		"coincident": {x: 0, z: 0, expX: 2, expZ: 0},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			x, z := c.PushOut(tt.x, tt.z, 1)
			testutil.AssertEqual(t, "x", x, tt.expX)
			testutil.AssertEqual(t, "z", z, tt.expZ)
		})
	}
}

func TestDistSqXZ(t *testing.T) {
	got := DistSqXZ(mgl64.Vec3{1, 100, 2}, mgl64.Vec3{4, -3, 6})

	testutil.AssertEqual(t, "distance squared", got, 25.0)
}

func TestClamp(t *testing.T) {
	testutil.AssertEqual(t, "below", Clamp(-20, 9), -9.0)
	testutil.AssertEqual(t, "above", Clamp(20, 9), 9.0)
	testutil.AssertEqual(t, "inside", Clamp(3, 9), 3.0)
	testutil.AssertEqual(t, "positive infinity", Clamp(math.Inf(1), 9), 9.0)
	testutil.AssertEqual(t, "nan", Clamp(math.NaN(), 9), 0.0)
}
