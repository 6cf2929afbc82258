package city

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func newTestGrid(t *testing.T) Grid {
	t.Helper()
	g, err := NewGrid(GridParams{WorldSize: 300, RoadWidth: 10, BlockSize: 25})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return g
}

func TestNewGrid(t *testing.T) {
	g := newTestGrid(t)

	testutil.AssertEqual(t, "interval", g.Interval(), 35.0)
	testutil.AssertEqual(t, "block count", g.BlockCount(), 8)
	testutil.AssertEqual(t, "half extent", g.HalfExtent(), 150.0)
}

func TestNewGrid_Invalid(t *testing.T) {
	tests := map[string]struct {
		params GridParams
		expErr string
	}{
		"zero world": {
			params: GridParams{WorldSize: 0, RoadWidth: 10, BlockSize: 25},
			expErr: "world_size must be positive",
		},
		"zero block": {
			params: GridParams{WorldSize: 300, RoadWidth: 10, BlockSize: 0},
			expErr: "block_size must be positive",
		},
		"negative road": {
			params: GridParams{WorldSize: 300, RoadWidth: -1, BlockSize: 25},
			expErr: "road_width must not be negative",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewGrid(tt.params)
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}

func TestGrid_IsOnRoad(t *testing.T) {
	g := newTestGrid(t)

	tests := map[string]struct {
		x, z  float64
		expOn bool
	}{
		"origin":                      {x: 0, z: 0, expOn: false},
		"block center on grid line":   {x: 35, z: 0, expOn: false},
		"block center far z":          {x: 35, z: 70, expOn: false},
		"block edge belongs to block": {x: 12.5, z: 0, expOn: false},
		"just past block edge":        {x: 12.51, z: 0, expOn: true},
		"road center":                 {x: 17.5, z: 0, expOn: true},
		"road on z axis":              {x: 0, z: 17.5, expOn: true},
		"negative inside block":       {x: -30, z: 0, expOn: false},
		"negative block edge":         {x: -12.5, z: -35, expOn: false},
		"negative road":               {x: -17.5, z: 35, expOn: true},
		"near next block":             {x: 30, z: 0, expOn: false},
		"far negative road":           {x: -122.5, z: -105, expOn: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "on road", g.IsOnRoad(tt.x, tt.z), tt.expOn)
		})
	}
}

func TestGrid_IsOnRoad_Symmetric(t *testing.T) {
	g := newTestGrid(t)

	for x := -150.0; x <= 150; x += 0.75 {
		if g.IsOnRoad(x, 0) != g.IsOnRoad(-x, 0) {
			t.Fatalf("classification differs for %g and %g", x, -x)
		}
	}
}

func TestGrid_BlockIndex(t *testing.T) {
	g := newTestGrid(t)

	testutil.AssertEqual(t, "origin", g.BlockIndex(3, -4), BlockIndex{I: 0, J: 0})
	testutil.AssertEqual(t, "positive", g.BlockIndex(40, 66), BlockIndex{I: 1, J: 2})
	testutil.AssertEqual(t, "negative", g.BlockIndex(-36, -100), BlockIndex{I: -1, J: -3})
}

func TestGrid_RoadCenter(t *testing.T) {
	g := newTestGrid(t)

	testutil.AssertEqual(t, "road 0", g.RoadCenter(0), 17.5)
	testutil.AssertEqual(t, "road -1", g.RoadCenter(-1), -17.5)
	testutil.AssertEqual(t, "road 0 on road", g.IsOnRoad(g.RoadCenter(0), 0), true)
}
