package city

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pixil98/go-testutil"
)

func newTestWorld(t *testing.T, seed uint64) *World {
	t.Helper()
	w, err := NewWorld(DefaultParams(), DefaultMonoliths(), seed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return w
}

func TestNewWorld(t *testing.T) {
	w := newTestWorld(t, 42)

	testutil.AssertEqual(t, "entity count", len(w.Entities), 55)
	testutil.AssertEqual(t, "npc count", len(w.NPCs), 40)
	testutil.AssertEqual(t, "static obstacles", len(w.StaticObstacles()), len(w.Buildings)+len(w.Vehicles))
	testutil.AssertEqual(t, "dynamic obstacles", len(w.DynamicObstacles()), 40)
	testutil.AssertEqual(t, "remaining", w.Remaining(), 55)

	// Gems come first, monoliths after them in id order.
	testutil.AssertEqual(t, "first entity", w.Entities[0].ID, "gem-0")
	testutil.AssertEqual(t, "first monolith", w.Entities[50].ID, "m1")
	testutil.AssertEqual(t, "first monolith kind", w.Entities[50].Kind, KindMonolith)
	testutil.AssertEqual(t, "first monolith position", w.Entities[50].Position, mgl64.Vec3{35, 0, 35})
	testutil.AssertEqual(t, "first monolith topic", w.Entities[50].Topic, Topic("Caesar Cipher"))
}

func TestNewWorld_Deterministic(t *testing.T) {
	a := newTestWorld(t, 7)
	b := newTestWorld(t, 7)

	testutil.AssertEqual(t, "building count", len(a.Buildings), len(b.Buildings))
	for i := range a.Buildings {
		testutil.AssertEqual(t, "building", a.Buildings[i], b.Buildings[i])
	}
	for i := range a.Entities {
		testutil.AssertEqual(t, "entity position", a.Entities[i].Position, b.Entities[i].Position)
	}
}

func TestNewWorld_GemsAreReachable(t *testing.T) {
	for seed := uint64(0); seed < 5; seed++ {
		w := newTestWorld(t, seed)
		for _, e := range w.Entities {
			if e.Kind != KindGem {
				continue
			}
			x, z := e.Position.X(), e.Position.Z()
			if w.Grid.IsOnRoad(x, z) {
				t.Fatalf("seed %d: %s is on road", seed, e.ID)
			}
			for _, box := range w.StaticObstacles() {
				if box.Contains(x, z) {
					t.Fatalf("seed %d: %s is inside an obstacle", seed, e.ID)
				}
			}
		}
	}
}

func TestNewWorld_MonolithBlocksHaveNoBuildings(t *testing.T) {
	w := newTestWorld(t, 3)

	for _, b := range w.Buildings {
		for _, e := range w.Entities {
			if e.Kind == KindMonolith && b.Block == w.Grid.BlockIndex(e.Position.X(), e.Position.Z()) {
				t.Fatalf("building %s shares a block with %s", b.ID, e.ID)
			}
		}
	}
}

func TestNewWorld_InvalidParams(t *testing.T) {
	p := DefaultParams()
	p.Grid.BlockSize = 0

	_, err := NewWorld(p, nil, 1)
	testutil.AssertErrorContains(t, err, "block_size must be positive")
}

func TestWorld_Reset(t *testing.T) {
	w := newTestWorld(t, 11)
	spawn := w.NPCs[0].Position

	w.Entities[0].Resolved = true
	w.Entities[52].Resolved = true
	for i := 0; i < 100; i++ {
		w.UpdateNPCs(0.1, mgl64.Vec3{1000, 0, 1000})
	}

	w.Reset()

	testutil.AssertEqual(t, "remaining", w.Remaining(), len(w.Entities))
	testutil.AssertEqual(t, "npc position", w.NPCs[0].Position, spawn)
}

func TestWorld_Entity(t *testing.T) {
	w := newTestWorld(t, 1)

	testutil.AssertEqual(t, "found", w.Entity("m3").Label, "Vigenere Obelisk")
	if w.Entity("nope") != nil {
		t.Error("expected nil for unknown id")
	}
}
