// Package city generates the procedural city a session plays in and owns the
// resulting world state.
package city

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pixil98/go-errors"

	"github.com/pixil98/cryptocity/internal/geom"
)

// gemClearance keeps gems reachable: a gem never spawns within this distance
// of a building or vehicle.
const gemClearance = 1.5

// Params bundles every generator's parameters.
type Params struct {
	Grid      GridParams      `yaml:"world"`
	Layout    LayoutParams    `yaml:"layout"`
	Placement PlacementParams `yaml:"placement"`
	Vehicles  VehicleParams   `yaml:"vehicles"`
	NPC       NPCParams       `yaml:"npc"`
}

func (p *Params) Validate() error {
	el := errors.NewErrorList()

	if err := p.Grid.Validate(); err != nil {
		el.Add(fmt.Errorf("world: %w", err))
	}
	if err := p.Layout.Validate(); err != nil {
		el.Add(fmt.Errorf("layout: %w", err))
	}
	if err := p.Placement.Validate(); err != nil {
		el.Add(fmt.Errorf("placement: %w", err))
	}
	if err := p.Vehicles.Validate(); err != nil {
		el.Add(fmt.Errorf("vehicles: %w", err))
	}
	if err := p.NPC.Validate(); err != nil {
		el.Add(fmt.Errorf("npc: %w", err))
	}

	return el.Err()
}

// World is the generated city for one session. Its layout is immutable; the
// only mutable parts are entity flags and NPC positions.
type World struct {
	Grid      Grid
	Buildings []Building
	Vehicles  []Vehicle
	Entities  []*Entity
	NPCs      []*NPC

	params  Params
	seed    uint64
	npcRng  *rand.Rand
	static  []geom.Box
	circles []geom.Circle
}

// NewWorld generates a city from params. The same seed and monoliths always
// produce the same layout.
func NewWorld(p Params, monoliths map[string]*MonolithSpec, seed uint64) (*World, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	g, err := NewGrid(p.Grid)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	w := &World{
		Grid:   g,
		params: p,
		seed:   seed,
	}

	reserved := map[BlockIndex]bool{}
	for _, id := range sortedKeys(monoliths) {
		m := monoliths[id]
		idx := BlockIndex{I: m.BlockX, J: m.BlockZ}
		x, z := g.BlockCenter(idx)
		reserved[idx] = true
		w.Entities = append(w.Entities, &Entity{
			ID:       id,
			Kind:     KindMonolith,
			Position: mgl64.Vec3{x, 0, z},
			Topic:    m.Type.Topic(),
			Label:    m.Label,
			Puzzle:   m.Type,
		})
	}

	layout := GenerateLayout(g, p.Layout, reserved, rng)
	w.Buildings = layout.Buildings
	w.Vehicles = PlaceVehicles(g, p.Vehicles, p.Layout.SafeZoneRadius, rng)

	for _, b := range w.Buildings {
		w.static = append(w.static, b.Box())
	}
	for _, v := range w.Vehicles {
		w.static = append(w.static, v.Box())
	}

	clearance := p.Layout.SafeZoneRadius
	reject := func(x, z float64) bool {
		if math.Abs(x) < clearance && math.Abs(z) < clearance {
			return true
		}
		for _, b := range w.static {
			if b.Inflate(gemClearance).Contains(x, z) {
				return true
			}
		}
		return false
	}
	gems := SamplePlacements(g, p.Placement.GemCount, Topics, p.Placement, reject, rng)
	gemEntities := make([]*Entity, 0, len(gems))
	for i, pl := range gems {
		gemEntities = append(gemEntities, &Entity{
			ID:       fmt.Sprintf("gem-%d", i),
			Kind:     KindGem,
			Position: pl.Position,
			Topic:    pl.Topic,
			Label:    string(pl.Topic),
		})
	}
	w.Entities = append(gemEntities, w.Entities...)

	w.npcRng = w.newNPCRng()
	w.NPCs = spawnNPCs(g, p.NPC, w.npcRng)
	w.circles = make([]geom.Circle, len(w.NPCs))

	return w, nil
}

func (w *World) newNPCRng() *rand.Rand {
	return rand.New(rand.NewPCG(w.seed^0x5bd1e995, w.seed))
}

// Seed returns the seed the world was generated from.
func (w *World) Seed() uint64 {
	return w.seed
}

// Params returns the parameters the world was generated from.
func (w *World) Params() Params {
	return w.params
}

// StaticObstacles returns the footprints of every building and vehicle. The
// returned slice must not be modified.
func (w *World) StaticObstacles() []geom.Box {
	return w.static
}

// DynamicObstacles returns a snapshot of NPC footprints at their current
// positions.
func (w *World) DynamicObstacles() []geom.Circle {
	for i, n := range w.NPCs {
		w.circles[i] = geom.Circle{X: n.Position.X(), Z: n.Position.Z(), Radius: w.params.NPC.Radius}
	}
	return w.circles
}

// UpdateNPCs advances every NPC by delta seconds.
func (w *World) UpdateNPCs(delta float64, player mgl64.Vec3) {
	for _, n := range w.NPCs {
		n.update(delta, player, w.params.NPC, w.npcRng)
	}
}

// Entity returns the entity with the given id or nil.
func (w *World) Entity(id string) *Entity {
	for _, e := range w.Entities {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Remaining counts unresolved entities.
func (w *World) Remaining() int {
	n := 0
	for _, e := range w.Entities {
		if !e.Resolved {
			n++
		}
	}
	return n
}

// Reset clears every entity flag and returns NPCs to their spawn points.
func (w *World) Reset() {
	for _, e := range w.Entities {
		e.Resolved = false
	}
	w.npcRng = w.newNPCRng()
	for _, n := range w.NPCs {
		n.reset(w.params.NPC, w.npcRng)
	}
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DefaultParams reproduces the classic Crypto City: a 300 unit square with 25
// unit blocks separated by 10 unit roads.
func DefaultParams() Params {
	return Params{
		Grid: GridParams{
			WorldSize: 300,
			RoadWidth: 10,
			BlockSize: 25,
		},
		Layout: LayoutParams{
			SafeZoneRadius: 15,
			MinBuildings:   1,
			MaxBuildings:   3,
			FootprintMin:   8,
			FootprintMax:   12,
			HeightMin:      15,
			HeightMax:      45,
			CurbMargin:     2,
		},
		Placement: PlacementParams{
			GemCount:    50,
			GemHeight:   1,
			EdgeMargin:  10,
			MaxAttempts: DefaultMaxPlacementAttempts,
		},
		Vehicles: VehicleParams{
			Count:  24,
			Length: 4.5,
			Width:  2,
		},
		NPC: NPCParams{
			Count:          40,
			Radius:         0.4,
			WalkSpeed:      1.8,
			GreetDistance:  5,
			ArriveDistance: 0.5,
			InitialSpread:  20,
			RetargetSpread: 30,
		},
	}
}
