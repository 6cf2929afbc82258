package city

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pixil98/go-errors"

	"github.com/pixil98/cryptocity/internal/geom"
)

// maxFootprintRatio caps a sampled footprint below the block size so the
// offset range never degenerates.
const maxFootprintRatio = 0.9

type LayoutParams struct {
	SafeZoneRadius float64 `yaml:"safe_zone_radius"`
	MinBuildings   int     `yaml:"min_buildings"`
	MaxBuildings   int     `yaml:"max_buildings"`
	FootprintMin   float64 `yaml:"footprint_min"`
	FootprintMax   float64 `yaml:"footprint_max"`
	HeightMin      float64 `yaml:"height_min"`
	HeightMax      float64 `yaml:"height_max"`
	CurbMargin     float64 `yaml:"curb_margin"`
}

func (p *LayoutParams) Validate() error {
	el := errors.NewErrorList()

	if p.SafeZoneRadius < 0 {
		el.Add(fmt.Errorf("safe_zone_radius must not be negative"))
	}
	if p.MinBuildings < 1 {
		el.Add(fmt.Errorf("min_buildings must be at least 1"))
	}
	if p.MaxBuildings < p.MinBuildings {
		el.Add(fmt.Errorf("max_buildings must be at least min_buildings"))
	}
	if p.FootprintMin <= 0 || p.FootprintMax < p.FootprintMin {
		el.Add(fmt.Errorf("footprint range [%g, %g] is invalid", p.FootprintMin, p.FootprintMax))
	}
	if p.HeightMin <= 0 || p.HeightMax < p.HeightMin {
		el.Add(fmt.Errorf("height range [%g, %g] is invalid", p.HeightMin, p.HeightMax))
	}
	if p.CurbMargin < 0 {
		el.Add(fmt.Errorf("curb_margin must not be negative"))
	}

	return el.Err()
}

// Building is a static obstacle standing inside one block.
type Building struct {
	ID       string
	Block    BlockIndex
	Position mgl64.Vec3
	Width    float64
	Depth    float64
	Height   float64
}

// Box is the building's footprint.
func (b Building) Box() geom.Box {
	return geom.BoxAround(b.Position.X(), b.Position.Z(), b.Width, b.Depth)
}

// Layout is the output of GenerateLayout.
type Layout struct {
	Blocks    []BlockIndex
	Buildings []Building
}

// GenerateLayout partitions the world into blocks and fills every block that is
// neither inside the spawn safe zone nor reserved with 1..N buildings.
func GenerateLayout(g Grid, p LayoutParams, reserved map[BlockIndex]bool, rng *rand.Rand) Layout {
	var layout Layout

	count := g.BlockCount()
	for i := -count; i <= count; i++ {
		for j := -count; j <= count; j++ {
			idx := BlockIndex{I: i, J: j}
			layout.Blocks = append(layout.Blocks, idx)

			cx, cz := g.BlockCenter(idx)
			if math.Abs(cx) < p.SafeZoneRadius && math.Abs(cz) < p.SafeZoneRadius {
				continue
			}
			if reserved[idx] {
				continue
			}

			n := p.MinBuildings + rng.IntN(p.MaxBuildings-p.MinBuildings+1)
			for k := 0; k < n; k++ {
				layout.Buildings = append(layout.Buildings, sampleBuilding(g, p, idx, k, rng))
			}
		}
	}

	return layout
}

func sampleBuilding(g Grid, p LayoutParams, idx BlockIndex, k int, rng *rand.Rand) Building {
	width := clampFootprint(g, uniform(rng, p.FootprintMin, p.FootprintMax))
	depth := clampFootprint(g, uniform(rng, p.FootprintMin, p.FootprintMax))

	cx, cz := g.BlockCenter(idx)
	x := cx + uniform(rng, -1, 1)*offsetRange(g, p, width)
	z := cz + uniform(rng, -1, 1)*offsetRange(g, p, depth)

	return Building{
		ID:       fmt.Sprintf("b-%d-%d-%d", idx.I, idx.J, k),
		Block:    idx,
		Position: mgl64.Vec3{x, 0, z},
		Width:    width,
		Depth:    depth,
		Height:   uniform(rng, p.HeightMin, p.HeightMax),
	}
}

func clampFootprint(g Grid, f float64) float64 {
	if f >= g.BlockSize() {
		return g.BlockSize() * maxFootprintRatio
	}
	return f
}

// offsetRange is the largest distance a footprint may shift from its block
// center while staying inside the block interior.
func offsetRange(g Grid, p LayoutParams, footprint float64) float64 {
	return math.Max((g.BlockSize()-footprint-p.CurbMargin)/2, 0)
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
