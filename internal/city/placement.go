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

const DefaultMaxPlacementAttempts = 256

type PlacementParams struct {
	GemCount    int     `yaml:"gem_count"`
	GemHeight   float64 `yaml:"gem_height"`
	EdgeMargin  float64 `yaml:"edge_margin"`
	MaxAttempts int     `yaml:"max_attempts"`
}

func (p *PlacementParams) Validate() error {
	el := errors.NewErrorList()

	if p.GemCount < 0 {
		el.Add(fmt.Errorf("gem_count must not be negative"))
	}
	if p.EdgeMargin < 0 {
		el.Add(fmt.Errorf("edge_margin must not be negative"))
	}
	if p.MaxAttempts < 0 {
		el.Add(fmt.Errorf("max_attempts must not be negative"))
	}

	return el.Err()
}

// Placement is one sampled marker position with its label.
type Placement struct {
	Position mgl64.Vec3
	Topic    Topic
}

// Rejecter reports whether a candidate position is disallowed in addition to
// roads. It may be nil.
type Rejecter func(x, z float64) bool

// SamplePlacements draws count positions uniformly from the world square,
// redrawing any candidate that falls on a road or is rejected. Each position is
// labeled from labels in round-robin order. Retries are capped; an exhausted
// point falls back to the nearest acceptable block center.
func SamplePlacements(g Grid, count int, labels []Topic, p PlacementParams, reject Rejecter, rng *rand.Rand) []Placement {
	limit := math.Max(g.HalfExtent()-p.EdgeMargin, 0)
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxPlacementAttempts
	}

	out := make([]Placement, 0, count)
	for i := 0; i < count; i++ {
		x, z := samplePoint(g, limit, attempts, reject, rng)

		var topic Topic
		if len(labels) > 0 {
			topic = labels[i%len(labels)]
		}
		out = append(out, Placement{
			Position: mgl64.Vec3{x, p.GemHeight, z},
			Topic:    topic,
		})
	}

	return out
}

func samplePoint(g Grid, limit float64, attempts int, reject Rejecter, rng *rand.Rand) (float64, float64) {
	var x, z float64
	for a := 0; a < attempts; a++ {
		x = uniform(rng, -limit, limit)
		z = uniform(rng, -limit, limit)
		if !g.IsOnRoad(x, z) && (reject == nil || !reject(x, z)) {
			return x, z
		}
	}
	return fallbackPoint(g, limit, x, z, reject)
}

// fallbackPoint returns the acceptable block center nearest (x, z) within
// limit. Block centers are never on road, so when every center is rejected the
// nearest one is used anyway.
func fallbackPoint(g Grid, limit, x, z float64, reject Rejecter) (float64, float64) {
	maxIdx := int(math.Floor(limit / g.Interval()))
	nearest := g.BlockIndex(x, z)
	nearest.I = int(geom.Clamp(float64(nearest.I), float64(maxIdx)))
	nearest.J = int(geom.Clamp(float64(nearest.J), float64(maxIdx)))
	if reject == nil {
		return g.BlockCenter(nearest)
	}

	var candidates []BlockIndex
	for i := -maxIdx; i <= maxIdx; i++ {
		for j := -maxIdx; j <= maxIdx; j++ {
			candidates = append(candidates, BlockIndex{I: i, J: j})
		}
	}
	target := mgl64.Vec3{x, 0, z}
	sort.SliceStable(candidates, func(a, b int) bool {
		ax, az := g.BlockCenter(candidates[a])
		bx, bz := g.BlockCenter(candidates[b])
		return geom.DistSqXZ(mgl64.Vec3{ax, 0, az}, target) < geom.DistSqXZ(mgl64.Vec3{bx, 0, bz}, target)
	})
	for _, idx := range candidates {
		cx, cz := g.BlockCenter(idx)
		if !reject(cx, cz) {
			return cx, cz
		}
	}

	return g.BlockCenter(nearest)
}
