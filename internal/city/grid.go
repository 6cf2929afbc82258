package city

import (
	"fmt"
	"math"

	"github.com/pixil98/go-errors"
)

// GridParams describes the periodic road/block tiling of the world.
type GridParams struct {
	WorldSize float64 `yaml:"world_size"`
	RoadWidth float64 `yaml:"road_width"`
	BlockSize float64 `yaml:"block_size"`
}

func (p *GridParams) Validate() error {
	el := errors.NewErrorList()

	if p.WorldSize <= 0 {
		el.Add(fmt.Errorf("world_size must be positive"))
	}
	if p.RoadWidth < 0 {
		el.Add(fmt.Errorf("road_width must not be negative"))
	}
	if p.BlockSize <= 0 {
		el.Add(fmt.Errorf("block_size must be positive"))
	}

	return el.Err()
}

// Grid is the immutable tiling derived from GridParams. Block centers sit at
// integer multiples of Interval on both axes.
type Grid struct {
	worldSize float64
	roadWidth float64
	blockSize float64
	interval  float64
}

func NewGrid(p GridParams) (Grid, error) {
	if err := p.Validate(); err != nil {
		return Grid{}, fmt.Errorf("invalid grid: %w", err)
	}
	return Grid{
		worldSize: p.WorldSize,
		roadWidth: p.RoadWidth,
		blockSize: p.BlockSize,
		interval:  p.RoadWidth + p.BlockSize,
	}, nil
}

func (g Grid) WorldSize() float64 { return g.worldSize }
func (g Grid) RoadWidth() float64 { return g.roadWidth }
func (g Grid) BlockSize() float64 { return g.blockSize }
func (g Grid) Interval() float64  { return g.interval }

// HalfExtent is half the world's side length.
func (g Grid) HalfExtent() float64 {
	return g.worldSize / 2
}

// BlockCount is the largest block index generated on each side of the origin.
func (g Grid) BlockCount() int {
	return int(math.Floor(g.worldSize / g.interval))
}

// blockOffset is the distance from v to the nearest block-center line. It is
// symmetric in sign, so -30 and 30 classify the same way.
func (g Grid) blockOffset(v float64) float64 {
	return math.Abs(v - g.interval*math.Round(v/g.interval))
}

// IsOnRoad reports whether (x, z) lies in a road band. A point is on road when
// its offset from the nearest block center exceeds half a block on either
// axis. The block edge itself (offset == BlockSize/2) belongs to the block.
func (g Grid) IsOnRoad(x, z float64) bool {
	threshold := g.blockSize / 2
	return g.blockOffset(x) > threshold || g.blockOffset(z) > threshold
}

// BlockIndex returns the indices of the block whose center is nearest (x, z).
func (g Grid) BlockIndex(x, z float64) BlockIndex {
	return BlockIndex{
		I: int(math.Round(x / g.interval)),
		J: int(math.Round(z / g.interval)),
	}
}

// BlockCenter returns the world coordinates of a block center.
func (g Grid) BlockCenter(idx BlockIndex) (float64, float64) {
	return float64(idx.I) * g.interval, float64(idx.J) * g.interval
}

// RoadCenter returns the coordinate of the road running between block i and
// block i+1.
func (g Grid) RoadCenter(i int) float64 {
	return float64(i)*g.interval + g.blockSize/2 + g.roadWidth/2
}

// BlockIndex identifies a block by its grid coordinates.
type BlockIndex struct {
	I, J int
}
