package city

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pixil98/go-errors"

	"github.com/pixil98/cryptocity/internal/geom"
)

const maxVehicleAttempts = 32

type VehicleParams struct {
	Count  int     `yaml:"count"`
	Length float64 `yaml:"length"`
	Width  float64 `yaml:"width"`
}

func (p *VehicleParams) Validate() error {
	el := errors.NewErrorList()

	if p.Count < 0 {
		el.Add(fmt.Errorf("count must not be negative"))
	}
	if p.Count > 0 && (p.Length <= 0 || p.Width <= 0) {
		el.Add(fmt.Errorf("length and width must be positive"))
	}

	return el.Err()
}

// Vehicle is a parked car. Rotation is 0 when its length runs along Z and
// pi/2 when it runs along X.
type Vehicle struct {
	ID       string
	Position mgl64.Vec3
	Rotation float64
	Width    float64
	Depth    float64
}

func (v Vehicle) Box() geom.Box {
	return geom.BoxAround(v.Position.X(), v.Position.Z(), v.Width, v.Depth)
}

// PlaceVehicles parks vehicles along the curb side of random road segments,
// keeping them out of the spawn safe zone and inside the world.
func PlaceVehicles(g Grid, p VehicleParams, safeZone float64, rng *rand.Rand) []Vehicle {
	if p.Count <= 0 || g.RoadWidth() <= 0 {
		return nil
	}

	count := g.BlockCount()
	limit := g.HalfExtent() - math.Max(p.Length, p.Width)

	var vehicles []Vehicle
	for n := 0; n < p.Count; n++ {
		for a := 0; a < maxVehicleAttempts; a++ {
			v := sampleVehicle(g, p, count, rng)
			x, z := v.Position.X(), v.Position.Z()
			if math.Abs(x) > limit || math.Abs(z) > limit {
				continue
			}
			if math.Abs(x) < safeZone && math.Abs(z) < safeZone {
				continue
			}
			v.ID = fmt.Sprintf("v-%d", n)
			vehicles = append(vehicles, v)
			break
		}
	}

	return vehicles
}

func sampleVehicle(g Grid, p VehicleParams, count int, rng *rand.Rand) Vehicle {
	road := g.RoadCenter(rng.IntN(2*count+1) - count)
	along := float64(rng.IntN(2*count+1)-count)*g.Interval() + uniform(rng, -0.5, 0.5)*(g.BlockSize()-p.Length)

	// Park in the right-hand lane of either direction.
	lane := g.RoadWidth() / 4
	if rng.IntN(2) == 0 {
		lane = -lane
	}

	if rng.IntN(2) == 0 {
		return Vehicle{
			Position: mgl64.Vec3{road + lane, 0, along},
			Width:    p.Width,
			Depth:    p.Length,
		}
	}
	return Vehicle{
		Position: mgl64.Vec3{along, 0, road + lane},
		Rotation: math.Pi / 2,
		Width:    p.Length,
		Depth:    p.Width,
	}
}
