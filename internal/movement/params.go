package movement

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

type Params struct {
	Speed        float64 `yaml:"speed"`
	Damping      float64 `yaml:"damping"`
	PlayerRadius float64 `yaml:"player_radius"`
	EyeHeight    float64 `yaml:"eye_height"`
	BoundsMargin float64 `yaml:"bounds_margin"`
}

func DefaultParams() Params {
	return Params{
		Speed:        20,
		Damping:      10,
		PlayerRadius: 0.7,
		EyeHeight:    1.6,
		BoundsMargin: 1,
	}
}

func (p *Params) Validate() error {
	el := errors.NewErrorList()

	if p.Speed <= 0 {
		el.Add(fmt.Errorf("speed must be positive"))
	}
	if p.Damping <= 0 {
		el.Add(fmt.Errorf("damping must be positive"))
	}
	if p.PlayerRadius < 0 {
		el.Add(fmt.Errorf("player_radius must not be negative"))
	}
	if p.BoundsMargin < 0 {
		el.Add(fmt.Errorf("bounds_margin must not be negative"))
	}

	return el.Err()
}
