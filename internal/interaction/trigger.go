// Package interaction fires when the player walks up to an unresolved marker.
package interaction

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/cryptocity/internal/city"
	"github.com/pixil98/cryptocity/internal/geom"
	"github.com/pixil98/cryptocity/internal/movement"
)

type Params struct {
	Cooldown       time.Duration `yaml:"cooldown"`
	GemRadius      float64       `yaml:"gem_radius"`
	MonolithRadius float64       `yaml:"monolith_radius"`
}

func DefaultParams() Params {
	return Params{
		Cooldown:       time.Second,
		GemRadius:      2,
		MonolithRadius: 3,
	}
}

func (p *Params) Validate() error {
	el := errors.NewErrorList()

	if p.Cooldown < 0 {
		el.Add(fmt.Errorf("cooldown must not be negative"))
	}
	if p.GemRadius <= 0 {
		el.Add(fmt.Errorf("gem_radius must be positive"))
	}
	if p.MonolithRadius <= 0 {
		el.Add(fmt.Errorf("monolith_radius must be positive"))
	}

	return el.Err()
}

type Trigger struct {
	params Params
}

func NewTrigger(p Params) *Trigger {
	return &Trigger{params: p}
}

// Radius is the trigger distance for entities of kind k.
func (t *Trigger) Radius(k city.Kind) float64 {
	if k == city.KindMonolith {
		return t.params.MonolithRadius
	}
	return t.params.GemRadius
}

// Check returns the first unresolved entity, in list order, within its trigger
// radius of the player. It returns nil while the cooldown since the last
// interaction has not yet elapsed. A hit stamps st.LastInteraction with now.
func (t *Trigger) Check(now time.Time, st *movement.State, entities []*city.Entity) *city.Entity {
	if !st.LastInteraction.IsZero() && now.Sub(st.LastInteraction) <= t.params.Cooldown {
		return nil
	}

	for _, e := range entities {
		if e == nil || e.Resolved {
			continue
		}
		r := t.Radius(e.Kind)
		if geom.DistSqXZ(st.Position, e.Position) < r*r {
			st.LastInteraction = now
			return e
		}
	}

	return nil
}
