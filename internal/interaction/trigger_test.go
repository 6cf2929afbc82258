package interaction

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pixil98/go-testutil"

	"github.com/pixil98/cryptocity/internal/city"
	"github.com/pixil98/cryptocity/internal/movement"
)

func TestTrigger_Check(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	gem := func(id string, x, z float64) *city.Entity {
		return &city.Entity{ID: id, Kind: city.KindGem, Position: mgl64.Vec3{x, 1, z}}
	}
	monolith := func(id string, x, z float64) *city.Entity {
		return &city.Entity{ID: id, Kind: city.KindMonolith, Position: mgl64.Vec3{x, 0, z}}
	}
	resolved := func(e *city.Entity) *city.Entity {
		e.Resolved = true
		return e
	}

	tests := map[string]struct {
		last     time.Time
		now      time.Time
		position mgl64.Vec3
		entities []*city.Entity
		expID    string
	}{
		"nothing nearby": {
			now:      base,
			entities: []*city.Entity{gem("g1", 10, 10)},
		},
		"gem within radius": {
			now:      base,
			position: mgl64.Vec3{1, 1.6, 1},
			entities: []*city.Entity{gem("g1", 0, 0)},
			expID:    "g1",
		},
		"gem on the radius does not fire": {
			now:      base,
			position: mgl64.Vec3{2, 1.6, 0},
			entities: []*city.Entity{gem("g1", 0, 0)},
		},
		"monolith uses wider radius": {
			now:      base,
			position: mgl64.Vec3{2.5, 1.6, 0},
			entities: []*city.Entity{monolith("m1", 0, 0)},
			expID:    "m1",
		},
		"height is ignored": {
			now:      base,
			position: mgl64.Vec3{0, 50, 0},
			entities: []*city.Entity{gem("g1", 0, 0)},
			expID:    "g1",
		},
		"resolved entities are skipped": {
			now:      base,
			entities: []*city.Entity{resolved(gem("g1", 0, 0)), gem("g2", 0.5, 0)},
			expID:    "g2",
		},
		"first match wins over nearest": {
			now:      base,
			entities: []*city.Entity{gem("far", 1.9, 0), gem("near", 0.1, 0)},
			expID:    "far",
		},
		"within cooldown": {
			last:     base,
			now:      base.Add(time.Second),
			entities: []*city.Entity{gem("g1", 0, 0)},
		},
		"cooldown elapsed": {
			last:     base,
			now:      base.Add(time.Second + time.Millisecond),
			entities: []*city.Entity{gem("g1", 0, 0)},
			expID:    "g1",
		},
		"nil entries": {
			now:      base,
			entities: []*city.Entity{nil, gem("g1", 0, 0)},
			expID:    "g1",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			trig := NewTrigger(DefaultParams())
			st := &movement.State{Position: tt.position, LastInteraction: tt.last}

			hit := trig.Check(tt.now, st, tt.entities)

			var gotID string
			if hit != nil {
				gotID = hit.ID
			}
			testutil.AssertEqual(t, "id", gotID, tt.expID)

			expLast := tt.last
			if tt.expID != "" {
				expLast = tt.now
			}
			testutil.AssertEqual(t, "last interaction", st.LastInteraction, expLast)
		})
	}
}

func TestTrigger_Check_Cooldown(t *testing.T) {
	trig := NewTrigger(DefaultParams())
	st := &movement.State{}
	entities := []*city.Entity{{ID: "g1", Kind: city.KindGem}}
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	first := trig.Check(now, st, entities)
	if first == nil {
		t.Fatalf("expected first check to fire")
	}

	// Standing still on the marker must not fire again every frame.
	for i := 1; i <= 60; i++ {
		if hit := trig.Check(now.Add(time.Duration(i)*16*time.Millisecond), st, entities); hit != nil {
			t.Fatalf("frame %d fired during cooldown", i)
		}
	}

	if hit := trig.Check(now.Add(1100*time.Millisecond), st, entities); hit == nil {
		t.Errorf("expected check to fire after cooldown")
	}
}

func TestParams_Validate(t *testing.T) {
	tests := map[string]struct {
		params Params
		expErr string
	}{
		"defaults":             {params: DefaultParams()},
		"negative cooldown":    {params: Params{Cooldown: -1, GemRadius: 1, MonolithRadius: 1}, expErr: "cooldown must not be negative"},
		"zero gem radius":      {params: Params{MonolithRadius: 1}, expErr: "gem_radius must be positive"},
		"zero monolith radius": {params: Params{GemRadius: 1}, expErr: "monolith_radius must be positive"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.expErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}
