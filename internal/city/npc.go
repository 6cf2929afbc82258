package city

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pixil98/go-errors"

	"github.com/pixil98/cryptocity/internal/geom"
)

type NPCParams struct {
	Count          int     `yaml:"count"`
	Radius         float64 `yaml:"radius"`
	WalkSpeed      float64 `yaml:"walk_speed"`
	GreetDistance  float64 `yaml:"greet_distance"`
	ArriveDistance float64 `yaml:"arrive_distance"`
	InitialSpread  float64 `yaml:"initial_spread"`
	RetargetSpread float64 `yaml:"retarget_spread"`
}

func (p *NPCParams) Validate() error {
	el := errors.NewErrorList()

	if p.Count < 0 {
		el.Add(fmt.Errorf("count must not be negative"))
	}
	if p.Radius < 0 {
		el.Add(fmt.Errorf("radius must not be negative"))
	}
	if p.WalkSpeed < 0 {
		el.Add(fmt.Errorf("walk_speed must not be negative"))
	}
	if p.ArriveDistance <= 0 {
		el.Add(fmt.Errorf("arrive_distance must be positive"))
	}

	return el.Err()
}

type NPCMode int

const (
	NPCWalking NPCMode = iota
	NPCGreeting
)

func (m NPCMode) String() string {
	if m == NPCGreeting {
		return "greeting"
	}
	return "walking"
}

// NPC is a pedestrian that wanders between random targets and stops to greet
// a nearby player. Only World.UpdateNPCs mutates it.
type NPC struct {
	ID       string
	Position mgl64.Vec3
	Target   mgl64.Vec3
	Mode     NPCMode

	spawn mgl64.Vec3
}

// spawnNPCs places pedestrians on the sidewalk edge of random blocks.
func spawnNPCs(g Grid, p NPCParams, rng *rand.Rand) []*NPC {
	count := g.BlockCount()
	half := g.BlockSize() / 2

	npcs := make([]*NPC, 0, p.Count)
	for i := 0; i < p.Count; i++ {
		bx := float64(int(math.Floor(uniform(rng, -float64(count), float64(count)))))
		bz := float64(int(math.Floor(uniform(rng, -float64(count), float64(count)))))

		var x, z float64
		if rng.IntN(2) == 0 {
			x = bx*g.Interval() + half + 1
			z = bz*g.Interval() + uniform(rng, -half, half)
		} else {
			x = bx*g.Interval() + uniform(rng, -half, half)
			z = bz*g.Interval() + half + 1
		}

		pos := mgl64.Vec3{x, 0, z}
		npcs = append(npcs, &NPC{
			ID:       fmt.Sprintf("npc-%d", i),
			Position: pos,
			Target:   randomTarget(pos, p.InitialSpread, rng),
			spawn:    pos,
		})
	}

	return npcs
}

// update advances the wander/greet state machine by delta seconds.
func (n *NPC) update(delta float64, player mgl64.Vec3, p NPCParams, rng *rand.Rand) {
	if math.Sqrt(geom.DistSqXZ(n.Position, player)) < p.GreetDistance {
		n.Mode = NPCGreeting
		return
	}
	n.Mode = NPCWalking

	toTarget := n.Target.Sub(n.Position)
	toTarget[1] = 0
	dist := toTarget.Len()
	if dist <= p.ArriveDistance {
		n.Target = randomTarget(n.Position, p.RetargetSpread, rng)
		return
	}

	step := math.Min(p.WalkSpeed*delta, dist)
	n.Position = n.Position.Add(toTarget.Mul(step / dist))
}

func (n *NPC) reset(p NPCParams, rng *rand.Rand) {
	n.Position = n.spawn
	n.Target = randomTarget(n.spawn, p.InitialSpread, rng)
	n.Mode = NPCWalking
}

func randomTarget(from mgl64.Vec3, spread float64, rng *rand.Rand) mgl64.Vec3 {
	return mgl64.Vec3{
		from.X() + uniform(rng, -0.5, 0.5)*spread,
		0,
		from.Z() + uniform(rng, -0.5, 0.5)*spread,
	}
}
