package display

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pixil98/cryptocity/internal/city"
)

// Map legend.
const (
	CellOutside  = '~'
	CellGround   = ' '
	CellRoad     = '.'
	CellBuilding = '#'
	CellVehicle  = '='
	CellGem      = '*'
	CellMonolith = 'M'
	CellNPC      = 'n'
	CellPlayer   = '@'
)

// RenderMap draws a top-down view of w centered on player, radius cells in
// every direction, each cell covering cellSize world units. Forward at yaw 0
// (-Z) is up. Resolved entities are not drawn.
func RenderMap(w *city.World, player mgl64.Vec3, radius int, cellSize float64) []string {
	size := 2*radius + 1
	half := w.Grid.HalfExtent()

	rows := make([][]rune, size)
	for r := range rows {
		rows[r] = make([]rune, size)
		for c := range rows[r] {
			x := player.X() + float64(c-radius)*cellSize
			z := player.Z() + float64(r-radius)*cellSize
			rows[r][c] = terrain(w, half, x, z)
		}
	}

	mark := func(p mgl64.Vec3, ch rune) {
		c := radius + int(math.Round((p.X()-player.X())/cellSize))
		r := radius + int(math.Round((p.Z()-player.Z())/cellSize))
		if r >= 0 && r < size && c >= 0 && c < size {
			rows[r][c] = ch
		}
	}

	for _, e := range w.Entities {
		if e.Resolved {
			continue
		}
		if e.Kind == city.KindMonolith {
			mark(e.Position, CellMonolith)
		} else {
			mark(e.Position, CellGem)
		}
	}
	for _, n := range w.NPCs {
		mark(n.Position, CellNPC)
	}
	mark(player, CellPlayer)

	out := make([]string, size)
	for r, row := range rows {
		out[r] = string(row)
	}
	return out
}

func terrain(w *city.World, half, x, z float64) rune {
	if math.Abs(x) > half || math.Abs(z) > half {
		return CellOutside
	}
	for _, b := range w.Buildings {
		if b.Box().Contains(x, z) {
			return CellBuilding
		}
	}
	for _, v := range w.Vehicles {
		if v.Box().Contains(x, z) {
			return CellVehicle
		}
	}
	if w.Grid.IsOnRoad(x, z) {
		return CellRoad
	}
	return CellGround
}
