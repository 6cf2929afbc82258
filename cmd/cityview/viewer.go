package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/pixil98/cryptocity/internal/city"
	"github.com/pixil98/cryptocity/internal/display"
)

const (
	minCellSize = 0.5
	maxCellSize = 16
)

type viewer struct {
	params    city.Params
	monoliths map[string]*city.MonolithSpec

	world    *city.World
	center   mgl64.Vec3
	cellSize float64
}

func newViewer(p city.Params, monoliths map[string]*city.MonolithSpec, seed uint64) (*viewer, error) {
	v := &viewer{
		params:    p,
		monoliths: monoliths,
		cellSize:  2,
	}
	if err := v.generate(seed); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *viewer) generate(seed uint64) error {
	w, err := city.NewWorld(v.params, v.monoliths, seed)
	if err != nil {
		return fmt.Errorf("generating city: %w", err)
	}
	v.world = w
	v.center = mgl64.Vec3{}
	return nil
}

// handleKey applies one key press and reports whether the viewer should exit.
// Arrows pan one cell, page up and down zoom, Home recenters and Ctrl-R moves
// to the next seed.
func (v *viewer) handleKey(k tcell.Key) (bool, error) {
	switch k {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true, nil
	case tcell.KeyUp:
		v.center = v.center.Add(mgl64.Vec3{0, 0, -v.cellSize})
	case tcell.KeyDown:
		v.center = v.center.Add(mgl64.Vec3{0, 0, v.cellSize})
	case tcell.KeyLeft:
		v.center = v.center.Add(mgl64.Vec3{-v.cellSize, 0, 0})
	case tcell.KeyRight:
		v.center = v.center.Add(mgl64.Vec3{v.cellSize, 0, 0})
	case tcell.KeyPgUp:
		v.cellSize = max(v.cellSize/2, minCellSize)
	case tcell.KeyPgDn:
		v.cellSize = min(v.cellSize*2, maxCellSize)
	case tcell.KeyHome:
		v.center = mgl64.Vec3{}
	case tcell.KeyCtrlR:
		if err := v.generate(v.world.Seed() + 1); err != nil {
			return false, err
		}
	}
	return false, nil
}

func (v *viewer) status() string {
	return fmt.Sprintf("seed %d  center (%.0f, %.0f)  cell %.1f  gems+monoliths %d  [arrows pan, pgup/pgdn zoom, ^R next seed, esc quit]",
		v.world.Seed(), v.center.X(), v.center.Z(), v.cellSize, v.world.Remaining())
}

func (v *viewer) draw(scr tcell.Screen) {
	scr.Clear()
	width, height := scr.Size()

	radius := max(min(width, height-1)/2-1, 1)
	// Terminal cells are about twice as tall as wide; draw each map cell two
	// columns wide so blocks stay square.
	radius = max(min(radius, (width/2-1)/2), 1)

	for y, line := range display.RenderMap(v.world, v.center, radius, v.cellSize) {
		x := 0
		for _, r := range line {
			style := cellStyle(r)
			scr.SetContent(x, y, r, nil, style)
			scr.SetContent(x+1, y, fill(r), nil, style)
			x += 2
		}
	}

	for x, r := range []rune(v.status()) {
		if x >= width {
			break
		}
		scr.SetContent(x, height-1, r, nil, tcell.StyleDefault.Reverse(true))
	}

	scr.Show()
}

// fill is the second column of a doubled map cell.
func fill(r rune) rune {
	switch r {
	case display.CellRoad, display.CellBuilding, display.CellOutside, display.CellGround:
		return r
	default:
		return ' '
	}
}

func cellStyle(r rune) tcell.Style {
	s := tcell.StyleDefault
	switch r {
	case display.CellRoad:
		return s.Foreground(tcell.ColorGray)
	case display.CellBuilding:
		return s.Foreground(tcell.ColorSteelBlue)
	case display.CellVehicle:
		return s.Foreground(tcell.ColorRed)
	case display.CellGem:
		return s.Foreground(tcell.ColorAqua).Bold(true)
	case display.CellMonolith:
		return s.Foreground(tcell.ColorFuchsia).Bold(true)
	case display.CellNPC:
		return s.Foreground(tcell.ColorYellow)
	case display.CellPlayer:
		return s.Foreground(tcell.ColorLime).Bold(true)
	case display.CellOutside:
		return s.Foreground(tcell.ColorNavy)
	default:
		return s
	}
}
