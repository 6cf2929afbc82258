package city

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pixil98/go-errors"
)

// Kind distinguishes the two kinds of interactive markers.
type Kind int

const (
	KindGem Kind = iota
	KindMonolith
)

func (k Kind) String() string {
	switch k {
	case KindGem:
		return "gem"
	case KindMonolith:
		return "monolith"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Entity is a placed marker. It is created once at world init and never
// removed; solving it only flips Resolved.
type Entity struct {
	ID       string
	Kind     Kind
	Position mgl64.Vec3
	Topic    Topic
	Label    string
	Puzzle   PuzzleType
	Resolved bool
}

// MonolithSpec is the asset form of a monolith. Positions are given in block
// coordinates so they always land on a block center.
type MonolithSpec struct {
	Label  string     `json:"label"`
	Type   PuzzleType `json:"type"`
	BlockX int        `json:"block_x"`
	BlockZ int        `json:"block_z"`
}

func (m *MonolithSpec) Validate() error {
	el := errors.NewErrorList()

	if m.Label == "" {
		el.Add(fmt.Errorf("label is required"))
	}
	if m.Type.Topic() == "" {
		el.Add(fmt.Errorf("unknown puzzle type %q", m.Type))
	}

	return el.Err()
}

// DefaultMonoliths are placed when no monolith assets are configured.
func DefaultMonoliths() map[string]*MonolithSpec {
	return map[string]*MonolithSpec{
		"m1": {Label: "Ancient Caesar Slab", Type: PuzzleCaesar, BlockX: 1, BlockZ: 1},
		"m2": {Label: "Hashing Fountain", Type: PuzzleHashing, BlockX: -1, BlockZ: 1},
		"m3": {Label: "Vigenere Obelisk", Type: PuzzleVigenere, BlockX: 1, BlockZ: -1},
		"m4": {Label: "Asymmetric Gate", Type: PuzzleAsymmetric, BlockX: -1, BlockZ: -1},
		"m5": {Label: "Substitution Totem", Type: PuzzleSubstitution, BlockX: 0, BlockZ: 2},
	}
}
