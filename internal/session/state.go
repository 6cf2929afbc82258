package session

import "fmt"

// State is the session's position in the game flow.
type State int

const (
	StateHome State = iota
	StatePlaying
	StateLoading
	StatePuzzle
)

func (s State) String() string {
	switch s {
	case StateHome:
		return "home"
	case StatePlaying:
		return "playing"
	case StateLoading:
		return "loading"
	case StatePuzzle:
		return "puzzle"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Stats is the player's progress within one session.
type Stats struct {
	Collected []string
	Score     int
	Level     int
}

func newStats() Stats {
	return Stats{Level: 1}
}
