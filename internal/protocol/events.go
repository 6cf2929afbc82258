// Package protocol defines the JSON messages exchanged between a session and
// its transports.
package protocol

// EventType names a server event.
type EventType string

const (
	EventState       EventType = "state"
	EventFrame       EventType = "frame"
	EventInteraction EventType = "interaction"
	EventTutorial    EventType = "tutorial"
	EventSolved      EventType = "solved"
	EventWrongAnswer EventType = "wrong_answer"
	EventReset       EventType = "reset"
	EventError       EventType = "error"
)

// Event is published on a session's subject. Only the fields relevant to
// Type are set.
type Event struct {
	Type    EventType `json:"type"`
	Session string    `json:"session"`
	State   string    `json:"state,omitempty"`
	Paused  bool      `json:"paused,omitempty"`
	Player  *Player   `json:"player,omitempty"`
	NPCs    []Point   `json:"npcs,omitempty"`
	Entity  *Entity   `json:"entity,omitempty"`
	Puzzle  *Puzzle   `json:"puzzle,omitempty"`
	Stats   *Stats    `json:"stats,omitempty"`
	Message string    `json:"message,omitempty"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type Player struct {
	Position Point   `json:"position"`
	Velocity Point   `json:"velocity"`
	Yaw      float64 `json:"yaw"`
	Pitch    float64 `json:"pitch"`
}

type Entity struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Topic    string `json:"topic"`
	Label    string `json:"label"`
	Position Point  `json:"position"`
	Resolved bool   `json:"resolved"`
}

// Puzzle is the player-facing part of a tutorial. The answer never leaves
// the server.
type Puzzle struct {
	ID       string `json:"id"`
	Topic    string `json:"topic"`
	Title    string `json:"title"`
	Tutorial string `json:"tutorial"`
	Task     string `json:"task"`
}

// Stats is the player's progress.
type Stats struct {
	Collected []string `json:"collected"`
	Score     int      `json:"score"`
	Level     int      `json:"level"`
	Remaining int      `json:"remaining"`
}
