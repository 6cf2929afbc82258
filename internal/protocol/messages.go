package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/pixil98/cryptocity/internal/movement"
)

// MessageType names a client message.
type MessageType string

const (
	MsgStart  MessageType = "start"
	MsgInput  MessageType = "input"
	MsgAnswer MessageType = "answer"
	MsgClose  MessageType = "close"
	MsgHome   MessageType = "home"
)

// ClientMessage is anything a browser client sends.
type ClientMessage struct {
	Type   MessageType `json:"type"`
	Input  *InputState `json:"input,omitempty"`
	Answer string      `json:"answer,omitempty"`
}

// InputState is the continuously sampled control state of a client.
type InputState struct {
	movement.Input
	PointerLocked bool `json:"pointerLocked"`
}

// DecodeClientMessage parses and checks a client message.
func DecodeClientMessage(data []byte) (ClientMessage, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return msg, fmt.Errorf("decoding message: %w", err)
	}

	switch msg.Type {
	case MsgStart, MsgAnswer, MsgClose, MsgHome:
	case MsgInput:
		if msg.Input == nil {
			return msg, fmt.Errorf("input message without input")
		}
	default:
		return msg, fmt.Errorf("unknown message type %q", msg.Type)
	}

	return msg, nil
}
