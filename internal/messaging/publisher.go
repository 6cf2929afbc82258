package messaging

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/pixil98/cryptocity/internal/protocol"
)

// SessionSubject is the subject a session's events are published on.
func SessionSubject(sessionID string) string {
	return fmt.Sprintf("session-%s", sessionID)
}

type Bus interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte)) (func(), error)
}

// EventPublisher encodes session events as JSON on per-session subjects.
type EventPublisher struct {
	bus Bus
}

func NewEventPublisher(bus Bus) *EventPublisher {
	return &EventPublisher{bus: bus}
}

func (p *EventPublisher) PublishEvent(sessionID string, ev protocol.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshalling %s event: %w", ev.Type, err)
	}
	return p.bus.Publish(SessionSubject(sessionID), data)
}

// SubscribeEvents calls handler with every event of a session, in publish
// order. Undecodable messages are dropped.
func (p *EventPublisher) SubscribeEvents(sessionID string, handler func(protocol.Event)) (func(), error) {
	return p.bus.Subscribe(SessionSubject(sessionID), func(data []byte) {
		var ev protocol.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			slog.Warn("dropping undecodable event", "session", sessionID, "error", err)
			return
		}
		handler(ev)
	})
}
