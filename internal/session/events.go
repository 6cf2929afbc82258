package session

import (
	"context"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pixil98/cryptocity/internal/city"
	"github.com/pixil98/cryptocity/internal/protocol"
	"github.com/pixil98/cryptocity/internal/tutorial"
)

func (s *Session) publish(ctx context.Context, ev protocol.Event) {
	if s.publisher == nil {
		return
	}
	ev.Session = s.id
	if err := s.publisher.PublishEvent(s.id, ev); err != nil {
		slog.WarnContext(ctx, "failed to publish event", "session", s.id, "type", ev.Type, "error", err)
	}
}

func (s *Session) publishState(ctx context.Context) {
	s.publish(ctx, s.stateEvent())
}

func (s *Session) publishFrame(ctx context.Context) {
	npcs := make([]protocol.Point, 0, len(s.world.NPCs))
	for _, n := range s.world.NPCs {
		npcs = append(npcs, point(n.Position))
	}
	s.publish(ctx, protocol.Event{
		Type:   protocol.EventFrame,
		Player: s.playerView(),
		NPCs:   npcs,
	})
}

func (s *Session) stateEvent() protocol.Event {
	ev := protocol.Event{
		Type:    protocol.EventState,
		Session: s.id,
		State:   s.state.String(),
		Paused:  s.paused(),
		Player:  s.playerView(),
		Stats:   s.statsView(),
	}
	if s.active != nil {
		ev.Entity = entityView(s.active)
	}
	if s.puzzle != nil {
		ev.Puzzle = puzzleView(s.puzzle)
	}
	return ev
}

func (s *Session) playerView() *protocol.Player {
	return &protocol.Player{
		Position: point(s.player.Position),
		Velocity: point(s.player.Velocity),
		Yaw:      s.input.Yaw,
		Pitch:    s.input.Pitch,
	}
}

func (s *Session) statsView() *protocol.Stats {
	return &protocol.Stats{
		Collected: append([]string{}, s.stats.Collected...),
		Score:     s.stats.Score,
		Level:     s.stats.Level,
		Remaining: s.world.Remaining(),
	}
}

func entityView(e *city.Entity) *protocol.Entity {
	return &protocol.Entity{
		ID:       e.ID,
		Kind:     e.Kind.String(),
		Topic:    string(e.Topic),
		Label:    e.Label,
		Position: point(e.Position),
		Resolved: e.Resolved,
	}
}

func puzzleView(p *tutorial.Puzzle) *protocol.Puzzle {
	return &protocol.Puzzle{
		ID:       p.ID,
		Topic:    string(p.Topic),
		Title:    p.Title,
		Tutorial: p.Tutorial,
		Task:     p.Task,
	}
}

func point(v mgl64.Vec3) protocol.Point {
	return protocol.Point{X: v.X(), Y: v.Y(), Z: v.Z()}
}
