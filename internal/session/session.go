// Package session runs one player's game: the frame step, the interaction
// flow and the scoring.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pixil98/cryptocity/internal/city"
	"github.com/pixil98/cryptocity/internal/interaction"
	"github.com/pixil98/cryptocity/internal/movement"
	"github.com/pixil98/cryptocity/internal/protocol"
	"github.com/pixil98/cryptocity/internal/tuning"
	"github.com/pixil98/cryptocity/internal/tutorial"
)

// Publisher delivers session events to whoever is attached to the session.
type Publisher interface {
	PublishEvent(sessionID string, ev protocol.Event) error
}

type Config struct {
	Tuning    tuning.Tuning
	Monoliths map[string]*city.MonolithSpec
	Seed      uint64
}

type result struct {
	gen    uint64
	puzzle *tutorial.Puzzle
	err    error
}

// Session owns a world and its player. Every mutation happens under mu, and
// only Tick advances the simulation; transports merely record input.
type Session struct {
	id        string
	rules     tuning.Rules
	moveCfg   movement.Params
	world     *city.World
	resolver  *movement.Resolver
	trigger   *interaction.Trigger
	provider  tutorial.Provider
	publisher Publisher

	mu      sync.Mutex
	state   State
	player  movement.State
	input   movement.Input
	locked  bool
	stats   Stats
	active  *city.Entity
	puzzle  *tutorial.Puzzle
	gen     uint64
	cancel  context.CancelFunc
	pending chan result
	frames  int
	lastNow time.Time
}

func New(id string, cfg Config, provider tutorial.Provider, publisher Publisher) (*Session, error) {
	if err := cfg.Tuning.Validate(); err != nil {
		return nil, err
	}

	world, err := city.NewWorld(cfg.Tuning.Params, cfg.Monoliths, cfg.Seed)
	if err != nil {
		return nil, err
	}

	return &Session{
		id:        id,
		rules:     cfg.Tuning.Rules,
		moveCfg:   cfg.Tuning.Movement,
		world:     world,
		resolver:  movement.NewResolver(cfg.Tuning.Movement, world.Grid.HalfExtent(), world, world),
		trigger:   interaction.NewTrigger(cfg.Tuning.Interaction),
		provider:  provider,
		publisher: publisher,
		state:     StateHome,
		player:    movement.NewState(mgl64.Vec3{}, cfg.Tuning.Movement),
		stats:     newStats(),
	}, nil
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Stats returns a copy of the player's progress.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.stats
	out.Collected = append([]string(nil), s.stats.Collected...)
	return out
}

// Player returns a copy of the player's physical state.
func (s *Session) Player() movement.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.player
}

// Inspect calls fn with the world and player while the simulation is held
// still. fn must not retain either.
func (s *Session) Inspect(fn func(w *city.World, player movement.State, in movement.Input)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.world, s.player, s.input)
}

// Start leaves the home screen and begins play.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateHome {
		return ErrAlreadyStarted
	}
	s.state = StatePlaying
	s.locked = true

	slog.InfoContext(ctx, "session started", "session", s.id, "seed", s.world.Seed())
	s.publishState(ctx)
	return nil
}

// SetInput records the latest control state. It takes effect on the next
// frame.
func (s *Session) SetInput(in movement.Input, pointerLocked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.input = in.Normalized()
	s.locked = pointerLocked
}

// Paused reports whether frames currently leave the world untouched.
func (s *Session) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused()
}

func (s *Session) paused() bool {
	return s.state != StatePlaying || !s.locked
}

// Tick advances the session by one frame. A finished tutorial request is
// applied first so its result is visible on the frame that receives it.
func (s *Session) Tick(ctx context.Context, now time.Time, delta float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastNow = now
	s.receiveResult(ctx)

	if s.paused() {
		return
	}

	s.world.UpdateNPCs(delta, s.player.Position)
	s.resolver.Step(&s.player, s.input, delta)

	if hit := s.trigger.Check(now, &s.player, s.world.Entities); hit != nil {
		s.beginInteraction(ctx, hit)
		return
	}

	s.frames++
	if s.frames%s.rules.SnapshotEvery == 0 {
		s.publishFrame(ctx)
	}
}

func (s *Session) beginInteraction(ctx context.Context, e *city.Entity) {
	s.cancelRequest()
	s.gen++
	gen := s.gen

	rctx, cancel := context.WithCancel(ctx)
	ch := make(chan result, 1)

	s.cancel = cancel
	s.pending = ch
	s.active = e
	s.state = StateLoading

	slog.InfoContext(ctx, "interaction triggered", "session", s.id, "entity", e.ID, "topic", e.Topic)

	go func() {
		p, err := s.provider.Generate(rctx, e.Topic)
		ch <- result{gen: gen, puzzle: p, err: err}
	}()

	s.publish(ctx, protocol.Event{Type: protocol.EventInteraction, Entity: entityView(e)})
	s.publishState(ctx)
}

func (s *Session) receiveResult(ctx context.Context) {
	if s.pending == nil {
		return
	}

	select {
	case r := <-s.pending:
		s.cancelRequest()
		s.applyResult(ctx, r)
	default:
	}
}

// applyResult shows a finished tutorial, unless the request was abandoned
// since it was made.
func (s *Session) applyResult(ctx context.Context, r result) {
	if r.gen != s.gen || s.state != StateLoading || s.active == nil {
		slog.DebugContext(ctx, "discarding stale tutorial", "session", s.id, "generation", r.gen)
		return
	}

	p := r.puzzle
	if r.err != nil || p == nil {
		slog.WarnContext(ctx, "tutorial unavailable, using default", "session", s.id, "error", r.err)
		d := tutorial.DefaultPuzzle
		d.Topic = s.active.Topic
		p = &d
	}

	s.puzzle = p
	s.state = StatePuzzle
	s.publish(ctx, protocol.Event{Type: protocol.EventTutorial, Entity: entityView(s.active), Puzzle: puzzleView(p)})
	s.publishState(ctx)
}

// Answer checks text against the active puzzle. A correct answer resolves
// the entity that triggered it and returns to play; a wrong one leaves the
// puzzle open.
func (s *Session) Answer(ctx context.Context, text string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePuzzle || s.puzzle == nil || s.active == nil {
		return false, ErrNoActivePuzzle
	}

	if !s.puzzle.Check(text) {
		s.publish(ctx, protocol.Event{Type: protocol.EventWrongAnswer, Entity: entityView(s.active)})
		return false, nil
	}

	s.active.Resolved = true
	s.stats.Score += s.rules.ScorePerSolve
	s.stats.Level = s.rules.Level(s.stats.Score)
	s.stats.Collected = append(s.stats.Collected, s.active.ID)

	slog.InfoContext(ctx, "puzzle solved", "session", s.id, "entity", s.active.ID, "score", s.stats.Score)

	s.publish(ctx, protocol.Event{
		Type:    protocol.EventSolved,
		Entity:  entityView(s.active),
		Stats:   s.statsView(),
		Message: s.puzzle.Explanation,
	})

	s.clearInteraction()
	s.state = StatePlaying
	s.publishState(ctx)
	return true, nil
}

// Close dismisses the tutorial, or abandons the request still loading it.
// The player is stepped back from the entity so it does not fire again
// immediately.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateLoading && s.state != StatePuzzle {
		return ErrNoActivePuzzle
	}

	s.cancelRequest()
	s.gen++

	if s.active != nil {
		s.resolver.Nudge(&s.player, s.active.Position, s.rules.NudgeDistance)
	}
	s.player.LastInteraction = s.lastNow

	s.clearInteraction()
	s.state = StatePlaying
	s.publishState(ctx)
	return nil
}

// Home abandons the game and restores the session to its initial state: the
// same city with every entity unresolved, the player at spawn and no score.
func (s *Session) Home(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelRequest()
	s.gen++

	s.world.Reset()
	s.player = movement.NewState(mgl64.Vec3{}, s.moveCfg)
	s.input = movement.Input{}
	s.locked = false
	s.stats = newStats()
	s.frames = 0
	s.clearInteraction()
	s.state = StateHome

	slog.InfoContext(ctx, "session reset", "session", s.id)

	s.publish(ctx, protocol.Event{Type: protocol.EventReset, Stats: s.statsView()})
	s.publishState(ctx)
}

// Stop abandons any in-flight request. The session must not be used after.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelRequest()
	s.gen++
}

// Snapshot describes the whole session as a state event.
func (s *Session) Snapshot() protocol.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateEvent()
}

func (s *Session) cancelRequest() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.pending = nil
}

func (s *Session) clearInteraction() {
	s.active = nil
	s.puzzle = nil
}
