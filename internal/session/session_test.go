package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pixil98/go-testutil"

	"github.com/pixil98/cryptocity/internal/city"
	"github.com/pixil98/cryptocity/internal/movement"
	"github.com/pixil98/cryptocity/internal/protocol"
	"github.com/pixil98/cryptocity/internal/tuning"
	"github.com/pixil98/cryptocity/internal/tutorial"
)

var testStart = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []protocol.Event
}

func (p *recordingPublisher) PublishEvent(_ string, ev protocol.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) count(typ protocol.EventType) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, ev := range p.events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

func puzzleProvider(answer string) tutorial.Provider {
	return tutorial.ProviderFunc(func(ctx context.Context, topic city.Topic) (*tutorial.Puzzle, error) {
		return &tutorial.Puzzle{ID: "p1", Topic: topic, Title: "Shift", Task: "Decrypt KHOOR", CorrectAnswer: answer}, nil
	})
}

// gatedProvider holds every request until release is closed, ignoring
// cancellation, so a reply can arrive after the player gave up on it.
type gatedProvider struct {
	release chan struct{}
	done    sync.WaitGroup
}

func newGatedProvider() *gatedProvider {
	return &gatedProvider{release: make(chan struct{})}
}

func (g *gatedProvider) Generate(ctx context.Context, topic city.Topic) (*tutorial.Puzzle, error) {
	g.done.Add(1)
	defer g.done.Done()
	<-g.release
	return &tutorial.Puzzle{ID: "late", Topic: topic, Title: "Late", Task: "t", CorrectAnswer: "late"}, nil
}

func testTuning() tuning.Tuning {
	tn := tuning.Default()
	tn.NPC.Count = 0
	tn.Vehicles.Count = 0
	return tn
}

func newTestSession(t *testing.T, provider tutorial.Provider) (*Session, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	s, err := New("test", Config{Tuning: testTuning(), Monoliths: city.DefaultMonoliths(), Seed: 42}, provider, pub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s, pub
}

// walkInto teleports the player onto entity idx and runs one frame, returning
// whichever entity fired.
func walkInto(t *testing.T, s *Session, idx int, now time.Time) *city.Entity {
	t.Helper()
	s.mu.Lock()
	e := s.world.Entities[idx]
	s.player.Position = mgl64.Vec3{e.Position.X(), 1.6, e.Position.Z()}
	s.mu.Unlock()

	s.Tick(context.Background(), now, 0.016)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateLoading || s.active == nil {
		t.Fatalf("expected loading after walking into %s, got %s", e.ID, s.state)
	}
	return s.active
}

func tickUntil(t *testing.T, s *Session, now time.Time, want State) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for s.State() != want {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s, state is %s", want, s.State())
		}
		s.Tick(context.Background(), now, 0.016)
		time.Sleep(time.Millisecond)
	}
}

func TestSession_Start(t *testing.T) {
	s, pub := newTestSession(t, puzzleProvider("hello"))

	testutil.AssertEqual(t, "state", s.State(), StatePlaying)
	testutil.AssertEqual(t, "paused", s.Paused(), false)
	testutil.AssertEqual(t, "state events", pub.count(protocol.EventState), 1)

	err := s.Start(context.Background())
	testutil.AssertEqual(t, "already started", errors.Is(err, ErrAlreadyStarted), true)
}

func TestSession_Tick_Paused(t *testing.T) {
	tests := map[string]struct {
		start  bool
		locked bool
		expMov bool
	}{
		"home screen":      {start: false, locked: true, expMov: false},
		"pointer unlocked": {start: true, locked: false, expMov: false},
		"playing":          {start: true, locked: true, expMov: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s, err := New("test", Config{Tuning: testTuning(), Seed: 7}, puzzleProvider("x"), nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.start {
				if err := s.Start(context.Background()); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}
			s.SetInput(movement.Input{Intent: movement.Intent{Forward: true}}, tt.locked)

			s.Tick(context.Background(), testStart, 0.1)

			testutil.AssertEqual(t, "moved", s.Player().Position.Z() != 0, tt.expMov)
		})
	}
}

func TestSession_Answer(t *testing.T) {
	s, pub := newTestSession(t, puzzleProvider("hello"))

	e := walkInto(t, s, 0, testStart)
	testutil.AssertEqual(t, "interaction events", pub.count(protocol.EventInteraction), 1)

	tickUntil(t, s, testStart, StatePuzzle)
	testutil.AssertEqual(t, "tutorial events", pub.count(protocol.EventTutorial), 1)

	ok, err := s.Answer(context.Background(), "goodbye")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "wrong answer", ok, false)
	testutil.AssertEqual(t, "still puzzle", s.State(), StatePuzzle)
	testutil.AssertEqual(t, "wrong events", pub.count(protocol.EventWrongAnswer), 1)
	testutil.AssertEqual(t, "not resolved", e.Resolved, false)

	ok, err = s.Answer(context.Background(), "  HELLO ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "right answer", ok, true)
	testutil.AssertEqual(t, "state", s.State(), StatePlaying)
	testutil.AssertEqual(t, "resolved", e.Resolved, true)
	testutil.AssertEqual(t, "solved events", pub.count(protocol.EventSolved), 1)

	stats := s.Stats()
	testutil.AssertEqual(t, "score", stats.Score, 250)
	testutil.AssertEqual(t, "level", stats.Level, 1)
	testutil.AssertEqual(t, "collected", len(stats.Collected), 1)
	testutil.AssertEqual(t, "collected id", stats.Collected[0], e.ID)

	_, err = s.Answer(context.Background(), "hello")
	testutil.AssertEqual(t, "no puzzle", errors.Is(err, ErrNoActivePuzzle), true)
}

func TestSession_Answer_OnlyTriggeringEntity(t *testing.T) {
	s, _ := newTestSession(t, puzzleProvider("hello"))

	e := walkInto(t, s, 0, testStart)
	tickUntil(t, s, testStart, StatePuzzle)
	if _, err := s.Answer(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s.Inspect(func(w *city.World, _ movement.State, _ movement.Input) {
		for _, other := range w.Entities {
			if other.ID != e.ID && other.Topic == e.Topic {
				testutil.AssertEqual(t, other.ID+" resolved", other.Resolved, false)
			}
		}
		testutil.AssertEqual(t, "remaining", w.Remaining(), len(w.Entities)-1)
	})
}

func TestSession_LevelUp(t *testing.T) {
	s, _ := newTestSession(t, puzzleProvider("hello"))

	now := testStart
	for i := range 4 {
		now = now.Add(2 * time.Second)
		walkInto(t, s, i, now)
		tickUntil(t, s, now, StatePuzzle)
		if ok, err := s.Answer(context.Background(), "hello"); err != nil || !ok {
			t.Fatalf("solve %d failed: %v", i, err)
		}
	}

	stats := s.Stats()
	testutil.AssertEqual(t, "score", stats.Score, 1000)
	testutil.AssertEqual(t, "level", stats.Level, 2)
}

func TestSession_Close_DiscardsLateResult(t *testing.T) {
	gp := newGatedProvider()
	s, pub := newTestSession(t, gp)

	e := walkInto(t, s, 0, testStart)

	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "state after close", s.State(), StatePlaying)

	close(gp.release)
	gp.done.Wait()

	for i := 1; i <= 5; i++ {
		s.Tick(context.Background(), testStart.Add(time.Duration(i)*10*time.Millisecond), 0.016)
	}

	testutil.AssertEqual(t, "state", s.State(), StatePlaying)
	testutil.AssertEqual(t, "resolved", e.Resolved, false)
	testutil.AssertEqual(t, "tutorial events", pub.count(protocol.EventTutorial), 0)
	testutil.AssertEqual(t, "score", s.Stats().Score, 0)
}

func TestSession_Close_CancelsRequest(t *testing.T) {
	cancelled := make(chan error, 1)
	provider := tutorial.ProviderFunc(func(ctx context.Context, topic city.Topic) (*tutorial.Puzzle, error) {
		<-ctx.Done()
		cancelled <- ctx.Err()
		return nil, ctx.Err()
	})
	s, _ := newTestSession(t, provider)

	walkInto(t, s, 0, testStart)
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case err := <-cancelled:
		testutil.AssertEqual(t, "cancelled", errors.Is(err, context.Canceled), true)
	case <-time.After(2 * time.Second):
		t.Fatal("request was not cancelled")
	}
}

func TestSession_Close_Cooldown(t *testing.T) {
	s, _ := newTestSession(t, puzzleProvider("hello"))

	walkInto(t, s, 0, testStart)
	tickUntil(t, s, testStart, StatePuzzle)

	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Tick(context.Background(), testStart.Add(100*time.Millisecond), 0.016)
	testutil.AssertEqual(t, "no retrigger", s.State(), StatePlaying)

	err := s.Close(context.Background())
	testutil.AssertEqual(t, "nothing to close", errors.Is(err, ErrNoActivePuzzle), true)
}

func TestSession_ProviderError(t *testing.T) {
	provider := tutorial.ProviderFunc(func(ctx context.Context, topic city.Topic) (*tutorial.Puzzle, error) {
		return nil, errors.New("offline")
	})
	s, _ := newTestSession(t, provider)

	walkInto(t, s, 0, testStart)
	tickUntil(t, s, testStart, StatePuzzle)

	ok, err := s.Answer(context.Background(), tutorial.DefaultPuzzle.CorrectAnswer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "default puzzle solvable", ok, true)
}

func TestSession_Home(t *testing.T) {
	s, pub := newTestSession(t, puzzleProvider("hello"))

	var total int
	s.Inspect(func(w *city.World, _ movement.State, _ movement.Input) {
		total = len(w.Entities)
	})

	walkInto(t, s, 0, testStart)
	tickUntil(t, s, testStart, StatePuzzle)
	if _, err := s.Answer(context.Background(), "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.SetInput(movement.Input{Intent: movement.Intent{Right: true}}, true)
	s.Tick(context.Background(), testStart.Add(5*time.Second), 0.1)

	s.Home(context.Background())

	testutil.AssertEqual(t, "state", s.State(), StateHome)
	testutil.AssertEqual(t, "reset events", pub.count(protocol.EventReset), 1)

	stats := s.Stats()
	testutil.AssertEqual(t, "score", stats.Score, 0)
	testutil.AssertEqual(t, "level", stats.Level, 1)
	testutil.AssertEqual(t, "collected", len(stats.Collected), 0)

	p := s.Player()
	testutil.AssertEqual(t, "spawn x", p.Position.X(), 0.0)
	testutil.AssertEqual(t, "spawn z", p.Position.Z(), 0.0)
	testutil.AssertEqual(t, "spawn y", p.Position.Y(), 1.6)
	testutil.AssertEqual(t, "cooldown cleared", p.LastInteraction.IsZero(), true)

	s.Inspect(func(w *city.World, _ movement.State, in movement.Input) {
		testutil.AssertEqual(t, "remaining", w.Remaining(), total)
		testutil.AssertEqual(t, "input cleared", in.Any(), false)
	})

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
}

func TestSession_Home_WhileLoading(t *testing.T) {
	gp := newGatedProvider()
	s, pub := newTestSession(t, gp)

	e := walkInto(t, s, 0, testStart)
	s.Home(context.Background())

	close(gp.release)
	gp.done.Wait()
	s.Tick(context.Background(), testStart.Add(time.Second), 0.016)

	testutil.AssertEqual(t, "state", s.State(), StateHome)
	testutil.AssertEqual(t, "resolved", e.Resolved, false)
	testutil.AssertEqual(t, "tutorial events", pub.count(protocol.EventTutorial), 0)
}

func TestSession_FrameEvents(t *testing.T) {
	s, pub := newTestSession(t, puzzleProvider("hello"))

	for i := range 9 {
		s.Tick(context.Background(), testStart.Add(time.Duration(i)*16*time.Millisecond), 0.016)
	}

	testutil.AssertEqual(t, "frame events", pub.count(protocol.EventFrame), 3)
}

func TestSession_Snapshot(t *testing.T) {
	s, _ := newTestSession(t, puzzleProvider("hello"))

	walkInto(t, s, 0, testStart)
	tickUntil(t, s, testStart, StatePuzzle)

	ev := s.Snapshot()
	testutil.AssertEqual(t, "type", ev.Type, protocol.EventState)
	testutil.AssertEqual(t, "state", ev.State, "puzzle")
	testutil.AssertEqual(t, "paused", ev.Paused, true)
	testutil.AssertEqual(t, "puzzle title", ev.Puzzle.Title, "Shift")
	testutil.AssertEqual(t, "session", ev.Session, "test")
}
