// Package console plays a session over a line-based terminal connection.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pixil98/cryptocity/internal/display"
	"github.com/pixil98/cryptocity/internal/movement"
	"github.com/pixil98/cryptocity/internal/protocol"
	"github.com/pixil98/cryptocity/internal/session"
)

const welcome = `Welcome to Crypto City.

Gems and monoliths hide lessons in cryptography. Walk up to one, read the
tutorial and answer its challenge to earn points. Type 'help' for commands
and 'start' to begin.`

type Sessions interface {
	Create(ctx context.Context) (*session.Session, error)
	Remove(ctx context.Context, id string)
}

type Events interface {
	SubscribeEvents(sessionID string, handler func(protocol.Event)) (func(), error)
}

// Console runs terminal sessions.
type Console struct {
	sessions Sessions
	events   Events
}

func New(sessions Sessions, events Events) *Console {
	return &Console{sessions: sessions, events: events}
}

// Run plays one session over conn until the player quits, the connection
// drops or ctx is cancelled.
func (c *Console) Run(ctx context.Context, conn io.ReadWriter) error {
	s, err := c.sessions.Create(ctx)
	if err != nil {
		if errors.Is(err, session.ErrTooManySessions) {
			_, _ = io.WriteString(conn, "The city is full. Try again later.\n")
		}
		return fmt.Errorf("creating session: %w", err)
	}
	defer c.sessions.Remove(ctx, s.ID())

	msgs := make(chan string, 16)
	unsub, err := c.events.SubscribeEvents(s.ID(), func(ev protocol.Event) {
		text := display.FormatEvent(ev)
		if text == "" {
			return
		}
		select {
		case msgs <- text:
		default:
			slog.Warn("dropping console message", "session", s.ID(), "type", ev.Type)
		}
	})
	if err != nil {
		return fmt.Errorf("subscribing to session events: %w", err)
	}
	defer unsub()

	p := &player{conn: conn, session: s}
	defer p.halt()

	return p.play(ctx, msgs)
}

// player is the console side of one session: the terminal plus the held
// key state the commands emulate.
type player struct {
	conn    io.ReadWriter
	session *session.Session

	mu    sync.Mutex
	input movement.Input
	timer *time.Timer
	quit  bool
}

func (p *player) play(ctx context.Context, msgs <-chan string) error {
	done := make(chan struct{})
	defer close(done)
	inputChan, inputErrChan := readLines(p.conn, done)

	if err := p.writeLine(display.Wrap(welcome)); err != nil {
		return err
	}
	if err := p.prompt(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case msg := <-msgs:
			if err := p.writeLine("\n" + msg); err != nil {
				return err
			}
			if err := p.prompt(); err != nil {
				return err
			}

		case line, ok := <-inputChan:
			if !ok {
				select {
				case err := <-inputErrChan:
					return err
				default:
					return nil
				}
			}

			line = strings.TrimSpace(line)
			if line == "" {
				if err := p.prompt(); err != nil {
					return err
				}
				continue
			}

			parts := strings.Fields(line)
			out, err := p.exec(ctx, strings.ToLower(parts[0]), parts[1:])
			if err != nil {
				var userErr *UserError
				if !errors.As(err, &userErr) {
					return fmt.Errorf("command execution failed: %w", err)
				}
				out = userErr.Message
			}
			if out != "" {
				if err := p.writeLine(out); err != nil {
					return err
				}
			}

			if p.quit {
				return nil
			}

			if err := p.prompt(); err != nil {
				return err
			}
		}
	}
}

// readLines scans r on its own goroutine until r fails or done is closed.
// The line channel is closed when scanning stops; a scan error, if any, is
// sent first.
func readLines(r io.Reader, done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	errs := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		errs <- scanner.Err()
	}()
	return lines, errs
}

// hold presses keys for d, then releases them.
func (p *player) hold(intent movement.Intent, d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.timer != nil {
		p.timer.Stop()
	}
	p.input.Intent = intent
	p.session.SetInput(p.input, true)

	p.timer = time.AfterFunc(d, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.input.Intent = movement.Intent{}
		p.session.SetInput(p.input, true)
	})
}

func (p *player) turn(radians float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.input.Yaw += radians
	p.input = p.input.Normalized()
	p.session.SetInput(p.input, true)
}

func (p *player) halt() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.input.Intent = movement.Intent{}
	p.session.SetInput(p.input, true)
}

func (p *player) yaw() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.input.Yaw
}

func (p *player) prompt() error {
	st := p.session.Stats()
	_, err := fmt.Fprintf(p.conn, "[%d pts L%d %s] > ", st.Score, st.Level, p.session.State())
	return err
}

func (p *player) writeLine(msg string) error {
	_, err := io.WriteString(p.conn, msg+"\n\n")
	return err
}
