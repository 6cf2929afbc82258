package listener

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pixil98/cryptocity/internal/protocol"
	"github.com/pixil98/cryptocity/internal/session"
)

const (
	wsWriteTimeout = 5 * time.Second
	wsOutQueue     = 64

	DefaultPongTimeout = 60 * time.Second
)

type Sessions interface {
	Create(ctx context.Context) (*session.Session, error)
	Remove(ctx context.Context, id string)
}

type EventSource interface {
	SubscribeEvents(sessionID string, handler func(protocol.Event)) (func(), error)
}

// WebsocketListener serves browser clients. Each connection owns one session;
// client messages drive it and its events are streamed back as JSON.
type WebsocketListener struct {
	port     uint16
	path     string
	sessions Sessions
	events   EventSource
	upgrader websocket.Upgrader

	// A connection silent for pongTimeout is dropped. Pings go out at
	// pingInterval so an idle but healthy client always answers in time.
	pongTimeout  time.Duration
	pingInterval time.Duration
}

type WebsocketOpt func(*WebsocketListener)

// WithPongTimeout sets how long a connection may stay silent. Pings are sent
// at nine tenths of it.
func WithPongTimeout(d time.Duration) WebsocketOpt {
	return func(l *WebsocketListener) {
		if d <= 0 {
			return
		}
		l.pongTimeout = d
		l.pingInterval = max(d*9/10, time.Millisecond)
	}
}

func NewWebsocketListener(port uint16, path string, sessions Sessions, events EventSource, opts ...WebsocketOpt) *WebsocketListener {
	if path == "" {
		path = "/ws"
	}
	l := &WebsocketListener{
		port:     port,
		path:     path,
		sessions: sessions,
		events:   events,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
	WithPongTimeout(DefaultPongTimeout)(l)

	for _, opt := range opts {
		opt(l)
	}

	return l
}

func (l *WebsocketListener) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle(l.path, l.Handler(ctx))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", l.port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				slog.ErrorContext(ctx, "shutting down websocket server", "error", err)
			}
		case <-done:
		}
	}()

	slog.InfoContext(ctx, "listening for websockets", "port", l.port, "path", l.path)

	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving websockets on port %d: %w", l.port, err)
	}
	return nil
}

// Handler upgrades requests and plays a session per connection until the
// socket closes or ctx is cancelled.
func (l *WebsocketListener) Handler(ctx context.Context) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		conn, err := l.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			slog.WarnContext(ctx, "upgrading websocket", "remote", r.RemoteAddr, "error", err)
			return
		}
		defer conn.Close()

		connCtx, cancel := context.WithCancel(ctx)
		defer cancel()

		if err := l.serve(connCtx, cancel, conn); err != nil {
			slog.WarnContext(ctx, "websocket session", "remote", r.RemoteAddr, "error", err)
		}
	})
}

func (l *WebsocketListener) serve(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn) error {
	s, err := l.sessions.Create(ctx)
	if err != nil {
		l.writeClose(conn, websocket.CloseTryAgainLater, err.Error())
		return fmt.Errorf("creating session: %w", err)
	}
	defer l.sessions.Remove(context.WithoutCancel(ctx), s.ID())

	out := make(chan protocol.Event, wsOutQueue)
	enqueue := func(ev protocol.Event) {
		select {
		case out <- ev:
		case <-ctx.Done():
		default:
			// A slow client only loses frames; the next one supersedes it.
			if ev.Type == protocol.EventFrame {
				return
			}
			select {
			case out <- ev:
			case <-ctx.Done():
			}
		}
	}

	unsubscribe, err := l.events.SubscribeEvents(s.ID(), enqueue)
	if err != nil {
		return fmt.Errorf("subscribing to session events: %w", err)
	}
	defer unsubscribe()

	enqueue(s.Snapshot())

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(l.pongTimeout))
	})

	go func() {
		ping := time.NewTicker(l.pingInterval)
		defer ping.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ping.C:
				err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout))
				if err != nil {
					cancel()
					return
				}
			case ev := <-out:
				if err := writeEvent(conn, ev); err != nil {
					cancel()
					return
				}
			}
		}
	}()

	for {
		_ = conn.SetReadDeadline(time.Now().Add(l.pongTimeout))
		_, data, err := conn.ReadMessage()
		if err != nil {
			cancel()
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("reading message: %w", err)
		}

		msg, err := protocol.DecodeClientMessage(data)
		if err != nil {
			enqueue(errorEvent(s.ID(), err))
			continue
		}

		if err := dispatch(ctx, s, msg); err != nil {
			enqueue(errorEvent(s.ID(), err))
		}
	}
}

func dispatch(ctx context.Context, s *session.Session, msg protocol.ClientMessage) error {
	switch msg.Type {
	case protocol.MsgStart:
		return s.Start(ctx)
	case protocol.MsgInput:
		if msg.Input != nil {
			s.SetInput(msg.Input.Input, msg.Input.PointerLocked)
		}
		return nil
	case protocol.MsgAnswer:
		_, err := s.Answer(ctx, msg.Answer)
		return err
	case protocol.MsgClose:
		return s.Close(ctx)
	case protocol.MsgHome:
		s.Home(ctx)
		return nil
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
}

func errorEvent(sessionID string, err error) protocol.Event {
	return protocol.Event{
		Type:    protocol.EventError,
		Session: sessionID,
		Message: err.Error(),
	}
}

func writeEvent(conn *websocket.Conn, ev protocol.Event) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, b)
}

func (l *WebsocketListener) writeClose(conn *websocket.Conn, code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
}
