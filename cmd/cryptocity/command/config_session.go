package command

import (
	"fmt"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/cryptocity/internal/city"
	"github.com/pixil98/cryptocity/internal/session"
	"github.com/pixil98/cryptocity/internal/tuning"
	"github.com/pixil98/cryptocity/internal/tutorial"
)

type SessionConfig struct {
	// Seed fixes every city layout; zero picks a fresh seed per session.
	Seed        uint64 `json:"seed"`
	MaxSessions int    `json:"max_sessions"`
}

func (c *SessionConfig) validate() error {
	el := errors.NewErrorList()

	if c.MaxSessions < 0 {
		el.Add(fmt.Errorf("max_sessions must not be negative"))
	}

	return el.Err()
}

func (c *SessionConfig) buildManager(
	tn tuning.Tuning,
	monoliths map[string]*city.MonolithSpec,
	provider tutorial.Provider,
	publisher session.Publisher,
) *session.Manager {
	var opts []session.ManagerOpt
	if c.MaxSessions > 0 {
		opts = append(opts, session.WithMaxSessions(c.MaxSessions))
	}

	cfg := session.Config{
		Tuning:    tn,
		Monoliths: monoliths,
		Seed:      c.Seed,
	}
	return session.NewManager(cfg, provider, publisher, opts...)
}
