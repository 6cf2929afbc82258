package tutorial

import (
	"context"

	"github.com/pixil98/cryptocity/internal/city"
)

// Provider produces a puzzle for a topic. Implementations must honor ctx
// cancellation.
type Provider interface {
	Generate(ctx context.Context, topic city.Topic) (*Puzzle, error)
}

type ProviderFunc func(ctx context.Context, topic city.Topic) (*Puzzle, error)

func (f ProviderFunc) Generate(ctx context.Context, topic city.Topic) (*Puzzle, error) {
	return f(ctx, topic)
}
