package tutorial

import (
	"context"
	"log/slog"
	"time"

	"github.com/pixil98/cryptocity/internal/city"
	"github.com/pixil98/cryptocity/internal/storage"
)

const DefaultTimeout = 10 * time.Second

// FallbackProvider bounds the primary provider with a timeout and serves the
// fallback provider whenever the primary fails, so a session never waits on
// the network forever.
type FallbackProvider struct {
	primary  Provider
	fallback Provider
	timeout  time.Duration
	archive  storage.Storer[*Puzzle]
}

type FallbackOpt func(*FallbackProvider)

func WithTimeout(d time.Duration) FallbackOpt {
	return func(f *FallbackProvider) {
		f.timeout = d
	}
}

// WithArchive saves every puzzle the primary produces into st.
func WithArchive(st storage.Storer[*Puzzle]) FallbackOpt {
	return func(f *FallbackProvider) {
		f.archive = st
	}
}

func NewFallbackProvider(primary, fallback Provider, opts ...FallbackOpt) *FallbackProvider {
	f := &FallbackProvider{
		primary:  primary,
		fallback: fallback,
		timeout:  DefaultTimeout,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Generate returns an error only when ctx itself is done; failures of the
// primary are logged and answered from the fallback.
func (f *FallbackProvider) Generate(ctx context.Context, topic city.Topic) (*Puzzle, error) {
	pctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	p, err := f.primary.Generate(pctx, topic)
	if err == nil {
		f.save(ctx, p)
		return p, nil
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	slog.WarnContext(ctx, "tutorial provider failed, using fallback", "topic", topic, "error", err)
	return f.fallback.Generate(ctx, topic)
}

func (f *FallbackProvider) save(ctx context.Context, p *Puzzle) {
	if f.archive == nil {
		return
	}
	if err := f.archive.Save(p.ID, p); err != nil {
		slog.WarnContext(ctx, "failed to archive puzzle", "id", p.ID, "error", err)
	}
}
