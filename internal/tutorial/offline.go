package tutorial

import (
	"context"
	"sync"

	"github.com/pixil98/cryptocity/internal/city"
	"github.com/pixil98/cryptocity/internal/storage"
)

// DefaultPuzzle is served for any topic with no stored puzzle.
var DefaultPuzzle = Puzzle{
	ID:            "fallback",
	Title:         "Encryption 101",
	Tutorial:      "Encryption secures data by scrambling it.",
	Task:          "What is the goal of encryption?",
	CorrectAnswer: "security",
	Explanation:   "Encryption ensures confidentiality.",
}

// OfflineProvider serves puzzles from a store, cycling through the puzzles
// stored for each topic.
type OfflineProvider struct {
	store storage.Storer[*Puzzle]

	mu   sync.Mutex
	next map[city.Topic]int
}

func NewOfflineProvider(store storage.Storer[*Puzzle]) *OfflineProvider {
	return &OfflineProvider{
		store: store,
		next:  map[city.Topic]int{},
	}
}

func (o *OfflineProvider) Generate(ctx context.Context, topic city.Topic) (*Puzzle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var matches []*Puzzle
	for _, id := range storage.SortedIDs(o.store) {
		p, ok := o.store.Get(id)
		if ok && p.Topic == topic {
			matches = append(matches, p)
		}
	}

	out := DefaultPuzzle
	if len(matches) > 0 {
		o.mu.Lock()
		i := o.next[topic] % len(matches)
		o.next[topic] = i + 1
		o.mu.Unlock()

		out = *matches[i]
	}
	out.Topic = topic

	return &out, nil
}
