// Package driver runs the fixed-interval frame loop that advances every
// session.
package driver

import (
	"context"
	"time"
)

const (
	DefaultFrameInterval = time.Second / 60
	DefaultMaxFrameDelta = 100 * time.Millisecond
)

// Frame is one step of the simulation clock.
type Frame struct {
	Now   time.Time
	Delta float64
}

type Manager interface {
	Tick(context.Context, Frame) error
}

// FrameDriver calls every manager once per frame with the real elapsed time
// since the previous frame, clamped to maxDelta so a stalled process does
// not teleport players through walls.
type FrameDriver struct {
	interval time.Duration
	maxDelta time.Duration
	managers []Manager
	now      func() time.Time

	last time.Time
}

func NewFrameDriver(managers []Manager, opts ...FrameDriverOpt) *FrameDriver {
	d := &FrameDriver{
		interval: DefaultFrameInterval,
		maxDelta: DefaultMaxFrameDelta,
		managers: managers,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *FrameDriver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.last = d.now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := d.Tick(ctx); err != nil {
				return err
			}
		}
	}
}

// Tick advances one frame.
func (d *FrameDriver) Tick(ctx context.Context) error {
	now := d.now()
	frame := Frame{Now: now, Delta: d.delta(now)}
	d.last = now

	for _, m := range d.managers {
		if err := m.Tick(ctx, frame); err != nil {
			return err
		}
	}
	return nil
}

func (d *FrameDriver) delta(now time.Time) float64 {
	if d.last.IsZero() {
		return d.interval.Seconds()
	}
	elapsed := now.Sub(d.last)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > d.maxDelta {
		elapsed = d.maxDelta
	}
	return elapsed.Seconds()
}
