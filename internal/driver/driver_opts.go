package driver

import "time"

type FrameDriverOpt func(*FrameDriver)

func WithFrameInterval(interval time.Duration) FrameDriverOpt {
	return func(d *FrameDriver) {
		d.interval = interval
	}
}

func WithMaxFrameDelta(max time.Duration) FrameDriverOpt {
	return func(d *FrameDriver) {
		d.maxDelta = max
	}
}

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) FrameDriverOpt {
	return func(d *FrameDriver) {
		d.now = now
	}
}
