package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/cryptocity/internal/driver"
)

const (
	minFrameInterval = 5 * time.Millisecond
	maxFrameInterval = time.Second
)

type Config struct {
	FrameInterval string           `json:"frame_interval"`
	MaxFrameDelta string           `json:"max_frame_delta"`
	TuningPath    string           `json:"tuning_path"`
	Listeners     []ListenerConfig `json:"listeners"`
	Storage       StorageConfig    `json:"storage"`
	Nats          NatsConfig       `json:"nats"`
	Tutorial      TutorialConfig   `json:"tutorial"`
	Session       SessionConfig    `json:"session"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if c.FrameInterval != "" {
		d, err := time.ParseDuration(c.FrameInterval)
		if err != nil {
			el.Add(fmt.Errorf("parsing frame_interval: %w", err))
		} else if d < minFrameInterval || d > maxFrameInterval {
			el.Add(fmt.Errorf("frame_interval must be between %s and %s", minFrameInterval, maxFrameInterval))
		}
	}

	if c.MaxFrameDelta != "" {
		d, err := time.ParseDuration(c.MaxFrameDelta)
		if err != nil {
			el.Add(fmt.Errorf("parsing max_frame_delta: %w", err))
		} else if d <= 0 {
			el.Add(fmt.Errorf("max_frame_delta must be positive"))
		}
	}

	if len(c.Listeners) == 0 {
		el.Add(fmt.Errorf("at least one listener is required"))
	}
	for i, l := range c.Listeners {
		err := l.validate()
		if err != nil {
			el.Add(fmt.Errorf("listener %d: %w", i, err))
		}
	}

	el.Add(c.Storage.validate())
	el.Add(c.Nats.validate())
	el.Add(c.Tutorial.validate())
	el.Add(c.Session.validate())

	return el.Err()
}

func (c *Config) driverOpts() []driver.FrameDriverOpt {
	var opts []driver.FrameDriverOpt
	if d, err := time.ParseDuration(c.FrameInterval); err == nil {
		opts = append(opts, driver.WithFrameInterval(d))
	}
	if d, err := time.ParseDuration(c.MaxFrameDelta); err == nil {
		opts = append(opts, driver.WithMaxFrameDelta(d))
	}
	return opts
}
