// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ware

import (
	"io"
	"log/slog"
	"time"
)

// DefaultChannelCapacity is the bounded capacity of each channel queue.
const DefaultChannelCapacity = 64

// config holds the settings a root pipeline hands to its interpreter.
type config struct {
	logger   *slog.Logger
	clock    Clock
	main     Handler
	capacity int
}

func defaultConfig() config {
	return config{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		clock:    systemClock{},
		capacity: DefaultChannelCapacity,
	}
}

// Option configures a pipeline created with [New].
// Options only take effect on the pipeline that becomes root.
type Option func(*config)

// WithLogger configures the structured logger.
// The interpreter logs boot failures and failed forks nobody joined.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock replaces the process clock used by [Delay].
func WithClock(clock Clock) Option {
	return func(c *config) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithMain sets the handler that receives values pushed through the
// [Driver]. Without it, pushed values go through the pipeline itself.
func WithMain(h Handler) Option {
	return func(c *config) {
		c.main = h
	}
}

// WithChannelCapacity sets the capacity of the value and waiter queues
// of every channel the interpreter creates by name.
func WithChannelCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// systemClock reads the monotonic process clock.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
