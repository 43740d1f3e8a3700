package quiz

import (
	"context"
	"sync"
	"time"
)

// Countdown is a wall-clock timer that calls onExpire once when the time limit runs out.
type Countdown struct {
	tick     time.Duration
	onExpire func()

	mu        sync.Mutex
	remaining time.Duration
	expired   bool

	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
	done      chan struct{}
}

// NewCountdown creates a stopped countdown of limit, decremented every tick
func NewCountdown(limit, tick time.Duration, onExpire func()) *Countdown {
	if tick <= 0 {
		tick = time.Second
	}
	return &Countdown{
		tick:      tick,
		onExpire:  onExpire,
		remaining: limit,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start runs the countdown in a goroutine until it expires, Stop is called or ctx is done.
func (c *Countdown) Start(ctx context.Context) {
	c.startOnce.Do(func() {
		go c.run(ctx)
	})
}

func (c *Countdown) run(ctx context.Context) {
	defer close(c.done)

	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			c.remaining = max(c.remaining-c.tick, 0)
			fire := c.remaining == 0
			c.expired = fire
			c.mu.Unlock()

			if fire {
				if c.onExpire != nil {
					c.onExpire()
				}
				return
			}
		}
	}
}

// Stop cancels the countdown. It is safe to call more than once and from onExpire.
func (c *Countdown) Stop() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}

// Done is closed when a started countdown goroutine exits.
func (c *Countdown) Done() <-chan struct{} {
	return c.done
}

// Remaining returns the time left.
func (c *Countdown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Expired reports whether the limit was reached.
func (c *Countdown) Expired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expired
}
