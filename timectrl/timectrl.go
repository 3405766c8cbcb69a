package timectrl

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Listener is invoked once per tick with the tick index (starting at 0) and
// the clock reading at which it fired.
type Listener func(ctx context.Context, tick int, now time.Time)

// Controller fires listeners immediately and then every Interval until the
// run duration has elapsed or the context is cancelled. Listeners run
// sequentially on the controller goroutine, so a slow listener delays the
// next tick instead of overlapping it.
type Controller struct {
	mu       sync.RWMutex
	clock    clockwork.Clock
	Interval time.Duration

	start     time.Time
	ticks     int
	listeners []Listener
}

// NewController constructs a controller. A nil clock means wall-clock time.
func NewController(clock clockwork.Clock, interval time.Duration) *Controller {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Controller{clock: clock, Interval: interval}
}

// AddListener registers a callback invoked on every tick. Listeners must be
// added before Start.
func (c *Controller) AddListener(fn Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Now returns the controller's clock reading.
func (c *Controller) Now() time.Time { return c.clock.Now() }

// StartTime returns when the current or last run began.
func (c *Controller) StartTime() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.start
}

// Ticks returns how many ticks have fired so far.
func (c *Controller) Ticks() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ticks
}

// Start runs the controller in a separate goroutine. The returned channel
// is closed when the run finishes. A non-positive duration runs until ctx
// is cancelled.
func (c *Controller) Start(ctx context.Context, duration time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = c.Run(ctx, duration)
	}()
	return done
}

// Run blocks until the duration elapses (returning nil) or ctx is
// cancelled (returning ctx.Err()). No tick fires at or after
// start+duration.
func (c *Controller) Run(ctx context.Context, duration time.Duration) error {
	c.mu.Lock()
	c.start = c.clock.Now()
	c.ticks = 0
	start := c.start
	listeners := append([]Listener(nil), c.listeners...)
	c.mu.Unlock()

	ticker := c.clock.NewTicker(c.Interval)
	defer ticker.Stop()

	fire := func(now time.Time) {
		c.mu.Lock()
		tick := c.ticks
		c.ticks++
		c.mu.Unlock()
		for _, fn := range listeners {
			fn(ctx, tick, now)
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	fire(start)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
		}
		now := c.clock.Now()
		if duration > 0 && now.Sub(start) >= duration {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fire(now)
	}
}
