// Package resource schedules remote fetch work against process-wide limits.
//
// A Controller owns two budgets: a fixed number of concurrent fetch slots
// and an optional IO byte rate. Loads acquire a slot per in-flight object
// and report the bytes they move; low and medium priority lanes wait on the
// rate limiter while high priority reads are never throttled.
package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds fetch scheduling limits.
type Config struct {
	// MaxFetchSlots is the maximum number of objects in flight at once.
	// If 0, defaults to 8.
	MaxFetchSlots int64

	// IOLimitBytesPerSec caps throughput for low/medium priority reads.
	// If 0, reads are never rate limited.
	IOLimitBytesPerSec int64
}

// Controller grants fetch slots and meters IO bandwidth.
// A nil *Controller is valid and enforces no limits.
type Controller struct {
	fetchSem  *semaphore.Weighted
	ioLimiter *rate.Limiter // nil if unlimited

	bytesFetched atomic.Int64
}

// NewController creates a Controller from cfg.
func NewController(cfg Config) *Controller {
	if cfg.MaxFetchSlots <= 0 {
		cfg.MaxFetchSlots = 8
	}

	c := &Controller{
		fetchSem: semaphore.NewWeighted(cfg.MaxFetchSlots),
	}

	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}

	return c
}

// AcquireSlot blocks until a fetch slot is free or ctx is canceled.
func (c *Controller) AcquireSlot(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.fetchSem.Acquire(ctx, 1)
}

// ReleaseSlot returns a fetch slot.
func (c *Controller) ReleaseSlot() {
	if c == nil {
		return
	}
	c.fetchSem.Release(1)
}

// WaitIO accounts n bytes of remote IO at the given priority, blocking on
// the rate limiter for low and medium priority lanes.
func (c *Controller) WaitIO(ctx context.Context, n int64, prio Priority) error {
	if c == nil || n <= 0 {
		return nil
	}

	c.bytesFetched.Add(n)

	if c.ioLimiter == nil || prio == PriorityHigh {
		return nil
	}

	// The limiter burst bounds a single reservation; split large objects
	// into burst-sized waits so they cannot starve the limiter forever.
	burst := int64(c.ioLimiter.Burst())
	for n > 0 {
		step := n
		if step > burst {
			step = burst
		}
		if err := c.ioLimiter.WaitN(ctx, int(step)); err != nil {
			return err
		}
		n -= step
	}
	return nil
}

// BytesFetched reports the total bytes accounted via WaitIO.
func (c *Controller) BytesFetched() int64 {
	if c == nil {
		return 0
	}
	return c.bytesFetched.Load()
}
