package grpc

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// sweepThreshold is the number of tracked limiters above which idle ones
// are dropped.
const sweepThreshold = 1024

type cooldownKey struct {
	method string
	userID string
}

// cooldown keeps one single-token limiter per (method, user). A zero
// interval disables it.
type cooldown struct {
	interval time.Duration
	now      func() time.Time

	mu       sync.Mutex
	limiters map[cooldownKey]*rate.Limiter
}

func newCooldown(interval time.Duration) *cooldown {
	return &cooldown{
		interval: interval,
		now:      time.Now,
		limiters: make(map[cooldownKey]*rate.Limiter),
	}
}

// allow reports whether the call may proceed, and otherwise how long the
// caller has to wait.
func (c *cooldown) allow(method, userID string) (time.Duration, bool) {
	if c == nil || c.interval <= 0 {
		return 0, true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	key := cooldownKey{method: method, userID: userID}

	lim, ok := c.limiters[key]
	if !ok {
		if len(c.limiters) >= sweepThreshold {
			c.sweep(now)
		}
		lim = rate.NewLimiter(rate.Every(c.interval), 1)
		c.limiters[key] = lim
	}

	r := lim.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return delay, false
	}
	return 0, true
}

// sweep drops limiters that have fully refilled; they behave like new ones.
func (c *cooldown) sweep(now time.Time) {
	for key, lim := range c.limiters {
		if lim.TokensAt(now) >= 1 {
			delete(c.limiters, key)
		}
	}
}

func cooldownMessage(wait time.Duration) string {
	return fmt.Sprintf("⏳ Please wait %.1fs before using this command again.", wait.Seconds())
}
