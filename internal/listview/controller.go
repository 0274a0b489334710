package listview

import (
	"sync"
	"time"
)

// Controller coalesces rapid filter-input changes into a single delayed
// evaluation and guarantees that only the most recent evaluation's result is
// ever committed. It is the one consolidated replacement for the per-screen
// debounce variants the list screens used to carry.
//
// States: Idle -> Pending (timer armed) -> Evaluating -> Idle. Each Submit
// while Pending restarts the window; each Submit while Evaluating supersedes
// the running evaluation, whose late result is then discarded at Commit.
type Controller struct {
	window time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64
	pending func(seq uint64)
	closed  bool
}

const DefaultDebounceWindow = 300 * time.Millisecond

// NewController creates a controller with the given debounce window.
// A non-positive window falls back to the default.
func NewController(window time.Duration) *Controller {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &Controller{window: window}
}

// Submit schedules fn to run once the debounce window elapses without a
// newer submission. fn receives the evaluation's sequence number and must
// pass it back to Commit to publish its result.
func (c *Controller) Submit(fn func(seq uint64)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.seq++
	seq := c.seq
	c.pending = fn

	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.window, func() {
		c.fire(seq)
	})
}

// Flush short-circuits the debounce window: if an evaluation is pending it
// runs immediately, superseding the armed timer.
func (c *Controller) Flush() {
	c.mu.Lock()
	if c.closed || c.pending == nil {
		c.mu.Unlock()
		return
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	seq := c.seq
	c.mu.Unlock()

	c.fire(seq)
}

func (c *Controller) fire(seq uint64) {
	c.mu.Lock()
	if c.closed || seq != c.seq || c.pending == nil {
		c.mu.Unlock()
		return
	}
	fn := c.pending
	c.pending = nil
	c.mu.Unlock()

	fn(seq)
}

// Commit publishes an evaluation's result by running apply, but only when
// the evaluation is still the most recent one and the controller is alive.
// It reports whether apply ran; a false return is the stale-result discard.
// apply runs under the controller lock and must not call back into the
// controller.
func (c *Controller) Commit(seq uint64, apply func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || seq != c.seq {
		return false
	}
	apply()
	return true
}

// Close tears the controller down. Any armed timer is cancelled and no
// evaluation fires or commits afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.pending = nil
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
