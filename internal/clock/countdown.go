package clock

// Countdown is a one-second-resolution decrementing counter. It has no notion
// of wall time: whoever owns it calls Tick once per elapsed second while it is
// active, and simply stops calling it while paused.
type Countdown struct {
	Remaining int
}

// NewCountdown creates a countdown starting at seconds
func NewCountdown(seconds int) *Countdown {
	if seconds < 0 {
		seconds = 0
	}
	return &Countdown{Remaining: seconds}
}

// Tick decrements the counter and reports whether it has just expired.
// The value is clamped at zero.
func (c *Countdown) Tick() bool {
	if c.Remaining <= 0 {
		c.Remaining = 0
		return false
	}
	c.Remaining--
	return c.Remaining == 0
}

// Expired reports whether the counter has reached zero
func (c *Countdown) Expired() bool {
	return c.Remaining <= 0
}

// Add adjusts the counter by delta seconds, never below zero
func (c *Countdown) Add(delta int) {
	c.Remaining += delta
	if c.Remaining < 0 {
		c.Remaining = 0
	}
}
