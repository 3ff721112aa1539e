package debugdraw

import (
	"time"
)

// MaxFrameDelta caps the delta a Clock reports, e.g. after a stall.
const MaxFrameDelta = time.Second

type Clock struct {
	Time time.Time
	Dt   time.Duration

	now func() time.Time
}

func NewClock() *Clock {
	return &Clock{
		Time: time.Now(),
		now:  time.Now,
	}
}

// Tick advances the clock to now and returns the elapsed time.
func (c *Clock) Tick() time.Duration {
	now := c.now()
	c.Dt = min(now.Sub(c.Time), MaxFrameDelta)
	if c.Dt < 0 {
		c.Dt = 0
	}
	c.Time = now
	return c.Dt
}
