package session

import "time"

// Stopwatch is the Mode-2 elapsed timer. All arithmetic is pure against
// the passed wall-clock instant; the redraw cadence belongs to the UI.
type Stopwatch struct {
	running   bool
	elapsed   time.Duration
	startedAt time.Time
}

// Running reports whether the stopwatch is advancing
func (s *Stopwatch) Running() bool { return s.running }

// Start begins (or continues) measuring from now
func (s *Stopwatch) Start(now time.Time) {
	if s.running {
		return
	}
	s.running = true
	s.startedAt = now
}

// Pause freezes the accumulated time at now
func (s *Stopwatch) Pause(now time.Time) {
	if !s.running {
		return
	}
	s.elapsed += now.Sub(s.startedAt)
	s.running = false
}

// Resume continues from the frozen accumulated time. No-op unless
// paused with time on the clock.
func (s *Stopwatch) Resume(now time.Time) {
	if s.running || s.elapsed == 0 {
		return
	}
	s.running = true
	s.startedAt = now
}

// Reset stops the stopwatch and discards accumulated time
func (s *Stopwatch) Reset() {
	*s = Stopwatch{}
}

// Elapsed returns the measured duration as of now
func (s *Stopwatch) Elapsed(now time.Time) time.Duration {
	if s.running {
		return s.elapsed + now.Sub(s.startedAt)
	}
	return s.elapsed
}

// Countdown is the Mode-3 standalone countdown (no task attached)
type Countdown struct {
	running       bool
	totalSeconds  int
	baseRemaining int
	startedAt     time.Time
	finished      bool
}

// Running reports whether the countdown is advancing
func (c *Countdown) Running() bool { return c.running }

// TotalSeconds returns the configured countdown length
func (c *Countdown) TotalSeconds() int { return c.totalSeconds }

// Start begins a countdown of the given minutes from now
func (c *Countdown) Start(minutes int, now time.Time) {
	total := minutes * 60
	*c = Countdown{
		running:       true,
		totalSeconds:  total,
		baseRemaining: total,
		startedAt:     now,
	}
}

// Pause freezes the remaining time (clamped at zero)
func (c *Countdown) Pause(now time.Time) {
	if !c.running {
		return
	}
	remaining := c.Remaining(now)
	if remaining < 0 {
		remaining = 0
	}
	c.baseRemaining = remaining
	c.running = false
	c.startedAt = time.Time{}
}

// Resume continues from the frozen remaining time. No-op unless paused
// with time left.
func (c *Countdown) Resume(now time.Time) {
	if c.running || c.baseRemaining <= 0 {
		return
	}
	c.running = true
	c.startedAt = now
}

// Stop discards the countdown entirely
func (c *Countdown) Stop() {
	*c = Countdown{}
}

// Remaining returns the seconds left as of now
func (c *Countdown) Remaining(now time.Time) int {
	if !c.running {
		return c.baseRemaining
	}
	return c.baseRemaining - int(now.Sub(c.startedAt)/time.Second)
}

// Tick checks for completion. It returns true exactly once, on the
// tick that reached zero; the countdown stops advancing at that point.
func (c *Countdown) Tick(now time.Time) (finished bool) {
	if !c.running || c.finished {
		return false
	}
	if c.Remaining(now) <= 0 {
		c.running = false
		c.finished = true
		c.baseRemaining = 0
		return true
	}
	return false
}
