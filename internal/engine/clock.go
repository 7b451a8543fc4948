package engine

import "time"

// RunState is whether the simulation clock advances with real time.
type RunState string

const (
	RunStateRunning RunState = "running"
	RunStatePaused  RunState = "paused"
)

// Clock converts elapsed real time into whole simulated days.
type Clock struct {
	state       RunState
	baseDay     time.Duration
	minSpeed    float64
	maxSpeed    float64
	speed       float64
	accumulated time.Duration
}

// NewClock starts running at 1x, one day per baseDay.
func NewClock(baseDay time.Duration, minSpeed, maxSpeed float64) *Clock {
	return &Clock{
		state:    RunStateRunning,
		baseDay:  baseDay,
		minSpeed: minSpeed,
		maxSpeed: maxSpeed,
		speed:    1,
	}
}

// State reports running or paused.
func (c *Clock) State() RunState { return c.state }

// IsPaused reports whether elapsed time is being ignored.
func (c *Clock) IsPaused() bool { return c.state == RunStatePaused }

// TogglePause flips between running and paused and returns the new state.
func (c *Clock) TogglePause() RunState {
	if c.state == RunStatePaused {
		c.state = RunStateRunning
	} else {
		c.state = RunStatePaused
	}
	return c.state
}

// SetSpeed clamps the multiplier into the configured range and returns what was applied.
func (c *Clock) SetSpeed(multiplier float64) float64 {
	c.speed = max(c.minSpeed, min(c.maxSpeed, multiplier))
	return c.speed
}

// Speed is the current multiplier.
func (c *Clock) Speed() float64 { return c.speed }

// DayDuration is the real time one simulated day takes at the current speed.
func (c *Clock) DayDuration() time.Duration {
	return time.Duration(float64(c.baseDay) / c.speed)
}

// Accumulate adds elapsed real time and returns how many days are due.
// Paused clocks discard elapsed time.
func (c *Clock) Accumulate(elapsed time.Duration) int {
	if c.state == RunStatePaused || elapsed <= 0 {
		return 0
	}
	c.accumulated += elapsed
	day := c.DayDuration()
	if day <= 0 {
		return 0
	}
	days := int(c.accumulated / day)
	c.accumulated -= time.Duration(days) * day
	return days
}
