package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClockAccumulatesWholeDays(t *testing.T) {
	c := NewClock(10*time.Second, 0.5, 4)
	assert.Zero(t, c.Accumulate(9*time.Second))
	assert.Equal(t, 1, c.Accumulate(2*time.Second))
	assert.Equal(t, 3, c.Accumulate(29*time.Second), "remainder carries over")
}

func TestClockPauseDiscardsTime(t *testing.T) {
	c := NewClock(10*time.Second, 0.5, 4)
	assert.Equal(t, RunStatePaused, c.TogglePause())
	assert.Zero(t, c.Accumulate(time.Minute))
	assert.Equal(t, RunStateRunning, c.TogglePause())
	assert.Zero(t, c.Accumulate(5*time.Second))
}

func TestClockSpeedIsClamped(t *testing.T) {
	c := NewClock(10*time.Second, 0.5, 4)
	assert.Equal(t, 4.0, c.SetSpeed(10))
	assert.Equal(t, 2500*time.Millisecond, c.DayDuration())
	assert.Equal(t, 0.5, c.SetSpeed(0))
	assert.Equal(t, 20*time.Second, c.DayDuration())
	assert.Equal(t, 2.0, c.SetSpeed(2))
	assert.Equal(t, 2, c.Accumulate(10*time.Second))
}
