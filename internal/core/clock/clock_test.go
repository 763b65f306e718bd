package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualNeverGoesBackwards(t *testing.T) {
	c := NewManual(2 * time.Second)
	c.Set(time.Second)
	assert.Equal(t, 2*time.Second, c.Now())

	assert.Equal(t, 2500*time.Millisecond, c.Advance(500*time.Millisecond))
	c.Advance(-time.Second)
	assert.Equal(t, 2500*time.Millisecond, c.Now())

	c.Set(4 * time.Second)
	assert.Equal(t, 4*time.Second, c.Now())
}

func TestMonotonicStartsNearZero(t *testing.T) {
	c := NewMonotonic()
	first := c.Now()
	assert.GreaterOrEqual(t, first, time.Duration(0))
	assert.Less(t, first, time.Second)
	assert.GreaterOrEqual(t, c.Now(), first)
}
