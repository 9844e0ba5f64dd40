package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManual_AdvanceAndSet(t *testing.T) {
	c := NewManual(0)
	assert.Equal(t, time.Duration(0), c.Now())

	assert.Equal(t, 500*time.Millisecond, c.Advance(500*time.Millisecond))
	c.Advance(-time.Second)
	assert.Equal(t, 500*time.Millisecond, c.Now(), "negative advance is ignored")

	c.Set(2 * time.Second)
	assert.Equal(t, 2*time.Second, c.Now())
	c.Set(time.Second)
	assert.Equal(t, 2*time.Second, c.Now(), "clock never goes backwards")
}

func TestManual_String(t *testing.T) {
	c := NewManual(time.Hour + 2*time.Minute + 3*time.Second + 45*time.Millisecond)
	assert.Equal(t, "01:02:03.045", c.String())
}

func TestMonotonic_IsNonDecreasing(t *testing.T) {
	c := NewMonotonic()
	a := c.Now()
	b := c.Now()
	assert.GreaterOrEqual(t, b, a)

	var _ Clock = c
	var _ Clock = NewManual(0)
}
