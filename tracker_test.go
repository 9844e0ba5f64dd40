package rtsignal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker_DepartureAfterThreeEmptyWindows(t *testing.T) {
	tr := NewTracker(0, 0)
	line := MustLine(TestRouteLeft)

	tr.Detect(line)
	assert.Empty(t, tr.ClosePoll())
	assert.Equal(t, 0, tr.Misses(line))

	assert.Empty(t, tr.ClosePoll())
	assert.Empty(t, tr.ClosePoll())
	assert.Equal(t, 2, tr.Misses(line))
	assert.True(t, tr.IsPresent(line))
	assert.False(t, tr.CheckDeparture(line))

	assert.Equal(t, []Line{line}, tr.ClosePoll())
	assert.False(t, tr.IsPresent(line))
	assert.True(t, tr.CheckDeparture(line))
	assert.Equal(t, -1, tr.Misses(line))
}

func TestTracker_FlickerResetsMisses(t *testing.T) {
	tr := NewTracker(0, 0)
	line := MustLine(TestRouteLeft)

	tr.Detect(line)
	tr.ClosePoll()
	tr.ClosePoll()
	tr.ClosePoll()
	assert.Equal(t, 2, tr.Misses(line))

	tr.Detect(line)
	assert.Equal(t, 0, tr.Misses(line))
	tr.ClosePoll()
	tr.ClosePoll()
	tr.ClosePoll()
	assert.True(t, tr.IsPresent(line))
}

func TestTracker_CustomDeparturePolls(t *testing.T) {
	tr := NewTracker(4, 1)
	line := MustLine(TestRouteRight)

	tr.Detect(line)
	tr.ClosePoll()
	assert.Equal(t, []Line{line}, tr.ClosePoll())
}

func TestTracker_CheckDepartureIgnoresNoLine(t *testing.T) {
	tr := NewTracker(0, 0)
	assert.False(t, tr.CheckDeparture(NoLine))
	tr.Detect(NoLine)
	assert.Equal(t, 0, tr.Len())
}

func TestTracker_CandidateIsMostRecentUnsignaled(t *testing.T) {
	tr := NewTracker(0, 0)
	a := MustLine(TestRouteLeft)
	b := MustLine(TestRouteRight)
	c := MustLine(TestRouteUniversal)

	assert.Equal(t, NoLine, tr.Candidate())

	tr.Detect(a)
	tr.Detect(b)
	assert.Equal(t, b, tr.Candidate())

	tr.MarkSignaled(b)
	assert.Equal(t, a, tr.Candidate())

	tr.Detect(b)
	assert.Equal(t, a, tr.Candidate(), "re-detection keeps the signaled flag")

	tr.Detect(c)
	assert.Equal(t, c, tr.Candidate())

	tr.MarkSignaled(a)
	tr.MarkSignaled(c)
	assert.Equal(t, NoLine, tr.Candidate())
	assert.Equal(t, []Line{a, b, c}, tr.Active())
}

func TestTracker_EvictsSignaledFirst(t *testing.T) {
	tr := NewTracker(2, 0)
	a := MustLine(TestRouteLeft)
	b := MustLine(TestRouteRight)
	c := MustLine(TestRouteUniversal)

	tr.Detect(a)
	tr.Detect(b)
	tr.MarkSignaled(b)
	tr.ClosePoll()
	tr.Detect(c)
	assert.Equal(t, []Line{a, c}, tr.Active())

	d := MustLine(TestRouteForward)
	tr.Detect(d)
	assert.Equal(t, []Line{c, d}, tr.Active(), "oldest entry missed this window goes when nothing was signaled")
	assert.Equal(t, 2, tr.Len())
}

func TestTracker_NeverEvictsFreshEntries(t *testing.T) {
	tr := NewTracker(2, 0)
	a := MustLine(TestRouteLeft)
	b := MustLine(TestRouteRight)
	c := MustLine(TestRouteUniversal)

	tr.Detect(a)
	tr.MarkSignaled(a)
	tr.Detect(b)
	tr.Detect(c)

	assert.Equal(t, []Line{a, b}, tr.Active())
	assert.False(t, tr.IsPresent(c))

	tr.ClosePoll()
	tr.Detect(c)
	assert.Equal(t, []Line{b, c}, tr.Active(), "room is made once a window closed")
}

func TestTracker_NeverEvictsHeldLine(t *testing.T) {
	tr := NewTracker(2, 0)
	held := MustLine(TestRouteLeftForwardRight)
	other := MustLine(TestRouteRight)
	newcomer := MustLine(TestRouteUniversal)

	tr.Detect(held)
	tr.Detect(other)
	tr.MarkSignaled(held)
	tr.Hold(held)
	tr.ClosePoll()

	tr.Detect(newcomer)
	assert.Equal(t, []Line{held, newcomer}, tr.Active())
	assert.False(t, tr.CheckDeparture(held))

	tr.Hold(NoLine)
	tr.ClosePoll()
	tr.Detect(other)
	assert.Equal(t, []Line{newcomer, other}, tr.Active(), "a released line is evictable again")
}

func TestTracker_SameLineDifferentDeviations(t *testing.T) {
	tr := NewTracker(0, 0)
	plain := MustLine(TestRouteRight)
	deviated := MustLine(TestRouteRight, TestDevRight)

	tr.Detect(plain)
	assert.False(t, tr.IsPresent(deviated))
	tr.Detect(deviated)
	assert.Equal(t, 2, tr.Len())
}
