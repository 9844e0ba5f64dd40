package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anggasct/rtsignal"
)

func TestTermini(t *testing.T) {
	termini := Termini()
	assert.Len(t, termini, 54)
	assert.Contains(t, termini, PlWChurchill)
	assert.Contains(t, termini, Depot)
	for i := 1; i < len(termini); i++ {
		assert.Less(t, string(termini[i-1]), string(termini[i]))
	}
}

func TestDeviations(t *testing.T) {
	devs := Deviations()
	assert.Len(t, devs, 12)
	assert.Contains(t, devs, DevCoyol)
}

func TestSpecialLines(t *testing.T) {
	assert.Equal(t, uint16(66), SpecialLines["d1"])
	assert.Equal(t, uint16(71), SpecialLines["EX1"])
	assert.Len(t, SpecialLines, 6)
}

func TestServes(t *testing.T) {
	assert.True(t, Serves(4, PoleStLazare))
	assert.True(t, Serves(71, VeyracBourg))
	assert.False(t, Serves(4, VeyracBourg))
	assert.True(t, Serves(4, Depot))
	assert.True(t, IsTerminus(rtsignal.Terminus("Montjovis")))
	assert.False(t, IsTerminus("Atlantis"))
}

func TestRoutes(t *testing.T) {
	routes := Routes()
	assert.Equal(t, uint16(1), routes[0])
	assert.Equal(t, uint16(71), routes[len(routes)-1])
	assert.Contains(t, routes, uint16(46))
	assert.NotContains(t, routes, uint16(3))
}
