package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anggasct/rtsignal"
	"github.com/anggasct/rtsignal/catalog"
)

const minimal = `
site: bench
pins: {left: 1, middle: 2, right: 3, bottom: 4, aux: 5}
routes:
  - {route: 4, mode: individual, direction: left}
`

func TestSites(t *testing.T) {
	assert.Equal(t, []string{"rx-a", "rx-b"}, Sites())
}

func TestLoadSite_RxA(t *testing.T) {
	c, err := LoadSite("rx-a")
	require.NoError(t, err)

	assert.Equal(t, "rx-a", c.Site)
	assert.Equal(t, Pins{Left: 6, Middle: 5, Right: 4, Bottom: 7, Aux: 8}, c.Pins)
	assert.Equal(t, rtsignal.DefaultTiming(), c.Timing())
	assert.Equal(t, "/dev/ttyUSB0", c.Serial.Port)
	assert.Equal(t, "GPIO6", c.PinName(rtsignal.OutputLeft))
	assert.ElementsMatch(t, catalog.Termini(), c.Termini)

	reg, err := c.Registry()
	require.NoError(t, err)

	route, err := reg.ResolveRoute("D1")
	require.NoError(t, err)
	assert.Equal(t, uint16(66), route)

	line, err := reg.MakeLine(1, catalog.RteDeLyon, catalog.PteDeLoyat, catalog.DevENSIL)
	require.NoError(t, err)
	info, err := reg.Describe(line)
	require.NoError(t, err)
	assert.Equal(t, rtsignal.ModeLeftForwardAndRight, info.Mode)
	extra, ok := info.Extension(rtsignal.DirectionLeft, 0)
	assert.True(t, ok)
	assert.Equal(t, 3*time.Second, extra)
}

func TestLoadSite_RxB(t *testing.T) {
	c, err := LoadSite("rx-b")
	require.NoError(t, err)

	timing := c.Timing()
	assert.Equal(t, 200*time.Millisecond, timing.Wait)
	assert.Equal(t, 1500*time.Millisecond, timing.OverlapPhase)
	assert.Equal(t, 25*time.Second, timing.Inhibit)
	assert.Equal(t, 12*time.Second, timing.ForwardPhase, "untouched dwells keep their default")

	assert.Equal(t, "GPIO17", c.PinName(rtsignal.OutputLeft))
	assert.Equal(t, 19200, c.Serial.Baud)
	assert.Equal(t, 12, c.Tracker.Capacity)
	assert.Equal(t, 0, c.NewTracker().Len())

	reg, err := c.Registry()
	require.NoError(t, err)
	assert.True(t, reg.HasTerminus(catalog.PlWChurchill))
	assert.False(t, reg.HasTerminus(catalog.Montjovis))

	route, err := reg.ResolveRoute("ex1")
	require.NoError(t, err)
	assert.Equal(t, uint16(71), route)

	_, err = reg.ResolveRoute("d1")
	assert.True(t, rtsignal.IsLineError(err), "d1 is not served by rx-b")
}

func TestLoadSite_Unknown(t *testing.T) {
	_, err := LoadSite("rx-z")
	require.Error(t, err)
	assert.True(t, rtsignal.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "rx-a")
}

func TestParse_Defaults(t *testing.T) {
	c, err := Parse([]byte(minimal))
	require.NoError(t, err)

	assert.Equal(t, DefaultGPIOChipPrefix, c.GPIOChipPrefix)
	assert.Equal(t, DefaultBaud, c.Serial.Baud)
	assert.Equal(t, rtsignal.DefaultTrackerCapacity, c.Tracker.Capacity)
	assert.Equal(t, rtsignal.DefaultDeparturePolls, c.Tracker.DeparturePolls)
	assert.Equal(t, rtsignal.DefaultTickInterval, c.Loop.TickInterval)
	assert.Equal(t, rtsignal.DefaultPollInterval, c.Loop.PollInterval)
	assert.Len(t, c.ControllerOptions(), 2)
	assert.Equal(t, map[rtsignal.Output]int{
		rtsignal.OutputLeft:   1,
		rtsignal.OutputMiddle: 2,
		rtsignal.OutputRight:  3,
		rtsignal.OutputBottom: 4,
		rtsignal.OutputAux:    5,
	}, c.PinMap())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown field", minimal + "colour: red\n"},
		{"unknown mode", `
site: bench
pins: {left: 1, middle: 2, right: 3, bottom: 4, aux: 5}
routes: [{route: 4, mode: sideways}]
`},
		{"missing site", `
pins: {left: 1, middle: 2, right: 3, bottom: 4, aux: 5}
routes: [{route: 4, mode: universal}]
`},
		{"shared pin", `
site: bench
pins: {left: 1, middle: 1, right: 3, bottom: 4, aux: 5}
routes: [{route: 4, mode: universal}]
`},
		{"negative pin", `
site: bench
pins: {left: -1, middle: 2, right: 3, bottom: 4, aux: 5}
routes: [{route: 4, mode: universal}]
`},
		{"no routes", `
site: bench
pins: {left: 1, middle: 2, right: 3, bottom: 4, aux: 5}
`},
		{"individual without direction", `
site: bench
pins: {left: 1, middle: 2, right: 3, bottom: 4, aux: 5}
routes: [{route: 4, mode: individual}]
`},
		{"bad timing", minimal + "timing: {blinking: 100ms}\n"},
		{"slow tick", minimal + "loop: {tick_interval: 2s, poll_interval: 1s}\n"},
		{"tick slower than blink", minimal + "loop: {tick_interval: 800ms, poll_interval: 1s}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, rtsignal.IsConfigurationError(err), "got %v", err)
		})
	}
}

func TestLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(file, []byte(minimal), 0o644))

	c, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "bench", c.Site)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSpecialLineNames(t *testing.T) {
	c, err := Parse([]byte(minimal + "  - {route: 66, mode: universal}\n  - {route: 67, name: pole, mode: universal}\n"))
	require.NoError(t, err)

	assert.Equal(t, "d1", c.Routes[1].Name)
	assert.Equal(t, "pole", c.Routes[2].Name)
}
