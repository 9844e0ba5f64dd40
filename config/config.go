// Package config loads the site files of the controller. A site file carries the
// pin map, the route catalog and the dwell overrides of one deployment.
package config

import (
	"embed"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/anggasct/rtsignal"
	"github.com/anggasct/rtsignal/catalog"
)

var log = logrus.WithField("module", "config")

//go:embed sites/*.yaml
var sites embed.FS

const (
	DefaultGPIOChipPrefix = "GPIO"
	DefaultBaud           = 9600
)

// Sites lists the embedded site names
func Sites() []string {
	entries, err := sites.ReadDir("sites")
	if err != nil {
		return nil
	}
	names := lo.Map(entries, func(e os.DirEntry, _ int) string {
		return strings.TrimSuffix(e.Name(), ".yaml")
	})
	sort.Strings(names)
	return names
}

// LoadSite loads one of the embedded site files
func LoadSite(name string) (*Config, error) {
	data, err := sites.ReadFile(path.Join("sites", name+".yaml"))
	if err != nil {
		return nil, rtsignal.NewConfigurationError("config", fmt.Sprintf("unknown site %q, expected one of %v", name, Sites()))
	}
	return Parse(data)
}

// Load reads a site file from disk
func Load(file string) (*Config, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", file, err)
	}
	return Parse(data)
}

// Parse decodes a site file, fills the defaults and validates the result
func Parse(data []byte) (*Config, error) {
	var c Config
	if err := yaml.UnmarshalStrict(data, &c); err != nil {
		return nil, rtsignal.NewConfigurationError("config", err.Error())
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.GPIOChipPrefix == "" {
		c.GPIOChipPrefix = DefaultGPIOChipPrefix
	}
	if c.Tracker.Capacity <= 0 {
		c.Tracker.Capacity = rtsignal.DefaultTrackerCapacity
	}
	if c.Tracker.DeparturePolls <= 0 {
		c.Tracker.DeparturePolls = rtsignal.DefaultDeparturePolls
	}
	if c.Loop.TickInterval <= 0 {
		c.Loop.TickInterval = rtsignal.DefaultTickInterval
	}
	if c.Loop.PollInterval <= 0 {
		c.Loop.PollInterval = rtsignal.DefaultPollInterval
	}
	if c.Serial.Baud <= 0 {
		c.Serial.Baud = DefaultBaud
	}
	if len(c.Termini) == 0 {
		c.Termini = catalog.Termini()
	}

	// special lines keep their network name unless the site renames them
	names := lo.Invert(catalog.SpecialLines)
	for i, spec := range c.Routes {
		if spec.Name == "" {
			c.Routes[i].Name = names[spec.Route]
		}
	}
}

// Validate checks the whole site file
func (c *Config) Validate() error {
	if c.Site == "" {
		return rtsignal.NewConfigurationError("config", "site name is required")
	}

	pins := c.PinMap()
	for output, pin := range pins {
		if pin < 0 {
			return rtsignal.NewConfigurationError("pins", fmt.Sprintf("%s pin must not be negative", output))
		}
	}
	if len(lo.Uniq(lo.Values(pins))) != len(pins) {
		return rtsignal.NewConfigurationError("pins", "every output needs its own pin")
	}

	if err := c.Timing().Validate(); err != nil {
		return err
	}
	if c.Loop.TickInterval > c.Loop.PollInterval {
		return rtsignal.NewConfigurationError("loop", "tick_interval must not exceed poll_interval")
	}
	if c.Loop.TickInterval > c.Timing().BlinkHalfPeriod {
		return rtsignal.NewConfigurationError("loop", "tick_interval must not exceed blink_half_period")
	}

	if len(c.Routes) == 0 {
		return rtsignal.NewConfigurationError("routes", "at least one route is required")
	}
	for _, t := range c.Termini {
		if !catalog.IsTerminus(t) {
			log.Warnf("site %s declares terminus %s unknown to the network catalog", c.Site, t)
		}
	}
	for _, d := range c.Deviations {
		if !lo.Contains(catalog.Deviations(), d.Name) {
			log.Warnf("site %s declares deviation %s unknown to the network catalog", c.Site, d.Name)
		}
	}

	_, err := c.Registry()
	return err
}

// Timing returns the site dwells with the defaults filled in
func (c *Config) Timing() rtsignal.Timing {
	return c.TimingOverrides.Merge(rtsignal.DefaultTiming())
}

// Registry builds the route registry of the site
func (c *Config) Registry() (*rtsignal.Registry, error) {
	return rtsignal.NewRegistry(c.Routes, c.Termini, c.Deviations)
}

// PinMap returns the GPIO line of every output
func (c *Config) PinMap() map[rtsignal.Output]int {
	return map[rtsignal.Output]int{
		rtsignal.OutputLeft:   c.Pins.Left,
		rtsignal.OutputMiddle: c.Pins.Middle,
		rtsignal.OutputRight:  c.Pins.Right,
		rtsignal.OutputBottom: c.Pins.Bottom,
		rtsignal.OutputAux:    c.Pins.Aux,
	}
}

// PinName returns the periph name of an output pin, e.g. GPIO6
func (c *Config) PinName(output rtsignal.Output) string {
	return fmt.Sprintf("%s%d", c.GPIOChipPrefix, c.PinMap()[output])
}

// ControllerOptions turns the loop section into controller options
func (c *Config) ControllerOptions() []rtsignal.ControllerOption {
	return []rtsignal.ControllerOption{
		rtsignal.WithTickInterval(c.Loop.TickInterval),
		rtsignal.WithPollInterval(c.Loop.PollInterval),
	}
}

// NewTracker builds the departure tracker of the site
func (c *Config) NewTracker() *rtsignal.Tracker {
	return rtsignal.NewTracker(c.Tracker.Capacity, c.Tracker.DeparturePolls)
}
