package config

import (
	"time"

	"github.com/anggasct/rtsignal"
)

// Pins maps every output to its GPIO line number
type Pins struct {
	Left   int `yaml:"left"`
	Middle int `yaml:"middle"`
	Right  int `yaml:"right"`
	Bottom int `yaml:"bottom"`
	Aux    int `yaml:"aux"`
}

// Tracker configures the departure tracker
type Tracker struct {
	Capacity       int `yaml:"capacity"`
	DeparturePolls int `yaml:"departure_polls"`
}

// Loop configures the controller cadence
type Loop struct {
	TickInterval time.Duration `yaml:"tick_interval"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

// Serial configures the beacon link
type Serial struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// Config is one site file
type Config struct {
	Site           string `yaml:"site"`
	Pins           Pins   `yaml:"pins"`
	GPIOChipPrefix string `yaml:"gpio_chip_prefix"`

	// TimingOverrides only holds the dwells the site changes, see Config.Timing
	TimingOverrides rtsignal.Timing          `yaml:"timing"`
	Tracker         Tracker                  `yaml:"tracker"`
	Loop            Loop                     `yaml:"loop"`
	Serial          Serial                   `yaml:"serial"`
	Routes          []rtsignal.RouteSpec     `yaml:"routes"`
	Termini         []rtsignal.Terminus      `yaml:"termini"`
	Deviations      []rtsignal.DeviationSpec `yaml:"deviations"`
}
