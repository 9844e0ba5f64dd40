package hw

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/anggasct/rtsignal"
)

// PinResolver finds a GPIO line by name
type PinResolver func(name string) gpio.PinIO

// GPIODriver drives the signal head outputs through periph
type GPIODriver struct {
	mu   sync.Mutex
	pins map[rtsignal.Output]gpio.PinOut
}

// NewGPIODriver initializes the host drivers and opens the named pins, e.g. "GPIO6"
func NewGPIODriver(names map[rtsignal.Output]string) (*GPIODriver, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	return NewGPIODriverWith(names, gpioreg.ByName)
}

// NewGPIODriverWith opens the named pins through resolve and switches them off
func NewGPIODriverWith(names map[rtsignal.Output]string, resolve PinResolver) (*GPIODriver, error) {
	d := &GPIODriver{pins: make(map[rtsignal.Output]gpio.PinOut, len(names))}
	for _, output := range rtsignal.AllOutputs() {
		name, ok := names[output]
		if !ok {
			return nil, rtsignal.NewConfigurationError("pins", fmt.Sprintf("no pin for %s", output))
		}
		pin := resolve(name)
		if pin == nil {
			return nil, rtsignal.NewConfigurationError("pins", fmt.Sprintf("pin %s not found for %s", name, output))
		}
		if err := pin.Out(gpio.Low); err != nil {
			return nil, rtsignal.NewDriverError(output, err)
		}
		log.Debugf("%s on %s", output, pin)
		d.pins[output] = pin
	}
	return d, nil
}

// Set drives output high or low. Errors are wrapped into a DriverError by the automaton.
func (d *GPIODriver) Set(output rtsignal.Output, on bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	pin, ok := d.pins[output]
	if !ok {
		return fmt.Errorf("%s is not mapped to a pin", output)
	}
	if err := pin.Out(gpio.Level(on)); err != nil {
		return fmt.Errorf("pin %s: %w", pin.Name(), err)
	}
	return nil
}

// Close switches every output off
func (d *GPIODriver) Close() error {
	var first error
	for _, output := range rtsignal.AllOutputs() {
		if err := d.Set(output, false); err != nil && first == nil {
			first = rtsignal.NewDriverError(output, err)
		}
	}
	return first
}
