// Package hw connects the controller to the receiver hardware: the beacon serial
// link and the GPIO lines of the signal head.
package hw

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"go.bug.st/serial"
)

var log = logrus.WithField("module", "hw")

// OpenSerial opens the beacon link in 8N1 at baud
func OpenSerial(port string, baud int) (serial.Port, error) {
	if baud <= 0 {
		return nil, fmt.Errorf("invalid baud rate %d", baud)
	}
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(port, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", port, err)
	}
	log.Infof("serial port %s open at %d baud", port, baud)
	return p, nil
}

// SerialPorts lists the serial ports of the host
func SerialPorts() ([]string, error) {
	return serial.GetPortsList()
}
