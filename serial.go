package chipscreen

import (
	"fmt"
	"strings"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// usbSerialID is the USB serial number the screen family reports.
const usbSerialID = "USB35INCHIPSV2"

// NewSerial opens the named serial port with the panel's line settings
// (115200 baud, 8 data bits, no parity, one stop bit), asserts DTR and
// initializes the screen on it. The returned Dev owns the port and
// Close releases it.
//
// An empty name selects the port FindPort discovers.
func NewSerial(name string, opts *Opts) (*Dev, error) {
	if name == "" {
		var err error
		if name, err = FindPort(); err != nil {
			return nil, err
		}
	}

	mode := &serial.Mode{
		BaudRate: 115200,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("chipscreen: open %s: %w", name, err)
	}
	if err := port.SetDTR(true); err != nil {
		port.Close()
		return nil, fmt.Errorf("chipscreen: assert DTR on %s: %w", name, err)
	}

	d, err := New(port, opts)
	if err != nil {
		port.Close()
		return nil, err
	}
	return d, nil
}

// FindPort scans the USB serial ports for the screen's serial number
// and returns the first matching port name. It returns ErrNoDevice when
// no screen is attached.
func FindPort() (string, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return "", fmt.Errorf("chipscreen: enumerate ports: %w", err)
	}
	for _, p := range ports {
		if p.IsUSB && strings.Contains(p.SerialNumber, usbSerialID) {
			return p.Name, nil
		}
	}
	return "", ErrNoDevice
}
