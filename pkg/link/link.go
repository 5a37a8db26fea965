// Package link opens the serial transport the pipeline talks over: host
// commands arrive on it, frame lines leave on it. Byte-level transport
// behavior (ordering, latency) is the port's problem, not ours.
package link

import (
	"fmt"

	"go.bug.st/serial"
)

// DefaultBaudRate is the standard rate for the telemetry link.
const DefaultBaudRate = 115200

// Port describes an available serial port.
type Port struct {
	Name        string
	Description string
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	names, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(names))
	for _, name := range names {
		result = append(result, Port{
			Name:        name,
			Description: name,
		})
	}
	return result, nil
}

// First returns the name of the first available serial port, for "auto"
// port selection.
func First() (string, error) {
	ports, err := Ports()
	if err != nil {
		return "", err
	}
	if len(ports) == 0 {
		return "", fmt.Errorf("no serial ports available")
	}
	return ports[0].Name, nil
}

// Open opens the named port at the given baud rate (DefaultBaudRate when
// zero). The returned port is an io.ReadWriteCloser.
func Open(name string, baudRate int) (serial.Port, error) {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}

	mode := &serial.Mode{
		BaudRate: baudRate,
	}
	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", name, err)
	}
	return port, nil
}
