// Package sensor models raw sample sources. Physical drivers live outside
// this module; anything that can produce a raw integer or a digital level
// plugs into the pipeline through the two interfaces below.
package sensor

// Analog reads one raw conversion. Values are expected in 0..FullScale10
// for 10-bit front ends; producers outside that range are clamped by the
// signal conditioner, never here.
type Analog interface {
	Read() uint16
}

// Digital reads one logic level.
type Digital interface {
	Read() bool
}

// FullScale10 is the maximum value of a 10-bit conversion.
const FullScale10 = 1023

// MidScale10 is the mid-scale reference of a 10-bit conversion.
const MidScale10 = 512

// AnalogFunc adapts a plain function to the Analog interface.
type AnalogFunc func() uint16

// Read calls the wrapped function.
func (f AnalogFunc) Read() uint16 { return f() }

// DigitalFunc adapts a plain function to the Digital interface.
type DigitalFunc func() bool

// Read calls the wrapped function.
func (f DigitalFunc) Read() bool { return f() }

// ConstAnalog always reads the same raw value.
type ConstAnalog uint16

// Read returns the constant value.
func (c ConstAnalog) Read() uint16 { return uint16(c) }

// ConstDigital always reads the same level.
type ConstDigital bool

// Read returns the constant level.
func (c ConstDigital) Read() bool { return bool(c) }
