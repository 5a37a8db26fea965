// Package frame defines the per-cycle telemetry record and its wire
// encoding: one newline-terminated ASCII line per frame, field order
// fixed for host compatibility.
package frame

import (
	"fmt"
	"strconv"
)

// Frame is an immutable snapshot of all feature values for one emitted
// cycle. It is constructed once per cycle, serialized immediately, and
// never retained.
type Frame struct {
	T         uint32  // wrapping millisecond timestamp at emission
	MicRMS    float32 // windowed RMS loudness, [0,1]
	MicPeak   float32 // peak hold with decay, [0,1]
	Lux       float32 // averaged light level, [0,1]
	PIR       bool    // motion detector level
	CamMotion float32 // externally supplied webcam motion, [0,1]
}

// Append serializes f onto dst and returns the extended slice. The layout
// is fixed:
//
//	{"t":<uint>,"mic_rms":<f.3>,"mic_peak":<f.3>,"lux":<f.3>,"pir":<0|1>,"cam_motion":<f.3>}\n
//
// Floats are rendered with exactly 3 decimal digits; flags as 1/0.
func (f Frame) Append(dst []byte) []byte {
	dst = append(dst, `{"t":`...)
	dst = strconv.AppendUint(dst, uint64(f.T), 10)
	dst = append(dst, `,"mic_rms":`...)
	dst = appendFixed(dst, f.MicRMS)
	dst = append(dst, `,"mic_peak":`...)
	dst = appendFixed(dst, f.MicPeak)
	dst = append(dst, `,"lux":`...)
	dst = appendFixed(dst, f.Lux)
	dst = append(dst, `,"pir":`...)
	dst = appendFlag(dst, f.PIR)
	dst = append(dst, `,"cam_motion":`...)
	dst = appendFixed(dst, f.CamMotion)
	dst = append(dst, '}', '\n')
	return dst
}

// Encode returns the wire form of f as a fresh slice.
func (f Frame) Encode() []byte {
	return f.Append(make([]byte, 0, 96))
}

// String returns the wire form without the trailing newline, for logs.
func (f Frame) String() string {
	b := f.Encode()
	return string(b[:len(b)-1])
}

func appendFixed(dst []byte, v float32) []byte {
	return strconv.AppendFloat(dst, float64(v), 'f', 3, 32)
}

func appendFlag(dst []byte, v bool) []byte {
	if v {
		return append(dst, '1')
	}
	return append(dst, '0')
}

// Boot returns the startup record announcing the device identifier. It is
// structurally identical to a frame line: a single terminated record with
// event and device fields.
func Boot(device string) []byte {
	return []byte(fmt.Sprintf("{\"event\":\"boot\",\"device\":%q}\n", device))
}
