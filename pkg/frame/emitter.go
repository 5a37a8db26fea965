package frame

import (
	"fmt"
	"io"
)

// Sink receives the boot record once and then every emitted frame.
type Sink interface {
	// Boot announces the device identifier at startup.
	Boot(device string) error
	// Emit writes one frame.
	Emit(f Frame) error
}

// Emitter writes frames to an output stream, one line per frame. The sink
// is assumed to buffer enough that a single short line always succeeds;
// there is no flow control on the output channel.
type Emitter struct {
	w   io.Writer
	buf []byte
}

// NewEmitter creates an emitter writing to w.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{w: w, buf: make([]byte, 0, 96)}
}

// Boot writes the startup record.
func (e *Emitter) Boot(device string) error {
	if _, err := e.w.Write(Boot(device)); err != nil {
		return fmt.Errorf("write boot record: %w", err)
	}
	return nil
}

// Emit writes one frame line.
func (e *Emitter) Emit(f Frame) error {
	e.buf = f.Append(e.buf[:0])
	if _, err := e.w.Write(e.buf); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

var _ Sink = (*Emitter)(nil)
