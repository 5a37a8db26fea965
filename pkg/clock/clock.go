// Package clock provides the wrapping millisecond counter the pipeline
// schedules against. The counter is a uint32 (like an MCU millis() tick),
// so all interval arithmetic elsewhere must be subtraction-based to stay
// correct across wraparound.
package clock

import "time"

// Clock is a monotonic millisecond counter with finite width.
type Clock interface {
	// Millis returns the current counter value. The value wraps past
	// the maximum of uint32; callers must compare intervals with
	// subtraction, never with direct inequality on absolute values.
	Millis() uint32
}

// Wall counts milliseconds since construction using the host monotonic clock.
type Wall struct {
	start time.Time
}

// NewWall creates a wall clock starting at zero.
func NewWall() *Wall {
	return &Wall{start: time.Now()}
}

// Millis returns milliseconds elapsed since construction, truncated to uint32.
func (w *Wall) Millis() uint32 {
	return uint32(time.Since(w.start).Milliseconds())
}

// Manual is a hand-driven clock for deterministic tests. Each Millis call
// returns the current value and then advances it by Step, so a sampling
// window that polls the clock sees time moving without any real waiting.
type Manual struct {
	now  uint32
	Step uint32
}

// NewManual creates a manual clock starting at the given value with Step 0.
func NewManual(start uint32) *Manual {
	return &Manual{now: start}
}

// Millis returns the current value, then advances by Step.
func (m *Manual) Millis() uint32 {
	v := m.now
	m.now += m.Step
	return v
}

// Advance moves the clock forward by ms without a read.
func (m *Manual) Advance(ms uint32) {
	m.now += ms
}

// Set forces the clock to an absolute value.
func (m *Manual) Set(ms uint32) {
	m.now = ms
}

var _ Clock = (*Wall)(nil)
var _ Clock = (*Manual)(nil)
