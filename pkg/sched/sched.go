// Package sched provides the frame cadence gate: a non-blocking interval
// check over a wrapping millisecond clock.
package sched

// DefaultRateHz is the target frame rate when none is configured.
const DefaultRateHz = 12

// Gate decides, once per loop iteration, whether enough time has elapsed
// to produce a new frame. Polling when no frame is due mutates nothing;
// the caller returns control immediately instead of waiting.
type Gate struct {
	intervalMs uint32
	lastEmit   uint32
}

// New creates a gate targeting rateHz frames per second, anchored at now.
// The interval is integer-truncated (12 Hz yields 83 ms), so frames are
// "at least that interval apart", never guaranteed exact.
func New(rateHz int, now uint32) *Gate {
	if rateHz <= 0 {
		rateHz = DefaultRateHz
	}
	return &Gate{
		intervalMs: uint32(1000 / rateHz),
		lastEmit:   now,
	}
}

// Due reports whether a frame is due and, when it is, re-anchors the gate
// at now. The comparison is subtraction-based so it stays correct when the
// clock wraps past the maximum uint32.
func (g *Gate) Due(now uint32) bool {
	if now-g.lastEmit < g.intervalMs {
		return false
	}
	g.lastEmit = now
	return true
}

// IntervalMs returns the target interval between frames.
func (g *Gate) IntervalMs() uint32 {
	return g.intervalMs
}
