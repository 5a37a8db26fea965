package signal

import "github.com/chewxy/math32"

// PeakHold tracks the maximum observed peak with a fast attack and a slow
// multiplicative release. This is the only stateful feature producer: its
// entire state is the previous hold value. The decay keeps transient loud
// events visible across several frames instead of vanishing the instant
// the source quiets.
type PeakHold struct {
	value float32
	decay float32
}

// NewPeakHold creates a peak hold with the given per-frame decay factor.
// The factor must be strictly between 0 and 1; out-of-range values fall
// back to DefaultPeakDecay.
func NewPeakHold(decay float32) *PeakHold {
	if decay <= 0 || decay >= 1 {
		decay = DefaultPeakDecay
	}
	return &PeakHold{decay: decay}
}

// Update folds one instantaneous peak into the hold and returns the new
// hold value: max(instant, previous*decay). Call once per frame.
func (p *PeakHold) Update(instant float32) float32 {
	p.value = math32.Max(Clamp01(instant), p.value*p.decay)
	return p.value
}

// Value returns the current hold value without decaying it.
func (p *PeakHold) Value() float32 {
	return p.value
}

// Decay returns the configured release factor.
func (p *PeakHold) Decay() float32 {
	return p.decay
}
