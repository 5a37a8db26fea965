package sensor

import (
	"github.com/chewxy/math32"

	"github.com/roomlens/roomlens/pkg/clock"
)

// wobble is a cheap deterministic LFO stack in [0,1]. It exists so bench
// runs without hardware still push plausible motion through the pipeline
// and so tests get stable values out of the synthetic sources.
func wobble(freq, t float32) float32 {
	return 0.5 + 0.5*math32.Sin(freq*t)*math32.Cos(0.7*freq*t)
}

// SynthAnalog synthesizes raw conversions from a slow deterministic wobble.
// The produced value is Base + Amp*wobble clamped into [0,1] and scaled to
// FullScale.
type SynthAnalog struct {
	Clock     clock.Clock
	Freq      float32
	Base      float32
	Amp       float32
	FullScale uint16
}

// NewSynthAnalog creates a synthetic analog source on the given clock.
func NewSynthAnalog(clk clock.Clock, freq, base, amp float32, fullScale uint16) *SynthAnalog {
	if fullScale == 0 {
		fullScale = FullScale10
	}
	return &SynthAnalog{Clock: clk, Freq: freq, Base: base, Amp: amp, FullScale: fullScale}
}

// Read synthesizes one raw conversion.
func (s *SynthAnalog) Read() uint16 {
	t := float32(s.Clock.Millis()) * 0.001
	v := s.Base + s.Amp*wobble(s.Freq, t)
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return uint16(v * float32(s.FullScale))
}

// SynthDigital reports a high level whenever the wobble crosses Threshold.
type SynthDigital struct {
	Clock     clock.Clock
	Freq      float32
	Threshold float32
}

// NewSynthDigital creates a synthetic digital source on the given clock.
func NewSynthDigital(clk clock.Clock, freq, threshold float32) *SynthDigital {
	return &SynthDigital{Clock: clk, Freq: freq, Threshold: threshold}
}

// Read synthesizes one logic level.
func (s *SynthDigital) Read() bool {
	t := float32(s.Clock.Millis()) * 0.001
	return wobble(s.Freq, t) > s.Threshold
}

var (
	_ Analog  = (*SynthAnalog)(nil)
	_ Digital = (*SynthDigital)(nil)
	_ Analog  = (*ScriptedAnalog)(nil)
	_ Digital = (*ScriptedDigital)(nil)
	_ Analog  = (*AlternatingAnalog)(nil)
)
