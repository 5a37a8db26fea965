package sensor

// ScriptedAnalog is a test double that returns scripted raw values in order.
// Once the script is exhausted, the last value repeats forever.
type ScriptedAnalog struct {
	Samples []uint16

	index int
}

// NewScriptedAnalog creates a scripted source from the given samples.
func NewScriptedAnalog(samples ...uint16) *ScriptedAnalog {
	return &ScriptedAnalog{Samples: samples}
}

// Read returns the next scripted value.
func (s *ScriptedAnalog) Read() uint16 {
	if len(s.Samples) == 0 {
		return 0
	}
	v := s.Samples[s.index]
	if s.index < len(s.Samples)-1 {
		s.index++
	}
	return v
}

// Reads returns how many values were consumed (capped at the script length).
func (s *ScriptedAnalog) Reads() int {
	return s.index
}

// Reset rewinds the script to the beginning.
func (s *ScriptedAnalog) Reset() {
	s.index = 0
}

// ScriptedDigital is the digital counterpart of ScriptedAnalog.
type ScriptedDigital struct {
	Samples []bool

	index int
}

// NewScriptedDigital creates a scripted digital source.
func NewScriptedDigital(samples ...bool) *ScriptedDigital {
	return &ScriptedDigital{Samples: samples}
}

// Read returns the next scripted level, repeating the last one when the
// script runs out.
func (s *ScriptedDigital) Read() bool {
	if len(s.Samples) == 0 {
		return false
	}
	v := s.Samples[s.index]
	if s.index < len(s.Samples)-1 {
		s.index++
	}
	return v
}

// AlternatingAnalog swings between two raw values on successive reads,
// starting with High. Useful for synthesizing a square wave around a
// mid-scale reference.
type AlternatingAnalog struct {
	High uint16
	Low  uint16

	next bool
}

// Read returns High and Low alternately.
func (a *AlternatingAnalog) Read() uint16 {
	a.next = !a.next
	if a.next {
		return a.High
	}
	return a.Low
}
