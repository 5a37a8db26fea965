// Package signal turns bursts of raw samples into normalized feature values.
// Every producer clamps its output into [0,1], so out-of-range values never
// escape into a frame. All functions here are pure except PeakHold, which
// carries exactly one persistent value across frames.
package signal

import (
	"github.com/chewxy/math32"

	"github.com/roomlens/roomlens/pkg/clock"
	"github.com/roomlens/roomlens/pkg/sensor"
)

// DefaultPeakDecay is the per-frame peak hold release factor.
const DefaultPeakDecay = 0.9

// Clamp01 clamps x into the inclusive [0,1] range. It is total and
// idempotent: Clamp01(Clamp01(x)) == Clamp01(x) for any x, NaN included
// (NaN compares false on both branches and passes through).
func Clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// MeasureWindow busy-waits for windowMs on the given clock, reading raw
// samples as fast as possible, and reduces the burst to a normalized RMS
// and instantaneous peak. Each sample is centered around midScale before
// accumulation. A window that collects zero samples yields (0, 0) rather
// than a divide-by-zero.
//
// This is the one deliberately blocking span in the pipeline; the window
// duration bounds it.
func MeasureWindow(clk clock.Clock, src sensor.Analog, windowMs uint32, midScale uint16) (rms, peak float32) {
	if midScale == 0 {
		midScale = sensor.MidScale10
	}

	start := clk.Millis()
	var sumSquares uint64
	var count uint32
	var peakRaw uint16

	for clk.Millis()-start < windowMs {
		raw := src.Read()
		centered := int32(raw) - int32(midScale)
		if centered < 0 {
			centered = -centered
		}
		magnitude := uint16(centered)
		if magnitude > peakRaw {
			peakRaw = magnitude
		}
		sumSquares += uint64(centered) * uint64(centered)
		count++
	}

	if count == 0 {
		return 0, 0
	}

	meanSquares := float32(sumSquares) / float32(count)
	rms = Clamp01(math32.Sqrt(meanSquares) / float32(midScale))
	peak = Clamp01(float32(peakRaw) / float32(midScale))
	return rms, peak
}

// AverageReads takes n raw reads, averages them, and normalizes by the
// sensor's full-scale value. Cheap noise suppression without filtering
// state.
func AverageReads(src sensor.Analog, n int, fullScale uint16) float32 {
	if n <= 0 {
		n = 1
	}
	if fullScale == 0 {
		fullScale = sensor.FullScale10
	}

	var sum uint32
	for i := 0; i < n; i++ {
		sum += uint32(src.Read())
	}
	average := float32(sum) / float32(n)
	return Clamp01(average / float32(fullScale))
}
