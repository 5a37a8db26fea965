// Package pipeline composes the conditioner, the external signal channel,
// the cadence gate, and the emitters into the per-cycle telemetry loop.
//
// The loop is single-threaded and fully cooperative: every iteration
// drains pending external input, polls the gate, and either returns
// immediately or runs one full measure-and-emit cycle to completion. The
// only blocking span is the bounded mic sampling window.
package pipeline

import (
	"context"
	"log"
	"time"

	"github.com/roomlens/roomlens/pkg/clock"
	"github.com/roomlens/roomlens/pkg/command"
	"github.com/roomlens/roomlens/pkg/config"
	"github.com/roomlens/roomlens/pkg/frame"
	"github.com/roomlens/roomlens/pkg/sched"
	"github.com/roomlens/roomlens/pkg/sensor"
	"github.com/roomlens/roomlens/pkg/signal"
)

// idleSleep keeps the spin between cadence polls kind to the host CPU.
// Semantically the loop never sleeps; this only bounds how hot Run idles.
const idleSleep = 100 * time.Microsecond

// Sources bundles the raw sample capabilities the pipeline reads from.
// One loop serves every variant: hardware-backed, synthetic, or scripted
// sources all satisfy the same interfaces.
type Sources struct {
	Mic   sensor.Analog
	Light sensor.Analog
	PIR   sensor.Digital
}

// Pipeline owns all persistent per-cycle state: the peak hold, the
// external signal channel, and the cadence gate. Everything else is
// recomputed from scratch every cycle.
type Pipeline struct {
	clk clock.Clock
	src Sources
	cam *command.Channel

	gate *sched.Gate
	peak *signal.PeakHold

	device       string
	windowMs     uint32
	midScale     uint16
	lightSamples int
	lightScale   uint16

	sinks []frame.Sink
}

// New builds a pipeline from cfg. The cadence gate anchors at the clock's
// current value, so the first frame is due one interval after startup.
func New(cfg *config.Config, clk clock.Clock, src Sources, cam *command.Channel, sinks ...frame.Sink) *Pipeline {
	return &Pipeline{
		clk:          clk,
		src:          src,
		cam:          cam,
		gate:         sched.New(cfg.Frame.RateHz, clk.Millis()),
		peak:         signal.NewPeakHold(cfg.Mic.PeakDecay),
		device:       cfg.Device.ID,
		windowMs:     cfg.Mic.WindowMs,
		midScale:     cfg.Mic.MidScale,
		lightSamples: cfg.Light.Samples,
		lightScale:   cfg.Light.FullScale,
		sinks:        sinks,
	}
}

// Tick runs one loop iteration: drain external input, poll the gate, and
// when a frame is due, measure every feature, apply the decay policies,
// and emit. The returned frame is valid only when emitted is true.
func (p *Pipeline) Tick() (f frame.Frame, emitted bool) {
	now := p.clk.Millis()

	// Input draining happens every iteration regardless of cadence so
	// backlogged commands are never starved behind frame emission.
	p.cam.Drain(now)

	if !p.gate.Due(now) {
		return frame.Frame{}, false
	}

	rms, instant := signal.MeasureWindow(p.clk, p.src.Mic, p.windowMs, p.midScale)
	hold := p.peak.Update(instant)
	lux := signal.AverageReads(p.src.Light, p.lightSamples, p.lightScale)
	pir := p.src.PIR.Read()
	p.cam.DecayIfStale(now)

	f = frame.Frame{
		T:         now,
		MicRMS:    rms,
		MicPeak:   hold,
		Lux:       lux,
		PIR:       pir,
		CamMotion: p.cam.Value(),
	}
	p.emit(f)
	return f, true
}

// emit fans the frame out to every sink. Sink errors are logged and
// swallowed: the loop has no error states and never halts itself.
func (p *Pipeline) emit(f frame.Frame) {
	for _, s := range p.sinks {
		if err := s.Emit(f); err != nil {
			log.Printf("pipeline: emit frame: %v", err)
		}
	}
}

// Announce sends the boot record to every sink.
func (p *Pipeline) Announce() {
	for _, s := range p.sinks {
		if err := s.Boot(p.device); err != nil {
			log.Printf("pipeline: boot record: %v", err)
		}
	}
}

// Run announces the device and then iterates Tick until ctx is done. The
// loop itself has no terminal state; cancellation exists only so a host
// process can be shut down cleanly.
func (p *Pipeline) Run(ctx context.Context) {
	p.Announce()
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if _, emitted := p.Tick(); !emitted {
			time.Sleep(idleSleep)
		}
	}
}
