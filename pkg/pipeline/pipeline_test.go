package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomlens/roomlens/pkg/clock"
	"github.com/roomlens/roomlens/pkg/command"
	"github.com/roomlens/roomlens/pkg/config"
	"github.com/roomlens/roomlens/pkg/frame"
	"github.com/roomlens/roomlens/pkg/sensor"
)

type fakeSink struct {
	frames  []frame.Frame
	boots   []string
	emitErr error
}

func (s *fakeSink) Boot(device string) error {
	s.boots = append(s.boots, device)
	return s.emitErr
}

func (s *fakeSink) Emit(f frame.Frame) error {
	s.frames = append(s.frames, f)
	return s.emitErr
}

func benchSources() Sources {
	return Sources{
		Mic:   &sensor.AlternatingAnalog{High: 562, Low: 462},
		Light: sensor.ConstAnalog(511),
		PIR:   sensor.ConstDigital(true),
	}
}

// tickUntilEmit drives the loop until one frame comes out.
func tickUntilEmit(t *testing.T, p *Pipeline) frame.Frame {
	t.Helper()
	for i := 0; i < 1000; i++ {
		if f, emitted := p.Tick(); emitted {
			return f
		}
	}
	t.Fatal("no frame emitted within 1000 iterations")
	return frame.Frame{}
}

func TestTick_EndToEndScenario(t *testing.T) {
	// Simulated clock advancing in 1 ms steps, mic alternating ±50
	// around mid-scale for the 16 ms window, light constant at
	// 511/1023, PIR high, no external commands.
	cfg := config.Default()
	clk := clock.NewManual(0)
	clk.Step = 1
	cam := command.New(cfg.Camera.Key, cfg.Camera.StalenessMs, cfg.Camera.DecayFactor)
	sink := &fakeSink{}

	p := New(cfg, clk, benchSources(), cam, sink)
	f := tickUntilEmit(t, p)

	assert.InDelta(t, 0.098, f.MicRMS, 0.001)
	assert.InDelta(t, 0.500, f.Lux, 0.001)
	assert.True(t, f.PIR)
	assert.Equal(t, float32(0.000), f.CamMotion)
	assert.GreaterOrEqual(t, f.T, uint32(83), "first frame is due one interval after startup")

	require.Len(t, sink.frames, 1)
	assert.Equal(t, f, sink.frames[0])
}

func TestTick_NotDueEmitsNothing(t *testing.T) {
	cfg := config.Default()
	clk := clock.NewManual(0) // Step 0: time never advances
	cam := command.New("cam", 0, 0)
	sink := &fakeSink{}

	p := New(cfg, clk, benchSources(), cam, sink)
	for i := 0; i < 50; i++ {
		_, emitted := p.Tick()
		assert.False(t, emitted)
	}
	assert.Empty(t, sink.frames)
}

func TestTick_DrainsCommandsEvenWhenNotDue(t *testing.T) {
	cfg := config.Default()
	clk := clock.NewManual(0) // never due
	cam := command.New("cam", 0, 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		cam.Pump(ctx, strings.NewReader("cam:0.62\n"))
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pump did not finish")
	}

	p := New(cfg, clk, benchSources(), cam)
	_, emitted := p.Tick()

	assert.False(t, emitted)
	assert.Equal(t, float32(0.62), cam.Value(), "backlog must drain before any cadence check")
}

func TestTick_CommandValueReachesFrame(t *testing.T) {
	cfg := config.Default()
	clk := clock.NewManual(0)
	clk.Step = 1
	cam := command.New("cam", 0, 0)

	p := New(cfg, clk, benchSources(), cam)
	cam.Feed([]byte("cam=0.42\n"), 0)

	f := tickUntilEmit(t, p)
	assert.InDelta(t, 0.42, f.CamMotion, 1e-6)
}

func TestTick_PeakHoldDecaysAcrossFrames(t *testing.T) {
	cfg := config.Default()
	clk := clock.NewManual(0)
	clk.Step = 1

	// Loud for roughly the first window, then silent at mid-scale.
	reads := 0
	mic := sensor.AnalogFunc(func() uint16 {
		reads++
		if reads > 12 {
			return 512
		}
		if reads%2 == 0 {
			return 162
		}
		return 862
	})
	src := benchSources()
	src.Mic = mic

	p := New(cfg, clk, src, command.New("cam", 0, 0))

	first := tickUntilEmit(t, p)
	assert.Greater(t, first.MicPeak, float32(0.5))

	// With no new peaks, successive holds form a geometric sequence
	// with the configured decay ratio.
	prev := first.MicPeak
	for i := 0; i < 5; i++ {
		f := tickUntilEmit(t, p)
		assert.Equal(t, float32(0), f.MicRMS)
		assert.InDelta(t, prev*cfg.Mic.PeakDecay, f.MicPeak, 1e-5)
		prev = f.MicPeak
	}
}

func TestTick_StaleCamDecaysOncePerFrame(t *testing.T) {
	cfg := config.Default()
	cfg.Camera.StalenessMs = 100
	clk := clock.NewManual(0)
	clk.Step = 1
	cam := command.New(cfg.Camera.Key, cfg.Camera.StalenessMs, cfg.Camera.DecayFactor)
	cam.Feed([]byte("cam:1\n"), 0)

	p := New(cfg, clk, benchSources(), cam)

	// First frame lands around t=83: not yet stale.
	first := tickUntilEmit(t, p)
	assert.Equal(t, float32(1.0), first.CamMotion)

	// Each following frame is past the threshold and decays exactly
	// once, despite the many non-due polls in between.
	want := float32(1.0)
	for i := 0; i < 6; i++ {
		f := tickUntilEmit(t, p)
		want *= cfg.Camera.DecayFactor
		assert.InDelta(t, want, f.CamMotion, 1e-5)
	}
}

func TestAnnounce_ReachesAllSinks(t *testing.T) {
	cfg := config.Default()
	cfg.Device.ID = "bench"
	a := &fakeSink{}
	b := &fakeSink{}

	p := New(cfg, clock.NewManual(0), benchSources(), command.New("cam", 0, 0), a, b)
	p.Announce()

	assert.Equal(t, []string{"bench"}, a.boots)
	assert.Equal(t, []string{"bench"}, b.boots)
}

func TestTick_SinkErrorDoesNotStopTheLoop(t *testing.T) {
	cfg := config.Default()
	clk := clock.NewManual(0)
	clk.Step = 1
	broken := &fakeSink{emitErr: errors.New("sink gone")}
	healthy := &fakeSink{}

	p := New(cfg, clk, benchSources(), command.New("cam", 0, 0), broken, healthy)

	tickUntilEmit(t, p)
	tickUntilEmit(t, p)

	assert.Len(t, broken.frames, 2, "failing sink still receives frames")
	assert.Len(t, healthy.frames, 2, "other sinks are unaffected")
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	cfg := config.Default()
	clk := clock.NewManual(0)
	clk.Step = 1
	sink := &fakeSink{}
	p := New(cfg, clk, benchSources(), command.New("cam", 0, 0), sink)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on cancellation")
	}

	require.NotEmpty(t, sink.boots, "Run announces the device first")
	assert.NotEmpty(t, sink.frames)
}
