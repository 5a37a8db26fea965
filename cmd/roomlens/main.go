// Command roomlens runs the room telemetry pipeline: it samples the
// microphone, light, and motion sources at a fixed cadence, listens for
// camera motion commands from the host, and emits one JSON frame line
// per cycle to stdout plus any configured sinks.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/roomlens/roomlens/pkg/capture"
	"github.com/roomlens/roomlens/pkg/clock"
	"github.com/roomlens/roomlens/pkg/command"
	"github.com/roomlens/roomlens/pkg/config"
	"github.com/roomlens/roomlens/pkg/frame"
	"github.com/roomlens/roomlens/pkg/link"
	"github.com/roomlens/roomlens/pkg/pipeline"
	"github.com/roomlens/roomlens/pkg/publish"
	"github.com/roomlens/roomlens/pkg/sensor"
)

func main() {
	var (
		portFlag   = flag.String("p", "", "Serial port override (e.g., COM3 or /dev/ttyACM0)")
		configFlag = flag.String("config", "config.yaml", "Configuration file path")
		mockFlag   = flag.Bool("mock", false, "Use synthetic sensors instead of a serial link")
		deviceFlag = flag.String("device", "", "Device ID override (\"auto\" generates one)")
		rateFlag   = flag.Int("rate", 0, "Frame rate override in Hz (0 = use config)")
		brokerFlag = flag.String("broker", "", "MQTT broker override (e.g., tcp://localhost:1883)")
		csvFlag    = flag.String("csv", "", "Record frames to a CSV file (overrides config)")
		sqliteFlag = flag.String("sqlite", "", "Record frames to a SQLite database (overrides config)")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Apply command line overrides
	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}
	if *rateFlag > 0 {
		cfg.Frame.RateHz = *rateFlag
	}
	if *brokerFlag != "" {
		cfg.MQTT.Broker = *brokerFlag
	}
	if *csvFlag != "" {
		cfg.Capture.CSVPath = *csvFlag
	}
	if *sqliteFlag != "" {
		cfg.Capture.SQLitePath = *sqliteFlag
	}
	switch *deviceFlag {
	case "":
	case "auto":
		cfg.Device.ID = "roomlens-" + uuid.NewString()[:8]
	default:
		cfg.Device.ID = *deviceFlag
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *mockFlag); err != nil {
		log.Fatalf("roomlens: %v", err)
	}
}

// run wires the sources, the command channel, and the sinks together and
// drives the pipeline until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, useMock bool) error {
	clk := clock.NewWall()

	cam := command.New(cfg.Camera.Key, cfg.Camera.StalenessMs, cfg.Camera.DecayFactor)

	sinks := []frame.Sink{frame.NewEmitter(os.Stdout)}

	if useMock {
		// Synthetic sources read the same clock the pipeline schedules
		// on, so command input comes from stdin instead of a port.
		go cam.Pump(ctx, os.Stdin)
		log.Printf("Using synthetic sensors (device %s)", cfg.Device.ID)
	} else {
		portName := cfg.Serial.Port
		if portName == "auto" {
			name, err := link.First()
			if err != nil {
				return fmt.Errorf("auto-detect serial port: %w", err)
			}
			portName = name
		}
		port, err := link.Open(portName, cfg.Serial.BaudRate)
		if err != nil {
			return err
		}
		defer port.Close()
		log.Printf("Connected to serial port: %s", portName)

		// Commands arrive on the serial link; frame lines go back the
		// same way so the host sees both directions on one port.
		go cam.Pump(ctx, port)
		sinks = append(sinks, frame.NewEmitter(port))
	}

	if cfg.MQTT.Broker != "" {
		pub, err := publish.New(cfg.MQTT.Broker, cfg.MQTT.ClientID+"-"+uuid.NewString()[:8])
		if err != nil {
			return fmt.Errorf("connect MQTT broker: %w", err)
		}
		defer pub.Close()
		log.Printf("Publishing frames to %s", cfg.MQTT.Broker)
		sinks = append(sinks, pub)
	}

	if cfg.Capture.CSVPath != "" {
		f, err := os.Create(cfg.Capture.CSVPath)
		if err != nil {
			return fmt.Errorf("create capture file: %w", err)
		}
		defer f.Close()
		rec, err := capture.NewCSV(f)
		if err != nil {
			return fmt.Errorf("start CSV capture: %w", err)
		}
		sinks = append(sinks, rec)
	}

	if cfg.Capture.SQLitePath != "" {
		rec, err := capture.NewSQLite(cfg.Capture.SQLitePath)
		if err != nil {
			return fmt.Errorf("open capture database: %w", err)
		}
		defer rec.Close()
		sinks = append(sinks, rec)
	}

	src := buildSources(cfg, clk, useMock)

	p := pipeline.New(cfg, clk, src, cam, sinks...)
	p.Run(ctx)
	return nil
}

// buildSources picks the sample sources for this run. Without hardware
// ADCs on the host, the non-mock path still reads synthetic sources; the
// serial link carries the real command and frame traffic.
func buildSources(cfg *config.Config, clk clock.Clock, useMock bool) pipeline.Sources {
	m := cfg.Mock
	if !useMock {
		log.Printf("No local ADC available, sampling synthetic sources")
	}
	return pipeline.Sources{
		Mic:   sensor.NewSynthAnalog(clk, m.MicFreq, m.MicBase, m.MicAmp, sensor.FullScale10),
		Light: sensor.NewSynthAnalog(clk, m.LightFreq, m.LightBase, m.LightAmp, cfg.Light.FullScale),
		PIR:   sensor.NewSynthDigital(clk, m.MotionFreq, m.MotionThr),
	}
}
