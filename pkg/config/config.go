// Package config loads and saves the pipeline configuration. Missing
// files and missing fields fall back to defaults, so a bare checkout runs
// without any YAML present.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Device  DeviceConfig  `yaml:"device"`
	Serial  SerialConfig  `yaml:"serial"`
	Frame   FrameConfig   `yaml:"frame"`
	Mic     MicConfig     `yaml:"mic"`
	Light   LightConfig   `yaml:"light"`
	Camera  CameraConfig  `yaml:"camera"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
	Capture CaptureConfig `yaml:"capture"`
	Mock    MockConfig    `yaml:"mock"`
}

// DeviceConfig identifies this telemetry source.
type DeviceConfig struct {
	ID string `yaml:"id"` // announced in the boot record
}

// SerialConfig contains serial link configuration.
type SerialConfig struct {
	Port     string `yaml:"port"` // device path, or "auto" to pick the first port
	BaudRate int    `yaml:"baud_rate"`
}

// FrameConfig contains frame cadence parameters.
type FrameConfig struct {
	RateHz int `yaml:"rate_hz"` // target frames per second
}

// MicConfig contains the audio sampling window parameters.
type MicConfig struct {
	WindowMs  uint32  `yaml:"window_ms"`  // RMS/peak sampling window
	MidScale  uint16  `yaml:"mid_scale"`  // mid-scale reference of the raw range
	PeakDecay float32 `yaml:"peak_decay"` // peak hold release factor, (0,1)
}

// LightConfig contains the light averaging parameters.
type LightConfig struct {
	Samples   int    `yaml:"samples"`    // raw reads per frame
	FullScale uint16 `yaml:"full_scale"` // raw full-scale value
}

// CameraConfig contains the external signal channel parameters.
type CameraConfig struct {
	Key         string  `yaml:"key"`          // recognized command key
	StalenessMs uint32  `yaml:"staleness_ms"` // fade when updates stop for this long
	DecayFactor float32 `yaml:"decay_factor"` // per-frame fade factor, (0,1)
}

// MQTTConfig contains frame fan-out configuration. An empty broker
// disables publishing.
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
}

// CaptureConfig contains opt-in frame recording configuration. Both paths
// are empty by default; nothing is written to disk unless asked for.
type CaptureConfig struct {
	CSVPath    string `yaml:"csv_path"`
	SQLitePath string `yaml:"sqlite_path"`
}

// MockConfig shapes the synthetic signal sources used when no hardware is
// attached.
type MockConfig struct {
	MicFreq    float32 `yaml:"mic_freq"`
	MicBase    float32 `yaml:"mic_base"`
	MicAmp     float32 `yaml:"mic_amp"`
	LightFreq  float32 `yaml:"light_freq"`
	LightBase  float32 `yaml:"light_base"`
	LightAmp   float32 `yaml:"light_amp"`
	MotionFreq float32 `yaml:"motion_freq"`
	MotionThr  float32 `yaml:"motion_threshold"`
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Device: DeviceConfig{
			ID: "roomlens-go",
		},
		Serial: SerialConfig{
			Port:     "auto",
			BaudRate: 115200,
		},
		Frame: FrameConfig{
			RateHz: 12,
		},
		Mic: MicConfig{
			WindowMs:  16,
			MidScale:  512,
			PeakDecay: 0.9,
		},
		Light: LightConfig{
			Samples:   8,
			FullScale: 1023,
		},
		Camera: CameraConfig{
			Key:         "cam",
			StalenessMs: 4000,
			DecayFactor: 0.8,
		},
		MQTT: MQTTConfig{
			Broker:   "",
			ClientID: "roomlens",
		},
		Mock: MockConfig{
			MicFreq:    1.7,
			MicBase:    0.12,
			MicAmp:     0.1,
			LightFreq:  0.1,
			LightBase:  0.3,
			LightAmp:   0.6,
			MotionFreq: 2.3,
			MotionThr:  0.65,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ensureDefaults backfills zero values with defaults so partial YAML
// files stay usable.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Device.ID == "" {
		c.Device.ID = def.Device.ID
	}

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}

	if c.Frame.RateHz == 0 {
		c.Frame.RateHz = def.Frame.RateHz
	}

	if c.Mic.WindowMs == 0 {
		c.Mic.WindowMs = def.Mic.WindowMs
	}
	if c.Mic.MidScale == 0 {
		c.Mic.MidScale = def.Mic.MidScale
	}
	if c.Mic.PeakDecay <= 0 || c.Mic.PeakDecay >= 1 {
		c.Mic.PeakDecay = def.Mic.PeakDecay
	}

	if c.Light.Samples == 0 {
		c.Light.Samples = def.Light.Samples
	}
	if c.Light.FullScale == 0 {
		c.Light.FullScale = def.Light.FullScale
	}

	if c.Camera.Key == "" {
		c.Camera.Key = def.Camera.Key
	}
	if c.Camera.StalenessMs == 0 {
		c.Camera.StalenessMs = def.Camera.StalenessMs
	}
	if c.Camera.DecayFactor <= 0 || c.Camera.DecayFactor >= 1 {
		c.Camera.DecayFactor = def.Camera.DecayFactor
	}

	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = def.MQTT.ClientID
	}

	if c.Mock.MicFreq == 0 {
		c.Mock = def.Mock
	}
}
