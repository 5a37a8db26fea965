// Package publish fans emitted frames out to an MQTT broker so telemetry
// can be consumed off-host without touching the serial link.
package publish

import (
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/roomlens/roomlens/pkg/frame"
)

const (
	// TopicFrames carries one message per emitted frame.
	TopicFrames = "roomlens/telemetry/frames"
	// TopicSystem carries lifecycle records (boot), retained.
	TopicSystem = "roomlens/telemetry/system"

	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
)

// Publisher publishes frames to an actual MQTT broker. It satisfies
// frame.Sink so the pipeline can treat it like any other emitter.
type Publisher struct {
	client paho.Client
	buf    []byte
}

// New creates a publisher connected to the given broker.
func New(broker, clientID string) (*Publisher, error) {
	if clientID == "" {
		clientID = "roomlens"
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return &Publisher{client: client, buf: make([]byte, 0, 96)}, nil
}

// Boot publishes the startup record, retained so late subscribers learn
// the device identity.
func (p *Publisher) Boot(device string) error {
	return p.publish(TopicSystem, frame.Boot(device), true)
}

// Emit publishes one frame line. QoS 0: frames are best-effort telemetry
// and the next one is at most an interval away.
func (p *Publisher) Emit(f frame.Frame) error {
	p.buf = f.Append(p.buf[:0])
	return p.publish(TopicFrames, p.buf, false)
}

func (p *Publisher) publish(topic string, payload []byte, retained bool) error {
	token := p.client.Publish(topic, 0, retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// Close disconnects from the broker.
func (p *Publisher) Close() error {
	p.client.Disconnect(250)
	return nil
}

var _ frame.Sink = (*Publisher)(nil)
