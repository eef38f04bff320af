package telemetry

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTConfig selects the broker and topic run records are published to.
type MQTTConfig struct {
	Broker   string `yaml:"broker" json:"broker"`
	Topic    string `yaml:"topic" json:"topic"`
	ClientID string `yaml:"client_id" json:"client_id"`
}

func (c MQTTConfig) Enabled() bool { return c.Broker != "" && c.Topic != "" }

// MQTTSink publishes records as JSON at QoS 0 without waiting for the
// broker.
type MQTTSink struct {
	client mqtt.Client
	topic  string
	runID  string
}

func NewMQTTSink(cfg MQTTConfig, runID string) (*MQTTSink, error) {
	id := cfg.ClientID
	if id == "" {
		id = "greenhouse-eplus-" + runID
	}
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(id).
		SetConnectTimeout(5 * time.Second).
		SetAutoReconnect(true)
	c := mqtt.NewClient(opts)
	tok := c.Connect()
	if !tok.WaitTimeout(5 * time.Second) {
		return nil, fmt.Errorf("mqtt connect %s: timed out", cfg.Broker)
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", cfg.Broker, err)
	}
	return newMQTTSink(c, cfg.Topic, runID), nil
}

func newMQTTSink(c mqtt.Client, topic, runID string) *MQTTSink {
	return &MQTTSink{client: c, topic: topic, runID: runID}
}

func (s *MQTTSink) Write(r Record) error {
	r.RunID = s.runID
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	s.client.Publish(s.topic, 0, false, b)
	return nil
}

func (s *MQTTSink) Close() error {
	s.client.Disconnect(250)
	return nil
}
