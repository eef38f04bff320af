package telemetry

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaConfig selects the brokers and topic run records are published to.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers" json:"brokers"`
	Topic   string   `yaml:"topic" json:"topic"`
}

func (c KafkaConfig) Enabled() bool { return len(c.Brokers) > 0 && c.Topic != "" }

// KafkaSink publishes records as JSON. The writer is asynchronous so the
// engine thread never waits on the broker; delivery failures are logged.
type KafkaSink struct {
	w     *kafka.Writer
	runID string
}

func NewKafkaSink(cfg KafkaConfig, runID string, log *slog.Logger) *KafkaSink {
	log = log.With(slog.String("component", "kafka-sink"))
	return &KafkaSink{
		runID: runID,
		w: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			Async:        true,
			BatchTimeout: 100 * time.Millisecond,
			Completion: func(msgs []kafka.Message, err error) {
				if err != nil {
					log.Warn("publish failed", "messages", len(msgs), "error", err)
				}
			},
		},
	}
}

func (s *KafkaSink) Write(r Record) error {
	r.RunID = s.runID
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	// Async writers return immediately; the context only bounds enqueueing.
	return s.w.WriteMessages(context.Background(), kafka.Message{
		Key:   []byte(s.runID + "/" + strconv.Itoa(r.Step)),
		Value: b,
	})
}

func (s *KafkaSink) Close() error { return s.w.Close() }
