// Package events publishes call lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"callpal-go/internal/config"
	"callpal-go/internal/metrics"
)

// Event types.
const (
	CallPlaced      = "call.placed"
	TranscriptReady = "transcript.ready"
)

// Event is the envelope written to the topic.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	CallID     string    `json:"callId"`
	Mode       string    `json:"mode,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data,omitempty"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType, callID, mode string, data any) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		CallID:     callID,
		Mode:       mode,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes events keyed by call id. When Kafka is disabled it only logs.
type Publisher struct {
	writer  messageWriter
	topic   string
	enabled bool
	metrics *metrics.Metrics
	log     *logrus.Entry
}

func New(cfg config.KafkaConfig, m *metrics.Metrics, log *logrus.Entry) *Publisher {
	if m == nil {
		m = metrics.DefaultMetrics
	}
	log = log.WithField("component", "events")

	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info("Kafka disabled, using log-only mode")
		return &Publisher{topic: cfg.Topic, metrics: m, log: log}
	}

	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    &kafka.Transport{Dial: dialer.DialFunc},
	}

	log.WithFields(logrus.Fields{
		"brokers": cfg.Brokers,
		"topic":   cfg.Topic,
	}).Info("Kafka publisher initialized")

	return &Publisher{writer: writer, topic: cfg.Topic, enabled: true, metrics: m, log: log}
}

// Publish writes e. Events for one call land on one partition.
func (p *Publisher) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		p.log.WithError(err).WithField("type", e.Type).Error("failed to marshal event")
		p.metrics.RecordEvent(e.Type, err)
		return err
	}

	log := p.log.WithFields(logrus.Fields{
		"topic":   p.topic,
		"type":    e.Type,
		"call_id": e.CallID,
	})
	log.WithField("payload", string(payload)).Debug("publishing event")

	if !p.enabled || p.writer == nil {
		p.metrics.RecordEvent(e.Type, nil)
		return nil
	}

	msg := kafka.Message{
		Key:   []byte(e.CallID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte(e.Type)},
			{Key: "eventId", Value: []byte(e.ID)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.WithError(err).Error("failed to write to Kafka")
		p.metrics.RecordEvent(e.Type, err)
		return err
	}
	p.metrics.RecordEvent(e.Type, nil)
	return nil
}

func (p *Publisher) Enabled() bool { return p.enabled }

func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	if err := p.writer.Close(); err != nil {
		p.log.WithError(err).Error("error closing Kafka writer")
		return err
	}
	return nil
}
