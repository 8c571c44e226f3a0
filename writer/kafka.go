package writer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafka "github.com/segmentio/kafka-go"

	appconfig "macroflow/config"
	"macroflow/logger"
	"macroflow/models"
)

// messageWriter is the part of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// AuditEvent is the JSON message published for one audit row.
type AuditEvent struct {
	RunID        string   `json:"run_id"`
	Code         string   `json:"code"`
	Provider     string   `json:"provider"`
	NativeID     string   `json:"native_id"`
	FetchedAt    string   `json:"fetched_at"`
	Mode         string   `json:"mode"`
	Since        string   `json:"since,omitempty"`
	Attempts     int      `json:"attempts"`
	Status       string   `json:"status"`
	Cause        string   `json:"cause,omitempty"`
	FirstDate    string   `json:"first_date,omitempty"`
	LastDate     string   `json:"last_date,omitempty"`
	Observations int      `json:"observations"`
	Nulls        int      `json:"nulls"`
	Mean         *float64 `json:"mean,omitempty"`
	Min          *float64 `json:"min,omitempty"`
	Max          *float64 `json:"max,omitempty"`
}

func newAuditEvent(a models.AuditRecord) AuditEvent {
	ev := AuditEvent{
		RunID:        a.RunID,
		Code:         a.Code,
		Provider:     string(a.Provider),
		NativeID:     a.NativeID,
		FetchedAt:    a.FetchedAt.UTC().Format(time.RFC3339),
		Mode:         string(a.Mode),
		Since:        formatDate(a.Since),
		Attempts:     a.Attempts,
		Status:       string(a.Status),
		Cause:        a.Cause,
		FirstDate:    formatDate(a.FirstDate),
		LastDate:     formatDate(a.LastDate),
		Observations: a.Observations,
		Nulls:        a.Nulls,
	}
	if a.HasStats() {
		mean, lo, hi := a.Mean, a.Min, a.Max
		ev.Mean, ev.Min, ev.Max = &mean, &lo, &hi
	}
	return ev
}

// AuditPublisher sends audit rows to a Kafka topic, keyed by variable code.
type AuditPublisher struct {
	writer messageWriter
	topic  string
	log    *logger.Log
}

func NewAuditPublisher(cfg appconfig.KafkaConfig) (*AuditPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers not configured")
	}
	p := newAuditPublisher(&kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}, cfg.Topic)
	p.log.WithComponent("kafka_publisher").WithFields(logger.Fields{
		"brokers": cfg.Brokers,
		"topic":   cfg.Topic,
	}).Debug("kafka publisher initialized")
	return p, nil
}

func newAuditPublisher(w messageWriter, topic string) *AuditPublisher {
	return &AuditPublisher{writer: w, topic: topic, log: logger.GetLogger()}
}

// Publish writes one message per record in a single batch.
func (p *AuditPublisher) Publish(ctx context.Context, records []models.AuditRecord) error {
	if len(records) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(records))
	for _, a := range records {
		data, err := json.Marshal(newAuditEvent(a))
		if err != nil {
			return fmt.Errorf("failed to marshal audit event for %s: %w", a.Code, err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(a.Code),
			Value: data,
			Headers: []kafka.Header{
				{Key: "run_id", Value: []byte(a.RunID)},
				{Key: "status", Value: []byte(a.Status)},
			},
		})
	}

	log := p.log.WithComponent("kafka_publisher").WithFields(logger.Fields{
		"topic":    p.topic,
		"messages": len(msgs),
	})
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		log.WithError(err).Warn("failed to publish audit events")
		return fmt.Errorf("failed to publish audit events: %w", err)
	}
	log.Debug("audit events published")
	return nil
}

func (p *AuditPublisher) Close() error {
	p.log.WithComponent("kafka_publisher").Debug("closing kafka publisher")
	return p.writer.Close()
}
