package writer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	kafka "github.com/segmentio/kafka-go"

	appconfig "macroflow/config"
	"macroflow/models"
)

type fakeMessageWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeMessageWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeMessageWriter) Close() error {
	f.closed = true
	return nil
}

func TestAuditPublisher(t *testing.T) {
	ok := models.AuditRecord{RunID: "r1", Code: "A", Provider: models.ProviderFRED, NativeID: "AID",
		FetchedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), Mode: models.FetchIncremental,
		Since: day("2024-01-31"), Attempts: 2, Status: models.AuditSucceeded}
	ok.ApplyStats(models.Series{Observations: []models.Observation{{Date: day("2024-02-01"), Value: 4}}})
	failed := models.AuditRecord{RunID: "r1", Code: "B", Provider: models.ProviderECB, Mode: models.FetchFull,
		Attempts: 3, Status: models.AuditFailed, Cause: "provider unavailable"}

	fw := &fakeMessageWriter{}
	p := newAuditPublisher(fw, "macro.audit")
	if err := p.Publish(context.Background(), []models.AuditRecord{ok, failed}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(fw.msgs) != 2 || string(fw.msgs[0].Key) != "A" || string(fw.msgs[1].Key) != "B" {
		t.Fatalf("unexpected messages %+v", fw.msgs)
	}

	var got AuditEvent
	if err := json.Unmarshal(fw.msgs[0].Value, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	four := 4.0
	want := AuditEvent{RunID: "r1", Code: "A", Provider: "FRED", NativeID: "AID", FetchedAt: "2024-03-01T12:00:00Z",
		Mode: "incremental", Since: "2024-01-31", Attempts: 2, Status: "succeeded", FirstDate: "2024-02-01",
		LastDate: "2024-02-01", Observations: 1, Mean: &four, Min: &four, Max: &four}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("event mismatch (-want +got):\n%s", diff)
	}

	var failedEvent map[string]any
	if err := json.Unmarshal(fw.msgs[1].Value, &failedEvent); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, has := failedEvent["mean"]; has {
		t.Errorf("failed event should not carry statistics: %v", failedEvent)
	}
	if failedEvent["cause"] != "provider unavailable" {
		t.Errorf("unexpected cause %v", failedEvent["cause"])
	}

	if err := p.Close(); err != nil || !fw.closed {
		t.Fatalf("Close: %v closed=%v", err, fw.closed)
	}
}

func TestAuditPublisherError(t *testing.T) {
	boom := errors.New("broker down")
	p := newAuditPublisher(&fakeMessageWriter{err: boom}, "t")
	err := p.Publish(context.Background(), []models.AuditRecord{{Code: "A"}})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped broker error, got %v", err)
	}
	if err := p.Publish(context.Background(), nil); err != nil {
		t.Fatalf("empty publish should be a no-op, got %v", err)
	}
}

func TestNewAuditPublisherRequiresBrokers(t *testing.T) {
	if _, err := NewAuditPublisher(appconfig.KafkaConfig{Enabled: true, Topic: "t"}); err == nil {
		t.Fatalf("expected error without brokers")
	}
}
