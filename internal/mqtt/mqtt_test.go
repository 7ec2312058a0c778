package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/signal-gate/internal/logic"
)

func TestFormatPayload(t *testing.T) {
	event := logic.Event{
		Timestamp: time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC),
		Type:      logic.EventGateOpen,
		From:      logic.StateCheck,
		To:        logic.StateActive,
		Sample:    4480,
	}

	data, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("FormatPayload() error: %v", err)
	}

	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if payload.Gate.Timestamp != "2026-03-15T14:30:00Z" {
		t.Errorf("timestamp = %q", payload.Gate.Timestamp)
	}
	if payload.Gate.Event != "GATE_OPEN" {
		t.Errorf("event = %q, want GATE_OPEN", payload.Gate.Event)
	}
	if payload.Gate.State != "ACTIVE" {
		t.Errorf("state = %q, want ACTIVE", payload.Gate.State)
	}
	if payload.Gate.Sample != 4480 {
		t.Errorf("sample = %d, want 4480", payload.Gate.Sample)
	}
}

func TestFormatSystemPayload(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	data, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("FormatSystemPayload() error: %v", err)
	}

	var payload SystemPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if payload.System.Event != "SHUTDOWN" {
		t.Errorf("event = %q, want SHUTDOWN", payload.System.Event)
	}
	if payload.System.Reason != "SIGTERM" {
		t.Errorf("reason = %q, want SIGTERM", payload.System.Reason)
	}
}

func TestFormatSystemPayloadOmitsEmptyReason(t *testing.T) {
	data, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Now(),
		Event:     "HEARTBEAT",
	})
	if err != nil {
		t.Fatalf("FormatSystemPayload() error: %v", err)
	}

	var raw map[string]map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, present := raw["system"]["reason"]; present {
		t.Error("empty reason must be omitted")
	}
}

func TestFormatSystemPayloadRawPassthrough(t *testing.T) {
	raw := []byte(`{"status":{"gate_state":"IDLE"}}`)
	data, err := FormatSystemPayload(SystemEvent{
		Event:      "STARTUP",
		RawPayload: raw,
	})
	if err != nil {
		t.Fatalf("FormatSystemPayload() error: %v", err)
	}
	if string(data) != string(raw) {
		t.Errorf("raw payload not passed through: %s", data)
	}
}

func TestFakePublisherRecordsEvents(t *testing.T) {
	f := NewFakePublisher()

	event := logic.Event{
		Timestamp: time.Now(),
		Type:      logic.EventGateClose,
		From:      logic.StateFragment,
		To:        logic.StateHold,
		Sample:    2100,
	}
	if err := f.Publish(event); err != nil {
		t.Fatalf("Publish() error: %v", err)
	}

	if len(f.Events) != 1 || f.Events[0].Type != logic.EventGateClose {
		t.Errorf("Events = %+v", f.Events)
	}
	if len(f.Payloads) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(f.Payloads))
	}
	var payload Payload
	if err := json.Unmarshal(f.Payloads[0], &payload); err != nil {
		t.Fatalf("invalid payload: %v", err)
	}
	if payload.Gate.Event != "GATE_CLOSE" {
		t.Errorf("payload event = %q", payload.Gate.Event)
	}
}

func TestFakePublisherErrors(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("broker down")

	if err := f.Publish(logic.Event{}); err == nil {
		t.Error("expected configured publish error")
	}
	if len(f.Events) != 0 {
		t.Error("failed publish must not record the event")
	}

	f.PublishSystemError = errors.New("broker down")
	if err := f.PublishSystem(SystemEvent{Event: "HEARTBEAT"}); err == nil {
		t.Error("expected configured system publish error")
	}
}

func TestFakePublisherReset(t *testing.T) {
	f := NewFakePublisher()
	f.Publish(logic.Event{Type: logic.EventGateOpen})
	f.PublishSystem(SystemEvent{Event: "STARTUP"})
	f.Connected = true
	f.Close()

	f.Reset()
	if len(f.Events) != 0 || len(f.SystemEvents) != 0 || f.Closed || f.Connected {
		t.Error("Reset must clear all recorded state")
	}
}
