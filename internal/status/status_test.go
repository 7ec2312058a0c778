package status

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sweeney/signal-gate/internal/config"
	"github.com/sweeney/signal-gate/internal/logic"
)

func testTracker() *Tracker {
	return NewTracker(time.Now().Add(-time.Hour), Config{
		PollMs:       10,
		HeartbeatMs:  900000,
		Broker:       "tcp://broker:1883",
		HTTPAddr:     ":80",
		SettingsPath: "/var/lib/signal-gate/settings.json",
	})
}

func TestTrackerUpdate(t *testing.T) {
	tr := testTracker()

	tr.Update(GateStatus{
		State:        logic.StateActive,
		OutputActive: true,
		Sample:       4200,
		Valid:        3,
		Mode:         "Monitor",
		Settings:     config.Defaults(),
		Counts:       logic.EventCounts{Opens: 2, Closes: 1},
	})

	snap := tr.Snapshot()
	if snap.Gate.State != logic.StateActive || !snap.Gate.OutputActive {
		t.Errorf("unexpected gate state: %+v", snap.Gate)
	}
	if snap.Gate.Sample != 4200 || snap.Gate.Counts.Opens != 2 {
		t.Errorf("unexpected gate data: %+v", snap.Gate)
	}
	if snap.Now.IsZero() {
		t.Error("Snapshot must stamp Now")
	}
	if snap.Uptime() < time.Hour {
		t.Errorf("uptime = %v, want at least an hour", snap.Uptime())
	}
}

func TestTrackerMQTTAndNetwork(t *testing.T) {
	tr := testTracker()

	tr.SetMQTTConnected(true)
	tr.SetNetwork(&NetworkInfo{Type: "wifi", IP: "192.168.1.50", SSID: "shack"})

	snap := tr.Snapshot()
	if !snap.MQTTConnected {
		t.Error("expected MQTT connected")
	}
	if snap.Network == nil || snap.Network.SSID != "shack" {
		t.Errorf("unexpected network: %+v", snap.Network)
	}
}

func TestFormatJSON(t *testing.T) {
	tr := testTracker()
	s := config.Defaults()
	s.ActiveLow = true
	tr.Update(GateStatus{
		State:        logic.StateHold,
		OutputActive: false,
		Sample:       1800,
		Valid:        1,
		Mode:         "High threshold",
		Settings:     s,
		Counts:       logic.EventCounts{Opens: 5, Closes: 5},
	})
	tr.SetMQTTConnected(true)

	var out StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if out.Status.GateState != "HOLD" {
		t.Errorf("gate_state = %q", out.Status.GateState)
	}
	if out.Status.Output != "CLOSED" {
		t.Errorf("output = %q, want CLOSED", out.Status.Output)
	}
	if out.Status.Sample != 1800 || out.Status.Valid != 1 {
		t.Errorf("sample/valid = %d/%d", out.Status.Sample, out.Status.Valid)
	}
	if out.Status.Mode != "High threshold" {
		t.Errorf("mode = %q", out.Status.Mode)
	}
	if !out.Status.MQTT.Connected || out.Status.MQTT.Broker != "tcp://broker:1883" {
		t.Errorf("mqtt = %+v", out.Status.MQTT)
	}
	if out.Status.Counts.Opens != 5 || out.Status.Counts.Closes != 5 {
		t.Errorf("counts = %+v", out.Status.Counts)
	}
	if out.Status.Settings.OutputLevel != "active-low" {
		t.Errorf("output_level = %q", out.Status.Settings.OutputLevel)
	}
	if out.Status.Settings.HighThreshold != s.HighThreshold {
		t.Errorf("high_threshold = %d", out.Status.Settings.HighThreshold)
	}
	if out.Status.UptimeSeconds < 3600 {
		t.Errorf("uptime_seconds = %d", out.Status.UptimeSeconds)
	}
	if out.Status.Event != "" || out.Status.Reason != "" {
		t.Error("web status must not carry event/reason")
	}
	if out.Status.Network != nil {
		t.Error("network must be omitted when unknown")
	}
}

func TestFormatJSONDefaults(t *testing.T) {
	tr := testTracker()

	var out StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out.Status.GateState != "UNKNOWN" {
		t.Errorf("gate_state = %q, want UNKNOWN before first tick", out.Status.GateState)
	}
	if out.Status.Mode != "Monitor" {
		t.Errorf("mode = %q, want Monitor", out.Status.Mode)
	}
}

func TestFormatStatusEvent(t *testing.T) {
	tr := testTracker()
	tr.Update(GateStatus{State: logic.StateIdle, Settings: config.Defaults()})
	tr.SetNetwork(&NetworkInfo{Type: "ethernet", IP: "10.0.0.2"})

	var out StatusJSON
	if err := json.Unmarshal(FormatStatusEvent(tr.Snapshot(), "SHUTDOWN", "SIGTERM"), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out.Status.Event != "SHUTDOWN" || out.Status.Reason != "SIGTERM" {
		t.Errorf("event/reason = %q/%q", out.Status.Event, out.Status.Reason)
	}
	if out.Status.Network == nil || out.Status.Network.IP != "10.0.0.2" {
		t.Errorf("network = %+v", out.Status.Network)
	}
}
