package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	GateState     string       `json:"gate_state"`
	Output        string       `json:"output"`
	Sample        int          `json:"sample"`
	Valid         int          `json:"valid"`
	Mode          string       `json:"mode"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"event_counts"`
	Settings      SettingsJSON `json:"settings"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Opens  int `json:"gate_open"`
	Closes int `json:"gate_close"`
}

// SettingsJSON is the JSON representation of the tunable settings.
type SettingsJSON struct {
	HighThreshold     int    `json:"high_threshold"`
	LowThreshold      int    `json:"low_threshold"`
	ReadingsCount     int    `json:"readings_count"`
	KerchunkTime      int    `json:"kerchunk_time"`
	HoldTime          int    `json:"hold_time"`
	FragmentationTime int    `json:"fragmentation_time"`
	OutputLevel       string `json:"output_level"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs        int64  `json:"poll_ms"`
	HeartbeatMs   int64  `json:"heartbeat_ms"`
	MenuTimeoutMs int64  `json:"menu_timeout_ms"`
	Broker        string `json:"broker"`
	HTTPAddr      string `json:"http_addr"`
	SettingsPath  string `json:"settings_path"`
}

func buildInner(snap Snapshot) StatusInner {
	state := string(snap.Gate.State)
	if state == "" {
		state = "UNKNOWN"
	}
	output := "CLOSED"
	if snap.Gate.OutputActive {
		output = "OPEN"
	}
	mode := snap.Gate.Mode
	if mode == "" {
		mode = "Monitor"
	}
	outputLevel := "active-high"
	if snap.Gate.Settings.ActiveLow {
		outputLevel = "active-low"
	}

	return StatusInner{
		GateState:     state,
		Output:        output,
		Sample:        snap.Gate.Sample,
		Valid:         snap.Gate.Valid,
		Mode:          mode,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Opens:  snap.Gate.Counts.Opens,
			Closes: snap.Gate.Counts.Closes,
		},
		Settings: SettingsJSON{
			HighThreshold:     snap.Gate.Settings.HighThreshold,
			LowThreshold:      snap.Gate.Settings.LowThreshold,
			ReadingsCount:     snap.Gate.Settings.ReadingsCount,
			KerchunkTime:      snap.Gate.Settings.KerchunkTime,
			HoldTime:          snap.Gate.Settings.HoldTime,
			FragmentationTime: snap.Gate.Settings.FragmentationTime,
			OutputLevel:       outputLevel,
		},
		Config: ConfigJSON{
			PollMs:        snap.Config.PollMs,
			HeartbeatMs:   snap.Config.HeartbeatMs,
			MenuTimeoutMs: snap.Config.MenuTimeoutMs,
			Broker:        snap.Config.Broker,
			HTTPAddr:      snap.Config.HTTPAddr,
			SettingsPath:  snap.Config.SettingsPath,
		},
	}
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
