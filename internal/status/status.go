// Package status provides a thread-safe status tracker for the signal-gate
// daemon. It is read by the HTTP handlers and the terminal UI.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/signal-gate/internal/config"
	"github.com/sweeney/signal-gate/internal/logic"
)

// NetworkInfo contains the host network state as reported by pi-helper.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	PollMs        int64
	HeartbeatMs   int64
	MenuTimeoutMs int64
	Broker        string
	HTTPAddr      string
	SettingsPath  string
}

// GateStatus is the per-tick core state pushed by the run loop.
type GateStatus struct {
	State        logic.State
	OutputActive bool
	Sample       int
	Valid        int
	Mode         string
	Settings     config.Settings
	Counts       logic.EventCounts
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Gate          GateStatus
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the gate state. Called from the run loop on every tick.
func (t *Tracker) Update(g GateStatus) {
	t.mu.Lock()
	t.snap.Gate = g
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
