package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/signal-gate/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"stateOrUnknown": func(s string) string {
		if s == "" {
			return "UNKNOWN"
		}
		return s
	},
	"timerMs": func(count int) string {
		return fmt.Sprintf("%d (%dms)", count, count*10)
	},
	"percent": func(sample int) string {
		if sample < 0 {
			sample = 0
		}
		if sample > 5000 {
			sample = 5000
		}
		return fmt.Sprintf("%.1f", float64(sample)*100/5000)
	},
	"polarity": func(activeLow bool) string {
		if activeLow {
			return "active-low"
		}
		return "active-high"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="2">
<title>Signal Gate</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.open { color: green; font-weight: bold; }
.closed { color: #888; }
.unknown { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
.bar { background: #eee; height: 12px; position: relative; }
.bar .fill { background: #4a4; height: 12px; }
</style>
</head>
<body>
<h1>Signal Gate</h1>

<h2>Gate</h2>
<table>
<tr><th>Output</th><td>{{if .Gate.OutputActive}}<span class="open">OPEN</span>{{else}}<span class="closed">CLOSED</span>{{end}}</td></tr>
<tr><th>State</th><td>{{stateOrUnknown (printf "%s" .Gate.State)}}</td></tr>
<tr><th>Sample</th><td>{{.Gate.Sample}} / 5000
<div class="bar"><div class="fill" style="width: {{percent .Gate.Sample}}%"></div></div></td></tr>
<tr><th>Valid readings</th><td>{{.Gate.Valid}} / {{.Gate.Settings.ReadingsCount}}</td></tr>
<tr><th>Menu mode</th><td>{{.Gate.Mode}}</td></tr>
</table>

<h2>Settings</h2>
<table>
<tr><th>High threshold</th><td>{{.Gate.Settings.HighThreshold}}</td></tr>
<tr><th>Low threshold</th><td>{{.Gate.Settings.LowThreshold}}</td></tr>
<tr><th>Readings count</th><td>{{.Gate.Settings.ReadingsCount}}</td></tr>
<tr><th>Kerchunk timer</th><td>{{timerMs .Gate.Settings.KerchunkTime}}</td></tr>
<tr><th>Hold time</th><td>{{timerMs .Gate.Settings.HoldTime}}</td></tr>
<tr><th>Fragmentation time</th><td>{{timerMs .Gate.Settings.FragmentationTime}}</td></tr>
<tr><th>Output level</th><td>{{polarity .Gate.Settings.ActiveLow}}</td></tr>
</table>

<h2>Counters</h2>
<table>
<tr><th>Gate opened</th><td>{{.Gate.Counts.Opens}}</td></tr>
<tr><th>Gate closed</th><td>{{.Gate.Counts.Closes}}</td></tr>
</table>

<h2>MQTT</h2>
<table>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
<tr><th>Connection</th><td>{{if .MQTTConnected}}<span class="connected">connected</span>{{else}}<span class="disconnected">disconnected</span>{{end}}</td></tr>
</table>

{{if .Network}}
<h2>Network</h2>
<table>
<tr><th>Type</th><td>{{.Network.Type}}</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>
<tr><th>Status</th><td>{{.Network.Status}}</td></tr>
{{if .Network.SSID}}<tr><th>SSID</th><td>{{.Network.SSID}}</td></tr>{{end}}
</table>
{{end}}

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>Menu timeout</th><td>{{.Config.MenuTimeoutMs}}ms</td></tr>
<tr><th>Settings file</th><td>{{.Config.SettingsPath}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
