// Command signal-gate samples an analog signal-strength reading, decides with
// timing-based hysteresis whether a genuine transmission is present, and
// drives a gate output pin. Three buttons (or the terminal UI) walk a
// settings menu; gate transitions are published to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/signal-gate/internal/adc"
	"github.com/sweeney/signal-gate/internal/config"
	"github.com/sweeney/signal-gate/internal/gpio"
	"github.com/sweeney/signal-gate/internal/logic"
	"github.com/sweeney/signal-gate/internal/menu"
	"github.com/sweeney/signal-gate/internal/mqtt"
	"github.com/sweeney/signal-gate/internal/status"
	"github.com/sweeney/signal-gate/internal/term"
	"github.com/sweeney/signal-gate/internal/web"
)

const renderEvery = 200 * time.Millisecond // terminal UI refresh, ~5 Hz

func main() {
	poll := flag.Duration("poll", 10*time.Millisecond, "Input polling interval")
	broker := flag.String("broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	settingsPath := flag.String("settings", config.DefaultPath, "Settings file path")
	menuTimeout := flag.Duration("menu-timeout", menu.DefaultIdleTimeout, "Menu inactivity timeout (0 to disable)")
	adcPath := flag.String("adc", adc.DefaultPath, "IIO raw-value attribute for the signal reading")
	adcMax := flag.Int("adc-max", adc.DefaultMaxRaw, "ADC full-scale raw value")
	pinMode := flag.Int("pin-mode", gpio.DefaultPinMode, "BCM pin number for the mode button")
	pinUp := flag.Int("pin-up", gpio.DefaultPinUp, "BCM pin number for the increase button")
	pinDown := flag.Int("pin-down", gpio.DefaultPinDown, "BCM pin number for the decrease button")
	pinGate := flag.Int("pin-gate", gpio.DefaultPinGate, "BCM pin number for the gate output")
	pinLED := flag.Int("pin-led", gpio.DefaultPinLED, "BCM pin number for the status LED")
	printState := flag.Bool("print-state", false, "Print current sample and settings, then exit")
	httpAddr := flag.String("http", ":80", "HTTP status address (empty to disable)")
	tui := flag.Bool("tui", false, "Run the terminal UI (keyboard acts as the buttons)")

	flag.Parse()

	pins := gpio.Pins{Mode: *pinMode, Up: *pinUp, Down: *pinDown, Gate: *pinGate, LED: *pinLED}
	if err := run(*poll, *broker, *heartbeat, *settingsPath, *menuTimeout, *adcPath, *adcMax, pins, *printState, *httpAddr, *tui); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(poll time.Duration, broker string, heartbeat time.Duration, settingsPath string, menuTimeout time.Duration, adcPath string, adcMax int, pins gpio.Pins, printState bool, httpAddr string, tui bool) error {
	store := config.NewStore(settingsPath)
	settings, err := store.Load()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	log.Printf("settings: high=%d low=%d count=%d kerchunk=%d hold=%d frag=%d polarity=%s",
		settings.HighThreshold, settings.LowThreshold, settings.ReadingsCount,
		settings.KerchunkTime, settings.HoldTime, settings.FragmentationTime, polarityString(settings.ActiveLow))

	// Initialize ADC
	sampler, err := adc.NewRealReader(adcPath, adcMax)
	if err != nil {
		return fmt.Errorf("init adc: %w", err)
	}
	defer sampler.Close()

	// Print state mode
	if printState {
		sample, err := sampler.Read()
		if err != nil {
			return fmt.Errorf("read adc: %w", err)
		}
		fmt.Printf("sample: %d/%d (high=%d low=%d)\n", sample, adc.Span, settings.HighThreshold, settings.LowThreshold)
		return nil
	}

	// Initialize GPIO
	dev, err := gpio.NewRealIO(pins)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer dev.Close()

	// Initialize MQTT
	publisher := mqtt.NewRealPublisher(broker)
	defer publisher.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:        poll.Milliseconds(),
		HeartbeatMs:   heartbeat.Milliseconds(),
		MenuTimeoutMs: menuTimeout.Milliseconds(),
		Broker:        broker,
		HTTPAddr:      httpAddr,
		SettingsPath:  settingsPath,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if httpAddr != "" {
		srv := web.New(httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", httpAddr)
	}

	opts := loopOptions{menuTimeout: menuTimeout, heartbeat: heartbeat}
	if tui {
		ui, err := term.New()
		if err != nil {
			return fmt.Errorf("init terminal ui: %w", err)
		}
		defer ui.Close()
		// tcell owns the terminal now; interleaved log lines would corrupt it.
		log.SetOutput(io.Discard)
		defer log.SetOutput(os.Stderr)
		opts.ui = ui
		opts.presses = ui.Presses()
		opts.quit = ui.Quit()
	}

	log.Printf("started: poll=%v broker=%s heartbeat=%v settings=%s", poll, broker, heartbeat, settingsPath)

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	hw := hardware{buttons: dev, sampler: sampler, out: dev}
	return runLoop(hw, publisher, publisher, store, settings, opts, tracker, time.Now, ticker.C, sigCh)
}

// hardware groups the polled inputs and driven outputs.
type hardware struct {
	buttons gpio.Reader
	sampler adc.Reader
	out     gpio.Driver
}

type loopOptions struct {
	menuTimeout time.Duration
	heartbeat   time.Duration
	ui          *term.UI          // nil without -tui
	presses     <-chan term.Press // nil without -tui
	quit        <-chan struct{}   // nil without -tui
}

func runLoop(hw hardware, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, store *config.Store, settings config.Settings, opts loopOptions, tracker *status.Tracker, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	startTime := now()
	gate := logic.NewGate(startTime)
	ctl := menu.NewController(startTime)
	ctl.SetIdleTimeout(opts.menuTimeout)
	var buf logic.SampleBuffer

	// Drive the output to its idle level before the first sample.
	driveGate(hw.out, gate.OutputActive(), settings.ActiveLow)

	ledOn := false
	var lastRender time.Time
	var pending gpio.ButtonState // synthetic presses from the terminal UI

	shutdown := func(reason string) error {
		// Persist a menu session the operator never closed.
		if ctl.Mode() != menu.ModeMonitor {
			if err := store.Save(settings); err != nil {
				log.Printf("save settings on shutdown: %v", err)
			}
		}
		event := mqtt.SystemEvent{
			Timestamp: now(),
			Event:     "SHUTDOWN",
			Reason:    reason,
			Retained:  true,
		}
		if tracker != nil {
			if mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}
			snap := tracker.Snapshot()
			event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", reason)
		}
		if err := publisher.PublishSystem(event); err != nil {
			log.Printf("failed to publish shutdown event: %v", err)
		} else {
			log.Printf("published shutdown event")
		}
		return nil
	}

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			return shutdown(signalName)

		case <-opts.quit:
			log.Printf("terminal ui quit, shutting down")
			return shutdown("UI_QUIT")

		case p := <-opts.presses:
			// Held until the next tick so the press is seen exactly once.
			switch p {
			case term.PressMode:
				pending.Mode = true
			case term.PressUp:
				pending.Up = true
			case term.PressDown:
				pending.Down = true
			}

		case <-tick:
			t := now()

			buttons, err := hw.buttons.Read()
			if err != nil {
				log.Printf("button read error: %v", err)
				buttons = gpio.ButtonState{}
			}
			buttons.Mode = buttons.Mode || pending.Mode
			buttons.Up = buttons.Up || pending.Up
			buttons.Down = buttons.Down || pending.Down
			pending = gpio.ButtonState{}

			res := ctl.Step(&settings, menu.Buttons{Mode: buttons.Mode, Up: buttons.Up, Down: buttons.Down}, gate.OutputActive(), t)
			if res.ModeChanged {
				log.Printf("menu: %s", ctl.Mode())
			}
			if res.Save {
				if err := store.Save(settings); err != nil {
					log.Printf("save settings: %v", err)
				} else {
					log.Printf("settings saved")
				}
			}
			if res.Redrive {
				driveGate(hw.out, gate.OutputActive(), settings.ActiveLow)
			}

			sample, err := hw.sampler.Read()
			if err != nil {
				log.Printf("adc read error: %v", err)
				continue
			}
			buf.Push(sample)
			valid := buf.ValidCount(settings.ReadingsCount, settings.HighThreshold)

			events := gate.Step(gateParams(settings), logic.Input{Sample: sample, Valid: valid, Time: t})
			for _, event := range events {
				driveGate(hw.out, gate.OutputActive(), settings.ActiveLow)
				log.Printf("event: %s (state=%s sample=%d)", event.Type, event.To, event.Sample)
				if err := publisher.Publish(event); err != nil {
					log.Printf("publish error: %v", err)
					// Don't crash on publish failure
				}
			}

			// Status LED blinks at ~1 Hz while the gate is open.
			wantLED := gate.OutputActive() && (t.UnixMilli()/500)%2 == 0
			if wantLED != ledOn {
				ledOn = wantLED
				if err := hw.out.SetLED(ledOn); err != nil {
					log.Printf("led error: %v", err)
				}
			}

			// Check for heartbeat
			if hbData := gate.CheckHeartbeat(t, opts.heartbeat); hbData != nil {
				log.Printf("heartbeat: uptime=%v opens=%d closes=%d",
					hbData.Uptime, hbData.Counts.Opens, hbData.Counts.Closes)

				hbEvent := mqtt.SystemEvent{
					Timestamp: hbData.Timestamp,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					if mqttStatus != nil {
						tracker.SetMQTTConnected(mqttStatus.IsConnected())
					}
					// Refresh network info for heartbeat
					if net := readNetworkInfo(); net != nil {
						tracker.SetNetwork(net)
					}
					snap := tracker.Snapshot()
					hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}

			// Update status tracker for HTTP/UI consumers
			if tracker != nil {
				tracker.Update(status.GateStatus{
					State:        gate.State(),
					OutputActive: gate.OutputActive(),
					Sample:       sample,
					Valid:        valid,
					Mode:         ctl.Mode().Label(),
					Settings:     settings,
					Counts:       gate.EventCountsSnapshot(),
				})
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}

			if opts.ui != nil && t.Sub(lastRender) >= renderEvery {
				lastRender = t
				opts.ui.Render(tracker.Snapshot())
			}
		}
	}
}

// driveGate writes the physical level for the given logical output state,
// honoring the configured polarity.
func driveGate(out gpio.Driver, active, activeLow bool) {
	if err := out.SetGate(active != activeLow); err != nil {
		log.Printf("gate output error: %v", err)
	}
}

func gateParams(s config.Settings) logic.Params {
	return logic.Params{
		HighThreshold: s.HighThreshold,
		LowThreshold:  s.LowThreshold,
		ReadingsCount: s.ReadingsCount,
		Kerchunk:      s.KerchunkDuration(),
		Fragmentation: s.FragmentationDuration(),
		Hold:          s.HoldDuration(),
	}
}

func polarityString(activeLow bool) string {
	if activeLow {
		return "active-low"
	}
	return "active-high"
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}
