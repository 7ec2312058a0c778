// Package term renders the live gate status in the terminal and turns key
// presses into synthetic button presses, so the menu can be driven without
// physical buttons (the -tui flag).
package term

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell"

	"github.com/sweeney/signal-gate/internal/status"
)

// Press identifies a synthetic button press from the keyboard.
type Press int

const (
	PressMode Press = iota
	PressUp
	PressDown
)

// UI owns the tcell screen and the key event loop.
type UI struct {
	screen  tcell.Screen
	presses chan Press
	quit    chan struct{}
	once    sync.Once
}

// New creates a UI on the real terminal and starts the key loop.
func New() (*UI, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("term: create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("term: init screen: %w", err)
	}
	return NewWithScreen(screen), nil
}

// NewWithScreen wraps an already-initialized screen. Tests pass a
// tcell.SimulationScreen.
func NewWithScreen(screen tcell.Screen) *UI {
	u := &UI{
		screen:  screen,
		presses: make(chan Press, 8),
		quit:    make(chan struct{}),
	}
	go u.pollKeys()
	return u
}

// Presses returns the synthetic button press channel. The run loop folds
// each press into the next poll's button levels.
func (u *UI) Presses() <-chan Press {
	return u.presses
}

// Quit is closed when the user asks to exit (Esc, q, or Ctrl-C).
func (u *UI) Quit() <-chan struct{} {
	return u.quit
}

func (u *UI) pollKeys() {
	for {
		ev := u.screen.PollEvent()
		if ev == nil {
			// Screen finalized.
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			u.handleKey(ev)
		case *tcell.EventResize:
			u.screen.Sync()
		}
	}
}

func (u *UI) handleKey(ev *tcell.EventKey) {
	switch {
	case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q':
		u.once.Do(func() { close(u.quit) })
	case ev.Key() == tcell.KeyUp || ev.Rune() == '+':
		u.press(PressUp)
	case ev.Key() == tcell.KeyDown || ev.Rune() == '-':
		u.press(PressDown)
	case ev.Key() == tcell.KeyRight || ev.Rune() == 'm':
		u.press(PressMode)
	}
}

// press is non-blocking: if the run loop has fallen behind, dropping a key is
// better than stalling the key loop.
func (u *UI) press(p Press) {
	select {
	case u.presses <- p:
	default:
	}
}

// Render draws the snapshot. Called from the run loop at the display refresh
// rate, never concurrently.
func (u *UI) Render(snap status.Snapshot) {
	u.screen.Clear()

	style := tcell.StyleDefault
	bold := style.Bold(true)

	output := "CLOSED"
	outStyle := style.Foreground(tcell.ColorGray)
	if snap.Gate.OutputActive {
		output = "OPEN"
		outStyle = style.Foreground(tcell.ColorGreen).Bold(true)
	}

	u.drawText(0, 0, bold, "signal-gate")
	u.drawText(0, 1, style, fmt.Sprintf("mode: %s", snap.Gate.Mode))
	u.drawText(0, 3, outStyle, fmt.Sprintf("gate %s (%s)", output, snap.Gate.State))
	u.drawText(0, 4, style, fmt.Sprintf("sample %4d / 5000   valid %d/%d",
		snap.Gate.Sample, snap.Gate.Valid, snap.Gate.Settings.ReadingsCount))

	s := snap.Gate.Settings
	u.drawText(0, 6, bold, "settings")
	u.drawText(0, 7, style, fmt.Sprintf("  high threshold     %4d", s.HighThreshold))
	u.drawText(0, 8, style, fmt.Sprintf("  low threshold      %4d", s.LowThreshold))
	u.drawText(0, 9, style, fmt.Sprintf("  readings count     %4d", s.ReadingsCount))
	u.drawText(0, 10, style, fmt.Sprintf("  kerchunk timer     %4d (%dms)", s.KerchunkTime, s.KerchunkTime*10))
	u.drawText(0, 11, style, fmt.Sprintf("  hold time          %4d (%dms)", s.HoldTime, s.HoldTime*10))
	u.drawText(0, 12, style, fmt.Sprintf("  fragmentation time %4d (%dms)", s.FragmentationTime, s.FragmentationTime*10))
	polarity := "active-high"
	if s.ActiveLow {
		polarity = "active-low"
	}
	u.drawText(0, 13, style, fmt.Sprintf("  output level       %s", polarity))

	u.drawText(0, 15, style, fmt.Sprintf("opened %d  closed %d", snap.Gate.Counts.Opens, snap.Gate.Counts.Closes))

	mqttState := "disconnected"
	if snap.MQTTConnected {
		mqttState = "connected"
	}
	u.drawText(0, 16, style, fmt.Sprintf("mqtt %s (%s)", mqttState, snap.Config.Broker))

	u.drawText(0, 18, style.Foreground(tcell.ColorGray), "keys: m/right = mode, +/up = increase, -/down = decrease, q = quit")

	u.screen.Show()
}

func (u *UI) drawText(x, y int, style tcell.Style, text string) {
	for i, r := range text {
		u.screen.SetContent(x+i, y, r, nil, style)
	}
}

// Close tears the screen down and stops the key loop.
func (u *UI) Close() {
	u.screen.Fini()
}
