package gpio

import (
	"errors"
	"testing"
)

func TestFakeIOSequence(t *testing.T) {
	samples := []ButtonState{
		{},
		{Mode: true},
		{Up: true, Down: true},
	}
	f := NewFakeIO(samples)

	for i, want := range samples {
		got, err := f.Read()
		if err != nil {
			t.Fatalf("Read() error: %v", err)
		}
		if got != want {
			t.Errorf("sample %d: Read() = %+v, want %+v", i, got, want)
		}
	}
}

func TestFakeIORepeatsLastSample(t *testing.T) {
	f := NewFakeIO([]ButtonState{{}, {Up: true}})

	f.Read()
	f.Read()
	got, err := f.Read()
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if !got.Up {
		t.Errorf("exhausted Read() = %+v, want Up held", got)
	}
}

func TestFakeIORecordsOutputs(t *testing.T) {
	f := NewFakeIO([]ButtonState{{}})

	if _, ok := f.LastGate(); ok {
		t.Error("LastGate must report ok=false before any write")
	}

	f.SetGate(true)
	f.SetGate(false)
	f.SetLED(true)

	if len(f.GateLevels) != 2 || f.GateLevels[0] != true || f.GateLevels[1] != false {
		t.Errorf("GateLevels = %v, want [true false]", f.GateLevels)
	}
	if high, ok := f.LastGate(); !ok || high {
		t.Errorf("LastGate() = %v, %v, want false, true", high, ok)
	}
	if len(f.LEDLevels) != 1 || !f.LEDLevels[0] {
		t.Errorf("LEDLevels = %v, want [true]", f.LEDLevels)
	}
}

func TestFakeIOErrors(t *testing.T) {
	f := NewFakeIO([]ButtonState{{}})
	f.ReadError = errors.New("chip gone")
	if _, err := f.Read(); err == nil {
		t.Error("expected configured read error")
	}

	f.ReadError = nil
	f.GateError = errors.New("line busy")
	if err := f.SetGate(true); err == nil {
		t.Error("expected configured gate error")
	}
	if len(f.GateLevels) != 0 {
		t.Error("failed SetGate must not record a level")
	}
}

func TestFakeIOReset(t *testing.T) {
	f := NewFakeIO([]ButtonState{{Mode: true}, {}})
	f.Read()
	f.SetGate(true)
	f.SetLED(true)
	f.Close()

	f.Reset()
	if f.Closed || f.GateLevels != nil || f.LEDLevels != nil {
		t.Error("Reset must clear recorded state")
	}
	got, _ := f.Read()
	if !got.Mode {
		t.Errorf("Read() after Reset = %+v, want Mode pressed", got)
	}
}
