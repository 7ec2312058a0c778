package mqtt

import (
	"fmt"
	"testing"
)

func msg(i int) queuedMsg {
	return queuedMsg{topic: Topic, payload: []byte(fmt.Sprintf("m%d", i)), qos: 0}
}

func TestRingBufferPushDrain(t *testing.T) {
	r := newRingBuffer(4)

	for i := 0; i < 3; i++ {
		if dropped := r.push(msg(i)); dropped {
			t.Errorf("push %d dropped with room left", i)
		}
	}
	if r.len() != 3 {
		t.Errorf("len() = %d, want 3", r.len())
	}

	out := r.drainAll()
	if len(out) != 3 {
		t.Fatalf("drained %d messages, want 3", len(out))
	}
	for i, m := range out {
		if string(m.payload) != fmt.Sprintf("m%d", i) {
			t.Errorf("message %d payload = %s", i, m.payload)
		}
	}
	if r.len() != 0 {
		t.Errorf("len() after drain = %d, want 0", r.len())
	}
}

func TestRingBufferOverflowDropsOldest(t *testing.T) {
	r := newRingBuffer(3)

	for i := 0; i < 3; i++ {
		r.push(msg(i))
	}
	if dropped := r.push(msg(3)); !dropped {
		t.Error("push into a full buffer must report a drop")
	}
	if r.len() != 3 {
		t.Errorf("len() = %d, want 3", r.len())
	}

	out := r.drainAll()
	want := []string{"m1", "m2", "m3"}
	for i, m := range out {
		if string(m.payload) != want[i] {
			t.Errorf("message %d payload = %s, want %s", i, m.payload, want[i])
		}
	}
}

func TestRingBufferDrainEmpty(t *testing.T) {
	r := newRingBuffer(2)
	if out := r.drainAll(); out != nil {
		t.Errorf("drainAll() on empty buffer = %v, want nil", out)
	}
}

func TestRingBufferReuseAfterDrain(t *testing.T) {
	r := newRingBuffer(2)
	r.push(msg(0))
	r.drainAll()

	r.push(msg(1))
	r.push(msg(2))
	out := r.drainAll()
	if len(out) != 2 || string(out[0].payload) != "m1" || string(out[1].payload) != "m2" {
		t.Errorf("unexpected drain after reuse: %v", out)
	}
}
