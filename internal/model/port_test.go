package model

import (
	"testing"
	"time"
)

func TestRecordID_Deterministic(t *testing.T) {
	a := RecordID(100, 8080, "nginx")
	b := RecordID(100, 8080, "nginx")
	if a != b {
		t.Errorf("same inputs produced different IDs: %s vs %s", a, b)
	}
}

func TestRecordID_DistinguishesInputs(t *testing.T) {
	base := RecordID(100, 8080, "nginx")

	if RecordID(101, 8080, "nginx") == base {
		t.Error("different PID should produce different ID")
	}
	if RecordID(100, 8081, "nginx") == base {
		t.Error("different port should produce different ID")
	}
	if RecordID(100, 8080, "apache") == base {
		t.Error("different process name should produce different ID")
	}
}

func TestRecordID_EmptyNameOmitsName(t *testing.T) {
	// The Windows collector hashes only (pid, port).
	withName := RecordID(100, 8080, "nginx")
	withoutName := RecordID(100, 8080, "")
	if withName == withoutName {
		t.Error("empty name should hash differently from a named record")
	}
	if RecordID(100, 8080, "") != RecordID(100, 8080, "") {
		t.Error("nameless ID should still be deterministic")
	}
}

func TestStateFromConnState(t *testing.T) {
	tests := []struct {
		state string
		want  PortState
	}{
		{"LISTEN", StateHosting},
		{"ESTABLISHED", StateUsing},
		{"TIME_WAIT", StateUsing},
		{"CLOSE_WAIT", StateUsing},
		{"SYN_SENT", StateUsing},
		{"", StateUsing}, // UDP rows have no state
	}
	for _, tt := range tests {
		if got := StateFromConnState(tt.state); got != tt.want {
			t.Errorf("StateFromConnState(%q) = %v, want %v", tt.state, got, tt.want)
		}
	}
}

func TestPortRecord_RefArray(t *testing.T) {
	r := PortRecord{
		Port:        443,
		PID:         1234,
		ProcessName: "nginx",
		ProcessPath: "/usr/sbin/nginx",
		State:       StateHosting,
	}
	got := r.RefArray()
	want := []string{"443", "1234", "nginx", "/usr/sbin/nginx", "Hosting"}
	if len(got) != len(want) {
		t.Fatalf("RefArray returned %d columns, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPortRecord_Comparable(t *testing.T) {
	// The tracker keys diff sets on full-record equality; records must be
	// usable as map keys.
	a := PortRecord{ID: "x", Port: 80, PID: 1, ProcessName: "a", ProcessPath: "/a", State: StateHosting}
	b := PortRecord{ID: "x", Port: 80, PID: 1, ProcessName: "a", ProcessPath: "/a", State: StateHosting}

	set := map[PortRecord]struct{}{a: {}}
	if _, ok := set[b]; !ok {
		t.Error("identical records should collapse to one set entry")
	}
}

func TestPortEvent_Shape(t *testing.T) {
	rec := PortRecord{Port: 80, PID: 1}
	ev := PortEvent{Type: EventPortOpened, Timestamp: time.Now(), Port: &rec}
	if ev.Type != "port_opened" {
		t.Errorf("EventPortOpened = %q, want port_opened", ev.Type)
	}
	if EventInitialState != "initial_state" || EventPortClosed != "port_closed" {
		t.Error("event type wire names changed")
	}
}
