package model

import (
	"fmt"
	"hash/fnv"
	"time"
)

// PortState classifies how a process relates to a port.
type PortState string

const (
	// StateHosting means the process is listening/bound on the port.
	StateHosting PortState = "Hosting"
	// StateUsing means the process holds a non-listening socket on the port.
	StateUsing PortState = "Using"
)

// Sentinel values substituted when per-process introspection fails.
// Collection never aborts because one PID could not be resolved.
const (
	NameUnknown          = "Unknown"
	PathUnknown          = "Unknown"
	PathPermissionDenied = "Permission Denied"
	PathNotFound         = "Process not found"
)

// PortRecord is one observed port/process binding. Records are built fresh
// on every collection pass and never mutated in place.
type PortRecord struct {
	ID          string    `json:"id" yaml:"id"`
	Port        uint16    `json:"port" yaml:"port"`
	PID         int32     `json:"pid" yaml:"pid"`
	ProcessName string    `json:"process_name" yaml:"process_name"`
	ProcessPath string    `json:"process_path" yaml:"process_path"`
	State       PortState `json:"port_state" yaml:"port_state"`
}

// RecordID derives the deduplication key for a record. Passing the process
// name folds it into the hash (Unix collector); an empty name hashes only
// (pid, port) (Windows collector).
func RecordID(pid int32, port uint16, processName string) string {
	h := fnv.New64a()
	var buf [6]byte
	buf[0] = byte(pid)
	buf[1] = byte(pid >> 8)
	buf[2] = byte(pid >> 16)
	buf[3] = byte(pid >> 24)
	buf[4] = byte(port)
	buf[5] = byte(port >> 8)
	_, _ = h.Write(buf[:])
	if processName != "" {
		_, _ = h.Write([]byte(processName))
	}
	return fmt.Sprintf("%x", h.Sum64())
}

// StateFromConnState maps an OS-reported TCP connection state to a PortState.
// Only LISTEN means Hosting; everything else, including the empty state UDP
// reports, is Using.
func StateFromConnState(state string) PortState {
	if state == "LISTEN" {
		return StateHosting
	}
	return StateUsing
}

// RefArray returns the record's display columns in table order.
func (r PortRecord) RefArray() []string {
	return []string{
		fmt.Sprintf("%d", r.Port),
		fmt.Sprintf("%d", r.PID),
		r.ProcessName,
		r.ProcessPath,
		string(r.State),
	}
}

// KillResult describes the outcome of a kill attempt in human-readable form.
type KillResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ProcessIdentity identifies a process observed on a port.
type ProcessIdentity struct {
	PID         int32  `json:"pid"`
	Port        uint16 `json:"port"`
	ProcessName string `json:"process_name"`
	ProcessPath string `json:"process_path"`
}

// OwnerInfo answers "who is using this port": either the queried record is
// itself the listener (Hosting, no peer data), or another process holds the
// port (Using, with its identity).
type OwnerInfo struct {
	State   PortState        `json:"port_state"`
	Process *ProcessIdentity `json:"data,omitempty"`
}

// EventType discriminates the entries of a tracking event log.
type EventType string

const (
	EventInitialState EventType = "initial_state"
	EventPortOpened   EventType = "port_opened"
	EventPortClosed   EventType = "port_closed"
)

// PortEvent is one append-only entry in the change log. InitialState events
// carry the full baseline in Ports; open/close events carry a single record
// in Port.
type PortEvent struct {
	Type      EventType    `json:"event" yaml:"event"`
	Timestamp time.Time    `json:"timestamp" yaml:"timestamp"`
	Ports     []PortRecord `json:"ports,omitempty" yaml:"ports,omitempty"`
	Port      *PortRecord  `json:"port,omitempty" yaml:"port,omitempty"`
}
