package collector

import (
	"context"

	"portwatch/internal/model"
)

// Collector is the interface for observing port/process bindings.
// Implementations are platform-specific; exactly one is compiled per target.
type Collector interface {
	// FetchPorts returns the full current set of port/process bindings.
	// Per-record resolution failures degrade to sentinel field values;
	// only command or OS table failures produce an error.
	FetchPorts(ctx context.Context) ([]model.PortRecord, error)

	// KillProcess sends the named signal (SIGTERM, SIGKILL, ...) to a PID.
	// The outcome is always a structured result, never an error, so the UI
	// can display the exact OS-reported reason.
	KillProcess(pid int32, signal string) model.KillResult

	// FindOwner reports who is using a port. If the listener is excludePID
	// the result is Hosting with no peer data; otherwise the listening
	// process's identity is returned with state Using.
	FindOwner(ctx context.Context, port uint16, excludePID int32) (*model.OwnerInfo, error)
}

// New returns the Collector for the current platform.
func New() Collector {
	return newPlatformCollector()
}
