//go:build linux || darwin

package collector

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"
	"syscall"

	"github.com/shirou/gopsutil/v3/process"

	"portwatch/internal/model"
)

type unixCollector struct{}

func newPlatformCollector() Collector {
	return &unixCollector{}
}

func (c *unixCollector) FetchPorts(ctx context.Context) ([]model.PortRecord, error) {
	out, err := runLsof(ctx, "-i", "-P", "-n")
	if err != nil {
		return nil, err
	}
	return parsePortList(ctx, out, resolveProcessPath), nil
}

func (c *unixCollector) KillProcess(pid int32, signal string) model.KillResult {
	sig, ok := LookupSignal(signal)
	if !ok {
		return model.KillResult{
			Success: false,
			Message: fmt.Sprintf("Unknown signal: %s", signal),
		}
	}

	if err := syscall.Kill(int(pid), sig); err != nil {
		return model.KillResult{
			Success: false,
			Message: fmt.Sprintf("Failed to kill process %d: %v", pid, err),
		}
	}
	return model.KillResult{
		Success: true,
		Message: fmt.Sprintf("Successfully killed process with PID %d", pid),
	}
}

func (c *unixCollector) FindOwner(ctx context.Context, port uint16, excludePID int32) (*model.OwnerInfo, error) {
	out, err := runLsof(ctx, "-i", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, err
	}
	return parseOwner(ctx, out, port, excludePID, resolveProcessIdentity)
}

// runLsof executes lsof with the given arguments, mapping launch and exit
// failures onto the collector error taxonomy.
func runLsof(ctx context.Context, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, "lsof", args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			stderr := strings.TrimSpace(string(exitErr.Stderr))
			return "", fmt.Errorf("%w: lsof: %s", ErrCommandExit, stderr)
		}
		return "", fmt.Errorf("%w: lsof: %v", ErrCommandExecution, err)
	}
	return string(out), nil
}

// resolveProcessPath reads the executable path through the process
// filesystem. Failures classify to sentinels instead of leaking raw OS
// error text into the record.
func resolveProcessPath(ctx context.Context, pid int32) string {
	proc, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return model.PathNotFound
	}
	exe, err := proc.ExeWithContext(ctx)
	if err != nil {
		return classifyPathError(err)
	}
	return exe
}

func classifyPathError(err error) string {
	switch {
	case errors.Is(err, fs.ErrPermission):
		return model.PathPermissionDenied
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, process.ErrorProcessNotRunning):
		return model.PathNotFound
	default:
		return model.PathUnknown
	}
}

func resolveProcessIdentity(ctx context.Context, pid int32, port uint16) *model.ProcessIdentity {
	proc, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return nil
	}
	name, err := proc.NameWithContext(ctx)
	if err != nil {
		return nil
	}
	exe, err := proc.ExeWithContext(ctx)
	if err != nil {
		exe = classifyPathError(err)
	}
	return &model.ProcessIdentity{
		PID:         pid,
		Port:        port,
		ProcessName: name,
		ProcessPath: exe,
	}
}
