//go:build windows

package collector

import (
	"context"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"portwatch/internal/model"
)

var (
	iphlpapi                = windows.NewLazySystemDLL("iphlpapi.dll")
	procGetExtendedTcpTable = iphlpapi.NewProc("GetExtendedTcpTable")
	procGetExtendedUdpTable = iphlpapi.NewProc("GetExtendedUdpTable")

	psapi                    = windows.NewLazySystemDLL("psapi.dll")
	procGetModuleBaseNameW   = psapi.NewProc("GetModuleBaseNameW")
	procGetModuleFileNameExW = psapi.NewProc("GetModuleFileNameExW")
)

const (
	afInet  = 2
	afInet6 = 23

	tcpTableOwnerPIDAll = 5
	udpTableOwnerPID    = 1

	errInsufficientBuffer = 122
)

// tableSpec describes one protocol/address-family table query.
type tableSpec struct {
	name   string
	proc   *windows.LazyProc
	family uint32
	class  uint32
	udp    bool
	decode func([]byte) ([]tableRow, error)
}

func tableSpecs() []tableSpec {
	return []tableSpec{
		{"tcp4", procGetExtendedTcpTable, afInet, tcpTableOwnerPIDAll, false, decodeTCP4Table},
		{"tcp6", procGetExtendedTcpTable, afInet6, tcpTableOwnerPIDAll, false, decodeTCP6Table},
		{"udp4", procGetExtendedUdpTable, afInet, udpTableOwnerPID, true, decodeUDP4Table},
		{"udp6", procGetExtendedUdpTable, afInet6, udpTableOwnerPID, true, decodeUDP6Table},
	}
}

type windowsCollector struct{}

func newPlatformCollector() Collector {
	return &windowsCollector{}
}

func (c *windowsCollector) FetchPorts(ctx context.Context) ([]model.PortRecord, error) {
	procs := newProcessInfoCache()

	var records []model.PortRecord
	for _, spec := range tableSpecs() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := fetchTable(spec)
		if err != nil {
			return nil, err
		}
		records = append(records, recordsFromRows(rows, spec.udp, procs)...)
	}
	return records, nil
}

func (c *windowsCollector) KillProcess(pid int32, signal string) model.KillResult {
	h, err := windows.OpenProcess(windows.PROCESS_TERMINATE, false, uint32(pid))
	if err != nil {
		return model.KillResult{
			Success: false,
			Message: fmt.Sprintf("Failed to open process with PID %d: %v", pid, err),
		}
	}
	defer windows.CloseHandle(h)

	if err := windows.TerminateProcess(h, 1); err != nil {
		msg := err.Error()
		if err == windows.ERROR_ACCESS_DENIED {
			msg = "Access denied"
		}
		return model.KillResult{
			Success: false,
			Message: fmt.Sprintf("Failed to terminate process with PID %d: %s", pid, msg),
		}
	}
	return model.KillResult{
		Success: true,
		Message: fmt.Sprintf("Successfully killed process with PID %d", pid),
	}
}

func (c *windowsCollector) FindOwner(ctx context.Context, port uint16, excludePID int32) (*model.OwnerInfo, error) {
	procs := newProcessInfoCache()

	for _, spec := range tableSpecs() {
		if spec.udp {
			continue // only TCP listeners can host a port
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := fetchTable(spec)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			if row.state != tcpStateListen || row.localPort != port {
				continue
			}
			if int32(row.pid) == excludePID {
				return &model.OwnerInfo{State: model.StateHosting}, nil
			}
			name, path := procs.lookup(row.pid)
			return &model.OwnerInfo{
				State: model.StateUsing,
				Process: &model.ProcessIdentity{
					PID:         int32(row.pid),
					Port:        port,
					ProcessName: name,
					ProcessPath: path,
				},
			}, nil
		}
	}
	return nil, ErrOwnerNotFound
}

// fetchTable runs the two-phase buffer protocol for one table: a size query
// that must report ERROR_INSUFFICIENT_BUFFER, then the actual fetch into a
// buffer of that size. Any other result code is a hard failure.
func fetchTable(spec tableSpec) ([]tableRow, error) {
	var size uint32
	r0, _, _ := spec.proc.Call(
		0,
		uintptr(unsafe.Pointer(&size)),
		0,
		uintptr(spec.family),
		uintptr(spec.class),
		0,
	)
	if r0 != errInsufficientBuffer {
		return nil, fmt.Errorf("%w: %s: unexpected result %d", ErrBufferQuery, spec.name, r0)
	}
	if size == 0 {
		return nil, fmt.Errorf("%w: %s: zero buffer size", ErrBufferQuery, spec.name)
	}

	buf := make([]byte, size)
	r0, _, _ = spec.proc.Call(
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(unsafe.Pointer(&size)),
		0,
		uintptr(spec.family),
		uintptr(spec.class),
		0,
	)
	if r0 != 0 {
		return nil, fmt.Errorf("%w: %s: result %d", ErrBufferFetch, spec.name, r0)
	}

	return spec.decode(buf)
}

// recordsFromRows converts decoded rows to port records, deduplicating on
// (pid, port) within the table. UDP rows have no connection state and always
// classify as Using.
func recordsFromRows(rows []tableRow, udp bool, procs *processInfoCache) []model.PortRecord {
	type dedupKey struct {
		pid  uint32
		port uint16
	}
	seen := make(map[dedupKey]struct{})

	records := make([]model.PortRecord, 0, len(rows))
	for _, row := range rows {
		if _, dup := seen[dedupKey{row.pid, row.localPort}]; dup {
			continue
		}
		seen[dedupKey{row.pid, row.localPort}] = struct{}{}

		state := model.StateUsing
		if !udp && row.state == tcpStateListen {
			state = model.StateHosting
		}

		name, path := procs.lookup(row.pid)
		records = append(records, model.PortRecord{
			ID:          model.RecordID(int32(row.pid), row.localPort, ""),
			Port:        row.localPort,
			PID:         int32(row.pid),
			ProcessName: name,
			ProcessPath: path,
			State:       state,
		})
	}
	return records
}

// processInfoCache memoizes per-PID name/path lookups for one collection
// pass. A fresh cache is built each pass so reused PIDs never show stale
// identities.
type processInfoCache struct {
	entries map[uint32][2]string
}

func newProcessInfoCache() *processInfoCache {
	return &processInfoCache{entries: make(map[uint32][2]string)}
}

func (c *processInfoCache) lookup(pid uint32) (name, path string) {
	if e, ok := c.entries[pid]; ok {
		return e[0], e[1]
	}
	name, path = queryProcessInfo(pid)
	c.entries[pid] = [2]string{name, path}
	return name, path
}

// queryProcessInfo resolves a PID's module base name and full path through a
// limited-access process handle. Failure substitutes Unknown/Unknown rather
// than dropping the record.
func queryProcessInfo(pid uint32) (string, string) {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_INFORMATION|windows.PROCESS_VM_READ, false, pid)
	if err != nil {
		return model.NameUnknown, model.PathUnknown
	}
	defer windows.CloseHandle(h)

	name := model.NameUnknown
	nameBuf := make([]uint16, 256)
	n, _, _ := procGetModuleBaseNameW.Call(
		uintptr(h),
		0,
		uintptr(unsafe.Pointer(&nameBuf[0])),
		uintptr(len(nameBuf)),
	)
	if n > 0 {
		name = windows.UTF16ToString(nameBuf[:n])
	}

	path := model.PathUnknown
	pathBuf := make([]uint16, 1024)
	n, _, _ = procGetModuleFileNameExW.Call(
		uintptr(h),
		0,
		uintptr(unsafe.Pointer(&pathBuf[0])),
		uintptr(len(pathBuf)),
	)
	if n > 0 {
		path = windows.UTF16ToString(pathBuf[:n])
	}

	return name, path
}
