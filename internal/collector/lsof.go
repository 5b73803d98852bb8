package collector

import (
	"context"
	"strconv"
	"strings"

	"portwatch/internal/model"
)

// lsof -i -P -n output:
//
//	COMMAND PID USER FD TYPE DEVICE SIZE/OFF NODE NAME [STATE]
//
// The parser is line-oriented and tolerant: malformed lines are skipped,
// never fatal to the scan.
const lsofMinColumns = 9

// pathResolver resolves a PID's executable path, returning a sentinel value
// on failure. Injected so parsing can be tested without a live system.
type pathResolver func(ctx context.Context, pid int32) string

// identityResolver resolves a PID's full identity for owner lookups.
// Returns nil when the process cannot be inspected.
type identityResolver func(ctx context.Context, pid int32, port uint16) *model.ProcessIdentity

// parsePortList turns raw lsof output into deduplicated port records.
// Records with the same (pid, port) collapse to the first occurrence.
func parsePortList(ctx context.Context, output string, resolve pathResolver) []model.PortRecord {
	type dedupKey struct {
		pid  int32
		port uint16
	}
	seen := make(map[dedupKey]struct{})
	var records []model.PortRecord

	lines := strings.Split(output, "\n")
	for i, line := range lines {
		if i == 0 && strings.HasPrefix(line, "COMMAND") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < lsofMinColumns {
			continue
		}

		pid64, err := strconv.ParseInt(parts[1], 10, 32)
		if err != nil {
			continue
		}
		pid := int32(pid64)

		port := portFromAddr(parts[8])

		if _, dup := seen[dedupKey{pid, port}]; dup {
			continue
		}
		seen[dedupKey{pid, port}] = struct{}{}

		state := model.StateUsing
		if len(parts) > lsofMinColumns && strings.Contains(parts[lsofMinColumns], "LISTEN") {
			state = model.StateHosting
		}

		name := parts[0]
		records = append(records, model.PortRecord{
			ID:          model.RecordID(pid, port, name),
			Port:        port,
			PID:         pid,
			ProcessName: name,
			ProcessPath: resolve(ctx, pid),
			State:       state,
		})
	}

	return records
}

// parseOwner scans `lsof -i :port` output for the listener on port.
// A listener matching excludePID answers Hosting with no peer data; any
// other listener answers Using with that process's identity.
func parseOwner(ctx context.Context, output string, port uint16, excludePID int32, resolve identityResolver) (*model.OwnerInfo, error) {
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < lsofMinColumns+1 {
			continue
		}
		if !strings.Contains(fields[lsofMinColumns], "LISTEN") {
			continue
		}

		pid64, err := strconv.ParseInt(fields[1], 10, 32)
		if err != nil {
			continue
		}
		pid := int32(pid64)

		if portFromAddr(fields[8]) != port {
			continue
		}

		if pid == excludePID {
			return &model.OwnerInfo{State: model.StateHosting}, nil
		}
		if identity := resolve(ctx, pid, port); identity != nil {
			return &model.OwnerInfo{State: model.StateUsing, Process: identity}, nil
		}
	}
	return nil, ErrOwnerNotFound
}

// portFromAddr extracts the numeric port from an lsof NAME column value like
// "127.0.0.1:8080", "[::1]:443" or "*:68". Unparseable ports map to 0, which
// keeps wildcard rows in the scan rather than dropping them.
func portFromAddr(addr string) uint16 {
	idx := strings.LastIndex(addr, ":")
	if idx < 0 {
		return 0
	}
	port, err := strconv.ParseUint(addr[idx+1:], 10, 16)
	if err != nil {
		return 0
	}
	return uint16(port)
}
