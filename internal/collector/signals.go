package collector

import (
	"strings"
	"syscall"
)

// signalMap maps signal names to syscall.Signal values.
// Supports full names (SIGTERM), short names (TERM) and common numerics.
var signalMap = map[string]syscall.Signal{
	"SIGTERM": syscall.SIGTERM,
	"SIGKILL": syscall.SIGKILL,
	"SIGHUP":  syscall.SIGHUP,
	"SIGINT":  syscall.SIGINT,
	"SIGQUIT": syscall.SIGQUIT,
	"TERM":    syscall.SIGTERM,
	"KILL":    syscall.SIGKILL,
	"HUP":     syscall.SIGHUP,
	"INT":     syscall.SIGINT,
	"QUIT":    syscall.SIGQUIT,
	"9":       syscall.SIGKILL,
	"15":      syscall.SIGTERM,
}

// LookupSignal resolves a signal name, case-insensitively.
func LookupSignal(name string) (syscall.Signal, bool) {
	sig, ok := signalMap[strings.ToUpper(name)]
	return sig, ok
}
