package collector

import "errors"

// Fatal collection errors. Per-record resolution failures are not errors;
// they degrade to the sentinel values in the model package.
var (
	// ErrCommandExecution means the diagnostic subprocess could not be run.
	ErrCommandExecution = errors.New("command execution failed")
	// ErrCommandExit means the diagnostic subprocess exited non-zero.
	ErrCommandExit = errors.New("command exited with non-zero status")
	// ErrBufferQuery means the OS table size query returned an unexpected code.
	ErrBufferQuery = errors.New("table size query failed")
	// ErrBufferFetch means the OS table fetch returned an unexpected code.
	ErrBufferFetch = errors.New("table fetch failed")
	// ErrOwnerNotFound means no process is listening on the queried port.
	ErrOwnerNotFound = errors.New("no listening process found on port")
)
