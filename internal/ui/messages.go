package ui

import (
	"time"

	"portwatch/internal/docker"
	"portwatch/internal/model"
)

// TickMsg is sent on each refresh interval.
type TickMsg time.Time

// DataMsg contains a freshly collected port snapshot.
type DataMsg struct {
	Records []model.PortRecord
	Err     error
}

// DockerMsg contains the host-port → container mapping.
type DockerMsg struct {
	Ports map[uint16]*docker.ContainerPort
	Err   error
}

// OwnerMsg contains the result of an owner lookup for a port.
type OwnerMsg struct {
	Port  uint16
	Owner *model.OwnerInfo
	Err   error
}

// ExportMsg contains the result of a snapshot or change-log export.
type ExportMsg struct {
	Path string
	Err  error
}

// ReleaseMsg carries the latest release tag when an update is available.
type ReleaseMsg struct {
	Tag string
}
