package ui

import (
	"context"

	"portwatch/internal/docker"
	"portwatch/internal/model"
)

// mockCollector is a test double for collector.Collector.
type mockCollector struct {
	records []model.PortRecord
	err     error

	killResult model.KillResult
	killedPID  int32
	killedSig  string

	owner    *model.OwnerInfo
	ownerErr error
}

func (m *mockCollector) FetchPorts(ctx context.Context) ([]model.PortRecord, error) {
	return m.records, m.err
}

func (m *mockCollector) KillProcess(pid int32, signal string) model.KillResult {
	m.killedPID = pid
	m.killedSig = signal
	return m.killResult
}

func (m *mockCollector) FindOwner(ctx context.Context, port uint16, excludePID int32) (*model.OwnerInfo, error) {
	return m.owner, m.ownerErr
}

// mockResolver is a test double for docker.Resolver.
type mockResolver struct {
	ports map[uint16]*docker.ContainerPort
	err   error
}

func (m *mockResolver) Resolve(ctx context.Context) (map[uint16]*docker.ContainerPort, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.ports, nil
}
