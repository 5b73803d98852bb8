package ui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"portwatch/internal/docker"
)

// enterKillMode sets up kill mode with the currently selected target.
func (m Model) enterKillMode(signal string) (tea.Model, tea.Cmd) {
	rec, ok := m.selectedRecord()
	if !ok {
		return m, nil
	}

	target := &killTargetInfo{
		PID:         rec.PID,
		Port:        rec.Port,
		ProcessName: rec.ProcessName,
		Path:        rec.ProcessPath,
		Signal:      signal,
	}

	// Published container ports are stopped through the Docker daemon
	// instead of signalling the proxy process.
	if m.settings.DockerContainers && docker.IsDockerProcess(rec.ProcessName) {
		if cp, found := m.dockerPorts[rec.Port]; found {
			target.ProcessName = cp.Container.Name
			target.Path = cp.Container.Image
			target.ContainerID = cp.Container.ID
		}
	}

	m.killMode = true
	m.killTarget = target
	return m, nil
}

// finishKill sets common fields after kill execution.
func (m *Model) finishKill() {
	m.killMode = false
	m.killResultAt = time.Now()
	m.killTarget = nil
}

// executeKill sends the signal to the target process or stops a Docker container.
func (m Model) executeKill() (tea.Model, tea.Cmd) {
	if m.killTarget == nil {
		m.killMode = false
		return m, nil
	}

	// Docker container stop/kill
	if m.killTarget.ContainerID != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var err error
		if m.killTarget.Signal == "SIGKILL" {
			err = docker.KillContainer(ctx, m.killTarget.ContainerID)
		} else {
			err = docker.StopContainer(ctx, m.killTarget.ContainerID, 10)
		}
		if err != nil {
			m.killResult = fmt.Sprintf("Failed to stop container %s: %v", m.killTarget.ContainerID, err)
		} else {
			m.killResult = fmt.Sprintf("Stopped container %s", m.killTarget.ContainerID)
			m.log.Info().Str("container", m.killTarget.ContainerID).Msg("container stopped")
		}
		m.finishKill()
		return m, nil
	}

	result := m.collector.KillProcess(m.killTarget.PID, m.killTarget.Signal)
	if result.Success {
		m.killResult = fmt.Sprintf("Killed PID %d (%s)", m.killTarget.PID, m.killTarget.ProcessName)
		m.log.Info().Int32("pid", m.killTarget.PID).Str("signal", m.killTarget.Signal).Msg("process killed")
	} else {
		m.killResult = fmt.Sprintf("Failed to kill PID %d: %s", m.killTarget.PID, result.Message)
		m.log.Warn().Int32("pid", m.killTarget.PID).Str("reason", result.Message).Msg("kill failed")
	}

	m.finishKill()
	return m, nil
}
