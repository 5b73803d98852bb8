package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"portwatch/internal/export"
	"portwatch/internal/model"
	"portwatch/internal/release"
)

// Layout constants for fixed header/footer with scrollable content.
const (
	headerHeight = 3 // double-line box header (top border + content + bottom border)
	footerHeight = 2 // status line + keybindings
	frameHeight  = 3 // table frame borders + column header
)

// highlightTTL controls how long a freshly opened port stays highlighted.
const highlightTTL = 3 * time.Second

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.tickCmd(),
		m.fetchPorts(),
		checkReleaseCmd(),
	}
	if m.settings.DockerContainers {
		cmds = append(cmds, m.fetchDocker())
	}
	return tea.Batch(cmds...)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		viewportHeight := msg.Height - headerHeight - footerHeight - frameHeight
		if viewportHeight < 1 {
			viewportHeight = 1
		}
		viewportWidth := msg.Width - 4
		if viewportWidth < 1 {
			viewportWidth = 1
		}

		if !m.ready {
			m.viewport = viewport.New(viewportWidth, viewportHeight)
			m.ready = true
		} else {
			m.viewport.Width = viewportWidth
			m.viewport.Height = viewportHeight
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		// Schedule next tick and fetch new data
		cmds := []tea.Cmd{m.tickCmd(), m.fetchPorts()}
		if m.settings.DockerContainers {
			cmds = append(cmds, m.fetchDocker())
		}
		return m, tea.Batch(cmds...)

	case DataMsg:
		if msg.Err != nil {
			// Keep the previous snapshot; surface the error in the header
			m.lastError = msg.Err
			m.lastErrorTime = time.Now()
			m.log.Warn().Err(msg.Err).Msg("port fetch failed")
			return m, nil
		}
		m.lastError = nil
		m.markNewRecords(msg.Records)
		m.records = msg.Records
		m.tracker.TrackOnce(msg.Records)
		m.clampCursor()
		return m, nil

	case DockerMsg:
		if msg.Err == nil {
			m.dockerPorts = msg.Ports
		}
		return m, nil

	case OwnerMsg:
		m.ownerStatusAt = time.Now()
		switch {
		case msg.Err != nil:
			m.ownerStatus = fmt.Sprintf("Port %d: %v", msg.Port, msg.Err)
		case msg.Owner.State == model.StateHosting:
			m.ownerStatus = fmt.Sprintf("Port %d: hosted by the selected process", msg.Port)
		case msg.Owner.Process != nil:
			m.ownerStatus = fmt.Sprintf("Port %d: used by %s (PID %d)",
				msg.Port, msg.Owner.Process.ProcessName, msg.Owner.Process.PID)
		default:
			m.ownerStatus = fmt.Sprintf("Port %d: in use", msg.Port)
		}
		return m, nil

	case ExportMsg:
		m.killResultAt = time.Now()
		if msg.Err != nil {
			m.killResult = fmt.Sprintf("Export failed: %v", msg.Err)
			m.log.Warn().Err(msg.Err).Msg("export failed")
		} else {
			m.killResult = fmt.Sprintf("Exported to %s", msg.Path)
			m.log.Info().Str("path", msg.Path).Msg("snapshot exported")
		}
		return m, nil

	case ReleaseMsg:
		m.updateAvailable = msg.Tag
		return m, nil
	}

	return m, nil
}

// handleKey dispatches key presses according to the current mode.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Kill mode intercepts all keys
	if m.killMode {
		switch key {
		case "y", "Y", "enter":
			return m.executeKill()
		case "n", "N", "esc":
			m.killMode = false
			m.killTarget = nil
			return m, nil
		}
		return m, nil
	}

	// Help mode: any key closes
	if m.helpMode {
		m.helpMode = false
		return m, nil
	}

	// Search mode intercepts all keys
	if m.searchMode {
		switch key {
		case "enter":
			m.activeFilter = m.searchQuery
			m.searchMode = false
			m.clampCursor()
			return m, nil
		case "esc":
			m.searchQuery = m.activeFilter // revert to confirmed
			m.searchMode = false
			return m, nil
		case "backspace":
			if len(m.searchQuery) > 0 {
				m.searchQuery = m.searchQuery[:len(m.searchQuery)-1]
			}
			return m, nil
		default:
			r := msg.Runes
			if len(r) == 1 && r[0] >= 32 {
				m.searchQuery += string(r)
			}
			return m, nil
		}
	}

	switch {
	case matchKey(key, KeyQuit, KeyQuitAlt):
		// Flush the change log before leaving the alt screen
		if m.tracker.Active() {
			m.tracker.Stop()
		}
		m.quitting = true
		return m, tea.Quit

	case matchKey(key, KeyUp, KeyUpAlt):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case matchKey(key, KeyDown, KeyDownAlt):
		if n := len(m.filteredRecords()); m.cursor < n-1 {
			m.cursor++
		}
		return m, nil

	case matchKey(key, KeyEsc):
		if m.activeFilter != "" {
			m.activeFilter = ""
			m.searchQuery = ""
			m.clampCursor()
		}
		return m, nil

	case key == "+" || key == "=":
		if m.refreshInterval > MinRefreshInterval {
			m.refreshInterval -= RefreshStep
		}
		return m, nil

	case key == "-" || key == "_":
		if m.refreshInterval < MaxRefreshInterval {
			m.refreshInterval += RefreshStep
		}
		return m, nil

	case matchKey(key, KeySearch):
		m.searchMode = true
		m.searchQuery = m.activeFilter // pre-fill with current filter
		return m, nil

	case matchKey(key, KeyHelp):
		m.helpMode = true
		return m, nil

	case matchKey(key, KeyTrack):
		if m.tracker.Active() {
			m.tracker.Stop()
			m.killResult = "Tracking stopped, change log exported"
		} else {
			m.tracker.Start(m.records)
			m.killResult = "Tracking started"
		}
		m.killResultAt = time.Now()
		return m, nil

	case matchKey(key, KeyExport):
		return m, m.exportSnapshotCmd()

	case matchKey(key, KeyFormat):
		m.exportFormat = m.exportFormat.Next()
		m.tracker.SetFormat(m.exportFormat)
		return m, nil

	case matchKey(key, KeyEnter):
		if rec, ok := m.selectedRecord(); ok {
			return m, m.lookupOwnerCmd(rec)
		}
		return m, nil

	case key == "x":
		return m.enterKillMode("SIGTERM")

	case key == "X":
		return m.enterKillMode("SIGKILL")

	default:
		// Pass unhandled keys to viewport for page up/down, mouse scroll, etc.
		if m.ready {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) fetchPorts() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		records, err := m.collector.FetchPorts(ctx)
		return DataMsg{Records: records, Err: err}
	}
}

func (m Model) fetchDocker() tea.Cmd {
	resolver := m.resolver
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		ports, err := resolver.Resolve(ctx)
		return DockerMsg{Ports: ports, Err: err}
	}
}

func (m Model) exportSnapshotCmd() tea.Cmd {
	records := m.records
	format := m.exportFormat
	dir := m.outputDir
	return func() tea.Msg {
		path, err := export.Snapshot(records, format, dir)
		return ExportMsg{Path: path, Err: err}
	}
}

func (m Model) lookupOwnerCmd(rec model.PortRecord) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		owner, err := m.collector.FindOwner(ctx, rec.Port, rec.PID)
		return OwnerMsg{Port: rec.Port, Owner: owner, Err: err}
	}
}

func checkReleaseCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		tag, err := release.CheckLatest(ctx, "portwatch", "portwatch", Version)
		if err != nil || tag == "" {
			return nil
		}
		return ReleaseMsg{Tag: tag}
	}
}

// markNewRecords records first-seen times for highlight, then prunes stale entries.
func (m *Model) markNewRecords(records []model.PortRecord) {
	if m.records == nil {
		return // first snapshot, nothing is "new"
	}
	prev := make(map[string]struct{}, len(m.records))
	for _, r := range m.records {
		prev[r.ID] = struct{}{}
	}
	now := time.Now()
	for _, r := range records {
		if _, ok := prev[r.ID]; !ok {
			m.highlight[r.ID] = now
		}
	}
	cutoff := now.Add(-highlightTTL)
	for id, seen := range m.highlight {
		if seen.Before(cutoff) {
			delete(m.highlight, id)
		}
	}
}

// isNew reports whether a record should be rendered with the new-port highlight.
func (m Model) isNew(rec model.PortRecord) bool {
	seen, ok := m.highlight[rec.ID]
	return ok && time.Since(seen) < highlightTTL
}

// filteredRecords returns records matching the current filter.
func (m Model) filteredRecords() []model.PortRecord {
	filter := m.currentFilter()
	if filter == "" {
		return m.records
	}
	needle := strings.ToLower(filter)
	var result []model.PortRecord
	for _, rec := range m.records {
		if recordMatches(rec, needle) {
			result = append(result, rec)
		}
	}
	return result
}

// recordMatches checks the filter against port, PID, name, path and state.
func recordMatches(rec model.PortRecord, needle string) bool {
	if strconv.FormatUint(uint64(rec.Port), 10) == needle {
		return true
	}
	if strconv.FormatInt(int64(rec.PID), 10) == needle {
		return true
	}
	return strings.Contains(strings.ToLower(rec.ProcessName), needle) ||
		strings.Contains(strings.ToLower(rec.ProcessPath), needle) ||
		strings.Contains(strings.ToLower(string(rec.State)), needle)
}

// selectedRecord returns the record under the cursor.
func (m Model) selectedRecord() (model.PortRecord, bool) {
	recs := m.filteredRecords()
	if m.cursor < 0 || m.cursor >= len(recs) {
		return model.PortRecord{}, false
	}
	return recs[m.cursor], true
}

// clampCursor ensures cursor is within bounds after data or filter changes.
func (m *Model) clampCursor() {
	n := len(m.filteredRecords())
	if n == 0 {
		m.cursor = 0
	} else if m.cursor >= n {
		m.cursor = n - 1
	}
}
