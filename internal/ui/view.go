package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"portwatch/internal/config"
)

// statusTTL is how long transient status messages stay in the footer.
const statusTTL = 3 * time.Second

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	// Wait for viewport to be initialized
	if !m.ready {
		return LoadingStyle().Render("Initializing...")
	}

	baseContent := m.renderBaseView()

	if m.helpMode {
		return m.overlayModal(baseContent, m.renderHelpModalContent(), "Keyboard Shortcuts", 52, RenderFrameWithTitle)
	}
	if m.killMode && m.killTarget != nil {
		modalWidth := 50
		if m.killTarget.Path != "" {
			pathWidth := 11 + len(m.killTarget.Path) + 4
			if pathWidth > modalWidth {
				modalWidth = pathWidth
			}
		}
		maxWidth := m.width * 70 / 100
		if modalWidth > maxWidth {
			modalWidth = maxWidth
		}
		title := "Kill Process"
		if m.killTarget.ContainerID != "" {
			title = "Stop Container"
		}
		return m.overlayModal(baseContent, m.renderKillModalContent(), title, modalWidth, RenderDangerFrameWithTitle)
	}

	return baseContent
}

// renderBaseView renders the main UI without modals.
func (m Model) renderBaseView() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTable())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the double-line box header with live indicator and stats.
func (m Model) renderHeader() string {
	borderStyle := BorderStyle()
	titleStyle := HeaderStyle()
	liveStyle := LiveIndicatorStyle()
	statsStyle := StatsStyle()
	warnStyle := WarnStyle()

	innerWidth := m.width - 2

	topLeft := "╔"
	topRight := "╗"
	bottomLeft := "╚"
	bottomRight := "╝"
	horizontal := "═"
	vertical := "║"

	// Build top border with centered title
	title := " PORTWATCH "
	titleLen := len(title)
	remainingWidth := innerWidth - titleLen
	if remainingWidth < 0 {
		remainingWidth = 0
	}
	leftPad := remainingWidth / 2
	rightPad := remainingWidth - leftPad

	topBorder := borderStyle.Render(topLeft)
	topBorder += borderStyle.Render(strings.Repeat(horizontal, leftPad))
	topBorder += titleStyle.Render(title)
	topBorder += borderStyle.Render(strings.Repeat(horizontal, rightPad))
	topBorder += borderStyle.Render(topRight)

	liveText := liveStyle.Render("◉ LIVE")
	statsText := statsStyle.Render(fmt.Sprintf("  %d ports", len(m.records)))
	refreshText := statsStyle.Render(fmt.Sprintf("   %.0fs", m.refreshInterval.Seconds()))
	formatText := statsStyle.Render(fmt.Sprintf("   fmt:%s", m.exportFormat))

	trackText := ""
	if m.tracker.Active() {
		trackText = warnStyle.Render(fmt.Sprintf("   ● tracking (%d events)", m.tracker.EventCount()))
	}

	rightContent := ""
	if m.lastError != nil {
		rightContent = warnStyle.Render(fmt.Sprintf("  ⚠ %s", truncateString(m.lastError.Error(), 40)))
	} else if m.updateAvailable != "" {
		rightContent = warnStyle.Render(fmt.Sprintf("  ▲ %s", m.updateAvailable))
	}

	content := liveText + statsText + refreshText + formatText + trackText + rightContent

	contentWidth := lipgloss.Width(content)
	padding := innerWidth - contentWidth - 2 // -2 for vertical bars
	if padding < 0 {
		padding = 0
	}

	contentLine := borderStyle.Render(vertical)
	contentLine += " " + content + strings.Repeat(" ", padding) + " "
	contentLine += borderStyle.Render(vertical)

	bottomBorder := borderStyle.Render(bottomLeft)
	bottomBorder += borderStyle.Render(strings.Repeat(horizontal, innerWidth))
	bottomBorder += borderStyle.Render(bottomRight)

	return topBorder + "\n" + contentLine + "\n" + bottomBorder
}

// contentWidth returns the available width for table content.
func (m Model) contentWidth() int {
	// Frame has 2 chars border + 2 chars padding = 4 total
	return m.width - 4
}

// renderTable renders the framed port table: frozen column header plus
// scrollable data rows.
func (m Model) renderTable() string {
	borderColor := lipgloss.Color(config.CurrentTheme.Styles.Table.HeaderFgColor)
	titleColor := lipgloss.Color(config.CurrentTheme.Styles.Header.TitleFg)

	topLeft := "╭"
	topRight := "╮"
	bottomLeft := "╰"
	bottomRight := "╯"
	horizontal := "─"
	vertical := "│"

	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Foreground(titleColor).Bold(true)

	innerWidth := m.width - 2

	recs := m.filteredRecords()
	title := fmt.Sprintf(" ports: %d ", len(recs))
	titleLen := len(title)
	remainingWidth := innerWidth - titleLen
	if remainingWidth < 0 {
		remainingWidth = 0
		title = title[:innerWidth]
	}
	leftPad := remainingWidth / 2
	rightPad := remainingWidth - leftPad

	topBorder := borderStyle.Render(topLeft)
	topBorder += borderStyle.Render(strings.Repeat(horizontal, leftPad))
	topBorder += titleStyle.Render(title)
	topBorder += borderStyle.Render(strings.Repeat(horizontal, rightPad))
	topBorder += borderStyle.Render(topRight)

	bottomBorder := borderStyle.Render(bottomLeft)
	bottomBorder += borderStyle.Render(strings.Repeat(horizontal, innerWidth))
	bottomBorder += borderStyle.Render(bottomRight)

	var result strings.Builder
	result.WriteString(topBorder)
	result.WriteString("\n")

	renderLine := func(line string) {
		result.WriteString(borderStyle.Render(vertical))
		result.WriteString(" ")
		result.WriteString(padRight(line, innerWidth-2))
		result.WriteString(" ")
		result.WriteString(borderStyle.Render(vertical))
		result.WriteString("\n")
	}

	// Frozen column header (outside viewport, won't scroll)
	columns := m.portColumns()
	widths := calculateColumnWidths(columns, m.contentWidth())
	renderLine(renderTableHeader(columns, widths))

	// Scrollable data rows
	vp := m.viewport
	vp.SetContent(m.renderRows(columns, widths))
	m.syncScroll(&vp)
	for _, line := range strings.Split(vp.View(), "\n") {
		renderLine(line)
	}

	result.WriteString(bottomBorder)
	return result.String()
}

// renderRows renders all visible records as table rows.
func (m Model) renderRows(columns []columnDef, widths []int) string {
	recs := m.filteredRecords()

	if len(recs) == 0 {
		if m.records == nil {
			return LoadingStyle().Render("Loading...")
		}
		if filter := m.currentFilter(); filter != "" {
			return EmptyStyle().Render(fmt.Sprintf("No matches for '%s'", filter))
		}
		return EmptyStyle().Render("No open ports found")
	}

	var b strings.Builder
	for i, rec := range recs {
		b.WriteString(m.renderRow(rec, m.rowContent(rec, widths), i == m.cursor))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// syncScroll keeps the cursor line inside the viewport.
func (m Model) syncScroll(vp *viewport.Model) {
	if m.cursor < vp.YOffset {
		vp.SetYOffset(m.cursor)
	} else if m.cursor >= vp.YOffset+vp.Height {
		vp.SetYOffset(m.cursor - vp.Height + 1)
	}
}

// renderFooter renders the two-row footer with status and keybindings.
func (m Model) renderFooter() string {
	var b strings.Builder
	statusStyle := StatusStyle()

	// Row 1: transient status, search prompt, or filter indicator
	switch {
	case m.killResult != "" && time.Since(m.killResultAt) < statusTTL:
		b.WriteString(statusStyle.Width(m.width).Render(m.killResult))
	case m.ownerStatus != "" && time.Since(m.ownerStatusAt) < statusTTL:
		b.WriteString(statusStyle.Width(m.width).Render(m.ownerStatus))
	case m.searchMode:
		b.WriteString(statusStyle.Width(m.width).Render(fmt.Sprintf("/%s█", m.searchQuery)))
	default:
		statusLine := "PORTS"
		if m.activeFilter != "" {
			statusLine = fmt.Sprintf("[%s] %s", m.activeFilter, statusLine)
		}
		b.WriteString(statusStyle.Width(m.width).Render(statusLine))
	}
	b.WriteString("\n")

	// Row 2: Keybindings
	b.WriteString(FooterStyle().Width(m.width).Render(m.renderKeybindingsText()))

	return b.String()
}

// renderKeybindingsText returns keybindings in minimal style.
func (m Model) renderKeybindingsText() string {
	keyStyle := FooterKeyStyle()
	descStyle := FooterDescStyle()

	btn := func(key, label string) string {
		return keyStyle.Render(key) + " " + descStyle.Render(label)
	}

	sep := descStyle.Render("  ·  ")

	var parts []string
	switch {
	case m.killMode:
		parts = []string{
			btn("y/↵", "confirm"),
			btn("n/esc", "cancel"),
		}
	case m.searchMode:
		parts = []string{
			btn("↵", "apply"),
			btn("esc", "cancel"),
		}
	default:
		track := "track"
		if m.tracker.Active() {
			track = "stop track"
		}
		parts = []string{
			btn("↵", "owner"),
			btn("/", "search"),
			btn("t", track),
			btn("e", "export"),
			btn("f", "format"),
			btn("x", "kill"),
			btn("?", "help"),
			btn("q", "quit"),
		}
	}

	return strings.Join(parts, sep)
}

// renderKillModalContent renders the kill confirmation dialog body.
func (m Model) renderKillModalContent() string {
	if m.killTarget == nil {
		return ""
	}

	dangerStyle := ErrorStyle()
	descStyle := FooterDescStyle()

	var lines []string
	lines = append(lines, "")

	if m.killTarget.ContainerID != "" {
		lines = append(lines, dangerStyle.Render("  Stop this container?"))
		lines = append(lines, "")
		lines = append(lines, descStyle.Render(fmt.Sprintf("  Container: %s", m.killTarget.ProcessName)))
		lines = append(lines, DimmedStyle().Render(fmt.Sprintf("  Image:     %s", m.killTarget.Path)))
		lines = append(lines, descStyle.Render(fmt.Sprintf("  Port:      %d", m.killTarget.Port)))
	} else {
		lines = append(lines, dangerStyle.Render("  Kill this process?"))
		lines = append(lines, "")
		lines = append(lines, descStyle.Render(fmt.Sprintf("  Process: %s", m.killTarget.ProcessName)))
		if m.killTarget.Path != "" {
			lines = append(lines, DimmedStyle().Render(fmt.Sprintf("  Path:    %s", m.killTarget.Path)))
		}
		lines = append(lines, descStyle.Render(fmt.Sprintf("  PID:     %d", m.killTarget.PID)))
		lines = append(lines, descStyle.Render(fmt.Sprintf("  Port:    %d", m.killTarget.Port)))
	}

	lines = append(lines, "")
	lines = append(lines, descStyle.Render(fmt.Sprintf("  Signal:  %s", m.killTarget.Signal)))
	lines = append(lines, "")

	footer := dangerStyle.Render("y/↵") + descStyle.Render(" Confirm  ") +
		dangerStyle.Render("n/Esc") + descStyle.Render(" Cancel")
	lines = append(lines, "  "+footer)

	return strings.Join(lines, "\n")
}

// renderHelpModalContent renders the keyboard shortcut reference.
func (m Model) renderHelpModalContent() string {
	keyStyle := FooterKeyStyle()
	descStyle := FooterDescStyle()

	formatKey := func(k Keybinding) string {
		return keyStyle.Render(k.Key) + descStyle.Render(" "+k.Desc)
	}

	lines := []string{
		HeaderStyle().Render("Navigation"),
		formatKey(KeyUp) + ", " + formatKey(KeyUpAlt),
		formatKey(KeyDown) + ", " + formatKey(KeyDownAlt),
		formatKey(KeyEnter),
		formatKey(KeyEsc) + descStyle.Render(" Clear filter"),
		"",
		HeaderStyle().Render("Search"),
		formatKey(KeySearch),
		"",
		HeaderStyle().Render("Tracking & Export"),
		formatKey(KeyTrack),
		formatKey(KeyExport),
		formatKey(KeyFormat),
		"",
		HeaderStyle().Render("Actions"),
		formatKey(KeyKillTerm),
		formatKey(KeyKillForce),
		formatKey(KeyRefreshUp) + ", " + keyStyle.Render("=") + descStyle.Render(" Faster refresh"),
		formatKey(KeyRefreshDown) + ", " + keyStyle.Render("_") + descStyle.Render(" Slower refresh"),
		"",
		HeaderStyle().Render("Other"),
		formatKey(KeyHelp),
		formatKey(KeyQuit) + ", " + keyStyle.Render("ctrl+c") + descStyle.Render(" Quit"),
	}

	return strings.Join(lines, "\n")
}

// overlayModal centers a framed modal over a dimmed background.
func (m Model) overlayModal(background, content, title string, modalWidth int, frameRenderer func(string, string, int, int) string) string {
	if m.width < modalWidth+4 {
		modalWidth = m.width - 4
	}

	contentLines := strings.Split(content, "\n")
	modalHeight := len(contentLines) + 4

	framedModal := frameRenderer(content, title, modalWidth, modalHeight)
	modalLines := strings.Split(framedModal, "\n")

	leftPad := max((m.width-modalWidth-4)/2, 0)
	topPad := max((m.height-modalHeight)/2, 0)

	bgLines := strings.Split(background, "\n")
	for len(bgLines) < m.height {
		bgLines = append(bgLines, "")
	}

	dimStyle := DimmedStyle()
	for i := range bgLines {
		bgLines[i] = dimStyle.Render(stripAnsi(bgLines[i]))
	}

	for i, modalLine := range modalLines {
		bgIdx := topPad + i
		if bgIdx >= 0 && bgIdx < len(bgLines) {
			leftBg := ""
			if leftPad > 0 {
				leftBg = dimStyle.Render(strings.Repeat(" ", leftPad))
			}
			bgLines[bgIdx] = leftBg + modalLine
		}
	}

	return strings.Join(bgLines[:m.height], "\n")
}
