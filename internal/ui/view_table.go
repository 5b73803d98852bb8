package ui

import (
	"fmt"
	"strings"

	"portwatch/internal/docker"
	"portwatch/internal/model"
)

// columnDef defines a table column with sizing properties.
type columnDef struct {
	label      string
	minWidth   int  // minimum width
	flex       int  // flex weight for extra space distribution (0 = fixed)
	rightAlign bool // true for right-aligned columns (numbers)
}

// portColumns returns the column definitions for the port table.
func (m Model) portColumns() []columnDef {
	cols := []columnDef{
		{label: "Port", minWidth: 6, flex: 0, rightAlign: true},
		{label: "PID", minWidth: 7, flex: 0, rightAlign: true},
		{label: "Process", minWidth: 14, flex: 2},
		{label: "State", minWidth: 8, flex: 0},
	}
	if m.settings.ServiceNames {
		cols = append(cols, columnDef{label: "Service", minWidth: 10, flex: 0})
	}
	if m.settings.DockerContainers {
		cols = append(cols, columnDef{label: "Container", minWidth: 12, flex: 2})
	}
	cols = append(cols, columnDef{label: "Path", minWidth: 16, flex: 3})
	return cols
}

// calculateColumnWidths distributes available width among columns.
// Fixed columns (flex=0) get their minWidth, remaining space goes to flex columns.
func calculateColumnWidths(columns []columnDef, availableWidth int) []int {
	widths := make([]int, len(columns))

	// Account for spaces between columns and selection marker
	separators := len(columns) - 1
	selectionMarker := 2 // "  " prefix for all rows
	availableWidth -= separators + selectionMarker

	totalMinWidth := 0
	totalFlex := 0
	for i, col := range columns {
		widths[i] = col.minWidth
		totalMinWidth += col.minWidth
		totalFlex += col.flex
	}

	extraSpace := availableWidth - totalMinWidth
	if extraSpace > 0 && totalFlex > 0 {
		for i, col := range columns {
			if col.flex > 0 {
				extra := (extraSpace * col.flex) / totalFlex
				widths[i] += extra
			}
		}
	}

	return widths
}

// renderTableHeader renders the column header line.
func renderTableHeader(columns []columnDef, widths []int) string {
	var b strings.Builder

	// Align with data rows (which have "  " prefix from renderRow)
	b.WriteString("  ")

	headerStyle := TableHeaderStyle()
	for i, col := range columns {
		if i > 0 {
			b.WriteString(" ")
		}
		padWidth := widths[i] - len(col.label)
		if padWidth < 0 {
			padWidth = 0
		}
		var padded string
		if col.rightAlign {
			padded = strings.Repeat(" ", padWidth) + col.label
		} else {
			padded = col.label + strings.Repeat(" ", padWidth)
		}
		b.WriteString(headerStyle.Render(padded))
	}

	return b.String()
}

// renderRow renders a table row with selection and state styling.
func (m Model) renderRow(rec model.PortRecord, content string, isSelected bool) string {
	row := "  " + content

	// Selection takes priority for foreground
	if isSelected {
		return SelectedRowStyle().Render(row) + "\n"
	}
	if m.isNew(rec) {
		return NewPortStyle().Render(row) + "\n"
	}
	if rec.State == model.StateHosting {
		return HostingRowStyle().Render(row) + "\n"
	}
	return RowStyle().Render(row) + "\n"
}

// rowContent formats one record into aligned columns.
func (m Model) rowContent(rec model.PortRecord, widths []int) string {
	cells := []string{
		fmt.Sprintf("%*d", widths[0], rec.Port),
		fmt.Sprintf("%*d", widths[1], rec.PID),
		fmt.Sprintf("%-*s", widths[2], truncateString(rec.ProcessName, widths[2])),
		fmt.Sprintf("%-*s", widths[3], rec.State),
	}
	idx := 4
	if m.settings.ServiceNames {
		cells = append(cells, fmt.Sprintf("%-*s", widths[idx], serviceLabel(rec, true)))
		idx++
	}
	if m.settings.DockerContainers {
		container := ""
		if docker.IsDockerProcess(rec.ProcessName) {
			container = docker.FormatColumn(m.dockerPorts[rec.Port], widths[idx])
		}
		cells = append(cells, fmt.Sprintf("%-*s", widths[idx], container))
		idx++
	}
	cells = append(cells, fmt.Sprintf("%-*s", widths[idx], truncateString(rec.ProcessPath, widths[idx])))

	return strings.Join(cells, " ")
}
