package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"portwatch/internal/collector"
	"portwatch/internal/config"
	"portwatch/internal/export"
	"portwatch/internal/logging"
	"portwatch/internal/model"
	"portwatch/internal/ui"
)

// version is stamped via -ldflags at release time.
var version = "dev"

var (
	jsonOutput bool
	debugLog   bool
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for scripting/agent consumption)")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "Enable debug logging")
}

var rootCmd = &cobra.Command{
	Use:   "portwatch [port]",
	Short: "Port monitor - view open ports and the processes behind them",
	Long: `portwatch is a TUI application for monitoring open ports, tracking changes
over time and managing the processes behind them.

Optionally pass a port number to filter the view:
  portwatch 8080        # TUI filtered to port 8080
  portwatch 8080 --json # JSON output filtered to port 8080`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var portFilter string
		if len(args) > 0 {
			// Validate it's a number
			if _, err := strconv.ParseUint(args[0], 10, 16); err != nil {
				fmt.Fprintf(os.Stderr, "Invalid port: %s\n", args[0])
				os.Exit(1)
			}
			portFilter = args[0]
		}

		// JSON mode: explicit flag or non-TTY stdout
		if jsonOutput || !term.IsTerminal(int(os.Stdout.Fd())) {
			runJSONMode(portFilter)
			return
		}

		if err := config.InitSettings(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not load settings: %v\n", err)
		}
		if err := config.InitTheme(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not load theme: %v\n", err)
		}

		log, closeLog := logging.NewFileLogger(debugLog)
		defer func() { _ = closeLog() }()

		ui.Version = version
		m := ui.NewModel(config.CurrentSettings, log)
		if portFilter != "" {
			m = m.WithFilter(portFilter)
		}
		p := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func runJSONMode(portFilter string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	records, err := collector.New().FetchPorts(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error collecting port data: %v\n", err)
		os.Exit(1)
	}

	if portFilter != "" {
		records = filterRecordsByPort(records, portFilter)
	}

	if err := export.WriteJSON(os.Stdout, records); err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering JSON: %v\n", err)
		os.Exit(1)
	}
}

func filterRecordsByPort(records []model.PortRecord, port string) []model.PortRecord {
	n, err := strconv.ParseUint(port, 10, 16)
	if err != nil {
		return records
	}
	filtered := make([]model.PortRecord, 0)
	for _, rec := range records {
		if rec.Port == uint16(n) {
			filtered = append(filtered, rec)
		}
	}
	return filtered
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
