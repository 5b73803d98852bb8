package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"portwatch/internal/collector"
	"portwatch/internal/export"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Take a one-shot port snapshot and write it to a file",
	Long: `Collect the current open ports and write a timestamped snapshot file
under a snapshots/ directory.

Examples:
  portwatch export
  portwatch export --format yaml
  portwatch export --format json --output /var/log/portwatch`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "Snapshot format (csv, json, yaml)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", ".", "Directory to write the snapshots/ folder into")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	records, err := collector.New().FetchPorts(ctx)
	if err != nil {
		return fmt.Errorf("failed to collect port data: %w", err)
	}

	path, err := export.Snapshot(records, format, exportOutput)
	if err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	fmt.Printf("Wrote %d ports to %s\n", len(records), path)
	return nil
}
