// Package export serializes snapshots and event logs to timestamped files
// under a snapshots/ directory.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"portwatch/internal/model"
)

// Format is a supported export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrCSVWriterMissing is returned when CSV output is requested without a
// column-projection function. Generic serialization cannot auto-flatten
// tagged event records into fixed columns.
var ErrCSVWriterMissing = errors.New("CSV writer not provided")

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatJSON, FormatYAML:
		return Format(s), nil
	}
	return "", fmt.Errorf("unknown export format: %q", s)
}

// Next cycles through the formats, for the UI's format toggle.
func (f Format) Next() Format {
	switch f {
	case FormatJSON:
		return FormatYAML
	case FormatYAML:
		return FormatCSV
	default:
		return FormatJSON
	}
}

const snapshotsDir = "snapshots"

// Swappable for deterministic filenames in tests.
var now = time.Now

// WriteFile serializes items to snapshots/{prefix}-{timestamp}.{format}
// under outputDir (current directory when empty) and returns the created
// path. Filenames carry second resolution; a same-second collision gets a
// numeric disambiguator rather than overwriting the earlier file.
func WriteFile[T any](items []T, format Format, prefix, outputDir string, writeCSV func(io.Writer, []T) error) (string, error) {
	if format == FormatCSV && writeCSV == nil {
		return "", ErrCSVWriterMissing
	}

	if outputDir == "" {
		outputDir = "."
	}
	dir := filepath.Join(outputDir, snapshotsDir)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", err
	}

	base := fmt.Sprintf("%s-%s", prefix, now().Format("20060102-150405"))
	file, path, err := createUnique(dir, base, string(format))
	if err != nil {
		return "", err
	}
	defer func() { _ = file.Close() }()

	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return "", err
		}
		if _, err := file.Write(data); err != nil {
			return "", err
		}
	case FormatYAML:
		data, err := yaml.Marshal(items)
		if err != nil {
			return "", err
		}
		if _, err := file.Write(data); err != nil {
			return "", err
		}
	case FormatCSV:
		if err := writeCSV(file, items); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("unknown export format: %q", format)
	}

	return path, nil
}

// createUnique creates base.ext, or base-2.ext, base-3.ext, ... when earlier
// names already exist within the same second.
func createUnique(dir, base, ext string) (*os.File, string, error) {
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s.%s", base, ext)
		if i > 1 {
			name = fmt.Sprintf("%s-%d.%s", base, i, ext)
		}
		path := filepath.Join(dir, name)
		// #nosec G304 - path is built from a validated prefix and timestamp
		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err == nil {
			return file, path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", err
		}
	}
}

// Snapshot exports a raw port snapshot with the "ports" prefix.
func Snapshot(records []model.PortRecord, format Format, outputDir string) (string, error) {
	return WriteFile(records, format, "ports", outputDir, writeSnapshotCSV)
}

// Events exports an event log with the "changes" prefix.
func Events(events []model.PortEvent, format Format, outputDir string) (string, error) {
	return WriteFile(events, format, "changes", outputDir, writeEventsCSV)
}

// WriteJSON renders items as pretty-printed JSON to w. Shared by file export
// and the CLI's stdout JSON mode.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSnapshotCSV(w io.Writer, records []model.PortRecord) error {
	wtr := csv.NewWriter(w)
	if err := wtr.Write([]string{"Port", "PID", "Process Name", "Process Path", "State"}); err != nil {
		return err
	}
	for _, r := range records {
		if err := wtr.Write(r.RefArray()); err != nil {
			return err
		}
	}
	wtr.Flush()
	return wtr.Error()
}

func writeEventsCSV(w io.Writer, events []model.PortEvent) error {
	wtr := csv.NewWriter(w)
	if err := wtr.Write([]string{"timestamp", "event", "port", "pid", "process_name", "process_path"}); err != nil {
		return err
	}

	writeRecord := func(ts time.Time, event model.EventType, p model.PortRecord) error {
		return wtr.Write([]string{
			ts.Format(time.RFC3339),
			string(event),
			fmt.Sprintf("%d", p.Port),
			fmt.Sprintf("%d", p.PID),
			p.ProcessName,
			p.ProcessPath,
		})
	}

	for _, ev := range events {
		switch ev.Type {
		case model.EventInitialState:
			// One row per contained port.
			for _, p := range ev.Ports {
				if err := writeRecord(ev.Timestamp, ev.Type, p); err != nil {
					return err
				}
			}
		case model.EventPortOpened, model.EventPortClosed:
			if ev.Port == nil {
				continue
			}
			if err := writeRecord(ev.Timestamp, ev.Type, *ev.Port); err != nil {
				return err
			}
		}
	}

	wtr.Flush()
	return wtr.Error()
}
