// Package tracker maintains a baseline snapshot of port/process bindings and
// turns successive observations into an append-only event log.
package tracker

import (
	"time"

	"github.com/rs/zerolog"

	"portwatch/internal/export"
	"portwatch/internal/model"
)

// Tracker diffs successive snapshots against a baseline. It is not safe for
// concurrent use; the UI's single consumer loop owns it.
type Tracker struct {
	events    []model.PortEvent
	baseline  []model.PortRecord
	startedAt time.Time
	active    bool

	format    export.Format
	outputDir string
	log       zerolog.Logger

	// now is swappable in tests for deterministic timestamps.
	now func() time.Time
}

// New returns an inactive tracker exporting in the given format.
func New(format export.Format, outputDir string, log zerolog.Logger) *Tracker {
	return &Tracker{
		format:    format,
		outputDir: outputDir,
		log:       log,
		now:       time.Now,
	}
}

// Active reports whether tracking is running.
func (t *Tracker) Active() bool { return t.active }

// StartedAt returns when tracking began; zero when never started.
func (t *Tracker) StartedAt() time.Time { return t.startedAt }

// Events returns the accumulated event log in emission order.
func (t *Tracker) Events() []model.PortEvent { return t.events }

// EventCount returns the number of accumulated events.
func (t *Tracker) EventCount() int { return len(t.events) }

// SetFormat changes the export format used by Stop and Export.
func (t *Tracker) SetFormat(format export.Format) { t.format = format }

// Start captures the snapshot as baseline, clears any prior event log and
// records an initial_state event.
func (t *Tracker) Start(snapshot []model.PortRecord) {
	t.startedAt = t.now()
	t.active = true
	t.events = t.events[:0]
	t.baseline = snapshot
	t.events = append(t.events, model.PortEvent{
		Type:      model.EventInitialState,
		Timestamp: t.startedAt,
		Ports:     snapshot,
	})
}

// TrackOnce diffs a new snapshot against the baseline, appending one
// port_opened event per added record and one port_closed per removed record,
// then replaces the baseline wholesale. No-op when inactive.
//
// Set membership is keyed on full record equality, so a record whose process
// path resolution changes between ticks reports as a close plus an open.
func (t *Tracker) TrackOnce(snapshot []model.PortRecord) {
	if !t.active {
		return
	}

	added, removed := diff(t.baseline, snapshot)
	now := t.now()

	for i := range added {
		t.events = append(t.events, model.PortEvent{
			Type:      model.EventPortOpened,
			Timestamp: now,
			Port:      &added[i],
		})
	}
	for i := range removed {
		t.events = append(t.events, model.PortEvent{
			Type:      model.EventPortClosed,
			Timestamp: now,
			Port:      &removed[i],
		})
	}

	t.baseline = snapshot
}

// Stop deactivates tracking and exports the accumulated event log in the
// tracker's configured format. The export is fire-and-forget: failures are
// logged, never surfaced to the caller.
func (t *Tracker) Stop() {
	t.active = false
	path, err := t.Export(t.outputDir)
	if err != nil {
		t.log.Warn().Err(err).Msg("event log export failed on stop")
		return
	}
	t.log.Info().Str("path", path).Int("events", len(t.events)).Msg("event log exported")
}

// Export writes the event log under dir, returning the created file path.
func (t *Tracker) Export(dir string) (string, error) {
	return export.Events(t.events, t.format, dir)
}

// diff computes set differences between baseline and snapshot on full-record
// equality. Within added and removed, records keep snapshot/baseline order so
// event emission is deterministic.
func diff(baseline, snapshot []model.PortRecord) (added, removed []model.PortRecord) {
	old := make(map[model.PortRecord]struct{}, len(baseline))
	for _, r := range baseline {
		old[r] = struct{}{}
	}
	current := make(map[model.PortRecord]struct{}, len(snapshot))
	for _, r := range snapshot {
		current[r] = struct{}{}
	}

	for _, r := range snapshot {
		if _, ok := old[r]; !ok {
			added = append(added, r)
		}
	}
	for _, r := range baseline {
		if _, ok := current[r]; !ok {
			removed = append(removed, r)
		}
	}
	return added, removed
}
