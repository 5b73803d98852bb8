package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"portwatch/internal/collector"
	"portwatch/internal/config"
	"portwatch/internal/docker"
	"portwatch/internal/export"
	"portwatch/internal/model"
	"portwatch/internal/tracker"
)

// Refresh interval bounds, in whole seconds.
const (
	MinRefreshInterval     = time.Duration(config.MinRefreshSeconds) * time.Second
	MaxRefreshInterval     = time.Duration(config.MaxRefreshSeconds) * time.Second
	DefaultRefreshInterval = 1 * time.Second
	RefreshStep            = 1 * time.Second
)

// Version is stamped by the build.
var Version = "dev"

// killTargetInfo describes the pending kill confirmation.
type killTargetInfo struct {
	PID         int32
	Port        uint16
	ProcessName string
	Path        string
	Signal      string
	ContainerID string // set when the port belongs to a Docker container
}

// Model is the Bubble Tea model for the port monitor.
type Model struct {
	// Data
	collector collector.Collector
	records   []model.PortRecord

	// Change tracking
	tracker   *tracker.Tracker
	highlight map[string]time.Time // record ID → when first seen, for new-port highlight

	// Export
	exportFormat export.Format
	outputDir    string

	// UI state
	cursor   int
	quitting bool
	helpMode bool

	// Search
	searchMode   bool
	searchQuery  string
	activeFilter string

	// Kill confirmation
	killMode     bool
	killTarget   *killTargetInfo
	killResult   string
	killResultAt time.Time

	// Owner lookup
	ownerStatus   string
	ownerStatusAt time.Time

	// Docker enrichment
	resolver    docker.Resolver
	dockerPorts map[uint16]*docker.ContainerPort

	// Error tracking
	lastError     error
	lastErrorTime time.Time

	// Configuration
	settings        *config.Settings
	refreshInterval time.Duration
	updateAvailable string

	log zerolog.Logger

	// Dimensions
	width  int
	height int

	// Viewport for scrollable content
	viewport viewport.Model
	ready    bool // true after viewport initialized on first WindowSizeMsg
}

// NewModel creates a new Model with the given settings.
func NewModel(settings *config.Settings, log zerolog.Logger) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	format, err := export.ParseFormat(settings.ExportFormat)
	if err != nil {
		format = export.FormatCSV
	}
	interval := time.Duration(settings.RefreshSeconds) * time.Second
	if interval < MinRefreshInterval || interval > MaxRefreshInterval {
		interval = DefaultRefreshInterval
	}
	return Model{
		collector:       collector.New(),
		resolver:        docker.NewResolver(),
		tracker:         tracker.New(format, settings.OutputDir, log),
		highlight:       make(map[string]time.Time),
		exportFormat:    format,
		outputDir:       settings.OutputDir,
		settings:        settings,
		refreshInterval: interval,
		log:             log,
	}
}

// WithFilter returns a copy of the model with a pre-applied filter.
func (m Model) WithFilter(filter string) Model {
	m.activeFilter = filter
	return m
}

// Tracking reports whether change tracking is active.
func (m Model) Tracking() bool {
	return m.tracker.Active()
}

// currentFilter returns the filter in effect, preferring the live query
// while the search prompt is open.
func (m Model) currentFilter() string {
	if m.searchMode {
		return m.searchQuery
	}
	return m.activeFilter
}

var _ tea.Model = Model{}
