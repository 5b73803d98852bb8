package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"portwatch/internal/config"
	"portwatch/internal/logging"
	"portwatch/internal/model"
	"portwatch/internal/ui"
)

func newTestUIModel() ui.Model {
	return ui.NewModel(config.DefaultSettings(), logging.Nop())
}

// TestNewModel_CanBeCreated verifies that the UI model can be created.
func TestNewModel_CanBeCreated(t *testing.T) {
	m := newTestUIModel()

	if m.View() == "" {
		t.Error("NewModel().View() should return non-empty string")
	}
}

// TestNewModel_ImplementsTeaModel verifies the model implements tea.Model.
func TestNewModel_ImplementsTeaModel(t *testing.T) {
	var _ tea.Model = newTestUIModel()
}

// TestNewModel_Init verifies initialization works.
func TestNewModel_Init(t *testing.T) {
	m := newTestUIModel()

	if m.Init() == nil {
		t.Error("Init() should return a command")
	}
}

// TestProgramCreation verifies tea.Program can be created with our model.
func TestProgramCreation(t *testing.T) {
	p := tea.NewProgram(newTestUIModel())
	if p == nil {
		t.Error("tea.NewProgram should return non-nil program")
	}
}

// TestView_ShowsLoading verifies the initial view shows a loading state.
func TestView_ShowsLoading(t *testing.T) {
	view := newTestUIModel().View()

	// Before the first window size message the view reports initialization.
	if !strings.Contains(view, "Initializing") {
		t.Errorf("initial view should mention initialization, got %q", view)
	}
}

func TestFilterRecordsByPort(t *testing.T) {
	records := []model.PortRecord{
		{Port: 8080, PID: 1, ProcessName: "node"},
		{Port: 80, PID: 2, ProcessName: "nginx"},
		{Port: 8080, PID: 3, ProcessName: "java"},
	}

	filtered := filterRecordsByPort(records, "8080")
	if len(filtered) != 2 {
		t.Fatalf("expected 2 records on port 8080, got %d", len(filtered))
	}
	for _, rec := range filtered {
		if rec.Port != 8080 {
			t.Errorf("unexpected port %d in filtered result", rec.Port)
		}
	}

	// A non-numeric filter leaves the snapshot untouched.
	if got := filterRecordsByPort(records, "abc"); len(got) != len(records) {
		t.Errorf("expected unfiltered snapshot for invalid port, got %d records", len(got))
	}
}
