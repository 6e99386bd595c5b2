package views

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/justyntemme/comics-t/pkg/models"
)

// ViewType represents different screens in the application
type ViewType int

const (
	ViewReader ViewType = iota
	ViewStats
)

// String returns the name of the view
func (v ViewType) String() string {
	switch v {
	case ViewReader:
		return "Reader"
	case ViewStats:
		return "Stats"
	default:
		return "Unknown"
	}
}

// View is the interface that all views must implement
type View interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (View, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// Message types for inter-view communication

// ComicOpenedMsg is sent once a comic has been fetched and the reader is ready
type ComicOpenedMsg struct {
	Comic models.Comic
}

// CloseReaderMsg asks the application to close the reader
type CloseReaderMsg struct{}

// ErrorMsg is sent when an error occurs
type ErrorMsg struct {
	Err error
}

// SwitchViewMsg requests a view switch
type SwitchViewMsg struct {
	View ViewType
}

// SendError creates an error message command
func SendError(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Err: err}
	}
}

// SwitchTo creates a command to switch views
func SwitchTo(view ViewType) tea.Cmd {
	return func() tea.Msg {
		return SwitchViewMsg{View: view}
	}
}
