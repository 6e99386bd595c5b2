package views

import "github.com/charmbracelet/bubbles/key"

// ReaderKeyMap holds the reader's bindings beyond page turns and zoom,
// which belong to the gesture interpreter
type ReaderKeyMap struct {
	First       key.Binding
	Last        key.Binding
	Fit         key.Binding
	ResetZoom   key.Binding
	PanLeft     key.Binding
	PanRight    key.Binding
	PanUp       key.Binding
	PanDown     key.Binding
	AutoAdvance key.Binding
	AddBookmark key.Binding
	Bookmarks   key.Binding

	// Bookmarks overlay
	Up     key.Binding
	Down   key.Binding
	Jump   key.Binding
	Edit   key.Binding
	Delete key.Binding
	Search key.Binding
	Cancel key.Binding
}

// DefaultReaderKeyMap returns the default reader bindings
func DefaultReaderKeyMap() ReaderKeyMap {
	return ReaderKeyMap{
		First: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first page"),
		),
		Last: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last page"),
		),
		Fit: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fit mode"),
		),
		ResetZoom: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "reset zoom"),
		),
		PanLeft: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "pan left"),
		),
		PanRight: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "pan right"),
		),
		PanUp: key.NewBinding(
			key.WithKeys("k"),
			key.WithHelp("k", "pan up"),
		),
		PanDown: key.NewBinding(
			key.WithKeys("j"),
			key.WithHelp("j", "pan down"),
		),
		AutoAdvance: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "auto-advance"),
		),
		AddBookmark: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "bookmark page"),
		),
		Bookmarks: key.NewBinding(
			key.WithKeys("B"),
			key.WithHelp("B", "bookmarks"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Jump: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "go to page"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit note"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "x"),
			key.WithHelp("d", "delete"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "close"),
		),
	}
}
