package reader

import (
	"math"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Intent is a navigation or zoom request derived from user input
type Intent int

const (
	IntentNone Intent = iota
	IntentNextPage
	IntentPrevPage
	IntentZoomIn
	IntentZoomOut
	IntentClose
)

// String returns the name of the intent
func (i Intent) String() string {
	switch i {
	case IntentNextPage:
		return "NEXT_PAGE"
	case IntentPrevPage:
		return "PREV_PAGE"
	case IntentZoomIn:
		return "ZOOM_IN"
	case IntentZoomOut:
		return "ZOOM_OUT"
	case IntentClose:
		return "CLOSE"
	default:
		return "NONE"
	}
}

// DefaultSwipeThreshold is the minimum horizontal travel for a swipe, in pixels
const DefaultSwipeThreshold = 50

// GestureKeys defines the key bindings the interpreter understands
type GestureKeys struct {
	NextPage key.Binding
	PrevPage key.Binding
	ZoomIn   key.Binding
	ZoomOut  key.Binding
	Close    key.Binding
}

// DefaultGestureKeys returns the reader's navigation bindings
func DefaultGestureKeys() GestureKeys {
	return GestureKeys{
		NextPage: key.NewBinding(
			key.WithKeys("right", "down", " "),
			key.WithHelp("→/↓/space", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "up"),
			key.WithHelp("←/↑", "prev page"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "zoom out"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "close"),
		),
	}
}

type point struct {
	x, y float64
}

// Interpreter turns raw key, pointer and pinch events into intents.
// It holds only transient gesture state and has no side effects.
type Interpreter struct {
	keys      GestureKeys
	threshold float64

	// Pointer-down position of the gesture in progress
	start *point

	// Finger distance when the current pinch began
	pinchStart float64
	pinching   bool
}

// NewInterpreter creates an interpreter. A non-positive threshold falls back
// to DefaultSwipeThreshold.
func NewInterpreter(keys GestureKeys, threshold float64) *Interpreter {
	if threshold <= 0 {
		threshold = DefaultSwipeThreshold
	}
	return &Interpreter{keys: keys, threshold: threshold}
}

// Threshold returns the swipe threshold
func (g *Interpreter) Threshold() float64 { return g.threshold }

// Key translates a key press. While a text input has focus (typing is true)
// every key is left to the input.
func (g *Interpreter) Key(msg tea.KeyMsg, typing bool) Intent {
	if typing {
		return IntentNone
	}

	switch {
	case key.Matches(msg, g.keys.NextPage):
		return IntentNextPage
	case key.Matches(msg, g.keys.PrevPage):
		return IntentPrevPage
	case key.Matches(msg, g.keys.ZoomIn):
		return IntentZoomIn
	case key.Matches(msg, g.keys.ZoomOut):
		return IntentZoomOut
	case key.Matches(msg, g.keys.Close):
		return IntentClose
	}
	return IntentNone
}

// PointerDown records the start of a touch or drag
func (g *Interpreter) PointerDown(x, y float64) {
	g.start = &point{x: x, y: y}
}

// PointerUp ends a touch or drag. A horizontal displacement larger than the
// threshold that dominates the vertical one is a swipe: leftward goes to the
// next page, rightward to the previous one. Anything shorter is a tap.
func (g *Interpreter) PointerUp(x, y float64) Intent {
	if g.start == nil {
		return IntentNone
	}
	dx := x - g.start.x
	dy := y - g.start.y
	g.start = nil

	if math.Abs(dx) <= g.threshold || math.Abs(dx) <= math.Abs(dy) {
		return IntentNone
	}
	if dx < 0 {
		return IntentNextPage
	}
	return IntentPrevPage
}

// CancelPointer drops a gesture in progress
func (g *Interpreter) CancelPointer() {
	g.start = nil
}

// PinchStart records the finger distance at the start of a two-finger chord
func (g *Interpreter) PinchStart(distance float64) {
	g.pinchStart = distance
	g.pinching = true
	g.start = nil
}

// PinchEnd ends the chord. Spreading the fingers by more than the threshold
// zooms in, pinching them together zooms out.
func (g *Interpreter) PinchEnd(distance float64) Intent {
	if !g.pinching {
		return IntentNone
	}
	g.pinching = false

	delta := distance - g.pinchStart
	switch {
	case delta > g.threshold:
		return IntentZoomIn
	case delta < -g.threshold:
		return IntentZoomOut
	}
	return IntentNone
}

// Mouse translates terminal mouse events. A left-button drag acts as a swipe
// measured in cells; the wheel turns pages, or zooms with ctrl held.
func (g *Interpreter) Mouse(msg tea.MouseMsg) Intent {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if msg.Ctrl {
			return IntentZoomIn
		}
		return IntentPrevPage
	case tea.MouseButtonWheelDown:
		if msg.Ctrl {
			return IntentZoomOut
		}
		return IntentNextPage
	case tea.MouseButtonLeft:
		switch msg.Action {
		case tea.MouseActionPress:
			g.PointerDown(float64(msg.X), float64(msg.Y))
		case tea.MouseActionRelease:
			return g.PointerUp(float64(msg.X), float64(msg.Y))
		}
	case tea.MouseButtonNone:
		// Some terminals report the release without a button
		if msg.Action == tea.MouseActionRelease {
			return g.PointerUp(float64(msg.X), float64(msg.Y))
		}
	}
	return IntentNone
}
