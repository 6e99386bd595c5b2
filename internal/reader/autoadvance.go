package reader

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TimerState is the state of the auto-advance timer
type TimerState int

const (
	TimerStopped TimerState = iota
	TimerRunning
)

// String returns the name of the state
func (s TimerState) String() string {
	if s == TimerRunning {
		return "RUNNING"
	}
	return "STOPPED"
}

// TickMsg is delivered when an auto-advance interval elapses
type TickMsg struct {
	run int
}

// AutoAdvance turns pages on a fixed interval until stopped or until the
// last page is reached. Ticks from a stopped run are ignored, so a tick
// already in the event queue when Stop is called never advances a page.
type AutoAdvance struct {
	state    TimerState
	interval time.Duration
	run      int
}

// NewAutoAdvance creates a stopped timer
func NewAutoAdvance() *AutoAdvance {
	return &AutoAdvance{}
}

// State returns the timer state
func (a *AutoAdvance) State() TimerState { return a.state }

// Running reports whether the timer is running
func (a *AutoAdvance) Running() bool { return a.state == TimerRunning }

// Interval returns the interval of the current or last run
func (a *AutoAdvance) Interval() time.Duration { return a.interval }

// Start begins ticking every interval. Starting a running timer is a no-op
// and returns nil.
func (a *AutoAdvance) Start(interval time.Duration) tea.Cmd {
	if a.state == TimerRunning || interval <= 0 {
		return nil
	}
	a.state = TimerRunning
	a.interval = interval
	a.run++
	return a.schedule()
}

// Stop cancels the pending tick
func (a *AutoAdvance) Stop() {
	if a.state == TimerStopped {
		return
	}
	a.state = TimerStopped
	a.run++
}

// Toggle starts a stopped timer or stops a running one
func (a *AutoAdvance) Toggle(interval time.Duration) tea.Cmd {
	if a.Running() {
		a.Stop()
		return nil
	}
	return a.Start(interval)
}

// Update handles a tick. advance turns the page and reports whether the page
// changed; when it did not (last page), the timer stops.
func (a *AutoAdvance) Update(msg TickMsg, advance func() bool) tea.Cmd {
	if a.state != TimerRunning || msg.run != a.run {
		return nil
	}
	if !advance() {
		a.Stop()
		return nil
	}
	return a.schedule()
}

func (a *AutoAdvance) schedule() tea.Cmd {
	run := a.run
	return tea.Tick(a.interval, func(time.Time) tea.Msg {
		return TickMsg{run: run}
	})
}
