package reader

import (
	"fmt"

	"github.com/justyntemme/comics-t/pkg/models"
)

// Zoom limits, in percent
const (
	MinZoom     = 20
	MaxZoom     = 400
	ZoomStep    = 20
	DefaultZoom = 120
)

// PageChangeFunc is called after the visible page changes
type PageChangeFunc func(page, totalPages int)

// Viewport tracks the visible page, zoom level and fit mode of an open comic.
// Out-of-range navigation is clamped, never rejected.
type Viewport struct {
	totalPages  int
	currentPage int
	zoom        int
	fitMode     models.FitMode

	listeners []PageChangeFunc
}

// NewViewport creates a viewport positioned at initialPage
func NewViewport(totalPages, initialPage int) (*Viewport, error) {
	if totalPages <= 0 {
		return nil, fmt.Errorf("viewport: total pages must be positive, got %d", totalPages)
	}
	return &Viewport{
		totalPages:  totalPages,
		currentPage: clamp(initialPage, 1, totalPages),
		zoom:        DefaultZoom,
		fitMode:     models.FitWidth,
	}, nil
}

// OnPageChange registers fn to be called on every page change
func (v *Viewport) OnPageChange(fn PageChangeFunc) {
	v.listeners = append(v.listeners, fn)
}

// State returns a snapshot of the viewport
func (v *Viewport) State() models.ViewportState {
	return models.ViewportState{
		CurrentPage: v.currentPage,
		ZoomPercent: v.zoom,
		FitMode:     v.fitMode,
	}
}

// Page returns the current page
func (v *Viewport) Page() int { return v.currentPage }

// TotalPages returns the page count of the document
func (v *Viewport) TotalPages() int { return v.totalPages }

// Zoom returns the zoom level in percent
func (v *Viewport) Zoom() int { return v.zoom }

// FitMode returns the current fit mode
func (v *Viewport) FitMode() models.FitMode { return v.fitMode }

// CanGoPrev reports whether there is a page before the current one
func (v *Viewport) CanGoPrev() bool { return v.currentPage > 1 }

// CanGoNext reports whether there is a page after the current one
func (v *Viewport) CanGoNext() bool { return v.currentPage < v.totalPages }

// SetPage moves to page n, clamped to the document, and returns the page
// actually applied. Listeners are only notified when the page changed.
func (v *Viewport) SetPage(n int) int {
	n = clamp(n, 1, v.totalPages)
	if n == v.currentPage {
		return n
	}
	v.currentPage = n
	for _, fn := range v.listeners {
		fn(n, v.totalPages)
	}
	return n
}

// Page navigation methods. Each reports whether the page changed.

func (v *Viewport) Next() bool { return v.move(v.currentPage + 1) }

func (v *Viewport) Prev() bool { return v.move(v.currentPage - 1) }

func (v *Viewport) First() bool { return v.move(1) }

func (v *Viewport) Last() bool { return v.move(v.totalPages) }

func (v *Viewport) move(n int) bool {
	before := v.currentPage
	return v.SetPage(n) != before
}

// AdjustZoom adds delta percent to the zoom level and returns the clamped result
func (v *Viewport) AdjustZoom(delta int) int {
	v.zoom = clamp(v.zoom+delta, MinZoom, MaxZoom)
	return v.zoom
}

// ZoomIn zooms in by one step
func (v *Viewport) ZoomIn() int { return v.AdjustZoom(ZoomStep) }

// ZoomOut zooms out by one step
func (v *Viewport) ZoomOut() int { return v.AdjustZoom(-ZoomStep) }

// ResetZoom returns to the default zoom level
func (v *Viewport) ResetZoom() {
	v.zoom = DefaultZoom
}

// SetFitMode sets the fit mode
func (v *Viewport) SetFitMode(mode models.FitMode) {
	v.fitMode = mode
}

// CycleFitMode advances to the next fit mode and returns it
func (v *Viewport) CycleFitMode() models.FitMode {
	v.fitMode = v.fitMode.Next()
	return v.fitMode
}

// Apply performs the navigation or zoom for an intent. It reports whether
// the intent changed the viewport. IntentClose is left to the caller.
func (v *Viewport) Apply(intent Intent) bool {
	switch intent {
	case IntentNextPage:
		return v.Next()
	case IntentPrevPage:
		return v.Prev()
	case IntentZoomIn:
		before := v.zoom
		return v.ZoomIn() != before
	case IntentZoomOut:
		before := v.zoom
		return v.ZoomOut() != before
	}
	return false
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
