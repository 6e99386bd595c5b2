package models

import "time"

// Fit mode constants
const (
	FitWidth  FitMode = "width"
	FitHeight FitMode = "height"
	FitPage   FitMode = "page"
)

// FitMode controls how a page image is scaled to the viewport
type FitMode string

// Next returns the fit mode that follows m in the width -> height -> page cycle
func (m FitMode) Next() FitMode {
	switch m {
	case FitWidth:
		return FitHeight
	case FitHeight:
		return FitPage
	default:
		return FitWidth
	}
}

// Valid reports whether m is a known fit mode
func (m FitMode) Valid() bool {
	return m == FitWidth || m == FitHeight || m == FitPage
}

// Comic represents a comic in the catalog
type Comic struct {
	Slug       string `json:"slug"`
	Title      string `json:"title"`
	Author     string `json:"author,omitempty"`
	TotalPages int    `json:"total_pages"`
}

// Bookmark represents a saved page in a comic
type Bookmark struct {
	ID        string    `json:"id"`
	Page      int       `json:"page_number"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProgressRecord represents the user's reading progress in a comic
type ProgressRecord struct {
	CurrentPage        int       `json:"current_page"`
	TotalPages         int       `json:"total_pages"`
	Percentage         float64   `json:"percentage"`
	ReadingTimeMinutes int       `json:"reading_time_minutes"`
	IsCompleted        bool      `json:"is_completed"`
	LastReadAt         time.Time `json:"last_read_at"`
}

// NewProgressRecord builds a record with the derived fields filled in
func NewProgressRecord(currentPage, totalPages int) ProgressRecord {
	rec := ProgressRecord{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		IsCompleted: totalPages > 0 && currentPage == totalPages,
		LastReadAt:  time.Now().UTC(),
	}
	if totalPages > 0 {
		rec.Percentage = 100 * float64(currentPage) / float64(totalPages)
	}
	return rec
}

// ReadingSession represents one continuous stretch of reading
type ReadingSession struct {
	ID              string     `json:"id"`
	ComicSlug       string     `json:"comic_slug"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at"`
	StartPage       int        `json:"start_page"`
	EndPage         *int       `json:"end_page"`
	PagesRead       int        `json:"pages_read"`
	DurationMinutes float64    `json:"duration_minutes"`
	IsActive        bool       `json:"is_active"`
}

// ViewportState is a snapshot of what the reader is showing
type ViewportState struct {
	CurrentPage int     `json:"current_page"`
	ZoomPercent int     `json:"zoom_percent"`
	FitMode     FitMode `json:"fit_mode"`
}

// BookmarksResponse represents the API response for listing bookmarks
type BookmarksResponse struct {
	Data []Bookmark `json:"data"`
}

// SessionsResponse represents the API response for listing reading sessions
type SessionsResponse struct {
	Data []ReadingSession `json:"data"`
}

// ErrorResponse represents an API error
type ErrorResponse struct {
	Error string `json:"error"`
}
