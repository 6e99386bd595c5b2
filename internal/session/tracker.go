// Package session tracks reading sessions, keeps a local journal of them and
// computes reading statistics from the history.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/justyntemme/comics-t/pkg/models"
)

// DefaultSuspendAfter is the idle gap that ends a session
const DefaultSuspendAfter = 5 * time.Minute

// Recorder persists finished sessions
type Recorder interface {
	Record(ctx context.Context, s models.ReadingSession) error
}

// Uploader sends finished sessions to the server
type Uploader interface {
	RecordSession(ctx context.Context, s models.ReadingSession) error
}

// TrackerOptions configures a Tracker. Journal and Uploader are optional.
type TrackerOptions struct {
	SuspendAfter time.Duration
	Journal      Recorder
	Uploader     Uploader
	Logger       *slog.Logger
	Now          func() time.Time
}

// Tracker turns page views into reading sessions for one comic. A session
// starts on the first page view after open or after an idle gap longer than
// SuspendAfter, and ends on Close or when the gap is noticed.
type Tracker struct {
	slug string
	opts TrackerOptions
	log  *slog.Logger

	mu           sync.Mutex
	active       *models.ReadingSession
	seen         map[int]bool
	lastActivity time.Time

	saving sync.WaitGroup
}

// NewTracker creates a tracker with no active session
func NewTracker(slug string, opts TrackerOptions) *Tracker {
	if opts.SuspendAfter <= 0 {
		opts.SuspendAfter = DefaultSuspendAfter
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Tracker{
		slug: slug,
		opts: opts,
		log:  log.With(slog.String("component", "sessions"), slog.String("comic", slug)),
	}
}

// PageViewed records that a page is on screen
func (t *Tracker) PageViewed(page int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.opts.Now()
	if t.active != nil && now.Sub(t.lastActivity) > t.opts.SuspendAfter {
		t.finishLocked(t.lastActivity)
	}

	if t.active == nil {
		t.active = &models.ReadingSession{
			ID:        newID(),
			ComicSlug: t.slug,
			StartedAt: now,
			StartPage: page,
			IsActive:  true,
		}
		t.seen = make(map[int]bool)
		t.log.Debug("session started", slog.String("id", t.active.ID), slog.Int("page", page))
	}

	t.seen[page] = true
	endPage := page
	t.active.EndPage = &endPage
	t.active.PagesRead = len(t.seen)
	t.lastActivity = now
}

// CheckIdle ends the active session if it has been idle for longer than
// SuspendAfter. It reports whether a session was ended.
func (t *Tracker) CheckIdle() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active == nil || t.opts.Now().Sub(t.lastActivity) <= t.opts.SuspendAfter {
		return false
	}
	t.finishLocked(t.lastActivity)
	return true
}

// Active returns a copy of the session in progress
func (t *Tracker) Active() (models.ReadingSession, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		return models.ReadingSession{}, false
	}
	return *t.active, true
}

// Close ends the active session and waits, until ctx is done, for finished
// sessions to be saved.
func (t *Tracker) Close(ctx context.Context) {
	t.mu.Lock()
	if t.active != nil {
		end := t.opts.Now()
		if end.Sub(t.lastActivity) > t.opts.SuspendAfter {
			end = t.lastActivity
		}
		t.finishLocked(end)
	}
	t.mu.Unlock()

	done := make(chan struct{})
	go func() {
		t.saving.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		t.log.Warn("sessions not saved before close", slog.Any("error", ctx.Err()))
	}
}

func (t *Tracker) finishLocked(end time.Time) {
	s := *t.active
	t.active = nil
	t.seen = nil

	if end.Before(s.StartedAt) {
		end = s.StartedAt
	}
	s.EndedAt = &end
	s.IsActive = false
	s.DurationMinutes = end.Sub(s.StartedAt).Minutes()
	t.log.Debug("session finished",
		slog.String("id", s.ID),
		slog.Int("pages_read", s.PagesRead),
		slog.Float64("minutes", s.DurationMinutes),
	)

	t.saving.Add(1)
	go t.save(s)
}

func (t *Tracker) save(s models.ReadingSession) {
	defer t.saving.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if t.opts.Journal != nil {
		if err := t.opts.Journal.Record(ctx, s); err != nil {
			t.log.Warn("journal session failed", slog.String("id", s.ID), slog.Any("error", err))
		}
	}
	if t.opts.Uploader != nil {
		if err := t.opts.Uploader.RecordSession(ctx, s); err != nil {
			t.log.Warn("upload session failed", slog.String("id", s.ID), slog.Any("error", err))
		}
	}
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
