package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/comics-t/pkg/models"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type memRecorder struct {
	mu       sync.Mutex
	sessions []models.ReadingSession
	err      error
}

func (m *memRecorder) Record(_ context.Context, s models.ReadingSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = append(m.sessions, s)
	return m.err
}

func (m *memRecorder) RecordSession(ctx context.Context, s models.ReadingSession) error {
	return m.Record(ctx, s)
}

func (m *memRecorder) all() []models.ReadingSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.ReadingSession(nil), m.sessions...)
}

func newTestTracker() (*Tracker, *fakeClock, *memRecorder) {
	clock := &fakeClock{now: testNow}
	rec := &memRecorder{}
	tr := NewTracker("night-harbor", TrackerOptions{
		SuspendAfter: 5 * time.Minute,
		Journal:      rec,
		Now:          clock.Now,
	})
	return tr, clock, rec
}

/*
TestTracker_SessionLifecycle verifies start on first view, page counting and
the record written on close.
*/
func TestTracker_SessionLifecycle(t *testing.T) {
	tr, clock, rec := newTestTracker()

	_, ok := tr.Active()
	assert.False(t, ok)

	// 1. First view starts a session
	tr.PageViewed(3)
	active, ok := tr.Active()
	require.True(t, ok)
	assert.True(t, active.IsActive)
	assert.Equal(t, 3, active.StartPage)
	assert.NotEmpty(t, active.ID)

	// 2. Revisited pages count once
	clock.Advance(time.Minute)
	tr.PageViewed(4)
	clock.Advance(time.Minute)
	tr.PageViewed(3)
	clock.Advance(time.Minute)
	tr.PageViewed(5)

	// 3. Close finishes and saves it
	clock.Advance(time.Minute)
	tr.Close(context.Background())

	_, ok = tr.Active()
	assert.False(t, ok)

	saved := rec.all()
	require.Len(t, saved, 1)
	s := saved[0]
	assert.False(t, s.IsActive)
	assert.Equal(t, 3, s.PagesRead)
	require.NotNil(t, s.EndPage)
	assert.Equal(t, 5, *s.EndPage)
	require.NotNil(t, s.EndedAt)
	assert.InDelta(t, 4.0, s.DurationMinutes, 1e-9)
	assert.Equal(t, "night-harbor", s.ComicSlug)
}

func TestTracker_IdleGapSplitsSessions(t *testing.T) {
	tr, clock, rec := newTestTracker()

	tr.PageViewed(1)
	clock.Advance(2 * time.Minute)
	tr.PageViewed(2)
	first, _ := tr.Active()

	// Gap longer than SuspendAfter: the first session ends at its last activity
	clock.Advance(30 * time.Minute)
	tr.PageViewed(3)
	second, ok := tr.Active()
	require.True(t, ok)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 3, second.StartPage)

	tr.Close(context.Background())

	saved := rec.all()
	require.Len(t, saved, 2)
	var got models.ReadingSession
	for _, s := range saved {
		if s.ID == first.ID {
			got = s
		}
	}
	require.Equal(t, first.ID, got.ID)
	assert.InDelta(t, 2.0, got.DurationMinutes, 1e-9)
	assert.Equal(t, 2, got.PagesRead)
}

func TestTracker_CheckIdle(t *testing.T) {
	tr, clock, rec := newTestTracker()

	assert.False(t, tr.CheckIdle())

	tr.PageViewed(1)
	clock.Advance(time.Minute)
	assert.False(t, tr.CheckIdle())

	clock.Advance(10 * time.Minute)
	assert.True(t, tr.CheckIdle())

	tr.Close(context.Background())
	saved := rec.all()
	require.Len(t, saved, 1)
	assert.InDelta(t, 0.0, saved[0].DurationMinutes, 1e-9)
}

func TestTracker_CloseAfterLongIdleEndsAtLastActivity(t *testing.T) {
	tr, clock, rec := newTestTracker()

	tr.PageViewed(1)
	clock.Advance(3 * time.Minute)
	tr.PageViewed(2)
	clock.Advance(time.Hour)
	tr.Close(context.Background())

	saved := rec.all()
	require.Len(t, saved, 1)
	assert.InDelta(t, 3.0, saved[0].DurationMinutes, 1e-9)
}

func TestTracker_UploadFailureIsLogged(t *testing.T) {
	clock := &fakeClock{now: testNow}
	journal := &memRecorder{}
	uploader := &memRecorder{err: errors.New("offline")}
	tr := NewTracker("night-harbor", TrackerOptions{Journal: journal, Uploader: uploader, Now: clock.Now})

	tr.PageViewed(1)
	clock.Advance(time.Minute)
	tr.Close(context.Background())

	assert.Len(t, journal.all(), 1)
	assert.Len(t, uploader.all(), 1)
}
