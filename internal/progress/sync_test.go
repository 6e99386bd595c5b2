package progress_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/comics-t/internal/progress"
	"github.com/justyntemme/comics-t/pkg/models"
)

// fakeSaver records every call and can hold calls open until released
type fakeSaver struct {
	mu          sync.Mutex
	pages       []int
	inFlight    int
	maxInFlight int
	fail        bool
	gate        chan struct{}
	started     chan int
}

func (f *fakeSaver) UpdateProgress(ctx context.Context, slug string, current, total int) (*models.ProgressRecord, error) {
	f.mu.Lock()
	f.pages = append(f.pages, current)
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	gate, started, fail := f.gate, f.started, f.fail
	f.mu.Unlock()

	if started != nil {
		started <- current
	}
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()

	if fail {
		return nil, errors.New("connection refused")
	}
	rec := models.NewProgressRecord(current, total)
	return &rec, nil
}

func (f *fakeSaver) calls() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.pages...)
}

func testOptions(debounce time.Duration) progress.Options {
	return progress.Options{Debounce: debounce, MinSyncInterval: time.Millisecond}
}

/*
TestSynchronizer_CoalescesRapidChanges verifies that a burst of page changes
inside one debounce window produces a single request for the last page.
*/
func TestSynchronizer_CoalescesRapidChanges(t *testing.T) {
	saver := &fakeSaver{}
	s := progress.NewSynchronizer(saver, "night-harbor", testOptions(50*time.Millisecond))

	for page := 1; page <= 5; page++ {
		s.NotifyPageChanged(page, 20)
	}

	assert.Eventually(t, func() bool { return len(saver.calls()) == 1 }, 2*time.Second, 5*time.Millisecond)

	// Nothing else trails in
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, []int{5}, saver.calls())

	rec, ok := s.Confirmed()
	require.True(t, ok)
	assert.Equal(t, 5, rec.CurrentPage)
}

/*
TestSynchronizer_SingleRequestInFlight verifies that changes arriving during a
request are held and the latest one is sent after it completes.
*/
func TestSynchronizer_SingleRequestInFlight(t *testing.T) {
	saver := &fakeSaver{gate: make(chan struct{}), started: make(chan int, 4)}
	s := progress.NewSynchronizer(saver, "night-harbor", testOptions(10*time.Millisecond))

	// 1. First request starts and blocks
	s.NotifyPageChanged(2, 20)
	assert.Equal(t, 2, <-saver.started)

	// 2. More changes arrive and their debounce windows expire while blocked
	s.NotifyPageChanged(3, 20)
	s.NotifyPageChanged(4, 20)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, []int{2}, saver.calls())

	// 3. Releasing the first request sends the latest queued page
	saver.gate <- struct{}{}
	assert.Equal(t, 4, <-saver.started)
	saver.gate <- struct{}{}

	assert.Eventually(t, func() bool {
		rec, ok := s.Confirmed()
		return ok && rec.CurrentPage == 4
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, []int{2, 4}, saver.calls())
	saver.mu.Lock()
	assert.Equal(t, 1, saver.maxInFlight)
	saver.mu.Unlock()
}

func TestSynchronizer_FlushSendsImmediately(t *testing.T) {
	saver := &fakeSaver{}
	s := progress.NewSynchronizer(saver, "night-harbor", testOptions(time.Hour))

	s.NotifyPageChanged(7, 20)
	s.NotifyPageChanged(8, 20)
	s.Flush(context.Background())

	assert.Equal(t, []int{8}, saver.calls())

	// Nothing left to send
	s.Flush(context.Background())
	assert.Equal(t, []int{8}, saver.calls())
}

func TestSynchronizer_FlushWaitsForInFlight(t *testing.T) {
	saver := &fakeSaver{gate: make(chan struct{}), started: make(chan int, 4)}
	s := progress.NewSynchronizer(saver, "night-harbor", testOptions(5*time.Millisecond))

	s.NotifyPageChanged(1, 20)
	<-saver.started
	s.NotifyPageChanged(9, 20)

	done := make(chan struct{})
	go func() {
		s.Flush(context.Background())
		close(done)
	}()

	// Flush must not fire a second concurrent request
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, []int{1}, saver.calls())

	saver.gate <- struct{}{}
	assert.Equal(t, 9, <-saver.started)
	saver.gate <- struct{}{}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("flush did not return")
	}
	assert.Equal(t, []int{1, 9}, saver.calls())
}

/*
TestSynchronizer_FailuresAreSwallowed verifies that a failed request is logged
and dropped, and the next change is sent normally.
*/
func TestSynchronizer_FailuresAreSwallowed(t *testing.T) {
	saver := &fakeSaver{fail: true}
	s := progress.NewSynchronizer(saver, "night-harbor", testOptions(time.Hour))

	s.NotifyPageChanged(3, 20)
	s.Flush(context.Background())
	_, ok := s.Confirmed()
	assert.False(t, ok)

	saver.mu.Lock()
	saver.fail = false
	saver.mu.Unlock()

	s.NotifyPageChanged(4, 20)
	s.Flush(context.Background())

	rec, ok := s.Confirmed()
	require.True(t, ok)
	assert.Equal(t, 4, rec.CurrentPage)
	assert.Equal(t, []int{3, 4}, saver.calls())
}

func TestSynchronizer_CloseFlushesAndStops(t *testing.T) {
	saver := &fakeSaver{}
	s := progress.NewSynchronizer(saver, "night-harbor", testOptions(time.Hour))

	var confirmed []int
	s.OnConfirmed(func(rec models.ProgressRecord) { confirmed = append(confirmed, rec.CurrentPage) })

	s.NotifyPageChanged(12, 20)
	s.Close(context.Background())
	assert.Equal(t, []int{12}, saver.calls())
	assert.Equal(t, []int{12}, confirmed)

	// Changes after close are ignored
	s.NotifyPageChanged(13, 20)
	s.Flush(context.Background())
	assert.Equal(t, []int{12}, saver.calls())
}

func TestSynchronizer_Seed(t *testing.T) {
	s := progress.NewSynchronizer(&fakeSaver{}, "night-harbor", progress.Options{})
	s.Seed(models.NewProgressRecord(6, 20))

	rec, ok := s.Confirmed()
	require.True(t, ok)
	assert.Equal(t, 6, rec.CurrentPage)
	assert.InDelta(t, 30.0, rec.Percentage, 0.001)
}
