// Package progress pushes the reader's page position to the server.
//
// Page changes are debounced and coalesced: only the latest value is sent,
// at most one request is in flight per comic, and a value that arrives while
// a request is running is sent after it finishes. Failures are logged and
// dropped; the next page change is the retry.
package progress

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/justyntemme/comics-t/pkg/models"
)

// Defaults
const (
	DefaultDebounce        = 750 * time.Millisecond
	DefaultMinSyncInterval = 250 * time.Millisecond
	DefaultRequestTimeout  = 10 * time.Second
)

// Saver is the subset of the API the synchronizer depends on
type Saver interface {
	UpdateProgress(ctx context.Context, slug string, currentPage, totalPages int) (*models.ProgressRecord, error)
}

// Options configures a Synchronizer. Zero values pick the defaults.
type Options struct {
	Debounce        time.Duration
	MinSyncInterval time.Duration
	RequestTimeout  time.Duration
	Logger          *slog.Logger
}

type update struct {
	page, total int
}

// Synchronizer debounces page changes into progress updates for one comic
type Synchronizer struct {
	saver   Saver
	slug    string
	opts    Options
	log     *slog.Logger
	limiter *rate.Limiter

	mu          sync.Mutex
	pending     *update
	timer       *time.Timer
	timerGen    int
	inFlight    bool
	idle        chan struct{}
	closed      bool
	confirmed   *models.ProgressRecord
	onConfirmed func(models.ProgressRecord)
}

// NewSynchronizer creates a synchronizer for a comic
func NewSynchronizer(saver Saver, slug string, opts Options) *Synchronizer {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.MinSyncInterval <= 0 {
		opts.MinSyncInterval = DefaultMinSyncInterval
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	idle := make(chan struct{})
	close(idle)

	return &Synchronizer{
		saver:   saver,
		slug:    slug,
		opts:    opts,
		log:     log.With(slog.String("component", "progress"), slog.String("comic", slug)),
		limiter: rate.NewLimiter(rate.Every(opts.MinSyncInterval), 1),
		idle:    idle,
	}
}

// OnConfirmed registers fn to receive every server-confirmed record.
// It is called from the goroutine that sent the request.
func (s *Synchronizer) OnConfirmed(fn func(models.ProgressRecord)) {
	s.mu.Lock()
	s.onConfirmed = fn
	s.mu.Unlock()
}

// Seed sets the last confirmed record, e.g. the progress fetched on open
func (s *Synchronizer) Seed(rec models.ProgressRecord) {
	s.mu.Lock()
	s.confirmed = &rec
	s.mu.Unlock()
}

// Confirmed returns the last record the server confirmed
func (s *Synchronizer) Confirmed() (models.ProgressRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.confirmed == nil {
		return models.ProgressRecord{}, false
	}
	return *s.confirmed, true
}

// NotifyPageChanged records the latest page and restarts the debounce window
func (s *Synchronizer) NotifyPageChanged(page, totalPages int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.pending = &update{page: page, total: totalPages}
	s.stopTimerLocked()
	gen := s.timerGen
	s.timer = time.AfterFunc(s.opts.Debounce, func() { s.onTimer(gen) })
}

// Flush sends the latest pending page now. If a request is in flight it waits
// for it first. It returns early only when ctx is done.
func (s *Synchronizer) Flush(ctx context.Context) {
	for {
		s.mu.Lock()
		s.stopTimerLocked()
		if !s.inFlight {
			u, ok := s.beginLocked()
			s.mu.Unlock()
			if ok {
				s.run(ctx, u)
			}
			return
		}
		idle := s.idle
		s.mu.Unlock()

		// With no timer armed, the running request sends the pending value itself
		select {
		case <-idle:
		case <-ctx.Done():
			return
		}
	}
}

// Close flushes and then stops accepting page changes. Responses that arrive
// after Close are not reported.
func (s *Synchronizer) Close(ctx context.Context) {
	s.Flush(ctx)

	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *Synchronizer) onTimer(gen int) {
	s.mu.Lock()
	if gen != s.timerGen {
		// Superseded by a newer page change or by Flush
		s.mu.Unlock()
		return
	}
	s.timer = nil
	u, ok := s.beginLocked()
	s.mu.Unlock()

	if ok {
		s.run(context.Background(), u)
	}
}

func (s *Synchronizer) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.timerGen++
}

// beginLocked claims the in-flight slot and takes the pending value
func (s *Synchronizer) beginLocked() (update, bool) {
	if s.inFlight || s.pending == nil {
		return update{}, false
	}
	u := *s.pending
	s.pending = nil
	s.inFlight = true
	s.idle = make(chan struct{})
	return u, true
}

// run sends u, then keeps sending whatever queued up meanwhile, until nothing
// is pending or a new debounce window is open.
func (s *Synchronizer) run(ctx context.Context, u update) {
	for {
		s.push(ctx, u)

		s.mu.Lock()
		if s.pending == nil || s.timer != nil {
			s.inFlight = false
			close(s.idle)
			s.mu.Unlock()
			return
		}
		u = *s.pending
		s.pending = nil
		s.mu.Unlock()
	}
}

func (s *Synchronizer) push(ctx context.Context, u update) {
	if err := s.limiter.Wait(ctx); err != nil {
		s.log.Warn("progress update skipped", slog.Int("page", u.page), slog.Any("error", err))
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx, s.opts.RequestTimeout)
	defer cancel()

	rec, err := s.saver.UpdateProgress(reqCtx, s.slug, u.page, u.total)
	if err != nil {
		s.log.Warn("progress update failed", slog.Int("page", u.page), slog.Any("error", err))
		return
	}
	s.log.Debug("progress saved", slog.Int("page", rec.CurrentPage), slog.Float64("percentage", rec.Percentage))

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.confirmed = rec
	fn := s.onConfirmed
	s.mu.Unlock()

	if fn != nil {
		fn(*rec)
	}
}
