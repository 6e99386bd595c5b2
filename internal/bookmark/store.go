// Package bookmark keeps a local cache of one comic's bookmarks in step with
// the server. The server is authoritative for ids and timestamps.
package bookmark

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/justyntemme/comics-t/pkg/models"
)

// ErrNotFound is returned when an id is not in the local cache
var ErrNotFound = errors.New("bookmark not found")

// DuplicateBookmarkError is returned by Add when the page is already bookmarked
type DuplicateBookmarkError struct {
	Page int
}

func (e *DuplicateBookmarkError) Error() string {
	return fmt.Sprintf("page %d is already bookmarked", e.Page)
}

// IsDuplicate reports whether err is a *DuplicateBookmarkError
func IsDuplicate(err error) bool {
	var de *DuplicateBookmarkError
	return errors.As(err, &de)
}

// Client is the subset of the API the store depends on
type Client interface {
	ListBookmarks(ctx context.Context, slug string) ([]models.Bookmark, error)
	CreateBookmark(ctx context.Context, slug string, page int, note string) (*models.Bookmark, error)
	UpdateBookmark(ctx context.Context, slug, id, note string) (*models.Bookmark, error)
	DeleteBookmark(ctx context.Context, slug, id string) error
}

// Store caches the bookmarks of one comic
type Store struct {
	client Client
	slug   string
	log    *slog.Logger

	mu     sync.RWMutex
	items  map[string]models.Bookmark
	adding map[int]bool // pages with a create request in flight
	closed bool
}

// NewStore creates an empty store for a comic
func NewStore(client Client, slug string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		client: client,
		slug:   slug,
		log:    log.With(slog.String("component", "bookmarks"), slog.String("comic", slug)),
		items:  make(map[string]models.Bookmark),
		adding: make(map[int]bool),
	}
}

// Load replaces the cache with the server's bookmarks
func (s *Store) Load(ctx context.Context) error {
	list, err := s.client.ListBookmarks(ctx, s.slug)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.items = make(map[string]models.Bookmark, len(list))
	for _, b := range list {
		s.items[b.ID] = b
	}
	return nil
}

// List returns the cached bookmarks ordered by page
func (s *Store) List() []models.Bookmark {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked(func(models.Bookmark) bool { return true })
}

// Len returns the number of cached bookmarks
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Has reports whether a page is already bookmarked
func (s *Store) Has(page int) bool {
	_, ok := s.At(page)
	return ok
}

// At returns the bookmark on a page
func (s *Store) At(page int) (models.Bookmark, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.atLocked(page)
}

func (s *Store) atLocked(page int) (models.Bookmark, bool) {
	for _, b := range s.items {
		if b.Page == page {
			return b, true
		}
	}
	return models.Bookmark{}, false
}

// Add bookmarks a page. A page that is already bookmarked is rejected
// locally with *DuplicateBookmarkError and no request is sent. So is a page
// whose create request is still in flight.
func (s *Store) Add(ctx context.Context, page int, note string) (models.Bookmark, error) {
	s.mu.Lock()
	if _, ok := s.atLocked(page); ok || s.adding[page] {
		s.mu.Unlock()
		return models.Bookmark{}, &DuplicateBookmarkError{Page: page}
	}
	s.adding[page] = true
	s.mu.Unlock()

	created, err := s.client.CreateBookmark(ctx, s.slug, page, note)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.adding, page)
	if err != nil {
		s.log.Warn("create bookmark failed", slog.Int("page", page), slog.Any("error", err))
		return models.Bookmark{}, err
	}
	if !s.closed {
		s.items[created.ID] = *created
	}
	return *created, nil
}

// Update changes a bookmark's note. The cache is updated before the request;
// if the request fails the cache is reloaded from the server.
func (s *Store) Update(ctx context.Context, id, note string) error {
	s.mu.Lock()
	b, ok := s.items[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	b.Note = note
	s.items[id] = b
	s.mu.Unlock()

	updated, err := s.client.UpdateBookmark(ctx, s.slug, id, note)
	if err != nil {
		s.log.Warn("update bookmark failed", slog.String("id", id), slog.Any("error", err))
		s.reconcile(ctx)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.items[updated.ID] = *updated
	}
	return nil
}

// Remove deletes a bookmark. The cache is updated before the request;
// if the request fails the cache is reloaded from the server.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.items[id]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(s.items, id)
	s.mu.Unlock()

	if err := s.client.DeleteBookmark(ctx, s.slug, id); err != nil {
		s.log.Warn("delete bookmark failed", slog.String("id", id), slog.Any("error", err))
		s.reconcile(ctx)
		return err
	}
	return nil
}

// Search matches term case-insensitively against notes, and against the page
// number as text. An empty term matches every bookmark.
func (s *Store) Search(term string) []models.Bookmark {
	term = strings.ToLower(strings.TrimSpace(term))

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked(func(b models.Bookmark) bool {
		if term == "" {
			return true
		}
		return strings.Contains(strings.ToLower(b.Note), term) ||
			strings.Contains(strconv.Itoa(b.Page), term)
	})
}

// Close stops the store from applying any response that arrives later
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// reconcile reloads the cache after a failed optimistic update. When the
// reload fails too, the local state is kept as is.
func (s *Store) reconcile(ctx context.Context) {
	if err := s.Load(ctx); err != nil {
		s.log.Warn("reload bookmarks failed", slog.Any("error", err))
	}
}

func (s *Store) sortedLocked(keep func(models.Bookmark) bool) []models.Bookmark {
	out := make([]models.Bookmark, 0, len(s.items))
	for _, b := range s.items {
		if keep(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Page != out[j].Page {
			return out[i].Page < out[j].Page
		}
		return out[i].ID < out[j].ID
	})
	return out
}
