// Package devserver is an in-memory stand-in for the comics web service.
// It serves the reader's REST endpoints so the client can be run and tested
// without the real backend.
package devserver

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/justyntemme/comics-t/internal/api"
	"github.com/justyntemme/comics-t/pkg/models"
)

// StatusCSRFMismatch mirrors the status the web app returns for a stale CSRF token
const StatusCSRFMismatch = 419

type comicState struct {
	comic     models.Comic
	bookmarks map[string]models.Bookmark
	progress  *models.ProgressRecord
	sessions  map[string]models.ReadingSession
}

// Server holds the fake backend state
type Server struct {
	csrfToken string
	log       *slog.Logger

	mu       sync.Mutex
	comics   map[string]*comicState
	nextID   int
	failures map[string]int
	calls    map[string]int
	now      func() time.Time
}

// New creates an empty server. When csrfToken is set, mutating requests must
// carry it in the X-CSRF-TOKEN header.
func New(csrfToken string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		csrfToken: csrfToken,
		log:       log.With(slog.String("component", "devserver")),
		comics:    make(map[string]*comicState),
		failures:  make(map[string]int),
		calls:     make(map[string]int),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// AddComic registers a comic
func (s *Server) AddComic(c models.Comic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comics[c.Slug] = &comicState{
		comic:     c,
		bookmarks: make(map[string]models.Bookmark),
		sessions:  make(map[string]models.ReadingSession),
	}
}

// Seed registers a few sample comics
func (s *Server) Seed() {
	s.AddComic(models.Comic{Slug: "night-harbor", Title: "Night Harbor", Author: "R. Okafor", TotalPages: 24})
	s.AddComic(models.Comic{Slug: "paper-moons", Title: "Paper Moons", Author: "L. Ferreira", TotalPages: 40})
	s.AddComic(models.Comic{Slug: "the-long-walk-home", Title: "The Long Walk Home", Author: "M. Haddad", TotalPages: 12})
}

// FailNext makes the next n requests with the given method answer 500
func (s *Server) FailNext(method string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method] += n
}

// Calls returns how many requests were received for a method
func (s *Server) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

// Bookmarks returns the stored bookmarks of a comic ordered by page
func (s *Server) Bookmarks(slug string) []models.Bookmark {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.comics[slug]
	if !ok {
		return nil
	}
	return sortedBookmarks(st)
}

// Progress returns the stored progress of a comic
func (s *Server) Progress(slug string) *models.ProgressRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.comics[slug]
	if !ok || st.progress == nil {
		return nil
	}
	rec := *st.progress
	return &rec
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(s.countAndFail)
	r.Use(s.requireXHR)
	r.Use(s.requireCSRF)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/reading-sessions", s.listSessions)

	r.Route("/api/comics/{slug}", func(r chi.Router) {
		r.Get("/", s.getComic)
		r.Get("/pages/{page}", s.getPage)

		r.Get("/bookmarks", s.listBookmarks)
		r.Post("/bookmarks", s.createBookmark)
		r.Patch("/bookmarks/{id}", s.updateBookmark)
		r.Delete("/bookmarks/{id}", s.deleteBookmark)

		r.Get("/progress", s.getProgress)
		r.Patch("/progress", s.updateProgress)

		r.Post("/sessions", s.recordSession)
	})

	return r
}

// Middleware

func (s *Server) countAndFail(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[r.Method]++
		fail := s.failures[r.Method] > 0
		if fail {
			s.failures[r.Method]--
		}
		s.mu.Unlock()

		if fail {
			writeError(w, http.StatusInternalServerError, "injected failure")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireXHR(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(api.HeaderRequestedWith) != "XMLHttpRequest" {
			writeError(w, http.StatusBadRequest, "missing X-Requested-With header")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mutating := r.Method != http.MethodGet && r.Method != http.MethodHead && r.Method != http.MethodOptions
		if mutating && s.csrfToken != "" && r.Header.Get(api.HeaderCSRFToken) != s.csrfToken {
			writeError(w, StatusCSRFMismatch, "CSRF token mismatch")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Handlers

func (s *Server) getComic(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	st, ok := s.comics[chi.URLParam(r, "slug")]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "comic not found")
		return
	}
	writeJSON(w, http.StatusOK, st.comic)
}

func (s *Server) getPage(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	st, ok := s.comics[chi.URLParam(r, "slug")]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "comic not found")
		return
	}

	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil || page < 1 || page > st.comic.TotalPages {
		writeError(w, http.StatusNotFound, "page not found")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, renderPage(page, st.comic.TotalPages)); err != nil {
		s.log.Error("encode page", slog.Int("page", page), slog.Any("error", err))
	}
}

func (s *Server) listBookmarks(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.comics[chi.URLParam(r, "slug")]
	if !ok {
		writeError(w, http.StatusNotFound, "comic not found")
		return
	}
	writeJSON(w, http.StatusOK, models.BookmarksResponse{Data: sortedBookmarks(st)})
}

func (s *Server) createBookmark(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Page int    `json:"page_number"`
		Note string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.comics[chi.URLParam(r, "slug")]
	if !ok {
		writeError(w, http.StatusNotFound, "comic not found")
		return
	}
	if req.Page < 1 || req.Page > st.comic.TotalPages {
		writeError(w, http.StatusUnprocessableEntity, "page out of range")
		return
	}
	for _, b := range st.bookmarks {
		if b.Page == req.Page {
			writeError(w, http.StatusConflict, "page already bookmarked")
			return
		}
	}

	s.nextID++
	now := s.now()
	b := models.Bookmark{
		ID:        strconv.Itoa(s.nextID),
		Page:      req.Page,
		Note:      req.Note,
		CreatedAt: now,
		UpdatedAt: now,
	}
	st.bookmarks[b.ID] = b
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) updateBookmark(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Note string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.comics[chi.URLParam(r, "slug")]
	if !ok {
		writeError(w, http.StatusNotFound, "comic not found")
		return
	}
	b, ok := st.bookmarks[chi.URLParam(r, "id")]
	if !ok {
		writeError(w, http.StatusNotFound, "bookmark not found")
		return
	}
	b.Note = req.Note
	b.UpdatedAt = s.now()
	st.bookmarks[b.ID] = b
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) deleteBookmark(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.comics[chi.URLParam(r, "slug")]
	if !ok {
		writeError(w, http.StatusNotFound, "comic not found")
		return
	}
	id := chi.URLParam(r, "id")
	if _, ok := st.bookmarks[id]; !ok {
		writeError(w, http.StatusNotFound, "bookmark not found")
		return
	}
	delete(st.bookmarks, id)
	writeJSON(w, http.StatusOK, struct{}{})
}

func (s *Server) getProgress(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.comics[chi.URLParam(r, "slug")]
	if !ok {
		writeError(w, http.StatusNotFound, "comic not found")
		return
	}
	if st.progress == nil {
		rec := models.NewProgressRecord(1, st.comic.TotalPages)
		rec.LastReadAt = time.Time{}
		writeJSON(w, http.StatusOK, rec)
		return
	}
	writeJSON(w, http.StatusOK, st.progress)
}

// maxCountedGap caps how much time between two progress updates counts as reading
const maxCountedGap = 5 * time.Minute

func (s *Server) updateProgress(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentPage int `json:"current_page"`
		TotalPages  int `json:"total_pages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.comics[chi.URLParam(r, "slug")]
	if !ok {
		writeError(w, http.StatusNotFound, "comic not found")
		return
	}
	if req.CurrentPage < 1 || req.CurrentPage > st.comic.TotalPages {
		writeError(w, http.StatusUnprocessableEntity, "current_page out of range")
		return
	}

	rec := models.NewProgressRecord(req.CurrentPage, st.comic.TotalPages)
	rec.LastReadAt = s.now()
	if prev := st.progress; prev != nil {
		rec.ReadingTimeMinutes = prev.ReadingTimeMinutes
		if gap := rec.LastReadAt.Sub(prev.LastReadAt); gap > 0 && gap <= maxCountedGap {
			rec.ReadingTimeMinutes += int(gap.Round(time.Minute) / time.Minute)
		}
	}
	st.progress = &rec
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) recordSession(w http.ResponseWriter, r *http.Request) {
	var session models.ReadingSession
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil || session.ID == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	slug := chi.URLParam(r, "slug")
	st, ok := s.comics[slug]
	if !ok {
		writeError(w, http.StatusNotFound, "comic not found")
		return
	}
	session.ComicSlug = slug
	st.sessions[session.ID] = session
	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("comic")

	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ReadingSession
	for key, st := range s.comics {
		if slug != "" && key != slug {
			continue
		}
		for _, session := range st.sessions {
			out = append(out, session)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	writeJSON(w, http.StatusOK, models.SessionsResponse{Data: out})
}

// Helpers

func sortedBookmarks(st *comicState) []models.Bookmark {
	out := make([]models.Bookmark, 0, len(st.bookmarks))
	for _, b := range st.bookmarks {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Page < out[j].Page })
	return out
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Error: msg})
}

// renderPage draws a placeholder page: a tinted panel grid whose hue moves
// with the page number.
func renderPage(page, total int) image.Image {
	const width, height, gutter = 600, 900, 24
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	shade := uint8(40 + 180*page/max(total, 1))
	panel := color.RGBA{R: shade, G: 90, B: 255 - shade, A: 255}
	paper := color.RGBA{R: 245, G: 240, B: 230, A: 255}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, paper)
		}
	}

	rows := 2 + page%2
	panelHeight := (height - gutter*(rows+1)) / rows
	for row := 0; row < rows; row++ {
		top := gutter + row*(panelHeight+gutter)
		for y := top; y < top+panelHeight; y++ {
			for x := gutter; x < width-gutter; x++ {
				img.Set(x, y, panel)
			}
		}
	}
	return img
}

// Addr formats a listen address from a port
func Addr(port int) string {
	return fmt.Sprintf(":%d", port)
}
