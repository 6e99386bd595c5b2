package views

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/justyntemme/comics-t/internal/api"
	"github.com/justyntemme/comics-t/internal/bookmark"
	"github.com/justyntemme/comics-t/internal/config"
	"github.com/justyntemme/comics-t/internal/progress"
	"github.com/justyntemme/comics-t/internal/reader"
	"github.com/justyntemme/comics-t/internal/session"
	"github.com/justyntemme/comics-t/internal/ui/styles"
	"github.com/justyntemme/comics-t/internal/ui/terminal"
	"github.com/justyntemme/comics-t/pkg/models"
)

const (
	mountTimeout      = 15 * time.Second
	requestTimeout    = 10 * time.Second
	closeTimeout      = 5 * time.Second
	idleCheckInterval = 30 * time.Second

	// Pan moves in 10% increments
	panStep = 0.1

	// Pages kept decoded on either side of the current one
	pageCacheRadius = 2
)

// ReaderOptions holds what a reader needs beyond the comic slug.
// Journal may be nil.
type ReaderOptions struct {
	Client   *api.Client
	Journal  *session.Journal
	Settings config.ReaderSettings
	TermMode terminal.TermImageMode
	Logger   *slog.Logger
}

type overlayMode int

const (
	overlayNone overlayMode = iota
	overlayBookmarks
	overlayNote
	overlaySearch
)

// ReaderView shows one comic page at a time and wires the viewport, gesture
// interpreter, auto-advance timer, bookmark store, progress synchronizer and
// session tracker together
type ReaderView struct {
	opts ReaderOptions
	log  *slog.Logger
	keys ReaderKeyMap
	slug string

	comic     models.Comic
	viewport  *reader.Viewport
	gestures  *reader.Interpreter
	auto      *reader.AutoAdvance
	bookmarks *bookmark.Store
	sync      *progress.Synchronizer
	tracker   *session.Tracker

	loading bool
	err     error
	status  string

	// Decoded pages and the requests in flight
	pages    map[int]image.Image
	failed   map[int]error
	fetching map[int]bool

	// Last rendered page, reused while nothing changes
	rendered  string
	renderKey renderKey

	// Pan position as fraction (0.0 = left/top, 1.0 = right/bottom)
	panX float64
	panY float64

	overlay   overlayMode
	input     textinput.Model
	query     string
	selected  int
	editingID string

	closed bool
	width  int
	height int
}

type renderKey struct {
	page, zoom    int
	fit           models.FitMode
	width, height int
	panX, panY    float64
}

// comicMountedMsg carries the data fetched when the reader opens
type comicMountedMsg struct {
	comic    models.Comic
	progress *models.ProgressRecord
	err      error
}

// pageLoadedMsg is sent when a page image is fetched and decoded
type pageLoadedMsg struct {
	page int
	img  image.Image
	err  error
}

// bookmarkResultMsg reports a finished bookmark request
type bookmarkResultMsg struct {
	status string
	err    error
}

type idleCheckMsg struct{}

// NewReaderView creates a reader for a comic. Nothing is fetched until Init.
func NewReaderView(slug string, opts ReaderOptions) *ReaderView {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	trackerOpts := session.TrackerOptions{
		SuspendAfter: opts.Settings.SuspendAfter.Std(),
		Uploader:     opts.Client,
		Logger:       log,
	}
	if opts.Journal != nil {
		trackerOpts.Journal = opts.Journal
	}

	ti := textinput.New()
	ti.CharLimit = 500
	ti.Width = 50

	return &ReaderView{
		opts:      opts,
		log:       log.With(slog.String("view", "reader"), slog.String("comic", slug)),
		keys:      DefaultReaderKeyMap(),
		slug:      slug,
		gestures:  reader.NewInterpreter(reader.DefaultGestureKeys(), float64(opts.Settings.MouseSwipeCells)),
		auto:      reader.NewAutoAdvance(),
		bookmarks: bookmark.NewStore(opts.Client, slug, log),
		sync: progress.NewSynchronizer(opts.Client, slug, progress.Options{
			Debounce:        opts.Settings.ProgressDebounce.Std(),
			MinSyncInterval: opts.Settings.MinSyncInterval.Std(),
			Logger:          log,
		}),
		tracker:  session.NewTracker(slug, trackerOpts),
		pages:    make(map[int]image.Image),
		failed:   make(map[int]error),
		fetching: make(map[int]bool),
		panX:     0.5,
		input:    ti,
		width:    80,
		height:   24,
	}
}

// Init implements View
func (v *ReaderView) Init() tea.Cmd {
	v.loading = true
	return tea.Batch(v.mount(), v.scheduleIdleCheck())
}

// mount fetches the comic, its bookmarks and its saved progress concurrently.
// Only a failure to fetch the comic itself stops the reader from opening.
func (v *ReaderView) mount() tea.Cmd {
	client, slug, store, log := v.opts.Client, v.slug, v.bookmarks, v.log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), mountTimeout)
		defer cancel()

		var (
			comic *models.Comic
			rec   *models.ProgressRecord
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			c, err := client.GetComic(gctx, slug)
			if err != nil {
				return err
			}
			comic = c
			return nil
		})
		g.Go(func() error {
			if err := store.Load(gctx); err != nil {
				log.Warn("load bookmarks failed", slog.Any("error", err))
			}
			return nil
		})
		g.Go(func() error {
			p, err := client.GetProgress(gctx, slug)
			switch {
			case err == nil:
				rec = p
			case api.StatusOf(err) == http.StatusNotFound:
			default:
				log.Warn("load progress failed", slog.Any("error", err))
			}
			return nil
		})
		if err := g.Wait(); err != nil {
			return comicMountedMsg{err: err}
		}
		return comicMountedMsg{comic: *comic, progress: rec}
	}
}

func (v *ReaderView) handleMounted(msg comicMountedMsg) tea.Cmd {
	v.loading = false
	if v.closed {
		return nil
	}
	if msg.err != nil {
		v.err = msg.err
		return nil
	}

	start := 1
	if msg.progress != nil {
		start = msg.progress.CurrentPage
		v.sync.Seed(*msg.progress)
	}

	vp, err := reader.NewViewport(msg.comic.TotalPages, start)
	if err != nil {
		v.err = err
		return nil
	}
	vp.OnPageChange(v.pageChanged)

	v.comic = msg.comic
	v.viewport = vp
	v.err = nil
	v.tracker.PageViewed(vp.Page())
	v.log.Info("comic opened", slog.Int("page", vp.Page()), slog.Int("total_pages", vp.TotalPages()))

	comic := msg.comic
	return tea.Batch(v.ensurePages(), func() tea.Msg {
		return ComicOpenedMsg{Comic: comic}
	})
}

// pageChanged runs on every effective page change
func (v *ReaderView) pageChanged(page, totalPages int) {
	v.sync.NotifyPageChanged(page, totalPages)
	v.tracker.PageViewed(page)
	v.panX, v.panY = 0.5, 0
}

// Update implements View
func (v *ReaderView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case comicMountedMsg:
		return v, v.handleMounted(msg)

	case pageLoadedMsg:
		delete(v.fetching, msg.page)
		if msg.err != nil {
			v.failed[msg.page] = msg.err
			v.log.Warn("load page failed", slog.Int("page", msg.page), slog.Any("error", msg.err))
		} else {
			v.pages[msg.page] = msg.img
			delete(v.failed, msg.page)
		}
		v.evictPages()
		return v, nil

	case reader.TickMsg:
		if v.viewport == nil || v.closed {
			return v, nil
		}
		cmd := v.auto.Update(msg, v.viewport.Next)
		return v, tea.Batch(cmd, v.ensurePages())

	case idleCheckMsg:
		if v.closed {
			return v, nil
		}
		if v.tracker.CheckIdle() {
			v.log.Debug("session suspended after idle gap")
		}
		return v, v.scheduleIdleCheck()

	case bookmarkResultMsg:
		v.clampSelection()
		if msg.err != nil {
			if bookmark.IsDuplicate(msg.err) {
				v.status = "Already bookmarked"
				return v, nil
			}
			v.status = ""
			return v, SendError(msg.err)
		}
		v.status = msg.status
		return v, nil

	case tea.MouseMsg:
		if v.viewport == nil || v.overlay != overlayNone {
			return v, nil
		}
		return v, v.apply(v.gestures.Mouse(msg))

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	if v.Typing() {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *ReaderView) handleKey(msg tea.KeyMsg) (View, tea.Cmd) {
	v.status = ""

	if v.viewport == nil {
		if key.Matches(msg, v.keys.Cancel) {
			return v, closeReader
		}
		return v, nil
	}

	switch v.overlay {
	case overlayNote, overlaySearch:
		return v.handleInputKey(msg)
	case overlayBookmarks:
		return v.handleBookmarksKey(msg)
	}

	if intent := v.gestures.Key(msg, v.Typing()); intent != reader.IntentNone {
		return v, v.apply(intent)
	}

	switch {
	case key.Matches(msg, v.keys.First):
		v.viewport.First()
		return v, v.ensurePages()
	case key.Matches(msg, v.keys.Last):
		v.viewport.Last()
		return v, v.ensurePages()
	case key.Matches(msg, v.keys.Fit):
		v.status = "Fit: " + string(v.viewport.CycleFitMode())
	case key.Matches(msg, v.keys.ResetZoom):
		v.viewport.ResetZoom()
		v.panX, v.panY = 0.5, 0
	case key.Matches(msg, v.keys.PanLeft):
		v.panX = max(0, v.panX-panStep)
	case key.Matches(msg, v.keys.PanRight):
		v.panX = min(1, v.panX+panStep)
	case key.Matches(msg, v.keys.PanUp):
		v.panY = max(0, v.panY-panStep)
	case key.Matches(msg, v.keys.PanDown):
		v.panY = min(1, v.panY+panStep)
	case key.Matches(msg, v.keys.AutoAdvance):
		cmd := v.auto.Toggle(v.opts.Settings.AutoAdvanceInterval.Std())
		v.status = "Auto-advance " + strings.ToLower(v.auto.State().String())
		return v, cmd
	case key.Matches(msg, v.keys.AddBookmark):
		return v, v.beginAddBookmark()
	case key.Matches(msg, v.keys.Bookmarks):
		v.overlay = overlayBookmarks
		v.query = ""
		v.selected = 0
	}
	return v, nil
}

// apply carries out an intent from the gesture interpreter
func (v *ReaderView) apply(intent reader.Intent) tea.Cmd {
	switch intent {
	case reader.IntentNone:
		return nil
	case reader.IntentClose:
		return closeReader
	}
	v.viewport.Apply(intent)
	return v.ensurePages()
}

func closeReader() tea.Msg { return CloseReaderMsg{} }

func (v *ReaderView) beginAddBookmark() tea.Cmd {
	page := v.viewport.Page()
	if v.bookmarks.Has(page) {
		v.status = "Already bookmarked"
		return nil
	}
	v.overlay = overlayNote
	v.editingID = ""
	v.input.Placeholder = "Note (optional)"
	v.input.SetValue("")
	return v.input.Focus()
}

func (v *ReaderView) handleInputKey(msg tea.KeyMsg) (View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if v.overlay == overlaySearch {
			v.input.Blur()
			v.overlay = overlayBookmarks
			return v, nil
		}
		v.closeNote()
		return v, nil

	case tea.KeyEnter:
		if v.overlay == overlaySearch {
			v.input.Blur()
			v.overlay = overlayBookmarks
			return v, nil
		}
		note := strings.TrimSpace(v.input.Value())
		id := v.editingID
		v.closeNote()
		if id != "" {
			return v, v.updateBookmark(id, note)
		}
		return v, v.addBookmark(v.viewport.Page(), note)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	if v.overlay == overlaySearch {
		v.query = v.input.Value()
		v.selected = 0
	}
	return v, cmd
}

func (v *ReaderView) closeNote() {
	v.input.Blur()
	if v.editingID != "" {
		v.overlay = overlayBookmarks
	} else {
		v.overlay = overlayNone
	}
	v.editingID = ""
}

func (v *ReaderView) handleBookmarksKey(msg tea.KeyMsg) (View, tea.Cmd) {
	items := v.bookmarks.Search(v.query)

	switch {
	case key.Matches(msg, v.keys.Cancel):
		if v.query != "" {
			v.query = ""
			v.selected = 0
			return v, nil
		}
		v.overlay = overlayNone
	case key.Matches(msg, v.keys.Up):
		if v.selected > 0 {
			v.selected--
		}
	case key.Matches(msg, v.keys.Down):
		if v.selected < len(items)-1 {
			v.selected++
		}
	case key.Matches(msg, v.keys.Jump):
		if len(items) > 0 {
			v.viewport.SetPage(items[v.selected].Page)
			v.overlay = overlayNone
			return v, v.ensurePages()
		}
	case key.Matches(msg, v.keys.Edit):
		if len(items) > 0 {
			b := items[v.selected]
			v.editingID = b.ID
			v.overlay = overlayNote
			v.input.Placeholder = "Note"
			v.input.SetValue(b.Note)
			return v, v.input.Focus()
		}
	case key.Matches(msg, v.keys.Delete):
		if len(items) > 0 {
			return v, v.removeBookmark(items[v.selected].ID)
		}
	case key.Matches(msg, v.keys.Search):
		v.overlay = overlaySearch
		v.input.Placeholder = "Search notes or page number"
		v.input.SetValue(v.query)
		return v, v.input.Focus()
	}
	return v, nil
}

func (v *ReaderView) clampSelection() {
	n := len(v.bookmarks.Search(v.query))
	if v.selected >= n {
		v.selected = max(0, n-1)
	}
}

func (v *ReaderView) addBookmark(page int, note string) tea.Cmd {
	store := v.bookmarks
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if _, err := store.Add(ctx, page, note); err != nil {
			return bookmarkResultMsg{err: err}
		}
		return bookmarkResultMsg{status: fmt.Sprintf("Bookmarked page %d", page)}
	}
}

func (v *ReaderView) updateBookmark(id, note string) tea.Cmd {
	store := v.bookmarks
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := store.Update(ctx, id, note); err != nil {
			return bookmarkResultMsg{err: err}
		}
		return bookmarkResultMsg{status: "Note saved"}
	}
}

func (v *ReaderView) removeBookmark(id string) tea.Cmd {
	store := v.bookmarks
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := store.Remove(ctx, id); err != nil {
			return bookmarkResultMsg{err: err}
		}
		return bookmarkResultMsg{status: "Bookmark removed"}
	}
}

// ensurePages requests the current page and its successor when they are
// neither cached nor already being fetched
func (v *ReaderView) ensurePages() tea.Cmd {
	if v.viewport == nil {
		return nil
	}
	var cmds []tea.Cmd
	for _, page := range []int{v.viewport.Page(), v.viewport.Page() + 1} {
		if page > v.viewport.TotalPages() || v.fetching[page] {
			continue
		}
		if _, ok := v.pages[page]; ok {
			continue
		}
		v.fetching[page] = true
		cmds = append(cmds, v.loadPage(page))
	}
	return tea.Batch(cmds...)
}

func (v *ReaderView) loadPage(page int) tea.Cmd {
	client, slug := v.opts.Client, v.slug
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		data, _, err := client.GetPageImage(ctx, slug, page)
		if err != nil {
			return pageLoadedMsg{page: page, err: err}
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return pageLoadedMsg{page: page, err: fmt.Errorf("decode page %d: %w", page, err)}
		}
		return pageLoadedMsg{page: page, img: img}
	}
}

func (v *ReaderView) evictPages() {
	if v.viewport == nil {
		return
	}
	current := v.viewport.Page()
	for page := range v.pages {
		if page < current-pageCacheRadius || page > current+pageCacheRadius {
			delete(v.pages, page)
		}
	}
}

func (v *ReaderView) scheduleIdleCheck() tea.Cmd {
	return tea.Tick(idleCheckInterval, func(time.Time) tea.Msg {
		return idleCheckMsg{}
	})
}

// Close stops the auto-advance timer, flushes pending progress, ends the
// reading session and detaches the bookmark store. It is safe to call twice.
func (v *ReaderView) Close() {
	if v.closed {
		return
	}
	v.closed = true
	v.auto.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	v.sync.Close(ctx)
	v.tracker.Close(ctx)
	v.bookmarks.Close()

	terminal.WriteClearImages(v.opts.TermMode)
	v.log.Info("comic closed")
}

// Slug returns the comic being read
func (v *ReaderView) Slug() string { return v.slug }

// Comic returns the comic info once mounted
func (v *ReaderView) Comic() models.Comic { return v.comic }

// Viewport returns nil until the comic is mounted
func (v *ReaderView) Viewport() *reader.Viewport { return v.viewport }

// Typing reports whether a text input has focus
func (v *ReaderView) Typing() bool {
	return v.overlay == overlayNote || v.overlay == overlaySearch
}

// AutoAdvancing reports whether the auto-advance timer runs
func (v *ReaderView) AutoAdvancing() bool { return v.auto.Running() }

// TermMode returns the image protocol pages are drawn with
func (v *ReaderView) TermMode() terminal.TermImageMode { return v.opts.TermMode }

// Status returns the transient status line
func (v *ReaderView) Status() string { return v.status }

// View implements View
func (v *ReaderView) View() string {
	var b strings.Builder

	b.WriteString(v.renderHeader() + "\n")

	contentHeight := v.contentHeight()
	switch {
	case v.loading:
		b.WriteString(v.placeCentered(contentHeight, styles.MutedText.Render("Loading comic...")))
	case v.viewport == nil && v.err != nil:
		b.WriteString(v.placeCentered(contentHeight, styles.ErrorStyle.Render("Error: "+v.err.Error())))
	case v.viewport == nil:
		b.WriteString(v.placeCentered(contentHeight, ""))
	case v.overlay != overlayNone:
		b.WriteString(v.placeCentered(contentHeight, v.renderOverlay()))
	default:
		b.WriteString(v.renderPage(contentHeight))
	}

	b.WriteString("\n")
	b.WriteString(v.renderFooter())

	return b.String()
}

func (v *ReaderView) contentHeight() int {
	return max(1, v.height-4) // Header + footer + margins
}

func (v *ReaderView) placeCentered(height int, content string) string {
	return lipgloss.Place(v.width, height, lipgloss.Center, lipgloss.Center, content)
}

func (v *ReaderView) renderHeader() string {
	title := v.comic.Title
	if title == "" {
		title = v.slug
	}
	maxTitleWidth := 40
	if v.width > 0 && v.width/2 < maxTitleWidth {
		maxTitleWidth = v.width / 2
	}
	left := styles.ComicTitle.Render(styles.TruncateText(title, maxTitleWidth))
	if v.comic.Author != "" && v.width >= 60 {
		left += " " + styles.ComicAuthor.Render(v.comic.Author)
	}

	var right []string
	if v.viewport != nil {
		page := v.viewport.Page()
		if v.bookmarks.Has(page) {
			right = append(right, styles.BookmarkBadge.Render("★"))
		}
		if v.auto.Running() {
			right = append(right, styles.AutoBadge.Render("AUTO"))
		}
		info := fmt.Sprintf("%d/%d", page, v.viewport.TotalPages())
		if zoom := v.viewport.Zoom(); zoom != reader.DefaultZoom {
			info += fmt.Sprintf(" [%d%%]", zoom)
		}
		info += " " + string(v.viewport.FitMode())
		if rec, ok := v.sync.Confirmed(); ok {
			info += fmt.Sprintf(" · saved %.0f%%", rec.Percentage)
		}
		right = append(right, styles.MutedText.Render(info))
	}
	rightPart := strings.Join(right, " ")

	gap := v.width - lipgloss.Width(left) - lipgloss.Width(rightPart)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + rightPart
}

func (v *ReaderView) renderPage(height int) string {
	page := v.viewport.Page()

	if err, ok := v.failed[page]; ok {
		return v.placeCentered(height, styles.ErrorStyle.Render("Error: "+err.Error()))
	}
	if v.opts.TermMode == terminal.TermModeNone {
		return v.placeCentered(height, styles.MutedText.Render(fmt.Sprintf(
			"Page %d of %d\n\nTerminal does not support images.\n\nSupported terminals: Kitty, iTerm2, or Sixel-capable terminals.",
			page, v.viewport.TotalPages())))
	}
	img, ok := v.pages[page]
	if !ok {
		return v.placeCentered(height, styles.MutedText.Render(fmt.Sprintf("Loading page %d...", page)))
	}

	rk := renderKey{
		page:   page,
		zoom:   v.viewport.Zoom(),
		fit:    v.viewport.FitMode(),
		width:  v.width,
		height: height,
		panX:   v.panX,
		panY:   v.panY,
	}
	if rk == v.renderKey && v.rendered != "" {
		return v.rendered
	}

	out, err := terminal.RenderPage(img, terminal.Frame{
		Fit:  rk.fit,
		Zoom: rk.zoom,
		Cols: v.width,
		Rows: height,
		PanX: v.panX,
		PanY: v.panY,
	}, v.opts.TermMode)
	if err != nil {
		return styles.ErrorStyle.Render("Render error: " + err.Error())
	}
	v.rendered, v.renderKey = out, rk
	return out
}

func (v *ReaderView) renderOverlay() string {
	switch v.overlay {
	case overlayNote:
		title := fmt.Sprintf("Bookmark page %d", v.viewport.Page())
		if v.editingID != "" {
			title = "Edit note"
		}
		return styles.Dialog.Width(60).Render(
			styles.DialogTitle.Render(title) + "\n" +
				styles.InputFieldFocused.Render(v.input.View()) + "\n\n" +
				styles.Help.Render("Enter save · Esc cancel"),
		)
	default:
		return v.renderBookmarks()
	}
}

func (v *ReaderView) renderBookmarks() string {
	items := v.bookmarks.Search(v.query)

	var b strings.Builder
	b.WriteString(styles.DialogTitle.Render(fmt.Sprintf("Bookmarks (%d)", v.bookmarks.Len())) + "\n")

	switch {
	case v.overlay == overlaySearch:
		b.WriteString(styles.InputFieldFocused.Render(v.input.View()) + "\n")
	case v.query != "":
		b.WriteString(styles.SecondaryText.Render("Search: "+v.query) + "\n")
	}

	if len(items) == 0 {
		msg := "No bookmarks yet. Press b on a page to add one."
		if v.query != "" {
			msg = "No bookmarks match."
		}
		b.WriteString(styles.MutedText.Render(msg))
	}
	for i, bm := range items {
		when := bm.UpdatedAt
		if when.IsZero() {
			when = bm.CreatedAt
		}
		note := bm.Note
		if note == "" {
			note = "—"
		}
		line := fmt.Sprintf("p. %-4d %-34s %s", bm.Page, styles.TruncateText(note, 34), humanize.Time(when))
		if i == v.selected {
			b.WriteString(styles.ListItemSelected.Render(line))
		} else {
			b.WriteString(styles.ListItem.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n" + styles.Help.Render("Enter go · e edit · d delete · / search · Esc close"))
	return styles.Dialog.Render(b.String())
}

func (v *ReaderView) renderFooter() string {
	if v.status != "" {
		return styles.FooterBar.Width(v.width).Render(styles.SuccessStyle.Render(v.status))
	}

	help := []string{
		styles.HelpKey.Render("←/→") + styles.Help.Render(" page"),
		styles.HelpKey.Render("+/-") + styles.Help.Render(" zoom"),
		styles.HelpKey.Render("f") + styles.Help.Render(" fit"),
		styles.HelpKey.Render("b/B") + styles.Help.Render(" bookmarks"),
		styles.HelpKey.Render("a") + styles.Help.Render(" auto"),
		styles.HelpKey.Render("s") + styles.Help.Render(" stats"),
		styles.HelpKey.Render("q") + styles.Help.Render(" quit"),
	}
	return styles.FooterBar.Width(v.width).Render(strings.Join(help, "  "))
}

// SetSize implements View
func (v *ReaderView) SetSize(width, height int) {
	v.width = width
	v.height = height
}
