package views

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/comics-t/internal/api"
	"github.com/justyntemme/comics-t/internal/config"
	"github.com/justyntemme/comics-t/internal/devserver"
	"github.com/justyntemme/comics-t/internal/ui/terminal"
)

type readerFixture struct {
	view    *ReaderView
	backend *devserver.Server
	client  *api.Client
}

func newReaderFixture(t *testing.T, slug string, tune func(*config.ReaderSettings)) *readerFixture {
	t.Helper()

	backend := devserver.New("", nil)
	backend.Seed()
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, "")
	settings := config.DefaultReaderSettings()
	// Only Close sends progress
	settings.ProgressDebounce = config.Duration(time.Hour)
	if tune != nil {
		tune(&settings)
	}

	v := NewReaderView(slug, ReaderOptions{
		Client:   client,
		Settings: settings,
		TermMode: terminal.TermModeNone,
	})
	v.SetSize(100, 40)
	t.Cleanup(v.Close)
	return &readerFixture{view: v, backend: backend, client: client}
}

func (f *readerFixture) mount(t *testing.T) {
	t.Helper()
	f.view.loading = true
	f.view.Update(f.view.mount()())
}

func (f *readerFixture) press(msg tea.KeyMsg) tea.Cmd {
	_, cmd := f.view.Update(msg)
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestReader_MountResumesSavedPage(t *testing.T) {
	f := newReaderFixture(t, "night-harbor", nil)
	_, err := f.client.UpdateProgress(context.Background(), "night-harbor", 7, 24)
	require.NoError(t, err)

	f.mount(t)

	require.NotNil(t, f.view.Viewport())
	assert.Equal(t, 7, f.view.Viewport().Page())
	assert.Equal(t, 24, f.view.Viewport().TotalPages())
	assert.Equal(t, "Night Harbor", f.view.Comic().Title)
	assert.False(t, f.view.loading)
}

func TestReader_MountFailureShowsErrorAndEscCloses(t *testing.T) {
	f := newReaderFixture(t, "no-such-comic", nil)
	f.mount(t)

	assert.Nil(t, f.view.Viewport())
	assert.Contains(t, f.view.View(), "Error")

	cmd := f.press(keyEsc)
	require.NotNil(t, cmd)
	assert.IsType(t, CloseReaderMsg{}, cmd())
}

func TestReader_CloseFlushesProgressAndSession(t *testing.T) {
	f := newReaderFixture(t, "night-harbor", nil)
	f.mount(t)

	f.press(keyRight)
	f.press(keyRight)
	require.Equal(t, 3, f.view.Viewport().Page())
	assert.Nil(t, f.backend.Progress("night-harbor"), "debounced update must not be sent yet")

	f.view.Close()

	rec := f.backend.Progress("night-harbor")
	require.NotNil(t, rec)
	assert.Equal(t, 3, rec.CurrentPage)

	sessions, err := f.client.ListSessions(context.Background(), "night-harbor")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, 3, sessions[0].PagesRead)
	assert.Equal(t, 1, sessions[0].StartPage)
}

func TestReader_MountAfterCloseIsIgnored(t *testing.T) {
	f := newReaderFixture(t, "night-harbor", nil)
	f.view.loading = true
	msg := f.view.mount()()

	f.view.Close()
	f.view.Update(msg)

	assert.Nil(t, f.view.Viewport())
	sessions, err := f.client.ListSessions(context.Background(), "night-harbor")
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestReader_AddBookmarkAndDuplicate(t *testing.T) {
	f := newReaderFixture(t, "night-harbor", nil)
	f.mount(t)

	f.press(runes("b"))
	require.True(t, f.view.Typing())

	// Navigation keys go to the input while typing
	f.press(keyRight)
	assert.Equal(t, 1, f.view.Viewport().Page())

	f.press(runes("splash page"))
	cmd := f.press(keyEnter)
	require.NotNil(t, cmd)
	f.view.Update(cmd())

	assert.False(t, f.view.Typing())
	assert.Equal(t, "Bookmarked page 1", f.view.Status())
	saved := f.backend.Bookmarks("night-harbor")
	require.Len(t, saved, 1)
	assert.Equal(t, "splash page", saved[0].Note)

	posts := f.backend.Calls("POST")
	f.press(runes("b"))
	assert.False(t, f.view.Typing())
	assert.Equal(t, "Already bookmarked", f.view.Status())
	assert.Equal(t, posts, f.backend.Calls("POST"))
}

func TestReader_BookmarkSearchAndJump(t *testing.T) {
	f := newReaderFixture(t, "night-harbor", nil)
	ctx := context.Background()
	_, err := f.client.CreateBookmark(ctx, "night-harbor", 5, "Harbor fight")
	require.NoError(t, err)
	_, err = f.client.CreateBookmark(ctx, "night-harbor", 12, "Quiet morning")
	require.NoError(t, err)

	f.mount(t)

	f.press(runes("B"))
	f.press(runes("/"))
	require.True(t, f.view.Typing())
	f.press(runes("quiet"))
	assert.Contains(t, f.view.View(), "Quiet morning")

	f.press(keyEnter) // leave the search field
	f.press(keyEnter) // jump to the match

	assert.Equal(t, 12, f.view.Viewport().Page())
	assert.Equal(t, overlayNone, f.view.overlay)
}

func TestReader_AutoAdvance(t *testing.T) {
	f := newReaderFixture(t, "the-long-walk-home", func(s *config.ReaderSettings) {
		s.AutoAdvanceInterval = config.Duration(10 * time.Millisecond)
	})
	f.mount(t)

	cmd := f.press(runes("a"))
	require.NotNil(t, cmd)
	assert.True(t, f.view.AutoAdvancing())

	f.view.Update(cmd())
	assert.Equal(t, 2, f.view.Viewport().Page())

	f.press(runes("a"))
	assert.False(t, f.view.AutoAdvancing())
}

func TestReader_MouseWheelTurnsPages(t *testing.T) {
	f := newReaderFixture(t, "night-harbor", nil)
	f.mount(t)

	f.view.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	assert.Equal(t, 2, f.view.Viewport().Page())

	f.view.Update(tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress, Ctrl: true})
	assert.Equal(t, 2, f.view.Viewport().Page())
	assert.Greater(t, f.view.Viewport().Zoom(), 120)
}
