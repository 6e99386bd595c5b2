package ui

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/justyntemme/comics-t/internal/api"
	"github.com/justyntemme/comics-t/internal/config"
	"github.com/justyntemme/comics-t/internal/session"
	"github.com/justyntemme/comics-t/internal/ui/styles"
	"github.com/justyntemme/comics-t/internal/ui/terminal"
	"github.com/justyntemme/comics-t/internal/ui/views"
)

// Options selects what the application opens
type Options struct {
	Slug     string
	Stats    bool
	TermMode terminal.TermImageMode
}

// App is the main application model
type App struct {
	config *config.Config
	client *api.Client
	keys   KeyMap
	log    *slog.Logger

	// Current view state
	currentView views.ViewType

	// Window dimensions
	width  int
	height int

	// View models; reader is nil in stats-only mode
	reader *views.ReaderView
	stats  *views.StatsView

	// Error message
	err      error
	showHelp bool
}

// NewApp creates a new application instance. journal may be nil.
func NewApp(cfg *config.Config, client *api.Client, journal *session.Journal, log *slog.Logger, opts Options) *App {
	if log == nil {
		log = slog.Default()
	}
	styles.SetCurrentTheme(cfg.Theme)

	app := &App{
		config:      cfg,
		client:      client,
		keys:        DefaultKeyMap(),
		log:         log,
		currentView: views.ViewReader,
		width:       80,
		height:      24,
	}

	if opts.Slug != "" && !opts.Stats {
		app.reader = views.NewReaderView(opts.Slug, views.ReaderOptions{
			Client:   client,
			Journal:  journal,
			Settings: cfg.Reader,
			TermMode: opts.TermMode,
			Logger:   log,
		})
	}
	app.stats = views.NewStatsView(client, journal, opts.Slug, log)
	if app.reader == nil {
		app.currentView = views.ViewStats
	}

	return app
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	title := "comics-t"
	if a.reader != nil {
		title += " - " + a.reader.Slug()
	}
	return tea.Batch(
		a.getCurrentView().Init(),
		tea.SetWindowTitle(title),
	)
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Propagate to all views
		if a.reader != nil {
			a.reader.SetSize(msg.Width, msg.Height)
		}
		a.stats.SetSize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if model, cmd, handled := a.handleGlobalKey(msg); handled {
			return model, cmd
		}

	case views.ComicOpenedMsg:
		a.stats.SetComic(msg.Comic.Slug, msg.Comic.Title)
		if err := a.config.AddRecentlyRead(msg.Comic.Slug, msg.Comic.Title); err != nil {
			a.log.Warn("save recently read failed", slog.Any("error", err))
		}
		return a, nil

	case views.CloseReaderMsg:
		return a, tea.Quit

	case views.ErrorMsg:
		a.err = msg.Err
		return a, nil

	case views.SwitchViewMsg:
		return a.switchView(msg.View)
	}

	// Delegate to current view. The reader also gets timer and fetch results
	// while the stats view is in front.
	var cmds []tea.Cmd
	switch a.currentView {
	case views.ViewReader:
		_, cmd := a.reader.Update(msg)
		cmds = append(cmds, cmd)
	case views.ViewStats:
		_, cmd := a.stats.Update(msg)
		cmds = append(cmds, cmd)
		if a.reader != nil {
			if _, isKey := msg.(tea.KeyMsg); !isKey {
				if _, isMouse := msg.(tea.MouseMsg); !isMouse {
					_, cmd := a.reader.Update(msg)
					cmds = append(cmds, cmd)
				}
			}
		}
	}

	return a, tea.Batch(cmds...)
}

// handleGlobalKey runs application bindings unless a text input has focus
func (a *App) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if msg.Type == tea.KeyCtrlC {
		return a, tea.Quit, true
	}
	if a.currentView == views.ViewReader && a.reader.Typing() {
		return a, nil, false
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit, true

	case key.Matches(msg, a.keys.Help):
		a.showHelp = !a.showHelp
		return a, nil, true

	case key.Matches(msg, a.keys.Stats):
		if a.currentView == views.ViewStats {
			if a.reader == nil {
				return a, nil, true
			}
			model, cmd := a.switchView(views.ViewReader)
			return model, cmd, true
		}
		model, cmd := a.switchView(views.ViewStats)
		return model, cmd, true

	case key.Matches(msg, a.keys.Theme):
		name := styles.NextTheme()
		if err := a.config.SetTheme(name); err != nil {
			a.log.Warn("save theme failed", slog.Any("error", err))
		}
		return a, nil, true

	case msg.Type == tea.KeyEsc && a.showHelp:
		a.showHelp = false
		return a, nil, true
	}
	return a, nil, false
}

// View implements tea.Model
func (a *App) View() string {
	if a.showHelp {
		return a.renderHelp()
	}

	content := a.getCurrentView().View()

	// Add error bar if there's an error
	if a.err != nil {
		errorBar := styles.ErrorStyle.Render("Error: " + a.err.Error())
		content = lipgloss.JoinVertical(lipgloss.Left, content, errorBar)
	}
	return content
}

// Close releases the reader. Call it after the program has exited.
func (a *App) Close() {
	if a.reader != nil {
		a.reader.Close()
	}
}

// switchView changes the current view and initializes it
func (a *App) switchView(view views.ViewType) (*App, tea.Cmd) {
	if view == views.ViewReader && a.reader == nil {
		return a, nil
	}
	if a.currentView == views.ViewReader && a.reader != nil {
		terminal.WriteClearImages(a.reader.TermMode())
	}

	a.currentView = view
	a.err = nil

	// The reader mounts once; coming back only redraws it
	if view == views.ViewReader {
		return a, nil
	}
	return a, a.getCurrentView().Init()
}

// getCurrentView returns the current view model
func (a *App) getCurrentView() views.View {
	if a.currentView == views.ViewReader && a.reader != nil {
		return a.reader
	}
	return a.stats
}

// renderHelp renders the help overlay
func (a *App) renderHelp() string {
	help := styles.Dialog.Width(60).Render(
		styles.DialogTitle.Render("Keyboard Shortcuts") + "\n\n" +
			styles.HelpKey.Render("Pages") + "\n" +
			"  →/↓/Space  Next page\n" +
			"  ←/↑        Previous page\n" +
			"  g/G        First/Last page\n" +
			"  Wheel      Turn pages (Ctrl: zoom)\n" +
			"  Drag       Swipe left/right to turn pages\n\n" +
			styles.HelpKey.Render("View") + "\n" +
			"  +/-        Zoom in/out\n" +
			"  0          Reset zoom\n" +
			"  f          Cycle fit mode\n" +
			"  hjkl       Pan\n" +
			"  a          Toggle auto-advance\n\n" +
			styles.HelpKey.Render("Bookmarks") + "\n" +
			"  b          Bookmark this page\n" +
			"  B          List, search and edit bookmarks\n\n" +
			styles.HelpKey.Render("General") + "\n" +
			"  s          Reading statistics\n" +
			"  t          Next theme\n" +
			"  q          Quit\n" +
			"  Esc        Close\n" +
			"  ?          Toggle help\n",
	)

	// Center the help dialog
	return lipgloss.Place(
		a.width,
		a.height,
		lipgloss.Center,
		lipgloss.Center,
		help,
	)
}
