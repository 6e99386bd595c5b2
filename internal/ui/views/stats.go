package views

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/justyntemme/comics-t/internal/session"
	"github.com/justyntemme/comics-t/internal/ui/styles"
	"github.com/justyntemme/comics-t/pkg/models"
)

// recentSessionsShown caps the session list under the statistics
const recentSessionsShown = 8

// StatsView shows reading statistics for one comic or for all of them
type StatsView struct {
	remote  session.Lister
	journal *session.Journal
	log     *slog.Logger
	now     func() time.Time

	slug      string
	title     string
	allComics bool

	loading  bool
	err      error
	stats    session.Stats
	sessions []models.ReadingSession

	refreshKey key.Binding
	scopeKey   key.Binding
	backKey    key.Binding

	width  int
	height int
}

// statsLoadedMsg carries the merged session history
type statsLoadedMsg struct {
	allComics bool
	sessions  []models.ReadingSession
	err       error
}

// NewStatsView creates a statistics view. journal may be nil.
func NewStatsView(remote session.Lister, journal *session.Journal, slug string, log *slog.Logger) *StatsView {
	if log == nil {
		log = slog.Default()
	}
	return &StatsView{
		remote:    remote,
		journal:   journal,
		log:       log.With(slog.String("view", "stats")),
		now:       time.Now,
		slug:      slug,
		allComics: slug == "",
		refreshKey: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		scopeKey: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "this comic / all comics"),
		),
		backKey: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "back"),
		),
		width:  80,
		height: 24,
	}
}

// SetComic names the comic whose statistics are shown
func (v *StatsView) SetComic(slug, title string) {
	v.slug = slug
	v.title = title
}

// Init implements View
func (v *StatsView) Init() tea.Cmd {
	v.loading = true
	return v.load()
}

func (v *StatsView) load() tea.Cmd {
	remote, journal, log := v.remote, v.journal, v.log
	all := v.allComics
	slug := v.slug
	if all {
		slug = ""
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		sessions, err := session.History(ctx, remote, journal, slug, log)
		return statsLoadedMsg{allComics: all, sessions: sessions, err: err}
	}
}

// Update implements View
func (v *StatsView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		if msg.allComics != v.allComics {
			// Scope changed while loading
			return v, nil
		}
		v.loading = false
		v.err = msg.err
		if msg.err == nil {
			v.sessions = msg.sessions
			v.stats = session.Aggregate(msg.sessions, v.now())
		}
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.backKey):
			return v, SwitchTo(ViewReader)
		case key.Matches(msg, v.refreshKey):
			return v, v.Init()
		case key.Matches(msg, v.scopeKey):
			if v.slug == "" {
				return v, nil
			}
			v.allComics = !v.allComics
			return v, v.Init()
		}
	}
	return v, nil
}

// Stats returns the last computed statistics
func (v *StatsView) Stats() session.Stats { return v.stats }

// View implements View
func (v *StatsView) View() string {
	scope := v.title
	if scope == "" {
		scope = v.slug
	}
	if v.allComics {
		scope = "All comics"
	}
	header := styles.TitleBar.Render("Reading statistics") + " " + styles.ComicTitle.Render(scope)

	var body string
	switch {
	case v.loading:
		body = styles.MutedText.Render("Loading sessions...")
	case v.err != nil:
		body = styles.ErrorStyle.Render("Error: " + v.err.Error())
	case v.stats.SessionCount == 0:
		body = styles.MutedText.Render("No finished reading sessions yet.")
	default:
		body = lipgloss.JoinVertical(lipgloss.Left, v.renderStats(), "", v.renderRecent())
	}

	help := []string{
		styles.HelpKey.Render("r") + styles.Help.Render(" refresh"),
		styles.HelpKey.Render("A") + styles.Help.Render(" scope"),
		styles.HelpKey.Render("Esc/s") + styles.Help.Render(" back"),
	}
	footer := styles.FooterBar.Width(v.width).Render(strings.Join(help, "  "))

	content := lipgloss.Place(v.width, max(1, v.height-4), lipgloss.Center, lipgloss.Center, body)
	return header + "\n" + content + "\n" + footer
}

func (v *StatsView) renderStats() string {
	s := v.stats
	row := func(label, value string) string {
		return styles.StatLabel.Render(label) + styles.StatValue.Render(value)
	}

	rows := []string{
		row("Reading time", formatMinutes(s.TotalReadingMinutes)),
		row("Sessions", humanize.Comma(int64(s.SessionCount))),
		row("Average session", formatMinutes(s.AverageSessionDuration)),
		row("Pages read", humanize.Comma(int64(s.PagesRead))),
		row("Pages per session", humanize.FormatFloat("#,###.#", s.PagesPerSessionAvg)),
		row("Pages per minute", humanize.FormatFloat("#,###.##", s.ReadingSpeedPagesPerMinute)),
		row("Current streak", pluralDays(s.Streak)),
		row("Longest streak", pluralDays(s.LongestStreak)),
		row("Velocity", trendLabel(s.VelocityTrend)),
		row("First session", humanize.Time(s.FirstSessionAt)),
		row("Last session", humanize.Time(s.LastSessionAt)),
	}
	return strings.Join(rows, "\n")
}

func (v *StatsView) renderRecent() string {
	var b strings.Builder
	b.WriteString(styles.DialogTitle.Render("Recent sessions"))
	b.WriteString("\n")

	shown := 0
	for _, s := range v.sessions {
		if s.IsActive {
			continue
		}
		if shown == recentSessionsShown {
			break
		}
		line := fmt.Sprintf("%-16s %3d pages  %s", humanize.Time(s.StartedAt), s.PagesRead, formatMinutes(s.DurationMinutes))
		if v.allComics {
			line += "  " + s.ComicSlug
		}
		b.WriteString(styles.ListItemDimmed.Render(line) + "\n")
		shown++
	}
	return strings.TrimRight(b.String(), "\n")
}

// SetSize implements View
func (v *StatsView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

func formatMinutes(m float64) string {
	d := time.Duration(m * float64(time.Minute)).Round(time.Minute)
	if d < time.Minute {
		return "<1m"
	}
	h := int(d.Hours())
	mins := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dh %02dm", h, mins)
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

func trendLabel(t session.Trend) string {
	switch t {
	case session.TrendIncreasing:
		return "↑ increasing"
	case session.TrendDecreasing:
		return "↓ decreasing"
	default:
		return "→ flat"
	}
}
