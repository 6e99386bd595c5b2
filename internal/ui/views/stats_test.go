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
	"github.com/justyntemme/comics-t/internal/devserver"
	"github.com/justyntemme/comics-t/internal/session"
	"github.com/justyntemme/comics-t/pkg/models"
)

func TestStatsView_LoadsAndAggregates(t *testing.T) {
	backend := devserver.New("", nil)
	backend.Seed()
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)
	client := api.NewClient(srv.URL, "")

	now := time.Now()
	ctx := context.Background()
	for i, pages := range []int{4, 8} {
		start := now.Add(-time.Duration(i+1) * time.Hour)
		end := start.Add(10 * time.Minute)
		require.NoError(t, client.RecordSession(ctx, models.ReadingSession{
			ID:              "s" + string(rune('1'+i)),
			ComicSlug:       "night-harbor",
			StartedAt:       start,
			EndedAt:         &end,
			StartPage:       1,
			PagesRead:       pages,
			DurationMinutes: 10,
		}))
	}

	v := NewStatsView(client, nil, "night-harbor", nil)
	v.SetComic("night-harbor", "Night Harbor")
	v.SetSize(100, 40)

	cmd := v.Init()
	require.NotNil(t, cmd)
	v.Update(cmd())

	stats := v.Stats()
	assert.Equal(t, 2, stats.SessionCount)
	assert.Equal(t, 12, stats.PagesRead)
	assert.InDelta(t, 20.0, stats.TotalReadingMinutes, 1e-9)

	out := v.View()
	assert.Contains(t, out, "Night Harbor")
	assert.Contains(t, out, "20m")
}

func TestStatsView_BackKey(t *testing.T) {
	v := NewStatsView(nil, nil, "night-harbor", nil)
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, SwitchViewMsg{View: ViewReader}, cmd())
}

func TestStatsView_StaleScopeIgnored(t *testing.T) {
	v := NewStatsView(nil, nil, "night-harbor", nil)
	v.loading = true

	v.Update(statsLoadedMsg{allComics: true, sessions: []models.ReadingSession{{ID: "x"}}})
	assert.True(t, v.loading)
	assert.Equal(t, session.Stats{}, v.Stats())
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "<1m", formatMinutes(0.2))
	assert.Equal(t, "45m", formatMinutes(45))
	assert.Equal(t, "2h 05m", formatMinutes(125))
}
