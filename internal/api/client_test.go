package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justyntemme/comics-t/internal/api"
	"github.com/justyntemme/comics-t/internal/devserver"
	"github.com/justyntemme/comics-t/pkg/models"
)

const testCSRF = "csrf-test-token"

func newTestClient(t *testing.T) (*api.Client, *devserver.Server) {
	t.Helper()
	backend := devserver.New(testCSRF, nil)
	backend.AddComic(models.Comic{Slug: "night-harbor", Title: "Night Harbor", TotalPages: 20})

	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, "")
	client.SetCSRFToken(testCSRF)
	return client, backend
}

/*
TestClient_SendsRequiredHeaders verifies the headers every request carries.
*/
func TestClient_SendsRequiredHeaders(t *testing.T) {
	var got []http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Clone())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"current_page":2,"total_pages":10}`))
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, "secret")
	client.SetCSRFToken("tok")
	ctx := context.Background()

	_, err := client.GetProgress(ctx, "x")
	require.NoError(t, err)
	_, err = client.UpdateProgress(ctx, "x", 2, 10)
	require.NoError(t, err)

	require.Len(t, got, 2)
	for _, h := range got {
		assert.Equal(t, "application/json", h.Get("Accept"))
		assert.Equal(t, "XMLHttpRequest", h.Get("X-Requested-With"))
		assert.Equal(t, "Bearer secret", h.Get("Authorization"))
	}

	// CSRF only on mutating requests
	assert.Empty(t, got[0].Get(api.HeaderCSRFToken))
	assert.Equal(t, "tok", got[1].Get(api.HeaderCSRFToken))
}

func TestClient_BookmarkLifecycle(t *testing.T) {
	client, backend := newTestClient(t)
	ctx := context.Background()

	created, err := client.CreateBookmark(ctx, "night-harbor", 5, "test")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 5, created.Page)
	assert.False(t, created.CreatedAt.IsZero())

	list, err := client.ListBookmarks(ctx, "night-harbor")
	require.NoError(t, err)
	require.Len(t, list, 1)

	updated, err := client.UpdateBookmark(ctx, "night-harbor", created.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Note)

	require.NoError(t, client.DeleteBookmark(ctx, "night-harbor", created.ID))
	assert.Empty(t, backend.Bookmarks("night-harbor"))
}

func TestClient_ProgressRoundTrip(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	rec, err := client.UpdateProgress(ctx, "night-harbor", 20, 20)
	require.NoError(t, err)
	assert.True(t, rec.IsCompleted)
	assert.InDelta(t, 100.0, rec.Percentage, 0.001)

	got, err := client.GetProgress(ctx, "night-harbor")
	require.NoError(t, err)
	assert.Equal(t, 20, got.CurrentPage)
}

func TestClient_NonSuccessIsNetworkError(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.GetComic(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, api.IsNetworkError(err))
	assert.Equal(t, http.StatusNotFound, api.StatusOf(err))
	assert.Contains(t, err.Error(), "comic not found")
}

func TestClient_MissingCSRFRejected(t *testing.T) {
	client, _ := newTestClient(t)
	client.SetCSRFToken("")

	_, err := client.UpdateProgress(context.Background(), "night-harbor", 3, 20)
	require.Error(t, err)
	assert.Equal(t, devserver.StatusCSRFMismatch, api.StatusOf(err))
}

func TestClient_TransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := api.NewClient(url, "")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := client.Health(ctx)
	require.Error(t, err)
	assert.True(t, api.IsNetworkError(err))
	assert.Equal(t, 0, api.StatusOf(err))
}

func TestClient_PageImage(t *testing.T) {
	client, _ := newTestClient(t)

	data, contentType, err := client.GetPageImage(context.Background(), "night-harbor", 3)
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)
	assert.NotEmpty(t, data)

	_, _, err = client.GetPageImage(context.Background(), "night-harbor", 21)
	assert.Equal(t, http.StatusNotFound, api.StatusOf(err))
}

func TestClient_Sessions(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(12 * time.Minute)
	endPage := 9
	session := models.ReadingSession{
		ID:              "s-1",
		ComicSlug:       "night-harbor",
		StartedAt:       start,
		EndedAt:         &end,
		StartPage:       1,
		EndPage:         &endPage,
		PagesRead:       9,
		DurationMinutes: 12,
	}
	require.NoError(t, client.RecordSession(ctx, session))

	list, err := client.ListSessions(ctx, "night-harbor")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "s-1", list[0].ID)
	assert.Equal(t, 9, list[0].PagesRead)
}
