package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "comics-t", "config.json"))
	require.NoError(t, err)

	assert.Equal(t, DefaultServerURL, cfg.ServerURL)
	assert.Equal(t, DefaultReaderSettings(), cfg.Reader)
	assert.False(t, cfg.Debug)
}

func TestLoadFrom_FileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"server_url": "http://comics.local",
		"token": "from-file",
		"reader": {"progress_debounce": "2s", "mouse_swipe_cells": -1}
	}`), 0600))

	t.Setenv("COMICS_TOKEN", "from-env")
	t.Setenv("COMICS_DEBUG", "true")
	t.Setenv("COMICS_READER_SUSPEND_AFTER", "90s")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "http://comics.local", cfg.ServerURL)
	assert.Equal(t, "from-env", cfg.Token)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 2*time.Second, cfg.Reader.ProgressDebounce.Std())
	assert.Equal(t, 90*time.Second, cfg.Reader.SuspendAfter.Std())
	// Out of range values fall back to defaults
	assert.Equal(t, 6, cfg.Reader.MouseSwipeCells)
}

func TestLoadFrom_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0600))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestSaveAndRecentlyRead(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "comics-t")
	cfg, err := LoadFrom(filepath.Join(dir, "config.json"))
	require.NoError(t, err)

	_, ok := cfg.LastRead()
	assert.False(t, ok)

	require.NoError(t, cfg.AddRecentlyRead("night-harbor", "Night Harbor"))
	require.NoError(t, cfg.AddRecentlyRead("paper-moons", "Paper Moons"))
	require.NoError(t, cfg.AddRecentlyRead("night-harbor", "Night Harbor"))

	reloaded, err := LoadFrom(filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	require.Len(t, reloaded.RecentlyRead, 2)
	slug, ok := reloaded.LastRead()
	assert.True(t, ok)
	assert.Equal(t, "night-harbor", slug)
	assert.Equal(t, DefaultReaderSettings().ProgressDebounce, reloaded.Reader.ProgressDebounce)

	assert.Equal(t, filepath.Join(dir, "comics-t.log"), cfg.LogPath())
	assert.Equal(t, filepath.Join(dir, "sessions.db"), cfg.JournalPath())
}

func TestRecentlyReadIsCapped(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	for i := 0; i < MaxRecentlyRead+3; i++ {
		require.NoError(t, cfg.AddRecentlyRead(string(rune('a'+i)), ""))
	}
	assert.Len(t, cfg.RecentlyRead, MaxRecentlyRead)
}

func TestSave_KeepsEnvironmentOutOfFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"token": "from-file"}`), 0600))

	t.Setenv("COMICS_TOKEN", "secret-env-token")
	t.Setenv("COMICS_CSRF_TOKEN", "secret-env-csrf")
	t.Setenv("COMICS_SERVER_URL", "http://env.local")
	t.Setenv("COMICS_READER_SUSPEND_AFTER", "90s")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "secret-env-token", cfg.Token)

	require.NoError(t, cfg.AddRecentlyRead("night-harbor", "Night Harbor"))
	require.NoError(t, cfg.SetTheme("nord"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret-env-token")
	assert.NotContains(t, string(data), "secret-env-csrf")
	assert.NotContains(t, string(data), "env.local")

	var onDisk Config
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, "from-file", onDisk.Token)
	assert.Equal(t, "nord", onDisk.Theme)
	assert.Equal(t, DefaultServerURL, onDisk.ServerURL)
	assert.Equal(t, DefaultReaderSettings().SuspendAfter, onDisk.Reader.SuspendAfter)
	require.Len(t, onDisk.RecentlyRead, 1)

	// The running config still sees the overrides
	assert.Equal(t, "http://env.local", cfg.ServerURL)
	assert.Equal(t, "nord", cfg.Theme)
}

func TestSetServerURL_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	require.NoError(t, cfg.SetServerURL("http://comics.local"))

	reloaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "http://comics.local", reloaded.ServerURL)
}
