// Package config loads and saves the comics-t configuration file. Values in
// the file can be overridden from the environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DefaultServerURL = "http://localhost:8080"
	configFileName   = "config.json"
	configDirName    = "comics-t"
	logFileName      = "comics-t.log"
	journalFileName  = "sessions.db"
	MaxRecentlyRead  = 10 // Maximum number of recently read comics to track
)

// Duration is a time.Duration written as "750ms" in the config file and in
// environment variables
type Duration time.Duration

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// ReaderSettings tunes the comic reader
type ReaderSettings struct {
	MouseSwipeCells     int      `json:"mouse_swipe_cells" env:"MOUSE_SWIPE_CELLS"`
	ProgressDebounce    Duration `json:"progress_debounce" env:"PROGRESS_DEBOUNCE"`
	MinSyncInterval     Duration `json:"min_sync_interval" env:"MIN_SYNC_INTERVAL"`
	AutoAdvanceInterval Duration `json:"auto_advance_interval" env:"AUTO_ADVANCE_INTERVAL"`
	SuspendAfter        Duration `json:"suspend_after" env:"SUSPEND_AFTER"`
}

// DefaultReaderSettings returns the settings used when the file has none
func DefaultReaderSettings() ReaderSettings {
	return ReaderSettings{
		MouseSwipeCells:     6,
		ProgressDebounce:    Duration(750 * time.Millisecond),
		MinSyncInterval:     Duration(250 * time.Millisecond),
		AutoAdvanceInterval: Duration(8 * time.Second),
		SuspendAfter:        Duration(5 * time.Minute),
	}
}

// RecentlyReadEntry represents a recently read comic
type RecentlyReadEntry struct {
	Slug     string    `json:"slug"`
	Title    string    `json:"title"`
	OpenedAt time.Time `json:"opened_at"`
}

// Config holds the application configuration
type Config struct {
	ServerURL    string              `json:"server_url" env:"COMICS_SERVER_URL"`
	Token        string              `json:"token,omitempty" env:"COMICS_TOKEN"`
	CSRFToken    string              `json:"csrf_token,omitempty" env:"COMICS_CSRF_TOKEN"`
	Theme        string              `json:"theme,omitempty" env:"COMICS_THEME"`
	Reader       ReaderSettings      `json:"reader" envPrefix:"COMICS_READER_"`
	RecentlyRead []RecentlyReadEntry `json:"recently_read,omitempty"`

	// Debug is only read from the environment
	Debug bool `json:"-" env:"COMICS_DEBUG"`

	// Path to config file (not persisted)
	path string `json:"-"`

	// stored holds the values read from the file before environment
	// overrides. Save writes these, so overrides never reach the disk.
	stored *Config
}

// Load loads configuration from the default config file
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom loads configuration from path. A missing file yields defaults.
// Environment variables are applied on top of the file.
func LoadFrom(configPath string) (*Config, error) {
	cfg := &Config{
		ServerURL: DefaultServerURL,
		Reader:    DefaultReaderSettings(),
		path:      configPath,
	}

	data, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: read %s: %w", configPath, err)
	}
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", configPath, err)
		}
	}
	stored := *cfg
	cfg.stored = &stored

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	cfg.path = configPath
	cfg.normalize()
	return cfg, nil
}

// normalize replaces unusable reader settings with defaults
func (c *Config) normalize() {
	def := DefaultReaderSettings()
	r := &c.Reader
	if r.MouseSwipeCells <= 0 {
		r.MouseSwipeCells = def.MouseSwipeCells
	}
	if r.ProgressDebounce <= 0 {
		r.ProgressDebounce = def.ProgressDebounce
	}
	if r.MinSyncInterval < 0 {
		r.MinSyncInterval = def.MinSyncInterval
	}
	if r.AutoAdvanceInterval <= 0 {
		r.AutoAdvanceInterval = def.AutoAdvanceInterval
	}
	if r.SuspendAfter <= 0 {
		r.SuspendAfter = def.SuspendAfter
	}
	if c.ServerURL == "" {
		c.ServerURL = DefaultServerURL
	}
}

// Save persists the configuration to disk
func (c *Config) Save() error {
	// Ensure directory exists
	if err := os.MkdirAll(c.Dir(), 0700); err != nil {
		return err
	}

	out := c.fileLayer()
	out.RecentlyRead = c.RecentlyRead
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(c.path, data, 0600)
}

// fileLayer returns the values that belong in the file. A Config built
// without LoadFrom has no environment layer.
func (c *Config) fileLayer() *Config {
	if c.stored == nil {
		c.stored = &Config{
			ServerURL: c.ServerURL,
			Token:     c.Token,
			CSRFToken: c.CSRFToken,
			Theme:     c.Theme,
			Reader:    c.Reader,
		}
	}
	return c.stored
}

// Dir is the directory holding the config file, the log and the journal
func (c *Config) Dir() string {
	return filepath.Dir(c.path)
}

// LogPath is where the application log is written
func (c *Config) LogPath() string {
	return filepath.Join(c.Dir(), logFileName)
}

// JournalPath is the sqlite session journal
func (c *Config) JournalPath() string {
	return filepath.Join(c.Dir(), journalFileName)
}

// SetServerURL updates the server URL and saves
func (c *Config) SetServerURL(url string) error {
	c.ServerURL = url
	c.fileLayer().ServerURL = url
	return c.Save()
}

// SetToken updates the token and saves
func (c *Config) SetToken(token string) error {
	c.Token = token
	c.fileLayer().Token = token
	return c.Save()
}

// SetTheme records the chosen theme and saves
func (c *Config) SetTheme(name string) error {
	c.Theme = name
	c.fileLayer().Theme = name
	return c.Save()
}

// AddRecentlyRead adds a comic to the recently read list
func (c *Config) AddRecentlyRead(slug, title string) error {
	// Remove existing entry for this comic if present
	newList := make([]RecentlyReadEntry, 0, MaxRecentlyRead)
	for _, entry := range c.RecentlyRead {
		if entry.Slug != slug {
			newList = append(newList, entry)
		}
	}

	// Add new entry at the front
	entry := RecentlyReadEntry{
		Slug:     slug,
		Title:    title,
		OpenedAt: time.Now(),
	}
	c.RecentlyRead = append([]RecentlyReadEntry{entry}, newList...)

	// Trim to max size
	if len(c.RecentlyRead) > MaxRecentlyRead {
		c.RecentlyRead = c.RecentlyRead[:MaxRecentlyRead]
	}

	return c.Save()
}

// LastRead returns the slug of the most recently opened comic
func (c *Config) LastRead() (string, bool) {
	if len(c.RecentlyRead) == 0 {
		return "", false
	}
	return c.RecentlyRead[0].Slug, true
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config")
	}

	return filepath.Join(configDir, configDirName, configFileName), nil
}
