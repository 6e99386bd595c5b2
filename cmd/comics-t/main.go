package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/justyntemme/comics-t/internal/api"
	"github.com/justyntemme/comics-t/internal/config"
	"github.com/justyntemme/comics-t/internal/session"
	"github.com/justyntemme/comics-t/internal/ui"
	"github.com/justyntemme/comics-t/internal/ui/terminal"
)

func main() {
	// Define flags
	serverURL := flag.String("url", "", "Server URL (e.g., http://myserver:8080)")
	flag.StringVar(serverURL, "s", "", "Server URL (shorthand)")
	comic := flag.String("comic", "", "Slug of the comic to open")
	flag.StringVar(comic, "c", "", "Comic slug (shorthand)")
	showStats := flag.Bool("stats", false, "Show reading statistics instead of the reader")
	images := flag.String("images", "auto", "Image protocol: auto, kitty, iterm, sixel or none")
	showHelp := flag.Bool("help", false, "Show help message")
	flag.BoolVar(showHelp, "h", false, "Show help (shorthand)")
	debug := flag.Bool("debug", false, "Write debug messages to the log file")

	flag.Parse()

	if *showHelp {
		printUsage()
		os.Exit(0)
	}

	// Values from .env act as environment variables
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Override server URL if provided via flag
	if *serverURL != "" {
		// Save to config for future use
		if err := cfg.SetServerURL(*serverURL); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not save server URL to config: %v\n", err)
		}
	}

	termMode, ok := terminal.ParseMode(*images)
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown image protocol %q\n", *images)
		os.Exit(2)
	}

	slug := *comic
	if slug == "" && flag.NArg() > 0 {
		slug = flag.Arg(0)
	}
	if slug == "" {
		slug, _ = cfg.LastRead()
	}
	if slug == "" && !*showStats {
		fmt.Fprintln(os.Stderr, "No comic given and none read before. Use -comic <slug>.")
		os.Exit(2)
	}

	logFile, log := openLog(cfg, *debug || cfg.Debug)
	if logFile != nil {
		defer logFile.Close()
	}
	log.Info("starting",
		slog.String("server", cfg.ServerURL),
		slog.String("comic", slug),
		slog.String("images", termMode.String()),
	)

	client := api.NewClient(cfg.ServerURL, cfg.Token)
	client.SetCSRFToken(cfg.CSRFToken)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := client.Health(ctx); err != nil {
		log.Warn("server health check failed", slog.Any("error", err))
	}
	cancel()

	journal, err := session.OpenJournal(cfg.JournalPath())
	if err != nil {
		// Statistics fall back to the server alone
		log.Warn("session journal unavailable", slog.Any("error", err))
		journal = nil
	} else {
		defer journal.Close()
	}

	// Run TUI mode
	app := ui.NewApp(cfg, client, journal, log, ui.Options{
		Slug:     slug,
		Stats:    *showStats,
		TermMode: termMode,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, runErr := p.Run()

	// Flush progress and the open session before exiting
	app.Close()

	if runErr != nil {
		log.Error("program failed", slog.Any("error", runErr))
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", runErr)
		os.Exit(1)
	}
	log.Info("stopped")
}

// openLog writes JSON logs to the log file next to the config. The terminal
// belongs to the UI, so nothing is logged to stdout; if the file cannot be
// opened logs are dropped.
func openLog(cfg *config.Config, debug bool) (*os.File, *slog.Logger) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	var (
		out  io.Writer = io.Discard
		file *os.File
	)
	if err := os.MkdirAll(cfg.Dir(), 0700); err == nil {
		if f, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600); err == nil {
			out, file = f, f
		}
	}

	log := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: level,
	})).With(slog.String("app", "comics-t"))
	slog.SetDefault(log)
	return file, log
}

func printUsage() {
	fmt.Println("comics-t - Terminal comic reader")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  comics-t                    Reopen the last comic")
	fmt.Println("  comics-t <slug>             Open a comic")
	fmt.Println("  comics-t -stats [-c <slug>] Show reading statistics")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -s, --url <url>        Set server URL (saved to config)")
	fmt.Println("  -c, --comic <slug>     Comic to open")
	fmt.Println("  --stats                Show reading statistics")
	fmt.Println("  --images <mode>        auto, kitty, iterm, sixel or none")
	fmt.Println("  --debug                Debug logging")
	fmt.Println("  -h, --help             Show this help message")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  COMICS_SERVER_URL, COMICS_TOKEN, COMICS_CSRF_TOKEN, COMICS_DEBUG,")
	fmt.Println("  COMICS_THEME, COMICS_READER_* (read from .env too)")
	fmt.Println()
	fmt.Println("Config: ~/.config/comics-t/config.json")
}
