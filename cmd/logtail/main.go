package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/clarabennett2626/logtail/internal/config"
	"github.com/clarabennett2626/logtail/internal/session"
	"github.com/clarabennett2626/logtail/internal/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("logtail %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	var (
		configPath = flag.String("config", "", "path to a saved config file")
		filePath   = flag.String("file", "", "log file to tail")
		unit       = flag.String("unit", "", "journalctl unit to follow (empty with -journal for all units)")
		journal    = flag.Bool("journal", false, "follow journalctl instead of a file")
		maxLines   = flag.Int("n", config.DefaultMaxLines, "maximum retained lines")
		debugLog   = flag.String("debug-log", "", "write internal debug logs to this file")
	)
	flag.Parse()

	// -n at its default is indistinguishable from unset by value alone.
	maxLinesSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "n" {
			maxLinesSet = true
		}
	})

	cfg, err := buildConfig(*configPath, *filePath, *unit, *journal, *maxLines, maxLinesSet)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := buildLogger(*debugLog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildConfig merges the config file and command-line flags; flags win.
func buildConfig(configPath, filePath, unit string, journal bool, maxLines int, maxLinesSet bool) (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}
	if filePath != "" {
		cfg.SourceType = config.SourceFile
		cfg.FilePath = filePath
	} else if journal || unit != "" {
		cfg.SourceType = config.SourceJournal
		cfg.JournalUnit = unit
	}
	if maxLinesSet {
		cfg.MaxLines = maxLines
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// buildLogger writes structured logs to a file so stdout stays clean for
// the TUI. Without -debug-log, logging is disabled.
func buildLogger(path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	lc := zap.NewDevelopmentConfig()
	lc.OutputPaths = []string{path}
	lc.ErrorOutputPaths = []string{path}
	logger, err := lc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func run(cfg config.Config, logger *zap.Logger) error {
	s := session.New(logger)
	// Stop on every exit path: the watch and the child process must not
	// outlive the program.
	defer s.Stop()

	p := tea.NewProgram(tui.NewModel(s), tea.WithAltScreen())
	tui.Listen(s, p)

	// Configure once the program is consuming messages; change
	// notifications block until then. The config was validated up front,
	// so a failure here is exceptional.
	go func() {
		if err := s.Configure(cfg); err != nil {
			logger.Error("configure failed", zap.Error(err))
			p.Quit()
		}
	}()

	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
