package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/mmcdole/holocron/internal/adapter"
	"github.com/mmcdole/holocron/internal/adapter/source"
	"github.com/mmcdole/holocron/internal/adapter/source/swapi"
	"github.com/mmcdole/holocron/internal/films"
	"github.com/mmcdole/holocron/internal/store"
	"github.com/mmcdole/holocron/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

// env bundles what every command needs after startup
type env struct {
	cfg    *adapter.Config
	logger *slog.Logger
	closer io.Closer
}

func (e *env) Close() {
	if e.closer != nil {
		e.closer.Close()
	}
}

// setup loads configuration and opens the log file
func setup(cmd *cli.Command) (*env, error) {
	var (
		cfg *adapter.Config
		err error
	)
	if dir := cmd.String("config-dir"); dir != "" {
		cfg, err = adapter.LoadConfigFrom(dir)
	} else {
		cfg, err = adapter.LoadConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, closer, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	return &env{cfg: cfg, logger: logger, closer: closer}, nil
}

// services is the film stack shared by the TUI, CLI and API
type services struct {
	commands *films.Commands
	queries  *films.Queries
	store    *store.FilmStore
}

func (s *services) Close() {
	if err := s.store.Close(); err != nil {
		slog.Warn("failed to close cache", "error", err)
	}
}

// openServices wires source, cache and the query/command split.
// observer and hits may be nil.
func (e *env) openServices(observer swapi.Observer, hits store.HitObserver) (*services, error) {
	src, err := source.NewClientFromConfig(e.cfg, observer, e.logger)
	if err != nil {
		return nil, err
	}

	st, err := store.NewFilmStore(e.cfg.Cache.Dir, e.cfg.Source.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	if hits != nil {
		st.SetObserver(hits)
	}

	return &services{
		commands: films.NewCommands(src, st, e.cfg.Cache.TTL, e.cfg.Source.Concurrency, e.logger),
		queries:  films.NewQueries(st),
		store:    st,
	}, nil
}

// runTUI is the default action: the interactive browser
func runTUI(ctx context.Context, cmd *cli.Command) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	e.logger.Info("starting holocron", "version", Version)

	svc, err := e.openServices(nil, nil)
	if err != nil {
		return err
	}
	defer svc.Close()

	model := tui.NewModel(svc.commands, svc.queries, tui.Options{
		Debounce:   e.cfg.Search.Debounce,
		MinSearch:  e.cfg.Search.MinLength,
		MaxSearch:  e.cfg.Search.MaxLength,
		ItemHeight: e.cfg.UI.ItemHeight,
		Overscan:   e.cfg.UI.Overscan,
	}, e.logger)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	e.logger.Info("starting TUI")
	if _, err := p.Run(); err != nil {
		e.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	e.logger.Info("shutting down")
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:    "holocron",
		Usage:   "Browse the Star Wars film catalog",
		Version: Version,
		Action:  runTUI,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Aliases: []string{"c"},
				Usage:   "Directory holding config.yaml",
				Sources: cli.EnvVars("HOLOCRON_CONFIG_DIR"),
			},
		},
		Commands: []*cli.Command{
			listCommand(),
			showCommand(),
			serveCommand(),
			cacheCommand(),
			versionCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
