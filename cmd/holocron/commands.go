package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/mmcdole/holocron/internal/adapter"
	"github.com/mmcdole/holocron/internal/api"
	"github.com/mmcdole/holocron/internal/catalog"
	"github.com/mmcdole/holocron/internal/domain"
	"github.com/mmcdole/holocron/internal/metrics"
	"github.com/mmcdole/holocron/internal/store"
)

const cliTimeout = 60 * time.Second

// loadFilms syncs the cache and returns the collection
func (s *services) loadFilms(ctx context.Context) ([]domain.Film, error) {
	if _, err := s.commands.SyncFilms(ctx, nil); err != nil {
		return nil, err
	}
	if films, ok := s.queries.CachedFilms(); ok {
		return films, nil
	}
	return s.commands.FetchFilms(ctx)
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "Print the film list",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "Match title or opening crawl"},
			&cli.StringFlag{Name: "director", Usage: "Match director"},
			&cli.StringFlag{Name: "producer", Usage: "Match producer"},
			&cli.StringFlag{Name: "year", Usage: "Match release year"},
			&cli.StringFlag{Name: "sort", Value: string(catalog.DefaultSort().Key), Usage: "Sort key: title, episode_id, director, producer, release_date, characters"},
			&cli.BoolFlag{Name: "desc", Usage: "Sort descending"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "table", Usage: "Output format: table, json or yaml"},
		},
		Action: runList,
	}
}

func runList(ctx context.Context, cmd *cli.Command) error {
	format, err := parseFormat(cmd.String("format"), formatTable)
	if err != nil {
		return err
	}
	spec, err := parseSort(cmd.String("sort"), cmd.Bool("desc"))
	if err != nil {
		return err
	}

	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	svc, err := e.openServices(nil, nil)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(ctx, cliTimeout)
	defer cancel()

	all, err := svc.loadFilms(ctx)
	if err != nil {
		return describe(err)
	}

	view := catalog.DeriveView(all, catalog.FilterSet{
		catalog.FilterSearch:   cmd.String("search"),
		catalog.FilterDirector: cmd.String("director"),
		catalog.FilterProducer: cmd.String("producer"),
		catalog.FilterYear:     cmd.String("year"),
	}, spec)

	return writeFilms(os.Stdout, format, view, terminalWidth())
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Print one film with its characters, planets and starships",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "text", Usage: "Output format: text, json or yaml"},
		},
		Action: runShow,
	}
}

func runShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if !domain.ValidFilmID(id) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidFilmID, id)
	}
	format, err := parseFormat(cmd.String("format"), formatText)
	if err != nil {
		return err
	}

	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	svc, err := e.openServices(nil, nil)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(ctx, cliTimeout)
	defer cancel()

	film, err := svc.commands.FetchFilm(ctx, id)
	if err != nil {
		return describe(err)
	}

	rel, ok := svc.queries.CachedRelated(*film)
	if !ok {
		rel, err = svc.commands.FetchRelated(ctx, *film, nil)
		if err != nil {
			// Print what resolved and report the rest
			e.logger.Warn("related entities incomplete", "filmID", id, "error", err)
			fmt.Fprintf(os.Stderr, "warning: %v\n", describe(err))
		}
	}

	return writeFilm(os.Stdout, format, *film, rel)
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the JSON API and Prometheus metrics",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Aliases: []string{"p"}, Usage: "Listen port (default from config)", Sources: cli.EnvVars("PORT")},
		},
		Action: runServe,
	}
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	if p := cmd.String("port"); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil || port < 1 || port > 65535 {
			return fmt.Errorf("invalid port %q", p)
		}
		e.cfg.Server.Port = port
	}

	m := metrics.New()
	svc, err := e.openServices(m.RecordUpstream, m.RecordCacheLookup)
	if err != nil {
		return err
	}
	defer svc.Close()

	h := api.NewHandler(svc.commands, svc.queries, m, api.Options{
		ItemHeight: e.cfg.UI.ItemHeight,
		Overscan:   e.cfg.UI.Overscan,
		PageSize:   e.cfg.UI.PageSize,
	}, e.logger)
	router := api.NewRouter(h, m, e.logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := e.cfg.Server.Address()
	fmt.Fprintf(os.Stderr, "holocron API listening on %s\n", addr)
	return api.Serve(ctx, addr, router, e.logger)
}

func cacheCommand() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the local film cache",
		Commands: []*cli.Command{
			{
				Name:  "clear",
				Usage: "Delete cached films and related entities",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "kind", Aliases: []string{"k"}, Usage: "Only drop one related kind: character, planet or starship"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					kind := cmd.String("kind")
					if kind != "" {
						if _, err := parseKind(kind); err != nil {
							return err
						}
					}

					e, err := setup(cmd)
					if err != nil {
						return err
					}
					defer e.Close()

					if err := clearCache(e.cfg, kind); err != nil {
						return err
					}
					e.logger.Info("cache cleared", "dir", e.cfg.Cache.Dir, "kind", kind)
					fmt.Println("Cache cleared.")
					return nil
				},
			},
		},
	}
}

// parseKind accepts a related kind in singular or plural form
func parseKind(s string) (domain.RelatedKind, error) {
	k := domain.RelatedKind(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s"))
	switch k {
	case domain.KindCharacter, domain.KindPlanet, domain.KindStarship:
		return k, nil
	}
	return "", fmt.Errorf("unknown kind %q", s)
}

// clearCache removes the whole cache directory, or with a kind only that
// kind's entities from the store
func clearCache(cfg *adapter.Config, kind string) error {
	if kind == "" {
		return adapter.ClearCache(cfg.Cache.Dir)
	}
	k, err := parseKind(kind)
	if err != nil {
		return err
	}
	if cfg.Cache.Dir == "" {
		return nil
	}

	st, err := store.NewFilmStore(cfg.Cache.Dir, cfg.Source.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer st.Close()

	st.InvalidateKind(k)
	return nil
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print the version",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			fmt.Printf("holocron %s\n", Version)
			return nil
		},
	}
}

// parseSort validates a sort key from the command line
func parseSort(key string, desc bool) (catalog.SortSpec, error) {
	spec := catalog.SortSpec{Key: catalog.SortKey(key), Direction: catalog.Asc}
	if desc {
		spec.Direction = catalog.Desc
	}
	for _, k := range append(catalog.SortKeys(), catalog.SortCharacters) {
		if k == spec.Key {
			return spec, nil
		}
	}
	return spec, fmt.Errorf("unknown sort key %q", key)
}

// describe rewrites source errors for the terminal
func describe(err error) error {
	switch {
	case errors.Is(err, domain.ErrSourceOffline):
		return fmt.Errorf("film source unreachable, check your connection: %w", err)
	case errors.Is(err, domain.ErrRateLimited):
		return fmt.Errorf("rate limited by the film source, try again shortly: %w", err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("timed out after %s: %w", cliTimeout, err)
	default:
		return err
	}
}
