package films

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mmcdole/holocron/internal/domain"
)

const (
	DefaultTTL         = 24 * time.Hour
	DefaultConcurrency = 8
)

// Commands provides asynchronous operations that hit network.
// Implements domain.FilmCommands.
type Commands struct {
	source      domain.FilmSource
	store       domain.Store
	ttl         time.Duration
	concurrency int
	now         func() time.Time
	logger      *slog.Logger
}

// NewCommands creates a new Commands instance. ttl and concurrency fall
// back to their defaults when not positive.
func NewCommands(source domain.FilmSource, store domain.Store, ttl time.Duration, concurrency int, logger *slog.Logger) *Commands {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Commands{
		source:      source,
		store:       store,
		ttl:         ttl,
		concurrency: concurrency,
		now:         time.Now,
		logger:      logger,
	}
}

func (c *Commands) fresh() bool {
	at, ok := c.store.FilmsFetchedAt()
	return ok && c.now().Sub(at) < c.ttl
}

func (c *Commands) SyncFilms(ctx context.Context, onProgress domain.ProgressFunc) (domain.SyncResult, error) {
	// 1. Freshness check
	if c.fresh() {
		if films, ok := c.store.GetFilms(); ok {
			c.logger.Debug("cache fresh", "count", len(films))
			if onProgress != nil {
				onProgress(len(films), len(films))
			}
			return domain.SyncResult{FromCache: true, Count: len(films)}, nil
		}
	}

	// 2. Fetch
	c.logger.Debug("cache stale, fetching films")
	films, err := c.FetchFilms(ctx)
	if err != nil {
		return domain.SyncResult{}, err
	}
	if onProgress != nil {
		onProgress(len(films), len(films))
	}
	return domain.SyncResult{FromCache: false, Count: len(films)}, nil
}

func (c *Commands) FetchFilms(ctx context.Context) ([]domain.Film, error) {
	films, err := c.source.GetFilms(ctx)
	if err != nil {
		c.logger.Error("failed to fetch films", "error", err)
		return nil, err
	}
	if err := c.store.SaveFilms(films); err != nil {
		c.logger.Error("failed to save films", "error", err)
	}
	c.logger.Debug("fetched films", "count", len(films))
	return films, nil
}

// FetchFilm returns one film, from cache when present
func (c *Commands) FetchFilm(ctx context.Context, id string) (*domain.Film, error) {
	id = strings.TrimSpace(id)
	if !domain.ValidFilmID(id) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidFilmID, id)
	}
	if film, ok := c.store.GetFilm(id); ok {
		return film, nil
	}

	film, err := c.source.GetFilm(ctx, id)
	if err != nil {
		c.logger.Error("failed to fetch film", "error", err, "filmID", id)
		return nil, err
	}
	if err := c.store.SaveFilm(*film); err != nil {
		c.logger.Error("failed to save film", "error", err, "filmID", id)
	}
	return film, nil
}

// FetchRelated resolves every character, planet and starship of film,
// concurrently and cache first. Entities that fail to resolve are left out
// and the first failure is returned alongside what did resolve. One failure
// never cancels the other lookups; only ctx does.
func (c *Commands) FetchRelated(ctx context.Context, film domain.Film, onProgress domain.ProgressFunc) (domain.Related, error) {
	characters := make([]*domain.Character, len(film.Characters))
	planets := make([]*domain.Planet, len(film.Planets))
	starships := make([]*domain.Starship, len(film.Starships))

	total := len(characters) + len(planets) + len(starships)
	var mu sync.Mutex
	loaded := 0
	tick := func() {
		if onProgress == nil {
			return
		}
		mu.Lock()
		loaded++
		n := loaded
		mu.Unlock()
		onProgress(n, total)
	}

	var (
		g        errgroup.Group
		errOnce  sync.Once
		firstErr error
	)
	g.SetLimit(c.concurrency)
	fail := func(err error) {
		errOnce.Do(func() { firstErr = err })
	}

	for i, u := range film.Characters {
		g.Go(func() error {
			defer tick()
			ch, err := resolve(ctx, u, c.store.GetCharacter, c.source.GetCharacter, c.store.SaveCharacter)
			if err != nil {
				fail(fmt.Errorf("character %s: %w", u, err))
				return nil
			}
			characters[i] = ch
			return nil
		})
	}
	for i, u := range film.Planets {
		g.Go(func() error {
			defer tick()
			p, err := resolve(ctx, u, c.store.GetPlanet, c.source.GetPlanet, c.store.SavePlanet)
			if err != nil {
				fail(fmt.Errorf("planet %s: %w", u, err))
				return nil
			}
			planets[i] = p
			return nil
		})
	}
	for i, u := range film.Starships {
		g.Go(func() error {
			defer tick()
			s, err := resolve(ctx, u, c.store.GetStarship, c.source.GetStarship, c.store.SaveStarship)
			if err != nil {
				fail(fmt.Errorf("starship %s: %w", u, err))
				return nil
			}
			starships[i] = s
			return nil
		})
	}

	_ = g.Wait()
	err := firstErr
	if err != nil {
		c.logger.Error("failed to resolve related entities", "error", err, "filmID", film.ID)
	}
	return domain.Related{
		FilmID:     film.ID,
		Characters: compact(characters),
		Planets:    compact(planets),
		Starships:  compact(starships),
	}, err
}

// resolve looks an entity up in cache by id, falling back to the source
func resolve[T any](
	ctx context.Context,
	ref string,
	cached func(id string) (*T, bool),
	fetch func(ctx context.Context, ref string) (*T, error),
	save func(v T) error,
) (*T, error) {
	if id := domain.ExtractID(ref); id != "" {
		if v, ok := cached(id); ok {
			return v, nil
		}
	}
	v, err := fetch(ctx, ref)
	if err != nil {
		return nil, err
	}
	// A failed cache write only costs a refetch later
	_ = save(*v)
	return v, nil
}

func compact[T any](ptrs []*T) []T {
	out := make([]T, 0, len(ptrs))
	for _, p := range ptrs {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}

func (c *Commands) InvalidateFilms() {
	c.store.InvalidateFilms()
	c.logger.Info("invalidated film list cache")
}

func (c *Commands) InvalidateFilm(id string) {
	c.store.InvalidateFilm(id)
	c.logger.Info("invalidated film cache", "filmID", id)
}

func (c *Commands) InvalidateAll() {
	c.store.InvalidateAll()
	c.logger.Info("invalidated all cache")
}

var _ domain.FilmCommands = (*Commands)(nil)
