package domain

import "context"

// FilmQueries: Synchronous, cache-only reads.
// All methods return instantly. NEVER block on network.
// Safe to call from View() and navigation code.
type FilmQueries interface {
	CachedFilms() ([]Film, bool)
	CachedFilm(id string) (*Film, bool)
	CachedRelated(film Film) (Related, bool)
}

// FilmCommands: Asynchronous operations that may hit network.
// Must be called from tea.Cmd functions, never from View().
type FilmCommands interface {
	// Smart sync (startup): use cache while fresh, fetch otherwise
	SyncFilms(ctx context.Context, onProgress ProgressFunc) (SyncResult, error)

	// Force fetch (manual 'r' or cache miss): always download
	FetchFilms(ctx context.Context) ([]Film, error)
	FetchFilm(ctx context.Context, id string) (*Film, error)
	FetchRelated(ctx context.Context, film Film, onProgress ProgressFunc) (Related, error)

	// Cache invalidation
	InvalidateFilms()
	InvalidateFilm(id string)
	InvalidateAll()
}
