package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/holocron/internal/domain"
)

// Command factories for async operations

const (
	loadTimeout    = 30 * time.Second
	relatedTimeout = 60 * time.Second
)

// loadFilms returns the cached collection, fetching when the cache is empty
func loadFilms(ctx context.Context, cmds domain.FilmCommands, queries domain.FilmQueries) ([]domain.Film, error) {
	if films, ok := queries.CachedFilms(); ok {
		return films, nil
	}
	return cmds.FetchFilms(ctx)
}

// SyncFilmsCmd loads the collection, using the cache while it is fresh
func SyncFilmsCmd(cmds domain.FilmCommands, queries domain.FilmQueries) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		res, err := cmds.SyncFilms(ctx, nil)
		if err != nil {
			return FilmsFailedMsg{Err: err}
		}
		films, err := loadFilms(ctx, cmds, queries)
		if err != nil {
			return FilmsFailedMsg{Err: err}
		}
		return FilmsLoadedMsg{Films: films, FromCache: res.FromCache}
	}
}

// RefreshFilmsCmd drops every cached entry and downloads the collection again
func RefreshFilmsCmd(cmds domain.FilmCommands) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		cmds.InvalidateAll()
		films, err := cmds.FetchFilms(ctx)
		if err != nil {
			return FilmsFailedMsg{Err: err}
		}
		return FilmsLoadedMsg{Films: films}
	}
}

// FetchRelatedCmd resolves the characters, planets and starships of film.
// Progress goes to onProgress as entities resolve.
func FetchRelatedCmd(cmds domain.FilmCommands, queries domain.FilmQueries, film domain.Film, onProgress func(RelatedProgressMsg)) tea.Cmd {
	return func() tea.Msg {
		if rel, ok := queries.CachedRelated(film); ok {
			return RelatedLoadedMsg{FilmID: film.ID, Related: rel}
		}

		ctx, cancel := context.WithTimeout(context.Background(), relatedTimeout)
		defer cancel()

		rel, err := cmds.FetchRelated(ctx, film, func(loaded, total int) {
			if onProgress != nil {
				onProgress(RelatedProgressMsg{FilmID: film.ID, Loaded: loaded, Total: total})
			}
		})
		return RelatedLoadedMsg{FilmID: film.ID, Related: rel, Err: err}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
