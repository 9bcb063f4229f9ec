package domain

import (
	"context"
)

// FilmRepository provides access to the film collection
type FilmRepository interface {
	// GetFilms returns every film the source knows about
	GetFilms(ctx context.Context) ([]Film, error)

	// GetFilm returns a single film by identifier
	GetFilm(ctx context.Context, id string) (*Film, error)
}

// RelatedRepository resolves the entities a film links to.
// Lookups are by resource URL since that is what films carry.
type RelatedRepository interface {
	GetCharacter(ctx context.Context, url string) (*Character, error)
	GetPlanet(ctx context.Context, url string) (*Planet, error)
	GetStarship(ctx context.Context, url string) (*Starship, error)
}

// FilmSource combines everything a film API backend must implement
type FilmSource interface {
	FilmRepository
	RelatedRepository
}
