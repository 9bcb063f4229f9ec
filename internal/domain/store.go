package domain

import "time"

// Store handles the local cache (BoltDB + memory).
// Keys are grouped by tag so a whole kind can be dropped at once.
type Store interface {
	// === Films ===
	GetFilms() ([]Film, bool)
	SaveFilms(films []Film) error

	GetFilm(id string) (*Film, bool)
	SaveFilm(film Film) error

	// === Related entities ===
	GetCharacter(id string) (*Character, bool)
	SaveCharacter(c Character) error

	GetPlanet(id string) (*Planet, bool)
	SavePlanet(p Planet) error

	GetStarship(id string) (*Starship, bool)
	SaveStarship(s Starship) error

	// === Freshness ===
	// FilmsFetchedAt returns when the film list was last saved
	FilmsFetchedAt() (time.Time, bool)

	// === Invalidation ===
	InvalidateFilms()
	InvalidateFilm(id string)
	InvalidateKind(kind RelatedKind)
	InvalidateAll()

	Close() error
}
