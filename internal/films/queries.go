package films

import "github.com/mmcdole/holocron/internal/domain"

// Queries provides synchronous, cache-only reads.
// Implements domain.FilmQueries.
type Queries struct {
	store domain.Store
}

// NewQueries creates a new Queries instance.
func NewQueries(store domain.Store) *Queries {
	return &Queries{store: store}
}

func (q *Queries) CachedFilms() ([]domain.Film, bool) {
	return q.store.GetFilms()
}

func (q *Queries) CachedFilm(id string) (*domain.Film, bool) {
	return q.store.GetFilm(id)
}

// CachedRelated reports ok only when every linked entity is cached
func (q *Queries) CachedRelated(film domain.Film) (domain.Related, bool) {
	rel := domain.Related{FilmID: film.ID}
	for _, u := range film.Characters {
		c, ok := q.store.GetCharacter(domain.ExtractID(u))
		if !ok {
			return domain.Related{}, false
		}
		rel.Characters = append(rel.Characters, *c)
	}
	for _, u := range film.Planets {
		p, ok := q.store.GetPlanet(domain.ExtractID(u))
		if !ok {
			return domain.Related{}, false
		}
		rel.Planets = append(rel.Planets, *p)
	}
	for _, u := range film.Starships {
		s, ok := q.store.GetStarship(domain.ExtractID(u))
		if !ok {
			return domain.Related{}, false
		}
		rel.Starships = append(rel.Starships, *s)
	}
	return rel, true
}

var _ domain.FilmQueries = (*Queries)(nil)
