package swapi

import (
	"slices"

	"github.com/mmcdole/holocron/internal/domain"
)

// MapFilms converts film DTOs to domain films, dropping entries without an id
func MapFilms(dtos []FilmDTO) []domain.Film {
	films := make([]domain.Film, 0, len(dtos))
	for _, d := range dtos {
		f := MapFilm(d)
		if f.ID == "" {
			continue
		}
		films = append(films, f)
	}
	return films
}

// MapFilm converts a single film DTO
func MapFilm(d FilmDTO) domain.Film {
	return domain.Film{
		ID:           domain.ExtractID(d.URL),
		Title:        d.Title,
		EpisodeID:    d.EpisodeID,
		OpeningCrawl: d.OpeningCrawl,
		Director:     d.Director,
		Producer:     d.Producer,
		ReleaseDate:  d.ReleaseDate,
		Characters:   slices.Clone(d.Characters),
		Planets:      slices.Clone(d.Planets),
		Starships:    slices.Clone(d.Starships),
		Vehicles:     slices.Clone(d.Vehicles),
		Species:      slices.Clone(d.Species),
		Created:      d.Created,
		Edited:       d.Edited,
		URL:          d.URL,
	}
}

// MapCharacter converts a people DTO
func MapCharacter(d CharacterDTO) domain.Character {
	return domain.Character{
		ID:        domain.ExtractID(d.URL),
		Name:      d.Name,
		BirthYear: d.BirthYear,
		Gender:    d.Gender,
		URL:       d.URL,
	}
}

// MapPlanet converts a planet DTO
func MapPlanet(d PlanetDTO) domain.Planet {
	return domain.Planet{
		ID:         domain.ExtractID(d.URL),
		Name:       d.Name,
		Climate:    d.Climate,
		Terrain:    d.Terrain,
		Population: d.Population,
		URL:        d.URL,
	}
}

// MapStarship converts a starship DTO
func MapStarship(d StarshipDTO) domain.Starship {
	return domain.Starship{
		ID:            domain.ExtractID(d.URL),
		Name:          d.Name,
		Model:         d.Model,
		Manufacturer:  d.Manufacturer,
		StarshipClass: d.StarshipClass,
		URL:           d.URL,
	}
}
