package catalog

import (
	"slices"
	"unicode"

	"github.com/mmcdole/holocron/internal/domain"
)

// Stats aggregates the full, unfiltered film collection
type Stats struct {
	TotalFilms      int      `json:"total_films" yaml:"total_films"`
	TotalCharacters int      `json:"total_characters" yaml:"total_characters"`
	TotalPlanets    int      `json:"total_planets" yaml:"total_planets"`
	TotalStarships  int      `json:"total_starships" yaml:"total_starships"`
	TotalVehicles   int      `json:"total_vehicles" yaml:"total_vehicles"`
	TotalSpecies    int      `json:"total_species" yaml:"total_species"`
	Directors       []string `json:"directors" yaml:"directors"`
	Producers       []string `json:"producers" yaml:"producers"`
	Years           []string `json:"years" yaml:"years"`
}

// ComputeStats sums related counts and collects the distinct filter choices.
// Pass the whole collection, not a filtered view: choice lists must stay
// stable regardless of which filters are active.
func ComputeStats(films []domain.Film) Stats {
	stats := Stats{
		TotalFilms: len(films),
		Directors:  []string{},
		Producers:  []string{},
		Years:      []string{},
	}

	directors := make(map[string]struct{})
	producers := make(map[string]struct{})
	years := make(map[string]struct{})

	for _, f := range films {
		stats.TotalCharacters += len(f.Characters)
		stats.TotalPlanets += len(f.Planets)
		stats.TotalStarships += len(f.Starships)
		stats.TotalVehicles += len(f.Vehicles)
		stats.TotalSpecies += len(f.Species)

		if f.Director != "" {
			directors[f.Director] = struct{}{}
		}
		if f.Producer != "" {
			producers[f.Producer] = struct{}{}
		}
		if y := f.Year(); isYear(y) {
			years[y] = struct{}{}
		}
	}

	stats.Directors = sortedKeys(directors)
	stats.Producers = sortedKeys(producers)
	stats.Years = sortedKeys(years)
	return stats
}

func isYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
