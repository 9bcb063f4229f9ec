package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// RelatedKind distinguishes the entity types a film links to
type RelatedKind string

const (
	KindCharacter RelatedKind = "character"
	KindPlanet    RelatedKind = "planet"
	KindStarship  RelatedKind = "starship"
)

// Film represents one catalog entry. Films are never mutated after load;
// updates replace the whole collection.
type Film struct {
	ID           string   // Trailing numeric segment of URL
	Title        string   // Display title
	EpisodeID    int      // Saga episode number
	OpeningCrawl string   // Long-form description
	Director     string   // Director name(s)
	Producer     string   // Comma separated producer names
	ReleaseDate  string   // YYYY-MM-DD
	Characters   []string // Character resource URLs
	Planets      []string // Planet resource URLs
	Starships    []string // Starship resource URLs
	Vehicles     []string // Vehicle resource URLs
	Species      []string // Species resource URLs
	Created      string
	Edited       string
	URL          string
}

// Year returns the 4-digit year prefix of the release date, or "" if absent
func (f Film) Year() string {
	year, _, _ := strings.Cut(f.ReleaseDate, "-")
	return year
}

// EpisodeLabel returns the display label (e.g., "Episode 4")
func (f Film) EpisodeLabel() string {
	if f.EpisodeID <= 0 {
		return ""
	}
	return fmt.Sprintf("Episode %d", f.EpisodeID)
}

// RelatedCount returns the number of linked entities of the given kind
func (f Film) RelatedCount(kind RelatedKind) int {
	switch kind {
	case KindCharacter:
		return len(f.Characters)
	case KindPlanet:
		return len(f.Planets)
	case KindStarship:
		return len(f.Starships)
	default:
		return 0
	}
}

// RelatedURLs returns the linked resource URLs of the given kind
func (f Film) RelatedURLs(kind RelatedKind) []string {
	switch kind {
	case KindCharacter:
		return f.Characters
	case KindPlanet:
		return f.Planets
	case KindStarship:
		return f.Starships
	default:
		return nil
	}
}

// Character represents a person appearing in a film
type Character struct {
	ID        string
	Name      string
	BirthYear string
	Gender    string
	URL       string
}

// Planet represents a location featured in a film
type Planet struct {
	ID         string
	Name       string
	Climate    string
	Terrain    string
	Population string
	URL        string
}

// Starship represents a craft featured in a film
type Starship struct {
	ID            string
	Name          string
	Model         string
	Manufacturer  string
	StarshipClass string
	URL           string
}

// Related groups the resolved entities linked from a single film
type Related struct {
	FilmID     string
	Characters []Character
	Planets    []Planet
	Starships  []Starship
}

// Count returns the number of resolved entities of the given kind
func (r Related) Count(kind RelatedKind) int {
	switch kind {
	case KindCharacter:
		return len(r.Characters)
	case KindPlanet:
		return len(r.Planets)
	case KindStarship:
		return len(r.Starships)
	default:
		return 0
	}
}

var idPattern = regexp.MustCompile(`/(\d+)/?$`)

// ExtractID returns the trailing numeric path segment of a resource URL.
// Returns "" when the URL does not end in a number.
func ExtractID(url string) string {
	m := idPattern.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}

// ValidFilmID reports whether id is a positive decimal integer
func ValidFilmID(id string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil {
		return false
	}
	return n >= 1
}
