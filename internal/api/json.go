package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mmcdole/holocron/internal/catalog"
	"github.com/mmcdole/holocron/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", "error", err)
	}
}

type errResponse struct {
	Error string `json:"error"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// FilmJSON is the wire shape of a film, shared with the CLI's json and
// yaml output.
type FilmJSON struct {
	ID           string         `json:"id" yaml:"id"`
	Title        string         `json:"title" yaml:"title"`
	EpisodeID    int            `json:"episode_id" yaml:"episode_id"`
	Director     string         `json:"director" yaml:"director"`
	Producer     string         `json:"producer" yaml:"producer"`
	ReleaseDate  string         `json:"release_date" yaml:"release_date"`
	Year         string         `json:"year" yaml:"year"`
	OpeningCrawl string         `json:"opening_crawl,omitempty" yaml:"opening_crawl,omitempty"`
	Counts       map[string]int `json:"counts" yaml:"counts"`
	URL          string         `json:"url" yaml:"url"`
}

// NewFilmJSON converts a film. The opening crawl is included only when
// detailed is set.
func NewFilmJSON(f domain.Film, detailed bool) FilmJSON {
	out := FilmJSON{
		ID:          f.ID,
		Title:       f.Title,
		EpisodeID:   f.EpisodeID,
		Director:    f.Director,
		Producer:    f.Producer,
		ReleaseDate: f.ReleaseDate,
		Year:        catalog.FormatYear(f.ReleaseDate),
		Counts: map[string]int{
			"characters": len(f.Characters),
			"planets":    len(f.Planets),
			"starships":  len(f.Starships),
			"vehicles":   len(f.Vehicles),
			"species":    len(f.Species),
		},
		URL: f.URL,
	}
	if detailed {
		out.OpeningCrawl = f.OpeningCrawl
	}
	return out
}

// NewFilmListJSON converts a list of films
func NewFilmListJSON(films []domain.Film) []FilmJSON {
	out := make([]FilmJSON, len(films))
	for i, f := range films {
		out[i] = NewFilmJSON(f, false)
	}
	return out
}

type filmListResponse struct {
	Films   []FilmJSON `json:"films"`
	Total   int        `json:"total"`
	Page    int        `json:"page,omitempty"`
	HasMore bool       `json:"has_more"`
}

type namedJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type relatedResponse struct {
	FilmID     string      `json:"film_id"`
	Characters []namedJSON `json:"characters"`
	Planets    []namedJSON `json:"planets"`
	Starships  []namedJSON `json:"starships"`
	Incomplete bool        `json:"incomplete,omitempty"`
}

func newRelatedResponse(rel domain.Related) relatedResponse {
	out := relatedResponse{
		FilmID:     rel.FilmID,
		Characters: make([]namedJSON, len(rel.Characters)),
		Planets:    make([]namedJSON, len(rel.Planets)),
		Starships:  make([]namedJSON, len(rel.Starships)),
	}
	for i, c := range rel.Characters {
		out.Characters[i] = namedJSON{ID: c.ID, Name: c.Name}
	}
	for i, p := range rel.Planets {
		out.Planets[i] = namedJSON{ID: p.ID, Name: p.Name}
	}
	for i, s := range rel.Starships {
		out.Starships[i] = namedJSON{ID: s.ID, Name: s.Name}
	}
	return out
}

type suggestionJSON struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Distance int    `json:"distance"`
}
