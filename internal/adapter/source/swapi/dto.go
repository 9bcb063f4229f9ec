package swapi

import "encoding/json"

// Page is the paginated envelope some deployments wrap list results in
type Page struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  json.RawMessage `json:"results"`
}

// FilmDTO mirrors a film resource on the wire
type FilmDTO struct {
	Title        string   `json:"title"`
	EpisodeID    int      `json:"episode_id"`
	OpeningCrawl string   `json:"opening_crawl"`
	Director     string   `json:"director"`
	Producer     string   `json:"producer"`
	ReleaseDate  string   `json:"release_date"`
	Characters   []string `json:"characters"`
	Planets      []string `json:"planets"`
	Starships    []string `json:"starships"`
	Vehicles     []string `json:"vehicles"`
	Species      []string `json:"species"`
	Created      string   `json:"created"`
	Edited       string   `json:"edited"`
	URL          string   `json:"url"`
}

// CharacterDTO mirrors a people resource
type CharacterDTO struct {
	Name      string `json:"name"`
	BirthYear string `json:"birth_year"`
	Gender    string `json:"gender"`
	URL       string `json:"url"`
}

// PlanetDTO mirrors a planet resource
type PlanetDTO struct {
	Name       string `json:"name"`
	Climate    string `json:"climate"`
	Terrain    string `json:"terrain"`
	Population string `json:"population"`
	URL        string `json:"url"`
}

// StarshipDTO mirrors a starship resource
type StarshipDTO struct {
	Name          string `json:"name"`
	Model         string `json:"model"`
	Manufacturer  string `json:"manufacturer"`
	StarshipClass string `json:"starship_class"`
	URL           string `json:"url"`
}
