package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmcdole/holocron/internal/domain"
	"github.com/mmcdole/holocron/internal/films"
	"github.com/mmcdole/holocron/internal/metrics"
	"github.com/mmcdole/holocron/internal/store"
)

type fakeSource struct {
	films      []domain.Film
	calls      atomic.Int32
	err        error
	failPlanet bool
}

func (f *fakeSource) GetFilms(ctx context.Context) ([]domain.Film, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.films, nil
}

func (f *fakeSource) GetFilm(ctx context.Context, id string) (*domain.Film, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, film := range f.films {
		if film.ID == id {
			return &film, nil
		}
	}
	return nil, domain.ErrFilmNotFound
}

func (f *fakeSource) GetCharacter(ctx context.Context, url string) (*domain.Character, error) {
	return &domain.Character{ID: domain.ExtractID(url), Name: "person " + domain.ExtractID(url), URL: url}, nil
}

func (f *fakeSource) GetPlanet(ctx context.Context, url string) (*domain.Planet, error) {
	if f.failPlanet {
		return nil, domain.ErrSourceOffline
	}
	return &domain.Planet{ID: domain.ExtractID(url), Name: "planet " + domain.ExtractID(url), URL: url}, nil
}

func (f *fakeSource) GetStarship(ctx context.Context, url string) (*domain.Starship, error) {
	return &domain.Starship{ID: domain.ExtractID(url), Name: "ship " + domain.ExtractID(url), URL: url}, nil
}

func entityURL(kind string, id int) string {
	return fmt.Sprintf("https://swapi.info/api/%s/%d", kind, id)
}

func sampleFilms() []domain.Film {
	return []domain.Film{
		{
			ID: "1", Title: "A New Hope", EpisodeID: 4, Director: "George Lucas",
			Producer: "Gary Kurtz, Rick McCallum", ReleaseDate: "1977-05-25",
			OpeningCrawl: "It is a period of civil war.",
			Characters:   []string{entityURL("people", 1), entityURL("people", 2)},
			Planets:      []string{entityURL("planets", 1)},
			Starships:    []string{entityURL("starships", 2)},
		},
		{ID: "2", Title: "The Empire Strikes Back", EpisodeID: 5, Director: "Irvin Kershner", Producer: "Gary Kurtz, Rick McCallum", ReleaseDate: "1980-05-17"},
		{ID: "3", Title: "Return of the Jedi", EpisodeID: 6, Director: "Richard Marquand", Producer: "Howard G. Kazanjian, George Lucas, Rick McCallum", ReleaseDate: "1983-05-25"},
		{ID: "4", Title: "The Phantom Menace", EpisodeID: 1, Director: "George Lucas", Producer: "Rick McCallum", ReleaseDate: "1999-05-19"},
	}
}

type fixture struct {
	src     *fakeSource
	metrics *metrics.Metrics
	server  *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, Options{ItemHeight: 1, Overscan: 2})
}

func newFixtureWith(t *testing.T, opts Options) *fixture {
	t.Helper()
	src := &fakeSource{films: sampleFilms()}
	st, err := store.NewFilmStore("", "")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	m := metrics.New()
	cmds := films.NewCommands(src, st, time.Hour, 2, nil)
	h := NewHandler(cmds, films.NewQueries(st), m, opts, nil)
	srv := httptest.NewServer(NewRouter(h, m, nil))
	t.Cleanup(srv.Close)
	return &fixture{src: src, metrics: m, server: srv}
}

func (f *fixture) get(t *testing.T, path string, dest any) int {
	t.Helper()
	resp, err := http.Get(f.server.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if dest != nil {
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
	}
	return resp.StatusCode
}

type listBody struct {
	Films   []FilmJSON `json:"films"`
	Total   int        `json:"total"`
	Page    int        `json:"page"`
	HasMore bool       `json:"has_more"`
}

func titles(films []FilmJSON) string {
	out := make([]string, len(films))
	for i, f := range films {
		out[i] = f.Title
	}
	return strings.Join(out, "|")
}

func TestListFilms(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name  string
		query string
		want  string
		total int
		more  bool
	}{
		{"default sort by title", "", "A New Hope|Return of the Jedi|The Empire Strikes Back|The Phantom Menace", 4, false},
		{"episode descending", "?sort=episode_id&dir=desc", "Return of the Jedi|The Empire Strikes Back|A New Hope|The Phantom Menace", 4, false},
		{"search", "?search=the", "Return of the Jedi|The Empire Strikes Back|The Phantom Menace", 3, false},
		{"director", "?director=lucas&sort=release_date", "A New Hope|The Phantom Menace", 2, false},
		{"producer and year", "?producer=kazanjian&year=1983", "Return of the Jedi", 1, false},
		{"no match", "?search=clone", "", 0, false},
		{"first page", "?sort=episode_id&page_size=3", "The Phantom Menace|A New Hope|The Empire Strikes Back", 4, true},
		{"second page", "?sort=episode_id&page_size=3&page=2", "Return of the Jedi", 4, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body listBody
			if status := f.get(t, "/api/films"+tt.query, &body); status != http.StatusOK {
				t.Fatalf("status = %d, want 200", status)
			}
			if got := titles(body.Films); got != tt.want {
				t.Errorf("titles = %q, want %q", got, tt.want)
			}
			if body.Total != tt.total {
				t.Errorf("total = %d, want %d", body.Total, tt.total)
			}
			if body.HasMore != tt.more {
				t.Errorf("has_more = %v, want %v", body.HasMore, tt.more)
			}
		})
	}

	if n := f.src.calls.Load(); n != 1 {
		t.Errorf("source fetched %d times, want 1", n)
	}
}

func TestListFilmsDefaultPageSize(t *testing.T) {
	f := newFixtureWith(t, Options{PageSize: 2})

	tests := []struct {
		name    string
		query   string
		want    string
		page    int
		hasMore bool
	}{
		{"configured default", "?sort=episode_id", "The Phantom Menace|A New Hope", 1, true},
		{"second default page", "?sort=episode_id&page=2", "The Empire Strikes Back|Return of the Jedi", 2, false},
		{"explicit size wins", "?sort=episode_id&page_size=3", "The Phantom Menace|A New Hope|The Empire Strikes Back", 1, true},
		{"zero lists all", "?sort=episode_id&page_size=0", "The Phantom Menace|A New Hope|The Empire Strikes Back|Return of the Jedi", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body listBody
			if code := f.get(t, "/api/films"+tt.query, &body); code != http.StatusOK {
				t.Fatalf("status = %d", code)
			}
			if got := titles(body.Films); got != tt.want {
				t.Errorf("films = %q, want %q", got, tt.want)
			}
			if body.Total != 4 {
				t.Errorf("total = %d, want 4", body.Total)
			}
			if body.Page != tt.page || body.HasMore != tt.hasMore {
				t.Errorf("page = %d has_more = %v, want %d %v", body.Page, body.HasMore, tt.page, tt.hasMore)
			}
		})
	}
}

func TestListFilmsRejectsBadQuery(t *testing.T) {
	f := newFixture(t)

	for _, q := range []string{
		"?sort=runtime",
		"?dir=sideways",
		"?page=abc",
		"?page_size=500",
		"?year=nineteen",
		"?search=" + strings.Repeat("x", maxSearchLength+1),
	} {
		var body errResponse
		if status := f.get(t, "/api/films"+q, &body); status != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, status)
		}
		if body.Error == "" {
			t.Errorf("%s: empty error message", q)
		}
	}
}

func TestListFilmsSourceOffline(t *testing.T) {
	f := newFixture(t)
	f.src.err = fmt.Errorf("%w: connection refused", domain.ErrSourceOffline)

	if status := f.get(t, "/api/films", nil); status != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", status)
	}
}

func TestGetFilm(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		path   string
		status int
	}{
		{"/api/films/1", http.StatusOK},
		{"/api/films/99", http.StatusNotFound},
		{"/api/films/abc", http.StatusBadRequest},
		{"/api/films/0", http.StatusBadRequest},
	}
	for _, tt := range tests {
		if status := f.get(t, tt.path, nil); status != tt.status {
			t.Errorf("%s: status = %d, want %d", tt.path, status, tt.status)
		}
	}

	var film FilmJSON
	f.get(t, "/api/films/1", &film)
	if film.Title != "A New Hope" || film.Year != "1977" {
		t.Errorf("film = %+v", film)
	}
	if film.OpeningCrawl == "" {
		t.Error("detail response missing opening crawl")
	}
	if film.Counts["characters"] != 2 {
		t.Errorf("characters count = %d, want 2", film.Counts["characters"])
	}
}

func TestGetRelated(t *testing.T) {
	f := newFixture(t)

	var rel relatedResponse
	if status := f.get(t, "/api/films/1/related", &rel); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if len(rel.Characters) != 2 || len(rel.Planets) != 1 || len(rel.Starships) != 1 {
		t.Errorf("related = %+v", rel)
	}
	if rel.Incomplete {
		t.Error("complete result flagged incomplete")
	}
	if rel.Characters[0].Name != "person 1" {
		t.Errorf("first character = %q, want %q", rel.Characters[0].Name, "person 1")
	}
}

func TestGetRelatedPartial(t *testing.T) {
	f := newFixture(t)
	f.src.failPlanet = true

	var rel relatedResponse
	if status := f.get(t, "/api/films/1/related", &rel); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if !rel.Incomplete {
		t.Error("partial result not flagged incomplete")
	}
	if len(rel.Planets) != 0 || len(rel.Characters) != 2 {
		t.Errorf("related = %+v", rel)
	}
}

func TestStats(t *testing.T) {
	f := newFixture(t)

	var stats struct {
		Total     int      `json:"total_films"`
		Directors []string `json:"directors"`
	}
	if status := f.get(t, "/api/stats", &stats); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if stats.Total != 4 {
		t.Errorf("total = %d, want 4", stats.Total)
	}
	if len(stats.Directors) != 3 {
		t.Errorf("directors = %v, want 3 unique", stats.Directors)
	}
}

func TestWindow(t *testing.T) {
	f := newFixture(t)

	var win map[string]int
	status := f.get(t, "/api/window?count=100&item_height=60&container_height=400&scroll=600&overscan=3", &win)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	want := map[string]int{"start": 7, "end": 20, "total_height": 6000, "start_offset": 420}
	for k, v := range want {
		if win[k] != v {
			t.Errorf("%s = %d, want %d", k, win[k], v)
		}
	}

	if status := f.get(t, "/api/window?count=-1", nil); status != http.StatusBadRequest {
		t.Errorf("negative count status = %d, want 400", status)
	}
}

func TestSuggest(t *testing.T) {
	f := newFixture(t)

	var body struct {
		Suggestions []suggestionJSON `json:"suggestions"`
	}
	if status := f.get(t, "/api/suggest?q=jedi", &body); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if len(body.Suggestions) != 1 || body.Suggestions[0].ID != "3" {
		t.Errorf("suggestions = %+v", body.Suggestions)
	}

	if status := f.get(t, "/api/suggest", nil); status != http.StatusBadRequest {
		t.Errorf("missing q status = %d, want 400", status)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	f := newFixture(t)

	var health map[string]string
	if status := f.get(t, "/health/live", &health); status != http.StatusOK || health["status"] != "ok" {
		t.Errorf("health = %d %v", status, health)
	}

	f.get(t, "/api/films", nil)
	f.get(t, "/api/films", nil)
	got := testutil.ToFloat64(f.metrics.HTTPRequestsTotal.WithLabelValues("/api/films", "200"))
	if got != 2 {
		t.Errorf("requests counter = %v, want 2", got)
	}
	if got := testutil.ToFloat64(f.metrics.ViewSize); got != 4 {
		t.Errorf("view size = %v, want 4", got)
	}

	resp, err := http.Get(f.server.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("metrics status = %d, want 200", resp.StatusCode)
	}
}

func TestUnknownRoute(t *testing.T) {
	f := newFixture(t)
	var body errResponse
	if status := f.get(t, "/api/planets", &body); status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
}
