package swapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mmcdole/holocron/internal/domain"
)

const filmsArray = `[
  {"title":"A New Hope","episode_id":4,"director":"George Lucas","producer":"Gary Kurtz","release_date":"1977-05-25",
   "characters":["https://swapi.info/api/people/1"],"planets":[],"starships":[],"vehicles":[],"species":[],
   "url":"https://swapi.info/api/films/1"},
  {"title":"The Empire Strikes Back","episode_id":5,"director":"Irvin Kershner","producer":"Gary Kurtz","release_date":"1980-05-17",
   "url":"https://swapi.info/api/films/2/"}
]`

func newTestClient(t *testing.T, h http.Handler, obs Observer) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL+"/api/", Options{Retries: 3, Backoff: time.Millisecond, Observer: obs}, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestGetFilmsBareArray(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/films" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q", got)
		}
		fmt.Fprint(w, filmsArray)
	}), nil)

	films, err := c.GetFilms(context.Background())
	if err != nil {
		t.Fatalf("GetFilms: %v", err)
	}
	if len(films) != 2 {
		t.Fatalf("len = %d, want 2", len(films))
	}
	if films[0].ID != "1" || films[1].ID != "2" {
		t.Errorf("ids = %q, %q", films[0].ID, films[1].ID)
	}
	if films[0].RelatedCount(domain.KindCharacter) != 1 {
		t.Errorf("characters = %v", films[0].Characters)
	}
}

func TestGetFilmsFollowsEnvelope(t *testing.T) {
	var srvURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/films", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `{"count":2,"next":null,"results":[{"title":"B","url":"https://x/api/films/2/"}]}`)
			return
		}
		fmt.Fprintf(w, `{"count":2,"next":%q,"results":[{"title":"A","url":"https://x/api/films/1/"}]}`,
			srvURL+"/api/films?page=2")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	srvURL = srv.URL

	c, err := NewClient(srv.URL+"/api", Options{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	films, err := c.GetFilms(context.Background())
	if err != nil {
		t.Fatalf("GetFilms: %v", err)
	}
	if len(films) != 2 || films[0].Title != "A" || films[1].Title != "B" {
		t.Errorf("films = %+v", films)
	}
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"not found", http.StatusNotFound, domain.ErrFilmNotFound},
		{"rate limited", http.StatusTooManyRequests, domain.ErrRateLimited},
		{"server error", http.StatusBadGateway, domain.ErrSourceOffline},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}), nil)
			_, err := c.GetFilm(context.Background(), "7")
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRelatedNotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}), nil)
	_, err := c.GetPlanet(context.Background(), "planets/99")
	if !errors.Is(err, domain.ErrEntityNotFound) {
		t.Errorf("err = %v, want ErrEntityNotFound", err)
	}
}

func TestRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"title":"A New Hope","url":"https://swapi.info/api/films/1"}`)
	}), nil)

	film, err := c.GetFilm(context.Background(), "1")
	if err != nil {
		t.Fatalf("GetFilm: %v", err)
	}
	if film.Title != "A New Hope" || calls.Load() != 3 {
		t.Errorf("film = %+v after %d calls", film, calls.Load())
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}), nil)
	c.GetFilm(context.Background(), "42")
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestOfflineSource(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := NewClient(base, Options{Retries: 2, Backoff: time.Millisecond}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.GetFilms(context.Background()); !errors.Is(err, domain.ErrSourceOffline) {
		t.Errorf("err = %v, want ErrSourceOffline", err)
	}
}

func TestInvalidFilmID(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an invalid id")
	}), nil)
	for _, id := range []string{"", "abc", "0", "-1"} {
		if _, err := c.GetFilm(context.Background(), id); !errors.Is(err, domain.ErrInvalidFilmID) {
			t.Errorf("GetFilm(%q) err = %v", id, err)
		}
	}
}

func TestRelatedByAbsoluteURL(t *testing.T) {
	var srvURL string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/people/1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		fmt.Fprintf(w, `{"name":"Luke Skywalker","birth_year":"19BBY","url":"%s/api/people/1"}`, srvURL)
	}), nil)
	srvURL = "http://" + c.baseURL.Host

	ch, err := c.GetCharacter(context.Background(), srvURL+"/api/people/1")
	if err != nil {
		t.Fatalf("GetCharacter: %v", err)
	}
	if ch.Name != "Luke Skywalker" || ch.ID != "1" {
		t.Errorf("character = %+v", ch)
	}
}

func TestObserver(t *testing.T) {
	var mu sync.Mutex
	outcomes := map[string]int{}
	obs := func(kind, outcome string, _ time.Duration) {
		mu.Lock()
		outcomes[kind+"/"+outcome]++
		mu.Unlock()
	}
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, filmsArray)
	}), obs)
	if _, err := c.GetFilms(context.Background()); err != nil {
		t.Fatal(err)
	}
	if outcomes["films/ok"] != 1 {
		t.Errorf("outcomes = %v", outcomes)
	}
}
