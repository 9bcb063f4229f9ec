package swapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/mmcdole/holocron/internal/domain"
)

const (
	DefaultBaseURL = "https://swapi.info/api/"
	defaultTimeout = 10 * time.Second
	defaultRetries = 3
	defaultBackoff = 500 * time.Millisecond
	userAgent      = "Holocron/1.0"

	// maxPages bounds envelope pagination against a looping next link
	maxPages = 50
)

// Outcome labels passed to an Observer
const (
	OutcomeOK          = "ok"
	OutcomeNotFound    = "not_found"
	OutcomeRateLimited = "rate_limited"
	OutcomeError       = "error"
	OutcomeOffline     = "offline"
)

// Observer is told about every finished upstream call
type Observer func(kind, outcome string, elapsed time.Duration)

// Options tunes the client. Zero values select the defaults.
type Options struct {
	Timeout   time.Duration
	Retries   int           // total attempts per request
	Backoff   time.Duration // multiplied by the attempt number
	RateLimit float64       // requests per second, 0 disables
	Burst     int
	Observer  Observer
}

// Client implements domain.FilmSource for swapi.info
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
	retries    int
	backoff    time.Duration
	observe    Observer
	logger     *slog.Logger
}

// NewClient creates a new film API client
func NewClient(baseURL string, opts Options, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}

	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Retries <= 0 {
		opts.Retries = defaultRetries
	}
	if opts.Backoff <= 0 {
		opts.Backoff = defaultBackoff
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), max(opts.Burst, 1))
	}
	observe := opts.Observer
	if observe == nil {
		observe = func(string, string, time.Duration) {}
	}

	return &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: opts.Timeout},
		limiter:    limiter,
		retries:    opts.Retries,
		backoff:    opts.Backoff,
		observe:    observe,
		logger:     logger,
	}, nil
}

// statusError carries a non-OK upstream status
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.code)
}

// resolve turns a path or absolute resource URL into a request URL
func (c *Client) resolve(ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid resource reference %q: %w", ref, err)
	}
	return c.baseURL.ResolveReference(u).String(), nil
}

// doRequest performs a GET with rate limiting and retries
func (c *Client) doRequest(ctx context.Context, kind, ref string) ([]byte, error) {
	reqURL, err := c.resolve(ref)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		if attempt > 1 {
			wait := time.Duration(attempt-1) * c.backoff
			c.logger.Debug("retrying swapi request", "url", reqURL, "attempt", attempt, "wait", wait)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		body, err := c.once(ctx, reqURL)
		if err == nil {
			c.observe(kind, OutcomeOK, time.Since(start))
			return body, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err

		var se *statusError
		if errors.As(err, &se) && se.code < 500 {
			break
		}
	}

	return nil, c.classify(kind, lastErr, time.Since(start))
}

// classify maps the final failure to a domain error and reports it
func (c *Client) classify(kind string, err error, elapsed time.Duration) error {
	var se *statusError
	if !errors.As(err, &se) {
		c.observe(kind, OutcomeOffline, elapsed)
		c.logger.Error("swapi request failed", "kind", kind, "error", err)
		return fmt.Errorf("%w: %v", domain.ErrSourceOffline, err)
	}

	switch {
	case se.code == http.StatusNotFound:
		c.observe(kind, OutcomeNotFound, elapsed)
		if kind == "film" || kind == "films" {
			return domain.ErrFilmNotFound
		}
		return domain.ErrEntityNotFound
	case se.code == http.StatusTooManyRequests:
		c.observe(kind, OutcomeRateLimited, elapsed)
		return domain.ErrRateLimited
	case se.code >= 500:
		c.observe(kind, OutcomeOffline, elapsed)
		c.logger.Error("swapi server error", "kind", kind, "status", se.code)
		return fmt.Errorf("%w: %v", domain.ErrSourceOffline, err)
	default:
		c.observe(kind, OutcomeError, elapsed)
		c.logger.Error("swapi request error", "kind", kind, "status", se.code)
		return err
	}
}

func (c *Client) once(ctx context.Context, reqURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("swapi request", "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode}
	}
	return body, nil
}

// getList fetches a collection that is either a bare JSON array or a
// paginated envelope, following next links until exhausted.
func getList[T any](ctx context.Context, c *Client, kind, ref string) ([]T, error) {
	var all []T
	seen := make(map[string]bool)
	for page := 0; ref != "" && page < maxPages; page++ {
		if seen[ref] {
			break
		}
		seen[ref] = true

		body, err := c.doRequest(ctx, kind, ref)
		if err != nil {
			return nil, err
		}

		trimmed := bytes.TrimSpace(body)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			var items []T
			if err := json.Unmarshal(trimmed, &items); err != nil {
				return nil, fmt.Errorf("failed to parse %s list: %w", kind, err)
			}
			return append(all, items...), nil
		}

		var env Page
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("failed to parse %s page: %w", kind, err)
		}
		var items []T
		if len(env.Results) > 0 {
			if err := json.Unmarshal(env.Results, &items); err != nil {
				return nil, fmt.Errorf("failed to parse %s results: %w", kind, err)
			}
		}
		all = append(all, items...)

		ref = ""
		if env.Next != nil {
			ref = *env.Next
		}
	}
	return all, nil
}

func getOne[T any](ctx context.Context, c *Client, kind, ref string) (*T, error) {
	body, err := c.doRequest(ctx, kind, ref)
	if err != nil {
		return nil, err
	}
	var dto T
	if err := json.Unmarshal(body, &dto); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", kind, err)
	}
	return &dto, nil
}

// GetFilms returns every film
func (c *Client) GetFilms(ctx context.Context) ([]domain.Film, error) {
	dtos, err := getList[FilmDTO](ctx, c, "films", "films")
	if err != nil {
		return nil, err
	}
	return MapFilms(dtos), nil
}

// GetFilm returns a single film by id
func (c *Client) GetFilm(ctx context.Context, id string) (*domain.Film, error) {
	if !domain.ValidFilmID(id) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidFilmID, id)
	}
	dto, err := getOne[FilmDTO](ctx, c, "film", "films/"+strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	film := MapFilm(*dto)
	if film.ID == "" {
		film.ID = strings.TrimSpace(id)
	}
	return &film, nil
}

// GetCharacter resolves a character resource URL
func (c *Client) GetCharacter(ctx context.Context, ref string) (*domain.Character, error) {
	dto, err := getOne[CharacterDTO](ctx, c, string(domain.KindCharacter), ref)
	if err != nil {
		return nil, err
	}
	ch := MapCharacter(*dto)
	if ch.URL == "" {
		ch.URL, ch.ID = ref, domain.ExtractID(ref)
	}
	return &ch, nil
}

// GetPlanet resolves a planet resource URL
func (c *Client) GetPlanet(ctx context.Context, ref string) (*domain.Planet, error) {
	dto, err := getOne[PlanetDTO](ctx, c, string(domain.KindPlanet), ref)
	if err != nil {
		return nil, err
	}
	p := MapPlanet(*dto)
	if p.URL == "" {
		p.URL, p.ID = ref, domain.ExtractID(ref)
	}
	return &p, nil
}

// GetStarship resolves a starship resource URL
func (c *Client) GetStarship(ctx context.Context, ref string) (*domain.Starship, error) {
	dto, err := getOne[StarshipDTO](ctx, c, string(domain.KindStarship), ref)
	if err != nil {
		return nil, err
	}
	s := MapStarship(*dto)
	if s.URL == "" {
		s.URL, s.ID = ref, domain.ExtractID(ref)
	}
	return &s, nil
}
