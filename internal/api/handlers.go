package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/mmcdole/holocron/internal/catalog"
	"github.com/mmcdole/holocron/internal/domain"
	"github.com/mmcdole/holocron/internal/metrics"
	"github.com/mmcdole/holocron/internal/search"
	"github.com/mmcdole/holocron/internal/window"
)

// Options carries display defaults used when a query omits them
type Options struct {
	ItemHeight int
	Overscan   int
	PageSize   int // default page size of /api/films; 0 lists everything
}

// Handler holds API route handlers.
type Handler struct {
	commands domain.FilmCommands
	queries  domain.FilmQueries
	pipeline *catalog.Pipeline
	metrics  *metrics.Metrics
	opts     Options
	logger   *slog.Logger

	mu       sync.Mutex
	snapshot []domain.Film
}

// NewHandler creates a new Handler. m may be nil.
func NewHandler(commands domain.FilmCommands, queries domain.FilmQueries, m *metrics.Metrics, opts Options, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.ItemHeight <= 0 {
		opts.ItemHeight = 1
	}
	opts.PageSize = min(max(opts.PageSize, 0), maxPageSize)
	return &Handler{
		commands: commands,
		queries:  queries,
		pipeline: catalog.NewPipeline(),
		metrics:  m,
		opts:     opts,
		logger:   logger,
	}
}

// films returns the current collection. The slice is only replaced when a
// sync actually fetched, so the pipeline's memo survives between requests.
func (h *Handler) films(ctx context.Context) ([]domain.Film, error) {
	res, err := h.commands.SyncFilms(ctx, nil)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if res.FromCache && h.snapshot != nil {
		return h.snapshot, nil
	}
	films, ok := h.queries.CachedFilms()
	if !ok {
		if films, err = h.commands.FetchFilms(ctx); err != nil {
			return nil, err
		}
	}
	h.snapshot = films
	return films, nil
}

// writeError maps domain errors onto status codes
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidFilmID):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, domain.ErrFilmNotFound), errors.Is(err, domain.ErrEntityNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, domain.ErrRateLimited):
		writeJSON(w, http.StatusTooManyRequests, errorBody("upstream rate limit exceeded"))
	case errors.Is(err, domain.ErrSourceOffline):
		writeJSON(w, http.StatusBadGateway, errorBody("film source unreachable"))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusGatewayTimeout, errorBody("request cancelled"))
	default:
		h.logger.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// ListFilms handles GET /api/films.
func (h *Handler) ListFilms(w http.ResponseWriter, r *http.Request) {
	q, err := parseFilmsQuery(r.URL.Query(), h.opts.PageSize)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	films, err := h.films(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	view := h.pipeline.View(films, q.filters(), q.sortSpec())
	if h.metrics != nil {
		h.metrics.SetViewSize(len(view))
	}

	page, more := catalog.Page(view, q.Page, q.PageSize)
	resp := filmListResponse{
		Films:   NewFilmListJSON(page),
		Total:   len(view),
		HasMore: more,
	}
	if q.PageSize > 0 {
		resp.Page = q.Page
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetFilm handles GET /api/films/{id}.
func (h *Handler) GetFilm(w http.ResponseWriter, r *http.Request) {
	film, err := h.commands.FetchFilm(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NewFilmJSON(*film, true))
}

// GetRelated handles GET /api/films/{id}/related.
func (h *Handler) GetRelated(w http.ResponseWriter, r *http.Request) {
	film, err := h.commands.FetchFilm(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	if rel, ok := h.queries.CachedRelated(*film); ok {
		writeJSON(w, http.StatusOK, newRelatedResponse(rel))
		return
	}

	rel, err := h.commands.FetchRelated(r.Context(), *film, nil)
	resp := newRelatedResponse(rel)
	if err != nil {
		resolved := len(rel.Characters) + len(rel.Planets) + len(rel.Starships)
		if resolved == 0 {
			h.writeError(w, err)
			return
		}
		h.logger.Warn("partial related result", "filmID", film.ID, "error", err)
		resp.Incomplete = true
	}
	writeJSON(w, http.StatusOK, resp)
}

// Stats handles GET /api/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	films, err := h.films(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.pipeline.Stats(films))
}

// Window handles GET /api/window.
func (h *Handler) Window(w http.ResponseWriter, r *http.Request) {
	q, err := parseWindowQuery(r.URL.Query(), h.opts.ItemHeight, h.opts.Overscan)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	win := window.Compute(q.Count, q.ItemHeight, q.ContainerHeight, q.Scroll, q.Overscan)
	writeJSON(w, http.StatusOK, map[string]int{
		"start":        win.Start,
		"end":          win.End,
		"total_height": win.TotalHeight,
		"start_offset": win.StartOffset,
	})
}

// Suggest handles GET /api/suggest.
func (h *Handler) Suggest(w http.ResponseWriter, r *http.Request) {
	q, err := parseSuggestQuery(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	films, err := h.films(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	matches := search.RankTitles(q.Q, films)
	if len(matches) > q.Limit {
		matches = matches[:q.Limit]
	}
	out := make([]suggestionJSON, len(matches))
	for i, m := range matches {
		out[i] = suggestionJSON{ID: m.Film.ID, Title: m.Film.Title, Distance: m.Distance}
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": out})
}
