// Package search provides the typo-tolerant lookups behind jump-to and the
// filter panel's choice lists.
package search

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mmcdole/holocron/internal/domain"
)

// TitleMatch is a film whose title matched a jump query
type TitleMatch struct {
	Film     domain.Film
	Distance int // Levenshtein distance between query and title; lower is closer
}

// RankTitles returns the films whose title contains the query's characters
// in order, ignoring case, closest first. Ties keep collection order.
func RankTitles(query string, films []domain.Film) []TitleMatch {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	titles := make([]string, len(films))
	for i, f := range films {
		titles[i] = f.Title
	}

	ranks := fuzzy.RankFindFold(query, titles)
	slices.SortStableFunc(ranks, func(a, b fuzzy.Rank) int {
		if a.Distance != b.Distance {
			return a.Distance - b.Distance
		}
		return a.OriginalIndex - b.OriginalIndex
	})

	matches := make([]TitleMatch, len(ranks))
	for i, r := range ranks {
		matches[i] = TitleMatch{Film: films[r.OriginalIndex], Distance: r.Distance}
	}
	return matches
}

// Service answers jump queries from the film cache
type Service struct {
	queries domain.FilmQueries
	logger  *slog.Logger
}

// NewService creates a new search service
func NewService(queries domain.FilmQueries, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{queries: queries, logger: logger}
}

// Jump ranks cached films against query. Returns nil when nothing is cached.
func (s *Service) Jump(query string, limit int) []TitleMatch {
	films, ok := s.queries.CachedFilms()
	if !ok {
		s.logger.Debug("jump without cached films", "query", query)
		return nil
	}
	matches := RankTitles(query, films)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
