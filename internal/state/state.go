// Package state holds the browser's application state and the pure reducer
// that advances it.
package state

import (
	"slices"

	"github.com/mmcdole/holocron/internal/catalog"
	"github.com/mmcdole/holocron/internal/domain"
)

// DefaultPageSize is the page size used by paginated loads
const DefaultPageSize = 20

// Pagination tracks paginated loading of the collection
type Pagination struct {
	Page     int
	PageSize int
	HasMore  bool
	Loading  bool
}

// State is the full application state. Values are replaced, never mutated:
// Reduce always returns a fresh State.
type State struct {
	Films      []domain.Film
	Selected   *domain.Film
	Loading    bool
	Err        error
	Sort       catalog.SortSpec
	Filters    catalog.FilterSet
	Pagination Pagination

	pipeline *catalog.Pipeline
}

// New returns the initial state
func New() State {
	return State{
		Films:      []domain.Film{},
		Sort:       catalog.DefaultSort(),
		Filters:    catalog.FilterSet{},
		Pagination: Pagination{Page: 1, PageSize: DefaultPageSize, HasMore: true},
		pipeline:   catalog.NewPipeline(),
	}
}

// View returns the filtered and sorted films
func (s State) View() []domain.Film {
	if s.pipeline == nil {
		return catalog.DeriveView(s.Films, s.Filters, s.Sort)
	}
	return s.pipeline.View(s.Films, s.Filters, s.Sort)
}

// Stats summarizes the full collection, ignoring filters
func (s State) Stats() catalog.Stats {
	if s.pipeline == nil {
		return catalog.ComputeStats(s.Films)
	}
	return s.pipeline.Stats(s.Films)
}

// Action is a state transition
type Action interface {
	apply(s State) State
}

// Reduce applies a to s and returns the new state
func Reduce(s State, a Action) State {
	if a == nil {
		return s
	}
	return a.apply(s)
}

// SetFilms replaces the collection
type SetFilms struct{ Films []domain.Film }

func (a SetFilms) apply(s State) State {
	s.Films = slices.Clone(a.Films)
	if s.Films == nil {
		s.Films = []domain.Film{}
	}
	return s
}

// AddFilms appends a loaded page
type AddFilms struct{ Films []domain.Film }

func (a AddFilms) apply(s State) State {
	s.Films = slices.Concat(s.Films, a.Films)
	s.Pagination.Loading = false
	return s
}

// ClearFilms empties the collection and rewinds pagination
type ClearFilms struct{}

func (ClearFilms) apply(s State) State {
	s.Films = []domain.Film{}
	s.Selected = nil
	s.Pagination.Page = 1
	s.Pagination.HasMore = true
	return s
}

// SetSelected sets or clears (nil) the film shown in detail
type SetSelected struct{ Film *domain.Film }

func (a SetSelected) apply(s State) State {
	if a.Film == nil {
		s.Selected = nil
		return s
	}
	f := *a.Film
	s.Selected = &f
	return s
}

// SetLoading sets the global loading flag
type SetLoading struct{ Loading bool }

func (a SetLoading) apply(s State) State {
	s.Loading = a.Loading
	return s
}

// SetError records an error and stops loading
type SetError struct{ Err error }

func (a SetError) apply(s State) State {
	s.Err = a.Err
	s.Loading = false
	return s
}

// SetSort replaces the sort spec
type SetSort struct{ Spec catalog.SortSpec }

func (a SetSort) apply(s State) State {
	s.Sort = a.Spec
	return s
}

// ToggleSort flips the direction when key is already active, otherwise
// sorts by key ascending.
type ToggleSort struct{ Key catalog.SortKey }

func (a ToggleSort) apply(s State) State {
	if s.Sort.Key == a.Key {
		s.Sort.Direction = s.Sort.Direction.Flip()
	} else {
		s.Sort = catalog.SortSpec{Key: a.Key, Direction: catalog.Asc}
	}
	return s
}

// SetFilters merges values into the filter set and rewinds to page 1
type SetFilters struct{ Filters catalog.FilterSet }

func (a SetFilters) apply(s State) State {
	merged := s.Filters.Clone()
	for k, v := range a.Filters {
		merged[k] = v
	}
	s.Filters = merged
	s.Pagination.Page = 1
	return s
}

// ClearFilters drops every constraint except the free-text search
type ClearFilters struct{}

func (ClearFilters) apply(s State) State {
	cleared := catalog.FilterSet{}
	if term := s.Filters[catalog.FilterSearch]; term != "" {
		cleared[catalog.FilterSearch] = term
	}
	s.Filters = cleared
	s.Pagination.Page = 1
	return s
}

// SetPagination merges the non-nil fields into the pagination state
type SetPagination struct {
	Page     *int
	PageSize *int
	HasMore  *bool
	Loading  *bool
}

func (a SetPagination) apply(s State) State {
	if a.Page != nil {
		s.Pagination.Page = *a.Page
	}
	if a.PageSize != nil {
		s.Pagination.PageSize = *a.PageSize
	}
	if a.HasMore != nil {
		s.Pagination.HasMore = *a.HasMore
	}
	if a.Loading != nil {
		s.Pagination.Loading = *a.Loading
	}
	return s
}
