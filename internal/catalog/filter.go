// Package catalog derives the displayed film list from the loaded collection.
//
// Filtering and sorting are two independent pure stages so callers can cache
// each one keyed on its own inputs. Stats always describe the full,
// unfiltered collection so filter choices never shrink as filters apply.
package catalog

import (
	"strings"

	"github.com/mmcdole/holocron/internal/domain"
)

// Filter names understood by FilterSet
const (
	FilterSearch   = "search"
	FilterDirector = "director"
	FilterProducer = "producer"
	FilterYear     = "year"
)

// FilterSet maps a filter name to its match value.
// A missing key or an empty value means no constraint for that dimension.
type FilterSet map[string]string

// IsEmpty reports whether no constraint is active
func (fs FilterSet) IsEmpty() bool {
	for _, v := range fs {
		if v != "" {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of fs
func (fs FilterSet) Clone() FilterSet {
	out := make(FilterSet, len(fs))
	for k, v := range fs {
		out[k] = v
	}
	return out
}

// With returns a copy of fs with name set to value
func (fs FilterSet) With(name, value string) FilterSet {
	out := fs.Clone()
	out[name] = value
	return out
}

// Equal reports whether both sets carry the same active constraints
func (fs FilterSet) Equal(other FilterSet) bool {
	for k, v := range fs {
		if other[k] != v {
			return false
		}
	}
	for k, v := range other {
		if fs[k] != v {
			return false
		}
	}
	return true
}

// Filter returns the films satisfying every non-empty constraint in fs.
// With no active constraint the input slice is returned unchanged.
func Filter(films []domain.Film, fs FilterSet) []domain.Film {
	if fs.IsEmpty() {
		return films
	}

	search := strings.ToLower(fs[FilterSearch])
	director := strings.ToLower(fs[FilterDirector])
	producer := strings.ToLower(fs[FilterProducer])
	year := fs[FilterYear]

	matches := make([]domain.Film, 0, len(films))
	for _, f := range films {
		if search != "" &&
			!strings.Contains(strings.ToLower(f.Title), search) &&
			!strings.Contains(strings.ToLower(f.OpeningCrawl), search) {
			continue
		}
		if director != "" && !strings.Contains(strings.ToLower(f.Director), director) {
			continue
		}
		if producer != "" && !strings.Contains(strings.ToLower(f.Producer), producer) {
			continue
		}
		if year != "" && !strings.HasPrefix(f.ReleaseDate, year) {
			continue
		}
		matches = append(matches, f)
	}
	return matches
}
