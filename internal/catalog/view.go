package catalog

import (
	"sync"

	"github.com/mmcdole/holocron/internal/domain"
)

// DeriveView filters then sorts films. Deterministic for a fixed input triple.
func DeriveView(films []domain.Film, fs FilterSet, spec SortSpec) []domain.Film {
	return Sort(Filter(films, fs), spec)
}

// collectionKey identifies a film slice without comparing its contents.
// Collections are replaced wholesale, never mutated, so the backing array
// and length identify a version.
type collectionKey struct {
	first *domain.Film
	n     int
}

func keyOf(films []domain.Film) collectionKey {
	if len(films) == 0 {
		return collectionKey{}
	}
	return collectionKey{first: &films[0], n: len(films)}
}

// Pipeline memoizes each derivation stage on its own inputs, so a sort-only
// change reuses the cached filter result and a filter change on the same
// collection never recomputes stats.
type Pipeline struct {
	mu sync.Mutex

	filterKey   collectionKey
	filterSet   FilterSet
	filtered    []domain.Film
	filterValid bool
	filterRuns  int

	sortInput collectionKey
	sortSpec  SortSpec
	sorted    []domain.Film
	sortValid bool
	sortRuns  int

	statsKey   collectionKey
	stats      Stats
	statsValid bool
}

// NewPipeline creates an empty pipeline
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// View returns the filtered and sorted films, recomputing only stale stages
func (p *Pipeline) View(films []domain.Film, fs FilterSet, spec SortSpec) []domain.Film {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := keyOf(films)
	if !p.filterValid || p.filterKey != key || !p.filterSet.Equal(fs) {
		p.filtered = Filter(films, fs)
		p.filterKey = key
		p.filterSet = fs.Clone()
		p.filterValid = true
		p.filterRuns++
		p.sortValid = false
	}

	filteredKey := keyOf(p.filtered)
	if !p.sortValid || p.sortInput != filteredKey || p.sortSpec != spec {
		p.sorted = Sort(p.filtered, spec)
		p.sortInput = filteredKey
		p.sortSpec = spec
		p.sortValid = true
		p.sortRuns++
	}

	return p.sorted
}

// Stats returns stats for the full collection, cached per collection
func (p *Pipeline) Stats(films []domain.Film) Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := keyOf(films)
	if !p.statsValid || p.statsKey != key {
		p.stats = ComputeStats(films)
		p.statsKey = key
		p.statsValid = true
	}
	return p.stats
}

// Reset drops every cached stage
func (p *Pipeline) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filterValid = false
	p.sortValid = false
	p.statsValid = false
	p.filtered = nil
	p.sorted = nil
}

// Page returns the 1-based page of films of the given size and whether
// further pages follow. Pages past the end are empty.
func Page(films []domain.Film, page, size int) ([]domain.Film, bool) {
	if size <= 0 {
		return films, false
	}
	page = max(page, 1)
	start := (page - 1) * size
	if start >= len(films) {
		return []domain.Film{}, false
	}
	end := min(start+size, len(films))
	return films[start:end], end < len(films)
}
