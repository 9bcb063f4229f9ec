package catalog

import (
	"slices"
	"strings"
	"testing"

	"github.com/mmcdole/holocron/internal/domain"
)

func sampleFilms() []domain.Film {
	return []domain.Film{
		{
			ID: "1", Title: "A New Hope", EpisodeID: 4,
			OpeningCrawl: "It is a period of civil war. Rebel spaceships...",
			Director:     "George Lucas", Producer: "Gary Kurtz, Rick McCallum",
			ReleaseDate: "1977-05-25",
			Characters:  []string{"c1", "c2", "c3"}, Planets: []string{"p1", "p2"},
			Starships: []string{"s1"}, Vehicles: []string{"v1"}, Species: []string{"x1"},
		},
		{
			ID: "2", Title: "The Empire Strikes Back", EpisodeID: 5,
			OpeningCrawl: "It is a dark time for the Rebellion...",
			Director:     "Irvin Kershner", Producer: "Gary Kurtz, Rick McCallum",
			ReleaseDate: "1980-05-17",
			Characters:  []string{"c1", "c2"}, Planets: []string{"p3"},
			Starships: []string{"s1", "s2"},
		},
		{
			ID: "4", Title: "The Phantom Menace", EpisodeID: 1,
			OpeningCrawl: "Turmoil has engulfed the Galactic Republic...",
			Director:     "George Lucas", Producer: "Rick McCallum",
			ReleaseDate: "1999-05-19",
			Characters:  []string{"c4"},
		},
		{
			ID: "3", Title: "Return of the Jedi", EpisodeID: 6,
			OpeningCrawl: "Luke Skywalker has returned to his home planet of Tatooine...",
			Director:     "Richard Marquand", Producer: "Howard G. Kazanjian, George Lucas, Rick McCallum",
			ReleaseDate: "1983-05-25",
		},
	}
}

func ids(films []domain.Film) []string {
	out := make([]string, len(films))
	for i, f := range films {
		out[i] = f.ID
	}
	return out
}

func TestFilterEmptyIsIdentity(t *testing.T) {
	films := sampleFilms()
	for _, fs := range []FilterSet{nil, {}, {FilterSearch: "", FilterYear: ""}} {
		got := Filter(films, fs)
		if !slices.Equal(ids(got), ids(films)) {
			t.Errorf("Filter(%v) = %v, want all films", fs, ids(got))
		}
	}
}

func TestFilterDirector(t *testing.T) {
	films := sampleFilms()[:2]
	got := Filter(films, FilterSet{FilterDirector: "lucas"})
	if want := []string{"1"}; !slices.Equal(ids(got), want) {
		t.Errorf("ids = %v, want %v", ids(got), want)
	}
}

func TestFilterCases(t *testing.T) {
	films := sampleFilms()
	tests := []struct {
		name string
		fs   FilterSet
		want []string
	}{
		{"search title", FilterSet{FilterSearch: "EMPIRE"}, []string{"2"}},
		{"search crawl", FilterSet{FilterSearch: "tatooine"}, []string{"3"}},
		{"search either field", FilterSet{FilterSearch: "the"}, []string{"2", "4", "3"}},
		{"producer substring", FilterSet{FilterProducer: "kazanjian"}, []string{"3"}},
		{"year prefix full", FilterSet{FilterYear: "1980"}, []string{"2"}},
		{"year prefix partial", FilterSet{FilterYear: "19"}, []string{"1", "2", "4", "3"}},
		{"year prefix decade", FilterSet{FilterYear: "198"}, []string{"2", "3"}},
		{"conjunction", FilterSet{FilterDirector: "lucas", FilterYear: "1999"}, []string{"4"}},
		{"no match", FilterSet{FilterDirector: "abrams"}, []string{}},
		{"year is prefix not substring", FilterSet{FilterYear: "05"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Filter(films, tt.fs))
			if !slices.Equal(got, tt.want) {
				t.Errorf("ids = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterPartitionsInput(t *testing.T) {
	films := sampleFilms()
	fs := FilterSet{FilterSearch: "re", FilterProducer: "mccallum"}
	got := Filter(films, fs)

	in := make(map[string]bool)
	for _, f := range got {
		in[f.ID] = true
		if !strings.Contains(strings.ToLower(f.Producer), "mccallum") {
			t.Errorf("film %s kept but producer %q does not match", f.ID, f.Producer)
		}
	}
	for _, f := range films {
		if in[f.ID] {
			continue
		}
		title := strings.Contains(strings.ToLower(f.Title), "re")
		crawl := strings.Contains(strings.ToLower(f.OpeningCrawl), "re")
		producer := strings.Contains(strings.ToLower(f.Producer), "mccallum")
		if (title || crawl) && producer {
			t.Errorf("film %s dropped but satisfies every constraint", f.ID)
		}
	}
}

func TestFilterToleratesEmptyFields(t *testing.T) {
	films := []domain.Film{{ID: "9"}}
	if got := Filter(films, FilterSet{FilterSearch: "x", FilterYear: "1977"}); len(got) != 0 {
		t.Errorf("expected no match, got %v", ids(got))
	}
	if got := Filter(nil, FilterSet{FilterSearch: "x"}); len(got) != 0 {
		t.Errorf("expected empty result for empty input, got %d", len(got))
	}
}

func TestSortReleaseDateDesc(t *testing.T) {
	films := sampleFilms()[:2]
	got := Sort(films, SortSpec{Key: SortReleaseDate, Direction: Desc})
	if want := []string{"2", "1"}; !slices.Equal(ids(got), want) {
		t.Errorf("ids = %v, want %v", ids(got), want)
	}
}

func TestSortKeys(t *testing.T) {
	films := sampleFilms()
	tests := []struct {
		spec SortSpec
		want []string
	}{
		{SortSpec{SortTitle, Asc}, []string{"1", "3", "2", "4"}},
		{SortSpec{SortEpisode, Asc}, []string{"4", "1", "2", "3"}},
		{SortSpec{SortEpisode, Desc}, []string{"3", "2", "1", "4"}},
		{SortSpec{SortCharacters, Desc}, []string{"1", "2", "4", "3"}},
		{SortSpec{SortDirector, Asc}, []string{"1", "4", "2", "3"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.spec.Key)+"-"+string(tt.spec.Direction), func(t *testing.T) {
			if got := ids(Sort(films, tt.spec)); !slices.Equal(got, tt.want) {
				t.Errorf("ids = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSortLocaleAware(t *testing.T) {
	films := []domain.Film{
		{ID: "a", Title: "zeta"},
		{ID: "b", Title: "Alpha"},
		{ID: "c", Title: "beta"},
	}
	got := ids(Sort(films, SortSpec{SortTitle, Asc}))
	if want := []string{"b", "c", "a"}; !slices.Equal(got, want) {
		t.Errorf("ids = %v, want %v (case must not split the order)", got, want)
	}
}

func TestSortIsPermutationAndDoesNotMutate(t *testing.T) {
	films := sampleFilms()
	before := ids(films)
	for _, key := range append(SortKeys(), SortCharacters, SortKey("bogus")) {
		for _, dir := range []Direction{Asc, Desc} {
			got := Sort(films, SortSpec{key, dir})
			if len(got) != len(films) {
				t.Fatalf("%s/%s: len = %d, want %d", key, dir, len(got), len(films))
			}
			a, b := ids(got), ids(films)
			slices.Sort(a)
			slices.Sort(b)
			if !slices.Equal(a, b) {
				t.Errorf("%s/%s: not a permutation: %v", key, dir, ids(got))
			}
		}
	}
	if !slices.Equal(ids(films), before) {
		t.Errorf("input mutated: %v, want %v", ids(films), before)
	}
}

func TestSortFlipReverses(t *testing.T) {
	films := sampleFilms()
	for _, key := range []SortKey{SortTitle, SortEpisode, SortReleaseDate} {
		asc := ids(Sort(films, SortSpec{key, Asc}))
		desc := ids(Sort(films, SortSpec{key, Desc}))
		slices.Reverse(desc)
		if !slices.Equal(asc, desc) {
			t.Errorf("%s: asc %v is not the reverse of desc", key, asc)
		}
	}
}

func TestSortUnknownKeyKeepsOrder(t *testing.T) {
	films := sampleFilms()
	got := Sort(films, SortSpec{Key: "opening_crawl_length", Direction: Desc})
	if !slices.Equal(ids(got), ids(films)) {
		t.Errorf("ids = %v, want input order", ids(got))
	}
	if got := Sort(nil, DefaultSort()); got == nil || len(got) != 0 {
		t.Errorf("Sort(nil) = %v, want empty non-nil slice", got)
	}
}

func TestComputeStats(t *testing.T) {
	films := sampleFilms()
	stats := ComputeStats(films)

	if stats.TotalFilms != 4 {
		t.Errorf("TotalFilms = %d, want 4", stats.TotalFilms)
	}
	var chars, planets, ships int
	for _, f := range films {
		chars += len(f.Characters)
		planets += len(f.Planets)
		ships += len(f.Starships)
	}
	if stats.TotalCharacters != chars || stats.TotalPlanets != planets || stats.TotalStarships != ships {
		t.Errorf("totals = %d/%d/%d, want %d/%d/%d",
			stats.TotalCharacters, stats.TotalPlanets, stats.TotalStarships, chars, planets, ships)
	}
	if stats.TotalVehicles != 1 || stats.TotalSpecies != 1 {
		t.Errorf("vehicles/species = %d/%d, want 1/1", stats.TotalVehicles, stats.TotalSpecies)
	}

	wantDirectors := []string{"George Lucas", "Irvin Kershner", "Richard Marquand"}
	if !slices.Equal(stats.Directors, wantDirectors) {
		t.Errorf("Directors = %v, want %v", stats.Directors, wantDirectors)
	}
	wantYears := []string{"1977", "1980", "1983", "1999"}
	if !slices.Equal(stats.Years, wantYears) {
		t.Errorf("Years = %v, want %v", stats.Years, wantYears)
	}
	if len(stats.Producers) != 3 || !slices.IsSorted(stats.Producers) {
		t.Errorf("Producers = %v, want 3 sorted distinct values", stats.Producers)
	}
}

func TestComputeStatsEmptyAndMalformed(t *testing.T) {
	stats := ComputeStats(nil)
	if stats.TotalFilms != 0 || len(stats.Directors) != 0 || stats.Years == nil {
		t.Errorf("empty stats = %+v", stats)
	}

	stats = ComputeStats([]domain.Film{{ID: "1", ReleaseDate: "unknown"}, {ID: "2", ReleaseDate: ""}})
	if len(stats.Years) != 0 {
		t.Errorf("Years = %v, want none for malformed dates", stats.Years)
	}
}

func TestDeriveView(t *testing.T) {
	got := DeriveView(sampleFilms(), FilterSet{FilterDirector: "lucas"}, SortSpec{SortReleaseDate, Desc})
	if want := []string{"4", "1"}; !slices.Equal(ids(got), want) {
		t.Errorf("ids = %v, want %v", ids(got), want)
	}
}

func TestPipelineMemoizesStages(t *testing.T) {
	films := sampleFilms()
	p := NewPipeline()

	fs := FilterSet{FilterDirector: "lucas"}
	first := p.View(films, fs, SortSpec{SortTitle, Asc})
	if p.filterRuns != 1 || p.sortRuns != 1 {
		t.Fatalf("runs = %d/%d, want 1/1", p.filterRuns, p.sortRuns)
	}

	// Same inputs: nothing recomputed
	again := p.View(films, FilterSet{FilterDirector: "lucas"}, SortSpec{SortTitle, Asc})
	if p.filterRuns != 1 || p.sortRuns != 1 {
		t.Errorf("runs = %d/%d after identical call, want 1/1", p.filterRuns, p.sortRuns)
	}
	if !slices.Equal(ids(first), ids(again)) {
		t.Errorf("memoized result differs: %v vs %v", ids(first), ids(again))
	}

	// Sort-only change: filter stage reused
	p.View(films, fs, SortSpec{SortTitle, Desc})
	if p.filterRuns != 1 || p.sortRuns != 2 {
		t.Errorf("runs = %d/%d after sort change, want 1/2", p.filterRuns, p.sortRuns)
	}

	// Filter change: both recomputed
	p.View(films, FilterSet{FilterYear: "19"}, SortSpec{SortTitle, Desc})
	if p.filterRuns != 2 || p.sortRuns != 3 {
		t.Errorf("runs = %d/%d after filter change, want 2/3", p.filterRuns, p.sortRuns)
	}

	// New collection: recomputed
	p.View(sampleFilms(), FilterSet{FilterYear: "19"}, SortSpec{SortTitle, Desc})
	if p.filterRuns != 3 {
		t.Errorf("filterRuns = %d after collection change, want 3", p.filterRuns)
	}
}

func TestPipelineMatchesDeriveView(t *testing.T) {
	films := sampleFilms()
	p := NewPipeline()
	specs := []SortSpec{{SortTitle, Asc}, {SortEpisode, Desc}, {SortReleaseDate, Asc}}
	sets := []FilterSet{{}, {FilterSearch: "the"}, {FilterProducer: "kurtz"}}
	for _, fs := range sets {
		for _, spec := range specs {
			got := ids(p.View(films, fs, spec))
			want := ids(DeriveView(films, fs, spec))
			if !slices.Equal(got, want) {
				t.Errorf("View(%v, %v) = %v, want %v", fs, spec, got, want)
			}
		}
	}
}

func TestPipelineStatsIgnoreFilter(t *testing.T) {
	films := sampleFilms()
	p := NewPipeline()
	p.View(films, FilterSet{FilterDirector: "kershner"}, DefaultSort())
	stats := p.Stats(films)
	if stats.TotalFilms != len(films) || len(stats.Directors) != 3 {
		t.Errorf("stats = %+v, want full-collection stats", stats)
	}
}

func TestColumns(t *testing.T) {
	f := sampleFilms()[0]
	cols := DefaultColumns()
	got := make([]string, len(cols))
	for i, c := range cols {
		got[i] = c.Value(f)
	}
	want := []string{"4", "A New Hope", "George Lucas", "Gary Kurtz, Rick McCallum", "1977"}
	if !slices.Equal(got, want) {
		t.Errorf("cells = %v, want %v", got, want)
	}

	narrow := VisibleColumns(cols, true)
	if len(narrow) != 3 {
		t.Errorf("narrow columns = %d, want 3", len(narrow))
	}
}

func TestWidths(t *testing.T) {
	cols := DefaultColumns()
	for _, total := range []int{10, 58, 80, 133} {
		widths := Widths(cols, total)
		sum := 0
		for i, w := range widths {
			if w < cols[i].MinWidth {
				t.Errorf("total %d: column %d width %d below minimum %d", total, i, w, cols[i].MinWidth)
			}
			sum += w
		}
		minSum := 0
		for _, c := range cols {
			minSum += c.MinWidth
		}
		if total >= minSum && sum != total {
			t.Errorf("total %d: widths sum to %d", total, sum)
		}
	}
}

func TestFormatting(t *testing.T) {
	tests := []struct {
		fn   func(string) string
		in   string
		want string
	}{
		{FormatYear, "1977-05-25", "1977"},
		{FormatYear, "", "Invalid Date"},
		{FormatYear, "not a date", "Invalid Date"},
		{FormatDate, "1980-05-17", "May 17, 1980"},
		{FormatDate, "garbage", "Invalid Date"},
	}
	for _, tt := range tests {
		if got := tt.fn(tt.in); got != tt.want {
			t.Errorf("format(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if got := TruncateText("Hello World", 5); got != "Hello..." {
		t.Errorf("TruncateText = %q", got)
	}
	if got := TruncateText("Hi", 5); got != "Hi" {
		t.Errorf("TruncateText = %q", got)
	}
}

func TestPage(t *testing.T) {
	films := sampleFilms()
	got, more := Page(films, 1, 3)
	if !slices.Equal(ids(got), []string{"1", "2", "4"}) || !more {
		t.Errorf("page 1 = %v, more %v", ids(got), more)
	}
	got, more = Page(films, 2, 3)
	if !slices.Equal(ids(got), []string{"3"}) || more {
		t.Errorf("page 2 = %v, more %v", ids(got), more)
	}
	if got, _ := Page(films, 5, 3); len(got) != 0 {
		t.Errorf("past end = %v", ids(got))
	}
	if got, more := Page(films, 0, 0); len(got) != 4 || more {
		t.Errorf("unpaged = %v, %v", ids(got), more)
	}
}
