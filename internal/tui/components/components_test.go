package components

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/holocron/internal/catalog"
	"github.com/mmcdole/holocron/internal/domain"
)

func manyFilms(n int) []domain.Film {
	films := make([]domain.Film, n)
	for i := range films {
		films[i] = domain.Film{ID: fmt.Sprint(i + 1), Title: fmt.Sprintf("Film %03d", i+1), EpisodeID: i + 1}
	}
	return films
}

func TestFilmTableNavigation(t *testing.T) {
	table := NewFilmTable(1, 2)
	table.SetSize(120, 14) // 10 visible rows
	table.SetFilms(manyFilms(100))

	tests := []struct {
		key        tea.KeyMsg
		wantCursor int
	}{
		{tea.KeyMsg{Type: tea.KeyDown}, 1},
		{tea.KeyMsg{Type: tea.KeyPgDown}, 11},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")}, 99},
		{tea.KeyMsg{Type: tea.KeyUp}, 98},
		{tea.KeyMsg{Type: tea.KeyHome}, 0},
		{tea.KeyMsg{Type: tea.KeyUp}, 0},
	}
	for _, tt := range tests {
		table.Update(tt.key)
		if got := table.SelectedIndex(); got != tt.wantCursor {
			t.Errorf("after %s cursor = %d, want %d", tt.key, got, tt.wantCursor)
		}
		win := table.Window()
		if !win.Contains(table.SelectedIndex()) {
			t.Errorf("after %s window %+v misses cursor %d", tt.key, win, table.SelectedIndex())
		}
	}
}

func TestFilmTableWindowIsBounded(t *testing.T) {
	table := NewFilmTable(1, 2)
	table.SetSize(120, 14)
	table.SetFilms(manyFilms(1000))

	if got := table.Window().Len(); got > 10+2*2 {
		t.Errorf("window len = %d, want at most visible rows plus overscan", got)
	}
}

func TestFilmTableKeepsSelectionAcrossUpdates(t *testing.T) {
	table := NewFilmTable(1, 0)
	table.SetSize(120, 14)
	films := manyFilms(5)
	table.SetFilms(films)
	table.SelectByID("4")

	// Reversed order: film 4 moves to index 1
	reversed := []domain.Film{films[4], films[3], films[2], films[1], films[0]}
	table.SetFilms(reversed)
	if f := table.Selected(); f == nil || f.ID != "4" {
		t.Errorf("selected = %v, want film 4", f)
	}

	table.SetFilms(films[:2])
	if got := table.SelectedIndex(); got != 1 {
		t.Errorf("cursor = %d, want clamped to 1", got)
	}
}

func TestFilmTableResponsiveColumns(t *testing.T) {
	table := NewFilmTable(1, 0)

	table.SetSize(60, 10)
	if !table.Narrow() || len(table.Columns()) != 3 {
		t.Errorf("narrow = %v, columns = %d, want 3", table.Narrow(), len(table.Columns()))
	}
	table.SetSize(140, 10)
	if table.Narrow() || len(table.Columns()) != 5 {
		t.Errorf("narrow = %v, columns = %d, want 5", table.Narrow(), len(table.Columns()))
	}
}

func TestSortModalToggle(t *testing.T) {
	tests := []struct {
		name   string
		keys   []string
		active catalog.SortSpec
		want   *catalog.SortSpec
	}{
		{"reselect flips", []string{"enter"}, catalog.SortSpec{Key: catalog.SortTitle, Direction: catalog.Asc},
			&catalog.SortSpec{Key: catalog.SortTitle, Direction: catalog.Desc}},
		{"new key ascends", []string{"k", "enter"}, catalog.SortSpec{Key: catalog.SortTitle, Direction: catalog.Desc},
			&catalog.SortSpec{Key: catalog.SortEpisode, Direction: catalog.Asc}},
		{"escape cancels", []string{"j", "esc"}, catalog.DefaultSort(), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewSortModal()
			m.Show(catalog.SortKeys(), tt.active)
			var got *catalog.SortSpec
			for _, k := range tt.keys {
				_, got = m.HandleKey(k)
			}
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("selection = %+v, want none", *got)
			case tt.want != nil && (got == nil || *got != *tt.want):
				t.Errorf("selection = %v, want %+v", got, *tt.want)
			}
			if m.IsVisible() {
				t.Error("modal still visible")
			}
		})
	}
}

func TestFilterPanelTogglesAppliedValue(t *testing.T) {
	stats := catalog.Stats{
		Directors: []string{"George Lucas", "Irvin Kershner"},
		Years:     []string{"1977", "1980"},
	}
	p := NewFilterPanel()
	p.Show(stats, catalog.FilterSet{catalog.FilterDirector: "George Lucas"})

	// Lucas sorts first; picking the applied director again removes it
	p, _, res := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if res.Action != FilterApply || res.Name != catalog.FilterDirector || res.Value != "" {
		t.Errorf("result = %+v, want director cleared", res)
	}

	// Switch to the year field (tab twice) and narrow
	p, _, _ = p.Update(tea.KeyMsg{Type: tea.KeyTab})
	p, _, _ = p.Update(tea.KeyMsg{Type: tea.KeyTab})
	p, _, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("80")})
	_, _, res = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if res.Name != catalog.FilterYear || res.Value != "1980" {
		t.Errorf("result = %+v, want year 1980", res)
	}
}

func TestDetailIgnoresStaleRelated(t *testing.T) {
	d := NewDetail()
	d.SetSize(80, 30)
	d.SetFilm(&domain.Film{ID: "1", Title: "A New Hope", ReleaseDate: "1977-05-25"})
	d.SetRelated(domain.Related{FilmID: "2", Characters: []domain.Character{{Name: "Yoda"}}})
	if d.related != nil {
		t.Error("related of another film accepted")
	}
	d.SetRelated(domain.Related{FilmID: "1", Characters: []domain.Character{{Name: "Luke Skywalker"}}})
	if d.related == nil || len(d.related.Characters) != 1 {
		t.Errorf("related = %+v", d.related)
	}
	if d.View() == "" {
		t.Error("empty view")
	}
}

func TestWordWrap(t *testing.T) {
	got := wordWrap("It is a period of civil war.\r\nRebel spaceships", 12)
	want := "It is a\nperiod of\ncivil war.\nRebel\nspaceships"
	if got != want {
		t.Errorf("wordWrap = %q, want %q", got, want)
	}
}
