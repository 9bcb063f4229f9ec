package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/holocron/internal/catalog"
	"github.com/mmcdole/holocron/internal/domain"
	"github.com/mmcdole/holocron/internal/tui/styles"
	"github.com/mmcdole/holocron/internal/window"
)

// Spinner frames for loading animation
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Layout constants for the film table
const (
	// Border adds 1 char on each side
	BorderWidth  = 2
	BorderHeight = 2

	// Column header line plus the row counter line
	TableChromeLines = 2

	// Below this content width the responsive columns are hidden
	NarrowWidth = 80
)

// FilmTable is a scrollable, windowed table of films. Only the rows inside
// the virtualizer's window are rendered.
type FilmTable struct {
	columns []catalog.Column
	films   []domain.Film
	sort    catalog.SortSpec

	cursor     int
	itemHeight int
	virt       *window.Virtualizer

	width  int
	height int

	loading      bool
	spinnerFrame int
	emptyText    string
}

// NewFilmTable creates a table with rows of itemHeight lines
func NewFilmTable(itemHeight, overscan int) *FilmTable {
	if itemHeight <= 0 {
		itemHeight = 1
	}
	return &FilmTable{
		columns:    catalog.DefaultColumns(),
		sort:       catalog.DefaultSort(),
		itemHeight: itemHeight,
		virt:       window.New(itemHeight, 0, overscan),
		emptyText:  "No films",
	}
}

// SetFilms replaces the rows. The cursor stays on the same film when it is
// still present, otherwise it is clamped.
func (t *FilmTable) SetFilms(films []domain.Film) {
	var selectedID string
	if f := t.Selected(); f != nil {
		selectedID = f.ID
	}

	t.films = films
	t.virt.SetItemCount(len(films))

	if selectedID != "" && t.SelectByID(selectedID) {
		return
	}
	t.setCursor(t.cursor)
}

// SetSort records the active sort for the header indicator
func (t *FilmTable) SetSort(spec catalog.SortSpec) {
	t.sort = spec
}

// SetSize updates the component dimensions
func (t *FilmTable) SetSize(width, height int) {
	t.width = width
	t.height = height
	t.virt.SetContainerHeight(max(height-BorderHeight-TableChromeLines, 0))
	t.virt.ScrollToIndex(t.cursor)
}

// SetLoading toggles the loading placeholder
func (t *FilmTable) SetLoading(loading bool) {
	t.loading = loading
}

// SetSpinnerFrame advances the loading animation
func (t *FilmTable) SetSpinnerFrame(frame int) {
	t.spinnerFrame = frame
}

// SetEmptyText sets the message shown when there are no rows
func (t *FilmTable) SetEmptyText(text string) {
	t.emptyText = text
}

// Narrow reports whether responsive columns are hidden at the current width
func (t *FilmTable) Narrow() bool {
	return t.width-BorderWidth < NarrowWidth
}

// Columns returns the columns shown at the current width
func (t *FilmTable) Columns() []catalog.Column {
	return catalog.VisibleColumns(t.columns, t.Narrow())
}

// Selected returns the film under the cursor, or nil
func (t *FilmTable) Selected() *domain.Film {
	if t.cursor < 0 || t.cursor >= len(t.films) {
		return nil
	}
	f := t.films[t.cursor]
	return &f
}

// SelectedIndex returns the cursor position
func (t *FilmTable) SelectedIndex() int {
	return t.cursor
}

// SelectByID moves the cursor to the film with id
func (t *FilmTable) SelectByID(id string) bool {
	for i, f := range t.films {
		if f.ID == id {
			t.setCursor(i)
			return true
		}
	}
	return false
}

// Len returns the number of rows
func (t *FilmTable) Len() int {
	return len(t.films)
}

// Window returns the materialized row range
func (t *FilmTable) Window() window.Window {
	return t.virt.Window()
}

func (t *FilmTable) setCursor(i int) {
	t.cursor = min(max(i, 0), max(len(t.films)-1, 0))
	t.virt.ScrollToIndex(t.cursor)
}

func (t *FilmTable) pageRows() int {
	_, count := t.virt.VisibleRows()
	return max(count, 1)
}

// Update handles navigation keys
func (t *FilmTable) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(t.films) == 0 {
		return nil
	}

	switch {
	case key.Matches(keyMsg, TableKeys.Up):
		t.setCursor(t.cursor - 1)
	case key.Matches(keyMsg, TableKeys.Down):
		t.setCursor(t.cursor + 1)
	case key.Matches(keyMsg, TableKeys.Home):
		t.setCursor(0)
	case key.Matches(keyMsg, TableKeys.End):
		t.setCursor(len(t.films) - 1)
	case key.Matches(keyMsg, TableKeys.HalfUp):
		t.setCursor(t.cursor - t.pageRows()/2)
	case key.Matches(keyMsg, TableKeys.HalfDown):
		t.setCursor(t.cursor + t.pageRows()/2)
	case key.Matches(keyMsg, TableKeys.PageUp):
		t.setCursor(t.cursor - t.pageRows())
	case key.Matches(keyMsg, TableKeys.PageDown):
		t.setCursor(t.cursor + t.pageRows())
	}
	return nil
}

// View renders the component
func (t *FilmTable) View() string {
	innerWidth := max(t.width-BorderWidth, 10)
	innerHeight := max(t.height-BorderHeight, 1)

	return styles.ActiveBorder.
		Width(innerWidth).
		Height(innerHeight).
		Render(t.renderContent(innerWidth))
}

func (t *FilmTable) renderContent(width int) string {
	cols := t.Columns()
	widths := catalog.Widths(cols, width-2)
	header := t.renderHeader(cols, widths)

	if t.loading && len(t.films) == 0 {
		spinner := spinnerFrames[t.spinnerFrame%len(spinnerFrames)]
		return header + "\n" + styles.DimStyle.Render(spinner+" Loading films...")
	}
	if len(t.films) == 0 {
		return header + "\n" + styles.DimStyle.Render(t.emptyText)
	}

	win := t.virt.Window()
	rows := window.Visible(t.films, win)
	first, count := t.virt.VisibleRows()

	lines := make([]string, 0, count*t.itemHeight)
	for i := first; i < first+count; i++ {
		if !win.Contains(i) {
			continue
		}
		lines = append(lines, t.renderRow(rows[i-win.Start], cols, widths, i == t.cursor, width))
		for range t.itemHeight - 1 {
			lines = append(lines, "")
		}
	}

	counter := styles.DimStyle.Render(fmt.Sprintf("%d–%d of %d", first+1, first+count, len(t.films)))
	return header + "\n" + strings.Join(lines, "\n") + "\n" + counter
}

func (t *FilmTable) renderHeader(cols []catalog.Column, widths []int) string {
	var b strings.Builder
	b.WriteString(" ")
	for i, c := range cols {
		label := c.Label
		style := styles.HeaderCellStyle
		if c.Key == t.sort.Key {
			style = styles.ActiveHeaderCellStyle
			if t.sort.Direction == catalog.Desc {
				label += " ▼"
			} else {
				label += " ▲"
			}
		}
		b.WriteString(style.Render(styles.Pad(label, widths[i])))
	}
	return b.String()
}

func (t *FilmTable) renderRow(f domain.Film, cols []catalog.Column, widths []int, selected bool, width int) string {
	parts := make([]styles.RowPart, len(cols))
	for i, c := range cols {
		cell := styles.Truncate(c.Value(f), max(widths[i]-1, 1))
		parts[i] = styles.RowPart{Text: styles.Pad(cell, widths[i])}
		if c.Key == catalog.SortTitle && !selected {
			fg := styles.White
			parts[i].Foreground = &fg
		}
	}
	return styles.RenderListRow(parts, selected, width)
}
