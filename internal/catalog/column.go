package catalog

import (
	"strconv"

	"github.com/mmcdole/holocron/internal/domain"
)

// Column describes one table column. It is plain data: renderers read the
// fields and call Value, nothing is subclassed or dispatched.
type Column struct {
	Key        SortKey
	Label      string
	MinWidth   int
	Flex       float64
	Sortable   bool
	Responsive bool // hidden on narrow displays
	Format     func(f domain.Film) string
}

// Value renders the cell for f, using Format when set
func (c Column) Value(f domain.Film) string {
	if c.Format != nil {
		return c.Format(f)
	}
	switch c.Key {
	case SortTitle:
		return f.Title
	case SortEpisode:
		return strconv.Itoa(f.EpisodeID)
	case SortDirector:
		return f.Director
	case SortProducer:
		return f.Producer
	case SortReleaseDate:
		return f.ReleaseDate
	case SortCharacters:
		return strconv.Itoa(len(f.Characters))
	default:
		return ""
	}
}

// DefaultColumns returns the film table layout
func DefaultColumns() []Column {
	return []Column{
		{Key: SortEpisode, Label: "Episode", MinWidth: 7, Flex: 0.5, Sortable: true},
		{Key: SortTitle, Label: "Title", MinWidth: 20, Flex: 2, Sortable: true},
		{Key: SortDirector, Label: "Director", MinWidth: 12, Flex: 1, Sortable: true, Responsive: true},
		{Key: SortProducer, Label: "Producer", MinWidth: 12, Flex: 1, Sortable: true, Responsive: true},
		{
			Key: SortReleaseDate, Label: "Release", MinWidth: 7, Flex: 0.8, Sortable: true,
			Format: func(f domain.Film) string { return FormatYear(f.ReleaseDate) },
		},
	}
}

// VisibleColumns drops responsive columns when narrow is set
func VisibleColumns(cols []Column, narrow bool) []Column {
	if !narrow {
		return cols
	}
	out := make([]Column, 0, len(cols))
	for _, c := range cols {
		if !c.Responsive {
			out = append(out, c)
		}
	}
	return out
}

// Widths distributes total across cols: every column gets MinWidth, the
// remainder is shared by Flex weight. The result sums to at most total.
func Widths(cols []Column, total int) []int {
	widths := make([]int, len(cols))
	used := 0
	flexSum := 0.0
	for i, c := range cols {
		widths[i] = c.MinWidth
		used += c.MinWidth
		flexSum += c.Flex
	}

	spare := total - used
	if spare <= 0 || flexSum == 0 {
		return widths
	}
	given := 0
	for i, c := range cols {
		extra := int(float64(spare) * c.Flex / flexSum)
		widths[i] += extra
		given += extra
	}
	// Rounding leftovers go to the widest flex column
	if rest := spare - given; rest > 0 {
		widest := 0
		for i, c := range cols {
			if c.Flex > cols[widest].Flex {
				widest = i
			}
		}
		widths[widest] += rest
	}
	return widths
}
