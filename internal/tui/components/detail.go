package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/holocron/internal/catalog"
	"github.com/mmcdole/holocron/internal/domain"
	"github.com/mmcdole/holocron/internal/tui/styles"
)

// Layout constants for the detail view
const (
	DetailBorderHeight     = 2
	DetailScrollIndicators = 2
)

// detailContent holds the three-zone layout content
type detailContent struct {
	header string // fixed top
	body   string // scrollable middle
	footer string // fixed bottom
}

// Detail displays one film with its related entities
type Detail struct {
	film    *domain.Film
	related *domain.Related
	load    LoadState

	width      int
	height     int
	offset     int // body scroll offset
	maxVisible int
}

// NewDetail creates a new detail view
func NewDetail() Detail {
	return Detail{}
}

// SetFilm sets the film to display and drops related data of the old one
func (d *Detail) SetFilm(film *domain.Film) {
	if film != nil && d.film != nil && film.ID == d.film.ID {
		d.film = film
		return
	}
	d.film = film
	d.related = nil
	d.load = LoadState{}
	d.offset = 0
}

// Film returns the displayed film, or nil
func (d Detail) Film() *domain.Film {
	return d.film
}

// SetRelated sets the resolved entities. Results for another film are ignored.
func (d *Detail) SetRelated(rel domain.Related) {
	if d.film == nil || rel.FilmID != d.film.ID {
		return
	}
	d.related = &rel
}

// SetLoadState updates the related load indicator
func (d *Detail) SetLoadState(s LoadState) {
	d.load = s
}

// LoadState returns the related load indicator
func (d Detail) LoadState() LoadState {
	return d.load
}

// SetSize updates the component dimensions
func (d *Detail) SetSize(width, height int) {
	d.width = width
	d.height = height
	// Reserve the border, scroll indicators and the title line
	d.maxVisible = max(height-DetailBorderHeight-DetailScrollIndicators-1, 1)
}

// ScrollBy moves the body by delta lines
func (d *Detail) ScrollBy(delta int) {
	d.offset = max(d.offset+delta, 0)
}

// View renders the component
func (d Detail) View() string {
	contentWidth := max(d.width-3, 10)

	if d.film == nil {
		return styles.InactiveBorder.Width(contentWidth).Render(styles.DimStyle.Render("No film selected"))
	}

	content := d.render(contentWidth)
	headerLines := splitLines(content.header)
	footerLines := splitLines(content.footer)
	bodyLines := splitLines(content.body)

	availableForBody := max(d.maxVisible-len(headerLines)-len(footerLines), 1)
	maxOffset := max(len(bodyLines)-availableForBody, 0)
	offset := min(d.offset, maxOffset)
	end := min(offset+availableForBody, len(bodyLines))
	visibleBody := bodyLines[offset:end]

	top := " "
	if offset > 0 {
		top = styles.DimStyle.Render("↑ more")
	}
	bottom := " "
	if end < len(bodyLines) {
		bottom = styles.DimStyle.Render("↓ more")
	}

	var parts []string
	parts = append(parts, headerLines...)
	parts = append(parts, top)
	parts = append(parts, visibleBody...)
	parts = append(parts, bottom)
	parts = append(parts, footerLines...)

	return styles.ActiveBorder.
		Width(contentWidth).
		Height(max(d.height-DetailBorderHeight, 1)).
		Render(strings.Join(parts, "\n"))
}

func (d Detail) render(width int) detailContent {
	f := *d.film
	return detailContent{
		header: renderFilmHeader(f, width),
		body:   d.renderBody(f, width),
		footer: d.renderFooter(f, width),
	}
}

func renderFilmHeader(f domain.Film, width int) string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(styles.Truncate(f.Title, width)))
	b.WriteString("\n")

	// Meta line: Episode · Year
	var metaParts []string
	if label := f.EpisodeLabel(); label != "" {
		metaParts = append(metaParts, label)
	}
	metaParts = append(metaParts, catalog.FormatYear(f.ReleaseDate))
	b.WriteString(styles.AccentStyle.Render(strings.Join(metaParts, " · ")))
	b.WriteString("\n\n")

	field := func(label, value string) {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("%-10s", label)))
		b.WriteString(styles.SubtitleStyle.Render(styles.Truncate(value, max(width-10, 1))))
		b.WriteString("\n")
	}
	field("Director", f.Director)
	field("Producer", f.Producer)
	field("Released", catalog.FormatDate(f.ReleaseDate))

	return strings.TrimRight(b.String(), "\n")
}

func (d Detail) renderBody(f domain.Film, width int) string {
	bodyWidth := min(width-2, 80)

	var b strings.Builder
	if f.OpeningCrawl != "" {
		b.WriteString(styles.SubtitleStyle.Render(wordWrap(f.OpeningCrawl, bodyWidth)))
		b.WriteString("\n\n")
	}

	if d.related == nil {
		return strings.TrimRight(b.String(), "\n")
	}

	section := func(title string, names []string) {
		if len(names) == 0 {
			return
		}
		b.WriteString(styles.AccentStyle.Render(title))
		b.WriteString("\n")
		b.WriteString(styles.SubtitleStyle.Render(wordWrap(strings.Join(names, ", "), bodyWidth)))
		b.WriteString("\n\n")
	}

	rel := d.related
	chars := make([]string, len(rel.Characters))
	for i, c := range rel.Characters {
		chars[i] = c.Name
	}
	planets := make([]string, len(rel.Planets))
	for i, p := range rel.Planets {
		planets[i] = p.Name
	}
	ships := make([]string, len(rel.Starships))
	for i, s := range rel.Starships {
		ships[i] = s.Name
	}
	section("Characters", chars)
	section("Planets", planets)
	section("Starships", ships)

	return strings.TrimRight(b.String(), "\n")
}

func (d Detail) renderFooter(f domain.Film, width int) string {
	var b strings.Builder
	b.WriteString(styles.DimStyle.Render(strings.Repeat("─", width)))
	b.WriteString("\n")

	counts := []struct {
		label string
		n     int
	}{
		{"characters", len(f.Characters)},
		{"planets", len(f.Planets)},
		{"starships", len(f.Starships)},
		{"vehicles", len(f.Vehicles)},
		{"species", len(f.Species)},
	}
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = styles.AccentStyle.Render(fmt.Sprint(c.n)) + styles.DimStyle.Render(" "+c.label)
	}
	b.WriteString(lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(parts, "  ")))

	switch d.load.Status {
	case StatusLoading:
		b.WriteString("\n")
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("Resolving related %d/%d", d.load.Loaded, d.load.Total)))
	case StatusError:
		b.WriteString("\n")
		b.WriteString(styles.ErrorStyle.Render(styles.Truncate("Some related entries failed: "+d.load.Error.Error(), width)))
	}

	return b.String()
}

// splitLines splits a string into lines, returning empty slice for empty string
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// wordWrap wraps text to the specified width
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	for p, para := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if p > 0 {
			result.WriteString("\n")
		}
		lineLen := 0
		for i, word := range strings.Fields(para) {
			wordLen := lipgloss.Width(word)

			if lineLen+wordLen+1 > width && lineLen > 0 {
				result.WriteString("\n")
				lineLen = 0
			}

			if i > 0 && lineLen > 0 {
				result.WriteString(" ")
				lineLen++
			}

			result.WriteString(word)
			lineLen += wordLen
		}
	}

	return result.String()
}
