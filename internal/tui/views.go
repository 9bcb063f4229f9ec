package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/holocron/internal/catalog"
	"github.com/mmcdole/holocron/internal/tui/styles"
)

// RenderSpinner renders one frame of the loading spinner
func RenderSpinner(frame int) string {
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return styles.SpinnerStyle.Render(frames[frame%len(frames)])
}

// renderHeader renders the title line and the stat cards
func (m Model) renderHeader() string {
	title := styles.AccentStyle.Bold(true).Render("HOLOCRON") +
		styles.DimStyle.Render(" · Star Wars film catalog")

	stats := m.App.Stats()
	cards := []struct {
		label string
		value int
	}{
		{"Films", stats.TotalFilms},
		{"Characters", stats.TotalCharacters},
		{"Planets", stats.TotalPlanets},
		{"Starships", stats.TotalStarships},
	}

	// Each card carries a 2-char border
	cardWidth := max(m.Width/len(cards)-2, 8)
	rendered := make([]string, len(cards))
	for i, c := range cards {
		value := fmt.Sprint(c.value)
		if m.App.Loading && len(m.App.Films) == 0 {
			value = "…"
		}
		body := styles.CardValueStyle.Render(value) + " " + styles.CardLabelStyle.Render(c.label)
		rendered[i] = styles.CardStyle.Width(cardWidth).MaxHeight(CardsHeight).Render(
			lipgloss.NewStyle().MaxWidth(cardWidth - 2).Render(body))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		lipgloss.JoinHorizontal(lipgloss.Top, rendered...),
	)
}

// renderSearchBar renders the search input, active filters and the match count
func (m Model) renderSearchBar() string {
	var left string
	if m.State == StateSearching || m.SearchInput.Value() != "" {
		left = m.SearchInput.View()
	} else {
		left = styles.DimStyle.Render("/ search")
	}

	var badges []string
	for _, name := range []string{catalog.FilterDirector, catalog.FilterProducer, catalog.FilterYear} {
		if v := m.App.Filters[name]; v != "" {
			badges = append(badges, styles.BadgeStyle.Render(name+": "+catalog.TruncateText(v, 20)))
		}
	}
	if len(badges) > 0 {
		left += "  " + strings.Join(badges, " ")
	}

	right := styles.DimStyle.Render(fmt.Sprintf("%d of %d films", m.Table.Len(), len(m.App.Films)))

	gap := max(m.Width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return lipgloss.NewStyle().MaxWidth(m.Width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderFooter renders a single-line minimal footer
func (m Model) renderFooter() string {
	// Left side: spinner + status when loading or status message active
	var left string
	switch {
	case m.App.Loading:
		left = RenderSpinner(m.SpinnerFrame) + " " + styles.DimStyle.Render("Loading films...")
	case m.StatusMsg != "" && m.StatusIsErr:
		left = styles.ErrorStyle.Render(m.StatusMsg)
	case m.StatusMsg != "":
		left = styles.SuccessStyle.Render(m.StatusMsg)
	case m.State == StateSearching && m.debouncer.Pending():
		left = styles.DimStyle.Render("searching...")
	case m.App.Err != nil:
		left = styles.ErrorStyle.Render(describeError(m.App.Err))
	case m.State == StateDetail && m.Detail.LoadState().Busy():
		left = RenderSpinner(m.SpinnerFrame) + " " + styles.DimStyle.Render("Resolving related entries...")
	}

	// Center: current sort
	arrow := "▲"
	if m.App.Sort.Direction == catalog.Desc {
		arrow = "▼"
	}
	center := styles.DimStyle.Render("sorted by ") + styles.AccentStyle.Render(m.App.Sort.Key.String()+" "+arrow)

	// Right side: "? help" hint
	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")

	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	if leftWidth+centerWidth+rightWidth >= m.Width {
		// Not enough space - just left + right
		gap := max(m.Width-leftWidth-rightWidth, 0)
		return left + strings.Repeat(" ", gap) + right
	}

	available := m.Width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
BROWSE                          SEARCH & VIEW
  j/k        Up/down              /      Search titles and crawls
  PgUp/PgDn  Scroll page          f      Filter by director/producer/year
  Ctrl+u/d   Scroll half page     x      Clear filters (keeps search)
  Home/G     First/last film      s      Sort
  g          Jump to title        1-5    Sort by column
  Enter      Film details         Esc    Clear search / back

OTHER
  r          Refresh from source
  q          Quit
  ?          This help

Press any key to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}
