package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/holocron/internal/catalog"
	"github.com/mmcdole/holocron/internal/tui/styles"
)

// SortModal is a small popup for choosing sort order
type SortModal struct {
	visible bool
	options []catalog.SortKey
	cursor  int
	active  catalog.SortSpec
}

// NewSortModal creates a new sort modal
func NewSortModal() SortModal {
	return SortModal{}
}

// Show displays the modal with the given options and current sort state
func (m *SortModal) Show(options []catalog.SortKey, active catalog.SortSpec) {
	m.visible = true
	m.options = options
	m.active = active
	m.cursor = 0
	for i, opt := range options {
		if opt == active.Key {
			m.cursor = i
			break
		}
	}
}

// Hide dismisses the modal
func (m *SortModal) Hide() {
	m.visible = false
}

// IsVisible returns whether the modal is shown
func (m SortModal) IsVisible() bool {
	return m.visible
}

// HandleKey processes a key press, returns (handled, selection).
// If selection is non-nil, the user confirmed a choice. Choosing the active
// key again flips its direction.
func (m *SortModal) HandleKey(key string) (handled bool, selection *catalog.SortSpec) {
	if !m.visible {
		return false, nil
	}

	switch key {
	case "j", "down":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
		return true, nil
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return true, nil
	case "enter":
		if len(m.options) == 0 {
			m.visible = false
			return true, nil
		}
		chosen := m.options[m.cursor]
		spec := catalog.SortSpec{Key: chosen, Direction: catalog.Asc}
		if chosen == m.active.Key {
			spec.Direction = m.active.Direction.Flip()
		}
		m.visible = false
		return true, &spec
	case "esc", "s":
		m.visible = false
		return true, nil
	}

	return true, nil // consume all keys when visible
}

// View renders the sort modal
func (m SortModal) View() string {
	if !m.visible || len(m.options) == 0 {
		return ""
	}

	var lines []string
	for i, opt := range m.options {
		selected := i == m.cursor
		isActive := opt == m.active.Key

		prefix := "  "
		suffix := ""
		if isActive {
			prefix = "✓ "
			if m.active.Direction == catalog.Desc {
				suffix = " ↓"
			} else {
				suffix = " ↑"
			}
		}
		text := styles.Pad(prefix+opt.String()+suffix, 20)

		switch {
		case selected:
			lines = append(lines, lipgloss.NewStyle().
				Foreground(styles.White).
				Background(styles.SlateLight).
				Render(text))
		case isActive:
			lines = append(lines, lipgloss.NewStyle().
				Foreground(styles.SaberYellow).
				Render(text))
		default:
			lines = append(lines, lipgloss.NewStyle().
				Foreground(styles.LightGray).
				Render(text))
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.SaberYellow).
		Background(styles.SlateDark).
		Padding(0, 1).
		Render(styles.ModalTitleStyle.Render("Sort by") + "\n" + strings.Join(lines, "\n"))
}
