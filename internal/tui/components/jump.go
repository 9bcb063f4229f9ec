package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/holocron/internal/catalog"
	"github.com/mmcdole/holocron/internal/search"
	"github.com/mmcdole/holocron/internal/tui/styles"
)

// JumpModal is the fuzzy jump-to-title modal
type JumpModal struct {
	input     textinput.Model
	results   []search.TitleMatch
	cursor    int
	visible   bool
	width     int
	height    int
	prevQuery string
}

// NewJumpModal creates a new jump modal
func NewJumpModal() JumpModal {
	ti := textinput.New()
	ti.Placeholder = "Jump to title..."
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "→ "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return JumpModal{input: ti}
}

// Show makes the modal visible and focuses the input
func (j *JumpModal) Show() {
	j.visible = true
	j.input.Focus()
	j.input.SetValue("")
	j.results = nil
	j.cursor = 0
	j.prevQuery = ""
}

// Hide hides the modal
func (j *JumpModal) Hide() {
	j.visible = false
	j.input.Blur()
}

// IsVisible returns true if the modal is visible
func (j JumpModal) IsVisible() bool {
	return j.visible
}

// SetResults sets the ranked matches
func (j *JumpModal) SetResults(results []search.TitleMatch) {
	j.results = results
	j.cursor = 0
}

// SetSize updates the component dimensions
func (j *JumpModal) SetSize(width, height int) {
	j.width = width
	j.height = height
	j.input.Width = max(width/2-10, 20)
}

// Query returns the current query
func (j JumpModal) Query() string {
	return j.input.Value()
}

// QueryChanged returns true if the query changed since last check and updates prevQuery
func (j *JumpModal) QueryChanged() bool {
	current := j.input.Value()
	if current != j.prevQuery {
		j.prevQuery = current
		return true
	}
	return false
}

// Selected returns the highlighted match
func (j JumpModal) Selected() *search.TitleMatch {
	if j.cursor < 0 || j.cursor >= len(j.results) {
		return nil
	}
	return &j.results[j.cursor]
}

// Update handles messages. The bool result reports a confirmed selection.
func (j JumpModal) Update(msg tea.Msg) (JumpModal, tea.Cmd, bool) {
	if !j.visible {
		return j, nil, false
	}

	var cmd tea.Cmd
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, PickerKeys.Escape):
			j.Hide()
			return j, nil, false
		case key.Matches(keyMsg, PickerKeys.Enter):
			return j, nil, len(j.results) > 0
		case key.Matches(keyMsg, PickerKeys.Down):
			if j.cursor < len(j.results)-1 {
				j.cursor++
			}
			return j, nil, false
		case key.Matches(keyMsg, PickerKeys.Up):
			if j.cursor > 0 {
				j.cursor--
			}
			return j, nil, false
		}
	}

	j.input, cmd = j.input.Update(msg)
	return j, cmd, false
}

// View renders the component
func (j JumpModal) View() string {
	if !j.visible {
		return ""
	}

	modalWidth := min(max(j.width*2/3, 40), 80)
	const maxResults = 10

	var b strings.Builder
	b.WriteString(j.input.View())
	b.WriteString("\n\n")

	switch {
	case len(j.results) == 0 && strings.TrimSpace(j.input.Value()) != "":
		b.WriteString(styles.DimStyle.Render("No matching titles"))
	default:
		for i, r := range j.results[:min(len(j.results), maxResults)] {
			style := styles.NormalItemStyle
			if i == j.cursor {
				style = styles.SelectedItemStyle
			}
			b.WriteString(styles.DimBadgeStyle.Render(fmt.Sprintf("EP %d", r.Film.EpisodeID)))
			b.WriteString(" ")
			title := fmt.Sprintf("%s (%s)", r.Film.Title, catalog.FormatYear(r.Film.ReleaseDate))
			b.WriteString(style.Render(styles.Truncate(title, modalWidth-15)))
			b.WriteString("\n")
		}
		if len(j.results) > maxResults {
			b.WriteString(styles.DimStyle.Render(fmt.Sprintf("... and %d more", len(j.results)-maxResults)))
		}
	}

	content := lipgloss.NewStyle().
		Width(modalWidth - 4).
		Render(b.String())

	return styles.ModalStyle.
		Width(modalWidth).
		Render(styles.ModalTitleStyle.Render("Jump to film") + "\n" + content)
}
