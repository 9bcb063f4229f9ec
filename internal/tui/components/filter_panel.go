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

// filterField is one dimension offered by the filter panel
type filterField struct {
	name    string // catalog filter name
	label   string
	choices []string
}

// FilterAction is what the user asked the filter panel to do
type FilterAction int

const (
	FilterNone FilterAction = iota
	FilterApply
	FilterClear
)

// FilterResult is returned when the user applies or clears a filter
type FilterResult struct {
	Action FilterAction
	Name   string // catalog filter name, set for FilterApply
	Value  string
}

// FilterPanel lets the user pick director, producer and year constraints.
// Typing narrows the active field's choices fuzzily.
type FilterPanel struct {
	visible bool
	fields  []filterField
	field   int
	active  catalog.FilterSet

	input   textinput.Model
	matches []search.Choice
	cursor  int
	width   int
}

// NewFilterPanel creates a new filter panel
func NewFilterPanel() FilterPanel {
	ti := textinput.New()
	ti.Placeholder = "type to narrow..."
	ti.CharLimit = 100
	ti.Width = 30
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle
	ti.PlaceholderStyle = styles.DimStyle

	return FilterPanel{input: ti}
}

// Show opens the panel with choices drawn from stats
func (p *FilterPanel) Show(stats catalog.Stats, active catalog.FilterSet) {
	p.visible = true
	p.fields = []filterField{
		{name: catalog.FilterDirector, label: "Director", choices: stats.Directors},
		{name: catalog.FilterProducer, label: "Producer", choices: stats.Producers},
		{name: catalog.FilterYear, label: "Year", choices: stats.Years},
	}
	p.active = active.Clone()
	p.field = 0
	p.resetInput()
	p.input.Focus()
}

// Hide dismisses the panel
func (p *FilterPanel) Hide() {
	p.visible = false
	p.input.Blur()
}

// IsVisible returns whether the panel is shown
func (p FilterPanel) IsVisible() bool {
	return p.visible
}

// SetWidth updates the component width
func (p *FilterPanel) SetWidth(width int) {
	p.width = width
}

func (p *FilterPanel) resetInput() {
	p.input.SetValue("")
	p.narrow()
}

func (p *FilterPanel) narrow() {
	if len(p.fields) == 0 {
		p.matches = nil
		return
	}
	p.matches = search.NarrowChoices(p.input.Value(), p.fields[p.field].choices)
	p.cursor = 0
}

// Update handles messages and reports the user's decision, if any
func (p FilterPanel) Update(msg tea.Msg) (FilterPanel, tea.Cmd, FilterResult) {
	if !p.visible {
		return p, nil, FilterResult{}
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, PickerKeys.Escape):
			p.Hide()
			return p, nil, FilterResult{}
		case key.Matches(keyMsg, PickerKeys.ClearAll):
			p.Hide()
			return p, nil, FilterResult{Action: FilterClear}
		case key.Matches(keyMsg, PickerKeys.NextField):
			p.field = (p.field + 1) % len(p.fields)
			p.resetInput()
			return p, nil, FilterResult{}
		case key.Matches(keyMsg, PickerKeys.PrevField):
			p.field = (p.field + len(p.fields) - 1) % len(p.fields)
			p.resetInput()
			return p, nil, FilterResult{}
		case key.Matches(keyMsg, PickerKeys.Down):
			if p.cursor < len(p.matches)-1 {
				p.cursor++
			}
			return p, nil, FilterResult{}
		case key.Matches(keyMsg, PickerKeys.Up):
			if p.cursor > 0 {
				p.cursor--
			}
			return p, nil, FilterResult{}
		case key.Matches(keyMsg, PickerKeys.Enter):
			if len(p.matches) == 0 {
				return p, nil, FilterResult{}
			}
			f := p.fields[p.field]
			value := p.matches[p.cursor].Value
			// Picking the applied value again removes it
			if p.active[f.name] == value {
				value = ""
			}
			p.active[f.name] = value
			return p, nil, FilterResult{Action: FilterApply, Name: f.name, Value: value}
		}
	}

	before := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != before {
		p.narrow()
	}
	return p, cmd, FilterResult{}
}

// View renders the panel
func (p FilterPanel) View() string {
	if !p.visible || len(p.fields) == 0 {
		return ""
	}

	modalWidth := min(max(p.width/2, 40), 70)
	const maxChoices = 8

	var b strings.Builder

	// Field tabs with the applied value of each
	tabs := make([]string, len(p.fields))
	for i, f := range p.fields {
		label := f.label
		if v := p.active[f.name]; v != "" {
			label += ": " + styles.Truncate(v, 14)
		}
		if i == p.field {
			tabs[i] = styles.BadgeStyle.Render(label)
		} else {
			tabs[i] = styles.DimBadgeStyle.Render(label)
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n\n")
	b.WriteString(p.input.View())
	b.WriteString("\n\n")

	f := p.fields[p.field]
	if len(p.matches) == 0 {
		b.WriteString(styles.DimStyle.Render("No matches"))
	}

	// Keep the cursor inside the shown slice
	start := max(p.cursor-maxChoices+1, 0)
	end := min(start+maxChoices, len(p.matches))
	for i := start; i < end; i++ {
		c := p.matches[i]
		prefix := "  "
		if p.active[f.name] == c.Value {
			prefix = styles.AccentStyle.Render("✓ ")
		}
		b.WriteString(prefix)
		b.WriteString(styles.RenderHighlighted(styles.Truncate(c.Value, modalWidth-10), c.MatchedIndexes, i == p.cursor))
		b.WriteString("\n")
	}
	if len(p.matches) > end {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("... and %d more", len(p.matches)-end)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.HelpKeyStyle.Render("tab") + styles.HelpDescStyle.Render(" field  "))
	b.WriteString(styles.HelpKeyStyle.Render("enter") + styles.HelpDescStyle.Render(" apply  "))
	b.WriteString(styles.HelpKeyStyle.Render("C-x") + styles.HelpDescStyle.Render(" clear all"))

	content := lipgloss.NewStyle().Width(modalWidth - 4).Render(b.String())
	return styles.ModalStyle.
		Width(modalWidth).
		Render(styles.ModalTitleStyle.Render("Filters") + "\n" + content)
}
