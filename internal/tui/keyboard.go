package tui

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/holocron/internal/catalog"
	"github.com/mmcdole/holocron/internal/debounce"
	"github.com/mmcdole/holocron/internal/state"
	"github.com/mmcdole/holocron/internal/tui/components"
)

// jumpLimit caps the number of ranked titles offered by the jump modal
const jumpLimit = 50

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.State == StateHelp {
		m.State = StateBrowsing
		return m, nil
	}

	// Route to active modal if any
	if handled, newModel, cmd := m.routeToModal(msg); handled {
		return newModel, cmd
	}

	switch m.State {
	case StateSearching:
		return m.handleSearchKey(msg)
	case StateDetail:
		return m.handleDetailKey(msg)
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Search):
		m.State = StateSearching
		return m, m.SearchInput.Focus()

	case key.Matches(msg, Keys.Filter):
		m.FilterPanel.Show(m.App.Stats(), m.App.Filters)
		return m, nil

	case key.Matches(msg, Keys.ClearFilters):
		m.App = state.Reduce(m.App, state.ClearFilters{})
		m.refreshView()
		return m, nil

	case key.Matches(msg, Keys.Sort):
		m.SortModal.Show(catalog.SortKeys(), m.App.Sort)
		return m, nil

	case key.Matches(msg, Keys.SortColumn):
		n, _ := strconv.Atoi(msg.String())
		cols := catalog.DefaultColumns()
		if n >= 1 && n <= len(cols) {
			m.App = state.Reduce(m.App, state.ToggleSort{Key: cols[n-1].Key})
			m.refreshView()
		}
		return m, nil

	case key.Matches(msg, Keys.Jump):
		m.JumpModal.Show()
		m.JumpModal.SetSize(m.Width, m.Height)
		return m, nil

	case key.Matches(msg, Keys.Refresh):
		if m.App.Loading {
			return m, nil
		}
		m.App = state.Reduce(m.App, state.SetLoading{Loading: true})
		m.Table.SetLoading(true)
		m.StatusMsg = "Refreshing..."
		m.StatusIsErr = false
		return m, RefreshFilmsCmd(m.Commands)

	case key.Matches(msg, Keys.Enter):
		return m.openDetail()

	case key.Matches(msg, Keys.Back):
		// Esc drops the search term first
		if m.App.Filters[catalog.FilterSearch] != "" {
			m.SearchInput.SetValue("")
			m.debouncer.Cancel()
			m.App = state.Reduce(m.App, state.SetFilters{Filters: catalog.FilterSet{catalog.FilterSearch: ""}})
			m.refreshView()
		}
		return m, nil
	}

	cmd := m.Table.Update(msg)
	m.App = state.Reduce(m.App, state.SetSelected{Film: m.Table.Selected()})
	return m, cmd
}

// routeToModal sends the key to whichever modal is open
func (m Model) routeToModal(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	switch {
	case m.JumpModal.IsVisible():
		var cmd tea.Cmd
		var selected bool
		m.JumpModal, cmd, selected = m.JumpModal.Update(msg)
		if selected {
			if match := m.JumpModal.Selected(); match != nil {
				m.JumpModal.Hide()
				m.jumpTo(match.Film.ID, match.Film.Title)
			}
			return true, m, ClearStatusCmd(3 * time.Second)
		}
		if m.JumpModal.QueryChanged() {
			m.JumpModal.SetResults(m.Jumper.Jump(m.JumpModal.Query(), jumpLimit))
		}
		return true, m, cmd

	case m.SortModal.IsVisible():
		_, selection := m.SortModal.HandleKey(msg.String())
		if selection != nil {
			m.App = state.Reduce(m.App, state.SetSort{Spec: *selection})
			m.refreshView()
		}
		return true, m, nil

	case m.FilterPanel.IsVisible():
		var cmd tea.Cmd
		var res components.FilterResult
		m.FilterPanel, cmd, res = m.FilterPanel.Update(msg)
		switch res.Action {
		case components.FilterApply:
			m.App = state.Reduce(m.App, state.SetFilters{Filters: catalog.FilterSet{res.Name: res.Value}})
			m.refreshView()
		case components.FilterClear:
			m.App = state.Reduce(m.App, state.ClearFilters{})
			m.refreshView()
		}
		return true, m, cmd
	}
	return false, m, nil
}

// jumpTo moves the cursor to a film, clearing constraints that hide it
func (m *Model) jumpTo(id, title string) {
	if m.Table.SelectByID(id) {
		m.App = state.Reduce(m.App, state.SetSelected{Film: m.Table.Selected()})
		return
	}

	m.SearchInput.SetValue("")
	m.debouncer.Cancel()
	m.App = state.Reduce(m.App, state.ClearFilters{})
	m.App = state.Reduce(m.App, state.SetFilters{Filters: catalog.FilterSet{catalog.FilterSearch: ""}})
	m.refreshView()
	m.Table.SelectByID(id)
	m.App = state.Reduce(m.App, state.SetSelected{Film: m.Table.Selected()})
	m.StatusMsg = "Filters cleared to show " + title
	m.StatusIsErr = false
}

// handleSearchKey edits the search term. Terms are applied once typing pauses.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.debouncer.Flush()
		m.SearchInput.Blur()
		m.State = StateBrowsing
		return m, nil

	case tea.KeyEsc:
		m.debouncer.Cancel()
		m.SearchInput.SetValue("")
		m.SearchInput.Blur()
		m.State = StateBrowsing
		m.App = state.Reduce(m.App, state.SetFilters{Filters: catalog.FilterSet{catalog.FilterSearch: ""}})
		m.refreshView()
		return m, nil

	case tea.KeyUp, tea.KeyDown:
		cmd := m.Table.Update(msg)
		m.App = state.Reduce(m.App, state.SetSelected{Film: m.Table.Selected()})
		return m, cmd
	}

	before := m.SearchInput.Value()
	var cmd tea.Cmd
	m.SearchInput, cmd = m.SearchInput.Update(msg)
	if v := m.SearchInput.Value(); v != before {
		m.debouncer.Trigger(debounce.NormalizeTerm(v, m.opts.MinSearch, m.opts.MaxSearch))
	}
	return m, cmd
}

// handleDetailKey handles keys while a film's detail view is open
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Back):
		m.State = StateBrowsing
		return m, nil
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, Keys.Up):
		m.Detail.ScrollBy(-1)
	case key.Matches(msg, Keys.Down):
		m.Detail.ScrollBy(1)
	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
	}
	return m, nil
}

// openDetail shows the selected film and starts resolving its related entities
func (m Model) openDetail() (tea.Model, tea.Cmd) {
	film := m.Table.Selected()
	if film == nil {
		return m, nil
	}
	m.App = state.Reduce(m.App, state.SetSelected{Film: film})
	m.Detail.SetFilm(film)
	m.State = StateDetail

	// Already resolved for this film
	if m.Detail.LoadState().Status == components.StatusLoaded {
		return m, nil
	}

	total := len(film.Characters) + len(film.Planets) + len(film.Starships)
	m.Detail.SetLoadState(components.LoadState{Status: components.StatusLoading, Total: total})
	return m, FetchRelatedCmd(m.Commands, m.Queries, *film, m.progress.Send)
}
