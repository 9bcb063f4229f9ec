// Package tui implements the interactive film browser on Bubble Tea.
package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/holocron/internal/catalog"
	"github.com/mmcdole/holocron/internal/debounce"
	"github.com/mmcdole/holocron/internal/domain"
	"github.com/mmcdole/holocron/internal/search"
	"github.com/mmcdole/holocron/internal/state"
	"github.com/mmcdole/holocron/internal/tui/components"
	"github.com/mmcdole/holocron/internal/tui/styles"
)

// ApplicationState represents the current screen mode
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateSearching
	StateDetail
	StateHelp
)

// Options carries display and search settings from config
type Options struct {
	Debounce   time.Duration
	MinSearch  int
	MaxSearch  int
	ItemHeight int
	Overscan   int
}

// DefaultOptions mirrors the config defaults
func DefaultOptions() Options {
	return Options{
		Debounce:   300 * time.Millisecond,
		MinSearch:  2,
		MaxSearch:  100,
		ItemHeight: 1,
		Overscan:   5,
	}
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool
	App   state.State

	// Services
	Commands domain.FilmCommands
	Queries  domain.FilmQueries
	Jumper   *search.Service

	// UI Components
	Table       *components.FilmTable
	Detail      components.Detail
	SortModal   components.SortModal
	FilterPanel components.FilterPanel
	JumpModal   components.JumpModal
	SearchInput textinput.Model

	// Async plumbing
	debouncer *debounce.Debouncer[string]
	searches  *ChannelObserver[string]
	progress  *ChannelObserver[RelatedProgressMsg]

	opts   Options
	logger *slog.Logger

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg    string
	StatusIsErr  bool
	SpinnerFrame int
}

// NewModel creates a new application model
func NewModel(cmds domain.FilmCommands, queries domain.FilmQueries, opts Options, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.ItemHeight <= 0 {
		opts.ItemHeight = 1
	}

	ti := textinput.New()
	ti.Placeholder = "search titles and crawls..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle
	ti.PlaceholderStyle = styles.DimStyle
	if opts.MaxSearch > 0 {
		ti.CharLimit = opts.MaxSearch
	}

	searches := NewChannelObserver[string]()

	return Model{
		State:       StateBrowsing,
		App:         state.Reduce(state.New(), state.SetLoading{Loading: true}),
		Commands:    cmds,
		Queries:     queries,
		Jumper:      search.NewService(queries, logger),
		Table:       components.NewFilmTable(opts.ItemHeight, opts.Overscan),
		Detail:      components.NewDetail(),
		SortModal:   components.NewSortModal(),
		FilterPanel: components.NewFilterPanel(),
		JumpModal:   components.NewJumpModal(),
		SearchInput: ti,
		debouncer:   debounce.New(opts.Debounce, searches.Send),
		searches:    searches,
		progress:    NewChannelObserver[RelatedProgressMsg](),
		opts:        opts,
		logger:      logger,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		SyncFilmsCmd(m.Commands, m.Queries),
		m.waitForSearch(),
		m.waitForProgress(),
		TickCmd(100*time.Millisecond),
	)
}

// Close stops background timers. Call after the program exits.
func (m Model) Close() {
	m.debouncer.Stop()
}

func (m Model) waitForSearch() tea.Cmd {
	return m.searches.Wait(func(term string) tea.Msg { return SearchSettledMsg{Term: term} })
}

func (m Model) waitForProgress() tea.Cmd {
	return m.progress.Wait(func(p RelatedProgressMsg) tea.Msg { return p })
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		m.Table.SetSpinnerFrame(m.SpinnerFrame)
		return m, TickCmd(100 * time.Millisecond)

	case FilmsLoadedMsg:
		m.App = state.Reduce(m.App, state.SetFilms{Films: msg.Films})
		m.App = state.Reduce(m.App, state.SetError{Err: nil})
		m.refreshView()
		source := "fetched"
		if msg.FromCache {
			source = "from cache"
		}
		m.StatusMsg = fmt.Sprintf("Loaded %d films (%s)", len(msg.Films), source)
		m.StatusIsErr = false
		return m, ClearStatusCmd(3 * time.Second)

	case FilmsFailedMsg:
		m.logger.Error("film load failed", "error", msg.Err)
		m.App = state.Reduce(m.App, state.ClearFilms{})
		m.App = state.Reduce(m.App, state.SetError{Err: msg.Err})
		m.refreshView()
		m.StatusMsg = describeError(msg.Err)
		m.StatusIsErr = true
		return m, ClearStatusCmd(5 * time.Second)

	case RelatedProgressMsg:
		if f := m.Detail.Film(); f != nil && f.ID == msg.FilmID && m.Detail.LoadState().Busy() {
			m.Detail.SetLoadState(components.LoadState{
				Status: components.StatusLoading,
				Loaded: msg.Loaded,
				Total:  msg.Total,
			})
		}
		return m, m.waitForProgress()

	case RelatedLoadedMsg:
		f := m.Detail.Film()
		if f == nil || f.ID != msg.FilmID {
			return m, nil
		}
		m.Detail.SetRelated(msg.Related)
		if msg.Err != nil {
			m.logger.Warn("related entities incomplete", "filmID", msg.FilmID, "error", msg.Err)
			m.Detail.SetLoadState(components.LoadState{Status: components.StatusError, Error: msg.Err})
			return m, nil
		}
		m.Detail.SetLoadState(components.LoadState{Status: components.StatusLoaded})
		return m, nil

	case SearchSettledMsg:
		if m.App.Filters[catalog.FilterSearch] != msg.Term {
			m.App = state.Reduce(m.App, state.SetFilters{Filters: catalog.FilterSet{catalog.FilterSearch: msg.Term}})
			m.refreshView()
		}
		return m, m.waitForSearch()

	case ErrMsg:
		m.StatusMsg = msg.Error()
		m.StatusIsErr = true
		return m, ClearStatusCmd(5 * time.Second)

	case StatusMsg:
		m.StatusMsg = msg.Message
		m.StatusIsErr = msg.IsError
		return m, ClearStatusCmd(3 * time.Second)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	// Cursor blink and other input housekeeping
	var cmd tea.Cmd
	if m.SearchInput.Focused() {
		m.SearchInput, cmd = m.SearchInput.Update(msg)
	}
	return m, cmd
}

// refreshView re-derives the visible rows after any change to films,
// filters or sort.
func (m *Model) refreshView() {
	view := m.App.View()
	m.Table.SetFilms(view)
	m.Table.SetSort(m.App.Sort)
	m.Table.SetLoading(m.App.Loading)

	switch {
	case m.App.Err != nil:
		m.Table.SetEmptyText("Could not load films")
	case len(m.App.Films) > 0:
		m.Table.SetEmptyText("No films match the current filters")
	default:
		m.Table.SetEmptyText("No films")
	}

	m.App = state.Reduce(m.App, state.SetSelected{Film: m.Table.Selected()})
}

// describeError turns source errors into a status line
func describeError(err error) string {
	switch {
	case errors.Is(err, domain.ErrSourceOffline):
		return "Film source unreachable; showing no films"
	case errors.Is(err, domain.ErrRateLimited):
		return "Film source is rate limiting requests; try again shortly"
	default:
		return "Failed to load films: " + err.Error()
	}
}

// View renders the whole screen
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.State == StateHelp {
		return m.renderHelp()
	}

	var content string
	if m.State == StateDetail {
		content = m.Detail.View()
	} else {
		content = m.Table.View()
	}

	view := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.renderSearchBar(),
		content,
		m.renderFooter(),
	)

	// Overlay modals
	var modal string
	switch {
	case m.JumpModal.IsVisible():
		modal = m.JumpModal.View()
	case m.SortModal.IsVisible():
		modal = m.SortModal.View()
	case m.FilterPanel.IsVisible():
		modal = m.FilterPanel.View()
	}
	if modal != "" {
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			modal)
	}

	return view
}
