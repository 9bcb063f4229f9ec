package tui

import (
	"github.com/mmcdole/holocron/internal/domain"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// FilmsLoadedMsg signals that the collection has been loaded
type FilmsLoadedMsg struct {
	Films     []domain.Film
	FromCache bool
}

// FilmsFailedMsg signals that loading the collection failed
type FilmsFailedMsg struct {
	Err error
}

// RelatedLoadedMsg carries the resolved entities of one film. Err is set
// when some entities could not be resolved; Related still holds the rest.
type RelatedLoadedMsg struct {
	FilmID  string
	Related domain.Related
	Err     error
}

// RelatedProgressMsg reports related entity resolution progress
type RelatedProgressMsg struct {
	FilmID string
	Loaded int
	Total  int
}

// SearchSettledMsg carries a search term once typing has paused
type SearchSettledMsg struct {
	Term string
}

// TickMsg is a general tick message for animations
type TickMsg struct{}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
