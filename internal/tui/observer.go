package tui

import tea "github.com/charmbracelet/bubbletea"

// ChannelObserver forwards values produced off the Bubble Tea loop, such
// as debounced search terms and fetch progress, into a channel the program
// listens on. Only the latest unread value is kept.
type ChannelObserver[T any] struct {
	ch chan T
}

// NewChannelObserver creates an observer with a one-slot buffer
func NewChannelObserver[T any]() *ChannelObserver[T] {
	return &ChannelObserver[T]{ch: make(chan T, 1)}
}

// Send delivers v, replacing an unread older value. Never blocks.
func (o *ChannelObserver[T]) Send(v T) {
	for {
		select {
		case o.ch <- v:
			return
		default:
		}
		select {
		case <-o.ch:
		default:
		}
	}
}

// Wait returns a command that blocks for the next value and wraps it as a
// message. Re-issue it after each delivery to keep listening.
func (o *ChannelObserver[T]) Wait(wrap func(T) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return wrap(<-o.ch)
	}
}
