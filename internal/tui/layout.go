package tui

// Vertical chrome around the table
const (
	TitleHeight     = 1
	CardsHeight     = 3 // bordered single-line cards
	SearchBarHeight = 1
	FooterHeight    = 1

	ChromeHeight = TitleHeight + CardsHeight + SearchBarHeight + FooterHeight
)

// contentHeight is what remains for the table or detail view
func (m Model) contentHeight() int {
	return max(m.Height-ChromeHeight, 3)
}

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	h := m.contentHeight()
	m.Table.SetSize(m.Width, h)
	m.Detail.SetSize(m.Width, h)
	m.JumpModal.SetSize(m.Width, m.Height)
	m.FilterPanel.SetWidth(m.Width)
	m.SearchInput.Width = max(m.Width/2, 20)
}
