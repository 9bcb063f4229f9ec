// Package window computes which rows of a long list are worth rendering.
//
// Only the rows intersecting the viewport, plus an overscan margin on each
// side, are materialized. The computation is a pure function of the scroll
// state; Virtualizer only remembers the last scroll offset.
package window

import "sync"

// Window is the index range to render and its geometry.
// Rows [Start, End) are drawn, offset by StartOffset inside a canvas of
// TotalHeight.
type Window struct {
	Start       int
	End         int
	TotalHeight int
	StartOffset int
}

// Len returns the number of rows in the window
func (w Window) Len() int {
	return w.End - w.Start
}

// Contains reports whether row i is materialized
func (w Window) Contains(i int) bool {
	return i >= w.Start && i < w.End
}

// Compute derives the window for a list of itemCount rows of itemHeight,
// seen through a container of containerHeight scrolled to scrollOffset.
func Compute(itemCount, itemHeight, containerHeight, scrollOffset, overscan int) Window {
	if itemHeight <= 0 {
		itemHeight = 1
	}
	if itemCount < 0 {
		itemCount = 0
	}
	if containerHeight < 0 {
		containerHeight = 0
	}
	if scrollOffset < 0 {
		scrollOffset = 0
	}
	if overscan < 0 {
		overscan = 0
	}

	startRaw := scrollOffset / itemHeight
	visibleCount := (containerHeight + itemHeight - 1) / itemHeight

	end := min(startRaw+visibleCount+overscan, itemCount)
	start := max(0, startRaw-overscan)
	if start > end {
		start = end
	}

	return Window{
		Start:       start,
		End:         end,
		TotalHeight: itemCount * itemHeight,
		StartOffset: start * itemHeight,
	}
}

// Visible returns the materialized rows of items
func Visible[T any](items []T, w Window) []T {
	start := min(max(w.Start, 0), len(items))
	end := min(max(w.End, start), len(items))
	return items[start:end]
}

// Virtualizer keeps scroll state for one list
type Virtualizer struct {
	mu              sync.Mutex
	itemCount       int
	itemHeight      int
	containerHeight int
	overscan        int
	scrollOffset    int
}

// New creates a virtualizer for rows of itemHeight in a container of
// containerHeight
func New(itemHeight, containerHeight, overscan int) *Virtualizer {
	if itemHeight <= 0 {
		itemHeight = 1
	}
	return &Virtualizer{
		itemHeight:      itemHeight,
		containerHeight: containerHeight,
		overscan:        overscan,
	}
}

// SetScrollOffset records a new scroll position, clamped to zero
func (v *Virtualizer) SetScrollOffset(offset int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.scrollOffset = max(offset, 0)
}

// ScrollOffset returns the last recorded scroll position
func (v *Virtualizer) ScrollOffset() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scrollOffset
}

// SetItemCount updates the list length
func (v *Virtualizer) SetItemCount(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.itemCount = max(n, 0)
}

// SetContainerHeight updates the viewport size, e.g. on terminal resize
func (v *Virtualizer) SetContainerHeight(h int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.containerHeight = max(h, 0)
}

// Window computes the current window
func (v *Virtualizer) Window() Window {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Compute(v.itemCount, v.itemHeight, v.containerHeight, v.scrollOffset, v.overscan)
}

// ScrollToIndex adjusts the offset the least amount needed to keep row i
// fully inside the viewport.
func (v *Virtualizer) ScrollToIndex(i int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if i < 0 {
		i = 0
	}
	top := i * v.itemHeight
	bottom := top + v.itemHeight

	switch {
	case top < v.scrollOffset:
		v.scrollOffset = top
	case bottom > v.scrollOffset+v.containerHeight:
		v.scrollOffset = max(bottom-v.containerHeight, 0)
	}
}

// VisibleRows returns the first fully visible row and the number of rows
// that fit the container, ignoring overscan.
func (v *Virtualizer) VisibleRows() (first, count int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	first = v.scrollOffset / v.itemHeight
	count = v.containerHeight / v.itemHeight
	if first+count > v.itemCount {
		count = max(v.itemCount-first, 0)
	}
	return first, count
}
