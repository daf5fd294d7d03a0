package logic

// Navigator handles the results cursor and viewport
type Navigator struct {
	selectedIndex  int
	viewportOffset int
	viewportHeight int
	totalItems     int
}

// NewNavigator creates a navigator with nothing selected
func NewNavigator() *Navigator {
	return &Navigator{
		selectedIndex:  -1,
		viewportHeight: 1,
	}
}

// Reset clears the cursor and scroll position
func (n *Navigator) Reset() {
	n.selectedIndex = -1
	n.viewportOffset = 0
	n.totalItems = 0
}

// SetTotal updates the number of rows. The cursor is clamped to the new size.
func (n *Navigator) SetTotal(total int) {
	if total < 0 {
		total = 0
	}
	n.totalItems = total
	if n.selectedIndex >= total {
		n.selectedIndex = total - 1
	}
	n.ensureSelectedVisible()
}

// SetViewportHeight sets how many rows fit on screen
func (n *Navigator) SetViewportHeight(height int) {
	if height < 1 {
		height = 1
	}
	n.viewportHeight = height
	n.ensureSelectedVisible()
}

// GetSelectedIndex returns the current selected index, -1 for none
func (n *Navigator) GetSelectedIndex() int {
	return n.selectedIndex
}

// GetViewportOffset returns the first visible row
func (n *Navigator) GetViewportOffset() int {
	return n.viewportOffset
}

// GetViewportHeight returns the number of visible rows
func (n *Navigator) GetViewportHeight() int {
	return n.viewportHeight
}

// SetSelectedIndex sets the selected index and ensures it's visible
func (n *Navigator) SetSelectedIndex(index int) int {
	if n.totalItems == 0 {
		n.selectedIndex = -1
		return n.selectedIndex
	}
	if index < 0 {
		index = 0
	}
	if index >= n.totalItems {
		index = n.totalItems - 1
	}
	n.selectedIndex = index
	n.ensureSelectedVisible()
	return n.selectedIndex
}

// Move moves the cursor by delta rows
func (n *Navigator) Move(delta int) int {
	if n.selectedIndex < 0 {
		return n.SetSelectedIndex(0)
	}
	return n.SetSelectedIndex(n.selectedIndex + delta)
}

// PageDown moves the cursor one viewport down
func (n *Navigator) PageDown() int {
	return n.Move(n.viewportHeight)
}

// PageUp moves the cursor one viewport up
func (n *Navigator) PageUp() int {
	return n.Move(-n.viewportHeight)
}

// Visible returns the half-open range of rows on screen
func (n *Navigator) Visible() (from, to int) {
	from = n.viewportOffset
	to = from + n.viewportHeight
	if to > n.totalItems {
		to = n.totalItems
	}
	return from, to
}

// ensureSelectedVisible adjusts the viewport to keep the selected item visible
func (n *Navigator) ensureSelectedVisible() {
	// If selected item is above viewport, scroll up
	if n.selectedIndex >= 0 && n.selectedIndex < n.viewportOffset {
		n.viewportOffset = n.selectedIndex
	}

	// If selected item is below viewport, scroll down
	if n.selectedIndex >= n.viewportOffset+n.viewportHeight {
		n.viewportOffset = n.selectedIndex - n.viewportHeight + 1
	}

	// The maximum offset should ensure we can still fill the viewport
	maxOffset := n.totalItems - n.viewportHeight
	if maxOffset < 0 {
		maxOffset = 0
	}
	if n.viewportOffset > maxOffset {
		n.viewportOffset = maxOffset
	}
	if n.viewportOffset < 0 {
		n.viewportOffset = 0
	}
}
