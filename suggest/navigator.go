package suggest

// NoSelection is the selected index while the list is open but nothing is
// highlighted.
const NoSelection = -1

// Navigator is the keyboard state of the suggestion dropdown. It is closed,
// open with no selection, or open with a highlighted entry. It is not safe
// for concurrent use.
type Navigator struct {
	open        bool
	selected    int
	suggestions []Suggestion
}

// NewNavigator returns a closed navigator.
func NewNavigator() *Navigator {
	return &Navigator{selected: NoSelection}
}

// IsOpen reports whether the dropdown is shown.
func (n *Navigator) IsOpen() bool { return n.open }

// Selected returns the highlighted index, or NoSelection.
func (n *Navigator) Selected() int { return n.selected }

// Suggestions returns the entries currently listed.
func (n *Navigator) Suggestions() []Suggestion { return n.suggestions }

// SetSuggestions replaces the listed entries. A selection that no longer
// points at an entry is cleared.
func (n *Navigator) SetSuggestions(s []Suggestion) {
	n.suggestions = s
	if n.selected >= len(s) {
		n.selected = NoSelection
	}
}

// Focus opens the dropdown.
func (n *Navigator) Focus() {
	n.open = true
}

// Change handles an edit of the search text: the dropdown opens and the
// selection resets.
func (n *Navigator) Change(s []Suggestion) {
	n.open = true
	n.selected = NoSelection
	n.suggestions = s
}

// Down moves the highlight one entry down, stopping at the last one.
func (n *Navigator) Down() {
	if !n.open {
		return
	}
	n.selected = min(n.selected+1, len(n.suggestions)-1)
}

// Up moves the highlight one entry up, back to no selection at the top.
func (n *Navigator) Up() {
	if !n.open {
		return
	}
	n.selected = max(n.selected-1, NoSelection)
}

// Enter commits the highlighted entry and closes the dropdown. It reports
// false, leaving the state unchanged, when nothing is highlighted.
func (n *Navigator) Enter() (Suggestion, bool) {
	if !n.open || n.selected < 0 || n.selected >= len(n.suggestions) {
		return Suggestion{}, false
	}
	s := n.suggestions[n.selected]
	n.close()
	return s, true
}

// Pick commits the entry at index i, as a click would.
func (n *Navigator) Pick(i int) (Suggestion, bool) {
	if !n.open || i < 0 || i >= len(n.suggestions) {
		return Suggestion{}, false
	}
	s := n.suggestions[i]
	n.close()
	return s, true
}

// Escape closes the dropdown and clears the selection.
func (n *Navigator) Escape() {
	if !n.open {
		return
	}
	n.close()
}

// OutsideClick closes the dropdown when focus leaves it.
func (n *Navigator) OutsideClick() {
	n.close()
}

func (n *Navigator) close() {
	n.open = false
	n.selected = NoSelection
}
