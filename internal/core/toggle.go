package core

// ToggleState tracks which categories are visible. The zero value is not usable; call NewToggleState.
type ToggleState struct {
	visible map[Category]bool
}

// NewToggleState returns a state with every category visible.
func NewToggleState() *ToggleState {
	ts := &ToggleState{visible: make(map[Category]bool, len(Categories))}
	for _, c := range Categories {
		ts.visible[c] = true
	}
	return ts
}

// Toggle flips the visibility of c and returns the new value.
func (ts *ToggleState) Toggle(c Category) (bool, error) {
	v, ok := ts.visible[c]
	if !ok {
		return false, ErrUnknownCategory
	}
	ts.visible[c] = !v
	return !v, nil
}

func (ts *ToggleState) Visible(c Category) bool {
	return ts.visible[c]
}

// Active returns the visible categories in category order.
func (ts *ToggleState) Active() []Category {
	out := make([]Category, 0, len(Categories))
	for _, c := range Categories {
		if ts.visible[c] {
			out = append(out, c)
		}
	}
	return out
}

// Filter keeps the series whose category is visible, preserving their data.
func (ts *ToggleState) Filter(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if ts.visible[s.Key] {
			out = append(out, s)
		}
	}
	return out
}
