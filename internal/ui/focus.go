package ui

// FocusRing tracks which control has focus and rotates through Order.
// OnChange runs whenever focus actually moves.
type FocusRing struct {
	Order    []string
	Current  int
	OnChange func(from, to string)
}

// ID returns the focused control, or "" for an empty ring.
func (f *FocusRing) ID() string {
	if len(f.Order) == 0 {
		return ""
	}
	return f.Order[f.Current]
}

// Next moves focus forward, wrapping at the end.
func (f *FocusRing) Next() string {
	if len(f.Order) == 0 {
		return ""
	}
	return f.move((f.Current + 1) % len(f.Order))
}

// Prev moves focus back, wrapping at the start.
func (f *FocusRing) Prev() string {
	if len(f.Order) == 0 {
		return ""
	}
	i := f.Current - 1
	if i < 0 {
		i = len(f.Order) - 1
	}
	return f.move(i)
}

// SetFocus focuses id. Returns false if id is not in the ring.
func (f *FocusRing) SetFocus(id string) bool {
	for i, o := range f.Order {
		if o == id {
			f.move(i)
			return true
		}
	}
	return false
}

// AtEnd reports whether the last control is focused.
func (f *FocusRing) AtEnd() bool {
	return len(f.Order) > 0 && f.Current == len(f.Order)-1
}

func (f *FocusRing) move(i int) string {
	from := f.ID()
	f.Current = i
	to := f.ID()
	if f.OnChange != nil && from != to {
		f.OnChange(from, to)
	}
	return to
}
