package ui

import tea "github.com/charmbracelet/bubbletea"

// OverlayKind says what an overlay is for, so results can be routed back.
type OverlayKind int

const (
	OverlayForm OverlayKind = iota + 1
	OverlayConfirm
)

// Overlay is a modal drawn over the card grid.
type Overlay struct {
	View View
	Kind OverlayKind
}

// OverlayStack holds the open overlays; the topmost receives input.
type OverlayStack struct {
	Stack []Overlay
}

// Push opens o above everything else.
func (s *OverlayStack) Push(o Overlay) {
	s.Stack = append(s.Stack, o)
}

// Pop closes the top overlay.
func (s *OverlayStack) Pop() (Overlay, bool) {
	if len(s.Stack) == 0 {
		return Overlay{}, false
	}
	top := s.Stack[len(s.Stack)-1]
	s.Stack = s.Stack[:len(s.Stack)-1]
	return top, true
}

// Peek returns the top overlay.
func (s *OverlayStack) Peek() (Overlay, bool) {
	if len(s.Stack) == 0 {
		return Overlay{}, false
	}
	return s.Stack[len(s.Stack)-1], true
}

// TopIs reports whether the top overlay has kind k.
func (s *OverlayStack) TopIs(k OverlayKind) bool {
	top, ok := s.Peek()
	return ok && top.Kind == k
}

// Len returns the number of open overlays.
func (s *OverlayStack) Len() int {
	return len(s.Stack)
}

// Clear closes every overlay.
func (s *OverlayStack) Clear() {
	s.Stack = nil
}

// UpdateTop feeds msg to the top overlay and keeps the view it returns.
// The caller runs the returned cmd.
func (s *OverlayStack) UpdateTop(msg tea.Msg) (tea.Cmd, bool) {
	if len(s.Stack) == 0 {
		return nil, false
	}
	top := &s.Stack[len(s.Stack)-1]
	v, cmd := top.View.Update(msg)
	top.View = v
	return cmd, true
}
