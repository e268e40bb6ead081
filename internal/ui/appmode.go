package ui

// AppMode says which surface currently takes keys. Keybinds can be limited
// to modes so edit and delete are only offered when a card is selected.
type AppMode int

const (
	ModeEmpty AppMode = iota
	ModeBrowse
	ModeForm
	ModeConfirm
)

func (m AppMode) String() string {
	switch m {
	case ModeEmpty:
		return "Empty"
	case ModeBrowse:
		return "Browse"
	case ModeForm:
		return "Form"
	case ModeConfirm:
		return "Confirm"
	default:
		return "Unknown"
	}
}
