package ui

import "github.com/charmbracelet/lipgloss"

// Theme colors (256-color palette).
const (
	ColorAccent    = "86"  // titles, focused controls
	ColorHighlight = "205" // selected card, borders
	ColorDanger    = "196" // errors, delete prompt
	ColorMuted     = "241" // hints
	ColorText      = "252"
	ColorDim       = "243"
	ColorSuccess   = "42"
	ColorWarning   = "208"
)

// cardWidth is the outer width of one card including border and margin.
const cardWidth = 32

// cardInner is the text width inside a card.
const cardInner = cardWidth - 6

// Styles holds every style used by views and modals.
var Styles = struct {
	Title        lipgloss.Style
	TitleWarning lipgloss.Style
	Header       lipgloss.Style

	Box       lipgloss.Style // form modal
	BoxDanger lipgloss.Style // confirm modal

	Card         lipgloss.Style
	CardSelected lipgloss.Style
	CardTitle    lipgloss.Style
	CardKey      lipgloss.Style

	FieldLabel   lipgloss.Style
	FieldFocused lipgloss.Style
	FieldError   lipgloss.Style
	Button       lipgloss.Style
	ButtonActive lipgloss.Style

	NoticeOK  lipgloss.Style
	NoticeErr lipgloss.Style

	Selected lipgloss.Style
	Muted    lipgloss.Style
	Normal   lipgloss.Style
	Hint     lipgloss.Style
	Empty    lipgloss.Style
	Label    lipgloss.Style
	Details  lipgloss.Style
}{
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	TitleWarning: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorDanger)),
	Header: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color(ColorDim)).
		Padding(0, 1),

	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(1, 2),
	BoxDanger: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorDanger)).
		Padding(1, 2),

	Card: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorDim)).
		Padding(0, 1).
		Width(cardWidth - 4).
		MarginRight(2),
	CardSelected: lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(lipgloss.Color(ColorHighlight)).
		Padding(0, 1).
		Width(cardWidth - 4).
		MarginRight(2),
	CardTitle: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorText)),
	CardKey: lipgloss.NewStyle().
		Bold(true),

	FieldLabel: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)),
	FieldFocused: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccent)),
	FieldError: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorDanger)),
	Button: lipgloss.NewStyle().
		Padding(0, 2).
		Foreground(lipgloss.Color(ColorText)).
		Background(lipgloss.Color(ColorDim)),
	ButtonActive: lipgloss.NewStyle().
		Padding(0, 2).
		Bold(true).
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color(ColorAccent)),

	NoticeOK: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSuccess)),
	NoticeErr: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorDanger)),

	Selected: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHighlight)).
		Bold(true),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorText)),
	Hint: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)),
	Empty: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorMuted)).
		Italic(true),
	Label: lipgloss.NewStyle(),
	Details: lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorWarning)),
}
