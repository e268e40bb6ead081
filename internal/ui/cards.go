package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"recorddeck/internal/record"
	"recorddeck/internal/ui/textutil"
)

// maxColumns caps how many cards share a row.
const maxColumns = 3

// CardGridView shows the records as numbered cards.
type CardGridView struct {
	Title    string
	Records  []record.Record
	Genders  record.GenderSet
	Selected int
	Width    int

	loaded  bool
	stale   bool // last refresh failed; Records are from an earlier load
	loading bool
	spinner spinner.Model
}

var _ View = (*CardGridView)(nil)

// NewCardGridView creates an empty grid. Records arrive via SetRecords.
func NewCardGridView(title string, genders record.GenderSet) *CardGridView {
	return &CardGridView{
		Title:   title,
		Genders: genders,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(Styles.Title)),
	}
}

// SetRecords replaces the cards, keeping the selection in range.
func (v *CardGridView) SetRecords(rs []record.Record) {
	v.Records = rs
	v.loaded = true
	if v.Selected >= len(rs) {
		v.Selected = len(rs) - 1
	}
	if v.Selected < 0 {
		v.Selected = 0
	}
}

// SetStale marks whether the last refresh failed.
func (v *CardGridView) SetStale(stale bool) {
	v.stale = stale
}

// Stale reports whether the list shown is from an earlier load.
func (v *CardGridView) Stale() bool {
	return v.stale
}

// SetLoading toggles the header spinner.
func (v *CardGridView) SetLoading(loading bool) tea.Cmd {
	start := loading && !v.loading
	v.loading = loading
	if start {
		return v.spinner.Tick
	}
	return nil
}

// Loading reports whether a refresh is outstanding.
func (v *CardGridView) Loading() bool {
	return v.loading
}

// SelectedRecord returns the highlighted record.
func (v *CardGridView) SelectedRecord() (record.Record, bool) {
	if v.Selected < 0 || v.Selected >= len(v.Records) {
		return record.Record{}, false
	}
	return v.Records[v.Selected], true
}

// Columns returns how many cards fit per row at the current width.
func (v *CardGridView) Columns() int {
	return columnsFor(v.Width)
}

func columnsFor(width int) int {
	if width <= 0 {
		return 1
	}
	n := width / cardWidth
	if n < 1 {
		return 1
	}
	if n > maxColumns {
		return maxColumns
	}
	return n
}

// Init implements View.
func (v *CardGridView) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (v *CardGridView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.Width = msg.Width
	case spinner.TickMsg:
		if !v.loading {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	case tea.KeyMsg:
		v.move(msg.String())
	}
	return v, nil
}

func (v *CardGridView) move(k string) {
	n := len(v.Records)
	if n == 0 {
		return
	}
	cols := v.Columns()
	next := v.Selected
	switch k {
	case "left", "h":
		next--
	case "right", "l":
		next++
	case "up", "k":
		next -= cols
	case "down", "j":
		next += cols
	case "home", "g":
		next = 0
	case "end", "G":
		next = n - 1
	default:
		return
	}
	if next >= 0 && next < n {
		v.Selected = next
	}
}

// View implements View.
func (v *CardGridView) View() string {
	var b strings.Builder

	header := Styles.Title.Render(v.Title) + "  " + Styles.Selected.Render("[+]")
	if v.loading {
		header += " " + v.spinner.View()
	}
	b.WriteString(Styles.Header.Render(header) + "\n")
	b.WriteString(Styles.Hint.Render("n/+: new  e/enter: update  d: delete  r: refresh  SPC: commands") + "\n")
	if v.stale {
		b.WriteString(Styles.Muted.Render("Refresh failed, showing last loaded list") + "\n")
	}
	b.WriteString("\n")

	if len(v.Records) == 0 {
		if v.loaded {
			b.WriteString(Styles.Empty.Render("No records yet. Press n to add one."))
		} else {
			b.WriteString(Styles.Empty.Render("Loading…"))
		}
		return b.String()
	}

	cols := v.Columns()
	rows := make([]string, 0, (len(v.Records)+cols-1)/cols)
	for start := 0; start < len(v.Records); start += cols {
		end := start + cols
		if end > len(v.Records) {
			end = len(v.Records)
		}
		cards := make([]string, 0, cols)
		for i := start; i < end; i++ {
			cards = append(cards, v.card(i))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return b.String()
}

// CardTitle is the heading of the card at index i.
func CardTitle(i int, r record.Record) string {
	return fmt.Sprintf("%d. %s", i+1, r.FirstName)
}

func (v *CardGridView) card(i int) string {
	r := v.Records[i]
	style := Styles.Card
	if i == v.Selected {
		style = Styles.CardSelected
	}
	field := func(label, value string) string {
		return textutil.Field(label, Styles.CardKey.Render(label), value, cardInner)
	}
	body := []string{
		Styles.CardTitle.Render(textutil.Truncate(CardTitle(i, r), cardInner)),
		"",
		field("Phone:", r.Phone),
		field("Gender:", v.Genders.Label(r.Gender)),
		field("Birthdate:", r.Birthdate),
	}
	return style.Render(strings.Join(body, "\n"))
}
