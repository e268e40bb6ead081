package ui

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"recorddeck/internal/config"
	"recorddeck/internal/record"
)

// fieldSubmit is the focus id of the submit button.
const fieldSubmit = "Submit"

var fieldLabels = map[string]string{
	record.FieldFirstName: "First Name",
	record.FieldLastName:  "Last Name",
	record.FieldPhone:     "Phone",
	record.FieldGender:    "Gender",
	record.FieldBirthdate: "Birthdate",
}

// textFields are the fields edited with a textinput, in form order.
var textFields = []string{record.FieldFirstName, record.FieldLastName, record.FieldPhone, record.FieldBirthdate}

// RecordFormModal edits one record. It only collects values; validation
// and the in-flight guard live in crud.Controller and are mirrored here
// through SetState.
type RecordFormModal struct {
	Title       string
	SubmitLabel string

	inputs  map[string]*textinput.Model
	gender  record.Gender
	genders record.GenderSet
	widget  config.GenderWidget
	focus   FocusRing

	errs      *record.ValidationError
	submitErr error
	inFlight  bool
	spinner   spinner.Model
}

var _ View = (*RecordFormModal)(nil)

// NewRecordFormModal builds a form pre-filled with values.
func NewRecordFormModal(title, submitLabel string, values record.Fields, genders record.GenderSet, widget config.GenderWidget) *RecordFormModal {
	m := &RecordFormModal{
		Title:       title,
		SubmitLabel: submitLabel,
		inputs:      make(map[string]*textinput.Model, len(textFields)),
		gender:      values.Gender,
		genders:     genders,
		widget:      widget,
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(Styles.Title)),
	}

	initial := map[string]string{
		record.FieldFirstName: values.FirstName,
		record.FieldLastName:  values.LastName,
		record.FieldPhone:     values.Phone,
		record.FieldBirthdate: values.Birthdate,
	}
	for _, f := range textFields {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Width = 30
		ti.SetValue(initial[f])
		switch f {
		case record.FieldPhone:
			ti.CharLimit = 15
			ti.Placeholder = "digits only"
		case record.FieldBirthdate:
			ti.CharLimit = 10
			ti.Placeholder = "YYYY-MM-DD"
		default:
			ti.CharLimit = 64
		}
		m.inputs[f] = &ti
	}

	m.focus = FocusRing{
		Order:    append(append([]string{}, record.FieldOrder...), fieldSubmit),
		OnChange: m.moveFocus,
	}
	m.inputs[record.FieldFirstName].Focus()
	return m
}

func (m *RecordFormModal) moveFocus(from, to string) {
	if in, ok := m.inputs[from]; ok {
		in.Blur()
	}
	if in, ok := m.inputs[to]; ok {
		in.Focus()
	}
}

// Values returns what is currently entered.
func (m *RecordFormModal) Values() record.Fields {
	return record.Fields{
		FirstName: m.inputs[record.FieldFirstName].Value(),
		LastName:  m.inputs[record.FieldLastName].Value(),
		Phone:     m.inputs[record.FieldPhone].Value(),
		Gender:    m.gender,
		Birthdate: m.inputs[record.FieldBirthdate].Value(),
	}
}

// Focused returns the focused field name, or "Submit".
func (m *RecordFormModal) Focused() string {
	return m.focus.ID()
}

// InFlight reports whether a submission is being sent.
func (m *RecordFormModal) InFlight() bool {
	return m.inFlight
}

// FieldError returns the message shown under field.
func (m *RecordFormModal) FieldError(field string) string {
	return m.errs.Message(field)
}

// SetState mirrors the controller after a submit attempt. With field
// errors, focus jumps to the first invalid field.
func (m *RecordFormModal) SetState(errs *record.ValidationError, submitErr error, inFlight bool) tea.Cmd {
	m.errs = errs
	m.submitErr = submitErr
	started := inFlight && !m.inFlight
	m.inFlight = inFlight
	if errs != nil {
		for _, f := range record.FieldOrder {
			if errs.Message(f) != "" {
				m.focus.SetFocus(f)
				break
			}
		}
	}
	if started {
		return m.spinner.Tick
	}
	return nil
}

// Init implements View.
func (m *RecordFormModal) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements View.
func (m *RecordFormModal) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.inFlight {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	// Cursor blink and other input internals go to the focused field.
	if in, ok := m.inputs[m.focus.ID()]; ok {
		updated, cmd := in.Update(msg)
		*in = updated
		return m, cmd
	}
	return m, nil
}

func (m *RecordFormModal) handleKey(msg tea.KeyMsg) (View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, func() tea.Msg { return DismissModalMsg{} }
	case "tab", "down":
		m.focus.Next()
		return m, nil
	case "shift+tab", "up":
		m.focus.Prev()
		return m, nil
	case "ctrl+s":
		return m, m.submit()
	case "enter":
		if m.focus.ID() == fieldSubmit {
			return m, m.submit()
		}
		m.focus.Next()
		return m, nil
	}

	switch field := m.focus.ID(); field {
	case fieldSubmit:
		if msg.String() == " " {
			return m, m.submit()
		}
		return m, nil
	case record.FieldGender:
		m.updateGender(msg.String())
		return m, nil
	default:
		if m.inFlight {
			return m, nil
		}
		filtered, ok := filterKey(field, msg)
		if !ok {
			return m, nil
		}
		in := m.inputs[field]
		updated, cmd := in.Update(filtered)
		*in = updated
		return m, cmd
	}
}

func (m *RecordFormModal) submit() tea.Cmd {
	if m.inFlight {
		return nil
	}
	values := m.Values()
	return func() tea.Msg { return SubmitFormMsg{Fields: values} }
}

// updateGender applies a key to the gender widget. The radio cycles
// through every option; the checkbox is checked for the first option and
// unchecked for the second.
func (m *RecordFormModal) updateGender(k string) {
	if m.inFlight || len(m.genders) == 0 {
		return
	}
	switch k {
	case "left", "h":
		m.gender = m.genders.Prev(m.gender)
	case "right", "l":
		m.gender = m.genders.Next(m.gender)
	case " ", "x":
		if m.widget == config.WidgetCheckbox && m.gender == "" {
			m.gender = m.genders[0].Tag
			return
		}
		m.gender = m.genders.Next(m.gender)
	}
}

// filterKey drops runes a field does not accept: phone takes digits,
// birthdate digits and '-'.
func filterKey(field string, msg tea.KeyMsg) (tea.KeyMsg, bool) {
	if msg.Type != tea.KeyRunes && msg.Type != tea.KeySpace {
		return msg, true
	}
	var allow func(rune) bool
	switch field {
	case record.FieldPhone:
		allow = unicode.IsDigit
	case record.FieldBirthdate:
		allow = func(r rune) bool { return unicode.IsDigit(r) || r == '-' }
	default:
		return msg, true
	}
	if msg.Type == tea.KeySpace {
		return msg, false
	}
	kept := make([]rune, 0, len(msg.Runes))
	for _, r := range msg.Runes {
		if allow(r) {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		return msg, false
	}
	msg.Runes = kept
	return msg, true
}

// View implements View.
func (m *RecordFormModal) View() string {
	var b strings.Builder
	b.WriteString(Styles.Title.Render(m.Title) + "\n\n")

	for _, f := range record.FieldOrder {
		label := Styles.FieldLabel
		if m.focus.ID() == f {
			label = Styles.FieldFocused
		}
		b.WriteString(label.Render(fieldLabels[f]) + "\n")
		if f == record.FieldGender {
			b.WriteString(m.genderView() + "\n")
		} else {
			b.WriteString(m.inputs[f].View() + "\n")
		}
		if msg := m.errs.Message(f); msg != "" {
			b.WriteString(Styles.FieldError.Render(msg) + "\n")
		}
		b.WriteString("\n")
	}

	button := Styles.Button
	if m.focus.ID() == fieldSubmit {
		button = Styles.ButtonActive
	}
	line := button.Render(m.SubmitLabel)
	if m.inFlight {
		line += " " + m.spinner.View() + Styles.Muted.Render(" sending…")
	}
	b.WriteString(line + "\n")
	if m.submitErr != nil {
		b.WriteString("\n" + Styles.FieldError.Render(m.submitErr.Error()) + "\n")
	}
	b.WriteString("\n" + Styles.Hint.Render("tab: next  enter: next/submit  esc: cancel"))
	return Styles.Box.Render(b.String())
}

func (m *RecordFormModal) genderView() string {
	if m.widget == config.WidgetCheckbox && len(m.genders) > 0 {
		first := m.genders[0]
		box := "[ ]"
		if m.gender == first.Tag {
			box = "[x]"
		}
		s := box + " " + first.Label
		if m.gender == "" {
			s += Styles.Muted.Render("  (not set, space to check)")
		}
		return s
	}

	parts := make([]string, 0, len(m.genders))
	for _, o := range m.genders {
		mark := "( )"
		style := Styles.Normal
		if o.Tag == m.gender {
			mark = "(•)"
			style = Styles.Selected
		}
		parts = append(parts, style.Render(mark+" "+o.Label))
	}
	return strings.Join(parts, "  ")
}
