package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"recorddeck/internal/crud"
	"recorddeck/internal/record"
)

// ConfirmModal asks a yes/no question. y or Enter confirms; n or Esc
// declines.
type ConfirmModal struct {
	Title     string
	Label     string
	Details   string
	OnConfirm func() tea.Msg
	OnDecline func() tea.Msg // defaults to DismissModalMsg

	boxStyle    lipgloss.Style
	titleStyle  lipgloss.Style
	detailStyle lipgloss.Style
}

var _ View = (*ConfirmModal)(nil)

// NewConfirmModal creates a confirmation modal.
func NewConfirmModal(title, label string, onConfirm func() tea.Msg) *ConfirmModal {
	return &ConfirmModal{
		Title:       title,
		Label:       label,
		OnConfirm:   onConfirm,
		boxStyle:    Styles.BoxDanger,
		titleStyle:  Styles.TitleWarning,
		detailStyle: Styles.Details,
	}
}

// WithDetails adds a line under the label.
func (m *ConfirmModal) WithDetails(details string) *ConfirmModal {
	m.Details = details
	return m
}

// NewDeleteRecordConfirmModal asks before deleting r. The answer is sent
// as a DeleteConfirmedMsg either way, so a "no" never reaches the API.
func NewDeleteRecordConfirmModal(r record.Record) *ConfirmModal {
	answer := func(yes bool) func() tea.Msg {
		return func() tea.Msg {
			return DeleteConfirmedMsg{Confirmation: crud.Confirmation{ID: r.ID, Yes: yes}}
		}
	}
	m := NewConfirmModal("Delete record", "Are you sure you want to delete this record?", answer(true))
	m.OnDecline = answer(false)
	return m.WithDetails(fmt.Sprintf("%s %s", r.FirstName, r.LastName))
}

// Init implements View.
func (m *ConfirmModal) Init() tea.Cmd {
	return nil
}

// Update implements View.
func (m *ConfirmModal) Update(msg tea.Msg) (View, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "enter", "y", "Y":
		if m.OnConfirm != nil {
			return m, m.OnConfirm
		}
	case "esc", "n", "N":
		if m.OnDecline != nil {
			return m, m.OnDecline
		}
		return m, func() tea.Msg { return DismissModalMsg{} }
	}
	return m, nil
}

// View implements View.
func (m *ConfirmModal) View() string {
	content := m.titleStyle.Render(m.Title) + "\n\n"
	content += Styles.Label.Render(m.Label)
	if m.Details != "" {
		content += "\n" + m.detailStyle.Render(m.Details)
	}
	content += "\n\n" + Styles.Hint.Render("y/Enter: yes  n/Esc: no")
	return m.boxStyle.Render(content)
}
