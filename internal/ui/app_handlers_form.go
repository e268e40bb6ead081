package ui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"recorddeck/internal/crud"
	"recorddeck/internal/record"
)

// handleShowCreateForm opens an empty form.
func (a *appModelAdapter) handleShowCreateForm() (tea.Model, tea.Cmd) {
	if a.Overlays.Len() > 0 {
		return a, nil
	}
	if err := a.Session.NewRecord(); err != nil {
		a.log.WithError(err).Debug("open create form")
		return a, nil
	}
	return a, a.pushForm()
}

// handleShowEditForm opens the form on the selected card.
func (a *appModelAdapter) handleShowEditForm() (tea.Model, tea.Cmd) {
	if a.Overlays.Len() > 0 {
		return a, nil
	}
	r, ok := a.Grid.SelectedRecord()
	if !ok {
		return a, nil
	}
	if err := a.Session.EditRecord(r.ID); err != nil {
		a.log.WithError(err).WithField("id", r.ID).Warn("open edit form")
		return a, a.Notices.Show(Notice{Text: err.Error(), Error: true})
	}
	return a, a.pushForm()
}

func (a *appModelAdapter) pushForm() tea.Cmd {
	form := a.Session.Form()
	modal := NewRecordFormModal(form.Title(a.noun), form.SubmitLabel(), form.Values(), a.genders, a.widget)
	a.Overlays.Push(Overlay{View: modal, Kind: OverlayForm})
	return modal.Init()
}

// handleSubmitForm validates and, if clean, sends the form. Field errors
// stay in the form; nothing is sent and no refresh is requested.
func (a *appModelAdapter) handleSubmitForm(msg SubmitFormMsg) (tea.Model, tea.Cmd) {
	modal, ok := a.formModal()
	if !ok {
		return a, nil
	}
	sub, err := a.Session.BeginSubmit(msg.Fields)
	var verr *record.ValidationError
	switch {
	case errors.As(err, &verr):
		return a, modal.SetState(verr, nil, false)
	case errors.Is(err, crud.ErrInFlight):
		return a, nil
	case err != nil:
		a.log.WithError(err).Warn("submit form")
		return a, nil
	}
	return a, tea.Batch(modal.SetState(nil, nil, true), submitCmd(a.ctx, a.Session, sub))
}

// handleSubmitDone resolves the form. Success closes it and refreshes;
// failure keeps it open with the values and shows the error.
func (a *appModelAdapter) handleSubmitDone(msg SubmitDoneMsg) (tea.Model, tea.Cmd) {
	if a.Session.Closed() {
		return a, nil
	}
	refresh := a.Session.FinishSubmit(msg.Submission, msg.Result)

	var cmds []tea.Cmd
	form := a.Session.Form()
	if modal, ok := a.formModal(); ok {
		if form.IsOpen() {
			cmds = append(cmds, modal.SetState(form.FieldErrors(), form.SubmitErr(), form.InFlight()))
		} else {
			a.Overlays.Pop()
		}
	}
	if n, ok := resultNotice(msg.Result, a.noun); ok {
		cmds = append(cmds, a.Notices.Show(n))
	}
	if refresh {
		cmds = append(cmds, a.refresh())
	}
	return a, tea.Batch(cmds...)
}
