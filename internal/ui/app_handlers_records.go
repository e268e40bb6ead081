package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// refresh registers a refresh request and starts loading it.
func (a *appModelAdapter) refresh() tea.Cmd {
	t, err := a.Session.RequestRefresh()
	if err != nil {
		return nil
	}
	return tea.Batch(a.Grid.SetLoading(true), loadRecordsCmd(a.ctx, a.Session, t))
}

// handleRecordsLoaded applies a snapshot. Stale and post-close snapshots
// are dropped by the store; the grid always mirrors what the store holds.
func (a *appModelAdapter) handleRecordsLoaded(msg RecordsLoadedMsg) (tea.Model, tea.Cmd) {
	if a.Session.Closed() {
		return a, nil
	}
	a.Session.ApplySnapshot(msg.Snapshot)
	store := a.Session.Store()
	a.Grid.SetRecords(store.Records())
	a.Grid.SetStale(store.LastErr() != nil)
	return a, a.Grid.SetLoading(store.Pending())
}

// handleShowDeleteConfirm asks before deleting the selected card.
func (a *appModelAdapter) handleShowDeleteConfirm() (tea.Model, tea.Cmd) {
	if a.Overlays.Len() > 0 {
		return a, nil
	}
	r, ok := a.Grid.SelectedRecord()
	if !ok {
		return a, nil
	}
	modal := NewDeleteRecordConfirmModal(r)
	a.Overlays.Push(Overlay{View: modal, Kind: OverlayConfirm})
	return a, modal.Init()
}

// handleDeleteConfirmed closes the prompt and sends the answer. A "no" is
// refused by the session without any request.
func (a *appModelAdapter) handleDeleteConfirmed(msg DeleteConfirmedMsg) (tea.Model, tea.Cmd) {
	if a.Overlays.TopIs(OverlayConfirm) {
		a.Overlays.Pop()
	}
	return a, deleteCmd(a.ctx, a.Session, msg.Confirmation)
}

// handleDeleteDone shows the outcome and refreshes after a delete.
func (a *appModelAdapter) handleDeleteDone(msg DeleteDoneMsg) (tea.Model, tea.Cmd) {
	if a.Session.Closed() {
		return a, nil
	}
	var cmds []tea.Cmd
	if n, ok := resultNotice(msg.Result, a.noun); ok {
		cmds = append(cmds, a.Notices.Show(n))
	}
	if a.Session.FinishDelete(msg.Result) {
		cmds = append(cmds, a.refresh())
	}
	return a, tea.Batch(cmds...)
}

// handleDismissModal closes the top overlay. Closing the form discards it.
func (a *appModelAdapter) handleDismissModal() (tea.Model, tea.Cmd) {
	top, ok := a.Overlays.Pop()
	if ok && top.Kind == OverlayForm {
		a.Session.CancelForm()
	}
	return a, nil
}
