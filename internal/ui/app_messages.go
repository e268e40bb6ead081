package ui

import (
	"recorddeck/internal/crud"
	"recorddeck/internal/record"
)

// RefreshMsg asks for the list to be reloaded (r, SPC r).
type RefreshMsg struct{}

// RecordsLoadedMsg carries a fetched snapshot back to the event loop.
type RecordsLoadedMsg struct {
	Snapshot crud.Snapshot
}

// ShowCreateFormMsg opens an empty form (n, +, SPC n).
type ShowCreateFormMsg struct{}

// ShowEditFormMsg opens the form for the selected card (e, enter, SPC c e).
type ShowEditFormMsg struct{}

// SubmitFormMsg is sent by the form with the entered values.
type SubmitFormMsg struct {
	Fields record.Fields
}

// SubmitDoneMsg reports the API outcome of a submission.
type SubmitDoneMsg struct {
	Submission crud.Submission
	Result     crud.Result
}

// ShowDeleteConfirmMsg opens the delete prompt for the selected card (d, SPC c d).
type ShowDeleteConfirmMsg struct{}

// DeleteConfirmedMsg carries the answer to the delete prompt.
type DeleteConfirmedMsg struct {
	Confirmation crud.Confirmation
}

// DeleteDoneMsg reports the API outcome of a delete.
type DeleteDoneMsg struct {
	Result crud.Result
}

// DismissModalMsg is sent when the user cancels a modal (Esc).
type DismissModalMsg struct{}

// QuitMsg tears the session down and exits (q, ctrl+c, SPC q).
type QuitMsg struct{}
