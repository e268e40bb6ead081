package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"recorddeck/internal/crud"
)

// loadRecordsCmd fetches the collection for t off the event loop.
func loadRecordsCmd(ctx context.Context, s *crud.Session, t crud.Ticket) tea.Cmd {
	return func() tea.Msg {
		return RecordsLoadedMsg{Snapshot: s.LoadSnapshot(ctx, t)}
	}
}

// submitCmd sends a validated submission.
func submitCmd(ctx context.Context, s *crud.Session, sub crud.Submission) tea.Cmd {
	return func() tea.Msg {
		return SubmitDoneMsg{Submission: sub, Result: s.PerformSubmit(ctx, sub)}
	}
}

// deleteCmd sends a confirmed delete.
func deleteCmd(ctx context.Context, s *crud.Session, c crud.Confirmation) tea.Cmd {
	return func() tea.Msg {
		return DeleteDoneMsg{Result: s.Delete(ctx, c)}
	}
}

func msgCmd(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
