// Package ui is the Bubble Tea front end for recorddeck.
//
// Pieces:
//   - View: a screen region with its own Init/Update/View (Elm-style)
//   - CardGridView: the record cards, one to three per row
//   - RecordFormModal and ConfirmModal: overlays pushed on an OverlayStack
//   - KeyHandler: single keys plus SPC-prefixed leader sequences
//   - NoticeBar: transient result banners
//
// AppModel owns a crud.Session and turns its step methods into tea.Cmds so
// network calls never block the event loop.
package ui
