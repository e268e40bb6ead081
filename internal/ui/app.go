package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"recorddeck/internal/config"
	"recorddeck/internal/crud"
	"recorddeck/internal/logging"
	"recorddeck/internal/record"
)

// AppModel is the root model: a card grid with form and confirm overlays,
// driving one crud.Session.
type AppModel struct {
	Session    *crud.Session
	Grid       *CardGridView
	Overlays   OverlayStack
	KeyHandler *KeyHandler
	Notices    NoticeBar

	noun    string
	genders record.GenderSet
	widget  config.GenderWidget

	ctx    context.Context
	cancel context.CancelFunc
	log    *logrus.Entry

	width, height int
}

var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// NewAppModel builds the UI for s. Requests run under a context derived
// from ctx that is cancelled by Close.
func NewAppModel(ctx context.Context, s *crud.Session, cfg config.Config, logger logrus.FieldLogger) *AppModel {
	if logger == nil {
		logger = logging.Discard()
	}
	ctx, cancel := context.WithCancel(ctx)
	return &AppModel{
		Session:    s,
		Grid:       NewCardGridView(cfg.Title, cfg.Genders),
		KeyHandler: NewKeyHandler(newRegistry()),
		noun:       cfg.Noun(),
		genders:    cfg.Genders,
		widget:     cfg.GenderWidget,
		ctx:        ctx,
		cancel:     cancel,
		log:        logging.Component(logger, "ui"),
	}
}

func newRegistry() *KeybindRegistry {
	quit := msgCmd(QuitMsg{})
	create := msgCmd(ShowCreateFormMsg{})
	edit := msgCmd(ShowEditFormMsg{})
	del := msgCmd(ShowDeleteConfirmMsg{})
	refresh := msgCmd(RefreshMsg{})

	reg := NewKeybindRegistry()
	reg.Bind("q", quit, "Quit")
	reg.Bind("ctrl+c", quit, "Quit")
	reg.Bind("SPC q", quit, "Quit")
	reg.Bind("n", create, "New record")
	reg.Bind("+", create, "New record")
	reg.Bind("SPC n", create, "New record")
	reg.Bind("r", refresh, "Refresh")
	reg.Bind("SPC r", refresh, "Refresh")
	reg.Bind("e", edit, "Update", ModeBrowse)
	reg.Bind("enter", edit, "Update", ModeBrowse)
	reg.Bind("d", del, "Delete", ModeBrowse)
	reg.Bind("SPC c e", edit, "Update", ModeBrowse)
	reg.Bind("SPC c d", del, "Delete", ModeBrowse)
	reg.Group("c", "Card")
	return reg
}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (m *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: m}
}

// Mode reports which surface takes keys.
func (m *AppModel) Mode() AppMode {
	if top, ok := m.Overlays.Peek(); ok {
		if top.Kind == OverlayForm {
			return ModeForm
		}
		return ModeConfirm
	}
	if len(m.Grid.Records) > 0 {
		return ModeBrowse
	}
	return ModeEmpty
}

// Close cancels outstanding requests and closes the session. Results that
// arrive afterwards are dropped.
func (m *AppModel) Close() {
	m.cancel()
	m.Overlays.Clear()
	m.KeyHandler.Reset()
	m.Session.Close()
}

// formModal returns the form if it is the top overlay.
func (m *AppModel) formModal() (*RecordFormModal, bool) {
	top, ok := m.Peek(OverlayForm)
	if !ok {
		return nil, false
	}
	f, ok := top.View.(*RecordFormModal)
	return f, ok
}

// Peek returns the top overlay if it has kind k.
func (m *AppModel) Peek(k OverlayKind) (Overlay, bool) {
	if !m.Overlays.TopIs(k) {
		return Overlay{}, false
	}
	return m.Overlays.Peek()
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	a.log.Info("mounted")
	return a.refresh()
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.Grid.Update(msg)
		return a, nil
	case spinner.TickMsg:
		return a.handleSpinnerTick(msg)
	case noticeExpiredMsg:
		a.Notices.Expire(msg)
		return a, nil
	case QuitMsg:
		a.Close()
		return a, tea.Quit
	case RefreshMsg:
		return a, a.refresh()
	case RecordsLoadedMsg:
		return a.handleRecordsLoaded(msg)
	case ShowCreateFormMsg:
		return a.handleShowCreateForm()
	case ShowEditFormMsg:
		return a.handleShowEditForm()
	case SubmitFormMsg:
		return a.handleSubmitForm(msg)
	case SubmitDoneMsg:
		return a.handleSubmitDone(msg)
	case ShowDeleteConfirmMsg:
		return a.handleShowDeleteConfirm()
	case DeleteConfirmedMsg:
		return a.handleDeleteConfirmed(msg)
	case DeleteDoneMsg:
		return a.handleDeleteDone(msg)
	case DismissModalMsg:
		return a.handleDismissModal()
	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	if cmd, ok := a.Overlays.UpdateTop(msg); ok {
		return a, cmd
	}
	return a, nil
}

func (a *appModelAdapter) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, msgCmd(QuitMsg{})
	}
	// Modals get every key so text fields can take q, n, space and so on.
	if cmd, ok := a.Overlays.UpdateTop(msg); ok {
		return a, cmd
	}
	if consumed, cmd := a.KeyHandler.Handle(msg, a.Mode()); consumed {
		return a, cmd
	}
	_, cmd := a.Grid.Update(msg)
	return a, cmd
}

func (a *appModelAdapter) handleSpinnerTick(msg spinner.TickMsg) (tea.Model, tea.Cmd) {
	_, gridCmd := a.Grid.Update(msg)
	overlayCmd, _ := a.Overlays.UpdateTop(msg)
	return a, tea.Batch(gridCmd, overlayCmd)
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	notice := a.Notices.View()
	if top, ok := a.Overlays.Peek(); ok {
		modal := top.View.View()
		if a.width > 0 && a.height > 0 {
			modal = lipgloss.Place(a.width, a.height-2, lipgloss.Center, lipgloss.Center, modal)
		}
		if notice != "" {
			modal += "\n" + notice
		}
		return modal
	}

	base := a.Grid.View()
	if notice != "" {
		base += "\n\n" + notice
	}
	if a.KeyHandler != nil && a.KeyHandler.LeaderWaiting {
		base += "\n" + RenderKeybindHelp(a.KeyHandler, a.Mode())
	}
	return base
}
