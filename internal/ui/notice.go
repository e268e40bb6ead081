package ui

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"recorddeck/internal/crud"
)

// DefaultNoticeTTL is how long a notice stays up.
const DefaultNoticeTTL = 4 * time.Second

// Notice is one banner line.
type Notice struct {
	Text  string
	Error bool
}

// noticeExpiredMsg clears the notice it was scheduled for.
type noticeExpiredMsg struct{ id int }

// NoticeBar shows the latest notice until it expires or is replaced.
type NoticeBar struct {
	TTL     time.Duration
	current *Notice
	id      int
}

// Show replaces the current notice and schedules its expiry.
func (b *NoticeBar) Show(n Notice) tea.Cmd {
	b.id++
	b.current = &n
	ttl := b.TTL
	if ttl <= 0 {
		ttl = DefaultNoticeTTL
	}
	id := b.id
	return tea.Tick(ttl, func(time.Time) tea.Msg { return noticeExpiredMsg{id: id} })
}

// Expire clears the notice if msg belongs to it. A newer notice stays.
func (b *NoticeBar) Expire(msg noticeExpiredMsg) {
	if msg.id == b.id {
		b.current = nil
	}
}

// Current returns the notice on screen.
func (b *NoticeBar) Current() (Notice, bool) {
	if b.current == nil {
		return Notice{}, false
	}
	return *b.current, true
}

// View implements the banner line; empty when nothing is shown.
func (b *NoticeBar) View() string {
	if b.current == nil {
		return ""
	}
	if b.current.Error {
		return Styles.NoticeErr.Render("✗ " + b.current.Text)
	}
	return Styles.NoticeOK.Render("✓ " + b.current.Text)
}

var pastTense = map[crud.Op]string{
	crud.OpCreate: "created",
	crud.OpUpdate: "updated",
	crud.OpDelete: "deleted",
}

// resultNotice describes res for the banner. A declined delete has nothing
// to report.
func resultNotice(res crud.Result, noun string) (Notice, bool) {
	if errors.Is(res.Err, crud.ErrNotConfirmed) {
		return Notice{}, false
	}
	if res.Err != nil {
		verb := "saved"
		if res.Op == crud.OpDelete {
			verb = "deleted"
		}
		return Notice{Text: fmt.Sprintf("%s not %s: %v", noun, verb, res.Err), Error: true}, true
	}
	return Notice{Text: fmt.Sprintf("%s %s", noun, pastTense[res.Op])}, true
}
