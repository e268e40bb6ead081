package ui

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recorddeck/internal/crud"
)

func TestNoticeBar_ExpiresOnlyItsOwnNotice(t *testing.T) {
	b := NoticeBar{TTL: time.Millisecond}
	first := b.Show(Notice{Text: "one"})
	require.NotNil(t, first)
	expired := first().(noticeExpiredMsg)

	b.Show(Notice{Text: "two", Error: true})
	b.Expire(expired)
	n, ok := b.Current()
	require.True(t, ok, "a newer notice survives the old expiry")
	assert.Equal(t, "two", n.Text)
	assert.Contains(t, b.View(), "two")

	b.Expire(noticeExpiredMsg{id: b.id})
	_, ok = b.Current()
	assert.False(t, ok)
	assert.Empty(t, b.View())
}

func TestResultNotice(t *testing.T) {
	n, ok := resultNotice(crud.Result{Op: crud.OpCreate}, "Student")
	require.True(t, ok)
	assert.Equal(t, Notice{Text: "Student created"}, n)

	n, ok = resultNotice(crud.Result{Op: crud.OpUpdate, ID: "1"}, "Blog")
	require.True(t, ok)
	assert.Equal(t, "Blog updated", n.Text)

	n, ok = resultNotice(crud.Result{Op: crud.OpDelete, Err: errors.New("boom")}, "Student")
	require.True(t, ok)
	assert.True(t, n.Error)
	assert.Equal(t, "Student not deleted: boom", n.Text)

	n, ok = resultNotice(crud.Result{Op: crud.OpCreate, Err: errors.New("boom")}, "Student")
	require.True(t, ok)
	assert.Equal(t, "Student not saved: boom", n.Text)

	_, ok = resultNotice(crud.Result{Op: crud.OpDelete, Err: crud.ErrNotConfirmed}, "Student")
	assert.False(t, ok)
}
