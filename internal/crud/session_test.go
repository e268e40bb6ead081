package crud

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recorddeck/internal/api"
	"recorddeck/internal/mockapi"
	"recorddeck/internal/record"
)

// newAPISession returns a session talking to an in-memory API over HTTP.
func newAPISession(t *testing.T, seed ...mockapi.Record) (*Session, *mockapi.Server) {
	t.Helper()
	srv := mockapi.New("/student", mockapi.WithIDs(mockapi.SequentialIDs()))
	srv.Seed(seed...)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	client, err := api.New(api.Options{
		BaseURL:  ts.URL,
		Resource: "/student",
		Gender:   api.GenderCodec{Set: record.DefaultGenders(), AsBool: true},
	})
	require.NoError(t, err)
	s := NewSession(client, SessionOptions{})
	t.Cleanup(s.Close)
	return s, srv
}

// annLee is stored with id "1" when seeded first.
func annLee() mockapi.Record {
	return mockapi.Record{
		FName:     "Ann",
		LName:     "Lee",
		Phone:     json.RawMessage(`5551234`),
		Gender:    json.RawMessage(`true`),
		Birthdate: "2000-01-01",
	}
}

func matching(records []record.Record, f record.Fields) int {
	n := 0
	for _, r := range records {
		if r.Fields == f {
			n++
		}
	}
	return n
}

func TestSession_RefreshIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, _ := newAPISession(t, annLee())
	require.NoError(t, s.Mount(ctx))
	first := s.Records()

	require.NoError(t, s.Refresh(ctx))
	assert.Equal(t, first, s.Records())
}

func TestSession_DeleteConfirmedScenario(t *testing.T) {
	ctx := context.Background()
	s, srv := newAPISession(t, annLee())
	require.NoError(t, s.Mount(ctx))
	require.Len(t, s.Records(), 1)
	assert.Equal(t, record.Record{ID: "1", Fields: ann()}, s.Records()[0])

	res := s.ConfirmDelete(ctx, Confirmation{ID: "1", Yes: true})
	require.True(t, res.OK(), "%v", res.Err)
	assert.Empty(t, s.Records())
	assert.Empty(t, srv.Records())
}

func TestSession_DeleteDeclinedSendsNothing(t *testing.T) {
	ctx := context.Background()
	s, srv := newAPISession(t, annLee())
	require.NoError(t, s.Mount(ctx))

	res := s.ConfirmDelete(ctx, Confirmation{ID: "1"})
	assert.ErrorIs(t, res.Err, ErrNotConfirmed)
	assert.Equal(t, 0, srv.Calls(http.MethodDelete))
	assert.Len(t, s.Records(), 1)
}

func TestSession_DeleteRemovesExactlyOne(t *testing.T) {
	ctx := context.Background()
	second := annLee()
	second.FName = "Bob"
	s, _ := newAPISession(t, annLee(), second)
	require.NoError(t, s.Mount(ctx))

	res := s.ConfirmDelete(ctx, Confirmation{ID: "2", Yes: true})
	require.True(t, res.OK())
	records := s.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "1", records[0].ID)
}

func TestSession_CreateIsIncluded(t *testing.T) {
	ctx := context.Background()
	s, _ := newAPISession(t, annLee())
	require.NoError(t, s.Mount(ctx))

	require.NoError(t, s.NewRecord())
	res, err := s.SubmitForm(ctx, bob())
	require.NoError(t, err)
	require.True(t, res.OK(), "%v", res.Err)

	records := s.Records()
	assert.Len(t, records, 2)
	assert.Equal(t, 1, matching(records, bob()))
	assert.Equal(t, Closed, s.Form().State())
	for _, r := range records {
		assert.NotEmpty(t, r.ID)
	}
}

func TestSession_UpdateReplaces(t *testing.T) {
	ctx := context.Background()
	s, _ := newAPISession(t, annLee())
	require.NoError(t, s.Mount(ctx))

	require.NoError(t, s.EditRecord("1"))
	_, editing := s.Form().Editing()
	require.True(t, editing)
	assert.Equal(t, ann(), s.Form().Values())

	changed := ann()
	changed.Phone = "5550000"
	res, err := s.SubmitForm(ctx, changed)
	require.NoError(t, err)
	require.True(t, res.OK(), "%v", res.Err)

	records := s.Records()
	require.Len(t, records, 1)
	assert.Equal(t, record.Record{ID: "1", Fields: changed}, records[0])
}

func TestSession_EditUnknownRecord(t *testing.T) {
	s, _ := newAPISession(t)
	require.NoError(t, s.Mount(context.Background()))
	assert.ErrorIs(t, s.EditRecord("nope"), ErrUnknownRecord)
	assert.Equal(t, Closed, s.Form().State())
}

func TestSession_ValidationGate(t *testing.T) {
	ctx := context.Background()
	s, srv := newAPISession(t, annLee())
	require.NoError(t, s.Mount(ctx))
	gets := srv.Calls(http.MethodGet)
	before := s.Records()

	empties := []func(*record.Fields){
		func(f *record.Fields) { f.FirstName = "" },
		func(f *record.Fields) { f.LastName = "  " },
		func(f *record.Fields) { f.Phone = "" },
		func(f *record.Fields) { f.Gender = "" },
		func(f *record.Fields) { f.Birthdate = "" },
	}
	for _, empty := range empties {
		require.NoError(t, s.NewRecord())
		values := bob()
		empty(&values)

		_, err := s.SubmitForm(ctx, values)
		var verr *record.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Fields, 1)
		assert.Equal(t, OpenCreate, s.Form().State())
		assert.False(t, s.Store().Pending())
		s.CancelForm()
	}

	assert.Equal(t, 0, srv.Calls(http.MethodPost))
	assert.Equal(t, gets, srv.Calls(http.MethodGet))
	assert.Equal(t, before, s.Records())
}

func TestSession_FailedCreateKeepsModal(t *testing.T) {
	ctx := context.Background()
	s, srv := newAPISession(t)
	require.NoError(t, s.Mount(ctx))
	gets := srv.Calls(http.MethodGet)
	srv.FailNext(http.MethodPost, 1)

	require.NoError(t, s.NewRecord())
	res, err := s.SubmitForm(ctx, bob())
	require.NoError(t, err)
	require.Error(t, res.Err)
	var serr *api.StatusError
	assert.ErrorAs(t, res.Err, &serr)
	assert.Equal(t, http.StatusInternalServerError, serr.StatusCode)

	assert.Equal(t, OpenCreate, s.Form().State())
	assert.Equal(t, bob(), s.Form().Values())
	assert.Error(t, s.Form().SubmitErr())
	assert.False(t, s.Form().InFlight())
	assert.Equal(t, gets, srv.Calls(http.MethodGet), "no refresh after failure")

	// Retry goes through.
	res, err = s.SubmitForm(ctx, bob())
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Len(t, s.Records(), 1)
}

func TestSession_InFlightRejected(t *testing.T) {
	ctx := context.Background()
	s, srv := newAPISession(t)
	require.NoError(t, s.Mount(ctx))
	require.NoError(t, s.NewRecord())

	sub, err := s.BeginSubmit(bob())
	require.NoError(t, err)
	_, err = s.BeginSubmit(bob())
	assert.ErrorIs(t, err, ErrInFlight)

	res := s.PerformSubmit(ctx, sub)
	require.True(t, res.OK())
	assert.True(t, s.FinishSubmit(sub, res))
	assert.Equal(t, 1, srv.Calls(http.MethodPost))
}

func TestSession_FetchFailureKeepsList(t *testing.T) {
	ctx := context.Background()
	s, srv := newAPISession(t, annLee())
	require.NoError(t, s.Mount(ctx))
	srv.FailNext(http.MethodGet, 1)

	err := s.Refresh(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load records")
	assert.Len(t, s.Records(), 1)
	assert.Error(t, s.Store().LastErr())
}

func TestSession_LateSnapshotsIgnored(t *testing.T) {
	ctx := context.Background()
	s, srv := newAPISession(t, annLee())
	require.NoError(t, s.Mount(ctx))

	older, err := s.RequestRefresh()
	require.NoError(t, err)
	late := annLee()
	late.FName = "Late"
	srv.Seed(late)
	newer, err := s.RequestRefresh()
	require.NoError(t, err)

	staleSnap := Snapshot{Ticket: older, Records: nil}
	assert.True(t, s.ApplySnapshot(s.LoadSnapshot(ctx, newer)))
	assert.False(t, s.ApplySnapshot(staleSnap))
	assert.Len(t, s.Records(), 2)

	next, err := s.RequestRefresh()
	require.NoError(t, err)
	snap := s.LoadSnapshot(ctx, next)
	s.Close()
	assert.False(t, s.ApplySnapshot(snap))
	assert.Len(t, s.Records(), 2)

	_, err = s.RequestRefresh()
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSession_ResultsAfterCloseIgnored(t *testing.T) {
	ctx := context.Background()
	s, _ := newAPISession(t, annLee())
	require.NoError(t, s.Mount(ctx))
	require.NoError(t, s.NewRecord())
	sub, err := s.BeginSubmit(bob())
	require.NoError(t, err)

	res := s.PerformSubmit(ctx, sub)
	s.Close()
	assert.False(t, s.FinishSubmit(sub, res))
	assert.False(t, s.FinishDelete(Result{Op: OpDelete}))
	assert.ErrorIs(t, s.NewRecord(), ErrClosed)
	assert.ErrorIs(t, s.Delete(ctx, Confirmation{ID: "1", Yes: true}).Err, ErrClosed)
}

func TestSession_CancelledFormStillRefreshes(t *testing.T) {
	ctx := context.Background()
	s, _ := newAPISession(t)
	require.NoError(t, s.Mount(ctx))
	require.NoError(t, s.NewRecord())
	sub, err := s.BeginSubmit(bob())
	require.NoError(t, err)
	s.CancelForm()

	res := s.PerformSubmit(ctx, sub)
	assert.True(t, s.FinishSubmit(sub, res), "the collection changed")
	assert.Equal(t, Closed, s.Form().State())
}

func TestSession_ModalInvariantAcrossTransitions(t *testing.T) {
	ctx := context.Background()
	svc := newFakeService(record.Record{ID: "1", Fields: ann()})
	s := NewSession(svc, SessionOptions{})
	require.NoError(t, s.Mount(ctx))
	form := s.Form()
	checkInvariant(t, form)

	steps := []func(){
		func() { _ = s.NewRecord() },
		func() { _ = s.EditRecord("1") },
		func() { _, _ = s.SubmitForm(ctx, record.Fields{}) },
		func() { s.CancelForm() },
		func() { _ = s.EditRecord("1") },
		func() { _, _ = s.SubmitForm(ctx, ann()) },
		func() { _ = s.NewRecord() },
		func() { svc.fail("create", errors.New("down")) },
		func() { _, _ = s.SubmitForm(ctx, bob()) },
		func() { svc.fail("create", nil) },
		func() { _, _ = s.SubmitForm(ctx, bob()) },
		func() { _ = s.EditRecord("2") },
		func() { s.Close() },
	}
	for _, step := range steps {
		step()
		checkInvariant(t, form)
	}
}
