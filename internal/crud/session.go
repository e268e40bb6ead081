package crud

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"recorddeck/internal/logging"
	"recorddeck/internal/record"
)

// ErrUnknownRecord is returned when editing an id the store does not hold.
var ErrUnknownRecord = errors.New("unknown record")

// SessionOptions configures a Session.
type SessionOptions struct {
	Timeout time.Duration // per API call; zero means none
	Logger  logrus.FieldLogger
}

// Session is the state of one mounted record view. The step methods
// (RequestRefresh/LoadSnapshot/ApplySnapshot, BeginSubmit/PerformSubmit/
// FinishSubmit, Delete/FinishDelete) let an event loop run the blocking
// parts elsewhere; Refresh, SubmitForm and ConfirmDelete chain them
// synchronously.
type Session struct {
	store   *Store
	form    *Controller
	actions *Actions
	timeout time.Duration
	log     *logrus.Entry
}

// NewSession wires a store, controller and actions to svc.
func NewSession(svc Service, opts SessionOptions) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Session{
		store:   NewStore(svc, logger),
		form:    NewController(),
		actions: NewActions(svc, opts.Timeout, logger),
		timeout: opts.Timeout,
		log:     logging.Component(logger, "session"),
	}
}

// Store returns the list store.
func (s *Session) Store() *Store { return s.store }

// Form returns the modal controller.
func (s *Session) Form() *Controller { return s.form }

// Records returns the current list.
func (s *Session) Records() []record.Record { return s.store.Records() }

// Mount performs the initial load.
func (s *Session) Mount(ctx context.Context) error {
	s.log.Info("mounted")
	return s.Refresh(ctx)
}

// Close tears the session down. Results that arrive afterwards are ignored.
func (s *Session) Close() {
	if s.store.Closed() {
		return
	}
	s.store.Close()
	s.form.Cancel()
	s.log.Info("closed")
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool { return s.store.Closed() }

// RequestRefresh registers a refresh request.
func (s *Session) RequestRefresh() (Ticket, error) {
	if s.Closed() {
		return Ticket{}, ErrClosed
	}
	return s.store.Request(), nil
}

// LoadSnapshot fetches the collection for t under the call timeout.
func (s *Session) LoadSnapshot(ctx context.Context, t Ticket) Snapshot {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	snap := s.store.Load(ctx, t)
	if snap.Err != nil {
		snap.Err = fmt.Errorf("load records: %w", snap.Err)
	}
	return snap
}

// ApplySnapshot installs snap; see Store.Apply.
func (s *Session) ApplySnapshot(snap Snapshot) bool {
	return s.store.Apply(snap)
}

// Refresh reloads the list now. On failure the previous list is kept.
func (s *Session) Refresh(ctx context.Context) error {
	t, err := s.RequestRefresh()
	if err != nil {
		return err
	}
	snap := s.LoadSnapshot(ctx, t)
	s.ApplySnapshot(snap)
	return snap.Err
}

// NewRecord opens the form in create mode.
func (s *Session) NewRecord() error {
	if s.Closed() {
		return ErrClosed
	}
	return s.form.OpenCreate()
}

// EditRecord opens the form for the record with id.
func (s *Session) EditRecord(id string) error {
	if s.Closed() {
		return ErrClosed
	}
	r, ok := s.store.Find(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRecord, id)
	}
	return s.form.OpenEdit(r)
}

// CancelForm closes the form without calling the API.
func (s *Session) CancelForm() {
	s.form.Cancel()
}

// BeginSubmit validates values and marks the form in flight.
func (s *Session) BeginSubmit(values record.Fields) (Submission, error) {
	if s.Closed() {
		return Submission{}, ErrClosed
	}
	return s.form.Submit(values)
}

// PerformSubmit sends sub to the API.
func (s *Session) PerformSubmit(ctx context.Context, sub Submission) Result {
	return s.actions.Submit(ctx, sub)
}

// FinishSubmit applies res to the form and reports whether the list should
// be refreshed. A successful mutation refreshes even if the form was
// cancelled in the meantime, since the remote collection changed.
func (s *Session) FinishSubmit(sub Submission, res Result) bool {
	if s.Closed() {
		return false
	}
	s.form.Resolve(sub, res.Err)
	return res.OK()
}

// Delete removes the confirmed record.
func (s *Session) Delete(ctx context.Context, c Confirmation) Result {
	if s.Closed() {
		return Result{Op: OpDelete, ID: c.ID, Err: ErrClosed}
	}
	return s.actions.Delete(ctx, c)
}

// FinishDelete reports whether the list should be refreshed after res.
func (s *Session) FinishDelete(res Result) bool {
	return !s.Closed() && res.OK()
}

// SubmitForm runs a whole submission synchronously and refreshes on
// success. Validation and re-entrancy errors are returned as err with no
// API call made.
func (s *Session) SubmitForm(ctx context.Context, values record.Fields) (Result, error) {
	sub, err := s.BeginSubmit(values)
	if err != nil {
		return Result{}, err
	}
	res := s.PerformSubmit(ctx, sub)
	if s.FinishSubmit(sub, res) {
		_ = s.Refresh(ctx)
	}
	return res, nil
}

// ConfirmDelete deletes synchronously and refreshes on success.
func (s *Session) ConfirmDelete(ctx context.Context, c Confirmation) Result {
	res := s.Delete(ctx, c)
	if s.FinishDelete(res) {
		_ = s.Refresh(ctx)
	}
	return res
}
