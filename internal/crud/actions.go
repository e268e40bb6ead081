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

// Op names a mutating action.
type Op int

const (
	OpCreate Op = iota + 1
	OpUpdate
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// ErrNotConfirmed is returned by Delete when the user did not say yes.
var ErrNotConfirmed = errors.New("delete not confirmed")

// Mutator changes the remote collection.
type Mutator interface {
	Create(ctx context.Context, f record.Fields) error
	Update(ctx context.Context, id string, f record.Fields) error
	Delete(ctx context.Context, id string) error
}

// Service is the full API surface a Session needs.
type Service interface {
	Lister
	Mutator
}

// Confirmation is the user's answer to the delete prompt for ID.
type Confirmation struct {
	ID  string
	Yes bool
}

// Result is the typed outcome of an action.
type Result struct {
	Op  Op
	ID  string
	Err error
}

// OK reports success.
func (r Result) OK() bool { return r.Err == nil }

// Actions runs mutations against the API under a per-call timeout.
type Actions struct {
	svc     Mutator
	timeout time.Duration
	log     *logrus.Entry
}

// NewActions returns actions bound to m. A zero timeout means none.
func NewActions(m Mutator, timeout time.Duration, logger logrus.FieldLogger) *Actions {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Actions{svc: m, timeout: timeout, log: logging.Component(logger, "actions")}
}

// Create posts f.
func (a *Actions) Create(ctx context.Context, f record.Fields) Result {
	return a.run(ctx, OpCreate, "", func(ctx context.Context) error {
		return a.svc.Create(ctx, f)
	})
}

// Update replaces the record id with f.
func (a *Actions) Update(ctx context.Context, id string, f record.Fields) Result {
	return a.run(ctx, OpUpdate, id, func(ctx context.Context) error {
		return a.svc.Update(ctx, id, f)
	})
}

// Delete removes c.ID. Nothing is sent unless c.Yes is set.
func (a *Actions) Delete(ctx context.Context, c Confirmation) Result {
	if !c.Yes {
		return Result{Op: OpDelete, ID: c.ID, Err: ErrNotConfirmed}
	}
	return a.run(ctx, OpDelete, c.ID, func(ctx context.Context) error {
		return a.svc.Delete(ctx, c.ID)
	})
}

// Submit sends a form submission as a create or an update.
func (a *Actions) Submit(ctx context.Context, s Submission) Result {
	if s.Op == OpUpdate {
		return a.Update(ctx, s.ID, s.Fields)
	}
	return a.Create(ctx, s.Fields)
}

func (a *Actions) run(ctx context.Context, op Op, id string, fn func(context.Context) error) Result {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	entry := a.log.WithFields(logrus.Fields{"op": op.String(), "id": id})
	if err := fn(ctx); err != nil {
		entry.WithError(err).Error("action failed")
		return Result{Op: op, ID: id, Err: fmt.Errorf("%s record: %w", op, err)}
	}
	entry.Info("action succeeded")
	return Result{Op: op, ID: id}
}
